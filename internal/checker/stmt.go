package checker

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/rib"
	"github.com/oil-lang/oil/internal/types"
)

// InferBlock infers every statement in order; the block's type is the
// type of its last statement, or Unit if empty.
func (c *Checker) InferBlock(b *ast.Block) (types.Type, *address.Diagnostic) {
	var last types.Type = types.UnitType{}
	for i, s := range b.Statements {
		t, diag := c.inferStmt(s)
		if diag != nil {
			return nil, diag
		}
		if i == len(b.Statements)-1 {
			last = t
		}
	}
	return last, nil
}

func (c *Checker) inferStmt(s ast.Stmt) (types.Type, *address.Diagnostic) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return c.InferExpr(st.Value)

	case *ast.LetStmt:
		return c.inferLet(st)

	case *ast.AssignStmt:
		return c.inferAssign(st)

	case *ast.BreakStmt:
		if !c.ribs.ContainsRib(rib.KindLoop) {
			return nil, address.New(address.CodeBreakWithoutLoop, st.Location, "break outside of a loop")
		}
		return types.UnitType{}, nil

	case *ast.ContinueStmt:
		if !c.ribs.ContainsRib(rib.KindLoop) {
			return nil, address.New(address.CodeContinueWithoutLoop, st.Location, "continue outside of a loop")
		}
		return types.UnitType{}, nil

	case *ast.ReturnStmt:
		return c.inferReturn(st)
	}
	return types.UnitType{}, nil
}

func (c *Checker) inferLet(st *ast.LetStmt) (types.Type, *address.Diagnostic) {
	valType, diag := c.InferExpr(st.Value)
	if diag != nil {
		return nil, diag
	}

	if _, isCall := st.Value.(*ast.Call); isCall {
		if _, isUnit := c.hyd.Apply(valType).(types.UnitType); isUnit {
			return nil, address.New(address.CodeCallExprReturnsUnit, st.Value.Addr(),
				"call used as a value returns Unit")
		}
	}

	if st.Type != nil {
		annType, diag := c.resolveTypeExpr(st.Type)
		if diag != nil {
			return nil, diag
		}
		unified, diag := c.solver.Eq(origin(st.Location, annType), origin(st.Value.Addr(), valType))
		if diag != nil {
			return nil, address.New(address.CodeMismatchedTypeAnnotation, st.Location,
				"annotation %s does not match inferred type %s", annType, c.hyd.Apply(valType)).WithRelated(st.Value.Addr())
		}
		valType = unified
	}

	if diag := c.ribs.Define(st.Location, st.Name, c.hyd.ApplyDeep(valType), false); diag != nil {
		return nil, diag
	}
	return types.UnitType{}, nil
}

func (c *Checker) inferAssign(st *ast.AssignStmt) (types.Type, *address.Diagnostic) {
	targetType, diag := c.InferExpr(st.Target)
	if diag != nil {
		return nil, diag
	}
	valType, diag := c.InferExpr(st.Value)
	if diag != nil {
		return nil, diag
	}
	if _, diag := c.solver.Eq(origin(st.Target.Addr(), targetType), origin(st.Value.Addr(), valType)); diag != nil {
		return nil, address.New(address.CodeTypesMismatch, st.Location,
			"cannot assign %s to a target of type %s", c.hyd.Apply(valType), c.hyd.Apply(targetType)).WithRelated(st.Target.Addr(), st.Value.Addr())
	}
	return types.UnitType{}, nil
}

func (c *Checker) inferReturn(st *ast.ReturnStmt) (types.Type, *address.Diagnostic) {
	var t types.Type = types.UnitType{}
	if st.Value != nil {
		vt, diag := c.InferExpr(st.Value)
		if diag != nil {
			return nil, diag
		}
		t = vt
	}
	if c.currentReturn != nil {
		if _, diag := c.solver.Eq(origin(st.Location, t), origin(st.Location, *c.currentReturn)); diag != nil {
			return nil, diag
		}
		// A return never falls through, so in tail position the statement
		// takes the function's declared return type rather than Unit.
		return c.hyd.Apply(*c.currentReturn), nil
	}
	return types.UnitType{}, nil
}
