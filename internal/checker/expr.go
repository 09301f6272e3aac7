package checker

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/arena"
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/exhaust"
	"github.com/oil-lang/oil/internal/hydrator"
	"github.com/oil-lang/oil/internal/resolve"
	"github.com/oil-lang/oil/internal/rib"
	"github.com/oil-lang/oil/internal/types"
	"github.com/oil-lang/oil/internal/unify"
)

// InferExpr infers the type of one expression node.
func (c *Checker) InferExpr(e ast.Expr) (types.Type, *address.Diagnostic) {
	switch expr := e.(type) {
	case *ast.IntLit:
		return types.Prelude{Kind: types.Int}, nil
	case *ast.FloatLit:
		return types.Prelude{Kind: types.Float}, nil
	case *ast.BoolLit:
		return types.Prelude{Kind: types.Bool}, nil
	case *ast.StringLit:
		return types.Prelude{Kind: types.String}, nil

	case *ast.Ident:
		res, diag := c.resolver.Resolve(expr.Location, expr.Name)
		if diag != nil {
			return nil, diag
		}
		v, ok := res.(resolve.Value)
		if !ok {
			return nil, address.New(address.CodeUnexpectedResolution, expr.Location, "%q does not name a value", expr.Name)
		}
		return v.Type, nil

	case *ast.Binary:
		return c.inferBinary(expr)
	case *ast.Unary:
		return c.inferUnary(expr)
	case *ast.Range:
		return c.inferRange(expr)
	case *ast.FieldAccess:
		return c.inferFieldAccess(expr)
	case *ast.Call:
		return c.inferCall(expr)
	case *ast.Construct:
		return c.inferConstruct(expr)
	case *ast.Block:
		return c.InferBlock(expr)
	case *ast.If:
		return c.inferIf(expr)
	case *ast.Loop:
		return c.inferLoop(expr)
	case *ast.Match:
		return c.inferMatch(expr)
	}
	return nil, address.New(address.CodeUnexpectedResolution, e.Addr(), "unrecognized expression node")
}

func (c *Checker) inferBinary(e *ast.Binary) (types.Type, *address.Diagnostic) {
	lt, diag := c.InferExpr(e.Left)
	if diag != nil {
		return nil, diag
	}
	rt, diag := c.InferExpr(e.Right)
	if diag != nil {
		return nil, diag
	}

	switch e.Op {
	case ast.OpAnd, ast.OpOr:
		if _, diag := c.solver.Eq(origin(e.Left.Addr(), lt), origin(e.Location, types.Prelude{Kind: types.Bool})); diag != nil {
			return nil, diag
		}
		if _, diag := c.solver.Eq(origin(e.Right.Addr(), rt), origin(e.Location, types.Prelude{Kind: types.Bool})); diag != nil {
			return nil, diag
		}
		return types.Prelude{Kind: types.Bool}, nil

	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte:
		if _, diag := c.solver.Same([]unify.Origin{origin(e.Left.Addr(), lt), origin(e.Right.Addr(), rt)}); diag != nil {
			return nil, diag
		}
		return types.Prelude{Kind: types.Bool}, nil

	default: // arithmetic
		result, diag := c.solver.Same([]unify.Origin{origin(e.Left.Addr(), lt), origin(e.Right.Addr(), rt)})
		if diag != nil {
			return nil, address.New(address.CodeInvalidBinaryOp, e.Location, "invalid operand types for %q", e.Op).WithRelated(e.Left.Addr(), e.Right.Addr())
		}
		return result, nil
	}
}

func (c *Checker) inferUnary(e *ast.Unary) (types.Type, *address.Diagnostic) {
	t, diag := c.InferExpr(e.Operand)
	if diag != nil {
		return nil, diag
	}

	switch e.Op {
	case ast.OpNot:
		if _, diag := c.solver.Eq(origin(e.Operand.Addr(), t), origin(e.Location, types.Prelude{Kind: types.Bool})); diag != nil {
			return nil, address.New(address.CodeInvalidUnaryOp, e.Location, "%q requires a Bool operand", e.Op)
		}
		return types.Prelude{Kind: types.Bool}, nil
	default: // OpNeg
		applied := c.hyd.Apply(t)
		if p, ok := applied.(types.Prelude); ok && (p.Kind == types.Int || p.Kind == types.Float) {
			return applied, nil
		}
		result, diag := c.solver.Eq(origin(e.Operand.Addr(), t), origin(e.Location, types.Prelude{Kind: types.Int}))
		if diag != nil {
			return nil, address.New(address.CodeInvalidUnaryOp, e.Location, "%q requires a numeric operand", e.Op)
		}
		return result, nil
	}
}

func (c *Checker) inferRange(e *ast.Range) (types.Type, *address.Diagnostic) {
	ft, diag := c.InferExpr(e.From)
	if diag != nil {
		return nil, diag
	}
	tt, diag := c.InferExpr(e.To)
	if diag != nil {
		return nil, diag
	}
	if _, diag := c.solver.Eq(origin(e.From.Addr(), ft), origin(e.Location, types.Prelude{Kind: types.Int})); diag != nil {
		return nil, diag
	}
	if _, diag := c.solver.Eq(origin(e.To.Addr(), tt), origin(e.Location, types.Prelude{Kind: types.Int})); diag != nil {
		return nil, diag
	}
	// The grammar has no declared nominal "Iterable"/List static type for
	// a range expression's element stream (only a runtime List value
	// exists, in package value); Dyn stands in as the static type here,
	// which is sound since every operation Dyn permits is a checked
	// runtime operation anyway.
	return types.Dyn{}, nil
}

func (c *Checker) inferFieldAccess(fa *ast.FieldAccess) (types.Type, *address.Diagnostic) {
	if baseIdent, ok := fa.Base.(*ast.Ident); ok {
		if res, diag := c.resolver.Resolve(baseIdent.Location, baseIdent.Name); diag == nil {
			switch r := res.(type) {
			case resolve.Module:
				member, diag := c.resolver.ResolveInModule(fa.Location, r.Name, fa.Field)
				if diag != nil {
					return nil, diag
				}
				v, ok := member.(resolve.Value)
				if !ok {
					return nil, address.New(address.CodeUnexpectedResolution, fa.Location, "%q.%q does not name a value", r.Name, fa.Field)
				}
				return v.Type, nil

			case resolve.Custom:
				if !r.IsEnum {
					return nil, address.New(address.CodeInvalidFieldAccess, fa.Location, "%q is a type, not a value", baseIdent.Name)
				}
				entry := c.Enums.Get(r.EnumID)
				for _, v := range entry.Variants {
					if v.Name != fa.Field {
						continue
					}
					if len(v.Fields) != 0 {
						return nil, address.New(address.CodeCouldNotCall, fa.Location, "variant %q requires arguments", fa.Field)
					}
					return types.Enum{ID: r.EnumID}, nil
				}
				return nil, address.New(address.CodeFieldIsNotDefined, fa.Location, "enum %q has no variant %q", entry.Name, fa.Field)

			case resolve.Value:
				return c.fieldAccessOnType(fa, r.Type)
			}
		}
	}

	baseType, diag := c.InferExpr(fa.Base)
	if diag != nil {
		return nil, diag
	}
	return c.fieldAccessOnType(fa, baseType)
}

func (c *Checker) fieldAccessOnType(fa *ast.FieldAccess, baseType types.Type) (types.Type, *address.Diagnostic) {
	baseType = c.hyd.ApplyDeep(baseType)

	switch bt := baseType.(type) {
	case types.Dyn:
		c.Warnings = append(c.Warnings, address.Warning{
			Code: address.WarnAccessOfDynField, Message: "field access on a Dyn value is unchecked", At: fa.Location,
		})
		return types.Dyn{}, nil

	case types.Struct:
		entry := c.Structs.Get(bt.ID)
		subst := genericSubst(entry.Generics, bt.Args)
		for _, f := range entry.Fields {
			if f.Name == fa.Field {
				return hydrator.SubstGenerics(f.Type, subst), nil
			}
		}
		return nil, address.New(address.CodeFieldIsNotDefined, fa.Location, "struct %q has no field %q", entry.Name, fa.Field)

	default:
		return nil, address.New(address.CodeInvalidFieldAccess, fa.Location, "cannot access field %q on %s", fa.Field, baseType)
	}
}

func genericSubst(names []string, args []types.Type) map[string]types.Type {
	m := make(map[string]types.Type, len(names))
	for i, n := range names {
		if i < len(args) {
			m[n] = args[i]
		}
	}
	return m
}

func (c *Checker) inferCall(e *ast.Call) (types.Type, *address.Diagnostic) {
	if fa, ok := e.Callee.(*ast.FieldAccess); ok {
		if baseIdent, ok := fa.Base.(*ast.Ident); ok {
			if res, diag := c.resolver.Resolve(baseIdent.Location, baseIdent.Name); diag == nil {
				if custom, ok := res.(resolve.Custom); ok && custom.IsEnum {
					return c.inferVariantCall(e, fa, custom.EnumID)
				}
			}
		}
	}

	calleeType, diag := c.InferExpr(e.Callee)
	if diag != nil {
		return nil, diag
	}
	calleeType = c.hyd.ApplyDeep(calleeType)

	if _, ok := calleeType.(types.Dyn); ok {
		c.Warnings = append(c.Warnings, address.Warning{
			Code: address.WarnCallOfDyn, Message: "call of a Dyn value is unchecked", At: e.Location,
		})
		for _, a := range e.Args {
			if _, diag := c.InferExpr(a); diag != nil {
				return nil, diag
			}
		}
		return types.Dyn{}, nil
	}

	fn, ok := calleeType.(types.Function)
	if !ok {
		return nil, address.New(address.CodeCouldNotCall, e.Location, "%s is not callable", calleeType)
	}
	entry := c.Functions.Get(fn.ID)

	subst := genericSubst(entry.Generics, fn.Args)
	if len(fn.Args) == 0 && len(entry.Generics) > 0 {
		subst = genericSubst(entry.Generics, c.hyd.Instantiate(entry.Generics))
	}

	if len(e.Args) != len(entry.Params) {
		return nil, address.New(address.CodeCouldNotCall, e.Location, "%q expects %d argument(s), got %d", entry.Name, len(entry.Params), len(e.Args))
	}
	for i, a := range e.Args {
		at, diag := c.InferExpr(a)
		if diag != nil {
			return nil, diag
		}
		paramType := hydrator.SubstGenerics(entry.Params[i].Type, subst)
		if _, diag := c.solver.Eq(origin(a.Addr(), at), origin(e.Location, paramType)); diag != nil {
			return nil, diag
		}
	}

	ret := hydrator.SubstGenerics(entry.Return, subst)
	return c.hyd.ApplyDeep(ret), nil
}

func (c *Checker) inferVariantCall(e *ast.Call, fa *ast.FieldAccess, enumID arena.ID) (types.Type, *address.Diagnostic) {
	entry := c.Enums.Get(enumID)
	var variant *types.Variant
	for i := range entry.Variants {
		if entry.Variants[i].Name == fa.Field {
			variant = &entry.Variants[i]
			break
		}
	}
	if variant == nil {
		return nil, address.New(address.CodeFieldIsNotDefined, fa.Location, "enum %q has no variant %q", entry.Name, fa.Field)
	}
	if len(e.Args) != len(variant.Fields) {
		return nil, address.New(address.CodeCouldNotCall, e.Location, "variant %q expects %d argument(s), got %d", fa.Field, len(variant.Fields), len(e.Args))
	}

	fresh := c.hyd.Instantiate(entry.Generics)
	subst := genericSubst(entry.Generics, fresh)

	for i, a := range e.Args {
		at, diag := c.InferExpr(a)
		if diag != nil {
			return nil, diag
		}
		fieldType := hydrator.SubstGenerics(variant.Fields[i].Type, subst)
		if _, diag := c.solver.Eq(origin(a.Addr(), at), origin(e.Location, fieldType)); diag != nil {
			return nil, diag
		}
	}

	return c.hyd.ApplyDeep(types.Enum{ID: enumID, Args: fresh}), nil
}

func (c *Checker) inferConstruct(e *ast.Construct) (types.Type, *address.Diagnostic) {
	res, diag := c.resolver.Resolve(e.Location, e.TypeName)
	if diag != nil {
		return nil, diag
	}
	custom, ok := res.(resolve.Custom)
	if !ok || custom.IsEnum {
		return nil, address.New(address.CodeUnexpectedResolution, e.Location, "%q does not name a struct", e.TypeName)
	}

	entry := c.Structs.Get(custom.StructID)
	fresh := c.hyd.Instantiate(entry.Generics)
	subst := genericSubst(entry.Generics, fresh)

	if e.Named != nil {
		bound := make(map[string]bool, len(e.Named))
		for _, init := range e.Named {
			var declType types.Type
			found := false
			for _, f := range entry.Fields {
				if f.Name == init.Name {
					declType = hydrator.SubstGenerics(f.Type, subst)
					found = true
					break
				}
			}
			if !found {
				return nil, address.New(address.CodeFieldIsNotDefined, e.Location, "struct %q has no field %q", entry.Name, init.Name)
			}
			if bound[init.Name] {
				return nil, address.New(address.CodeFieldIsNotDefined, e.Location, "field %q bound more than once", init.Name)
			}
			bound[init.Name] = true

			vt, diag := c.InferExpr(init.Value)
			if diag != nil {
				return nil, diag
			}
			if _, diag := c.solver.Eq(origin(init.Value.Addr(), vt), origin(e.Location, declType)); diag != nil {
				return nil, diag
			}
		}
		for _, f := range entry.Fields {
			if !bound[f.Name] {
				return nil, address.New(address.CodeFieldIsNotDefined, e.Location, "missing field %q in construction of %q", f.Name, entry.Name)
			}
		}
	} else {
		if len(e.Position) != len(entry.Fields) {
			return nil, address.New(address.CodeFieldIsNotDefined, e.Location, "%q expects %d field(s), got %d", entry.Name, len(entry.Fields), len(e.Position))
		}
		for i, v := range e.Position {
			vt, diag := c.InferExpr(v)
			if diag != nil {
				return nil, diag
			}
			declType := hydrator.SubstGenerics(entry.Fields[i].Type, subst)
			if _, diag := c.solver.Eq(origin(v.Addr(), vt), origin(e.Location, declType)); diag != nil {
				return nil, diag
			}
		}
	}

	return c.hyd.ApplyDeep(types.Struct{ID: custom.StructID, Args: fresh}), nil
}

func (c *Checker) inferIf(e *ast.If) (types.Type, *address.Diagnostic) {
	condType, diag := c.InferExpr(e.Cond)
	if diag != nil {
		return nil, diag
	}
	if _, diag := c.solver.Eq(origin(e.Cond.Addr(), condType), origin(e.Location, types.Prelude{Kind: types.Bool})); diag != nil {
		return nil, diag
	}

	c.ribs.Push(rib.KindConditional)
	thenType, diag := c.InferBlock(e.Then)
	c.ribs.Pop()
	if diag != nil {
		return nil, diag
	}

	branches := []unify.Origin{origin(e.Then.Addr(), thenType)}

	for _, elif := range e.Elifs {
		ct, diag := c.InferExpr(elif.Cond)
		if diag != nil {
			return nil, diag
		}
		if _, diag := c.solver.Eq(origin(elif.Cond.Addr(), ct), origin(e.Location, types.Prelude{Kind: types.Bool})); diag != nil {
			return nil, diag
		}
		c.ribs.Push(rib.KindConditional)
		bt, diag := c.InferBlock(elif.Body)
		c.ribs.Pop()
		if diag != nil {
			return nil, diag
		}
		branches = append(branches, origin(elif.Body.Addr(), bt))
	}

	if e.Else == nil {
		for _, b := range branches {
			if _, diag := c.solver.Eq(b, origin(e.Location, types.UnitType{})); diag != nil {
				return nil, diag
			}
		}
		return types.UnitType{}, nil
	}

	c.ribs.Push(rib.KindConditional)
	elseType, diag := c.InferBlock(e.Else)
	c.ribs.Pop()
	if diag != nil {
		return nil, diag
	}
	branches = append(branches, origin(e.Else.Addr(), elseType))

	return c.solver.Same(branches)
}

func (c *Checker) inferLoop(e *ast.Loop) (types.Type, *address.Diagnostic) {
	c.ribs.Push(rib.KindLoop)
	defer c.ribs.Pop()

	if e.Cond != nil {
		ct, diag := c.InferExpr(e.Cond)
		if diag != nil {
			return nil, diag
		}
		if _, diag := c.solver.Eq(origin(e.Cond.Addr(), ct), origin(e.Location, types.Prelude{Kind: types.Bool})); diag != nil {
			return nil, diag
		}
	}

	if _, diag := c.InferBlock(e.Body); diag != nil {
		return nil, diag
	}
	// A loop only exits via break (or its condition turning false), and
	// neither carries a value in this grammar, so the loop itself is Unit.
	return types.UnitType{}, nil
}

func (c *Checker) inferMatch(e *ast.Match) (types.Type, *address.Diagnostic) {
	scrutType, diag := c.InferExpr(e.Scrutinee)
	if diag != nil {
		return nil, diag
	}
	scrutType = c.hyd.ApplyDeep(scrutType)

	var variantNames []string
	var enumEntry *types.EnumEntry
	if en, ok := scrutType.(types.Enum); ok {
		entry := c.Enums.Get(en.ID)
		enumEntry = &entry
		for _, v := range entry.Variants {
			variantNames = append(variantNames, v.Name)
		}
	}

	cases := make([]exhaust.Case, len(e.Cases))
	for i, mc := range e.Cases {
		cases[i] = patternToCase(mc.Pattern)
	}
	if diag := exhaust.Check(scrutType, variantNames, cases); diag != nil {
		return nil, diag
	}

	branches := make([]unify.Origin, 0, len(e.Cases))
	for _, mc := range e.Cases {
		c.ribs.Push(rib.KindPattern)
		if diag := c.bindPattern(mc.Pattern, scrutType, enumEntry); diag != nil {
			c.ribs.Pop()
			return nil, diag
		}
		bt, diag := c.InferExpr(mc.Body)
		c.ribs.Pop()
		if diag != nil {
			return nil, diag
		}
		branches = append(branches, origin(mc.Body.Addr(), bt))
	}

	return c.solver.Same(branches)
}

func patternToCase(p ast.Pattern) exhaust.Case {
	switch pat := p.(type) {
	case *ast.VariantPattern:
		return exhaust.Case{Addr: pat.Location, IsDefault: false, Variant: pat.Variant}
	case *ast.WildcardPattern:
		return exhaust.Case{Addr: pat.Location, IsDefault: true}
	case *ast.BindPattern:
		return exhaust.Case{Addr: pat.Location, IsDefault: true}
	case *ast.LiteralPattern:
		return exhaust.Case{Addr: pat.Location, IsDefault: false}
	}
	return exhaust.Case{IsDefault: true}
}

func (c *Checker) bindPattern(p ast.Pattern, scrutType types.Type, enumEntry *types.EnumEntry) *address.Diagnostic {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return nil

	case *ast.BindPattern:
		return c.ribs.Define(pat.Location, pat.Name, scrutType, false)

	case *ast.LiteralPattern:
		lt, diag := c.InferExpr(pat.Value)
		if diag != nil {
			return diag
		}
		_, diag = c.solver.Eq(origin(pat.Location, lt), origin(pat.Location, scrutType))
		return diag

	case *ast.VariantPattern:
		if enumEntry == nil {
			return address.New(address.CodeUnexpectedResolution, pat.Location, "variant pattern against a non-enum scrutinee")
		}
		for _, v := range enumEntry.Variants {
			if v.Name != pat.Variant {
				continue
			}
			if len(v.Fields) != len(pat.Bindings) {
				return address.New(address.CodeCouldNotCall, pat.Location, "variant %q expects %d binding(s), got %d", pat.Variant, len(v.Fields), len(pat.Bindings))
			}
			for i, b := range pat.Bindings {
				if diag := c.bindPattern(b, v.Fields[i].Type, nil); diag != nil {
					return diag
				}
			}
			return nil
		}
		return address.New(address.CodeFieldIsNotDefined, pat.Location, "unknown variant %q", pat.Variant)
	}
	return nil
}
