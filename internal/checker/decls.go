package checker

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/hydrator"
	"github.com/oil-lang/oil/internal/rib"
	"github.com/oil-lang/oil/internal/types"
)

func (c *Checker) earlyDefine(d ast.Decl) *address.Diagnostic {
	switch decl := d.(type) {
	case *ast.StructDecl:
		return c.earlyDefineStruct(decl)
	case *ast.EnumDecl:
		return c.earlyDefineEnum(decl)
	case *ast.FnDecl:
		return c.earlyDefineFn(decl)
	case *ast.ConstDecl:
		// Consts have no forward-referenceable signature; fully handled
		// in the late phase.
		return nil
	}
	return nil
}

func (c *Checker) lateAnalyze(d ast.Decl) *address.Diagnostic {
	switch decl := d.(type) {
	case *ast.StructDecl:
		return c.lateAnalyzeStruct(decl)
	case *ast.EnumDecl:
		return c.lateAnalyzeEnum(decl)
	case *ast.FnDecl:
		return c.lateAnalyzeFn(decl)
	case *ast.ConstDecl:
		return c.lateAnalyzeConst(decl)
	}
	return nil
}

func (c *Checker) earlyDefineStruct(d *ast.StructDecl) *address.Diagnostic {
	c.hyd.PushScope(d.Generics)
	defer c.hyd.PopScope()

	id := c.Structs.Alloc(types.StructEntry{Name: d.Name, Generics: d.Generics})
	c.module.Fields[d.Name] = types.ModuleDef{
		Kind:      types.DefType,
		Publicity: convPublicity(d.Publicity),
		StructID:  id,
	}
	return nil
}

func (c *Checker) earlyDefineEnum(d *ast.EnumDecl) *address.Diagnostic {
	c.hyd.PushScope(d.Generics)
	defer c.hyd.PopScope()

	id := c.Enums.Alloc(types.EnumEntry{Name: d.Name, Generics: d.Generics})
	c.module.Fields[d.Name] = types.ModuleDef{
		Kind:      types.DefType,
		Publicity: convPublicity(d.Publicity),
		IsEnum:    true,
		EnumID:    id,
	}
	return nil
}

func (c *Checker) earlyDefineFn(d *ast.FnDecl) *address.Diagnostic {
	c.hyd.PushScope(d.Generics)
	defer c.hyd.PopScope()

	params := make([]types.Field, len(d.Params))
	for i, p := range d.Params {
		t, diag := c.resolveTypeExpr(p.Type)
		if diag != nil {
			return diag
		}
		params[i] = types.Field{Name: p.Name, Type: t}
	}

	ret, diag := c.resolveReturnAnnotation(d.Return)
	if diag != nil {
		return diag
	}

	id := c.Functions.Alloc(types.FunctionEntry{Name: d.Name, Generics: d.Generics, Params: params, Return: ret})
	c.module.Fields[d.Name] = types.ModuleDef{
		Kind:       types.DefFunction,
		Publicity:  convPublicity(d.Publicity),
		FunctionID: id,
	}
	return nil
}

func (c *Checker) resolveReturnAnnotation(te ast.TypeExpr) (types.Type, *address.Diagnostic) {
	if te == nil {
		return types.UnitType{}, nil
	}
	return c.resolveTypeExpr(te)
}

func (c *Checker) lateAnalyzeStruct(d *ast.StructDecl) *address.Diagnostic {
	def := c.module.Fields[d.Name]

	c.hyd.RePushScope(d.Generics)
	defer c.hyd.PopScope()

	fields := make([]types.Field, len(d.Fields))
	for i, f := range d.Fields {
		t, diag := c.resolveTypeExpr(f.Type)
		if diag != nil {
			return diag
		}
		fields[i] = types.Field{Name: f.Name, Type: t}
	}

	c.Structs.Set(def.StructID, types.StructEntry{Name: d.Name, Generics: d.Generics, Fields: fields})
	return nil
}

func (c *Checker) lateAnalyzeEnum(d *ast.EnumDecl) *address.Diagnostic {
	def := c.module.Fields[d.Name]

	c.hyd.RePushScope(d.Generics)
	defer c.hyd.PopScope()

	variants := make([]types.Variant, len(d.Variants))
	for i, v := range d.Variants {
		fields := make([]types.Field, len(v.Fields))
		for j, f := range v.Fields {
			t, diag := c.resolveTypeExpr(f.Type)
			if diag != nil {
				return diag
			}
			fields[j] = types.Field{Name: f.Name, Type: t}
		}
		variants[i] = types.Variant{Name: v.Name, Fields: fields}
	}

	c.Enums.Set(def.EnumID, types.EnumEntry{Name: d.Name, Generics: d.Generics, Variants: variants})
	return nil
}

func (c *Checker) lateAnalyzeFn(d *ast.FnDecl) *address.Diagnostic {
	def := c.module.Fields[d.Name]
	entry := c.Functions.Get(def.FunctionID)

	c.hyd.RePushScope(d.Generics)
	defer c.hyd.PopScope()

	c.ribs.Push(rib.KindFunction)
	defer c.ribs.Pop()

	// Inside its own body a function's generics hydrate to shared fresh
	// inference variables: parameters, the declared return, and the
	// self-reference all carry the same vars, so recursion through them
	// is monomorphic and the occurs check can catch self-application.
	bodyArgs := make([]types.Type, len(entry.Generics))
	bodyVars := make(map[string]types.Type, len(entry.Generics))
	for i, g := range entry.Generics {
		v := c.hyd.Fresh()
		bodyArgs[i] = v
		bodyVars[g] = v
	}

	for _, p := range entry.Params {
		if diag := c.ribs.Define(d.Location, p.Name, hydrator.SubstGenerics(p.Type, bodyVars), false); diag != nil {
			return diag
		}
	}
	selfType := types.Function{ID: def.FunctionID, Args: bodyArgs}
	if diag := c.ribs.Define(d.Location, d.Name, selfType, true); diag != nil {
		return diag
	}

	if d.Extern {
		return nil
	}

	prevReturn := c.currentReturn
	ret := hydrator.SubstGenerics(entry.Return, bodyVars)
	c.currentReturn = &ret
	defer func() { c.currentReturn = prevReturn }()

	bodyType, diag := c.InferBlock(d.Body)
	if diag != nil {
		return diag
	}

	_, diag = c.solver.Eq(origin(d.Body.Addr(), bodyType), origin(d.Location, ret))
	if diag != nil {
		// A Unit body against a non-Unit return means some path fell off
		// the end without producing a value, which is a control-flow
		// error rather than a unification one.
		_, bodyIsUnit := c.hyd.Apply(bodyType).(types.UnitType)
		_, retIsUnit := c.hyd.Apply(ret).(types.UnitType)
		if bodyIsUnit && !retIsUnit {
			return address.New(address.CodeNotAllBranchesReturn, d.Body.Addr(),
				"not every path through %q returns a %s", d.Name, c.hyd.Apply(ret)).WithRelated(d.Location)
		}
		return diag
	}

	// Generic parameters stay rigid: a body may leave them unconstrained,
	// but must not pin one to a concrete type its callers never chose.
	for i, g := range entry.Generics {
		applied := c.hyd.ApplyDeep(bodyArgs[i])
		if _, stillFree := applied.(types.Var); stillFree {
			continue
		}
		if gen, ok := applied.(types.Generic); ok && gen.Name == g {
			continue
		}
		return address.New(address.CodeTypesMismatch, d.Location,
			"generic parameter %s of %q was constrained to %s", g, d.Name, applied)
	}
	return nil
}

func (c *Checker) lateAnalyzeConst(d *ast.ConstDecl) *address.Diagnostic {
	var annotated types.Type
	if d.Type != nil {
		t, diag := c.resolveTypeExpr(d.Type)
		if diag != nil {
			return diag
		}
		annotated = t
	}

	valType, diag := c.InferExpr(d.Value)
	if diag != nil {
		return diag
	}

	final := valType
	if annotated != nil {
		unified, diag := c.solver.Eq(origin(d.Location, annotated), origin(d.Value.Addr(), valType))
		if diag != nil {
			return address.New(address.CodeMismatchedTypeAnnotation, d.Location,
				"annotation %s does not match inferred type %s", annotated, c.hyd.Apply(valType)).WithRelated(d.Value.Addr())
		}
		final = unified
	}

	c.module.Fields[d.Name] = types.ModuleDef{
		Kind:      types.DefConst,
		Publicity: convPublicity(d.Publicity),
		ConstType: c.hyd.ApplyDeep(final),
	}
	return nil
}
