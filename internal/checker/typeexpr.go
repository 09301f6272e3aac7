package checker

import (
	"strings"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/resolve"
	"github.com/oil-lang/oil/internal/types"
)

// resolveTypeExpr turns a parsed, unresolved annotation into a concrete
// types.Type, resolving named types against the prelude, the active
// generic scope, and the module/import namespace.
func (c *Checker) resolveTypeExpr(te ast.TypeExpr) (types.Type, *address.Diagnostic) {
	switch t := te.(type) {
	case *ast.DynTypeExpr:
		return types.Dyn{}, nil

	case *ast.FnTypeExpr:
		return c.resolveFnTypeExpr(t)

	case *ast.NamedTypeExpr:
		return c.resolveNamedTypeExpr(t)
	}
	return nil, address.New(address.CodeUnexpectedResolution, te.Addr(), "unrecognized type annotation")
}

func (c *Checker) resolveNamedTypeExpr(t *ast.NamedTypeExpr) (types.Type, *address.Diagnostic) {
	switch t.Name {
	case "Int":
		return types.Prelude{Kind: types.Int}, nil
	case "Float":
		return types.Prelude{Kind: types.Float}, nil
	case "Bool":
		return types.Prelude{Kind: types.Bool}, nil
	case "String":
		return types.Prelude{Kind: types.String}, nil
	case "Unit":
		return types.UnitType{}, nil
	}

	if c.hyd.InGenericScope(t.Name) {
		return types.Generic{Name: t.Name}, nil
	}

	res, diag := c.resolver.Resolve(t.Location, t.Name)
	if diag != nil {
		return nil, diag
	}
	custom, ok := res.(resolve.Custom)
	if !ok {
		return nil, address.New(address.CodeUnexpectedResolution, t.Location, "%q does not name a type", t.Name)
	}

	args := make([]types.Type, len(t.Args))
	for i, a := range t.Args {
		at, diag := c.resolveTypeExpr(a)
		if diag != nil {
			return nil, diag
		}
		args[i] = at
	}

	if custom.IsEnum {
		return types.Enum{ID: custom.EnumID, Args: args}, nil
	}
	return types.Struct{ID: custom.StructID, Args: args}, nil
}

// resolveFnTypeExpr resolves a `fn(Params...): Return` annotation to a
// nominal types.Function. Since the grammar has no declared FnDecl for
// an anonymous callback shape, one is minted on first use and interned
// by structural signature so that two annotations of the same shape
// unify rather than comparing unequal by arena id.
func (c *Checker) resolveFnTypeExpr(t *ast.FnTypeExpr) (types.Type, *address.Diagnostic) {
	params := make([]types.Field, len(t.Params))
	sig := make([]string, 0, len(t.Params)+1)
	for i, p := range t.Params {
		pt, diag := c.resolveTypeExpr(p)
		if diag != nil {
			return nil, diag
		}
		params[i] = types.Field{Name: "", Type: pt}
		sig = append(sig, pt.String())
	}

	ret, diag := c.resolveReturnAnnotation(t.Return)
	if diag != nil {
		return nil, diag
	}
	sig = append(sig, "->", ret.String())
	key := strings.Join(sig, ",")

	id, ok := c.fnTypeCache[key]
	if !ok {
		id = c.Functions.Alloc(types.FunctionEntry{Name: "<fn type>", Params: params, Return: ret})
		c.fnTypeCache[key] = id
	}
	return types.Function{ID: id}, nil
}
