// Package resolve implements the checker's name resolver: given a name
// in context, it decides whether it refers to an imported module, a
// struct/enum type, an enum variant constructor, or a typed value.
package resolve

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/arena"
	"github.com/oil-lang/oil/internal/rib"
	"github.com/oil-lang/oil/internal/types"
)

// Res is the sum type a name resolves to.
type Res interface{ isRes() }

// Module names an imported module by its alias.
type Module struct{ Name string }

// Custom names a struct or enum type definition.
type Custom struct {
	Name     string
	IsEnum   bool
	StructID arena.ID
	EnumID   arena.ID
}

// Variant names one constructor of an enum.
type Variant struct {
	EnumID  arena.ID
	Variant string
}

// Value names a typed expression site: a local, a constant, or a
// function reference.
type Value struct{ Type types.Type }

func (Module) isRes()  {}
func (Custom) isRes()  {}
func (Variant) isRes() {}
func (Value) isRes()   {}

// Resolver holds the current module's namespace (imports plus its own
// definitions) and the rib stack of local scopes.
type Resolver struct {
	ribs    *rib.Stack
	modules map[string]*types.ModuleEntry // alias -> imported module
	current *types.ModuleEntry            // the module being checked
	direct  map[string]types.ModuleDef    // names imported via ForNames, unqualified
}

// New builds a Resolver for the module currently being checked, sharing
// ribs with the checker.
func New(ribs *rib.Stack, current *types.ModuleEntry, imports map[string]*types.ModuleEntry) *Resolver {
	if imports == nil {
		imports = make(map[string]*types.ModuleEntry)
	}
	return &Resolver{ribs: ribs, modules: imports, current: current, direct: make(map[string]types.ModuleDef)}
}

// AddModuleAlias registers mod under alias, the way `use a.b as c` works
// (UseKind == AsName). A later import of the same alias overwrites it.
func (r *Resolver) AddModuleAlias(alias string, mod *types.ModuleEntry) {
	r.modules[alias] = mod
}

// ImportForNames merges mod's named members directly into scope,
// unqualified, the way `use a.b { x, y }` works (UseKind == ForNames).
// Unknown members are silently skipped; the names are not checked
// against mod beforehand.
func (r *Resolver) ImportForNames(mod *types.ModuleEntry, names []string) {
	for _, name := range names {
		if def, ok := mod.Fields[name]; ok {
			r.direct[name] = def
		}
	}
}

// Resolve looks up name: first in the local rib stack, then in the
// current module's own fields, then among names imported with
// `use a.b { x, y }`, then among imported module aliases.
func (r *Resolver) Resolve(addr address.Address, name string) (Res, *address.Diagnostic) {
	if t, ok := r.ribs.Lookup(name); ok {
		return Value{Type: t}, nil
	}

	if def, ok := r.current.Fields[name]; ok {
		return resFromDef(name, def), nil
	}

	if def, ok := r.direct[name]; ok {
		return resFromDef(name, def), nil
	}

	if _, ok := r.modules[name]; ok {
		return Module{Name: name}, nil
	}

	return nil, address.New(address.CodeVariableIsNotDefined, addr, "%q is not defined", name)
}

// ResolveInModule looks up a qualified member of an imported module,
// e.g. the `Variant` of `io.Result.Ok` or a function of `math.sqrt`.
func (r *Resolver) ResolveInModule(addr address.Address, moduleAlias, member string) (Res, *address.Diagnostic) {
	mod, ok := r.modules[moduleAlias]
	if !ok {
		return nil, address.New(address.CodeImportOfUnknownModule, addr, "module %q is not imported", moduleAlias)
	}
	def, ok := mod.Fields[member]
	if !ok {
		return nil, address.New(address.CodeVariableIsNotDefined, addr, "%q has no member %q", moduleAlias, member)
	}
	return resFromDef(member, def), nil
}

// ResolveVariant looks up `enumName.variantName` within an enum the
// resolver already knows the Custom resolution for.
func (r *Resolver) ResolveVariant(addr address.Address, enumID arena.ID, variantName string) Res {
	return Variant{EnumID: enumID, Variant: variantName}
}

func resFromDef(name string, def types.ModuleDef) Res {
	switch def.Kind {
	case types.DefType:
		return Custom{Name: name, IsEnum: def.IsEnum, StructID: def.StructID, EnumID: def.EnumID}
	case types.DefFunction:
		return Value{Type: types.Function{ID: def.FunctionID}}
	case types.DefConst:
		return Value{Type: def.ConstType}
	default:
		return Value{Type: types.UnitType{}}
	}
}
