// Package checker implements the two-phase module checker: it resolves
// imports, registers early placeholders for every
// struct/enum/function declaration, then type-checks bodies against
// those placeholders, wiring together package types, hydrator, unify,
// resolve, rib, and exhaust.
package checker

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/arena"
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/hydrator"
	"github.com/oil-lang/oil/internal/resolve"
	"github.com/oil-lang/oil/internal/rib"
	"github.com/oil-lang/oil/internal/types"
	"github.com/oil-lang/oil/internal/unify"
)

// Checker owns the arenas and sub-solvers for one module being checked.
// Structs/Enums/Functions are shared across modules in a real build (so
// that one module's Struct#id can be referenced from another's fields);
// a single Checker checks one File against a pre-populated root context.
type Checker struct {
	Structs   *arena.Arena[types.StructEntry]
	Enums     *arena.Arena[types.EnumEntry]
	Functions *arena.Arena[types.FunctionEntry]

	hyd      *hydrator.Hydrator
	solver   *unify.Solver
	ribs     *rib.Stack
	resolver *resolve.Resolver
	module   *types.ModuleEntry

	currentReturn *types.Type
	fnTypeCache   map[string]arena.ID

	Warnings []address.Warning
}

// New builds a Checker for moduleName, sharing structs/enums/functions
// arenas with the rest of the program (pass fresh arenas for a
// single-module build).
func New(moduleName string, structs *arena.Arena[types.StructEntry], enums *arena.Arena[types.EnumEntry], functions *arena.Arena[types.FunctionEntry]) *Checker {
	module := &types.ModuleEntry{Name: moduleName, Fields: make(map[string]types.ModuleDef)}
	ribs := rib.New()
	hyd := hydrator.New()
	return &Checker{
		Structs:     structs,
		Enums:       enums,
		Functions:   functions,
		hyd:         hyd,
		solver:      unify.New(hyd),
		ribs:        ribs,
		resolver:    resolve.New(ribs, module, nil),
		module:      module,
		fnTypeCache: make(map[string]arena.ID),
	}
}

// Module returns the ModuleEntry this checker has been populating; after
// CheckFile succeeds it is ready to be published into a root context for
// other modules to import.
func (c *Checker) Module() *types.ModuleEntry { return c.module }

// CheckFile runs all three phases over f in order, short-circuiting on
// the first diagnostic any phase raises within a declaration: no partial
// results accumulate past the first failure in a declaration, though
// sibling declarations are still attempted so one bad function doesn't
// hide every other error.
func (c *Checker) CheckFile(f *ast.File, root map[string]*types.ModuleEntry) []*address.Diagnostic {
	var diags []*address.Diagnostic

	if diag := c.Phase1Imports(f, root); diag != nil {
		return append(diags, diag)
	}

	for _, d := range f.Decls {
		if diag := c.earlyDefine(d); diag != nil {
			diags = append(diags, diag)
		}
	}
	if len(diags) > 0 {
		return diags
	}

	for _, d := range f.Decls {
		if diag := c.lateAnalyze(d); diag != nil {
			diags = append(diags, diag)
		}
	}
	return diags
}

// Phase1Imports resolves every `use` dependency against root and wires
// it into the resolver per its UseKind.
func (c *Checker) Phase1Imports(f *ast.File, root map[string]*types.ModuleEntry) *address.Diagnostic {
	for _, dep := range f.Dependencies {
		mod, ok := root[dep.Path]
		if !ok {
			return address.New(address.CodeImportOfUnknownModule, dep.Location, "module %q is not known", dep.Path)
		}
		switch dep.Kind {
		case ast.AsName:
			alias := dep.Alias
			if alias == "" {
				alias = dep.Path
			}
			c.resolver.AddModuleAlias(alias, mod)
		case ast.ForNames:
			c.resolver.ImportForNames(mod, dep.Names)
		}
	}
	return nil
}

func convPublicity(p ast.Publicity) types.Publicity {
	if p == ast.Public {
		return types.Public
	}
	return types.Private
}

func origin(addr address.Address, t types.Type) unify.Origin {
	return unify.Origin{Addr: addr, Type: t}
}
