// Package hydrator implements the checker's substitution/instantiation
// engine: it mints fresh inference variables,
// resolves Var chains to concrete types, and tracks which generic
// parameter names are in scope.
package hydrator

import "github.com/oil-lang/oil/internal/types"

// Hydrator owns the substitution map, the inference-variable counter, and
// the generics scope stack.
type Hydrator struct {
	substitutions map[int]types.Type
	lastVarID     int
	generics      [][]string
}

// New creates an empty Hydrator.
func New() *Hydrator {
	return &Hydrator{substitutions: make(map[int]types.Type)}
}

// Fresh mints a new, never-before-seen inference variable id.
func (h *Hydrator) Fresh() types.Var {
	h.lastVarID++
	return types.Var{ID: h.lastVarID}
}

// Substitute records id ↦ t. Idempotent: a second call for the same id is
// a no-op, so the first binding wins even under cyclic constraint flow.
func (h *Hydrator) Substitute(id int, t types.Type) {
	if _, bound := h.substitutions[id]; bound {
		return
	}
	h.substitutions[id] = t
}

// Apply recursively resolves Var chains to a concrete form. Non-Var types
// are returned unchanged at the top level; callers that mutate subterms
// (struct/enum Args) must re-Apply after each unification step.
func (h *Hydrator) Apply(t types.Type) types.Type {
	v, ok := t.(types.Var)
	if !ok {
		return t
	}
	bound, ok := h.substitutions[v.ID]
	if !ok {
		return t
	}
	return h.Apply(bound)
}

// ApplyDeep applies substitution to t and, for nominal types, to every
// element of Args, so that a caller inspecting a struct/enum/function's
// instantiation never sees a resolved-but-unapplied inner Var.
func (h *Hydrator) ApplyDeep(t types.Type) types.Type {
	t = h.Apply(t)
	switch nt := t.(type) {
	case types.Struct:
		return types.Struct{ID: nt.ID, Args: h.applyArgs(nt.Args)}
	case types.Enum:
		return types.Enum{ID: nt.ID, Args: h.applyArgs(nt.Args)}
	case types.Function:
		return types.Function{ID: nt.ID, Args: h.applyArgs(nt.Args)}
	default:
		return t
	}
}

func (h *Hydrator) applyArgs(args []types.Type) []types.Type {
	if args == nil {
		return nil
	}
	out := make([]types.Type, len(args))
	for i, a := range args {
		out[i] = h.ApplyDeep(a)
	}
	return out
}

// PushScope enters a new generic-parameter scope, e.g. when entering a
// struct, enum, or function declaration's body.
func (h *Hydrator) PushScope(names []string) {
	h.generics = append(h.generics, names)
}

// PopScope exits the innermost generic-parameter scope.
func (h *Hydrator) PopScope() {
	if len(h.generics) == 0 {
		return
	}
	h.generics = h.generics[:len(h.generics)-1]
}

// RePushScope re-enters a scope with the same names after a temporary pop
// (e.g. the two-phase checker re-pushes a struct's generics for the late
// phase after the early phase popped them).
func (h *Hydrator) RePushScope(names []string) {
	h.PushScope(names)
}

// InGenericScope reports whether name is a generic parameter in the
// innermost active scope.
func (h *Hydrator) InGenericScope(name string) bool {
	if len(h.generics) == 0 {
		return false
	}
	top := h.generics[len(h.generics)-1]
	for _, n := range top {
		if n == name {
			return true
		}
	}
	return false
}

// Instantiate mints one fresh Var per name in names and returns them in
// order, for freshly instantiating a generic declaration's parameter
// list at a call site.
func (h *Hydrator) Instantiate(names []string) []types.Type {
	args := make([]types.Type, len(names))
	for i := range names {
		args[i] = h.Fresh()
	}
	return args
}

// SubstGenerics recursively replaces every Generic(name) in t with
// subst[name], leaving other type forms unchanged save for recursing into
// nominal Args. Used when building a call's concrete parameter/return
// types from a declaration's generic signature.
func SubstGenerics(t types.Type, subst map[string]types.Type) types.Type {
	switch nt := t.(type) {
	case types.Generic:
		if r, ok := subst[nt.Name]; ok {
			return r
		}
		return t
	case types.Struct:
		return types.Struct{ID: nt.ID, Args: substArgs(nt.Args, subst)}
	case types.Enum:
		return types.Enum{ID: nt.ID, Args: substArgs(nt.Args, subst)}
	case types.Function:
		return types.Function{ID: nt.ID, Args: substArgs(nt.Args, subst)}
	default:
		return t
	}
}

func substArgs(args []types.Type, subst map[string]types.Type) []types.Type {
	if args == nil {
		return nil
	}
	out := make([]types.Type, len(args))
	for i, a := range args {
		out[i] = SubstGenerics(a, subst)
	}
	return out
}
