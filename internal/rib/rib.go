// Package rib implements the checker's lexical scope stack:
// name→type bindings with shadowing and scope kinds, used to type
// locals and to let break/continue and self-referencing constructs find
// their nearest enclosing construct.
package rib

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/types"
)

// Kind distinguishes why a rib was pushed.
type Kind int

const (
	KindFunction Kind = iota
	KindLoop
	KindConditional
	KindConstructorParams
	KindFields
	KindPattern
	KindType
)

// Rib is one lexical scope: a kind tag plus its own bindings.
type Rib struct {
	Kind    Kind
	TypeRef types.Type // set when Kind == KindType
	names   map[string]types.Type
}

func newRib(kind Kind) *Rib {
	return &Rib{Kind: kind, names: make(map[string]types.Type)}
}

// Stack is a stack of Ribs, innermost last.
type Stack struct {
	ribs []*Rib
}

// New creates an empty Stack.
func New() *Stack {
	return &Stack{}
}

// Push enters a new lexical scope of the given kind.
func (s *Stack) Push(kind Kind) {
	s.ribs = append(s.ribs, newRib(kind))
}

// PushType enters a new scope of KindType carrying a typeref, used by
// constructs that let `self`/recursive references resolve to their own
// declared type.
func (s *Stack) PushType(t types.Type) {
	r := newRib(KindType)
	r.TypeRef = t
	s.ribs = append(s.ribs, r)
}

// Pop exits the innermost scope and returns it.
func (s *Stack) Pop() *Rib {
	if len(s.ribs) == 0 {
		return nil
	}
	r := s.ribs[len(s.ribs)-1]
	s.ribs = s.ribs[:len(s.ribs)-1]
	return r
}

// Define binds name in the innermost rib. If redefine is false and name
// already exists in that rib, it returns a VariableIsAlreadyDefined
// diagnostic at addr; otherwise it defines (or overwrites) the binding.
func (s *Stack) Define(addr address.Address, name string, t types.Type, redefine bool) *address.Diagnostic {
	top := s.top()
	if top == nil {
		return address.New(address.CodeUnexpectedResolution, addr, "no active scope to define %q in", name)
	}
	if _, exists := top.names[name]; exists && !redefine {
		return address.New(address.CodeVariableIsAlreadyDefined, addr, "variable %q is already defined in this scope", name)
	}
	top.names[name] = t
	return nil
}

// Redefine checks name against the innermost rib: if present, the caller
// must have already verified type equality (via unification) and the
// binding is left as-is; if absent, it is newly defined. The mismatch
// check itself is the caller's responsibility because it requires the
// unifier, which this package does not depend on.
func (s *Stack) Redefine(addr address.Address, name string, t types.Type) (existing types.Type, wasPresent bool, diag *address.Diagnostic) {
	top := s.top()
	if top == nil {
		return nil, false, address.New(address.CodeUnexpectedResolution, addr, "no active scope to redefine %q in", name)
	}
	if prev, ok := top.names[name]; ok {
		return prev, true, nil
	}
	top.names[name] = t
	return nil, false, nil
}

// Lookup searches innermost-first for name, returning its type if found.
func (s *Stack) Lookup(name string) (types.Type, bool) {
	for i := len(s.ribs) - 1; i >= 0; i-- {
		if t, ok := s.ribs[i].names[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// ContainsRib reports whether a rib of the given kind exists anywhere in
// the stack, searching innermost-first.
func (s *Stack) ContainsRib(kind Kind) bool {
	for i := len(s.ribs) - 1; i >= 0; i-- {
		if s.ribs[i].Kind == kind {
			return true
		}
	}
	return false
}

// ContainsType walks the stack for the nearest enclosing KindType rib and
// returns its typeref.
func (s *Stack) ContainsType() (types.Type, bool) {
	for i := len(s.ribs) - 1; i >= 0; i-- {
		if s.ribs[i].Kind == KindType {
			return s.ribs[i].TypeRef, true
		}
	}
	return nil, false
}

func (s *Stack) top() *Rib {
	if len(s.ribs) == 0 {
		return nil
	}
	return s.ribs[len(s.ribs)-1]
}

// Depth reports how many ribs are currently pushed, mostly useful for
// tests asserting balanced push/pop.
func (s *Stack) Depth() int {
	return len(s.ribs)
}
