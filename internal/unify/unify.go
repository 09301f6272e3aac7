// Package unify implements the checker's constraint solver: Eq and Same
// coercions over the type grammar in package types, backed by a
// hydrator for variable substitution.
package unify

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/hydrator"
	"github.com/oil-lang/oil/internal/types"
)

// Origin pairs a type with the address it was observed at, for error
// reporting when a constraint fails.
type Origin struct {
	Addr address.Address
	Type types.Type
}

// Solver discharges Eq/Same constraints against a shared hydrator.
type Solver struct {
	h *hydrator.Hydrator
}

// New builds a Solver over h; the hydrator also owns Fresh/Apply, so the
// checker shares one Hydrator between this solver and its own lookups.
func New(h *hydrator.Hydrator) *Solver {
	return &Solver{h: h}
}

// Eq unifies a and b, reporting both origins on failure.
func (s *Solver) Eq(a, b Origin) (types.Type, *address.Diagnostic) {
	return s.unify(a, b)
}

// Same unifies every element of xs against the first.
func (s *Solver) Same(xs []Origin) (types.Type, *address.Diagnostic) {
	if len(xs) == 0 {
		return types.UnitType{}, nil
	}
	result := xs[0].Type
	for _, x := range xs[1:] {
		t, diag := s.unify(Origin{Addr: xs[0].Addr, Type: result}, x)
		if diag != nil {
			return nil, diag
		}
		result = t
	}
	return s.h.Apply(result), nil
}

func (s *Solver) unify(a, b Origin) (types.Type, *address.Diagnostic) {
	at := s.h.Apply(a.Type)
	bt := s.h.Apply(b.Type)

	if types.Equals(at, bt) {
		switch at.(type) {
		case types.Struct, types.Enum, types.Function:
			// Equals ignores type arguments; unify them pairwise below.
		default:
			return at, nil
		}
	}

	if av, ok := at.(types.Var); ok {
		if bv, ok := bt.(types.Var); ok {
			if av.ID == bv.ID {
				return at, nil
			}
			s.h.Substitute(av.ID, bv)
			return bt, nil
		}
		return s.bindVar(av, bt, a, b)
	}
	if bv, ok := bt.(types.Var); ok {
		return s.bindVar(bv, at, b, a)
	}

	if _, isDyn := bt.(types.Dyn); isDyn {
		return s.unifyDyn(b, a)
	}

	switch an := at.(type) {
	case types.Struct:
		bn, ok := bt.(types.Struct)
		if !ok || an.ID != bn.ID {
			return nil, s.mismatch(a, b)
		}
		args, diag := s.unifyArgsPairwise(an.Args, bn.Args, a, b)
		if diag != nil {
			return nil, diag
		}
		return types.Struct{ID: an.ID, Args: args}, nil
	case types.Enum:
		bn, ok := bt.(types.Enum)
		if !ok || an.ID != bn.ID {
			return nil, s.mismatch(a, b)
		}
		args, diag := s.unifyArgsPairwise(an.Args, bn.Args, a, b)
		if diag != nil {
			return nil, diag
		}
		return types.Enum{ID: an.ID, Args: args}, nil
	case types.Function:
		bn, ok := bt.(types.Function)
		if !ok || an.ID != bn.ID {
			return nil, s.mismatch(a, b)
		}
		args, diag := s.unifyArgsPairwise(an.Args, bn.Args, a, b)
		if diag != nil {
			return nil, diag
		}
		return types.Function{ID: an.ID, Args: args}, nil
	case types.Prelude:
		bn, ok := bt.(types.Prelude)
		if !ok {
			if _, isDyn := bt.(types.Dyn); isDyn {
				return s.unifyDyn(b, a)
			}
			return nil, s.mismatch(a, b)
		}
		if an.Kind == bn.Kind {
			return at, nil
		}
		if (an.Kind == types.Int && bn.Kind == types.Float) || (an.Kind == types.Float && bn.Kind == types.Int) {
			return types.Prelude{Kind: types.Float}, nil
		}
		return nil, s.mismatch(a, b)
	case types.Dyn:
		return s.unifyDyn(a, b)
	}

	return nil, s.mismatch(a, b)
}

// unifyDyn handles the dynamic type: Dyn unifies with anything except
// Unit, which has no values for Dyn to stand in for.
func (s *Solver) unifyDyn(dynOrigin, other Origin) (types.Type, *address.Diagnostic) {
	if _, isUnit := s.h.Apply(other.Type).(types.UnitType); isUnit {
		return nil, s.mismatch(dynOrigin, other)
	}
	return types.Dyn{}, nil
}

func (s *Solver) bindVar(v types.Var, t types.Type, varOrigin, otherOrigin Origin) (types.Type, *address.Diagnostic) {
	if occurs(v.ID, t) {
		return nil, address.New(address.CodeTypesRecursion, varOrigin.Addr,
			"type variable %s occurs within %s", v, t).WithRelated(otherOrigin.Addr)
	}
	s.h.Substitute(v.ID, t)
	return t, nil
}

func (s *Solver) unifyArgsPairwise(as, bs []types.Type, a, b Origin) ([]types.Type, *address.Diagnostic) {
	if len(as) != len(bs) {
		return nil, s.mismatch(a, b)
	}
	if len(as) == 0 {
		return as, nil
	}
	out := make([]types.Type, len(as))
	for i := range as {
		t, diag := s.unify(Origin{Addr: a.Addr, Type: as[i]}, Origin{Addr: b.Addr, Type: bs[i]})
		if diag != nil {
			return nil, diag
		}
		out[i] = t
	}
	return out, nil
}

func (s *Solver) mismatch(a, b Origin) *address.Diagnostic {
	return address.New(address.CodeCouldNotUnify, a.Addr,
		"could not unify %s with %s", s.h.Apply(a.Type), s.h.Apply(b.Type)).WithRelated(b.Addr)
}

// occurs is the occurs check: it recurses through nominal Args (which
// carry a use site's instantiated parameter and return types), treating
// Generic, Prelude, and UnitType as leaves.
func occurs(id int, t types.Type) bool {
	switch nt := t.(type) {
	case types.Var:
		return nt.ID == id
	case types.Struct:
		return occursArgs(id, nt.Args)
	case types.Enum:
		return occursArgs(id, nt.Args)
	case types.Function:
		return occursArgs(id, nt.Args)
	default:
		return false
	}
}

func occursArgs(id int, args []types.Type) bool {
	for _, a := range args {
		if occurs(id, a) {
			return true
		}
	}
	return false
}
