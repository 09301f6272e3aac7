package hydrator

import (
	"testing"

	"github.com/oil-lang/oil/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestFreshMintsDistinctIDs(t *testing.T) {
	h := New()
	a := h.Fresh()
	b := h.Fresh()
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSubstituteFirstBindingWins(t *testing.T) {
	h := New()
	v := h.Fresh()
	h.Substitute(v.ID, types.Prelude{Kind: types.Int})
	h.Substitute(v.ID, types.Prelude{Kind: types.Float})

	assert.Equal(t, types.Prelude{Kind: types.Int}, h.Apply(v))
}

func TestApplyIsIdempotent(t *testing.T) {
	h := New()
	a := h.Fresh()
	b := h.Fresh()
	h.Substitute(a.ID, b)
	h.Substitute(b.ID, types.Prelude{Kind: types.String})

	once := h.Apply(a)
	twice := h.Apply(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, types.Prelude{Kind: types.String}, once)
}

func TestGenericScopeShadowing(t *testing.T) {
	h := New()
	h.PushScope([]string{"T"})
	assert.True(t, h.InGenericScope("T"))
	h.PushScope([]string{"U"})
	assert.False(t, h.InGenericScope("T"))
	assert.True(t, h.InGenericScope("U"))
	h.PopScope()
	assert.True(t, h.InGenericScope("T"))
}

func TestSubstGenericsReplacesNestedArgs(t *testing.T) {
	listID := types.Struct{ID: 1, Args: []types.Type{types.Generic{Name: "T"}}}
	got := SubstGenerics(listID, map[string]types.Type{"T": types.Prelude{Kind: types.Int}})
	want := types.Struct{ID: 1, Args: []types.Type{types.Prelude{Kind: types.Int}}}
	assert.Equal(t, want, got)
}
