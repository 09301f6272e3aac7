package rib

import (
	"testing"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineAndLookup(t *testing.T) {
	s := New()
	s.Push(KindFunction)
	diag := s.Define(address.Unknown(), "x", types.Prelude{Kind: types.Int}, false)
	require.Nil(t, diag)

	got, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, types.Prelude{Kind: types.Int}, got)
}

func TestDefineWithoutRedefineErrorsOnDuplicate(t *testing.T) {
	s := New()
	s.Push(KindFunction)
	require.Nil(t, s.Define(address.Unknown(), "x", types.Prelude{Kind: types.Int}, false))

	diag := s.Define(address.Unknown(), "x", types.Prelude{Kind: types.Bool}, false)
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeVariableIsAlreadyDefined, diag.Code)
}

func TestDefineWithRedefineOverwrites(t *testing.T) {
	s := New()
	s.Push(KindFunction)
	require.Nil(t, s.Define(address.Unknown(), "x", types.Prelude{Kind: types.Int}, false))
	require.Nil(t, s.Define(address.Unknown(), "x", types.Prelude{Kind: types.Bool}, true))

	got, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, types.Prelude{Kind: types.Bool}, got)
}

func TestLookupSearchesInnermostFirst(t *testing.T) {
	s := New()
	s.Push(KindFunction)
	require.Nil(t, s.Define(address.Unknown(), "x", types.Prelude{Kind: types.Int}, false))
	s.Push(KindConditional)
	require.Nil(t, s.Define(address.Unknown(), "x", types.Prelude{Kind: types.String}, false))

	got, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, types.Prelude{Kind: types.String}, got)

	s.Pop()
	got, ok = s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, types.Prelude{Kind: types.Int}, got)
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	s := New()
	s.Push(KindFunction)
	_, ok := s.Lookup("missing")
	assert.False(t, ok)
}

func TestContainsRibWalksUpStack(t *testing.T) {
	s := New()
	s.Push(KindFunction)
	s.Push(KindConditional)
	assert.True(t, s.ContainsRib(KindFunction))
	assert.False(t, s.ContainsRib(KindLoop))

	s.Push(KindLoop)
	assert.True(t, s.ContainsRib(KindLoop))
}

func TestContainsTypeFindsNearestTypeRib(t *testing.T) {
	s := New()
	selfType := types.Struct{ID: 3}
	s.PushType(selfType)
	s.Push(KindFunction)

	got, ok := s.ContainsType()
	require.True(t, ok)
	assert.Equal(t, selfType, got)
}

func TestPushPopBalancesDepth(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Depth())
	s.Push(KindFunction)
	s.Push(KindLoop)
	assert.Equal(t, 2, s.Depth())
	s.Pop()
	assert.Equal(t, 1, s.Depth())
}
