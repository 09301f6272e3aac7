package table

import (
	"testing"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/gc"
	"github.com/oil-lang/oil/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineAndLookup(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	tbl, _ := New(tr)
	require.Nil(t, tbl.Define(address.Unknown(), "x", value.Int(1)))

	got, diag := tbl.Lookup(address.Unknown(), "x")
	require.Nil(t, diag)
	assert.True(t, value.Equals(value.Int(1), got))
}

func TestDefineDuplicateFails(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	tbl, _ := New(tr)
	require.Nil(t, tbl.Define(address.Unknown(), "x", value.Int(1)))

	diag := tbl.Define(address.Unknown(), "x", value.Int(2))
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeVariableIsAlreadyDefined, diag.Code)
}

func TestLookupFallsThroughRootChain(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	parent, parentH := New(tr)
	require.Nil(t, parent.Define(address.Unknown(), "x", value.Int(42)))

	child, _ := New(tr)
	child.SetRoot(parentH)

	got, diag := child.Lookup(address.Unknown(), "x")
	require.Nil(t, diag)
	assert.True(t, value.Equals(value.Int(42), got))
}

func TestLookupFallsThroughClosure(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	captured, capturedH := New(tr)
	require.Nil(t, captured.Define(address.Unknown(), "y", value.Bool(true)))

	fnScope, _ := New(tr)
	fnScope.SetClosure(capturedH)

	got, diag := fnScope.Lookup(address.Unknown(), "y")
	require.Nil(t, diag)
	assert.True(t, value.Equals(value.Bool(true), got))
}

func TestAssignUnknownNameFails(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	tbl, _ := New(tr)

	diag := tbl.Assign(address.Unknown(), "missing", value.Int(1))
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeVariableIsNotDefined, diag.Code)
}

func TestAssignThroughRootChainMutatesParent(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	parent, parentH := New(tr)
	require.Nil(t, parent.Define(address.Unknown(), "x", value.Int(1)))

	child, _ := New(tr)
	child.SetRoot(parentH)
	require.Nil(t, child.Assign(address.Unknown(), "x", value.Int(99)))

	got, _ := parent.Lookup(address.Unknown(), "x")
	assert.True(t, value.Equals(value.Int(99), got))
}

func TestHasIncludesRootChainNotClosure(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	parent, parentH := New(tr)
	require.Nil(t, parent.Define(address.Unknown(), "x", value.Int(1)))

	closureEnv, closureH := New(tr)
	require.Nil(t, closureEnv.Define(address.Unknown(), "z", value.Int(1)))

	child, _ := New(tr)
	child.SetRoot(parentH)
	child.SetClosure(closureH)

	assert.True(t, child.Has("x"))
	assert.False(t, child.Has("z"))
}

func TestTraceMarksFieldsRootAndClosure(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	inner := tr.Alloc(&value.StringObj{S: "s"})

	parent, parentH := New(tr)
	closureEnv, closureH := New(tr)

	child, childH := New(tr)
	child.SetRoot(parentH)
	child.SetClosure(closureH)
	require.Nil(t, child.Define(address.Unknown(), "v", value.String(inner)))

	tr.AddRoot(childH)
	tr.CollectGarbage()

	assert.NotNil(t, tr.Get(parentH))
	assert.NotNil(t, tr.Get(closureH))
	assert.NotNil(t, tr.Get(inner))
	_ = parent
	_ = closureEnv
}
