package frame

import (
	"testing"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/gc"
	"github.com/oil-lang/oil/internal/table"
	"github.com/oil-lang/oil/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineAndLoadInSameFrame(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	f := New(tr)
	require.Nil(t, f.Define(address.Unknown(), "x", value.Int(7)))

	got, diag := f.Load(address.Unknown(), "x")
	require.Nil(t, diag)
	assert.True(t, value.Equals(value.Int(7), got))
}

func TestPushRootsChildUnderParent(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	f := New(tr)
	require.Nil(t, f.Define(address.Unknown(), "x", value.Int(1)))

	_, childH := table.New(tr)
	f.Push(childH)

	got, diag := f.Load(address.Unknown(), "x")
	require.Nil(t, diag)
	assert.True(t, value.Equals(value.Int(1), got))
}

func TestPopReturnsToParentScope(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	f := New(tr)
	require.Nil(t, f.Define(address.Unknown(), "x", value.Int(1)))

	_, childH := table.New(tr)
	f.Push(childH)
	require.Nil(t, f.Define(address.Unknown(), "y", value.Int(2)))
	f.Pop()

	_, diag := f.Load(address.Unknown(), "y")
	require.NotNil(t, diag)
}

func TestLoadFallsBackToClosure(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	captured, capturedH := table.New(tr)
	require.Nil(t, captured.Define(address.Unknown(), "z", value.Bool(true)))

	f := WithClosure(tr, capturedH)
	got, diag := f.Load(address.Unknown(), "z")
	require.Nil(t, diag)
	assert.True(t, value.Equals(value.Bool(true), got))
}

func TestStoreUnknownNameFails(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	f := New(tr)
	diag := f.Store(address.Unknown(), "missing", value.Int(1))
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeVariableIsNotDefined, diag.Code)
}

func TestFrameRootsItsEnvironments(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	f := New(tr)
	require.Nil(t, f.Define(address.Unknown(), "x", value.Int(7)))

	tr.CollectGarbage()

	got, diag := f.Load(address.Unknown(), "x")
	require.Nil(t, diag)
	assert.True(t, value.Equals(value.Int(7), got))
}

func TestDisposeReleasesFrameRoots(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	f := New(tr)
	h := f.Peek()

	f.Dispose()
	tr.CollectGarbage()
	assert.Nil(t, tr.Get(h))
}

func TestClosureEnvironmentOutlivesItsFrame(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())

	// make() defines c, then returns a closure over its scope.
	maker := New(tr)
	require.Nil(t, maker.Define(address.Unknown(), "c", value.Int(10)))
	captured := maker.Peek()

	fnH := tr.Alloc(&value.FnObj{Name: "g", Entry: 0, Closure: captured})
	tr.Guard(fnH)

	module := New(tr)
	require.Nil(t, module.Define(address.Unknown(), "g", value.Fn(fnH)))
	tr.Unguard(fnH)

	// make() returns: its frame dies, but g's closure keeps the scope.
	maker.Dispose()
	tr.CollectGarbage()

	env, ok := tr.Get(captured).(*table.Table)
	require.True(t, ok)
	got, diag := env.Lookup(address.Unknown(), "c")
	require.Nil(t, diag)
	assert.True(t, value.Equals(value.Int(10), got))
}

func TestRecursiveFramesShareOneClosurePin(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	captured, capturedH := table.New(tr)
	require.Nil(t, captured.Define(address.Unknown(), "n", value.Int(1)))

	outer := WithClosure(tr, capturedH)
	inner := WithClosure(tr, capturedH)

	inner.Dispose()
	tr.CollectGarbage()
	require.NotNil(t, tr.Get(capturedH))

	got, diag := outer.Load(address.Unknown(), "n")
	require.Nil(t, diag)
	assert.True(t, value.Equals(value.Int(1), got))

	outer.Dispose()
	tr.CollectGarbage()
	assert.Nil(t, tr.Get(capturedH))
}

func TestIsExistsChecksStackThenClosure(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	captured, capturedH := table.New(tr)
	require.Nil(t, captured.Define(address.Unknown(), "z", value.Bool(true)))

	f := WithClosure(tr, capturedH)
	assert.True(t, f.IsExists("z"))
	assert.False(t, f.IsExists("nope"))
}
