package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaf struct{ traced int }

func (l *leaf) Trace(t *Tracer) { l.traced++ }

type node struct {
	child Handle
}

func (n *node) Trace(t *Tracer) {
	if n.child != 0 {
		t.Mark(n.child)
	}
}

func TestAllocAssignsDistinctHandles(t *testing.T) {
	tr := New(DefaultSettings())
	a := tr.Alloc(&leaf{})
	b := tr.Alloc(&leaf{})
	assert.NotEqual(t, a, b)
}

func TestUnrootedUnmarkedIsSwept(t *testing.T) {
	tr := New(DefaultSettings())
	h := tr.Alloc(&leaf{})
	tr.CollectGarbage()
	assert.Nil(t, tr.Get(h))
}

func TestRootSurvivesCollection(t *testing.T) {
	tr := New(DefaultSettings())
	h := tr.Alloc(&leaf{})
	tr.AddRoot(h)
	tr.CollectGarbage()
	assert.NotNil(t, tr.Get(h))
}

func TestGuardSurvivesCollection(t *testing.T) {
	tr := New(DefaultSettings())
	h := tr.Alloc(&leaf{})
	tr.Guard(h)
	tr.CollectGarbage()
	assert.NotNil(t, tr.Get(h))
	tr.Unguard(h)
	tr.CollectGarbage()
	assert.Nil(t, tr.Get(h))
}

func TestTraceReachesChildren(t *testing.T) {
	tr := New(DefaultSettings())
	child := tr.Alloc(&leaf{})
	parent := tr.Alloc(&node{child: child})
	tr.AddRoot(parent)
	tr.CollectGarbage()
	assert.NotNil(t, tr.Get(parent))
	assert.NotNil(t, tr.Get(child))
}

func TestCycleDoesNotInfiniteLoop(t *testing.T) {
	tr := New(DefaultSettings())
	a := tr.Alloc(&node{})
	b := tr.Alloc(&node{child: a})
	tr.Get(a).(*node).child = b
	tr.AddRoot(a)

	require.NotPanics(t, func() { tr.CollectGarbage() })
	assert.NotNil(t, tr.Get(a))
	assert.NotNil(t, tr.Get(b))
}

func TestRootPinsAreCounted(t *testing.T) {
	tr := New(DefaultSettings())
	h := tr.Alloc(&leaf{})
	tr.AddRoot(h)
	tr.AddRoot(h)

	tr.RemoveRoot(h)
	tr.CollectGarbage()
	require.NotNil(t, tr.Get(h))

	tr.RemoveRoot(h)
	tr.CollectGarbage()
	assert.Nil(t, tr.Get(h))
}

func TestGuardPinsAreCounted(t *testing.T) {
	tr := New(DefaultSettings())
	h := tr.Alloc(&leaf{})
	tr.Guard(h)
	tr.Guard(h)

	tr.Unguard(h)
	tr.CollectGarbage()
	require.NotNil(t, tr.Get(h))

	tr.Unguard(h)
	tr.CollectGarbage()
	assert.Nil(t, tr.Get(h))
}

func TestFreezeSuppressesCheck(t *testing.T) {
	tr := New(Settings{Threshold: 0, GrowFactor: 2})
	tr.Freeze()
	tr.Alloc(&leaf{})
	tr.Check()
	assert.Equal(t, 1, tr.HeapLen())
}

func TestCheckGrowsThresholdAfterSweep(t *testing.T) {
	tr := New(Settings{Threshold: 1, GrowFactor: 3})
	tr.Alloc(&leaf{})
	h2 := tr.Alloc(&leaf{})
	tr.AddRoot(h2)
	tr.Check()
	assert.Equal(t, 1, tr.HeapLen())
	assert.Equal(t, 3, tr.settings.Threshold)
}
