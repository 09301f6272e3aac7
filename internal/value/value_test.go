package value

import (
	"testing"

	"github.com/oil-lang/oil/internal/gc"
	"github.com/stretchr/testify/assert"
)

func TestImmediatesCompareStructurally(t *testing.T) {
	assert.True(t, Equals(Int(5), Int(5)))
	assert.False(t, Equals(Int(5), Int(6)))
	assert.True(t, Equals(Bool(true), Bool(true)))
	assert.True(t, Equals(Null(), Null()))
}

func TestRefValuesCompareByHandle(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	h1 := tr.Alloc(&StringObj{S: "hi"})
	h2 := tr.Alloc(&StringObj{S: "hi"})

	assert.True(t, Equals(String(h1), String(h1)))
	assert.False(t, Equals(String(h1), String(h2)))
}

func TestDifferentKindsNeverEqual(t *testing.T) {
	assert.False(t, Equals(Int(0), Float(0)))
}

func TestListTracesItems(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	inner := tr.Alloc(&StringObj{S: "x"})
	list := tr.Alloc(&ListObj{Items: []Value{String(inner)}})
	tr.AddRoot(list)

	tr.CollectGarbage()
	assert.NotNil(t, tr.Get(inner))
}

func TestFnTracesClosureAndOwner(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	closure := tr.Alloc(&StringObj{S: "env-stand-in"})
	ownerFields := tr.Alloc(&StringObj{S: "owner-stand-in"})
	owner := tr.Alloc(&InstanceObj{Fields: ownerFields})

	fn := tr.Alloc(&FnObj{Name: "f", Closure: closure, HasOwner: true, Owner: Instance(owner)})
	tr.AddRoot(fn)
	tr.CollectGarbage()

	assert.NotNil(t, tr.Get(closure))
	assert.NotNil(t, tr.Get(owner))
	assert.NotNil(t, tr.Get(ownerFields))
}

func TestUnrootedListIsSweptWithItems(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	inner := tr.Alloc(&StringObj{S: "x"})
	tr.Alloc(&ListObj{Items: []Value{String(inner)}})

	tr.CollectGarbage()
	assert.Nil(t, tr.Get(inner))
}
