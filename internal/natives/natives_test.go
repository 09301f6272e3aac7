package natives

import (
	"testing"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/gc"
	"github.com/oil-lang/oil/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContext struct {
	tracer *gc.Tracer
	stack  []value.Value
}

func (f *fakeContext) Push(v value.Value) { f.stack = append(f.stack, v) }
func (f *fakeContext) Pop() value.Value {
	if len(f.stack) == 0 {
		return value.Value{}
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}
func (f *fakeContext) Tracer() *gc.Tracer { return f.tracer }

func TestRegistryRegistersIOPrintln(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	reg := NewRegistry(tr)

	v, diag := reg.Lookup(address.Unknown(), "io@println")
	require.Nil(t, diag)
	assert.Equal(t, value.KindNative, v.Kind)
}

func TestPrintlnPopsArgumentAndPushesNullWhenRequested(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	reg := NewRegistry(tr)

	v, diag := reg.Lookup(address.Unknown(), "io@println")
	require.Nil(t, diag)
	native, ok := tr.Get(v.Ref).(*value.NativeObj)
	require.True(t, ok)

	ctx := &fakeContext{tracer: tr, stack: []value.Value{value.Int(42)}}
	result, err := native.Call(ctx, true, 0)
	require.NoError(t, err)
	assert.Equal(t, value.KindNull, result.Kind)
	assert.Equal(t, 0, len(ctx.stack))
}

func TestPrintSkipsPushWhenNotRequested(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	reg := NewRegistry(tr)

	v, _ := reg.Lookup(address.Unknown(), "io@print")
	native := tr.Get(v.Ref).(*value.NativeObj)

	ctx := &fakeContext{tracer: tr, stack: []value.Value{value.Int(1)}}
	result, err := native.Call(ctx, false, 0)
	require.NoError(t, err)
	assert.Equal(t, value.Value{}, result)
}

func TestLookupUnknownNativeFails(t *testing.T) {
	tr := gc.New(gc.DefaultSettings())
	reg := NewRegistry(tr)

	_, diag := reg.Lookup(address.Unknown(), "io@nope")
	require.NotNil(t, diag)
}
