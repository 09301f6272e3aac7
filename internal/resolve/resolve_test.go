package resolve

import (
	"testing"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/rib"
	"github.com/oil-lang/oil/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocalValue(t *testing.T) {
	ribs := rib.New()
	ribs.Push(rib.KindFunction)
	require.Nil(t, ribs.Define(address.Unknown(), "x", types.Prelude{Kind: types.Int}, false))

	current := &types.ModuleEntry{Fields: map[string]types.ModuleDef{}}
	r := New(ribs, current, nil)

	res, diag := r.Resolve(address.Unknown(), "x")
	require.Nil(t, diag)
	v, ok := res.(Value)
	require.True(t, ok)
	assert.Equal(t, types.Prelude{Kind: types.Int}, v.Type)
}

func TestResolveLocalShadowsModuleField(t *testing.T) {
	ribs := rib.New()
	ribs.Push(rib.KindFunction)
	require.Nil(t, ribs.Define(address.Unknown(), "Point", types.Prelude{Kind: types.String}, false))

	current := &types.ModuleEntry{Fields: map[string]types.ModuleDef{
		"Point": {Kind: types.DefType, StructID: 7},
	}}
	r := New(ribs, current, nil)

	res, diag := r.Resolve(address.Unknown(), "Point")
	require.Nil(t, diag)
	v, ok := res.(Value)
	require.True(t, ok)
	assert.Equal(t, types.Prelude{Kind: types.String}, v.Type)
}

func TestResolveCustomStruct(t *testing.T) {
	ribs := rib.New()
	current := &types.ModuleEntry{Fields: map[string]types.ModuleDef{
		"Point": {Kind: types.DefType, StructID: 3},
	}}
	r := New(ribs, current, nil)

	res, diag := r.Resolve(address.Unknown(), "Point")
	require.Nil(t, diag)
	c, ok := res.(Custom)
	require.True(t, ok)
	assert.False(t, c.IsEnum)
	assert.Equal(t, types.Prelude{Kind: types.Int}.String(), "Int")
	assert.EqualValues(t, 3, c.StructID)
}

func TestResolveModuleAlias(t *testing.T) {
	ribs := rib.New()
	current := &types.ModuleEntry{Fields: map[string]types.ModuleDef{}}
	io := &types.ModuleEntry{Name: "io", Fields: map[string]types.ModuleDef{}}
	r := New(ribs, current, map[string]*types.ModuleEntry{"io": io})

	res, diag := r.Resolve(address.Unknown(), "io")
	require.Nil(t, diag)
	m, ok := res.(Module)
	require.True(t, ok)
	assert.Equal(t, "io", m.Name)
}

func TestResolveUndefinedFails(t *testing.T) {
	ribs := rib.New()
	current := &types.ModuleEntry{Fields: map[string]types.ModuleDef{}}
	r := New(ribs, current, nil)

	_, diag := r.Resolve(address.Unknown(), "missing")
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeVariableIsNotDefined, diag.Code)
}

func TestResolveInModuleUnknownModuleFails(t *testing.T) {
	ribs := rib.New()
	current := &types.ModuleEntry{Fields: map[string]types.ModuleDef{}}
	r := New(ribs, current, nil)

	_, diag := r.ResolveInModule(address.Unknown(), "missing", "member")
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeImportOfUnknownModule, diag.Code)
}

func TestImportForNamesMakesMemberUnqualified(t *testing.T) {
	ribs := rib.New()
	current := &types.ModuleEntry{Fields: map[string]types.ModuleDef{}}
	mathMod := &types.ModuleEntry{Name: "math", Fields: map[string]types.ModuleDef{
		"sqrt": {Kind: types.DefFunction, FunctionID: 4},
	}}
	r := New(ribs, current, nil)
	r.ImportForNames(mathMod, []string{"sqrt"})

	res, diag := r.Resolve(address.Unknown(), "sqrt")
	require.Nil(t, diag)
	v, ok := res.(Value)
	require.True(t, ok)
	fn, ok := v.Type.(types.Function)
	require.True(t, ok)
	assert.EqualValues(t, 4, fn.ID)
}

func TestResolveInModuleMember(t *testing.T) {
	ribs := rib.New()
	current := &types.ModuleEntry{Fields: map[string]types.ModuleDef{}}
	mathMod := &types.ModuleEntry{Name: "math", Fields: map[string]types.ModuleDef{
		"sqrt": {Kind: types.DefFunction, FunctionID: 9},
	}}
	r := New(ribs, current, map[string]*types.ModuleEntry{"math": mathMod})

	res, diag := r.ResolveInModule(address.Unknown(), "math", "sqrt")
	require.Nil(t, diag)
	v, ok := res.(Value)
	require.True(t, ok)
	fn, ok := v.Type.(types.Function)
	require.True(t, ok)
	assert.EqualValues(t, 9, fn.ID)
}
