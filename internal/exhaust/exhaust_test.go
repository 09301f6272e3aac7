package exhaust

import (
	"testing"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonEnumRequiresDefault(t *testing.T) {
	diag := Check(types.Prelude{Kind: types.Int}, nil, []Case{
		{Addr: address.Unknown(), Variant: "1"},
	})
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeNoDefaultCaseFound, diag.Code)
}

func TestNonEnumWithDefaultSucceeds(t *testing.T) {
	diag := Check(types.Prelude{Kind: types.Int}, nil, []Case{
		{Addr: address.Unknown(), IsDefault: true},
	})
	assert.Nil(t, diag)
}

func TestEnumCoveredByAllVariants(t *testing.T) {
	diag := Check(types.Enum{ID: 1}, []string{"R", "G", "B"}, []Case{
		{Addr: address.Unknown(), Variant: "R"},
		{Addr: address.Unknown(), Variant: "G"},
		{Addr: address.Unknown(), Variant: "B"},
	})
	assert.Nil(t, diag)
}

func TestEnumMissingVariantFails(t *testing.T) {
	diag := Check(types.Enum{ID: 1}, []string{"R", "G", "B"}, []Case{
		{Addr: address.Unknown(), Variant: "R"},
		{Addr: address.Unknown(), Variant: "G"},
	})
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeNoDefaultCaseFound, diag.Code)
}

func TestEnumDefaultCoversRemaining(t *testing.T) {
	diag := Check(types.Enum{ID: 1}, []string{"R", "G", "B"}, []Case{
		{Addr: address.Unknown(), Variant: "R"},
		{Addr: address.Unknown(), IsDefault: true},
	})
	assert.Nil(t, diag)
}

func TestEmptyEnumRequiresDefault(t *testing.T) {
	diag := Check(types.Enum{ID: 1}, nil, nil)
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeNoDefaultCaseFound, diag.Code)

	diag = Check(types.Enum{ID: 1}, nil, []Case{
		{Addr: address.Unknown(), IsDefault: true},
	})
	assert.Nil(t, diag)
}

func TestDuplicateDefaultFails(t *testing.T) {
	diag := Check(types.Enum{ID: 1}, []string{"R"}, []Case{
		{Addr: address.Unknown(), IsDefault: true},
		{Addr: address.Unknown(), IsDefault: true},
	})
	require.NotNil(t, diag)
	assert.Equal(t, address.CodeManyDefaultCases, diag.Code)
}
