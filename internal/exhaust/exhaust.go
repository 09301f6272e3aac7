// Package exhaust implements pattern exhaustiveness checking: deciding
// whether a match's cases cover every value of the scrutinee type.
package exhaust

import (
	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/types"
)

// Case is one match arm's relevant shape: whether it is a default
// (wildcard/bind) pattern, or names a specific enum variant.
type Case struct {
	Addr      address.Address
	IsDefault bool
	Variant   string // set when !IsDefault and the scrutinee is an Enum
}

// Check verifies that cases exhaustively cover scrutinee, given the
// enum's full variant list when scrutinee is an Enum (variants is unused
// otherwise).
func Check(scrutinee types.Type, variants []string, cases []Case) *address.Diagnostic {
	enumType, isEnum := scrutinee.(types.Enum)
	_ = enumType

	if !isEnum {
		return requireDefault(cases)
	}

	seen := make(map[string]bool)
	defaultSeen := false
	var defaultAddr address.Address

	for _, c := range cases {
		if c.IsDefault {
			if defaultSeen {
				return address.New(address.CodeManyDefaultCases, c.Addr, "match has more than one default case")
			}
			defaultSeen = true
			defaultAddr = c.Addr
			continue
		}
		seen[c.Variant] = true
	}

	if defaultSeen {
		_ = defaultAddr
		return nil
	}

	// An enum with no variants has no constructor a pattern could name,
	// so only a default case can cover it.
	if len(variants) == 0 {
		at := address.Unknown()
		if len(cases) > 0 {
			at = cases[len(cases)-1].Addr
		}
		return address.New(address.CodeNoDefaultCaseFound, at,
			"match over an empty enum requires a default case")
	}

	for _, v := range variants {
		if !seen[v] {
			at := address.Unknown()
			if len(cases) > 0 {
				at = cases[len(cases)-1].Addr
			}
			return address.New(address.CodeNoDefaultCaseFound, at,
				"match is not exhaustive: missing variant %q and no default case", v)
		}
	}

	return nil
}

func requireDefault(cases []Case) *address.Diagnostic {
	defaultCount := 0
	var last address.Address
	for _, c := range cases {
		last = c.Addr
		if c.IsDefault {
			defaultCount++
			if defaultCount > 1 {
				return address.New(address.CodeManyDefaultCases, c.Addr, "match has more than one default case")
			}
		}
	}
	if defaultCount == 0 {
		at := address.Unknown()
		if len(cases) > 0 {
			at = last
		}
		return address.New(address.CodeNoDefaultCaseFound, at, "match requires a default case for this scrutinee type")
	}
	return nil
}
