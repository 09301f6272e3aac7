package diag

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/oil-lang/oil/internal/address"
)

func addr(line, col int) address.Address {
	return address.NewAddress("demo.oil", address.Span{
		Start: address.Pos{Line: line, Column: col},
		End:   address.Pos{Line: line, Column: col + 1},
	})
}

func TestDiagnosticRendersCodeAndMessage(t *testing.T) {
	color.NoColor = true

	r := New()
	r.Sources["demo.oil"] = "fn main() {\n  let x = 1 + \"s\"\n}\n"

	d := address.New(address.CodeCouldNotUnify, addr(2, 11), "cannot unify Int with String")

	var buf bytes.Buffer
	r.Diagnostic(&buf, d)

	out := buf.String()
	assert.Contains(t, out, "TYP001")
	assert.Contains(t, out, "cannot unify Int with String")
	assert.Contains(t, out, "demo.oil:2:11")
	assert.Contains(t, out, "let x = 1 + \"s\"")
}

func TestGCTraceRendersCollectionStats(t *testing.T) {
	color.NoColor = true

	r := New()
	var buf bytes.Buffer
	r.GCTrace(&buf, "gc: swept %d objects, %d live", 3, 7)

	assert.Equal(t, "gc: swept 3 objects, 7 live\n", buf.String())
}

func TestWarningSkipsUnknownAddressSnippet(t *testing.T) {
	color.NoColor = true

	r := New()
	w := address.Warning{Code: address.WarnCallOfDyn, Message: "call on Dyn value", At: address.Unknown()}

	var buf bytes.Buffer
	r.Warning(&buf, w)

	out := buf.String()
	assert.Contains(t, out, "WARN002")
	assert.Contains(t, out, "call on Dyn value")
	assert.NotContains(t, out, " |", "no source snippet for a builtin address")
}
