package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestEvalAcceptsStructDecl(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := New(&buf)

	r.Eval("struct Point { x: Int, y: Int }")

	assert.Contains(t, buf.String(), "ok")
	assert.Equal(t, 1, r.check.Structs.Len())
}

func TestEvalAcceptsBareExpression(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := New(&buf)

	r.Eval("1 + 2")

	assert.Contains(t, buf.String(), "ok")
}

func TestEvalReportsDiagnosticOnUnitExpression(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := New(&buf)

	r.Eval("let x = 1")

	out := buf.String()
	assert.True(t, strings.Contains(out, "error") && !strings.Contains(out, "ok"))
}

func TestEvalAccumulatesDeclarationsAcrossLines(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := New(&buf)

	r.Eval("struct Point { x: Int, y: Int }")
	r.Eval("fn sum(p: Point): Int { p.x + p.y }")

	assert.NotContains(t, buf.String(), "error")
	assert.Equal(t, 1, r.check.Functions.Len())
}
