// Package diag renders Diagnostic and Warning values (internal/address)
// to a terminal: a reusable renderer instead of a package-level color
// block duplicated per command.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/oil-lang/oil/internal/address"
)

// Renderer formats diagnostics and warnings with ANSI color, optionally
// underlining the offending span in its source snippet.
type Renderer struct {
	red    func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	bold   func(a ...interface{}) string
	dim    func(a ...interface{}) string

	// Sources maps an Address.Source name to its full text, used to
	// render an underlined snippet under the primary span. Nil or a
	// missing entry just skips the snippet.
	Sources map[string]string
}

// New builds a Renderer. Color is driven by fatih/color's global
// NoColor detection (respects NO_COLOR and non-tty stdout).
func New() *Renderer {
	return &Renderer{
		red:    color.New(color.FgRed, color.Bold).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		cyan:   color.New(color.FgCyan).SprintFunc(),
		bold:   color.New(color.Bold).SprintFunc(),
		dim:    color.New(color.Faint).SprintFunc(),
		Sources: map[string]string{},
	}
}

// Diagnostic writes a fatal diagnostic to w: its code, message, primary
// span, related spans, and a source snippet when available.
func (r *Renderer) Diagnostic(w io.Writer, d *address.Diagnostic) {
	fmt.Fprintf(w, "%s %s: %s\n", r.red("error["+string(d.Code)+"]"), r.dim(d.Primary.String()), d.Message)
	r.snippet(w, d.Primary)
	for _, related := range d.Related {
		fmt.Fprintf(w, "  %s %s\n", r.cyan("note:"), r.dim(related.String()))
		r.snippet(w, related)
	}
}

// Warning writes a non-fatal warning to w, same shape as Diagnostic but
// yellow instead of red and without related spans
// (AccessOfDynField/CallOfDyn never carry related locations).
func (r *Renderer) Warning(w io.Writer, warn address.Warning) {
	fmt.Fprintf(w, "%s %s: %s\n", r.yellow("warning["+string(warn.Code)+"]"), r.dim(warn.At.String()), warn.Message)
	r.snippet(w, warn.At)
}

// GCTrace writes one collector debug line (mark/sweep statistics),
// dimmed so it reads as secondary output next to diagnostics. Its
// signature matches gc.Settings.DebugLogger once curried with a writer.
func (r *Renderer) GCTrace(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, r.dim(fmt.Sprintf(format, args...)))
}

func (r *Renderer) snippet(w io.Writer, addr address.Address) {
	if addr.IsUnknown() {
		return
	}
	src, ok := r.Sources[addr.Source]
	if !ok {
		return
	}
	lines := strings.Split(src, "\n")
	lineNo := addr.Span.Start.Line
	if lineNo < 1 || lineNo > len(lines) {
		return
	}
	line := lines[lineNo-1]
	fmt.Fprintf(w, "  %s %s\n", r.dim(fmt.Sprintf("%d |", lineNo)), line)

	start := addr.Span.Start.Column
	end := addr.Span.End.Column
	if addr.Span.End.Line != lineNo || end <= start {
		end = start + 1
	}
	if start < 1 {
		start = 1
	}
	pad := strings.Repeat(" ", len(fmt.Sprintf("%d |", lineNo))+start)
	carets := strings.Repeat("^", max(1, end-start))
	fmt.Fprintf(w, "  %s%s\n", pad, r.bold(r.red(carets)))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
