// Package repl implements the interactive line-editing session that
// drives the checker one declaration or expression at a time. It checks
// rather than executes: the VM loop consumes compiled bytecode, not
// source text, so a source-level REPL naturally stops at the checker.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/oil-lang/oil/internal/arena"
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/checker"
	"github.com/oil-lang/oil/internal/diag"
	"github.com/oil-lang/oil/internal/lexer"
	"github.com/oil-lang/oil/internal/parser"
	"github.com/oil-lang/oil/internal/types"
)

// NewChecker builds the shared-arena Checker a fresh session starts
// from, split out so tests can drive Eval against a known-empty module.
func NewChecker() *checker.Checker {
	return checker.New("repl", arena.New[types.StructEntry](), arena.New[types.EnumEntry](), arena.New[types.FunctionEntry]())
}

var (
	green = color.New(color.FgGreen).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// REPL holds one checking session: the shared arenas and Checker grow
// across successive inputs, the way a statically-typed REPL accumulates
// a running module instead of re-checking the world on every line.
type REPL struct {
	Out      io.Writer
	renderer *diag.Renderer
	check    *checker.Checker
	exprSeq  int
	line     *liner.State
	history  []string
}

// New builds a fresh session rooted at a module named "repl".
func New(out io.Writer) *REPL {
	return &REPL{
		Out:      out,
		renderer: diag.New(),
		check:    NewChecker(),
	}
}

// Run drives the read-eval-print loop until EOF or ":quit".
func (r *REPL) Run() error {
	r.line = liner.NewLiner()
	defer r.line.Close()
	r.line.SetCtrlCAborts(true)

	fmt.Fprintln(r.Out, bold("oil repl")+dim(" — type :help for commands, :quit to exit"))

	for {
		input, err := r.line.Prompt("oil> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(r.Out)
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		r.line.AppendHistory(input)
		r.history = append(r.history, input)

		switch trimmed {
		case ":quit", ":q":
			return nil
		case ":help":
			r.printHelp()
			continue
		case ":history":
			for i, h := range r.history {
				fmt.Fprintf(r.Out, "  %d  %s\n", i+1, h)
			}
			continue
		}

		r.Eval(trimmed)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.Out, "  :help          show this message")
	fmt.Fprintln(r.Out, "  :quit, :q      exit the session")
	fmt.Fprintln(r.Out, "  :history       show previously entered lines")
	fmt.Fprintln(r.Out, "  <declaration>  struct/enum/fn/const — defines it in the session module")
	fmt.Fprintln(r.Out, "  <expression>   checked against Dyn; reports whether it typechecks")
}

// Eval checks one line of input: as a sequence of declarations if it
// parses as one, otherwise as a bare expression wrapped in a throwaway
// function whose declared return type is dyn (which unifies with
// anything but Unit), which is enough to report pass/fail and any
// warnings without requiring a declared return type for every one-off
// expression a user types.
func (r *REPL) Eval(src string) {
	if file, errs := r.parse(src, "repl"); len(errs) == 0 && len(file.Decls) > 0 {
		r.checkDecls(file)
		return
	}

	r.exprSeq++
	wrapped := fmt.Sprintf("fn __repl_expr_%d(): dyn {\n%s\n}", r.exprSeq, src)
	file, errs := r.parse(wrapped, "repl")
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(r.Out, "parse error: %s\n", e)
		}
		return
	}
	r.checkDecls(file)
}

func (r *REPL) parse(src, source string) (*ast.File, []error) {
	l := lexer.New([]byte(src), source)
	return parser.ParseFile(l)
}

func (r *REPL) checkDecls(file *ast.File) {
	diags := r.check.CheckFile(file, nil)
	for _, d := range diags {
		r.renderer.Diagnostic(r.Out, d)
	}
	for _, w := range r.check.Warnings {
		r.renderer.Warning(r.Out, w)
	}
	r.check.Warnings = nil
	if len(diags) == 0 {
		fmt.Fprintln(r.Out, green("ok"))
	}
}
