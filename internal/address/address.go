// Package address carries source locations through every stage of the
// toolchain: the lexer stamps positions onto tokens, the parser folds them
// into spans on AST nodes, and the checker and VM attach them to every
// diagnostic they raise.
package address

import "fmt"

// Pos is a single point in a named source file.
type Pos struct {
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a byte range within a single source, start inclusive and end
// exclusive.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Address pairs a span with the name of the source it locates. Every
// checker and runtime node carries one.
type Address struct {
	Source string
	Span   Span
}

func (a Address) String() string {
	if a.Source == "" {
		return a.Span.String()
	}
	return fmt.Sprintf("%s:%s", a.Source, a.Span)
}

// NewAddress builds an Address for a concrete source and span.
func NewAddress(source string, span Span) Address {
	return Address{Source: source, Span: span}
}

// Unknown is the synthetic address used for natives and other
// compiler-injected nodes that do not originate from source text.
func Unknown() Address {
	return Address{Source: "<builtin>"}
}

// IsUnknown reports whether this address is the synthetic builtin
// location rather than a position in real source.
func (a Address) IsUnknown() bool {
	return a.Source == "<builtin>"
}
