// Package parser is a recursive-descent, precedence-climbing parser
// producing the AST the checker consumes. Like the lexer, it is an
// external collaborator of the checker core: what matters downstream is
// the shape of what it hands the checker, not its own internal design.
package parser

import (
	"fmt"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/lexer"
)

// Parser consumes a token stream with one token of lookahead.
type Parser struct {
	l      *lexer.Lexer
	source string

	cur  lexer.Token
	peek lexer.Token

	errors []error
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, source: l.Source()}
	p.next()
	p.next()
	return p
}

// Errors returns every parse error recorded during parsing. Non-empty Errors means ParseFile's result should not be checked.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) addr(tok lexer.Token) address.Address {
	pos := address.Pos{Line: tok.Line, Column: tok.Column, Offset: tok.Offset}
	return address.Address{Source: p.source, Span: address.Span{Start: pos, End: pos}}
}

func (p *Parser) curAddr() address.Address { return p.addr(p.cur) }

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Errorf("%s: %s", p.curAddr(), fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.cur
	if p.cur.Type != tt {
		p.errorf("expected token %v, got %v (%q)", tt, p.cur.Type, p.cur.Literal)
	}
	p.next()
	return tok
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur.Type == tt }

func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.next()
		return true
	}
	return false
}

// ParseFile parses one complete source file into an *ast.File.
func ParseFile(l *lexer.Lexer) (*ast.File, []error) {
	p := New(l)
	file := &ast.File{Location: p.curAddr()}

	for p.at(lexer.USE) {
		file.Dependencies = append(file.Dependencies, p.parseDependency())
	}

	for !p.at(lexer.EOF) {
		d := p.parseDecl()
		if d != nil {
			file.Decls = append(file.Decls, d)
		}
	}

	return file, p.errors
}
