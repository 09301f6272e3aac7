package parser

import (
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/lexer"
)

// parsePattern parses one match-case pattern: `_`, a literal, a bare
// binding name, or `Enum.Variant(bindings...)`.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.curAddr()

	switch p.cur.Type {
	case lexer.UNDERSCORE:
		p.next()
		return &ast.WildcardPattern{Location: start}
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.TRUE, lexer.FALSE:
		return &ast.LiteralPattern{Location: start, Value: p.parsePrimary()}
	case lexer.IDENT:
		name := p.cur.Literal
		p.next()
		if p.accept(lexer.DOT) {
			variant := p.expect(lexer.IDENT).Literal
			var bindings []ast.Pattern
			if p.at(lexer.LPAREN) {
				p.next()
				for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
					bindings = append(bindings, p.parsePattern())
					if !p.accept(lexer.COMMA) {
						break
					}
				}
				p.expect(lexer.RPAREN)
			}
			return &ast.VariantPattern{Location: start, Enum: name, Variant: variant, Bindings: bindings}
		}
		return &ast.BindPattern{Location: start, Name: name}
	default:
		p.errorf("unexpected token %v in pattern", p.cur.Type)
		p.next()
		return &ast.WildcardPattern{Location: start}
	}
}
