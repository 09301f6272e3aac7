package parser

import (
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/lexer"
)

// parseTypeExpr parses one type annotation: a named type (optionally
// generic-applied), a function type, or `dyn`.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.curAddr()

	if p.at(lexer.FN) {
		p.next()
		p.expect(lexer.LPAREN)
		var params []ast.TypeExpr
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			params = append(params, p.parseTypeExpr())
			if !p.accept(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RPAREN)
		var ret ast.TypeExpr
		if p.accept(lexer.COLON) {
			ret = p.parseTypeExpr()
		}
		return &ast.FnTypeExpr{Location: start, Params: params, Return: ret}
	}

	name := p.expect(lexer.IDENT).Literal
	if name == "dyn" {
		return &ast.DynTypeExpr{Location: start}
	}

	var args []ast.TypeExpr
	if p.accept(lexer.LBRACKET) {
		for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
			args = append(args, p.parseTypeExpr())
			if !p.accept(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RBRACKET)
	}
	return &ast.NamedTypeExpr{Location: start, Name: name, Args: args}
}
