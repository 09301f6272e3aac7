package parser

import (
	"strings"

	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/lexer"
)

// parseDependency parses `use a.b.c as Alias;` or `use a.b.c { x, y };`.
func (p *Parser) parseDependency() ast.Dependency {
	start := p.curAddr()
	p.expect(lexer.USE)

	var parts []string
	parts = append(parts, p.expect(lexer.IDENT).Literal)
	for p.accept(lexer.DOT) {
		parts = append(parts, p.expect(lexer.IDENT).Literal)
	}
	path := strings.Join(parts, ".")

	dep := ast.Dependency{Location: start, Path: path, Kind: ast.AsName, Alias: parts[len(parts)-1]}

	if p.accept(lexer.AS) {
		dep.Alias = p.expect(lexer.IDENT).Literal
	} else if p.at(lexer.LBRACE) {
		p.next()
		dep.Kind = ast.ForNames
		dep.Names = nil
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			dep.Names = append(dep.Names, p.expect(lexer.IDENT).Literal)
			if !p.accept(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RBRACE)
	}
	p.accept(lexer.SEMI)
	return dep
}

func (p *Parser) parsePublicity() ast.Publicity {
	if p.accept(lexer.PUB) {
		return ast.Public
	}
	return ast.Private
}

// parseGenerics parses an optional `[T, U]` generic parameter list.
func (p *Parser) parseGenerics() []string {
	if !p.accept(lexer.LBRACKET) {
		return nil
	}
	var names []string
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		names = append(names, p.expect(lexer.IDENT).Literal)
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	return names
}

// parseDecl parses one top-level declaration.
func (p *Parser) parseDecl() ast.Decl {
	pub := p.parsePublicity()

	switch p.cur.Type {
	case lexer.STRUCT:
		return p.parseStructDecl(pub)
	case lexer.ENUM:
		return p.parseEnumDecl(pub)
	case lexer.FN:
		return p.parseFnDecl(pub)
	case lexer.CONST:
		return p.parseConstDecl(pub)
	default:
		p.errorf("expected a declaration, got %v", p.cur.Type)
		p.next()
		return nil
	}
}

func (p *Parser) parseTypedFieldList(open, close lexer.TokenType) []ast.TypeParam {
	p.expect(open)
	var fields []ast.TypeParam
	for !p.at(close) && !p.at(lexer.EOF) {
		name := p.expect(lexer.IDENT).Literal
		p.expect(lexer.COLON)
		typ := p.parseTypeExpr()
		fields = append(fields, ast.TypeParam{Name: name, Type: typ})
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(close)
	return fields
}

func (p *Parser) parseStructDecl(pub ast.Publicity) *ast.StructDecl {
	start := p.curAddr()
	p.expect(lexer.STRUCT)
	name := p.expect(lexer.IDENT).Literal
	generics := p.parseGenerics()
	fields := p.parseTypedFieldList(lexer.LBRACE, lexer.RBRACE)
	return &ast.StructDecl{Location: start, Name: name, Publicity: pub, Generics: generics, Fields: fields}
}

func (p *Parser) parseEnumDecl(pub ast.Publicity) *ast.EnumDecl {
	start := p.curAddr()
	p.expect(lexer.ENUM)
	name := p.expect(lexer.IDENT).Literal
	generics := p.parseGenerics()
	p.expect(lexer.LBRACE)
	var variants []ast.VariantDecl
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		vname := p.expect(lexer.IDENT).Literal
		var fields []ast.TypeParam
		if p.at(lexer.LPAREN) {
			fields = p.parseTypedFieldList(lexer.LPAREN, lexer.RPAREN)
		}
		variants = append(variants, ast.VariantDecl{Name: vname, Fields: fields})
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.EnumDecl{Location: start, Name: name, Publicity: pub, Generics: generics, Variants: variants}
}

func (p *Parser) parseFnDecl(pub ast.Publicity) *ast.FnDecl {
	start := p.curAddr()
	p.expect(lexer.FN)
	name := p.expect(lexer.IDENT).Literal
	generics := p.parseGenerics()
	params := p.parseTypedFieldList(lexer.LPAREN, lexer.RPAREN)

	var ret ast.TypeExpr
	if p.accept(lexer.COLON) {
		ret = p.parseTypeExpr()
	}

	decl := &ast.FnDecl{Location: start, Name: name, Publicity: pub, Generics: generics, Params: params, Return: ret}

	if p.accept(lexer.SEMI) {
		decl.Extern = true
		return decl
	}
	decl.Body = p.parseBlock()
	return decl
}

func (p *Parser) parseConstDecl(pub ast.Publicity) *ast.ConstDecl {
	start := p.curAddr()
	p.expect(lexer.CONST)
	name := p.expect(lexer.IDENT).Literal
	var typ ast.TypeExpr
	if p.accept(lexer.COLON) {
		typ = p.parseTypeExpr()
	}
	p.expect(lexer.ASSIGN)
	value := p.parseExpr(LowestPrec)
	p.accept(lexer.SEMI)
	return &ast.ConstDecl{Location: start, Name: name, Publicity: pub, Type: typ, Value: value}
}
