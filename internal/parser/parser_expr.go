package parser

import (
	"strconv"

	"github.com/oil-lang/oil/internal/address"
	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/lexer"
)

// Precedence levels, lowest to highest.
const (
	LowestPrec = iota
	OrPrec
	AndPrec
	EqualityPrec
	ComparePrec
	RangePrec
	AddPrec
	MulPrec
	UnaryPrec
)

var binPrec = map[lexer.TokenType]int{
	lexer.OR:      OrPrec,
	lexer.AND:     AndPrec,
	lexer.EQ:      EqualityPrec,
	lexer.NEQ:     EqualityPrec,
	lexer.LT:      ComparePrec,
	lexer.GT:      ComparePrec,
	lexer.LTE:     ComparePrec,
	lexer.GTE:     ComparePrec,
	lexer.PLUS:    AddPrec,
	lexer.MINUS:   AddPrec,
	lexer.STAR:    MulPrec,
	lexer.SLASH:   MulPrec,
	lexer.PERCENT: MulPrec,
}

var binOps = map[lexer.TokenType]ast.BinOp{
	lexer.PLUS:    ast.OpAdd,
	lexer.MINUS:   ast.OpSub,
	lexer.STAR:    ast.OpMul,
	lexer.SLASH:   ast.OpDiv,
	lexer.PERCENT: ast.OpMod,
	lexer.EQ:      ast.OpEq,
	lexer.NEQ:     ast.OpNeq,
	lexer.LT:      ast.OpLt,
	lexer.GT:      ast.OpGt,
	lexer.LTE:     ast.OpLte,
	lexer.GTE:     ast.OpGte,
	lexer.AND:     ast.OpAnd,
	lexer.OR:      ast.OpOr,
}

// parseExpr implements precedence-climbing: it parses a unary/primary
// expression then repeatedly folds in binary operators whose precedence
// is at least minPrec, and folds range operators as a special case since
// they are non-associative.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		if p.at(lexer.DOTDOT) || p.at(lexer.DOTDOTEQ) {
			if RangePrec < minPrec {
				break
			}
			incl := p.at(lexer.DOTDOTEQ)
			start := p.curAddr()
			p.next()
			to := p.parseExpr(RangePrec + 1)
			left = &ast.Range{Location: start, From: left, To: to, Inclusive: incl}
			continue
		}

		prec, ok := binPrec[p.cur.Type]
		if !ok || prec < minPrec {
			break
		}
		op := binOps[p.cur.Type]
		start := p.curAddr()
		p.next()
		right := p.parseExpr(prec + 1)
		left = &ast.Binary{Location: start, Op: op, Left: left, Right: right}
	}

	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(lexer.MINUS) {
		start := p.curAddr()
		p.next()
		operand := p.parseUnary()
		return &ast.Unary{Location: start, Op: ast.OpNeg, Operand: operand}
	}
	if p.at(lexer.NOT) {
		start := p.curAddr()
		p.next()
		operand := p.parseUnary()
		return &ast.Unary{Location: start, Op: ast.OpNot, Operand: operand}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur.Type {
		case lexer.DOT:
			start := p.curAddr()
			p.next()
			field := p.expect(lexer.IDENT).Literal
			expr = &ast.FieldAccess{Location: start, Base: expr, Field: field}
		case lexer.LPAREN:
			start := p.curAddr()
			p.next()
			var args []ast.Expr
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				args = append(args, p.parseExpr(LowestPrec))
				if !p.accept(lexer.COMMA) {
					break
				}
			}
			p.expect(lexer.RPAREN)
			expr = &ast.Call{Location: start, Callee: expr, Args: args}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.curAddr()

	switch p.cur.Type {
	case lexer.INT:
		lit := p.cur.Literal
		p.next()
		v, _ := strconv.ParseInt(lit, 10, 64)
		return &ast.IntLit{Location: start, Value: v}
	case lexer.FLOAT:
		lit := p.cur.Literal
		p.next()
		v, _ := strconv.ParseFloat(lit, 64)
		return &ast.FloatLit{Location: start, Value: v}
	case lexer.STRING:
		lit := p.cur.Literal
		p.next()
		return &ast.StringLit{Location: start, Value: lit}
	case lexer.TRUE:
		p.next()
		return &ast.BoolLit{Location: start, Value: true}
	case lexer.FALSE:
		p.next()
		return &ast.BoolLit{Location: start, Value: false}
	case lexer.LPAREN:
		p.next()
		e := p.parseExpr(LowestPrec)
		p.expect(lexer.RPAREN)
		return e
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIf()
	case lexer.LOOP:
		return p.parseLoop()
	case lexer.MATCH:
		return p.parseMatch()
	case lexer.IDENT:
		name := p.cur.Literal
		p.next()
		if p.at(lexer.LBRACE) && p.constructAllowed() {
			return p.parseConstruct(start, name)
		}
		return &ast.Ident{Location: start, Name: name}
	default:
		p.errorf("unexpected token %v in expression", p.cur.Type)
		p.next()
		return &ast.Ident{Location: start, Name: "<error>"}
	}
}

// constructAllowed disambiguates `Name { ... }` instance construction from
// a following block, by requiring the brace to be immediately followed by
// an identifier-colon or an immediate close brace (empty struct).
func (p *Parser) constructAllowed() bool {
	if p.peek.Type == lexer.RBRACE {
		return true
	}
	if p.peek.Type != lexer.IDENT {
		return false
	}
	// Scan one token past the identifier on a copy of the lexer.
	ahead := *p.l
	return ahead.NextToken().Type == lexer.COLON
}

func (p *Parser) parseConstruct(start address.Address, name string) *ast.Construct {
	p.expect(lexer.LBRACE)
	c := &ast.Construct{Location: start, TypeName: name}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		fname := p.expect(lexer.IDENT).Literal
		p.expect(lexer.COLON)
		val := p.parseExpr(LowestPrec)
		c.Named = append(c.Named, ast.FieldInit{Name: fname, Value: val})
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE)
	return c
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.curAddr()
	p.expect(lexer.LBRACE)
	block := &ast.Block{Location: start}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		block.Statements = append(block.Statements, p.parseStmt())
	}
	p.expect(lexer.RBRACE)
	return block
}

func (p *Parser) parseIf() *ast.If {
	start := p.curAddr()
	p.expect(lexer.IF)
	cond := p.parseExpr(LowestPrec)
	then := p.parseBlock()
	node := &ast.If{Location: start, Cond: cond, Then: then}
	for p.at(lexer.ELIF) {
		p.next()
		ec := p.parseExpr(LowestPrec)
		eb := p.parseBlock()
		node.Elifs = append(node.Elifs, ast.ElifClause{Cond: ec, Body: eb})
	}
	if p.accept(lexer.ELSE) {
		node.Else = p.parseBlock()
	}
	return node
}

func (p *Parser) parseLoop() *ast.Loop {
	start := p.curAddr()
	p.expect(lexer.LOOP)
	var cond ast.Expr
	if !p.at(lexer.LBRACE) {
		cond = p.parseExpr(LowestPrec)
	}
	body := p.parseBlock()
	return &ast.Loop{Location: start, Cond: cond, Body: body}
}

func (p *Parser) parseMatch() *ast.Match {
	start := p.curAddr()
	p.expect(lexer.MATCH)
	scrutinee := p.parseExpr(LowestPrec)
	p.expect(lexer.LBRACE)
	m := &ast.Match{Location: start, Scrutinee: scrutinee}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		pat := p.parsePattern()
		p.expect(lexer.ARROW)
		body := p.parseExpr(LowestPrec)
		m.Cases = append(m.Cases, ast.MatchCase{Pattern: pat, Body: body})
		if !p.accept(lexer.COMMA) {
			p.accept(lexer.SEMI)
		}
	}
	p.expect(lexer.RBRACE)
	return m
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.curAddr()

	switch p.cur.Type {
	case lexer.LET:
		p.next()
		name := p.expect(lexer.IDENT).Literal
		var typ ast.TypeExpr
		if p.accept(lexer.COLON) {
			typ = p.parseTypeExpr()
		}
		p.expect(lexer.ASSIGN)
		value := p.parseExpr(LowestPrec)
		p.accept(lexer.SEMI)
		return &ast.LetStmt{Location: start, Name: name, Type: typ, Value: value}
	case lexer.BREAK:
		p.next()
		p.accept(lexer.SEMI)
		return &ast.BreakStmt{Location: start}
	case lexer.CONTINUE:
		p.next()
		p.accept(lexer.SEMI)
		return &ast.ContinueStmt{Location: start}
	case lexer.RETURN:
		p.next()
		var val ast.Expr
		if !p.at(lexer.SEMI) && !p.at(lexer.RBRACE) {
			val = p.parseExpr(LowestPrec)
		}
		p.accept(lexer.SEMI)
		return &ast.ReturnStmt{Location: start, Value: val}
	default:
		expr := p.parseExpr(LowestPrec)
		if p.at(lexer.ASSIGN) {
			p.next()
			value := p.parseExpr(LowestPrec)
			p.accept(lexer.SEMI)
			return &ast.AssignStmt{Location: start, Target: expr, Value: value}
		}
		p.accept(lexer.SEMI)
		return &ast.ExprStmt{Location: start, Value: expr}
	}
}
