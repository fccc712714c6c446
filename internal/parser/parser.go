// Package parser implements the recursive-descent parser spec.md §6
// describes as the producer of the AST of spec.md §3. Grounded on go-dws's
// internal/parser.Parser shape (token cursor + panic-based error recovery
// synchronized at statement boundaries), scaled to Lox's grammar.
package parser

import (
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/token"
)

// Parser consumes a flat token slice and builds a statement list.
type Parser struct {
	tokens  []token.Token
	sink    diag.Sink
	current int
}

// New creates a Parser over tokens, reporting syntax errors to sink.
func New(tokens []token.Token, sink diag.Sink) *Parser {
	return &Parser{tokens: tokens, sink: sink}
}

// parseError unwinds the current declaration via panic/recover, the same
// technique go-dws's parser uses for statement-boundary recovery.
type parseError struct{}

// Parse parses the whole unit into a statement list. Parse errors are
// reported to the sink and recovered from at the next statement boundary
// (spec.md §7); the returned slice may be shorter than a fully valid parse
// but is always safe to resolve/evaluate up to the point of failure.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.matchKind(token.Class):
		return p.classDeclaration()
	case p.matchKind(token.Fun):
		return p.function("function")
	case p.matchKind(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name.")

	var superclass *ast.Variable
	if p.matchKind(token.Less) {
		p.consume(token.Identifier, "Expect superclass name.")
		superclass = &ast.Variable{Name: p.previous(), Depth: 0}
	}

	p.consume(token.LeftBrace, "Expect '{' before class body.")

	var methods []*ast.Fun
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RightBrace, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Fun {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= 255 {
				p.reportAtCurrent("Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.matchKind(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")

	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &ast.Fun{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")

	var init ast.Expr
	if p.matchKind(token.Equal) {
		init = p.expression()
	}

	p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Init: init}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.matchKind(token.For):
		return p.forStatement()
	case p.matchKind(token.If):
		return p.ifStatement()
	case p.matchKind(token.Return):
		return p.returnStatement()
	case p.matchKind(token.While):
		return p.whileStatement()
	case p.matchKind(token.Break):
		return p.breakStatement()
	case p.matchKind(token.Continue):
		return p.continueStatement()
	case p.matchKind(token.LeftBrace):
		return &ast.Block{Stmts: p.block()}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.matchKind(token.Semicolon):
		init = nil
	case p.matchKind(token.Var):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var incr ast.Expr
	if !p.check(token.RightParen) {
		incr = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	return &ast.For{Init: init, Cond: cond, Incr: incr, Body: body}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition.")

	then := p.statement()
	var elseBranch ast.Stmt
	if p.matchKind(token.Else) {
		elseBranch = p.statement()
	}

	return &ast.If{Cond: cond, Then: then, Else: elseBranch}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &ast.For{Cond: cond, Body: body}
}

func (p *Parser) breakStatement() ast.Stmt {
	keyword := p.previous()
	p.consume(token.Semicolon, "Expect ';' after 'break'.")
	return &ast.Break{Keyword: keyword}
}

func (p *Parser) continueStatement() ast.Stmt {
	keyword := p.previous()
	p.consume(token.Semicolon, "Expect ';' after 'continue'.")
	return &ast.Continue{Keyword: keyword}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Expr: expr}
}

// -- Expressions (precedence climbing) ---------------------------------

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.matchKind(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch e := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: e.Name, Value: value, Depth: 0}
		case *ast.Get:
			return &ast.Set{Object: e.Object, Name: e.Name, Value: value}
		default:
			p.reportAt(equals, "Invalid assignment target.")
		}
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.matchKind(token.Or) {
		op := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.matchKind(token.And) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.matchKind(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.matchKind(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.matchKind(token.Minus, token.Plus) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.matchKind(token.Slash, token.Star) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.matchKind(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.matchKind(token.LeftParen):
			expr = p.finishCall(expr)
		case p.matchKind(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= 255 {
				p.reportAtCurrent("Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.matchKind(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.matchKind(token.False, token.True, token.Nil, token.Number, token.String):
		return &ast.Literal{Token: p.previous()}
	case p.matchKind(token.This):
		return &ast.This{Keyword: p.previous(), Depth: 0}
	case p.matchKind(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "Expect '.' after 'super'.")
		method := p.consume(token.Identifier, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method, Depth: 0}
	case p.matchKind(token.Identifier):
		return &ast.Variable{Name: p.previous(), Depth: 0}
	case p.matchKind(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{Inner: expr}
	default:
		p.reportAtCurrent("Expect expression.")
		panic(parseError{})
	}
}

// -- Token cursor helpers -----------------------------------------------

func (p *Parser) matchKind(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.current++
			return true
		}
	}
	return false
}

func (p *Parser) check(k token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == k
}

func (p *Parser) consume(k token.Kind, msg string) token.Token {
	if p.check(k) {
		tok := p.peek()
		p.current++
		return tok
	}
	p.reportAtCurrent(msg)
	panic(parseError{})
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) reportAtCurrent(msg string) {
	p.sink.SyntaxAtToken(p.peek(), msg)
}

func (p *Parser) reportAt(tok token.Token, msg string) {
	p.sink.SyntaxAtToken(tok, msg)
}

// synchronize discards tokens until the next statement boundary, spec.md
// §7's parse-error recovery policy.
func (p *Parser) synchronize() {
	p.current++

	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}

		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Return:
			return
		}

		p.current++
	}
}
