// Package parser implements a parser for Lox source code.
package parser

import (
	"fmt"
	"io"
	"slices"

	"github.com/wiseodd/lox/ast"
	"github.com/wiseodd/lox/lox"
	"github.com/wiseodd/lox/token"
)

// Parse parses the source code read from r.
// If an error is returned then an incomplete AST will still be returned along with it.
func Parse(r io.Reader) (*ast.Program, error) {
	lexer, err := newLexer(r)
	if err != nil {
		return &ast.Program{}, fmt.Errorf("constructing parser: %s", err)
	}

	p := &parser{lexer: lexer}
	lexer.SetErrorHandler(func(line int, format string, args ...any) {
		p.errs.Add(line, format, args...)
	})

	return p.Parse()
}

type parser struct {
	lexer   *lexer
	tok     token.Token // token currently being considered
	nextTok token.Token

	errs lox.Errors
}

// Parse parses the source code and returns the root node of the abstract syntax tree.
// If an error is returned then an incomplete AST will still be returned along with it.
func (p *parser) Parse() (*ast.Program, error) {
	// Populate tok and nextTok
	p.next()
	p.next()
	return &ast.Program{Stmts: p.parseDeclsUntil(token.EOF)}, p.errs.Err()
}

func (p *parser) parseDeclsUntil(types ...token.Type) []ast.Stmt {
	var stmts []ast.Stmt
	for !slices.Contains(types, p.tok.Type) {
		if stmt := p.safelyParseDecl(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// safelyParseDecl parses a declaration, recovering from a parsing error by synchronising with the next statement and
// returning nil.
func (p *parser) safelyParseDecl() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); ok {
				p.sync()
				stmt = nil
			} else {
				panic(r)
			}
		}
	}()
	return p.parseDecl()
}

// sync synchronises the parser with the next statement. This is used to recover from a parsing error.
func (p *parser) sync() {
	for {
		switch p.tok.Type {
		case token.Semicolon:
			p.next()
			return
		case token.Class, token.For, token.Fn, token.If, token.Print, token.Return, token.Var, token.While, token.EOF:
			return
		}
		p.next()
	}
}

func (p *parser) parseDecl() ast.Stmt {
	switch tok := p.tok; {
	case p.match(token.Class):
		return p.parseClassDecl(tok)
	case p.match(token.Fn):
		return p.parseFunDecl(tok)
	case p.match(token.Var):
		return p.parseVarDecl(tok)
	default:
		return p.parseStmt()
	}
}

func (p *parser) parseClassDecl(classTok token.Token) *ast.ClassDecl {
	name := p.expectf(token.Ident, "Expect class name.")
	var superclass *ast.VariableExpr
	if p.match(token.Less) {
		superclass = &ast.VariableExpr{Name: p.expectf(token.Ident, "Expect superclass name.")}
	}
	p.expectf(token.LeftBrace, "Expect '{' before class body.")
	var methods []*ast.FunDecl
	for p.tok.Type != token.RightBrace && p.tok.Type != token.EOF {
		methods = append(methods, p.parseMethodDecl())
	}
	p.expectf(token.RightBrace, "Expect '}' after class body.")
	return &ast.ClassDecl{Class: classTok, Name: name, Superclass: superclass, Methods: methods}
}

func (p *parser) parseMethodDecl() *ast.FunDecl {
	name := p.expectf(token.Ident, "Expect method name.")
	return &ast.FunDecl{Name: name, Function: p.parseFun("method")}
}

func (p *parser) parseFunDecl(fnTok token.Token) *ast.FunDecl {
	name := p.expectf(token.Ident, "Expect function name.")
	return &ast.FunDecl{Fn: fnTok, Name: name, Function: p.parseFun("function")}
}

func (p *parser) parseFun(kind string) *ast.Function {
	p.expectf(token.LeftParen, "Expect '(' after %s name.", kind)
	var params []token.Token
	if !p.match(token.RightParen) {
		params = p.parseParams()
		p.expectf(token.RightParen, "Expect ')' after parameters.")
	}
	p.expectf(token.LeftBrace, "Expect '{' before %s body.", kind)
	return &ast.Function{Params: params, Body: p.parseBlock().Stmts}
}

func (p *parser) parseParams() []token.Token {
	var params []token.Token
	for {
		if len(params) >= 255 {
			p.errs.AddFromToken(p.tok, "Can't have more than 255 parameters.")
		}
		params = append(params, p.expectf(token.Ident, "Expect parameter name."))
		if !p.match(token.Comma) {
			break
		}
	}
	return params
}

func (p *parser) parseVarDecl(varTok token.Token) *ast.VarDecl {
	name := p.expectf(token.Ident, "Expect variable name.")
	var initialiser ast.Expr
	if p.match(token.Equal) {
		initialiser = p.parseExpr()
	}
	p.expectf(token.Semicolon, "Expect ';' after variable declaration.")
	return &ast.VarDecl{Var: varTok, Name: name, Initialiser: initialiser}
}

func (p *parser) parseStmt() ast.Stmt {
	switch tok := p.tok; {
	case p.match(token.For):
		return p.parseForStmt(tok)
	case p.match(token.If):
		return p.parseIfStmt(tok)
	case p.match(token.Print):
		return p.parsePrintStmt(tok)
	case p.match(token.Return):
		return p.parseReturnStmt(tok)
	case p.match(token.While):
		return p.parseWhileStmt(tok)
	case p.match(token.LeftBrace):
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

// parseForStmt desugars a for statement into equivalent block and while statements, so that no for node reaches the
// later phases:
//
//	for (init; cond; incr) body  =>  { init; while (cond) { body; incr; } }
//
// An omitted condition loops forever.
func (p *parser) parseForStmt(forTok token.Token) ast.Stmt {
	p.expectf(token.LeftParen, "Expect '(' after 'for'.")
	var initialise ast.Stmt
	switch tok := p.tok; {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		initialise = p.parseVarDecl(tok)
	default:
		initialise = p.parseExprStmt()
	}
	var condition ast.Expr
	if !p.match(token.Semicolon) {
		condition = p.parseExpr()
		p.expectf(token.Semicolon, "Expect ';' after loop condition.")
	}
	var update ast.Expr
	if !p.match(token.RightParen) {
		update = p.parseExpr()
		p.expectf(token.RightParen, "Expect ')' after for clauses.")
	}
	body := p.parseStmt()

	if update != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{body, &ast.ExprStmt{Expr: update}}}
	}
	if condition == nil {
		condition = &ast.LiteralExpr{Value: token.Token{Type: token.True, Lexeme: "true", Line: forTok.Line}}
	}
	var loop ast.Stmt = &ast.WhileStmt{While: forTok, Condition: condition, Body: body}
	if initialise != nil {
		loop = &ast.BlockStmt{Stmts: []ast.Stmt{initialise, loop}}
	}
	return loop
}

func (p *parser) parseIfStmt(ifTok token.Token) *ast.IfStmt {
	p.expectf(token.LeftParen, "Expect '(' after 'if'.")
	condition := p.parseExpr()
	p.expectf(token.RightParen, "Expect ')' after if condition.")
	thenBranch := p.parseStmt()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.parseStmt()
	}
	return &ast.IfStmt{If: ifTok, Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *parser) parsePrintStmt(printTok token.Token) *ast.PrintStmt {
	expr := p.parseExpr()
	p.expectf(token.Semicolon, "Expect ';' after value.")
	return &ast.PrintStmt{Print: printTok, Expr: expr}
}

func (p *parser) parseReturnStmt(returnTok token.Token) *ast.ReturnStmt {
	var value ast.Expr
	if !p.match(token.Semicolon) {
		value = p.parseExpr()
		p.expectf(token.Semicolon, "Expect ';' after return value.")
	}
	return &ast.ReturnStmt{Return: returnTok, Value: value}
}

func (p *parser) parseWhileStmt(whileTok token.Token) *ast.WhileStmt {
	p.expectf(token.LeftParen, "Expect '(' after 'while'.")
	condition := p.parseExpr()
	p.expectf(token.RightParen, "Expect ')' after condition.")
	body := p.parseStmt()
	return &ast.WhileStmt{While: whileTok, Condition: condition, Body: body}
}

func (p *parser) parseBlock() *ast.BlockStmt {
	stmts := p.parseDeclsUntil(token.RightBrace, token.EOF)
	p.expectf(token.RightBrace, "Expect '}' after block.")
	return &ast.BlockStmt{Stmts: stmts}
}

func (p *parser) parseExprStmt() *ast.ExprStmt {
	expr := p.parseExpr()
	p.expectf(token.Semicolon, "Expect ';' after expression.")
	return &ast.ExprStmt{Expr: expr}
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignmentExpr()
}

func (p *parser) parseAssignmentExpr() ast.Expr {
	expr := p.parseLogicalOrExpr()
	if equals, ok := p.match2(token.Equal); ok {
		value := p.parseAssignmentExpr()
		switch left := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: left.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: left.Object, Name: left.Name, Value: value}
		default:
			p.errs.AddFromToken(equals, "Invalid assignment target.")
		}
	}
	return expr
}

func (p *parser) parseLogicalOrExpr() ast.Expr {
	return p.parseLogicalExpr(p.parseLogicalAndExpr, token.Or)
}

func (p *parser) parseLogicalAndExpr() ast.Expr {
	return p.parseLogicalExpr(p.parseEqualityExpr, token.And)
}

// parseLogicalExpr parses a short-circuiting logical expression which uses the given operator. next is a function which
// parses an expression of next highest precedence.
func (p *parser) parseLogicalExpr(next func() ast.Expr, operator token.Type) ast.Expr {
	expr := next()
	for {
		op, ok := p.match2(operator)
		if !ok {
			break
		}
		right := next()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseEqualityExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseRelationalExpr, token.EqualEqual, token.BangEqual)
}

func (p *parser) parseRelationalExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseAdditiveExpr, token.Less, token.LessEqual, token.Greater, token.GreaterEqual)
}

func (p *parser) parseAdditiveExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseMultiplicativeExpr, token.Plus, token.Minus)
}

func (p *parser) parseMultiplicativeExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseUnaryExpr, token.Asterisk, token.Slash)
}

// parseBinaryExpr parses a binary expression which uses the given operators. next is a function which parses an
// expression of next highest precedence.
func (p *parser) parseBinaryExpr(next func() ast.Expr, operators ...token.Type) ast.Expr {
	expr := next()
	for {
		op, ok := p.match2(operators...)
		if !ok {
			break
		}
		right := next()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseUnaryExpr() ast.Expr {
	if op, ok := p.match2(token.Bang, token.Minus); ok {
		right := p.parseUnaryExpr()
		return &ast.UnaryExpr{Op: op, Right: right}
	}
	return p.parseCallExpr()
}

func (p *parser) parseCallExpr() ast.Expr {
	expr := p.parsePrimaryExpr()
	for {
		switch {
		case p.match(token.LeftParen):
			var args []ast.Expr
			rightParen, ok := p.match2(token.RightParen)
			if !ok {
				args = p.parseArgs()
				rightParen = p.expectf(token.RightParen, "Expect ')' after arguments.")
			}
			expr = &ast.CallExpr{Callee: expr, RightParen: rightParen, Args: args}
		case p.match(token.Dot):
			name := p.expectf(token.Ident, "Expect property name after '.'.")
			expr = &ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	for {
		if len(args) >= 255 {
			p.errs.AddFromToken(p.tok, "Can't have more than 255 arguments.")
		}
		args = append(args, p.parseExpr())
		if !p.match(token.Comma) {
			break
		}
	}
	return args
}

func (p *parser) parsePrimaryExpr() ast.Expr {
	switch tok := p.tok; {
	case p.match(token.Number, token.String, token.True, token.False, token.Nil):
		return &ast.LiteralExpr{Value: tok}
	case p.match(token.Ident):
		return &ast.VariableExpr{Name: tok}
	case p.match(token.This):
		return &ast.ThisExpr{Keyword: tok}
	case p.match(token.Super):
		p.expectf(token.Dot, "Expect '.' after 'super'.")
		method := p.expectf(token.Ident, "Expect superclass method name.")
		return &ast.SuperExpr{Keyword: tok, Method: method}
	case p.match(token.LeftParen):
		expr := p.parseExpr()
		p.expectf(token.RightParen, "Expect ')' after expression.")
		return &ast.GroupExpr{Expr: expr}
	default:
		p.errs.AddFromToken(tok, "Expect expression.")
		panic(unwind{})
	}
}

// match reports whether the current token is one of the given types and advances the parser if so.
func (p *parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.tok.Type == t {
			p.next()
			return true
		}
	}
	return false
}

// match2 is like match but also returns the matched token.
func (p *parser) match2(types ...token.Type) (token.Token, bool) {
	tok := p.tok
	return tok, p.match(types...)
}

// expectf returns the current token and advances the parser if it has the given type. Otherwise, an error with the
// given message is added and the method panics to unwind the stack.
func (p *parser) expectf(t token.Type, format string, a ...any) token.Token {
	if p.tok.Type == t {
		tok := p.tok
		p.next()
		return tok
	}
	p.errs.AddFromToken(p.tok, format, a...)
	panic(unwind{})
}

// next advances the parser to the next token.
func (p *parser) next() {
	p.tok = p.nextTok
	p.nextTok = p.lexer.Next()
}

// unwind is used as a panic value so that we can unwind the stack and recover from a parsing error without having to
// check for errors after every call to each parsing method.
type unwind struct{}
