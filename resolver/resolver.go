// Package resolver implements the static analysis pass which binds every variable use in a Lox program to the lexical
// scope that declares it.
package resolver

import (
	"fmt"

	"github.com/wiseodd/lox/ast"
	"github.com/wiseodd/lox/lox"
	"github.com/wiseodd/lox/token"
)

// Resolve binds the variable uses in a program to the scopes that declare them.
// It returns a map from expression nodes to the number of environments between the use and its binding. A distance of
// 0 means that the variable was declared in the innermost enclosing scope, 1 means it was declared in the scope
// enclosing that one, and so on. Expressions not present in the map refer to globals and are resolved against the
// global environment at run time.
// Static errors, such as reading a variable in its own initialiser or using 'this' outside of a class, are diagnosed
// and returned joined into a single error.
func Resolve(program *ast.Program) (map[ast.Expr]int, error) {
	r := &resolver{
		scopes:    newStack[scope](),
		distances: map[ast.Expr]int{},
	}
	return r.Resolve(program)
}

// scope represents a lexical scope and keeps track of which identifiers have been declared in that scope.
// An identifier maps to false until its initialiser has finished resolving.
type scope map[string]bool

type functionType int

const (
	functionTypeNone functionType = iota
	functionTypeFunction
	functionTypeInitializer
	functionTypeMethod
)

type classType int

const (
	classTypeNone classType = iota
	classTypeClass
	classTypeSubclass
)

type resolver struct {
	// stack of lexical scopes, innermost last; the global scope is deliberately absent
	scopes          *stack[scope]
	currentFunction functionType
	currentClass    classType

	// distances maps expression nodes to the distance to the declaration of the variable they refer to
	distances map[ast.Expr]int

	errs lox.Errors
}

func (r *resolver) Resolve(program *ast.Program) (map[ast.Expr]int, error) {
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
	if err := r.errs.Err(); err != nil {
		return nil, err
	}
	return r.distances, nil
}

func (r *resolver) beginScope() func() {
	r.scopes.Push(scope{})
	return func() {
		r.scopes.Pop()
	}
}

// declare marks an identifier as declared but not yet usable in the innermost scope.
func (r *resolver) declare(name token.Token) {
	if r.scopes.Len() == 0 {
		return
	}
	scope := r.scopes.Peek()
	if _, ok := scope[name.Lexeme]; ok {
		r.errs.AddFromToken(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

// define marks an identifier as fully usable in the innermost scope.
func (r *resolver) define(name token.Token) {
	if r.scopes.Len() == 0 {
		return
	}
	r.scopes.Peek()[name.Lexeme] = true
}

// resolveLocal records the distance between a variable use and the scope which declares it. Names not found in any
// scope are left for the global environment.
func (r *resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := r.scopes.Len() - 1; i >= 0; i-- {
		if _, ok := r.scopes.Index(i)[name.Lexeme]; ok {
			r.distances[expr] = r.scopes.Len() - 1 - i
			return
		}
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.VarDecl:
		r.resolveVarDecl(stmt)
	case *ast.FunDecl:
		r.resolveFunDecl(stmt)
	case *ast.ClassDecl:
		r.resolveClassDecl(stmt)
	case *ast.ExprStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.BlockStmt:
		r.resolveBlockStmt(stmt)
	case *ast.IfStmt:
		r.resolveIfStmt(stmt)
	case *ast.WhileStmt:
		r.resolveWhileStmt(stmt)
	case *ast.ReturnStmt:
		r.resolveReturnStmt(stmt)
	default:
		panic(fmt.Sprintf("unexpected statement type: %T", stmt))
	}
}

func (r *resolver) resolveVarDecl(stmt *ast.VarDecl) {
	r.declare(stmt.Name)
	if stmt.Initialiser != nil {
		r.resolveExpr(stmt.Initialiser)
	}
	r.define(stmt.Name)
}

func (r *resolver) resolveFunDecl(stmt *ast.FunDecl) {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt.Function, functionTypeFunction)
}

func (r *resolver) resolveFunction(function *ast.Function, typ functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ
	defer func() { r.currentFunction = enclosingFunction }()

	endScope := r.beginScope()
	defer endScope()
	for _, param := range function.Params {
		r.declare(param)
		r.define(param)
	}
	for _, stmt := range function.Body {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveClassDecl(stmt *ast.ClassDecl) {
	enclosingClass := r.currentClass
	r.currentClass = classTypeClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.errs.AddFromToken(stmt.Superclass.Name, "A class cannot inherit from itself.")
		}
		r.currentClass = classTypeSubclass
		r.resolveExpr(stmt.Superclass)

		endSuperScope := r.beginScope()
		defer endSuperScope()
		r.scopes.Peek()[token.SuperclassIdent] = true
	}

	endScope := r.beginScope()
	defer endScope()
	r.scopes.Peek()[token.CurrentInstanceIdent] = true

	for _, method := range stmt.Methods {
		typ := functionTypeMethod
		if method.Name.Lexeme == token.ConstructorIdent {
			typ = functionTypeInitializer
		}
		r.resolveFunction(method.Function, typ)
	}
}

func (r *resolver) resolveBlockStmt(stmt *ast.BlockStmt) {
	endScope := r.beginScope()
	defer endScope()
	for _, stmt := range stmt.Stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveIfStmt(stmt *ast.IfStmt) {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Then)
	if stmt.Else != nil {
		r.resolveStmt(stmt.Else)
	}
}

func (r *resolver) resolveWhileStmt(stmt *ast.WhileStmt) {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Body)
}

func (r *resolver) resolveReturnStmt(stmt *ast.ReturnStmt) {
	if r.currentFunction == functionTypeNone {
		r.errs.AddFromToken(stmt.Return, "Can't return from top-level code.")
	}
	if stmt.Value != nil {
		if r.currentFunction == functionTypeInitializer {
			r.errs.AddFromToken(stmt.Return, "Can't return a value from an initializer.")
		}
		r.resolveExpr(stmt.Value)
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
	case *ast.GroupExpr:
		r.resolveExpr(expr.Expr)
	case *ast.UnaryExpr:
		r.resolveExpr(expr.Right)
	case *ast.BinaryExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.VariableExpr:
		r.resolveVariableExpr(expr)
	case *ast.AssignExpr:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr, expr.Name)
	case *ast.CallExpr:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}
	case *ast.GetExpr:
		r.resolveExpr(expr.Object)
	case *ast.SetExpr:
		r.resolveExpr(expr.Object)
		r.resolveExpr(expr.Value)
	case *ast.ThisExpr:
		r.resolveThisExpr(expr)
	case *ast.SuperExpr:
		r.resolveSuperExpr(expr)
	default:
		panic(fmt.Sprintf("unexpected expression type: %T", expr))
	}
}

func (r *resolver) resolveVariableExpr(expr *ast.VariableExpr) {
	if r.scopes.Len() > 0 {
		if defined, ok := r.scopes.Peek()[expr.Name.Lexeme]; ok && !defined {
			r.errs.AddFromToken(expr.Name, "Can't read local variable in its own initializer.")
			return
		}
	}
	r.resolveLocal(expr, expr.Name)
}

func (r *resolver) resolveThisExpr(expr *ast.ThisExpr) {
	if r.currentClass == classTypeNone {
		r.errs.AddFromToken(expr.Keyword, "Can't use 'this' outside of a class.")
		return
	}
	r.resolveLocal(expr, expr.Keyword)
}

func (r *resolver) resolveSuperExpr(expr *ast.SuperExpr) {
	switch r.currentClass {
	case classTypeNone:
		r.errs.AddFromToken(expr.Keyword, "Can't use 'super' outside of a class.")
		return
	case classTypeSubclass:
	default:
		r.errs.AddFromToken(expr.Keyword, "Can't use 'super' in a class with no superclass.")
		return
	}
	r.resolveLocal(expr, expr.Keyword)
}
