// Package interpreter defines the tree-walking evaluator for the language.
package interpreter

import (
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/wiseodd/lox/ast"
	"github.com/wiseodd/lox/lox"
	"github.com/wiseodd/lox/token"
)

// Interpreter executes Lox programs.
type Interpreter struct {
	globals              *environment
	distances            map[ast.Expr]int
	stdout               io.Writer
	printExprStmtResults bool
}

// Option can be passed to New to configure the interpreter.
type Option func(*Interpreter)

// REPLMode sets the interpreter to REPL mode.
// In REPL mode, the interpreter will print the result of expression statements.
func REPLMode() Option {
	return func(i *Interpreter) {
		i.printExprStmtResults = true
	}
}

// WithStdout sets the writer that the program's output is written to. The default is [os.Stdout].
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		i.stdout = w
	}
}

// New constructs a new Interpreter with the given options.
func New(opts ...Option) *Interpreter {
	globals := newEnvironment(nil)
	for name, builtin := range builtins {
		globals.Define(name, builtin)
	}
	interp := &Interpreter{
		globals:   globals,
		distances: map[ast.Expr]int{},
		stdout:    os.Stdout,
	}
	for _, opt := range opts {
		opt(interp)
	}
	return interp
}

// Interpret executes a program against the given resolver distances and returns an error if a runtime error was
// raised.
// Interpret can be called multiple times with different ASTs and the state will be maintained between calls.
func (i *Interpreter) Interpret(program *ast.Program, distances map[ast.Expr]int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if runtimeErr, ok := r.(*lox.RuntimeError); ok {
				err = runtimeErr
			} else {
				panic(r)
			}
		}
	}()
	maps.Copy(i.distances, distances)
	for _, stmt := range program.Stmts {
		i.execStmt(i.globals, stmt)
	}
	return nil
}

// stmtResult is the way a statement finished: normally, or by a return unwinding towards the enclosing call.
type stmtResult interface {
	stmtResult()
}

type stmtResultNone struct{}

func (stmtResultNone) stmtResult() {}

type stmtResultReturn struct {
	Value loxObject
}

func (stmtResultReturn) stmtResult() {}

func (i *Interpreter) execStmt(env *environment, stmt ast.Stmt) stmtResult {
	switch stmt := stmt.(type) {
	case *ast.VarDecl:
		i.execVarDecl(env, stmt)
	case *ast.FunDecl:
		i.execFunDecl(env, stmt)
	case *ast.ClassDecl:
		i.execClassDecl(env, stmt)
	case *ast.ExprStmt:
		i.execExprStmt(env, stmt)
	case *ast.PrintStmt:
		i.execPrintStmt(env, stmt)
	case *ast.BlockStmt:
		return i.executeBlock(newEnvironment(env), stmt.Stmts)
	case *ast.IfStmt:
		return i.execIfStmt(env, stmt)
	case *ast.WhileStmt:
		return i.execWhileStmt(env, stmt)
	case *ast.ReturnStmt:
		return i.execReturnStmt(env, stmt)
	default:
		panic(fmt.Sprintf("unexpected statement type: %T", stmt))
	}
	return stmtResultNone{}
}

func (i *Interpreter) execVarDecl(env *environment, stmt *ast.VarDecl) {
	var value loxObject = loxNil{}
	if stmt.Initialiser != nil {
		value = i.evalExpr(env, stmt.Initialiser)
	}
	env.Define(stmt.Name.Lexeme, value)
}

func (i *Interpreter) execFunDecl(env *environment, stmt *ast.FunDecl) {
	env.Define(stmt.Name.Lexeme, &loxFunction{declaration: stmt, closure: env})
}

func (i *Interpreter) execClassDecl(env *environment, stmt *ast.ClassDecl) {
	var superclass *loxClass
	if stmt.Superclass != nil {
		object := i.evalExpr(env, stmt.Superclass)
		class, ok := object.(*loxClass)
		if !ok {
			panic(lox.NewRuntimeError(stmt.Superclass.Name, "Superclass must be a class."))
		}
		superclass = class
	}

	// The class name is defined before the methods are constructed so that they can refer to the class itself.
	env.Define(stmt.Name.Lexeme, loxNil{})

	methodEnv := env
	if superclass != nil {
		methodEnv = newEnvironment(env)
		methodEnv.Define(token.SuperclassIdent, superclass)
	}

	methods := make(map[string]*loxFunction, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods[method.Name.Lexeme] = &loxFunction{
			declaration:   method,
			closure:       methodEnv,
			isInitializer: method.Name.Lexeme == token.ConstructorIdent,
		}
	}

	env.Assign(stmt.Name, &loxClass{name: stmt.Name.Lexeme, superclass: superclass, methods: methods})
}

func (i *Interpreter) execExprStmt(env *environment, stmt *ast.ExprStmt) {
	value := i.evalExpr(env, stmt.Expr)
	if i.printExprStmtResults {
		fmt.Fprintln(i.stdout, value.String())
	}
}

func (i *Interpreter) execPrintStmt(env *environment, stmt *ast.PrintStmt) {
	value := i.evalExpr(env, stmt.Expr)
	fmt.Fprintln(i.stdout, value.String())
}

func (i *Interpreter) executeBlock(env *environment, stmts []ast.Stmt) stmtResult {
	for _, stmt := range stmts {
		result := i.execStmt(env, stmt)
		if _, ok := result.(stmtResultNone); !ok {
			return result
		}
	}
	return stmtResultNone{}
}

func (i *Interpreter) execIfStmt(env *environment, stmt *ast.IfStmt) stmtResult {
	if isTruthy(i.evalExpr(env, stmt.Condition)) {
		return i.execStmt(env, stmt.Then)
	} else if stmt.Else != nil {
		return i.execStmt(env, stmt.Else)
	}
	return stmtResultNone{}
}

func (i *Interpreter) execWhileStmt(env *environment, stmt *ast.WhileStmt) stmtResult {
	for isTruthy(i.evalExpr(env, stmt.Condition)) {
		result := i.execStmt(env, stmt.Body)
		if _, ok := result.(stmtResultNone); !ok {
			return result
		}
	}
	return stmtResultNone{}
}

func (i *Interpreter) execReturnStmt(env *environment, stmt *ast.ReturnStmt) stmtResultReturn {
	var value loxObject = loxNil{}
	if stmt.Value != nil {
		value = i.evalExpr(env, stmt.Value)
	}
	return stmtResultReturn{Value: value}
}

func (i *Interpreter) evalExpr(env *environment, expr ast.Expr) loxObject {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		return i.evalLiteralExpr(expr)
	case *ast.GroupExpr:
		return i.evalExpr(env, expr.Expr)
	case *ast.UnaryExpr:
		return i.evalUnaryExpr(env, expr)
	case *ast.BinaryExpr:
		return i.evalBinaryExpr(env, expr)
	case *ast.LogicalExpr:
		return i.evalLogicalExpr(env, expr)
	case *ast.VariableExpr:
		return i.lookUpVariable(env, expr, expr.Name)
	case *ast.AssignExpr:
		return i.evalAssignExpr(env, expr)
	case *ast.CallExpr:
		return i.evalCallExpr(env, expr)
	case *ast.GetExpr:
		return i.evalGetExpr(env, expr)
	case *ast.SetExpr:
		return i.evalSetExpr(env, expr)
	case *ast.ThisExpr:
		return i.lookUpVariable(env, expr, expr.Keyword)
	case *ast.SuperExpr:
		return i.evalSuperExpr(env, expr)
	default:
		panic(fmt.Sprintf("unexpected expression type: %T", expr))
	}
}

func (i *Interpreter) evalLiteralExpr(expr *ast.LiteralExpr) loxObject {
	switch tok := expr.Value; tok.Type {
	case token.Number:
		return loxNumber(tok.Literal.(float64))
	case token.String:
		return loxString(tok.Literal.(string))
	case token.True, token.False:
		return loxBool(tok.Type == token.True)
	case token.Nil:
		return loxNil{}
	default:
		panic(fmt.Sprintf("unexpected literal type: %s", tok.Type))
	}
}

func (i *Interpreter) evalUnaryExpr(env *environment, expr *ast.UnaryExpr) loxObject {
	right := i.evalExpr(env, expr.Right)
	switch expr.Op.Type {
	case token.Bang:
		return loxBool(!isTruthy(right))
	case token.Minus:
		number, ok := right.(loxNumber)
		if !ok {
			panic(lox.NewRuntimeError(expr.Op, "Operand must be a number."))
		}
		return -number
	default:
		panic(fmt.Sprintf("unexpected unary operator: %s", expr.Op.Type))
	}
}

func (i *Interpreter) evalBinaryExpr(env *environment, expr *ast.BinaryExpr) loxObject {
	left := i.evalExpr(env, expr.Left)
	right := i.evalExpr(env, expr.Right)

	switch expr.Op.Type {
	case token.EqualEqual:
		return loxBool(left == right)
	case token.BangEqual:
		return loxBool(left != right)
	case token.Plus:
		switch left := left.(type) {
		case loxNumber:
			if right, ok := right.(loxNumber); ok {
				return left + right
			}
		case loxString:
			if right, ok := right.(loxString); ok {
				return left + right
			}
		}
		panic(lox.NewRuntimeError(expr.Op, "Operands must be two numbers or two strings."))
	}

	leftNumber, rightNumber := checkNumberOperands(expr.Op, left, right)
	switch expr.Op.Type {
	case token.Minus:
		return leftNumber - rightNumber
	case token.Slash:
		return leftNumber / rightNumber
	case token.Asterisk:
		return leftNumber * rightNumber
	case token.Greater:
		return loxBool(leftNumber > rightNumber)
	case token.GreaterEqual:
		return loxBool(leftNumber >= rightNumber)
	case token.Less:
		return loxBool(leftNumber < rightNumber)
	case token.LessEqual:
		return loxBool(leftNumber <= rightNumber)
	default:
		panic(fmt.Sprintf("unexpected binary operator: %s", expr.Op.Type))
	}
}

func checkNumberOperands(op token.Token, left, right loxObject) (loxNumber, loxNumber) {
	leftNumber, leftOK := left.(loxNumber)
	rightNumber, rightOK := right.(loxNumber)
	if !leftOK || !rightOK {
		panic(lox.NewRuntimeError(op, "Operands must be numbers."))
	}
	return leftNumber, rightNumber
}

func (i *Interpreter) evalLogicalExpr(env *environment, expr *ast.LogicalExpr) loxObject {
	left := i.evalExpr(env, expr.Left)
	if expr.Op.Type == token.Or {
		if isTruthy(left) {
			return left
		}
	} else {
		if !isTruthy(left) {
			return left
		}
	}
	return i.evalExpr(env, expr.Right)
}

// lookUpVariable fetches the value of a variable use. Uses which the resolver bound to a scope are read at exactly
// that distance; the rest are read from the global environment.
func (i *Interpreter) lookUpVariable(env *environment, expr ast.Expr, name token.Token) loxObject {
	if distance, ok := i.distances[expr]; ok {
		return env.GetAt(distance, name.Lexeme)
	}
	return i.globals.Get(name)
}

func (i *Interpreter) evalAssignExpr(env *environment, expr *ast.AssignExpr) loxObject {
	value := i.evalExpr(env, expr.Value)
	if distance, ok := i.distances[expr]; ok {
		env.AssignAt(distance, expr.Name, value)
	} else {
		i.globals.Assign(expr.Name, value)
	}
	return value
}

func (i *Interpreter) evalCallExpr(env *environment, expr *ast.CallExpr) loxObject {
	callee := i.evalExpr(env, expr.Callee)
	args := make([]loxObject, len(expr.Args))
	for j, arg := range expr.Args {
		args[j] = i.evalExpr(env, arg)
	}

	callable, ok := callee.(loxCallable)
	if !ok {
		panic(lox.NewRuntimeError(expr.RightParen, "Can only call functions and classes."))
	}
	if len(args) != callable.Arity() {
		panic(lox.NewRuntimeError(expr.RightParen, "Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}
	return callable.Call(i, args)
}

func (i *Interpreter) evalGetExpr(env *environment, expr *ast.GetExpr) loxObject {
	object := i.evalExpr(env, expr.Object)
	instance, ok := object.(*loxInstance)
	if !ok {
		panic(lox.NewRuntimeError(expr.Name, "Only instances have properties."))
	}
	return instance.Get(expr.Name)
}

func (i *Interpreter) evalSetExpr(env *environment, expr *ast.SetExpr) loxObject {
	object := i.evalExpr(env, expr.Object)
	instance, ok := object.(*loxInstance)
	if !ok {
		panic(lox.NewRuntimeError(expr.Name, "Only instances have fields."))
	}
	value := i.evalExpr(env, expr.Value)
	instance.Set(expr.Name, value)
	return value
}

func (i *Interpreter) evalSuperExpr(env *environment, expr *ast.SuperExpr) loxObject {
	distance := i.distances[expr]
	superclass := env.GetAt(distance, token.SuperclassIdent).(*loxClass)
	// this is always bound one environment inside the one binding super.
	instance := env.GetAt(distance-1, token.CurrentInstanceIdent).(*loxInstance)
	method := superclass.FindMethod(expr.Method.Lexeme)
	if method == nil {
		panic(lox.NewRuntimeError(expr.Method, "Undefined property '%s'.", expr.Method.Lexeme))
	}
	return method.Bind(instance)
}

func isTruthy(obj loxObject) bool {
	if truther, ok := obj.(loxTruther); ok {
		return truther.IsTruthy()
	}
	return true
}
