package interpreter

import (
	"fmt"
	"strconv"

	"github.com/wiseodd/lox/ast"
	"github.com/wiseodd/lox/lox"
	"github.com/wiseodd/lox/token"
)

// loxObject is a Lox value. The concrete types behind it are chosen so that the Go == operator implements Lox
// equality: numbers compare with IEEE semantics, strings by contents, and functions, classes and instances by
// identity.
type loxObject interface {
	String() string
}

// loxTruther is implemented by objects which are not unconditionally truthy.
type loxTruther interface {
	IsTruthy() bool
}

// loxCallable is implemented by objects which can be invoked by a call expression.
type loxCallable interface {
	loxObject
	Arity() int
	Call(interp *Interpreter, args []loxObject) loxObject
}

type loxNumber float64

var _ loxObject = loxNumber(0)

func (n loxNumber) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

type loxString string

var _ loxObject = loxString("")

func (s loxString) String() string {
	return string(s)
}

type loxBool bool

var (
	_ loxObject  = loxBool(false)
	_ loxTruther = loxBool(false)
)

func (b loxBool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b loxBool) IsTruthy() bool {
	return bool(b)
}

type loxNil struct{}

var (
	_ loxObject  = loxNil{}
	_ loxTruther = loxNil{}
)

func (loxNil) String() string {
	return "nil"
}

func (loxNil) IsTruthy() bool {
	return false
}

// loxBuiltinFunction is a function implemented by the host rather than in Lox.
type loxBuiltinFunction struct {
	name  string
	arity int
	fn    func(args []loxObject) loxObject
}

var _ loxCallable = (*loxBuiltinFunction)(nil)

func (f *loxBuiltinFunction) String() string {
	return "<native fn>"
}

func (f *loxBuiltinFunction) Arity() int {
	return f.arity
}

func (f *loxBuiltinFunction) Call(_ *Interpreter, args []loxObject) loxObject {
	return f.fn(args)
}

// loxFunction is a function declared in Lox code, closed over the environment which was current at its declaration.
type loxFunction struct {
	declaration   *ast.FunDecl
	closure       *environment
	isInitializer bool
}

var _ loxCallable = (*loxFunction)(nil)

func (f *loxFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.Name.Lexeme)
}

func (f *loxFunction) Arity() int {
	return len(f.declaration.Function.Params)
}

func (f *loxFunction) Call(interp *Interpreter, args []loxObject) loxObject {
	env := newEnvironment(f.closure)
	for i, param := range f.declaration.Function.Params {
		env.Define(param.Lexeme, args[i])
	}
	result := interp.executeBlock(env, f.declaration.Function.Body)
	if f.isInitializer {
		// An initializer always returns the instance under construction, even through a bare return;.
		return f.closure.GetAt(0, token.CurrentInstanceIdent)
	}
	if result, ok := result.(stmtResultReturn); ok {
		return result.Value
	}
	return loxNil{}
}

// Bind returns a copy of the function whose closure binds this to the given instance, so that this expressions in the
// body resolve to the receiver.
func (f *loxFunction) Bind(instance *loxInstance) *loxFunction {
	env := newEnvironment(f.closure)
	env.Define(token.CurrentInstanceIdent, instance)
	return &loxFunction{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}

type loxClass struct {
	name       string
	superclass *loxClass
	methods    map[string]*loxFunction
}

var _ loxCallable = (*loxClass)(nil)

func (c *loxClass) String() string {
	return c.name
}

// FindMethod returns the method with the given name, walking the superclass chain, or nil if there is none.
func (c *loxClass) FindMethod(name string) *loxFunction {
	if method, ok := c.methods[name]; ok {
		return method
	}
	if c.superclass != nil {
		return c.superclass.FindMethod(name)
	}
	return nil
}

func (c *loxClass) Arity() int {
	if init := c.FindMethod(token.ConstructorIdent); init != nil {
		return init.Arity()
	}
	return 0
}

// Call allocates a fresh instance of the class and runs its initializer, if it has one.
func (c *loxClass) Call(interp *Interpreter, args []loxObject) loxObject {
	instance := newLoxInstance(c)
	if init := c.FindMethod(token.ConstructorIdent); init != nil {
		init.Bind(instance).Call(interp, args)
	}
	return instance
}

type loxInstance struct {
	class  *loxClass
	fields map[string]loxObject
}

func newLoxInstance(class *loxClass) *loxInstance {
	return &loxInstance{
		class:  class,
		fields: make(map[string]loxObject),
	}
}

var _ loxObject = (*loxInstance)(nil)

func (i *loxInstance) String() string {
	return i.class.name + " instance"
}

// Get returns the value of a property of the instance. Fields shadow methods; methods are returned bound to the
// instance.
func (i *loxInstance) Get(name token.Token) loxObject {
	if value, ok := i.fields[name.Lexeme]; ok {
		return value
	}
	if method := i.class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(i)
	}
	panic(lox.NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme))
}

// Set stores a value into a field of the instance, creating the field if it doesn't exist.
func (i *loxInstance) Set(name token.Token, value loxObject) {
	i.fields[name.Lexeme] = value
}
