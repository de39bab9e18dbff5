package interpreter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wiseodd/lox/lox"
	"github.com/wiseodd/lox/token"
)

// environment is a node in the chain of scope records which are walked to resolve variables at run time.
// The chain is rooted at the global environment, whose enclosing environment is nil.
type environment struct {
	enclosing *environment
	values    map[string]loxObject
}

func newEnvironment(enclosing *environment) *environment {
	return &environment{
		enclosing: enclosing,
		values:    make(map[string]loxObject),
	}
}

func (e *environment) String() string {
	_, s := e.string()
	return s
}

func (e *environment) string() (prefix string, s string) {
	var b strings.Builder
	firstLinePrefix := ""
	if e.enclosing != nil {
		enclosingPrefix, enclosingString := e.enclosing.string()
		fmt.Fprintf(&b, "%s\n", enclosingString)
		prefix = enclosingPrefix + "   "
		firstLinePrefix = enclosingPrefix + "└──"
	}

	if len(e.values) == 0 {
		fmt.Fprintf(&b, "%s<empty>", firstLinePrefix)
		return prefix, b.String()
	}

	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	slices.Sort(names)
	for i, name := range names {
		prefix := prefix
		if i == 0 {
			prefix = firstLinePrefix
		}
		fmt.Fprintf(&b, "%s%s: %s\n", prefix, name, e.values[name])
	}
	return prefix, strings.TrimSuffix(b.String(), "\n")
}

// Define binds a name to a value in this environment, shadowing any binding of the same name in an enclosing
// environment.
func (e *environment) Define(name string, value loxObject) {
	e.values[name] = value
}

// Get returns the value bound to a name, walking the chain of enclosing environments outwards from this one.
func (e *environment) Get(name token.Token) loxObject {
	if value, ok := e.values[name.Lexeme]; ok {
		return value
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	panic(lox.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme))
}

// Assign replaces the value bound to a name, walking the chain of enclosing environments outwards from this one.
func (e *environment) Assign(name token.Token, value loxObject) {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return
	}
	if e.enclosing != nil {
		e.enclosing.Assign(name, value)
		return
	}
	panic(lox.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme))
}

// GetAt returns the value bound to a name in the environment distance levels up the chain.
// The resolver has already proven that the binding exists, so a miss is a bug.
func (e *environment) GetAt(distance int, name string) loxObject {
	value, ok := e.ancestor(distance).values[name]
	if !ok {
		panic(fmt.Sprintf("%s is not defined at distance %d", name, distance))
	}
	return value
}

// AssignAt replaces the value bound to a name in the environment distance levels up the chain.
func (e *environment) AssignAt(distance int, name token.Token, value loxObject) {
	e.ancestor(distance).values[name.Lexeme] = value
}

func (e *environment) ancestor(n int) *environment {
	ancestor := e
	for range n {
		ancestor = ancestor.enclosing
		if ancestor == nil {
			panic(fmt.Sprintf("ancestor %d is out of range", n))
		}
	}
	return ancestor
}
