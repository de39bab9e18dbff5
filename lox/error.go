// Package lox provides the error types which are shared by the phases of the Lox interpreter.
package lox

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fatih/color"

	"github.com/wiseodd/lox/token"
)

var errorLabel = color.New(color.FgRed, color.Bold)

// Error describes a syntax or static error detected before a Lox program is run.
// It is reported as
//
//	[line 1] Error at '=': Invalid assignment target.
//
// where the "at ..." context is omitted when the error doesn't apply to a particular token.
type Error struct {
	msg   string
	where string
	line  int
}

// NewError creates an [*Error] at the given line with no token context.
// The error message is constructed from the given format string and arguments, as in [fmt.Sprintf].
func NewError(line int, format string, args ...any) error {
	return &Error{
		msg:  fmt.Sprintf(format, args...),
		line: line,
	}
}

// NewErrorFromToken creates an [*Error] which describes a problem with the given [token.Token].
func NewErrorFromToken(tok token.Token, format string, args ...any) error {
	return &Error{
		msg:   fmt.Sprintf(format, args...),
		where: tokenContext(tok),
		line:  tok.Line,
	}
}

func tokenContext(tok token.Token) string {
	if tok.Type == token.EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", tok.Lexeme)
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] %s%s: %s", e.line, errorLabel.Sprint("Error"), e.where, e.msg)
}

// Errors is a list of [*Error]s.
type Errors []*Error

// Add adds an [*Error] to the list of errors. The parameters are the same as for [NewError].
func (e *Errors) Add(line int, format string, args ...any) {
	*e = append(*e, NewError(line, format, args...).(*Error))
}

// AddFromToken adds an [*Error] to the list of errors. The parameters are the same as for [NewErrorFromToken].
func (e *Errors) AddFromToken(tok token.Token, format string, args ...any) {
	*e = append(*e, NewErrorFromToken(tok, format, args...).(*Error))
}

// Err orders the errors in the list by their line and returns them as a single error.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	slices.SortStableFunc([]*Error(e), func(e1, e2 *Error) int {
		return e1.line - e2.line
	})
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errors.Join(errs...)
}

// RuntimeError describes an error raised whilst a Lox program is running.
// It is reported as
//
//	Operand must be a number.
//	[line 4]
//
// where the line is omitted when no token is attached.
type RuntimeError struct {
	msg string
	tok token.Token
}

// NewRuntimeError creates a [*RuntimeError] which describes a problem with the given [token.Token].
// The error message is constructed from the given format string and arguments, as in [fmt.Sprintf].
func NewRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		msg: fmt.Sprintf(format, args...),
		tok: tok,
	}
}

func (e *RuntimeError) Error() string {
	if e.tok.IsZero() {
		return e.msg
	}
	return fmt.Sprintf("%s\n[line %d]", e.msg, e.tok.Line)
}
