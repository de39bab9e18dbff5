// Package token declares the type representing a lexical token of Lox code.
package token

import (
	"fmt"
	"unicode"
)

func init() {
	for t := Illegal; t <= LessEqual; t++ {
		if _, ok := typeStrings[t]; !ok && unicode.IsUpper(rune(t.String()[0])) {
			panic(fmt.Sprintf("typeStrings is missing entry for Type %s", t.String()))
		}
	}
}

const (
	// CurrentInstanceIdent is the identifier used to refer to the current instance of the class in a method.
	CurrentInstanceIdent = "this"
	// SuperclassIdent is the identifier used to refer to the superclass of the current class in a method.
	SuperclassIdent = "super"
	// ConstructorIdent is the identifier used for the constructor method for classes.
	ConstructorIdent = "init"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type Type

// Type is the type of a lexical token of Lox code.
type Type int

// The list of all token types.
const (
	Illegal Type = iota
	EOF

	// Keywords
	keywordsStart
	And
	Class
	Else
	False
	Fn
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
	keywordsEnd

	// Literals
	Ident
	String
	Number

	// Symbols
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Asterisk
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual
)

var typeStrings = map[Type]string{
	Illegal:       "illegal",
	EOF:           "EOF",
	keywordsStart: "keywordsStart",
	And:           "and",
	Class:         "class",
	Else:          "else",
	False:         "false",
	Fn:            "fn",
	For:           "for",
	If:            "if",
	Nil:           "nil",
	Or:            "or",
	Print:         "print",
	Return:        "return",
	Super:         SuperclassIdent,
	This:          CurrentInstanceIdent,
	True:          "true",
	Var:           "var",
	While:         "while",
	keywordsEnd:   "keywordsEnd",
	Ident:         "identifier",
	String:        "string",
	Number:        "number",
	LeftParen:     "(",
	RightParen:    ")",
	LeftBrace:     "{",
	RightBrace:    "}",
	Comma:         ",",
	Dot:           ".",
	Minus:         "-",
	Plus:          "+",
	Semicolon:     ";",
	Slash:         "/",
	Asterisk:      "*",
	Bang:          "!",
	BangEqual:     "!=",
	Equal:         "=",
	EqualEqual:    "==",
	Greater:       ">",
	GreaterEqual:  ">=",
	Less:          "<",
	LessEqual:     "<=",
}

var keywordTypesByIdent = func() map[string]Type {
	keywordTypesByIdent := make(map[string]Type, keywordsEnd-keywordsStart)
	for i := keywordsStart + 1; i < keywordsEnd; i++ {
		keywordTypesByIdent[typeStrings[i]] = i
	}
	return keywordTypesByIdent
}()

// IdentType returns the type of the keyword with the given identifier, or Ident if the identifier is not a keyword.
func IdentType(ident string) Type {
	if keywordType, ok := keywordTypesByIdent[ident]; ok {
		return keywordType
	}
	return Ident
}

// Lexeme returns the canonical lexeme of a token type. For types without a fixed lexeme (identifiers, literals), a
// lowercase description is returned instead.
func (t Type) Lexeme() string {
	return typeStrings[t]
}

// Token is a lexical token of Lox code.
type Token struct {
	Type    Type
	Lexeme  string
	Literal any // Populated for Number (float64) and String (string) tokens only
	Line    int // 1-based line the first character of the token is on
}

// IsZero reports whether t is the zero value.
func (t Token) IsZero() bool {
	return t == Token{}
}

func (t Token) String() string {
	return fmt.Sprintf("%d: %s [%s]", t.Line, t.Lexeme, t.Type)
}
