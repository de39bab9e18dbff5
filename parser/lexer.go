package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wiseodd/lox/token"
)

const eof = -1

// errorHandler is the function which handles syntax errors encountered during lexing.
// It's passed the line the error occurred on and a message describing the error.
type errorHandler func(line int, format string, args ...any)

// lexer converts Lox source code into lexical tokens.
// Tokens are read from the lexer using the Next method.
// Syntax errors are handled by calling the error handler function which can be set using SetErrorHandler. The default
// error handler is a no-op.
type lexer struct {
	// Immutable state
	src        []byte
	errHandler errorHandler

	// Mutable state
	ch         rune // character currently being considered
	line       int  // line the character currently being considered is on
	readOffset int  // position of next character to be read
}

// newLexer constructs a lexer which will lex the source code read from an io.Reader.
func newLexer(r io.Reader) (*lexer, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("constructing lexer: %s", err)
	}

	l := &lexer{
		src:        src,
		errHandler: func(int, string, ...any) {},
		line:       1,
	}

	l.next()

	return l, nil
}

// SetErrorHandler sets the error handler function which will be called when a syntax error is encountered.
func (l *lexer) SetErrorHandler(errHandler errorHandler) {
	l.errHandler = errHandler
}

// Next returns the next token. An EOF token is returned if the end of the source code has been reached.
func (l *lexer) Next() token.Token {
	l.skipWhitespace()

	tok := token.Token{Line: l.line}

	switch {
	case l.ch == eof:
		tok.Type = token.EOF
		return tok
	case l.ch == '(':
		tok.Type = token.LeftParen
	case l.ch == ')':
		tok.Type = token.RightParen
	case l.ch == '{':
		tok.Type = token.LeftBrace
	case l.ch == '}':
		tok.Type = token.RightBrace
	case l.ch == ',':
		tok.Type = token.Comma
	case l.ch == '.':
		tok.Type = token.Dot
	case l.ch == '-':
		tok.Type = token.Minus
	case l.ch == '+':
		tok.Type = token.Plus
	case l.ch == ';':
		tok.Type = token.Semicolon
	case l.ch == '*':
		tok.Type = token.Asterisk
	case l.ch == '!':
		tok.Type = token.Bang
		if l.peek() == '=' {
			l.next()
			tok.Type = token.BangEqual
		}
	case l.ch == '=':
		tok.Type = token.Equal
		if l.peek() == '=' {
			l.next()
			tok.Type = token.EqualEqual
		}
	case l.ch == '<':
		tok.Type = token.Less
		if l.peek() == '=' {
			l.next()
			tok.Type = token.LessEqual
		}
	case l.ch == '>':
		tok.Type = token.Greater
		if l.peek() == '=' {
			l.next()
			tok.Type = token.GreaterEqual
		}
	case l.ch == '/':
		tok.Type = token.Slash
		if l.peek() == '/' {
			l.skipLineComment()
			return l.Next()
		}
		if l.peek() == '*' {
			if terminated := l.skipBlockComment(); !terminated {
				l.errHandler(l.line, "Unterminated block comment.")
			}
			return l.Next()
		}
	case l.ch == '"':
		lexeme, terminated := l.consumeString()
		if !terminated {
			l.errHandler(l.line, "Unterminated string.")
			return l.Next()
		}
		tok.Type = token.String
		tok.Lexeme = lexeme
		tok.Literal = lexeme[1 : len(lexeme)-1]
		return tok
	case isDigit(l.ch):
		lexeme := l.consumeNumber()
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			panic(fmt.Sprintf("unexpected error parsing number literal %q: %s", lexeme, err))
		}
		tok.Type = token.Number
		tok.Lexeme = lexeme
		tok.Literal = value
		return tok
	case isAlpha(l.ch):
		ident := l.consumeIdent()
		tok.Type = token.IdentType(ident)
		tok.Lexeme = ident
		return tok
	default:
		l.errHandler(l.line, "Unexpected character.")
		l.next()
		return l.Next()
	}

	l.next()
	tok.Lexeme = tok.Type.Lexeme()

	return tok
}

func (l *lexer) skipWhitespace() {
	for isWhitespace(l.ch) {
		l.next()
	}
}

func (l *lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != eof {
		l.next()
	}
}

// skipBlockComment consumes a /* */ comment, which may span lines but does not nest.
func (l *lexer) skipBlockComment() (terminated bool) {
	l.next()
	l.next()
	for l.ch != eof {
		if l.ch == '*' && l.peek() == '/' {
			l.next()
			l.next()
			return true
		}
		l.next()
	}
	return false
}

func (l *lexer) consumeNumber() string {
	var b strings.Builder
	for isDigit(l.ch) {
		b.WriteRune(l.ch)
		l.next()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		b.WriteRune(l.ch)
		l.next()
		for isDigit(l.ch) {
			b.WriteRune(l.ch)
			l.next()
		}
	}
	return b.String()
}

func (l *lexer) consumeString() (s string, terminated bool) {
	l.next()
	var b strings.Builder
	b.WriteRune('"')
	for {
		if l.ch == eof {
			return b.String(), false
		}
		ch := l.ch
		b.WriteRune(ch)
		l.next()
		if ch == '"' {
			return b.String(), true
		}
	}
}

func (l *lexer) consumeIdent() string {
	var b strings.Builder
	for isAlphaNumeric(l.ch) {
		b.WriteRune(l.ch)
		l.next()
	}
	return b.String()
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\r', '\t', '\n':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isAlpha(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r == '_'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

// next reads the next character into l.ch and advances the lexer.
// If the end of the source code has been reached, l.ch is set to eof.
func (l *lexer) next() {
	if l.ch == eof {
		return
	}

	if l.ch == '\n' {
		l.line++
	}

	if l.readOffset == len(l.src) {
		l.ch = eof
		return
	}

	r, size := utf8.DecodeRune(l.src[l.readOffset:])
	l.readOffset += size
	l.ch = r
}

// peek returns the next character without advancing the lexer.
// If the end of the source code has been reached, eof is returned.
func (l *lexer) peek() rune {
	if l.readOffset >= len(l.src) {
		return eof
	}
	return rune(l.src[l.readOffset])
}
