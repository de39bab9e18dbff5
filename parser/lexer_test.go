package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wiseodd/lox/token"
)

func lex(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()

	l, err := newLexer(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	var errs []string
	l.SetErrorHandler(func(line int, format string, args ...any) {
		errs = append(errs, fmt.Sprintf("[line %d] %s", line, fmt.Sprintf(format, args...)))
	})

	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, errs
		}
	}
}

func TestLexerScansPunctuationAndOperators(t *testing.T) {
	toks, errs := lex(t, "(){},.-+;/* ! != = == > >= < <=")
	want := []token.Token{
		{Type: token.LeftParen, Lexeme: "(", Line: 1},
		{Type: token.RightParen, Lexeme: ")", Line: 1},
		{Type: token.LeftBrace, Lexeme: "{", Line: 1},
		{Type: token.RightBrace, Lexeme: "}", Line: 1},
		{Type: token.Comma, Lexeme: ",", Line: 1},
		{Type: token.Dot, Lexeme: ".", Line: 1},
		{Type: token.Minus, Lexeme: "-", Line: 1},
		{Type: token.Plus, Lexeme: "+", Line: 1},
		{Type: token.Semicolon, Lexeme: ";", Line: 1},
		{Type: token.Slash, Lexeme: "/", Line: 1},
		{Type: token.Asterisk, Lexeme: "*", Line: 1},
		{Type: token.Bang, Lexeme: "!", Line: 1},
		{Type: token.BangEqual, Lexeme: "!=", Line: 1},
		{Type: token.Equal, Lexeme: "=", Line: 1},
		{Type: token.EqualEqual, Lexeme: "==", Line: 1},
		{Type: token.Greater, Lexeme: ">", Line: 1},
		{Type: token.GreaterEqual, Lexeme: ">=", Line: 1},
		{Type: token.Less, Lexeme: "<", Line: 1},
		{Type: token.LessEqual, Lexeme: "<=", Line: 1},
		{Type: token.EOF, Line: 1},
	}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %q", errs)
	}
}

func TestLexerScansLiteralsAndKeywords(t *testing.T) {
	toks, errs := lex(t, `var languages = "lox" + 12.5; fn f`)
	want := []token.Token{
		{Type: token.Var, Lexeme: "var", Line: 1},
		{Type: token.Ident, Lexeme: "languages", Line: 1},
		{Type: token.Equal, Lexeme: "=", Line: 1},
		{Type: token.String, Lexeme: `"lox"`, Literal: "lox", Line: 1},
		{Type: token.Plus, Lexeme: "+", Line: 1},
		{Type: token.Number, Lexeme: "12.5", Literal: 12.5, Line: 1},
		{Type: token.Semicolon, Lexeme: ";", Line: 1},
		{Type: token.Fn, Lexeme: "fn", Line: 1},
		{Type: token.Ident, Lexeme: "f", Line: 1},
		{Type: token.EOF, Line: 1},
	}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %q", errs)
	}
}

func TestLexerCountsLines(t *testing.T) {
	src := "one\n\"two\nthree\"\nfour"
	toks, errs := lex(t, src)
	want := []token.Token{
		{Type: token.Ident, Lexeme: "one", Line: 1},
		{Type: token.String, Lexeme: "\"two\nthree\"", Literal: "two\nthree", Line: 2},
		{Type: token.Ident, Lexeme: "four", Line: 4},
		{Type: token.EOF, Line: 4},
	}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %q", errs)
	}
}

func TestLexerSkipsCommentsAndWhitespace(t *testing.T) {
	src := "one // a line comment\n/* a block\ncomment */ two"
	toks, errs := lex(t, src)
	want := []token.Token{
		{Type: token.Ident, Lexeme: "one", Line: 1},
		{Type: token.Ident, Lexeme: "two", Line: 3},
		{Type: token.EOF, Line: 3},
	}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if len(errs) > 0 {
		t.Errorf("unexpected errors: %q", errs)
	}
}

func TestLexerReportsErrorsAndContinues(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantToks []token.Token
		wantErrs []string
	}{
		{
			name: "UnexpectedCharacter",
			src:  "one @ two",
			wantToks: []token.Token{
				{Type: token.Ident, Lexeme: "one", Line: 1},
				{Type: token.Ident, Lexeme: "two", Line: 1},
				{Type: token.EOF, Line: 1},
			},
			wantErrs: []string{"[line 1] Unexpected character."},
		},
		{
			name: "UnterminatedString",
			src:  "print \"oops",
			wantToks: []token.Token{
				{Type: token.Print, Lexeme: "print", Line: 1},
				{Type: token.EOF, Line: 1},
			},
			wantErrs: []string{"[line 1] Unterminated string."},
		},
		{
			name: "UnterminatedBlockComment",
			src:  "one /* never closed",
			wantToks: []token.Token{
				{Type: token.Ident, Lexeme: "one", Line: 1},
				{Type: token.EOF, Line: 1},
			},
			wantErrs: []string{"[line 1] Unterminated block comment."},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			toks, errs := lex(t, test.src)
			if diff := cmp.Diff(test.wantToks, toks); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantErrs, errs); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
