package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/wiseodd/lox/ast"
	"github.com/wiseodd/lox/parser"
)

func init() {
	// Error messages are compared against their uncoloured form.
	color.NoColor = true
}

func TestParserProducesExpectedASTs(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "OperatorPrecedence",
			src:  "print 1 + 2 * 3;",
			want: `(Program
  (PrintStmt
    (BinaryExpr
      1
      +
      (BinaryExpr
        2
        *
        3))))`,
		},
		{
			name: "VarDecl",
			src:  "var a = 1;",
			want: `(Program
  (VarDecl
    Name: a
    Initialiser: 1))`,
		},
		{
			name: "AssignmentToVariable",
			src:  "a = 1;",
			want: `(Program
  (ExprStmt
    (AssignExpr
      a
      1)))`,
		},
		{
			name: "AssignmentToPropertyBecomesSet",
			src:  "a.b = 1;",
			want: `(Program
  (ExprStmt
    (SetExpr
      Object: a
      Name: b
      Value: 1)))`,
		},
		{
			name: "LogicalOperators",
			src:  "a or b and c;",
			want: `(Program
  (ExprStmt
    (LogicalExpr
      a
      or
      (LogicalExpr
        b
        and
        c))))`,
		},
		{
			name: "CallAndPropertyChain",
			src:  "egg.scramble(3).with(cheddar);",
			want: `(Program
  (ExprStmt
    (CallExpr
      Callee: (GetExpr
        Object: (CallExpr
          Callee: (GetExpr
            Object: egg
            Name: scramble)
          Args: [
            3
          ])
        Name: with)
      Args: [
        cheddar
      ])))`,
		},
		{
			name: "SuperMethodAccess",
			src:  "class B < A { method() { super.method(); } }",
			want: `(Program
  (ClassDecl
    Name: B
    Superclass: A
    Methods: [
      (FunDecl
        Name: method
        Function: (Function
          Params: []
          Body: [
            (ExprStmt
              (CallExpr
                Callee: (SuperExpr
                  Method: method)
                Args: []))
          ]))
    ]))`,
		},
		{
			name: "ForStatementDesugarsToWhile",
			src:  "for (var i = 0; i < 2; i = i + 1) print i;",
			want: `(Program
  (BlockStmt
    (VarDecl
      Name: i
      Initialiser: 0)
    (WhileStmt
      Condition: (BinaryExpr
        i
        <
        2)
      Body: (BlockStmt
        (PrintStmt
          i)
        (ExprStmt
          (AssignExpr
            i
            (BinaryExpr
              i
              +
              1)))))))`,
		},
		{
			name: "ForStatementWithEmptyClausesLoopsForever",
			src:  "for (;;) print 1;",
			want: `(Program
  (WhileStmt
    Condition: true
    Body: (PrintStmt
      1)))`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			program, err := parser.Parse(strings.NewReader(test.src))
			if err != nil {
				t.Fatalf("Parse(%q) returned unexpected error: %s", test.src, err)
			}
			if diff := cmp.Diff(test.want, ast.Sprint(program)); diff != "" {
				t.Errorf("Parse(%q) AST mismatch (-want +got):\n%s", test.src, diff)
			}
		})
	}
}

func TestParserReportsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "ExpectExpression",
			src:  "print;",
			want: "[line 1] Error at ';': Expect expression.",
		},
		{
			name: "InvalidAssignmentTarget",
			src:  "1 + 2 = 3;",
			want: "[line 1] Error at '=': Invalid assignment target.",
		},
		{
			name: "MissingSemicolon",
			src:  "print 1",
			want: "[line 1] Error at end: Expect ';' after value.",
		},
		{
			name: "RecoversAtStatementBoundary",
			src:  "print;\nvar = 1;",
			want: "[line 1] Error at ';': Expect expression.\n[line 2] Error at '=': Expect variable name.",
		},
		{
			name: "MissingClassBrace",
			src:  "class Foo;",
			want: "[line 1] Error at ';': Expect '{' before class body.",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := parser.Parse(strings.NewReader(test.src))
			if err == nil {
				t.Fatalf("Parse(%q) returned no error, want %q", test.src, test.want)
			}
			if diff := cmp.Diff(test.want, err.Error()); diff != "" {
				t.Errorf("Parse(%q) error mismatch (-want +got):\n%s", test.src, diff)
			}
		})
	}
}

func TestParserReportsSingleErrorForTooManyArguments(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = fmt.Sprint(i)
	}
	src := fmt.Sprintf("f(%s);", strings.Join(args, ", "))

	_, err := parser.Parse(strings.NewReader(src))
	if err == nil {
		t.Fatalf("Parse returned no error, want an argument count error")
	}
	want := "[line 1] Error at '255': Can't have more than 255 arguments."
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
}

func TestParserReportsSingleErrorForTooManyParameters(t *testing.T) {
	params := make([]string, 256)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}
	src := fmt.Sprintf("fn f(%s) {}", strings.Join(params, ", "))

	_, err := parser.Parse(strings.NewReader(src))
	if err == nil {
		t.Fatalf("Parse returned no error, want a parameter count error")
	}
	want := "[line 1] Error at 'p255': Can't have more than 255 parameters."
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
}
