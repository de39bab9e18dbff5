package resolver_test

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/wiseodd/lox/ast"
	"github.com/wiseodd/lox/parser"
	"github.com/wiseodd/lox/resolver"
)

func init() {
	// Error messages are compared against their uncoloured form.
	color.NoColor = true
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse(%q) returned unexpected error: %s", src, err)
	}
	return program
}

func TestResolveRecordsScopeDistances(t *testing.T) {
	src := `
{
  var a = 1;
  print a;
  {
    print a;
  }
}
`
	program := mustParse(t, src)
	distances, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve returned unexpected error: %s", err)
	}

	isUseOfA := func(expr *ast.VariableExpr) bool { return expr.Name.Lexeme == "a" }
	firstUse, ok := ast.Find(program, isUseOfA)
	if !ok {
		t.Fatal("no use of a found in program")
	}
	lastUse, _ := ast.FindLast(program, isUseOfA)

	if got, ok := distances[firstUse]; !ok || got != 0 {
		t.Errorf("distance of use in declaring scope = %d (recorded %t), want 0", got, ok)
	}
	if got, ok := distances[lastUse]; !ok || got != 1 {
		t.Errorf("distance of use one scope in = %d (recorded %t), want 1", got, ok)
	}
}

func TestResolveRecordsDistancesThroughFunctions(t *testing.T) {
	src := `
fn outer() {
  var x = 1;
  fn inner() {
    print x;
  }
}
`
	program := mustParse(t, src)
	distances, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve returned unexpected error: %s", err)
	}

	use, ok := ast.Find(program, func(expr *ast.VariableExpr) bool { return expr.Name.Lexeme == "x" })
	if !ok {
		t.Fatal("no use of x found in program")
	}
	if got := distances[use]; got != 1 {
		t.Errorf("distance of closed-over use = %d, want 1", got)
	}
}

func TestResolveLeavesGlobalsUnrecorded(t *testing.T) {
	src := `
var a = 1;
print a;
fn f() {
  print a;
}
`
	program := mustParse(t, src)
	distances, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve returned unexpected error: %s", err)
	}
	if len(distances) != 0 {
		t.Errorf("Resolve recorded %d distances for global uses, want 0", len(distances))
	}
}

func TestResolveRecordsThisAndSuperDistances(t *testing.T) {
	src := `
class A {
  method() {}
}
class B < A {
  method() {
    super.method();
    print this;
  }
}
`
	program := mustParse(t, src)
	distances, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve returned unexpected error: %s", err)
	}

	superExpr, ok := ast.Find(program, func(*ast.SuperExpr) bool { return true })
	if !ok {
		t.Fatal("no super expression found in program")
	}
	// From the method body: the method scope, then the this scope, then the super scope.
	if got := distances[superExpr]; got != 2 {
		t.Errorf("distance of super = %d, want 2", got)
	}

	thisExpr, ok := ast.Find(program, func(*ast.ThisExpr) bool { return true })
	if !ok {
		t.Fatal("no this expression found in program")
	}
	if got := distances[thisExpr]; got != 1 {
		t.Errorf("distance of this = %d, want 1", got)
	}
}

func TestResolveReportsStaticErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "ReadInOwnInitialiser",
			src:  "{ var a = a; }",
			want: "[line 1] Error at 'a': Can't read local variable in its own initializer.",
		},
		{
			name: "AlreadyDeclaredInScope",
			src:  "fn f() {\n  var a = 1;\n  var a = 2;\n}",
			want: "[line 3] Error at 'a': Already a variable with this name in this scope.",
		},
		{
			name: "ReturnAtTopLevel",
			src:  "return 1;",
			want: "[line 1] Error at 'return': Can't return from top-level code.",
		},
		{
			name: "ReturnValueFromInitialiser",
			src:  "class Foo {\n  init() {\n    return 1;\n  }\n}",
			want: "[line 3] Error at 'return': Can't return a value from an initializer.",
		},
		{
			name: "ThisOutsideClass",
			src:  "print this;",
			want: "[line 1] Error at 'this': Can't use 'this' outside of a class.",
		},
		{
			name: "SuperOutsideClass",
			src:  "super.method();",
			want: "[line 1] Error at 'super': Can't use 'super' outside of a class.",
		},
		{
			name: "SuperWithoutSuperclass",
			src:  "class Foo {\n  method() {\n    super.method();\n  }\n}",
			want: "[line 3] Error at 'super': Can't use 'super' in a class with no superclass.",
		},
		{
			name: "ClassInheritsFromItself",
			src:  "class Foo < Foo {}",
			want: "[line 1] Error at 'Foo': A class cannot inherit from itself.",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			program := mustParse(t, test.src)
			_, err := resolver.Resolve(program)
			if err == nil {
				t.Fatalf("Resolve(%q) returned no error, want %q", test.src, test.want)
			}
			if diff := cmp.Diff(test.want, err.Error()); diff != "" {
				t.Errorf("Resolve(%q) error mismatch (-want +got):\n%s", test.src, diff)
			}
		})
	}
}

func TestResolveAllowsFunctionSelfReference(t *testing.T) {
	src := `
fn countdown(n) {
  if (n > 0) countdown(n - 1);
}
`
	program := mustParse(t, src)
	if _, err := resolver.Resolve(program); err != nil {
		t.Errorf("Resolve returned unexpected error: %s", err)
	}
}

func TestResolveAllowsShadowingInInnerScope(t *testing.T) {
	src := `
{
  var a = 1;
  {
    var a = 2;
    print a;
  }
}
`
	program := mustParse(t, src)
	distances, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve returned unexpected error: %s", err)
	}
	use, _ := ast.FindLast(program, func(expr *ast.VariableExpr) bool { return expr.Name.Lexeme == "a" })
	if got := distances[use]; got != 0 {
		t.Errorf("distance of shadowed use = %d, want 0", got)
	}
}
