package tco

import (
	"errors"
	"strings"
	"testing"
)

var alphaRenameTests = []struct {
	input string
	old   string
	new   string
	want  string
}{
	{"x", "x", "y", "y"},
	{"z", "x", "y", "z"},
	{"42", "x", "y", "42"},
	{"(+ x (* x z))", "x", "y", "(+ y (* y z))"},
	{"(if x x x)", "x", "y", "(if y y y)"},
	{"(f x)", "f", "g", "(g x)"},
	// primitive operator tokens are never substituted
	{"(+ x 1)", "+", "plus", "(+ x 1)"},
	// old is rebound: the function is left alone entirely
	{"(fn (x) (+ x y))", "x", "y", "(fn (x) (+ x y))"},
	{"(fn f (x) (f x))", "f", "g", "(fn f (x) (f x))"},
	// no collision: descend normally
	{"(fn (a) (+ a x))", "x", "y", "(fn (a) (+ a y))"},
	// collision with a formal: the formal moves out of the way first
	{"(fn (y) (+ x y))", "x", "y", "(fn (y1) (+ y y1))"},
	// collision with the function's own name: the self-reference is
	// renamed first so recursive calls stay attached
	{"(fn f (y) (+ x (f y)))", "x", "f", "(fn f1 (y) (+ f (f1 y)))"},
	// a formal of the same name shadows the self-reference; both
	// colliding binders move out of the way
	{"(fn f (f) (f x))", "x", "f", "(fn f2 (f1) (f1 f))"},
	// the fresh replacement skips names the program already uses
	{"(fn (y) (+ x (+ y y1)))", "x", "y", "(fn (y2) (+ y (+ y2 y1)))"},
}

func TestAlphaRename(t *testing.T) {
	for _, tt := range alphaRenameTests {
		gen := new(NameGen)
		expr := mustRead(t, tt.input)
		got, err := AlphaRename(gen, expr, tt.old, tt.new)
		if err != nil {
			t.Errorf("AlphaRename(%q, %s, %s): unexpected error: %v", tt.input, tt.old, tt.new, err)
			continue
		}
		want := mustRead(t, tt.want)
		if !Equal(got, want) {
			t.Errorf("AlphaRename(%q, %s, %s) = %s, want %s",
				tt.input, tt.old, tt.new, Format(got), tt.want)
		}
	}
}

func TestAlphaRenameIdentity(t *testing.T) {
	// renaming a variable to itself is a no-op
	for _, src := range []string{
		"x", "(+ x y)", "(fn (x) (+ x y))", "(fn f (x) (f (dec x)))",
		"(if (zero? x) x (f x))",
	} {
		expr := mustRead(t, src)
		gen := new(NameGen)
		got, err := AlphaRename(gen, expr, "x", "x")
		if err != nil {
			t.Fatalf("AlphaRename(%q, x, x) failed: %v", src, err)
		}
		if !Equal(got, expr) {
			t.Errorf("AlphaRename(%q, x, x) = %s, want unchanged", src, Format(got))
		}
	}
}

func TestAlphaRenameFreeVars(t *testing.T) {
	// free-vars(rename(e, old, new)) == free-vars(e) \ {old} + {new}
	// when old occurs free, and is untouched otherwise
	cases := []struct {
		input    string
		old, new string
	}{
		{"(+ x y)", "x", "w"},
		{"(fn (a) (+ a x))", "x", "w"},
		{"(fn (x) (+ x y))", "x", "w"},
		{"(fn (y) (+ x y))", "x", "y"},
		{"(fn f (n) (f (+ n x)))", "x", "f"},
		{"(if p x z)", "z", "q"},
	}
	for _, tt := range cases {
		expr := mustRead(t, tt.input)
		gen := new(NameGen)
		got, err := AlphaRename(gen, expr, tt.old, tt.new)
		if err != nil {
			t.Fatalf("AlphaRename(%q) failed: %v", tt.input, err)
		}
		want := FreeVars(expr)
		if want[tt.old] {
			delete(want, tt.old)
			want[tt.new] = true
		}
		if g, w := names(FreeVars(got)), names(want); !sameNames(g, w) {
			t.Errorf("free vars after AlphaRename(%q, %s, %s) = %v, want %v",
				tt.input, tt.old, tt.new, g, w)
		}
	}
}

func TestAlphaRenameTrampHelper(t *testing.T) {
	// renaming a free variable onto the helper's name moves the helper
	// out of the way without detaching the initial call from it
	gen := new(NameGen)
	out, err := Tramp(gen, thunkOf(t, gen, mustRead(t, "(fn f (x) (f (g x)))")))
	if err != nil {
		t.Fatal(err)
	}
	helperName := out.(*FuncExpr).Body[0].(*TrampExpr).Helper.Name

	renamed, err := AlphaRename(gen, out, "g", helperName)
	if err != nil {
		t.Fatal(err)
	}
	tr := renamed.(*FuncExpr).Body[0].(*TrampExpr)
	target, ok := tr.Call.Func.(*VarExpr)
	if !ok || target.Name != tr.Helper.Name {
		t.Errorf("initial call targets %s, want the helper %q", Format(tr.Call.Func), tr.Helper.Name)
	}
	if tr.Helper.Name == helperName {
		t.Errorf("helper kept the colliding name %q", helperName)
	}
	if !FreeVars(renamed)[helperName] {
		t.Errorf("free occurrences of %q were not renamed: %s", "g", Format(renamed))
	}
}

type bogusExpr struct{}

func (*bogusExpr) exprNode() {}

func TestAlphaRenameMalformed(t *testing.T) {
	expr := &CallExpr{Func: &VarExpr{Name: "f"}, Args: []Expr{&bogusExpr{}}}
	gen := new(NameGen)
	_, err := AlphaRename(gen, expr, "x", "y")
	if err == nil {
		t.Fatal("AlphaRename on an unknown node: expected an error but found none")
	}
	var m *MalformedError
	if !errors.As(err, &m) {
		t.Fatalf("AlphaRename error = %T, want *MalformedError in the chain", err)
	}
	if !strings.Contains(err.Error(), "unhandled case") {
		t.Errorf("unexpected error text: %v", err)
	}
}
