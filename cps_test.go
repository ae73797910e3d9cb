package tco

import "testing"

var cpsTests = []struct {
	input string
	want  string
}{
	// trivial expressions convert to themselves
	{"42", "42"},
	{"x", "x"},
	{"(+ x 1)", "(+ x 1)"},
	// a function gains one trailing continuation formal and its body
	// delivers the result to it
	{"(fn (x) x)", "(fn (x k1) (k1 x))"},
	{"(fn (x) (+ x 1))", "(fn (x k1) (k1 (+ x 1)))"},
	{"(fn (x y) (* x y))", "(fn (x y k1) (k1 (* x y)))"},
	// a call in tail position gains one trailing continuation argument
	{"(fn (x) (g x))", "(fn (x k1) (g x k1))"},
	{"(fn () (g))", "(fn (k1) (g k1))"},
	// both branches of a conditional deliver to the same continuation
	{
		"(fn count-down (x) (if (zero? x) x (count-down (dec x))))",
		"(fn count-down (x k1) (if (zero? x) (k1 x) (count-down (dec x) k1)))",
	},
	// a serious operand is reduced first through a fresh continuation
	{
		"(fn (x) (g (h x)))",
		"(fn (x k1) (h x (fn (v2) (g v2 k1))))",
	},
	{
		"(fn (x) (+ 1 (g x)))",
		"(fn (x k1) (g x (fn (v2) (k1 (+ 1 v2)))))",
	},
	// a serious operator likewise
	{
		"(fn (x) ((f x) x))",
		"(fn (x k1) (f x (fn (v2) (v2 x k1))))",
	},
	// a serious test is bound before the branches split
	{
		"(fn (x) (if (f x) 1 2))",
		"(fn (x k1) (f x (fn (v2) (if v2 (k1 1) (k1 2)))))",
	},
	// nested functions are converted too
	{
		"(fn (x) (fn (y) y))",
		"(fn (x k1) (k1 (fn (y k2) (k2 y))))",
	},
	// a serious top-level expression is wrapped in a function accepting
	// the continuation
	{"(g 1)", "(fn (k1) (g 1 k1))"},
	{"(if (zero? x) 1 (g x))", "(fn (k1) (if (zero? x) (k1 1) (g x k1)))"},
}

func TestCpsConvert(t *testing.T) {
	for _, tt := range cpsTests {
		gen := new(NameGen)
		got, err := CpsConvert(gen, mustRead(t, tt.input))
		if err != nil {
			t.Errorf("CpsConvert(%q): unexpected error: %v", tt.input, err)
			continue
		}
		want := mustRead(t, tt.want)
		if !Equal(got, want) {
			t.Errorf("CpsConvert(%q) = %s, want %s", tt.input, Format(got), tt.want)
		}
	}
}

func TestCpsConvertFreshAvoidsProgramNames(t *testing.T) {
	// names the program already uses are never reused for generated
	// continuations, so the formals of a converted function stay
	// pairwise distinct
	tests := []struct {
		input string
		want  string
	}{
		{"(fn (k1) k1)", "(fn (k1 k2) (k2 k1))"},
		{"(fn k1 (x) (k1 x))", "(fn k1 (x k2) (k1 x k2))"},
		{"(fn (v1 v2) (g (h v1)))", "(fn (v1 v2 k1) (h v1 (fn (v3) (g v3 k1))))"},
	}
	for _, tt := range tests {
		gen := new(NameGen)
		got, err := CpsConvert(gen, mustRead(t, tt.input))
		if err != nil {
			t.Errorf("CpsConvert(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if err := Check(got); err != nil {
			t.Errorf("CpsConvert(%q) produced a malformed tree: %v", tt.input, err)
		}
		want := mustRead(t, tt.want)
		if !Equal(got, want) {
			t.Errorf("CpsConvert(%q) = %s, want %s", tt.input, Format(got), tt.want)
		}
	}
}

func TestCpsConvertAddsOneFormal(t *testing.T) {
	for _, src := range []string{
		"(fn (x) x)",
		"(fn () 1)",
		"(fn (a b c) (+ a (+ b c)))",
		"(fn loop (n) (loop (dec n)))",
	} {
		in := mustRead(t, src).(*FuncExpr)
		gen := new(NameGen)
		out, err := CpsConvert(gen, in)
		if err != nil {
			t.Fatalf("CpsConvert(%q) failed: %v", src, err)
		}
		fn, ok := out.(*FuncExpr)
		if !ok {
			t.Fatalf("CpsConvert(%q) = %T, want *FuncExpr", src, out)
		}
		if len(fn.Args) != len(in.Args)+1 {
			t.Errorf("CpsConvert(%q): %d formals, want %d", src, len(fn.Args), len(in.Args)+1)
		}
	}
}

func TestCpsConvertPure(t *testing.T) {
	src := "(fn count-down (x) (if (zero? x) x (count-down (dec x))))"
	in := mustRead(t, src)
	orig := mustRead(t, src)
	gen := new(NameGen)
	if _, err := CpsConvert(gen, in); err != nil {
		t.Fatal(err)
	}
	if !Equal(in, orig) {
		t.Errorf("CpsConvert mutated its input: %s", Format(in))
	}
}

func TestCpsConvertMalformed(t *testing.T) {
	gen := new(NameGen)
	_, err := CpsConvert(gen, &CallExpr{Func: &bogusExpr{}, Args: nil})
	if err == nil {
		t.Fatal("CpsConvert on an unknown node: expected an error but found none")
	}
}
