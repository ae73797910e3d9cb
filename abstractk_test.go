package tco

import "testing"

func convert(t *testing.T, src string) Expr {
	t.Helper()
	gen := new(NameGen)
	cps, err := CpsConvert(gen, mustRead(t, src))
	if err != nil {
		t.Fatalf("CpsConvert(%q) failed: %v", src, err)
	}
	out, err := AbstractK(cps)
	if err != nil {
		t.Fatalf("AbstractK(%q) failed: %v", src, err)
	}
	return out
}

func TestAbstractKCountDown(t *testing.T) {
	got := convert(t, "(fn count-down (x) (if (zero? x) x (count-down (dec x))))")
	want := &FuncExpr{
		Name: "count-down",
		Args: []string{"x", "k1"},
		Body: []Expr{&IfExpr{
			Cond: &PrimExpr{Op: "zero?", Args: []Expr{&VarExpr{Name: "x"}}},
			Then: &AppContExpr{
				Cont: &ContExpr{Name: "k1"},
				Val:  &VarExpr{Name: "x"},
			},
			Else: &CallExpr{
				Func: &VarExpr{Name: "count-down"},
				Args: []Expr{
					&PrimExpr{Op: "dec", Args: []Expr{&VarExpr{Name: "x"}}},
					&ContExpr{Name: "k1"},
				},
			},
		}},
	}
	if !Equal(got, want) {
		t.Errorf("abstract-k = %s, want %s", Format(got), Format(want))
	}
}

func TestAbstractKDirectApplication(t *testing.T) {
	// (k1 x) becomes an explicit continuation application
	got := convert(t, "(fn (x) x)")
	want := &FuncExpr{
		Args: []string{"x", "k1"},
		Body: []Expr{&AppContExpr{
			Cont: &ContExpr{Name: "k1"},
			Val:  &VarExpr{Name: "x"},
		}},
	}
	if !Equal(got, want) {
		t.Errorf("abstract-k = %s, want %s", Format(got), Format(want))
	}
}

func TestAbstractKForwarding(t *testing.T) {
	// the continuation forwarded through a tail call stays a reference
	got := convert(t, "(fn (x) (g x))")
	fn, ok := got.(*FuncExpr)
	if !ok {
		t.Fatalf("abstract-k = %T, want *FuncExpr", got)
	}
	call, ok := fn.Body[0].(*CallExpr)
	if !ok {
		t.Fatalf("function body = %T, want *CallExpr", fn.Body[0])
	}
	last := call.Args[len(call.Args)-1]
	if _, ok := last.(*ContExpr); !ok {
		t.Errorf("trailing argument = %T (%s), want *ContExpr", last, Format(last))
	}
}

func TestAbstractKGeneratedContinuation(t *testing.T) {
	// the continuation generated for a serious operand keeps delivering
	// to the outer continuation inside its body
	got := convert(t, "(fn (x) (+ 1 (g x)))")
	want := &FuncExpr{
		Args: []string{"x", "k1"},
		Body: []Expr{&CallExpr{
			Func: &VarExpr{Name: "g"},
			Args: []Expr{
				&VarExpr{Name: "x"},
				&FuncExpr{
					Args: []string{"v2"},
					Body: []Expr{&AppContExpr{
						Cont: &ContExpr{Name: "k1"},
						Val: &PrimExpr{Op: "+", Args: []Expr{
							&NumExpr{Value: 1},
							&VarExpr{Name: "v2"},
						}},
					}},
				},
			},
		}},
	}
	if !Equal(got, want) {
		t.Errorf("abstract-k = %s, want %s", Format(got), Format(want))
	}
}
