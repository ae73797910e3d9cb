package tco

// check.go validates that a tree fits the grammar before the transform
// passes run: known variants only, known primitive operators applied at
// the right arity, pairwise-distinct formals, no missing sub-forms.

// Check reports the first malformed node found in expr, or nil.
func Check(expr Expr) error {
	return capture("check", func() {
		checkExpr(expr)
	})
}

func checkExpr(expr Expr) {
	switch e := expr.(type) {
	case nil:
		panic(malformedf(nil, "missing sub-form"))
	case *BoolExpr, *NumExpr:
	case *VarExpr:
		if e.Name == "" {
			panic(malformedf(e, "empty variable name"))
		}
	case *ContExpr:
		if e.Name == "" {
			panic(malformedf(e, "empty continuation name"))
		}
	case *IfExpr:
		checkExpr(e.Cond)
		checkExpr(e.Then)
		checkExpr(e.Else)
	case *PrimExpr:
		n, ok := primArity[e.Op]
		if !ok {
			panic(malformedf(e, "unknown primitive operator %q", e.Op))
		}
		if len(e.Args) != n {
			panic(malformedf(e, "%s takes %d operands, found %d", e.Op, n, len(e.Args)))
		}
		for _, a := range e.Args {
			checkExpr(a)
		}
	case *CallExpr:
		checkExpr(e.Func)
		for _, a := range e.Args {
			checkExpr(a)
		}
	case *FuncExpr:
		seen := make(map[string]bool)
		for _, p := range e.Args {
			if p == "" {
				panic(malformedf(e, "empty formal name"))
			}
			if seen[p] {
				panic(malformedf(e, "duplicate formal %q", p))
			}
			seen[p] = true
		}
		if len(e.Body) == 0 {
			panic(malformedf(e, "function has no body"))
		}
		for _, b := range e.Body {
			checkExpr(b)
		}
	case *AppContExpr:
		checkExpr(e.Cont)
		checkExpr(e.Val)
	case *ThunkExpr:
		checkExpr(e.Body)
	case *TrampExpr:
		if e.Flag == "" {
			panic(malformedf(e, "empty completion flag name"))
		}
		checkExpr(e.Helper)
		checkExpr(e.Call)
	default:
		panic(malformed(expr))
	}
}
