package tco

// freevars.go computes the set of variable names occurring free in an
// expression. Binders (function formals and a function's own name)
// subtract their names from whatever their bodies contribute.

type nameSet map[string]bool

func (s nameSet) add(n string) {
	s[n] = true
}

func (s nameSet) union(t nameSet) {
	for n := range t {
		s[n] = true
	}
}

// FreeVars returns the free-variable set of expr. The tree must be well
// formed: a node outside the grammar panics with the malformed report,
// like the internal visitors do. Callers with untrusted input run Check
// first.
func FreeVars(expr Expr) map[string]bool {
	s := make(nameSet)
	freeVars(s, expr)
	return s
}

func freeVars(s nameSet, expr Expr) {
	switch e := expr.(type) {
	case *BoolExpr, *NumExpr:
	case *VarExpr:
		s.add(e.Name)
	case *ContExpr:
		s.add(e.Name)
	case *IfExpr:
		freeVars(s, e.Cond)
		freeVars(s, e.Then)
		freeVars(s, e.Else)
	case *PrimExpr:
		for _, a := range e.Args {
			freeVars(s, a)
		}
	case *CallExpr:
		freeVars(s, e.Func)
		for _, a := range e.Args {
			freeVars(s, a)
		}
	case *AppContExpr:
		freeVars(s, e.Cont)
		freeVars(s, e.Val)
	case *ThunkExpr:
		freeVars(s, e.Body)
	case *FuncExpr:
		inner := make(nameSet)
		for _, b := range e.Body {
			freeVars(inner, b)
		}
		for _, p := range e.Args {
			delete(inner, p)
		}
		if e.Name != "" {
			delete(inner, e.Name)
		}
		s.union(inner)
	case *TrampExpr:
		inner := make(nameSet)
		freeVars(inner, e.Helper)
		freeVars(inner, e.Call)
		delete(inner, e.Helper.Name)
		delete(inner, e.Flag)
		s.union(inner)
	default:
		panic(malformed(expr))
	}
}

// allNames collects every name occurring in expr, binders included. The
// fresh-name generator seeds itself with these.
func allNames(s nameSet, expr Expr) {
	switch e := expr.(type) {
	case *BoolExpr, *NumExpr:
	case *VarExpr:
		s.add(e.Name)
	case *ContExpr:
		s.add(e.Name)
	case *IfExpr:
		allNames(s, e.Cond)
		allNames(s, e.Then)
		allNames(s, e.Else)
	case *PrimExpr:
		for _, a := range e.Args {
			allNames(s, a)
		}
	case *CallExpr:
		allNames(s, e.Func)
		for _, a := range e.Args {
			allNames(s, a)
		}
	case *AppContExpr:
		allNames(s, e.Cont)
		allNames(s, e.Val)
	case *ThunkExpr:
		allNames(s, e.Body)
	case *FuncExpr:
		if e.Name != "" {
			s.add(e.Name)
		}
		for _, p := range e.Args {
			s.add(p)
		}
		for _, b := range e.Body {
			allNames(s, b)
		}
	case *TrampExpr:
		s.add(e.Flag)
		allNames(s, e.Helper)
		allNames(s, e.Call)
	default:
		panic(malformed(expr))
	}
}
