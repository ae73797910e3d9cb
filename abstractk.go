package tco

// abstractk.go makes the continuation threaded through a CPS-converted
// tree explicit: a call that delivers a value to the current continuation
// becomes an AppContExpr pairing a ContExpr with the value, and a call
// that forwards the continuation carries it as a ContExpr in trailing
// position. Everything else goes through the generic child traversal.

// AbstractK rewrites a CPS-converted tree so the implicit continuation
// appears as explicit Cont/AppCont nodes.
func AbstractK(expr Expr) (out Expr, err error) {
	err = capture("abstract-k", func() {
		out = abstractK(expr, "")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func abstractK(expr Expr, k string) Expr {
	switch e := expr.(type) {
	case *FuncExpr:
		return abstractKFunc(e, k)
	case *CallExpr:
		// direct continuation application: (k v)
		if f, ok := e.Func.(*VarExpr); ok && k != "" && f.Name == k && len(e.Args) == 1 {
			return &AppContExpr{
				Cont: &ContExpr{Name: k},
				Val:  abstractK(e.Args[0], k),
			}
		}
		return abstractKCall(e, k)
	default:
		return mapChildren(expr, func(c Expr) Expr {
			return abstractK(c, k)
		})
	}
}

// abstractKFunc rewrites a converted user function: its trailing formal
// is the continuation its body delivers to.
func abstractKFunc(e *FuncExpr, k string) Expr {
	inner := k
	if len(e.Args) > 0 {
		inner = e.Args[len(e.Args)-1]
	}
	body := make([]Expr, len(e.Body))
	for i := range e.Body {
		body[i] = abstractK(e.Body[i], inner)
	}
	return &FuncExpr{Name: e.Name, Args: e.Args, Body: body}
}

// abstractKCont rewrites a continuation function generated during
// conversion: its formal binds a delivered value, and its body still
// delivers to the surrounding continuation k.
func abstractKCont(f *FuncExpr, k string) *FuncExpr {
	body := make([]Expr, len(f.Body))
	for i := range f.Body {
		body[i] = abstractK(f.Body[i], k)
	}
	return &FuncExpr{Name: f.Name, Args: f.Args, Body: body}
}

func abstractKCall(e *CallExpr, k string) Expr {
	if cf, ok := e.Func.(*FuncExpr); ok && len(cf.Args) == 1 && len(e.Args) == 1 && !isVarNamed(e.Args[0], k) {
		// immediate application of a generated continuation to a value
		return &CallExpr{
			Func: abstractKCont(cf, k),
			Args: []Expr{abstractK(e.Args[0], k)},
		}
	}
	op := abstractK(e.Func, k)
	args := make([]Expr, len(e.Args))
	for i, a := range e.Args {
		if i != len(e.Args)-1 {
			args[i] = abstractK(a, k)
			continue
		}
		// the trailing argument is continuation position
		switch t := a.(type) {
		case *VarExpr:
			if k != "" && t.Name == k {
				args[i] = &ContExpr{Name: k}
			} else {
				args[i] = t
			}
		case *FuncExpr:
			args[i] = abstractKCont(t, k)
		default:
			args[i] = abstractK(a, k)
		}
	}
	return &CallExpr{Func: op, Args: args}
}

func isVarNamed(e Expr, name string) bool {
	v, ok := e.(*VarExpr)
	return ok && name != "" && v.Name == name
}
