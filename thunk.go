package tco

// thunk.go suspends the work a converted function would do when applied:
// the value-producing body form is wrapped in a zero-argument thunk, so a
// call returns "the next step" instead of running it inline. Continuation
// references and continuation invocations are never deferred.

// Thunkify rewrites an already CPS-converted tree so every function
// returns a suspension of its body.
func Thunkify(expr Expr) (out Expr, err error) {
	err = capture("thunkify", func() {
		out = thunkify(expr)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func thunkify(expr Expr) Expr {
	switch e := expr.(type) {
	case *FuncExpr:
		body := make([]Expr, len(e.Body))
		for i := range e.Body {
			body[i] = thunkify(e.Body[i])
		}
		last := len(body) - 1
		body[last] = &ThunkExpr{Body: body[last]}
		return &FuncExpr{Name: e.Name, Args: e.Args, Body: body}
	case *AppContExpr:
		// delivering a value to a continuation happens immediately
		return &AppContExpr{Cont: e.Cont, Val: thunkify(e.Val)}
	case *CallExpr:
		args := make([]Expr, len(e.Args))
		for i, a := range e.Args {
			if _, ok := a.(*ContExpr); ok {
				args[i] = a
			} else {
				args[i] = thunkify(a)
			}
		}
		return &CallExpr{Func: thunkify(e.Func), Args: args}
	default:
		return mapChildren(expr, thunkify)
	}
}
