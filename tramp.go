package tco

// tramp.go holds the two halves of trampolining: the static rewrite that
// installs the driver around a thunkified definition, and the driver loop
// itself, which the evaluator runs when it reaches the installed node.

// Tramp rewrites a thunkified function definition so callers get their
// answer from the driver loop: the real body moves into an internal
// helper under a fresh name, recursive self-calls are renamed to match,
// and the helper's first result is driven until the per-activation
// completion flag is set.
func Tramp(gen *NameGen, expr Expr) (out Expr, err error) {
	err = capture("tramp", func() {
		gen.Avoid(expr)
		e, ok := expr.(*FuncExpr)
		if !ok {
			panic(malformedf(expr, "driver installation requires a function definition"))
		}
		out = trampInstall(gen, e)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func trampInstall(gen *NameGen, e *FuncExpr) Expr {
	var helper *FuncExpr
	if e.Name != "" {
		// the helper gets a fresh internal name; renaming the free
		// occurrences of the old name inside the body redirects exactly
		// the recursive self-calls, since any inner rebinding of the
		// same name shadows them
		hname := gen.Fresh(e.Name)
		helper = &FuncExpr{Name: hname, Args: e.Args, Body: renameAll(gen, e.Body, e.Name, hname)}
	} else {
		helper = &FuncExpr{Name: gen.Fresh("tramp"), Args: e.Args, Body: e.Body}
	}
	args := make([]Expr, len(e.Args))
	for i, p := range e.Args {
		args[i] = &VarExpr{Name: p}
	}
	if n := len(args); n > 0 {
		// the trailing formal is the continuation
		args[n-1] = &ContExpr{Name: e.Args[n-1]}
	}
	return &FuncExpr{
		Name: e.Name,
		Args: e.Args,
		Body: []Expr{&TrampExpr{
			Flag:   gen.Fresh("done"),
			Helper: helper,
			Call:   &CallExpr{Func: &VarExpr{Name: helper.Name}, Args: args},
		}},
	}
}

// doneFlag is the completion flag: one instance per entry into a
// trampolined function, so concurrent or re-entrant activations never
// interfere.
type doneFlag struct {
	done bool
}

func (f *doneFlag) set() {
	f.done = true
}

func (f *doneFlag) finished() bool {
	return f.done
}

// Driver forces thunks in a loop until the completion flag reports that
// the final value has been delivered. Steps counts the forces performed.
type Driver struct {
	Steps int
}

// Run drives v to completion. Each force either produces the next thunk
// or delivers the final value to the flag-setting continuation.
func (d *Driver) Run(v Value, flag *doneFlag) Value {
	for !flag.finished() {
		t, ok := v.(*thunkValue)
		if !ok {
			panic(evalErrorf("trampoline produced a non-thunk before completion: %v", v))
		}
		d.Steps++
		v = t.force()
	}
	return v
}
