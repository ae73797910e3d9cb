package tco

// alpha.go implements capture-avoiding renaming: every free occurrence of
// one name is replaced by another, with bound occurrences left alone.

// AlphaRename returns expr with every free occurrence of old replaced by
// new. A binding of old shadows the substitution below it; a binder that
// collides with new is first renamed to a fresh name throughout its
// scope, so the substituted occurrences can never be captured.
func AlphaRename(gen *NameGen, expr Expr, old, new string) (out Expr, err error) {
	err = capture("alpha-rename", func() {
		gen.Avoid(expr)
		out = alphaRename(gen, expr, old, new)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func alphaRename(gen *NameGen, expr Expr, old, new string) Expr {
	if old == new {
		return expr
	}
	switch e := expr.(type) {
	case *VarExpr:
		if e.Name == old {
			return &VarExpr{Name: new}
		}
		return e
	case *ContExpr:
		if e.Name == old {
			return &ContExpr{Name: new}
		}
		return e
	case *FuncExpr:
		return alphaRenameFunc(gen, e, old, new)
	case *TrampExpr:
		// the flag and helper name are machine-generated binders
		if old == e.Flag || old == e.Helper.Name {
			return e
		}
		flag := e.Flag
		if new == flag {
			flag = gen.Fresh(flag)
		}
		helper, call := e.Helper, e.Call
		if new == helper.Name {
			// move the helper out of the way and keep the initial call
			// attached to it
			oldName := helper.Name
			helper = renameSelf(gen, helper)
			call = alphaRename(gen, call, oldName, helper.Name).(*CallExpr)
		}
		return &TrampExpr{
			Flag:   flag,
			Helper: alphaRename(gen, helper, old, new).(*FuncExpr),
			Call:   alphaRename(gen, call, old, new).(*CallExpr),
		}
	default:
		return mapChildren(expr, func(c Expr) Expr {
			return alphaRename(gen, c, old, new)
		})
	}
}

func alphaRenameFunc(gen *NameGen, e *FuncExpr, old, new string) Expr {
	// old rebound here? then occurrences below refer to the local
	// binding, not the one being renamed
	if contains(e.Args, old) || e.Name == old {
		return e
	}
	// a binder equal to new must get out of the way first, or it would
	// capture the substituted occurrences
	f := e
	if i := index(f.Args, new); i >= 0 {
		f = renameFormal(gen, f, i)
	}
	if f.Name == new {
		f = renameSelf(gen, f)
	}
	body := make([]Expr, len(f.Body))
	for i := range f.Body {
		body[i] = alphaRename(gen, f.Body[i], old, new)
	}
	return &FuncExpr{Name: f.Name, Args: f.Args, Body: body}
}

// renameFormal renames formal i of f to a fresh name throughout the body.
func renameFormal(gen *NameGen, f *FuncExpr, i int) *FuncExpr {
	old := f.Args[i]
	fresh := gen.Fresh(old)
	args := append([]string{}, f.Args...)
	args[i] = fresh
	return &FuncExpr{Name: f.Name, Args: args, Body: renameAll(gen, f.Body, old, fresh)}
}

// renameSelf renames the function's own name to a fresh one. Occurrences
// in the body are self-references unless a formal of the same name
// shadows them.
func renameSelf(gen *NameGen, f *FuncExpr) *FuncExpr {
	fresh := gen.Fresh(f.Name)
	body := f.Body
	if !contains(f.Args, f.Name) {
		body = renameAll(gen, body, f.Name, fresh)
	}
	return &FuncExpr{Name: fresh, Args: f.Args, Body: body}
}

func renameAll(gen *NameGen, body []Expr, old, new string) []Expr {
	out := make([]Expr, len(body))
	for i := range body {
		out[i] = alphaRename(gen, body[i], old, new)
	}
	return out
}

func contains(names []string, n string) bool {
	return index(names, n) >= 0
}

func index(names []string, n string) int {
	for i, s := range names {
		if s == n {
			return i
		}
	}
	return -1
}
