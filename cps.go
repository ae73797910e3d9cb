package tco

// cps.go does an ast-to-ast transformation from direct style into
// continuation passing style. A trivial expression can be computed
// without invoking a continuation: literals, variables, functions, and
// primitive applications of trivial operands. A serious expression
// (a conditional or a call) delivers its result to the continuation
// instead of returning it.
//
// Every converted function gains exactly one trailing continuation
// formal, and every converted call exactly one trailing continuation
// argument.

// CpsConvert converts expr into continuation-passing style. A serious
// top-level expression is wrapped in a function accepting the
// continuation, so the result is always invocable with a host
// continuation.
func CpsConvert(gen *NameGen, expr Expr) (out Expr, err error) {
	err = capture("cps", func() {
		gen.Avoid(expr)
		if isTrivial(expr) {
			out = cpsTriv(gen, expr)
		} else {
			k := gen.Fresh("k")
			out = &FuncExpr{
				Args: []string{k},
				Body: []Expr{cpsSrs(gen, expr, &VarExpr{Name: k})},
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// a trivial expr is one that can be computed without making any calls
func isTrivial(e Expr) bool {
	switch e := e.(type) {
	case *BoolExpr, *NumExpr, *VarExpr:
		return true
	case *FuncExpr:
		return true
	case *PrimExpr:
		for _, a := range e.Args {
			if !isTrivial(a) {
				return false
			}
		}
		return true
	case *IfExpr, *CallExpr:
		return false
	default:
		panic(malformed(e))
	}
}

func cpsTriv(gen *NameGen, expr Expr) Expr {
	switch e := expr.(type) {
	case *BoolExpr, *NumExpr, *VarExpr:
		return expr
	case *PrimExpr:
		args := make([]Expr, len(e.Args))
		for i := range e.Args {
			args[i] = cpsTriv(gen, e.Args[i])
		}
		return &PrimExpr{Op: e.Op, Args: args}
	case *FuncExpr:
		// add continuation parameter
		k := gen.Fresh("k")
		return &FuncExpr{
			Name: e.Name,
			Args: append(e.Args[:len(e.Args):len(e.Args)], k),
			Body: cpsBody(gen, e.Body, &VarExpr{Name: k}),
		}
	case *IfExpr, *CallExpr:
		panic(malformedf(expr, "serious expression in trivial position"))
	default:
		panic(malformed(expr))
	}
}

// cpsBody converts a function body so its final form delivers the value
// to k. A serious non-final form sequences the rest of the body through a
// throwaway continuation.
func cpsBody(gen *NameGen, body []Expr, k Expr) []Expr {
	var out []Expr
	for i, b := range body {
		switch {
		case i == len(body)-1:
			out = append(out, cpsSrs(gen, b, k))
		case isTrivial(b):
			out = append(out, cpsTriv(gen, b))
		default:
			v := gen.Fresh("v")
			rest := &FuncExpr{Args: []string{v}, Body: cpsBody(gen, body[i+1:], k)}
			return append(out, cpsSrs(gen, b, rest))
		}
	}
	return out
}

// cpsSrs converts expr so that it ultimately applies k to its result.
func cpsSrs(gen *NameGen, expr Expr, k Expr) Expr {
	if isTrivial(expr) {
		return &CallExpr{Func: k, Args: []Expr{cpsTriv(gen, expr)}}
	}
	switch e := expr.(type) {
	case *IfExpr:
		if isTrivial(e.Cond) {
			return &IfExpr{
				Cond: cpsTriv(gen, e.Cond),
				Then: cpsSrs(gen, e.Then, k),
				Else: cpsSrs(gen, e.Else, k),
			}
		}
		// reduce the test first, binding its value through a fresh
		// continuation
		v := gen.Fresh("v")
		rest := &IfExpr{Cond: &VarExpr{Name: v}, Then: e.Then, Else: e.Else}
		cont := &FuncExpr{Args: []string{v}, Body: []Expr{cpsSrs(gen, rest, k)}}
		return cpsSrs(gen, e.Cond, cont)
	case *CallExpr:
		if !isTrivial(e.Func) {
			v := gen.Fresh("v")
			rest := &CallExpr{Func: &VarExpr{Name: v}, Args: e.Args}
			cont := &FuncExpr{Args: []string{v}, Body: []Expr{cpsSrs(gen, rest, k)}}
			return cpsSrs(gen, e.Func, cont)
		}
		for i, a := range e.Args {
			if isTrivial(a) {
				continue
			}
			v := gen.Fresh("v")
			args := append([]Expr{}, e.Args...)
			args[i] = &VarExpr{Name: v}
			rest := &CallExpr{Func: e.Func, Args: args}
			cont := &FuncExpr{Args: []string{v}, Body: []Expr{cpsSrs(gen, rest, k)}}
			return cpsSrs(gen, a, cont)
		}
		// everything trivial: convert the pieces and add the
		// continuation argument
		args := make([]Expr, len(e.Args), len(e.Args)+1)
		for i := range e.Args {
			args[i] = cpsTriv(gen, e.Args[i])
		}
		return &CallExpr{Func: cpsTriv(gen, e.Func), Args: append(args, k)}
	case *PrimExpr:
		// a serious operand is reduced first, left to right
		for i, a := range e.Args {
			if isTrivial(a) {
				continue
			}
			v := gen.Fresh("v")
			args := append([]Expr{}, e.Args...)
			args[i] = &VarExpr{Name: v}
			rest := &PrimExpr{Op: e.Op, Args: args}
			cont := &FuncExpr{Args: []string{v}, Body: []Expr{cpsSrs(gen, rest, k)}}
			return cpsSrs(gen, a, cont)
		}
		panic(malformed(e))
	default:
		panic(malformed(expr))
	}
}
