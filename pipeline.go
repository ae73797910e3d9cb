package tco

// pipeline.go strings the passes together in their required order. Each
// pass consumes the previous pass's output tree; none of them mutate
// their input.

// Transform runs the whole pipeline over a function definition: grammar
// check, CPS conversion, continuation abstraction, thunkification, and
// driver installation.
func Transform(gen *NameGen, expr Expr) (Expr, error) {
	if err := Check(expr); err != nil {
		return nil, err
	}
	out, err := CpsConvert(gen, expr)
	if err != nil {
		return nil, err
	}
	out, err = AbstractK(out)
	if err != nil {
		return nil, err
	}
	out, err = Thunkify(out)
	if err != nil {
		return nil, err
	}
	return Tramp(gen, out)
}
