package tco

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// eval.go is a small host evaluator for trees produced by the pipeline,
// enough to actually run transformed programs: numbers, booleans,
// closures, host functions, and the thunk values the driver forces.

// Value is a runtime value: float64, bool, *closureValue, NativeFunc, or
// *thunkValue.
type Value interface{}

// NativeFunc is a host function callable from evaluated code. The final
// continuation handed to a transformed program is usually one of these.
type NativeFunc func(args []Value) Value

type closureValue struct {
	fn  *FuncExpr
	env *environment
}

type thunkValue struct {
	body Expr
	env  *environment
}

func (t *thunkValue) force() Value {
	return eval(t.env, t.body)
}

type environment struct {
	vars   map[string]Value
	parent *environment
}

func newEnv(parent *environment) *environment {
	return &environment{vars: make(map[string]Value), parent: parent}
}

func (e *environment) lookup(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (e *environment) define(name string, v Value) {
	e.vars[name] = v
}

type evalError struct {
	msg string
}

func (e *evalError) Error() string {
	return e.msg
}

func evalErrorf(format string, args ...interface{}) *evalError {
	return &evalError{msg: fmt.Sprintf(format, args...)}
}

// Eval evaluates expr in an environment holding the given global
// bindings.
func Eval(expr Expr, globals map[string]Value) (v Value, err error) {
	defer recoverEval(&err)
	env := newEnv(nil)
	for n, gv := range globals {
		env.define(n, gv)
	}
	return eval(env, expr), nil
}

// Apply calls a function value obtained from Eval.
func Apply(fn Value, args []Value) (v Value, err error) {
	defer recoverEval(&err)
	return apply(fn, args), nil
}

func recoverEval(err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch e := r.(type) {
	case *evalError:
		*err = errors.Wrap(e, "eval")
	case *MalformedError:
		*err = errors.Wrap(e, "eval")
	default:
		panic(r)
	}
}

func eval(env *environment, expr Expr) Value {
	switch e := expr.(type) {
	case *BoolExpr:
		return e.Value
	case *NumExpr:
		return e.Value
	case *VarExpr:
		v, ok := env.lookup(e.Name)
		if !ok {
			panic(evalErrorf("unbound variable %q", e.Name))
		}
		return v
	case *ContExpr:
		v, ok := env.lookup(e.Name)
		if !ok {
			panic(evalErrorf("unbound continuation %q", e.Name))
		}
		return v
	case *IfExpr:
		c, ok := eval(env, e.Cond).(bool)
		if !ok {
			panic(evalErrorf("if condition must be a boolean"))
		}
		if c {
			return eval(env, e.Then)
		}
		return eval(env, e.Else)
	case *PrimExpr:
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			args[i] = eval(env, a)
		}
		return applyPrim(e.Op, args)
	case *CallExpr:
		fn := eval(env, e.Func)
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			args[i] = eval(env, a)
		}
		return apply(fn, args)
	case *FuncExpr:
		if e.Name == "" {
			return &closureValue{fn: e, env: env}
		}
		// bind the function's own name for self-reference
		inner := newEnv(env)
		c := &closureValue{fn: e, env: inner}
		inner.define(e.Name, c)
		return c
	case *AppContExpr:
		k := eval(env, e.Cont)
		return apply(k, []Value{eval(env, e.Val)})
	case *ThunkExpr:
		return &thunkValue{body: e.Body, env: env}
	case *TrampExpr:
		return evalTramp(env, e)
	default:
		panic(malformed(expr))
	}
}

// evalTramp runs a driver-installed body: define the helper, wrap the
// caller's continuation so it raises the completion flag, make the
// initial call, and drive the result. The flag is created here, once per
// activation.
func evalTramp(env *environment, e *TrampExpr) Value {
	flag := new(doneFlag)
	inner := newEnv(env)
	inner.define(e.Helper.Name, eval(inner, e.Helper))
	fn := eval(inner, e.Call.Func)
	args := make([]Value, len(e.Call.Args))
	for i, a := range e.Call.Args {
		args[i] = eval(inner, a)
	}
	n := len(args)
	if n == 0 {
		panic(evalErrorf("trampolined function has no continuation parameter"))
	}
	k := args[n-1]
	args[n-1] = NativeFunc(func(kargs []Value) Value {
		flag.set()
		return apply(k, kargs)
	})
	var d Driver
	return d.Run(apply(fn, args), flag)
}

func apply(fn Value, args []Value) Value {
	switch f := fn.(type) {
	case *closureValue:
		if len(args) != len(f.fn.Args) {
			panic(evalErrorf("arity mismatch: function takes %d arguments, got %d",
				len(f.fn.Args), len(args)))
		}
		env := newEnv(f.env)
		for i, p := range f.fn.Args {
			env.define(p, args[i])
		}
		var v Value
		for _, b := range f.fn.Body {
			v = eval(env, b)
		}
		return v
	case NativeFunc:
		return f(args)
	default:
		panic(evalErrorf("cannot call non-function %v", fn))
	}
}

func applyPrim(op string, args []Value) Value {
	n, ok := primArity[op]
	if !ok {
		panic(evalErrorf("unknown primitive %q", op))
	}
	if len(args) != n {
		panic(evalErrorf("%s takes %d operands, got %d", op, n, len(args)))
	}
	switch op {
	case "zero?":
		return num(args[0]) == 0
	case "inc":
		return num(args[0]) + 1
	case "dec":
		return num(args[0]) - 1
	}
	a, b := num(args[0]), num(args[1])
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	case "mod":
		return math.Mod(a, b)
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	case "=":
		return a == b
	}
	panic(evalErrorf("unknown primitive %q", op))
}

func num(v Value) float64 {
	n, ok := v.(float64)
	if !ok {
		panic(evalErrorf("number required, got %v", v))
	}
	return n
}
