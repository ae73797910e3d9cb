package tco

import "reflect"

// expr.go defines the expression tree that every pass rewrites.
// The variant set is closed: each node type carries the marker method,
// and passes dispatch with a type switch whose default arm reports the
// offending node as malformed.

type Expr interface {
	exprNode()
}

// The two literal forms.
type BoolExpr struct {
	Value bool
}

type NumExpr struct {
	Value float64
}

type VarExpr struct {
	Name string
}

type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

// PrimExpr applies one of the fixed primitive operators to its operands.
// The operator is a token, not an expression; it is never renamed or
// substituted.
type PrimExpr struct {
	Op   string
	Args []Expr
}

// CallExpr is a general application of an operator expression.
type CallExpr struct {
	Func Expr
	Args []Expr
}

// FuncExpr is a function of one or more body forms; the last form
// produces the value. A non-empty Name is bound inside the body so the
// function can call itself.
type FuncExpr struct {
	Name string
	Args []string
	Body []Expr
}

// ContExpr and AppContExpr are introduced by continuation abstraction:
// ContExpr names a continuation value, AppContExpr delivers the value of
// Val to it.
type ContExpr struct {
	Name string
}

type AppContExpr struct {
	Cont Expr
	Val  Expr
}

// ThunkExpr is a zero-argument suspension introduced by thunkification.
type ThunkExpr struct {
	Body Expr
}

// TrampExpr installs the driver loop around a lifted helper definition.
// Flag names the completion flag, created anew for each activation.
type TrampExpr struct {
	Flag   string
	Helper *FuncExpr
	Call   *CallExpr
}

func (*BoolExpr) exprNode()    {}
func (*NumExpr) exprNode()     {}
func (*VarExpr) exprNode()     {}
func (*IfExpr) exprNode()      {}
func (*PrimExpr) exprNode()    {}
func (*CallExpr) exprNode()    {}
func (*FuncExpr) exprNode()    {}
func (*ContExpr) exprNode()    {}
func (*AppContExpr) exprNode() {}
func (*ThunkExpr) exprNode()   {}
func (*TrampExpr) exprNode()   {}

// primArity is the closed primitive operator set and the operand count
// each operator takes.
var primArity = map[string]int{
	"+": 2, "-": 2, "*": 2, "/": 2, "mod": 2,
	"<": 2, "<=": 2, ">": 2, ">=": 2, "=": 2,
	"zero?": 1, "inc": 1, "dec": 1,
}

func isPrimOp(op string) bool {
	_, ok := primArity[op]
	return ok
}

// Equal reports structural equality of two trees.
func Equal(a, b Expr) bool {
	return reflect.DeepEqual(a, b)
}

// mapChildren applies f to every immediate child of expr and rebuilds a
// node of the same variant around the results, leaving variant-specific
// fields (names, operator tokens) untouched. Each pass implements only
// the variants it treats specially and hands the rest here.
func mapChildren(expr Expr, f func(Expr) Expr) Expr {
	switch e := expr.(type) {
	case *BoolExpr, *NumExpr, *VarExpr, *ContExpr:
		return expr
	case *IfExpr:
		return &IfExpr{Cond: f(e.Cond), Then: f(e.Then), Else: f(e.Else)}
	case *PrimExpr:
		return &PrimExpr{Op: e.Op, Args: mapExprs(e.Args, f)}
	case *CallExpr:
		return &CallExpr{Func: f(e.Func), Args: mapExprs(e.Args, f)}
	case *FuncExpr:
		return &FuncExpr{Name: e.Name, Args: e.Args, Body: mapExprs(e.Body, f)}
	case *AppContExpr:
		return &AppContExpr{Cont: f(e.Cont), Val: f(e.Val)}
	case *ThunkExpr:
		return &ThunkExpr{Body: f(e.Body)}
	case *TrampExpr:
		return &TrampExpr{
			Flag:   e.Flag,
			Helper: f(e.Helper).(*FuncExpr),
			Call:   f(e.Call).(*CallExpr),
		}
	default:
		panic(malformed(expr))
	}
}

func mapExprs(es []Expr, f func(Expr) Expr) []Expr {
	out := make([]Expr, len(es))
	for i := range es {
		out[i] = f(es[i])
	}
	return out
}
