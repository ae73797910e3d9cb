package tco

// format.go converts an expression tree back to concrete syntax. The
// stage-introduced variants get s-expression spellings of their own so
// intermediate trees can be printed too.

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

type formatter struct {
	buf bytes.Buffer
}

// Format renders expr as s-expression source.
func Format(expr Expr) string {
	var f formatter
	f.visitExpr(expr)
	return f.buf.String()
}

func (f *formatter) write(s string) {
	f.buf.WriteString(s)
}

func (f *formatter) visitExpr(e Expr) {
	switch e := e.(type) {
	case *BoolExpr:
		f.write(strconv.FormatBool(e.Value))
	case *NumExpr:
		f.write(strconv.FormatFloat(e.Value, 'g', -1, 64))
	case *VarExpr:
		f.write(e.Name)
	case *ContExpr:
		f.write(e.Name)
	case *IfExpr:
		f.write("(if ")
		f.visitExpr(e.Cond)
		f.write(" ")
		f.visitExpr(e.Then)
		f.write(" ")
		f.visitExpr(e.Else)
		f.write(")")
	case *PrimExpr:
		f.write("(" + e.Op)
		f.visitAll(e.Args)
		f.write(")")
	case *CallExpr:
		f.write("(")
		f.visitExpr(e.Func)
		f.visitAll(e.Args)
		f.write(")")
	case *FuncExpr:
		f.write("(fn ")
		if e.Name != "" {
			f.write(e.Name + " ")
		}
		f.write("(" + strings.Join(e.Args, " ") + ")")
		f.visitAll(e.Body)
		f.write(")")
	case *AppContExpr:
		f.write("(")
		f.visitExpr(e.Cont)
		f.write(" ")
		f.visitExpr(e.Val)
		f.write(")")
	case *ThunkExpr:
		f.write("(thunk ")
		f.visitExpr(e.Body)
		f.write(")")
	case *TrampExpr:
		f.write("(tramp " + e.Flag + " ")
		f.visitExpr(e.Helper)
		f.write(" ")
		f.visitExpr(e.Call)
		f.write(")")
	default:
		// keep rendering total; this also runs while reporting a
		// malformed node
		f.write(fmt.Sprintf("#<%T>", e))
	}
}

func (f *formatter) visitAll(es []Expr) {
	for _, e := range es {
		f.write(" ")
		f.visitExpr(e)
	}
}
