package tco

import (
	"fmt"

	"github.com/pkg/errors"
)

// MalformedError reports an expression outside the closed grammar, or a
// node whose required sub-forms are missing. It carries the offending
// subtree for diagnostics.
type MalformedError struct {
	Expr   Expr
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Expr == nil {
		return "malformed expression: " + e.Reason
	}
	return fmt.Sprintf("malformed expression: %s: %s", e.Reason, Format(e.Expr))
}

func malformed(expr Expr) *MalformedError {
	return &MalformedError{Expr: expr, Reason: fmt.Sprintf("unhandled case: %T", expr)}
}

func malformedf(expr Expr, format string, args ...interface{}) *MalformedError {
	return &MalformedError{Expr: expr, Reason: fmt.Sprintf(format, args...)}
}

// capture runs f, converting a MalformedError panic from one of the
// visitors into an ordinary error return. Anything else keeps unwinding.
func capture(stage string, f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m, ok := r.(*MalformedError)
			if !ok {
				panic(r)
			}
			err = errors.Wrap(m, stage)
		}
	}()
	f()
	return nil
}
