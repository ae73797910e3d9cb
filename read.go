package tco

// read.go parses s-expression concrete syntax into an expression tree.
// The reader is a front-end collaborator of the transform passes, not
// part of them.
//
//	(fn count-down (x) (if (zero? x) x (count-down (dec x))))

import (
	"io"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/pkg/errors"
)

type reader struct {
	s scanner.Scanner

	tok    rune
	scnerr error
}

// Read parses a single expression from r.
func Read(r io.Reader) (Expr, error) {
	rd := new(reader)
	rd.init(r)
	expr, err := rd.readExpr()
	if err != nil {
		return nil, err
	}
	if rd.tok != scanner.EOF {
		return nil, rd.errorf("trailing input after expression")
	}
	return expr, nil
}

// ReadString parses a single expression from src.
func ReadString(src string) (Expr, error) {
	return Read(strings.NewReader(src))
}

func (r *reader) init(src io.Reader) {
	r.s.Init(src)
	r.s.Mode = scanner.ScanIdents
	r.s.IsIdentRune = isSymbolRune
	r.s.Error = func(_ *scanner.Scanner, msg string) {
		if r.scnerr == nil {
			r.scnerr = errors.New(msg)
		}
	}
	r.next()
}

// every token except parentheses is a symbol; numbers are told apart
// when the atom is built
func isSymbolRune(ch rune, i int) bool {
	switch ch {
	case '+', '-', '*', '/', '<', '>', '=', '?', '!', '_':
		return true
	case '.':
		return i > 0
	}
	return unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func (r *reader) next() {
	r.tok = r.s.Scan()
	for r.tok == ';' {
		// comment runs to end of line
		line := r.s.Pos().Line
		for r.tok != scanner.EOF && r.s.Pos().Line == line {
			r.tok = r.s.Scan()
		}
	}
}

func (r *reader) errorf(format string, args ...interface{}) error {
	pos := r.s.Pos()
	return errors.Errorf("%d:%d: "+format, append([]interface{}{pos.Line, pos.Column}, args...)...)
}

func (r *reader) readExpr() (Expr, error) {
	if r.scnerr != nil {
		return nil, errors.Wrap(r.scnerr, "scan")
	}
	switch r.tok {
	case scanner.EOF:
		return nil, r.errorf("unexpected end of input")
	case '(':
		return r.readList()
	case ')':
		return nil, r.errorf("unexpected )")
	case scanner.Ident:
		text := r.s.TokenText()
		r.next()
		return atom(text), nil
	default:
		return nil, r.errorf("unexpected character %q", r.tok)
	}
}

func atom(text string) Expr {
	switch text {
	case "true":
		return &BoolExpr{Value: true}
	case "false":
		return &BoolExpr{Value: false}
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return &NumExpr{Value: n}
	}
	return &VarExpr{Name: text}
}

func (r *reader) readList() (Expr, error) {
	r.next() // consume (
	if r.tok == scanner.Ident {
		switch head := r.s.TokenText(); {
		case head == "if":
			r.next()
			return r.readIf()
		case head == "fn":
			r.next()
			return r.readFunc()
		case isPrimOp(head):
			r.next()
			args, err := r.readUntilClose()
			if err != nil {
				return nil, err
			}
			return &PrimExpr{Op: head, Args: args}, nil
		}
	}
	fn, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	args, err := r.readUntilClose()
	if err != nil {
		return nil, err
	}
	return &CallExpr{Func: fn, Args: args}, nil
}

func (r *reader) readIf() (Expr, error) {
	cond, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	then, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	els, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	if err := r.expect(')'); err != nil {
		return nil, err
	}
	return &IfExpr{Cond: cond, Then: then, Else: els}, nil
}

func (r *reader) readFunc() (Expr, error) {
	name := ""
	if r.tok == scanner.Ident {
		name = r.s.TokenText()
		r.next()
	}
	if r.tok != '(' {
		return nil, r.errorf("expected parameter list")
	}
	r.next()
	var params []string
	for r.tok == scanner.Ident {
		params = append(params, r.s.TokenText())
		r.next()
	}
	if err := r.expect(')'); err != nil {
		return nil, err
	}
	body, err := r.readUntilClose()
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, r.errorf("function has no body")
	}
	return &FuncExpr{Name: name, Args: params, Body: body}, nil
}

func (r *reader) readUntilClose() ([]Expr, error) {
	var out []Expr
	for r.tok != ')' {
		if r.tok == scanner.EOF {
			return nil, r.errorf("unexpected end of input, expected )")
		}
		e, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	r.next() // consume )
	return out, nil
}

func (r *reader) expect(tok rune) error {
	if r.tok != tok {
		return r.errorf("expected %q", tok)
	}
	r.next()
	return nil
}
