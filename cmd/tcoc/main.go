package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kr/pretty"
	"github.com/peterh/liner"

	"github.com/magical/tco"
)

const historyFile = ".tcoc_history"

var verbose = flag.Bool("v", false, "dump the tree after each pass")

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  tcoc [-v] [file]        transform a definition and print the result
  tcoc [-v] run file n... transform, then call the definition with the
                          given numbers and an answer-printing continuation
  tcoc repl               interactive loop
`)
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "repl":
			os.Exit(repl())
		case "run":
			if len(args) < 2 {
				usage()
			}
			os.Exit(runFile(args[1], args[2:]))
		}
	}

	expr, err := parseArg(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcoc:", err)
		os.Exit(1)
	}
	gen := new(tco.NameGen)
	out, err := transform(gen, expr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcoc:", err)
		os.Exit(1)
	}
	fmt.Println(tco.Format(out))
}

func parseArg(args []string) (tco.Expr, error) {
	if len(args) == 0 {
		return tco.Read(os.Stdin)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tco.Read(f)
}

func transform(gen *tco.NameGen, expr tco.Expr) (tco.Expr, error) {
	if err := tco.Check(expr); err != nil {
		return nil, err
	}
	stages := []struct {
		name string
		run  func(tco.Expr) (tco.Expr, error)
	}{
		{"cps", func(e tco.Expr) (tco.Expr, error) { return tco.CpsConvert(gen, e) }},
		{"abstract-k", tco.AbstractK},
		{"thunkify", tco.Thunkify},
		{"tramp", func(e tco.Expr) (tco.Expr, error) { return tco.Tramp(gen, e) }},
	}
	for _, s := range stages {
		out, err := s.run(expr)
		if err != nil {
			return nil, err
		}
		if *verbose {
			fmt.Printf("-- after %s\n", s.name)
			pretty.Println(out)
		}
		expr = out
	}
	return expr, nil
}

func runFile(path string, argv []string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcoc:", err)
		return 1
	}
	expr, err := tco.Read(f)
	f.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcoc:", err)
		return 1
	}
	gen := new(tco.NameGen)
	out, err := transform(gen, expr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcoc:", err)
		return 1
	}
	fn, err := tco.Eval(out, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcoc:", err)
		return 1
	}
	args := make([]tco.Value, 0, len(argv)+1)
	for _, a := range argv {
		n, err := strconv.ParseFloat(a, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tcoc: bad argument %q: %v\n", a, err)
			return 1
		}
		args = append(args, n)
	}
	args = append(args, tco.NativeFunc(func(vs []tco.Value) tco.Value {
		return vs[0]
	}))
	v, err := tco.Apply(fn, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tcoc:", err)
		return 1
	}
	fmt.Println(v)
	return 0
}

func repl() int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("tcoc repl: enter a definition to transform it, :quit to exit")
	gen := new(tco.NameGen)
	for {
		src, err := line.Prompt("tco> ")
		if err == io.EOF || err == liner.ErrPromptAborted {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "tcoc:", err)
			return 1
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		line.AppendHistory(src)
		if src == ":quit" {
			return 0
		}
		expr, err := tco.ReadString(src)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		out, err := transform(gen, expr)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(tco.Format(out))
	}
}
