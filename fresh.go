package tco

import "strconv"

// NameGen hands out names unused for the lifetime of a run. It is passed
// explicitly to every pass that introduces bindings rather than living in
// a package variable, so runs stay deterministic and tests can reset it.
// Passes seed it with the names of their input tree, so a generated name
// never collides with a name the program already uses.
type NameGen struct {
	n    int64
	used nameSet
}

// Avoid marks every name occurring in expr, bound or free, as taken.
func (g *NameGen) Avoid(expr Expr) {
	if g.used == nil {
		g.used = make(nameSet)
	}
	allNames(g.used, expr)
}

// Fresh returns hint suffixed with a counter value, skipping taken names.
// The returned name is itself recorded as taken.
func (g *NameGen) Fresh(hint string) string {
	if g.used == nil {
		g.used = make(nameSet)
	}
	for {
		g.n++
		name := hint + strconv.FormatInt(g.n, 10)
		if !g.used[name] {
			g.used[name] = true
			return name
		}
	}
}

// Reset rewinds the counter and forgets taken names for reproducible
// runs.
func (g *NameGen) Reset() {
	g.n = 0
	g.used = nil
}
