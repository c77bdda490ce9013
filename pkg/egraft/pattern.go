package egraft

// Pattern is a compiled rewrite-rule left/right-hand side: an expression
// tree whose leaves are either operator-literal shapes or pattern
// variables (spec §4.F). A variable may reoccur (non-linear), in which
// case every occurrence must bind to the same class.
type Pattern struct {
	// Var is non-empty for a variable node ("?a"); Op/Children are
	// unused in that case.
	Var string
	// Op and Children describe an operator-shaped node when Var=="".
	Op       Op
	Children []Pattern
}

// PatternVar builds a variable pattern node.
func PatternVar(name string) Pattern {
	return Pattern{Var: name}
}

// PatternNode builds an operator-shaped pattern node.
func PatternNode(op Op, children ...Pattern) Pattern {
	return Pattern{Op: op, Children: children}
}

// IsVar reports whether this pattern node is a variable.
func (p Pattern) IsVar() bool { return p.Var != "" }

// Vars returns the distinct variable names appearing in the pattern, in
// first-occurrence order.
func (p Pattern) Vars() []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		if p.IsVar() {
			if !seen[p.Var] {
				seen[p.Var] = true
				out = append(out, p.Var)
			}
			return
		}
		for _, c := range p.Children {
			walk(c)
		}
	}
	walk(p)
	return out
}
