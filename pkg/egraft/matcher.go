package egraft

import (
	"sort"
	"strings"
)

// Subst maps a pattern variable name to the class id it is bound to.
// Re-resolve bound ids through EGraph.Find before comparing them —
// a Subst produced by one SearchPattern call is only meaningful against
// the e-graph state it was produced from.
type Subst map[string]Id

func (s Subst) clone() Subst {
	c := make(Subst, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Match pairs a matched root class with the substitution that witnesses
// the pattern's presence there.
type Match struct {
	Class Id
	Subst Subst
}

// SearchPattern enumerates every (class, substitution) pair witnessing
// pattern's presence in g, per spec §4.G. It materializes the full
// result set rather than streaming it (spec §9: "the contract only
// requires the finite set, not lazy streaming"), using an explicit
// recursive descent over the pattern tree rather than coroutines.
func SearchPattern[D any](g *EGraph[D], pattern Pattern) []Match {
	var matches []Match
	for _, root := range g.Classes() {
		for _, s := range matchAtClass(g, pattern, root, Subst{}) {
			matches = append(matches, Match{Class: root, Subst: s})
		}
	}
	return dedupMatches(matches)
}

// matchAtClass returns every extension of bindings under which pattern
// matches some e-node of class (or, for a variable pattern, class
// itself).
func matchAtClass[D any](g *EGraph[D], pattern Pattern, class Id, bindings Subst) []Subst {
	class = g.Find(class)

	if pattern.IsVar() {
		if bound, ok := bindings[pattern.Var]; ok {
			if g.Find(bound) != class {
				return nil
			}
			return []Subst{bindings}
		}
		next := bindings.clone()
		next[pattern.Var] = class
		return []Subst{next}
	}

	var out []Subst
	for _, n := range g.Class(class).Nodes {
		if !n.Op.Equal(pattern.Op) || len(n.Children) != len(pattern.Children) {
			continue
		}
		out = append(out, matchChildren(g, pattern.Children, n.Children, bindings)...)
	}
	return out
}

// matchChildren matches a sequence of child patterns against a sequence
// of child classes, carrying the growing substitution across siblings
// (so a later sibling sees an earlier sibling's variable bindings) and
// returning the cross product of all consistent extensions.
func matchChildren[D any](g *EGraph[D], pats []Pattern, children []Id, bindings Subst) []Subst {
	if len(pats) == 0 {
		return []Subst{bindings}
	}
	heads := matchAtClass(g, pats[0], children[0], bindings)
	var out []Subst
	for _, h := range heads {
		out = append(out, matchChildren(g, pats[1:], children[1:], h)...)
	}
	return out
}

// dedupMatches removes duplicate (class, substitution) pairs. Ordering
// among the survivors is stable within a run but otherwise unspecified,
// per spec §4.G.
func dedupMatches(matches []Match) []Match {
	seen := make(map[string]bool, len(matches))
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		k := matchKey(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m)
	}
	return out
}

func matchKey(m Match) string {
	vars := make([]string, 0, len(m.Subst))
	for v := range m.Subst {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	var b strings.Builder
	b.WriteString(m.Class.String())
	for _, v := range vars {
		b.WriteByte('|')
		b.WriteString(v)
		b.WriteByte('=')
		b.WriteString(m.Subst[v].String())
	}
	return b.String()
}
