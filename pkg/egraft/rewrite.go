package egraft

import (
	"strings"

	"github.com/Knetic/govaluate"
)

// Searcher produces match sets against an e-graph. The standard
// implementation (PatternSearcher) runs SearchPattern over a compiled
// LHS pattern; spec §4.H allows any other producer of (root, subst)
// pairs to be substituted in.
type Searcher[D any] interface {
	Search(g *EGraph[D]) []Match
}

// Applier instantiates and applies a rewrite's right-hand side for one
// match. It must call g.Add/g.Union itself and return the class ids it
// unioned — per spec §4.H's applier contract, this is strictly additive,
// never a net loss of equalities.
type Applier[D any] interface {
	Apply(g *EGraph[D], root Id, subst Subst) []Id
}

// Condition gates whether a match is applicable (spec §4.G's
// "conditional applicability"). It may inspect the e-graph freely but
// must not mutate it.
type Condition[D any] func(g *EGraph[D], root Id, subst Subst) bool

// Rewrite is one named rule: a searcher, an applier, and an optional
// condition. Grounded on original_source/tests/math.rs's rw! macro shape
// (name, LHS pattern, RHS pattern, optional "if cond").
type Rewrite[D any] struct {
	Name      string
	Searcher  Searcher[D]
	Applier   Applier[D]
	Condition Condition[D]
}

// NewRewrite builds the common case: a plain pattern-to-pattern rule.
func NewRewrite[D any](name string, lhs, rhs Pattern) *Rewrite[D] {
	return &Rewrite[D]{
		Name:     name,
		Searcher: PatternSearcher[D]{Pattern: lhs},
		Applier:  PatternApplier[D]{Pattern: rhs},
	}
}

// If attaches a condition and returns the rewrite for chaining.
func (r *Rewrite[D]) If(cond Condition[D]) *Rewrite[D] {
	r.Condition = cond
	return r
}

// Search runs the searcher and drops matches the condition rejects.
func (r *Rewrite[D]) Search(g *EGraph[D]) []Match {
	matches := r.Searcher.Search(g)
	if r.Condition == nil {
		return matches
	}
	kept := matches[:0]
	for _, m := range matches {
		if r.Condition(g, m.Class, m.Subst) {
			kept = append(kept, m)
		}
	}
	return kept
}

// Apply runs the applier for one already-searched match.
func (r *Rewrite[D]) Apply(g *EGraph[D], m Match) []Id {
	return r.Applier.Apply(g, m.Class, m.Subst)
}

// PatternSearcher is the standard Searcher: enumerate matches of a
// compiled LHS pattern.
type PatternSearcher[D any] struct {
	Pattern Pattern
}

func (s PatternSearcher[D]) Search(g *EGraph[D]) []Match {
	return SearchPattern(g, s.Pattern)
}

// PatternApplier is the standard Applier: instantiate the RHS pattern
// under the match's substitution and union the result with the matched
// root.
type PatternApplier[D any] struct {
	Pattern Pattern
}

func (a PatternApplier[D]) Apply(g *EGraph[D], root Id, subst Subst) []Id {
	rhs := instantiate(g, a.Pattern, subst)
	if merged, unioned := g.Union(root, rhs); unioned {
		return []Id{merged}
	}
	return nil
}

func instantiate[D any](g *EGraph[D], p Pattern, subst Subst) Id {
	if p.IsVar() {
		return subst[p.Var]
	}
	children := make([]Id, len(p.Children))
	for i, c := range p.Children {
		children[i] = instantiate(g, c, subst)
	}
	return g.Add(ENode{Op: p.Op, Children: children})
}

// ExprCondition gates a match with a govaluate boolean expression over
// the pattern's variables, rather than a hand-written Go closure.
// Grounded on the teacher's (( calc ... )) operator
// (pkg/graft/operators/op_calc.go), which embeds the same library to
// evaluate user-supplied arithmetic text.
type ExprCondition[D any] struct {
	expr    *govaluate.EvaluableExpression
	numeric func(g *EGraph[D], id Id) float64
}

// NewExprCondition compiles expr once. numeric supplies the float64 view
// of a matched class used to populate the expression's parameters — a
// pattern variable "?b" becomes parameter "b".
func NewExprCondition[D any](expr string, numeric func(g *EGraph[D], id Id) float64) (*ExprCondition[D], error) {
	compiled, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, err
	}
	return &ExprCondition[D]{expr: compiled, numeric: numeric}, nil
}

// Condition returns the Condition func bound to this compiled expression.
func (c *ExprCondition[D]) Condition() Condition[D] {
	return func(g *EGraph[D], _ Id, subst Subst) bool {
		params := make(map[string]interface{}, len(subst))
		for name, id := range subst {
			params[strings.TrimPrefix(name, "?")] = c.numeric(g, id)
		}
		result, err := c.expr.Evaluate(params)
		if err != nil {
			return false
		}
		ok, isBool := result.(bool)
		return isBool && ok
	}
}
