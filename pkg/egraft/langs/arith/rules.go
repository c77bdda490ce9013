package arith

import (
	"math"
	"strings"

	"github.com/wayneeseguin/egraft/pkg/egraft"
	"github.com/wayneeseguin/egraft/pkg/egraft/parser"
)

// mustParsePattern parses a pattern literal, panicking on failure. Rule
// patterns below are fixed string literals, so a parse failure can only
// be a programming error in this file — mirrors the teacher's
// MustParseCursor convention (benchmark_memory_test.go) for "this had
// better parse" literals.
func mustParsePattern(text string) egraft.Pattern {
	pat, err := parser.ReadPattern(Language{}, text)
	if err != nil {
		panic(err)
	}
	return pat
}

func rw(name, lhs, rhs string) *egraft.Rewrite[Meta] {
	return egraft.NewRewrite[Meta](name, mustParsePattern(lhs), mustParsePattern(rhs))
}

// mustIsNotZero builds a condition equivalent to original_source/tests/math.rs's
// is_not_zero("?var"): the rule only fires when ?var is not already known
// to be the literal constant zero. It is expressed as an ExprCondition
// (spec §4.H.1) over a numeric lookup that reports the class's folded
// constant when known, or NaN otherwise — NaN compares unequal to 0 in
// govaluate the same way an "unknown" value should not block the rule.
func mustIsNotZero(varName string) egraft.Condition[Meta] {
	param := strings.TrimPrefix(varName, "?")
	cond, err := egraft.NewExprCondition[Meta](param+" != 0", func(g *egraft.EGraph[Meta], id egraft.Id) float64 {
		data := g.Class(id).Data
		if len(data.Best.Nodes) == 0 {
			return math.NaN()
		}
		root := data.Best.Nodes[data.Best.Root()]
		if len(root.Children) != 0 {
			return math.NaN()
		}
		op, ok := root.Op.(Op)
		if !ok || op.Kind != Num {
			return math.NaN()
		}
		return op.Num
	})
	if err != nil {
		panic(err)
	}
	return cond.Condition()
}

// dConstant is original_source/tests/math.rs's c_is_const_or_var_and_not_x:
// "?c" is a known Num-or-Sym leaf and is not the same class as "?x".
func dConstant(g *egraft.EGraph[Meta], root egraft.Id, subst egraft.Subst) bool {
	c, x := subst["?c"], subst["?x"]
	isConstOrVar := false
	for _, n := range g.Class(c).Nodes {
		if op, ok := n.Op.(Op); ok && len(n.Children) == 0 && (op.Kind == Num || op.Kind == Sym) {
			isConstOrVar = true
			break
		}
	}
	return isConstOrVar && g.Find(x) != g.Find(c)
}

// Rules returns the full arithmetic + differentiation ruleset, grounded
// verbatim in content on original_source/tests/math.rs's rules().
func Rules() []*egraft.Rewrite[Meta] {
	return []*egraft.Rewrite[Meta]{
		rw("comm-add", "(+ ?a ?b)", "(+ ?b ?a)"),
		rw("comm-mul", "(* ?a ?b)", "(* ?b ?a)"),
		rw("assoc-add", "(+ ?a (+ ?b ?c))", "(+ (+ ?a ?b) ?c)"),
		rw("assoc-mul", "(* ?a (* ?b ?c))", "(* (* ?a ?b) ?c)"),

		rw("sub-canon", "(- ?a ?b)", "(+ ?a (* -1 ?b))"),
		rw("div-canon", "(/ ?a ?b)", "(* ?a (pow ?b -1))"),
		rw("canon-sub", "(+ ?a (* -1 ?b))", "(- ?a ?b)"),

		rw("zero-add", "(+ ?a 0)", "?a"),
		rw("zero-mul", "(* ?a 0)", "0"),
		rw("one-mul", "(* ?a 1)", "?a"),

		rw("add-zero", "?a", "(+ ?a 0)"),
		rw("mul-one", "?a", "(* ?a 1)"),

		rw("cancel-sub", "(- ?a ?a)", "0"),
		rw("cancel-div", "(/ ?a ?a)", "1"),

		rw("distribute", "(* ?a (+ ?b ?c))", "(+ (* ?a ?b) (* ?a ?c))"),
		rw("factor", "(+ (* ?a ?b) (* ?a ?c))", "(* ?a (+ ?b ?c))"),

		rw("pow-intro", "?a", "(pow ?a 1)"),
		rw("pow-mul", "(* (pow ?a ?b) (pow ?a ?c))", "(pow ?a (+ ?b ?c))"),
		rw("pow0", "(pow ?x 0)", "1"),
		rw("pow1", "(pow ?x 1)", "?x"),
		rw("pow2", "(pow ?x 2)", "(* ?x ?x)"),
		rw("pow-recip", "(pow ?x -1)", "(/ 1 ?x)").If(mustIsNotZero("?x")),

		rw("d-variable", "(d ?x ?x)", "1"),
		rw("d-constant", "(d ?x ?c)", "0").If(dConstant),

		rw("d-add", "(d ?x (+ ?a ?b))", "(+ (d ?x ?a) (d ?x ?b))"),
		rw("d-mul", "(d ?x (* ?a ?b))", "(+ (* ?a (d ?x ?b)) (* ?b (d ?x ?a)))"),

		rw("d-power",
			"(d ?x (pow ?f ?g))",
			"(* (pow ?f ?g) (+ (* (d ?x ?f) (/ ?g ?f)) (* (d ?x ?g) (log ?f))))",
		).If(mustIsNotZero("?f")),
	}
}

// AssocRules returns just the commutativity/associativity pair used by
// the §8 S3 scenario, grounded on math_associate_adds's rule subset.
func AssocRules() []*egraft.Rewrite[Meta] {
	return []*egraft.Rewrite[Meta]{
		rw("comm-add", "(+ ?a ?b)", "(+ ?b ?a)"),
		rw("assoc-add", "(+ ?a (+ ?b ?c))", "(+ (+ ?a ?b) ?c)"),
	}
}
