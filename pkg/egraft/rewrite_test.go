package egraft

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRewriteApply(t *testing.T) {
	Convey("Rewrite", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		l2 := g.Add(ENode{Op: leafOp(2)})
		n := g.Add(ENode{Op: binOp(0), Children: []Id{l1, l2}})

		Convey("a pattern-to-pattern rewrite unions LHS and RHS witnesses", func() {
			rule := NewRewrite[struct{}]("swap",
				PatternNode(binOp(0), PatternVar("?a"), PatternVar("?b")),
				PatternNode(binOp(0), PatternVar("?b"), PatternVar("?a")),
			)
			matches := rule.Search(g)
			So(len(matches), ShouldEqual, 1)

			unioned := rule.Apply(g, matches[0])
			So(len(unioned), ShouldBeGreaterThan, 0)
			g.Rebuild()

			swapped := g.Add(ENode{Op: binOp(0), Children: []Id{l2, l1}})
			So(g.Find(n), ShouldEqual, g.Find(swapped))
		})

		Convey("a condition suppresses matches it rejects", func() {
			rejectAll := func(*EGraph[struct{}], Id, Subst) bool { return false }
			rule := NewRewrite[struct{}]("never",
				PatternNode(binOp(0), PatternVar("?a"), PatternVar("?b")),
				PatternVar("?a"),
			).If(rejectAll)

			So(len(rule.Search(g)), ShouldEqual, 0)
		})

		Convey("ExprCondition gates on a numeric view of the bound classes", func() {
			numeric := func(g *EGraph[struct{}], id Id) float64 {
				n := g.Class(id).Nodes[0]
				op := n.Op.(toyOpT)
				return float64(op.Tag)
			}
			cond, err := NewExprCondition[struct{}]("a < b", numeric)
			So(err, ShouldBeNil)

			rule := NewRewrite[struct{}]("ordered",
				PatternNode(binOp(0), PatternVar("?a"), PatternVar("?b")),
				PatternVar("?a"),
			).If(cond.Condition())

			matches := rule.Search(g)
			So(len(matches), ShouldEqual, 1) // tag(l1)=1 < tag(l2)=2

			g2 := newToyGraph()
			hi := g2.Add(ENode{Op: leafOp(5)})
			lo := g2.Add(ENode{Op: leafOp(0)})
			g2.Add(ENode{Op: binOp(0), Children: []Id{hi, lo}})
			So(len(rule.Search(g2)), ShouldEqual, 0) // tag(hi)=5 < tag(lo)=0 is false
		})
	})
}
