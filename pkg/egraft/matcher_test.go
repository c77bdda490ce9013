package egraft

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSearchPattern(t *testing.T) {
	Convey("SearchPattern", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		l2 := g.Add(ENode{Op: leafOp(2)})
		n := g.Add(ENode{Op: binOp(0), Children: []Id{l1, l2}})

		Convey("an operator pattern matches the class with that shape", func() {
			pat := PatternNode(binOp(0), PatternVar("?a"), PatternVar("?b"))
			matches := SearchPattern(g, pat)
			So(len(matches), ShouldEqual, 1)
			So(matches[0].Class, ShouldEqual, g.Find(n))
			So(matches[0].Subst["?a"], ShouldEqual, g.Find(l1))
			So(matches[0].Subst["?b"], ShouldEqual, g.Find(l2))
		})

		Convey("a bare variable pattern matches every class", func() {
			matches := SearchPattern(g, PatternVar("?x"))
			So(len(matches), ShouldEqual, g.NumberOfClasses())
		})

		Convey("a non-linear pattern only matches where both occurrences agree", func() {
			same := g.Add(ENode{Op: binOp(0), Children: []Id{l1, l1}})
			pat := PatternNode(binOp(0), PatternVar("?a"), PatternVar("?a"))
			matches := SearchPattern(g, pat)

			classes := map[Id]bool{}
			for _, m := range matches {
				classes[m.Class] = true
			}
			So(classes[g.Find(same)], ShouldBeTrue)
			So(classes[g.Find(n)], ShouldBeFalse)
		})

		Convey("matches are deduplicated after congruence merges two witnesses", func() {
			l3 := g.Add(ENode{Op: leafOp(3)})
			g.Union(l2, l3)
			g.Rebuild()
			n2 := g.Add(ENode{Op: binOp(0), Children: []Id{l1, l3}})
			So(g.Find(n2), ShouldEqual, g.Find(n))

			pat := PatternNode(binOp(0), PatternVar("?a"), PatternVar("?b"))
			matches := SearchPattern(g, pat)
			seen := map[string]int{}
			for _, m := range matches {
				seen[matchKey(m)]++
			}
			for _, count := range seen {
				So(count, ShouldEqual, 1)
			}
		})
	})
}
