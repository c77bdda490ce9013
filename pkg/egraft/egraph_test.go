package egraft

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAddHashconsing(t *testing.T) {
	Convey("Add", t, func() {
		Convey("returns the same id for structurally identical e-nodes", func() {
			g := newToyGraph()
			a := g.Add(ENode{Op: leafOp(1)})
			b := g.Add(ENode{Op: leafOp(1)})
			So(a, ShouldEqual, b)
			So(g.NumberOfClasses(), ShouldEqual, 1)
		})

		Convey("distinguishes e-nodes by op payload and by children", func() {
			g := newToyGraph()
			l1 := g.Add(ENode{Op: leafOp(1)})
			l2 := g.Add(ENode{Op: leafOp(2)})
			So(l1, ShouldNotEqual, l2)

			n1 := g.Add(ENode{Op: binOp(0), Children: []Id{l1, l2}})
			n2 := g.Add(ENode{Op: binOp(0), Children: []Id{l2, l1}})
			So(n1, ShouldNotEqual, n2)
		})

		Convey("panics on an arity mismatch", func() {
			g := newToyGraph()
			l1 := g.Add(ENode{Op: leafOp(1)})
			So(func() { g.Add(ENode{Op: binOp(0), Children: []Id{l1}}) }, ShouldPanic)
		})
	})
}

func TestUnionAndFind(t *testing.T) {
	Convey("Union", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		l2 := g.Add(ENode{Op: leafOp(2)})

		Convey("merges two distinct classes and Find agrees afterward", func() {
			_, merged := g.Union(l1, l2)
			So(merged, ShouldBeTrue)
			So(g.Find(l1), ShouldEqual, g.Find(l2))
		})

		Convey("reports no merge for an already-unified pair", func() {
			g.Union(l1, l2)
			_, merged := g.Union(l1, l2)
			So(merged, ShouldBeFalse)
		})
	})
}

func TestRebuildCongruenceClosure(t *testing.T) {
	Convey("Rebuild restores congruence after a union of children", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		l2 := g.Add(ENode{Op: leafOp(2)})
		n1 := g.Add(ENode{Op: binOp(0), Children: []Id{l1, l1}})
		n2 := g.Add(ENode{Op: binOp(0), Children: []Id{l2, l2}})
		So(n1, ShouldNotEqual, n2)

		g.Union(l1, l2)
		g.Rebuild()

		Convey("op(l1,l1) and op(l2,l2) collapse into the same class", func() {
			So(g.Find(n1), ShouldEqual, g.Find(n2))
		})

		Convey("a freshly-added congruent node hashconses to the merged class", func() {
			n3 := g.Add(ENode{Op: binOp(0), Children: []Id{l1, l2}})
			So(g.Find(n3), ShouldEqual, g.Find(n1))
		})
	})
}

func TestAddExpr(t *testing.T) {
	Convey("AddExpr folds a RecExpr bottom-up and returns the root's class", t, func() {
		g := newToyGraph()
		var expr RecExpr
		a := expr.Leaf(leafOp(1))
		b := expr.Leaf(leafOp(2))
		expr.Append(binOp(0), a, b)

		root := g.AddExpr(expr)
		So(g.Class(root).Nodes[0].Op.Equal(binOp(0)), ShouldBeTrue)
		So(g.NumberOfClasses(), ShouldEqual, 3)
	})
}

func TestClassesAndSize(t *testing.T) {
	Convey("Classes/NumberOfClasses/TotalSize reflect live state, not history", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		l2 := g.Add(ENode{Op: leafOp(2)})
		So(g.NumberOfClasses(), ShouldEqual, 2)
		So(g.TotalSize(), ShouldEqual, 2)

		g.Union(l1, l2)
		g.Rebuild()
		So(g.NumberOfClasses(), ShouldEqual, 1)
		So(g.TotalSize(), ShouldEqual, 2)
		So(len(g.Classes()), ShouldEqual, 1)
	})
}
