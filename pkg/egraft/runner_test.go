package egraft

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRunnerStopsWhenSaturated(t *testing.T) {
	Convey("Run stops with StopSaturated once a rule produces no new unions", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		l2 := g.Add(ENode{Op: leafOp(2)})
		g.Add(ENode{Op: binOp(0), Children: []Id{l1, l2}})

		swap := NewRewrite[struct{}]("swap",
			PatternNode(binOp(0), PatternVar("?a"), PatternVar("?b")),
			PatternNode(binOp(0), PatternVar("?b"), PatternVar("?a")),
		)

		r := NewRunner(g).WithIterLimit(20)
		r.Run([]*Rewrite[struct{}]{swap})

		So(r.StopReason.Kind, ShouldEqual, StopSaturated)
		So(len(r.Iterations), ShouldBeGreaterThan, 0)
	})
}

func TestRunnerStopsAtIterationLimit(t *testing.T) {
	Convey("Run stops with StopIterationLimit when no rules ever saturate", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		g.Add(ENode{Op: binOp(0), Children: []Id{l1, l1}})

		// The inner op1(?a,?a) is a fresh class for every class matched, so
		// each iteration adds new nodes and the rule never saturates.
		grow := func(tag int) *Rewrite[struct{}] {
			return NewRewrite[struct{}]("grow",
				PatternVar("?a"),
				PatternNode(binOp(tag), PatternNode(binOp(1), PatternVar("?a"), PatternVar("?a")), PatternVar("?a")),
			)
		}

		r := NewRunner(g).WithIterLimit(3)
		r.Run([]*Rewrite[struct{}]{grow(7)})

		So(r.StopReason.Kind, ShouldEqual, StopIterationLimit)
		So(len(r.Iterations), ShouldEqual, 3)
	})
}

func TestRunnerStopsAtNodeLimit(t *testing.T) {
	Convey("Run stops with StopNodeLimit once TotalSize exceeds the configured bound", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		g.Add(ENode{Op: binOp(0), Children: []Id{l1, l1}})

		grow := NewRewrite[struct{}]("grow",
			PatternVar("?a"),
			PatternNode(binOp(7), PatternNode(binOp(1), PatternVar("?a"), PatternVar("?a")), PatternVar("?a")),
		)

		r := NewRunner(g).WithIterLimit(1000).WithNodeLimit(5)
		r.Run([]*Rewrite[struct{}]{grow})

		So(r.StopReason.Kind, ShouldEqual, StopNodeLimit)
	})
}

func TestRunnerWithExprStopsOnGoalReached(t *testing.T) {
	Convey("WithExpr registers a goal that stops the runner once proved", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		l2 := g.Add(ENode{Op: leafOp(2)})
		g.Add(ENode{Op: binOp(0), Children: []Id{l1, l2}})

		var startExpr, goalExpr RecExpr
		a := startExpr.Leaf(leafOp(1))
		b := startExpr.Leaf(leafOp(2))
		startExpr.Append(binOp(0), a, b)

		ga := goalExpr.Leaf(leafOp(2))
		gb := goalExpr.Leaf(leafOp(1))
		goalExpr.Append(binOp(0), ga, gb)

		swap := NewRewrite[struct{}]("swap",
			PatternNode(binOp(0), PatternVar("?a"), PatternVar("?b")),
			PatternNode(binOp(0), PatternVar("?b"), PatternVar("?a")),
		)

		r := NewRunner(g).WithExpr(startExpr).WithExpr(goalExpr).WithIterLimit(10)
		r.Run([]*Rewrite[struct{}]{swap})

		So(r.StopReason.Kind, ShouldEqual, StopOther)
	})
}

func TestRunnerRespectsTimeLimit(t *testing.T) {
	Convey("Run stops with StopTimeLimit when the configured duration has elapsed", t, func() {
		g := newToyGraph()
		l1 := g.Add(ENode{Op: leafOp(1)})
		g.Add(ENode{Op: binOp(0), Children: []Id{l1, l1}})

		grow := NewRewrite[struct{}]("grow",
			PatternVar("?a"),
			PatternNode(binOp(7), PatternVar("?a"), PatternVar("?a")),
		)

		r := NewRunner(g).WithIterLimit(1_000_000).WithTimeLimit(1 * time.Nanosecond)
		r.Run([]*Rewrite[struct{}]{grow})

		So(r.StopReason.Kind, ShouldEqual, StopTimeLimit)
	})
}

func TestBackoffSchedulerBansOverMatchingRules(t *testing.T) {
	Convey("BackoffScheduler", t, func() {
		s := &BackoffScheduler{Threshold: 2, InitialBan: 3}
		s.state = make(map[string]*backoffState)

		Convey("a rule under threshold is never banned", func() {
			s.OnMatches(0, "r", 2)
			So(s.ShouldRun(1, "r"), ShouldBeTrue)
		})

		Convey("a rule over threshold is banned for InitialBan iterations", func() {
			s.OnMatches(0, "r", 5)
			So(s.ShouldRun(1, "r"), ShouldBeFalse)
			So(s.ShouldRun(3, "r"), ShouldBeTrue)
		})

		Convey("repeated bans double the ban length", func() {
			s.OnMatches(0, "r", 5)
			s.OnMatches(3, "r", 5)
			So(s.ShouldRun(4, "r"), ShouldBeFalse)
			So(s.ShouldRun(8, "r"), ShouldBeFalse)
			So(s.ShouldRun(9, "r"), ShouldBeTrue)
		})
	})
}
