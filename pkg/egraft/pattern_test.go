package egraft

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPatternVars(t *testing.T) {
	Convey("Pattern.Vars", t, func() {
		Convey("a non-linear pattern lists each variable once, in first-occurrence order", func() {
			pat := PatternNode(binOp(0),
				PatternNode(binOp(1), PatternVar("?b"), PatternVar("?a")),
				PatternVar("?a"),
			)
			So(pat.Vars(), ShouldResemble, []string{"?b", "?a"})
		})

		Convey("a ground pattern (no variables) has an empty Vars slice", func() {
			pat := PatternNode(binOp(0), PatternNode(leafOp(1)), PatternNode(leafOp(2)))
			So(pat.Vars(), ShouldBeEmpty)
		})
	})
}
