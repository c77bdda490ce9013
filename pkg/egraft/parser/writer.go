package parser

import (
	"strings"

	"github.com/wayneeseguin/egraft/pkg/egraft"
)

// Write renders expr back to s-expression text, the inverse of
// ReadExpr, using each operator's display token (Op.String()).
func Write(expr egraft.RecExpr) string {
	if len(expr.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	writeNode(&b, expr, expr.Root())
	return b.String()
}

func writeNode(b *strings.Builder, expr egraft.RecExpr, idx int) {
	n := expr.Nodes[idx]
	if len(n.Children) == 0 {
		b.WriteString(n.Op.String())
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Op.String())
	for _, c := range n.Children {
		b.WriteByte(' ')
		writeNode(b, expr, c)
	}
	b.WriteByte(')')
}
