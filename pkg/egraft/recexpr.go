package egraft

// RecExpr is an acyclic, flattened expression: each node's children are
// indices into the prefix of the same slice, the last element being the
// expression's root. It is the shape used for inputs (AddExpr) and for
// extractor outputs, per spec §3.
//
// Grounded on original_source/tests/math.rs's RecExpr<Math> usage
// (egraph.add_expr(&expr), runner.with_expr(&expr)).
type RecExpr struct {
	Nodes []RecExprNode
}

// RecExprNode is one flattened node: an Op plus indices (not Ids) of its
// children within the owning RecExpr.
type RecExprNode struct {
	Op       Op
	Children []int
}

// Root returns the index of the expression's root node (the last one),
// or -1 for an empty expression.
func (r RecExpr) Root() int {
	return len(r.Nodes) - 1
}

// Leaf appends a zero-arity node and returns its index.
func (r *RecExpr) Leaf(op Op) int {
	r.Nodes = append(r.Nodes, RecExprNode{Op: op})
	return len(r.Nodes) - 1
}

// Append adds a node whose children are prior indices in this RecExpr
// and returns its index.
func (r *RecExpr) Append(op Op, children ...int) int {
	r.Nodes = append(r.Nodes, RecExprNode{Op: op, Children: children})
	return len(r.Nodes) - 1
}
