package egraft

import "strconv"

// ENode is an operator applied to child class ids: the atomic shape
// stored in an EClass's node set. Equality and hashing ignore everything
// but Op and Children, per spec §3.
//
// Grounded on original_source/src/eclass.rs's ENode<L> and the teacher's
// flattened expression-node shape (pkg/graft/expr_evaluation.go).
type ENode struct {
	Op       Op
	Children []Id
}

// Equal compares op and children; children are compared as given, so
// callers must canonicalize both sides first if they want the
// congruence-respecting notion of equality.
func (n ENode) Equal(other ENode) bool {
	if !n.Op.Equal(other.Op) || len(n.Children) != len(other.Children) {
		return false
	}
	for i, c := range n.Children {
		if c != other.Children[i] {
			return false
		}
	}
	return true
}

// canonicalize replaces every child with its current union-find root.
// Idempotent: canonicalizing an already-canonical node is a no-op.
func canonicalize(n ENode, find func(Id) Id) ENode {
	children := make([]Id, len(n.Children))
	changed := false
	for i, c := range n.Children {
		r := find(c)
		children[i] = r
		if r != n.Children[i] {
			changed = true
		}
	}
	if !changed {
		return n
	}
	return ENode{Op: n.Op, Children: children}
}

// hashKey is a comparable canonical form used as the hashcons's map key.
// A Go map key must be comparable, which a []Id slice is not, so the
// children are folded into a string alongside the op's display form.
// Two distinct ops must never share a display form within one Language
// (spec §4.B/§6), so this is collision-free for well-formed languages.
type hashKey string

func keyOf(n ENode) hashKey {
	b := make([]byte, 0, 16+4*len(n.Children))
	b = append(b, n.Op.String()...)
	b = append(b, '/')
	for i, c := range n.Children {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(c), 10)
	}
	return hashKey(b)
}
