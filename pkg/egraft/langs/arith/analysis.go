package arith

import "github.com/wayneeseguin/egraft/pkg/egraft"

// Meta is the constant-folding analysis datum: the cheapest known
// equivalent expression for a class and its AstSize-style cost.
// Grounded verbatim in structure on original_source/tests/math.rs's
// Meta{cost, best} / Metadata<Math> impl.
type Meta struct {
	Cost int
	Best egraft.RecExpr
}

// ConstFold is the Analysis[Meta] implementation: Make constant-folds a
// node whose children are already known literals, Merge keeps the
// cheaper of two candidates, and Modify publishes a folded constant as
// an additional e-node in its class.
type ConstFold struct{}

func opCost(k Kind) int {
	if k == Diff {
		return 100
	}
	return 1
}

func evalConst(k Kind, args []float64) (float64, bool) {
	switch k {
	case Add:
		return args[0] + args[1], true
	case Sub:
		return args[0] - args[1], true
	case Mul:
		return args[0] * args[1], true
	case Div:
		if args[1] == 0 {
			return 0, false
		}
		return args[0] / args[1], true
	default:
		return 0, false
	}
}

// Make implements original_source/tests/math.rs's `make`: it first
// tries to replace the node with a folded Num literal when every child
// is already a known constant, then composes Best by grafting children's
// Best subtrees under the (possibly folded) op, and sums cost the same
// way MathCostFn does — 100 for Diff, 1 for everything else, plus
// children's costs.
func (ConstFold) Make(g *egraft.EGraph[Meta], n egraft.ENode) Meta {
	op, isArith := n.Op.(Op)

	childBest := make([]egraft.RecExpr, len(n.Children))
	for i, c := range n.Children {
		childBest[i] = g.Class(c).Data.Best
	}

	if isArith {
		if v, ok := tryFold(op.Kind, childBest); ok {
			var folded egraft.RecExpr
			folded.Leaf(Op{Kind: Num, Num: v})
			return Meta{Cost: opCost(Num), Best: folded}
		}
	}

	var best egraft.RecExpr
	children := make([]int, len(childBest))
	for i, cb := range childBest {
		mapping := graftInto(&best, cb)
		children[i] = mapping[cb.Root()]
	}
	best.Append(n.Op, children...)

	cost := opCostOf(n.Op)
	for _, c := range n.Children {
		cost += g.Class(c).Data.Cost
	}

	return Meta{Cost: cost, Best: best}
}

func opCostOf(op egraft.Op) int {
	if a, ok := op.(Op); ok {
		return opCost(a.Kind)
	}
	return 1
}

// tryFold reports the folded numeric value of applying k to children's
// Best subtrees, when every one of them is already a Num leaf.
func tryFold(k Kind, childBest []egraft.RecExpr) (float64, bool) {
	args := make([]float64, 0, len(childBest))
	for _, cb := range childBest {
		if len(cb.Nodes) == 0 {
			return 0, false
		}
		root := cb.Nodes[cb.Root()]
		co, ok := root.Op.(Op)
		if !ok || co.Kind != Num || len(root.Children) != 0 {
			return 0, false
		}
		args = append(args, co.Num)
	}
	return evalConst(k, args)
}

// graftInto copies src's nodes onto the end of dst, translating child
// indices, and returns the src-index -> dst-index mapping.
func graftInto(dst *egraft.RecExpr, src egraft.RecExpr) []int {
	mapping := make([]int, len(src.Nodes))
	for i, nd := range src.Nodes {
		children := make([]int, len(nd.Children))
		for j, c := range nd.Children {
			children[j] = mapping[c]
		}
		if len(children) == 0 {
			mapping[i] = dst.Leaf(nd.Op)
		} else {
			mapping[i] = dst.Append(nd.Op, children...)
		}
	}
	return mapping
}

// Merge keeps whichever candidate is cheaper — commutative, associative
// and idempotent, as spec §4.D requires.
func (ConstFold) Merge(a, b Meta) (Meta, bool) {
	if b.Cost < a.Cost {
		return b, true
	}
	return a, false
}

// Modify publishes the class's folded constant (if Best is already a
// bare literal) as an additional e-node, rather than original_source's
// prune-to-one-node behavior — spec §4.D requires Modify be monotone
// ("no net removal of facts"), so this only ever adds; see DESIGN.md
// for the open-question rationale.
func (ConstFold) Modify(g *egraft.EGraph[Meta], id egraft.Id) {
	cls := g.Class(id)
	if len(cls.Data.Best.Nodes) == 0 {
		return
	}
	root := cls.Data.Best.Nodes[cls.Data.Best.Root()]
	if len(root.Children) != 0 {
		return
	}
	for _, n := range cls.Nodes {
		if len(n.Children) == 0 && n.Op.Equal(root.Op) {
			return
		}
	}
	leaf := g.Add(egraft.ENode{Op: root.Op})
	g.Union(id, leaf)
}
