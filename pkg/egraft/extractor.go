package egraft

import "cmp"

// CostFn maps an operator and its children's already-computed costs to
// this node's cost, per spec §4.J/§6. Cost must be monotone in children:
// increasing any child's cost must never decrease the parent's.
type CostFn[C cmp.Ordered] interface {
	Cost(op Op, children []C) C
}

// AstSizeCost is the "1 per operator plus sum of children" cost used by
// spec §8's scenarios.
type AstSizeCost struct{}

func (AstSizeCost) Cost(_ Op, children []int) int {
	total := 1
	for _, c := range children {
		total += c
	}
	return total
}

// Extractor computes, per live class, the lowest-cost e-node under
// CostFn and can reconstruct a RecExpr for any class from that choice.
// Grounded on spec §4.J's Bellman-style relaxation and the teacher's
// CostEstimator (internal/cost_estimator.go) for the "per-operator base
// cost, composed over children" shape.
type Extractor[D any, C cmp.Ordered] struct {
	g        *EGraph[D]
	costFn   CostFn[C]
	bestCost map[Id]C
	bestNode map[Id]ENode
}

// NewExtractor runs the fixpoint relaxation immediately; the e-graph
// must already be rebuilt (spec §5: extraction is forbidden in the
// pending-union window).
func NewExtractor[D any, C cmp.Ordered](g *EGraph[D], costFn CostFn[C]) *Extractor[D, C] {
	e := &Extractor[D, C]{
		g:        g,
		costFn:   costFn,
		bestCost: make(map[Id]C),
		bestNode: make(map[Id]ENode),
	}
	e.relax()
	return e
}

func (e *Extractor[D, C]) relax() {
	for changed := true; changed; {
		changed = false
		for _, id := range e.g.Classes() {
			for _, n := range e.g.Class(id).Nodes {
				childCosts := make([]C, len(n.Children))
				known := true
				for i, c := range n.Children {
					cost, ok := e.bestCost[e.g.Find(c)]
					if !ok {
						known = false
						break
					}
					childCosts[i] = cost
				}
				if !known {
					continue
				}

				cost := e.costFn.Cost(n.Op, childCosts)
				if cur, ok := e.bestCost[id]; !ok || cost < cur {
					e.bestCost[id] = cost
					e.bestNode[id] = n
					changed = true
				}
			}
		}
	}
}

// Cost returns the best known cost for id's class, if reachable.
func (e *Extractor[D, C]) Cost(id Id) (C, bool) {
	c, ok := e.bestCost[e.g.Find(id)]
	return c, ok
}

// Extract reconstructs the lowest-cost RecExpr rooted at id's class, or
// an *ExtractError if no finite-cost representative exists (spec §7).
func (e *Extractor[D, C]) Extract(id Id) (RecExpr, error) {
	var expr RecExpr
	memo := make(map[Id]int)

	var build func(Id) (int, error)
	build = func(id Id) (int, error) {
		root := e.g.Find(id)
		if idx, ok := memo[root]; ok {
			return idx, nil
		}
		node, ok := e.bestNode[root]
		if !ok {
			return 0, &ExtractError{Class: root}
		}
		children := make([]int, len(node.Children))
		for i, c := range node.Children {
			idx, err := build(c)
			if err != nil {
				return 0, err
			}
			children[i] = idx
		}
		idx := expr.Append(node.Op, children...)
		memo[root] = idx
		return idx, nil
	}

	if _, err := build(id); err != nil {
		return RecExpr{}, err
	}
	return expr, nil
}
