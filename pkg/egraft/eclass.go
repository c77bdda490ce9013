package egraft

// Analysis is the user-extensible per-class metadata hook described in
// spec §4.D. D is the analysis's datum type; the unit analysis (D =
// struct{}) satisfies the contract trivially.
//
// Grounded directly on original_source/src/eclass.rs's Metadata<L>
// trait (make/merge/modify) and its worked example (constant folding).
type Analysis[D any] interface {
	// Make computes the datum for a freshly added e-node, reading
	// children's data through the e-graph.
	Make(g *EGraph[D], n ENode) D
	// Merge combines two classes' data on union. Must be associative,
	// commutative and idempotent. changed reports whether the result
	// differs from a (not from b) so the rebuild fixpoint knows whether
	// Modify must run again.
	Merge(a, b D) (merged D, changed bool)
	// Modify optionally mutates the class given its current data — e.g.
	// adding a constant e-node for a constant-folded value. May call
	// g.Add/g.Union. Must be monotone: no net removal of facts.
	Modify(g *EGraph[D], id Id)
}

// UnitAnalysis is the Analysis[struct{}] identity: no metadata, nothing
// to merge, nothing to modify.
type UnitAnalysis struct{}

func (UnitAnalysis) Make(*EGraph[struct{}], ENode) struct{}             { return struct{}{} }
func (UnitAnalysis) Merge(struct{}, struct{}) (struct{}, bool)          { return struct{}{}, false }
func (UnitAnalysis) Modify(*EGraph[struct{}], Id)                      {}

// Parent records that Node has Class among its (canonical) children —
// the back-index rebuild walks to re-canonicalize upward after a union.
// Not owning: Class is just an Id, re-resolved through find as needed.
type Parent struct {
	Node  ENode
	Class Id
}

// EClass is a live equivalence class: its member e-nodes, its analysis
// datum, and the parent back-index. Grounded on original_source/
// src/eclass.rs's EClass<L, M> struct.
type EClass[D any] struct {
	Id      Id
	Nodes   []ENode
	Data    D
	Parents []Parent
}

// mergeClasses implements the union-find merge hook: the larger node
// list absorbs the smaller (original_source/src/eclass.rs swaps "less"
// into "more" before extending, to keep the copy cheap), data is merged
// through the analysis, and parent lists are concatenated. Modify is not
// called here or by EGraph.Union; Rebuild's refreshAnalysis calls it
// when re-folding the class's nodes changes its datum.
func mergeClasses[D any](analysis Analysis[D], to, from *EClass[D]) *EClass[D] {
	less, more := to.Nodes, from.Nodes
	if len(more) < len(less) {
		less, more = more, less
	}
	merged := &EClass[D]{
		Id:      to.Id,
		Nodes:   append(more, less...),
		Parents: append(to.Parents, from.Parents...),
	}
	merged.Data, _ = analysis.Merge(to.Data, from.Data)
	return merged
}
