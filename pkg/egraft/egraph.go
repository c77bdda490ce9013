package egraft

import (
	"sort"

	"github.com/wayneeseguin/egraft/internal/elog"
)

// EGraph is the hashconsed, congruence-closed e-graph of spec §4.E. It
// owns the union-find, the e-node -> class hashcons, and drives the
// rebuild worklist; Runner is the only intended caller of Rebuild in
// steady state, but nothing prevents calling it directly.
//
// Grounded structurally on original_source/src/eclass.rs (EClass merge
// semantics) and spec §4.E's rebuild algorithm; the hashcons/map idiom
// mirrors the teacher's canonical-key-to-id caches (cache_keys.go).
type EGraph[D any] struct {
	language Language
	analysis Analysis[D]

	uf       *unionFind[*EClass[D]]
	hashcons map[hashKey]Id
	dirty    []Id

	// unionEvents and dataChangeEvents are running totals, incremented by
	// every actual Union merge (wherever it's triggered from — a rewrite
	// applier, a congruence repair, or an Analysis.Modify hook) and every
	// analysis-data change refreshAnalysis observes, respectively. Together
	// they implement spec.md:132's two-part Saturated predicate ("zero new
	// unions and zero class data changes"): ChangeEvents() not advancing
	// across an iteration means both halves held.
	unionEvents      int
	dataChangeEvents int
}

// New creates an empty e-graph for the given language and analysis.
func New[D any](language Language, analysis Analysis[D]) *EGraph[D] {
	return &EGraph[D]{
		language: language,
		analysis: analysis,
		uf:       newUnionFind[*EClass[D]](),
		hashcons: make(map[hashKey]Id),
	}
}

// Language returns the e-graph's operator set.
func (g *EGraph[D]) Language() Language { return g.language }

// Find returns the union-find root of id.
func (g *EGraph[D]) Find(id Id) Id { return g.uf.find(id) }

// Class returns the live EClass id belongs to (resolving through Find).
func (g *EGraph[D]) Class(id Id) *EClass[D] { return g.uf.get(g.Find(id)) }

// Lookup canonicalizes n and consults the hashcons, without adding it.
func (g *EGraph[D]) Lookup(n ENode) (Id, bool) {
	n = canonicalize(n, g.Find)
	id, ok := g.hashcons[keyOf(n)]
	return id, ok
}

// Add canonicalizes n; if an equal e-node is already hashconsed, returns
// its class. Otherwise it creates a new singleton class, computes its
// analysis datum, registers it with each child's parent list, calls
// Modify, and returns the new id.
//
// A child id that doesn't belong to this e-graph, or a children slice
// whose length disagrees with n.Op.Arity(), is a programming error and
// panics — per spec §4.E's failure semantics ("a programming error,
// treated as a panic/abort-class condition").
func (g *EGraph[D]) Add(n ENode) Id {
	if len(n.Children) != n.Op.Arity() {
		panic(&ArityError{Op: n.Op, Want: n.Op.Arity(), Got: len(n.Children)})
	}

	n = canonicalize(n, g.Find)
	if id, ok := g.hashcons[keyOf(n)]; ok {
		elog.TRACE("add %s -> class %s (hashcons hit)", n.Op, id)
		return id
	}

	cls := &EClass[D]{Nodes: []ENode{n}}
	id := g.uf.make(cls)
	cls.Id = id
	cls.Data = g.analysis.Make(g, n)

	g.hashcons[keyOf(n)] = id
	for _, c := range n.Children {
		child := g.Class(c)
		child.Parents = append(child.Parents, Parent{Node: n, Class: id})
	}

	g.analysis.Modify(g, id)
	elog.DEBUG("add %s -> new class %s", n.Op, id)
	return id
}

// AddExpr folds Add bottom-up over a flattened RecExpr and returns the
// class of its root.
func (g *EGraph[D]) AddExpr(expr RecExpr) Id {
	ids := make([]Id, len(expr.Nodes))
	for i, nd := range expr.Nodes {
		children := make([]Id, len(nd.Children))
		for j, ci := range nd.Children {
			children[j] = ids[ci]
		}
		ids[i] = g.Add(ENode{Op: nd.Op, Children: children})
	}
	return ids[expr.Root()]
}

// Union merges the classes containing a and b. It returns the surviving
// root and whether a merge actually happened (false if a and b were
// already the same class). The merge is NOT reflected in the hashcons
// or congruence closure until the next Rebuild — per spec §5's
// "invariant window", matching and extraction are forbidden between a
// Union and the Rebuild that follows it.
func (g *EGraph[D]) Union(a, b Id) (Id, bool) {
	ra, rb := g.Find(a), g.Find(b)
	if ra == rb {
		return ra, false
	}

	root, _ := g.uf.union(ra, rb, func(to, from *EClass[D]) *EClass[D] {
		return mergeClasses(g.analysis, to, from)
	})
	g.dirty = append(g.dirty, root)
	g.unionEvents++
	elog.DEBUG("union %s %s -> %s", ra, rb, root)
	return root, true
}

// ChangeEvents returns the running total of merges and analysis-data
// changes this e-graph has ever recorded, across Union, Rebuild/repair
// congruence merges, and any unions or data changes an Analysis.Modify
// hook triggers. Runner compares deltas of this count across an
// iteration to implement spec.md:132's two-part Saturated predicate:
// the iteration is saturated only when neither half advanced.
func (g *EGraph[D]) ChangeEvents() int {
	return g.unionEvents + g.dataChangeEvents
}

// Rebuild restores the hashcons and congruence closure after a batch of
// unions, per spec §4.E. It must run to a fixpoint before any matching
// or extraction — Modify's unions and node additions are folded into the
// same fixpoint (spec §9's open question on modify-during-rebuild).
func (g *EGraph[D]) Rebuild() {
	rounds := 0
	for len(g.dirty) > 0 {
		todo := g.dedupDirty()
		g.dirty = nil
		elog.TRACE("rebuild round %d: %d dirty classes", rounds, len(todo))
		for _, id := range todo {
			g.repair(id)
		}
		rounds++
	}
	elog.DEBUG("rebuild converged after %d round(s)", rounds)
}

func (g *EGraph[D]) dedupDirty() []Id {
	seen := make(map[Id]bool, len(g.dirty))
	todo := make([]Id, 0, len(g.dirty))
	for _, id := range g.dirty {
		r := g.Find(id)
		if !seen[r] {
			seen[r] = true
			todo = append(todo, r)
		}
	}
	return todo
}

// repair re-canonicalizes one class's parent e-nodes against the
// hashcons (unioning any pair that now collide), then re-folds the
// analysis over the class's nodes and calls Modify if the datum changed.
func (g *EGraph[D]) repair(id Id) {
	root := g.Find(id)
	cls := g.uf.get(root)
	parents := cls.Parents
	cls.Parents = nil

	for i := range parents {
		delete(g.hashcons, keyOf(parents[i].Node))
		parents[i].Node = canonicalize(parents[i].Node, g.Find)
		parents[i].Class = g.Find(parents[i].Class)
	}

	sort.Slice(parents, func(i, j int) bool {
		return keyOf(parents[i].Node) < keyOf(parents[j].Node)
	})

	deduped := parents[:0]
	for i, p := range parents {
		if i > 0 && p.Node.Equal(deduped[len(deduped)-1].Node) {
			g.Union(p.Class, deduped[len(deduped)-1].Class)
			continue
		}
		deduped = append(deduped, p)
	}

	for _, p := range deduped {
		g.hashcons[keyOf(p.Node)] = g.Find(p.Class)
	}

	root = g.Find(id)
	cls = g.uf.get(root)
	cls.Parents = deduped

	elog.TRACE("repair class %s: %d parents (%d collisions folded)", root, len(deduped), len(parents)-len(deduped))
	g.refreshAnalysis(root)
}

// refreshAnalysis re-folds Make over a class's current nodes, and, if
// the merged datum differs from what the class held, installs it, runs
// Modify, and re-dirties both this class and its parents (whose own
// Make may depend on this class's datum).
func (g *EGraph[D]) refreshAnalysis(root Id) {
	cls := g.uf.get(g.Find(root))
	if len(cls.Nodes) == 0 {
		return
	}

	data := g.analysis.Make(g, cls.Nodes[0])
	for _, n := range cls.Nodes[1:] {
		data, _ = g.analysis.Merge(data, g.analysis.Make(g, n))
	}

	merged, changed := g.analysis.Merge(cls.Data, data)
	if !changed {
		return
	}

	cls.Data = merged
	g.dataChangeEvents++
	elog.TRACE("refreshAnalysis class %s: data changed", root)
	for _, p := range cls.Parents {
		g.dirty = append(g.dirty, p.Class)
	}
	g.analysis.Modify(g, root)
	g.dirty = append(g.dirty, root)
}

// NumberOfClasses returns the current live e-class count.
func (g *EGraph[D]) NumberOfClasses() int {
	n := 0
	for i := 0; i < g.uf.size(); i++ {
		if g.uf.find(Id(i)) == Id(i) {
			n++
		}
	}
	return n
}

// TotalSize returns the current total e-node count across all classes.
func (g *EGraph[D]) TotalSize() int {
	n := 0
	for _, id := range g.Classes() {
		n += len(g.uf.get(id).Nodes)
	}
	return n
}

// Classes returns every live class root, in ascending id order.
func (g *EGraph[D]) Classes() []Id {
	ids := make([]Id, 0, g.uf.size())
	for i := 0; i < g.uf.size(); i++ {
		if g.uf.find(Id(i)) == Id(i) {
			ids = append(ids, Id(i))
		}
	}
	return ids
}
