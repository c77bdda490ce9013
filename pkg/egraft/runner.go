package egraft

import (
	"fmt"
	"time"

	"github.com/wayneeseguin/egraft/internal/elog"
)

// StopKind enumerates the terminal states of spec §4.I.
type StopKind int

const (
	StopSaturated StopKind = iota
	StopIterationLimit
	StopNodeLimit
	StopTimeLimit
	StopOther
)

func (k StopKind) String() string {
	switch k {
	case StopSaturated:
		return "Saturated"
	case StopIterationLimit:
		return "IterationLimit"
	case StopNodeLimit:
		return "NodeLimit"
	case StopTimeLimit:
		return "TimeLimit"
	default:
		return "Other"
	}
}

// StopReason is the terminal state a Runner finishes in.
type StopReason struct {
	Kind   StopKind
	Detail string
}

func (r StopReason) String() string {
	if r.Detail == "" {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", r.Kind, r.Detail)
}

// RunConfig holds the enumerated Runner options of spec §6.
type RunConfig struct {
	IterLimit int
	NodeLimit int
	TimeLimit time.Duration
	Scheduler Scheduler
}

// DefaultRunConfig returns spec §6's documented defaults.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		IterLimit: 30,
		NodeLimit: 10_000,
		TimeLimit: 5 * time.Second,
		Scheduler: NewBackoffScheduler(),
	}
}

// Runner drives the search/apply/rebuild/check saturation loop of
// spec §4.I over one EGraph.
type Runner[D any] struct {
	EGraph     *EGraph[D]
	Config     RunConfig
	Iterations []IterStats
	StopReason StopReason
	Goals      []Id
}

// NewRunner wraps g with the default configuration.
func NewRunner[D any](g *EGraph[D]) *Runner[D] {
	return &Runner[D]{EGraph: g, Config: DefaultRunConfig()}
}

func (r *Runner[D]) WithIterLimit(n int) *Runner[D] { r.Config.IterLimit = n; return r }
func (r *Runner[D]) WithNodeLimit(n int) *Runner[D] { r.Config.NodeLimit = n; return r }
func (r *Runner[D]) WithTimeLimit(d time.Duration) *Runner[D] {
	r.Config.TimeLimit = d
	return r
}
func (r *Runner[D]) WithScheduler(s Scheduler) *Runner[D] { r.Config.Scheduler = s; return r }

// WithExpr adds expr to the e-graph as a goal. Once two or more goals
// have been registered this way, the Runner's check phase stops early
// (StopOther) as soon as they all land in the same class — spec §6's
// "enables equivalence check against a goal class during stop
// conditions."
func (r *Runner[D]) WithExpr(expr RecExpr) *Runner[D] {
	r.Goals = append(r.Goals, r.EGraph.AddExpr(expr))
	return r
}

// Run executes the saturation loop against rules until a stop condition
// fires, and returns r for chaining.
func (r *Runner[D]) Run(rules []*Rewrite[D]) *Runner[D] {
	start := time.Now()

	for iter := 0; ; iter++ {
		if iter >= r.Config.IterLimit {
			r.StopReason = StopReason{Kind: StopIterationLimit, Detail: fmt.Sprintf("%d", r.Config.IterLimit)}
			break
		}
		if r.EGraph.TotalSize() > r.Config.NodeLimit {
			r.StopReason = StopReason{Kind: StopNodeLimit, Detail: fmt.Sprintf("%d", r.Config.NodeLimit)}
			break
		}
		if time.Since(start) > r.Config.TimeLimit {
			r.StopReason = StopReason{Kind: StopTimeLimit, Detail: r.Config.TimeLimit.String()}
			break
		}

		iterStart := time.Now()
		stats, changeEvents := r.runOneIteration(iter, rules)
		stats.Elapsed = time.Since(iterStart)
		r.Iterations = append(r.Iterations, stats)
		elog.DEBUG("iteration %d: %d nodes, %d classes, %d change event(s), %s", iter, stats.NNodes, stats.NClasses, changeEvents, stats.Elapsed)

		if goalsReached(r.EGraph, r.Goals) {
			r.StopReason = StopReason{Kind: StopOther, Detail: "goal reached"}
			break
		}
		if changeEvents == 0 {
			r.StopReason = StopReason{Kind: StopSaturated}
			break
		}
	}

	return r
}

// runOneIteration performs phases 1-3 (search, apply, rebuild) and
// returns the iteration's stats plus the total number of change events
// (unions and analysis-data changes) recorded anywhere during the
// iteration — not just the unions Apply directly returned. That total
// covers congruence-merge unions and Analysis.Modify-triggered unions
// or data changes surfaced only inside the Rebuild fixpoint, so Run can
// implement spec.md:132's full two-part Saturated predicate ("zero new
// unions and zero class data changes") rather than just its union half.
func (r *Runner[D]) runOneIteration(iter int, rules []*Rewrite[D]) (IterStats, int) {
	type pending struct {
		rule    *Rewrite[D]
		matches []Match
	}

	before := r.EGraph.ChangeEvents()

	// Phase 1: search. All matches are gathered against the current
	// e-graph before any applier runs, so within-iteration e-graph
	// growth from one rule's applier never feeds another rule's search
	// — spec §4.I.
	var work []pending
	for _, rule := range rules {
		if !r.Config.Scheduler.ShouldRun(iter, rule.Name) {
			continue
		}
		matches := rule.Search(r.EGraph)
		r.Config.Scheduler.OnMatches(iter, rule.Name, len(matches))
		elog.TRACE("iteration %d: rule %q matched %d time(s)", iter, rule.Name, len(matches))
		work = append(work, pending{rule, matches})
	}

	// Phase 2: apply.
	appliedPerRule := make(map[string]int, len(work))
	for _, w := range work {
		for _, m := range w.matches {
			unioned := w.rule.Apply(r.EGraph, m)
			if len(unioned) > 0 {
				appliedPerRule[w.rule.Name]++
			}
		}
	}

	// Phase 3: rebuild. Congruence-merge unions and any Modify-triggered
	// unions or data changes happen here, inside EGraph's own counters.
	r.EGraph.Rebuild()

	changeEvents := r.EGraph.ChangeEvents() - before

	return IterStats{
		AppliedPerRule: appliedPerRule,
		NNodes:         r.EGraph.TotalSize(),
		NClasses:       r.EGraph.NumberOfClasses(),
	}, changeEvents
}

func goalsReached[D any](g *EGraph[D], goals []Id) bool {
	if len(goals) < 2 {
		return false
	}
	root := g.Find(goals[0])
	for _, goal := range goals[1:] {
		if g.Find(goal) != root {
			return false
		}
	}
	return true
}
