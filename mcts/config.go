package mcts

import (
	"math"
	"time"
)

// Policy selects the action returned from the root once a search budget is
// spent (spec.md §4.4 "Final move policy").
type Policy int

const (
	// MostVisits returns the root child with the highest visit count,
	// short-circuiting to any proven-winning child first. Ties break by
	// child insertion order. This is the default, robust choice for
	// adversarial games (spec.md §4.4).
	MostVisits Policy = iota

	// MeanValue returns the root child with the highest mean value
	// (value_sum / visit_count), ignoring never-visited children. Ties
	// break by child insertion order.
	MeanValue
)

func (p Policy) String() string {
	switch p {
	case MostVisits:
		return "most-visits"
	case MeanValue:
		return "mean-value"
	default:
		return "unknown"
	}
}

// DefaultExplorationConstant is UCB1's canonical sqrt(2), used whenever a
// caller leaves SearchConfig.ExplorationConstant at its zero value.
const DefaultExplorationConstant = math.Sqrt2

// SearchConfig bundles the parameters of a single call to Search (spec.md
// §6). It is the ambient, CLI/config-facing counterpart of the bare
// parameter list spec.md describes.
type SearchConfig struct {
	// Iterations caps the number of selection/expansion/simulation/
	// backpropagation cycles. Mandatory (spec.md §5) unless TimeLimit or
	// the caller's context carries its own deadline — Search rejects a
	// zero Iterations with no other bound as a contract violation, since
	// the only other game-agnostic bound would be "search forever."
	Iterations uint64

	// TimeLimit caps wall-clock search time. Zero leaves timing entirely to
	// Iterations and/or the caller's context. Composes with the caller's
	// context: the search stops at whichever deadline arrives first.
	TimeLimit time.Duration

	// Threads is the number of worker goroutines racing through the shared
	// tree (spec.md §5 "root-parallel"). Defaults to 4 if zero, mirroring
	// original_source arena.rs's threads.unwrap_or(4).
	Threads int

	// ExplorationConstant is UCB1's k. Defaults to DefaultExplorationConstant
	// if zero.
	ExplorationConstant float64

	// Policy selects the final move once the budget is spent. Zero value
	// is MostVisits.
	Policy Policy

	// Seed, if non-nil, makes the search's per-worker random sources
	// deterministic (useful for tests and reproducible debugging). Each
	// worker derives its own source from Seed plus its index.
	Seed *int64
}

// withDefaults fills in only genuinely-unset (zero-value) fields. A
// negative Threads or ExplorationConstant is left untouched, so Search's
// own validation can reject it as the contract violation it is, rather
// than this silently papering over it with the default.
func (c SearchConfig) withDefaults() SearchConfig {
	if c.Threads == 0 {
		c.Threads = 4
	}
	if c.ExplorationConstant == 0 {
		c.ExplorationConstant = DefaultExplorationConstant
	}
	return c
}

// SearchStats reports what happened during a Search call, for logging and
// diagnostics only — it has no effect on search semantics (spec.md §3
// "ambient type").
type SearchStats struct {
	Iterations    uint64
	Elapsed       time.Duration
	FullyExplored bool
}
