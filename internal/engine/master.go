package engine

import (
	"github.com/capreolina/scroll-strategist/internal/scroll"
	"github.com/capreolina/scroll-strategist/internal/stats"
)

// MasterScroll is the synthetic, never-chosen upper-bound scroll derived
// once per request: success probability 1 and a stat delta equal to the
// component-wise maximum of every catalog scroll's delta. It exists purely
// as a feasibility oracle — Reachable lets the evaluator prune a whole
// subtree without exploring it scroll by scroll.
type MasterScroll struct {
	Delta stats.Vector
}

// DeriveMaster builds the master scroll for a catalog. The catalog is
// guaranteed nonempty by Request.Validate before this is ever called.
func DeriveMaster(catalog []scroll.Kind) MasterScroll {
	delta := stats.Zero(catalog[0].Delta.Len())
	for _, k := range catalog {
		delta = stats.Max(delta, k.Delta)
	}
	return MasterScroll{Delta: delta}
}

// Reachable reports whether state could still meet goal if every one of its
// remaining slots applied the master scroll's delta: a strict upper bound on
// what any real policy could achieve from state. If false, state is
// unreachable and evaluate must return (0, 0, no choice) without exploring
// any real scroll.
func (m MasterScroll) Reachable(state State, goal stats.Vector) bool {
	bound := state.Stats.MulAdd(state.Slots, m.Delta)
	return bound.Ge(goal)
}
