// Package scroll models a single enhancement consumable kind and the
// three-outcome distribution (success, miss, boom) its use induces on an item.
package scroll

import "github.com/capreolina/scroll-strategist/internal/stats"

// Outcome identifies one of the three branches a scroll application can take.
type Outcome int

const (
	Success Outcome = iota
	Miss
	Boom
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Miss:
		return "miss"
	case Boom:
		return "boom"
	default:
		return "unknown"
	}
}

// Kind is an immutable scroll definition. Percent is the success probability
// p in [0,1]; Dark splits the failure branch between miss and boom; Cost is
// the per-application cost (math.Inf(1) means "never prefer on cost ties");
// Delta is the stat vector added to the item on success.
type Kind struct {
	Percent float64
	Dark    bool
	Cost    float64
	Delta   stats.Vector
}

// Distribution returns the probability of each of the three outcomes, in
// Success/Miss/Boom order. The three values sum to 1, up to floating-point
// rounding.
//
// Non-dark: P(success)=p, P(miss)=1-p, P(boom)=0.
// Dark: P(success)=p, P(miss)=(1-p)/2, P(boom)=(1-p)/2.
func (k Kind) Distribution() (pSuccess, pMiss, pBoom float64) {
	pSuccess = k.Percent
	miss := 1 - k.Percent
	if !k.Dark {
		return pSuccess, miss, 0
	}
	return pSuccess, miss / 2, miss / 2
}

// Apply returns the resulting stats and slot count for a given outcome of
// applying this scroll to (slots, current). The caller is responsible for
// treating Boom as the absorbing destroyed state rather than consuming the
// returned (slots, stats) pair; Apply still computes them formally, per the
// spec's requirement that a zero-probability branch is a defined branch.
func (k Kind) Apply(slots int, current stats.Vector, outcome Outcome) (nextSlots int, nextStats stats.Vector) {
	switch outcome {
	case Success:
		return slots - 1, current.Add(k.Delta)
	case Miss, Boom:
		return slots - 1, current
	default:
		panic("scroll: unknown outcome")
	}
}
