package engine

import (
	"fmt"
	"math"

	"github.com/capreolina/scroll-strategist/internal/scroll"
	"github.com/capreolina/scroll-strategist/internal/stats"
)

// Request is the boundary-validated input to the engine: an item state
// (slots, stats), the catalog of scrolls available to apply to it, and the
// goal stat vector the caller wants to reach. It is a pure, deserialization-
// format-agnostic value; internal/config owns translating any particular
// textual format into one of these.
type Request struct {
	Slots   int
	Stats   stats.Vector
	Scrolls []scroll.Kind
	Goal    stats.Vector
}

// Validate checks the invariants the core depends on and returns the first
// ValidationError encountered, or nil if the request is well-formed.
func (r *Request) Validate() error {
	if r.Slots < 0 {
		return invalid("slots", "must be nonnegative")
	}
	if len(r.Scrolls) == 0 {
		return invalid("scrolls", "catalog must be nonempty")
	}
	n := r.Stats.Len()
	if n == 0 {
		return invalid("stats", "must have nonzero arity")
	}
	for _, c := range r.Stats {
		if c < 0 {
			return invalid("stats", "components must be nonnegative")
		}
	}
	if !r.Goal.SameArity(r.Stats) {
		return invalid("goal", "must have the same arity as stats")
	}
	for _, c := range r.Goal {
		if c < 0 {
			return invalid("goal", "components must be nonnegative")
		}
	}
	for i, k := range r.Scrolls {
		if err := validateScroll(i, k, n); err != nil {
			return err
		}
	}
	return nil
}

func validateScroll(index int, k scroll.Kind, n int) error {
	field := fmt.Sprintf("scrolls[%d]", index)
	if k.Percent < 0 || k.Percent > 1 {
		return invalid(field+".percent", "must be in [0,1]")
	}
	if k.Cost < 0 {
		return invalid(field+".cost", "must be nonnegative or +Inf")
	}
	if math.IsNaN(k.Cost) {
		return invalid(field+".cost", "must not be NaN")
	}
	if !k.Delta.SameArity(stats.Zero(n)) {
		return invalid(field+".delta", "must have the same arity as stats")
	}
	for _, c := range k.Delta {
		if c < 0 {
			return invalid(field+".delta", "components must be nonnegative")
		}
	}
	return nil
}
