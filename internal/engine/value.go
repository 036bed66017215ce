package engine

import (
	"fmt"
	"math"

	"github.com/capreolina/scroll-strategist/internal/scroll"
	"github.com/capreolina/scroll-strategist/internal/stats"
)

// Evaluator is the recursive value function (DFS) over item states,
// memoized per request. One Evaluator is exclusively owned by the goroutine
// running a single request's evaluation; it is never shared across requests
// or accessed from more than one goroutine at a time (internal/batch gives
// every concurrent request its own Evaluator and Memo).
type Evaluator struct {
	catalog []scroll.Kind
	goal    stats.Vector
	master  MasterScroll
	memo    *Memo
}

// NewEvaluator builds an Evaluator for one request. req must already have
// passed Request.Validate.
func NewEvaluator(req *Request) *Evaluator {
	return &Evaluator{
		catalog: req.Scrolls,
		goal:    req.Goal,
		master:  DeriveMaster(req.Scrolls),
		memo:    NewMemo(),
	}
}

// Memo exposes the evaluator's memo table, for -debug diagnostics and for
// the policy extractor to walk after Evaluate has populated it.
func (e *Evaluator) Memo() *Memo {
	return e.memo
}

// Evaluate is the value function's contract: evaluate(state) -> (P*, E*,
// choice). It installs the computed record into the memo before returning,
// so every distinct state is computed at most once per request.
func (e *Evaluator) Evaluate(state State) Record {
	key := state.Key()
	if rec, ok := e.memo.Lookup(key); ok {
		return rec
	}

	rec := e.evaluateUncached(state)
	assertFinite(rec)
	e.memo.Install(key, rec)
	return rec
}

// terminal0 and terminalGoalMet are the shared shapes of every base case:
// no slots were spent looking further, so the choice is undefined.
var terminal0 = Record{PGoal: 0, ECost: 0, HasChoice: false}
var terminalGoalMet = Record{PGoal: 1, ECost: 0, HasChoice: false}

func (e *Evaluator) evaluateUncached(state State) Record {
	// Base case 2: goal reached dominates "out of slots" — checked before
	// the slots==0 base case, so a state simultaneously at-goal and at
	// zero-slots still returns 1.
	if state.Stats.Ge(e.goal) {
		return terminalGoalMet
	}
	if state.Slots == 0 {
		return terminal0
	}
	if !e.master.Reachable(state, e.goal) {
		return terminal0
	}

	return e.exploreScrolls(state)
}

// exploreScrolls evaluates every scroll's branch from state and picks the
// argmax over P_k, tie-breaking per §4.5: smaller E_k, then smaller catalog
// index. It always finishes exploring every scroll, even once a P*=0 floor
// is reached, because E* and choice must still reflect the best available
// scroll when every policy scores zero.
func (e *Evaluator) exploreScrolls(state State) Record {
	bestP, bestE := -1.0, math.Inf(1)
	bestIdx := -1

	for idx, k := range e.catalog {
		pK, eK := e.scrollExpectation(state, k)

		if bestIdx == -1 || better(pK, eK, bestP, bestE) {
			bestP, bestE, bestIdx = pK, eK, idx
		}
	}

	return Record{PGoal: bestP, ECost: bestE, Choice: bestIdx, HasChoice: true}
}

// better reports whether (p, e) should replace the current best (bestP,
// bestE) under the tie-break policy: higher P wins; on a P tie (bitwise
// equal), lower E wins; on an E tie too, the earlier catalog index (already
// installed as best) is kept, so this only returns true on a strict
// improvement in either dimension.
func better(p, e, bestP, bestE float64) bool {
	if p != bestP {
		return p > bestP
	}
	return e < bestE
}

// scrollExpectation computes P_k and E_k for scroll k applied to state, per
// §4.5: each of the three outcome branches is weighted by its probability,
// with boom contributing (0,0) without recursing into a child state (a
// destroyed item has no further evaluation). The two sums are each computed
// in a single fixed left-to-right order so that algebraically identical
// P_k values from two different scrolls compare bitwise-equal, per the
// spec's tie-breaking caveat.
func (e *Evaluator) scrollExpectation(state State, k scroll.Kind) (pK, eK float64) {
	pSuccess, pMiss, pBoom := k.Distribution()

	var pSucc, eSucc, pMissVal, eMissVal float64
	if pSuccess > 0 {
		succSlots, succStats := k.Apply(state.Slots, state.Stats, scroll.Success)
		rec := e.Evaluate(State{Slots: succSlots, Stats: succStats})
		pSucc, eSucc = rec.PGoal, rec.ECost
	}
	if pMiss > 0 {
		missSlots, missStats := k.Apply(state.Slots, state.Stats, scroll.Miss)
		rec := e.Evaluate(State{Slots: missSlots, Stats: missStats})
		pMissVal, eMissVal = rec.PGoal, rec.ECost
	}
	_ = pBoom // boom contributes (0, 0); no recursion, nothing to add.

	pK = pSuccess*pSucc + pMiss*pMissVal
	eK = k.Cost + pSuccess*eSucc + pMiss*eMissVal
	return pK, eK
}

// assertFinite guards the internal invariant that valid input never
// produces a non-finite or out-of-range probability, nor a NaN or -Inf
// expectation. A +Inf expectation is accepted, since a +Inf scroll cost is
// valid input. Observing a violation here is a
// bug in the engine, not a user-facing error — mirrors the teacher's own
// posture of panicking on a provably-unreachable internal state rather than
// silently propagating corrupted values.
const probabilityTolerance = 1e-9

func assertFinite(rec Record) {
	if math.IsNaN(rec.PGoal) || math.IsInf(rec.PGoal, 0) ||
		rec.PGoal < -probabilityTolerance || rec.PGoal > 1+probabilityTolerance {
		panic(fmt.Sprintf("engine: invariant violation: p_goal=%v out of [0,1] or non-finite", rec.PGoal))
	}
	if math.IsNaN(rec.ECost) || math.IsInf(rec.ECost, -1) {
		panic(fmt.Sprintf("engine: invariant violation: e_cost=%v is invalid", rec.ECost))
	}
}
