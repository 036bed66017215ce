// Package engine implements the decision core described by this module's
// specification: the recursive value function over item states, its
// memoization, the master-scroll admissibility pruning, and the
// tie-breaking policy that together pick the scroll maximizing the
// probability of reaching a goal stat vector. It is deliberately ignorant
// of textual formats, CLI flags, logging, and rendering — see
// internal/config, cmd/scrollctl, and internal/server for those.
package engine

// Result is the engine's answer for the query state of a Request: the
// recommended scroll (or none, if the query state is already terminal),
// the probability of eventually reaching the goal under the optimal
// policy, and the expected remaining cost under that policy.
type Result struct {
	Choice    int
	HasChoice bool
	PGoal     float64
	ECost     float64
	Memoized  int
}

// Evaluate validates req, runs the value function to a fixed point over
// every state reachable from the query state, and returns the decision at
// the query state. It is a pure function of req: no persisted state, no
// environment dependence.
func Evaluate(req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	eval := NewEvaluator(req)
	root := State{Slots: req.Slots, Stats: req.Stats}
	eval.Evaluate(root)

	decision := NewExtractor(eval).Decide(root)
	return &Result{
		Choice:    decision.Choice,
		HasChoice: decision.HasChoice,
		PGoal:     decision.PGoal,
		ECost:     decision.ECost,
		Memoized:  eval.Memo().Len(),
	}, nil
}

// EvaluateTree behaves like Evaluate but also returns the full policy tree
// rooted at the query state, per §4.6 / §6's optional response field.
func EvaluateTree(req *Request) (*Result, *PolicyNode, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	eval := NewEvaluator(req)
	root := State{Slots: req.Slots, Stats: req.Stats}
	eval.Evaluate(root)

	extractor := NewExtractor(eval)
	decision := extractor.Decide(root)
	tree := extractor.Tree(root)

	return &Result{
		Choice:    decision.Choice,
		HasChoice: decision.HasChoice,
		PGoal:     decision.PGoal,
		ECost:     decision.ECost,
		Memoized:  eval.Memo().Len(),
	}, tree, nil
}
