package engine

import "github.com/capreolina/scroll-strategist/internal/scroll"

// Decision is the minimum useful output: the scroll recommended at the
// query state and the value record backing that recommendation.
type Decision struct {
	Choice    int
	HasChoice bool
	PGoal     float64
	ECost     float64
}

// PolicyNode annotates one visited state in the full policy tree: its own
// value record, the scroll chosen there, and the (at most two) children
// reached by that scroll's non-boom outcomes. A PolicyNode whose
// Record.HasChoice is false is a leaf — terminal per §4.5's base cases.
type PolicyNode struct {
	State     State
	Record    Record
	Success   *PolicyEdge // nil if the state is terminal or P(success)=0
	Miss      *PolicyEdge // nil if the state is terminal or P(miss)=0
}

// PolicyEdge is one outgoing transition from a PolicyNode: the probability
// of taking it and the node it leads to.
type PolicyEdge struct {
	Probability float64
	Node        *PolicyNode
}

// Extractor walks an Evaluator's memo, after Evaluate has populated it for
// the query state, to report the chosen policy. It performs no further
// recursion of its own beyond what Evaluate already computed: every state
// it visits must already be memoized.
type Extractor struct {
	eval *Evaluator
}

// NewExtractor returns an Extractor over an Evaluator whose memo has
// already been populated by a call to Evaluate(root).
func NewExtractor(eval *Evaluator) *Extractor {
	return &Extractor{eval: eval}
}

// Decide returns the minimum useful output for root: the chosen scroll and
// the P*/E* it induces. root must already be memoized.
func (x *Extractor) Decide(root State) Decision {
	rec := x.mustLookup(root)
	return Decision{
		Choice:    rec.Choice,
		HasChoice: rec.HasChoice,
		PGoal:     rec.PGoal,
		ECost:     rec.ECost,
	}
}

// Tree reconstructs the full policy tree rooted at root, following each
// node's chosen scroll into its non-boom children and recursing. The result
// annotates every visited node with its value record and every edge with
// its outcome probability, per §4.6.
func (x *Extractor) Tree(root State) *PolicyNode {
	return x.buildNode(root)
}

func (x *Extractor) buildNode(state State) *PolicyNode {
	rec := x.mustLookup(state)
	node := &PolicyNode{State: state, Record: rec}
	if !rec.HasChoice {
		return node
	}

	k := x.eval.catalog[rec.Choice]
	pSuccess, pMiss, _ := k.Distribution()

	if pSuccess > 0 {
		succSlots, succStats := k.Apply(state.Slots, state.Stats, scroll.Success)
		node.Success = &PolicyEdge{
			Probability: pSuccess,
			Node:        x.buildNode(State{Slots: succSlots, Stats: succStats}),
		}
	}
	if pMiss > 0 {
		missSlots, missStats := k.Apply(state.Slots, state.Stats, scroll.Miss)
		node.Miss = &PolicyEdge{
			Probability: pMiss,
			Node:        x.buildNode(State{Slots: missSlots, Stats: missStats}),
		}
	}
	return node
}

func (x *Extractor) mustLookup(state State) Record {
	rec, ok := x.eval.memo.Lookup(state.Key())
	if !ok {
		panic("engine: extractor visited a state the evaluator never memoized")
	}
	return rec
}
