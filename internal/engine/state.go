package engine

import (
	"strconv"
	"strings"

	"github.com/capreolina/scroll-strategist/internal/stats"
)

// State is an item's identity at one point in the recursion: its remaining
// slots and current stats. Destroyed states (the boom branch) are not
// represented as a State at all — evaluate() short-circuits them before a
// State would need to be built, since a destroyed item has no stats of its
// own that matter to anything downstream.
type State struct {
	Slots int
	Stats stats.Vector
}

// Key returns a canonical, comparable identity for s, suitable as a map key
// in the memo. Two States with equal Slots and position-wise-equal Stats
// always produce equal keys, regardless of how each was reached.
//
// This is a standard-library-only component: Go map keys must be
// comparable, and neither a struct embedding a slice (Stats) nor a
// request-arity-dependent fixed-size array is viable, so the key is a
// packed string built from strconv/strings.Builder. No catalog dependency
// offers a packed-tuple map-key codec for variable-arity vectors.
func (s State) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.Slots))
	b.WriteByte(':')
	s.Stats.AppendKey(&b)
	return b.String()
}
