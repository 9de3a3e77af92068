// Package subgame implements depth-limited re-solving (spec.md §4.9):
// given a trained blueprint and a subgame root, run the same generic
// mccfr.Solver over a SubInfo-wrapped tree that substitutes the
// blueprint's accumulated expected value at the subgame's frontier,
// instead of recursing into the full game past that depth.
package subgame

import (
	"github.com/lox/holdem-solver/internal/encoder"
	"github.com/lox/holdem-solver/internal/mccfr"
)

// Frontier reports whether a node sits at the edge of the subgame being
// re-solved; frontier nodes are valued from the blueprint rather than by
// recursing further.
type Frontier func(view *encoder.NodeView, depth int) bool

// Node wraps an encoder.NodeView, clamping recursion at the subgame
// frontier and substituting the blueprint's accumulated value there.
type Node struct {
	view      *encoder.NodeView
	depth     int
	hero      int
	blueprint *mccfr.RegretTable
	enc       mccfr.Encoder
	frontier  Frontier
}

// NewRoot builds the root of a depth-limited subgame rooted at view, for
// hero's perspective, valuing frontier nodes from blueprint.
func NewRoot(view *encoder.NodeView, hero int, blueprint *mccfr.RegretTable, enc mccfr.Encoder, frontier Frontier) *Node {
	return &Node{view: view, hero: hero, blueprint: blueprint, enc: enc, frontier: frontier}
}

// Turn returns TerminalTurn at a frontier node (so the solver stops
// recursing there), delegating to the wrapped view otherwise.
func (n *Node) Turn() int {
	if n.frontier(n.view, n.depth) {
		return mccfr.TerminalTurn
	}
	return n.view.Turn()
}

// Actions delegates to the wrapped view; zero at a frontier node, since
// Turn() already reports TerminalTurn there.
func (n *Node) Actions() int {
	if n.frontier(n.view, n.depth) {
		return 0
	}
	return n.view.Actions()
}

// Child descends into the subgame, incrementing depth.
func (n *Node) Child(i int) mccfr.Node {
	child := n.view.Child(i).(*encoder.NodeView)
	return &Node{view: child, depth: n.depth + 1, hero: n.hero, blueprint: n.blueprint, enc: n.enc, frontier: n.frontier}
}

// Payoff returns the true terminal payoff for a genuine game-end node, or
// the blueprint's accumulated expected value for a frontier cutoff.
func (n *Node) Payoff(player int) float64 {
	if n.frontier(n.view, n.depth) {
		key := n.enc.Info(nil, n.view)
		entry := n.blueprint.Get(key, n.view.Actions())
		v := entry.EvalueSum
		if entry.Visits > 0 {
			v /= float64(entry.Visits)
		}
		if player != n.hero {
			return -v
		}
		return v
	}
	return n.view.Payoff(player)
}

// FixedDepthFrontier returns a Frontier that cuts the subgame off after a
// fixed number of plies, the simplest resolving policy.
func FixedDepthFrontier(maxDepth int) Frontier {
	return func(_ *encoder.NodeView, depth int) bool {
		return depth >= maxDepth
	}
}
