// Package encoder binds internal/nlhe's concrete game state and
// internal/edges' abstract action grid to the generic internal/mccfr
// solver: a NodeView implementing mccfr.Node that walks the discretized
// raise grid instead of nlhe.Game's raw min-raise/shove pair, and an
// Encoder building the (subgame_path, bucket, choices_path) Info triple
// spec.md §4.8 describes.
package encoder

import (
	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/edges"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/nlhe"
)

// NodeView adapts one nlhe.Game node to mccfr.Node, with its legal edges
// pre-resolved against the abstract raise grid so Actions()/Child() index
// consistently with the Edge each index represents. sincePath tracks the
// edges taken since the last chance node, threaded through Child so the
// Encoder never needs to replay history from the tree root.
type NodeView struct {
	Game      *nlhe.Game
	edges     []edgeChild
	sincePath []edges.Edge
}

type edgeChild struct {
	edge   edges.Edge
	action nlhe.Action
}

// NewRoot wraps a freshly dealt hand as the root of a sampled tree.
func NewRoot(g *nlhe.Game) *NodeView {
	return &NodeView{Game: g, edges: legalEdges(g)}
}

// legalEdges builds the edge/action pairs legal at g: Draw at chance nodes,
// nothing at terminal nodes, and otherwise Fold/Check/Call plus the
// abstract raise grid for g.Street at g.RaiseDepth, converted to concrete
// raise-to chip targets, plus a Shove edge. Grid targets at or above
// all-in, at or below the amount to call, or equal to an earlier target
// are dropped rather than clamped; no minimum-raise check is applied.
func legalEdges(g *nlhe.Game) []edgeChild {
	switch g.Actor() {
	case nlhe.TurnTerminal:
		return nil
	case nlhe.TurnChance:
		return []edgeChild{{edge: edges.Draw, action: nlhe.Action{Kind: nlhe.ActionDraw}}}
	}

	toCall := g.ToCall()
	var out []edgeChild
	if toCall > 0 {
		out = append(out, edgeChild{edges.Fold, nlhe.Action{Kind: nlhe.ActionFold}})
	}
	if toCall == 0 {
		out = append(out, edgeChild{edges.Check, nlhe.Action{Kind: nlhe.ActionCheck}})
	} else {
		out = append(out, edgeChild{edges.Call, nlhe.Action{Kind: nlhe.ActionCall, Amount: toCall}})
	}

	maxRaiseTo := g.MaxRaiseTo()
	if maxRaiseTo-toCall <= 0 {
		return out
	}

	seen := map[int]bool{}
	for _, ge := range edges.Raises(g.Street, g.RaiseDepth) {
		raiseTo := ge.IntoChips(g.Pot, g.BigBlind())
		if raiseTo >= maxRaiseTo || raiseTo <= toCall || seen[raiseTo] {
			continue // collapses into the dedicated Shove edge, or isn't a real raise
		}
		seen[raiseTo] = true
		out = append(out, edgeChild{ge, nlhe.Action{Kind: nlhe.ActionRaise, Amount: raiseTo}})
	}
	out = append(out, edgeChild{edges.Shove, nlhe.Action{Kind: nlhe.ActionShove, Amount: maxRaiseTo}})
	return out
}

// Turn maps the underlying nlhe.Turn to mccfr's convention.
func (v *NodeView) Turn() int {
	switch v.Game.Actor() {
	case nlhe.TurnTerminal:
		return mccfr.TerminalTurn
	case nlhe.TurnChance:
		return mccfr.ChanceTurn
	default:
		return int(v.Game.Actor())
	}
}

// Actions returns the number of grid-resolved edges at this node.
func (v *NodeView) Actions() int { return len(v.edges) }

// Child applies the i'th edge's concrete action, resetting sincePath on a
// Draw and otherwise appending the edge taken.
func (v *NodeView) Child(i int) mccfr.Node {
	chosen := v.edges[i]
	next := v.Game.Apply(chosen.action)

	var sincePath []edges.Edge
	if chosen.edge.IsChance() {
		sincePath = nil
	} else {
		sincePath = make([]edges.Edge, len(v.sincePath), len(v.sincePath)+1)
		copy(sincePath, v.sincePath)
		if len(sincePath) < edges.MaxDepthSubgame {
			sincePath = append(sincePath, chosen.edge)
		}
	}
	return &NodeView{Game: next, edges: legalEdges(next), sincePath: sincePath}
}

// Payoff settles the hand and returns player's net chips won/lost.
func (v *NodeView) Payoff(player int) float64 {
	settlements := v.Game.Settle()
	for _, s := range settlements {
		if s.Seat == player {
			return float64(s.PnL())
		}
	}
	return 0
}

// Edge returns the abstract Edge the i'th branch represents.
func (v *NodeView) Edge(i int) edges.Edge { return v.edges[i].edge }

// NLHEEncoder builds Info keys per spec.md §4.8: subgame path since the
// last chance edge, the acting player's canonical bucket, and the packed
// choices currently on offer. The (observation → bucket) Lookup is loaded
// once at startup and shared by immutable reference across solver workers.
type NLHEEncoder struct {
	Registry *cards.Registry
	Lookup   *abstraction.Lookup
}

// Info implements mccfr.Encoder.
func (e NLHEEncoder) Info(history []int, node mccfr.Node) string {
	view, ok := node.(*NodeView)
	if !ok {
		return mccfr.PlainEncoder{}.Info(history, node)
	}
	g := view.Game

	path := edges.EmptyPath
	for _, ed := range view.sincePath {
		path = path.Push(ed)
	}

	obs := cards.Observation{Street: g.Street, Hole: g.Seats[g.ActingSeat()].Hole, Board: g.Board}
	bucket := e.Lookup.BucketOf(obs, e.Registry)

	choices := edges.EmptyPath
	for i := 0; i < view.Actions(); i++ {
		choices = choices.Push(view.Edge(i))
	}

	return infoKey(path, bucket, choices)
}

func infoKey(path edges.Path, bucket int32, choices edges.Path) string {
	buf := make([]byte, 0, 24)
	buf = appendUint64(buf, uint64(path))
	buf = append(buf, '|')
	buf = appendUint64(buf, uint64(uint32(bucket)))
	buf = append(buf, '|')
	buf = appendUint64(buf, uint64(choices))
	return string(buf)
}

func appendUint64(buf []byte, v uint64) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[i:]...)
}
