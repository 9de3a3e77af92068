// Package edges implements the abstract betting-action alphabet: the Edge
// tagged union, its u8/u64/string bijections, the per-(street,raise_depth)
// grid table, and Path packing of a bounded edge sequence into one u64.
//
// The grid values and encodings here are load-bearing: they determine
// information-set identity, so they match the source grid exactly rather
// than approximating it.
package edges

import (
	"fmt"

	"github.com/lox/holdem-solver/internal/cards"
)

// Odds is a pot-relative raise size, n/d of the pot.
type Odds struct {
	N, D int
}

func (o Odds) String() string {
	return fmt.Sprintf("%d:%d", o.N, o.D)
}

// Kind identifies which variant of Edge a value holds.
type Kind int

const (
	KindDraw Kind = iota
	KindFold
	KindCheck
	KindCall
	KindOpen
	KindRaise
	KindShove
)

// Edge is the abstract action alphabet: a chance Draw, a fold, a passive
// check/call, a BB-denominated preflop open, a pot-relative raise, or an
// all-in shove.
type Edge struct {
	Kind  Kind
	Chips int  // valid when Kind == KindOpen (BB units)
	Odds  Odds // valid when Kind == KindRaise
}

var (
	Draw  = Edge{Kind: KindDraw}
	Fold  = Edge{Kind: KindFold}
	Check = Edge{Kind: KindCheck}
	Call  = Edge{Kind: KindCall}
	Shove = Edge{Kind: KindShove}
)

// Open builds a preflop BB-denominated open edge.
func Open(bb int) Edge { return Edge{Kind: KindOpen, Chips: bb} }

// Raise builds a pot-relative raise edge.
func Raise(odds Odds) Edge { return Edge{Kind: KindRaise, Odds: odds} }

// OpensGrid is the fixed preflop-open grid, in big blinds.
var OpensGrid = []int{2, 3, 4, 8}

// RaiseGrid is the fixed pot-odds grid shared across every street.
var RaiseGrid = []Odds{{1, 3}, {1, 2}, {2, 3}, {1, 1}, {3, 2}, {2, 1}}

// MaxRaiseRepeats bounds the aggression depth within one betting round.
const MaxRaiseRepeats = 4

// IsShove, IsRaise, IsFolded, IsChance, IsAggro, IsChoice classify e.
func (e Edge) IsShove() bool  { return e.Kind == KindShove }
func (e Edge) IsRaise() bool  { return e.Kind == KindRaise || e.Kind == KindOpen }
func (e Edge) IsFolded() bool { return e.Kind == KindFold }
func (e Edge) IsChance() bool { return e.Kind == KindDraw }
func (e Edge) IsAggro() bool  { return e.IsRaise() || e.IsShove() }
func (e Edge) IsChoice() bool { return !e.IsChance() }

// Raises returns the exact edge set legal at the given street and
// aggression depth, per the fixed per-(street,depth) table that backs
// information-set identity. depth > MaxRaiseRepeats returns nil (no more
// raises this betting round).
func Raises(street cards.Street, depth int) []Edge {
	if depth > MaxRaiseRepeats {
		return nil
	}
	switch street {
	case cards.Preflop:
		switch {
		case depth == 0:
			return opensAsEdges(OpensGrid)
		case depth == 1:
			return raisesAsEdges(RaiseGrid[3], RaiseGrid[4], RaiseGrid[5]) // 1/1, 3/2, 2/1
		default:
			return raisesAsEdges(RaiseGrid[3], RaiseGrid[5]) // 1/1, 2/1
		}
	case cards.Flop:
		switch {
		case depth == 0:
			return raisesAsEdges(RaiseGrid[0], RaiseGrid[1], RaiseGrid[3], RaiseGrid[5]) // 1/3,1/2,1/1,2/1
		case depth == 1:
			return raisesAsEdges(RaiseGrid[2], RaiseGrid[3], RaiseGrid[4]) // 2/3,1/1,3/2
		default:
			return raisesAsEdges(RaiseGrid[3], RaiseGrid[4]) // 1/1,3/2
		}
	case cards.Turn:
		switch {
		case depth == 0:
			return raisesAsEdges(RaiseGrid[0], RaiseGrid[2], RaiseGrid[3], RaiseGrid[5]) // 1/3,2/3,1/1,2/1
		default:
			return raisesAsEdges(RaiseGrid[3], RaiseGrid[4]) // 1/1,3/2
		}
	case cards.River:
		switch {
		case depth == 0:
			return raisesAsEdges(RaiseGrid[0], RaiseGrid[1], RaiseGrid[3], RaiseGrid[5]) // 1/3,1/2,1/1,2/1
		case depth == 1:
			return raisesAsEdges(RaiseGrid[2], RaiseGrid[3], RaiseGrid[5]) // 2/3,1/1,2/1
		default:
			return raisesAsEdges(RaiseGrid[3]) // 1/1
		}
	}
	return nil
}

func opensAsEdges(bbs []int) []Edge {
	out := make([]Edge, len(bbs))
	for i, bb := range bbs {
		out[i] = Open(bb)
	}
	return out
}

func raisesAsEdges(odds ...Odds) []Edge {
	out := make([]Edge, len(odds))
	for i, o := range odds {
		out[i] = Raise(o)
	}
	return out
}

// IntoChips resolves e into an absolute chip amount given the current pot
// size: Open(n) -> n*bb; Raise(odds) -> floor(pot*n/d); everything else -> 0.
func (e Edge) IntoChips(pot, bigBlind int) int {
	switch e.Kind {
	case KindOpen:
		return e.Chips * bigBlind
	case KindRaise:
		return (pot * e.Odds.N) / e.Odds.D
	default:
		return 0
	}
}

// Regret returns the initial counterfactual-regret warm-start bounds used
// to bias exploration toward plausible actions before any training has
// occurred: (low, high) regret seed values per edge kind.
func (e Edge) Regret() (float64, float64) {
	switch e.Kind {
	case KindFold:
		return -1, 0
	case KindShove:
		return 0, 1
	default:
		return 0, 0
	}
}
