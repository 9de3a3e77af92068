package edges

import "github.com/lox/holdem-solver/internal/cards"

// MaxDepthSubgame bounds how many edges a Path can hold: 16 edges at 4
// bits (the u8 nibble encoding) each exactly fill one u64.
const MaxDepthSubgame = 16

// Path packs a sequence of up to MaxDepthSubgame edges into a single u64,
// 4 bits per edge (the ToU8 encoding, which fits [1,15]; a zero nibble
// means "no edge", so Path naturally zero-extends).
type Path uint64

// EmptyPath is the zero-length path.
const EmptyPath Path = 0

// Push appends e as the next (oldest-first) edge, returning the new path.
// Pushing past MaxDepthSubgame is an invariant violation: it would silently
// truncate information-set identity.
func (p Path) Push(e Edge) Path {
	n := p.Len()
	if n >= MaxDepthSubgame {
		panic("edges: Path exceeds MaxDepthSubgame")
	}
	return p | Path(uint64(e.ToU8())<<uint(n*4))
}

// Len returns how many edges are packed into p (the first zero nibble ends
// the sequence).
func (p Path) Len() int {
	for i := 0; i < MaxDepthSubgame; i++ {
		if (uint64(p)>>uint(i*4))&0xF == 0 {
			return i
		}
	}
	return MaxDepthSubgame
}

// At returns the i'th edge (0 = oldest).
func (p Path) At(i int) (Edge, bool) {
	if i < 0 || i >= p.Len() {
		return Edge{}, false
	}
	nibble := uint8((uint64(p) >> uint(i*4)) & 0xF)
	return EdgeFromU8(nibble), true
}

// Edges materializes the full forward-ordered edge sequence.
func (p Path) Edges() []Edge {
	n := p.Len()
	out := make([]Edge, n)
	for i := 0; i < n; i++ {
		out[i], _ = p.At(i)
	}
	return out
}

// FromEdges packs a slice of edges (oldest first) into a Path.
func FromEdges(es []Edge) Path {
	p := EmptyPath
	for _, e := range es {
		p = p.Push(e)
	}
	return p
}

// AggressionDepth counts the Raise/Open/Shove edges since the most recent
// chance (Draw) edge, i.e. within the current betting round — the index
// Raises(street, depth) needs.
func (p Path) AggressionDepth() int {
	depth := 0
	edges := p.Edges()
	for i := len(edges) - 1; i >= 0; i-- {
		e := edges[i]
		if e.IsChance() {
			break
		}
		if e.IsAggro() {
			depth++
		}
	}
	return depth
}

// SinceChance returns the suffix of edges after the most recent Draw edge
// (or the whole path if none), oldest-first — the "current betting round"
// slice.
func (p Path) SinceChance() []Edge {
	edges := p.Edges()
	cut := 0
	for i := len(edges) - 1; i >= 0; i-- {
		if edges[i].IsChance() {
			cut = i + 1
			break
		}
	}
	return edges[cut:]
}

// Street infers the current street from how many Draw edges p contains
// (0 draws = preflop, 1 = flop, 2 = turn, 3 = river).
func (p Path) Street() cards.Street {
	draws := 0
	for _, e := range p.Edges() {
		if e.IsChance() {
			draws++
		}
	}
	switch {
	case draws == 0:
		return cards.Preflop
	case draws == 1:
		return cards.Flop
	case draws == 2:
		return cards.Turn
	default:
		return cards.River
	}
}
