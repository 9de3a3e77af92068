package cards

import "sort"

// Observation is a player's view of the game on some street: their hole
// cards plus whatever board cards are visible.
type Observation struct {
	Street Street
	Hole   Hand
	Board  Hand
}

// suitPermutations enumerates all 4! permutations of the four suits, with
// the identity permutation first.
var suitPermutations = buildSuitPermutations()

func buildSuitPermutations() [][4]Suit {
	base := [4]Suit{Clubs, Diamonds, Hearts, Spades}
	var perms [][4]Suit
	var permute func(prefix []Suit, remaining []Suit)
	permute = func(prefix []Suit, remaining []Suit) {
		if len(remaining) == 0 {
			var p [4]Suit
			copy(p[:], prefix)
			perms = append(perms, p)
			return
		}
		for i, s := range remaining {
			next := append(append([]Suit{}, remaining[:i]...), remaining[i+1:]...)
			permute(append(prefix, s), next)
		}
	}
	permute(nil, base[:])
	// stable-sort so the identity permutation (Clubs,Diamonds,Hearts,Spades)
	// is first, giving canonicalization a deterministic starting point.
	sort.SliceStable(perms, func(i, j int) bool {
		return perms[i] == base
	})
	return perms
}

func applyPermutation(h Hand, perm [4]Suit) Hand {
	var out Hand
	for _, c := range h.Cards() {
		out = out.AddCard(NewCard(c.Rank(), perm[int(c.Suit())]))
	}
	return out
}

// signature produces an order-independent key for a hand, used to compare
// candidate canonical forms.
func signature(h Hand) uint64 {
	return uint64(h)
}

// Isomorphism is the canonical representative of an Observation's orbit
// under suit permutation. Its dense index within a street is not stored
// here; a Registry assigns it.
type Isomorphism struct {
	Canonical Observation
}

// From canonicalizes obs: of the 24 suit permutations, it picks the one
// that produces the lexicographically smallest (hole_signature,
// board_signature) pair. This total order makes canonicalization a pure
// function of the observation, so two observations are isomorphic iff
// From produces equal results.
func From(obs Observation) Isomorphism {
	best := Observation{Street: obs.Street}
	bestSet := false
	for _, perm := range suitPermutations {
		cand := Observation{
			Street: obs.Street,
			Hole:   applyPermutation(obs.Hole, perm),
			Board:  applyPermutation(obs.Board, perm),
		}
		if !bestSet {
			best = cand
			bestSet = true
			continue
		}
		if signature(cand.Hole) < signature(best.Hole) ||
			(signature(cand.Hole) == signature(best.Hole) && signature(cand.Board) < signature(best.Board)) {
			best = cand
		}
	}
	return Isomorphism{Canonical: best}
}

// Idempotent reports whether re-canonicalizing the canonical form is a
// no-op, the invariant spec.md §4.1 and §8 require.
func (iso Isomorphism) Idempotent() bool {
	return From(iso.Canonical) == iso
}

// Key returns a value usable as a map key uniquely identifying the orbit.
func (iso Isomorphism) Key() [2]Hand {
	return [2]Hand{iso.Canonical.Hole, iso.Canonical.Board}
}

// Registry assigns a dense, stable integer index to each canonical
// observation it has seen, in first-seen order. The abstraction pipeline
// populates a street's registry by interning its enumerated observations
// in enumeration order before anything reads indices from it: every class
// once in deal-ordinal order for the exhaustively enumerated streets, and
// only the classes the random sample hits, in sample order, for the
// sampled streets.
type Registry struct {
	index map[[2]Hand]int64
	order [][2]Hand
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[[2]Hand]int64)}
}

// Intern returns the dense index for iso, assigning the next index the
// first time it is seen.
func (r *Registry) Intern(iso Isomorphism) int64 {
	k := iso.Key()
	if idx, ok := r.index[k]; ok {
		return idx
	}
	idx := int64(len(r.order))
	r.index[k] = idx
	r.order = append(r.order, k)
	return idx
}

// Lookup returns the index for iso without assigning one.
func (r *Registry) Lookup(iso Isomorphism) (int64, bool) {
	idx, ok := r.index[iso.Key()]
	return idx, ok
}

// Len reports how many distinct orbits have been interned.
func (r *Registry) Len() int {
	return len(r.order)
}

// At returns the canonical key interned at position idx.
func (r *Registry) At(idx int64) ([2]Hand, bool) {
	if idx < 0 || int(idx) >= len(r.order) {
		return [2]Hand{}, false
	}
	return r.order[idx], true
}
