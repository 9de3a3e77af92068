package cards

import "fmt"

// Street is a betting round.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return fmt.Sprintf("street(%d)", int(s))
	}
}

// Next returns the following street and whether one exists (River has none).
func (s Street) Next() (Street, bool) {
	if s == River {
		return s, false
	}
	return s + 1, true
}

// streetConstants holds the per-street sizing the abstraction pipeline and
// the encoder depend on. These numbers are part of the specification: they
// fix how many isomorphism classes exist on each street (the canonical
// counts for heads-up Hold'em abstraction) and how many buckets the
// abstraction layer targets by default.
type streetConstants struct {
	revealedThisStreet int
	observedSoFar      int
	isomorphicCount    int64
	defaultBuckets     int
}

var streetTable = [4]streetConstants{
	Preflop: {revealedThisStreet: 2, observedSoFar: 2, isomorphicCount: 169, defaultBuckets: 169},
	Flop:    {revealedThisStreet: 3, observedSoFar: 5, isomorphicCount: 1286792, defaultBuckets: 200},
	Turn:    {revealedThisStreet: 1, observedSoFar: 6, isomorphicCount: 55190538, defaultBuckets: 200},
	River:   {revealedThisStreet: 1, observedSoFar: 7, isomorphicCount: 2428287420, defaultBuckets: 50},
}

// RevealedThisStreet is how many new board cards are dealt entering s
// (2 for preflop's hole cards, 3/1/1 for flop/turn/river boards).
func (s Street) RevealedThisStreet() int { return streetTable[s].revealedThisStreet }

// ObservedSoFar is the total number of cards (hole+board) visible on s.
func (s Street) ObservedSoFar() int { return streetTable[s].observedSoFar }

// IsomorphicObservations is the total count of canonical observation orbits
// on s under suit-permutation symmetry.
func (s Street) IsomorphicObservations() int64 { return streetTable[s].isomorphicCount }

// DefaultBucketCount is the abstraction layer's default bucket target for s.
func (s Street) DefaultBucketCount() int { return streetTable[s].defaultBuckets }
