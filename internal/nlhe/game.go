// Package nlhe implements heads-up No-Limit Hold'em game state: stacks,
// pot, board, turn order, legal-action enumeration, apply, and showdown
// settlement via internal/evaluate.
package nlhe

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/evaluate"
)

// SeatState is a seat's status within the current hand.
type SeatState int

const (
	Betting SeatState = iota
	Folding
	Shoving
)

// Seat holds one player's per-hand state.
type Seat struct {
	Hole         cards.Hand
	State        SeatState
	Stack        int
	StreetStake  int // chips committed this street, reset on Draw
	Spent        int // chips committed this hand, cumulative
	ActedThisRound bool
}

// Turn identifies who (or what) acts next.
type Turn int

const (
	TurnChance Turn = -2
	TurnTerminal Turn = -1
	// TurnChoice(seat) encodes as the seat index, 0 or 1.
)

// Config bundles the hand parameters that don't change node to node.
type Config struct {
	SmallBlind    int
	BigBlind      int
	StartingStack int
}

// Game is an immutable heads-up NLHE node. Apply returns a new Game; the
// zero value is never a valid Game (use Root).
type Game struct {
	cfg      Config
	Pot      int
	Board    cards.Hand
	Seats    [2]Seat
	Dealer   int
	Ticker   int
	Street   cards.Street
	deck     *cards.Deck
	lastRaiseTo int
	// RaiseDepth counts raises (Raise or Shove) taken in the current
	// betting round, reset to 0 on each Draw. The internal/encoder package
	// uses it to index edges.Raises(street, depth) when discretizing the
	// abstract raise grid against this concrete game.
	RaiseDepth int
}

// Root starts a new hand: blinds posted, hole cards dealt, dealer acts
// first preflop (heads-up convention: the dealer posts the small blind and
// acts first preflop).
func Root(cfg Config, dealer int, rng *rand.Rand) *Game {
	deck := cards.NewDeck(rng)
	g := &Game{cfg: cfg, Dealer: dealer, Street: cards.Preflop, deck: deck}
	for i := range g.Seats {
		g.Seats[i].Stack = cfg.StartingStack
		g.Seats[i].Hole = cards.NewHand(deck.Deal(2)...)
	}
	sbSeat := dealer
	bbSeat := 1 - dealer
	g.postBlind(sbSeat, cfg.SmallBlind)
	g.postBlind(bbSeat, cfg.BigBlind)
	g.lastRaiseTo = cfg.BigBlind
	return g
}

func (g *Game) postBlind(seat, amount int) {
	if amount > g.Seats[seat].Stack {
		amount = g.Seats[seat].Stack
		g.Seats[seat].State = Shoving
	}
	g.Seats[seat].Stack -= amount
	g.Seats[seat].StreetStake += amount
	g.Seats[seat].Spent += amount
	g.Pot += amount
}

// clone copies the Game together with its deck, so a Draw applied to the
// copy advances only the copy's deal cursor and never the original's.
func (g *Game) clone() *Game {
	c := *g
	if g.deck != nil {
		d := *g.deck
		c.deck = &d
	}
	return &c
}

// Actor returns the seat whose turn it is, or a pseudo-turn for chance and
// terminal nodes.
func (g *Game) Actor() Turn {
	if g.IsTerminal() {
		return TurnTerminal
	}
	if g.isChanceNode() {
		return TurnChance
	}
	return Turn(g.actorSeat())
}

func (g *Game) actorSeat() int {
	// Preflop: dealer (small blind) acts first. Postflop: non-dealer acts
	// first. Ticker parity within a betting round alternates actors.
	first := g.Dealer
	if g.Street != cards.Preflop {
		first = 1 - g.Dealer
	}
	if g.Ticker%2 == 0 {
		return first
	}
	return 1 - first
}

func (g *Game) liveSeats() int {
	n := 0
	for _, s := range g.Seats {
		if s.State != Folding {
			n++
		}
	}
	return n
}

// IsTerminal reports whether the hand is over: one player folded, or we are
// on the river with betting matched (or both shoved).
func (g *Game) IsTerminal() bool {
	if g.liveSeats() <= 1 {
		return true
	}
	if !g.bettingMatched() {
		return false
	}
	if g.bothShoving() {
		return true
	}
	return g.Street == cards.River
}

func (g *Game) bothShoving() bool {
	return g.Seats[0].State == Shoving && g.Seats[1].State == Shoving
}

func (g *Game) bettingMatched() bool {
	if g.Seats[0].StreetStake != g.Seats[1].StreetStake {
		return false
	}
	return g.Seats[0].ActedThisRound && g.Seats[1].ActedThisRound
}

func (g *Game) isChanceNode() bool {
	return g.liveSeats() == 2 && g.bettingMatched() && !g.bothShoving() && g.Street != cards.River
}

// Legal enumerates the actions available to the acting player. It is empty
// iff Actor() == TurnTerminal, and contains exactly Draw iff Actor() ==
// TurnChance.
func (g *Game) Legal() []Action {
	switch {
	case g.IsTerminal():
		return nil
	case g.isChanceNode():
		return []Action{{Kind: ActionDraw}}
	}
	seat := g.actorSeat()
	opp := 1 - seat
	toCall := g.Seats[opp].StreetStake - g.Seats[seat].StreetStake

	var out []Action
	if toCall > 0 {
		out = append(out, Action{Kind: ActionFold})
	}
	if toCall == 0 {
		out = append(out, Action{Kind: ActionCheck})
	} else {
		callAmt := toCall
		if callAmt > g.Seats[seat].Stack {
			callAmt = g.Seats[seat].Stack
		}
		out = append(out, Action{Kind: ActionCall, Amount: callAmt})
	}

	maxRaiseTo := g.Seats[seat].StreetStake + g.Seats[seat].Stack
	minRaiseTo := g.lastRaiseTo + (g.lastRaiseTo - g.minRaiseBase())
	if minRaiseTo < g.cfg.BigBlind {
		minRaiseTo = g.cfg.BigBlind
	}
	if g.Seats[seat].Stack > toCall && maxRaiseTo > g.lastRaiseTo {
		if minRaiseTo < maxRaiseTo {
			out = append(out, Action{Kind: ActionRaise, Amount: minRaiseTo})
		}
		out = append(out, Action{Kind: ActionShove, Amount: maxRaiseTo})
	}
	return out
}

func (g *Game) minRaiseBase() int {
	if g.lastRaiseTo == g.cfg.BigBlind {
		return 0
	}
	return g.cfg.BigBlind
}

// Apply returns the Game resulting from the acting player (or chance)
// taking action a. It panics if a is not in Legal() — applying an illegal
// action is a programmer error (spec.md §7 invariant-violation class).
func (g *Game) Apply(a Action) *Game {
	if g.isChanceNode() {
		if a.Kind != ActionDraw {
			panic("nlhe: only Draw is legal at a chance node")
		}
		return g.applyDraw()
	}
	seat := g.actorSeat()
	next := g.clone()
	switch a.Kind {
	case ActionFold:
		next.Seats[seat].State = Folding
	case ActionCheck:
		next.Seats[seat].ActedThisRound = true
	case ActionCall:
		next.commit(seat, a.Amount)
		next.Seats[seat].ActedThisRound = true
	case ActionRaise:
		delta := a.Amount - next.Seats[seat].StreetStake
		next.commit(seat, delta)
		next.lastRaiseTo = a.Amount
		next.RaiseDepth++
		next.Seats[seat].ActedThisRound = true
		next.Seats[1-seat].ActedThisRound = false
	case ActionShove:
		delta := a.Amount - next.Seats[seat].StreetStake
		next.commit(seat, delta)
		next.Seats[seat].State = Shoving
		next.lastRaiseTo = a.Amount
		next.RaiseDepth++
		next.Seats[seat].ActedThisRound = true
		next.Seats[1-seat].ActedThisRound = false
	default:
		panic(fmt.Sprintf("nlhe: invalid action kind %d", a.Kind))
	}
	next.Ticker++
	return next
}

func (g *Game) commit(seat, amount int) {
	if amount > g.Seats[seat].Stack {
		amount = g.Seats[seat].Stack
	}
	g.Seats[seat].Stack -= amount
	g.Seats[seat].StreetStake += amount
	g.Seats[seat].Spent += amount
	g.Pot += amount
}

func (g *Game) applyDraw() *Game {
	next := g.clone()
	street, ok := g.Street.Next()
	if !ok {
		panic("nlhe: cannot Draw past the river")
	}
	next.Street = street
	n := street.RevealedThisStreet()
	next.Board = addAll(next.Board, next.deck.Deal(n)...)
	for i := range next.Seats {
		next.Seats[i].StreetStake = 0
		next.Seats[i].ActedThisRound = false
	}
	next.lastRaiseTo = 0
	next.RaiseDepth = 0
	next.Ticker = 0
	return next
}

// ActingSeat exposes the seat whose turn it is; callers must first check
// Actor() is a concrete seat (not chance or terminal).
func (g *Game) ActingSeat() int { return g.actorSeat() }

// ToCall returns the chips the acting seat must add to match the opponent's
// street stake (0 if already matched).
func (g *Game) ToCall() int {
	seat := g.actorSeat()
	opp := 1 - seat
	toCall := g.Seats[opp].StreetStake - g.Seats[seat].StreetStake
	if toCall < 0 {
		return 0
	}
	return toCall
}

// BigBlind returns the hand's big blind size.
func (g *Game) BigBlind() int { return g.cfg.BigBlind }

// MaxRaiseTo returns the acting seat's all-in raise-to target.
func (g *Game) MaxRaiseTo() int {
	seat := g.actorSeat()
	return g.Seats[seat].StreetStake + g.Seats[seat].Stack
}

// addAll folds AddCard over a freshly dealt batch.
func addAll(h cards.Hand, cs ...cards.Card) cards.Hand {
	for _, c := range cs {
		h = h.AddCard(c)
	}
	return h
}
