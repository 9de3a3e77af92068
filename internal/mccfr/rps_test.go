package mccfr_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/randutil"
	"github.com/stretchr/testify/assert"
)

// rpsNode implements mccfr.Node for asymmetric Rock-Paper-Scissors, where a
// win involving Scissors pays double. This is the test harness spec.md
// §8 calls out; it is not a deliverable in its own right, only a way to
// check the generic solver converges to a known equilibrium.
type rpsNode struct {
	p0, p1 int // -1 until chosen
}

const (
	rock = iota
	paper
	scissors
)

func (n *rpsNode) Turn() int {
	if n.p1 >= 0 {
		return mccfr.TerminalTurn
	}
	if n.p0 >= 0 {
		return 1
	}
	return 0
}

func (n *rpsNode) Actions() int {
	if n.Turn() == mccfr.TerminalTurn {
		return 0
	}
	return 3
}

func (n *rpsNode) Child(i int) mccfr.Node {
	if n.p0 < 0 {
		return &rpsNode{p0: i, p1: -1}
	}
	return &rpsNode{p0: n.p0, p1: i}
}

func (n *rpsNode) Payoff(player int) float64 {
	v := rpsPayoff(n.p0, n.p1)
	if player == 1 {
		return -v
	}
	return v
}

// rpsPayoff returns player 0's payoff: standard 1 for a win, except
// Rock beating Scissors and Scissors beating Paper pay 2, which shifts the
// equilibrium from uniform play to Rock 0.4, Paper 0.4, Scissors 0.2.
func rpsPayoff(p0, p1 int) float64 {
	if p0 == p1 {
		return 0
	}
	beats := map[[2]int]float64{
		{rock, scissors}:   2,
		{paper, rock}:      1,
		{scissors, paper}:  2,
		{scissors, rock}:   -2,
		{rock, paper}:      -1,
		{paper, scissors}:  -2,
	}
	return beats[[2]int{p0, p1}]
}

// rpsEncoder gives player 1's node the same Info regardless of player 0's
// hidden move, the structural trick that models a simultaneous-move game
// inside a sequential CFR tree.
type rpsEncoder struct{}

func (rpsEncoder) Info(history []int, node mccfr.Node) string {
	if node.Turn() == 1 {
		return "p1"
	}
	return "p0"
}

func TestMCCFRConvergesOnAsymmetricRPS(t *testing.T) {
	table := mccfr.NewRegretTable()
	solver := mccfr.New(table, rpsEncoder{}, mccfr.ExternalSampler{}, mccfr.CFRPlusRegret{}, mccfr.LinearPolicy{})
	rng := randutil.New(7)

	const iterations = 1 << 14
	for i := 0; i < iterations; i++ {
		solver.Iterate(&rpsNode{p0: -1, p1: -1}, rng)
	}

	entries := table.Entries()
	p0Strategy := entries["p0"].AverageStrategy()
	p1Strategy := entries["p1"].AverageStrategy()

	expected := []float64{0.4, 0.4, 0.2}
	for i, want := range expected {
		assert.InDelta(t, want, p0Strategy[i], 0.05, "p0 action %d", i)
		assert.InDelta(t, want, p1Strategy[i], 0.05, "p1 action %d", i)
	}
}

func TestExploitabilityDecreasesWithTraining(t *testing.T) {
	table := mccfr.NewRegretTable()
	solver := mccfr.New(table, rpsEncoder{}, mccfr.ExternalSampler{}, mccfr.CFRPlusRegret{}, mccfr.LinearPolicy{})
	rng := randutil.New(9)

	run := func(n int) float64 {
		for i := 0; i < n; i++ {
			solver.Iterate(&rpsNode{p0: -1, p1: -1}, rng)
		}
		return mccfr.Exploitability(table, rpsEncoder{}, &rpsNode{p0: -1, p1: -1})
	}

	early := run(1 << 10)
	late := run(1 << 12) // additional iterations on top of early's table
	assert.Less(t, late, early)
}
