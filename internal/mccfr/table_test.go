package mccfr_test

import (
	"sync"
	"testing"

	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegretEntryStrategyUniformWhenNoRegret(t *testing.T) {
	table := mccfr.NewRegretTable()
	entry := table.Get("root", 3)

	strategy := entry.Strategy()
	require.Len(t, strategy, 3)
	sum := 0.0
	for _, p := range strategy {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestRegretEntryUpdateAccumulatesAndNormalizes(t *testing.T) {
	table := mccfr.NewRegretTable()
	entry := table.Get("root", 2)

	entry.Update([]float64{2, -1}, []float64{0.5, 0.5}, 0.25, 1, mccfr.VanillaRegret{}, mccfr.ConstantPolicy{})
	strategy := entry.Strategy()
	assert.InDelta(t, 1.0, strategy[0], 1e-9)
	assert.InDelta(t, 0.0, strategy[1], 1e-9)

	entry.Update([]float64{-5, 1}, []float64{0.5, 0.5}, 0.75, 2, mccfr.CFRPlusRegret{}, mccfr.ConstantPolicy{})
	// CFR+ floors the old positive regret (2) at itself (already >=0), then
	// adds the new negative delta: max(0,2) + (-5) = -3 for action 0.
	strategy = entry.Strategy()
	assert.InDelta(t, 0.0, strategy[0], 1e-9)
	assert.InDelta(t, 1.0, strategy[1], 1e-9)

	avg := entry.AverageStrategy()
	assert.InDelta(t, 0.5, avg[0], 1e-9)
	assert.InDelta(t, 0.5, avg[1], 1e-9)
	assert.EqualValues(t, 2, entry.Visits)
	assert.InDelta(t, 1.0, entry.EvalueSum, 1e-9)
}

func TestRegretTableGetIsConcurrencySafe(t *testing.T) {
	table := mccfr.NewRegretTable()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := table.Get("shared", 4)
			entry.Update([]float64{1, 0, 0, 0}, []float64{1, 0, 0, 0}, 1, int64(i+1), mccfr.VanillaRegret{}, mccfr.ConstantPolicy{})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, table.Size())
	entry := table.Get("shared", 4)
	assert.EqualValues(t, 64, entry.Visits)
}

func TestDiscountedRegretAppliesDecayOnPeriodBoundary(t *testing.T) {
	sched := mccfr.DiscountedRegret{Alpha: 1, Beta: 1, Period: 1}
	// positive old regret decays by t/(t+1) at epoch t before delta is added
	got := sched.Update(10, 0, 2)
	assert.InDelta(t, 10*2.0/3.0, got, 1e-9)
}

func TestLinearPolicyWeightsByEpoch(t *testing.T) {
	sched := mccfr.LinearPolicy{}
	got := sched.Update(1, 2, 5)
	assert.InDelta(t, 1+5*2, got, 1e-9)
}

func TestPlainEncoderDistinguishesHistories(t *testing.T) {
	enc := mccfr.PlainEncoder{}
	a := enc.Info([]int{0, 1}, fakeNode{turn: 0})
	b := enc.Info([]int{1, 0}, fakeNode{turn: 0})
	assert.NotEqual(t, a, b)
}

type fakeNode struct{ turn int }

func (f fakeNode) Turn() int             { return f.turn }
func (f fakeNode) Actions() int          { return 0 }
func (f fakeNode) Child(int) mccfr.Node  { return nil }
func (f fakeNode) Payoff(int) float64    { return 0 }
