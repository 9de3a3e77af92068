package abstraction

import (
	"context"
	"runtime"

	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/evaluate"
	"golang.org/x/sync/errgroup"
)

// RiverEquity is hero's win probability at showdown for a fully dealt hand
// against a uniformly random opponent holding, averaged over every
// opponent combo from the remaining deck. Grounded on the teacher's
// internal/evaluator/equity.go Monte Carlo estimator, made exhaustive
// here since a river observation has no more cards left to sample over a
// board, only the opponent's hidden two.
func RiverEquity(hero cards.Hand, board cards.Hand) float64 {
	used := hero.Union(board)
	remaining := used.Complement().Cards()

	heroCards := append(append([]cards.Card{}, hero.Cards()...), board.Cards()...)
	heroHand := cards.NewHand(heroCards...)
	heroStrength := evaluate.Evaluate7(heroHand)

	wins, ties, total := 0, 0, 0
	for i := 0; i < len(remaining); i++ {
		for j := i + 1; j < len(remaining); j++ {
			oppHand := cards.NewHand(remaining[i], remaining[j], board.Cards()[0], board.Cards()[1], board.Cards()[2], board.Cards()[3], board.Cards()[4])
			oppStrength := evaluate.Evaluate7(oppHand)
			switch {
			case heroStrength > oppStrength:
				wins++
			case heroStrength == oppStrength:
				ties++
			}
			total++
		}
	}
	if total == 0 {
		return 0.5
	}
	return (float64(wins) + float64(ties)/2) / float64(total)
}

// BatchRiverEquity computes RiverEquity for every observation in obs,
// fanning the exhaustive opponent enumeration out across a bounded worker
// pool, the same min(8, NumCPU) cap the teacher's equity estimator uses.
func BatchRiverEquity(ctx context.Context, obs []cards.Observation) ([]float64, error) {
	out := make([]float64, len(obs))
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range obs {
		i := i
		g.Go(func() error {
			out[i] = RiverEquity(obs[i].Hole, obs[i].Board)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EquityBucket maps equity in [0,1] to one of n uniform-width bins.
func EquityBucket(equity float64, n int) int32 {
	if equity >= 1 {
		return int32(n - 1)
	}
	if equity < 0 {
		equity = 0
	}
	b := int(equity * float64(n))
	if b >= n {
		b = n - 1
	}
	return int32(b)
}
