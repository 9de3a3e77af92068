package mccfr

import "math/rand/v2"

// Sampler selects which of a node's outgoing branches to explore during one
// iteration, given the current average strategy at that node (nil at
// chance nodes) and which player is the walker this iteration. It returns
// the chosen branch indices and each one's sampling probability q(a),
// needed for importance-weighted reach correction.
type Sampler interface {
	Sample(node Node, strategy []float64, walker int, rng *rand.Rand) (indices []int, q []float64)
}

// VanillaSampler explores every branch with probability 1.
type VanillaSampler struct{}

func (VanillaSampler) Sample(node Node, _ []float64, _ int, _ *rand.Rand) ([]int, []float64) {
	n := node.Actions()
	idx := make([]int, n)
	q := make([]float64, n)
	for i := range idx {
		idx[i] = i
		q[i] = 1
	}
	return idx, q
}

// ExternalSampler keeps every branch at the walker's own nodes, samples one
// branch proportional to the current strategy at opponent nodes, and
// samples one branch uniformly at chance nodes.
type ExternalSampler struct{}

func (ExternalSampler) Sample(node Node, strategy []float64, walker int, rng *rand.Rand) ([]int, []float64) {
	n := node.Actions()
	if node.Turn() == walker {
		idx := make([]int, n)
		q := make([]float64, n)
		for i := range idx {
			idx[i] = i
			q[i] = 1
		}
		return idx, q
	}
	if node.Turn() == ChanceTurn {
		i := rng.IntN(n)
		return []int{i}, []float64{1.0 / float64(n)}
	}
	i := sampleIndex(strategy, rng)
	return []int{i}, []float64{strategy[i]}
}

// sampleIndex performs roulette-wheel sampling over a probability vector,
// falling back to a uniform draw if it is degenerate.
func sampleIndex(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.IntN(len(weights))
	}
	target := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if acc >= target {
			return i
		}
	}
	return len(weights) - 1
}

// PluribusSampler samples exactly as ExternalSampler does. Its
// WarmupEpochs, PruneThresh and PruneProb fields are not read, and no
// edge is ever pruned for negative accumulated regret.
type PluribusSampler struct {
	WarmupEpochs int64
	PruneThresh  float64
	PruneProb    float64
}

func (p PluribusSampler) Sample(node Node, strategy []float64, walker int, rng *rand.Rand) ([]int, []float64) {
	return ExternalSampler{}.Sample(node, strategy, walker, rng)
}

// TargetedSampler biases opponent sampling toward a specific target infoset
// by preferring the branch whose index matches Target when present.
type TargetedSampler struct {
	Target int
}

func (t TargetedSampler) Sample(node Node, strategy []float64, walker int, rng *rand.Rand) ([]int, []float64) {
	if node.Turn() == walker || node.Turn() == ChanceTurn {
		return ExternalSampler{}.Sample(node, strategy, walker, rng)
	}
	if t.Target >= 0 && t.Target < node.Actions() {
		return []int{t.Target}, []float64{1}
	}
	return ExternalSampler{}.Sample(node, strategy, walker, rng)
}
