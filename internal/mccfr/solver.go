package mccfr

import (
	"math/rand/v2"
	"sync/atomic"
)

// Solver drives MCCFR iterations over a Node/Encoder pair using a selected
// Sampler, RegretSchedule and PolicyWeightSchedule. One iteration samples a
// tree via DFS (Node.Child is called lazily, matching spec.md §4.7's "lazy
// tree construction"), partitions nodes into infosets implicitly through
// the shared RegretTable keyed by Encoder.Info, and applies regret/policy
// updates as it unwinds the recursion.
type Solver struct {
	table          *RegretTable
	encoder        Encoder
	sampler        Sampler
	regretSchedule RegretSchedule
	policySchedule PolicyWeightSchedule
	epoch          atomic.Int64
}

// New builds a Solver around a shared RegretTable so an offline trainer and
// an online worker (internal/worker) can point at the same table.
func New(table *RegretTable, encoder Encoder, sampler Sampler, regretSched RegretSchedule, policySched PolicyWeightSchedule) *Solver {
	return &Solver{table: table, encoder: encoder, sampler: sampler, regretSchedule: regretSched, policySchedule: policySched}
}

// Table exposes the underlying regret/policy table.
func (s *Solver) Table() *RegretTable { return s.table }

// Epoch returns the current training epoch.
func (s *Solver) Epoch() int64 { return s.epoch.Load() }

// Iterate runs one MCCFR iteration for each of the two players as walker,
// both walks starting from the given root (callers pass a freshly dealt
// root each iteration, e.g. encoder.NewRoot over nlhe.Root) and using rng
// for all sampling decisions.
func (s *Solver) Iterate(root Node, rng *rand.Rand) {
	epoch := s.epoch.Add(1)
	for walker := 0; walker < 2; walker++ {
		s.traverse(root, nil, walker, rng, epoch)
	}
}

func (s *Solver) traverse(node Node, history []int, walker int, rng *rand.Rand, epoch int64) float64 {
	switch node.Turn() {
	case TerminalTurn:
		return node.Payoff(walker)
	case ChanceTurn:
		idx, _ := s.sampler.Sample(node, nil, walker, rng)
		total := 0.0
		for _, i := range idx {
			child := node.Child(i)
			v := s.traverse(child, appendCopy(history, i), walker, rng, epoch)
			total += v / float64(len(idx))
		}
		return total
	}

	n := node.Actions()
	key := s.encoder.Info(history, node)
	entry := s.table.Get(key, n)
	strategy := entry.Strategy()

	if node.Turn() == walker {
		values := make([]float64, n)
		nodeValue := 0.0
		for a := 0; a < n; a++ {
			values[a] = s.traverse(node.Child(a), appendCopy(history, a), walker, rng, epoch)
			nodeValue += strategy[a] * values[a]
		}
		regretDeltas := make([]float64, n)
		for a := 0; a < n; a++ {
			regretDeltas[a] = values[a] - nodeValue
		}
		entry.Update(regretDeltas, strategy, nodeValue, epoch, s.regretSchedule, s.policySchedule)
		return nodeValue
	}

	idx, q := s.sampler.Sample(node, strategy, walker, rng)
	total := 0.0
	for k, a := range idx {
		weight := strategy[a] / q[k]
		total += weight * s.traverse(node.Child(a), appendCopy(history, a), walker, rng, epoch)
	}
	return total
}

func appendCopy(history []int, next int) []int {
	out := make([]int, len(history)+1)
	copy(out, history)
	out[len(history)] = next
	return out
}
