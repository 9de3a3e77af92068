package mccfr

import (
	"hash/fnv"
	"math"
	"sync"
)

// RegretEntry is the strategy-profile slice for one Info: accumulated
// regret and accumulated policy weight per outgoing edge, plus visit count
// and (for depth-limited search) an accumulated expected value. Grounded on
// the teacher's sdk/solver/regret.go RegretEntry, generalized from a fixed
// solver.InfoSetKey to an arbitrary comparable Info.
type RegretEntry struct {
	mu         sync.Mutex
	RegretSum  []float64
	PolicySum  []float64
	EvalueSum  float64
	Visits     uint32
}

func newRegretEntry(n int) *RegretEntry {
	return &RegretEntry{RegretSum: make([]float64, n), PolicySum: make([]float64, n)}
}

func (e *RegretEntry) ensureSize(n int) {
	for len(e.RegretSum) < n {
		e.RegretSum = append(e.RegretSum, 0)
		e.PolicySum = append(e.PolicySum, 0)
	}
}

// Strategy returns the regret-matching policy vector: positive regrets
// normalized to sum to 1, or uniform if no regret is positive.
func (e *RegretEntry) Strategy() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strategyLocked()
}

func (e *RegretEntry) strategyLocked() []float64 {
	n := len(e.RegretSum)
	out := make([]float64, n)
	total := 0.0
	for i, r := range e.RegretSum {
		if r > 0 {
			out[i] = r
			total += r
		}
	}
	if total <= 0 {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// Regrets returns a snapshot of the raw accumulated regret per edge, the
// blueprint table's R column (spec.md §3), as opposed to Strategy's
// regret-matched normalization of it.
func (e *RegretEntry) Regrets() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]float64, len(e.RegretSum))
	copy(out, e.RegretSum)
	return out
}

// AverageStrategy returns the time-averaged policy from PolicySum.
func (e *RegretEntry) AverageStrategy() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.PolicySum)
	out := make([]float64, n)
	total := 0.0
	for _, w := range e.PolicySum {
		total += w
	}
	if total <= 0 {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i, w := range e.PolicySum {
		out[i] = math.Max(w, 0) / total
	}
	return out
}

// Update applies one iteration's regret deltas and policy mass using the
// configured schedules, accumulates nodeValue into EvalueSum (spec.md
// §4.7 step 5's per-infoset V, averaged by EvalueSum/Visits for the
// depth-limited frontier lookup in internal/subgame), then bumps the
// visit counter.
func (e *RegretEntry) Update(regretDeltas []float64, policy []float64, nodeValue float64, epoch int64, regretSched RegretSchedule, policySched PolicyWeightSchedule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureSize(len(regretDeltas))
	for i, d := range regretDeltas {
		e.RegretSum[i] = regretSched.Update(e.RegretSum[i], d, epoch)
	}
	for i, m := range policy {
		e.PolicySum[i] = policySched.Update(e.PolicySum[i], m, epoch)
	}
	e.EvalueSum += nodeValue
	e.Visits++
}

const regretTableShardCount = 64

type regretShard struct {
	mu      sync.RWMutex
	entries map[string]*RegretEntry
}

// RegretTable is a sharded concurrent map from Info key to RegretEntry,
// grounded directly on the teacher's sdk/solver/regret.go RegretTable
// (64 shards, FNV-1a hash, double-checked-locking Get).
type RegretTable struct {
	shards [regretTableShardCount]*regretShard
}

// NewRegretTable allocates an empty sharded table.
func NewRegretTable() *RegretTable {
	t := &RegretTable{}
	for i := range t.shards {
		t.shards[i] = &regretShard{entries: make(map[string]*RegretEntry)}
	}
	return t
}

func hashKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

func (t *RegretTable) shardFor(key string) *regretShard {
	return t.shards[hashKey(key)&(regretTableShardCount-1)]
}

// Get returns the entry for key, creating one sized for nActions if absent.
func (t *RegretTable) Get(key string, nActions int) *RegretEntry {
	shard := t.shardFor(key)
	shard.mu.RLock()
	entry, ok := shard.entries[key]
	shard.mu.RUnlock()
	if ok {
		entry.lockedEnsureSize(nActions)
		return entry
	}
	shard.mu.Lock()
	defer shard.mu.Unlock()
	entry, ok = shard.entries[key]
	if !ok {
		entry = newRegretEntry(nActions)
		shard.entries[key] = entry
	}
	entry.lockedEnsureSize(nActions)
	return entry
}

func (e *RegretEntry) lockedEnsureSize(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureSize(n)
}

// Load installs a pre-existing regret/policy-weight pair for key, replacing
// whatever is already stored, the same direct-assignment restore the
// teacher's checkpoint loader uses rather than replaying Update through a
// schedule. Used to rebuild a table from a saved blueprint artifact.
func (t *RegretTable) Load(key string, regretSum, policySum []float64) *RegretEntry {
	entry := t.Get(key, len(regretSum))
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.RegretSum = regretSum
	entry.PolicySum = policySum
	return entry
}

// Entries returns a snapshot of every (key, entry) pair across all shards.
func (t *RegretTable) Entries() map[string]*RegretEntry {
	out := make(map[string]*RegretEntry)
	for _, shard := range t.shards {
		shard.mu.RLock()
		for k, v := range shard.entries {
			out[k] = v
		}
		shard.mu.RUnlock()
	}
	return out
}

// Size returns the total number of distinct Info keys tracked.
func (t *RegretTable) Size() int {
	n := 0
	for _, shard := range t.shards {
		shard.mu.RLock()
		n += len(shard.entries)
		shard.mu.RUnlock()
	}
	return n
}
