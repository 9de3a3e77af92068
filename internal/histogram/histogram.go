// Package histogram implements the fixed-size bucket distributions used by
// the abstraction pipeline, plus the Sinkhorn approximation of Earth
// Mover's Distance and the symmetric abstraction-to-abstraction Metric
// table.
package histogram

import "fmt"

// Histogram is a dense distribution over a street's next-street bucket
// indices. Counts are float64 in-memory (the spec's learned quantities are
// f32, but wider intermediate precision avoids Sinkhorn instability; values
// are narrowed to f32 only when persisted, see internal/artifact).
type Histogram struct {
	counts []float64
	total  float64
}

// New allocates a zeroed histogram over n buckets.
func New(n int) *Histogram {
	return &Histogram{counts: make([]float64, n)}
}

// Set assigns the count for abstraction bucket a, adjusting the running
// total weight.
func (h *Histogram) Set(a int, count float64) {
	h.total += count - h.counts[a]
	h.counts[a] = count
}

// Get returns the count for bucket a.
func (h *Histogram) Get(a int) float64 {
	return h.counts[a]
}

// Add increments bucket a's count by delta.
func (h *Histogram) Add(a int, delta float64) {
	h.counts[a] += delta
	h.total += delta
}

// Len returns the number of buckets N.
func (h *Histogram) Len() int {
	return len(h.counts)
}

// TotalWeight returns the sum of all counts; for a histogram built by
// tallying child observations it equals the number of children.
func (h *Histogram) TotalWeight() float64 {
	return h.total
}

// Density returns the normalized distribution (counts / total), or a
// uniform distribution if the histogram is empty.
func (h *Histogram) Density() []float64 {
	out := make([]float64, len(h.counts))
	if h.total <= 0 {
		uniform := 1.0 / float64(len(h.counts))
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i, c := range h.counts {
		out[i] = c / h.total
	}
	return out
}

// Support returns the indices of buckets with non-zero count.
func (h *Histogram) Support() []int {
	var out []int
	for i, c := range h.counts {
		if c != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Merge adds o's counts into h in place. h and o must share Len().
func (h *Histogram) Merge(o *Histogram) {
	if len(h.counts) != len(o.counts) {
		panic(fmt.Sprintf("histogram: merge size mismatch %d != %d", len(h.counts), len(o.counts)))
	}
	for i, c := range o.counts {
		h.counts[i] += c
	}
	h.total += o.total
}

// Peek returns a read-only view of the raw counts.
func (h *Histogram) Peek() []float64 {
	return h.counts
}

// Equity treats h as a river (binary win/loss) accumulator and returns the
// fraction of weight in the winning bucket (bucket 1 by convention: 0=loss,
// 1=win; ties contribute half a unit to each side by the caller).
func (h *Histogram) Equity() float64 {
	if h.total <= 0 || len(h.counts) < 2 {
		return 0
	}
	return h.counts[1] / h.total
}

// Clone returns an independent copy.
func (h *Histogram) Clone() *Histogram {
	c := &Histogram{counts: make([]float64, len(h.counts)), total: h.total}
	copy(c.counts, h.counts)
	return c
}
