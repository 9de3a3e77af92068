package histogram

import "math"

// Metric stores a symmetric, non-negative distance over a street's
// abstraction buckets as an upper-triangular table keyed by an
// order-insensitive, row-major pair index (TriIndex). The on-disk "tri"
// column uses a different packing, artifact.PairIndex.
type Metric struct {
	n    int
	dist []float32
}

// NewMetric allocates a metric table over n buckets.
func NewMetric(n int) *Metric {
	return &Metric{n: n, dist: make([]float32, triSize(n))}
}

func triSize(n int) int {
	if n <= 1 {
		return 0
	}
	return n * (n - 1) / 2
}

// TriIndex returns the order-insensitive pair index for (i, j), i != j.
func TriIndex(n, i, j int) int {
	if i == j {
		panic("histogram: TriIndex requires distinct indices")
	}
	if i > j {
		i, j = j, i
	}
	// Rows above i each contribute (n-1-row) entries; standard upper
	// triangular packing without the diagonal.
	return i*n - i*(i+1)/2 + (j - i - 1)
}

// Set records the distance between buckets i and j (i != j).
func (m *Metric) Set(i, j int, d float32) {
	if i == j {
		return
	}
	m.dist[TriIndex(m.n, i, j)] = d
}

// Distance returns the stored distance between i and j (0 when i == j).
func (m *Metric) Distance(i, j int) float32 {
	if i == j {
		return 0
	}
	return m.dist[TriIndex(m.n, i, j)]
}

// N returns the number of abstraction buckets the metric covers.
func (m *Metric) N() int {
	return m.n
}

// KNearest returns the k closest buckets to a, ascending by distance.
func (m *Metric) KNearest(a, k int) []int {
	return m.kExtreme(a, k, false)
}

// KFarthest returns the k farthest buckets from a, descending by distance.
func (m *Metric) KFarthest(a, k int) []int {
	return m.kExtreme(a, k, true)
}

func (m *Metric) kExtreme(a, k int, farthest bool) []int {
	type pair struct {
		idx int
		d   float32
	}
	pairs := make([]pair, 0, m.n-1)
	for i := 0; i < m.n; i++ {
		if i == a {
			continue
		}
		pairs = append(pairs, pair{i, m.Distance(a, i)})
	}
	less := func(i, j int) bool { return pairs[i].d < pairs[j].d }
	if farthest {
		less = func(i, j int) bool { return pairs[i].d > pairs[j].d }
	}
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
	if k > len(pairs) {
		k = len(pairs)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = pairs[i].idx
	}
	return out
}

// RiverEquityMetric builds the river street's metric directly from equity
// values, where distance is simply |equity_i - equity_j|.
func RiverEquityMetric(equity []float64) *Metric {
	m := NewMetric(len(equity))
	for i := 0; i < len(equity); i++ {
		for j := i + 1; j < len(equity); j++ {
			m.Set(i, j, float32(math.Abs(equity[i]-equity[j])))
		}
	}
	return m
}

// SinkhornOptions controls the entropy-regularized optimal transport solve.
type SinkhornOptions struct {
	Epsilon       float64 // entropic regularization strength
	Tolerance     float64 // relative change in transport cost to stop on
	MaxIterations int
}

// DefaultSinkhornOptions matches the tolerances spec.md §4.4 describes:
// iterate until the relative change in cost is small, or a max-iteration
// cap is hit.
func DefaultSinkhornOptions() SinkhornOptions {
	return SinkhornOptions{Epsilon: 0.1, Tolerance: 1e-4, MaxIterations: 100}
}

// EMD approximates the Earth Mover's Distance between histograms a and b
// using the next street's ground metric, via entropy-regularized Sinkhorn
// iterations. On the river (ground metric over a 2-bin win/loss space) this
// reduces to the scalar equity distance, which callers should prefer to
// compute directly via RiverEquityMetric instead of calling EMD.
func EMD(a, b *Histogram, ground *Metric, opts SinkhornOptions) float64 {
	if a.Len() != b.Len() || a.Len() != ground.N() {
		panic("histogram: EMD dimension mismatch")
	}
	n := a.Len()
	p := a.Density()
	q := b.Density()

	cost := make([][]float64, n)
	kernel := make([][]float64, n)
	for i := 0; i < n; i++ {
		cost[i] = make([]float64, n)
		kernel[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			cost[i][j] = float64(ground.Distance(i, j))
			kernel[i][j] = math.Exp(-cost[i][j] / opts.Epsilon)
		}
	}

	u := make([]float64, n)
	v := make([]float64, n)
	for i := range u {
		u[i] = 1
		v[i] = 1
	}

	prevObjective := math.Inf(1)
	for iter := 0; iter < opts.MaxIterations; iter++ {
		// row update: u_i = p_i / (K v)_i
		for i := 0; i < n; i++ {
			denom := 0.0
			for j := 0; j < n; j++ {
				denom += kernel[i][j] * v[j]
			}
			if denom > 0 {
				u[i] = p[i] / denom
			}
		}
		// column update: v_j = q_j / (K^T u)_j
		for j := 0; j < n; j++ {
			denom := 0.0
			for i := 0; i < n; i++ {
				denom += kernel[i][j] * u[i]
			}
			if denom > 0 {
				v[j] = q[j] / denom
			}
		}

		objective := 0.0
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				plan := u[i] * kernel[i][j] * v[j]
				objective += plan * cost[i][j]
			}
		}
		if prevObjective != math.Inf(1) {
			relChange := math.Abs(objective-prevObjective) / math.Max(1e-12, math.Abs(prevObjective))
			if relChange < opts.Tolerance {
				return objective
			}
		}
		prevObjective = objective
	}
	return prevObjective
}

// L2 returns the Euclidean distance between two equal-length density
// vectors, an alternative ground-truth-free metric used in tests.
func L2(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
