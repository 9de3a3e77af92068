package histogram_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/histogram"
	"github.com/stretchr/testify/assert"
)

func TestHistogramDensityUniformWhenEmpty(t *testing.T) {
	h := histogram.New(4)
	density := h.Density()
	for _, d := range density {
		assert.InDelta(t, 0.25, d, 1e-9)
	}
}

func TestHistogramSetAndMerge(t *testing.T) {
	h := histogram.New(3)
	h.Set(0, 2)
	h.Set(1, 3)
	assert.Equal(t, 5.0, h.TotalWeight())

	other := histogram.New(3)
	other.Set(2, 5)
	h.Merge(other)
	assert.Equal(t, 10.0, h.TotalWeight())
	assert.Equal(t, []int{0, 1, 2}, h.Support())
}

func TestMetricTriIndexSymmetric(t *testing.T) {
	m := histogram.NewMetric(5)
	m.Set(1, 3, 0.5)
	assert.Equal(t, float32(0.5), m.Distance(1, 3))
	assert.Equal(t, float32(0.5), m.Distance(3, 1))
	assert.Equal(t, float32(0), m.Distance(2, 2))
}

func TestEMDIdenticalHistogramsIsZero(t *testing.T) {
	n := 4
	a := histogram.New(n)
	a.Set(0, 1)
	a.Set(2, 3)
	b := a.Clone()

	ground := histogram.NewMetric(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ground.Set(i, j, float32(j-i))
		}
	}
	d := histogram.EMD(a, b, ground, histogram.DefaultSinkhornOptions())
	assert.InDelta(t, 0, d, 1e-2)
}

func TestEMDSeparatedMassIsPositive(t *testing.T) {
	n := 4
	a := histogram.New(n)
	a.Set(0, 1)
	b := histogram.New(n)
	b.Set(3, 1)

	ground := histogram.NewMetric(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ground.Set(i, j, float32(j-i))
		}
	}
	d := histogram.EMD(a, b, ground, histogram.DefaultSinkhornOptions())
	assert.Greater(t, d, 1.0)
}

func TestRiverEquityMetric(t *testing.T) {
	m := histogram.RiverEquityMetric([]float64{0.1, 0.5, 0.9})
	assert.InDelta(t, float32(0.4), m.Distance(0, 1), 1e-9)
	assert.InDelta(t, float32(0.8), m.Distance(0, 2), 1e-9)
}
