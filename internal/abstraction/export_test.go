package abstraction_test

import (
	"testing"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/stretchr/testify/assert"
)

func TestExportIsomorphismRanksPositionWithinBucket(t *testing.T) {
	table := abstraction.NewTable(cards.River, 3, 2)
	table.BucketOf[0] = 0
	table.BucketOf[1] = 1
	table.BucketOf[2] = 0

	rows := abstraction.ExportIsomorphism(table)
	byObs := map[int64]int64{}
	for _, r := range rows {
		byObs[r.Obs] = r.Position
	}
	assert.Equal(t, int64(0), byObs[0])
	assert.Equal(t, int64(1), byObs[2])
	assert.Equal(t, int64(0), byObs[1])
}

func TestExportMetricCoversEveryPair(t *testing.T) {
	table := abstraction.NewTable(cards.River, 0, 4)
	table.Metric.Set(0, 1, 0.1)
	table.Metric.Set(0, 2, 0.2)
	table.Metric.Set(1, 3, 0.3)

	rows := abstraction.ExportMetric(table)
	assert.Len(t, rows, 6) // 4 choose 2
}

func TestExportTransitionsEmptyWithoutCentroids(t *testing.T) {
	table := abstraction.NewTable(cards.River, 0, 4)
	assert.Nil(t, abstraction.ExportTransitions(table))
}
