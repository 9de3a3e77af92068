package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeIsomorphismRoundTrips(t *testing.T) {
	rows := []artifact.IsomorphismRow{
		{Obs: 0, Abs: 3, Position: 0},
		{Obs: 1, Abs: 3, Position: 1},
		{Obs: 2, Abs: 7, Position: 0},
	}
	data, err := artifact.Encode(artifact.KindIsomorphism, artifact.EncodeIsomorphism(rows))
	require.NoError(t, err)

	kind, frames, err := artifact.Decode("mem", data, artifact.KindIsomorphism)
	require.NoError(t, err)
	assert.Equal(t, artifact.KindIsomorphism, kind)

	got, err := artifact.DecodeIsomorphism(frames)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestDecodeRejectsWrongKind(t *testing.T) {
	data, err := artifact.Encode(artifact.KindMetric, nil)
	require.NoError(t, err)

	_, _, err = artifact.Decode("mem", data, artifact.KindBlueprint)
	require.Error(t, err)
	var corrupt *artifact.CorruptError
	require.ErrorAs(t, err, &corrupt)
}

func TestDecodeRejectsTruncatedFile(t *testing.T) {
	data, err := artifact.Encode(artifact.KindAbstraction, artifact.EncodeAbstraction([]artifact.AbstractionRow{
		{Abs: 1, Street: 3, Equity: 0.5, Population: 100},
	}))
	require.NoError(t, err)

	_, _, err = artifact.Decode("mem", data[:len(data)-4], artifact.KindAbstraction)
	require.Error(t, err)
}

func TestSaveWritesAtomicallyAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metric.bin")
	rows := []artifact.MetricRow{{Street: 2, Tri: 5, Dx: 0.25}}
	require.NoError(t, artifact.Save(path, artifact.KindMetric, artifact.EncodeMetric(rows)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	kind, frames, err := artifact.Decode(path, data, artifact.KindMetric)
	require.NoError(t, err)
	assert.Equal(t, artifact.KindMetric, kind)

	got, err := artifact.DecodeMetric(frames)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestPairIndexIsOrderInsensitiveAndUnique(t *testing.T) {
	assert.Equal(t, artifact.PairIndex(1, 3), artifact.PairIndex(3, 1))

	seen := map[int32]bool{}
	for a := int32(0); a < 6; a++ {
		for b := a + 1; b < 6; b++ {
			idx := artifact.PairIndex(a, b)
			assert.False(t, seen[idx], "pair indices must be unique")
			seen[idx] = true
		}
	}
}
