package artifact

import (
	"encoding/binary"
	"fmt"
	"math"
)

// IsomorphismRow is one row of the isomorphism table: obs is the dense
// registry index of a canonical observation, abs the bucket it maps to,
// position its rank among observations sharing that bucket in ascending
// obs order (spec.md §6).
type IsomorphismRow struct {
	Obs      int64
	Abs      int16
	Position int64
}

// AbstractionRow is one row of the abstraction table.
type AbstractionRow struct {
	Abs        int16
	Street     int16
	Equity     float32
	Population int64
}

// MetricRow is one row of the pairwise bucket-distance table; Tri is the
// order-insensitive pair index (upper triangle only).
type MetricRow struct {
	Street int16
	Tri    int32
	Dx     float32
}

// TransitionRow is one row of the bucket-transition-histogram table: dx is
// density(next) within prev's histogram.
type TransitionRow struct {
	Prev int16
	Next int16
	Dx   float32
}

// BlueprintRow is one row of the trained strategy table; (Past, Present,
// Choices) is the Info triple and Edge the chosen edge.
type BlueprintRow struct {
	Past    int64
	Present int16
	Choices int64
	Edge    int64
	Weight  float32
	Regret  float32
	Evalue  float32
	Counts  int32
}

func i16(v int16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

func i32(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

func i64(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func f32(v float32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
	return b
}

func readI16(b []byte) int16 { return int16(binary.BigEndian.Uint16(b)) }
func readI32(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }
func readI64(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) }
func readF32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func wantFields(row Row, n int) error {
	if len(row) != n {
		return fmt.Errorf("artifact: row has %d fields, want %d", len(row), n)
	}
	return nil
}

// EncodeIsomorphism converts rows into the generic frame representation.
func EncodeIsomorphism(rows []IsomorphismRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{i64(r.Obs), i16(r.Abs), i64(r.Position)}
	}
	return out
}

// DecodeIsomorphism parses rows produced by EncodeIsomorphism.
func DecodeIsomorphism(rows []Row) ([]IsomorphismRow, error) {
	out := make([]IsomorphismRow, len(rows))
	for i, row := range rows {
		if err := wantFields(row, 3); err != nil {
			return nil, err
		}
		out[i] = IsomorphismRow{Obs: readI64(row[0]), Abs: readI16(row[1]), Position: readI64(row[2])}
	}
	return out, nil
}

// EncodeAbstraction converts rows into the generic frame representation.
func EncodeAbstraction(rows []AbstractionRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{i16(r.Abs), i16(r.Street), f32(r.Equity), i64(r.Population)}
	}
	return out
}

// DecodeAbstraction parses rows produced by EncodeAbstraction.
func DecodeAbstraction(rows []Row) ([]AbstractionRow, error) {
	out := make([]AbstractionRow, len(rows))
	for i, row := range rows {
		if err := wantFields(row, 4); err != nil {
			return nil, err
		}
		out[i] = AbstractionRow{Abs: readI16(row[0]), Street: readI16(row[1]), Equity: readF32(row[2]), Population: readI64(row[3])}
	}
	return out, nil
}

// EncodeMetric converts rows into the generic frame representation.
func EncodeMetric(rows []MetricRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{i16(r.Street), i32(r.Tri), f32(r.Dx)}
	}
	return out
}

// DecodeMetric parses rows produced by EncodeMetric.
func DecodeMetric(rows []Row) ([]MetricRow, error) {
	out := make([]MetricRow, len(rows))
	for i, row := range rows {
		if err := wantFields(row, 3); err != nil {
			return nil, err
		}
		out[i] = MetricRow{Street: readI16(row[0]), Tri: readI32(row[1]), Dx: readF32(row[2])}
	}
	return out, nil
}

// EncodeTransitions converts rows into the generic frame representation.
func EncodeTransitions(rows []TransitionRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{i16(r.Prev), i16(r.Next), f32(r.Dx)}
	}
	return out
}

// DecodeTransitions parses rows produced by EncodeTransitions.
func DecodeTransitions(rows []Row) ([]TransitionRow, error) {
	out := make([]TransitionRow, len(rows))
	for i, row := range rows {
		if err := wantFields(row, 3); err != nil {
			return nil, err
		}
		out[i] = TransitionRow{Prev: readI16(row[0]), Next: readI16(row[1]), Dx: readF32(row[2])}
	}
	return out, nil
}

// EncodeBlueprint converts rows into the generic frame representation.
func EncodeBlueprint(rows []BlueprintRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{i64(r.Past), i16(r.Present), i64(r.Choices), i64(r.Edge), f32(r.Weight), f32(r.Regret), f32(r.Evalue), i32(r.Counts)}
	}
	return out
}

// DecodeBlueprint parses rows produced by EncodeBlueprint.
func DecodeBlueprint(rows []Row) ([]BlueprintRow, error) {
	out := make([]BlueprintRow, len(rows))
	for i, row := range rows {
		if err := wantFields(row, 8); err != nil {
			return nil, err
		}
		out[i] = BlueprintRow{
			Past: readI64(row[0]), Present: readI16(row[1]), Choices: readI64(row[2]), Edge: readI64(row[3]),
			Weight: readF32(row[4]), Regret: readF32(row[5]), Evalue: readF32(row[6]), Counts: readI32(row[7]),
		}
	}
	return out, nil
}

// PairIndex computes the order-insensitive upper-triangle pair index for
// (a, b), matching spec.md §3's Metric storage convention: pairs are
// numbered by the combinatorial-number-system triangular index
// b*(b-1)/2 + a for a < b, independent of the total bucket count.
func PairIndex(a, b int32) int32 {
	if a == b {
		panic("artifact: PairIndex requires distinct a != b")
	}
	if a > b {
		a, b = b, a
	}
	return b*(b-1)/2 + a
}

// UnpairIndex inverts PairIndex, returning the (a, b) pair with a < b that
// produced tri.
func UnpairIndex(tri int32) (a, b int32) {
	b = int32(1)
	for b*(b-1)/2 <= tri {
		b++
	}
	b--
	a = tri - b*(b-1)/2
	return a, b
}
