package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/lox/holdem-solver/internal/cards"
	"github.com/lox/holdem-solver/internal/histogram"
)

// loadTable reconstructs one street's abstraction.Table from the artifact
// pack 'abstract' wrote, the inverse of cmd/solver/abstract.go's saveStreet.
func loadTable(dir string, street cards.Street) (*abstraction.Table, error) {
	iso, err := readIsomorphism(filepath.Join(dir, streetFileName(street, "isomorphism")))
	if err != nil {
		return nil, fmt.Errorf("read %s isomorphism: %w", street, err)
	}
	abs, err := readAbstraction(filepath.Join(dir, streetFileName(street, "abstraction")))
	if err != nil {
		return nil, fmt.Errorf("read %s abstraction: %w", street, err)
	}

	t := abstraction.NewTable(street, len(iso), len(abs))
	for _, row := range iso {
		t.BucketOf[row.Obs] = int32(row.Abs)
	}
	for _, row := range abs {
		t.Equity[row.Abs] = row.Equity
		t.Population[row.Abs] = row.Population
	}

	metric, err := readMetric(filepath.Join(dir, streetFileName(street, "metric")), len(abs))
	if err != nil {
		return nil, fmt.Errorf("read %s metric: %w", street, err)
	}
	t.Metric = metric

	transitionsPath := filepath.Join(dir, streetFileName(street, "transitions"))
	if _, err := os.Stat(transitionsPath); err == nil {
		centroids, err := readTransitions(transitionsPath, len(abs))
		if err != nil {
			return nil, fmt.Errorf("read %s transitions: %w", street, err)
		}
		t.Centroids = centroids
	}
	return t, nil
}

func readIsomorphism(path string) ([]artifact.IsomorphismRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, rows, err := artifact.Decode(path, data, artifact.KindIsomorphism)
	if err != nil {
		return nil, err
	}
	return artifact.DecodeIsomorphism(rows)
}

func readAbstraction(path string) ([]artifact.AbstractionRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, rows, err := artifact.Decode(path, data, artifact.KindAbstraction)
	if err != nil {
		return nil, err
	}
	return artifact.DecodeAbstraction(rows)
}

func readMetric(path string, nBuckets int) (*histogram.Metric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, rows, err := artifact.Decode(path, data, artifact.KindMetric)
	if err != nil {
		return nil, err
	}
	metricRows, err := artifact.DecodeMetric(rows)
	if err != nil {
		return nil, err
	}
	m := histogram.NewMetric(nBuckets)
	for _, row := range metricRows {
		a, b := artifact.UnpairIndex(row.Tri)
		m.Set(int(a), int(b), row.Dx)
	}
	return m, nil
}

// readTransitions rebuilds one histogram per bucket of this street from
// the exported transitions rows. Each row's Dx is a normalized density,
// not a raw tally, and is added directly as a relative weight, so the
// rebuilt histograms match the exported densities but not the original
// counts. Each histogram spans next-street buckets 0 through the largest
// Next index the rows contain.
func readTransitions(path string, nBuckets int) ([]*histogram.Histogram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, rows, err := artifact.Decode(path, data, artifact.KindTransitions)
	if err != nil {
		return nil, err
	}
	transitionRows, err := artifact.DecodeTransitions(rows)
	if err != nil {
		return nil, err
	}
	nextBuckets := 0
	for _, row := range transitionRows {
		if int(row.Next)+1 > nextBuckets {
			nextBuckets = int(row.Next) + 1
		}
	}
	centroids := make([]*histogram.Histogram, nBuckets)
	for i := range centroids {
		centroids[i] = histogram.New(nextBuckets)
	}
	for _, row := range transitionRows {
		centroids[row.Prev].Add(int(row.Next), float64(row.Dx))
	}
	return centroids, nil
}
