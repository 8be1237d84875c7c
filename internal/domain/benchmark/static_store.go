package benchmark

import (
	"context"
	"sort"
	"strings"
)

// StaticStore is an in-memory Store over a fixed slice of rows.  It backs the
// CLI harness (benchmarks loaded from a JSON file) and tests; production
// deployments use the postgres implementation.
type StaticStore struct {
	rows []Benchmark
}

// NewStaticStore copies rows into a StaticStore.
func NewStaticStore(rows []Benchmark) *StaticStore {
	cp := make([]Benchmark, len(rows))
	copy(cp, rows)
	return &StaticStore{rows: cp}
}

func (s *StaticStore) FindExactMatch(_ context.Context, industry, category string) (*Benchmark, error) {
	for i := range s.rows {
		if strings.EqualFold(s.rows[i].Industry, strings.TrimSpace(industry)) &&
			strings.EqualFold(s.rows[i].Category, strings.TrimSpace(category)) {
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (s *StaticStore) FindByIndustry(_ context.Context, industry string) (*Benchmark, error) {
	var matches []Benchmark
	for i := range s.rows {
		if strings.EqualFold(s.rows[i].Industry, strings.TrimSpace(industry)) {
			matches = append(matches, s.rows[i])
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	// Deterministic pick: lowest category in sort order, matching the
	// postgres implementation.
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Category < matches[j].Category
	})
	row := matches[0]
	return &row, nil
}

func (s *StaticStore) FindDefault(_ context.Context) (*Benchmark, error) {
	for i := range s.rows {
		if strings.EqualFold(s.rows[i].Industry, DefaultIndustry) {
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}
