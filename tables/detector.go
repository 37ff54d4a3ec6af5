package tables

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/tsawler/docfuse/model"
)

// Config holds extractor configuration
type Config struct {
	// RowTolerance is the largest top-edge difference (pixels) between
	// consecutive fragments of one region, and the row bucket height
	RowTolerance float64

	// MinFragments is the smallest region emitted as a table
	MinFragments int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		RowTolerance: 20,
		MinFragments: 3,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	var errs []error
	if !(c.RowTolerance > 0) || math.IsInf(c.RowTolerance, 0) {
		errs = append(errs, fmt.Errorf("row tolerance must be > 0, got %v", c.RowTolerance))
	}
	if c.MinFragments < 1 {
		errs = append(errs, fmt.Errorf("min fragments must be >= 1, got %d", c.MinFragments))
	}
	return errors.Join(errs...)
}

// Extractor finds table regions among fragments
type Extractor struct {
	config Config
}

// NewExtractor creates an extractor with default configuration
func NewExtractor() *Extractor {
	return &Extractor{config: DefaultConfig()}
}

// NewExtractorWithConfig creates an extractor with custom configuration
func NewExtractorWithConfig(config Config) *Extractor {
	return &Extractor{config: config}
}

// Config returns the extractor configuration
func (e *Extractor) Config() Config {
	return e.config
}

// Extract returns one table per qualifying region, in top-to-bottom order.
// The input slice is not modified.
func (e *Extractor) Extract(fragments []model.TextFragment) ([]model.Table, error) {
	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	tables := []model.Table{}
	for _, region := range e.segment(sortFragments(fragments)) {
		if len(region) < e.config.MinFragments {
			continue
		}
		tables = append(tables, e.buildTable(region))
	}
	return tables, nil
}

// sortFragments returns a copy ordered by top edge, then left edge
func sortFragments(fragments []model.TextFragment) []model.TextFragment {
	sorted := slices.Clone(fragments)
	slices.SortStableFunc(sorted, func(a, b model.TextFragment) int {
		if c := cmpFloat(a.Top(), b.Top()); c != 0 {
			return c
		}
		return cmpFloat(a.Left(), b.Left())
	})
	return sorted
}

// segment splits sorted fragments into runs of near-equal top edges
func (e *Extractor) segment(sorted []model.TextFragment) [][]model.TextFragment {
	var regions [][]model.TextFragment
	var current []model.TextFragment
	for i, f := range sorted {
		if i > 0 && math.Abs(f.Top()-sorted[i-1].Top()) >= e.config.RowTolerance {
			regions = append(regions, current)
			current = nil
		}
		current = append(current, f)
	}
	if len(current) > 0 {
		regions = append(regions, current)
	}
	return regions
}

// buildTable buckets region members into rows by floor(top / tolerance)
func (e *Extractor) buildTable(region []model.TextFragment) model.Table {
	buckets := make(map[int][]model.TextFragment)
	for _, f := range region {
		key := int(math.Floor(f.Top() / e.config.RowTolerance))
		buckets[key] = append(buckets[key], f)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		cells := buckets[k]
		slices.SortStableFunc(cells, func(a, b model.TextFragment) int {
			return cmpFloat(a.Left(), b.Left())
		})
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.Text
		}
		rows = append(rows, row)
	}

	return model.Table{
		Rows:       rows,
		BBox:       model.UnionBBox(region),
		Confidence: model.MeanConfidence(region),
		Engine:     model.IntegratedEngine,
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
