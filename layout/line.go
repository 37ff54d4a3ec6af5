package layout

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tsawler/docfuse/model"
)

// Line is a run of fragments sharing a baseline, ordered left to right
type Line struct {
	BBox      model.Quad
	Fragments []model.TextFragment
}

// GetText joins the fragment texts with single spaces
func (l *Line) GetText() string {
	parts := make([]string, len(l.Fragments))
	for i, f := range l.Fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

// WordCount returns the number of fragments on the line
func (l *Line) WordCount() int {
	return len(l.Fragments)
}

// LineConfig holds configuration for line detection
type LineConfig struct {
	// HeightTolerance is the vertical distance, as a fraction of the mean
	// fragment height, within which a fragment joins the current line
	// (default: 0.5)
	HeightTolerance float64
}

// DefaultLineConfig returns sensible default configuration
func DefaultLineConfig() LineConfig {
	return LineConfig{HeightTolerance: 0.5}
}

// Validate checks the configuration
func (c LineConfig) Validate() error {
	if c.HeightTolerance <= 0 || math.IsNaN(c.HeightTolerance) {
		return fmt.Errorf("line height tolerance must be > 0, got %v", c.HeightTolerance)
	}
	return nil
}

// LineDetector groups fragments into text lines
type LineDetector struct {
	config LineConfig
}

// NewLineDetector creates a new line detector with default configuration
func NewLineDetector() *LineDetector {
	return &LineDetector{config: DefaultLineConfig()}
}

// NewLineDetectorWithConfig creates a line detector with custom configuration
func NewLineDetectorWithConfig(config LineConfig) *LineDetector {
	return &LineDetector{config: config}
}

// Detect groups fragments into lines from top to bottom. A fragment joins the
// current line when its vertical center lies within the tolerance of the
// line's mean center. The input slice is not modified.
func (d *LineDetector) Detect(fragments []model.TextFragment) []Line {
	if len(fragments) == 0 {
		return nil
	}

	tolerance := d.tolerance(fragments)

	sorted := slices.Clone(fragments)
	slices.SortStableFunc(sorted, func(a, b model.TextFragment) int {
		return cmpFloat(a.Center().Y, b.Center().Y)
	})

	var lines []Line
	var current []model.TextFragment
	var sumY float64
	for _, f := range sorted {
		cy := f.Center().Y
		if len(current) > 0 && math.Abs(cy-sumY/float64(len(current))) > tolerance {
			lines = append(lines, buildLine(current))
			current, sumY = nil, 0
		}
		current = append(current, f)
		sumY += cy
	}
	if len(current) > 0 {
		lines = append(lines, buildLine(current))
	}
	return lines
}

// tolerance scales the mean fragment height, with a one pixel floor
func (d *LineDetector) tolerance(fragments []model.TextFragment) float64 {
	var total float64
	for _, f := range fragments {
		total += f.BBox.MaxY() - f.BBox.MinY()
	}
	return math.Max(1, total/float64(len(fragments))*d.config.HeightTolerance)
}

func buildLine(fragments []model.TextFragment) Line {
	slices.SortStableFunc(fragments, func(a, b model.TextFragment) int {
		return cmpFloat(a.Left(), b.Left())
	})
	return Line{BBox: model.UnionBBox(fragments), Fragments: fragments}
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
