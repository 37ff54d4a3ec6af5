package model

import "strings"

// TextFragment is one recognized text span reported by a single engine.
// Fragments are never modified after dispatch; fusion only keeps or drops them.
type TextFragment struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-1
	BBox       Quad    `json:"bbox"`
	Engine     string  `json:"engine"`
	Page       int     `json:"page"`
}

// Top returns the smallest Y of the fragment's box
func (f TextFragment) Top() float64 { return f.BBox.MinY() }

// Left returns the smallest X of the fragment's box
func (f TextFragment) Left() float64 { return f.BBox.MinX() }

// Center returns the center of the fragment's box
func (f TextFragment) Center() Point { return f.BBox.Center() }

// Normalize returns a copy tagged with engine, with confidence clamped into
// [0,1] and page defaulted to 1. The second result is false when the fragment
// carries no text or an unusable box and should be dropped.
func (f TextFragment) Normalize(engine string) (TextFragment, bool) {
	if strings.TrimSpace(f.Text) == "" || f.BBox.IsDegenerate() {
		return f, false
	}
	f.Engine = engine
	if f.Page < 1 {
		f.Page = 1
	}
	f.Confidence = ClampConfidence(f.Confidence)
	return f, true
}

// ClampConfidence limits c to [0,1]; NaN becomes 0
func ClampConfidence(c float64) float64 {
	switch {
	case c != c:
		return 0
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// MeanConfidence returns the average confidence of fragments, 0 for none
func MeanConfidence(fragments []TextFragment) float64 {
	if len(fragments) == 0 {
		return 0
	}
	var sum float64
	for _, f := range fragments {
		sum += f.Confidence
	}
	return sum / float64(len(fragments))
}

// UnionBBox returns the union of all fragment boxes
func UnionBBox(fragments []TextFragment) Quad {
	quads := make([]Quad, len(fragments))
	for i, f := range fragments {
		quads[i] = f.BBox
	}
	return UnionQuads(quads...)
}
