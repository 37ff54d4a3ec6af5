// Package fusion merges the fragment lists of several recognition engines
// into one deduplicated, confidence-filtered list.
//
// Fusion is deterministic: given the same fragments in the same order it
// always produces the same output. Callers feed fragments in configured
// engine order, never in completion order.
package fusion

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tsawler/docfuse/model"
)

// Default thresholds.
const (
	DefaultConfidenceThreshold = 0.3
	DefaultDuplicateThreshold  = 0.8
)

// Fuser filters and deduplicates fragments.
type Fuser struct {
	// ConfidenceThreshold is the minimum confidence of an accepted fragment.
	ConfidenceThreshold float64
	// DuplicateThreshold is the similarity above which two fragments are
	// treated as the same reading.
	DuplicateThreshold float64
}

// New returns a Fuser with the default thresholds.
func New() *Fuser {
	return &Fuser{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		DuplicateThreshold:  DefaultDuplicateThreshold,
	}
}

// Fused is the outcome of one fusion.
type Fused struct {
	// Fragments are the accepted fragments in first-acceptance order.
	Fragments []model.TextFragment
	// LowConfidence holds fragments below the confidence threshold, in input order.
	LowConfidence []model.TextFragment
}

type accepted struct {
	frag  model.TextFragment
	chars runeSet
}

// Fuse filters fragments by confidence, then merges near-duplicates. A
// candidate similar to accepted fragments must beat every one of them to be
// kept; it then takes the earliest matching slot and the other matches,
// being duplicates of it, are dropped. Otherwise only the candidate is
// dropped. Ties keep the fragment accepted first.
func (f *Fuser) Fuse(fragments []model.TextFragment) Fused {
	out := Fused{
		Fragments:     []model.TextFragment{},
		LowConfidence: []model.TextFragment{},
	}
	lower := cases.Lower(language.Und)

	var acc []accepted
	for _, frag := range fragments {
		if frag.Confidence < f.ConfidenceThreshold {
			out.LowConfidence = append(out.LowConfidence, frag)
			continue
		}
		cand := accepted{frag: frag, chars: newRuneSet(lower.String(frag.Text))}

		var matches []int
		best := -1.0
		for i, a := range acc {
			if cand.chars.jaccard(a.chars) > f.DuplicateThreshold {
				matches = append(matches, i)
				best = max(best, a.frag.Confidence)
			}
		}
		if len(matches) == 0 {
			acc = append(acc, cand)
			continue
		}
		if cand.frag.Confidence <= best {
			continue
		}

		acc[matches[0]] = cand
		acc = removeIndices(acc, matches[1:])
	}

	for _, a := range acc {
		out.Fragments = append(out.Fragments, a.frag)
	}
	return out
}

// removeIndices drops the given ascending indices from s.
func removeIndices(s []accepted, idx []int) []accepted {
	if len(idx) == 0 {
		return s
	}
	kept := s[:0]
	next := 0
	for i, v := range s {
		if next < len(idx) && idx[next] == i {
			next++
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// Similarity is the Jaccard index of the sets of lower-cased characters of
// a and b. It is 0 when either string is empty.
func Similarity(a, b string) float64 {
	lower := cases.Lower(language.Und)
	return newRuneSet(lower.String(a)).jaccard(newRuneSet(lower.String(b)))
}

type runeSet map[rune]struct{}

func newRuneSet(s string) runeSet {
	set := make(runeSet, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

func (s runeSet) jaccard(other runeSet) float64 {
	if len(s) == 0 || len(other) == 0 {
		return 0
	}
	inter := 0
	for r := range s {
		if _, ok := other[r]; ok {
			inter++
		}
	}
	union := len(s) + len(other) - inter
	return float64(inter) / float64(union)
}
