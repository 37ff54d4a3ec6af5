package fusion

import (
	"strings"

	"github.com/tsawler/docfuse/model"
)

// MaxSuggestions caps the alternatives offered per low-confidence fragment.
const MaxSuggestions = 3

// confusions are character substitutions recognizers commonly get wrong,
// tried in this order.
var confusions = [][2]string{
	{"0", "O"},
	{"1", "l"},
	{"5", "S"},
	{"8", "B"},
	{"rn", "m"},
	{"cl", "d"},
}

// Review summarizes a fusion for human confirmation. Every low-confidence
// fragment becomes an item with correction suggestions.
func Review(f Fused) model.Review {
	r := model.Review{
		Summary: model.ReviewSummary{
			Total:         len(f.Fragments) + len(f.LowConfidence),
			Validated:     len(f.Fragments),
			LowConfidence: len(f.LowConfidence),
		},
		Items: make([]model.ReviewItem, 0, len(f.LowConfidence)),
	}
	for _, frag := range f.LowConfidence {
		r.Items = append(r.Items, model.ReviewItem{
			Fragment:    frag,
			Suggestions: Suggest(frag.Text),
		})
	}
	return r
}

// Suggest returns up to MaxSuggestions alternative readings of text, each
// replacing every occurrence of one commonly confused sequence.
func Suggest(text string) []string {
	out := []string{}
	for _, c := range confusions {
		if len(out) == MaxSuggestions {
			break
		}
		if !strings.Contains(text, c[0]) {
			continue
		}
		alt := strings.ReplaceAll(text, c[0], c[1])
		if alt != text {
			out = append(out, alt)
		}
	}
	return out
}
