package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docfuse/model"
)

func frag(text string, conf float64, engine string) model.TextFragment {
	return model.TextFragment{
		Text:       text,
		Confidence: conf,
		BBox:       model.RectQuad(10, 10, 60, 30),
		Engine:     engine,
		Page:       1,
	}
}

func TestFuseKeepsHighestConfidenceDuplicate(t *testing.T) {
	in := []model.TextFragment{
		frag("NaCl 800mg", 0.4, "a"),
		frag("NaCl 800mg", 0.6, "b"),
		frag("NaCl 800mg", 0.55, "c"),
	}
	out := New().Fuse(in)
	require.Len(t, out.Fragments, 1)
	assert.Equal(t, 0.6, out.Fragments[0].Confidence)
	assert.Equal(t, "b", out.Fragments[0].Engine)
	assert.Empty(t, out.LowConfidence)
}

func TestFuseConfidenceFilter(t *testing.T) {
	in := []model.TextFragment{
		frag("Protein", 0.9, "a"),
		frag("Pr0tein", 0.1, "b"),
		frag("Sugar", 0.3, "a"),
		frag("Fat", 0.29, "b"),
	}
	f := New()
	out := f.Fuse(in)

	for _, fr := range out.Fragments {
		assert.GreaterOrEqual(t, fr.Confidence, f.ConfidenceThreshold)
	}
	require.Len(t, out.LowConfidence, 2)
	assert.Equal(t, "Pr0tein", out.LowConfidence[0].Text)
	assert.Equal(t, "Fat", out.LowConfidence[1].Text)
	assert.Len(t, out.Fragments, 2)
}

func TestFuseLosingCandidateLeavesMatchesAlone(t *testing.T) {
	// a and b are 0.8 similar to each other (kept apart) and 0.9 similar
	// to the candidate, which loses to b.
	in := []model.TextFragment{
		frag("abcdefghi", 0.5, "a"),
		frag("xyz", 0.9, "a"),
		frag("bcdefghij", 0.7, "b"),
		frag("abcdefghij", 0.6, "c"),
	}
	out := New().Fuse(in)
	require.Len(t, out.Fragments, 3)
	assert.Equal(t, "abcdefghi", out.Fragments[0].Text)
	assert.Equal(t, "xyz", out.Fragments[1].Text)
	assert.Equal(t, "bcdefghij", out.Fragments[2].Text)
}

func TestFuseLowConfidenceDuplicateKeepsDistinctReadings(t *testing.T) {
	// The candidate duplicates both accepted readings, which are distinct
	// from each other; neither may be removed.
	in := []model.TextFragment{
		frag("abcdefghij", 0.9, "a"),
		frag("cdefghijkl", 0.5, "b"),
		frag("abcdefghijkl", 0.4, "c"),
	}
	out := New().Fuse(in)
	require.Len(t, out.Fragments, 2)
	assert.Equal(t, "abcdefghij", out.Fragments[0].Text)
	assert.Equal(t, "cdefghijkl", out.Fragments[1].Text)
}

func TestFuseWinningCandidateCollapsesGroup(t *testing.T) {
	in := []model.TextFragment{
		frag("abcdefghi", 0.5, "a"),
		frag("xyz", 0.9, "a"),
		frag("bcdefghij", 0.7, "b"),
		frag("abcdefghij", 0.8, "c"),
	}
	out := New().Fuse(in)
	require.Len(t, out.Fragments, 2)
	assert.Equal(t, "abcdefghij", out.Fragments[0].Text)
	assert.Equal(t, "c", out.Fragments[0].Engine)
	assert.Equal(t, "xyz", out.Fragments[1].Text)
}

func TestFuseTieKeepsFirst(t *testing.T) {
	out := New().Fuse([]model.TextFragment{
		frag("Calcium", 0.7, "a"),
		frag("calcium", 0.7, "b"),
	})
	require.Len(t, out.Fragments, 1)
	assert.Equal(t, "a", out.Fragments[0].Engine)
}

func TestFuseIdempotentAndDeterministic(t *testing.T) {
	in := []model.TextFragment{
		frag("Energy 250kcal", 0.8, "a"),
		frag("Energy 25Okcal", 0.6, "b"),
		frag("Fat 10g", 0.7, "a"),
		frag("Salt 0.5g", 0.75, "b"),
		frag("salt 0.5g", 0.9, "c"),
		frag("Fibre", 0.2, "c"),
		frag("Carbohydrate 30g", 0.65, "a"),
	}
	f := New()
	first := f.Fuse(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, f.Fuse(in))
	}

	again := f.Fuse(first.Fragments)
	assert.Equal(t, first.Fragments, again.Fragments)

	for i := range first.Fragments {
		for j := i + 1; j < len(first.Fragments); j++ {
			assert.LessOrEqual(t, Similarity(first.Fragments[i].Text, first.Fragments[j].Text), f.DuplicateThreshold)
		}
	}
}

func TestFuseEmpty(t *testing.T) {
	out := New().Fuse(nil)
	assert.NotNil(t, out.Fragments)
	assert.Empty(t, out.Fragments)
	assert.Empty(t, out.LowConfidence)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1},
		{"ABC", "abc", 1},
		{"abc", "abd", 0.5},
		{"aaa", "a", 1},
		{"", "abc", 0},
		{"", "", 0},
		{"abc", "xyz", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9, "%q vs %q", tt.a, tt.b)
	}
}

func TestReview(t *testing.T) {
	f := New()
	fused := f.Fuse([]model.TextFragment{
		frag("Sodium", 0.9, "a"),
		frag("10 rn", 0.1, "a"),
	})
	r := Review(fused)
	assert.Equal(t, model.ReviewSummary{Total: 2, Validated: 1, LowConfidence: 1}, r.Summary)
	require.Len(t, r.Items, 1)
	assert.Equal(t, "10 rn", r.Items[0].Fragment.Text)
	assert.Equal(t, []string{"1O rn", "l0 rn", "10 m"}, r.Items[0].Suggestions)
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, []string{"SOdium"}, Suggest("S0dium"))
	assert.Equal(t, []string{"model"}, Suggest("rnodel"))
	assert.Empty(t, Suggest("plain"))
	assert.Len(t, Suggest("0158rncl"), MaxSuggestions)
}
