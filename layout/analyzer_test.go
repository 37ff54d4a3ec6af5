package layout

import (
	"testing"

	"github.com/tsawler/docfuse/model"
)

func TestAnalyzer_Analyze(t *testing.T) {
	analyzer := NewAnalyzer()
	fragments := []model.TextFragment{
		makeBlockFragment("Net", 50, 50, 0.9),
		makeBlockFragment("Weight", 80, 50, 0.7),
		makeBlockFragment("Ingredients:", 50, 300, 0.6),
	}

	result, err := analyzer.Analyze(fragments)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Engine != model.IntegratedEngine {
		t.Errorf("Expected engine %q, got %q", model.IntegratedEngine, result.Engine)
	}
	if result.Confidence != DefaultConfidence {
		t.Errorf("Expected confidence %v, got %v", DefaultConfidence, result.Confidence)
	}
	if len(result.Regions) != 2 {
		t.Fatalf("Expected 2 regions, got %d", len(result.Regions))
	}

	first := result.Regions[0]
	if first.Type != RegionText {
		t.Errorf("Expected type %q, got %q", RegionText, first.Type)
	}
	if first.Text != "Net Weight" {
		t.Errorf("Expected 'Net Weight', got %q", first.Text)
	}
	if first.Confidence < 0.799 || first.Confidence > 0.801 {
		t.Errorf("Expected confidence 0.8, got %f", first.Confidence)
	}
}

func TestAnalyzer_Empty(t *testing.T) {
	result, err := NewAnalyzer().Analyze(nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Regions == nil || len(result.Regions) != 0 {
		t.Errorf("Expected empty non-nil regions, got %v", result.Regions)
	}
}

func TestAnalyzer_CustomDistance(t *testing.T) {
	config := DefaultAnalyzerConfig()
	config.BlockConfig.MaxDistance = 500
	analyzer := NewAnalyzerWithConfig(config)

	result, err := analyzer.Analyze([]model.TextFragment{
		makeBlockFragment("a", 0, 0, 1),
		makeBlockFragment("b", 300, 0, 1),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Regions) != 1 {
		t.Errorf("Expected 1 region, got %d", len(result.Regions))
	}
}

func TestAnalyzer_InvalidConfig(t *testing.T) {
	config := DefaultAnalyzerConfig()
	config.BlockConfig.MaxDistance = -1
	result, err := NewAnalyzerWithConfig(config).Analyze([]model.TextFragment{
		makeBlockFragment("a", 0, 0, 1),
	})
	if err == nil {
		t.Fatal("Expected error for invalid config")
	}
	if result.Confidence != 0 || len(result.Regions) != 0 {
		t.Errorf("Expected failed layout, got %+v", result)
	}
}
