package layout

import (
	"github.com/tsawler/docfuse/model"
)

// RegionText is the type of every region the analyzer reports
const RegionText = "text"

// DefaultConfidence is the layout confidence reported after a successful analysis
const DefaultConfidence = 0.9

// AnalyzerConfig holds configuration options for the layout analyzer
type AnalyzerConfig struct {
	// Block detection configuration
	BlockConfig BlockConfig

	// Confidence is reported on a successful analysis
	Confidence float64
}

// DefaultAnalyzerConfig returns a configuration with the default block distance
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		BlockConfig: DefaultBlockConfig(),
		Confidence:  DefaultConfidence,
	}
}

// Analyzer builds the page layout from fused fragments
type Analyzer struct {
	config        AnalyzerConfig
	blockDetector *BlockDetector
}

// NewAnalyzer creates an analyzer with default configuration
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultAnalyzerConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	return &Analyzer{
		config:        config,
		blockDetector: NewBlockDetectorWithConfig(config.BlockConfig),
	}
}

// Analyze returns one text region per block. On error the layout is empty
// with zero confidence.
func (a *Analyzer) Analyze(fragments []model.TextFragment) (model.Layout, error) {
	if err := a.config.BlockConfig.Validate(); err != nil {
		return Failed(), err
	}

	blocks := a.blockDetector.Detect(fragments)
	regions := make([]model.LayoutBlock, 0, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		regions = append(regions, model.LayoutBlock{
			Type:       RegionText,
			BBox:       b.BBox,
			Text:       b.GetText(),
			Confidence: b.Confidence(),
		})
	}

	return model.Layout{
		Regions:    regions,
		Confidence: a.config.Confidence,
		Engine:     model.IntegratedEngine,
	}, nil
}

// Failed returns the layout reported when analysis could not run
func Failed() model.Layout {
	return model.Layout{
		Regions:    []model.LayoutBlock{},
		Confidence: 0,
		Engine:     model.IntegratedEngine,
	}
}
