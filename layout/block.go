package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsawler/docfuse/model"
)

// Block is a run of consecutive fragments whose centers lie close together
type Block struct {
	// BBox is the union of the member boxes
	BBox model.Quad

	// Fragments are the members in their original order
	Fragments []model.TextFragment

	// Index is the block's position in the output (0-based)
	Index int
}

// GetText returns the member texts joined by single spaces
func (b *Block) GetText() string {
	parts := make([]string, len(b.Fragments))
	for i, f := range b.Fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

// Confidence returns the mean member confidence
func (b *Block) Confidence() float64 {
	return model.MeanConfidence(b.Fragments)
}

// BlockConfig holds configuration for block detection
type BlockConfig struct {
	// MaxDistance is the largest center-to-center distance (pixels) between
	// a fragment and its predecessor in the same block (default: 50)
	MaxDistance float64
}

// DefaultBlockConfig returns sensible default configuration
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		MaxDistance: 50,
	}
}

// Validate checks the configuration
func (c BlockConfig) Validate() error {
	if !(c.MaxDistance > 0) || math.IsInf(c.MaxDistance, 0) {
		return fmt.Errorf("block distance must be > 0, got %v", c.MaxDistance)
	}
	return nil
}

// BlockDetector clusters fragments into blocks
type BlockDetector struct {
	config BlockConfig
}

// NewBlockDetector creates a new block detector with default configuration
func NewBlockDetector() *BlockDetector {
	return &BlockDetector{
		config: DefaultBlockConfig(),
	}
}

// NewBlockDetectorWithConfig creates a block detector with custom configuration
func NewBlockDetectorWithConfig(config BlockConfig) *BlockDetector {
	return &BlockDetector{
		config: config,
	}
}

// Detect clusters fragments in their given order
func (d *BlockDetector) Detect(fragments []model.TextFragment) []Block {
	var blocks []Block
	var current []model.TextFragment

	for i, frag := range fragments {
		if i > 0 {
			prev := fragments[i-1]
			if frag.Center().Distance(prev.Center()) >= d.config.MaxDistance {
				blocks = append(blocks, d.finalizeBlock(current, len(blocks)))
				current = nil
			}
		}
		current = append(current, frag)
	}

	// Don't forget the last block
	if len(current) > 0 {
		blocks = append(blocks, d.finalizeBlock(current, len(blocks)))
	}

	return blocks
}

// finalizeBlock computes the bounding box of a block
func (d *BlockDetector) finalizeBlock(fragments []model.TextFragment, index int) Block {
	return Block{
		BBox:      model.UnionBBox(fragments),
		Fragments: fragments,
		Index:     index,
	}
}
