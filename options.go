package docfuse

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tsawler/docfuse/engine"
	"github.com/tsawler/docfuse/fusion"
	"github.com/tsawler/docfuse/layout"
	"github.com/tsawler/docfuse/model"
	"github.com/tsawler/docfuse/preprocess"
	"github.com/tsawler/docfuse/regions"
	"github.com/tsawler/docfuse/tables"
)

// Config holds the pipeline thresholds. The defaults are empirical and
// meant to be tuned per deployment.
type Config struct {
	// Fusion
	ConfidenceThreshold float64 `yaml:"confidence_threshold" json:"confidenceThreshold"`
	DuplicateThreshold  float64 `yaml:"duplicate_threshold" json:"duplicateThreshold"`

	// Enrichments
	RowTolerancePx    float64 `yaml:"row_tolerance_px" json:"rowTolerancePx"`
	MinTableFragments int     `yaml:"min_table_fragments" json:"minTableFragments"`
	BlockDistancePx   float64 `yaml:"block_distance_px" json:"blockDistancePx"`
	MinIconAreaPx2    int     `yaml:"min_icon_area_px2" json:"minIconAreaPx2"`
	IconConfidence    float64 `yaml:"icon_confidence" json:"iconConfidence"`

	// Preprocessing
	RotationThresholdDeg float64 `yaml:"rotation_threshold_deg" json:"rotationThresholdDeg"`
	MaxPixels            int     `yaml:"max_pixels" json:"maxPixels"` // 0 disables the upscale guard

	// Dispatch
	EngineTimeout time.Duration `yaml:"engine_timeout" json:"engineTimeout"` // <= 0 means no per-engine timeout

	// Profiles is the per document type preprocessing table
	Profiles preprocess.Profiles `yaml:"-" json:"profiles"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	tc := tables.DefaultConfig()
	rc := regions.DefaultConfig()
	return Config{
		ConfidenceThreshold:  fusion.DefaultConfidenceThreshold,
		DuplicateThreshold:   fusion.DefaultDuplicateThreshold,
		RowTolerancePx:       tc.RowTolerance,
		MinTableFragments:    tc.MinFragments,
		BlockDistancePx:      layout.DefaultBlockConfig().MaxDistance,
		MinIconAreaPx2:       rc.MinArea,
		IconConfidence:       rc.Confidence,
		RotationThresholdDeg: preprocess.DefaultRotationThresholdDeg,
		MaxPixels:            preprocess.DefaultMaxPixels,
		EngineTimeout:        engine.DefaultTimeout,
		Profiles:             preprocess.DefaultProfiles(),
	}
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	unit := func(name string, v float64) {
		if !(v >= 0 && v <= 1) {
			errs = append(errs, fmt.Errorf("%s must be in [0,1], got %v", name, v))
		}
	}
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", name, v))
		}
	}

	unit("confidence threshold", c.ConfidenceThreshold)
	unit("duplicate threshold", c.DuplicateThreshold)
	unit("icon confidence", c.IconConfidence)
	positive("row tolerance", c.RowTolerancePx)
	positive("block distance", c.BlockDistancePx)
	if c.MinTableFragments < 1 {
		errs = append(errs, fmt.Errorf("min table fragments must be >= 1, got %d", c.MinTableFragments))
	}
	if c.MinIconAreaPx2 < 0 {
		errs = append(errs, fmt.Errorf("min icon area must be >= 0, got %d", c.MinIconAreaPx2))
	}
	if c.RotationThresholdDeg < 0 || c.RotationThresholdDeg != c.RotationThresholdDeg {
		errs = append(errs, fmt.Errorf("rotation threshold must be >= 0, got %v", c.RotationThresholdDeg))
	}
	if c.MaxPixels < 0 {
		errs = append(errs, fmt.Errorf("max pixels must be >= 0, got %d", c.MaxPixels))
	}
	if err := c.Profiles.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// clone creates a deep copy of Config.
func (c Config) clone() Config {
	out := c
	if c.Profiles != nil {
		out.Profiles = maps.Clone(c.Profiles)
	}
	return out
}

// options collects the settings applied by Option functions.
type options struct {
	config Config
	logger *zap.Logger
}

// Option configures a Processor.
type Option func(*options)

// WithConfig replaces the whole configuration. Options applied after it
// adjust the copy.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c.clone()
	}
}

// WithLogger sets the logger shared by every stage.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithConfidenceThreshold sets the minimum confidence of an accepted fragment.
func WithConfidenceThreshold(t float64) Option {
	return func(o *options) {
		o.config.ConfidenceThreshold = t
	}
}

// WithDuplicateThreshold sets the similarity above which fragments merge.
func WithDuplicateThreshold(t float64) Option {
	return func(o *options) {
		o.config.DuplicateThreshold = t
	}
}

// WithEngineTimeout bounds every engine invocation.
func WithEngineTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config.EngineTimeout = d
	}
}

// WithProfile overrides the preprocessing profile of one document type.
func WithProfile(t model.DocumentType, p model.Profile) Option {
	return func(o *options) {
		o.config.Profiles = o.config.Profiles.Merge(preprocess.Profiles{t: p})
	}
}
