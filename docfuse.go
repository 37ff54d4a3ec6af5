// Package docfuse analyzes scanned document images by running several
// text recognition engines in parallel and fusing their output.
//
// Basic usage:
//
//	reg, err := engine.NewRegistry(tesseractEngine, docaiEngine)
//	if err != nil {
//	    // handle error
//	}
//	p, err := docfuse.New(reg, docfuse.WithLogger(logger))
//	if err != nil {
//	    // handle error
//	}
//	res, err := p.Process(ctx, img, model.DocumentAuto)
//	if err != nil {
//	    // nil or empty image, or ctx cancelled before dispatch
//	}
//	if res.Status == model.StatusNoEnginesAvailable {
//	    // nothing was recognized; show the raw image instead
//	}
//
// Every other failure (an engine error or timeout, a preprocessing step, an
// enrichment) is recovered and listed in res.Warnings, so a Result is always
// returned with as much output as could be produced.
package docfuse

import (
	"context"
	"errors"
	"fmt"
	"image"
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

// Enrichment stage names used in warnings.
const (
	StageTables = "tables"
	StageIcons  = "icons"
	StageLayout = "layout"
)

// Caller errors returned by Process.
var (
	ErrNilImage   = errors.New("docfuse: nil image")
	ErrEmptyImage = errors.New("docfuse: empty image")
)

// Processor runs the analysis pipeline. It holds no per-request state and
// is safe for concurrent use.
type Processor struct {
	registry *engine.Registry
	config   Config
	logger   *zap.Logger

	preprocessor *preprocess.Preprocessor
	dispatcher   *engine.Dispatcher
	fuser        *fusion.Fuser
	tables       *tables.Extractor
	regions      *regions.Detector
	layout       *layout.Analyzer
}

// New builds a Processor over the engines in registry. A nil registry is
// allowed and yields noEnginesAvailable results.
func New(registry *engine.Registry, opts ...Option) (*Processor, error) {
	o := options{config: DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("docfuse: invalid config: %w", err)
	}

	rc := regions.DefaultConfig()
	rc.MinArea = cfg.MinIconAreaPx2
	rc.Confidence = cfg.IconConfidence

	lc := layout.DefaultAnalyzerConfig()
	lc.BlockConfig.MaxDistance = cfg.BlockDistancePx

	return &Processor{
		registry: registry,
		config:   cfg,
		logger:   o.logger,
		preprocessor: preprocess.New(
			preprocess.WithProfiles(cfg.Profiles),
			preprocess.WithMaxPixels(cfg.MaxPixels),
			preprocess.WithRotationThreshold(cfg.RotationThresholdDeg),
			preprocess.WithLogger(o.logger),
		),
		dispatcher: engine.NewDispatcher(cfg.EngineTimeout, o.logger),
		fuser: &fusion.Fuser{
			ConfidenceThreshold: cfg.ConfidenceThreshold,
			DuplicateThreshold:  cfg.DuplicateThreshold,
		},
		tables: tables.NewExtractorWithConfig(tables.Config{
			RowTolerance: cfg.RowTolerancePx,
			MinFragments: cfg.MinTableFragments,
		}),
		regions: regions.NewDetectorWithConfig(rc),
		layout:  layout.NewAnalyzerWithConfig(lc),
	}, nil
}

// Config returns a copy of the processor configuration.
func (p *Processor) Config() Config {
	return p.config.clone()
}

// Process analyzes img. An empty hint (model.DocumentAuto) lets the image
// statistics pick the document type; unknown hints resolve to
// generalDocument. img is never modified.
func (p *Processor) Process(ctx context.Context, img image.Image, hint model.DocumentType) (*model.Result, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	docType := hint.Resolve()
	if hint == model.DocumentAuto {
		docType = preprocess.DetectDocumentType(img)
		p.logger.Debug("document type detected", zap.String("document_type", string(docType)))
	}

	processed, info := p.preprocessor.Preprocess(img, docType)
	res := &model.Result{
		Status:                 model.StatusOK,
		Fragments:              []model.TextFragment{},
		LowConfidenceFragments: []model.TextFragment{},
		Tables:                 []model.Table{},
		Icons:                  []model.Icon{},
		Layout:                 layout.Failed(),
		PreprocessingInfo:      info,
		EnginePerformance:      map[string]int{},
		DocumentType:           info.DocumentType,
		Warnings:               append([]model.Warning(nil), info.Failures...),
		ProcessedImage:         processed,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engines := p.registry.Engines()
	var dispatch engine.Dispatch
	if len(engines) > 0 {
		dispatch = p.dispatcher.Dispatch(ctx, processed, engines)
		res.EnginePerformance = dispatch.Performance
		for _, err := range dispatch.Errors() {
			res.Warnings = append(res.Warnings, model.WarningFrom(err))
		}
	}
	if dispatch.Ran() == 0 {
		res.Status = model.StatusNoEnginesAvailable
		res.Review = fusion.Review(fusion.Fused{})
		res.Warnings = append(res.Warnings, model.WarningFrom(
			model.NewStageError(model.ErrNoEnginesAvailable, "dispatch", nil)))
		p.logger.Error("no engines available",
			zap.Int("configured", len(engines)),
			zap.String("document_type", string(res.DocumentType)))
		return res, nil
	}

	fused := p.fuser.Fuse(dispatch.Fragments())
	res.Fragments = fused.Fragments
	res.LowConfidenceFragments = fused.LowConfidence
	res.Review = fusion.Review(fused)

	p.enrich(res, StageTables, func() error {
		t, err := p.tables.Extract(fused.Fragments)
		if err == nil {
			res.Tables = t
		}
		return err
	})
	p.enrich(res, StageIcons, func() error {
		icons, err := p.regions.Detect(processed, fused.Fragments)
		if err == nil {
			res.Icons = icons
		}
		return err
	})
	p.enrich(res, StageLayout, func() error {
		l, err := p.layout.Analyze(fused.Fragments)
		if err == nil {
			res.Layout = l
		}
		return err
	})

	p.logger.Info("document processed",
		zap.String("document_type", string(res.DocumentType)),
		zap.Int("fragments", len(res.Fragments)),
		zap.Int("low_confidence", len(res.LowConfidenceFragments)),
		zap.Int("tables", len(res.Tables)),
		zap.Int("icons", len(res.Icons)),
		zap.Int("regions", len(res.Layout.Regions)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// enrich runs one enrichment, converting an error or panic into a warning.
// The result keeps its empty default for that enrichment on failure.
func (p *Processor) enrich(res *model.Result, stage string, fn func() error) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = model.PanicError(r)
			}
		}()
		return fn()
	}()
	if err == nil {
		return
	}
	se := model.NewStageError(model.ErrEnrichmentFailed, stage, err)
	res.Warnings = append(res.Warnings, model.WarningFrom(se))
	p.logger.Warn("enrichment failed", zap.String("stage", stage), zap.Error(err))
}
