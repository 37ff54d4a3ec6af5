package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/tsawler/docfuse/config"
	"github.com/tsawler/docfuse/engine"
	"github.com/tsawler/docfuse/engine/docai"
	"github.com/tsawler/docfuse/engine/tesseract"
)

// buildRegistry constructs the configured engines in order. An engine that
// cannot be constructed is logged and left out; the pipeline reports
// noEnginesAvailable if none remain. The returned func releases clients.
func buildRegistry(ctx context.Context, cfg *config.File, logger *zap.Logger) (*engine.Registry, func()) {
	var engines []engine.Recognizer
	var closers []func() error

	for _, name := range cfg.Engines {
		switch name {
		case config.EngineTesseract:
			e, err := tesseract.New(cfg.Tesseract)
			if err != nil {
				if errors.Is(err, tesseract.ErrNotEnabled) {
					logger.Warn("tesseract engine skipped", zap.Error(err))
				} else {
					logger.Error("failed to create tesseract engine", zap.Error(err))
				}
				continue
			}
			engines = append(engines, e)
		case config.EngineDocAI:
			e, err := docai.New(ctx, cfg.DocAI)
			if err != nil {
				logger.Error("failed to create docai engine", zap.Error(err))
				continue
			}
			engines = append(engines, e)
			closers = append(closers, e.Close)
		}
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("failed to close engine", zap.Error(err))
			}
		}
	}

	registry, err := engine.NewRegistry(engines...)
	if err != nil {
		// Names come from a validated, duplicate-free list
		logger.Error("failed to register engines", zap.Error(err))
		return nil, closeAll
	}
	return registry, closeAll
}
