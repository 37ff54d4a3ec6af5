//go:build ocr

// Package tesseract provides a text recognition engine backed by Tesseract.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package tesseract

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/docfuse/model"
)

// Engine recognizes words with Tesseract. Each call uses its own client, so
// an Engine is safe for concurrent use.
type Engine struct {
	cfg           Config
	clientFactory func() *gosseract.Client
}

// New creates a Tesseract engine.
func New(cfg Config) (*Engine, error) {
	return &Engine{cfg: cfg, clientFactory: gosseract.NewClient}, nil
}

// Name returns "tesseract".
func (e *Engine) Name() string { return Name }

// Available reports whether the configured languages are installed.
func (e *Engine) Available() error {
	if len(e.cfg.Languages) == 0 {
		return nil
	}
	installed, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return fmt.Errorf("failed to list tesseract languages: %w", err)
	}
	have := make(map[string]bool, len(installed))
	for _, l := range installed {
		have[l] = true
	}
	for _, l := range e.cfg.Languages {
		if !have[l] {
			return fmt.Errorf("tesseract language %q is not installed", l)
		}
	}
	return nil
}

// Recognize returns one fragment per recognized word.
func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]model.TextFragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	c := e.clientFactory()
	defer c.Close()

	if len(e.cfg.Languages) > 0 {
		if err := c.SetLanguage(e.cfg.Languages...); err != nil {
			return nil, fmt.Errorf("failed to set language: %w", err)
		}
	}
	if e.cfg.PageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(e.cfg.PageSegMode)); err != nil {
			return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}
	for k, v := range e.cfg.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return nil, fmt.Errorf("failed to set variable %s: %w", k, err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	words := make([]Word, len(boxes))
	for i, b := range boxes {
		words[i] = Word{Text: b.Word, Box: b.Box, Confidence: b.Confidence}
	}
	return FragmentsFromWords(words), nil
}
