//go:build !ocr

// Package tesseract provides a text recognition engine backed by Tesseract.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// New returns ErrNotEnabled.
//
// To enable Tesseract, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package tesseract

import (
	"context"
	"image"

	"github.com/tsawler/docfuse/model"
)

// Engine is a stub that is never available.
type Engine struct{}

// New returns an error indicating Tesseract support is not enabled.
func New(cfg Config) (*Engine, error) {
	return nil, ErrNotEnabled
}

// Name returns "tesseract".
func (e *Engine) Name() string { return Name }

// Available always reports ErrNotEnabled.
func (e *Engine) Available() error { return ErrNotEnabled }

// Recognize returns ErrNotEnabled.
func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]model.TextFragment, error) {
	return nil, ErrNotEnabled
}
