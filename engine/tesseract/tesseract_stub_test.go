//go:build !ocr

package tesseract

import (
	"context"
	"errors"
	"image"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	e, err := New(Config{})
	if err == nil {
		t.Error("Expected error from New() when Tesseract is disabled")
	}
	if !errors.Is(err, ErrNotEnabled) {
		t.Errorf("Expected ErrNotEnabled, got: %v", err)
	}
	if e != nil {
		t.Error("Expected nil engine when Tesseract is disabled")
	}
}

func TestStubIsNeverAvailable(t *testing.T) {
	var e Engine
	if e.Name() != Name {
		t.Errorf("Name() = %q, want %q", e.Name(), Name)
	}
	if !errors.Is(e.Available(), ErrNotEnabled) {
		t.Errorf("Available() = %v, want ErrNotEnabled", e.Available())
	}
	frags, err := e.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, ErrNotEnabled) || frags != nil {
		t.Errorf("Recognize() = %v, %v", frags, err)
	}
}
