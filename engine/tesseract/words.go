package tesseract

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/tsawler/docfuse/model"
)

// Name is the engine name reported in fragments and engine performance.
const Name = "tesseract"

// ErrNotEnabled is returned when Tesseract support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags ocr")

// Config controls how Tesseract is driven.
type Config struct {
	// Languages are Tesseract language codes, e.g. "eng" or "kor".
	// Empty means Tesseract's default.
	Languages []string `yaml:"languages"`
	// PageSegMode is a Tesseract PSM value. Zero keeps the default.
	PageSegMode int `yaml:"page_seg_mode"`
	// Variables are passed to Tesseract verbatim.
	Variables map[string]string `yaml:"variables"`
}

// Word is one word-level box as reported by Tesseract. Confidence is on
// Tesseract's 0-100 scale.
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// FragmentsFromWords converts Tesseract words into fragments, scaling
// confidence into [0,1] and dropping blank words.
func FragmentsFromWords(words []Word) []model.TextFragment {
	out := make([]model.TextFragment, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" || w.Box.Empty() {
			continue
		}
		out = append(out, model.TextFragment{
			Text:       text,
			Confidence: model.ClampConfidence(w.Confidence / 100),
			BBox:       model.QuadFromRect(w.Box),
			Engine:     Name,
			Page:       1,
		})
	}
	return out
}

// encodePNG serializes img for handing to the native library.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
