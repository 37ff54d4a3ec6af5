package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docfuse"
	"github.com/tsawler/docfuse/model"
)

func TestParseEmptyUsesDefaults(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", f.LogLevel)
	assert.Equal(t, []string{EngineTesseract}, f.Engines)
	assert.Equal(t, docfuse.DefaultConfig(), f.Pipeline)
}

func TestParseFull(t *testing.T) {
	data := []byte(`
log_level: debug
engines: [docai, tesseract]
pipeline:
  confidence_threshold: 0.4
  duplicate_threshold: 0.85
  row_tolerance_px: 15
  engine_timeout: 5s
tesseract:
  languages: [eng, fra]
  page_seg_mode: 6
docai:
  project_id: proj
  location: eu
  processor_id: abc123
  level: line
profiles:
  nutrition_label:
    upscale: 3
    binarization: otsu
  customsDocument:
    correct_rotation: false
`)
	f, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "debug", f.LogLevel)
	assert.Equal(t, []string{"docai", "tesseract"}, f.Engines)
	assert.True(t, f.UsesEngine("docai"))

	assert.Equal(t, 0.4, f.Pipeline.ConfidenceThreshold)
	assert.Equal(t, 0.85, f.Pipeline.DuplicateThreshold)
	assert.Equal(t, 15.0, f.Pipeline.RowTolerancePx)
	assert.Equal(t, 5*time.Second, f.Pipeline.EngineTimeout)
	assert.Equal(t, 50.0, f.Pipeline.BlockDistancePx, "unset keys keep defaults")

	assert.Equal(t, []string{"eng", "fra"}, f.Tesseract.Languages)
	assert.Equal(t, 6, f.Tesseract.PageSegMode)
	assert.Equal(t, "abc123", f.DocAI.ProcessorID)

	nutrition := f.Pipeline.Profiles[model.DocumentNutrition]
	assert.Equal(t, 3.0, nutrition.Upscale)
	assert.Equal(t, model.BinarizeOtsu, nutrition.Binarization)
	assert.Equal(t, model.DenoiseStrong, nutrition.Denoise, "fields not named keep the built-in value")

	customs := f.Pipeline.Profiles[model.DocumentCustoms]
	assert.False(t, customs.CorrectRotation)
	assert.Equal(t, 2.0, customs.Upscale)
}

func TestParseCollectsAllErrors(t *testing.T) {
	data := []byte(`
log_level: chatty
engines: [tesseract, easyocr, tesseract, docai]
pipeline:
  confidence_threshold: 1.5
  min_table_fragments: 0
profiles:
  passport:
    upscale: 2
  generalDocument:
    morphology: dilate
`)
	_, err := Parse(data)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		`unknown level "chatty"`,
		`unknown engine "easyocr"`,
		`"tesseract" listed twice`,
		"project_id is required",
		"confidence threshold",
		"min table fragments",
		`unknown document type "passport"`,
		`unknown morphology "dilate"`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("engines: [tesseract"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docfuse.yml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", f.LogLevel)

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}
