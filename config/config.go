// Package config loads the docfuse YAML configuration file.
//
// Example:
//
//	log_level: info
//	engines: [tesseract, docai]
//	pipeline:
//	  confidence_threshold: 0.3
//	  duplicate_threshold: 0.8
//	  engine_timeout: 30s
//	tesseract:
//	  languages: [eng, fra]
//	docai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
//	profiles:
//	  nutritionLabel:
//	    upscale: 3
//	    binarization: otsu
//
// Omitted keys keep their defaults. A profile entry only overrides the
// fields it names.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/docfuse"
	"github.com/tsawler/docfuse/engine/docai"
	"github.com/tsawler/docfuse/engine/tesseract"
	"github.com/tsawler/docfuse/log"
	"github.com/tsawler/docfuse/model"
)

// Engine names accepted in the engines list.
const (
	EngineTesseract = tesseract.Name
	EngineDocAI     = docai.Name
)

// KnownEngines lists the engines this build can construct.
var KnownEngines = []string{EngineTesseract, EngineDocAI}

// File is the decoded configuration file.
type File struct {
	LogLevel  string           `yaml:"log_level"`
	Engines   []string         `yaml:"engines"`
	Pipeline  docfuse.Config   `yaml:"pipeline"`
	Tesseract tesseract.Config `yaml:"tesseract"`
	DocAI     docai.Config     `yaml:"docai"`

	// RawProfiles holds the profile overrides as written, keyed by
	// document type name. Parse resolves them into Pipeline.Profiles.
	RawProfiles map[string]yaml.Node `yaml:"profiles"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	return &File{
		LogLevel: log.LevelInfo,
		Engines:  []string{EngineTesseract},
		Pipeline: docfuse.DefaultConfig(),
	}
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data over the defaults and validates the result. All
// problems are reported in one joined error.
func Parse(data []byte) (*File, error) {
	f := Default()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	var errs []error
	for _, name := range sortedKeys(f.RawProfiles) {
		t, err := model.ParseDocumentType(name)
		if err != nil || t == model.DocumentAuto {
			errs = append(errs, fmt.Errorf("profiles: unknown document type %q", name))
			continue
		}
		prof := f.Pipeline.Profiles[t]
		node := f.RawProfiles[name]
		if err := node.Decode(&prof); err != nil {
			errs = append(errs, fmt.Errorf("profiles.%s: %w", name, err))
			continue
		}
		f.Pipeline.Profiles[t] = prof
	}

	if err := f.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks thresholds, engine names, profiles and per-engine settings.
func (f *File) Validate() error {
	var errs []error
	switch f.LogLevel {
	case log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError:
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", f.LogLevel))
	}

	seen := make(map[string]bool, len(f.Engines))
	for _, e := range f.Engines {
		if !slices.Contains(KnownEngines, e) {
			errs = append(errs, fmt.Errorf("engines: unknown engine %q", e))
		}
		if seen[e] {
			errs = append(errs, fmt.Errorf("engines: %q listed twice", e))
		}
		seen[e] = true
	}
	if seen[EngineDocAI] {
		if err := f.DocAI.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := f.Pipeline.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pipeline: %w", err))
	}
	return errors.Join(errs...)
}

// UsesEngine reports whether name is in the engines list.
func (f *File) UsesEngine(name string) bool {
	return slices.Contains(f.Engines, name)
}

func sortedKeys(m map[string]yaml.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
