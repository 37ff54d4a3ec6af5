// Package preprocess normalizes document images before recognition.
//
// A [Preprocessor] runs a fixed sequence of steps (resolution enhancement,
// noise reduction, contrast enhancement, rotation correction, binarization
// and morphology), each switched on or off by the [model.Profile] of the
// document type. A failing step never aborts the run: the image from before
// the step is carried forward and the failure is recorded in the returned
// [model.PreprocessingInfo].
//
// When the caller does not know the document type, [DetectDocumentType]
// picks one from simple image statistics.
package preprocess

import (
	"errors"
	"image"

	"go.uber.org/zap"

	"github.com/tsawler/docfuse/model"
)

// Step names recorded in PreprocessingInfo.ProcessingSteps.
const (
	StepResolution = "resolution_enhancement"
	StepNoise      = "noise_reduction"
	StepContrast   = "contrast_enhancement"
	StepRotation   = "rotation_correction"
	StepBinarize   = "binarization"
	StepMorphology = "morphology"

	failedSuffix = ":failed"
)

// Defaults used by New.
const (
	DefaultMaxPixels            = 40_000_000
	DefaultRotationThresholdDeg = 0.5
)

// Preprocessor applies document type profiles to images. It is safe for
// concurrent use once constructed.
type Preprocessor struct {
	profiles          Profiles
	maxPixels         int
	rotationThreshold float64
	logger            *zap.Logger
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithProfiles replaces the profile table.
func WithProfiles(p Profiles) Option {
	return func(pp *Preprocessor) {
		pp.profiles = p
	}
}

// WithMaxPixels bounds the size of an upscaled image. Zero disables the guard.
func WithMaxPixels(n int) Option {
	return func(pp *Preprocessor) {
		pp.maxPixels = n
	}
}

// WithRotationThreshold sets the smallest skew, in degrees, that gets corrected.
func WithRotationThreshold(deg float64) Option {
	return func(pp *Preprocessor) {
		pp.rotationThreshold = deg
	}
}

// WithLogger sets the logger used to report step failures.
func WithLogger(l *zap.Logger) Option {
	return func(pp *Preprocessor) {
		if l != nil {
			pp.logger = l
		}
	}
}

// New returns a Preprocessor with the default profiles and limits.
func New(opts ...Option) *Preprocessor {
	p := &Preprocessor{
		profiles:          DefaultProfiles(),
		maxPixels:         DefaultMaxPixels,
		rotationThreshold: DefaultRotationThresholdDeg,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile returns the resolved document type and profile used for t.
func (p *Preprocessor) Profile(t model.DocumentType) (model.DocumentType, model.Profile) {
	return p.profiles.Lookup(t)
}

// stepState is threaded through the pipeline so steps can report extras.
type stepState struct {
	profile model.Profile
	angle   float64
}

type step struct {
	name    string
	enabled func(model.Profile) bool
	apply   func(p *Preprocessor, img image.Image, st *stepState) (image.Image, error)
}

var pipeline = []step{
	{
		name:    StepResolution,
		enabled: func(pr model.Profile) bool { return pr.Upscale > 0 },
		apply: func(p *Preprocessor, img image.Image, st *stepState) (image.Image, error) {
			return Upscale(img, st.profile.Upscale, p.maxPixels)
		},
	},
	{
		name:    StepNoise,
		enabled: func(pr model.Profile) bool { return pr.Denoise != "" && pr.Denoise != model.DenoiseNone },
		apply: func(_ *Preprocessor, img image.Image, st *stepState) (image.Image, error) {
			return Denoise(img, st.profile.Denoise)
		},
	},
	{
		name:    StepContrast,
		enabled: func(pr model.Profile) bool { return pr.Contrast != "" && pr.Contrast != model.ContrastNone },
		apply: func(_ *Preprocessor, img image.Image, st *stepState) (image.Image, error) {
			return EnhanceContrast(img, st.profile.Contrast)
		},
	},
	{
		name:    StepRotation,
		enabled: func(pr model.Profile) bool { return pr.CorrectRotation },
		apply: func(p *Preprocessor, img image.Image, st *stepState) (image.Image, error) {
			out, angle := CorrectRotation(img, p.rotationThreshold)
			st.angle = angle
			return out, nil
		},
	},
	{
		name:    StepBinarize,
		enabled: func(pr model.Profile) bool { return pr.Binarization != "" && pr.Binarization != model.BinarizeNone },
		apply: func(_ *Preprocessor, img image.Image, st *stepState) (image.Image, error) {
			return Binarize(img, st.profile.Binarization)
		},
	},
	{
		name:    StepMorphology,
		enabled: func(pr model.Profile) bool { return pr.Morphology != "" && pr.Morphology != model.MorphologyNone },
		apply: func(_ *Preprocessor, img image.Image, st *stepState) (image.Image, error) {
			return ApplyMorphology(img, st.profile.Morphology)
		},
	},
}

// Preprocess runs the profile for t over img. img is never modified. The
// returned image is img itself when no step changed anything.
func (p *Preprocessor) Preprocess(img image.Image, t model.DocumentType) (image.Image, model.PreprocessingInfo) {
	resolved, prof := p.Profile(t)
	info := model.PreprocessingInfo{
		DocumentType:    resolved,
		AppliedSettings: prof,
		ProcessingSteps: []string{},
		OriginalSize:    model.SizeOf(img.Bounds()),
	}

	st := &stepState{profile: prof}
	current := img
	for _, s := range pipeline {
		if !s.enabled(prof) {
			continue
		}
		out, err := p.runStep(s, current, st)
		if err != nil {
			stageErr := model.NewStageError(model.ErrPreprocessStepFailed, s.name, err)
			info.ProcessingSteps = append(info.ProcessingSteps, s.name+failedSuffix)
			info.Failures = append(info.Failures, model.WarningFrom(stageErr))
			p.logger.Warn("preprocess step failed",
				zap.String("step", s.name),
				zap.String("document_type", string(resolved)),
				zap.Error(err))
			continue
		}
		current = out
		info.ProcessingSteps = append(info.ProcessingSteps, s.name)
		if s.name == StepRotation {
			info.RotationAngle = st.angle
		}
	}

	info.FinalSize = model.SizeOf(current.Bounds())
	p.logger.Debug("preprocess finished",
		zap.String("document_type", string(resolved)),
		zap.Strings("steps", info.ProcessingSteps),
		zap.Float64("rotation_angle", info.RotationAngle))
	return current, info
}

// runStep isolates a single step so a panic is reported like an error.
func (p *Preprocessor) runStep(s step, img image.Image, st *stepState) (out image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, model.PanicError(r)
		}
	}()
	out, err = s.apply(p, img, st)
	if err == nil && (out == nil || out.Bounds().Empty()) {
		err = errors.New("step produced an empty image")
	}
	return out, err
}
