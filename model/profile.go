package model

import (
	"errors"
	"fmt"
)

// Denoise is the noise reduction intensity of a profile
type Denoise string

// Noise reduction tiers, increasing in strength
const (
	DenoiseNone     Denoise = "none"
	DenoiseLight    Denoise = "light"
	DenoiseModerate Denoise = "moderate"
	DenoiseStrong   Denoise = "strong"
)

// Contrast is the local contrast equalization intensity of a profile
type Contrast string

// Contrast tiers, increasing in clip strength
const (
	ContrastNone         Contrast = "none"
	ContrastConservative Contrast = "conservative"
	ContrastBalanced     Contrast = "balanced"
	ContrastAggressive   Contrast = "aggressive"
)

// Binarization selects the thresholding method
type Binarization string

// Thresholding methods
const (
	BinarizeNone     Binarization = "none"
	BinarizeAdaptive Binarization = "adaptive"
	BinarizeOtsu     Binarization = "otsu"
	BinarizeSimple   Binarization = "simple"
)

// Morphology selects the morphological cleanup applied last
type Morphology string

// Morphology operations
const (
	MorphologyNone             Morphology = "none"
	MorphologyTextSharpening   Morphology = "textSharpening"
	MorphologyTableEnhancement Morphology = "tableEnhancement"
	MorphologyBasicCleaning    Morphology = "basicCleaning"
)

// Profile is the bundle of image transforms applied before recognition.
// Upscale of 0 disables resolution enhancement.
type Profile struct {
	Upscale         float64      `json:"upscale,omitempty" yaml:"upscale"`
	Denoise         Denoise      `json:"denoiseIntensity" yaml:"denoise"`
	Contrast        Contrast     `json:"contrastIntensity" yaml:"contrast"`
	CorrectRotation bool         `json:"correctRotation" yaml:"correct_rotation"`
	Binarization    Binarization `json:"binarization" yaml:"binarization"`
	Morphology      Morphology   `json:"morphology" yaml:"morphology"`
}

// Validate checks every enum value and the upscale factor
func (p Profile) Validate() error {
	var errs []error
	if p.Upscale < 0 || p.Upscale != p.Upscale {
		errs = append(errs, fmt.Errorf("upscale must be >= 0, got %v", p.Upscale))
	}
	switch p.Denoise {
	case DenoiseNone, DenoiseLight, DenoiseModerate, DenoiseStrong:
	default:
		errs = append(errs, fmt.Errorf("unknown denoise intensity %q", p.Denoise))
	}
	switch p.Contrast {
	case ContrastNone, ContrastConservative, ContrastBalanced, ContrastAggressive:
	default:
		errs = append(errs, fmt.Errorf("unknown contrast intensity %q", p.Contrast))
	}
	switch p.Binarization {
	case BinarizeNone, BinarizeAdaptive, BinarizeOtsu, BinarizeSimple:
	default:
		errs = append(errs, fmt.Errorf("unknown binarization %q", p.Binarization))
	}
	switch p.Morphology {
	case MorphologyNone, MorphologyTextSharpening, MorphologyTableEnhancement, MorphologyBasicCleaning:
	default:
		errs = append(errs, fmt.Errorf("unknown morphology %q", p.Morphology))
	}
	return errors.Join(errs...)
}
