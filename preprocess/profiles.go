package preprocess

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/tsawler/docfuse/model"
)

// Profiles maps document types to preprocessing profiles. Lookups of a type
// that has no entry fall back to the generalDocument profile.
type Profiles map[model.DocumentType]model.Profile

// DefaultProfiles returns a fresh copy of the built-in profile table.
func DefaultProfiles() Profiles {
	return Profiles{
		model.DocumentNutrition: {
			Upscale:         2.5,
			Denoise:         model.DenoiseStrong,
			Contrast:        model.ContrastAggressive,
			CorrectRotation: true,
			Binarization:    model.BinarizeAdaptive,
			Morphology:      model.MorphologyTextSharpening,
		},
		model.DocumentCustoms: {
			Upscale:         2.0,
			Denoise:         model.DenoiseModerate,
			Contrast:        model.ContrastBalanced,
			CorrectRotation: true,
			Binarization:    model.BinarizeOtsu,
			Morphology:      model.MorphologyTableEnhancement,
		},
		model.DocumentGeneral: {
			Denoise:         model.DenoiseLight,
			Contrast:        model.ContrastConservative,
			CorrectRotation: true,
			Binarization:    model.BinarizeAdaptive,
			Morphology:      model.MorphologyBasicCleaning,
		},
	}
}

// Lookup returns the profile for t. Unknown types, and known types missing
// from the table, get the generalDocument profile.
func (p Profiles) Lookup(t model.DocumentType) (model.DocumentType, model.Profile) {
	t = t.Resolve()
	if prof, ok := p[t]; ok {
		return t, prof
	}
	if prof, ok := p[model.DocumentGeneral]; ok {
		return model.DocumentGeneral, prof
	}
	return model.DocumentGeneral, DefaultProfiles()[model.DocumentGeneral]
}

// Merge returns a copy of p with every entry of overrides replacing the
// matching one.
func (p Profiles) Merge(overrides Profiles) Profiles {
	out := make(Profiles, len(p)+len(overrides))
	maps.Copy(out, p)
	maps.Copy(out, overrides)
	return out
}

// Validate checks that every key is a known document type and every
// profile is well formed.
func (p Profiles) Validate() error {
	var errs []error
	for _, t := range model.DocumentTypes() {
		prof, ok := p[t]
		if !ok {
			continue
		}
		if err := prof.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("profile %s: %w", t, err))
		}
	}
	keys := make([]model.DocumentType, 0, len(p))
	for t := range p {
		keys = append(keys, t)
	}
	slices.Sort(keys)
	for _, t := range keys {
		if !t.IsKnown() {
			errs = append(errs, fmt.Errorf("unknown document type %q in profile table", t))
		}
	}
	return errors.Join(errs...)
}
