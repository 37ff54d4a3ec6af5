package preprocess

import (
	"fmt"
	"image"
	"image/color"

	"github.com/tsawler/docfuse/internal/imgproc"
	"github.com/tsawler/docfuse/model"
)

// Filter strengths per profile tier.
var (
	denoiseSigma = map[model.Denoise]float64{
		model.DenoiseLight:    0.5,
		model.DenoiseModerate: 1.0,
		model.DenoiseStrong:   1.5,
	}
	claheClip = map[model.Contrast]float64{
		model.ContrastConservative: 1.5,
		model.ContrastBalanced:     2.0,
		model.ContrastAggressive:   3.0,
	}
)

const (
	claheTiles      = 8
	adaptiveBlock   = 11
	adaptiveC       = 2
	simpleThreshold = 127
)

// Upscale enlarges img by factor with Catmull-Rom interpolation. It refuses
// to produce an image of more than maxPixels pixels when maxPixels > 0.
func Upscale(img image.Image, factor float64, maxPixels int) (image.Image, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("upscale factor must be positive, got %v", factor)
	}
	b := img.Bounds()
	if maxPixels > 0 {
		projected := float64(b.Dx()) * factor * float64(b.Dy()) * factor
		if projected > float64(maxPixels) {
			return nil, fmt.Errorf("upscaled image would have %.0f pixels, limit is %d", projected, maxPixels)
		}
	}
	return imgproc.Scale(img, factor)
}

// Denoise smooths img with a Gaussian whose strength follows level.
func Denoise(img image.Image, level model.Denoise) (image.Image, error) {
	sigma, ok := denoiseSigma[level]
	if !ok {
		return nil, fmt.Errorf("unsupported denoise intensity %q", level)
	}
	return imgproc.GaussianBlur(img, sigma), nil
}

// EnhanceContrast converts img to grayscale and applies CLAHE on an 8x8 tile
// grid with a clip limit that follows level.
func EnhanceContrast(img image.Image, level model.Contrast) (image.Image, error) {
	clip, ok := claheClip[level]
	if !ok {
		return nil, fmt.Errorf("unsupported contrast intensity %q", level)
	}
	return imgproc.CLAHE(imgproc.ToGray(img), clip, claheTiles), nil
}

// Binarize thresholds img into black text on white.
func Binarize(img image.Image, method model.Binarization) (image.Image, error) {
	g := imgproc.ToGray(img)
	switch method {
	case model.BinarizeAdaptive:
		return imgproc.AdaptiveThreshold(g, adaptiveBlock, adaptiveC), nil
	case model.BinarizeOtsu:
		return imgproc.OtsuBinary(g, false), nil
	case model.BinarizeSimple:
		return imgproc.Threshold(g, simpleThreshold, false), nil
	}
	return nil, fmt.Errorf("unsupported binarization %q", method)
}

// ApplyMorphology runs the cleanup operation op over a grayscale copy of img.
func ApplyMorphology(img image.Image, op model.Morphology) (image.Image, error) {
	g := imgproc.ToGray(img)
	switch op {
	case model.MorphologyTextSharpening:
		return imgproc.Sharpen(imgproc.Close(g, 1)), nil
	case model.MorphologyTableEnhancement:
		return imgproc.Open(imgproc.Close(g, 2), 1), nil
	case model.MorphologyBasicCleaning:
		return imgproc.Close(g, 1), nil
	}
	return nil, fmt.Errorf("unsupported morphology %q", op)
}

// Rotation detection parameters.
const (
	houghMaxSide   = 1000
	houghStepDeg   = 0.25
	houghMinVotes  = 100
	houghMaxLines  = 10
	skewWindowDeg  = 45.0
	straightDegree = 180.0
)

// DetectSkew estimates the skew of img in degrees from its dominant
// near-vertical lines. A positive angle means the content is turned
// clockwise. ok is false when no usable line was found.
func DetectSkew(img image.Image) (angle float64, ok bool) {
	gray := imgproc.FitWithin(imgproc.ToGray(img), houghMaxSide)
	bin := imgproc.OtsuBinary(imgproc.ToGray(gray), true)

	lines := imgproc.HoughLines(bin, houghStepDeg, houghMinVotes, houghMaxLines)
	candidates := make([]float64, 0, len(lines))
	for _, l := range lines {
		switch {
		case l.ThetaDeg <= skewWindowDeg:
			candidates = append(candidates, l.ThetaDeg)
		case l.ThetaDeg > straightDegree-skewWindowDeg:
			candidates = append(candidates, l.ThetaDeg-straightDegree)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return median(candidates), true
}

// CorrectRotation levels img when its detected skew exceeds thresholdDeg.
// The original image is rotated, not the binary used for detection, and the
// canvas size is kept with uncovered corners painted white. It returns the
// applied angle, or 0 with img itself when nothing was done.
func CorrectRotation(img image.Image, thresholdDeg float64) (image.Image, float64) {
	angle, ok := DetectSkew(img)
	if !ok || abs(angle) <= thresholdDeg {
		return img, 0
	}
	return imgproc.Rotate(img, -angle, color.White), angle
}
