// Package regions finds non-text marks (stamps, logos, icons) on a
// processed page by looking for ink outside every recognized text box.
package regions

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/tsawler/docfuse/internal/imgproc"
	"github.com/tsawler/docfuse/model"
)

// Engine tags every mark this package reports.
const Engine = "contour"

// Shape thresholds.
const (
	minStampRoundness = 0.8
	minStampRadius    = 5.0
	stampAreaLow      = 0.8
	stampAreaHigh     = 1.25
	minLogoArea       = 50
	logoAspectLow     = 0.8
	logoAspectHigh    = 1.2
)

// Config holds detector configuration
type Config struct {
	// MinArea is the smallest filled contour area (px²) considered a mark
	MinArea int
	// Confidence is reported on every mark
	Confidence float64
	// EncodeCrops controls whether each mark carries its PNG-encoded crop
	EncodeCrops bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinArea:     100,
		Confidence:  0.8,
		EncodeCrops: true,
	}
}

// Detector classifies non-text contours
type Detector struct {
	config Config
}

// NewDetector creates a detector with default configuration
func NewDetector() *Detector {
	return &Detector{config: DefaultConfig()}
}

// NewDetectorWithConfig creates a detector with custom configuration
func NewDetectorWithConfig(config Config) *Detector {
	return &Detector{config: config}
}

// Detect returns one mark per external contour of the non-text ink, in scan
// order. Fragment boxes are in pixel coordinates relative to img's origin.
func (d *Detector) Detect(img image.Image, fragments []model.TextFragment) ([]model.Icon, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("regions: empty image")
	}

	mask := imgproc.OtsuBinary(imgproc.ToGray(img), true)
	clearText(mask, fragments)

	icons := []model.Icon{}
	for _, c := range imgproc.Components(mask) {
		if c.FilledArea() <= d.config.MinArea {
			continue
		}
		icon := model.Icon{
			Type:       classify(imgproc.Crop(mask, c.Bounds).(*image.Gray)),
			BBox:       model.QuadFromRect(c.Bounds),
			Confidence: d.config.Confidence,
			Engine:     Engine,
		}
		if d.config.EncodeCrops {
			raw, err := encodeCrop(img, c.Bounds)
			if err != nil {
				return nil, err
			}
			icon.RawPixels = raw
		}
		icons = append(icons, icon)
	}
	return icons, nil
}

// clearText zeroes every mask pixel whose center lies inside a fragment box
func clearText(mask *image.Gray, fragments []model.TextFragment) {
	bounds := mask.Bounds()
	for _, f := range fragments {
		r := image.Rect(
			int(math.Floor(f.BBox.MinX())), int(math.Floor(f.BBox.MinY())),
			int(math.Ceil(f.BBox.MaxX())), int(math.Ceil(f.BBox.MaxY())),
		).Intersect(bounds)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			row := mask.Pix[y*mask.Stride:]
			for x := r.Min.X; x < r.Max.X; x++ {
				if f.BBox.Contains(model.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}) {
					row[x] = 0
				}
			}
		}
	}
}

// classify looks at every contour within a crop: a round one makes a stamp,
// a squarish one a logo, anything else is an icon.
func classify(crop *image.Gray) model.IconType {
	comps := imgproc.Components(crop)
	for _, c := range comps {
		if isRound(c) {
			return model.IconStamp
		}
	}
	for _, c := range comps {
		ar := c.AspectRatio()
		if c.FilledArea() > minLogoArea && ar >= logoAspectLow && ar <= logoAspectHigh {
			return model.IconLogo
		}
	}
	return model.IconIcon
}

func isRound(c imgproc.Component) bool {
	ratio, radius := c.Circularity()
	if ratio < minStampRoundness || radius < minStampRadius {
		return false
	}
	circle := math.Pi * radius * radius
	area := float64(c.FilledArea())
	return area >= stampAreaLow*circle && area <= stampAreaHigh*circle
}

// encodeCrop PNG-encodes the part of img under r, where r is relative to
// img's origin
func encodeCrop(img image.Image, r image.Rectangle) ([]byte, error) {
	crop := imgproc.Crop(img, r.Add(img.Bounds().Min))
	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, fmt.Errorf("regions: encode crop: %w", err)
	}
	return buf.Bytes(), nil
}
