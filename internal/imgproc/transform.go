package imgproc

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Scale resizes img by factor with Catmull-Rom interpolation
func Scale(img image.Image, factor float64) (image.Image, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("invalid scale factor %v", factor)
	}
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * factor))
	h := int(math.Round(float64(b.Dy()) * factor))
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("scaled size %dx%d is empty", w, h)
	}
	dr := image.Rect(0, 0, w, h)
	var dst draw.Image
	if IsGray(img) {
		dst = image.NewGray(dr)
	} else {
		dst = image.NewRGBA(dr)
	}
	draw.CatmullRom.Scale(dst, dr, img, b, draw.Src, nil)
	return dst, nil
}

// FitWithin downscales img so its longer side is at most maxSide. It
// returns img unchanged when it already fits.
func FitWithin(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	long := max(b.Dx(), b.Dy())
	if long <= maxSide || maxSide <= 0 {
		return img
	}
	factor := float64(maxSide) / float64(long)
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Rotate turns img by degrees about its center, keeping the canvas size.
// Positive angles rotate clockwise as displayed (y grows downward).
// Uncovered pixels are set to fill.
func Rotate(img image.Image, degrees float64, fill color.Color) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dr := image.Rect(0, 0, w, h)
	var dst draw.Image
	if IsGray(img) {
		dst = image.NewGray(dr)
	} else {
		dst = image.NewRGBA(dr)
	}
	draw.Draw(dst, dr, image.NewUniform(fill), image.Point{}, draw.Src)

	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	cx, cy := float64(w)/2, float64(h)/2
	// Source coordinates are relative to b.Min
	sx0, sy0 := float64(b.Min.X), float64(b.Min.Y)
	s2d := f64.Aff3{
		cos, -sin, cx - cos*(cx+sx0) + sin*(cy+sy0),
		sin, cos, cy - sin*(cx+sx0) - cos*(cy+sy0),
	}
	draw.BiLinear.Transform(dst, s2d, img, b, draw.Src, nil)
	return dst
}
