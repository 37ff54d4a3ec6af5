package imgproc

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// ToGray converts img into an origin-based grayscale copy
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ToRGBA converts img into an origin-based RGBA copy
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// IsGray reports whether img uses a single-channel color model
func IsGray(img image.Image) bool {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return true
	}
	return false
}

// NewGrayFilled returns a w x h image with every pixel set to v
func NewGrayFilled(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	if v != 0 {
		for i := range g.Pix {
			g.Pix[i] = v
		}
	}
	return g
}

// MeanStdDev returns the mean and population standard deviation of g
func MeanStdDev(g *image.Gray) (mean, std float64) {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	n := float64(w * h)
	if n == 0 {
		return 0, 0
	}
	var sum, sumSq float64
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for _, v := range row {
			f := float64(v)
			sum += f
			sumSq += f * f
		}
	}
	mean = sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// ChannelStdDev returns the per-channel (R, G, B) standard deviation of img
// and whether any pixel is chromatic, that is its channels spread by more
// than tolerance.
func ChannelStdDev(img image.Image, tolerance uint8) (std [3]float64, chromatic bool) {
	b := img.Bounds()
	n := float64(b.Dx() * b.Dy())
	if n == 0 {
		return std, false
	}
	var sum, sumSq [3]float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			ch := [3]uint8{c.R, c.G, c.B}
			lo, hi := ch[0], ch[0]
			for i, v := range ch {
				f := float64(v)
				sum[i] += f
				sumSq[i] += f * f
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			if hi-lo > tolerance {
				chromatic = true
			}
		}
	}
	for i := range std {
		mean := sum[i] / n
		v := sumSq[i]/n - mean*mean
		if v > 0 {
			std[i] = math.Sqrt(v)
		}
	}
	return std, chromatic
}

// Crop copies the rectangle r of img into a new origin-based image of the same kind
func Crop(img image.Image, r image.Rectangle) image.Image {
	r = r.Intersect(img.Bounds())
	if g, ok := img.(*image.Gray); ok {
		dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(dst, dst.Bounds(), g, r.Min, draw.Src)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
