package imgproc

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/gift"
)

// GaussianBlur smooths img with a separable Gaussian of standard deviation
// sigma. The kernel has odd length so the image is not shifted. Grayscale
// input stays grayscale.
func GaussianBlur(img image.Image, sigma float64) image.Image {
	if sigma <= 0 {
		return copyImage(img)
	}
	norm := gaussianKernel(int(math.Ceil(3*sigma)), sigma)
	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}
	out := convolution.Convolve(img, norm, opts)
	out = convolution.Convolve(out, norm.Transposed(), opts)
	if IsGray(img) {
		return ToGray(out)
	}
	return out
}

// gaussianKernel returns a normalized horizontal Gaussian of length 2*radius+1
func gaussianKernel(radius int, sigma float64) convolution.Matrix {
	k := convolution.NewKernel(2*radius+1, 1)
	for i := range k.Matrix {
		x := float64(i - radius)
		k.Matrix[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	return k.Normalized()
}

// SharpenKernel is the 3x3 high-boost kernel used for text sharpening
var SharpenKernel = [9]float64{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}

// Convolve3 applies a 3x3 kernel, clamping results into the pixel range
func Convolve3(img image.Image, kernel [9]float64) image.Image {
	k := convolution.NewKernel(3, 3)
	copy(k.Matrix, kernel[:])
	out := convolution.Convolve(img, k, &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true})
	if IsGray(img) {
		return ToGray(out)
	}
	return out
}

// Sharpen applies SharpenKernel
func Sharpen(img image.Image) image.Image {
	return Convolve3(img, SharpenKernel)
}

// Dilate replaces every pixel with the maximum of its size x size window.
// Windows are centred, so an even size grows to the next odd one.
func Dilate(g *image.Gray, size int) *image.Gray {
	return rankFilter(g, gift.Maximum(oddSize(size), false))
}

// Erode replaces every pixel with the minimum of its size x size window
func Erode(g *image.Gray, size int) *image.Gray {
	return rankFilter(g, gift.Minimum(oddSize(size), false))
}

// Close is dilation followed by erosion. It removes dark specks narrower
// than the kernel from a light background.
func Close(g *image.Gray, size int) *image.Gray {
	return Erode(Dilate(g, size), size)
}

// Open is erosion followed by dilation
func Open(g *image.Gray, size int) *image.Gray {
	return Dilate(Erode(g, size), size)
}

func oddSize(size int) int {
	if size > 1 && size%2 == 0 {
		return size + 1
	}
	return size
}

func rankFilter(g *image.Gray, f gift.Filter) *image.Gray {
	gf := gift.New(f)
	dst := image.NewGray(gf.Bounds(g.Bounds()))
	gf.Draw(dst, g)
	return dst
}

func copyImage(img image.Image) image.Image {
	if IsGray(img) {
		return ToGray(img)
	}
	return ToRGBA(img)
}
