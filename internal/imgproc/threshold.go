package imgproc

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
)

// Histogram returns the 256-bin intensity histogram of g
func Histogram(g *image.Gray) [256]int {
	var hist [256]int
	w, h := g.Rect.Dx(), g.Rect.Dy()
	for y := 0; y < h; y++ {
		for _, v := range g.Pix[y*g.Stride : y*g.Stride+w] {
			hist[v]++
		}
	}
	return hist
}

// Otsu returns the threshold maximizing between-class variance. Pixels at or
// below the threshold form the dark class.
func Otsu(g *image.Gray) uint8 {
	hist := Histogram(g)
	total := 0
	var sumAll float64
	for i, c := range hist {
		total += c
		sumAll += float64(i * c)
	}
	if total == 0 {
		return 0
	}

	var sumB, maxBetween float64
	wB := 0
	threshold := 0
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / float64(wB)
		mF := (sumAll - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > maxBetween {
			maxBetween = between
			threshold = t
		}
	}
	return uint8(threshold)
}

// Threshold maps pixels above t to 255 and the rest to 0. With invert the
// mapping is flipped, which turns dark ink into foreground.
func Threshold(g *image.Gray, t uint8, invert bool) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	hi, lo := uint8(255), uint8(0)
	if invert {
		hi, lo = 0, 255
	}
	for y := 0; y < h; y++ {
		src := g.Pix[y*g.Stride : y*g.Stride+w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x, v := range src {
			if v > t {
				out[x] = hi
			} else {
				out[x] = lo
			}
		}
	}
	return dst
}

// OtsuBinary thresholds g at its Otsu level
func OtsuBinary(g *image.Gray, invert bool) *image.Gray {
	return Threshold(g, Otsu(g), invert)
}

// AdaptiveThreshold compares each pixel against the Gaussian-weighted mean of
// its block x block neighbourhood minus c. The weights use the sigma derived
// from the block size, and the border is extended.
func AdaptiveThreshold(g *image.Gray, block int, c float64) *image.Gray {
	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}
	sigma := 0.3*(float64(block-1)*0.5-1) + 0.8
	k := gaussianKernel(block/2, sigma)
	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}
	mean := ToGray(convolution.Convolve(convolution.Convolve(g, k, opts), k.Transposed(), opts))

	w, h := g.Rect.Dx(), g.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if float64(g.Pix[y*g.Stride+x]) > float64(mean.Pix[y*mean.Stride+x])-c {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}
