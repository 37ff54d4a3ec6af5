package imgproc

import (
	"image"
	"math"
)

// CannyEdges returns a binary edge map (255 on edges) using Sobel gradients,
// non-maximum suppression and hysteresis between low and high.
func CannyEdges(g *image.Gray, low, high float64) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w < 3 || h < 3 {
		return dst
	}

	mag := make([]float64, w*h)
	dir := make([]uint8, w*h)
	at := func(x, y int) float64 {
		x = clampInt(x, 0, w-1)
		y = clampInt(y, 0, h-1)
		return float64(g.Pix[y*g.Stride+x])
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			// L1 magnitude, as in the common default
			mag[y*w+x] = math.Abs(gx) + math.Abs(gy)
			dir[y*w+x] = quantizeDirection(gx, gy)
		}
	}

	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}
			var a, b float64
			switch dir[i] {
			case 0:
				a, b = mag[i-1], mag[i+1]
			case 1:
				a, b = mag[i-w+1], mag[i+w-1]
			case 2:
				a, b = mag[i-w], mag[i+w]
			default:
				a, b = mag[i-w-1], mag[i+w+1]
			}
			if m < a || m < b {
				continue
			}
			if m > high {
				state[i] = strong
			} else {
				state[i] = weak
			}
		}
	}

	// Hysteresis: grow strong edges through connected weak pixels
	stack := make([]int, 0, 64)
	for i, s := range state {
		if s == strong {
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		dst.Pix[y*dst.Stride+x] = 255
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == weak {
					state[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}
	return dst
}

// quantizeDirection buckets the gradient angle into 0, 45, 90 or 135 degrees
func quantizeDirection(gx, gy float64) uint8 {
	angle := math.Atan2(gy, gx) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return 0
	case angle < 67.5:
		return 3
	case angle < 112.5:
		return 2
	default:
		return 1
	}
}

// EdgeDensity is the fraction of pixels that are set in an edge map
func EdgeDensity(edges *image.Gray) float64 {
	w, h := edges.Rect.Dx(), edges.Rect.Dy()
	if w*h == 0 {
		return 0
	}
	n := 0
	for y := 0; y < h; y++ {
		for _, v := range edges.Pix[y*edges.Stride : y*edges.Stride+w] {
			if v != 0 {
				n++
			}
		}
	}
	return float64(n) / float64(w*h)
}

// LaplacianVariance returns the variance of the 4-neighbour Laplacian of g.
// It grows with fine texture and sharp detail.
func LaplacianVariance(g *image.Gray) float64 {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	at := func(x, y int) float64 {
		// Reflect at the border
		if x < 0 {
			x = -x
		} else if x >= w {
			x = 2*w - x - 2
		}
		if y < 0 {
			y = -y
		} else if y >= h {
			y = 2*h - y - 2
		}
		x = clampInt(x, 0, w-1)
		y = clampInt(y, 0, h-1)
		return float64(g.Pix[y*g.Stride+x])
	}
	var sum, sumSq float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*at(x, y)
			sum += l
			sumSq += l * l
		}
	}
	n := float64(w * h)
	mean := sum / n
	return math.Max(0, sumSq/n-mean*mean)
}
