package imgproc

import (
	"image"
	"math"
)

// Component is an 8-connected region of non-zero pixels
type Component struct {
	// Bounds in the coordinates of the source mask
	Bounds image.Rectangle
	// Area is the number of member pixels
	Area int

	// mask holds the member pixels, origin at Bounds.Min
	mask []bool
}

// Components labels the 8-connected foreground regions of mask in scan order
// of their first pixel.
func Components(mask *image.Gray) []Component {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	labels := make([]int32, w*h)
	var comps []Component
	var pixels []int
	stack := make([]int, 0, 256)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if labels[i] != 0 || mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}
			label := int32(len(comps) + 1)
			labels[i] = label
			stack = append(stack[:0], i)
			pixels = pixels[:0]
			minX, minY, maxX, maxY := x, y, x, y
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				pixels = append(pixels, p)
				px, py := p%w, p/w
				minX, maxX = min(minX, px), max(maxX, px)
				minY, maxY = min(minY, py), max(maxY, py)
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := px+dx, py+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						j := ny*w + nx
						if labels[j] != 0 || mask.Pix[ny*mask.Stride+nx] == 0 {
							continue
						}
						labels[j] = label
						stack = append(stack, j)
					}
				}
			}

			bounds := image.Rect(minX, minY, maxX+1, maxY+1)
			bw := bounds.Dx()
			local := make([]bool, bw*bounds.Dy())
			for _, p := range pixels {
				local[(p/w-minY)*bw+(p%w-minX)] = true
			}
			comps = append(comps, Component{Bounds: bounds, Area: len(pixels), mask: local})
		}
	}
	return comps
}

// Has reports whether the pixel at (x, y) in source coordinates belongs to c
func (c Component) Has(x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(c.Bounds) {
		return false
	}
	return c.mask[(y-c.Bounds.Min.Y)*c.Bounds.Dx()+(x-c.Bounds.Min.X)]
}

// AspectRatio is width over height of the bounding box
func (c Component) AspectRatio() float64 {
	if c.Bounds.Dy() == 0 {
		return 0
	}
	return float64(c.Bounds.Dx()) / float64(c.Bounds.Dy())
}

// FilledArea is the area enclosed by the outer boundary of c, holes included.
// It is the bounding box minus the pixels reachable from outside.
func (c Component) FilledArea() int {
	bw, bh := c.Bounds.Dx(), c.Bounds.Dy()
	outside, pw := c.exterior()
	filled := 0
	for y := 1; y <= bh; y++ {
		for x := 1; x <= bw; x++ {
			if !outside[y*pw+x] {
				filled++
			}
		}
	}
	return filled
}

// OuterBoundary returns the member pixels that touch the background outside
// the component, in source coordinates. Hole edges are not included.
func (c Component) OuterBoundary() []image.Point {
	bw, bh := c.Bounds.Dx(), c.Bounds.Dy()
	outside, pw := c.exterior()
	var pts []image.Point
	for y := 0; y < bh; y++ {
		for x := 0; x < bw; x++ {
			if !c.mask[y*bw+x] {
				continue
			}
			// Padded coordinates are shifted by one
			px, py := x+1, y+1
			if outside[py*pw+px-1] || outside[py*pw+px+1] || outside[(py-1)*pw+px] || outside[(py+1)*pw+px] {
				pts = append(pts, image.Point{X: x + c.Bounds.Min.X, Y: y + c.Bounds.Min.Y})
			}
		}
	}
	return pts
}

// exterior flood fills the background from a one pixel frame around the
// bounding box. It returns the padded map and its stride.
func (c Component) exterior() ([]bool, int) {
	bw, bh := c.Bounds.Dx(), c.Bounds.Dy()
	pw, ph := bw+2, bh+2
	outside := make([]bool, pw*ph)
	member := func(x, y int) bool {
		if x < 1 || y < 1 || x > bw || y > bh {
			return false
		}
		return c.mask[(y-1)*bw+(x-1)]
	}
	stack := []int{0}
	outside[0] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p%pw, p/pw
		// 4-connected background, the dual of 8-connected foreground
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= pw || ny >= ph {
				continue
			}
			j := ny*pw + nx
			if outside[j] || member(nx, ny) {
				continue
			}
			outside[j] = true
			stack = append(stack, j)
		}
	}
	return outside, pw
}

// Circularity summarizes how round c is. ratio is the smallest over the
// largest boundary distance from the box center, and radius the mean distance.
func (c Component) Circularity() (ratio, radius float64) {
	pts := c.OuterBoundary()
	if len(pts) == 0 {
		return 0, 0
	}
	cx := float64(c.Bounds.Min.X) + float64(c.Bounds.Dx()-1)/2
	cy := float64(c.Bounds.Min.Y) + float64(c.Bounds.Dy()-1)/2
	minR, maxR, sum := math.Inf(1), 0.0, 0.0
	for _, p := range pts {
		r := math.Hypot(float64(p.X)-cx, float64(p.Y)-cy)
		minR = math.Min(minR, r)
		maxR = math.Max(maxR, r)
		sum += r
	}
	if maxR == 0 {
		return 0, 0
	}
	return minR / maxR, sum / float64(len(pts))
}
