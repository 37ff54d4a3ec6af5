package imgproc

import (
	"image"
	"math"
)

// CLAHE applies contrast limited adaptive histogram equalization over a
// tiles x tiles grid. clipLimit follows the usual convention: each bin is
// capped at clipLimit times the average bin height of a tile, and the excess
// is spread over all bins. Tile mappings are blended bilinearly.
func CLAHE(g *image.Gray, clipLimit float64, tiles int) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	tx, ty := min(tiles, w), min(tiles, h)
	if tx < 1 {
		tx = 1
	}
	if ty < 1 {
		ty = 1
	}
	tileW := int(math.Ceil(float64(w) / float64(tx)))
	tileH := int(math.Ceil(float64(h) / float64(ty)))

	luts := make([][256]uint8, tx*ty)
	for j := 0; j < ty; j++ {
		for i := 0; i < tx; i++ {
			r := image.Rect(i*tileW, j*tileH, min((i+1)*tileW, w), min((j+1)*tileH, h))
			luts[j*tx+i] = tileMapping(g, r, clipLimit)
		}
	}

	for y := 0; y < h; y++ {
		// Position relative to tile centers
		fy := (float64(y)+0.5)/float64(tileH) - 0.5
		j0 := int(math.Floor(fy))
		wy := fy - float64(j0)
		j1 := j0 + 1
		j0 = clampInt(j0, 0, ty-1)
		j1 = clampInt(j1, 0, ty-1)
		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			i0 := int(math.Floor(fx))
			wx := fx - float64(i0)
			i1 := i0 + 1
			i0 = clampInt(i0, 0, tx-1)
			i1 = clampInt(i1, 0, tx-1)

			v := g.Pix[y*g.Stride+x]
			top := (1-wx)*float64(luts[j0*tx+i0][v]) + wx*float64(luts[j0*tx+i1][v])
			bottom := (1-wx)*float64(luts[j1*tx+i0][v]) + wx*float64(luts[j1*tx+i1][v])
			dst.Pix[y*dst.Stride+x] = uint8(math.Round((1-wy)*top + wy*bottom))
		}
	}
	return dst
}

func tileMapping(g *image.Gray, r image.Rectangle, clipLimit float64) [256]uint8 {
	var hist [256]int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			hist[g.Pix[y*g.Stride+x]]++
		}
	}
	area := r.Dx() * r.Dy()
	var lut [256]uint8
	if area == 0 {
		return lut
	}

	if clipLimit > 0 {
		limit := int(math.Max(1, clipLimit*float64(area)/256))
		excess := 0
		for i := range hist {
			if hist[i] > limit {
				excess += hist[i] - limit
				hist[i] = limit
			}
		}
		bonus, rest := excess/256, excess%256
		for i := range hist {
			hist[i] += bonus
		}
		// Spread the remainder evenly across the range
		if rest > 0 {
			step := max(256/rest, 1)
			for i := 0; i < 256 && rest > 0; i += step {
				hist[i]++
				rest--
			}
		}
	}

	cdf := 0
	scale := 255.0 / float64(area)
	for i, c := range hist {
		cdf += c
		lut[i] = uint8(math.Min(255, math.Round(float64(cdf)*scale)))
	}
	return lut
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
