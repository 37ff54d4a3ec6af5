package imgproc

import (
	"image"
	"math"
	"sort"
)

// Line is a straight line in Hesse normal form: x*cos(θ) + y*sin(θ) = Rho
type Line struct {
	Rho      float64
	ThetaDeg float64
	Votes    int
}

// HoughLines runs a standard Hough transform over the non-zero pixels of bin.
// θ spans [0, 180) in stepDeg increments and ρ has a one pixel resolution.
// Only local maxima with at least threshold votes are returned, strongest
// first, and at most maxLines of them when maxLines > 0.
func HoughLines(bin *image.Gray, stepDeg float64, threshold, maxLines int) []Line {
	w, h := bin.Rect.Dx(), bin.Rect.Dy()
	if w == 0 || h == 0 || stepDeg <= 0 {
		return nil
	}
	nTheta := int(math.Round(180 / stepDeg))
	diag := int(math.Ceil(math.Hypot(float64(w), float64(h))))
	nRho := 2*diag + 1

	cosT := make([]float64, nTheta)
	sinT := make([]float64, nTheta)
	for t := 0; t < nTheta; t++ {
		rad := float64(t) * stepDeg * math.Pi / 180
		cosT[t], sinT[t] = math.Cos(rad), math.Sin(rad)
	}

	acc := make([]int32, nTheta*nRho)
	for y := 0; y < h; y++ {
		row := bin.Pix[y*bin.Stride : y*bin.Stride+w]
		for x, v := range row {
			if v == 0 {
				continue
			}
			fx, fy := float64(x), float64(y)
			for t := 0; t < nTheta; t++ {
				r := int(math.Round(fx*cosT[t]+fy*sinT[t])) + diag
				acc[t*nRho+r]++
			}
		}
	}

	var lines []Line
	for t := 0; t < nTheta; t++ {
		for r := 0; r < nRho; r++ {
			v := acc[t*nRho+r]
			if int(v) < threshold || v == 0 {
				continue
			}
			if !isPeak(acc, nTheta, nRho, t, r) {
				continue
			}
			lines = append(lines, Line{
				Rho:      float64(r - diag),
				ThetaDeg: float64(t) * stepDeg,
				Votes:    int(v),
			})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Votes != lines[j].Votes {
			return lines[i].Votes > lines[j].Votes
		}
		if lines[i].ThetaDeg != lines[j].ThetaDeg {
			return lines[i].ThetaDeg < lines[j].ThetaDeg
		}
		return lines[i].Rho < lines[j].Rho
	})
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

// isPeak reports whether cell (t, r) is a local maximum of its 3x3
// neighbourhood. Plateaus resolve to their first cell in scan order.
func isPeak(acc []int32, nTheta, nRho, t, r int) bool {
	v := acc[t*nRho+r]
	for dt := -1; dt <= 1; dt++ {
		for dr := -1; dr <= 1; dr++ {
			if dt == 0 && dr == 0 {
				continue
			}
			tt, rr := t+dt, r+dr
			if tt < 0 || tt >= nTheta || rr < 0 || rr >= nRho {
				continue
			}
			n := acc[tt*nRho+rr]
			earlier := dt < 0 || (dt == 0 && dr < 0)
			if earlier && n >= v {
				return false
			}
			if !earlier && n > v {
				return false
			}
		}
	}
	return true
}
