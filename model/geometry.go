package model

import (
	"image"
	"math"
)

// Point represents a 2D point in pixel space (Y grows downward)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents an axis-aligned bounding box in image coordinates
type BBox struct {
	X      float64 `json:"x"` // Left
	Y      float64 `json:"y"` // Top (image coordinate system)
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box from two points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	width := math.Abs(p2.X - p1.X)
	height := math.Abs(p2.Y - p1.Y)
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// BBoxFromRect converts an integer pixel rectangle
func BBoxFromRect(r image.Rectangle) BBox {
	return BBox{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Bottom() < other.Top() ||
		b.Top() > other.Bottom())
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Top(), other.Top())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsValid returns true if the bounding box has positive dimensions
func (b BBox) IsValid() bool {
	return b.Width > 0 && b.Height > 0
}

// Quad returns the four corners clockwise from the top-left
func (b BBox) Quad() Quad {
	return Quad{
		{X: b.Left(), Y: b.Top()},
		{X: b.Right(), Y: b.Top()},
		{X: b.Right(), Y: b.Bottom()},
		{X: b.Left(), Y: b.Bottom()},
	}
}

// Rect returns the smallest integer pixel rectangle covering the box
func (b BBox) Rect() image.Rectangle {
	return image.Rect(
		int(math.Floor(b.Left())),
		int(math.Floor(b.Top())),
		int(math.Ceil(b.Right())),
		int(math.Ceil(b.Bottom())),
	)
}

// Quad is a four-point polygon in pixel space. Engines report either
// axis-aligned boxes or rotated quadrilaterals; both have well-defined extents.
type Quad [4]Point

// QuadFromRect converts an integer pixel rectangle into a Quad
func QuadFromRect(r image.Rectangle) Quad {
	return BBoxFromRect(r).Quad()
}

// RectQuad returns the axis-aligned quad spanning (x0, y0) to (x1, y1)
func RectQuad(x0, y0, x1, y1 float64) Quad {
	return NewBBoxFromPoints(Point{X: x0, Y: y0}, Point{X: x1, Y: y1}).Quad()
}

// MinX returns the smallest X among the corners
func (q Quad) MinX() float64 {
	return math.Min(math.Min(q[0].X, q[1].X), math.Min(q[2].X, q[3].X))
}

// MaxX returns the largest X among the corners
func (q Quad) MaxX() float64 {
	return math.Max(math.Max(q[0].X, q[1].X), math.Max(q[2].X, q[3].X))
}

// MinY returns the smallest Y among the corners
func (q Quad) MinY() float64 {
	return math.Min(math.Min(q[0].Y, q[1].Y), math.Min(q[2].Y, q[3].Y))
}

// MaxY returns the largest Y among the corners
func (q Quad) MaxY() float64 {
	return math.Max(math.Max(q[0].Y, q[1].Y), math.Max(q[2].Y, q[3].Y))
}

// Bounds returns the axis-aligned extents of the quad
func (q Quad) Bounds() BBox {
	return NewBBoxFromPoints(Point{X: q.MinX(), Y: q.MinY()}, Point{X: q.MaxX(), Y: q.MaxY()})
}

// Center returns the center of the quad's extents
func (q Quad) Center() Point {
	return q.Bounds().Center()
}

// IsDegenerate reports whether the quad has no area extent or holds NaN/Inf coordinates
func (q Quad) IsDegenerate() bool {
	for _, p := range q {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return true
		}
	}
	return q.MaxX() <= q.MinX() || q.MaxY() <= q.MinY()
}

// Contains reports whether p lies inside the polygon (even-odd rule)
func (q Quad) Contains(p Point) bool {
	inside := false
	j := len(q) - 1
	for i := range q {
		pi, pj := q[i], q[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xCross := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// UnionQuads returns the axis-aligned union of the given quads as a Quad.
// It returns the zero Quad when no quads are given.
func UnionQuads(quads ...Quad) Quad {
	if len(quads) == 0 {
		return Quad{}
	}
	box := quads[0].Bounds()
	for _, q := range quads[1:] {
		box = box.Union(q.Bounds())
	}
	return box.Quad()
}
