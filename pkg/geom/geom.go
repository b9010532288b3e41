// Package geom provides rectangle and point algebra for canvas layout.
//
// All operations are pure functions over value types. Degenerate rectangles
// (zero width or height) are legal values: they intersect only themselves,
// and Union treats them like any other rect.
package geom

import "math"

// Point is a position on the canvas plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is an axis-aligned rectangle with non-negative dimensions.
// The zero value is the degenerate rectangle at the origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect builds a rectangle, clamping negative dimensions to zero.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: math.Max(w, 0), Height: math.Max(h, 0)}
}

// MaxX returns the right edge coordinate.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge coordinate.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Area returns width times height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// IsEmpty reports whether the rectangle has zero area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Center returns the midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Union returns the smallest rectangle containing both r and s.
// A degenerate rectangle contributes its origin only when the other
// rectangle is also degenerate; otherwise it is ignored so that empty
// bounds never stretch a real region toward the origin.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	x := math.Min(r.X, s.X)
	y := math.Min(r.Y, s.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Max(r.MaxX(), s.MaxX()) - x,
		Height: math.Max(r.MaxY(), s.MaxY()) - y,
	}
}

// Intersect returns the overlapping region of r and s, or the zero Rect
// when they do not intersect.
func (r Rect) Intersect(s Rect) Rect {
	x := math.Max(r.X, s.X)
	y := math.Max(r.Y, s.Y)
	w := math.Min(r.MaxX(), s.MaxX()) - x
	h := math.Min(r.MaxY(), s.MaxY()) - y
	if w <= 0 || h <= 0 {
		return Rect{}
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Intersects reports whether r and s share interior area.
// A degenerate rectangle intersects only itself.
func (r Rect) Intersects(s Rect) bool {
	if r.IsEmpty() || s.IsEmpty() {
		return r == s
	}
	return r.X < s.MaxX() && s.X < r.MaxX() &&
		r.Y < s.MaxY() && s.Y < r.MaxY()
}

// Inset shrinks (positive margin) or grows (negative margin) the rectangle
// by the same amount on every side. Shrinking past the center collapses to
// the degenerate rectangle at the center point.
func (r Rect) Inset(margin float64) Rect {
	w := r.Width - 2*margin
	h := r.Height - 2*margin
	if w <= 0 || h <= 0 {
		c := r.Center()
		return Rect{X: c.X, Y: c.Y}
	}
	return Rect{X: r.X + margin, Y: r.Y + margin, Width: w, Height: h}
}

// Expand grows the rectangle by margin on every side.
// It is shorthand for Inset(-margin).
func (r Rect) Expand(margin float64) Rect {
	return r.Inset(-margin)
}

// OverlapRatio returns the intersection area divided by the reference
// rectangle's own area. A degenerate reference yields 0.
func (r Rect) OverlapRatio(ref Rect) float64 {
	if ref.Area() <= 0 {
		return 0
	}
	return r.Intersect(ref).Area() / ref.Area()
}

// Contains reports whether the point lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// BoundsOf returns the union of all rectangles in rs.
// An empty slice yields the zero Rect.
func BoundsOf(rs []Rect) Rect {
	var out Rect
	for _, r := range rs {
		out = out.Union(r)
	}
	return out
}
