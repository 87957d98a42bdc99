package engine

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the normalized rect spanning two corners, shifted
// by (dx, dy).
func RectFromPoints(x1, y1, x2, y2, dx, dy float64) Rect {
	return Rect{
		X:      math.Min(x1, x2) + dx,
		Y:      math.Min(y1, y2) + dy,
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}

// Contains checks if a point is inside the rect. Edges are inclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IntersectsWith reports whether the two rects share at least one point.
func (r Rect) IntersectsWith(other Rect) bool {
	return other.X <= r.X+r.Width &&
		r.X <= other.X+other.Width &&
		other.Y <= r.Y+r.Height &&
		r.Y <= other.Y+other.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects. Unlike the
// area-based IsEmpty, degenerate rects (a point or a segment) still count.
func (r Rect) Union(other Rect) Rect {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Vertices returns the four corners in clockwise order starting top-left,
// so the rect can take part in convex polygon tests.
func (r Rect) Vertices() []vec.Vec2 {
	return []vec.Vec2{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}
