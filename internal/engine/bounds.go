package engine

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"github.com/inamate/sketchcore/internal/document"
)

// PointBounds returns the threshold-sized square centered on p, shifted by
// (dx, dy).
func PointBounds(p *document.Point, threshold, dx, dy float64) Rect {
	radius := threshold / 2
	return Rect{
		X:      p.X - radius + dx,
		Y:      p.Y - radius + dy,
		Width:  threshold,
		Height: threshold,
	}
}

// GetBounds returns the axis-aligned bounds of a shape as if it were moved
// by (dx, dy). The shape itself is never modified. Curves and paths use the
// box of their control points, which contains the convex hull but is not a
// tight box of the drawn curve.
func GetBounds(s document.Shape, threshold, dx, dy float64) Rect {
	switch t := s.(type) {
	case *document.Point:
		return PointBounds(t, threshold, dx, dy)

	case *document.Line:
		return RectFromPoints(t.Start.X, t.Start.Y, t.End.X, t.End.Y, dx, dy)

	case *document.Rectangle, *document.Ellipse, *document.Text, *document.Image:
		box := s.(document.Boxed).Corners()
		return RectFromPoints(box.TopLeft.X, box.TopLeft.Y, box.BottomRight.X, box.BottomRight.Y, dx, dy)

	case *document.Arc:
		return arcBounds(t, dx, dy).Union(pointsBounds(t.Points(), dx, dy))

	case *document.CubicBezier, *document.QuadraticBezier, *document.Path:
		return pointsBounds(s.Points(), dx, dy)

	case *document.Group:
		return groupBounds(t, threshold, dx, dy)
	}
	return Rect{}
}

// arcBounds approximates an arc by the circle through its two bounding
// points: center at their midpoint, radius half their distance.
func arcBounds(a *document.Arc, dx, dy float64) Rect {
	x1, y1 := a.Point1.X+dx, a.Point1.Y+dy
	x2, y2 := a.Point2.X+dx, a.Point2.Y+dy

	x0, y0 := (x1+x2)/2, (y1+y2)/2
	r := math.Hypot(x1-x0, y1-y0)
	return Rect{X: x0 - r, Y: y0 - r, Width: 2 * r, Height: 2 * r}
}

func pointsBounds(points []*document.Point, dx, dy float64) Rect {
	vs := offsetVertices(points, dx, dy)
	if len(vs) == 0 {
		return Rect{}
	}
	minX, minY := vs[0].X, vs[0].Y
	maxX, maxY := minX, minY
	for _, v := range vs[1:] {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func groupBounds(g *document.Group, threshold, dx, dy float64) Rect {
	var result Rect
	first := true
	add := func(r Rect) {
		if first {
			result = r
			first = false
			return
		}
		result = result.Union(r)
	}

	for _, child := range g.Shapes {
		add(GetBounds(child, threshold, dx, dy))
	}
	for _, c := range g.Connectors {
		add(PointBounds(c, threshold, dx, dy))
	}
	return result
}

// offsetVertices converts defining points to vectors moved by (dx, dy),
// skipping missing points.
func offsetVertices(points []*document.Point, dx, dy float64) []vec.Vec2 {
	m := Translate(dx, dy)
	vs := make([]vec.Vec2, 0, len(points))
	for _, p := range points {
		if p == nil {
			continue
		}
		vs = append(vs, m.Apply(vec.Vec2{X: p.X, Y: p.Y}))
	}
	return vs
}

// HullVertices returns the convex hull of a shape's defining points moved
// by (dx, dy).
func HullVertices(s document.Shape, dx, dy float64) []vec.Vec2 {
	return ConvexHull(offsetVertices(s.Points(), dx, dy))
}
