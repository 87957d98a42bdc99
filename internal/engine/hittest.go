package engine

import (
	"slices"

	"seehuhn.de/go/geom/vec"

	"github.com/inamate/sketchcore/internal/document"
)

// HitTestPoint tests a single shape at (x, y) as if it were moved by
// (dx, dy). Defining points win over the shape body so endpoints stay
// grabbable. A hit anywhere inside a group, connectors included, returns
// the group itself. Returns nil on no match.
func HitTestPoint(s document.Shape, x, y, threshold, dx, dy float64) document.Shape {
	if s == nil || !s.Base().State.Has(document.StateVisible) {
		return nil
	}

	switch t := s.(type) {
	case *document.Point:
		if PointBounds(t, threshold, dx, dy).Contains(x, y) {
			return t
		}

	case *document.Line:
		if p := hitDefiningPoints(t.Points(), x, y, threshold, dx, dy); p != nil {
			return p
		}
		if hitLine(t, x, y, threshold, dx, dy) {
			return t
		}

	case *document.Rectangle, *document.Ellipse, *document.Text, *document.Image, *document.Arc:
		if p := hitDefiningPoints(s.Points(), x, y, threshold, dx, dy); p != nil {
			return p
		}
		if GetBounds(s, threshold, dx, dy).Contains(x, y) {
			return s
		}

	case *document.CubicBezier, *document.QuadraticBezier, *document.Path:
		points := s.Points()
		if len(points) == 0 {
			return nil
		}
		if p := hitDefiningPoints(points, x, y, threshold, dx, dy); p != nil {
			return p
		}
		if HullContains(HullVertices(s, dx, dy), vec.Vec2{X: x, Y: y}) {
			return s
		}

	case *document.Group:
		if HitTestConnector(t, x, y, threshold, dx, dy) != nil {
			return t
		}
		if HitTestTopmost(t.Shapes, x, y, threshold, dx, dy) != nil {
			return t
		}
	}
	return nil
}

// HitTestConnector returns the connector of g, or of a group nested in it,
// under (x, y). Connectors of g win over nested ones, and later entries win
// over earlier ones. Hidden groups are skipped.
func HitTestConnector(g *document.Group, x, y, threshold, dx, dy float64) *document.Point {
	if g == nil || !g.State.Has(document.StateVisible) {
		return nil
	}
	for _, c := range slices.Backward(g.Connectors) {
		if PointBounds(c, threshold, dx, dy).Contains(x, y) {
			return c
		}
	}
	for _, child := range slices.Backward(g.Shapes) {
		if nested, ok := child.(*document.Group); ok {
			if c := HitTestConnector(nested, x, y, threshold, dx, dy); c != nil {
				return c
			}
		}
	}
	return nil
}

func hitDefiningPoints(points []*document.Point, x, y, threshold, dx, dy float64) *document.Point {
	for _, p := range points {
		if p != nil && PointBounds(p, threshold, dx, dy).Contains(x, y) {
			return p
		}
	}
	return nil
}

// hitLine reports whether (x, y) lies inside the corridor of width
// threshold around the segment.
func hitLine(l *document.Line, x, y, threshold, dx, dy float64) bool {
	a := vec.Vec2{X: l.Start.X + dx, Y: l.Start.Y + dy}
	b := vec.Vec2{X: l.End.X + dx, Y: l.End.Y + dy}
	_, distance := NearestPointOnSegment(a, b, vec.Vec2{X: x, Y: y})
	return distance < threshold
}

// HitTestTopmost tests shapes from last to first, matching draw order.
func HitTestTopmost(shapes []document.Shape, x, y, threshold, dx, dy float64) document.Shape {
	for i := len(shapes) - 1; i >= 0; i-- {
		if hit := HitTestPoint(shapes[i], x, y, threshold, dx, dy); hit != nil {
			return hit
		}
	}
	return nil
}

// HitTestLayer returns the topmost hit in a layer, or nil.
func HitTestLayer(layer *document.Layer, x, y, threshold float64) document.Shape {
	if layer == nil {
		return nil
	}
	return HitTestTopmost(layer.Shapes, x, y, threshold, 0, 0)
}

// HitTestRect returns every top-level shape touched by rect. A group is
// added whole when any of its descendants or connectors is touched.
func HitTestRect(shapes []document.Shape, rect Rect, threshold, dx, dy float64) document.ShapeSet {
	result := make(document.ShapeSet)
	selection := rect.Vertices()
	for _, s := range slices.Backward(shapes) {
		if hitRect(s, rect, selection, threshold, dx, dy) {
			result.Add(s)
		}
	}
	return result
}

func hitRect(s document.Shape, rect Rect, selection []vec.Vec2, threshold, dx, dy float64) bool {
	if s == nil || !s.Base().State.Has(document.StateVisible) {
		return false
	}

	switch t := s.(type) {
	case *document.Point:
		return PointBounds(t, threshold, dx, dy).IntersectsWith(rect)

	case *document.Line:
		if PointBounds(t.Start, threshold, dx, dy).IntersectsWith(rect) ||
			PointBounds(t.End, threshold, dx, dy).IntersectsWith(rect) {
			return true
		}
		a := vec.Vec2{X: t.Start.X + dx, Y: t.Start.Y + dy}
		b := vec.Vec2{X: t.End.X + dx, Y: t.End.Y + dy}
		return LineIntersectsRect(rect, a, b)

	case *document.Rectangle, *document.Ellipse, *document.Text, *document.Image, *document.Arc:
		return GetBounds(s, threshold, dx, dy).IntersectsWith(rect)

	case *document.CubicBezier, *document.QuadraticBezier, *document.Path:
		return Overlap(selection, HullVertices(s, dx, dy))

	case *document.Group:
		for _, c := range t.Connectors {
			if PointBounds(c, threshold, dx, dy).IntersectsWith(rect) {
				return true
			}
		}
		for _, child := range slices.Backward(t.Shapes) {
			if hitRect(child, rect, selection, threshold, dx, dy) {
				return true
			}
		}
	}
	return false
}

// LineIntersectsRect clips segment ab against rect (Liang-Barsky) and
// reports whether any part of it remains.
func LineIntersectsRect(rect Rect, a, b vec.Vec2) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{
		a.X - rect.X,
		rect.X + rect.Width - a.X,
		a.Y - rect.Y,
		rect.Y + rect.Height - a.Y,
	}

	t0, t1 := 0.0, 1.0
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = min(t1, t)
		}
	}
	return true
}
