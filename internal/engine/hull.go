package engine

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"
)

const epsilon = 1e-9

// NearestPointOnSegment returns the point of segment ab closest to p and the
// distance between the two.
func NearestPointOnSegment(a, b, p vec.Vec2) (vec.Vec2, float64) {
	d := b.Sub(a)
	lengthSq := d.Dot(d)
	if lengthSq == 0 {
		return a, p.Sub(a).Length()
	}

	t := p.Sub(a).Dot(d) / lengthSq
	t = math.Max(0, math.Min(1, t))
	nearest := a.Add(d.Mul(t))
	return nearest, p.Sub(nearest).Length()
}

// ConvexHull returns the convex hull of points in counter-clockwise order
// (monotone chain). Duplicate points collapse; fewer than three distinct or
// collinear input points yield a one- or two-vertex hull.
func ConvexHull(points []vec.Vec2) []vec.Vec2 {
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b vec.Vec2) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	pts = slices.Compact(pts)
	if len(pts) < 3 {
		return pts
	}

	hull := make([]vec.Vec2, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func cross(o, a, b vec.Vec2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Overlap reports whether two convex polygons intersect, using the
// separating axis test. Touching polygons overlap. Repeated vertices are
// ignored, so polygons that collapse to a point or a segment are accepted.
func Overlap(a, b []vec.Vec2) bool {
	a, b = distinctVertices(a), distinctVertices(b)
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	axes := append(separatingAxes(a), separatingAxes(b)...)
	if len(a) == 1 && len(b) == 1 {
		d := b[0].Sub(a[0])
		if d.Length() <= epsilon {
			return true
		}
		axes = append(axes, d)
	}

	for _, axis := range axes {
		minA, maxA := project(a, axis)
		minB, maxB := project(b, axis)
		if maxA < minB-epsilon || maxB < minA-epsilon {
			return false
		}
	}
	return true
}

// distinctVertices drops every vertex equal to its predecessor, including a
// last vertex that closes back onto the first.
func distinctVertices(poly []vec.Vec2) []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(poly))
	for _, p := range poly {
		if len(out) > 0 && p.Sub(out[len(out)-1]).Length() <= epsilon {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Sub(out[0]).Length() <= epsilon {
		out = out[:len(out)-1]
	}
	return out
}

// separatingAxes returns the edge normals of a polygon. A flat polygon
// (a segment, or collinear vertices) also contributes its edge direction so
// collinear cases are separated.
func separatingAxes(poly []vec.Vec2) []vec.Vec2 {
	if len(poly) < 2 {
		return nil
	}
	flat := collinear(poly)
	var axes []vec.Vec2
	for i := range poly {
		edge := poly[(i+1)%len(poly)].Sub(poly[i])
		if edge.Length() <= epsilon {
			continue
		}
		axes = append(axes, vec.Vec2{X: -edge.Y, Y: edge.X})
		if flat {
			axes = append(axes, edge)
		}
		if len(poly) == 2 {
			break
		}
	}
	return axes
}

func collinear(poly []vec.Vec2) bool {
	for i := 2; i < len(poly); i++ {
		if math.Abs(cross(poly[0], poly[1], poly[i])) > epsilon {
			return false
		}
	}
	return true
}

func project(poly []vec.Vec2, axis vec.Vec2) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range poly {
		d := p.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// HullContains reports whether p lies inside or on the convex polygon hull.
func HullContains(hull []vec.Vec2, p vec.Vec2) bool {
	return Overlap(hull, []vec.Vec2{p})
}
