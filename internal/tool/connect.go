package tool

import (
	"seehuhn.de/go/geom/vec"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/engine"
	"github.com/inamate/sketchcore/internal/project"
)

// anchor is what a click resolved to: an existing point to share, a new
// point on a line that must be split, or a new free point.
type anchor struct {
	point    *document.Point
	split    *project.Split
	existing bool
}

// resolve snaps (x, y) and, when connecting is enabled, attaches to the
// point, group connector or line under the cursor in the current layer. A
// line equal to skip is never split again.
func resolve(host Host, opts Options, x, y float64, skip *document.Line) anchor {
	x, y = opts.snap(x, y)
	if opts.TryToConnect {
		switch hit := target(host, opts, x, y).(type) {
		case *document.Point:
			return anchor{point: hit, existing: true}
		case *document.Line:
			nearest, _ := engine.NearestPointOnSegment(toVec(hit.Start), toVec(hit.End), vec.Vec2{X: x, Y: y})
			p := document.NewPoint(nearest.X, nearest.Y)
			if hit == skip {
				return anchor{point: p}
			}
			return anchor{point: p, split: &project.Split{Line: hit, At: p}}
		}
	}
	return anchor{point: document.NewPoint(x, y)}
}

// connectable returns the point or line a click at (x, y) would attach to.
func connectable(host Host, opts Options, x, y float64) document.Shape {
	if !opts.TryToConnect {
		return nil
	}
	x, y = opts.snap(x, y)
	switch hit := target(host, opts, x, y).(type) {
	case *document.Point, *document.Line:
		return hit
	}
	return nil
}

// target is the topmost hit at an already snapped position. A group hit
// resolves to the connector under the cursor, if any.
func target(host Host, opts Options, x, y float64) document.Shape {
	hit := engine.HitTestLayer(host.Container().CurrentLayer, x, y, opts.HitThreshold)
	if g, ok := hit.(*document.Group); ok {
		if c := engine.HitTestConnector(g, x, y, opts.HitThreshold, 0, 0); c != nil {
			return c
		}
		return nil
	}
	return hit
}

func splitsOf(anchors ...anchor) []project.Split {
	var splits []project.Split
	for _, a := range anchors {
		if a.split != nil {
			splits = append(splits, *a.split)
		}
	}
	return splits
}

// checkPointer rejects non-finite pointer coordinates before any state
// changes.
func checkPointer(x, y float64) error {
	return document.CheckFinite("pointer", x, y)
}

// clearTransient empties the working and helper layers.
func clearTransient(host Host) {
	c := host.Container()
	c.WorkingLayer.Clear()
	c.HelperLayer.Clear()
	host.SetHover(nil)
	host.Invalidate(RegionWorking | RegionHelper)
}

func newMarker(p *document.Point) *document.Point {
	return document.NewPoint(p.X, p.Y)
}

func toVec(p *document.Point) vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}
