package tool

import (
	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/engine"
	"github.com/inamate/sketchcore/internal/project"
)

// SelectionTool selects by click or rubber band and drags the selection.
// While dragging, points move live; on release they are put back and moved
// again through the host so the whole drag is one history entry.
type SelectionTool struct {
	host  Host
	opts  Options
	state State

	anchorX, anchorY float64
	dx, dy           float64
	points           []*document.Point
	origin           []project.PointPosition
	band             *document.Rectangle
}

func NewSelectionTool(host Host, opts Options) *SelectionTool {
	return &SelectionTool{host: host, opts: opts}
}

func (t *SelectionTool) Kind() Kind   { return KindSelection }
func (t *SelectionTool) State() State { return t.state }

func (t *SelectionTool) LeftDown(x, y float64) error {
	if err := checkPointer(x, y); err != nil {
		return err
	}
	if t.state != StateIdle {
		return nil
	}
	t.anchorX, t.anchorY = x, y

	hit := engine.HitTestLayer(t.host.Container().CurrentLayer, x, y, t.opts.HitThreshold)
	if hit == nil {
		t.host.Select(document.NewShapeSet())
		t.band = document.NewRectangle(x, y, x, y, "selection")
		t.host.Container().HelperLayer.Add(t.band)
		t.state = StateSelecting
		t.host.Invalidate(RegionHelper)
		return nil
	}

	selection := t.host.Selection()
	if !selection.Has(hit) {
		selection = document.NewShapeSet(hit)
		t.host.Select(selection)
	}

	t.points = project.Distinct(movablePoints(selection.Shapes()))
	t.origin = project.Positions(t.points)
	t.dx, t.dy = 0, 0
	t.state = StateDragging
	return nil
}

// movablePoints collects the points that move with shapes: a point moves
// itself, other kinds move their defining points, groups move their
// children and connectors. Locked shapes stay put.
func movablePoints(shapes []document.Shape) []*document.Point {
	var points []*document.Point
	for _, s := range shapes {
		if s == nil || s.Base().State.Has(document.StateLocked) {
			continue
		}
		switch t := s.(type) {
		case *document.Point:
			points = append(points, t)
		case *document.Group:
			points = append(points, movablePoints(t.Shapes)...)
			points = append(points, t.Connectors...)
		default:
			points = append(points, s.Points()...)
		}
	}
	return points
}

func (t *SelectionTool) Move(x, y float64) error {
	if err := checkPointer(x, y); err != nil {
		return err
	}

	switch t.state {
	case StateIdle:
		t.host.SetHover(engine.HitTestLayer(t.host.Container().CurrentLayer, x, y, t.opts.HitThreshold))

	case StateDragging:
		t.dx, t.dy = t.delta(x, y)
		for i, p := range t.points {
			p.X, p.Y = t.origin[i].X+t.dx, t.origin[i].Y+t.dy
		}
		t.host.Invalidate(RegionPersistent)

	case StateSelecting:
		if err := t.band.BottomRight.MoveTo(x, y); err != nil {
			return err
		}
		t.host.Invalidate(RegionHelper)
	}
	return nil
}

// delta is the drag offset, snapped to the grid when enabled.
func (t *SelectionTool) delta(x, y float64) (float64, float64) {
	dx, dy := x-t.anchorX, y-t.anchorY
	if t.opts.SnapToGrid {
		dx, dy = Snap(dx, t.opts.SnapX), Snap(dy, t.opts.SnapY)
	}
	return dx, dy
}

func (t *SelectionTool) LeftUp(x, y float64) error {
	switch t.state {
	case StateDragging:
		if err := checkPointer(x, y); err != nil {
			t.restore()
			return err
		}
		dx, dy := t.delta(x, y)
		points := t.points
		t.restore()
		if dx == 0 && dy == 0 {
			return nil
		}
		return t.host.MovePoints(points, dx, dy)

	case StateSelecting:
		r := engine.RectFromPoints(t.band.TopLeft.X, t.band.TopLeft.Y, t.band.BottomRight.X, t.band.BottomRight.Y, 0, 0)
		t.endBand()
		set := engine.HitTestRect(t.host.Container().CurrentLayer.Shapes, r, t.opts.HitThreshold, 0, 0)
		t.host.Select(set)
	}
	return nil
}

func (t *SelectionTool) RightDown(x, y float64) error {
	return t.Cancel()
}

// Cancel puts dragged points back or drops the rubber band. Nothing is
// recorded.
func (t *SelectionTool) Cancel() error {
	switch t.state {
	case StateDragging:
		t.restore()
	case StateSelecting:
		t.endBand()
	}
	return nil
}

func (t *SelectionTool) restore() {
	for i, p := range t.points {
		p.X, p.Y = t.origin[i].X, t.origin[i].Y
	}
	t.points, t.origin = nil, nil
	t.dx, t.dy = 0, 0
	t.state = StateIdle
	t.host.Invalidate(RegionPersistent)
}

func (t *SelectionTool) endBand() {
	t.host.Container().HelperLayer.Remove(t.band)
	t.band = nil
	t.state = StateIdle
	t.host.Invalidate(RegionHelper)
}

func (t *SelectionTool) RightUp(x, y float64) error      { return nil }
func (t *SelectionTool) Wheel(x, y, delta float64) error { return nil }
