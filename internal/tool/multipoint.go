package tool

import (
	"fmt"

	"github.com/inamate/sketchcore/internal/document"
)

// clickOrders gives, per tool kind, which defining point each successive
// click places. Points not placed yet follow the cursor.
var clickOrders = map[Kind][]int{
	KindRectangle:       {0, 1},
	KindEllipse:         {0, 1},
	KindText:            {0, 1},
	KindImage:           {0, 1},
	KindQuadraticBezier: {0, 2, 1},
	KindCubicBezier:     {0, 3, 1, 2},
	KindArc:             {0, 1, 2, 3},
}

var clickStates = []State{StateIdle, StateAnchorPlaced, StateSecondPlaced, StateThirdPlaced}

// MultiPointTool builds any shape that is fully defined by a fixed number
// of clicks. It follows the line tool protocol: every click but the last
// advances the state, the last click commits, and a right click cancels.
type MultiPointTool struct {
	host    Host
	opts    Options
	kind    Kind
	order   []int
	shape   document.Editable
	anchors []anchor
	markers []*document.Point
}

// NewMultiPointTool returns a tool for kind, which must have a click order.
func NewMultiPointTool(host Host, opts Options, kind Kind) (*MultiPointTool, error) {
	order, ok := clickOrders[kind]
	if !ok {
		return nil, fmt.Errorf("no click order for tool %q", kind)
	}
	return &MultiPointTool{host: host, opts: opts, kind: kind, order: order}, nil
}

func (t *MultiPointTool) Kind() Kind   { return t.kind }
func (t *MultiPointTool) State() State { return clickStates[len(t.anchors)] }

// Clicks returns how many clicks complete a shape.
func (t *MultiPointTool) Clicks() int { return len(t.order) }

func (t *MultiPointTool) newShape(x, y float64) document.Editable {
	style := t.opts.DefaultStyle
	switch t.kind {
	case KindRectangle:
		return document.NewRectangle(x, y, x, y, style)
	case KindEllipse:
		return document.NewEllipse(x, y, x, y, style)
	case KindText:
		return document.NewText(x, y, x, y, "Text", style)
	case KindImage:
		return document.NewImage(x, y, x, y, "", style)
	case KindQuadraticBezier:
		return document.NewQuadraticBezier(x, y, style)
	case KindCubicBezier:
		return document.NewCubicBezier(x, y, style)
	case KindArc:
		return document.NewArc(x, y, style)
	}
	return nil
}

func (t *MultiPointTool) LeftDown(x, y float64) error {
	if err := checkPointer(x, y); err != nil {
		return err
	}
	var skip *document.Line
	for _, a := range t.anchors {
		if a.split != nil {
			skip = a.split.Line
		}
	}
	a := resolve(t.host, t.opts, x, y, skip)
	c := t.host.Container()

	if t.shape == nil {
		t.shape = t.newShape(a.point.X, a.point.Y)
		c.WorkingLayer.Add(t.shape)
		for _, p := range t.shape.Points() {
			marker := newMarker(p)
			t.markers = append(t.markers, marker)
			c.HelperLayer.Add(marker)
		}
	}

	t.shape.SetPoint(t.order[len(t.anchors)], a.point)
	t.anchors = append(t.anchors, a)
	if err := t.follow(a.point.X, a.point.Y); err != nil {
		return err
	}

	if len(t.anchors) < len(t.order) {
		t.host.Invalidate(RegionWorking | RegionHelper)
		return nil
	}

	shape := t.shape
	splits := splitsOf(t.anchors...)
	t.reset()
	return t.host.Commit(shape, splits)
}

// follow moves every point not placed yet, and every marker, to (x, y)
// and the placed positions respectively.
func (t *MultiPointTool) follow(x, y float64) error {
	points := t.shape.Points()
	placed := make(map[int]bool, len(t.anchors))
	for _, slot := range t.order[:len(t.anchors)] {
		placed[slot] = true
	}

	for i, p := range points {
		if !placed[i] {
			if err := p.MoveTo(x, y); err != nil {
				return err
			}
		}
		if err := t.markers[i].MoveTo(p.X, p.Y); err != nil {
			return err
		}
	}
	return nil
}

func (t *MultiPointTool) Move(x, y float64) error {
	t.host.SetHover(connectable(t.host, t.opts, x, y))
	if t.shape == nil {
		return nil
	}
	if err := checkPointer(x, y); err != nil {
		return err
	}

	sx, sy := t.opts.snap(x, y)
	if err := t.follow(sx, sy); err != nil {
		return err
	}
	t.host.Invalidate(RegionWorking | RegionHelper)
	return nil
}

func (t *MultiPointTool) RightDown(x, y float64) error {
	return t.Cancel()
}

func (t *MultiPointTool) Cancel() error {
	if t.shape != nil {
		t.reset()
	}
	return nil
}

func (t *MultiPointTool) reset() {
	clearTransient(t.host)
	t.shape = nil
	t.anchors = nil
	t.markers = nil
}

func (t *MultiPointTool) LeftUp(x, y float64) error       { return nil }
func (t *MultiPointTool) RightUp(x, y float64) error      { return nil }
func (t *MultiPointTool) Wheel(x, y, delta float64) error { return nil }
