package tool

import (
	"github.com/inamate/sketchcore/internal/document"
)

// LineTool builds a line from two clicks.
//
//	Idle         + LeftDown  -> AnchorPlaced (preview line, two markers)
//	AnchorPlaced + Move      -> AnchorPlaced (free end follows the cursor)
//	AnchorPlaced + LeftDown  -> Idle (line committed, one history entry)
//	AnchorPlaced + RightDown -> Idle (preview discarded, no history)
type LineTool struct {
	host    Host
	opts    Options
	state   State
	line    *document.Line
	start   anchor
	markers [2]*document.Point
}

func NewLineTool(host Host, opts Options) *LineTool {
	return &LineTool{host: host, opts: opts}
}

func (t *LineTool) Kind() Kind   { return KindLine }
func (t *LineTool) State() State { return t.state }

func (t *LineTool) LeftDown(x, y float64) error {
	if err := checkPointer(x, y); err != nil {
		return err
	}
	switch t.state {
	case StateIdle:
		t.begin(x, y)
		return nil
	case StateAnchorPlaced:
		return t.finish(x, y)
	}
	return nil
}

func (t *LineTool) begin(x, y float64) {
	t.start = resolve(t.host, t.opts, x, y, nil)
	p := t.start.point

	t.line = document.NewLine(p.X, p.Y, p.X, p.Y, t.opts.DefaultStyle)
	t.line.Start = p
	t.markers = [2]*document.Point{newMarker(p), newMarker(p)}

	c := t.host.Container()
	c.WorkingLayer.Add(t.line)
	c.HelperLayer.Add(t.markers[0])
	c.HelperLayer.Add(t.markers[1])

	t.state = StateAnchorPlaced
	t.host.Invalidate(RegionWorking | RegionHelper)
}

func (t *LineTool) finish(x, y float64) error {
	var skip *document.Line
	if t.start.split != nil {
		skip = t.start.split.Line
	}
	end := resolve(t.host, t.opts, x, y, skip)

	line := t.line
	line.End = end.point
	splits := splitsOf(t.start, end)
	t.reset()
	return t.host.Commit(line, splits)
}

func (t *LineTool) Move(x, y float64) error {
	if t.state != StateAnchorPlaced {
		t.host.SetHover(connectable(t.host, t.opts, x, y))
		return nil
	}

	if err := checkPointer(x, y); err != nil {
		return err
	}
	sx, sy := t.opts.snap(x, y)
	if err := t.line.End.MoveTo(sx, sy); err != nil {
		return err
	}
	if err := t.markers[1].MoveTo(sx, sy); err != nil {
		return err
	}
	t.host.SetHover(connectable(t.host, t.opts, x, y))
	t.host.Invalidate(RegionWorking | RegionHelper)
	return nil
}

func (t *LineTool) RightDown(x, y float64) error {
	return t.Cancel()
}

func (t *LineTool) Cancel() error {
	if t.state != StateIdle {
		t.reset()
	}
	return nil
}

func (t *LineTool) reset() {
	clearTransient(t.host)
	t.line = nil
	t.start = anchor{}
	t.markers = [2]*document.Point{}
	t.state = StateIdle
}

func (t *LineTool) LeftUp(x, y float64) error       { return nil }
func (t *LineTool) RightUp(x, y float64) error      { return nil }
func (t *LineTool) Wheel(x, y, delta float64) error { return nil }
