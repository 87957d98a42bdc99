package tool

import (
	"github.com/inamate/sketchcore/internal/document"
)

// PointTool places a standalone point with a single click. Clicking a line
// splits it at the new point; clicking an existing point selects it
// instead of stacking a duplicate.
type PointTool struct {
	host Host
	opts Options
}

func NewPointTool(host Host, opts Options) *PointTool {
	return &PointTool{host: host, opts: opts}
}

func (t *PointTool) Kind() Kind   { return KindPoint }
func (t *PointTool) State() State { return StateIdle }

func (t *PointTool) LeftDown(x, y float64) error {
	if err := checkPointer(x, y); err != nil {
		return err
	}
	a := resolve(t.host, t.opts, x, y, nil)
	if a.existing {
		t.host.Select(document.NewShapeSet(a.point))
		return nil
	}

	a.point.State = a.point.State.Set(document.StateStandalone)
	t.host.SetHover(nil)
	return t.host.Commit(a.point, splitsOf(a))
}

func (t *PointTool) Move(x, y float64) error {
	t.host.SetHover(connectable(t.host, t.opts, x, y))
	return nil
}

func (t *PointTool) LeftUp(x, y float64) error       { return nil }
func (t *PointTool) RightDown(x, y float64) error    { return nil }
func (t *PointTool) RightUp(x, y float64) error      { return nil }
func (t *PointTool) Wheel(x, y, delta float64) error { return nil }
func (t *PointTool) Cancel() error                   { return nil }
