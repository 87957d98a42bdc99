package tool

import (
	"math"
	"strings"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/project"
)

// Options tune how tools interpret pointer input.
type Options struct {
	SnapToGrid   bool
	SnapX        float64
	SnapY        float64
	TryToConnect bool
	HitThreshold float64
	DefaultStyle document.StyleHandle
}

// DefaultOptions matches the configuration defaults.
func DefaultOptions() Options {
	return Options{
		SnapToGrid:   true,
		SnapX:        15,
		SnapY:        15,
		TryToConnect: true,
		HitThreshold: 7,
		DefaultStyle: "default",
	}
}

// Snap rounds value to the nearest multiple of size; exact halves round up,
// for negative values too. A size of zero or less leaves value as is.
func Snap(value, size float64) float64 {
	if size <= 0 {
		return value
	}
	r := math.Mod(value, size)
	if r < 0 {
		r += size
	}
	if r >= size/2 {
		return value + size - r
	}
	return value - r
}

func (o Options) snap(x, y float64) (float64, float64) {
	if !o.SnapToGrid {
		return x, y
	}
	return Snap(x, o.SnapX), Snap(y, o.SnapY)
}

type Kind string

const (
	KindSelection       Kind = "selection"
	KindPoint           Kind = "point"
	KindLine            Kind = "line"
	KindRectangle       Kind = "rectangle"
	KindEllipse         Kind = "ellipse"
	KindText            Kind = "text"
	KindImage           Kind = "image"
	KindArc             Kind = "arc"
	KindQuadraticBezier Kind = "quadraticBezier"
	KindCubicBezier     Kind = "cubicBezier"
)

// Kinds lists every tool kind in toolbar order.
var Kinds = []Kind{
	KindSelection, KindPoint, KindLine, KindRectangle, KindEllipse,
	KindText, KindImage, KindArc, KindQuadraticBezier, KindCubicBezier,
}

type State int

const (
	StateIdle State = iota
	StateAnchorPlaced
	StateSecondPlaced
	StateThirdPlaced
	StateDragging
	StateSelecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAnchorPlaced:
		return "AnchorPlaced"
	case StateSecondPlaced:
		return "SecondPlaced"
	case StateThirdPlaced:
		return "ThirdPlaced"
	case StateDragging:
		return "Dragging"
	case StateSelecting:
		return "Selecting"
	}
	return "Unknown"
}

// Region flags which parts of the drawing need a redraw.
type Region uint8

const (
	RegionWorking Region = 1 << iota
	RegionHelper
	RegionPersistent

	RegionAll = RegionWorking | RegionHelper | RegionPersistent
)

func (r Region) Has(flag Region) bool { return r&flag != 0 }

func (r Region) String() string {
	if r == 0 {
		return "None"
	}
	var parts []string
	if r.Has(RegionWorking) {
		parts = append(parts, "Working")
	}
	if r.Has(RegionHelper) {
		parts = append(parts, "Helper")
	}
	if r.Has(RegionPersistent) {
		parts = append(parts, "Persistent")
	}
	return strings.Join(parts, "|")
}

// Host is what a tool drives. The editor implements it; every persistent
// change goes through Commit or MovePoints so it is recorded in history.
type Host interface {
	Container() *document.Container
	Commit(s document.Shape, splits []project.Split) error
	MovePoints(points []*document.Point, dx, dy float64) error
	Selection() document.ShapeSet
	Select(set document.ShapeSet)
	SetHover(s document.Shape)
	Invalidate(r Region)
}

// Tool is an explicit state machine over pointer events in model
// coordinates. After any call returns the tool is in a consistent state;
// an error never leaves a half-built shape behind.
type Tool interface {
	Kind() Kind
	State() State
	LeftDown(x, y float64) error
	LeftUp(x, y float64) error
	RightDown(x, y float64) error
	RightUp(x, y float64) error
	Move(x, y float64) error
	Wheel(x, y, delta float64) error
	// Cancel abandons any shape in progress without touching history.
	Cancel() error
}
