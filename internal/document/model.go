package document

import (
	"fmt"
	"strings"

	"github.com/inamate/sketchcore/internal/typeid"
)

type Kind string

const (
	KindPoint           Kind = "Point"
	KindLine            Kind = "Line"
	KindRectangle       Kind = "Rectangle"
	KindEllipse         Kind = "Ellipse"
	KindArc             Kind = "Arc"
	KindCubicBezier     Kind = "CubicBezier"
	KindQuadraticBezier Kind = "QuadraticBezier"
	KindText            Kind = "Text"
	KindImage           Kind = "Image"
	KindPath            Kind = "Path"
	KindGroup           Kind = "Group"
)

// State is a set of shape flags.
type State uint8

const (
	StateVisible State = 1 << iota
	StateLocked
	StateConnector
	StateStandalone
	StateInput
	StateOutput
)

var stateNames = []struct {
	flag State
	name string
}{
	{StateVisible, "Visible"},
	{StateLocked, "Locked"},
	{StateConnector, "Connector"},
	{StateStandalone, "Standalone"},
	{StateInput, "Input"},
	{StateOutput, "Output"},
}

func (s State) Has(flag State) bool { return s&flag == flag }
func (s State) Set(flag State) State { return s | flag }
func (s State) Clear(flag State) State { return s &^ flag }

func (s State) String() string {
	if s == 0 {
		return "None"
	}
	var parts []string
	for _, n := range stateNames {
		if s.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseState returns the single flag with the given name, as printed by
// String.
func ParseState(name string) (State, error) {
	for _, n := range stateNames {
		if strings.EqualFold(n.name, name) {
			return n.flag, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

// StyleHandle references a style owned by an external style library.
type StyleHandle string

// ShapeBase carries the fields every shape kind shares.
type ShapeBase struct {
	ID    string      `json:"id"`
	Name  string      `json:"name,omitempty"`
	Style StyleHandle `json:"style,omitempty"`
	State State       `json:"state"`
}

func newBase(prefix string, style StyleHandle) ShapeBase {
	return ShapeBase{
		ID:    typeid.New(prefix),
		Style: style,
		State: StateVisible,
	}
}

// Base is promoted to every shape kind that embeds ShapeBase.
func (b *ShapeBase) Base() *ShapeBase { return b }

// Shape is implemented by every shape kind. Points returns the defining
// points in a fixed, kind-specific order.
type Shape interface {
	Kind() Kind
	Base() *ShapeBase
	Points() []*Point
}

// Editable shapes allow a defining point to be replaced, which is how tools
// attach a shape to an existing connector point.
type Editable interface {
	Shape
	SetPoint(i int, p *Point)
}

// IDOf returns the identity of s, or "" for nil.
func IDOf(s Shape) string {
	if s == nil {
		return ""
	}
	return s.Base().ID
}
