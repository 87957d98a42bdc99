package project

import (
	"errors"
	"fmt"
	"slices"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/history"
)

var (
	ErrUnknownLocation = errors.New("unknown history location")
	ErrNotFound        = errors.New("not found")
	ErrValueType       = errors.New("unexpected value type")
	ErrLastLayer       = errors.New("container must keep one layer")
	ErrOutOfRange      = errors.New("index out of range")
)

// Location kinds recorded by the mutations of this package.
const (
	KindLayerShapes     = "layer.shapes"
	KindContainerLayers = "container.layers"
	KindGroupShapes     = "group.shapes"
	KindGroupConnectors = "group.connectors"
	KindPointPositions  = "points.position"
	KindShapeState      = "shape.state"
)

// PointPosition is a point identity with coordinates.
type PointPosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LayerStack is the value recorded for a container's layers: the list and
// the layer that was current with it.
type LayerStack struct {
	Layers  []*document.Layer
	Current *document.Layer
}

// Apply writes value into the slot named by loc. It is the single routine
// that interprets history entries. Callers rebuild the index afterwards
// when loc is structural.
func Apply(c *document.Container, ix *Index, loc history.Location, value any) error {
	switch loc.Kind {
	case KindLayerShapes:
		layer := ix.Layer(loc.Owner)
		if layer == nil {
			return fmt.Errorf("layer %s: %w", loc.Owner, ErrNotFound)
		}
		shapes, err := valueAs[[]document.Shape](loc, value)
		if err != nil {
			return err
		}
		layer.Shapes = shapes

	case KindContainerLayers:
		if loc.Owner != c.ID {
			return fmt.Errorf("container %s: %w", loc.Owner, ErrNotFound)
		}
		stack, err := valueAs[LayerStack](loc, value)
		if err != nil {
			return err
		}
		c.Layers = stack.Layers
		switch {
		case slices.Contains(c.Layers, stack.Current):
			c.CurrentLayer = stack.Current
		case !slices.Contains(c.Layers, c.CurrentLayer) && len(c.Layers) > 0:
			c.CurrentLayer = c.Layers[len(c.Layers)-1]
		}

	case KindGroupShapes:
		g := ix.Group(loc.Owner)
		if g == nil {
			return fmt.Errorf("group %s: %w", loc.Owner, ErrNotFound)
		}
		shapes, err := valueAs[[]document.Shape](loc, value)
		if err != nil {
			return err
		}
		g.Shapes = shapes

	case KindGroupConnectors:
		g := ix.Group(loc.Owner)
		if g == nil {
			return fmt.Errorf("group %s: %w", loc.Owner, ErrNotFound)
		}
		connectors, err := valueAs[[]*document.Point](loc, value)
		if err != nil {
			return err
		}
		g.Connectors = connectors

	case KindPointPositions:
		positions, err := valueAs[[]PointPosition](loc, value)
		if err != nil {
			return err
		}
		for _, pos := range positions {
			p := ix.Point(pos.ID)
			if p == nil {
				return fmt.Errorf("point %s: %w", pos.ID, ErrNotFound)
			}
			if err := p.MoveTo(pos.X, pos.Y); err != nil {
				return err
			}
		}

	case KindShapeState:
		s := ix.Shape(loc.Owner)
		if s == nil {
			return fmt.Errorf("shape %s: %w", loc.Owner, ErrNotFound)
		}
		state, err := valueAs[document.State](loc, value)
		if err != nil {
			return err
		}
		s.Base().State = state

	default:
		return fmt.Errorf("%w: %s", ErrUnknownLocation, loc.Kind)
	}
	return nil
}

// Structural reports whether applying at loc changes which objects are in
// the tree.
func Structural(loc history.Location) bool {
	switch loc.Kind {
	case KindLayerShapes, KindContainerLayers, KindGroupShapes, KindGroupConnectors:
		return true
	}
	return false
}

func valueAs[T any](loc history.Location, value any) (T, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w %T", loc, ErrValueType, value)
	}
	return v, nil
}
