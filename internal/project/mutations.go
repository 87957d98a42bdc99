package project

import (
	"fmt"
	"slices"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/history"
)

// Every mutation in this file records exactly one history entry and then
// performs the write, or records nothing and returns early. Shape slices
// are rebuilt rather than edited in place so recorded values stay intact.

// AddShape appends s to the top of layer.
func AddShape(h *history.History, layer *document.Layer, s document.Shape) error {
	if err := document.Validate(s); err != nil {
		return fmt.Errorf("add shape: %w", err)
	}
	setLayerShapes(h, layer, layer.With(s))
	return nil
}

// Split asks Commit to cut Line in two at At, which becomes the shared end
// of both halves.
type Split struct {
	Line *document.Line
	At   *document.Point
}

// Commit adds a finished tool shape to layer, first replacing every line
// named in splits by its two halves. Splits whose line is not a top-level
// shape of layer are skipped. The whole commit is one history entry.
func Commit(h *history.History, layer *document.Layer, s document.Shape, splits []Split) error {
	if err := document.Validate(s); err != nil {
		return fmt.Errorf("commit shape: %w", err)
	}

	next := slices.Clone(layer.Shapes)
	for _, split := range splits {
		if split.Line == nil || split.At == nil {
			continue
		}
		i := slices.IndexFunc(next, func(shape document.Shape) bool { return shape == document.Shape(split.Line) })
		if i < 0 {
			continue
		}
		first, second := SplitLine(split.Line, split.At)
		next = slices.Replace(next, i, i+1, document.Shape(first), document.Shape(second))
	}
	next = append(next, s)

	setLayerShapes(h, layer, next)
	return nil
}

// SplitLine returns the halves of l cut at p. Both halves share p, which is
// flagged as a connector, and keep the style of l.
func SplitLine(l *document.Line, p *document.Point) (*document.Line, *document.Line) {
	p.State = p.State.Set(document.StateConnector)

	first := document.NewLine(0, 0, 0, 0, l.Style)
	first.Start, first.End = l.Start, p
	second := document.NewLine(0, 0, 0, 0, l.Style)
	second.Start, second.End = p, l.End
	return first, second
}

// RemoveShape removes s from whatever layer or group holds it. Removing a
// shape that is not in the tree is a no-op that records nothing and
// returns false.
func RemoveShape(h *history.History, ix *Index, s document.Shape) bool {
	if s == nil {
		return false
	}
	id := document.IDOf(s)
	owner := ix.Owner(id)

	if layer := ix.Layer(owner); layer != nil {
		next, ok := layer.Without(id)
		if !ok {
			return false
		}
		setLayerShapes(h, layer, next)
		return true
	}

	if g := ix.Group(owner); g != nil {
		i := slices.IndexFunc(g.Shapes, func(child document.Shape) bool { return document.IDOf(child) == id })
		if i < 0 {
			return false
		}
		next := slices.Delete(slices.Clone(g.Shapes), i, i+1)
		h.Snapshot(history.Location{Kind: KindGroupShapes, Owner: g.ID}, g.Shapes, next)
		g.Shapes = next
		return true
	}
	return false
}

// ReplaceShapes removes the shapes in remove from layer and inserts add at
// the position of the first removed shape, or on top when none of remove
// is present. Grouping, ungrouping and splitting are all expressed this way.
func ReplaceShapes(h *history.History, layer *document.Layer, remove, add []document.Shape) error {
	for _, s := range add {
		if err := document.Validate(s); err != nil {
			return fmt.Errorf("replace shapes: %w", err)
		}
	}

	drop := document.NewShapeSet(remove...)
	at := -1
	next := make([]document.Shape, 0, len(layer.Shapes)+len(add))
	for _, s := range layer.Shapes {
		if drop.Has(s) {
			if at < 0 {
				at = len(next)
			}
			continue
		}
		next = append(next, s)
	}
	if at < 0 {
		at = len(next)
	}
	next = slices.Insert(next, at, add...)

	setLayerShapes(h, layer, next)
	return nil
}

// MoveShape moves the shape at index from to index to within layer,
// shifting the shapes in between. Later shapes draw on top and win hit
// tests, so this is how z-order changes.
func MoveShape(h *history.History, layer *document.Layer, from, to int) error {
	n := len(layer.Shapes)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move shape %d to %d of %d: %w", from, to, n, ErrOutOfRange)
	}
	if from == to {
		return nil
	}

	next := slices.Clone(layer.Shapes)
	s := next[from]
	next = slices.Delete(next, from, from+1)
	next = slices.Insert(next, to, s)
	setLayerShapes(h, layer, next)
	return nil
}

// AddLayer appends layer to the container and makes it current.
func AddLayer(h *history.History, c *document.Container, layer *document.Layer) {
	next := append(slices.Clone(c.Layers), layer)
	setLayers(h, c, next, layer)
}

// RemoveLayer removes the layer with the given identity. The last layer of
// a container cannot be removed. Removing the current layer makes the one
// below it current.
func RemoveLayer(h *history.History, c *document.Container, id string) error {
	i := slices.IndexFunc(c.Layers, func(l *document.Layer) bool { return l.ID == id })
	if i < 0 {
		return fmt.Errorf("layer %s: %w", id, ErrNotFound)
	}
	if len(c.Layers) == 1 {
		return ErrLastLayer
	}

	next := slices.Delete(slices.Clone(c.Layers), i, i+1)
	current := c.CurrentLayer
	if current == c.Layers[i] {
		current = next[max(0, i-1)]
	}
	setLayers(h, c, next, current)
	return nil
}

// AddConnector appends p to the connectors of g.
func AddConnector(h *history.History, g *document.Group, p *document.Point) error {
	if err := document.Validate(p); err != nil {
		return fmt.Errorf("add connector: %w", err)
	}
	p.State = p.State.Set(document.StateConnector)
	next := append(slices.Clone(g.Connectors), p)
	h.Snapshot(history.Location{Kind: KindGroupConnectors, Owner: g.ID}, g.Connectors, next)
	g.Connectors = next
	return nil
}

// MovePoints moves every distinct point by (dx, dy) as one entry. owner is
// the identity recorded with the entry, normally the container.
func MovePoints(h *history.History, owner string, points []*document.Point, dx, dy float64) error {
	points = Distinct(points)
	if len(points) == 0 {
		return nil
	}

	previous := Positions(points)
	next := make([]PointPosition, len(previous))
	for i, pos := range previous {
		next[i] = PointPosition{ID: pos.ID, X: pos.X + dx, Y: pos.Y + dy}
		if err := document.CheckFinite(pos.ID, next[i].X, next[i].Y); err != nil {
			return fmt.Errorf("move points: %w", err)
		}
	}

	h.Snapshot(history.Location{Kind: KindPointPositions, Owner: owner}, previous, next)
	for i, p := range points {
		p.X, p.Y = next[i].X, next[i].Y
	}
	return nil
}

// SetState replaces the state flags of s.
func SetState(h *history.History, s document.Shape, state document.State) {
	base := s.Base()
	if base.State == state {
		return
	}
	h.Snapshot(history.Location{Kind: KindShapeState, Owner: base.ID}, base.State, state)
	base.State = state
}

// Positions captures the current coordinates of points.
func Positions(points []*document.Point) []PointPosition {
	out := make([]PointPosition, len(points))
	for i, p := range points {
		out[i] = PointPosition{ID: p.ID, X: p.X, Y: p.Y}
	}
	return out
}

// Distinct drops nil and repeated points, keeping first occurrences.
func Distinct(points []*document.Point) []*document.Point {
	seen := make(map[*document.Point]bool, len(points))
	out := make([]*document.Point, 0, len(points))
	for _, p := range points {
		if p == nil || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func setLayerShapes(h *history.History, layer *document.Layer, next []document.Shape) {
	h.Snapshot(history.Location{Kind: KindLayerShapes, Owner: layer.ID}, layer.Shapes, next)
	layer.Shapes = next
}

func setLayers(h *history.History, c *document.Container, next []*document.Layer, current *document.Layer) {
	h.Snapshot(history.Location{Kind: KindContainerLayers, Owner: c.ID},
		LayerStack{Layers: c.Layers, Current: c.CurrentLayer},
		LayerStack{Layers: next, Current: current})
	c.Layers = next
	c.CurrentLayer = current
}
