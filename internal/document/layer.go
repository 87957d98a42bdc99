package document

import (
	"slices"

	"github.com/inamate/sketchcore/internal/typeid"
)

// Layer is an ordered list of shapes. Order is z-order: the last shape is
// drawn last and hit-tested first.
//
// Shapes is treated as a persistent value: mutations build a new slice and
// never write into a slice that may already be referenced by history.
type Layer struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Shapes  []Shape `json:"shapes"`
	Visible bool    `json:"visible"`
}

func NewLayer(name string) *Layer {
	return &Layer{
		ID:      typeid.NewLayerID(),
		Name:    name,
		Shapes:  []Shape{},
		Visible: true,
	}
}

// With returns a new slice holding the layer's shapes plus s.
func (l *Layer) With(s Shape) []Shape {
	next := make([]Shape, 0, len(l.Shapes)+1)
	next = append(next, l.Shapes...)
	return append(next, s)
}

// Without returns a new slice holding the layer's shapes minus the shape
// with the given id, and whether it was present.
func (l *Layer) Without(id string) ([]Shape, bool) {
	i := l.IndexOf(id)
	if i < 0 {
		return l.Shapes, false
	}
	return slices.Delete(slices.Clone(l.Shapes), i, i+1), true
}

func (l *Layer) IndexOf(id string) int {
	return slices.IndexFunc(l.Shapes, func(s Shape) bool { return IDOf(s) == id })
}

// Add and Remove mutate in place. They are only used on the transient
// working and helper layers.
func (l *Layer) Add(s Shape) {
	l.Shapes = l.With(s)
}

func (l *Layer) Remove(s Shape) {
	if s == nil {
		return
	}
	l.Shapes, _ = l.Without(IDOf(s))
}

func (l *Layer) Clear() {
	l.Shapes = []Shape{}
}

// Container is one drawing page: persistent layers plus the transient
// working and helper layers used by tools.
type Container struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	Layers       []*Layer `json:"layers"`
	CurrentLayer *Layer   `json:"-"`
	WorkingLayer *Layer   `json:"-"`
	HelperLayer  *Layer   `json:"-"`
}

// NewContainer creates a container with a single current layer.
func NewContainer(name string, width, height float64) *Container {
	layer := NewLayer("Layer1")
	return &Container{
		ID:           typeid.NewContainerID(),
		Name:         name,
		Width:        width,
		Height:       height,
		Layers:       []*Layer{layer},
		CurrentLayer: layer,
		WorkingLayer: NewLayer("Working"),
		HelperLayer:  NewLayer("Helper"),
	}
}

// LayerByID returns the persistent layer with the given id, or nil.
func (c *Container) LayerByID(id string) *Layer {
	for _, l := range c.Layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// ShapeSet is a set of shapes keyed by identity.
type ShapeSet map[string]Shape

func NewShapeSet(shapes ...Shape) ShapeSet {
	set := make(ShapeSet, len(shapes))
	for _, s := range shapes {
		set.Add(s)
	}
	return set
}

func (s ShapeSet) Add(shape Shape) {
	if shape != nil {
		s[IDOf(shape)] = shape
	}
}

func (s ShapeSet) Has(shape Shape) bool {
	if shape == nil {
		return false
	}
	_, ok := s[IDOf(shape)]
	return ok
}

func (s ShapeSet) Remove(shape Shape) {
	if shape != nil {
		delete(s, IDOf(shape))
	}
}

func (s ShapeSet) Len() int { return len(s) }

// Shapes returns the members ordered by id.
func (s ShapeSet) Shapes() []Shape {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Shape, len(ids))
	for i, id := range ids {
		out[i] = s[id]
	}
	return out
}

// IDs returns the member identities in sorted order.
func (s ShapeSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
