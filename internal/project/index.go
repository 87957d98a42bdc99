package project

import (
	"github.com/inamate/sketchcore/internal/document"
)

// Index maps identities to the objects of a container and each child to
// its owner, so mutations can find a shape's layer or group without
// back-pointers. It is a snapshot: rebuild it after structural changes.
type Index struct {
	containerID string
	layers      map[string]*document.Layer
	shapes      map[string]document.Shape
	owners      map[string]string
}

// BuildIndex walks every persistent layer of c. A top-level shape is owned
// by its layer even when it is also a defining point of another shape.
// Otherwise a point shared by several shapes is owned by the first shape
// that reaches it in draw order.
func BuildIndex(c *document.Container) *Index {
	ix := &Index{
		containerID: c.ID,
		layers:      make(map[string]*document.Layer),
		shapes:      make(map[string]document.Shape),
		owners:      make(map[string]string),
	}
	for _, layer := range c.Layers {
		ix.layers[layer.ID] = layer
		ix.owners[layer.ID] = c.ID
		for _, s := range layer.Shapes {
			if s == nil {
				continue
			}
			id := document.IDOf(s)
			ix.shapes[id] = s
			ix.owners[id] = layer.ID
		}
	}

	walked := make(map[string]bool)
	for _, layer := range c.Layers {
		for _, s := range layer.Shapes {
			ix.walk(s, walked)
		}
	}
	return ix
}

func (ix *Index) walk(s document.Shape, walked map[string]bool) {
	if s == nil {
		return
	}
	id := document.IDOf(s)
	if walked[id] {
		return
	}
	walked[id] = true

	var children []document.Shape
	if g, ok := s.(*document.Group); ok {
		children = append(children, g.Shapes...)
	}
	for _, p := range s.Points() {
		if p != nil {
			children = append(children, p)
		}
	}

	for _, child := range children {
		childID := document.IDOf(child)
		if _, ok := ix.shapes[childID]; !ok {
			ix.shapes[childID] = child
			ix.owners[childID] = id
		}
		ix.walk(child, walked)
	}
}

func (ix *Index) ContainerID() string { return ix.containerID }

func (ix *Index) Layer(id string) *document.Layer { return ix.layers[id] }

func (ix *Index) Shape(id string) document.Shape { return ix.shapes[id] }

// Point returns the point with the given identity, or nil.
func (ix *Index) Point(id string) *document.Point {
	p, _ := ix.shapes[id].(*document.Point)
	return p
}

// Group returns the group with the given identity, or nil.
func (ix *Index) Group(id string) *document.Group {
	g, _ := ix.shapes[id].(*document.Group)
	return g
}

// Owner returns the identity of the layer, group or shape that holds id.
func (ix *Index) Owner(id string) string { return ix.owners[id] }

// Contains reports whether id is part of the indexed tree.
func (ix *Index) Contains(id string) bool {
	_, ok := ix.shapes[id]
	return ok
}

func (ix *Index) Len() int { return len(ix.shapes) }
