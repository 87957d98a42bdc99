package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/history"
)

// newFixture returns a container and a history whose applier rebuilds the
// index on every apply, as the editor does.
func newFixture(t *testing.T) (*document.Container, *history.History) {
	t.Helper()
	c := document.NewContainer("test", 100, 100)
	h := history.New(history.ApplierFunc(func(loc history.Location, value any) error {
		return Apply(c, BuildIndex(c), loc, value)
	}), 0)
	return c, h
}

func ids(shapes []document.Shape) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = document.IDOf(s)
	}
	return out
}

func TestAddShapeRecordsOneEntry(t *testing.T) {
	c, h := newFixture(t)
	layer := c.CurrentLayer
	line := document.NewLine(0, 0, 10, 10, "default")

	require.NoError(t, AddShape(h, layer, line))
	assert.Equal(t, 1, h.UndoLen())
	assert.Equal(t, []string{line.ID}, ids(layer.Shapes))

	require.NoError(t, h.Undo())
	assert.Empty(t, layer.Shapes)

	require.NoError(t, h.Redo())
	assert.Equal(t, []string{line.ID}, ids(layer.Shapes))
}

func TestAddShapeRejectsStructuralErrors(t *testing.T) {
	c, h := newFixture(t)

	line := document.NewLine(0, 0, 10, 10, "")
	line.End = nil
	err := AddShape(h, c.CurrentLayer, line)

	var structural *document.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.ErrorIs(t, err, document.ErrNilPoint)
	assert.False(t, h.CanUndo())
	assert.Empty(t, c.CurrentLayer.Shapes)
}

func TestRemoveShape(t *testing.T) {
	c, h := newFixture(t)
	layer := c.CurrentLayer
	rect := document.NewRectangle(0, 0, 10, 10, "")
	require.NoError(t, AddShape(h, layer, rect))

	assert.True(t, RemoveShape(h, BuildIndex(c), rect))
	assert.Empty(t, layer.Shapes)
	assert.Equal(t, 2, h.UndoLen())

	// Already gone: lenient no-op, nothing recorded.
	assert.False(t, RemoveShape(h, BuildIndex(c), rect))
	assert.Equal(t, 2, h.UndoLen())

	require.NoError(t, h.Undo())
	assert.Equal(t, []string{rect.ID}, ids(layer.Shapes))
}

func TestRemoveShapeFromGroup(t *testing.T) {
	c, h := newFixture(t)
	g := document.NewGroup("g")
	inner := document.NewEllipse(0, 0, 5, 5, "")
	require.NoError(t, g.AddShape(inner))
	require.NoError(t, AddShape(h, c.CurrentLayer, g))

	assert.True(t, RemoveShape(h, BuildIndex(c), inner))
	assert.Empty(t, g.Shapes)

	require.NoError(t, h.Undo())
	assert.Equal(t, []string{inner.ID}, ids(g.Shapes))
}

func TestCommitWithSplit(t *testing.T) {
	c, h := newFixture(t)
	layer := c.CurrentLayer
	line := document.NewLine(0, 0, 100, 0, "thin")
	require.NoError(t, AddShape(h, layer, line))

	at := document.NewPoint(40, 0)
	point := document.NewPoint(40, 0)
	point.State = point.State.Set(document.StateStandalone)
	require.NoError(t, Commit(h, layer, point, []Split{{Line: line, At: at}}))

	require.Len(t, layer.Shapes, 3)
	first := layer.Shapes[0].(*document.Line)
	second := layer.Shapes[1].(*document.Line)
	assert.Same(t, line.Start, first.Start)
	assert.Same(t, at, first.End)
	assert.Same(t, at, second.Start)
	assert.Same(t, line.End, second.End)
	assert.Equal(t, document.StyleHandle("thin"), first.Style)
	assert.True(t, at.State.Has(document.StateConnector))
	assert.Equal(t, 2, h.UndoLen())

	require.NoError(t, h.Undo())
	assert.Equal(t, []string{line.ID}, ids(layer.Shapes))
}

func TestCommitSkipsForeignSplit(t *testing.T) {
	c, h := newFixture(t)
	other := document.NewLine(0, 0, 10, 0, "")
	shape := document.NewLine(0, 5, 10, 5, "")

	require.NoError(t, Commit(h, c.CurrentLayer, shape, []Split{{Line: other, At: document.NewPoint(5, 0)}}))
	assert.Equal(t, []string{shape.ID}, ids(c.CurrentLayer.Shapes))
}

func TestReplaceShapesKeepsPosition(t *testing.T) {
	c, h := newFixture(t)
	layer := c.CurrentLayer
	a := document.NewRectangle(0, 0, 1, 1, "")
	b := document.NewRectangle(1, 1, 2, 2, "")
	d := document.NewRectangle(2, 2, 3, 3, "")
	for _, s := range []document.Shape{a, b, d} {
		require.NoError(t, AddShape(h, layer, s))
	}

	g := document.NewGroup("g")
	require.NoError(t, g.AddShape(b))
	require.NoError(t, g.AddShape(d))
	require.NoError(t, ReplaceShapes(h, layer, []document.Shape{b, d}, []document.Shape{g}))
	assert.Equal(t, []string{a.ID, g.ID}, ids(layer.Shapes))

	require.NoError(t, ReplaceShapes(h, layer, []document.Shape{g}, g.Shapes))
	assert.Equal(t, []string{a.ID, b.ID, d.ID}, ids(layer.Shapes))

	require.NoError(t, h.Undo())
	require.NoError(t, h.Undo())
	assert.Equal(t, []string{a.ID, b.ID, d.ID}, ids(layer.Shapes))
}

func TestLayers(t *testing.T) {
	c, h := newFixture(t)
	first := c.CurrentLayer

	second := document.NewLayer("Layer2")
	AddLayer(h, c, second)
	require.Len(t, c.Layers, 2)
	assert.Same(t, second, c.CurrentLayer)

	require.NoError(t, RemoveLayer(h, c, second.ID))
	assert.Same(t, first, c.CurrentLayer)
	assert.ErrorIs(t, RemoveLayer(h, c, first.ID), ErrLastLayer)
	assert.ErrorIs(t, RemoveLayer(h, c, "layer_missing"), ErrNotFound)

	require.NoError(t, h.Undo())
	assert.Len(t, c.Layers, 2)
	assert.Same(t, second, c.CurrentLayer)

	require.NoError(t, h.Redo())
	assert.Same(t, first, c.CurrentLayer)
	require.NoError(t, h.Undo())

	require.NoError(t, h.Undo())
	assert.Len(t, c.Layers, 1)
	assert.Same(t, first, c.CurrentLayer)
}

func TestMoveShape(t *testing.T) {
	c, h := newFixture(t)
	layer := c.CurrentLayer
	a := document.NewPoint(0, 0)
	b := document.NewPoint(1, 1)
	d := document.NewPoint(2, 2)
	for _, s := range []document.Shape{a, b, d} {
		require.NoError(t, AddShape(h, layer, s))
	}
	before := layer.Shapes

	require.NoError(t, MoveShape(h, layer, 0, 2))
	assert.Equal(t, []string{b.ID, d.ID, a.ID}, ids(layer.Shapes))
	assert.Equal(t, []string{a.ID, b.ID, d.ID}, ids(before))
	assert.Equal(t, 4, h.UndoLen())

	require.NoError(t, MoveShape(h, layer, 2, 1))
	assert.Equal(t, []string{b.ID, a.ID, d.ID}, ids(layer.Shapes))

	require.NoError(t, MoveShape(h, layer, 1, 1))
	assert.Equal(t, 5, h.UndoLen())

	assert.ErrorIs(t, MoveShape(h, layer, 3, 0), ErrOutOfRange)
	assert.ErrorIs(t, MoveShape(h, layer, 0, -1), ErrOutOfRange)
	assert.Equal(t, 5, h.UndoLen())

	require.NoError(t, h.Undo())
	assert.Equal(t, []string{b.ID, d.ID, a.ID}, ids(layer.Shapes))
	require.NoError(t, h.Undo())
	assert.Equal(t, []string{a.ID, b.ID, d.ID}, ids(layer.Shapes))
	require.NoError(t, h.Redo())
	assert.Equal(t, []string{b.ID, d.ID, a.ID}, ids(layer.Shapes))
}

func TestMovePointsSharedOnce(t *testing.T) {
	c, h := newFixture(t)
	layer := c.CurrentLayer
	a := document.NewLine(0, 0, 10, 0, "")
	b := document.NewLine(0, 0, 0, 10, "")
	b.Start = a.End
	require.NoError(t, AddShape(h, layer, a))
	require.NoError(t, AddShape(h, layer, b))

	points := append(a.Points(), b.Points()...)
	require.NoError(t, MovePoints(h, c.ID, points, 5, 5))
	assert.Equal(t, 15.0, a.End.X)
	assert.Equal(t, 5.0, a.End.Y)
	assert.Equal(t, 5.0, a.Start.X)
	assert.Equal(t, 15.0, b.End.Y)
	assert.Equal(t, 3, h.UndoLen())

	require.NoError(t, h.Undo())
	assert.Equal(t, 10.0, a.End.X)
	assert.Equal(t, 0.0, a.End.Y)
	assert.Equal(t, 0.0, a.Start.X)
	assert.Equal(t, 10.0, b.End.Y)
}

func TestSetStateAndConnector(t *testing.T) {
	c, h := newFixture(t)
	g := document.NewGroup("g")
	require.NoError(t, AddShape(h, c.CurrentLayer, g))

	SetState(h, g, g.State.Set(document.StateLocked))
	assert.True(t, g.State.Has(document.StateLocked))

	p := document.NewPoint(3, 4)
	require.NoError(t, AddConnector(h, g, p))
	assert.True(t, p.State.Has(document.StateConnector))
	require.Len(t, g.Connectors, 1)

	require.NoError(t, h.Undo())
	assert.Empty(t, g.Connectors)
	require.NoError(t, h.Undo())
	assert.False(t, g.State.Has(document.StateLocked))
}

func TestApplyErrors(t *testing.T) {
	c := document.NewContainer("test", 10, 10)
	ix := BuildIndex(c)

	err := Apply(c, ix, history.Location{Kind: "bogus"}, nil)
	assert.ErrorIs(t, err, ErrUnknownLocation)

	err = Apply(c, ix, history.Location{Kind: KindLayerShapes, Owner: "layer_missing"}, []document.Shape{})
	assert.ErrorIs(t, err, ErrNotFound)

	err = Apply(c, ix, history.Location{Kind: KindLayerShapes, Owner: c.CurrentLayer.ID}, 42)
	assert.ErrorIs(t, err, ErrValueType)
}

func TestIndex(t *testing.T) {
	c := document.NewSampleContainer()
	ix := BuildIndex(c)
	layer := c.CurrentLayer

	var spinner *document.Group
	for _, s := range layer.Shapes {
		if g, ok := s.(*document.Group); ok {
			spinner = g
		}
	}
	require.NotNil(t, spinner)

	child := spinner.Shapes[0]
	assert.Equal(t, spinner.ID, ix.Owner(document.IDOf(child)))
	assert.Equal(t, layer.ID, ix.Owner(spinner.ID))

	connector := spinner.Connectors[0]
	assert.Same(t, connector, ix.Point(connector.ID))
	assert.Equal(t, spinner.ID, ix.Owner(connector.ID))
	assert.Nil(t, ix.Point(spinner.ID))
	assert.False(t, ix.Contains("pt_missing"))
}
