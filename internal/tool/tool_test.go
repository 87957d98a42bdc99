package tool

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/history"
	"github.com/inamate/sketchcore/internal/project"
)

type fakeHost struct {
	c           *document.Container
	h           *history.History
	selection   document.ShapeSet
	hover       document.Shape
	invalidated Region
}

func newFakeHost() *fakeHost {
	f := &fakeHost{
		c:         document.NewContainer("test", 200, 200),
		selection: document.NewShapeSet(),
	}
	f.h = history.New(history.ApplierFunc(func(loc history.Location, value any) error {
		return project.Apply(f.c, project.BuildIndex(f.c), loc, value)
	}), 0)
	return f
}

func (f *fakeHost) Container() *document.Container { return f.c }

func (f *fakeHost) Commit(s document.Shape, splits []project.Split) error {
	return project.Commit(f.h, f.c.CurrentLayer, s, splits)
}

func (f *fakeHost) MovePoints(points []*document.Point, dx, dy float64) error {
	return project.MovePoints(f.h, f.c.ID, points, dx, dy)
}

func (f *fakeHost) Selection() document.ShapeSet { return f.selection }
func (f *fakeHost) Select(set document.ShapeSet) { f.selection = set }
func (f *fakeHost) SetHover(s document.Shape)    { f.hover = s }
func (f *fakeHost) Invalidate(r Region)          { f.invalidated |= r }
func (f *fakeHost) persistent() []document.Shape { return f.c.CurrentLayer.Shapes }
func (f *fakeHost) working() []document.Shape    { return f.c.WorkingLayer.Shapes }
func (f *fakeHost) helper() []document.Shape     { return f.c.HelperLayer.Shapes }

func (f *fakeHost) add(t *testing.T, s document.Shape) {
	t.Helper()
	require.NoError(t, project.AddShape(f.h, f.c.CurrentLayer, s))
}

func gridOptions() Options {
	return Options{SnapToGrid: true, SnapX: 10, SnapY: 10, TryToConnect: false, HitThreshold: 7}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		value, size, want float64
	}{
		{12, 10, 10},
		{11, 10, 10},
		{15, 10, 20},
		{48, 10, 50},
		{51, 10, 50},
		{-12, 10, -10},
		{-15, 10, -10},
		{-16, 10, -20},
		{0, 10, 0},
		{7.3, 0, 7.3},
		{7.3, -5, 7.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Snap(tt.value, tt.size), "Snap(%v, %v)", tt.value, tt.size)
	}
}

func TestLineToolCommit(t *testing.T) {
	host := newFakeHost()
	tool := NewLineTool(host, gridOptions())

	require.NoError(t, tool.LeftDown(12, 11))
	assert.Equal(t, StateAnchorPlaced, tool.State())
	require.Len(t, host.working(), 1)
	preview := host.working()[0].(*document.Line)
	assert.Equal(t, 10.0, preview.Start.X)
	assert.Equal(t, 10.0, preview.Start.Y)
	assert.Len(t, host.helper(), 2)
	assert.Empty(t, host.persistent())

	require.NoError(t, tool.LeftDown(51, 48))
	assert.Equal(t, StateIdle, tool.State())
	require.Len(t, host.persistent(), 1)
	line := host.persistent()[0].(*document.Line)
	assert.Equal(t, [2]float64{10, 10}, [2]float64{line.Start.X, line.Start.Y})
	assert.Equal(t, [2]float64{50, 50}, [2]float64{line.End.X, line.End.Y})
	assert.Empty(t, host.working())
	assert.Empty(t, host.helper())
	assert.Equal(t, 1, host.h.UndoLen())
	assert.True(t, host.h.CanUndo())

	require.NoError(t, host.h.Undo())
	assert.Empty(t, host.persistent())
	assert.False(t, host.h.CanUndo())
	assert.True(t, host.h.CanRedo())
}

func TestLineToolCancel(t *testing.T) {
	host := newFakeHost()
	tool := NewLineTool(host, gridOptions())

	require.NoError(t, tool.LeftDown(12, 11))
	require.NoError(t, tool.RightDown(51, 48))

	assert.Equal(t, StateIdle, tool.State())
	assert.Empty(t, host.persistent())
	assert.Empty(t, host.working())
	assert.Empty(t, host.helper())
	assert.False(t, host.h.CanUndo())

	// Cancel when idle does nothing.
	require.NoError(t, tool.Cancel())
	assert.Equal(t, StateIdle, tool.State())
}

func TestLineToolMoveFollowsCursor(t *testing.T) {
	host := newFakeHost()
	tool := NewLineTool(host, gridOptions())

	require.NoError(t, tool.LeftDown(0, 0))
	require.NoError(t, tool.Move(33, 41))

	preview := host.working()[0].(*document.Line)
	assert.Equal(t, 30.0, preview.End.X)
	assert.Equal(t, 40.0, preview.End.Y)
	marker := host.helper()[1].(*document.Point)
	assert.Equal(t, 30.0, marker.X)
	assert.Equal(t, 40.0, marker.Y)
	assert.True(t, host.invalidated.Has(RegionWorking))
}

func TestLineToolZeroLength(t *testing.T) {
	host := newFakeHost()
	tool := NewLineTool(host, gridOptions())

	require.NoError(t, tool.LeftDown(20, 20))
	require.NoError(t, tool.LeftDown(21, 19))
	require.Len(t, host.persistent(), 1)
}

func TestLineToolRejectsNonFinite(t *testing.T) {
	host := newFakeHost()
	tool := NewLineTool(host, gridOptions())

	err := tool.LeftDown(math.Inf(1), 0)
	assert.ErrorIs(t, err, document.ErrNonFinite)
	assert.Equal(t, StateIdle, tool.State())
	assert.Empty(t, host.working())
}

func TestLineToolConnectsToExistingPoint(t *testing.T) {
	host := newFakeHost()
	existing := document.NewLine(0, 0, 100, 0, "")
	host.add(t, existing)

	opts := gridOptions()
	opts.TryToConnect = true
	tool := NewLineTool(host, opts)

	require.NoError(t, tool.LeftDown(101, 2))
	require.NoError(t, tool.LeftDown(100, 100))

	require.Len(t, host.persistent(), 2)
	line := host.persistent()[1].(*document.Line)
	assert.Same(t, existing.End, line.Start)
	assert.Equal(t, 2, host.h.UndoLen())
}

func TestLineToolSplitsLine(t *testing.T) {
	host := newFakeHost()
	existing := document.NewLine(0, 0, 100, 0, "")
	host.add(t, existing)

	opts := gridOptions()
	opts.TryToConnect = true
	tool := NewLineTool(host, opts)

	require.NoError(t, tool.LeftDown(50, 3))
	require.NoError(t, tool.LeftDown(50, 100))

	shapes := host.persistent()
	require.Len(t, shapes, 3)
	first := shapes[0].(*document.Line)
	second := shapes[1].(*document.Line)
	line := shapes[2].(*document.Line)
	assert.Same(t, existing.Start, first.Start)
	assert.Same(t, first.End, second.Start)
	assert.Same(t, existing.End, second.End)
	assert.Same(t, first.End, line.Start)
	assert.Equal(t, 50.0, line.Start.X)
	assert.Equal(t, 0.0, line.Start.Y)
	assert.Equal(t, 2, host.h.UndoLen())

	require.NoError(t, host.h.Undo())
	require.Len(t, host.persistent(), 1)
	assert.Same(t, existing, host.persistent()[0])
}

func TestPointTool(t *testing.T) {
	host := newFakeHost()
	opts := gridOptions()
	opts.TryToConnect = true
	tool := NewPointTool(host, opts)

	require.NoError(t, tool.LeftDown(21, 19))
	require.Len(t, host.persistent(), 1)
	p := host.persistent()[0].(*document.Point)
	assert.Equal(t, 20.0, p.X)
	assert.True(t, p.State.Has(document.StateStandalone))

	// A second click on the same spot selects the point.
	require.NoError(t, tool.LeftDown(20, 20))
	assert.Len(t, host.persistent(), 1)
	assert.True(t, host.selection.Has(p))
	assert.Equal(t, 1, host.h.UndoLen())
}

func TestMultiPointToolClickOrders(t *testing.T) {
	opts := Options{HitThreshold: 7}

	tests := []struct {
		kind   Kind
		clicks [][2]float64
		check  func(t *testing.T, s document.Shape)
	}{
		{
			kind:   KindRectangle,
			clicks: [][2]float64{{10, 10}, {60, 40}},
			check: func(t *testing.T, s document.Shape) {
				r := s.(*document.Rectangle)
				assert.Equal(t, 10.0, r.TopLeft.X)
				assert.Equal(t, 40.0, r.BottomRight.Y)
			},
		},
		{
			kind:   KindQuadraticBezier,
			clicks: [][2]float64{{0, 0}, {100, 0}, {50, 50}},
			check: func(t *testing.T, s document.Shape) {
				q := s.(*document.QuadraticBezier)
				assert.Equal(t, 0.0, q.Point1.X)
				assert.Equal(t, 50.0, q.Point2.Y)
				assert.Equal(t, 100.0, q.Point3.X)
			},
		},
		{
			kind:   KindCubicBezier,
			clicks: [][2]float64{{0, 0}, {90, 0}, {30, 30}, {60, 30}},
			check: func(t *testing.T, s document.Shape) {
				b := s.(*document.CubicBezier)
				assert.Equal(t, 0.0, b.Point1.X)
				assert.Equal(t, 30.0, b.Point2.X)
				assert.Equal(t, 60.0, b.Point3.X)
				assert.Equal(t, 90.0, b.Point4.X)
			},
		},
		{
			kind:   KindArc,
			clicks: [][2]float64{{0, 0}, {100, 0}, {0, 10}, {100, 10}},
			check: func(t *testing.T, s document.Shape) {
				a := s.(*document.Arc)
				assert.Equal(t, 100.0, a.Point2.X)
				assert.Equal(t, 10.0, a.Point3.Y)
				assert.Equal(t, 100.0, a.Point4.X)
			},
		},
	}

	states := []State{StateAnchorPlaced, StateSecondPlaced, StateThirdPlaced}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			host := newFakeHost()
			tool, err := NewMultiPointTool(host, opts, tt.kind)
			require.NoError(t, err)
			require.Equal(t, len(tt.clicks), tool.Clicks())

			for i, c := range tt.clicks {
				require.NoError(t, tool.LeftDown(c[0], c[1]))
				if i < len(tt.clicks)-1 {
					assert.Equal(t, states[i], tool.State())
					assert.Len(t, host.working(), 1)
					assert.Len(t, host.helper(), len(host.working()[0].Points()))
				}
			}

			assert.Equal(t, StateIdle, tool.State())
			require.Len(t, host.persistent(), 1)
			assert.Empty(t, host.working())
			assert.Empty(t, host.helper())
			assert.Equal(t, 1, host.h.UndoLen())
			tt.check(t, host.persistent()[0])
		})
	}
}

func TestMultiPointToolCancel(t *testing.T) {
	host := newFakeHost()
	tool, err := NewMultiPointTool(host, Options{HitThreshold: 7}, KindEllipse)
	require.NoError(t, err)

	require.NoError(t, tool.LeftDown(10, 10))
	require.NoError(t, tool.Move(50, 30))
	ellipse := host.working()[0].(*document.Ellipse)
	assert.Equal(t, 50.0, ellipse.BottomRight.X)

	require.NoError(t, tool.RightDown(50, 30))
	assert.Equal(t, StateIdle, tool.State())
	assert.Empty(t, host.working())
	assert.Empty(t, host.helper())
	assert.False(t, host.h.CanUndo())
}

func TestMultiPointToolUnknownKind(t *testing.T) {
	_, err := NewMultiPointTool(newFakeHost(), Options{}, KindLine)
	assert.Error(t, err)
}

func TestSelectionToolDrag(t *testing.T) {
	host := newFakeHost()
	rect := document.NewRectangle(0, 0, 20, 20, "")
	host.add(t, rect)
	tool := NewSelectionTool(host, Options{HitThreshold: 7})

	require.NoError(t, tool.LeftDown(10, 10))
	assert.Equal(t, StateDragging, tool.State())
	assert.True(t, host.selection.Has(rect))

	require.NoError(t, tool.Move(15, 20))
	assert.Equal(t, 5.0, rect.TopLeft.X)
	assert.Equal(t, 10.0, rect.TopLeft.Y)

	require.NoError(t, tool.LeftUp(15, 20))
	assert.Equal(t, StateIdle, tool.State())
	assert.Equal(t, 5.0, rect.TopLeft.X)
	assert.Equal(t, 30.0, rect.BottomRight.Y)
	assert.Equal(t, 2, host.h.UndoLen())

	require.NoError(t, host.h.Undo())
	assert.Equal(t, 0.0, rect.TopLeft.X)
	assert.Equal(t, 20.0, rect.BottomRight.Y)
}

func TestSelectionToolDragCancel(t *testing.T) {
	host := newFakeHost()
	rect := document.NewRectangle(0, 0, 20, 20, "")
	host.add(t, rect)
	tool := NewSelectionTool(host, Options{HitThreshold: 7})

	require.NoError(t, tool.LeftDown(10, 10))
	require.NoError(t, tool.Move(40, 40))
	require.NoError(t, tool.RightDown(40, 40))

	assert.Equal(t, StateIdle, tool.State())
	assert.Equal(t, 0.0, rect.TopLeft.X)
	assert.Equal(t, 1, host.h.UndoLen())
}

func TestSelectionToolRubberBand(t *testing.T) {
	host := newFakeHost()
	line := document.NewLine(10, 10, 20, 20, "")
	group := document.NewGroup("g")
	require.NoError(t, group.AddShape(document.NewRectangle(50, 50, 60, 60, "")))
	require.NoError(t, group.AddShape(document.NewEllipse(70, 70, 80, 80, "")))
	far := document.NewRectangle(400, 400, 410, 410, "")
	host.add(t, line)
	host.add(t, group)
	host.add(t, far)

	tool := NewSelectionTool(host, Options{HitThreshold: 7})
	require.NoError(t, tool.LeftDown(-50, -50))
	assert.Equal(t, StateSelecting, tool.State())
	assert.Len(t, host.helper(), 1)

	require.NoError(t, tool.Move(100, 100))
	require.NoError(t, tool.LeftUp(100, 100))

	assert.Equal(t, StateIdle, tool.State())
	assert.Empty(t, host.helper())
	assert.Equal(t, 2, host.selection.Len())
	assert.True(t, host.selection.Has(line))
	assert.True(t, host.selection.Has(group))
	assert.False(t, host.selection.Has(far))
}

func TestSelectionToolClickOnEmptyCanvas(t *testing.T) {
	host := newFakeHost()
	collapsed := document.NewCubicBezier(500, 500, "")
	host.add(t, collapsed)
	tool := NewSelectionTool(host, Options{HitThreshold: 7})

	require.NoError(t, tool.LeftDown(0, 0))
	require.NoError(t, tool.LeftUp(0, 0))
	assert.Equal(t, 0, host.selection.Len())

	require.NoError(t, tool.LeftDown(500, 480))
	require.NoError(t, tool.Move(500, 490))
	require.NoError(t, tool.LeftUp(500, 490))
	assert.Equal(t, 0, host.selection.Len())

	require.NoError(t, tool.LeftDown(490, 490))
	require.NoError(t, tool.Move(510, 510))
	require.NoError(t, tool.LeftUp(510, 510))
	assert.True(t, host.selection.Has(collapsed))
}

func TestLineToolConnectsToGroupConnector(t *testing.T) {
	host := newFakeHost()
	g := document.NewGroup("g")
	require.NoError(t, g.AddShape(document.NewRectangle(0, 0, 20, 20, "")))
	connector := document.NewPoint(100, 100)
	g.AddConnector(connector)
	host.add(t, g)

	opts := gridOptions()
	opts.TryToConnect = true
	tool := NewLineTool(host, opts)

	require.NoError(t, tool.LeftDown(102, 98))
	require.NoError(t, tool.LeftDown(10, 10))

	require.Len(t, host.persistent(), 2)
	line := host.persistent()[1].(*document.Line)
	assert.Same(t, connector, line.Start)
	assert.NotSame(t, g.Shapes[0].Points()[0], line.End)
	assert.Equal(t, 10.0, line.End.X)
}

func TestRegionString(t *testing.T) {
	assert.Equal(t, "None", Region(0).String())
	assert.Equal(t, "Working|Helper", (RegionWorking | RegionHelper).String())
	assert.Equal(t, "Working|Helper|Persistent", RegionAll.String())
}
