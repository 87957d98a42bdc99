package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/engine"
	"github.com/inamate/sketchcore/internal/history"
	"github.com/inamate/sketchcore/internal/project"
	"github.com/inamate/sketchcore/internal/tool"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrStateNotEditable = errors.New("state flag cannot be edited")
)

type Region = tool.Region

const (
	RegionWorking    = tool.RegionWorking
	RegionHelper     = tool.RegionHelper
	RegionPersistent = tool.RegionPersistent
	RegionAll        = tool.RegionAll
)

type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// zoomStep is the scale change per wheel notch.
const zoomStep = 1.1

// Editor owns one drawing and everything needed to edit it: the active
// tool, the selection, the history and the identity index. It is driven by
// discrete pointer events and is not safe for concurrent use; callers
// deliver events one at a time.
type Editor struct {
	logger *slog.Logger
	opts   tool.Options

	// Document state
	container *document.Container
	index     *project.Index
	history   *history.History

	// Interaction state
	tool      tool.Tool
	selection document.ShapeSet
	hover     document.Shape
	view      engine.Matrix2D

	listeners []func(Region)
}

// New creates an editor with an empty container and the selection tool.
// A nil logger means slog.Default().
func New(opts tool.Options, depth int, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Editor{
		logger:    logger,
		opts:      opts,
		selection: document.NewShapeSet(),
		view:      engine.Identity(),
	}
	e.history = history.New(e, depth)
	e.tool = tool.NewSelectionTool(e, opts)
	e.SetContainer(document.NewContainer("Untitled", 1200, 750))
	return e
}

// --- Document ---

func (e *Editor) Container() *document.Container { return e.container }

// SetContainer replaces the drawing. History, selection and any shape in
// progress are dropped.
func (e *Editor) SetContainer(c *document.Container) {
	_ = e.tool.Cancel()
	e.container = c
	e.history.Clear()
	e.selection = document.NewShapeSet()
	e.hover = nil
	e.reindex()
	e.Invalidate(RegionAll)
}

// LoadSample replaces the drawing with the built-in sample.
func (e *Editor) LoadSample() {
	e.SetContainer(document.NewSampleContainer())
}

func (e *Editor) reindex() {
	e.index = project.BuildIndex(e.container)
}

// Apply implements history.Applier.
func (e *Editor) Apply(loc history.Location, value any) error {
	if err := project.Apply(e.container, e.index, loc, value); err != nil {
		e.logger.Error("apply history entry", "location", loc.String(), "error", err)
		return err
	}
	if project.Structural(loc) {
		e.reindex()
		e.prune()
	}
	e.Invalidate(RegionPersistent)
	return nil
}

// prune drops selected and hovered shapes that left the tree.
func (e *Editor) prune() {
	for id := range e.selection {
		if !e.index.Contains(id) {
			delete(e.selection, id)
		}
	}
	if e.hover != nil && !e.index.Contains(document.IDOf(e.hover)) {
		e.hover = nil
	}
}

// --- History ---

func (e *Editor) History() *history.History { return e.history }

// Undo abandons any shape in progress, then reverts the latest change.
func (e *Editor) Undo() error {
	_ = e.tool.Cancel()
	if err := e.history.Undo(); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	return nil
}

func (e *Editor) Redo() error {
	_ = e.tool.Cancel()
	if err := e.history.Redo(); err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	return nil
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// --- Tools ---

// SetTool switches the active tool, cancelling any shape in progress.
func (e *Editor) SetTool(kind tool.Kind) error {
	var next tool.Tool
	switch kind {
	case tool.KindSelection:
		next = tool.NewSelectionTool(e, e.opts)
	case tool.KindPoint:
		next = tool.NewPointTool(e, e.opts)
	case tool.KindLine:
		next = tool.NewLineTool(e, e.opts)
	default:
		mt, err := tool.NewMultiPointTool(e, e.opts, kind)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownTool, kind)
		}
		next = mt
	}

	_ = e.tool.Cancel()
	e.tool = next
	e.logger.Debug("tool selected", "tool", kind)
	return nil
}

func (e *Editor) ToolKind() tool.Kind   { return e.tool.Kind() }
func (e *Editor) ToolState() tool.State { return e.tool.State() }
func (e *Editor) Options() tool.Options { return e.opts }

// --- Pointer events (model coordinates) ---

func (e *Editor) PointerDown(x, y float64, button Button) error {
	switch button {
	case ButtonLeft:
		return e.tool.LeftDown(x, y)
	case ButtonRight:
		return e.tool.RightDown(x, y)
	}
	return nil
}

func (e *Editor) PointerUp(x, y float64, button Button) error {
	switch button {
	case ButtonLeft:
		return e.tool.LeftUp(x, y)
	case ButtonRight:
		return e.tool.RightUp(x, y)
	}
	return nil
}

func (e *Editor) PointerMove(x, y float64) error {
	return e.tool.Move(x, y)
}

// Wheel forwards to the tool, then zooms the view around (x, y). Positive
// deltas zoom out.
func (e *Editor) Wheel(x, y, delta float64) error {
	if err := e.tool.Wheel(x, y, delta); err != nil {
		return err
	}
	if delta == 0 {
		return nil
	}
	factor := zoomStep
	if delta > 0 {
		factor = 1 / zoomStep
	}
	e.view = e.view.ZoomAt(x, y, factor)
	e.Invalidate(RegionAll)
	return nil
}

// Cancel abandons the shape in progress, as the escape key does.
func (e *Editor) Cancel() error {
	return e.tool.Cancel()
}

func (e *Editor) View() engine.Matrix2D { return e.view }

// --- tool.Host ---

// Commit adds a finished tool shape to the current layer as one history
// entry.
func (e *Editor) Commit(s document.Shape, splits []project.Split) error {
	if err := project.Commit(e.history, e.container.CurrentLayer, s, splits); err != nil {
		e.logger.Warn("commit rejected", "kind", s.Kind(), "error", err)
		return err
	}
	e.reindex()
	e.logger.Debug("shape committed", "kind", s.Kind(), "id", document.IDOf(s), "splits", len(splits))
	e.Invalidate(RegionPersistent)
	return nil
}

func (e *Editor) MovePoints(points []*document.Point, dx, dy float64) error {
	if err := project.MovePoints(e.history, e.container.ID, points, dx, dy); err != nil {
		return err
	}
	e.Invalidate(RegionPersistent)
	return nil
}

func (e *Editor) SetHover(s document.Shape) {
	if document.IDOf(s) == document.IDOf(e.hover) {
		return
	}
	e.hover = s
	e.Invalidate(RegionHelper)
}

func (e *Editor) Hover() document.Shape { return e.hover }

// Invalidate notifies every listener that r needs a redraw.
func (e *Editor) Invalidate(r Region) {
	for _, fn := range e.listeners {
		fn(r)
	}
}

// OnInvalidate registers fn to be called whenever part of the drawing
// changes.
func (e *Editor) OnInvalidate(fn func(Region)) {
	e.listeners = append(e.listeners, fn)
}

// --- Selection ---

func (e *Editor) Selection() document.ShapeSet { return e.selection }

func (e *Editor) Select(set document.ShapeSet) {
	if set == nil {
		set = document.NewShapeSet()
	}
	e.selection = set
	e.Invalidate(RegionPersistent)
}

func (e *Editor) SelectAll() {
	e.Select(document.NewShapeSet(e.container.CurrentLayer.Shapes...))
}

// HitTest returns the topmost shape of the current layer at (x, y).
func (e *Editor) HitTest(x, y float64) document.Shape {
	return engine.HitTestLayer(e.container.CurrentLayer, x, y, e.opts.HitThreshold)
}

// selectedInLayer returns the selected top-level shapes of the current
// layer in z-order.
func (e *Editor) selectedInLayer() []document.Shape {
	var shapes []document.Shape
	for _, s := range e.container.CurrentLayer.Shapes {
		if e.selection.Has(s) {
			shapes = append(shapes, s)
		}
	}
	return shapes
}

// AddShape adds s to the current layer as one history entry.
func (e *Editor) AddShape(s document.Shape) error {
	if err := project.AddShape(e.history, e.container.CurrentLayer, s); err != nil {
		return err
	}
	e.reindex()
	e.Invalidate(RegionPersistent)
	return nil
}

// RemoveShape removes s from the tree. A shape that is not there is left
// alone and false is returned.
func (e *Editor) RemoveShape(s document.Shape) bool {
	if !project.RemoveShape(e.history, e.index, s) {
		e.logger.Debug("remove skipped, shape not in document", "id", document.IDOf(s))
		return false
	}
	e.reindex()
	e.prune()
	e.Invalidate(RegionPersistent)
	return true
}

// DeleteSelected removes every selected shape and returns how many were
// removed. Each removal is its own history entry.
func (e *Editor) DeleteSelected() int {
	removed := 0
	for _, s := range e.selection.Shapes() {
		if e.RemoveShape(s) {
			removed++
		}
	}
	e.Select(document.NewShapeSet())
	return removed
}

// GroupSelected replaces the selected shapes of the current layer by one
// group placed at the lowest of them, and selects it. Returns nil when
// nothing is selected.
func (e *Editor) GroupSelected() (*document.Group, error) {
	members := e.selectedInLayer()
	if len(members) == 0 {
		return nil, nil
	}

	g := document.NewGroup("Group")
	for _, s := range members {
		if err := g.AddShape(s); err != nil {
			return nil, fmt.Errorf("group selection: %w", err)
		}
	}
	if err := project.ReplaceShapes(e.history, e.container.CurrentLayer, members, []document.Shape{g}); err != nil {
		return nil, fmt.Errorf("group selection: %w", err)
	}
	e.reindex()
	e.Select(document.NewShapeSet(g))
	return g, nil
}

// UngroupSelected dissolves every selected group of the current layer into
// its children, which become the selection.
func (e *Editor) UngroupSelected() error {
	next := document.NewShapeSet()
	for _, s := range e.selectedInLayer() {
		g, ok := s.(*document.Group)
		if !ok {
			next.Add(s)
			continue
		}
		if err := project.ReplaceShapes(e.history, e.container.CurrentLayer, []document.Shape{g}, g.Shapes); err != nil {
			return fmt.Errorf("ungroup %s: %w", g.ID, err)
		}
		for _, child := range g.Shapes {
			next.Add(child)
		}
	}
	e.reindex()
	e.Select(next)
	return nil
}

// --- Z-order ---

// BringToFront moves the selected shapes of the current layer to its top,
// keeping their relative order. The z-order methods record one history
// entry per shape that actually moves and return how many moved.
func (e *Editor) BringToFront() (int, error) {
	members := e.selectedInLayer()
	n, k := len(e.container.CurrentLayer.Shapes), len(members)
	return e.arrange(slices.Backward(members), func(j, _ int) int { return n - k + j })
}

// BringForward moves each selected shape one step up, past the next
// unselected shape.
func (e *Editor) BringForward() (int, error) {
	layer := e.container.CurrentLayer
	return e.arrange(slices.Backward(e.selectedInLayer()), func(_, i int) int {
		if i+1 >= len(layer.Shapes) || e.selection.Has(layer.Shapes[i+1]) {
			return -1
		}
		return i + 1
	})
}

// SendBackward moves each selected shape one step down, past the previous
// unselected shape.
func (e *Editor) SendBackward() (int, error) {
	layer := e.container.CurrentLayer
	return e.arrange(slices.All(e.selectedInLayer()), func(_, i int) int {
		if i == 0 || e.selection.Has(layer.Shapes[i-1]) {
			return -1
		}
		return i - 1
	})
}

// SendToBack moves the selected shapes of the current layer to its bottom,
// keeping their relative order.
func (e *Editor) SendToBack() (int, error) {
	return e.arrange(slices.All(e.selectedInLayer()), func(j, _ int) int { return j })
}

// arrange visits members in the given order and moves each from its
// current index i to target(j, i). Negative targets are skipped.
func (e *Editor) arrange(members iter.Seq2[int, document.Shape], target func(j, i int) int) (int, error) {
	_ = e.tool.Cancel()
	layer := e.container.CurrentLayer
	moved := 0
	for j, s := range members {
		i := slices.Index(layer.Shapes, s)
		to := target(j, i)
		if i < 0 || to < 0 || to == i {
			continue
		}
		if err := project.MoveShape(e.history, layer, i, to); err != nil {
			return moved, fmt.Errorf("arrange %s: %w", document.IDOf(s), err)
		}
		moved++
	}
	if moved > 0 {
		e.logger.Debug("selection arranged", "moved", moved)
		e.Invalidate(RegionPersistent)
	}
	return moved, nil
}

// --- Shape state ---

// SetSelectionState sets or clears flag on every selected shape and returns
// how many changed. Only Visible and Locked can be edited. Each change is
// its own history entry.
func (e *Editor) SetSelectionState(flag document.State, on bool) (int, error) {
	if flag != document.StateVisible && flag != document.StateLocked {
		return 0, fmt.Errorf("%w: %s", ErrStateNotEditable, flag)
	}
	changed := 0
	for _, s := range e.selection.Shapes() {
		state := s.Base().State.Clear(flag)
		if on {
			state = state.Set(flag)
		}
		if state == s.Base().State {
			continue
		}
		project.SetState(e.history, s, state)
		changed++
	}
	if changed > 0 {
		e.Invalidate(RegionPersistent)
	}
	return changed, nil
}

// AddConnector adds a connector point at (x, y) to the group with the given
// identity, as one history entry.
func (e *Editor) AddConnector(groupID string, x, y float64) (*document.Point, error) {
	g := e.index.Group(groupID)
	if g == nil {
		return nil, fmt.Errorf("group %s: %w", groupID, project.ErrNotFound)
	}
	p := document.NewPoint(x, y)
	if err := project.AddConnector(e.history, g, p); err != nil {
		return nil, err
	}
	e.reindex()
	e.Invalidate(RegionPersistent)
	return p, nil
}

// --- Layers ---

// AddLayer appends a layer and makes it current.
func (e *Editor) AddLayer(name string) *document.Layer {
	_ = e.tool.Cancel()
	layer := document.NewLayer(name)
	project.AddLayer(e.history, e.container, layer)
	e.reindex()
	e.Invalidate(RegionPersistent)
	return layer
}

func (e *Editor) RemoveLayer(id string) error {
	_ = e.tool.Cancel()
	if err := project.RemoveLayer(e.history, e.container, id); err != nil {
		return fmt.Errorf("remove layer: %w", err)
	}
	e.reindex()
	e.prune()
	e.Invalidate(RegionPersistent)
	return nil
}

// SetCurrentLayer picks the layer tools commit into. It is view state and
// not recorded in history, though undoing a layer addition or removal puts
// back the layer that was current when it happened.
func (e *Editor) SetCurrentLayer(id string) error {
	layer := e.container.LayerByID(id)
	if layer == nil {
		return fmt.Errorf("layer %s: %w", id, project.ErrNotFound)
	}
	_ = e.tool.Cancel()
	e.container.CurrentLayer = layer
	e.Select(document.NewShapeSet())
	return nil
}

// --- Queries ---

// Render compiles the drawing into draw commands.
func (e *Editor) Render() []engine.DrawCommand {
	return engine.CompileDrawCommands(e.container, engine.RenderState{
		View:      e.view,
		Hover:     e.hover,
		Selection: e.selection,
		PointSize: e.opts.HitThreshold,
	})
}

// RenderJSON returns the draw commands as JSON.
func (e *Editor) RenderJSON() string {
	result, _ := engine.DrawCommandsToJSON(e.Render())
	return result
}

type LayerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Shapes  int    `json:"shapes"`
}

// State summarizes the editor for a UI shell.
type State struct {
	Tool            tool.Kind    `json:"tool"`
	ToolState       string       `json:"toolState"`
	CanUndo         bool         `json:"canUndo"`
	CanRedo         bool         `json:"canRedo"`
	UndoDepth       int          `json:"undoDepth"`
	Selection       []string     `json:"selection"`
	SelectionBounds *engine.Rect `json:"selectionBounds,omitempty"`
	CurrentLayer    string       `json:"currentLayer"`
	Layers          []LayerInfo  `json:"layers"`
	View            []float64    `json:"view"`
}

func (e *Editor) Snapshot() State {
	s := State{
		Tool:         e.tool.Kind(),
		ToolState:    e.tool.State().String(),
		CanUndo:      e.history.CanUndo(),
		CanRedo:      e.history.CanRedo(),
		UndoDepth:    e.history.UndoLen(),
		Selection:    e.selection.IDs(),
		CurrentLayer: e.container.CurrentLayer.ID,
		View:         e.view.ToSlice(),
	}
	if e.selection.Len() > 0 {
		bounds := engine.SelectionBounds(e.selection.Shapes(), e.opts.HitThreshold)
		s.SelectionBounds = &bounds
	}
	for _, l := range e.container.Layers {
		s.Layers = append(s.Layers, LayerInfo{ID: l.ID, Name: l.Name, Visible: l.Visible, Shapes: len(l.Shapes)})
	}
	return s
}

// SnapshotJSON returns Snapshot as JSON.
func (e *Editor) SnapshotJSON() string {
	data, _ := json.Marshal(e.Snapshot())
	return string(data)
}

// ToolKinds lists the tools SetTool accepts.
func ToolKinds() []tool.Kind {
	return slices.Clone(tool.Kinds)
}
