package engine

import (
	"encoding/json"
	"math"

	"github.com/inamate/sketchcore/internal/document"
)

// PathCommand is one canvas path instruction: the op letter followed by its
// numeric arguments, e.g. {"M", x, y} or {"C", x1, y1, x2, y2, x, y}.
type PathCommand []any

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op        string        `json:"op"`                  // "path", "point", "text", "image"
	ObjectID  string        `json:"objectId,omitempty"`  // For hit correlation
	Kind      document.Kind `json:"kind,omitempty"`      // Shape kind
	Layer     string        `json:"layer,omitempty"`     // Owning layer name
	Transform []float64     `json:"transform,omitempty"` // [a, b, c, d, e, f] view matrix
	Path      []PathCommand `json:"path,omitempty"`      // Path data for "path" ops
	Style     string        `json:"style,omitempty"`     // Style handle, resolved by the renderer
	Filled    bool          `json:"filled,omitempty"`
	Text      string        `json:"text,omitempty"`
	ImageKey  string        `json:"imageKey,omitempty"`
	X         float64       `json:"x,omitempty"`
	Y         float64       `json:"y,omitempty"`
	Width     float64       `json:"width,omitempty"`
	Height    float64       `json:"height,omitempty"`
	Hover     bool          `json:"hover,omitempty"`
	Selected  bool          `json:"selected,omitempty"`
}

// RenderState carries what the renderer needs beyond the shapes themselves.
type RenderState struct {
	View      Matrix2D
	Hover     document.Shape
	Selection document.ShapeSet
	// PointSize is the marker size for points.
	PointSize float64
}

// CompileDrawCommands generates a draw command buffer from a container.
// Commands are in painter's order (back to front): visible persistent
// layers in order, then the working layer, then the helper layer.
func CompileDrawCommands(c *document.Container, state RenderState) []DrawCommand {
	if c == nil {
		return nil
	}

	comp := compiler{state: state, transform: state.View.ToSlice(), commands: []DrawCommand{}}
	for _, layer := range c.Layers {
		if layer.Visible {
			comp.layer(layer)
		}
	}
	comp.layer(c.WorkingLayer)
	comp.layer(c.HelperLayer)
	return comp.commands
}

type compiler struct {
	state     RenderState
	transform []float64
	commands  []DrawCommand
}

func (c *compiler) layer(l *document.Layer) {
	if l == nil {
		return
	}
	for _, s := range l.Shapes {
		c.shape(s, l.Name, false, false)
	}
}

// shape emits commands for s. Hover and selection flags set on a group are
// inherited by everything drawn inside it.
func (c *compiler) shape(s document.Shape, layer string, hover, selected bool) {
	if s == nil || !s.Base().State.Has(document.StateVisible) {
		return
	}
	hover = hover || (c.state.Hover != nil && document.IDOf(c.state.Hover) == document.IDOf(s))
	selected = selected || c.state.Selection.Has(s)

	base := s.Base()
	cmd := DrawCommand{
		Op:        "path",
		ObjectID:  base.ID,
		Kind:      s.Kind(),
		Layer:     layer,
		Transform: c.transform,
		Style:     string(base.Style),
		Hover:     hover,
		Selected:  selected,
	}

	switch t := s.(type) {
	case *document.Point:
		cmd.Op = "point"
		cmd.X, cmd.Y = t.X, t.Y
		cmd.Width, cmd.Height = c.state.PointSize, c.state.PointSize

	case *document.Line:
		cmd.Path = []PathCommand{
			{"M", t.Start.X, t.Start.Y},
			{"L", t.End.X, t.End.Y},
		}

	case *document.Rectangle:
		cmd.Path = rectPath(t.TopLeft, t.BottomRight)
		cmd.Filled = t.IsFilled

	case *document.Ellipse:
		cmd.Path = ellipsePath(t.TopLeft, t.BottomRight)
		cmd.Filled = t.IsFilled

	case *document.Text:
		cmd.Op = "text"
		cmd.Text = t.Text
		setBox(&cmd, t.TopLeft, t.BottomRight)

	case *document.Image:
		cmd.Op = "image"
		cmd.ImageKey = t.Key
		setBox(&cmd, t.TopLeft, t.BottomRight)

	case *document.Arc:
		cmd.Path = arcPath(t)

	case *document.CubicBezier:
		cmd.Path = []PathCommand{
			{"M", t.Point1.X, t.Point1.Y},
			{"C", t.Point2.X, t.Point2.Y, t.Point3.X, t.Point3.Y, t.Point4.X, t.Point4.Y},
		}

	case *document.QuadraticBezier:
		cmd.Path = []PathCommand{
			{"M", t.Point1.X, t.Point1.Y},
			{"Q", t.Point2.X, t.Point2.Y, t.Point3.X, t.Point3.Y},
		}

	case *document.Path:
		cmd.Path, cmd.Filled = geometryPath(t.Geometry)

	case *document.Group:
		for _, child := range t.Shapes {
			c.shape(child, layer, hover, selected)
		}
		for _, connector := range t.Connectors {
			c.shape(connector, layer, hover, selected)
		}
		return
	}

	c.commands = append(c.commands, cmd)
}

func setBox(cmd *DrawCommand, tl, br *document.Point) {
	r := RectFromPoints(tl.X, tl.Y, br.X, br.Y, 0, 0)
	cmd.X, cmd.Y, cmd.Width, cmd.Height = r.X, r.Y, r.Width, r.Height
}

func rectPath(tl, br *document.Point) []PathCommand {
	return []PathCommand{
		{"M", tl.X, tl.Y},
		{"L", br.X, tl.Y},
		{"L", br.X, br.Y},
		{"L", tl.X, br.Y},
		{"Z"},
	}
}

// ellipsePath generates path commands for the ellipse inscribed in a box
// using bezier curves.
func ellipsePath(tl, br *document.Point) []PathCommand {
	cx, cy := (tl.X+br.X)/2, (tl.Y+br.Y)/2
	rx, ry := math.Abs(br.X-tl.X)/2, math.Abs(br.Y-tl.Y)/2

	// Magic number for bezier approximation of a circle/ellipse
	// k = 4 * (sqrt(2) - 1) / 3 ≈ 0.5522847498
	k := 0.5522847498
	kx, ky := rx*k, ry*k

	// Four bezier curves to approximate an ellipse
	return []PathCommand{
		{"M", cx + rx, cy},
		{"C", cx + rx, cy + ky, cx + kx, cy + ry, cx, cy + ry},
		{"C", cx - kx, cy + ry, cx - rx, cy + ky, cx - rx, cy},
		{"C", cx - rx, cy - ky, cx - kx, cy - ry, cx, cy - ry},
		{"C", cx + kx, cy - ry, cx + rx, cy - ky, cx + rx, cy},
		{"Z"},
	}
}

// arcPath draws the arc of the circle spanned by Point1 and Point2, from
// the direction of Point3 to the direction of Point4.
func arcPath(a *document.Arc) []PathCommand {
	cx, cy := (a.Point1.X+a.Point2.X)/2, (a.Point1.Y+a.Point2.Y)/2
	r := math.Hypot(a.Point1.X-cx, a.Point1.Y-cy)
	start := math.Atan2(a.Point3.Y-cy, a.Point3.X-cx)
	end := math.Atan2(a.Point4.Y-cy, a.Point4.X-cx)
	return []PathCommand{
		{"M", cx + r*math.Cos(start), cy + r*math.Sin(start)},
		{"A", cx, cy, r, start, end},
	}
}

// geometryPath flattens a path geometry into canvas commands. Arc segments
// keep their SVG-style arguments: rx, ry, rotation, large-arc, sweep, x, y.
func geometryPath(g *document.PathGeometry) ([]PathCommand, bool) {
	if g == nil {
		return nil, false
	}

	var path []PathCommand
	filled := false
	for _, f := range g.Figures {
		if f.StartPoint == nil {
			continue
		}
		filled = filled || f.IsFilled
		path = append(path, PathCommand{"M", f.StartPoint.X, f.StartPoint.Y})
		for _, seg := range f.Segments {
			switch s := seg.(type) {
			case *document.LineSegment:
				path = append(path, PathCommand{"L", s.Point.X, s.Point.Y})
			case *document.PolyLineSegment:
				for _, p := range s.Vertices {
					path = append(path, PathCommand{"L", p.X, p.Y})
				}
			case *document.QuadraticBezierSegment:
				path = append(path, PathCommand{"Q", s.Point1.X, s.Point1.Y, s.Point2.X, s.Point2.Y})
			case *document.CubicBezierSegment:
				path = append(path, PathCommand{"C", s.Point1.X, s.Point1.Y, s.Point2.X, s.Point2.Y, s.Point3.X, s.Point3.Y})
			case *document.ArcSegment:
				path = append(path, PathCommand{
					"E",
					s.Size.Width, s.Size.Height, s.RotationAngle,
					s.IsLargeArc, s.Sweep == document.SweepClockwise,
					s.Point.X, s.Point.Y,
				})
			}
		}
		if f.IsClosed {
			path = append(path, PathCommand{"Z"})
		}
	}
	return path, filled
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// SelectionBounds returns the combined bounds of the given shapes.
func SelectionBounds(shapes []document.Shape, threshold float64) Rect {
	var result Rect
	first := true

	for _, s := range shapes {
		b := GetBounds(s, threshold, 0, 0)
		if first {
			result = b
			first = false
		} else {
			result = result.Union(b)
		}
	}

	return result
}
