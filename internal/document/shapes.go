package document

import (
	"github.com/inamate/sketchcore/internal/typeid"
)

// Point is both a standalone shape and the defining point of other shapes.
// Sharing one *Point between shapes is what keeps connected shapes joined.
type Point struct {
	ShapeBase
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint creates a visible point. Coordinates are not validated here;
// Validate and MoveTo reject non-finite values.
func NewPoint(x, y float64) *Point {
	return &Point{ShapeBase: newBase(typeid.PrefixPoint, ""), X: x, Y: y}
}

func (p *Point) Kind() Kind       { return KindPoint }
func (p *Point) Points() []*Point { return nil }

// MoveTo sets the point position, rejecting non-finite coordinates.
func (p *Point) MoveTo(x, y float64) error {
	if err := CheckFinite(p.ID, x, y); err != nil {
		return err
	}
	p.X, p.Y = x, y
	return nil
}

type Line struct {
	ShapeBase
	Start *Point `json:"start"`
	End   *Point `json:"end"`
}

func NewLine(x1, y1, x2, y2 float64, style StyleHandle) *Line {
	return &Line{
		ShapeBase: newBase(typeid.PrefixLine, style),
		Start:     NewPoint(x1, y1),
		End:       NewPoint(x2, y2),
	}
}

func (l *Line) Kind() Kind       { return KindLine }
func (l *Line) Points() []*Point { return []*Point{l.Start, l.End} }

func (l *Line) SetPoint(i int, p *Point) {
	switch i {
	case 0:
		l.Start = p
	case 1:
		l.End = p
	}
}

// Box is the pair of corner points shared by the box-like kinds.
type Box struct {
	TopLeft     *Point `json:"topLeft"`
	BottomRight *Point `json:"bottomRight"`
}

func newBox(x1, y1, x2, y2 float64) Box {
	return Box{TopLeft: NewPoint(x1, y1), BottomRight: NewPoint(x2, y2)}
}

func (b *Box) Points() []*Point { return []*Point{b.TopLeft, b.BottomRight} }

func (b *Box) SetPoint(i int, p *Point) {
	switch i {
	case 0:
		b.TopLeft = p
	case 1:
		b.BottomRight = p
	}
}

// Boxed is implemented by shapes whose geometry is a corner-defined box.
type Boxed interface {
	Shape
	Corners() *Box
}

func (b *Box) Corners() *Box { return b }

type Rectangle struct {
	ShapeBase
	Box
	IsFilled bool `json:"isFilled"`
}

func NewRectangle(x1, y1, x2, y2 float64, style StyleHandle) *Rectangle {
	return &Rectangle{ShapeBase: newBase(typeid.PrefixRectangle, style), Box: newBox(x1, y1, x2, y2)}
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

type Ellipse struct {
	ShapeBase
	Box
	IsFilled bool `json:"isFilled"`
}

func NewEllipse(x1, y1, x2, y2 float64, style StyleHandle) *Ellipse {
	return &Ellipse{ShapeBase: newBase(typeid.PrefixEllipse, style), Box: newBox(x1, y1, x2, y2)}
}

func (e *Ellipse) Kind() Kind { return KindEllipse }

type Text struct {
	ShapeBase
	Box
	Text string `json:"text"`
}

func NewText(x1, y1, x2, y2 float64, text string, style StyleHandle) *Text {
	return &Text{ShapeBase: newBase(typeid.PrefixText, style), Box: newBox(x1, y1, x2, y2), Text: text}
}

func (t *Text) Kind() Kind { return KindText }

// Image references its pixels by a resource key resolved outside the core.
type Image struct {
	ShapeBase
	Box
	Key string `json:"key"`
}

func NewImage(x1, y1, x2, y2 float64, key string, style StyleHandle) *Image {
	return &Image{ShapeBase: newBase(typeid.PrefixImage, style), Box: newBox(x1, y1, x2, y2), Key: key}
}

func (i *Image) Kind() Kind { return KindImage }

// Arc is bounded by Point1 and Point2; Point3 and Point4 give the start and
// end directions.
type Arc struct {
	ShapeBase
	Point1 *Point `json:"point1"`
	Point2 *Point `json:"point2"`
	Point3 *Point `json:"point3"`
	Point4 *Point `json:"point4"`
}

func NewArc(x, y float64, style StyleHandle) *Arc {
	return &Arc{
		ShapeBase: newBase(typeid.PrefixArc, style),
		Point1:    NewPoint(x, y),
		Point2:    NewPoint(x, y),
		Point3:    NewPoint(x, y),
		Point4:    NewPoint(x, y),
	}
}

func (a *Arc) Kind() Kind       { return KindArc }
func (a *Arc) Points() []*Point { return []*Point{a.Point1, a.Point2, a.Point3, a.Point4} }

func (a *Arc) SetPoint(i int, p *Point) {
	setIndexed(i, p, &a.Point1, &a.Point2, &a.Point3, &a.Point4)
}

type CubicBezier struct {
	ShapeBase
	Point1 *Point `json:"point1"`
	Point2 *Point `json:"point2"`
	Point3 *Point `json:"point3"`
	Point4 *Point `json:"point4"`
}

func NewCubicBezier(x, y float64, style StyleHandle) *CubicBezier {
	return &CubicBezier{
		ShapeBase: newBase(typeid.PrefixCubicBezier, style),
		Point1:    NewPoint(x, y),
		Point2:    NewPoint(x, y),
		Point3:    NewPoint(x, y),
		Point4:    NewPoint(x, y),
	}
}

func (b *CubicBezier) Kind() Kind       { return KindCubicBezier }
func (b *CubicBezier) Points() []*Point { return []*Point{b.Point1, b.Point2, b.Point3, b.Point4} }

func (b *CubicBezier) SetPoint(i int, p *Point) {
	setIndexed(i, p, &b.Point1, &b.Point2, &b.Point3, &b.Point4)
}

type QuadraticBezier struct {
	ShapeBase
	Point1 *Point `json:"point1"`
	Point2 *Point `json:"point2"`
	Point3 *Point `json:"point3"`
}

func NewQuadraticBezier(x, y float64, style StyleHandle) *QuadraticBezier {
	return &QuadraticBezier{
		ShapeBase: newBase(typeid.PrefixQuadraticBezier, style),
		Point1:    NewPoint(x, y),
		Point2:    NewPoint(x, y),
		Point3:    NewPoint(x, y),
	}
}

func (q *QuadraticBezier) Kind() Kind       { return KindQuadraticBezier }
func (q *QuadraticBezier) Points() []*Point { return []*Point{q.Point1, q.Point2, q.Point3} }

func (q *QuadraticBezier) SetPoint(i int, p *Point) {
	setIndexed(i, p, &q.Point1, &q.Point2, &q.Point3)
}

// Path is a figure-based geometry whose defining points are generated from
// its segments.
type Path struct {
	ShapeBase
	Geometry *PathGeometry `json:"geometry"`
}

func NewPath(geometry *PathGeometry, style StyleHandle) *Path {
	return &Path{ShapeBase: newBase(typeid.PrefixPath, style), Geometry: geometry}
}

func (p *Path) Kind() Kind { return KindPath }

func (p *Path) Points() []*Point {
	if p.Geometry == nil {
		return nil
	}
	return p.Geometry.Points()
}

// Group owns an ordered list of child shapes plus connector points used for
// attaching other shapes to the group as a whole.
type Group struct {
	ShapeBase
	Shapes     []Shape  `json:"shapes"`
	Connectors []*Point `json:"connectors"`
}

func NewGroup(name string) *Group {
	g := &Group{ShapeBase: newBase(typeid.PrefixGroup, "")}
	g.Name = name
	return g
}

func (g *Group) Kind() Kind { return KindGroup }

// Points returns the connectors; children keep their own defining points.
func (g *Group) Points() []*Point { return g.Connectors }

// AddShape appends a child, rejecting additions that would make the group
// contain itself.
func (g *Group) AddShape(s Shape) error {
	if s == nil {
		return nil
	}
	if Contains(s, g.ID) {
		return &StructuralError{ShapeID: g.ID, Reason: "group cannot contain itself", Err: ErrCycle}
	}
	g.Shapes = append(g.Shapes, s)
	return nil
}

// AddConnector appends p as a connector point, flagging it as such.
func (g *Group) AddConnector(p *Point) {
	p.State = p.State.Set(StateConnector)
	g.Connectors = append(g.Connectors, p)
}

// Contains reports whether s is, or transitively contains, the shape with
// the given identity.
func Contains(s Shape, id string) bool {
	if IDOf(s) == id {
		return true
	}
	g, ok := s.(*Group)
	if !ok {
		return false
	}
	for _, child := range g.Shapes {
		if Contains(child, id) {
			return true
		}
	}
	return false
}

func setIndexed(i int, p *Point, slots ...**Point) {
	if i >= 0 && i < len(slots) {
		*slots[i] = p
	}
}
