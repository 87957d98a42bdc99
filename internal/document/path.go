package document

import (
	"strconv"
	"strings"
)

type FillRule string

const (
	FillRuleEvenOdd FillRule = "evenOdd"
	FillRuleNonzero FillRule = "nonzero"
)

type SweepDirection string

const (
	SweepClockwise        SweepDirection = "clockwise"
	SweepCounterclockwise SweepDirection = "counterclockwise"
)

// PathSegment is one drawing command of a figure.
type PathSegment interface {
	Points() []*Point
	markup(b *strings.Builder)
}

type LineSegment struct {
	Point *Point `json:"point"`
}

func (s *LineSegment) Points() []*Point { return []*Point{s.Point} }

func (s *LineSegment) markup(b *strings.Builder) {
	b.WriteString("L")
	writePoint(b, s.Point)
}

type PathSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ArcSegment struct {
	Point         *Point         `json:"point"`
	Size          PathSize       `json:"size"`
	RotationAngle float64        `json:"rotationAngle"`
	IsLargeArc    bool           `json:"isLargeArc"`
	Sweep         SweepDirection `json:"sweep"`
}

func (s *ArcSegment) Points() []*Point { return []*Point{s.Point} }

func (s *ArcSegment) markup(b *strings.Builder) {
	b.WriteString("A")
	b.WriteString(formatFloat(s.Size.Width))
	b.WriteString(",")
	b.WriteString(formatFloat(s.Size.Height))
	b.WriteString(" ")
	b.WriteString(formatFloat(s.RotationAngle))
	b.WriteString(" ")
	b.WriteString(flag(s.IsLargeArc))
	b.WriteString(" ")
	b.WriteString(flag(s.Sweep == SweepClockwise))
	b.WriteString(" ")
	writePoint(b, s.Point)
}

type CubicBezierSegment struct {
	Point1 *Point `json:"point1"`
	Point2 *Point `json:"point2"`
	Point3 *Point `json:"point3"`
}

func (s *CubicBezierSegment) Points() []*Point { return []*Point{s.Point1, s.Point2, s.Point3} }

func (s *CubicBezierSegment) markup(b *strings.Builder) {
	b.WriteString("C")
	writePoint(b, s.Point1)
	b.WriteString(" ")
	writePoint(b, s.Point2)
	b.WriteString(" ")
	writePoint(b, s.Point3)
}

type QuadraticBezierSegment struct {
	Point1 *Point `json:"point1"`
	Point2 *Point `json:"point2"`
}

func (s *QuadraticBezierSegment) Points() []*Point { return []*Point{s.Point1, s.Point2} }

func (s *QuadraticBezierSegment) markup(b *strings.Builder) {
	b.WriteString("Q")
	writePoint(b, s.Point1)
	b.WriteString(" ")
	writePoint(b, s.Point2)
}

type PolyLineSegment struct {
	Vertices []*Point `json:"points"`
}

func (s *PolyLineSegment) Points() []*Point { return s.Vertices }

func (s *PolyLineSegment) markup(b *strings.Builder) {
	b.WriteString("L")
	for i, p := range s.Vertices {
		if i > 0 {
			b.WriteString(" ")
		}
		writePoint(b, p)
	}
}

type PathFigure struct {
	StartPoint *Point        `json:"startPoint"`
	Segments   []PathSegment `json:"segments"`
	IsFilled   bool          `json:"isFilled"`
	IsClosed   bool          `json:"isClosed"`
}

// Points returns the start point followed by every segment point.
func (f *PathFigure) Points() []*Point {
	points := []*Point{f.StartPoint}
	for _, s := range f.Segments {
		points = append(points, s.Points()...)
	}
	return points
}

type PathGeometry struct {
	FillRule FillRule      `json:"fillRule"`
	Figures  []*PathFigure `json:"figures"`
}

// Points returns every generated point of every figure, in figure order.
func (g *PathGeometry) Points() []*Point {
	var points []*Point
	for _, f := range g.Figures {
		points = append(points, f.Points()...)
	}
	return points
}

// String renders the geometry as path markup, e.g. "M0,0 L10,0 Q5,5 10,10 Z".
func (g *PathGeometry) String() string {
	var b strings.Builder
	for i, f := range g.Figures {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString("M")
		writePoint(&b, f.StartPoint)
		for _, s := range f.Segments {
			b.WriteString(" ")
			s.markup(&b)
		}
		if f.IsClosed {
			b.WriteString(" Z")
		}
	}
	return b.String()
}

// GeometryBuilder accumulates figures the way a streaming geometry context
// does: BeginFigure starts a figure, the *To methods append segments.
type GeometryBuilder struct {
	geometry *PathGeometry
	current  *PathFigure
}

func NewGeometryBuilder(rule FillRule) *GeometryBuilder {
	return &GeometryBuilder{geometry: &PathGeometry{FillRule: rule}}
}

func (b *GeometryBuilder) BeginFigure(start *Point, isFilled, isClosed bool) *GeometryBuilder {
	b.current = &PathFigure{StartPoint: start, IsFilled: isFilled, IsClosed: isClosed}
	b.geometry.Figures = append(b.geometry.Figures, b.current)
	return b
}

func (b *GeometryBuilder) LineTo(p *Point) *GeometryBuilder {
	return b.add(&LineSegment{Point: p})
}

func (b *GeometryBuilder) ArcTo(p *Point, size PathSize, rotation float64, isLargeArc bool, sweep SweepDirection) *GeometryBuilder {
	return b.add(&ArcSegment{Point: p, Size: size, RotationAngle: rotation, IsLargeArc: isLargeArc, Sweep: sweep})
}

func (b *GeometryBuilder) CubicBezierTo(p1, p2, p3 *Point) *GeometryBuilder {
	return b.add(&CubicBezierSegment{Point1: p1, Point2: p2, Point3: p3})
}

func (b *GeometryBuilder) QuadraticBezierTo(p1, p2 *Point) *GeometryBuilder {
	return b.add(&QuadraticBezierSegment{Point1: p1, Point2: p2})
}

func (b *GeometryBuilder) PolyLineTo(points ...*Point) *GeometryBuilder {
	return b.add(&PolyLineSegment{Vertices: points})
}

func (b *GeometryBuilder) add(s PathSegment) *GeometryBuilder {
	if b.current == nil {
		b.BeginFigure(NewPoint(0, 0), true, false)
	}
	b.current.Segments = append(b.current.Segments, s)
	return b
}

func (b *GeometryBuilder) Geometry() *PathGeometry { return b.geometry }

func writePoint(b *strings.Builder, p *Point) {
	if p == nil {
		b.WriteString("0,0")
		return
	}
	b.WriteString(formatFloat(p.X))
	b.WriteString(",")
	b.WriteString(formatFloat(p.Y))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
