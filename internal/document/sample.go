package document

// NewSampleContainer builds a small demo drawing: a rectangle, an ellipse,
// a closed triangle path, two lines joined at a shared point, and a group
// with a connector.
func NewSampleContainer() *Container {
	c := NewContainer("Sample", 1200, 750)
	layer := c.CurrentLayer

	rect := NewRectangle(60, 60, 260, 180, "default")
	rect.Name = "Rectangle"
	rect.IsFilled = true

	ellipse := NewEllipse(320, 60, 480, 200, "default")
	ellipse.Name = "Ellipse"

	builder := NewGeometryBuilder(FillRuleNonzero)
	builder.BeginFigure(NewPoint(560, 200), true, true).
		LineTo(NewPoint(640, 60)).
		LineTo(NewPoint(720, 200))
	triangle := NewPath(builder.Geometry(), "default")
	triangle.Name = "Triangle"

	joint := NewPoint(180, 360)
	joint.State = joint.State.Set(StateConnector)
	left := NewLine(60, 300, 0, 0, "default")
	left.End = joint
	right := NewLine(0, 0, 300, 300, "default")
	right.Start = joint

	spinner := NewGroup("Spinner")
	_ = spinner.AddShape(NewRectangle(400, 300, 480, 380, "default"))
	_ = spinner.AddShape(NewEllipse(420, 320, 460, 360, "default"))
	spinner.AddConnector(NewPoint(440, 300))

	layer.Shapes = []Shape{rect, ellipse, triangle, left, right, spinner}
	return c
}
