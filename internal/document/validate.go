package document

// Validate checks the structural invariants of s and everything it owns:
// every defining point is present and finite, and no group contains itself.
func Validate(s Shape) error {
	return validate(s, make(map[string]bool))
}

func validate(s Shape, ancestors map[string]bool) error {
	if s == nil {
		return nil
	}
	id := s.Base().ID

	if p, ok := s.(*Point); ok {
		return CheckFinite(id, p.X, p.Y)
	}

	for _, p := range s.Points() {
		if p == nil {
			return &StructuralError{ShapeID: id, Reason: "defining point is nil", Err: ErrNilPoint}
		}
		if err := validate(p, ancestors); err != nil {
			return err
		}
	}

	g, ok := s.(*Group)
	if !ok {
		return nil
	}
	if ancestors[id] {
		return &StructuralError{ShapeID: id, Reason: "group cannot contain itself", Err: ErrCycle}
	}
	ancestors[id] = true
	defer delete(ancestors, id)

	for _, child := range g.Shapes {
		if err := validate(child, ancestors); err != nil {
			return err
		}
	}
	return nil
}
