package document

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonFinite    = errors.New("non-finite coordinate")
	ErrCycle        = errors.New("group cycle")
	ErrNilPoint     = errors.New("missing defining point")
	ErrUnknownState = errors.New("unknown state flag")
)

// StructuralError reports a shape that must not enter the document tree.
type StructuralError struct {
	ShapeID string
	Reason  string
	Err     error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error in %s: %s", e.ShapeID, e.Reason)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// CheckFinite reports a StructuralError for the shape id unless both
// coordinates are finite.
func CheckFinite(id string, x, y float64) error {
	if !finite(x) || !finite(y) {
		return &StructuralError{ShapeID: id, Reason: "non-finite coordinate", Err: ErrNonFinite}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
