package element

import "fmt"

// UnsupportedShapeError reports a request for numerics on a cell topology this
// package does not implement. Shape carries enough context (the shape name or
// the offending dim/vertex-count pair) for the caller to fix the input.
type UnsupportedShapeError struct {
	Shape  string
	Reason string
}

func (e *UnsupportedShapeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unsupported cell shape %s", e.Shape)
	}
	return fmt.Sprintf("unsupported cell shape %s: %s", e.Shape, e.Reason)
}

// UnsupportedOrderError reports a request for an interpolation order the basis
// tables do not cover.
type UnsupportedOrderError struct {
	Shape Shape
	Order int
}

func (e *UnsupportedOrderError) Error() string {
	return fmt.Sprintf("unsupported interpolation order %d for shape %s", e.Order, e.Shape)
}
