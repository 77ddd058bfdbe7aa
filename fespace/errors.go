package fespace

import "fmt"

// DimensionMismatchError reports a vector or matrix whose size disagrees
// with the dimension of the space it is paired with.
type DimensionMismatchError struct {
	What string
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: dimension %d does not match %d", e.What, e.Got, e.Want)
}
