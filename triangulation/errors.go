package triangulation

import (
	"fmt"
	"strings"
)

// EmptyBoundaryError reports a boundary triangulation request whose tags
// selected no facets at all, which would otherwise vanish silently from
// every integral taken over it.
type EmptyBoundaryError struct {
	Tags []string
}

func (e *EmptyBoundaryError) Error() string {
	return fmt.Sprintf("no boundary facets carry any of the tags [%s]",
		strings.Join(e.Tags, ", "))
}
