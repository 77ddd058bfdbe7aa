package mesh

import "fmt"

// FormatError reports malformed or inconsistent mesh input: dangling vertex or
// entity references, duplicate entities, unsupported vertex counts, ragged
// coordinate arrays. Construction is atomic; when New returns a FormatError no
// partial Topology is left behind.
type FormatError struct {
	What string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mesh format: %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("mesh format: %s", e.What)
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErrf(format string, args ...interface{}) *FormatError {
	return &FormatError{What: fmt.Sprintf(format, args...)}
}
