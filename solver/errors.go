package solver

import "fmt"

// SingularSystemError reports a factorization breakdown: a zero pivot in
// the LU of the reduced matrix. The usual way to get one is a pure Neumann
// problem, whose constant nullspace survives into the reduced system.
type SingularSystemError struct {
	Solver string
	Detail string
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("%s: singular system: %s", e.Solver, e.Detail)
}
