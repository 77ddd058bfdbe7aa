package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK wraps a dictionary-of-keys sparse matrix for the accumulation phase of
// assembly, where entries arrive in arbitrary order and repeat per cell.
type DOK struct {
	M *sparse.DOK
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{sparse.NewDOK(nr, nc)}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return mat.Transpose{Matrix: m} }

// Add accumulates v into entry (i, j).
func (m DOK) Add(i, j int, v float64) {
	m.M.Set(i, j, m.M.At(i, j)+v)
}

func (m DOK) Set(i, j int, v float64) { m.M.Set(i, j, v) }

func (m DOK) NNZ() int { return m.M.NNZ() }

func (m DOK) DoNonZero(fn func(i, j int, v float64)) { m.M.DoNonZero(fn) }

// ToCSR freezes the accumulated entries into compressed sparse row form for
// the solve phase.
func (m DOK) ToCSR() CSR {
	return CSR{m.M.ToCSR()}
}

// CSR wraps a compressed sparse row matrix, the frozen form a system matrix
// takes once assembly is finished.
type CSR struct {
	M *sparse.CSR
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return mat.Transpose{Matrix: m} }

func (m CSR) NNZ() int { return m.M.NNZ() }

func (m CSR) DoNonZero(fn func(i, j int, v float64)) { m.M.DoNonZero(fn) }

// MulVec computes A*x. The receiver stays untouched, so concurrent calls are
// safe.
func (m CSR) MulVec(x []float64) (y []float64) {
	r, c := m.Dims()
	if len(x) != c {
		panic(fmt.Errorf("MulVec: vector length %d, matrix has %d columns",
			len(x), c))
	}
	y = make([]float64, r)
	m.M.DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
	return
}

// Dense expands the matrix for direct factorization.
func (m CSR) Dense() (d *mat.Dense) {
	r, c := m.Dims()
	d = mat.NewDense(r, c, nil)
	m.M.DoNonZero(func(i, j int, v float64) {
		d.Set(i, j, v)
	})
	return
}
