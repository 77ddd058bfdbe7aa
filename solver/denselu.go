package solver

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"

	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

// DenseLU expands the reduced matrix and factors it with LAPACK. Storage
// grows with the square of the dof count, so this backend is for small
// systems and for cross-checking the sparse path.
type DenseLU struct{}

func (DenseLU) Name() string { return "dense" }

func (DenseLU) Solve(K utils.CSR, F []float64) (x []float64, err error) {
	nr, nc := K.Dims()
	if nr != nc {
		return nil, &fespace.DimensionMismatchError{
			What: "dense LU matrix columns",
			Want: nr,
			Got:  nc,
		}
	}
	if len(F) != nr {
		return nil, &fespace.DimensionMismatchError{
			What: "dense LU right-hand side",
			Want: nr,
			Got:  len(F),
		}
	}
	if nr == 0 {
		return []float64{}, nil
	}
	var (
		a    = K.Dense().RawMatrix()
		iPiv = make([]int, nr)
	)
	if ok := lapack64.Getrf(a, iPiv); !ok {
		return nil, &SingularSystemError{
			Solver: "dense LU",
			Detail: "zero pivot in factorization",
		}
	}
	x = append([]float64(nil), F...)
	b := blas64.General{Rows: nr, Cols: 1, Stride: 1, Data: x}
	lapack64.Getrs(blas.NoTrans, a, b, iPiv)
	if utils.IsNan(x) {
		return nil, &SingularSystemError{Solver: "dense LU", Detail: "solution contains NaN"}
	}
	return x, nil
}
