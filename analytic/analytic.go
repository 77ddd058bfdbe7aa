/*
Package analytic holds closed-form and series solutions of the unit-domain
Poisson problems used to validate the solver: convergence studies measure
the distance of the finite element solution to these fields.
*/
package analytic

import (
	"math"

	"github.com/notargets/gofea/utils"
)

// Interval1D solves -u'' = 1 on (0,1) with u(0) = u(1) = 0.
func Interval1D(x []float64) float64 {
	return x[0] * (1 - x[0]) / 2
}

// SquareSeries solves -lap(u) = 1 on the unit square with homogeneous
// Dirichlet data as a double sine series,
//
//	u = sum over odd i,j of 16 sin(i pi x) sin(j pi y) / (pi^4 i j (i^2+j^2))
//
// Terms counts the odd indices kept per direction; zero picks a default
// good to about 1e-4.
type SquareSeries struct {
	Terms int
}

func (s SquareSeries) Eval(x []float64) (u float64) {
	var (
		n    = terms(s.Terms)
		sx   = make([]float64, n)
		sy   = make([]float64, n)
		idx  = make([]float64, n)
		coef = 16 / utils.POW(math.Pi, 4)
	)
	for m := 0; m < n; m++ {
		k := float64(2*m + 1)
		idx[m] = k
		sx[m] = math.Sin(k * math.Pi * x[0])
		sy[m] = math.Sin(k * math.Pi * x[1])
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			var (
				i, j = idx[a], idx[b]
			)
			u += coef * sx[a] * sy[b] / (i * j * (i*i + j*j))
		}
	}
	return u
}

// CubeSeries solves -lap(u) = 1 on the unit cube with homogeneous
// Dirichlet data,
//
//	u = sum over odd i,j,k of 64 sin(i pi x) sin(j pi y) sin(k pi z)
//	    / (pi^5 i j k (i^2+j^2+k^2))
type CubeSeries struct {
	Terms int
}

func (s CubeSeries) Eval(x []float64) (u float64) {
	var (
		n    = terms(s.Terms)
		sx   = make([]float64, n)
		sy   = make([]float64, n)
		sz   = make([]float64, n)
		idx  = make([]float64, n)
		coef = 64 / utils.POW(math.Pi, 5)
	)
	for m := 0; m < n; m++ {
		k := float64(2*m + 1)
		idx[m] = k
		sx[m] = math.Sin(k * math.Pi * x[0])
		sy[m] = math.Sin(k * math.Pi * x[1])
		sz[m] = math.Sin(k * math.Pi * x[2])
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			for c := 0; c < n; c++ {
				var (
					i, j, k = idx[a], idx[b], idx[c]
				)
				u += coef * sx[a] * sy[b] * sz[c] /
					(i * j * k * (i*i + j*j + k*k))
			}
		}
	}
	return u
}

func terms(n int) int {
	if n <= 0 {
		return 32
	}
	return n
}
