package assembly

import (
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

// System couples an assembled matrix and right-hand side with the Dirichlet
// data of their space. The full K and F are kept as assembled; Kff and Ff
// hold the reduced problem over the free dofs, with the prescribed values
// lifted onto the right-hand side. When every dof is constrained the
// reduced problem is empty and Solution returns the prescribed values
// directly.
type System struct {
	K   utils.CSR
	F   []float64
	Kff utils.CSR // valid only when NumFree() > 0
	Ff  []float64

	space *fespace.Space
	vals  map[int]float64
}

// NewSystem reduces a square assembled system over sp by eliminating the
// constrained dofs. g supplies the prescribed boundary values; nil means
// homogeneous.
func NewSystem(K utils.CSR, F []float64, sp *fespace.Space, g fespace.BoundaryFunc) (s *System, err error) {
	var (
		nr, nc = K.Dims()
		n      = sp.NumDofs()
	)
	if nr != n || nc != n {
		return nil, &fespace.DimensionMismatchError{
			What: "system matrix rows",
			Want: n,
			Got:  nr,
		}
	}
	if len(F) != n {
		return nil, &fespace.DimensionMismatchError{
			What: "right-hand side",
			Want: n,
			Got:  len(F),
		}
	}
	s = &System{
		K:     K,
		F:     F,
		space: sp,
		vals:  sp.DirichletValues(g),
	}
	s.reduce()
	return s, nil
}

// reduce restricts K to the free block and folds the columns of the
// constrained dofs, scaled by their prescribed values, into Ff.
func (s *System) reduce() {
	nf := s.space.NumFree()
	s.Ff = make([]float64, nf)
	for free := 0; free < nf; free++ {
		s.Ff[free] = s.F[s.space.DofOfFree(free)]
	}
	if nf == 0 {
		return
	}
	dok := utils.NewDOK(nf, nf)
	s.K.DoNonZero(func(i, j int, v float64) {
		fi := s.space.FreeIndex(i)
		if fi < 0 {
			return
		}
		fj := s.space.FreeIndex(j)
		if fj < 0 {
			s.Ff[fi] -= v * s.vals[j]
			return
		}
		dok.Add(fi, fj, v)
	})
	s.Kff = dok.ToCSR()
}

// Space returns the dof layout the system was reduced against.
func (s *System) Space() *fespace.Space { return s.space }

// NumFree is the size of the reduced problem.
func (s *System) NumFree() int { return s.space.NumFree() }

// Prescribed returns the eliminated dofs and their values, aliasing
// internal storage.
func (s *System) Prescribed() map[int]float64 { return s.vals }

// Solution scatters a reduced solution back to the full dof vector,
// reinserting the prescribed values.
func (s *System) Solution(uf []float64) (u []float64, err error) {
	if len(uf) != s.space.NumFree() {
		return nil, &fespace.DimensionMismatchError{
			What: "reduced solution",
			Want: s.space.NumFree(),
			Got:  len(uf),
		}
	}
	u = make([]float64, s.space.NumDofs())
	for dof := range u {
		if fi := s.space.FreeIndex(dof); fi >= 0 {
			u[dof] = uf[fi]
		} else {
			u[dof] = s.vals[dof]
		}
	}
	return u, nil
}
