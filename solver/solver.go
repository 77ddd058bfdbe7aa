/*
Package solver turns assembled forms into solved finite element functions.
An Operator couples a bilinear form, a right-hand side and Dirichlet data;
it assembles once, on first use, and hands the reduced system to an
Algebraic backend. Two backends are provided: SparseLU, the Sparse-1.3
pivoting LU working directly on the CSR entries, and DenseLU, a LAPACK
factorization of the expanded matrix for small systems and cross-checks.
*/
package solver

import (
	"fmt"

	"github.com/notargets/gofea/assembly"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

// Algebraic factors and solves a reduced linear system.
type Algebraic interface {
	Name() string
	Solve(K utils.CSR, F []float64) (x []float64, err error)
}

// Operator is a lazily assembled linear operator with its right-hand side
// and boundary data.
type Operator struct {
	form *assembly.BilinearForm
	rhs  *assembly.LinearForm
	g    fespace.BoundaryFunc
	asm  assembly.Assembler

	sys *assembly.System
}

// NewOperator couples the pieces of a solvable problem. The bilinear form
// must use one space in both roles, and the right-hand side must test
// against the same space; g supplies Dirichlet values, nil meaning
// homogeneous.
func NewOperator(form *assembly.BilinearForm, rhs *assembly.LinearForm,
	g fespace.BoundaryFunc, asm assembly.Assembler) (op *Operator, err error) {
	if form.Test.Space.S != form.Trial.Space.S {
		return nil, fmt.Errorf("operator needs the same space in test and trial roles")
	}
	if rhs.Test.Space.S != form.Test.Space.S {
		return nil, fmt.Errorf("operator matrix and right-hand side use different test spaces")
	}
	return &Operator{form: form, rhs: rhs, g: g, asm: asm}, nil
}

// System assembles matrix and right-hand side on the first call and caches
// the reduced system for the following ones.
func (op *Operator) System() (sys *assembly.System, err error) {
	if op.sys != nil {
		return op.sys, nil
	}
	K, err := op.asm.Matrix(op.form)
	if err != nil {
		return nil, err
	}
	F, err := op.asm.Vector(op.rhs)
	if err != nil {
		return nil, err
	}
	if op.sys, err = assembly.NewSystem(K, F, op.form.Trial.Space.S, op.g); err != nil {
		return nil, err
	}
	return op.sys, nil
}

// Apply multiplies the full assembled matrix with a dof vector.
func (op *Operator) Apply(u []float64) (Ku []float64, err error) {
	sys, err := op.System()
	if err != nil {
		return nil, err
	}
	sp := op.form.Trial.Space.S
	if len(u) != sp.NumDofs() {
		return nil, &fespace.DimensionMismatchError{
			What: "operator argument",
			Want: sp.NumDofs(),
			Got:  len(u),
		}
	}
	return sys.K.MulVec(u), nil
}

// Residual computes F - K*u over all dofs.
func (op *Operator) Residual(u []float64) (r []float64, err error) {
	sys, err := op.System()
	if err != nil {
		return nil, err
	}
	if r, err = op.Apply(u); err != nil {
		return nil, err
	}
	for i := range r {
		r[i] = sys.F[i] - r[i]
	}
	return r, nil
}

// Solve runs the backend on the reduced system and scatters the result,
// with the prescribed values reinserted, into a finite element function.
// With no free dofs the backend is never invoked and the solution is the
// prescribed data itself.
func (op *Operator) Solve(alg Algebraic) (u *fespace.Function, err error) {
	sys, err := op.System()
	if err != nil {
		return nil, err
	}
	var uf []float64
	if sys.NumFree() > 0 {
		if uf, err = alg.Solve(sys.Kff, sys.Ff); err != nil {
			return nil, err
		}
	}
	full, err := sys.Solution(uf)
	if err != nil {
		return nil, err
	}
	return op.form.Trial.Space.S.NewFunction(full)
}
