package fespace

import (
	"math"

	"github.com/notargets/gofea/element"
	"github.com/notargets/gofea/triangulation"
)

// Function is a finite element function: one coefficient per degree of
// freedom of its space.
type Function struct {
	sp *Space
	u  []float64
}

// NewFunction wraps a coefficient vector. The length must match the number
// of degrees of freedom.
func (sp *Space) NewFunction(u []float64) (f *Function, err error) {
	if len(u) != sp.NumDofs() {
		return nil, &DimensionMismatchError{
			What: "coefficient vector",
			Want: sp.NumDofs(),
			Got:  len(u),
		}
	}
	return &Function{sp: sp, u: u}, nil
}

// Interpolate samples f at the location of every degree of freedom, which
// for an order-1 space is nodal interpolation.
func (sp *Space) Interpolate(f func(x []float64) float64) *Function {
	u := make([]float64, sp.NumDofs())
	for dof := range u {
		u[dof] = f(sp.topo.VertexCoords(sp.vertOf[dof]))
	}
	return &Function{sp: sp, u: u}
}

// Space returns the space the function lives in.
func (f *Function) Space() *Space { return f.sp }

// Coeffs returns the coefficient vector, aliasing internal storage.
func (f *Function) Coeffs() []float64 { return f.u }

// EvalInCell evaluates the function at a reference point of one cell.
func (f *Function) EvalInCell(cell int, xi []float64) (val float64) {
	var (
		b = f.sp.Basis(f.sp.topo.CellShape(cell))
		S = b.Eval(xi)
	)
	for i, dof := range f.sp.cells[cell] {
		val += S[i] * f.u[dof]
	}
	return val
}

// Sample returns one value per mesh vertex, zero at vertices no cell
// touches. The ordering matches the mesh, which is what field writers
// expect.
func (f *Function) Sample() (vals []float64) {
	vals = make([]float64, f.sp.topo.NumVertices())
	for v := range vals {
		if dof := f.sp.dofOf[v]; dof >= 0 {
			vals[v] = f.u[dof]
		}
	}
	return vals
}

// L2Error integrates (f - exact)^2 over the whole domain with quadrature of
// the given degree and returns the square root. A degree below 1 picks a
// default exact for products of the space's own order.
func (f *Function) L2Error(exact func(x []float64) float64, degree int) (e float64, err error) {
	if degree < 1 {
		degree = 2*f.sp.order + 1
	}
	var (
		tri   = triangulation.ForDomain(f.sp.topo)
		rules = make(map[element.Shape]element.Rule)
		tabs  = make(map[element.Shape][][]float64)
	)
	for _, p := range tri.Patches() {
		rule, ok := rules[p.Shape]
		if !ok {
			if rule, err = element.NewRule(p.Shape, degree); err != nil {
				return 0, err
			}
			rules[p.Shape] = rule
			b := f.sp.Basis(p.Shape)
			S := make([][]float64, rule.Len())
			for q, pt := range rule.Points {
				S[q] = b.Eval(pt)
			}
			tabs[p.Shape] = S
		}
		g, err := tri.Geometry(p)
		if err != nil {
			return 0, err
		}
		var (
			S    = tabs[p.Shape]
			dofs = f.sp.cells[p.Cell]
		)
		for q, pt := range rule.Points {
			var uh float64
			for i, dof := range dofs {
				uh += S[q][i] * f.u[dof]
			}
			d := uh - exact(g.PhysCoords(pt))
			e += d * d * rule.Weights[q] * g.Measure()
		}
	}
	return math.Sqrt(e), nil
}
