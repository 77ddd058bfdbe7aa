package assembly

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/triangulation"
	"github.com/notargets/gofea/utils"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func poissonForm(t *testing.T, m *mesh.Topology, sp *fespace.Space) *BilinearForm {
	b, err := NewBilinearForm(NewTestFunction(sp), NewTrialFunction(sp))
	require.NoError(t, err)
	require.NoError(t, b.Diffusion(triangulation.ForDomain(m), nil, 0))
	return b
}

func TestStiffnessSymmetryAndNullspace(t *testing.T) {
	m, err := mesh.UnitSquare(4)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1)
	require.NoError(t, err)
	K, err := Matrix(poissonForm(t, m, sp))
	require.NoError(t, err)
	{ // Symmetric entry by entry
		K.DoNonZero(func(i, j int, v float64) {
			assert.Equal(t, v, K.At(j, i))
		})
	}
	{ // Gradients of constants vanish: K times ones is zero
		ones := make([]float64, sp.NumDofs())
		for i := range ones {
			ones[i] = 1
		}
		for _, r := range K.MulVec(ones) {
			assert.True(t, near(r, 0, 1.e-12))
		}
	}
	{ // Gram structure: the quadratic form is nonnegative for any field
		for _, f := range []func(x []float64) float64{
			func(x []float64) float64 { return x[0] * x[1] },
			func(x []float64) float64 { return math.Sin(3*x[0]) - math.Cos(2*x[1]) },
			func(x []float64) float64 { return x[0]*x[0] - x[1]*x[1] },
		} {
			u := make([]float64, sp.NumDofs())
			for dof := range u {
				u[dof] = f(m.VertexCoords(sp.Vertex(dof)))
			}
			assert.GreaterOrEqual(t, floats.Dot(u, K.MulVec(u)), -1.e-12)
		}
	}
}

func TestMassAndSourceTotals(t *testing.T) {
	m, err := mesh.UnitSquare(3)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1)
	require.NoError(t, err)
	var (
		dom = triangulation.ForDomain(m)
		v   = NewTestFunction(sp)
		u   = NewTrialFunction(sp)
	)
	{ // Sum of all mass matrix entries is the domain area
		b, err := NewBilinearForm(v, u)
		require.NoError(t, err)
		require.NoError(t, b.Mass(dom, nil, 0))
		M, err := Matrix(b)
		require.NoError(t, err)
		var total float64
		M.DoNonZero(func(_, _ int, val float64) { total += val })
		assert.True(t, near(total, 1, 1.e-12))
	}
	{ // A unit source integrates to the domain area
		l := NewLinearForm(v)
		require.NoError(t, l.Source(dom, Constant(1), 0))
		F, err := Vector(l)
		require.NoError(t, err)
		var total float64
		for _, f := range F {
			total += f
		}
		assert.True(t, near(total, 1, 1.e-12))
	}
	{ // A unit flux on one side integrates to the side length
		left, err := triangulation.ForBoundary(m, "left")
		require.NoError(t, err)
		l := NewLinearForm(v)
		require.NoError(t, l.Flux(left, Constant(1), 0))
		F, err := Vector(l)
		require.NoError(t, err)
		var total float64
		for dof, f := range F {
			total += f
			if f != 0 { // Only dofs on x=0 receive flux
				x := m.VertexCoords(sp.Vertex(dof))
				assert.True(t, near(x[0], 0, 1.e-15))
			}
		}
		assert.True(t, near(total, 1, 1.e-12))
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	m, err := mesh.UnitCube(3)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1)
	require.NoError(t, err)
	var (
		b        = poissonForm(t, m, sp)
		K1, err1 = Assembler{Workers: 1}.Matrix(b)
		K4, err4 = Assembler{Workers: 4}.Matrix(b)
	)
	require.NoError(t, err1)
	require.NoError(t, err4)
	{ // Bitwise identical: merge replays the serial accumulation order
		r, c := K1.Dims()
		r4, c4 := K4.Dims()
		require.Equal(t, r, r4)
		require.Equal(t, c, c4)
		K1.DoNonZero(func(i, j int, v float64) {
			assert.Equal(t, v, K4.At(i, j))
		})
		assert.Equal(t, K1.NNZ(), K4.NNZ())
	}
	{ // Right-hand sides agree the same way
		l := NewLinearForm(NewTestFunction(sp))
		require.NoError(t, l.Source(triangulation.ForDomain(m),
			func(x []float64) float64 { return x[0] + 2*x[1]*x[2] }, 3))
		F1, err1 := Assembler{Workers: 1}.Vector(l)
		F4, err4 := Assembler{Workers: 4}.Vector(l)
		require.NoError(t, err1)
		require.NoError(t, err4)
		assert.Equal(t, F1, F4)
	}
}

func TestTermDomainChecks(t *testing.T) {
	m, err := mesh.UnitSquare(2)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1)
	require.NoError(t, err)
	var (
		dom       = triangulation.ForDomain(m)
		bnd, errB = triangulation.ForBoundary(m, "boundary")
		v         = NewTestFunction(sp)
		u         = NewTrialFunction(sp)
	)
	require.NoError(t, errB)
	var ide *IntegrationDomainError
	{ // Domain terms reject boundary triangulations and vice versa
		b, err := NewBilinearForm(v, u)
		require.NoError(t, err)
		assert.True(t, errors.As(b.Diffusion(bnd, nil, 0), &ide))
		assert.True(t, errors.As(b.Mass(bnd, nil, 0), &ide))
		l := NewLinearForm(v)
		assert.True(t, errors.As(l.Flux(dom, nil, 0), &ide))
		assert.True(t, errors.As(l.Source(bnd, nil, 0), &ide))
	}
	{ // Terms over a different mesh are rejected
		m2, err := mesh.UnitSquare(3)
		require.NoError(t, err)
		b, err := NewBilinearForm(v, u)
		require.NoError(t, err)
		assert.True(t, errors.As(b.Diffusion(triangulation.ForDomain(m2), nil, 0), &ide))
	}
	{ // As are forms over two different meshes
		m2, err := mesh.UnitSquare(3)
		require.NoError(t, err)
		sp2, err := fespace.New(m2, 1)
		require.NoError(t, err)
		_, err = NewBilinearForm(v, NewTrialFunction(sp2))
		assert.True(t, errors.As(err, &ide))
	}
}

func TestSystemElimination(t *testing.T) {
	// Uniform interval, 2 cells of h = 1/2: the assembled stiffness is
	//   [ 2 -2  0]
	//   [-2  4 -2]
	//   [ 0 -2  2]
	m, err := mesh.UnitInterval(2)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1, "boundary")
	require.NoError(t, err)
	K, err := Matrix(poissonForm(t, m, sp))
	require.NoError(t, err)
	assert.True(t, near(K.At(1, 1), 4, 1.e-13))
	assert.True(t, near(K.At(0, 1), -2, 1.e-13))

	F := make([]float64, sp.NumDofs())
	s, err := NewSystem(K, F, sp, func(x []float64) float64 { return x[0] })
	require.NoError(t, err)
	{ // One free dof remains, with the lifted boundary data
		require.Equal(t, 1, s.NumFree())
		r, c := s.Kff.Dims()
		assert.Equal(t, 1, r)
		assert.Equal(t, 1, c)
		assert.True(t, near(s.Kff.At(0, 0), 4, 1.e-13))
		assert.True(t, near(s.Ff[0], 2, 1.e-13))
	}
	{ // Scattering reinserts the prescribed endpoint values
		u, err := s.Solution([]float64{0.5})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.5, 1}, u)
	}
	{ // Reduced solution of the wrong size is rejected
		_, err := s.Solution([]float64{1, 2})
		var dme *fespace.DimensionMismatchError
		assert.True(t, errors.As(err, &dme))
	}
}

func TestSystemShapeChecks(t *testing.T) {
	m, err := mesh.UnitInterval(2)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1)
	require.NoError(t, err)
	var dme *fespace.DimensionMismatchError
	{ // Matrix over the wrong dof count
		bad := utils.NewDOK(2, 2).ToCSR()
		_, err := NewSystem(bad, make([]float64, 3), sp, nil)
		assert.True(t, errors.As(err, &dme))
	}
	{ // Vector of the wrong length
		K, err := Matrix(poissonForm(t, m, sp))
		require.NoError(t, err)
		_, err = NewSystem(K, make([]float64, 2), sp, nil)
		assert.True(t, errors.As(err, &dme))
	}
}

func TestAllDirichletSystem(t *testing.T) {
	// One cell, both endpoints constrained: nothing left to solve.
	m, err := mesh.UnitInterval(1)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1, "left", "right")
	require.NoError(t, err)
	K, err := Matrix(poissonForm(t, m, sp))
	require.NoError(t, err)
	s, err := NewSystem(K, make([]float64, 2), sp, func(x []float64) float64 {
		return 3 - x[0]
	})
	require.NoError(t, err)
	assert.Equal(t, 0, s.NumFree())
	assert.Empty(t, s.Ff)
	u, err := s.Solution(nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2}, u)
}

func TestTermAccumulationOrder(t *testing.T) {
	// Diffusion plus mass equals mass plus diffusion, and equals the sum of
	// the separately assembled matrices.
	m, err := mesh.UnitSquare(2)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1)
	require.NoError(t, err)
	var (
		dom = triangulation.ForDomain(m)
		v   = NewTestFunction(sp)
		u   = NewTrialFunction(sp)
	)
	build := func(first, second termKind) utils.CSR {
		b, err := NewBilinearForm(v, u)
		require.NoError(t, err)
		for _, k := range []termKind{first, second} {
			switch k {
			case diffusionTerm:
				require.NoError(t, b.Diffusion(dom, Constant(2), 0))
			case massTerm:
				require.NoError(t, b.Mass(dom, nil, 0))
			}
		}
		K, err := Matrix(b)
		require.NoError(t, err)
		return K
	}
	var (
		KA = build(diffusionTerm, massTerm)
		KB = build(massTerm, diffusionTerm)
	)
	n := sp.NumDofs()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.True(t, near(KA.At(i, j), KB.At(i, j), 1.e-14))
		}
	}
}

func TestCellOrderInvariance(t *testing.T) {
	// The same four triangles listed in opposite orders renumber the dofs,
	// but the assembled operator is the same physical object: forms keyed
	// by vertex position must agree.
	var (
		verts = [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}}
		cells = [][]int{{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}
	)
	reversed := make([][]int, len(cells))
	for i := range cells {
		reversed[i] = cells[len(cells)-1-i]
	}
	assemble := func(cs [][]int) (*fespace.Space, utils.CSR, []float64) {
		m, err := mesh.New(mesh.Data{
			Vertices: verts,
			Entities: map[int][][]int{2: cs},
		})
		require.NoError(t, err)
		sp, err := fespace.New(m, 1)
		require.NoError(t, err)
		dom := triangulation.ForDomain(m)
		b, err := NewBilinearForm(NewTestFunction(sp), NewTrialFunction(sp))
		require.NoError(t, err)
		require.NoError(t, b.Diffusion(dom, nil, 0))
		require.NoError(t, b.Mass(dom, nil, 0))
		K, err := Matrix(b)
		require.NoError(t, err)
		l := NewLinearForm(NewTestFunction(sp))
		require.NoError(t, l.Source(dom, func(x []float64) float64 {
			return 1 + x[0] + 2*x[1]
		}, 2))
		F, err := Vector(l)
		require.NoError(t, err)
		return sp, K, F
	}
	field := func(sp *fespace.Space) (u []float64) {
		u = make([]float64, sp.NumDofs())
		for dof := range u {
			x := sp.Topology().VertexCoords(sp.Vertex(dof))
			u[dof] = math.Sin(3*x[0]) + x[1]*x[1]
		}
		return u
	}
	spA, KA, FA := assemble(cells)
	spB, KB, FB := assemble(reversed)
	var (
		uA = field(spA)
		uB = field(spB)
	)
	assert.True(t, near(floats.Dot(uA, KA.MulVec(uA)), floats.Dot(uB, KB.MulVec(uB)), 1.e-13))
	assert.True(t, near(floats.Dot(FA, uA), floats.Dot(FB, uB), 1.e-13))
}
