package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofea/assembly"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/triangulation"
	"github.com/notargets/gofea/utils"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func backends() []Algebraic { return []Algebraic{SparseLU{}, DenseLU{}} }

func TestBackendsOnKnownSystem(t *testing.T) {
	// [4 1; 1 3] x = [1; 2] has x = [1/11; 7/11]
	d := utils.NewDOK(2, 2)
	d.Set(0, 0, 4)
	d.Set(0, 1, 1)
	d.Set(1, 0, 1)
	d.Set(1, 1, 3)
	K := d.ToCSR()
	for _, alg := range backends() {
		x, err := alg.Solve(K, []float64{1, 2})
		require.NoError(t, err, alg.Name())
		require.Len(t, x, 2)
		assert.True(t, near(x[0], 1./11, 1.e-12), alg.Name())
		assert.True(t, near(x[1], 7./11, 1.e-12), alg.Name())
	}
}

func TestBackendsDetectSingular(t *testing.T) {
	d := utils.NewDOK(2, 2)
	d.Set(0, 0, 1)
	d.Set(0, 1, 1)
	d.Set(1, 0, 1)
	d.Set(1, 1, 1)
	K := d.ToCSR()
	for _, alg := range backends() {
		_, err := alg.Solve(K, []float64{1, 1})
		require.Error(t, err, alg.Name())
		var sse *SingularSystemError
		assert.True(t, errors.As(err, &sse), alg.Name())
	}
}

func TestBackendsCheckShapes(t *testing.T) {
	var dme *fespace.DimensionMismatchError
	for _, alg := range backends() {
		_, err := alg.Solve(utils.NewDOK(2, 3).ToCSR(), []float64{1, 2})
		assert.True(t, errors.As(err, &dme), alg.Name())
		_, err = alg.Solve(utils.NewDOK(2, 2).ToCSR(), []float64{1})
		assert.True(t, errors.As(err, &dme), alg.Name())
	}
}

func poisson1D(t *testing.T, n int) (*Operator, *fespace.Space) {
	m, err := mesh.UnitInterval(n)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1, "boundary")
	require.NoError(t, err)
	b, err := assembly.NewBilinearForm(
		assembly.NewTestFunction(sp), assembly.NewTrialFunction(sp))
	require.NoError(t, err)
	require.NoError(t, b.Diffusion(triangulation.ForDomain(m), nil, 0))
	l := assembly.NewLinearForm(assembly.NewTestFunction(sp))
	require.NoError(t, l.Source(triangulation.ForDomain(m), assembly.Constant(1), 0))
	op, err := NewOperator(b, l, nil, assembly.Assembler{})
	require.NoError(t, err)
	return op, sp
}

func TestOperatorPoisson1D(t *testing.T) {
	// -u'' = 1 on (0,1), u(0) = u(1) = 0: u = x(1-x)/2, and on a uniform
	// mesh the nodal values are exact.
	for _, alg := range backends() {
		op, sp := poisson1D(t, 8)
		u, err := op.Solve(alg)
		require.NoError(t, err, alg.Name())
		for dof, v := range u.Coeffs() {
			x := sp.Topology().VertexCoords(sp.Vertex(dof))[0]
			assert.True(t, near(v, x*(1-x)/2, 1.e-12), alg.Name())
		}
		{ // The residual vanishes on the free rows
			r, err := op.Residual(u.Coeffs())
			require.NoError(t, err)
			for free := 0; free < sp.NumFree(); free++ {
				assert.True(t, near(r[sp.DofOfFree(free)], 0, 1.e-12))
			}
		}
	}
}

func TestOperatorCachesSystem(t *testing.T) {
	op, _ := poisson1D(t, 4)
	s1, err := op.System()
	require.NoError(t, err)
	s2, err := op.System()
	require.NoError(t, err)
	assert.Same(t, s1, s2)
}

type spyBackend struct {
	called bool
}

func (s *spyBackend) Name() string { return "spy" }

func (s *spyBackend) Solve(K utils.CSR, F []float64) ([]float64, error) {
	s.called = true
	return make([]float64, len(F)), nil
}

func TestAllDirichletSkipsBackend(t *testing.T) {
	m, err := mesh.UnitInterval(1)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1, "boundary")
	require.NoError(t, err)
	b, err := assembly.NewBilinearForm(
		assembly.NewTestFunction(sp), assembly.NewTrialFunction(sp))
	require.NoError(t, err)
	require.NoError(t, b.Diffusion(triangulation.ForDomain(m), nil, 0))
	op, err := NewOperator(b, assembly.NewLinearForm(assembly.NewTestFunction(sp)),
		func(x []float64) float64 { return 5 + x[0] }, assembly.Assembler{})
	require.NoError(t, err)
	spy := &spyBackend{}
	u, err := op.Solve(spy)
	require.NoError(t, err)
	assert.False(t, spy.called)
	assert.Equal(t, []float64{5, 6}, u.Coeffs())
}

func TestPureNeumannIsSingular(t *testing.T) {
	// In 1D the stiffness entries are integers and the elimination is
	// exact, so the zero pivot of the Neumann nullspace is hit exactly.
	m, err := mesh.UnitInterval(3)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1)
	require.NoError(t, err)
	b, err := assembly.NewBilinearForm(
		assembly.NewTestFunction(sp), assembly.NewTrialFunction(sp))
	require.NoError(t, err)
	require.NoError(t, b.Diffusion(triangulation.ForDomain(m), nil, 0))
	l := assembly.NewLinearForm(assembly.NewTestFunction(sp))
	require.NoError(t, l.Source(triangulation.ForDomain(m), assembly.Constant(1), 0))
	op, err := NewOperator(b, l, nil, assembly.Assembler{})
	require.NoError(t, err)
	for _, alg := range backends() {
		_, err := op.Solve(alg)
		require.Error(t, err, alg.Name())
		var sse *SingularSystemError
		assert.True(t, errors.As(err, &sse), alg.Name())
	}
}

func TestOperatorRejectsMixedSpaces(t *testing.T) {
	m, err := mesh.UnitInterval(2)
	require.NoError(t, err)
	sp1, err := fespace.New(m, 1)
	require.NoError(t, err)
	sp2, err := fespace.New(m, 1)
	require.NoError(t, err)
	b, err := assembly.NewBilinearForm(
		assembly.NewTestFunction(sp1), assembly.NewTrialFunction(sp2))
	require.NoError(t, err)
	_, err = NewOperator(b, assembly.NewLinearForm(assembly.NewTestFunction(sp1)),
		nil, assembly.Assembler{})
	assert.Error(t, err)
}

func TestSparseMatchesDense2D(t *testing.T) {
	m, err := mesh.UnitSquare(4)
	require.NoError(t, err)
	sp, err := fespace.New(m, 1, "boundary")
	require.NoError(t, err)
	b, err := assembly.NewBilinearForm(
		assembly.NewTestFunction(sp), assembly.NewTrialFunction(sp))
	require.NoError(t, err)
	require.NoError(t, b.Diffusion(triangulation.ForDomain(m), nil, 0))
	l := assembly.NewLinearForm(assembly.NewTestFunction(sp))
	require.NoError(t, l.Source(triangulation.ForDomain(m), assembly.Constant(1), 0))
	op, err := NewOperator(b, l, nil, assembly.Assembler{})
	require.NoError(t, err)
	us, err := op.Solve(SparseLU{})
	require.NoError(t, err)
	ud, err := op.Solve(DenseLU{})
	require.NoError(t, err)
	for i, v := range us.Coeffs() {
		assert.True(t, near(v, ud.Coeffs()[i], 1.e-10))
	}
}
