/*
Package poisson is the model problem layer: it binds a mesh, coefficients
and boundary data into the scalar elliptic problem

	-div(kappa grad u) = f   in the domain
	                 u = g   on the Dirichlet boundary
	kappa grad u . n   = h   on the Neumann boundary

and drives space construction, form assembly and the linear solve. The
command line and the end to end tests both run through Problem.
*/
package poisson

import (
	"fmt"
	"time"

	"github.com/notargets/gofea/assembly"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/solver"
	"github.com/notargets/gofea/triangulation"
)

type Problem struct {
	// Input parameters
	Topo           *mesh.Topology
	Conductivity   assembly.Coefficient // nil means one
	Source         assembly.Coefficient // nil means the unit source
	DirichletTags  []string
	DirichletValue fespace.BoundaryFunc // nil means homogeneous
	NeumannTags    []string             // empty means no flux term
	NeumannFlux    assembly.Coefficient // nil means one
	Order          int                  // zero picks linear elements
	QuadDegree     int                  // zero picks the degree for the order
	Workers        int                  // zero lets the assembler decide
	Alg            solver.Algebraic     // nil picks SparseLU

	space *fespace.Space
	op    *solver.Operator
}

// Setup numbers the space, builds the weak form terms and couples them
// into the operator. Calling it again rebuilds from the current inputs.
func (p *Problem) Setup() (err error) {
	if p.Topo == nil {
		return fmt.Errorf("problem has no mesh")
	}
	order := p.Order
	if order == 0 {
		order = 1
	}
	if p.space, err = fespace.New(p.Topo, order, p.DirichletTags...); err != nil {
		return err
	}
	var (
		domain = triangulation.ForDomain(p.Topo)
		v      = assembly.NewTestFunction(p.space)
		u      = assembly.NewTrialFunction(p.space)
	)
	b, err := assembly.NewBilinearForm(v, u)
	if err != nil {
		return err
	}
	if err = b.Diffusion(domain, p.Conductivity, p.QuadDegree); err != nil {
		return err
	}
	l := assembly.NewLinearForm(v)
	if err = l.Source(domain, p.Source, p.QuadDegree); err != nil {
		return err
	}
	if len(p.NeumannTags) != 0 {
		var btri *triangulation.Triangulation
		if btri, err = triangulation.ForBoundary(p.Topo, p.NeumannTags...); err != nil {
			return err
		}
		if err = l.Flux(btri, p.NeumannFlux, p.QuadDegree); err != nil {
			return err
		}
	}
	p.op, err = solver.NewOperator(b, l, p.DirichletValue,
		assembly.Assembler{Workers: p.Workers})
	return err
}

// Run assembles and solves, printing a summary line, and returns the
// solution. Setup is called first if it has not been.
func (p *Problem) Run() (u *fespace.Function, err error) {
	if p.op == nil {
		if err = p.Setup(); err != nil {
			return nil, err
		}
	}
	alg := p.Alg
	if alg == nil {
		alg = solver.SparseLU{}
	}
	start := time.Now()
	if u, err = p.op.Solve(alg); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	fmt.Printf("Solved: %d cells, %d dofs (%d free, %d constrained), solver = %s, elapsed = %v\n",
		p.Topo.NumCells(), p.space.NumDofs(), p.space.NumFree(),
		p.space.NumConstrained(), alg.Name(), elapsed)
	return u, nil
}

// Space is the function space built by Setup, nil before it runs.
func (p *Problem) Space() *fespace.Space { return p.space }

// Operator is the coupled operator built by Setup, nil before it runs.
func (p *Problem) Operator() *solver.Operator { return p.op }
