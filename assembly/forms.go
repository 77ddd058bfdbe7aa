/*
Package assembly evaluates weak-form terms over triangulations and
accumulates them into sparse linear systems. A BilinearForm collects matrix
terms between a test and a trial space, a LinearForm collects right-hand
side terms against a test space; the Assembler walks the patches of each
term's triangulation, integrates the local contributions with the quadrature
rules of the element package and merges them into DOK storage, frozen to CSR
at the end. System then eliminates the Dirichlet-constrained degrees of
freedom, leaving the reduced free-by-free problem for a solver.
*/
package assembly

import (
	"github.com/notargets/gofea/element"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/triangulation"
)

// Coefficient is a scalar field entering a term, evaluated at physical
// quadrature points. A nil Coefficient means one.
type Coefficient func(x []float64) float64

// Constant wraps a fixed value as a Coefficient.
func Constant(c float64) Coefficient {
	return func([]float64) float64 { return c }
}

// TestFunction binds a space to the row role of a form. Test and trial
// carry distinct types, so exchanging them in a form is a compile error
// rather than a transposed matrix.
type TestFunction struct {
	Space fespace.TestSpace
}

// TrialFunction binds a space to the column role of a form.
type TrialFunction struct {
	Space fespace.TrialSpace
}

// NewTestFunction takes the test view of a space.
func NewTestFunction(sp *fespace.Space) TestFunction {
	return TestFunction{sp.Test()}
}

// NewTrialFunction takes the trial view of a space.
func NewTrialFunction(sp *fespace.Space) TrialFunction {
	return TrialFunction{sp.Trial()}
}

type termKind int

const (
	diffusionTerm termKind = iota
	massTerm
	sourceTerm
	fluxTerm
)

func (k termKind) String() string {
	switch k {
	case diffusionTerm:
		return "diffusion"
	case massTerm:
		return "mass"
	case sourceTerm:
		return "source"
	case fluxTerm:
		return "flux"
	}
	return "unknown"
}

type term struct {
	kind   termKind
	tri    *triangulation.Triangulation
	coef   Coefficient
	degree int
}

// BilinearForm is a sum of matrix terms: rows follow the test space,
// columns the trial space.
type BilinearForm struct {
	Test  TestFunction
	Trial TrialFunction

	terms []term
}

// NewBilinearForm pairs a test and a trial function over the same mesh.
func NewBilinearForm(v TestFunction, u TrialFunction) (b *BilinearForm, err error) {
	if v.Space.S.Topology() != u.Space.S.Topology() {
		return nil, &IntegrationDomainError{
			Term:   "bilinear form",
			Reason: "test and trial spaces live on different meshes",
		}
	}
	return &BilinearForm{Test: v, Trial: u}, nil
}

// Diffusion adds the stiffness term over the cells of tri: the integral of
// kappa times grad(v) dot grad(u). A degree below 1 picks the default
// integration degree for the basis orders involved.
func (b *BilinearForm) Diffusion(tri *triangulation.Triangulation, kappa Coefficient, degree int) error {
	if err := b.check(tri, "diffusion"); err != nil {
		return err
	}
	b.terms = append(b.terms, term{diffusionTerm, tri, kappa, b.resolve(degree)})
	return nil
}

// Mass adds the reaction term over the cells of tri: the integral of c
// times v times u.
func (b *BilinearForm) Mass(tri *triangulation.Triangulation, c Coefficient, degree int) error {
	if err := b.check(tri, "mass"); err != nil {
		return err
	}
	b.terms = append(b.terms, term{massTerm, tri, c, b.resolve(degree)})
	return nil
}

func (b *BilinearForm) check(tri *triangulation.Triangulation, name string) error {
	if tri.Topology() != b.Test.Space.S.Topology() {
		return &IntegrationDomainError{
			Term:   name,
			Reason: "triangulation built from a different mesh",
		}
	}
	if tri.IsBoundary() {
		return &IntegrationDomainError{
			Term:   name,
			Reason: "needs a domain triangulation, got boundary facets",
		}
	}
	return nil
}

func (b *BilinearForm) resolve(degree int) int {
	if degree > 0 {
		return degree
	}
	return element.MinDegree(b.Test.Space.S.Order(), b.Trial.Space.S.Order())
}

// LinearForm is a sum of right-hand side terms against a test space.
type LinearForm struct {
	Test TestFunction

	terms []term
}

// NewLinearForm starts an empty right-hand side for the test space.
func NewLinearForm(v TestFunction) *LinearForm {
	return &LinearForm{Test: v}
}

// Source adds the load term over the cells of tri: the integral of f times
// v.
func (l *LinearForm) Source(tri *triangulation.Triangulation, f Coefficient, degree int) error {
	if tri.Topology() != l.Test.Space.S.Topology() {
		return &IntegrationDomainError{
			Term:   "source",
			Reason: "triangulation built from a different mesh",
		}
	}
	if tri.IsBoundary() {
		return &IntegrationDomainError{
			Term:   "source",
			Reason: "needs a domain triangulation, got boundary facets",
		}
	}
	l.terms = append(l.terms, term{sourceTerm, tri, f, l.resolve(degree)})
	return nil
}

// Flux adds the natural boundary term over the facets of tri: the integral
// of h times v, where h is the prescribed conormal flux kappa grad(u) dot n.
func (l *LinearForm) Flux(tri *triangulation.Triangulation, h Coefficient, degree int) error {
	if tri.Topology() != l.Test.Space.S.Topology() {
		return &IntegrationDomainError{
			Term:   "flux",
			Reason: "triangulation built from a different mesh",
		}
	}
	if !tri.IsBoundary() {
		return &IntegrationDomainError{
			Term:   "flux",
			Reason: "needs a boundary triangulation, got cells",
		}
	}
	l.terms = append(l.terms, term{fluxTerm, tri, h, l.resolve(degree)})
	return nil
}

func (l *LinearForm) resolve(degree int) int {
	if degree > 0 {
		return degree
	}
	return element.MinDegree(l.Test.Space.S.Order(), 0)
}
