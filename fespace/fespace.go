/*
Package fespace builds scalar Lagrange finite element spaces over a mesh
topology. A Space numbers the degrees of freedom, one per vertex referenced
by a cell, and splits them into free and Dirichlet-constrained sets driven
by mesh tags. Test and trial views of the same space carry distinct types
so a form cannot silently swap its row and column spaces.
*/
package fespace

import (
	"github.com/notargets/gofea/element"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/triangulation"
)

// BoundaryFunc prescribes a boundary value at a physical point.
type BoundaryFunc func(x []float64) float64

// Space is a scalar Lagrange space of one polynomial order over all cells
// of a topology.
type Space struct {
	topo      *mesh.Topology
	order     int
	bases     map[element.Shape]*element.Basis
	dofOf     []int
	vertOf    []int
	cells     [][]int
	dirichlet []bool
	freeOf    []int
	dofOfFree []int
}

// New numbers the degrees of freedom of an order-1 space in first-encounter
// order over the cells and marks every vertex carrying one of the Dirichlet
// tags as constrained. Passing Dirichlet tags that select no vertex at all
// is rejected with a *triangulation.EmptyBoundaryError, so a misspelled tag
// cannot quietly turn a constrained problem into an unconstrained one.
func New(topo *mesh.Topology, order int, dirichletTags ...string) (sp *Space, err error) {
	sp = &Space{
		topo:  topo,
		order: order,
		bases: make(map[element.Shape]*element.Basis),
		dofOf: make([]int, topo.NumVertices()),
		cells: make([][]int, topo.NumCells()),
	}
	for v := range sp.dofOf {
		sp.dofOf[v] = -1
	}
	for c := 0; c < topo.NumCells(); c++ {
		shape := topo.CellShape(c)
		if _, ok := sp.bases[shape]; !ok {
			var b *element.Basis
			if b, err = element.NewBasis(shape, order); err != nil {
				return nil, err
			}
			sp.bases[shape] = b
		}
		verts := topo.CellVertices(c)
		dofs := make([]int, len(verts))
		for i, v := range verts {
			if sp.dofOf[v] < 0 {
				sp.dofOf[v] = len(sp.vertOf)
				sp.vertOf = append(sp.vertOf, v)
			}
			dofs[i] = sp.dofOf[v]
		}
		sp.cells[c] = dofs
	}
	sp.dirichlet = make([]bool, len(sp.vertOf))
	if len(dirichletTags) > 0 {
		verts := topo.VerticesWithTag(dirichletTags...)
		if len(verts) == 0 {
			return nil, &triangulation.EmptyBoundaryError{
				Tags: append([]string(nil), dirichletTags...),
			}
		}
		for _, v := range verts {
			if dof := sp.dofOf[v]; dof >= 0 {
				sp.dirichlet[dof] = true
			}
		}
	}
	sp.freeOf = make([]int, len(sp.vertOf))
	for dof := range sp.freeOf {
		if sp.dirichlet[dof] {
			sp.freeOf[dof] = -1
			continue
		}
		sp.freeOf[dof] = len(sp.dofOfFree)
		sp.dofOfFree = append(sp.dofOfFree, dof)
	}
	return sp, nil
}

// Topology returns the underlying mesh.
func (sp *Space) Topology() *mesh.Topology { return sp.topo }

// Order is the polynomial order of the space.
func (sp *Space) Order() int { return sp.order }

// NumDofs counts all degrees of freedom.
func (sp *Space) NumDofs() int { return len(sp.vertOf) }

// NumFree counts the unconstrained degrees of freedom.
func (sp *Space) NumFree() int { return len(sp.dofOfFree) }

// NumConstrained counts the Dirichlet degrees of freedom.
func (sp *Space) NumConstrained() int { return len(sp.vertOf) - len(sp.dofOfFree) }

// Dof maps a vertex to its degree of freedom, -1 when no cell touches it.
func (sp *Space) Dof(vertex int) int { return sp.dofOf[vertex] }

// Vertex maps a degree of freedom back to its vertex.
func (sp *Space) Vertex(dof int) int { return sp.vertOf[dof] }

// CellDofs returns the degrees of freedom of one cell in local vertex
// order, aliasing internal storage.
func (sp *Space) CellDofs(cell int) []int { return sp.cells[cell] }

// Basis returns the reference basis used on cells of the given shape.
func (sp *Space) Basis(shape element.Shape) *element.Basis { return sp.bases[shape] }

// IsDirichlet reports whether a degree of freedom is constrained.
func (sp *Space) IsDirichlet(dof int) bool { return sp.dirichlet[dof] }

// FreeIndex maps a degree of freedom to its index in the reduced system,
// -1 for constrained ones.
func (sp *Space) FreeIndex(dof int) int { return sp.freeOf[dof] }

// DofOfFree maps a reduced index back to its degree of freedom.
func (sp *Space) DofOfFree(free int) int { return sp.dofOfFree[free] }

// Constrained lists the Dirichlet degrees of freedom in ascending order.
func (sp *Space) Constrained() (dofs []int) {
	for dof, on := range sp.dirichlet {
		if on {
			dofs = append(dofs, dof)
		}
	}
	return dofs
}

// DirichletValues samples g at the location of every constrained degree of
// freedom. A nil g prescribes homogeneous values.
func (sp *Space) DirichletValues(g BoundaryFunc) (vals map[int]float64) {
	if g == nil {
		g = func([]float64) float64 { return 0 }
	}
	vals = make(map[int]float64)
	for dof, on := range sp.dirichlet {
		if on {
			vals[dof] = g(sp.topo.VertexCoords(sp.vertOf[dof]))
		}
	}
	return vals
}

// Test returns the test-function view of the space.
func (sp *Space) Test() TestSpace { return TestSpace{sp} }

// Trial returns the trial-function view of the space.
func (sp *Space) Trial() TrialSpace { return TrialSpace{sp} }

// TestSpace is the row view of a space. The distinct type keeps test and
// trial roles from being interchanged when a form is built.
type TestSpace struct {
	S *Space
}

// TrialSpace is the column view of a space.
type TrialSpace struct {
	S *Space
}
