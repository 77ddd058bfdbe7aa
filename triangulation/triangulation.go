/*
Package triangulation turns a mesh topology into integration domains. A
Triangulation is a flat list of patches, each pairing a reference shape with
the coordinates of its vertices; ForDomain covers the cells, ForBoundary
covers the facets selected by tags. The Geometry of a patch carries the
affine reference-to-physical map and everything derived from it: jacobian,
measure scale, physical gradients and, for boundary patches, the outward
unit normal.
*/
package triangulation

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofea/element"
	"github.com/notargets/gofea/mesh"
)

// Patch is one integration domain. Entity indexes the mesh cell for domain
// patches and the derived facet for boundary ones; Cell is the parent cell
// either way, which is what couples a boundary patch to the right degrees
// of freedom. X holds one coordinate row per patch vertex.
type Patch struct {
	Shape  element.Shape
	Dim    int
	Entity int
	Cell   int
	Verts  []int
	X      *mat.Dense
}

// Triangulation is an ordered set of patches over one topology.
type Triangulation struct {
	topo     *mesh.Topology
	dim      int
	boundary bool
	patches  []Patch
}

// ForDomain triangulates every cell of the mesh, in cell order.
func ForDomain(topo *mesh.Topology) (tri *Triangulation) {
	tri = &Triangulation{
		topo:    topo,
		dim:     topo.Dim(),
		patches: make([]Patch, topo.NumCells()),
	}
	for c := 0; c < topo.NumCells(); c++ {
		verts := topo.CellVertices(c)
		tri.patches[c] = Patch{
			Shape:  topo.CellShape(c),
			Dim:    topo.Dim(),
			Entity: c,
			Cell:   c,
			Verts:  verts,
			X:      coords(topo, verts),
		}
	}
	return tri
}

// ForBoundary triangulates the facets selected by the given tags, in tag
// order. Tags naming interior facets are accepted; their normal points out
// of the recorded parent cell. When no facet matches, the result is an
// *EmptyBoundaryError rather than a silently empty domain.
func ForBoundary(topo *mesh.Topology, tags ...string) (tri *Triangulation, err error) {
	ids := topo.FacetsWithTag(tags...)
	if len(ids) == 0 {
		return nil, &EmptyBoundaryError{Tags: append([]string(nil), tags...)}
	}
	tri = &Triangulation{
		topo:     topo,
		dim:      topo.Dim() - 1,
		boundary: true,
		patches:  make([]Patch, len(ids)),
	}
	for i, fi := range ids {
		f := topo.Facets()[fi]
		tri.patches[i] = Patch{
			Shape:  element.FacetShape(topo.CellShape(f.Cell)),
			Dim:    topo.Dim() - 1,
			Entity: fi,
			Cell:   f.Cell,
			Verts:  f.Verts,
			X:      coords(topo, f.Verts),
		}
	}
	return tri, nil
}

func coords(topo *mesh.Topology, verts []int) (X *mat.Dense) {
	X = mat.NewDense(len(verts), topo.NDim(), nil)
	for i, v := range verts {
		X.SetRow(i, topo.VertexCoords(v))
	}
	return X
}

// Topology returns the mesh this triangulation was built from.
func (tri *Triangulation) Topology() *mesh.Topology { return tri.topo }

// Dim is the dimension of the patches, one below the mesh dimension for
// boundary triangulations.
func (tri *Triangulation) Dim() int { return tri.dim }

// IsBoundary reports whether the patches are facets rather than cells.
func (tri *Triangulation) IsBoundary() bool { return tri.boundary }

// NumPatches is the patch count.
func (tri *Triangulation) NumPatches() int { return len(tri.patches) }

// Patches returns the patch list, aliasing internal storage.
func (tri *Triangulation) Patches() []Patch { return tri.patches }
