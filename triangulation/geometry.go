package triangulation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofea/mesh"
)

// Below this measure scale a patch is treated as collapsed.
const degenTol = 1.e-14

// Geometry is the affine map of one patch. For cell patches the jacobian is
// square and physical gradients are available; for boundary patches the map
// is rectangular and carries the surface measure and the outward unit
// normal instead.
type Geometry struct {
	dim, ndim int
	x0        []float64
	jac       *mat.Dense
	jinv      *mat.Dense
	det       float64
	meas      float64
	normal    []float64
}

// Geometry builds the affine map of p. Collapsed patches - zero volume
// cells, zero length or zero area facets - are rejected with a
// *mesh.FormatError naming the offending entity.
func (tri *Triangulation) Geometry(p Patch) (g *Geometry, err error) {
	ndim := tri.topo.NDim()
	g = &Geometry{
		dim:  p.Dim,
		ndim: ndim,
		x0:   append([]float64(nil), p.X.RawRowView(0)...),
	}
	if p.Dim > 0 {
		g.jac = mat.NewDense(ndim, p.Dim, nil)
		for k := 0; k < p.Dim; k++ {
			for d := 0; d < ndim; d++ {
				g.jac.Set(d, k, p.X.At(k+1, d)-g.x0[d])
			}
		}
	}
	if p.Dim == ndim {
		err = g.invert()
	} else {
		err = g.surface(tri.topo, p)
	}
	if err != nil {
		return nil, &mesh.FormatError{
			What: fmt.Sprintf("entity %d of dimension %d", p.Entity, p.Dim),
			Err:  err,
		}
	}
	return g, nil
}

// invert computes the determinant and inverse of the square jacobian with
// the closed forms for dimensions 1 to 3.
func (g *Geometry) invert() (err error) {
	j := g.jac
	switch g.dim {
	case 1:
		g.det = j.At(0, 0)
	case 2:
		g.det = j.At(0, 0)*j.At(1, 1) - j.At(0, 1)*j.At(1, 0)
	case 3:
		g.det = j.At(0, 0)*(j.At(1, 1)*j.At(2, 2)-j.At(1, 2)*j.At(2, 1)) -
			j.At(0, 1)*(j.At(1, 0)*j.At(2, 2)-j.At(1, 2)*j.At(2, 0)) +
			j.At(0, 2)*(j.At(1, 0)*j.At(2, 1)-j.At(1, 1)*j.At(2, 0))
	}
	g.meas = math.Abs(g.det)
	if g.meas <= degenTol {
		return fmt.Errorf("jacobian is singular, det = %g", g.det)
	}
	g.jinv = mat.NewDense(g.dim, g.dim, nil)
	d := g.det
	switch g.dim {
	case 1:
		g.jinv.Set(0, 0, 1/d)
	case 2:
		g.jinv.Set(0, 0, j.At(1, 1)/d)
		g.jinv.Set(0, 1, -j.At(0, 1)/d)
		g.jinv.Set(1, 0, -j.At(1, 0)/d)
		g.jinv.Set(1, 1, j.At(0, 0)/d)
	case 3:
		g.jinv.Set(0, 0, (j.At(1, 1)*j.At(2, 2)-j.At(1, 2)*j.At(2, 1))/d)
		g.jinv.Set(0, 1, (j.At(0, 2)*j.At(2, 1)-j.At(0, 1)*j.At(2, 2))/d)
		g.jinv.Set(0, 2, (j.At(0, 1)*j.At(1, 2)-j.At(0, 2)*j.At(1, 1))/d)
		g.jinv.Set(1, 0, (j.At(1, 2)*j.At(2, 0)-j.At(1, 0)*j.At(2, 2))/d)
		g.jinv.Set(1, 1, (j.At(0, 0)*j.At(2, 2)-j.At(0, 2)*j.At(2, 0))/d)
		g.jinv.Set(1, 2, (j.At(0, 2)*j.At(1, 0)-j.At(0, 0)*j.At(1, 2))/d)
		g.jinv.Set(2, 0, (j.At(1, 0)*j.At(2, 1)-j.At(1, 1)*j.At(2, 0))/d)
		g.jinv.Set(2, 1, (j.At(0, 1)*j.At(2, 0)-j.At(0, 0)*j.At(2, 1))/d)
		g.jinv.Set(2, 2, (j.At(0, 0)*j.At(1, 1)-j.At(0, 1)*j.At(1, 0))/d)
	}
	return nil
}

// surface computes the measure scale and outward unit normal of a boundary
// patch. The normal is oriented away from the centroid of the parent cell,
// which also covers interior facets picked up by tags.
func (g *Geometry) surface(topo *mesh.Topology, p Patch) (err error) {
	g.normal = make([]float64, g.ndim)
	switch g.ndim {
	case 1:
		g.meas = 1
		g.normal[0] = 1
	case 2:
		var (
			tx = g.jac.At(0, 0)
			ty = g.jac.At(1, 0)
		)
		g.meas = math.Hypot(tx, ty)
		if g.meas <= degenTol {
			return fmt.Errorf("facet has zero length")
		}
		g.normal[0] = ty / g.meas
		g.normal[1] = -tx / g.meas
	case 3:
		var (
			a = g.jac.ColView(0)
			b = g.jac.ColView(1)
		)
		g.normal[0] = a.AtVec(1)*b.AtVec(2) - a.AtVec(2)*b.AtVec(1)
		g.normal[1] = a.AtVec(2)*b.AtVec(0) - a.AtVec(0)*b.AtVec(2)
		g.normal[2] = a.AtVec(0)*b.AtVec(1) - a.AtVec(1)*b.AtVec(0)
		g.meas = math.Sqrt(floats.Dot(g.normal, g.normal))
		if g.meas <= degenTol {
			return fmt.Errorf("facet has zero area")
		}
		floats.Scale(1/g.meas, g.normal)
	}
	// Flip toward the outside of the parent cell: the normal must point
	// from the cell centroid through the facet centroid.
	var (
		cellVerts = topo.CellVertices(p.Cell)
		diff      = make([]float64, g.ndim)
	)
	for d := 0; d < g.ndim; d++ {
		var fc, cc float64
		for i := range p.Verts {
			fc += p.X.At(i, d)
		}
		for _, v := range cellVerts {
			cc += topo.VertexCoords(v)[d]
		}
		diff[d] = fc/float64(len(p.Verts)) - cc/float64(len(cellVerts))
	}
	if floats.Dot(g.normal, diff) < 0 {
		floats.Scale(-1, g.normal)
	}
	return nil
}

// PhysCoords maps a reference point into physical space.
func (g *Geometry) PhysCoords(xi []float64) (x []float64) {
	x = append([]float64(nil), g.x0...)
	for d := 0; d < g.ndim; d++ {
		for k := 0; k < g.dim; k++ {
			x[d] += g.jac.At(d, k) * xi[k]
		}
	}
	return x
}

// PhysGrad pushes reference basis gradients forward to physical space, one
// row per basis function. Only cell patches carry an invertible map; calling
// this on a boundary patch is a programming error.
func (g *Geometry) PhysGrad(ref [][]float64) (phys [][]float64) {
	if g.jinv == nil {
		panic("PhysGrad needs a cell patch, not a boundary facet")
	}
	phys = make([][]float64, len(ref))
	for i, gr := range ref {
		row := make([]float64, g.ndim)
		for d := 0; d < g.ndim; d++ {
			for k := 0; k < g.dim; k++ {
				row[d] += g.jinv.At(k, d) * gr[k]
			}
		}
		phys[i] = row
	}
	return phys
}

// Measure is the factor converting a reference quadrature weight into a
// physical one: |det J| for cells, the length or area scale for facets, and
// one for point facets.
func (g *Geometry) Measure() float64 { return g.meas }

// Det is the signed jacobian determinant of a cell patch.
func (g *Geometry) Det() float64 { return g.det }

// Normal is the outward unit normal of a boundary patch, nil for cells. The
// slice aliases the geometry's storage.
func (g *Geometry) Normal() []float64 { return g.normal }

// Jacobian returns the jacobian columns, nil for point facets.
func (g *Geometry) Jacobian() *mat.Dense { return g.jac }
