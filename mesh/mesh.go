/*
Package mesh holds the topological description of an unstructured mesh:
vertex coordinates, entities of each dimension given as vertex lists, and
named tags attached to entities. A validated Topology is immutable and is
the starting point for triangulations and function spaces.

Entities of the top dimension are the cells. Facets (entities one dimension
below the cells) are derived from the cell list by matching sorted vertex
keys, the same way face connectivity is built for flux exchange in DG
solvers; explicitly supplied facet entities are identified with the derived
ones so that tags placed on them select integration domains.
*/
package mesh

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/notargets/gofea/element"
)

// TaggedEntity names one entity inside a tag group by dimension and index.
// Dimension 0 addresses vertices directly; higher dimensions address the
// corresponding entry of the entity list for that dimension.
type TaggedEntity struct {
	Dim   int
	Index int
}

// Data is the raw mesh input handed to New. Vertices holds one coordinate
// row per vertex, Entities maps dimension to vertex lists (vertices
// themselves are implicit and never listed), and Tags maps a name to the
// entities carrying it.
type Data struct {
	Vertices [][]float64
	Entities map[int][][]int
	Tags     map[string][]TaggedEntity
}

// Facet is one derived cell facet. Verts keeps the orientation induced by
// the first parent cell's local facet table, which makes outward normals
// recoverable later. Interior facets record the second parent in Neighbor.
type Facet struct {
	Verts    []int
	Cell     int
	LocalID  int
	Neighbor int
	Boundary bool
	Entity   int
}

// Topology is a validated, immutable mesh.
type Topology struct {
	ndim     int
	dim      int
	verts    [][]float64
	entities [4][][]int
	shapes   [4][]element.Shape
	facets   []Facet
	facetIDs map[string]int
	tags     map[string][]TaggedEntity
	tagNames []string
	entFacet []int
}

// New validates d and builds the full topology, including the derived facet
// list. Any inconsistency in the input - ragged coordinates, dangling vertex
// references, duplicate or unrecognizable entities, tags naming missing
// entities - produces a *FormatError and no Topology.
func New(d Data) (t *Topology, err error) {
	t = &Topology{
		facetIDs: make(map[string]int),
		tags:     make(map[string][]TaggedEntity),
	}
	if err = t.readVertices(d.Vertices); err != nil {
		return nil, err
	}
	if err = t.readEntities(d.Entities); err != nil {
		return nil, err
	}
	if err = t.readTags(d.Tags); err != nil {
		return nil, err
	}
	if err = t.buildFacets(); err != nil {
		return nil, err
	}
	if err = t.matchFacetEntities(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Topology) readVertices(verts [][]float64) (err error) {
	if len(verts) == 0 {
		return formatErrf("no vertices")
	}
	t.ndim = len(verts[0])
	if t.ndim < 1 || t.ndim > 3 {
		return formatErrf("vertex 0 has %d coordinates, want 1..3", t.ndim)
	}
	t.verts = make([][]float64, len(verts))
	for i, v := range verts {
		if len(v) != t.ndim {
			return formatErrf("vertex %d has %d coordinates, want %d",
				i, len(v), t.ndim)
		}
		t.verts[i] = append([]float64(nil), v...)
	}
	return nil
}

func (t *Topology) readEntities(ents map[int][][]int) (err error) {
	for dim, list := range ents {
		if len(list) == 0 {
			continue
		}
		if dim < 1 || dim > 3 {
			return formatErrf("entities of dimension %d are not supported", dim)
		}
		if dim > t.dim {
			t.dim = dim
		}
	}
	if t.dim == 0 {
		return formatErrf("no cells")
	}
	if t.dim != t.ndim {
		return formatErrf(
			"top entity dimension %d does not match space dimension %d",
			t.dim, t.ndim)
	}
	for dim := 1; dim <= t.dim; dim++ {
		list := ents[dim]
		t.entities[dim] = make([][]int, len(list))
		t.shapes[dim] = make([]element.Shape, len(list))
		dup := make(map[string]int)
		for i, verts := range list {
			var shape element.Shape
			if shape, err = element.ShapeForEntity(dim, len(verts)); err != nil {
				return &FormatError{
					What: fmt.Sprintf("entity %d of dimension %d", i, dim),
					Err:  err,
				}
			}
			seen := make(map[int]bool, len(verts))
			for _, v := range verts {
				if v < 0 || v >= len(t.verts) {
					return formatErrf(
						"entity %d of dimension %d references vertex %d of %d",
						i, dim, v, len(t.verts))
				}
				if seen[v] {
					return formatErrf(
						"entity %d of dimension %d repeats vertex %d", i, dim, v)
				}
				seen[v] = true
			}
			key := vertexKey(verts)
			if j, ok := dup[key]; ok {
				return formatErrf(
					"entity %d of dimension %d duplicates entity %d", i, dim, j)
			}
			dup[key] = i
			t.entities[dim][i] = append([]int(nil), verts...)
			t.shapes[dim][i] = shape
		}
	}
	if len(t.entities[t.dim]) == 0 {
		return formatErrf("no cells of dimension %d", t.dim)
	}
	return nil
}

func (t *Topology) readTags(tags map[string][]TaggedEntity) (err error) {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == "" {
			return formatErrf("empty tag name")
		}
		var (
			list = tags[name]
			kept = make([]TaggedEntity, 0, len(list))
			seen = make(map[TaggedEntity]bool, len(list))
		)
		for _, te := range list {
			if te.Dim < 0 || te.Dim > t.dim {
				return formatErrf("tag %q names dimension %d in a %d-d mesh",
					name, te.Dim, t.dim)
			}
			n := t.NumEntities(te.Dim)
			if te.Index < 0 || te.Index >= n {
				return formatErrf(
					"tag %q names entity %d of dimension %d, have %d",
					name, te.Index, te.Dim, n)
			}
			if seen[te] {
				continue
			}
			seen[te] = true
			kept = append(kept, te)
		}
		t.tags[name] = kept
		t.tagNames = append(t.tagNames, name)
	}
	return nil
}

// buildFacets walks every cell's local facet table and merges shared facets
// through their sorted vertex key. A facet seen once stays on the boundary,
// seen twice it becomes interior with a Neighbor, seen more often the mesh
// is not a manifold.
func (t *Topology) buildFacets() (err error) {
	for c, cellVerts := range t.entities[t.dim] {
		local := element.FacetVertices(t.shapes[t.dim][c])
		for lf, lv := range local {
			verts := make([]int, len(lv))
			for i, l := range lv {
				verts[i] = cellVerts[l]
			}
			key := vertexKey(verts)
			if fi, ok := t.facetIDs[key]; ok {
				f := &t.facets[fi]
				if !f.Boundary {
					return formatErrf(
						"facet %s is shared by more than two cells", key)
				}
				f.Boundary = false
				f.Neighbor = c
				continue
			}
			t.facetIDs[key] = len(t.facets)
			t.facets = append(t.facets, Facet{
				Verts:    verts,
				Cell:     c,
				LocalID:  lf,
				Neighbor: -1,
				Boundary: true,
				Entity:   -1,
			})
		}
	}
	return nil
}

// matchFacetEntities ties each explicitly listed facet-dimension entity to
// the derived facet with the same vertex set. An explicit facet that no cell
// produces points at nothing integrable and is rejected. Vertices in a 1-d
// mesh are implicit, so there is nothing to match below dimension 1.
func (t *Topology) matchFacetEntities() (err error) {
	fdim := t.dim - 1
	if fdim < 1 {
		return nil
	}
	t.entFacet = make([]int, len(t.entities[fdim]))
	for i, verts := range t.entities[fdim] {
		fi, ok := t.facetIDs[vertexKey(verts)]
		if !ok {
			return formatErrf(
				"entity %d of dimension %d is not a facet of any cell", i, fdim)
		}
		t.entFacet[i] = fi
		t.facets[fi].Entity = i
	}
	return nil
}

func vertexKey(verts []int) string {
	s := append([]int(nil), verts...)
	sort.Ints(s)
	var b strings.Builder
	for i, v := range s {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// Dim is the topological dimension of the cells.
func (t *Topology) Dim() int { return t.dim }

// NDim is the dimension of the coordinate space. Embeddings are not
// supported, so NDim always equals Dim.
func (t *Topology) NDim() int { return t.ndim }

// NumVertices is the total vertex count, referenced or not.
func (t *Topology) NumVertices() int { return len(t.verts) }

// NumCells is the number of top-dimensional entities.
func (t *Topology) NumCells() int { return len(t.entities[t.dim]) }

// NumEntities counts entities of one dimension; dimension 0 counts vertices.
func (t *Topology) NumEntities(dim int) int {
	if dim == 0 {
		return len(t.verts)
	}
	if dim < 0 || dim > t.dim {
		return 0
	}
	return len(t.entities[dim])
}

// NumFacets counts the derived facets, interior and boundary together.
func (t *Topology) NumFacets() int { return len(t.facets) }

// VertexCoords returns the coordinate row of one vertex. The slice aliases
// the topology's storage and must not be modified.
func (t *Topology) VertexCoords(i int) []float64 { return t.verts[i] }

// CellVertices returns the vertex list of one cell, aliasing internal
// storage.
func (t *Topology) CellVertices(i int) []int { return t.entities[t.dim][i] }

// CellShape reports the shape of one cell.
func (t *Topology) CellShape(i int) element.Shape { return t.shapes[t.dim][i] }

// EntityShape reports the shape of an entity of any dimension.
func (t *Topology) EntityShape(dim, i int) element.Shape {
	if dim == 0 {
		return element.Point
	}
	return t.shapes[dim][i]
}

// IncidentVertices returns the vertices of an entity in stored order. For
// dimension 0 the entity is its own single vertex.
func (t *Topology) IncidentVertices(dim, i int) []int {
	if dim == 0 {
		return []int{i}
	}
	return t.entities[dim][i]
}

// Facets returns the derived facet list, aliasing internal storage.
func (t *Topology) Facets() []Facet { return t.facets }

// EntitiesWithTag lists the indices of tagged entities of one dimension, in
// tag order. Unknown names and empty selections yield an empty result, never
// an error.
func (t *Topology) EntitiesWithTag(name string, dim int) (ids []int) {
	for _, te := range t.tags[name] {
		if te.Dim == dim {
			ids = append(ids, te.Index)
		}
	}
	return ids
}

// FacetsWithTag resolves tag names to derived facet indices. Only entities
// at the facet dimension participate; in a 1-d mesh these are the tagged
// vertices themselves. Facets are listed once each, in first-appearance
// order across the given names.
func (t *Topology) FacetsWithTag(names ...string) (ids []int) {
	var (
		fdim = t.dim - 1
		seen = make(map[int]bool)
	)
	for _, name := range names {
		for _, te := range t.tags[name] {
			if te.Dim != fdim {
				continue
			}
			fi := -1
			if fdim == 0 {
				if j, ok := t.facetIDs[vertexKey([]int{te.Index})]; ok {
					fi = j
				}
			} else {
				fi = t.entFacet[te.Index]
			}
			if fi < 0 || seen[fi] {
				continue
			}
			seen[fi] = true
			ids = append(ids, fi)
		}
	}
	return ids
}

// VerticesWithTag collects every vertex incident to any entity carrying any
// of the given tags, in first-appearance order. Unknown names contribute
// nothing.
func (t *Topology) VerticesWithTag(names ...string) (verts []int) {
	seen := make(map[int]bool)
	for _, name := range names {
		for _, te := range t.tags[name] {
			for _, v := range t.IncidentVertices(te.Dim, te.Index) {
				if seen[v] {
					continue
				}
				seen[v] = true
				verts = append(verts, v)
			}
		}
	}
	return verts
}

// TagNames lists the known tags in sorted order.
func (t *Topology) TagNames() []string {
	return append([]string(nil), t.tagNames...)
}

// Bounds returns the axis-aligned bounding box of the vertex cloud.
func (t *Topology) Bounds() (lo, hi []float64) {
	lo = append([]float64(nil), t.verts[0]...)
	hi = append([]float64(nil), t.verts[0]...)
	for _, v := range t.verts[1:] {
		for d := 0; d < t.ndim; d++ {
			if v[d] < lo[d] {
				lo[d] = v[d]
			}
			if v[d] > hi[d] {
				hi[d] = v[d]
			}
		}
	}
	return lo, hi
}

// Print writes a short statistics block to standard output.
func (t *Topology) Print() {
	var nb int
	for _, f := range t.facets {
		if f.Boundary {
			nb++
		}
	}
	fmt.Printf("Mesh: %d-D, %d vertices, %d cells\n",
		t.dim, len(t.verts), t.NumCells())
	fmt.Printf("      %d facets, %d on the boundary\n", len(t.facets), nb)
	lo, hi := t.Bounds()
	fmt.Printf("      bounds %v .. %v\n", lo, hi)
	for _, name := range t.tagNames {
		fmt.Printf("      tag %-12q %4d entities\n", name, len(t.tags[name]))
	}
}
