// Package element defines reference elements for conforming finite-element
// discretizations: cell shapes, Lagrange shape functions on the unit simplex
// family and quadrature rules with known polynomial exactness. Everything in
// this package is stateless and shared across all physical cells of a shape.
package element

import "fmt"

// Shape enumerates the supported reference cell topologies. The simplex family
// (Point, Line, Tri, Tet) carries full numeric support; Quad and Hex are
// recognized so meshes containing them load cleanly, but basis and quadrature
// constructors reject them with UnsupportedShapeError.
type Shape int

const (
	Point Shape = iota
	Line
	Tri
	Quad
	Tet
	Hex
)

func (s Shape) String() string {
	names := [...]string{"Point", "Line", "Tri", "Quad", "Tet", "Hex"}
	if s < 0 || int(s) >= len(names) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return names[s]
}

// Dim returns the topological dimension of the shape.
func (s Shape) Dim() int {
	switch s {
	case Point:
		return 0
	case Line:
		return 1
	case Tri, Quad:
		return 2
	case Tet, Hex:
		return 3
	}
	return -1
}

// NumVerts returns the vertex count of the shape.
func (s Shape) NumVerts() int {
	switch s {
	case Point:
		return 1
	case Line:
		return 2
	case Tri:
		return 3
	case Quad, Tet:
		return 4
	case Hex:
		return 8
	}
	return 0
}

// Simplex reports whether the shape belongs to the simplex family and hence
// supports bases and quadrature.
func (s Shape) Simplex() bool {
	switch s {
	case Point, Line, Tri, Tet:
		return true
	}
	return false
}

// ShapeForEntity maps a (topological dimension, vertex count) pair from mesh
// input onto a Shape. Unknown pairs produce UnsupportedShapeError so mesh
// loading can surface the offending entity.
func ShapeForEntity(dim, nverts int) (Shape, error) {
	switch {
	case dim == 0 && nverts == 1:
		return Point, nil
	case dim == 1 && nverts == 2:
		return Line, nil
	case dim == 2 && nverts == 3:
		return Tri, nil
	case dim == 2 && nverts == 4:
		return Quad, nil
	case dim == 3 && nverts == 4:
		return Tet, nil
	case dim == 3 && nverts == 8:
		return Hex, nil
	}
	return -1, &UnsupportedShapeError{
		Shape:  fmt.Sprintf("dim=%d nverts=%d", dim, nverts),
		Reason: "no cell topology matches",
	}
}

// FacetVertices returns the local vertex indices of each facet (the entities
// one dimension below the cell), ordered so that for 3D shapes the right-hand
// rule points out of the cell for a positively oriented cell. The tables follow
// the usual FE node numbering for each shape.
func FacetVertices(s Shape) [][]int {
	switch s {
	case Line:
		return [][]int{{0}, {1}}
	case Tri:
		return [][]int{{0, 1}, {1, 2}, {2, 0}}
	case Quad:
		return [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	case Tet:
		return [][]int{
			{0, 2, 1},
			{0, 1, 3},
			{1, 2, 3},
			{0, 3, 2},
		}
	case Hex:
		return [][]int{
			{0, 3, 2, 1},
			{4, 5, 6, 7},
			{0, 1, 5, 4},
			{1, 2, 6, 5},
			{2, 3, 7, 6},
			{3, 0, 4, 7},
		}
	}
	return nil
}

// FacetShape returns the shape of the facets of s.
func FacetShape(s Shape) Shape {
	switch s {
	case Line:
		return Point
	case Tri, Quad:
		return Line
	case Tet:
		return Tri
	case Hex:
		return Quad
	}
	return -1
}
