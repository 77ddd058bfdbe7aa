package element

// Basis holds the Lagrange shape functions of one reference element. The
// reference domain is the unit simplex: vertices at the origin and at the unit
// points of each axis, so for a Tet
//
//	N0 = 1 - ξ - η - ζ   N1 = ξ   N2 = η   N3 = ζ
//
// and lower-dimensional shapes drop coordinates accordingly. For order 1 the
// gradients are constant over the element, which the affine geometry mapping
// in the triangulation package relies on.
type Basis struct {
	shape Shape
	order int
	dim   int
	n     int
}

// NewBasis returns the shape-function set for the given cell shape and
// interpolation order. Only the simplex family is implemented; other shapes
// return UnsupportedShapeError. Only order 1 tables exist; higher orders
// return UnsupportedOrderError rather than a silently wrong basis.
func NewBasis(shape Shape, order int) (*Basis, error) {
	if !shape.Simplex() {
		return nil, &UnsupportedShapeError{Shape: shape.String(), Reason: "no basis tables"}
	}
	if order != 1 {
		return nil, &UnsupportedOrderError{Shape: shape, Order: order}
	}
	return &Basis{
		shape: shape,
		order: order,
		dim:   shape.Dim(),
		n:     shape.NumVerts(),
	}, nil
}

// Shape returns the reference shape the basis lives on.
func (b *Basis) Shape() Shape { return b.shape }

// Order returns the interpolation order.
func (b *Basis) Order() int { return b.order }

// NumFuncs returns the number of shape functions (== number of local DOFs).
func (b *Basis) NumFuncs() int { return b.n }

// Eval returns the shape-function values at reference coordinate xi
// (len == shape dimension; ignored extra entries are not allowed).
func (b *Basis) Eval(xi []float64) (S []float64) {
	S = make([]float64, b.n)
	switch b.shape {
	case Point:
		S[0] = 1
	case Line:
		S[0] = 1 - xi[0]
		S[1] = xi[0]
	case Tri:
		S[0] = 1 - xi[0] - xi[1]
		S[1] = xi[0]
		S[2] = xi[1]
	case Tet:
		S[0] = 1 - xi[0] - xi[1] - xi[2]
		S[1] = xi[0]
		S[2] = xi[1]
		S[3] = xi[2]
	}
	return
}

// GradEval returns dN/dξ at xi as an [NumFuncs][dim] table. Order-1 simplex
// gradients do not depend on xi; the argument is kept so callers can treat all
// orders uniformly.
func (b *Basis) GradEval(xi []float64) (dS [][]float64) {
	_ = xi
	dS = make([][]float64, b.n)
	for m := range dS {
		dS[m] = make([]float64, b.dim)
	}
	switch b.shape {
	case Point:
		// dimension 0, nothing to fill
	case Line:
		dS[0][0] = -1
		dS[1][0] = 1
	case Tri:
		dS[0][0], dS[0][1] = -1, -1
		dS[1][0] = 1
		dS[2][1] = 1
	case Tet:
		dS[0][0], dS[0][1], dS[0][2] = -1, -1, -1
		dS[1][0] = 1
		dS[2][1] = 1
		dS[3][2] = 1
	}
	return
}

// NodeCoords returns the reference coordinates of the interpolation nodes in
// local numbering order. For order 1 these are the simplex vertices.
func (b *Basis) NodeCoords() (R [][]float64) {
	R = make([][]float64, b.n)
	for m := range R {
		R[m] = make([]float64, b.dim)
	}
	switch b.shape {
	case Line:
		R[1][0] = 1
	case Tri:
		R[1][0] = 1
		R[2][1] = 1
	case Tet:
		R[1][0] = 1
		R[2][1] = 1
		R[3][2] = 1
	}
	return
}
