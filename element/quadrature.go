package element

import "math"

// Rule is one quadrature rule on a reference shape: points in reference
// coordinates and weights summing to the reference measure (1 for Line on
// [0,1], 1/2 for Tri, 1/6 for Tet). Degree is the highest polynomial degree
// the rule integrates exactly.
type Rule struct {
	Shape   Shape
	Degree  int
	Points  [][]float64
	Weights []float64
}

// Len returns the number of quadrature points.
func (q Rule) Len() int { return len(q.Weights) }

// NewRule returns a rule exact for polynomials up to the requested degree on
// the given simplex shape. Requests above the highest tabulated degree are
// satisfied with the highest available rule; the returned Degree field reports
// what was actually delivered. Non-simplex shapes yield UnsupportedShapeError.
func NewRule(shape Shape, degree int) (Rule, error) {
	if degree < 1 {
		degree = 1
	}
	switch shape {
	case Point:
		// Point "integration" is bare evaluation; used for the facets of 1D
		// cells where the boundary term degenerates to endpoint evaluation.
		return Rule{Shape: shape, Degree: degree, Points: [][]float64{{}}, Weights: []float64{1}}, nil
	case Line:
		return lineRule(degree), nil
	case Tri:
		return triRule(degree), nil
	case Tet:
		return tetRule(degree), nil
	}
	return Rule{}, &UnsupportedShapeError{Shape: shape.String(), Reason: "no quadrature tables"}
}

// MinDegree derives the default integration degree for a bilinear or linear
// form over bases of the given orders, following the worst-case integrand: the
// product of two order-p interpolants has polynomial degree 2p (mass and load
// type products), which on simplices also covers the degree-2(p-1) gradient
// products a fortiori. Pass trialOrder 0 for a linear form.
func MinDegree(testOrder, trialOrder int) int {
	deg := testOrder + trialOrder
	if deg < 1 {
		deg = 1
	}
	return deg
}

// lineRule maps the Gauss-Legendre points from [-1,1] onto [0,1].
func lineRule(degree int) (q Rule) {
	var (
		x, w []float64
	)
	switch {
	case degree <= 1:
		x = []float64{0.5}
		w = []float64{1}
	case degree <= 3:
		d := 0.5 / math.Sqrt(3)
		x = []float64{0.5 - d, 0.5 + d}
		w = []float64{0.5, 0.5}
	default:
		degree = 5
		d := 0.5 * math.Sqrt(3.0/5.0)
		x = []float64{0.5 - d, 0.5, 0.5 + d}
		w = []float64{5.0 / 18.0, 4.0 / 9.0, 5.0 / 18.0}
	}
	q = Rule{Shape: Line, Degree: degree, Weights: w}
	q.Points = make([][]float64, len(x))
	for i, xi := range x {
		q.Points[i] = []float64{xi}
	}
	return
}

// triRule tabulates symmetric rules on the unit triangle (area 1/2).
func triRule(degree int) (q Rule) {
	switch {
	case degree <= 1:
		q = Rule{
			Shape: Tri, Degree: 1,
			Points:  [][]float64{{1.0 / 3.0, 1.0 / 3.0}},
			Weights: []float64{0.5},
		}
	case degree <= 2:
		// Interior three-point rule; preferred over the midedge variant so
		// integrands are never sampled on facet closures.
		q = Rule{
			Shape: Tri, Degree: 2,
			Points: [][]float64{
				{1.0 / 6.0, 1.0 / 6.0},
				{2.0 / 3.0, 1.0 / 6.0},
				{1.0 / 6.0, 2.0 / 3.0},
			},
			Weights: []float64{1.0 / 6.0, 1.0 / 6.0, 1.0 / 6.0},
		}
	default:
		// Hammer four-point rule with negative centroid weight, degree 3.
		q = Rule{
			Shape: Tri, Degree: 3,
			Points: [][]float64{
				{1.0 / 3.0, 1.0 / 3.0},
				{0.6, 0.2},
				{0.2, 0.6},
				{0.2, 0.2},
			},
			Weights: []float64{-27.0 / 96.0, 25.0 / 96.0, 25.0 / 96.0, 25.0 / 96.0},
		}
	}
	return
}

// tetRule tabulates symmetric rules on the unit tetrahedron (volume 1/6).
// The four-point degree-2 rule is the Keast rule also used by the
// Williams-Shunn-Jameson tables on the biunit tet.
func tetRule(degree int) (q Rule) {
	switch {
	case degree <= 1:
		q = Rule{
			Shape: Tet, Degree: 1,
			Points:  [][]float64{{0.25, 0.25, 0.25}},
			Weights: []float64{1.0 / 6.0},
		}
	case degree <= 2:
		const (
			a = 0.58541019662496845446
			b = 0.13819660112501051518
		)
		q = Rule{
			Shape: Tet, Degree: 2,
			Points: [][]float64{
				{b, b, b},
				{a, b, b},
				{b, a, b},
				{b, b, a},
			},
			Weights: []float64{1.0 / 24.0, 1.0 / 24.0, 1.0 / 24.0, 1.0 / 24.0},
		}
	default:
		// Five-point degree-3 rule with negative center weight.
		q = Rule{
			Shape: Tet, Degree: 3,
			Points: [][]float64{
				{0.25, 0.25, 0.25},
				{1.0 / 6.0, 1.0 / 6.0, 1.0 / 6.0},
				{0.5, 1.0 / 6.0, 1.0 / 6.0},
				{1.0 / 6.0, 0.5, 1.0 / 6.0},
				{1.0 / 6.0, 1.0 / 6.0, 0.5},
			},
			Weights: []float64{-2.0 / 15.0, 3.0 / 40.0, 3.0 / 40.0, 3.0 / 40.0, 3.0 / 40.0},
		}
	}
	return
}
