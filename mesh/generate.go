package mesh

// Built-in structured meshes of the unit interval, square and cube, used by
// the model problems and the convergence tests. All three carry the face
// tags needed to pose mixed boundary conditions without a mesh file.

// UnitInterval meshes [0,1] with n line cells. The endpoints are tagged
// "left" and "right"; "boundary" covers both.
func UnitInterval(n int) (t *Topology, err error) {
	if n < 1 {
		return nil, formatErrf("interval mesh needs at least 1 cell, got %d", n)
	}
	var (
		verts = make([][]float64, n+1)
		cells = make([][]int, n)
	)
	for i := 0; i <= n; i++ {
		verts[i] = []float64{float64(i) / float64(n)}
	}
	for i := 0; i < n; i++ {
		cells[i] = []int{i, i + 1}
	}
	return New(Data{
		Vertices: verts,
		Entities: map[int][][]int{1: cells},
		Tags: map[string][]TaggedEntity{
			"left":     {{Dim: 0, Index: 0}},
			"right":    {{Dim: 0, Index: n}},
			"boundary": {{Dim: 0, Index: 0}, {Dim: 0, Index: n}},
		},
	})
}

// UnitSquare meshes [0,1]^2 with n by n quads, each split into two triangles
// along the diagonal from the low corner to the high corner. The four sides
// are tagged "left", "right", "bottom" and "top"; "boundary" covers all of
// them. The side edges are emitted as explicit entities so the tags select
// facet integration domains directly.
func UnitSquare(n int) (t *Topology, err error) {
	if n < 1 {
		return nil, formatErrf("square mesh needs at least 1 cell, got %d", n)
	}
	var (
		verts = make([][]float64, 0, (n+1)*(n+1))
		cells = make([][]int, 0, 2*n*n)
		edges [][]int
		tags  = map[string][]TaggedEntity{}
		vid   = func(i, j int) int { return j*(n+1) + i }
	)
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			verts = append(verts, []float64{
				float64(i) / float64(n),
				float64(j) / float64(n),
			})
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			var (
				a = vid(i, j)
				b = vid(i+1, j)
				c = vid(i+1, j+1)
				d = vid(i, j+1)
			)
			cells = append(cells, []int{a, b, c}, []int{a, c, d})
		}
	}
	side := func(name string, edge func(k int) []int) {
		for k := 0; k < n; k++ {
			te := TaggedEntity{Dim: 1, Index: len(edges)}
			edges = append(edges, edge(k))
			tags[name] = append(tags[name], te)
			tags["boundary"] = append(tags["boundary"], te)
		}
	}
	side("bottom", func(k int) []int { return []int{vid(k, 0), vid(k+1, 0)} })
	side("right", func(k int) []int { return []int{vid(n, k), vid(n, k+1)} })
	side("top", func(k int) []int { return []int{vid(k+1, n), vid(k, n)} })
	side("left", func(k int) []int { return []int{vid(0, k+1), vid(0, k)} })
	return New(Data{
		Vertices: verts,
		Entities: map[int][][]int{1: edges, 2: cells},
		Tags:     tags,
	})
}

// UnitCube meshes [0,1]^3 with n by n by n hexes, each split into the six
// tetrahedra that share the main diagonal. The split is the same in every
// hex, so shared faces match across cells. The six sides are tagged "left"
// and "right" (x), "front" and "back" (y), "bottom" and "top" (z), with
// "boundary" covering all of them; each side face is emitted as two explicit
// triangles whose diagonal agrees with the tetrahedral split.
func UnitCube(n int) (t *Topology, err error) {
	if n < 1 {
		return nil, formatErrf("cube mesh needs at least 1 cell, got %d", n)
	}
	var (
		verts = make([][]float64, 0, (n+1)*(n+1)*(n+1))
		cells = make([][]int, 0, 6*n*n*n)
		faces [][]int
		tags  = map[string][]TaggedEntity{}
		vid   = func(i, j, k int) int { return (k*(n+1)+j)*(n+1) + i }
	)
	for k := 0; k <= n; k++ {
		for j := 0; j <= n; j++ {
			for i := 0; i <= n; i++ {
				verts = append(verts, []float64{
					float64(i) / float64(n),
					float64(j) / float64(n),
					float64(k) / float64(n),
				})
			}
		}
	}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				var (
					c000 = vid(i, j, k)
					c100 = vid(i+1, j, k)
					c010 = vid(i, j+1, k)
					c110 = vid(i+1, j+1, k)
					c001 = vid(i, j, k+1)
					c101 = vid(i+1, j, k+1)
					c011 = vid(i, j+1, k+1)
					c111 = vid(i+1, j+1, k+1)
				)
				cells = append(cells,
					[]int{c000, c100, c110, c111},
					[]int{c000, c101, c100, c111},
					[]int{c000, c110, c010, c111},
					[]int{c000, c010, c011, c111},
					[]int{c000, c001, c101, c111},
					[]int{c000, c011, c001, c111},
				)
			}
		}
	}
	// Each side face splits along the diagonal from its low corner to its
	// high corner, matching the facets the tetrahedra produce.
	side := func(name string, quad func(a, b int) (p, q, r, s int)) {
		for b := 0; b < n; b++ {
			for a := 0; a < n; a++ {
				p, q, r, s := quad(a, b)
				for _, tri := range [][]int{{p, q, r}, {p, r, s}} {
					te := TaggedEntity{Dim: 2, Index: len(faces)}
					faces = append(faces, tri)
					tags[name] = append(tags[name], te)
					tags["boundary"] = append(tags["boundary"], te)
				}
			}
		}
	}
	side("left", func(a, b int) (p, q, r, s int) {
		return vid(0, a, b), vid(0, a+1, b), vid(0, a+1, b+1), vid(0, a, b+1)
	})
	side("right", func(a, b int) (p, q, r, s int) {
		return vid(n, a, b), vid(n, a+1, b), vid(n, a+1, b+1), vid(n, a, b+1)
	})
	side("front", func(a, b int) (p, q, r, s int) {
		return vid(a, 0, b), vid(a+1, 0, b), vid(a+1, 0, b+1), vid(a, 0, b+1)
	})
	side("back", func(a, b int) (p, q, r, s int) {
		return vid(a, n, b), vid(a+1, n, b), vid(a+1, n, b+1), vid(a, n, b+1)
	})
	side("bottom", func(a, b int) (p, q, r, s int) {
		return vid(a, b, 0), vid(a+1, b, 0), vid(a+1, b+1, 0), vid(a, b+1, 0)
	})
	side("top", func(a, b int) (p, q, r, s int) {
		return vid(a, b, n), vid(a+1, b, n), vid(a+1, b+1, n), vid(a, b+1, n)
	})
	return New(Data{
		Vertices: verts,
		Entities: map[int][][]int{2: faces, 3: cells},
		Tags:     tags,
	})
}
