package assembly

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofea/element"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/triangulation"
	"github.com/notargets/gofea/utils"
)

// Entry is one accumulated contribution to a matrix or vector.
type Entry struct {
	I, J int
	V    float64
}

// Assembler integrates forms over their triangulations. Workers caps the
// parallel degree; zero or negative takes the machine's CPU count. Each
// worker owns a contiguous patch range and buffers its contributions, and
// the buffers are drained in range order afterwards, so the accumulated
// result is identical at every parallel degree.
type Assembler struct {
	Workers int
}

// Matrix assembles a bilinear form with a default Assembler.
func Matrix(b *BilinearForm) (utils.CSR, error) { return Assembler{}.Matrix(b) }

// Vector assembles a linear form with a default Assembler.
func Vector(l *LinearForm) ([]float64, error) { return Assembler{}.Vector(l) }

// Matrix assembles the terms of a bilinear form into a CSR matrix of shape
// test dofs by trial dofs.
func (a Assembler) Matrix(b *BilinearForm) (K utils.CSR, err error) {
	var (
		rows = b.Test.Space.S
		cols = b.Trial.Space.S
		dok  = utils.NewDOK(rows.NumDofs(), cols.NumDofs())
	)
	for _, tm := range b.terms {
		tabs, err := matrixTables(tm.tri, rows, cols, tm.degree)
		if err != nil {
			return K, err
		}
		var kern patchKernel
		switch tm.kind {
		case diffusionTerm:
			kern = diffusionKernel(tm.tri, tabs, rows, cols, tm.coef)
		case massTerm:
			kern = massKernel(tm.tri, tabs, rows, cols, tm.coef)
		}
		if err = a.run(tm.tri, kern, func(e Entry) {
			dok.Add(e.I, e.J, e.V)
		}); err != nil {
			return K, err
		}
	}
	return dok.ToCSR(), nil
}

// Vector assembles the terms of a linear form into a dense vector over the
// test dofs.
func (a Assembler) Vector(l *LinearForm) (F []float64, err error) {
	rows := l.Test.Space.S
	F = make([]float64, rows.NumDofs())
	for _, tm := range l.terms {
		tabs, err := vectorTables(tm.tri, rows, tm.degree)
		if err != nil {
			return nil, err
		}
		var kern patchKernel
		switch tm.kind {
		case sourceTerm:
			kern = sourceKernel(tm.tri, tabs, rows, tm.coef)
		case fluxTerm:
			kern = fluxKernel(tm.tri, tabs, rows, tm.coef)
		}
		if err = a.run(tm.tri, kern, func(e Entry) {
			F[e.I] += e.V
		}); err != nil {
			return nil, err
		}
	}
	return F, nil
}

type patchKernel func(buf *utils.DynBuffer[Entry], p triangulation.Patch) error

// run evaluates the kernel over every patch, splitting the range over the
// workers, then feeds the buffered entries to sink in patch order.
func (a Assembler) run(tri *triangulation.Triangulation, kern patchKernel, sink func(Entry)) (err error) {
	var (
		patches = tri.Patches()
		np      = a.parallelDegree(len(patches))
		pm      = utils.NewPartitionMap(np, len(patches))
		bufs    = make([]*utils.DynBuffer[Entry], np)
		errs    = make([]error, np)
		wg      sync.WaitGroup
	)
	for n := 0; n < np; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var (
				lo, hi = pm.GetBucketRange(n)
				buf    = utils.NewDynBuffer[Entry](16 * (hi - lo))
			)
			bufs[n] = buf
			for k := lo; k < hi; k++ {
				if e := kern(buf, patches[k]); e != nil {
					errs[n] = e
					return
				}
			}
		}(n)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	// Buckets are contiguous, so draining them in order replays the serial
	// patch order exactly.
	for _, buf := range bufs {
		for _, e := range buf.Cells() {
			sink(e)
		}
	}
	return nil
}

func (a Assembler) parallelDegree(n int) (np int) {
	np = a.Workers
	if np <= 0 {
		np = runtime.NumCPU()
	}
	if np > n {
		np = n
	}
	if np < 1 {
		np = 1
	}
	return
}

type matTab struct {
	rule       element.Rule
	rowS, colS [][]float64 // basis values, indexed [point][func]
	rowD, colD [][]float64 // reference gradients, indexed [func][dim]
}

func matrixTables(tri *triangulation.Triangulation, rows, cols *fespace.Space,
	degree int) (tabs map[element.Shape]*matTab, err error) {
	tabs = make(map[element.Shape]*matTab)
	for _, p := range tri.Patches() {
		if _, ok := tabs[p.Shape]; ok {
			continue
		}
		var (
			rb, cb *element.Basis
			rule   element.Rule
		)
		if rb, err = element.NewBasis(p.Shape, rows.Order()); err != nil {
			return nil, err
		}
		if cb, err = element.NewBasis(p.Shape, cols.Order()); err != nil {
			return nil, err
		}
		if rule, err = element.NewRule(p.Shape, degree); err != nil {
			return nil, err
		}
		t := &matTab{
			rule: rule,
			rowS: make([][]float64, rule.Len()),
			colS: make([][]float64, rule.Len()),
		}
		for q, pt := range rule.Points {
			t.rowS[q] = rb.Eval(pt)
			t.colS[q] = cb.Eval(pt)
		}
		t.rowD = rb.GradEval(rule.Points[0])
		t.colD = cb.GradEval(rule.Points[0])
		tabs[p.Shape] = t
	}
	return tabs, nil
}

type vecTab struct {
	rule element.Rule
	S    [][]float64
}

func vectorTables(tri *triangulation.Triangulation, rows *fespace.Space,
	degree int) (tabs map[element.Shape]*vecTab, err error) {
	tabs = make(map[element.Shape]*vecTab)
	for _, p := range tri.Patches() {
		if _, ok := tabs[p.Shape]; ok {
			continue
		}
		var (
			b    *element.Basis
			rule element.Rule
		)
		if b, err = element.NewBasis(p.Shape, rows.Order()); err != nil {
			return nil, err
		}
		if rule, err = element.NewRule(p.Shape, degree); err != nil {
			return nil, err
		}
		t := &vecTab{rule: rule, S: make([][]float64, rule.Len())}
		for q, pt := range rule.Points {
			t.S[q] = b.Eval(pt)
		}
		tabs[p.Shape] = t
	}
	return tabs, nil
}

func diffusionKernel(tri *triangulation.Triangulation, tabs map[element.Shape]*matTab,
	rows, cols *fespace.Space, coef Coefficient) patchKernel {
	return func(buf *utils.DynBuffer[Entry], p triangulation.Patch) error {
		g, err := tri.Geometry(p)
		if err != nil {
			return err
		}
		var (
			t   = tabs[p.Shape]
			dSr = g.PhysGrad(t.rowD)
			dSc = g.PhysGrad(t.colD)
			rd  = rows.CellDofs(p.Cell)
			cd  = cols.CellDofs(p.Cell)
			ke  = make([]float64, len(rd)*len(cd))
		)
		for q, pt := range t.rule.Points {
			c := t.rule.Weights[q] * g.Measure()
			if coef != nil {
				c *= coef(g.PhysCoords(pt))
			}
			for i := range rd {
				for j := range cd {
					ke[i*len(cd)+j] += c * floats.Dot(dSr[i], dSc[j])
				}
			}
		}
		scatterMat(buf, rd, cd, ke)
		return nil
	}
}

func massKernel(tri *triangulation.Triangulation, tabs map[element.Shape]*matTab,
	rows, cols *fespace.Space, coef Coefficient) patchKernel {
	return func(buf *utils.DynBuffer[Entry], p triangulation.Patch) error {
		g, err := tri.Geometry(p)
		if err != nil {
			return err
		}
		var (
			t  = tabs[p.Shape]
			rd = rows.CellDofs(p.Cell)
			cd = cols.CellDofs(p.Cell)
			ke = make([]float64, len(rd)*len(cd))
		)
		for q, pt := range t.rule.Points {
			c := t.rule.Weights[q] * g.Measure()
			if coef != nil {
				c *= coef(g.PhysCoords(pt))
			}
			for i := range rd {
				for j := range cd {
					ke[i*len(cd)+j] += c * t.rowS[q][i] * t.colS[q][j]
				}
			}
		}
		scatterMat(buf, rd, cd, ke)
		return nil
	}
}

func scatterMat(buf *utils.DynBuffer[Entry], rd, cd []int, ke []float64) {
	for i := range rd {
		for j := range cd {
			buf.Add(Entry{rd[i], cd[j], ke[i*len(cd)+j]})
		}
	}
}

func sourceKernel(tri *triangulation.Triangulation, tabs map[element.Shape]*vecTab,
	rows *fespace.Space, coef Coefficient) patchKernel {
	return func(buf *utils.DynBuffer[Entry], p triangulation.Patch) error {
		g, err := tri.Geometry(p)
		if err != nil {
			return err
		}
		var (
			t  = tabs[p.Shape]
			rd = rows.CellDofs(p.Cell)
			fe = make([]float64, len(rd))
		)
		for q, pt := range t.rule.Points {
			c := t.rule.Weights[q] * g.Measure()
			if coef != nil {
				c *= coef(g.PhysCoords(pt))
			}
			for i := range rd {
				fe[i] += c * t.S[q][i]
			}
		}
		for i := range rd {
			buf.Add(Entry{rd[i], 0, fe[i]})
		}
		return nil
	}
}

// fluxKernel integrates over facets: the local dofs are those of the facet
// vertices, looked up directly since every facet vertex belongs to its
// parent cell.
func fluxKernel(tri *triangulation.Triangulation, tabs map[element.Shape]*vecTab,
	rows *fespace.Space, coef Coefficient) patchKernel {
	return func(buf *utils.DynBuffer[Entry], p triangulation.Patch) error {
		g, err := tri.Geometry(p)
		if err != nil {
			return err
		}
		var (
			t  = tabs[p.Shape]
			fe = make([]float64, len(p.Verts))
		)
		for q, pt := range t.rule.Points {
			c := t.rule.Weights[q] * g.Measure()
			if coef != nil {
				c *= coef(g.PhysCoords(pt))
			}
			for i := range p.Verts {
				fe[i] += c * t.S[q][i]
			}
		}
		for i, v := range p.Verts {
			buf.Add(Entry{rows.Dof(v), 0, fe[i]})
		}
		return nil
	}
}
