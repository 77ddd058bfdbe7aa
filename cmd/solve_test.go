package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/gofea/InputParameters"
)

func TestSolveInput(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Heated plate
Solver: dense
DirichletTags: [left]
NeumannTags: [right]
NeumannFlux: 0.5
`)
	ip := InputParameters.Default()
	if err = ip.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, ip.Title, "Heated plate")
	assert.Equal(t, ip.Solver, "dense")
	assert.Equal(t, ip.DirichletTags, []string{"left"})
	assert.Equal(t, ip.NeumannTags, []string{"right"})
	assert.Equal(t, ip.NeumannFlux, 0.5)
	ip.Print()
	// Defaults survive a partial file
	assert.Equal(t, ip.Conductivity, 1.)
	assert.Equal(t, ip.Order, 1)
}

func TestBuildMesh(t *testing.T) {
	{
		topo, err := buildMesh(&SolveModel{BuiltIn: "square", N: 2})
		if err != nil {
			panic(err)
		}
		assert.Equal(t, topo.Dim(), 2)
		assert.Equal(t, topo.NumCells(), 8)
	}
	{
		if _, err := buildMesh(&SolveModel{BuiltIn: "torus"}); err == nil {
			t.Errorf("expected an error for an unknown built-in mesh")
		}
	}
	{
		if _, err := backend("qr"); err == nil {
			t.Errorf("expected an error for an unknown solver")
		}
	}
}

func TestRunSolve(t *testing.T) {
	out := filepath.Join(t.TempDir(), "u.vtk")
	sm := &SolveModel{BuiltIn: "interval", N: 4, OutFile: out}
	RunSolve(sm, InputParameters.Default())
	b, err := os.ReadFile(out)
	if err != nil {
		panic(err)
	}
	if !strings.HasPrefix(string(b), "# vtk DataFile Version 3.0\n") {
		t.Errorf("output is not a legacy VTK file")
	}
	assert.Equal(t, strings.Contains(string(b), "SCALARS u double 1\n"), true)
}

func TestRunStudy(t *testing.T) {
	out := filepath.Join(t.TempDir(), "study.csv")
	sm := &SolveModel{BuiltIn: "interval", N: 2, Study: 2, OutFile: out}
	RunStudy(sm, InputParameters.Default())
	b, err := os.ReadFile(out)
	if err != nil {
		panic(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Equal(t, lines[0], "h,L2")
	assert.Equal(t, len(lines), 3)
}
