/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofea/InputParameters"
	"github.com/notargets/gofea/analytic"
	"github.com/notargets/gofea/assembly"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/poisson"
	"github.com/notargets/gofea/readfiles"
	"github.com/notargets/gofea/solver"
	"github.com/notargets/gofea/utils"
	"github.com/notargets/gofea/writefiles"
)

type SolveModel struct {
	MeshFile  string
	ParamFile string
	OutFile   string
	BuiltIn   string
	N         int
	Workers   int
	Study     int
	Profile   bool
}

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a scalar elliptic problem on a mesh file or a built-in mesh",
	Long: `
Assembles and solves -div(k grad u) = f with the boundary conditions of the
problem file, writing the solution as a legacy VTK file,

gofea solve -F mesh.json -I problem.yaml -o solution.vtk
gofea solve --built-in square -n 32`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			sm  = &SolveModel{}
		)
		if sm.MeshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			panic(err)
		}
		if sm.ParamFile, err = cmd.Flags().GetString("problemFile"); err != nil {
			panic(err)
		}
		sm.OutFile, _ = cmd.Flags().GetString("outFile")
		sm.BuiltIn, _ = cmd.Flags().GetString("built-in")
		sm.N, _ = cmd.Flags().GetInt("n")
		sm.Workers, _ = cmd.Flags().GetInt("workers")
		sm.Study, _ = cmd.Flags().GetInt("study")
		sm.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processSolveInput(sm)
		if sm.Study > 0 {
			RunStudy(sm, ip)
			return
		}
		RunSolve(sm, ip)
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("meshFile", "F", "", "mesh file to read in JSON format")
	solveCmd.Flags().StringP("problemFile", "I", "", "YAML file for problem parameters like:\n\t- DirichletTags\n\t- SourceValue")
	solveCmd.Flags().StringP("outFile", "o", "", "write the solution to this file in legacy VTK format")
	solveCmd.Flags().String("built-in", "", "generate a built-in unit mesh: interval, square or cube")
	solveCmd.Flags().IntP("n", "n", 8, "refinement of the built-in mesh, cells per side")
	solveCmd.Flags().Int("workers", 0, "parallel assembly workers, 0 uses every core")
	solveCmd.Flags().Int("study", 0, "levels of a convergence study of the built-in benchmark, doubling n per level")
	solveCmd.Flags().Bool("profile", false, "write a CPU profile while solving")
}

func processSolveInput(sm *SolveModel) (ip *InputParameters.PoissonParameters) {
	var (
		err      error
		willExit bool
	)
	if len(sm.MeshFile) == 0 && len(sm.BuiltIn) == 0 {
		err = fmt.Errorf("must supply a mesh file (-F, --meshFile) in JSON format or name a built-in mesh (--built-in)")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
{
  "vertices": [[0,0], [1,0], [1,1], [0,1]],
  "cells": {
    "1": [[0,1], [1,2], [2,3], [3,0]],
    "2": [[0,1,2], [0,2,3]]
  },
  "tags": {"boundary": [[1,0], [1,1], [1,2], [1,3]]}
}
########################################
`
		fmt.Printf("Example Mesh File:%s\n", exampleFile)
		willExit = true
	}
	if sm.Study > 0 && len(sm.BuiltIn) == 0 {
		fmt.Printf("error: a convergence study needs a built-in mesh (--built-in)\n")
		willExit = true
	}
	if willExit {
		os.Exit(1)
	}
	ip = InputParameters.Default()
	if len(sm.ParamFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(sm.ParamFile); err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	}
	return
}

func buildMesh(sm *SolveModel) (topo *mesh.Topology, err error) {
	if len(sm.MeshFile) != 0 {
		return readfiles.ReadMeshJSON(sm.MeshFile)
	}
	n := sm.N
	if n < 1 {
		n = 1
	}
	switch sm.BuiltIn {
	case "interval":
		return mesh.UnitInterval(n)
	case "square":
		return mesh.UnitSquare(n)
	case "cube":
		return mesh.UnitCube(n)
	}
	return nil, fmt.Errorf("unknown built-in mesh %q, have interval, square, cube", sm.BuiltIn)
}

func backend(name string) (alg solver.Algebraic, err error) {
	switch name {
	case "sparse", "":
		return solver.SparseLU{}, nil
	case "dense":
		return solver.DenseLU{}, nil
	}
	return nil, fmt.Errorf("unknown solver %q, have sparse, dense", name)
}

func problem(topo *mesh.Topology, sm *SolveModel, ip *InputParameters.PoissonParameters) (p *poisson.Problem, err error) {
	alg, err := backend(ip.Solver)
	if err != nil {
		return nil, err
	}
	workers := sm.Workers
	if workers == 0 {
		workers = ip.Workers
	}
	p = &poisson.Problem{
		Topo:           topo,
		Conductivity:   assembly.Constant(ip.Conductivity),
		Source:         assembly.Constant(ip.SourceValue),
		DirichletTags:  ip.DirichletTags,
		DirichletValue: func([]float64) float64 { return ip.DirichletValue },
		NeumannTags:    ip.NeumannTags,
		NeumannFlux:    assembly.Constant(ip.NeumannFlux),
		Order:          ip.Order,
		QuadDegree:     ip.QuadratureDegree,
		Workers:        workers,
		Alg:            alg,
	}
	return p, nil
}

func RunSolve(sm *SolveModel, ip *InputParameters.PoissonParameters) {
	if sm.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	ip.Print()
	topo, err := buildMesh(sm)
	if err != nil {
		panic(err)
	}
	topo.Print()
	p, err := problem(topo, sm, ip)
	if err != nil {
		panic(err)
	}
	u, err := p.Run()
	if err != nil {
		panic(err)
	}
	vals := u.Sample()
	fmt.Printf("Umin, Umax = %8.5f, %8.5f\n", floats.Min(vals), floats.Max(vals))
	fmt.Printf("%s\n", utils.GetMemUsage())
	if len(sm.OutFile) != 0 {
		if err = writefiles.WriteVTKFile(sm.OutFile, topo,
			ip.Title, writefiles.Field{Name: "u", Values: vals}); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote solution to %s\n", sm.OutFile)
	}
}

// RunStudy solves the built-in benchmark over doubling refinements and
// emits an h,L2 table for the convergence order tool.
func RunStudy(sm *SolveModel, ip *InputParameters.PoissonParameters) {
	if sm.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	var exact func(x []float64) float64
	switch sm.BuiltIn {
	case "interval":
		exact = analytic.Interval1D
	case "square":
		exact = analytic.SquareSeries{Terms: 64}.Eval
	case "cube":
		exact = analytic.CubeSeries{Terms: 24}.Eval
	default:
		panic(fmt.Errorf("unknown built-in mesh %q, have interval, square, cube", sm.BuiltIn))
	}
	base := sm.N
	if base < 1 {
		base = 2
	}
	csv := "h,L2\n"
	for lev := 0; lev < sm.Study; lev++ {
		n := base << lev
		study := &SolveModel{BuiltIn: sm.BuiltIn, N: n, Workers: sm.Workers}
		topo, err := buildMesh(study)
		if err != nil {
			panic(err)
		}
		// The study always runs the benchmark boundary conditions the
		// reference fields solve.
		bench := InputParameters.Default()
		bench.Solver = ip.Solver
		bench.Order = ip.Order
		bench.QuadratureDegree = ip.QuadratureDegree
		p, err := problem(topo, study, bench)
		if err != nil {
			panic(err)
		}
		u, err := p.Run()
		if err != nil {
			panic(err)
		}
		e, err := u.L2Error(exact, 4)
		if err != nil {
			panic(err)
		}
		csv += fmt.Sprintf("%g,%g\n", 1/float64(n), e)
	}
	fmt.Print(csv)
	if len(sm.OutFile) != 0 {
		if err := os.WriteFile(sm.OutFile, []byte(csv), 0644); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote study to %s\n", sm.OutFile)
	}
}
