/*
Package writefiles exports meshes and nodal fields for visualization. The
format is legacy ASCII VTK, an unstructured grid of the top dimensional
cells with one POINT_DATA scalar per attached field, which ParaView and
VisIt both open directly.
*/
package writefiles

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/notargets/gofea/element"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/mesh"
)

// Field is one nodal scalar, a value per mesh vertex in vertex order.
// Function.Sample produces exactly this layout.
type Field struct {
	Name   string
	Values []float64
}

// vtk legacy cell type codes
var vtkCellType = map[element.Shape]int{
	element.Line: 3,
	element.Tri:  5,
	element.Tet:  10,
}

// WriteVTK writes the mesh and fields to w as a legacy ASCII VTK
// unstructured grid. Coordinates are padded to three components, which the
// format requires.
func WriteVTK(w io.Writer, topo *mesh.Topology, title string, fields ...Field) (err error) {
	var (
		nv = topo.NumVertices()
		nc = topo.NumCells()
	)
	for _, f := range fields {
		if len(f.Values) != nv {
			return &fespace.DimensionMismatchError{
				What: "field " + f.Name, Want: nv, Got: len(f.Values),
			}
		}
	}
	for c := 0; c < nc; c++ {
		if _, ok := vtkCellType[topo.CellShape(c)]; !ok {
			return fmt.Errorf("no VTK cell type for shape %v", topo.CellShape(c))
		}
	}
	if title == "" {
		title = "unstructured scalar field"
	}
	bw := bufio.NewWriter(w)

	// Header
	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\n")
	fmt.Fprintf(bw, "%s\n", title)
	fmt.Fprintf(bw, "ASCII\n")
	fmt.Fprintf(bw, "DATASET UNSTRUCTURED_GRID\n")

	// Points, always three components
	fmt.Fprintf(bw, "POINTS %d double\n", nv)
	for i := 0; i < nv; i++ {
		var xyz [3]float64
		copy(xyz[:], topo.VertexCoords(i))
		fmt.Fprintf(bw, "%g %g %g\n", xyz[0], xyz[1], xyz[2])
	}

	// Cells with their vertex counts up front
	size := 0
	for c := 0; c < nc; c++ {
		size += 1 + len(topo.CellVertices(c))
	}
	fmt.Fprintf(bw, "CELLS %d %d\n", nc, size)
	for c := 0; c < nc; c++ {
		verts := topo.CellVertices(c)
		fmt.Fprintf(bw, "%d", len(verts))
		for _, v := range verts {
			fmt.Fprintf(bw, " %d", v)
		}
		fmt.Fprintf(bw, "\n")
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", nc)
	for c := 0; c < nc; c++ {
		fmt.Fprintf(bw, "%d\n", vtkCellType[topo.CellShape(c)])
	}

	// Nodal scalars
	if len(fields) != 0 {
		fmt.Fprintf(bw, "POINT_DATA %d\n", nv)
		for _, f := range fields {
			fmt.Fprintf(bw, "SCALARS %s double 1\n", f.Name)
			fmt.Fprintf(bw, "LOOKUP_TABLE default\n")
			for _, v := range f.Values {
				fmt.Fprintf(bw, "%g\n", v)
			}
		}
	}
	return bw.Flush()
}

// WriteVTKFile creates filename and writes the mesh and fields into it.
func WriteVTKFile(filename string, topo *mesh.Topology, title string, fields ...Field) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteVTK(file, topo, title, fields...)
}
