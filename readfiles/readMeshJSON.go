/*
Package readfiles loads meshes from external files. The native format is a
small JSON document,

	{
	  "vertices": [[0,0], [1,0], [0,1]],
	  "cells":    {"2": [[0,1,2]]},
	  "tags":     {"boundary": [[1,0], [1,1]]}
	}

with cells keyed by entity dimension and tags listing [dim, index] pairs.
YAML input parses too, JSON being a subset of it.
*/
package readfiles

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ghodss/yaml"

	"github.com/notargets/gofea/mesh"
)

// meshFile is the on-disk schema. JSON object keys are strings, so the
// triangle list of a 2D mesh sits under "2".
type meshFile struct {
	Vertices [][]float64        `json:"vertices"`
	Cells    map[string][][]int `json:"cells"`
	Tags     map[string][][]int `json:"tags,omitempty"`
}

// ParseMeshJSON decodes a mesh document into raw mesh data without
// building the topology.
func ParseMeshJSON(b []byte) (d mesh.Data, err error) {
	var mf meshFile
	if err = yaml.Unmarshal(b, &mf); err != nil {
		return d, &mesh.FormatError{What: "mesh file", Err: err}
	}
	if len(mf.Vertices) == 0 {
		return d, &mesh.FormatError{What: "mesh file lists no vertices"}
	}
	d.Vertices = mf.Vertices
	d.Entities = make(map[int][][]int, len(mf.Cells))
	for key, ents := range mf.Cells {
		dim, aerr := strconv.Atoi(key)
		if aerr != nil {
			return mesh.Data{}, &mesh.FormatError{
				What: fmt.Sprintf("cell dimension key %q", key),
				Err:  aerr,
			}
		}
		d.Entities[dim] = ents
	}
	if len(mf.Tags) != 0 {
		d.Tags = make(map[string][]mesh.TaggedEntity, len(mf.Tags))
		for name, pairs := range mf.Tags {
			tagged := make([]mesh.TaggedEntity, len(pairs))
			for i, p := range pairs {
				if len(p) != 2 {
					return mesh.Data{}, &mesh.FormatError{What: fmt.Sprintf(
						"tag %q entry %d: want [dim, index], got %d numbers",
						name, i, len(p))}
				}
				tagged[i] = mesh.TaggedEntity{Dim: p[0], Index: p[1]}
			}
			d.Tags[name] = tagged
		}
	}
	return d, nil
}

// ReadMeshJSON loads a mesh file and builds its topology.
func ReadMeshJSON(filename string) (t *mesh.Topology, err error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	d, err := ParseMeshJSON(b)
	if err != nil {
		return nil, err
	}
	return mesh.New(d)
}
