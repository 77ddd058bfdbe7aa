package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML problem file. Absent keys keep the
// values Default fills in, so a file needs only the lines it changes.
type PoissonParameters struct {
	Title            string   `yaml:"Title"`
	Order            int      `yaml:"Order"`
	QuadratureDegree int      `yaml:"QuadratureDegree"`
	Solver           string   `yaml:"Solver"` // "sparse" or "dense"
	Workers          int      `yaml:"Workers"`
	DirichletTags    []string `yaml:"DirichletTags"`
	DirichletValue   float64  `yaml:"DirichletValue"`
	NeumannTags      []string `yaml:"NeumannTags"`
	NeumannFlux      float64  `yaml:"NeumannFlux"`
	SourceValue      float64  `yaml:"SourceValue"`
	Conductivity     float64  `yaml:"Conductivity"`
}

// Default is the unit Poisson benchmark: -lap(u) = 1 with u = 0 on the
// whole boundary, solved sparse at linear order.
func Default() *PoissonParameters {
	return &PoissonParameters{
		Title:         "Poisson benchmark",
		Order:         1,
		Solver:        "sparse",
		DirichletTags: []string{"boundary"},
		SourceValue:   1,
		Conductivity:  1,
	}
}

func (ip *PoissonParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *PoissonParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t= Order\n", ip.Order)
	fmt.Printf("[%d]\t\t\t= QuadratureDegree\n", ip.QuadratureDegree)
	fmt.Printf("[%s]\t\t= Solver\n", ip.Solver)
	fmt.Printf("[%d]\t\t\t= Workers\n", ip.Workers)
	fmt.Printf("%v\t= DirichletTags\n", ip.DirichletTags)
	fmt.Printf("%8.5f\t\t= DirichletValue\n", ip.DirichletValue)
	fmt.Printf("%v\t\t= NeumannTags\n", ip.NeumannTags)
	fmt.Printf("%8.5f\t\t= NeumannFlux\n", ip.NeumannFlux)
	fmt.Printf("%8.5f\t\t= SourceValue\n", ip.SourceValue)
	fmt.Printf("%8.5f\t\t= Conductivity\n", ip.Conductivity)
}
