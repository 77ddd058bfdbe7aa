package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing the h,L2 rows of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	cs := readCSV(csvFile)
	cs.Print()
}

type ConvergenceStudy struct {
	h, L2 []float64
}

func (cs *ConvergenceStudy) Add(h, L2 float64) {
	cs.h = append(cs.h, h)
	cs.L2 = append(cs.L2, L2)
}

// Orders is the observed convergence order between each refinement pair,
// log(e1/e2) / log(h1/h2).
func (cs *ConvergenceStudy) Orders() (orders []float64) {
	for i := 1; i < len(cs.h); i++ {
		orders = append(orders,
			math.Log(cs.L2[i-1]/cs.L2[i])/math.Log(cs.h[i-1]/cs.h[i]))
	}
	return
}

func (cs *ConvergenceStudy) Print() {
	fmt.Printf("%10s %12s %8s\n", "h", "L2", "order")
	orders := cs.Orders()
	for i := range cs.h {
		if i == 0 {
			fmt.Printf("%10.5f %12.5e %8s\n", cs.h[i], cs.L2[i], "-")
			continue
		}
		fmt.Printf("%10.5f %12.5e %8.3f\n", cs.h[i], cs.L2[i], orders[i-1])
	}
}

func readCSV(csvFile string) (cs *ConvergenceStudy) {
	var (
		records [][]string
		err     error
		f       *os.File
		h, L2   float64
	)
	cs = &ConvergenceStudy{}
	if f, err = os.Open(csvFile); err != nil {
		panic(err)
	}
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		_, _ = fmt.Sscanf(rec[0], "%f", &h)
		_, _ = fmt.Sscanf(rec[1], "%f", &L2)
		cs.Add(h, L2)
	}
	return
}
