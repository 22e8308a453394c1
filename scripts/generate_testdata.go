//go:build ignore

// generate_testdata.go writes sample stakeholder files for manual testing
// and benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/sample/grid.json     (one stakeholder per matrix cell)
//	testdata/sample/crowded.json  (40 stakeholders in Alto/Alto)
//	testdata/sample/random.json   (200 stakeholders, uniform levels)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/stakemap/pkg/model"
	"github.com/vanderheijden86/stakemap/pkg/testutil"
)

type datasetSpec struct {
	name  string
	desc  string
	nodes func(*testutil.Generator) []model.Node
}

var datasets = []datasetSpec{
	{"grid", "one stakeholder per cell", func(g *testutil.Generator) []model.Node { return g.Grid(1) }},
	{"crowded", "40 stakeholders in Alto/Alto", func(g *testutil.Generator) []model.Node {
		return g.Cluster(40, model.LevelHigh, model.LevelHigh)
	}},
	{"random", "200 stakeholders, uniform levels", func(g *testutil.Generator) []model.Node { return g.Random(200) }},
}

func main() {
	outputDir := filepath.Join("testdata", "sample")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for i, ds := range datasets {
		gen := testutil.New(testutil.GeneratorConfig{
			Seed:          int64(i + 1),
			IncludeDetail: true,
		})
		nodes := ds.nodes(gen)

		path := filepath.Join(outputDir, ds.name+".json")
		if err := os.WriteFile(path, []byte(testutil.ToJSON(nodes)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("  %s: %d stakeholders (%s)\n", path, len(nodes), ds.desc)
	}
}
