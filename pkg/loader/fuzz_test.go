package loader_test

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/stakemap/pkg/loader"
)

// FuzzParseNodes checks that the parser never panics and only returns nodes
// that pass validation.
//
// Run with: go test -fuzz=FuzzParseNodes -fuzztime=1m ./pkg/loader/...
func FuzzParseNodes(f *testing.F) {
	seeds := []string{
		`[]`,
		``,
		`[{"id":"a","group":"Colonias","interest":"Alto","influence":"Bajo"}]`,
		`[{"id":"a","group":"Colonias","interest":"Alto","influence":"Bajo","rol":"x","estrategia":"y"}]`,
		`[{"id":"a"},{"id":"a"}]`,
		`[{"id":"a","group":3,"interest":"Alto","influence":"Bajo","rol":5,"estrategia":["x"]}]`,
		`[null, 1, "x", {}]`,
		`{"id":"a"}`,
		`[{"id":"a","interest":"Alto",`,
		"\xEF\xBB\xBF[]",
		`[{"id":"\u0000","group":"","interest":"bajo","influence":"HIGH"}]`,
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		nodes, err := loader.ParseNodesWithOptions(strings.NewReader(input), loader.ParseOptions{
			WarningHandler: func(string) {},
		})
		if err != nil {
			return
		}
		seen := make(map[string]bool, len(nodes))
		for _, n := range nodes {
			if verr := n.Validate(); verr != nil {
				t.Fatalf("parser returned invalid node %+v: %v", n, verr)
			}
			if seen[n.ID] {
				t.Fatalf("parser returned duplicate id %q", n.ID)
			}
			seen[n.ID] = true
		}
	})
}
