// Package testutil provides stakeholder fixtures for tests.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/stakemap/pkg/model"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed          int64    // Random seed for determinism (0 = fixed default)
	IDPrefix      string   // Prefix for node IDs (default: "actor")
	Groups        []string // Group mix (nil = the three default groups)
	IncludeDetail bool     // Fill rol and estrategia
}

// DefaultGroups are the groups shipped in the default config.
var DefaultGroups = []string{"Socios estratégicos", "Municipalidad", "Colonias"}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		IDPrefix: "actor",
		Groups:   DefaultGroups,
	}
}

// Generator creates stakeholder fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "actor"
	}
	if len(cfg.Groups) == 0 {
		cfg.Groups = DefaultGroups
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) node(i int, interest, influence model.Level) model.Node {
	n := model.Node{
		ID:        fmt.Sprintf("%s-%d", g.cfg.IDPrefix, i),
		Group:     g.cfg.Groups[g.rng.Intn(len(g.cfg.Groups))],
		Interest:  interest,
		Influence: influence,
	}
	if g.cfg.IncludeDetail {
		n.Role = fmt.Sprintf("Rol %d", i)
		n.Strategy = fmt.Sprintf("Estrategia %d", i)
	}
	return n
}

// Cluster puts n stakeholders in the same matrix cell, the worst case for
// collision resolution.
func (g *Generator) Cluster(n int, interest, influence model.Level) []model.Node {
	nodes := make([]model.Node, n)
	for i := range nodes {
		nodes[i] = g.node(i, interest, influence)
	}
	return nodes
}

// Grid places perCell stakeholders in each of the nine cells.
func (g *Generator) Grid(perCell int) []model.Node {
	levels := model.Levels()
	nodes := make([]model.Node, 0, perCell*len(levels)*len(levels))
	for _, influence := range levels {
		for _, interest := range levels {
			for k := 0; k < perCell; k++ {
				nodes = append(nodes, g.node(len(nodes), interest, influence))
			}
		}
	}
	return nodes
}

// Random draws n stakeholders with uniform levels.
func (g *Generator) Random(n int) []model.Node {
	levels := model.Levels()
	nodes := make([]model.Node, n)
	for i := range nodes {
		nodes[i] = g.node(i, levels[g.rng.Intn(len(levels))], levels[g.rng.Intn(len(levels))])
	}
	return nodes
}

// ToJSON encodes nodes as the input array format.
func ToJSON(nodes []model.Node) string {
	data, err := json.Marshal(nodes)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// QuickCluster creates a cluster fixture with default settings.
func QuickCluster(n int) []model.Node {
	return NewDefault().Cluster(n, model.LevelHigh, model.LevelHigh)
}

// QuickGrid creates a grid fixture with default settings.
func QuickGrid(perCell int) []model.Node {
	return NewDefault().Grid(perCell)
}

// Single returns one fully described stakeholder.
func Single() []model.Node {
	return []model.Node{{
		ID:        "Junta vecinal",
		Group:     "Colonias",
		Interest:  model.LevelHigh,
		Influence: model.LevelLow,
		Role:      "Representa a los vecinos",
		Strategy:  "Mantener informado",
	}}
}
