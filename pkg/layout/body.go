package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

// Body is a node's simulated state. Target is fixed once computed; position
// and velocity are only written by the Simulation.
type Body struct {
	Node    model.Node
	TargetX float64
	TargetY float64
	X, Y    float64
	VX, VY  float64
}

func (b *Body) pos() r2.Vec { return r2.Vec{X: b.X, Y: b.Y} }
func (b *Body) vel() r2.Vec { return r2.Vec{X: b.VX, Y: b.VY} }

func (b *Body) setPos(p r2.Vec) {
	b.X, b.Y = p.X, p.Y
}

// Distance returns the Euclidean distance between two body centers.
func Distance(a, b Body) float64 {
	return r2.Norm(r2.Sub(a.pos(), b.pos()))
}

// initialAngle is the golden angle used for the phyllotaxis start positions.
var initialAngle = math.Pi * (3 - math.Sqrt(5))

const initialRadius = 10

// Targets builds one body per node with its target computed from the axis
// scales and the edge offsets. Start positions spiral around each target so
// coincident targets never start on the same point. Nodes with an unknown
// level are skipped.
func Targets(cfg config.Config, nodes []model.Node) []Body {
	xs, ys := XScale(cfg), YScale(cfg)
	bodies := make([]Body, 0, len(nodes))
	for _, n := range nodes {
		tx, okX := xs.Map(n.Interest)
		ty, okY := ys.Map(n.Influence)
		if !okX || !okY {
			continue
		}
		if n.Interest == model.LevelLow {
			tx += cfg.Offsets.LowInterestX
		}
		if n.Influence == model.LevelLow {
			ty += cfg.Offsets.LowInfluenceY
		}

		i := float64(len(bodies))
		radius := initialRadius * math.Sqrt(0.5+i)
		angle := i * initialAngle
		bodies = append(bodies, Body{
			Node:    n,
			TargetX: tx,
			TargetY: ty,
			X:       tx + radius*math.Cos(angle),
			Y:       ty + radius*math.Sin(angle),
		})
	}
	return bodies
}
