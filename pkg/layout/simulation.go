package layout

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/metrics"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

// Bounds is the rectangle body centers are kept inside.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether (x, y) lies inside b, with eps slack.
func (b Bounds) Contains(x, y, eps float64) bool {
	return x >= b.MinX-eps && x <= b.MaxX+eps && y >= b.MinY-eps && y <= b.MaxY+eps
}

func (b Bounds) clamp(body *Body) {
	if body.X < b.MinX {
		body.X, body.VX = b.MinX, 0
	} else if body.X > b.MaxX {
		body.X, body.VX = b.MaxX, 0
	}
	if body.Y < b.MinY {
		body.Y, body.VY = b.MinY, 0
	} else if body.Y > b.MaxY {
		body.Y, body.VY = b.MaxY, 0
	}
}

// PlotBounds returns the area inside the configured margins.
func PlotBounds(cfg config.Config) Bounds {
	return Bounds{
		MinX: cfg.PlotLeft(),
		MinY: cfg.PlotTop(),
		MaxX: cfg.PlotRight(),
		MaxY: cfg.PlotBottom(),
	}
}

// Params controls one simulation run.
type Params struct {
	XStrength     float64
	YStrength     float64
	CollideRadius float64
	AlphaDecay    float64
	AlphaMin      float64
	AlphaTarget   float64
	VelocityDecay float64
	Tolerance     float64
	SettlePasses  int
	Bounds        *Bounds
}

// ParamsFromConfig derives simulation parameters from cfg.
func ParamsFromConfig(cfg config.Config) Params {
	p := Params{
		XStrength:     cfg.Forces.XStrength,
		YStrength:     cfg.Forces.YStrength,
		CollideRadius: cfg.Forces.CollideRadius,
		AlphaDecay:    cfg.Forces.AlphaDecay,
		AlphaMin:      cfg.Forces.AlphaMin,
		VelocityDecay: cfg.Forces.VelocityDecay,
		Tolerance:     cfg.Forces.Tolerance,
		SettlePasses:  cfg.Forces.SettlePasses,
	}
	if cfg.Forces.ClampToPlot {
		b := PlotBounds(cfg)
		p.Bounds = &b
	}
	return p
}

// TickFunc is called after every simulation step.
type TickFunc func(s *Simulation)

// Simulation relaxes bodies toward their targets while keeping them apart.
// It is not safe for concurrent use; the caller owns the stepping goroutine.
type Simulation struct {
	bodies  []Body
	params  Params
	alpha   float64
	ticks   int
	rng     *lcg
	settled bool
}

// NewSimulation takes ownership of bodies.
func NewSimulation(bodies []Body, p Params) *Simulation {
	s := &Simulation{
		bodies: bodies,
		params: p,
		alpha:  1,
		rng:    newLCG(),
	}
	if len(bodies) == 0 {
		s.alpha = 0
		s.settled = true
	}
	return s
}

// New builds bodies for nodes and a simulation configured from cfg.
func New(cfg config.Config, nodes []model.Node) *Simulation {
	return NewSimulation(Targets(cfg, nodes), ParamsFromConfig(cfg))
}

// Bodies returns the live body slice. Callers must not modify it while the
// simulation is running.
func (s *Simulation) Bodies() []Body { return s.bodies }

// Alpha is the current temperature, decaying toward AlphaTarget.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Ticks is the number of steps taken so far.
func (s *Simulation) Ticks() int { return s.ticks }

// Done reports whether the layout has converged.
func (s *Simulation) Done() bool { return s.settled }

// Step advances the simulation by one tick and reports whether further
// ticks are needed. Once alpha falls below AlphaMin the settle pass runs and
// every subsequent call is a no-op.
func (s *Simulation) Step() bool {
	if s.settled {
		return false
	}

	p := s.params
	s.alpha += (p.AlphaTarget - s.alpha) * p.AlphaDecay

	applyAxisPull(s.bodies, p.XStrength, p.YStrength, s.alpha)
	applyCollide(s.bodies, p.CollideRadius, s.rng)

	keep := 1 - p.VelocityDecay
	for i := range s.bodies {
		b := &s.bodies[i]
		b.VX *= keep
		b.VY *= keep
		b.X += b.VX
		b.Y += b.VY
		if p.Bounds != nil {
			p.Bounds.clamp(b)
		}
	}
	s.ticks++

	if s.alpha < p.AlphaMin {
		s.settle()
		return false
	}
	return true
}

// Run steps the simulation to convergence, calling onTick after each step.
// It returns ctx.Err() if the context is cancelled first.
func (s *Simulation) Run(ctx context.Context, onTick TickFunc) error {
	defer metrics.Timer(metrics.Simulation)()
	start := time.Now()
	for !s.settled {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Step()
		if onTick != nil {
			onTick(s)
		}
	}
	debug.Log("simulation converged: %d bodies, %d ticks", len(s.bodies), s.ticks)
	debug.LogTiming("simulation", time.Since(start))
	return nil
}

// settle resolves residual overlap directly on positions and freezes the
// bodies. It stops early once no pair is closer than 2*CollideRadius minus
// Tolerance.
func (s *Simulation) settle() {
	defer metrics.Timer(metrics.Settle)()
	s.settled = true
	minDist := 2 * s.params.CollideRadius
	limit := minDist - s.params.Tolerance

	passes := 0
	for ; passes < s.params.SettlePasses && limit > 0; passes++ {
		moved := false
		for i := range s.bodies {
			for j := i + 1; j < len(s.bodies); j++ {
				if s.separate(&s.bodies[i], &s.bodies[j], minDist, limit) {
					moved = true
				}
			}
		}
		if !moved {
			break
		}
	}
	for i := range s.bodies {
		s.bodies[i].VX, s.bodies[i].VY = 0, 0
	}
	debug.Log("settle finished after %d passes", passes)
}

func (s *Simulation) separate(a, b *Body, minDist, limit float64) bool {
	d := r2.Sub(a.pos(), b.pos())
	dist := r2.Norm(d)
	if dist >= limit {
		return false
	}
	if dist == 0 {
		d = r2.Vec{X: s.rng.jiggle(), Y: s.rng.jiggle()}
		dist = r2.Norm(d)
	}
	shift := r2.Scale((minDist-dist)/(2*dist), d)
	a.setPos(r2.Add(a.pos(), shift))
	b.setPos(r2.Sub(b.pos(), shift))
	if s.params.Bounds != nil {
		s.params.Bounds.clamp(a)
		s.params.Bounds.clamp(b)
	}
	return true
}

// MinSeparation returns the smallest distance between any two bodies, or
// +Inf for fewer than two.
func MinSeparation(bodies []Body) float64 {
	best := math.Inf(1)
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			if d := Distance(bodies[i], bodies[j]); d < best {
				best = d
			}
		}
	}
	return best
}
