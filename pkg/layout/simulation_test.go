package layout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

func node(id string, interest, influence model.Level) model.Node {
	return model.Node{ID: id, Group: "Colonias", Interest: interest, Influence: influence}
}

func TestSimulation_EmptyConvergesImmediately(t *testing.T) {
	sim := New(config.DefaultConfig(), nil)
	if !sim.Done() {
		t.Fatal("empty simulation should be done before the first step")
	}
	if sim.Step() {
		t.Error("Step() on empty simulation should report no more work")
	}

	calls := 0
	if err := sim.Run(context.Background(), func(*Simulation) { calls++ }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 0 || sim.Ticks() != 0 {
		t.Errorf("expected no ticks, got calls=%d ticks=%d", calls, sim.Ticks())
	}
}

func TestSimulation_TerminatesOnDecaySchedule(t *testing.T) {
	cfg := config.DefaultConfig()
	sim := New(cfg, []model.Node{node("a", model.LevelHigh, model.LevelLow)})

	calls := 0
	if err := sim.Run(context.Background(), func(*Simulation) { calls++ }); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// alpha = 0.95^n drops below 0.001 at n = 135
	if sim.Ticks() != 135 {
		t.Errorf("ticks = %d, want 135", sim.Ticks())
	}
	if calls != sim.Ticks() {
		t.Errorf("onTick called %d times for %d ticks", calls, sim.Ticks())
	}
	if sim.Alpha() >= cfg.Forces.AlphaMin {
		t.Errorf("alpha %v should be below alpha_min", sim.Alpha())
	}
	if sim.Step() {
		t.Error("Step() after convergence should be a no-op")
	}
}

func TestSimulation_SingleNodeReachesTarget(t *testing.T) {
	bodies, err := Resolve(context.Background(), config.DefaultConfig(),
		[]model.Node{node("solo", model.LevelMedium, model.LevelMedium)})
	if err != nil {
		t.Fatal(err)
	}
	b := bodies[0]
	if d := math.Hypot(b.X-b.TargetX, b.Y-b.TargetY); d > 1 {
		t.Errorf("solo node ended %.2fpx from target", d)
	}
	if b.VX != 0 || b.VY != 0 {
		t.Error("velocities should be zeroed after convergence")
	}
}

func TestSimulation_SharedTargetSeparates(t *testing.T) {
	nodes := []model.Node{
		node("a", model.LevelMedium, model.LevelMedium),
		node("b", model.LevelMedium, model.LevelMedium),
		node("c", model.LevelMedium, model.LevelMedium),
	}
	bodies, err := Resolve(context.Background(), config.DefaultConfig(), nodes)
	if err != nil {
		t.Fatal(err)
	}
	if sep := MinSeparation(bodies); sep < 40 {
		t.Errorf("min separation %.2f < 40", sep)
	}

	// The cluster stays centered near the shared target.
	var cx, cy float64
	for _, b := range bodies {
		cx += b.X
		cy += b.Y
	}
	cx /= 3
	cy /= 3
	if math.Hypot(cx-440, cy-385) > 15 {
		t.Errorf("cluster centroid (%.1f, %.1f) drifted from target (440, 385)", cx, cy)
	}
}

func TestSimulation_Deterministic(t *testing.T) {
	nodes := []model.Node{
		node("a", model.LevelHigh, model.LevelHigh),
		node("b", model.LevelHigh, model.LevelHigh),
		node("c", model.LevelLow, model.LevelMedium),
	}
	cfg := config.DefaultConfig()
	first, err := Resolve(context.Background(), cfg, nodes)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve(context.Background(), cfg, nodes)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].X != second[i].X || first[i].Y != second[i].Y {
			t.Fatalf("body %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSimulation_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(config.DefaultConfig(), []model.Node{node("a", model.LevelLow, model.LevelLow)})
	err := sim.Run(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sim.Done() {
		t.Error("cancelled simulation should not be marked done")
	}
}

func TestSimulation_StepIsIncremental(t *testing.T) {
	sim := New(config.DefaultConfig(), []model.Node{node("a", model.LevelLow, model.LevelHigh)})
	x0 := sim.Bodies()[0].X
	if !sim.Step() {
		t.Fatal("first step should request more ticks")
	}
	if sim.Ticks() != 1 {
		t.Errorf("ticks = %d, want 1", sim.Ticks())
	}
	if sim.Bodies()[0].X == x0 {
		t.Error("a step should move the body")
	}
}

func TestSimulation_UnclampedStillSeparates(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Forces.ClampToPlot = false
	nodes := []model.Node{
		node("a", model.LevelHigh, model.LevelHigh),
		node("b", model.LevelHigh, model.LevelHigh),
	}
	bodies, err := Resolve(context.Background(), cfg, nodes)
	if err != nil {
		t.Fatal(err)
	}
	if sep := MinSeparation(bodies); sep < 40 {
		t.Errorf("min separation %.2f < 40", sep)
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	if !b.Contains(10, 0, 0) {
		t.Error("edge should be inside")
	}
	if b.Contains(10.5, 5, 0.1) {
		t.Error("point beyond slack should be outside")
	}
}

func TestMinSeparation_FewerThanTwo(t *testing.T) {
	if !math.IsInf(MinSeparation(nil), 1) {
		t.Error("expected +Inf for no bodies")
	}
}

// TestResolve_Properties checks the converged layout for arbitrary inputs:
// circles never overlap and every center stays inside the plot area.
func TestResolve_Properties(t *testing.T) {
	cfg := config.DefaultConfig()
	bounds := PlotBounds(cfg)
	levels := model.Levels()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 10).Draw(t, "n")
		nodes := make([]model.Node, n)
		for i := range nodes {
			nodes[i] = model.Node{
				ID:        fmt.Sprintf("n%d", i),
				Group:     rapid.SampledFrom([]string{"Colonias", "Municipalidad", "Otro"}).Draw(t, "group"),
				Interest:  rapid.SampledFrom(levels).Draw(t, "interest"),
				Influence: rapid.SampledFrom(levels).Draw(t, "influence"),
			}
		}

		sim := New(cfg, nodes)
		if err := sim.Run(context.Background(), nil); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !sim.Done() {
			t.Fatal("simulation did not converge")
		}

		bodies := sim.Bodies()
		if len(bodies) != n {
			t.Fatalf("got %d bodies for %d nodes", len(bodies), n)
		}
		if sep := MinSeparation(bodies); sep < 2*cfg.Style.NodeRadius {
			t.Fatalf("circles overlap: min separation %.2f", sep)
		}
		for _, b := range bodies {
			if !bounds.Contains(b.X, b.Y, 1e-9) {
				t.Fatalf("%s at (%.2f, %.2f) outside plot area %+v", b.Node.ID, b.X, b.Y, bounds)
			}
		}
	})
}
