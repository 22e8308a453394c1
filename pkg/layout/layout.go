// Package layout places stakeholder nodes on the interest/influence matrix.
//
// Each node is assigned a target from two ordinal point scales, then a short
// force relaxation pulls it toward that target while a collision force keeps
// circles apart:
//
//	sim := layout.New(cfg, nodes)
//	for sim.Step() {
//	    redraw(sim.Bodies())
//	}
//
// The relaxation follows the usual velocity-Verlet scheme with a decaying
// alpha: it always terminates, after roughly log(alphaMin)/log(1-alphaDecay)
// ticks (about 135 with the defaults).
package layout

import (
	"context"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

// Resolve runs a full simulation for nodes and returns the converged bodies.
func Resolve(ctx context.Context, cfg config.Config, nodes []model.Node) ([]Body, error) {
	sim := New(cfg, nodes)
	if err := sim.Run(ctx, nil); err != nil {
		return nil, err
	}
	return sim.Bodies(), nil
}
