package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// lcg is the linear congruential generator used to jiggle coincident
// bodies. It is seeded identically for every simulation so layouts are
// reproducible.
type lcg struct{ s uint64 }

const (
	lcgA = 1664525
	lcgC = 1013904223
	lcgM = 1 << 32
)

func newLCG() *lcg { return &lcg{s: 1} }

func (g *lcg) next() float64 {
	g.s = (lcgA*g.s + lcgC) % lcgM
	return float64(g.s) / lcgM
}

// jiggle returns a tiny non-zero offset.
func (g *lcg) jiggle() float64 {
	return (g.next() - 0.5) * 1e-6
}

// applyAxisPull nudges velocities toward the targets, scaled by alpha.
func applyAxisPull(bodies []Body, xStrength, yStrength, alpha float64) {
	for i := range bodies {
		b := &bodies[i]
		b.VX += (b.TargetX - b.X) * xStrength * alpha
		b.VY += (b.TargetY - b.Y) * yStrength * alpha
	}
}

// applyCollide separates bodies whose predicted positions overlap. Every
// body has the same radius, so each side of a pair takes half the push.
// The force is not scaled by alpha.
func applyCollide(bodies []Body, radius float64, rng *lcg) {
	if radius <= 0 {
		return
	}
	r := 2 * radius
	for i := range bodies {
		bi := &bodies[i]
		pi := r2.Add(bi.pos(), bi.vel())
		for j := i + 1; j < len(bodies); j++ {
			bj := &bodies[j]
			d := r2.Sub(pi, r2.Add(bj.pos(), bj.vel()))
			l := r2.Norm2(d)
			if l >= r*r {
				continue
			}
			if d.X == 0 {
				d.X = rng.jiggle()
				l += d.X * d.X
			}
			if d.Y == 0 {
				d.Y = rng.jiggle()
				l += d.Y * d.Y
			}
			l = math.Sqrt(l)
			push := r2.Scale((r-l)/l*0.5, d)
			bi.VX += push.X
			bi.VY += push.Y
			bj.VX -= push.X
			bj.VY -= push.Y
		}
	}
}
