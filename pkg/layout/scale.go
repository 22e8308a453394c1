package layout

import (
	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

// PointScale maps the ordinal levels onto evenly spaced positions between
// Start and End (inclusive, no outer padding). End may be smaller than Start
// for an inverted axis.
type PointScale struct {
	Start float64
	End   float64
}

// Step is the distance between two adjacent levels.
func (s PointScale) Step() float64 {
	n := len(model.Levels())
	if n < 2 {
		return 0
	}
	return (s.End - s.Start) / float64(n-1)
}

// Map returns the position of l. ok is false for unknown levels.
func (s PointScale) Map(l model.Level) (pos float64, ok bool) {
	idx := l.Index()
	if idx < 0 {
		return 0, false
	}
	return s.Start + float64(idx)*s.Step(), true
}

// Ticks returns the position of every level in domain order.
func (s PointScale) Ticks() []Tick {
	levels := model.Levels()
	ticks := make([]Tick, 0, len(levels))
	for _, l := range levels {
		pos, _ := s.Map(l)
		ticks = append(ticks, Tick{Level: l, Pos: pos})
	}
	return ticks
}

// Tick is one labeled position on an axis.
type Tick struct {
	Level model.Level
	Pos   float64
}

// XScale maps interest onto the horizontal axis.
func XScale(cfg config.Config) PointScale {
	return PointScale{
		Start: cfg.Margin.Left + cfg.Offsets.XInset,
		End:   float64(cfg.Canvas.Width) - cfg.Margin.Right - cfg.Offsets.XInset,
	}
}

// YScale maps influence onto the vertical axis, Bajo at the bottom.
func YScale(cfg config.Config) PointScale {
	return PointScale{
		Start: float64(cfg.Canvas.Height) - cfg.Margin.Bottom,
		End:   cfg.Margin.Top,
	}
}
