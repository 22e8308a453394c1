package export

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/layout"
	"github.com/vanderheijden86/stakemap/pkg/metrics"
	"github.com/vanderheijden86/stakemap/pkg/tooltip"
)

// Axis tick geometry, matching the usual d3 axis defaults.
const (
	tickSize    = 6
	tickPadding = 3
)

// Anchor is the horizontal alignment of a text run.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

func (a Anchor) svg() string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "start"
	}
}

// fraction is the share of the text width left of the anchor point.
func (a Anchor) fraction() float64 {
	switch a {
	case AnchorMiddle:
		return 0.5
	case AnchorEnd:
		return 1
	default:
		return 0
	}
}

// Line is a straight stroke.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          color.RGBA
	Width          float64
}

// Text is a run of text. Y is the baseline; Rotate is in degrees around
// (X, Y).
type Text struct {
	X, Y    float64
	Content string
	Size    float64
	Color   color.RGBA
	Anchor  Anchor
	Rotate  float64
	Bold    bool
}

// Circle is a filled disc with an optional stroke.
type Circle struct {
	ID          string
	X, Y, R     float64
	Fill        color.RGBA
	Stroke      color.RGBA
	StrokeWidth float64
	Tooltip     tooltip.Content
}

// Scene is the renderer-independent drawing of one matrix. Every sink draws
// the same Scene.
type Scene struct {
	Width      int
	Height     int
	Background color.RGBA
	Axes       []Line
	AxisText   []Text
	Nodes      []Circle
	NodeLabels []Text
	Swatches   []Circle
	LegendText []Text
}

// BuildScene lays out axes, node circles, labels and the legend for the
// converged bodies. Bodies are drawn in order, so later ones sit on top.
func BuildScene(cfg config.Config, bodies []layout.Body) (Scene, error) {
	defer metrics.Timer(metrics.SceneBuild)()
	start := time.Now()

	pal, err := newPalette(cfg)
	if err != nil {
		return Scene{}, err
	}

	s := Scene{
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		Background: pal.background,
	}
	s.addAxes(cfg, pal)

	st := cfg.Style
	for _, b := range bodies {
		fill, err := parseHex(cfg.GroupColorFor(b.Node.Group))
		if err != nil {
			return Scene{}, fmt.Errorf("group %q: %w", b.Node.Group, err)
		}
		s.Nodes = append(s.Nodes, Circle{
			ID:          b.Node.ID,
			X:           b.X,
			Y:           b.Y,
			R:           st.NodeRadius,
			Fill:        fill,
			Stroke:      pal.stroke,
			StrokeWidth: st.StrokeWidth,
			Tooltip:     tooltip.FromNode(b.Node),
		})
		s.NodeLabels = append(s.NodeLabels, Text{
			X:       b.X,
			Y:       b.Y + st.LabelOffset,
			Content: b.Node.ID,
			Size:    st.LabelFontSize,
			Color:   pal.text,
			Anchor:  AnchorMiddle,
		})
	}

	// Legend sits right of the plot, one row per configured group.
	lx := float64(cfg.Canvas.Width) - cfg.Margin.Right + st.LegendDX
	ly := cfg.Margin.Top
	for i, g := range cfg.Groups {
		fill, err := parseHex(g.Color)
		if err != nil {
			return Scene{}, fmt.Errorf("group %q: %w", g.Name, err)
		}
		y := ly + float64(i)*st.LegendRowGap
		s.Swatches = append(s.Swatches, Circle{X: lx, Y: y, R: st.LegendSwatch, Fill: fill})
		s.LegendText = append(s.LegendText, Text{
			X:       lx + 15,
			Y:       y + 5,
			Content: g.Name,
			Size:    st.LegendFontSize,
			Color:   pal.text,
		})
	}

	debug.LogTiming("scene build", time.Since(start))
	return s, nil
}

func (s *Scene) addAxes(cfg config.Config, pal palette) {
	st := cfg.Style
	xs, ys := layout.XScale(cfg), layout.YScale(cfg)
	axisY := cfg.PlotBottom()
	axisX := cfg.PlotLeft()

	// Domain paths with outer ticks.
	s.Axes = append(s.Axes,
		Line{X1: xs.Start, Y1: axisY, X2: xs.End, Y2: axisY, Color: pal.axis, Width: 1},
		Line{X1: xs.Start, Y1: axisY, X2: xs.Start, Y2: axisY + tickSize, Color: pal.axis, Width: 1},
		Line{X1: xs.End, Y1: axisY, X2: xs.End, Y2: axisY + tickSize, Color: pal.axis, Width: 1},
		Line{X1: axisX, Y1: ys.Start, X2: axisX, Y2: ys.End, Color: pal.axis, Width: 1},
		Line{X1: axisX - tickSize, Y1: ys.Start, X2: axisX, Y2: ys.Start, Color: pal.axis, Width: 1},
		Line{X1: axisX - tickSize, Y1: ys.End, X2: axisX, Y2: ys.End, Color: pal.axis, Width: 1},
	)

	for _, t := range xs.Ticks() {
		s.Axes = append(s.Axes, Line{X1: t.Pos, Y1: axisY, X2: t.Pos, Y2: axisY + tickSize, Color: pal.axis, Width: 1})
		s.AxisText = append(s.AxisText, Text{
			X:       t.Pos,
			Y:       axisY + tickSize + tickPadding + 0.71*st.AxisFontSize,
			Content: string(t.Level),
			Size:    st.AxisFontSize,
			Color:   pal.axis,
			Anchor:  AnchorMiddle,
		})
	}
	for _, t := range ys.Ticks() {
		s.Axes = append(s.Axes, Line{X1: axisX - tickSize, Y1: t.Pos, X2: axisX, Y2: t.Pos, Color: pal.axis, Width: 1})
		s.AxisText = append(s.AxisText, Text{
			X:       axisX - tickSize - tickPadding,
			Y:       t.Pos + 0.32*st.AxisFontSize,
			Content: string(t.Level),
			Size:    st.AxisFontSize,
			Color:   pal.axis,
			Anchor:  AnchorEnd,
		})
	}

	w, h := float64(cfg.Canvas.Width), float64(cfg.Canvas.Height)
	s.AxisText = append(s.AxisText,
		Text{X: w / 2, Y: h - 40, Content: cfg.Labels.XAxis, Size: st.TitleFontSize, Color: pal.text, Anchor: AnchorMiddle},
		Text{X: 30, Y: h / 2, Content: cfg.Labels.YAxis, Size: st.TitleFontSize, Color: pal.text, Anchor: AnchorMiddle, Rotate: -90},
	)

	if title := strings.TrimSpace(cfg.Output.Title); title != "" {
		s.AxisText = append(s.AxisText, Text{
			X:       w / 2,
			Y:       cfg.Margin.Top / 2,
			Content: title,
			Size:    st.TitleFontSize * 1.3,
			Color:   pal.text,
			Anchor:  AnchorMiddle,
			Bold:    true,
		})
	}
}

// palette holds the parsed style colors.
type palette struct {
	background color.RGBA
	stroke     color.RGBA
	text       color.RGBA
	axis       color.RGBA
}

func newPalette(cfg config.Config) (palette, error) {
	var p palette
	for _, f := range []struct {
		name string
		raw  string
		dst  *color.RGBA
	}{
		{"canvas.background", cfg.Canvas.Background, &p.background},
		{"style.stroke_color", cfg.Style.StrokeColor, &p.stroke},
		{"style.text_color", cfg.Style.TextColor, &p.text},
		{"style.axis_color", cfg.Style.AxisColor, &p.axis},
	} {
		c, err := parseHex(f.raw)
		if err != nil {
			return p, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// parseHex accepts #rgb and #rrggbb; the leading # is optional.
func parseHex(s string) (color.RGBA, error) {
	h := strings.TrimSpace(s)
	if !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	c, err := colorful.Hex(h)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
