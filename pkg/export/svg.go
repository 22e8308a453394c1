package export

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ajstarks/svgo"

	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/metrics"
)

// RenderSVG writes the scene as a standalone SVG document. Each node is a
// <g class="node"> carrying a <title>, so viewers show the tooltip natively.
func RenderSVG(w io.Writer, s Scene) error {
	defer metrics.Timer(metrics.SVGRender)()
	start := time.Now()

	canvas := svg.New(w)
	canvas.Start(s.Width, s.Height, `id="matrix"`)
	canvas.Rect(0, 0, s.Width, s.Height, fmt.Sprintf("fill:%s", css(s.Background)))

	canvas.Group(`class="axes"`)
	for _, l := range s.Axes {
		canvas.Line(px(l.X1), px(l.Y1), px(l.X2), px(l.Y2),
			fmt.Sprintf("stroke:%s;stroke-width:%g", css(l.Color), l.Width))
	}
	for _, t := range s.AxisText {
		svgText(canvas, t)
	}
	canvas.Gend()

	for i, c := range s.Nodes {
		canvas.Group(`class="node"`, fmt.Sprintf(`data-index="%d"`, i))
		canvas.Title(c.Tooltip.Text())
		canvas.Circle(px(c.X), px(c.Y), px(c.R),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", css(c.Fill), css(c.Stroke), c.StrokeWidth))
		canvas.Gend()
	}

	canvas.Group(`class="labels"`)
	for _, t := range s.NodeLabels {
		svgText(canvas, t)
	}
	canvas.Gend()

	canvas.Group(`class="legend"`)
	for i, c := range s.Swatches {
		canvas.Circle(px(c.X), px(c.Y), px(c.R), fmt.Sprintf("fill:%s", css(c.Fill)))
		if i < len(s.LegendText) {
			svgText(canvas, s.LegendText[i])
		}
	}
	canvas.Gend()

	canvas.End()
	debug.LogTiming("svg render", time.Since(start))
	return nil
}

func svgText(canvas *svg.SVG, t Text) {
	style := fmt.Sprintf("fill:%s;font-size:%gpx;font-family:sans-serif;text-anchor:%s",
		css(t.Color), t.Size, t.Anchor.svg())
	if t.Bold {
		style += ";font-weight:bold"
	}
	x, y := px(t.X), px(t.Y)
	if t.Rotate != 0 {
		canvas.Text(x, y, t.Content, style, fmt.Sprintf(`transform="rotate(%g %d %d)"`, t.Rotate, x, y))
		return
	}
	canvas.Text(x, y, t.Content, style)
}

func px(v float64) int {
	return int(math.Round(v))
}
