package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/layout"
)

// Grid maps canvas pixels onto terminal cells.
type Grid struct {
	Cols, Rows    int
	Width, Height float64
}

// NewGrid sizes a grid for the configured canvas.
func NewGrid(cfg config.Config, cols, rows int) Grid {
	return Grid{
		Cols:   max(cols, 1),
		Rows:   max(rows, 1),
		Width:  float64(cfg.Canvas.Width),
		Height: float64(cfg.Canvas.Height),
	}
}

// CellSize returns the canvas extent of one cell.
func (g Grid) CellSize() (w, h float64) {
	return g.Width / float64(g.Cols), g.Height / float64(g.Rows)
}

// Cell returns the cell containing canvas point (x, y), clamped to the grid.
func (g Grid) Cell(x, y float64) (col, row int) {
	cw, ch := g.CellSize()
	col = clampInt(int(math.Floor(x/cw)), 0, g.Cols-1)
	row = clampInt(int(math.Floor(y/ch)), 0, g.Rows-1)
	return col, row
}

// Point returns the canvas point at the center of a cell.
func (g Grid) Point(col, row int) (x, y float64) {
	cw, ch := g.CellSize()
	return (float64(col) + 0.5) * cw, (float64(row) + 0.5) * ch
}

// Contains reports whether (col, row) is on the grid.
func (g Grid) Contains(col, row int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellAxis
	cellLabel
	cellNode
	cellSelected
)

type cell struct {
	ch    string
	kind  cellKind
	group string
}

// canvas is a character raster built from the matrix geometry.
type canvas struct {
	grid  Grid
	cells [][]cell
}

func newCanvas(g Grid) *canvas {
	c := &canvas{grid: g, cells: make([][]cell, g.Rows)}
	for r := range c.cells {
		row := make([]cell, g.Cols)
		for i := range row {
			row[i] = cell{ch: " "}
		}
		c.cells[r] = row
	}
	return c
}

func (c *canvas) set(col, row int, ch string, kind cellKind, group string) {
	if !c.grid.Contains(col, row) {
		return
	}
	c.cells[row][col] = cell{ch: ch, kind: kind, group: group}
}

func (c *canvas) free(col, row int) bool {
	return c.grid.Contains(col, row) && c.cells[row][col].kind == cellEmpty
}

// text writes s starting at col, one cell per rune, skipping occupied cells
// unless overwrite is set.
func (c *canvas) text(col, row int, s string, kind cellKind, overwrite bool) {
	for _, r := range s {
		w := max(runewidth.RuneWidth(r), 1)
		if overwrite || (c.free(col, row) && (w == 1 || c.free(col+1, row))) {
			c.set(col, row, string(r), kind, "")
			if w == 2 {
				// Wide runes cover the next column too.
				c.set(col+1, row, "", kind, "")
			}
		}
		col += w
	}
}

// drawMatrix renders axes, tick labels, nodes and node labels.
func drawMatrix(cfg config.Config, g Grid, bodies []layout.Body, selected int) *canvas {
	c := newCanvas(g)
	xs, ys := layout.XScale(cfg), layout.YScale(cfg)

	axisCol, _ := g.Cell(cfg.PlotLeft(), 0)
	_, axisRow := g.Cell(0, cfg.PlotBottom())
	x0, _ := g.Cell(xs.Start, 0)
	x1, _ := g.Cell(xs.End, 0)
	_, y0 := g.Cell(0, ys.End)
	_, y1 := g.Cell(0, ys.Start)

	for col := x0; col <= x1; col++ {
		c.set(col, axisRow, "─", cellAxis, "")
	}
	for row := y0; row <= y1; row++ {
		c.set(axisCol, row, "│", cellAxis, "")
	}
	for _, t := range xs.Ticks() {
		col, _ := g.Cell(t.Pos, 0)
		c.set(col, axisRow, "┬", cellAxis, "")
		label := string(t.Level)
		c.text(col-runewidth.StringWidth(label)/2, axisRow+1, label, cellAxis, true)
	}
	for _, t := range ys.Ticks() {
		_, row := g.Cell(0, t.Pos)
		c.set(axisCol, row, "┤", cellAxis, "")
		label := string(t.Level)
		c.text(axisCol-1-runewidth.StringWidth(label), row, label, cellAxis, true)
	}

	// Axis titles: interest centered under the tick labels, or after the last
	// tick label when the grid has no row left; influence above the y axis.
	xTitle := cfg.Labels.XAxis
	if axisRow+2 < g.Rows {
		c.text((x0+x1)/2-runewidth.StringWidth(xTitle)/2, axisRow+2, xTitle, cellAxis, true)
	} else {
		c.text(x1+3, min(axisRow+1, g.Rows-1), xTitle, cellAxis, true)
	}
	c.text(max(axisCol-runewidth.StringWidth(cfg.Labels.YAxis)/2, 0), max(y0-1, 0), cfg.Labels.YAxis, cellAxis, true)

	for i, b := range bodies {
		col, row := g.Cell(b.X, b.Y)
		kind := cellNode
		if i == selected {
			kind = cellSelected
		}
		c.set(col, row, "●", kind, b.Node.Group)
	}

	// Labels go under each node when there is room, truncated so they never
	// run into a neighbor.
	cw, _ := g.CellSize()
	maxLabel := max(int(2*cfg.Forces.CollideRadius/cw), 3)
	for _, b := range bodies {
		col, row := g.Cell(b.X, b.Y)
		label := runewidth.Truncate(b.Node.ID, maxLabel, "…")
		start := col - runewidth.StringWidth(label)/2
		c.text(start, row+1, label, cellLabel, false)
	}
	return c
}

// render converts the raster to styled lines, batching runs of equal style.
func (c *canvas) render(t Theme) string {
	var sb strings.Builder
	for r, row := range c.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		var cur cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(t.styleFor(cur).Render(run.String()))
			run.Reset()
		}
		for i, cl := range row {
			if i == 0 || cl.kind != cur.kind || cl.group != cur.group {
				flush()
				cur = cl
			}
			run.WriteString(cl.ch)
		}
		flush()
	}
	return sb.String()
}

func (t Theme) styleFor(cl cell) lipgloss.Style {
	switch cl.kind {
	case cellAxis:
		return t.Axis
	case cellLabel:
		return t.Label
	case cellNode:
		return t.GroupStyle(cl.group)
	case cellSelected:
		return t.GroupStyle(cl.group).Inherit(t.Selected)
	default:
		return t.Base
	}
}
