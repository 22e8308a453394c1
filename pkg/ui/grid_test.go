package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/layout"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

func TestGrid_CellAndPoint(t *testing.T) {
	g := NewGrid(config.DefaultConfig(), 100, 35)

	cw, ch := g.CellSize()
	if cw != 10 || ch != 20 {
		t.Fatalf("CellSize() = %v x %v, want 10 x 20", cw, ch)
	}

	tests := []struct {
		x, y     float64
		col, row int
	}{
		{0, 0, 0, 0},
		{15, 45, 1, 2},
		{999, 699, 99, 34},
		{-50, -50, 0, 0},
		{5000, 5000, 99, 34},
	}
	for _, tt := range tests {
		col, row := g.Cell(tt.x, tt.y)
		if col != tt.col || row != tt.row {
			t.Errorf("Cell(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, col, row, tt.col, tt.row)
		}
	}

	x, y := g.Point(1, 2)
	if x != 15 || y != 50 {
		t.Errorf("Point(1, 2) = (%v, %v), want (15, 50)", x, y)
	}
	if col, row := g.Cell(x, y); col != 1 || row != 2 {
		t.Errorf("Cell(Point(1, 2)) = (%d, %d)", col, row)
	}
}

func TestGrid_Contains(t *testing.T) {
	g := NewGrid(config.DefaultConfig(), 10, 5)
	if !g.Contains(0, 0) || !g.Contains(9, 4) {
		t.Error("corners should be on the grid")
	}
	if g.Contains(10, 0) || g.Contains(0, 5) || g.Contains(-1, 0) {
		t.Error("out of range cells reported as contained")
	}

	if z := NewGrid(config.DefaultConfig(), 0, -3); z.Cols != 1 || z.Rows != 1 {
		t.Errorf("degenerate grid = %dx%d, want 1x1", z.Cols, z.Rows)
	}
}

func plainLines(t *testing.T, c *canvas) []string {
	t.Helper()
	return strings.Split(ansi.Strip(c.render(TestTheme())), "\n")
}

func TestDrawMatrix_AxesAndTitles(t *testing.T) {
	cfg := config.DefaultConfig()
	g := NewGrid(cfg, 100, 35)
	lines := plainLines(t, drawMatrix(cfg, g, nil, -1))

	if len(lines) != 35 {
		t.Fatalf("rendered %d rows, want 35", len(lines))
	}
	out := strings.Join(lines, "\n")
	for _, want := range []string{"Bajo", "Medio", "Alto", cfg.Labels.XAxis, cfg.Labels.YAxis, "┬", "┤"} {
		if !strings.Contains(out, want) {
			t.Errorf("matrix missing %q", want)
		}
	}

	_, axisRow := g.Cell(0, cfg.PlotBottom())
	if !strings.Contains(lines[axisRow], "───") {
		t.Errorf("axis row %d has no x axis: %q", axisRow, lines[axisRow])
	}
}

func TestDrawMatrix_NodesAndSelection(t *testing.T) {
	cfg := config.DefaultConfig()
	g := NewGrid(cfg, 100, 35)
	bodies := []layout.Body{
		{Node: model.Node{ID: "alpha", Group: "Colonias"}, X: 300, Y: 300},
		{Node: model.Node{ID: "beta", Group: "Desconocido"}, X: 600, Y: 300},
	}

	c := drawMatrix(cfg, g, bodies, 1)
	col, row := g.Cell(300, 300)
	if cl := c.cells[row][col]; cl.ch != "●" || cl.kind != cellNode || cl.group != "Colonias" {
		t.Errorf("node cell = %+v", cl)
	}
	col, row = g.Cell(600, 300)
	if cl := c.cells[row][col]; cl.kind != cellSelected {
		t.Errorf("selected node kind = %v", cl.kind)
	}

	lines := plainLines(t, c)
	if !strings.Contains(lines[row+1], "alpha") || !strings.Contains(lines[row+1], "beta") {
		t.Errorf("labels missing under nodes: %q", lines[row+1])
	}
}

func TestDrawMatrix_LongLabelTruncated(t *testing.T) {
	cfg := config.DefaultConfig()
	g := NewGrid(cfg, 100, 35)
	long := strings.Repeat("Cámara de comercio ", 4)
	bodies := []layout.Body{{Node: model.Node{ID: long, Group: "Colonias"}, X: 400, Y: 300}}

	lines := plainLines(t, drawMatrix(cfg, g, bodies, -1))
	_, row := g.Cell(400, 300)
	if strings.Contains(lines[row+1], long) {
		t.Error("long label should be truncated")
	}
	if !strings.Contains(lines[row+1], "…") {
		t.Errorf("truncated label should end with an ellipsis: %q", lines[row+1])
	}
}

func TestCanvas_WideRunes(t *testing.T) {
	g := Grid{Cols: 6, Rows: 1, Width: 6, Height: 1}
	c := newCanvas(g)
	c.text(0, 0, "日本", cellLabel, false)

	lines := plainLines(t, c)
	if lines[0] != "日本  " {
		t.Errorf("wide runes rendered as %q", lines[0])
	}
}
