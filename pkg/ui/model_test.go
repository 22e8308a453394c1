package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/model"
	"github.com/vanderheijden86/stakemap/pkg/testutil"
)

func newTestModel(t *testing.T, nodes []model.Node, opts Options) Model {
	t.Helper()
	if opts.GlamourStyle == "" {
		opts.GlamourStyle = "notty"
	}
	m := NewModel(config.DefaultConfig(), nodes, opts)
	m.theme = TestTheme()
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

// settle feeds frames until the model stops scheduling them.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 1000; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, frameMsg(time.Now()))
		if cmd == nil {
			return m
		}
	}
	t.Fatal("layout did not converge")
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_EmptyInput(t *testing.T) {
	m := newTestModel(t, nil, Options{})
	if cmd := m.Init(); cmd != nil {
		t.Error("empty input should not start the animation")
	}
	if !strings.Contains(m.View(), "no stakeholders") {
		t.Error("expected empty-state status in view")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Selected() != "" {
		t.Error("tab with no nodes should not select anything")
	}
}

func TestModel_FramesConverge(t *testing.T) {
	m := newTestModel(t, testutil.QuickCluster(5), Options{})
	if m.Init() == nil {
		t.Fatal("Init should schedule the first frame")
	}

	m = settle(t, m)
	if !m.Simulation().Done() {
		t.Error("simulation should be done after the last frame")
	}
	if !strings.Contains(m.status, "converged") {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_TabCyclesHover(t *testing.T) {
	nodes := testutil.QuickGrid(1)
	m := settle(t, newTestModel(t, nodes, Options{}))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Selected() != nodes[0].ID {
		t.Fatalf("Selected() = %q, want %q", m.Selected(), nodes[0].ID)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Selected() != nodes[len(nodes)-1].ID {
		t.Errorf("shift+tab should wrap, got %q", m.Selected())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Selected() != "" {
		t.Errorf("esc should hide the tooltip, got %q", m.Selected())
	}
}

func TestModel_TooltipInView(t *testing.T) {
	m := settle(t, newTestModel(t, testutil.Single(), Options{}))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	view := m.View()
	for _, want := range []string{"Junta vecinal", "Mantener", "Socios estratégicos"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_MouseHover(t *testing.T) {
	m := settle(t, newTestModel(t, testutil.Single(), Options{}))
	b := m.Simulation().Bodies()[0]
	col, row := m.grid.Cell(b.X, b.Y)

	m, _ = update(t, m, tea.MouseMsg{X: col, Y: row + headerHeight, Action: tea.MouseActionMotion})
	if m.Selected() != "Junta vecinal" {
		t.Fatalf("hover over node cell should show tooltip, got %q", m.Selected())
	}
	x, y := m.tracker.Position()
	px, py := m.grid.Point(col, row)
	if x != px || y != py {
		t.Errorf("tooltip at (%v, %v), want pointer (%v, %v)", x, y, px, py)
	}

	// Clicks are not hovers.
	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: headerHeight, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Selected() == "" {
		t.Error("press should not clear the hover")
	}

	m, _ = update(t, m, tea.MouseMsg{X: m.grid.Cols + 5, Y: 1, Action: tea.MouseActionMotion})
	if m.Selected() != "" {
		t.Error("leaving the plot should hide the tooltip")
	}
}

func TestModel_MouseLeaveKeepsKeyboardHover(t *testing.T) {
	m := settle(t, newTestModel(t, testutil.Single(), Options{}))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: headerHeight, Action: tea.MouseActionMotion})
	if m.Selected() == "" {
		t.Error("mouse motion over empty space should not hide a keyboard selection")
	}
}

func TestModel_Copy(t *testing.T) {
	var copied string
	m := settle(t, newTestModel(t, testutil.Single(), Options{
		Clipboard: func(s string) error { copied = s; return nil },
	}))

	m, cmd := update(t, m, keyRune('c'))
	if cmd != nil {
		t.Fatal("copy without hover should not run")
	}
	if !strings.Contains(m.status, "hover") {
		t.Errorf("status = %q", m.status)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd = update(t, m, keyRune('c'))
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	m, _ = update(t, m, cmd())
	if !strings.Contains(copied, "Rol: Representa a los vecinos") {
		t.Errorf("copied %q", copied)
	}
	if m.err != nil || !strings.Contains(m.status, "copied") {
		t.Errorf("status = %q err = %v", m.status, m.err)
	}
}

func TestModel_CopyError(t *testing.T) {
	m := settle(t, newTestModel(t, testutil.Single(), Options{
		Clipboard: func(string) error { return errors.New("no clipboard") },
	}))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := update(t, m, keyRune('c'))
	m, _ = update(t, m, cmd())
	if m.err == nil || !strings.Contains(m.View(), "no clipboard") {
		t.Errorf("expected clipboard error in view, err = %v", m.err)
	}
}

func TestModel_Export(t *testing.T) {
	out := filepath.Join(t.TempDir(), "preview.png")
	m := newTestModel(t, testutil.QuickGrid(1), Options{OutputPath: out})

	// Exporting mid-animation fast-forwards the layout first.
	m, cmd := update(t, m, keyRune('s'))
	if cmd == nil {
		t.Fatal("expected export command")
	}
	if !m.Simulation().Done() {
		t.Error("export should finish the layout")
	}
	if _, again := update(t, m, keyRune('s')); again != nil {
		t.Error("second export while saving should be ignored")
	}

	m, _ = update(t, m, cmd())
	if m.err != nil {
		t.Fatalf("export failed: %v", m.err)
	}
	if !strings.Contains(m.status, out) {
		t.Errorf("status = %q", m.status)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("export is not a PNG")
	}
}

func TestModel_HelpAndQuit(t *testing.T) {
	m := newTestModel(t, nil, Options{})
	m, _ = update(t, m, keyRune('?'))
	if !m.help.ShowAll {
		t.Error("? should expand help")
	}
	if !strings.Contains(m.View(), "hide tooltip") {
		t.Error("full help should list every binding")
	}

	_, cmd := update(t, m, keyRune('q'))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestModel_Resize(t *testing.T) {
	m := newTestModel(t, testutil.Single(), Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if m.grid.Cols != 80-sidePanelWidth-1 || m.grid.Rows != 24-headerHeight-footerHeight {
		t.Errorf("grid = %dx%d", m.grid.Cols, m.grid.Rows)
	}

	// Tiny terminals keep a usable minimum.
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 3})
	if m.grid.Cols < 20 || m.grid.Rows < 8 {
		t.Errorf("grid = %dx%d, want at least 20x8", m.grid.Cols, m.grid.Rows)
	}
}
