// Package ui is the terminal preview of the stakeholder matrix.
//
// The force layout is stepped on a tea.Tick so the nodes visibly settle, the
// same way the browser version animated on each simulation tick. Hovering a
// node with the mouse, or cycling with tab, shows its tooltip in the side
// panel.
package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/export"
	"github.com/vanderheijden86/stakemap/pkg/layout"
	"github.com/vanderheijden86/stakemap/pkg/model"
	"github.com/vanderheijden86/stakemap/pkg/tooltip"
)

// DefaultFrameInterval paces simulation ticks in the preview.
const DefaultFrameInterval = 16 * time.Millisecond

const (
	sidePanelWidth = 34
	headerHeight   = 1
	footerHeight   = 2
	defaultWidth   = 110
	defaultHeight  = 32
)

// Options configures the preview.
type Options struct {
	// OutputPath is where the export key writes. Empty uses the configured
	// filename.
	OutputPath string
	// FrameInterval between simulation ticks; zero uses DefaultFrameInterval.
	FrameInterval time.Duration
	// Clipboard receives copied tooltip text; nil uses the system clipboard.
	Clipboard func(string) error
	// GlamourStyle names a glamour style; empty picks one from the terminal.
	GlamourStyle string
}

type frameMsg time.Time

type exportDoneMsg struct {
	paths []string
	err   error
}

type copyDoneMsg struct {
	err error
}

// Model is the bubbletea model of the preview.
type Model struct {
	cfg  config.Config
	sim  *layout.Simulation
	opts Options

	theme Theme
	keys  KeyMap
	help  help.Model

	tracker      tooltip.Tracker
	selected     int
	hoverByMouse bool

	width, height int
	grid          Grid
	md            *glamour.TermRenderer
	mdWidth       int

	status    string
	err       error
	exporting bool
}

// NewModel builds the preview for nodes. The simulation starts on Init.
func NewModel(cfg config.Config, nodes []model.Node, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	m := Model{
		cfg:      cfg,
		sim:      layout.New(cfg, nodes),
		opts:     opts,
		theme:    DefaultTheme(lipgloss.DefaultRenderer(), cfg),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		selected: -1,
	}
	m.resize(defaultWidth, defaultHeight)
	if m.sim.Done() {
		m.status = "no stakeholders to place"
	}
	return m
}

// Init starts the animation.
func (m Model) Init() tea.Cmd {
	if m.sim.Done() {
		return nil
	}
	return m.nextFrame()
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		if m.sim.Step() {
			return m, m.nextFrame()
		}
		m.status = fmt.Sprintf("layout converged after %d ticks", m.sim.Ticks())
		debug.Log("preview: %s", m.status)
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = "saved " + strings.Join(msg.paths, ", ")
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("copy to clipboard: %w", msg.err)
			return m, nil
		}
		m.err = nil
		m.status = "tooltip copied to clipboard"
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bodies := m.sim.Bodies()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		if len(bodies) > 0 {
			m.hover((m.selected+1)%len(bodies), false)
		}

	case key.Matches(msg, m.keys.Prev):
		if len(bodies) > 0 {
			i := m.selected - 1
			if i < 0 {
				i = len(bodies) - 1
			}
			m.hover(i, false)
		}

	case key.Matches(msg, m.keys.Leave):
		m.leave()

	case key.Matches(msg, m.keys.Export):
		if m.exporting {
			return m, nil
		}
		m.exporting = true
		m.status = "saving…"
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.Copy):
		if !m.tracker.Visible() {
			m.status = "hover a node first"
			return m, nil
		}
		text := m.tracker.Content().Text()
		copyFn := m.opts.Clipboard
		return m, func() tea.Msg {
			return copyDoneMsg{err: copyFn(text)}
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.Action != tea.MouseActionMotion {
		return m
	}
	col, row := msg.X, msg.Y-headerHeight
	if !m.grid.Contains(col, row) {
		if m.hoverByMouse {
			m.leave()
		}
		return m
	}

	x, y := m.grid.Point(col, row)
	cw, ch := m.grid.CellSize()
	radius := math.Max(m.cfg.Style.NodeRadius, math.Hypot(cw, ch)/2)
	if i := tooltip.HitTest(m.sim.Bodies(), x, y, radius); i >= 0 {
		if i != m.selected || !m.tracker.Visible() {
			m.hover(i, true)
		}
		m.tracker.Move(x, y)
		return m
	}
	if m.hoverByMouse {
		m.leave()
	}
	return m
}

func (m *Model) hover(i int, byMouse bool) {
	b := m.sim.Bodies()[i]
	m.selected = i
	m.hoverByMouse = byMouse
	m.tracker.Hover(b)
	if !byMouse {
		m.tracker.Move(b.X, b.Y)
	}
}

func (m *Model) leave() {
	m.selected = -1
	m.hoverByMouse = false
	m.tracker.Leave()
}

// exportCmd finishes the layout, snapshots the bodies and writes the PNG in
// the background.
func (m Model) exportCmd() tea.Cmd {
	if err := m.sim.Run(context.Background(), nil); err != nil {
		return func() tea.Msg { return exportDoneMsg{err: err} }
	}
	bodies := append([]layout.Body(nil), m.sim.Bodies()...)
	cfg := m.cfg
	opts := export.Options{Path: m.opts.OutputPath, Formats: []export.Format{export.FormatPNG}}
	return func() tea.Msg {
		paths, err := export.SaveMatrix(context.Background(), cfg, bodies, opts)
		return exportDoneMsg{paths: paths, err: err}
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-sidePanelWidth-1, 20)
	rows := max(h-headerHeight-footerHeight, 8)
	m.grid = NewGrid(m.cfg, cols, rows)
	m.help.Width = w

	wrap := sidePanelWidth - 4
	if m.md == nil || m.mdWidth != wrap {
		m.md = newMarkdownRenderer(m.opts.GlamourStyle, wrap)
		m.mdWidth = wrap
	}
}

func newMarkdownRenderer(style string, wrap int) *glamour.TermRenderer {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		debug.Log("glamour renderer: %v", err)
		return nil
	}
	return r
}

// View renders the preview.
func (m Model) View() string {
	header := m.theme.Header.Render("stakemap") + " " +
		m.theme.Status.Render(fmt.Sprintf("%d stakeholders · tick %d · alpha %.3f",
			len(m.sim.Bodies()), m.sim.Ticks(), m.sim.Alpha()))

	plot := drawMatrix(m.cfg, m.grid, m.sim.Bodies(), m.selected).render(m.theme)
	body := lipgloss.JoinHorizontal(lipgloss.Top, plot, " ", m.sidePanel())

	var footer string
	switch {
	case m.err != nil:
		footer = m.theme.Error.Render("error: " + m.err.Error())
	case m.status != "":
		footer = m.theme.Status.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer, m.help.View(m.keys))
}

func (m Model) sidePanel() string {
	var legend strings.Builder
	for i, g := range m.cfg.Groups {
		if i > 0 {
			legend.WriteByte('\n')
		}
		name := runewidth.Truncate(g.Name, sidePanelWidth-6, "…")
		legend.WriteString(m.theme.GroupStyle(g.Name).Render("●") + " " + name)
	}

	tip := m.theme.Status.Render("hover a node or press tab")
	if m.tracker.Visible() {
		tip = m.renderTooltip(m.tracker.Content())
	}

	panelWidth := sidePanelWidth - 2
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Panel.Width(panelWidth).Render(legend.String()),
		m.theme.Panel.Width(panelWidth).Render(tip),
	)
}

func (m Model) renderTooltip(c tooltip.Content) string {
	if m.md != nil {
		if out, err := m.md.Render(c.Markdown()); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return c.Text()
}

// Selected returns the hovered node id, or "" when nothing is hovered.
func (m Model) Selected() string {
	return m.tracker.NodeID()
}

// Simulation exposes the running layout.
func (m Model) Simulation() *layout.Simulation {
	return m.sim
}
