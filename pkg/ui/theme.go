package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/stakemap/pkg/config"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the styles of the matrix preview.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Header   lipgloss.Style
	Axis     lipgloss.Style
	Label    lipgloss.Style
	Selected lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Panel    lipgloss.Style

	groups   map[string]lipgloss.Style
	fallback lipgloss.Style
}

// DefaultTheme builds the preview theme; node glyphs use the configured
// group colors so the terminal matches the exported image.
func DefaultTheme(r *lipgloss.Renderer, cfg config.Config) Theme {
	t := Theme{
		Renderer: r,
		Primary:  lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Muted:    lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Border:   lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)
	t.Axis = r.NewStyle().Foreground(t.Muted)
	t.Label = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#BFBFBF"})
	t.Selected = r.NewStyle().Reverse(true).Bold(true)
	t.Status = r.NewStyle().Foreground(t.Muted).Italic(true)
	t.Error = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}).Bold(true)
	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.groups = make(map[string]lipgloss.Style, len(cfg.Groups))
	for _, g := range cfg.Groups {
		t.groups[g.Name] = r.NewStyle().Foreground(ThemeFg(g.Color)).Bold(true)
	}
	t.fallback = r.NewStyle().Foreground(ThemeFg(cfg.Style.FallbackColor)).Bold(true)
	return t
}

// GroupStyle returns the glyph style for a group, falling back to the
// unknown-group color.
func (t Theme) GroupStyle(group string) lipgloss.Style {
	if s, ok := t.groups[group]; ok {
		return s
	}
	return t.fallback
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout), config.DefaultConfig())
}
