// Package config handles loading and saving stakemap configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/stakemap/config.yaml
//
// Files passed explicitly may also be TOML; the format follows the extension.
//
// Any value can be overridden through STAKEMAP_* environment variables, for
// example STAKEMAP_CANVAS_WIDTH=1200 or STAKEMAP_FORCES_ALPHA_DECAY=0.02.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "STAKEMAP_"

// DefaultFilename is the name the export control writes to.
const DefaultFilename = "mapa_synergy_cartesiano.png"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Canvas is the fixed drawing surface.
type Canvas struct {
	Width      int    `yaml:"width" toml:"width" env:"WIDTH"`
	Height     int    `yaml:"height" toml:"height" env:"HEIGHT"`
	Background string `yaml:"background" toml:"background" env:"BACKGROUND"`
}

// Margin reserves space around the plot for axes and the legend.
type Margin struct {
	Top    float64 `yaml:"top" toml:"top" env:"TOP"`
	Right  float64 `yaml:"right" toml:"right" env:"RIGHT"`
	Bottom float64 `yaml:"bottom" toml:"bottom" env:"BOTTOM"`
	Left   float64 `yaml:"left" toml:"left" env:"LEFT"`
}

// Offsets are extra target displacements for edge categories. They were
// tuned visually for the default canvas, so they are kept configurable.
type Offsets struct {
	// XInset pulls the interest scale inward from the left and right margins.
	XInset        float64 `yaml:"x_inset" toml:"x_inset" env:"X_INSET"`
	LowInterestX  float64 `yaml:"low_interest_x" toml:"low_interest_x" env:"LOW_INTEREST_X"`
	LowInfluenceY float64 `yaml:"low_influence_y" toml:"low_influence_y" env:"LOW_INFLUENCE_Y"`
}

// Forces parameterizes the relaxation.
type Forces struct {
	XStrength     float64 `yaml:"x_strength" toml:"x_strength" env:"X_STRENGTH"`
	YStrength     float64 `yaml:"y_strength" toml:"y_strength" env:"Y_STRENGTH"`
	CollideRadius float64 `yaml:"collide_radius" toml:"collide_radius" env:"COLLIDE_RADIUS"`
	AlphaDecay    float64 `yaml:"alpha_decay" toml:"alpha_decay" env:"ALPHA_DECAY"`
	AlphaMin      float64 `yaml:"alpha_min" toml:"alpha_min" env:"ALPHA_MIN"`
	VelocityDecay float64 `yaml:"velocity_decay" toml:"velocity_decay" env:"VELOCITY_DECAY"`
	// Tolerance is the overlap (px) the settle pass accepts.
	Tolerance    float64 `yaml:"tolerance" toml:"tolerance" env:"TOLERANCE"`
	SettlePasses int     `yaml:"settle_passes" toml:"settle_passes" env:"SETTLE_PASSES"`
	// ClampToPlot keeps bodies inside the plot area on every tick.
	ClampToPlot bool `yaml:"clamp_to_plot" toml:"clamp_to_plot" env:"CLAMP_TO_PLOT"`
}

// Style holds the visual constants shared by every sink.
type Style struct {
	NodeRadius     float64 `yaml:"node_radius" toml:"node_radius" env:"NODE_RADIUS"`
	StrokeColor    string  `yaml:"stroke_color" toml:"stroke_color" env:"STROKE_COLOR"`
	StrokeWidth    float64 `yaml:"stroke_width" toml:"stroke_width" env:"STROKE_WIDTH"`
	FallbackColor  string  `yaml:"fallback_color" toml:"fallback_color" env:"FALLBACK_COLOR"`
	TextColor      string  `yaml:"text_color" toml:"text_color" env:"TEXT_COLOR"`
	AxisColor      string  `yaml:"axis_color" toml:"axis_color" env:"AXIS_COLOR"`
	LabelOffset    float64 `yaml:"label_offset" toml:"label_offset" env:"LABEL_OFFSET"`
	LabelFontSize  float64 `yaml:"label_font_size" toml:"label_font_size" env:"LABEL_FONT_SIZE"`
	AxisFontSize   float64 `yaml:"axis_font_size" toml:"axis_font_size" env:"AXIS_FONT_SIZE"`
	TitleFontSize  float64 `yaml:"title_font_size" toml:"title_font_size" env:"TITLE_FONT_SIZE"`
	LegendFontSize float64 `yaml:"legend_font_size" toml:"legend_font_size" env:"LEGEND_FONT_SIZE"`
	LegendSwatch   float64 `yaml:"legend_swatch" toml:"legend_swatch" env:"LEGEND_SWATCH"`
	LegendRowGap   float64 `yaml:"legend_row_gap" toml:"legend_row_gap" env:"LEGEND_ROW_GAP"`
	LegendDX       float64 `yaml:"legend_dx" toml:"legend_dx" env:"LEGEND_DX"`
}

// Labels are the axis titles.
type Labels struct {
	XAxis string `yaml:"x_axis" toml:"x_axis" env:"X_AXIS"`
	YAxis string `yaml:"y_axis" toml:"y_axis" env:"Y_AXIS"`
}

// GroupColor assigns a fill to a group. Order is the legend order.
type GroupColor struct {
	Name  string `yaml:"name" toml:"name"`
	Color string `yaml:"color" toml:"color"`
}

// Output controls export defaults.
type Output struct {
	Filename string `yaml:"filename" toml:"filename" env:"FILENAME"`
	Title    string `yaml:"title,omitempty" toml:"title,omitempty" env:"TITLE"`
}

// Config is the top-level configuration for stakemap.
type Config struct {
	Canvas  Canvas       `yaml:"canvas" toml:"canvas" envPrefix:"CANVAS_"`
	Margin  Margin       `yaml:"margin" toml:"margin" envPrefix:"MARGIN_"`
	Offsets Offsets      `yaml:"offsets" toml:"offsets" envPrefix:"OFFSETS_"`
	Forces  Forces       `yaml:"forces" toml:"forces" envPrefix:"FORCES_"`
	Style   Style        `yaml:"style" toml:"style" envPrefix:"STYLE_"`
	Labels  Labels       `yaml:"labels" toml:"labels" envPrefix:"LABELS_"`
	Groups  []GroupColor `yaml:"groups,omitempty" toml:"groups,omitempty"`
	Output  Output       `yaml:"output" toml:"output" envPrefix:"OUTPUT_"`
}

// DefaultConfig returns the settings of the reference rendering.
func DefaultConfig() Config {
	return Config{
		Canvas: Canvas{
			Width:      1000,
			Height:     700,
			Background: "#ffffff",
		},
		Margin: Margin{Top: 100, Right: 220, Bottom: 30, Left: 100},
		Offsets: Offsets{
			XInset:        50,
			LowInterestX:  60,
			LowInfluenceY: -90,
		},
		Forces: Forces{
			XStrength:     0.5,
			YStrength:     0.5,
			CollideRadius: 25,
			AlphaDecay:    0.05,
			AlphaMin:      0.001,
			VelocityDecay: 0.4,
			Tolerance:     1,
			SettlePasses:  300,
			ClampToPlot:   true,
		},
		Style: Style{
			NodeRadius:     20,
			StrokeColor:    "#333333",
			StrokeWidth:    1,
			FallbackColor:  "#cccccc",
			TextColor:      "#000000",
			AxisColor:      "#000000",
			LabelOffset:    35,
			LabelFontSize:  11,
			AxisFontSize:   10,
			TitleFontSize:  14,
			LegendFontSize: 12,
			LegendSwatch:   8,
			LegendRowGap:   30,
			LegendDX:       80,
		},
		Labels: Labels{XAxis: "Interés", YAxis: "Influencia"},
		Groups: []GroupColor{
			{Name: "Socios estratégicos", Color: "#fae48b"},
			{Name: "Municipalidad", Color: "#69c8ec"},
			{Name: "Colonias", Color: "#e89242"},
		},
		Output: Output{Filename: DefaultFilename},
	}
}

// GroupColorFor returns the configured fill for group, or the fallback.
func (c Config) GroupColorFor(group string) string {
	for _, g := range c.Groups {
		if g.Name == group {
			return g.Color
		}
	}
	return c.Style.FallbackColor
}

// PlotLeft and friends bound the area inside the margins.
func (c Config) PlotLeft() float64   { return c.Margin.Left }
func (c Config) PlotRight() float64  { return float64(c.Canvas.Width) - c.Margin.Right }
func (c Config) PlotTop() float64    { return c.Margin.Top }
func (c Config) PlotBottom() float64 { return float64(c.Canvas.Height) - c.Margin.Bottom }

// Validate rejects settings that would make the layout meaningless or
// non-terminating.
func (c Config) Validate() error {
	var problems []string
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		problems = append(problems, "canvas width and height must be positive")
	}
	if c.PlotRight() <= c.PlotLeft() || c.PlotBottom() <= c.PlotTop() {
		problems = append(problems, "margins leave no plot area")
	}
	if c.Forces.AlphaDecay <= 0 || c.Forces.AlphaDecay >= 1 {
		problems = append(problems, "forces.alpha_decay must be in (0, 1)")
	}
	if c.Forces.AlphaMin <= 0 || c.Forces.AlphaMin >= 1 {
		problems = append(problems, "forces.alpha_min must be in (0, 1)")
	}
	if c.Forces.VelocityDecay < 0 || c.Forces.VelocityDecay > 1 {
		problems = append(problems, "forces.velocity_decay must be in [0, 1]")
	}
	if c.Forces.CollideRadius < 0 {
		problems = append(problems, "forces.collide_radius cannot be negative")
	}
	if c.Style.NodeRadius <= 0 {
		problems = append(problems, "style.node_radius must be positive")
	}
	seen := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		if strings.TrimSpace(g.Name) == "" {
			problems = append(problems, "group name cannot be empty")
			continue
		}
		if seen[g.Name] {
			problems = append(problems, fmt.Sprintf("duplicate group %q", g.Name))
		}
		seen[g.Name] = true
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// ConfigDir returns the XDG config directory for stakemap.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "stakemap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "stakemap")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory, applies
// environment overrides and validates the result. Without a config
// directory or file the defaults are used.
func Load() (Config, error) {
	if path := ConfigPath(); path != "" {
		return LoadFrom(path)
	}
	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg, nil); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFrom reads config from a specific path, applies environment overrides
// and validates the result. A missing file yields the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := unmarshal(path, data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := ApplyEnv(&cfg, nil); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays STAKEMAP_* variables onto cfg. When environ is nil the
// process environment is used. Unset variables leave fields untouched.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := marshal(path, cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// isTOML reports whether path names a TOML file; anything else is YAML.
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func marshal(path string, cfg Config) ([]byte, error) {
	if !isTOML(path) {
		return yaml.Marshal(cfg)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
