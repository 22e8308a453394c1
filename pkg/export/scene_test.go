package export

import (
	"image/color"
	"testing"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/layout"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

func testBody(id, group string, x, y float64) layout.Body {
	return layout.Body{
		Node: model.Node{ID: id, Group: group, Interest: model.LevelMedium, Influence: model.LevelMedium},
		X:    x,
		Y:    y,
	}
}

func TestBuildScene_Empty(t *testing.T) {
	cfg := config.DefaultConfig()
	s, err := BuildScene(cfg, nil)
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	if s.Width != 1000 || s.Height != 700 {
		t.Errorf("size = %dx%d", s.Width, s.Height)
	}
	if len(s.Nodes) != 0 || len(s.NodeLabels) != 0 {
		t.Errorf("expected no nodes, got %d", len(s.Nodes))
	}
	if len(s.Axes) == 0 {
		t.Error("axes should be drawn without nodes")
	}
	if len(s.Swatches) != len(cfg.Groups) || len(s.LegendText) != len(cfg.Groups) {
		t.Errorf("legend rows = %d, want %d", len(s.Swatches), len(cfg.Groups))
	}

	var haveX, haveY bool
	for _, txt := range s.AxisText {
		switch txt.Content {
		case "Interés":
			haveX = true
			if txt.X != 500 || txt.Y != 660 {
				t.Errorf("x title at (%v, %v), want (500, 660)", txt.X, txt.Y)
			}
		case "Influencia":
			haveY = true
			if txt.Rotate != -90 {
				t.Errorf("y title rotation = %v", txt.Rotate)
			}
		}
	}
	if !haveX || !haveY {
		t.Error("missing axis titles")
	}
}

func TestBuildScene_TickLabels(t *testing.T) {
	s, err := BuildScene(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	count := map[string]int{}
	for _, txt := range s.AxisText {
		count[txt.Content]++
	}
	for _, l := range model.Levels() {
		if count[string(l)] != 2 {
			t.Errorf("level %s labeled %d times, want 2 (one per axis)", l, count[string(l)])
		}
	}
}

func TestBuildScene_NodesAndLegend(t *testing.T) {
	cfg := config.DefaultConfig()
	bodies := []layout.Body{
		testBody("a", "Municipalidad", 300, 200),
		testBody("b", "Desconocido", 500, 400),
	}
	s, err := BuildScene(cfg, bodies)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Nodes) != 2 {
		t.Fatalf("expected 2 circles, got %d", len(s.Nodes))
	}

	a := s.Nodes[0]
	if a.R != 20 || a.StrokeWidth != 1 {
		t.Errorf("circle geometry = r%v stroke %v", a.R, a.StrokeWidth)
	}
	if a.Fill != (color.RGBA{0x69, 0xc8, 0xec, 0xff}) {
		t.Errorf("Municipalidad fill = %v", a.Fill)
	}
	if a.Stroke != (color.RGBA{0x33, 0x33, 0x33, 0xff}) {
		t.Errorf("stroke = %v", a.Stroke)
	}
	if s.Nodes[1].Fill != (color.RGBA{0xcc, 0xcc, 0xcc, 0xff}) {
		t.Errorf("unknown group should use fallback fill, got %v", s.Nodes[1].Fill)
	}
	if s.Nodes[1].Tooltip.Role != model.Placeholder {
		t.Errorf("tooltip role = %q", s.Nodes[1].Tooltip.Role)
	}

	lbl := s.NodeLabels[0]
	if lbl.X != 300 || lbl.Y != 235 || lbl.Size != 11 || lbl.Anchor != AnchorMiddle {
		t.Errorf("label = %+v", lbl)
	}

	sw := s.Swatches[1]
	if sw.X != 860 || sw.Y != 130 || sw.R != 8 {
		t.Errorf("second swatch = %+v, want (860, 130) r8", sw)
	}
	if s.LegendText[1].X != 875 || s.LegendText[1].Content != "Municipalidad" {
		t.Errorf("legend text = %+v", s.LegendText[1])
	}
}

func TestBuildScene_Title(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Title = "Mapa de actores"
	s, err := BuildScene(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, txt := range s.AxisText {
		if txt.Content == "Mapa de actores" && txt.Bold {
			found = true
		}
	}
	if !found {
		t.Error("title not drawn")
	}
}

func TestBuildScene_InvalidColor(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Groups[0].Color = "amarillo"
	if _, err := BuildScene(cfg, nil); err == nil {
		t.Error("expected error for invalid group color")
	}

	cfg = config.DefaultConfig()
	cfg.Style.StrokeColor = "#12345"
	if _, err := BuildScene(cfg, nil); err == nil {
		t.Error("expected error for invalid stroke color")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ccc", color.RGBA{0xcc, 0xcc, 0xcc, 0xff}, true},
		{"#fae48b", color.RGBA{0xfa, 0xe4, 0x8b, 0xff}, true},
		{"E89242", color.RGBA{0xe8, 0x92, 0x42, 0xff}, true},
		{" #333 ", color.RGBA{0x33, 0x33, 0x33, 0xff}, true},
		{"#FAE48B", color.RGBA{0xfa, 0xe4, 0x8b, 0xff}, true},
		{"#12345", color.RGBA{}, false},
		{"#ggg", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, err := parseHex(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseHex(%q) error = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
