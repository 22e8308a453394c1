package export

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/layout"
	"github.com/vanderheijden86/stakemap/pkg/metrics"
)

// LayoutNode is one resolved node in the JSON output.
type LayoutNode struct {
	ID         string  `json:"id"`
	Group      string  `json:"group"`
	Interest   string  `json:"interest"`
	Influence  string  `json:"influence"`
	Rol        string  `json:"rol,omitempty"`
	Estrategia string  `json:"estrategia,omitempty"`
	Color      string  `json:"color"`
	TargetX    float64 `json:"target_x"`
	TargetY    float64 `json:"target_y"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// LayoutDocument is the JSON rendering of a resolved matrix.
type LayoutDocument struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Radius float64      `json:"radius"`
	Nodes  []LayoutNode `json:"nodes"`
}

// NewLayoutDocument captures the converged bodies.
func NewLayoutDocument(cfg config.Config, bodies []layout.Body) LayoutDocument {
	doc := LayoutDocument{
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		Radius: cfg.Style.NodeRadius,
		Nodes:  make([]LayoutNode, 0, len(bodies)),
	}
	for _, b := range bodies {
		doc.Nodes = append(doc.Nodes, LayoutNode{
			ID:         b.Node.ID,
			Group:      b.Node.Group,
			Interest:   string(b.Node.Interest),
			Influence:  string(b.Node.Influence),
			Rol:        b.Node.Role,
			Estrategia: b.Node.Strategy,
			Color:      cfg.GroupColorFor(b.Node.Group),
			TargetX:    b.TargetX,
			TargetY:    b.TargetY,
			X:          b.X,
			Y:          b.Y,
		})
	}
	return doc
}

// RenderJSON writes the resolved layout as indented JSON.
func RenderJSON(w io.Writer, cfg config.Config, bodies []layout.Body) error {
	defer metrics.Timer(metrics.JSONRender)()
	start := time.Now()

	data, err := json.MarshalIndent(NewLayoutDocument(cfg, bodies), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return err
	}
	debug.LogTiming("json render", time.Since(start))
	return nil
}
