// Package tooltip holds the hover state shown over matrix nodes and renders
// its content for the terminal, Markdown and HTML surfaces.
package tooltip

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/vanderheijden86/stakemap/pkg/layout"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

// Offset of the tooltip box from the pointer.
const (
	OffsetX = 15
	OffsetY = -30
)

// Content is what a tooltip says about one node.
type Content struct {
	Title    string
	Subtitle string
	Role     string
	Strategy string
}

// FromNode builds tooltip content; blank optional fields become the
// placeholder.
func FromNode(n model.Node) Content {
	return Content{
		Title:    n.ID,
		Subtitle: n.Group,
		Role:     n.RoleOrPlaceholder(),
		Strategy: n.StrategyOrPlaceholder(),
	}
}

// Text renders the content as plain lines.
func (c Content) Text() string {
	var sb strings.Builder
	sb.WriteString(c.Title)
	sb.WriteByte('\n')
	sb.WriteString(c.Subtitle)
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Rol: %s\n", c.Role)
	fmt.Fprintf(&sb, "Estrategia: %s", c.Strategy)
	return sb.String()
}

// Markdown renders the content for glamour.
func (c Content) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s\n\n", escapeMarkdown(c.Title))
	fmt.Fprintf(&sb, "*%s*\n\n", escapeMarkdown(c.Subtitle))
	fmt.Fprintf(&sb, "- **Rol:** %s\n", escapeMarkdown(c.Role))
	fmt.Fprintf(&sb, "- **Estrategia:** %s\n", escapeMarkdown(c.Strategy))
	return sb.String()
}

// HTML renders the content as an escaped fragment for the tooltip div.
func (c Content) HTML() string {
	return fmt.Sprintf("<strong>%s</strong><br/><em>%s</em><br/><br/><strong>Rol:</strong> %s<br/><strong>Estrategia:</strong> %s",
		html.EscapeString(c.Title),
		html.EscapeString(c.Subtitle),
		html.EscapeString(c.Role),
		html.EscapeString(c.Strategy))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`, `[`, `\[`, `]`, `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Tracker is the mutable hover state. The zero value is hidden.
type Tracker struct {
	visible bool
	content Content
	nodeID  string
	x, y    float64
}

// Hover shows the tooltip for b.
func (t *Tracker) Hover(b layout.Body) {
	t.visible = true
	t.nodeID = b.Node.ID
	t.content = FromNode(b.Node)
}

// Move positions the tooltip relative to the pointer at (x, y).
func (t *Tracker) Move(x, y float64) {
	t.x = x + OffsetX
	t.y = y + OffsetY
}

// Leave hides the tooltip.
func (t *Tracker) Leave() {
	t.visible = false
	t.nodeID = ""
	t.content = Content{}
}

// Visible reports whether a tooltip is shown.
func (t *Tracker) Visible() bool { return t.visible }

// NodeID is the id of the hovered node, or "" when hidden.
func (t *Tracker) NodeID() string { return t.nodeID }

// Content returns the current content; it is empty when hidden.
func (t *Tracker) Content() Content { return t.content }

// Position returns the tooltip's top-left corner.
func (t *Tracker) Position() (x, y float64) { return t.x, t.y }

// HitTest returns the index of the topmost body whose circle of radius r
// contains (x, y), or -1. Later bodies are drawn on top.
func HitTest(bodies []layout.Body, x, y, r float64) int {
	for i := len(bodies) - 1; i >= 0; i-- {
		if math.Hypot(bodies[i].X-x, bodies[i].Y-y) <= r {
			return i
		}
	}
	return -1
}
