package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
	"time"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/metrics"
)

// RenderPNG rasterizes the scene and writes it as PNG.
func RenderPNG(w io.Writer, s Scene) error {
	defer metrics.Timer(metrics.PNGRender)()
	start := time.Now()

	fc := newFaceCache()
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(s.Background)
	dc.Clear()

	for _, l := range s.Axes {
		dc.SetColor(l.Color)
		dc.SetLineWidth(l.Width)
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}
	for _, t := range s.AxisText {
		fc.drawText(dc, t)
	}
	for _, c := range s.Nodes {
		drawCircle(dc, c)
	}
	for _, t := range s.NodeLabels {
		fc.drawText(dc, t)
	}
	for _, c := range s.Swatches {
		drawCircle(dc, c)
	}
	for _, t := range s.LegendText {
		fc.drawText(dc, t)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	debug.LogTiming("png render", time.Since(start))
	return nil
}

// PNGDataURL renders the scene as a base64 data: URL.
func PNGDataURL(s Scene) (string, error) {
	var buf bytes.Buffer
	if err := RenderPNG(&buf, s); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func drawCircle(dc *gg.Context, c Circle) {
	dc.SetColor(c.Fill)
	dc.DrawCircle(c.X, c.Y, c.R)
	if c.StrokeWidth <= 0 {
		dc.Fill()
		return
	}
	dc.FillPreserve()
	dc.SetColor(c.Stroke)
	dc.SetLineWidth(c.StrokeWidth)
	dc.Stroke()
}

func (fc *faceCache) drawText(dc *gg.Context, t Text) {
	dc.SetFontFace(fc.face(t.Size, t.Bold))
	dc.SetColor(t.Color)
	if t.Rotate != 0 {
		dc.Push()
		dc.RotateAbout(gg.Radians(t.Rotate), t.X, t.Y)
		dc.DrawStringAnchored(t.Content, t.X, t.Y, t.Anchor.fraction(), 0)
		dc.Pop()
		return
	}
	dc.DrawStringAnchored(t.Content, t.X, t.Y, t.Anchor.fraction(), 0)
}

// --- fonts -----------------------------------------------------------------

type faceKey struct {
	size float64
	bold bool
}

// Parsed fonts are shared; faces are not safe for concurrent use, so each
// render keeps its own.
var (
	fontOnce    sync.Once
	fontRegular *opentype.Font
	fontBold    *opentype.Font
	fontErr     error
)

func loadFonts() {
	fontRegular, fontErr = opentype.Parse(goregular.TTF)
	if fontErr != nil {
		return
	}
	fontBold, fontErr = opentype.Parse(gobold.TTF)
}

type faceCache struct {
	faces map[faceKey]font.Face
}

func newFaceCache() *faceCache {
	return &faceCache{faces: make(map[faceKey]font.Face)}
}

// face returns a Go font face at the given pixel size. It falls back to the
// fixed 7x13 bitmap face if the embedded fonts cannot be parsed.
func (fc *faceCache) face(size float64, bold bool) font.Face {
	fontOnce.Do(loadFonts)
	if fontErr != nil || size <= 0 {
		return basicfont.Face7x13
	}

	key := faceKey{size: size, bold: bold}
	if f, ok := fc.faces[key]; ok {
		return f
	}

	src := fontRegular
	if bold {
		src = fontBold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		debug.Log("font face %.1fpx: %v", size, err)
		return basicfont.Face7x13
	}
	fc.faces[key] = f
	return f
}
