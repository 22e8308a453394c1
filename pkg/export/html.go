package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/metrics"
	"github.com/vanderheijden86/stakemap/pkg/tooltip"
)

// HTMLOptions configures the interactive page.
type HTMLOptions struct {
	Title string
	// DownloadName is the file name the save button downloads the PNG as.
	DownloadName string
}

type tooltipEntry struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// RenderHTML writes a self-contained page with the SVG matrix, a hover
// tooltip and a save button that downloads the PNG rendering.
func RenderHTML(w io.Writer, s Scene, opts HTMLOptions) error {
	defer metrics.Timer(metrics.HTMLRender)()
	start := time.Now()

	var svgBuf bytes.Buffer
	if err := RenderSVG(&svgBuf, s); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	pngURL, err := PNGDataURL(s)
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}

	entries := make([]tooltipEntry, len(s.Nodes))
	for i, c := range s.Nodes {
		entries[i] = tooltipEntry{ID: c.ID, HTML: c.Tooltip.HTML()}
	}
	dataJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal tooltip data: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = "Mapa de actores"
	}
	name := opts.DownloadName
	if name == "" {
		name = config.DefaultFilename
	}

	_, err = io.WriteString(w, generateMatrixHTML(title, name, pngURL, svgBuf.String(), string(dataJSON)))
	debug.LogTiming("html render", time.Since(start))
	return err
}

func generateMatrixHTML(title, downloadName, pngURL, svgDoc, dataJSON string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: sans-serif; margin: 16px; }
        .node { cursor: pointer; }
        .tooltip {
            position: absolute;
            padding: 10px;
            background: #f9f9f9;
            border: 1px solid #ccc;
            border-radius: 4px;
            pointer-events: none;
            font-size: 12px;
            display: none;
        }
        #saveBtn { margin-bottom: 12px; }
    </style>
</head>
<body>
    <a id="saveBtn" href="%s" download="%s"><button type="button">Exportar PNG</button></a>
    <div id="chart">%s</div>
    <div class="tooltip" id="tooltip"></div>
    <script type="application/json" id="tooltip-data">%s</script>
    <script>
    (function () {
        var data = JSON.parse(document.getElementById("tooltip-data").textContent);
        var tip = document.getElementById("tooltip");
        document.querySelectorAll("#chart .node").forEach(function (g) {
            var t = g.querySelector("title");
            if (t) { t.remove(); }
            var entry = data[+g.getAttribute("data-index")];
            g.addEventListener("mouseover", function () {
                tip.innerHTML = entry.html;
                tip.style.display = "block";
            });
            g.addEventListener("mousemove", function (event) {
                tip.style.left = (event.pageX + %d) + "px";
                tip.style.top = (event.pageY + %d) + "px";
            });
            g.addEventListener("mouseout", function () {
                tip.style.display = "none";
            });
        });
    })();
    </script>
</body>
</html>
`,
		html.EscapeString(title),
		pngURL,
		html.EscapeString(downloadName),
		stripXMLHeader(svgDoc),
		dataJSON,
		tooltip.OffsetX, tooltip.OffsetY,
	)
}

// stripXMLHeader drops the <?xml ...?> prolog svgo writes, which is not
// valid inside an HTML body.
func stripXMLHeader(doc string) string {
	if !strings.HasPrefix(doc, "<?xml") {
		return doc
	}
	if i := strings.Index(doc, "?>"); i >= 0 {
		return doc[i+2:]
	}
	return doc
}
