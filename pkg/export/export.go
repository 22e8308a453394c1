// Package export draws a resolved stakeholder matrix and writes it as PNG,
// SVG, interactive HTML or JSON.
//
// All image sinks draw the same Scene built by BuildScene. SaveMatrix is the
// high-level entry point used by the CLI:
//
//	paths, err := export.SaveMatrix(ctx, cfg, bodies, export.Options{
//	    Path:    "out/mapa.png",
//	    Formats: []export.Format{export.FormatPNG, export.FormatHTML},
//	})
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/layout"
)

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPNG, FormatSVG, FormatHTML, FormatJSON}
}

// ErrUnsupportedFormat is returned for unknown formats or extensions.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat normalizes a format name such as "PNG" or ".svg".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatPNG, FormatSVG, FormatHTML, FormatJSON:
		return f, nil
	case "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w %q (want png, svg, html or json)", ErrUnsupportedFormat, s)
	}
}

// ParseFormats splits a comma-separated list, dropping duplicates.
func ParseFormats(list string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Options controls SaveMatrix.
type Options struct {
	// Path is the output file. Empty uses the configured filename. When
	// several formats are requested the extension is replaced per format.
	Path string
	// Formats to write. Empty infers a single format from Path, defaulting
	// to PNG when Path has no extension.
	Formats []Format
	// Title overrides cfg.Output.Title.
	Title string
}

// SaveMatrix renders bodies in every requested format and returns the paths
// written. Formats are rendered concurrently. Each file is written to a
// temporary sibling and renamed into place, so a failed render leaves any
// previous output untouched.
func SaveMatrix(ctx context.Context, cfg config.Config, bodies []layout.Body, opts Options) ([]string, error) {
	if opts.Title != "" {
		cfg.Output.Title = opts.Title
	}

	targets, err := resolveTargets(cfg, opts)
	if err != nil {
		return nil, err
	}

	var scene Scene
	if needsScene(targets) {
		scene, err = BuildScene(cfg, bodies)
		if err != nil {
			return nil, fmt.Errorf("build scene: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		t := t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeAtomic(t.path, func(w io.Writer) error {
				return render(w, t.format, cfg, scene, bodies)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.path
	}
	debug.Log("exported %d bodies to %v", len(bodies), paths)
	return paths, nil
}

// Render writes a single format to w.
func Render(w io.Writer, f Format, cfg config.Config, bodies []layout.Body) error {
	var scene Scene
	if f != FormatJSON {
		var err error
		if scene, err = BuildScene(cfg, bodies); err != nil {
			return fmt.Errorf("build scene: %w", err)
		}
	}
	return render(w, f, cfg, scene, bodies)
}

func render(w io.Writer, f Format, cfg config.Config, scene Scene, bodies []layout.Body) error {
	switch f {
	case FormatPNG:
		return RenderPNG(w, scene)
	case FormatSVG:
		return RenderSVG(w, scene)
	case FormatHTML:
		return RenderHTML(w, scene, HTMLOptions{
			Title:        cfg.Output.Title,
			DownloadName: pngName(cfg),
		})
	case FormatJSON:
		return RenderJSON(w, cfg, bodies)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
	}
}

type target struct {
	format Format
	path   string
}

func resolveTargets(cfg config.Config, opts Options) ([]target, error) {
	path := opts.Path
	if path == "" {
		path = cfg.Output.Filename
	}
	if path == "" {
		path = config.DefaultFilename
	}

	formats := opts.Formats
	if len(formats) == 0 {
		ext := filepath.Ext(path)
		if ext == "" {
			path += "." + string(FormatPNG)
			return []target{{format: FormatPNG, path: path}}, nil
		}
		f, err := ParseFormat(ext)
		if err != nil {
			return nil, err
		}
		return []target{{format: f, path: path}}, nil
	}

	if len(formats) == 1 {
		return []target{{format: formats[0], path: withExt(path, formats[0])}}, nil
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	targets := make([]target, 0, len(formats))
	for _, f := range formats {
		targets = append(targets, target{format: f, path: base + "." + string(f)})
	}
	return targets, nil
}

// withExt keeps path when its extension already matches f.
func withExt(path string, f Format) string {
	if ext, err := ParseFormat(filepath.Ext(path)); err == nil && ext == f {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(f)
}

func needsScene(targets []target) bool {
	for _, t := range targets {
		if t.format != FormatJSON {
			return true
		}
	}
	return false
}

// pngName is the download name offered by the HTML save button.
func pngName(cfg config.Config) string {
	name := filepath.Base(cfg.Output.Filename)
	if name == "" || name == "." {
		return config.DefaultFilename
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
}

func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
