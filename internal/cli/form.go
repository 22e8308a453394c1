package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/stakemap/pkg/export"
)

// isTerminal reports whether f is a file attached to a terminal.
func isTerminal(f any) bool {
	file, ok := f.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// newForm creates a form that falls back to accessible prompts when stdin is
// not a terminal.
func newForm(in io.Reader, out io.Writer, groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithTheme(huh.ThemeDracula()).
		WithInput(in).
		WithOutput(out)
	if !isTerminal(in) {
		form = form.WithAccessible(true)
	}
	return form
}

// runRenderForm asks for the title, formats and output path, starting from
// the values already set on opts.
func runRenderForm(ctx context.Context, in io.Reader, out io.Writer, opts *renderOpts) error {
	cfg := configFromContext(ctx)

	selected, err := export.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	formats := formatNames(selected)
	if len(formats) == 0 {
		formats = []string{string(export.FormatPNG)}
	}
	if opts.output == "" {
		opts.output = cfg.Output.Filename
	}
	if opts.title == "" {
		opts.title = cfg.Output.Title
	}

	options := make([]huh.Option[string], 0, len(export.Formats()))
	for _, f := range export.Formats() {
		options = append(options, huh.NewOption(strings.ToUpper(string(f)), string(f)))
	}

	form := newForm(in, out,
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Heading above the matrix; leave empty for none").
				Value(&opts.title),
			huh.NewMultiSelect[string]().
				Title("Formats").
				Options(options...).
				Value(&formats).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return errors.New("pick at least one format")
					}
					return nil
				}),
			huh.NewInput().
				Title("Output").
				Description("File name, or base name when several formats are picked").
				Value(&opts.output).
				Validate(validateOutputPath),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return err
	}

	opts.formats = strings.Join(formats, ",")
	return nil
}

func formatNames(formats []export.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// validateOutputPath rejects empty names and directories that do not exist.
func validateOutputPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("output path is required")
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("directory %s does not exist", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
