package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/stakemap/pkg/watcher"
)

type watchOpts struct {
	render       renderOpts
	debounce     time.Duration
	pollInterval time.Duration
	poll         bool
}

func newWatchCmd() *cobra.Command {
	opts := watchOpts{
		debounce:     watcher.DefaultDebounceDuration,
		pollInterval: watcher.DefaultPollInterval,
	}

	cmd := &cobra.Command{
		Use:   "watch <data.json>",
		Short: "Re-render the matrix whenever the input file changes",
		Long: `Watch renders the input once, then again after every change to the file.
When a change cannot be loaded or rendered the error is logged and the
previous output is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], cmd.InOrStdin(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.render.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.render.formats, "format", "f", "", "output format(s): png, svg, html, json (comma-separated)")
	cmd.Flags().StringVar(&opts.render.title, "title", "", "heading drawn above the matrix")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", opts.debounce, "wait this long after the last change before rendering")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", opts.pollInterval, "stat interval when polling")
	cmd.Flags().BoolVar(&opts.poll, "poll", false, "poll instead of using filesystem events (also "+watcher.ForcePollEnv+")")

	return cmd
}

// runWatch blocks until ctx is cancelled. Renders happen on this goroutine
// so two of them never overlap.
func runWatch(ctx context.Context, input string, stdin io.Reader, opts watchOpts) error {
	logger := loggerFromContext(ctx)

	rerender := func() {
		if _, err := runRender(ctx, input, stdin, opts.render); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("render failed, keeping previous output", "err", err)
		}
	}

	w, err := watcher.New(input,
		watcher.WithDebounceDuration(opts.debounce),
		watcher.WithPollInterval(opts.pollInterval),
		watcher.WithForcePoll(opts.poll),
		watcher.WithOnError(func(err error) {
			if errors.Is(err, watcher.ErrFileRemoved) {
				logger.Warn("input removed, waiting for it to come back", "path", input)
				return
			}
			logger.Error("watch", "err", err)
		}),
	)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	mode := "events"
	if w.IsPolling() {
		mode = "polling"
	}
	logger.Info("Watching for changes", "path", w.Path(), "mode", mode)

	rerender()
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-w.Changed():
			logger.Debug("input changed", "size", c.Size, "modified", c.ModTime.Format(time.TimeOnly))
			rerender()
		}
	}
}
