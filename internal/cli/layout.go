package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/stakemap/pkg/export"
	"github.com/vanderheijden86/stakemap/pkg/layout"
)

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <data.json>",
		Short: "Print the resolved node positions as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			nodes, err := loadInput(ctx, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			sim := layout.New(cfg, nodes)
			if err := sim.Run(ctx, nil); err != nil {
				return fmt.Errorf("layout: %w", err)
			}
			loggerFromContext(ctx).Debug("layout converged", "ticks", sim.Ticks(), "alpha", sim.Alpha())
			return export.Render(cmd.OutOrStdout(), export.FormatJSON, cfg, sim.Bodies())
		},
	}
}
