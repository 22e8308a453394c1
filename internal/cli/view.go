package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/stakemap/pkg/ui"
)

// errNotTerminal is returned by view when stdout is redirected.
var errNotTerminal = errors.New("view needs an interactive terminal; use render or layout instead")

func newViewCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "view <data.json>",
		Short: "Preview the matrix in the terminal",
		Long: `View animates the layout in the terminal. Hover a node with the mouse or
cycle with tab to see its tooltip; press s to save the PNG, c to copy the
tooltip and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return errNotTerminal
			}
			ctx := cmd.Context()
			nodes, err := loadInput(ctx, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return ui.Run(ctx, configFromContext(ctx), nodes, ui.Options{OutputPath: output})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by the save key")
	return cmd
}
