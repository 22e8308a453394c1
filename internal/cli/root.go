package cli

import (
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/stakemap/pkg/config"
	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/version"
)

// skipConfigAnnotation marks commands that must run even when the config
// file is broken.
const skipConfigAnnotation = "stakemap/skip-config"

// NewRootCommand returns the stakemap command with every subcommand
// registered.
func NewRootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:           appName,
		Short:         "Stakemap draws interest/influence stakeholder matrices",
		Long:          `Stakemap places stakeholders on a 3x3 interest/influence matrix, nudges overlapping nodes apart with a short force simulation and exports the result as PNG, SVG, interactive HTML or JSON.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if verbose {
				level = LogDebug
				debug.SetEnabled(true)
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			ctx := withLogger(cmd.Context(), logger)

			if _, skip := cmd.Annotations[skipConfigAnnotation]; !skip {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				logger.Debug("config loaded", "path", resolvedConfigPath(configPath))
				ctx = withConfig(ctx, cfg)
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(version.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/stakemap/config.yaml)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newConfigCmd(&configPath))
	return root
}

func resolvedConfigPath(flag string) string {
	if flag != "" {
		return config.ExpandHome(flag)
	}
	return config.ConfigPath()
}

func loadConfig(flag string) (config.Config, error) {
	if flag != "" {
		return config.LoadFrom(config.ExpandHome(flag))
	}
	return config.Load()
}
