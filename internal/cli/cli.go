// Package cli implements the stakemap command-line interface.
//
// # Commands
//
//   - render: lay out a stakeholder file and write PNG, SVG, HTML or JSON
//   - layout: print the resolved positions as JSON
//   - view: interactive terminal preview
//   - watch: re-render whenever the input file changes
//   - config: write or print the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// and the loaded configuration travel in the command's context.Context.
package cli

import (
	"context"

	"github.com/charmbracelet/log"
)

const appName = "stakemap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Execute builds the command tree and runs it with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
