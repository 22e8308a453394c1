package cli

import (
	"context"
	"io"

	"github.com/vanderheijden86/stakemap/pkg/loader"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

// loadInput reads stakeholders from path, or from stdin when path is "-".
// Skipped records are logged as warnings.
func loadInput(ctx context.Context, path string, stdin io.Reader) ([]model.Node, error) {
	logger := loggerFromContext(ctx)
	opts := loader.ParseOptions{
		WarningHandler: func(msg string) { logger.Warn(msg, "input", path) },
	}

	var (
		nodes []model.Node
		err   error
	)
	if path == loader.StdinPath {
		nodes, err = loader.ParseNodesWithOptions(stdin, opts)
	} else {
		nodes, err = loader.LoadNodesWithOptions(path, opts)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("input loaded", "path", path, "stakeholders", len(nodes))
	return nodes, nil
}
