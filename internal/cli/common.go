package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mickleon/typdoc/internal/discovery"
	"github.com/mickleon/typdoc/internal/formatter"
	"github.com/mickleon/typdoc/internal/generator"
	"github.com/mickleon/typdoc/internal/logging"
)

// newDiscovery builds file discovery from the loaded input configuration.
func newDiscovery() (*discovery.FileDiscovery, error) {
	fd, err := discovery.NewFileDiscovery(cfg.Input.Patterns, cfg.Input.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}
	return fd, nil
}

// resolveInputs turns command arguments into the ordered header list.
func resolveInputs(fd *discovery.FileDiscovery, args []string) ([]string, error) {
	files, err := fd.Resolve(args)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve inputs: %w", err)
	}
	return files, nil
}

// newGenerator creates a generator using the configured labels. When quiet is
// set only warnings and errors are logged.
func newGenerator(quiet bool, opts ...generator.Option) (*generator.Generator, error) {
	labels, err := formatter.LabelsFor(cfg.Render.Labels)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	if quiet {
		logger, err = logging.New(os.Stderr, logging.Options{Format: cfg.Log.Format, Level: "warn"})
		if err != nil {
			return nil, err
		}
	}

	opts = append([]generator.Option{
		generator.WithWorkers(cfg.Generate.Workers),
		generator.WithLogger(logger),
	}, opts...)

	gen, err := generator.New(formatter.NewTypstFormatter(labels), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return gen, nil
}
