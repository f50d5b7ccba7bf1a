package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mickleon/typdoc/internal/discovery"
	"github.com/mickleon/typdoc/internal/generator"
	"github.com/mickleon/typdoc/internal/watcher"
)

var (
	outputFlag  string
	quietFlag   bool
	watchFlag   bool
	workersFlag int
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [directory | files...]",
	Short: "Generate a Typst document from C++ headers",
	Long: `Generate extracts every class declared in the given headers and writes a
single Typst document.

A directory argument expands to the headers directly inside it that match
input.patterns (default *.h and *.hpp), grouped by pattern and sorted by
name. Any other argument is read as a file, in argument order.

Examples:
  # Document every header in include/
  typdoc generate include/

  # Document specific files, in this order
  typdoc generate point.h wall.h

  # Russian section labels, custom output
  TYPDOC_RENDER_LABELS=ru typdoc generate include/ -o api.typ

  # Rebuild whenever a header changes
  typdoc generate include/ --watch
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file (overrides output.file)")
	generateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the inputs and regenerate on change")
	generateCmd.Flags().IntVar(&workersFlag, "workers", 0, "parallel extraction workers (overrides generate.workers)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	output := cfg.Output.File
	if outputFlag != "" {
		output = outputFlag
	}
	if workersFlag > 0 {
		cfg.Generate.Workers = workersFlag
	}

	fd, err := newDiscovery()
	if err != nil {
		return err
	}
	files, err := resolveInputs(fd, args)
	if err != nil {
		return err
	}

	gen, err := newGenerator(quietFlag, generator.WithProgress(NewCLIProgressReporter(cmd.OutOrStdout(), quietFlag)))
	if err != nil {
		return err
	}
	defer gen.Close()

	if _, err := gen.WriteFile(ctx, files, output); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("generation cancelled")
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	if !watchFlag {
		return nil
	}

	return watchInputs(ctx, gen, fd, args, files, output)
}

// watchInputs regenerates output whenever a watched header changes. It blocks
// until ctx is cancelled.
func watchInputs(ctx context.Context, gen *generator.Generator, fd *discovery.FileDiscovery, args, files []string, output string) error {
	dirs, filter := watchTargets(fd, args, files)

	debounce := time.Duration(cfg.Generate.WatchDebounceMs) * time.Millisecond
	fw, err := watcher.NewFileWatcher(dirs, filter, debounce)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	err = fw.Start(ctx, func(changed []string) {
		slog.Info("headers changed, regenerating", "files", changed)

		// Re-resolve so headers added to a watched directory are picked up.
		current, err := fd.Resolve(args)
		if errors.Is(err, discovery.ErrNoInputFiles) {
			slog.Warn("no header files left to document")
			return
		}
		if err != nil {
			slog.Error("failed to resolve inputs", "error", err)
			return
		}
		if _, err := gen.WriteFile(ctx, current, output); err != nil && ctx.Err() == nil {
			slog.Error("regeneration failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	slog.Info("watching for changes", "dirs", dirs, "extensions", cfg.GetSourceExtensions())
	<-ctx.Done()

	if err := fw.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	slog.Info("watch mode stopped")
	return nil
}

// watchTargets returns the directories to watch and a filter accepting the
// files that belong to the inputs: headers inside directory arguments and
// the explicitly named files.
func watchTargets(fd *discovery.FileDiscovery, args, files []string) ([]string, func(string) bool) {
	dirArgs := make(map[string]bool)
	named := make(map[string]bool)
	var dirs []string
	addDir := func(dir string) {
		for _, d := range dirs {
			if d == dir {
				return
			}
		}
		dirs = append(dirs, dir)
	}

	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			dir := filepath.Clean(arg)
			dirArgs[dir] = true
			addDir(dir)
		}
	}
	for _, file := range files {
		named[filepath.Clean(file)] = true
		addDir(filepath.Dir(file))
	}

	filter := func(path string) bool {
		path = filepath.Clean(path)
		if named[path] {
			return true
		}
		return dirArgs[filepath.Dir(path)] && fd.Matches(path)
	}
	return dirs, filter
}
