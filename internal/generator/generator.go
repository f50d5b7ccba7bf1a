package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"

	"github.com/mickleon/typdoc/internal/extraction"
	"github.com/mickleon/typdoc/internal/formatter"
	"github.com/mickleon/typdoc/internal/parsers"
)

// DefaultCacheSize is the number of extracted units kept between runs.
const DefaultCacheSize = 1024

// Stats summarises one generation run.
type Stats struct {
	Files        int
	Declarations int
	CacheHits    int
	OutputPath   string
	Duration     time.Duration
}

// Generator runs the extract → format → write pipeline over header files.
// Extraction results are cached by file name and content, so repeated runs
// (watch mode) only re-parse files that changed.
type Generator struct {
	parser    *parsers.CppParser
	formatter formatter.Formatter
	workers   int
	progress  ProgressReporter
	logger    *slog.Logger
	cache     otter.Cache[string, *extraction.SourceUnit]
	hits      atomic.Int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithWorkers sets how many files are extracted in parallel.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(g *Generator) {
		if p != nil {
			g.progress = p
		}
	}
}

// WithLogger sets the logger used for per-file messages.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a generator that renders with f.
func New(f formatter.Formatter, opts ...Option) (*Generator, error) {
	cache, err := otter.MustBuilder[string, *extraction.SourceUnit](DefaultCacheSize).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction cache: %w", err)
	}

	g := &Generator{
		parser:    parsers.NewCppParser(),
		formatter: f,
		workers:   1,
		progress:  &NoOpProgressReporter{},
		logger:    slog.Default(),
		cache:     cache,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Close releases the extraction cache.
func (g *Generator) Close() {
	g.cache.Close()
}

// Extract parses every file and returns the units in input order.
func (g *Generator) Extract(ctx context.Context, files []string) ([]*extraction.SourceUnit, error) {
	units := make([]*extraction.SourceUnit, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, file := range files {
		eg.Go(func() error {
			unit, err := g.extractFile(ctx, file)
			if err != nil {
				return err
			}
			units[i] = unit
			g.progress.OnFileProcessed(file)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func (g *Generator) extractFile(ctx context.Context, path string) (*extraction.SourceUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.logger.Info("processing", "file", path)

	name, source, err := g.parser.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	key := cacheKey(name, source)
	if unit, ok := g.cache.Get(key); ok {
		g.hits.Add(1)
		g.logger.Debug("extraction cache hit", "file", path)
		return unit, nil
	}

	unit := g.parser.Parse(name, string(source))
	g.cache.Set(key, unit)
	g.logger.Debug("extracted", "file", path, "declarations", len(unit.Declarations))
	return unit, nil
}

// cacheKey identifies a unit by display name and content.
func cacheKey(name string, source []byte) string {
	sum := sha256.Sum256(source)
	return name + ":" + hex.EncodeToString(sum[:])
}

// Generate extracts files and renders them into a single document.
func (g *Generator) Generate(ctx context.Context, files []string) (string, *Stats, error) {
	start := time.Now()
	hitsBefore := g.hits.Load()

	g.progress.OnStart(len(files))
	units, err := g.Extract(ctx, files)
	if err != nil {
		return "", nil, err
	}

	stats := &Stats{
		Files:     len(units),
		CacheHits: int(g.hits.Load() - hitsBefore),
	}
	for _, unit := range units {
		stats.Declarations += len(unit.Declarations)
	}

	doc := g.formatter.Format(units)
	stats.Duration = time.Since(start)
	return doc, stats, nil
}

// WriteFile generates the document for files and writes it to outputPath.
// The file is replaced atomically.
func (g *Generator) WriteFile(ctx context.Context, files []string, outputPath string) (*Stats, error) {
	doc, stats, err := g.Generate(ctx, files)
	if err != nil {
		return nil, err
	}

	if err := writeAtomic(outputPath, []byte(doc)); err != nil {
		return nil, err
	}

	stats.OutputPath = outputPath
	g.progress.OnComplete(stats)
	g.logger.Info("documentation written", "output", outputPath, "files", stats.Files, "declarations", stats.Declarations)
	return stats, nil
}

// writeAtomic writes data using the temp → rename pattern.
func writeAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
