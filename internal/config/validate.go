package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mickleon/typdoc/internal/formatter"
)

var (
	// ErrEmptyPatterns indicates no input patterns are configured
	ErrEmptyPatterns = errors.New("empty input patterns")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidOutput indicates a missing output file
	ErrInvalidOutput = errors.New("invalid output file")

	// ErrInvalidLabels indicates an unknown label preset
	ErrInvalidLabels = errors.New("invalid label preset")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")

	// ErrInvalidLogFormat indicates an unsupported log format
	ErrInvalidLogFormat = errors.New("invalid log format")

	// ErrInvalidLogLevel indicates an unsupported log level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

var (
	logFormats = []string{"text", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateInput(&cfg.Input); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(cfg.Output.File) == "" {
		errs = append(errs, fmt.Errorf("%w: file is required", ErrInvalidOutput))
	}

	if _, err := formatter.LabelsFor(cfg.Render.Labels); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidLabels, err))
	}

	if err := validateGenerate(&cfg.Generate); err != nil {
		errs = append(errs, err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateInput(cfg *InputConfig) error {
	var errs []error

	if len(cfg.Patterns) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one pattern required", ErrEmptyPatterns))
	}

	for _, pattern := range append(slices.Clone(cfg.Patterns), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	return joinErrors(errs)
}

func validateGenerate(cfg *GenerateConfig) error {
	var errs []error

	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if cfg.WatchDebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: watch_debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.WatchDebounceMs))
	}

	return joinErrors(errs)
}

func validateLog(cfg *LogConfig) error {
	var errs []error

	if !slices.Contains(logFormats, strings.ToLower(cfg.Format)) {
		errs = append(errs, fmt.Errorf("%w: must be one of %v, got '%s'", ErrInvalidLogFormat, logFormats, cfg.Format))
	}

	if !slices.Contains(logLevels, strings.ToLower(cfg.Level)) {
		errs = append(errs, fmt.Errorf("%w: must be one of %v, got '%s'", ErrInvalidLogLevel, logLevels, cfg.Level))
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into a single error. The result still
// matches every sentinel via errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return fmt.Errorf("validation failed: %w", errors.Join(errs...))
}
