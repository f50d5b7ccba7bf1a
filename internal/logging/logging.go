package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Options selects the handler and level of the process logger.
type Options struct {
	Format string // "text" (tint) or "json"
	Level  string // "debug", "info", "warn" or "error"
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q: %w", name, err)
	}
	return level, nil
}

// New builds a logger writing to w. Text output is colourised only when w is
// a terminal.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    !isTerminal(w),
		})
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return slog.New(handler), nil
}

// Setup builds a stderr logger and installs it as the slog default.
func Setup(opts Options) (*slog.Logger, error) {
	logger, err := New(os.Stderr, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
