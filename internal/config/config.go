package config

import (
	"strings"
)

// Config represents the complete typdoc configuration.
// It can be loaded from .typdoc/config.yml with environment variable overrides.
type Config struct {
	Input    InputConfig    `yaml:"input" mapstructure:"input"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Render   RenderConfig   `yaml:"render" mapstructure:"render"`
	Generate GenerateConfig `yaml:"generate" mapstructure:"generate"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// InputConfig defines which files in a directory argument are documented.
type InputConfig struct {
	Patterns []string `yaml:"patterns" mapstructure:"patterns"` // glob patterns matched against file names
	Ignore   []string `yaml:"ignore" mapstructure:"ignore"`     // glob patterns to skip
}

// OutputConfig defines where the generated document is written.
type OutputConfig struct {
	File string `yaml:"file" mapstructure:"file"` // relative paths resolve against the working directory
}

// RenderConfig controls document rendering.
type RenderConfig struct {
	Labels string `yaml:"labels" mapstructure:"labels"` // label preset: "en" or "ru"
}

// GenerateConfig controls the generation pipeline.
type GenerateConfig struct {
	Workers         int `yaml:"workers" mapstructure:"workers"`                     // parallel extraction workers
	WatchDebounceMs int `yaml:"watch_debounce_ms" mapstructure:"watch_debounce_ms"` // quiet period before a rebuild in watch mode
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
	Level  string `yaml:"level" mapstructure:"level"`   // "debug", "info", "warn" or "error"
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Patterns: []string{"*.h", "*.hpp"},
			Ignore:   []string{},
		},
		Output: OutputConfig{
			File: "docs.typ",
		},
		Render: RenderConfig{
			Labels: "en",
		},
		Generate: GenerateConfig{
			Workers:         1,
			WatchDebounceMs: 500,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// GetSourceExtensions extracts unique file extensions from the input patterns.
// Returns extensions with leading dot (e.g., []string{".h", ".hpp"}), in
// pattern order.
func (c *Config) GetSourceExtensions() []string {
	seen := make(map[string]bool)
	var extensions []string

	for _, pattern := range c.Input.Patterns {
		ext := extractExtension(pattern)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		extensions = append(extensions, ext)
	}

	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if pattern doesn't match a simple extension pattern.
// Examples: "*.h" -> ".h", "**/*.hpp" -> ".hpp", "Room.h" -> ""
func extractExtension(pattern string) string {
	idx := strings.LastIndex(pattern, "*.")
	if idx == -1 {
		return ""
	}
	ext := pattern[idx+1:]
	if strings.ContainsAny(ext, "*?[{") {
		return ""
	}
	return ext
}
