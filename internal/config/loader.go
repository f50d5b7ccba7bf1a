package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader that reads an explicit config file instead of
// searching rootDir/.typdoc. A missing file is an error.
func NewFileLoader(configFile string) Loader {
	return &loader{
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (TYPDOC_*)
// 2. Config file (.typdoc/config.yml, .typdoc/config.yaml or an explicit file)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	// Configure viper
	v := viper.New()

	// Set up config file search
	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".typdoc"))
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("TYPDOC")
	v.AutomaticEnv()

	// Replace . with _ in env var names (e.g., TYPDOC_OUTPUT_FILE)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	// Input configuration
	v.BindEnv("input.patterns")
	v.BindEnv("input.ignore")

	// Output and rendering configuration
	v.BindEnv("output.file")
	v.BindEnv("render.labels")

	// Generation configuration
	v.BindEnv("generate.workers")
	v.BindEnv("generate.watch_debounce_ms")

	// Logging configuration
	v.BindEnv("log.format")
	v.BindEnv("log.level")

	// Set defaults in viper
	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Some other error occurred while reading the config file
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Input defaults
	v.SetDefault("input.patterns", defaults.Input.Patterns)
	v.SetDefault("input.ignore", defaults.Input.Ignore)

	// Output and rendering defaults
	v.SetDefault("output.file", defaults.Output.File)
	v.SetDefault("render.labels", defaults.Render.Labels)

	// Generation defaults
	v.SetDefault("generate.workers", defaults.Generate.Workers)
	v.SetDefault("generate.watch_debounce_ms", defaults.Generate.WatchDebounceMs)

	// Logging defaults
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.level", defaults.Log.Level)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
