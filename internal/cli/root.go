package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mickleon/typdoc/internal/config"
	"github.com/mickleon/typdoc/internal/logging"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	// cfg is the configuration loaded before any subcommand runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "typdoc",
	Short: "Generate Typst documentation from C++ headers",
	Long: `typdoc extracts classes, inheritance, constructors, fields, methods and
their comments from C++ header files and renders them as a Typst document.

Extraction is heuristic: lines that do not look like a declaration are
skipped silently.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .typdoc/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

// initConfig loads configuration and installs the process logger.
func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.NewFileLoader(cfgFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.Setup(logging.Options{Format: cfg.Log.Format, Level: cfg.Log.Level})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logger.Debug("configuration loaded", "config", cfgFile, "patterns", cfg.Input.Patterns, "labels", cfg.Render.Labels)
	return nil
}
