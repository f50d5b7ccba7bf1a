package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [directory | files...]",
	Short: "Print the extracted header model as YAML",
	Long: `Extract runs the same heuristics as generate and prints the resulting
model (units, classes, members and comments) as YAML. Use it to see why a
declaration is or is not picked up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	fd, err := newDiscovery()
	if err != nil {
		return err
	}
	files, err := resolveInputs(fd, args)
	if err != nil {
		return err
	}

	gen, err := newGenerator(true)
	if err != nil {
		return err
	}
	defer gen.Close()

	units, err := gen.Extract(cmd.Context(), files)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(units); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return enc.Close()
}
