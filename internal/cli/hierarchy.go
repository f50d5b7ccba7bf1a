package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mickleon/typdoc/internal/hierarchy"
)

var hierarchyTitle string

// hierarchyCmd represents the hierarchy command
var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy [directory | files...]",
	Short: "Print the class inheritance tree as Typst",
	Long: `Hierarchy links every extracted class to its bases and prints the result
as a nested Typst list. Bases that are not declared in the inputs are marked
external. Inheritance cycles are reported and left out of the tree.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHierarchy,
}

func init() {
	rootCmd.AddCommand(hierarchyCmd)
	hierarchyCmd.Flags().StringVar(&hierarchyTitle, "title", "Class hierarchy", "heading of the generated section")
}

func runHierarchy(cmd *cobra.Command, args []string) error {
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

	g, err := hierarchy.Build(units)
	if err != nil {
		return fmt.Errorf("failed to build hierarchy: %w", err)
	}
	slog.Debug("hierarchy built", "classes", g.Size(), "skipped", len(g.Skipped()))
	for _, skipped := range g.Skipped() {
		slog.Warn("inheritance edge skipped", "base", skipped.Base, "derived", skipped.Derived, "error", skipped.Err)
	}

	doc, err := g.Render(hierarchyTitle)
	if err != nil {
		return fmt.Errorf("failed to render hierarchy: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), doc)
	return nil
}
