package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"csscontexts/pkg/diagram"
)

var diagramOutput string

var diagramCmd = &cobra.Command{
	Use:   "diagram <file|url> <selector>",
	Short: "Draw the ancestor chain of an element to a PNG",
	Long: `Diagram draws the ancestors of the selected element as nested boxes.
The containing block is outlined in blue, the stacking context in red and
elements creating a stacking context are marked with an asterisk.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiagram,
}

func init() {
	diagramCmd.Flags().StringVarP(&diagramOutput, "output", "o", "contexts.png", "PNG file to write")
	diagramCmd.Flags().String("font", "", "TrueType font for labels (default: a system monospace font)")
	rootCmd.AddCommand(diagramCmd)
}

func runDiagram(cmd *cobra.Command, args []string) error {
	page, el, err := loadTarget(cmd.Context(), args[0], args[1], false)
	if err != nil {
		return err
	}
	if err := diagram.SavePNG(diagramOutput, page.Classifier(cfg.ClassifyOptions()), el, cfg.DiagramOptions()); err != nil {
		return err
	}
	logger.WithField("path", diagramOutput).Info("diagram written")
	fmt.Fprintln(cmd.OutOrStdout(), diagramOutput)
	return nil
}
