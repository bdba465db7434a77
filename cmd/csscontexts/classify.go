package main

import (
	"github.com/spf13/cobra"

	"csscontexts/pkg/panel"
)

var classifyScripts bool

var classifyCmd = &cobra.Command{
	Use:   "classify <file|url> <selector>",
	Short: "Classify the first element matching a selector",
	Long: `Classify loads a page with its stylesheets and prints the CSS context
of the first element matching selector.

Examples:
  csscontexts classify page.html '#menu'
  csscontexts classify --format json https://example.com 'header nav'`,
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyScripts, "scripts", false, "Run the page's inline scripts before classifying")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	page, el, err := loadTarget(cmd.Context(), args[0], args[1], classifyScripts)
	if err != nil {
		return err
	}
	r, err := renderer()
	if err != nil {
		return err
	}

	pane := panel.NewPane(panel.DefaultTitle, page.Classifier(cfg.ClassifyOptions()), r)
	host := panel.NewHost()
	detach := pane.Attach(host)
	defer detach()
	host.Select(el)

	out, err := pane.Last()
	if err != nil {
		return err
	}
	return writeRendered(cmd.OutOrStdout(), out)
}
