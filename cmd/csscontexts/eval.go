package main

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"csscontexts/pkg/html"
	"csscontexts/pkg/panel"
)

var evalSelector string

var evalCmd = &cobra.Command{
	Use:   "eval <file|url> [expression]",
	Short: "Evaluate JavaScript against a page",
	Long: `Eval runs the page's inline scripts and then evaluates expression in
the same context. The element matching --select is bound to $0, and
cssContext() returns its classification.

Examples:
  csscontexts eval page.html --select '#d'
  csscontexts eval page.html --select '#d' 'cssContext().containingBlock.id'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalSelector, "select", "s", "", "Selector of the element bound to $0")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	page, err := newLoader(true).Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if evalSelector != "" {
		el, err := page.Query(evalSelector)
		if err != nil {
			return err
		}
		page.Engine.Select(el)
	}

	expr := "cssContext()"
	if len(args) == 2 {
		expr = args[1]
	}
	value, err := page.Engine.Eval(expr)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(exportable(value), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}
	return writeRendered(cmd.OutOrStdout(), string(data))
}

// exportable replaces DOM nodes in an evaluation result with their labels.
func exportable(v interface{}) interface{} {
	switch v := v.(type) {
	case *html.Node:
		return panel.Describe(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = exportable(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[k] = exportable(e)
		}
		return out
	}
	return v
}
