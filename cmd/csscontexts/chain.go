package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/css"
	"csscontexts/pkg/panel"
)

var chainCmd = &cobra.Command{
	Use:   "chain <file|url> <selector>",
	Short: "List the ancestors of an element with their context properties",
	Long: `Chain prints every ancestor of the selected element, root first, with
the computed values the classifier reads. Elements that create a stacking
context are marked with the rule that makes them one; the containing block
is marked CB and the stacking context SC.`,
	Args: cobra.ExactArgs(2),
	RunE: runChain,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func runChain(cmd *cobra.Command, args []string) error {
	page, el, err := loadTarget(cmd.Context(), args[0], args[1], false)
	if err != nil {
		return err
	}
	c := page.Classifier(cfg.ClassifyOptions())
	res := c.Classify(el)
	chain := classify.Ancestors(el)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "ELEMENT\tROLE")
	for _, prop := range css.ContextProperties {
		fmt.Fprintf(w, "\t%s", prop)
	}
	fmt.Fprintln(w, "\tSTACKING")

	for i := len(chain) - 1; i >= 0; i-- {
		a := chain[i]
		style := page.Resolver.ComputedStyle(a)
		fmt.Fprintf(w, "%s%s\t%s", strings.Repeat(" ", len(chain)-1-i), panel.Describe(a), role(a, el, res))
		for _, prop := range css.ContextProperties {
			v := style.Value(prop)
			if v == "" {
				v = "-"
			}
			fmt.Fprintf(w, "\t%s", v)
		}
		reason, ok := c.StackingReason(a)
		if ok {
			fmt.Fprintf(w, "\t%s\n", reason)
		} else {
			fmt.Fprintln(w, "\t-")
		}
	}
	return w.Flush()
}

func role(a, target classify.Element, res *classify.Result) string {
	var marks []string
	if a == target {
		marks = append(marks, "target")
	}
	if res.ContainingBlock != nil && a == res.ContainingBlock {
		marks = append(marks, "CB")
	}
	if a == res.StackingContext {
		marks = append(marks, "SC")
	}
	if len(marks) == 0 {
		return "-"
	}
	return strings.Join(marks, ",")
}
