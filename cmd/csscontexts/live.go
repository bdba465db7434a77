package main

import (
	"github.com/spf13/cobra"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/live"
)

var liveCmd = &cobra.Command{
	Use:   "live <url> <selector>",
	Short: "Classify an element in a page rendered by Chrome",
	Long: `Live opens url in Chrome, launched locally or reached through
--remote-url, captures the computed styles of the selected element and its
ancestors and classifies the captured chain. The filter containing block
rule is applied for Firefox or when --filter-containing-block is set.`,
	Args: cobra.ExactArgs(2),
	RunE: runLive,
}

func init() {
	f := liveCmd.Flags()
	f.String("remote-url", "", "DevTools WebSocket URL of a running browser")
	f.Bool("headless", true, "Run the launched browser headless")
	f.Bool("stealth", false, "Apply stealth evasions to the page")
	f.Duration("timeout", 0, "Page load and capture timeout (default from config, 30s)")
	rootCmd.AddCommand(liveCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
	r, err := renderer()
	if err != nil {
		return err
	}

	insp := live.NewInspector(cfg.InspectorConfig(logger))
	defer insp.Close()

	snap, err := insp.Inspect(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	opts := snap.Options()
	opts.FilterContainingBlock = opts.FilterContainingBlock || cfg.Classify.FilterContainingBlock
	out, err := r.Render(classify.New(snap.Style, opts).Classify(snap.Target()))
	if err != nil {
		return err
	}
	return writeRendered(cmd.OutOrStdout(), out)
}
