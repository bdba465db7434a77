package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"csscontexts/pkg/config"
	"csscontexts/pkg/html"
	"csscontexts/pkg/panel"
	"csscontexts/pkg/resource"
)

var (
	configFile string

	cfg    = config.Default()
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "csscontexts",
	Short: "Show the containing block and stacking context of an element",
	Long: `csscontexts reports, for a selected element, the CSS context it
participates in: its containing block, the stacking context it paints in,
whether it creates a new stacking context and why.

Pages are read from a file or URL and styled with their own stylesheets,
or inspected in a running Chrome with the live command.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default ./csscontexts.yaml or ~/.config/csscontexts/csscontexts.yaml)")
	pf.Bool("filter-containing-block", false, "Treat filter as establishing a containing block (Firefox behaviour)")
	pf.Float64("viewport-width", 1280, "Viewport width for media queries")
	pf.Float64("viewport-height", 720, "Viewport height for media queries")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringP("format", "f", "text", "Output format (text, json, yaml)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	loaded, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = cfg.NewLogger()
	logger.SetOutput(cmd.ErrOrStderr())
	return nil
}

func newLoader(runScripts bool) *resource.Loader {
	l := resource.NewLoader(logger)
	l.Viewport = cfg.CSSViewport()
	l.Options = cfg.ClassifyOptions()
	l.RunScripts = runScripts
	return l
}

// loadTarget loads source and returns the page with the first element
// matching selector.
func loadTarget(ctx context.Context, source, selector string, runScripts bool) (*resource.Page, *html.Node, error) {
	page, err := newLoader(runScripts).Load(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	el, err := page.Query(selector)
	if err != nil {
		return nil, nil, err
	}
	return page, el, nil
}

func writeRendered(w io.Writer, out string) error {
	if _, err := io.WriteString(w, out); err != nil {
		return errors.Wrap(err, "writing output")
	}
	if out != "" && out[len(out)-1] != '\n' {
		_, err := fmt.Fprintln(w)
		return err
	}
	return nil
}

func renderer() (panel.Renderer, error) {
	return panel.RendererFor(cfg.Output.Format)
}
