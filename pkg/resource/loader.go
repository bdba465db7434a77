// Package resource loads documents from local files or URLs together with
// the stylesheets they link, ready for classification.
package resource

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/css"
	"csscontexts/pkg/html"
	"csscontexts/pkg/js"
)

// Page is a loaded document with its style resolver and script engine.
type Page struct {
	Source   string
	Doc      *html.Document
	Resolver *css.Resolver
	Engine   *js.Engine
}

// Classifier returns a classifier over the page's computed styles.
func (p *Page) Classifier(opts classify.Options) *classify.Classifier {
	return classify.New(p.Resolver.ComputedStyle, opts)
}

// Query returns the first element matching selector.
func (p *Page) Query(selector string) (*html.Node, error) {
	node, err := css.QuerySelector(p.Doc.Root, selector)
	if err != nil {
		return nil, errors.Wrapf(err, "resource: selector %q", selector)
	}
	if node == nil {
		return nil, errors.Errorf("resource: no element matches %q in %s", selector, p.Source)
	}
	return node, nil
}

// Loader reads and parses documents.
type Loader struct {
	Fetcher    Fetcher // nil uses a DefaultFetcher based at the source
	Viewport   css.Viewport
	Options    classify.Options
	RunScripts bool
	Log        logrus.FieldLogger
}

func NewLoader(log logrus.FieldLogger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{Viewport: css.DefaultViewport, Log: log}
}

// Load reads source, a file path or http(s) URL, fetches its linked
// stylesheets and prepares the resolver. Stylesheets that cannot be fetched
// or parsed are logged and skipped.
func (l *Loader) Load(ctx context.Context, source string) (*Page, error) {
	fetcher := l.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(source)
	}
	log := l.logger().WithField("source", source)

	body, _, err := fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, errors.Wrapf(err, "resource: loading %s", source)
	}
	return l.parse(ctx, source, string(body), fetcher, log)
}

// LoadString parses markup directly. Relative stylesheet links resolve
// against base.
func (l *Loader) LoadString(ctx context.Context, base, markup string) (*Page, error) {
	fetcher := l.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(base)
	}
	return l.parse(ctx, base, markup, fetcher, l.logger().WithField("source", base))
}

func (l *Loader) logger() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}

func (l *Loader) parse(ctx context.Context, source, markup string, fetcher Fetcher, log logrus.FieldLogger) (*Page, error) {
	doc, err := html.Parse(markup)
	if err != nil {
		return nil, errors.Wrapf(err, "resource: parsing %s", source)
	}

	for _, href := range doc.StylesheetLinks {
		text, err := fetchCSS(ctx, fetcher, href)
		if err != nil {
			log.WithError(err).WithField("href", href).Warn("skipping stylesheet")
			continue
		}
		doc.Stylesheets = append(doc.Stylesheets, text)
	}

	vp := l.Viewport
	if vp.Width == 0 && vp.Height == 0 {
		vp = css.DefaultViewport
	}
	resolver, err := css.NewDocumentResolver(doc, vp)
	if err != nil {
		log.WithError(err).Warn("stylesheet parse errors")
	}

	page := &Page{
		Source:   source,
		Doc:      doc,
		Resolver: resolver,
		Engine:   js.New(doc, resolver.ComputedStyle, l.Options, log),
	}
	if l.RunScripts {
		if err := page.Engine.Execute(); err != nil {
			log.WithError(err).Warn("script error")
		}
	}
	log.WithFields(logrus.Fields{
		"stylesheets": len(doc.Stylesheets),
		"scripts":     len(doc.Scripts),
	}).Debug("document loaded")
	return page, nil
}
