// Package live reads computed styles from a real browser over the Chrome
// DevTools Protocol, so elements can be classified against the values the
// engine actually computed.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"csscontexts/pkg/css"
)

// Config configures the inspector.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty launches a local Chrome.
	RemoteURL string

	Headless bool

	// Stealth opens pages with the go-rod stealth evasions applied.
	Stealth bool

	// Timeout bounds navigation and capture of one page. Default: 30s.
	Timeout time.Duration

	Logger logrus.FieldLogger
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
}

// Inspector owns one browser connection.
type Inspector struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
}

func NewInspector(cfg Config) *Inspector {
	cfg.defaults()
	return &Inspector{cfg: cfg}
}

// Start launches Chrome or connects to the remote instance. Inspect calls
// it on first use.
func (i *Inspector) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.browser != nil {
		return nil
	}

	log := i.cfg.Logger
	wsURL := i.cfg.RemoteURL
	if wsURL != "" {
		log.WithField("url", wsURL).Info("live: connecting to remote browser")
	} else {
		l := launcher.New().Context(ctx).Headless(i.cfg.Headless)
		u, err := l.Launch()
		if err != nil {
			return errors.Wrap(err, "live: launch")
		}
		wsURL = u
		i.lnch = l
		log.WithFields(logrus.Fields{"url": wsURL, "headless": i.cfg.Headless}).Info("live: launched local chrome")
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		i.killLauncher()
		return errors.Wrap(err, "live: connect")
	}
	if v, err := (proto.BrowserGetVersion{}).Call(b); err == nil {
		log.WithField("product", v.Product).Debug("live: browser ready")
	}
	i.browser = b
	return nil
}

// Close disconnects and stops a locally launched browser.
func (i *Inspector) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	var err error
	if i.browser != nil {
		err = i.browser.Close()
		i.browser = nil
	}
	i.killLauncher()
	return err
}

func (i *Inspector) killLauncher() {
	if i.lnch != nil {
		i.lnch.Kill()
		i.lnch = nil
	}
}

// Inspect opens pageURL, waits for it to load and captures the ancestor
// chain of the first element matching selector.
func (i *Inspector) Inspect(ctx context.Context, pageURL, selector string) (*Snapshot, error) {
	if err := i.Start(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	log := i.cfg.Logger.WithFields(logrus.Fields{"url": pageURL, "selector": selector})

	page, err := i.openPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(pageURL); err != nil {
		return nil, errors.Wrapf(err, "live: navigate %s", pageURL)
	}
	if err := page.WaitLoad(); err != nil {
		log.WithError(err).Warn("live: wait load")
	}

	snap, err := Capture(page, selector)
	if err != nil {
		return nil, err
	}
	snap.URL = pageURL
	log.WithField("depth", len(snap.Chain)).Debug("live: captured chain")
	return snap, nil
}

func (i *Inspector) openPage() (*rod.Page, error) {
	i.mu.Lock()
	b := i.browser
	i.mu.Unlock()
	if b == nil {
		return nil, errors.New("live: inspector is closed")
	}

	var page *rod.Page
	var err error
	if i.cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, errors.Wrap(err, "live: create tab")
	}
	return page, nil
}

// Capture evaluates the capture script on an already loaded page.
func Capture(page *rod.Page, selector string) (*Snapshot, error) {
	res, err := page.Eval(captureScript, selector, css.ContextProperties)
	if err != nil {
		return nil, errors.Wrapf(err, "live: evaluate capture of %q", selector)
	}
	return DecodeSnapshot([]byte(res.Value.Str()))
}

// captureScript walks from the matched element to the root and records the
// computed value of every property the classifier reads.
const captureScript = `(selector, props) => {
	const target = document.querySelector(selector);
	const out = { userAgent: navigator.userAgent, chain: null };
	if (!target) {
		return JSON.stringify(out);
	}
	out.chain = [];
	for (let el = target; el; el = el.parentElement) {
		const cs = window.getComputedStyle(el);
		const style = {};
		for (const p of props) {
			style[p] = cs.getPropertyValue(p);
		}
		out.chain.unshift({
			nodeName: el.nodeName,
			id: el.id,
			classes: Array.from(el.classList),
			style: style,
		});
	}
	return JSON.stringify(out);
}`
