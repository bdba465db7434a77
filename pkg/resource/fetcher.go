package resource

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	stdnet "csscontexts/std/net"
)

// ErrUnsupportedSource is returned for sources that are neither a local
// file nor an http(s) URL.
var ErrUnsupportedSource = errors.New("resource: unsupported source")

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads local files and fetches http(s) URLs, resolving
// relative URIs against a base.
type DefaultFetcher struct {
	baseURL string
}

// NewFetcher creates a DefaultFetcher with the given base, a URL or a file
// path. Relative URIs passed to Fetch are resolved against it.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL}
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := f.Resolve(uri)
	if stdnet.IsNetworkURL(resolved) {
		return stdnet.Fetch(ctx, resolved)
	}
	path, ok := localPath(resolved)
	if !ok {
		return nil, "", errors.Wrapf(ErrUnsupportedSource, "%s", resolved)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "resource: reading %s", path)
	}
	return body, contentTypeFor(path), nil
}

// Resolve makes uri absolute against the fetcher's base.
func (f *DefaultFetcher) Resolve(uri string) string {
	if f.baseURL == "" || strings.Contains(uri, "://") || strings.HasPrefix(uri, "file:") || filepath.IsAbs(uri) {
		return uri
	}
	if stdnet.IsNetworkURL(f.baseURL) || strings.HasPrefix(f.baseURL, "file:") {
		return stdnet.ResolveURL(f.baseURL, uri)
	}
	return filepath.Join(filepath.Dir(f.baseURL), filepath.FromSlash(uri))
}

// FetchCSS fetches a stylesheet URI and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func (f *DefaultFetcher) FetchCSS(ctx context.Context, uri string) (string, error) {
	return fetchCSS(ctx, f, uri)
}

func fetchCSS(ctx context.Context, f Fetcher, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", errors.Errorf("resource: unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}

// localPath maps a file: URL or a plain path to a filesystem path.
func localPath(uri string) (string, bool) {
	if strings.HasPrefix(uri, "file:") {
		u, err := url.Parse(uri)
		if err != nil || u.Path == "" {
			return "", false
		}
		return filepath.FromSlash(u.Path), true
	}
	if strings.Contains(uri, "://") {
		return "", false
	}
	return uri, true
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return "text/css"
	case ".html", ".htm":
		return "text/html"
	}
	return ""
}
