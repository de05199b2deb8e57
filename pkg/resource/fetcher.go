package resource

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	stdnet "layerstack/std/net"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads http(s) URLs through std/net and everything else
// from the file system. References are resolved against a base first.
type DefaultFetcher struct {
	base string
	ctx  context.Context
}

// NewFetcher returns a fetcher resolving against base: a URL, a directory
// or a file path.
func NewFetcher(base string) *DefaultFetcher {
	return &DefaultFetcher{base: base, ctx: context.Background()}
}

// WithContext binds network requests of a copy of f to ctx.
func (f *DefaultFetcher) WithContext(ctx context.Context) *DefaultFetcher {
	c := *f
	c.ctx = ctx
	return &c
}

func (f *DefaultFetcher) Base() string { return f.base }

func (f *DefaultFetcher) Resolve(uri string) string {
	return stdnet.Resolve(f.base, uri)
}

func (f *DefaultFetcher) Fetch(uri string) ([]byte, string, error) {
	target := f.Resolve(uri)
	if stdnet.IsNetworkURL(target) {
		return stdnet.FetchContext(f.ctx, target)
	}
	body, err := os.ReadFile(target)
	if err != nil {
		return nil, "", fmt.Errorf("resource: %w", err)
	}
	return body, mime.TypeByExtension(filepath.Ext(target)), nil
}

// FetchText returns the body of uri as a string.
func (f *DefaultFetcher) FetchText(uri string) (string, error) {
	body, _, err := f.Fetch(uri)
	return string(body), err
}

// FetchCSS is FetchText for style sheets. A response typed as neither
// text nor CSS is an error.
func (f *DefaultFetcher) FetchCSS(uri string) (string, error) {
	body, contentType, err := f.Fetch(uri)
	if err != nil {
		return "", err
	}
	if ct := strings.ToLower(contentType); ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("resource: %s is %s, not a style sheet", uri, contentType)
	}
	return string(body), nil
}
