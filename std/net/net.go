// Package net fetches documents, style sheets and images over HTTP.
package net

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "layerstack/1.0 (compatible; Go)"

// Client is an HTTP getter for page resources.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	MaxBody   int64 // bytes read per response; larger bodies are truncated
}

// DefaultClient is used by the package level functions.
var DefaultClient = &Client{
	HTTP:      &http.Client{Timeout: 30 * time.Second},
	UserAgent: userAgent,
	MaxBody:   32 << 20,
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.Code, e.URL)
}

// Get retrieves rawURL and returns the body and its Content-Type header.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, "", &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	var r io.Reader = resp.Body
	if c.MaxBody > 0 {
		r = io.LimitReader(r, c.MaxBody)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// Fetch is DefaultClient.Get without a deadline of its own.
func Fetch(rawURL string) ([]byte, string, error) {
	return DefaultClient.Get(context.Background(), rawURL)
}

func FetchContext(ctx context.Context, rawURL string) ([]byte, string, error) {
	return DefaultClient.Get(ctx, rawURL)
}

func FetchText(rawURL string) (string, error) {
	body, _, err := Fetch(rawURL)
	return string(body), err
}

// ResolveURL resolves ref against base. Unparsable input yields ref.
func ResolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Resolve makes ref absolute against base, which may be a URL, a
// directory or a file path. data: URIs and absolute references are
// returned as is, file:// references as plain paths.
func Resolve(base, ref string) string {
	switch {
	case strings.HasPrefix(ref, "data:"), IsNetworkURL(ref):
		return ref
	case strings.HasPrefix(ref, "file://"):
		if u, err := url.Parse(ref); err == nil {
			return u.Path
		}
		return strings.TrimPrefix(ref, "file://")
	case base == "":
		return ref
	case IsNetworkURL(base):
		return ResolveURL(base, ref)
	case filepath.IsAbs(ref):
		return ref
	}
	dir := base
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	return filepath.Join(dir, ref)
}
