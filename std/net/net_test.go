package net

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/css")
		w.Write([]byte("div { color: red }"))
	}))
	defer srv.Close()

	body, ct, err := Fetch(srv.URL + "/a.css")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "div { color: red }" || ct != "text/css" {
		t.Errorf("got %q (%s)", body, ct)
	}

	_, err = FetchText(srv.URL + "/missing")
	var status *StatusError
	if !errors.As(err, &status) || status.Code != http.StatusNotFound {
		t.Errorf("expected 404 status error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := FetchContext(ctx, srv.URL); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestClientMaxBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "probe" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	c := &Client{HTTP: srv.Client(), UserAgent: "probe", MaxBody: 4}
	body, _, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "0123" {
		t.Errorf("body = %q, want truncated to 4 bytes", body)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct{ base, ref, want string }{
		{"https://example.com/a/b.html", "c.png", "https://example.com/a/c.png"},
		{"https://example.com/a/b.html", "../c.png", "https://example.com/c.png"},
		{"https://example.com/a/", "https://other.org/x", "https://other.org/x"},
	}
	for _, tt := range tests {
		if got := ResolveURL(tt.base, tt.ref); got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	tests := []struct{ base, ref, want string }{
		{"", "a.css", "a.css"},
		{dir, "a.css", filepath.Join(dir, "a.css")},
		{page, "img/b.png", filepath.Join(dir, "img", "b.png")},
		{page, "/abs/c.png", "/abs/c.png"},
		{page, "file:///tmp/d.css", "/tmp/d.css"},
		{page, "data:text/css,a{}", "data:text/css,a{}"},
		{"https://example.com/p/index.html", "../e.png", "https://example.com/e.png"},
		{page, "http://x.org/f", "http://x.org/f"},
	}
	for _, tt := range tests {
		if got := Resolve(tt.base, tt.ref); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}

func TestIsNetworkURL(t *testing.T) {
	if !IsNetworkURL("http://x") || !IsNetworkURL("https://x") || IsNetworkURL("file:///x") {
		t.Error("IsNetworkURL misclassified")
	}
}
