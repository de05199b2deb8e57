package resource

import (
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"layerstack/pkg/layerstack"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFetchRelativeFile(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "index.html", "<p>x</p>")
	writeFile(t, dir, "site.css", "p { color: red; }")

	for _, base := range []string{dir, page} {
		f := NewFetcher(base)
		css, err := f.FetchCSS("site.css")
		if err != nil {
			t.Fatalf("base %s: %v", base, err)
		}
		if css != "p { color: red; }" {
			t.Errorf("base %s: css = %q", base, css)
		}
	}
}

func TestFetchMissingFile(t *testing.T) {
	f := NewFetcher(t.TempDir())
	if _, _, err := f.Fetch("nope.css"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFetchCSSRejectsImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("not css"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL + "/index.html")
	if _, err := f.FetchCSS("style.css"); err == nil {
		t.Fatal("expected a content type error")
	}
}

func TestResolveNetworkBase(t *testing.T) {
	f := NewFetcher("https://example.com/pages/index.html")
	if got := f.Resolve("img/a.png"); got != "https://example.com/pages/img/a.png" {
		t.Errorf("Resolve = %q", got)
	}
}

const heroPage = `<html><head><link rel="stylesheet" href="site.css"></head><body>
<div id="hero" class="hero"></div>
</body></html>`

const heroCSS = `.hero { width: 100px; height: 50px;
  background-image: linear-gradient(red, blue), radial-gradient(white, black); }`

func openHero(t *testing.T) *Page {
	t.Helper()
	dir := t.TempDir()
	page := writeFile(t, dir, "index.html", heroPage)
	writeFile(t, dir, "site.css", heroCSS)
	opts := DefaultOptions()
	opts.Width, opts.Height = 200, 100
	p, err := Open(page, opts)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenLoadsLinkedStylesheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "layerstack.resource")
	defer teardown()

	p := openHero(t)
	hero := p.Doc.GetElementByID("hero")
	bg := p.Window.GetComputedStyle(hero).GetPropertyValue("background-image")
	if !strings.HasPrefix(bg, "linear-gradient(") {
		t.Errorf("background-image = %q", bg)
	}
}

func TestPageStack(t *testing.T) {
	p := openHero(t)
	s, err := p.Stack(".hero")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Layers()) != 2 {
		t.Errorf("layers = %d, want 2", len(s.Layers()))
	}
	p.Frame()
	if !s.Container().HasClass(layerstack.AnimatedClass) {
		t.Error("stack should be animated after one frame")
	}
	if len(p.Stacks()) != 1 {
		t.Errorf("stacks = %d, want 1", len(p.Stacks()))
	}
}

func TestPageStackNoMatch(t *testing.T) {
	p := openHero(t)
	_, err := p.Stack(".missing")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
	if _, err := p.Stack("div >"); err == nil {
		t.Fatal("expected an invalid selector error")
	}
}

func TestScriptsCreateStacks(t *testing.T) {
	markup := `<div id="a" style="width: 10px; height: 10px; background-image: linear-gradient(red, blue)"></div>
<script>LayerStack(document.getElementById("a"));</script>`
	p, err := Load(markup, nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Stacks()) != 1 {
		t.Fatalf("stacks = %d, want 1", len(p.Stacks()))
	}

	opts := DefaultOptions()
	opts.Scripts = false
	p, err = Load(markup, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Stacks()) != 0 {
		t.Errorf("scripts disabled: stacks = %d, want 0", len(p.Stacks()))
	}
}

func TestDestroyAllNotifiesOncePerStack(t *testing.T) {
	markup := `<div id="a" style="width: 10px; height: 10px; background-image: linear-gradient(red, blue)"></div>`
	p, err := Load(markup, nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	s, err := p.Stack("#a")
	if err != nil {
		t.Fatal(err)
	}
	done := 0
	p.OnDestroyed(func(got *layerstack.Stack) {
		if got != s {
			t.Errorf("notified for the wrong stack")
		}
		done++
	})

	for i := 0; i < 3; i++ {
		p.DestroyAll()
	}
	if done != 0 {
		t.Fatalf("notified before transitionend: %d", done)
	}
	p.Window.DispatchTransitionEnd(s.Container())
	p.DestroyAll()
	if done != 1 {
		t.Errorf("notifications = %d, want 1", done)
	}
	if !s.Destroyed() {
		t.Error("stack not destroyed")
	}
}

func TestStackRenderer(t *testing.T) {
	markup := `<div class="hero" style="position: absolute; left: 0; top: 0; width: 40px; height: 40px;
  background-image: linear-gradient(red, red)"></div>`
	target := image.NewRGBA(image.Rect(0, 0, 64, 64))
	r := NewStackRenderer(nil, ".hero")
	if err := r.Render(markup, target); err != nil {
		t.Fatal(err)
	}
	if target.Bounds().Dx() != 64 {
		t.Fatalf("target resized")
	}
	// Far corner stays the page background.
	if c := target.RGBAAt(63, 63); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("corner = %v, want white", c)
	}
}
