package resource

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"layerstack/pkg/css"
	"layerstack/pkg/html"
	"layerstack/pkg/images"
	"layerstack/pkg/js"
	"layerstack/pkg/layerstack"
	"layerstack/pkg/render"
	"layerstack/pkg/window"
)

func tracer() tracing.Trace {
	return tracing.Select("layerstack.resource")
}

// FrameInterval is the clock step of Page.Frame.
const FrameInterval = 16 * time.Millisecond

// ErrNoMatch is returned by Page.Stack when no element matches.
var ErrNoMatch = errors.New("no element matches selector")

// Renderer renders HTML content onto an image.
type Renderer interface {
	Render(htmlContent string, target *image.RGBA) error
}

// Options configure a Page.
type Options struct {
	Width, Height float64
	Stack         layerstack.Options
	Render        render.Options
	// Scripts enables page scripts.
	Scripts bool
}

// DefaultOptions returns a 1280x800 viewport with scripts enabled.
func DefaultOptions() Options {
	return Options{
		Width:   1280,
		Height:  800,
		Stack:   layerstack.DefaultOptions(),
		Render:  render.DefaultOptions(),
		Scripts: true,
	}
}

// Page is a loaded document shown in a window, with its script engine.
type Page struct {
	Doc     *html.Document
	Window  *window.Window
	Engine  *js.Engine
	fetcher *DefaultFetcher
	options Options
	stacks  []*layerstack.Stack
}

// Open fetches uri and loads it as a page. Relative resources resolve
// against uri.
func Open(uri string, opts Options) (*Page, error) {
	fetcher := NewFetcher(uri)
	markup, err := fetcher.FetchText(uri)
	if err != nil {
		return nil, fmt.Errorf("resource: %w", err)
	}
	return Load(markup, fetcher, opts)
}

// Load parses markup into a page. External stylesheets and images are
// loaded through fetcher, which may be nil. Script errors are logged and
// do not fail the load.
func Load(markup string, fetcher *DefaultFetcher, opts Options) (*Page, error) {
	if fetcher == nil {
		fetcher = NewFetcher("")
	}
	doc, err := html.ParseWithFetcher(markup, fetcher.FetchCSS)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if opts.Render.Loader == nil {
		opts.Render.Loader = images.NewLoader(fetcher.Base())
	}
	p := &Page{
		Doc:     doc,
		Window:  window.New(doc, opts.Width, opts.Height),
		fetcher: fetcher,
		options: opts,
	}
	p.Window.Frame(time.Unix(0, 0).UTC())
	p.Engine = js.New(p.Window, opts.Stack)
	if opts.Scripts && len(doc.Scripts) > 0 {
		if err := p.Engine.Execute(); err != nil {
			tracer().Errorf("js: %v", err)
		}
	}
	return p, nil
}

// Stack creates a layer stack from the first element matching selector.
func (p *Page) Stack(selector string) (*layerstack.Stack, error) {
	el, err := QuerySelector(p.Doc.Root, selector)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("resource: %q: %w", selector, ErrNoMatch)
	}
	s, err := layerstack.Create(p.Window, el, p.options.Stack)
	if err != nil {
		return nil, err
	}
	p.stacks = append(p.stacks, s)
	return s, nil
}

// OnDestroyed registers fn on every current stack. It runs once per stack
// when its removal completes.
func (p *Page) OnDestroyed(fn func(*layerstack.Stack)) {
	for _, s := range p.Stacks() {
		s := s
		s.On(layerstack.EventAfterDestroy, func(any) { fn(s) })
	}
}

// DestroyAll starts the animated removal of every stack.
func (p *Page) DestroyAll() {
	for _, s := range p.Stacks() {
		s.Destroy(layerstack.DestroyOptions{})
	}
}

// Stacks returns the stacks created by scripts followed by those created
// through Stack.
func (p *Page) Stacks() []*layerstack.Stack {
	all := append([]*layerstack.Stack(nil), p.Engine.Stacks()...)
	return append(all, p.stacks...)
}

// PointerMove moves the pointer and runs the frame that publishes it.
func (p *Page) PointerMove(x, y float64) {
	p.Window.DispatchPointerMove(x, y)
	p.Frame()
}

// Frame advances the page clock by one FrameInterval.
func (p *Page) Frame() {
	p.Window.Advance(FrameInterval)
}

// Render paints the current state of the page.
func (p *Page) Render() image.Image {
	return p.renderer().Image()
}

// SavePNG paints the current state of the page into a PNG file.
func (p *Page) SavePNG(filename string) error {
	return p.renderer().SavePNG(filename)
}

func (p *Page) renderer() *render.Renderer {
	r := render.NewRenderer(int(p.options.Width), int(p.options.Height), p.options.Render)
	r.RenderDocument(p.Doc)
	return r
}

// QuerySelector returns the first element below root matching the
// selector group, or nil.
func QuerySelector(root *html.Node, group string) (*html.Node, error) {
	var selectors []css.Selector
	for _, raw := range css.SplitSelectorGroup(group) {
		sel, ok := css.ParseSelector(raw)
		if !ok {
			return nil, fmt.Errorf("resource: invalid selector %q", raw)
		}
		selectors = append(selectors, sel)
	}
	if len(selectors) == 0 {
		return nil, fmt.Errorf("resource: empty selector")
	}
	var found *html.Node
	root.Walk(func(n *html.Node) bool {
		if n == root || n.Type != html.ElementNode {
			return false
		}
		for _, sel := range selectors {
			if css.MatchesSelector(n, sel) {
				found = n
				return true
			}
		}
		return false
	})
	return found, nil
}

// StackRenderer renders pages after turning every element matching
// Selector into a layer stack.
type StackRenderer struct {
	fetcher  *DefaultFetcher
	Selector string
	Options  Options
}

// NewStackRenderer creates a StackRenderer with the given fetcher.
func NewStackRenderer(fetcher *DefaultFetcher, selector string) *StackRenderer {
	return &StackRenderer{fetcher: fetcher, Selector: selector, Options: DefaultOptions()}
}

// Render parses the HTML content, builds the stacks, runs one frame and
// renders onto the target image. The viewport is the target size.
func (r *StackRenderer) Render(htmlContent string, target *image.RGBA) error {
	bounds := target.Bounds()
	opts := r.Options
	opts.Width, opts.Height = float64(bounds.Dx()), float64(bounds.Dy())

	p, err := Load(htmlContent, r.fetcher, opts)
	if err != nil {
		return err
	}
	if r.Selector != "" {
		if _, err := p.Stack(r.Selector); err != nil && !errors.Is(err, ErrNoMatch) {
			return err
		}
	}
	p.Frame()
	draw.Draw(target, bounds, p.Render(), image.Point{}, draw.Src)
	return nil
}
