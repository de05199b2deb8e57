/*
Package layerstack splits the multiple backgrounds of an element into a
stack of single-background layer elements and keeps the stack's
pseudo-3D projection in step with the pointer.

A stack is built once with Create. Its layers read the offsets from a
<style> element holding two custom properties, which a parallax.Projector
rewrites at most once per frame. Destroy takes the stack out of the
document again, waiting for the closing transition unless asked not to.

	stack, err := layerstack.Create(win, el, layerstack.DefaultOptions())
	...
	stack.On("afterdestroy", func(any) { ... })
	stack.Destroy(layerstack.DestroyOptions{})
*/
package layerstack

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"layerstack/pkg/css"
	"layerstack/pkg/events"
	"layerstack/pkg/html"
	"layerstack/pkg/layout"
	"layerstack/pkg/parallax"
)

// tracer traces with key 'layerstack.stack'.
func tracer() tracing.Trace {
	return tracing.Select("layerstack.stack")
}

// ErrMissingElement is returned by Create when no source element is given.
var ErrMissingElement = errors.New("missing input element")

// Class names of the generated elements.
const (
	ContainerClass = "bg-stack-container"
	StackClass     = "bg-stack"
	LayerClass     = "bg-stack__layer"
	AnimatedClass  = "animated"
)

// Event names triggered by a Stack.
const (
	EventAfterDestroy = "afterdestroy"
)

// Host is the environment a stack lives in.
type Host interface {
	Document() *html.Document
	GetComputedStyle(node *html.Node) *css.Style
	GetBoundingClientRect(node *html.Node) layout.Rect
	ViewportSize() (width, height float64)
	RequestAnimationFrame(fn func())
	SetTimeout(d time.Duration, fn func()) int
	ClearTimeout(id int)
}

// Options configure Create.
type Options struct {
	Projector parallax.Config

	// DestroyTimeout, if positive, bounds how long a non-immediate Destroy
	// waits for the container's transition to end.
	DestroyTimeout time.Duration
}

// DefaultOptions uses parallax.DefaultConfig and no destroy timeout.
func DefaultOptions() Options {
	return Options{Projector: parallax.DefaultConfig()}
}

// DestroyOptions configure Destroy.
type DestroyOptions struct {
	Immediate bool
}

// Stack is a live layer stack.
type Stack struct {
	host      Host
	source    *html.Node
	container *html.Node
	stack     *html.Node
	layers    []*html.Node
	specs     []css.LayerSpec
	sheet     *html.Node
	projector *parallax.Projector
	emitter   events.Emitter[any]
	timeout   time.Duration

	pointerListener html.ListenerID
	endListener     html.ListenerID
	timer           int
	destroying      bool
	destroyed       bool
}

// Create builds the stack for el and inserts it next to el. The bounding
// box and computed style of el are read once, before anything is written.
func Create(host Host, el *html.Node, opts Options) (*Stack, error) {
	if el == nil {
		return nil, fmt.Errorf("layerstack: %w", ErrMissingElement)
	}
	doc := host.Document()
	box := host.GetBoundingClientRect(el)
	specs := css.ParseLayers(host.GetComputedStyle(el))
	if opts.Projector == (parallax.Config{}) {
		opts.Projector = parallax.DefaultConfig()
	}

	s := &Stack{
		host:    host,
		source:  el,
		specs:   specs,
		timeout: opts.DestroyTimeout,
	}

	s.stack = html.CreateElement("div")
	s.stack.AddClass(StackClass)
	s.container = html.CreateElement("div")
	s.container.AddClass(ContainerClass)
	s.container.AppendChild(s.stack)

	s.layers = make([]*html.Node, len(specs))
	for i, spec := range specs {
		layer := html.CreateElement("div")
		layer.AddClass(LayerClass)
		for _, p := range spec.Properties() {
			layer.SetStyleProperty(p.Name, p.Value)
		}
		// DOM order is reverse paint order: the first layer ends up last.
		s.stack.InsertBefore(layer, s.stack.FirstChild())
		s.layers[i] = layer
	}

	for _, f := range box.Fields() {
		s.container.SetStyleProperty(f.Name, formatPx(f.Value))
	}

	parent := el.Parent
	if parent == nil {
		tracer().Infof("source element is detached, appending stack to body")
		parent = doc.Body()
	}
	parent.AppendChild(s.container)

	host.RequestAnimationFrame(func() {
		if !s.destroying {
			s.container.AddClass(AnimatedClass)
		}
	})

	s.sheet = html.CreateElement("style")
	doc.Head().AppendChild(s.sheet)

	w, h := host.ViewportSize()
	s.projector = parallax.NewProjector(opts.Projector, w, h, host, parallax.NewSheetPublisher(s.sheet))
	s.projector.PublishNow()

	s.pointerListener = doc.Root.AddEventListener("mousemove", func(e *html.Event) {
		s.projector.PointerMove(e.ClientX, e.ClientY)
	}, html.ListenerOptions{})

	tracer().Infof("created stack with %d layers for <%s> at %.0fx%.0f+%.0f+%.0f",
		len(specs), el.TagName, box.Width, box.Height, box.X, box.Y)
	return s, nil
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Destroy stops tracking the pointer and removes the stack from the
// document. Unless opts.Immediate is set, removal waits for the container's
// transitionend (or the destroy timeout). EventAfterDestroy is triggered
// once the stack is gone. While a removal is pending, an immediate Destroy
// completes it; any other repeated call has no effect.
func (s *Stack) Destroy(opts DestroyOptions) {
	if s.destroying {
		if opts.Immediate && !s.destroyed {
			s.finish()
			return
		}
		tracer().Debugf("destroy: already destroying")
		return
	}
	s.destroying = true

	s.host.Document().Root.RemoveEventListener("mousemove", s.pointerListener)
	s.projector.Stop()
	s.container.RemoveClass(AnimatedClass)

	if opts.Immediate {
		s.finish()
		return
	}
	s.endListener = s.container.AddEventListener("transitionend", func(*html.Event) {
		s.finish()
	}, html.ListenerOptions{Once: true})
	if s.timeout > 0 {
		s.timer = s.host.SetTimeout(s.timeout, func() {
			tracer().Infof("destroy: no transitionend within %s", s.timeout)
			s.finish()
		})
	}
}

func (s *Stack) finish() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.timer != 0 {
		s.host.ClearTimeout(s.timer)
	}
	s.container.RemoveEventListener("transitionend", s.endListener)
	s.sheet.Remove()
	s.container.Remove()
	tracer().Debugf("stack removed")
	s.Trigger(EventAfterDestroy, nil)
}

// On registers fn for the named event.
func (s *Stack) On(name string, fn func(data any)) {
	s.emitter.On(name, fn)
}

// Trigger calls the handlers registered for name with data.
func (s *Stack) Trigger(name string, data any) {
	s.emitter.Trigger(name, data)
}

// Layers returns the layer elements in background order: Layers()[0]
// carries the first background-image entry.
func (s *Stack) Layers() []*html.Node {
	return s.layers
}

// Specs returns the parsed layer records.
func (s *Stack) Specs() []css.LayerSpec {
	return s.specs
}

func (s *Stack) Source() *html.Node {
	return s.source
}

func (s *Stack) Container() *html.Node {
	return s.container
}

// Element returns the .bg-stack element holding the layers.
func (s *Stack) Element() *html.Node {
	return s.stack
}

// Sheet returns the <style> element the offsets are published to.
func (s *Stack) Sheet() *html.Node {
	return s.sheet
}

func (s *Stack) Projector() *parallax.Projector {
	return s.projector
}

// Destroyed reports whether the stack has been removed from the document.
func (s *Stack) Destroyed() bool {
	return s.destroyed
}
