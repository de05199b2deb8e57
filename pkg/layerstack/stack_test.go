package layerstack

import (
	"errors"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layerstack/pkg/html"
	"layerstack/pkg/parallax"
	"layerstack/pkg/window"
)

const page = `<html><head></head><body>
<div id="hero" style="width: 400px; height: 200px; border: 2px solid black;
  background-image: linear-gradient(red, blue), url(a.png), radial-gradient(circle, white, black);
  background-size: cover, 10px 20px, auto;
  background-repeat: no-repeat, repeat-x, repeat;
  background-position: center, 0 0, 50% 50%;
  background-origin: border-box, padding-box, content-box;"></div>
</body></html>`

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*window.Window, *html.Node) {
	t.Helper()
	doc, err := html.Parse(page)
	require.NoError(t, err)
	win := window.New(doc, 800, 600)
	win.Frame(start)
	hero := doc.GetElementByID("hero")
	require.NotNil(t, hero)
	return win, hero
}

func TestCreateMissingElement(t *testing.T) {
	win, _ := setup(t)
	before := win.Document().Root.Serialize()

	s, err := Create(win, nil, DefaultOptions())
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingElement))
	assert.Equal(t, "layerstack: missing input element", err.Error())
	assert.Equal(t, before, win.Document().Root.Serialize(), "document must be untouched")
}

func TestCreateBuildsLayers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "layerstack.stack")
	defer teardown()

	win, hero := setup(t)
	s, err := Create(win, hero, DefaultOptions())
	require.NoError(t, err)

	container := s.Container()
	assert.True(t, container.HasClass(ContainerClass))
	assert.Same(t, hero.Parent, container.Parent)
	assert.Same(t, container, hero.Parent.LastChild())

	stack := s.Element()
	assert.Same(t, stack, container.FirstChild())
	assert.True(t, stack.HasClass(StackClass))

	layers := s.Layers()
	require.Len(t, layers, 3)
	require.Len(t, stack.Children, 3)
	assert.Same(t, layers[0], stack.LastChild(), "first background is painted on top")
	assert.Same(t, layers[2], stack.FirstChild())

	assert.Equal(t, "linear-gradient(red, blue)", layers[0].StyleProperty("background-image"))
	assert.Equal(t, "url(a.png)", layers[1].StyleProperty("background-image"))
	assert.Equal(t, "radial-gradient(circle, white, black)", layers[2].StyleProperty("background-image"))
	assert.Equal(t, "10px 20px", layers[1].StyleProperty("background-size"))
	assert.Equal(t, "repeat-x", layers[1].StyleProperty("background-repeat"))
	assert.Equal(t, "50% 50%", layers[2].StyleProperty("background-position"))
	assert.Equal(t, "content-box", layers[2].StyleProperty("background-origin"))
	for _, l := range layers {
		assert.True(t, l.HasClass(LayerClass))
		assert.Equal(t, "2px solid black", l.StyleProperty("border"))
		assert.Equal(t, "border-box", l.StyleProperty("box-sizing"))
	}
}

func TestContainerGeometry(t *testing.T) {
	win, hero := setup(t)
	s, err := Create(win, hero, DefaultOptions())
	require.NoError(t, err)

	c := s.Container()
	assert.Equal(t, "404px", c.StyleProperty("width"))
	assert.Equal(t, "204px", c.StyleProperty("height"))
	assert.Equal(t, "0px", c.StyleProperty("top"))
	assert.Equal(t, "0px", c.StyleProperty("left"))
	assert.Equal(t, "404px", c.StyleProperty("right"))
	assert.Equal(t, "204px", c.StyleProperty("bottom"))
	assert.Equal(t, "0px", c.StyleProperty("x"))
	assert.Equal(t, "0px", c.StyleProperty("y"))
}

func TestAnimatedOnNextFrame(t *testing.T) {
	win, hero := setup(t)
	s, err := Create(win, hero, DefaultOptions())
	require.NoError(t, err)

	assert.False(t, s.Container().HasClass(AnimatedClass))
	win.Advance(16 * time.Millisecond)
	assert.True(t, s.Container().HasClass(AnimatedClass))
}

func TestSheetPublishing(t *testing.T) {
	win, hero := setup(t)
	s, err := Create(win, hero, DefaultOptions())
	require.NoError(t, err)

	sheet := s.Sheet()
	assert.Same(t, win.Document().Head(), sheet.Parent)
	assert.Equal(t, ":root { --xoffset: -30; --yoffset: 4 }", sheet.TextContent())
	assert.Equal(t, 0, s.Projector().Publishes(), "the creation publish is not a frame")

	cfg := parallax.DefaultConfig()
	for i := 0; i <= 50; i++ {
		win.DispatchPointerMove(float64(i*16), float64(i*12))
	}
	assert.Equal(t, 0, s.Projector().Publishes(), "no publish before the frame")
	win.Advance(16 * time.Millisecond)
	assert.Equal(t, 1, s.Projector().Publishes())
	assert.Equal(t, parallax.FormatRootVariables(cfg.Compute(800, 600, 800, 600)), sheet.TextContent())
	assert.InDelta(t, 30, s.Projector().Current().X, 1e-9)
	assert.InDelta(t, 0, s.Projector().Current().Y, 1e-9)

	win.DispatchPointerMove(400, 300)
	win.Advance(16 * time.Millisecond)
	assert.Equal(t, 2, s.Projector().Publishes())
	assert.InDelta(t, 0, s.Projector().Current().X, 1e-9)
	assert.InDelta(t, 2, s.Projector().Current().Y, 1e-9)
}

func TestCustomProjectorConfig(t *testing.T) {
	win, hero := setup(t)
	opts := DefaultOptions()
	opts.Projector = parallax.Config{MaxRotation: 90, MaxLayerOffset: 10}
	s, err := Create(win, hero, opts)
	require.NoError(t, err)
	assert.Equal(t, ":root { --xoffset: -45; --yoffset: 10 }", s.Sheet().TextContent())
}

func TestDestroyImmediate(t *testing.T) {
	win, hero := setup(t)
	s, err := Create(win, hero, DefaultOptions())
	require.NoError(t, err)
	win.Advance(16 * time.Millisecond)

	called := 0
	s.On(EventAfterDestroy, func(any) { called++ })
	s.Destroy(DestroyOptions{Immediate: true})

	assert.Equal(t, 1, called)
	assert.True(t, s.Destroyed())
	assert.Nil(t, s.Container().Parent)
	assert.Nil(t, s.Sheet().Parent)
	assert.False(t, s.Container().HasClass(AnimatedClass))
	assert.False(t, win.Document().Root.HasEventListeners("mousemove"))

	s.Destroy(DestroyOptions{Immediate: true})
	assert.Equal(t, 1, called, "second destroy is a no-op")
}

func TestDestroyWaitsForTransition(t *testing.T) {
	win, hero := setup(t)
	s, err := Create(win, hero, DefaultOptions())
	require.NoError(t, err)
	win.Advance(16 * time.Millisecond)

	called := 0
	s.On(EventAfterDestroy, func(any) { called++ })
	s.Destroy(DestroyOptions{})

	assert.False(t, s.Container().HasClass(AnimatedClass))
	assert.False(t, win.Document().Root.HasEventListeners("mousemove"))
	assert.NotNil(t, s.Container().Parent, "still in the document until transitionend")
	assert.Equal(t, 0, called)

	// pointer samples after destroy are ignored
	win.DispatchPointerMove(100, 100)
	win.Advance(time.Hour)
	assert.Equal(t, 0, s.Projector().Publishes())
	assert.NotNil(t, s.Container().Parent, "no timeout configured")

	win.DispatchTransitionEnd(s.Container())
	assert.Equal(t, 1, called)
	assert.Nil(t, s.Container().Parent)
	assert.Nil(t, s.Sheet().Parent)

	win.DispatchTransitionEnd(s.Container())
	assert.Equal(t, 1, called)
}

func TestImmediateDestroyCompletesPendingDestroy(t *testing.T) {
	win, hero := setup(t)
	s, err := Create(win, hero, DefaultOptions())
	require.NoError(t, err)
	win.Advance(16 * time.Millisecond)

	called := 0
	s.On(EventAfterDestroy, func(any) { called++ })
	s.Destroy(DestroyOptions{})
	s.Destroy(DestroyOptions{})
	require.NotNil(t, s.Container().Parent, "repeated pending destroy waits")
	assert.Equal(t, 0, called)

	s.Destroy(DestroyOptions{Immediate: true})
	assert.True(t, s.Destroyed())
	assert.Nil(t, s.Container().Parent)
	assert.Nil(t, s.Sheet().Parent)
	assert.Equal(t, 1, called)
	assert.False(t, s.Container().HasEventListeners("transitionend"))

	win.DispatchTransitionEnd(s.Container())
	s.Destroy(DestroyOptions{Immediate: true})
	assert.Equal(t, 1, called)
}

func TestDestroyTimeout(t *testing.T) {
	win, hero := setup(t)
	opts := DefaultOptions()
	opts.DestroyTimeout = 500 * time.Millisecond
	s, err := Create(win, hero, opts)
	require.NoError(t, err)

	called := 0
	s.On(EventAfterDestroy, func(any) { called++ })
	s.Destroy(DestroyOptions{})

	win.Advance(100 * time.Millisecond)
	assert.Equal(t, 0, called)
	win.Advance(500 * time.Millisecond)
	assert.Equal(t, 1, called)
	assert.Nil(t, s.Container().Parent)

	win.DispatchTransitionEnd(s.Container())
	assert.Equal(t, 1, called)
}

func TestTransitionBeatsTimeout(t *testing.T) {
	win, hero := setup(t)
	opts := DefaultOptions()
	opts.DestroyTimeout = 500 * time.Millisecond
	s, err := Create(win, hero, opts)
	require.NoError(t, err)

	called := 0
	s.On(EventAfterDestroy, func(any) { called++ })
	s.Destroy(DestroyOptions{})
	win.DispatchTransitionEnd(s.Container())
	assert.Equal(t, 1, called)

	win.Advance(time.Second)
	assert.Equal(t, 1, called)
}

func TestEvents(t *testing.T) {
	win, hero := setup(t)
	s, err := Create(win, hero, DefaultOptions())
	require.NoError(t, err)

	s.Trigger("nothing", nil)

	var got []any
	h := func(data any) { got = append(got, data) }
	s.On("ping", h)
	s.On("ping", h)
	s.Trigger("ping", 42)
	assert.Equal(t, []any{42, 42}, got)
}

func TestDetachedSourceGoesToBody(t *testing.T) {
	win, _ := setup(t)
	el := html.CreateElement("div")
	el.SetAttribute("style", "background-image: url(a.png), url(b.png)")

	s, err := Create(win, el, DefaultOptions())
	require.NoError(t, err)
	assert.Same(t, win.Document().Body(), s.Container().Parent)
	assert.Len(t, s.Layers(), 2)
}

func TestNoBackgroundYieldsOneLayer(t *testing.T) {
	win, _ := setup(t)
	el := html.CreateElement("div")
	s, err := Create(win, el, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, s.Layers(), 1)
	assert.Equal(t, "none", s.Layers()[0].StyleProperty("background-image"))
}

func TestUnsetListsReachEveryLayer(t *testing.T) {
	win, _ := setup(t)
	el := html.CreateElement("div")
	el.SetAttribute("style", "background-image: linear-gradient(red, blue), url(a.png)")
	s, err := Create(win, el, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, s.Layers(), 2)
	for i, l := range s.Layers() {
		assert.Equal(t, "auto", l.StyleProperty("background-size"), "layer %d", i)
		assert.Equal(t, "repeat", l.StyleProperty("background-repeat"), "layer %d", i)
		assert.Equal(t, "0% 0%", l.StyleProperty("background-position"), "layer %d", i)
		assert.Equal(t, "padding-box", l.StyleProperty("background-origin"), "layer %d", i)
	}
}
