/*
Package window provides a cooperative host for a parsed document: computed
styles, geometry, a frame queue, timers and synthetic pointer and
transition events.

Everything runs on the goroutine that calls Frame. A Window is not safe
for concurrent use.
*/
package window

import (
	"sort"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"layerstack/pkg/css"
	"layerstack/pkg/html"
	"layerstack/pkg/layout"
)

// tracer traces with key 'layerstack.window'.
func tracer() tracing.Trace {
	return tracing.Select("layerstack.window")
}

type timer struct {
	id  int
	due time.Time
	seq int
	fn  func()
}

// Window hosts one document inside a viewport of a fixed size.
type Window struct {
	doc           *html.Document
	width, height float64

	styles map[*html.Node]*css.Style
	engine *layout.LayoutEngine

	frameQueue []func()
	frames     int

	now     time.Time
	timers  []timer
	nextID  int
	timeSeq int
}

// New returns a window showing doc in a viewport of width x height px.
func New(doc *html.Document, width, height float64) *Window {
	return &Window{
		doc:    doc,
		width:  width,
		height: height,
	}
}

func (w *Window) Document() *html.Document {
	return w.doc
}

// ViewportSize returns innerWidth and innerHeight.
func (w *Window) ViewportSize() (float64, float64) {
	return w.width, w.height
}

// Resize changes the viewport and drops cached geometry.
func (w *Window) Resize(width, height float64) {
	w.width, w.height = width, height
	w.Invalidate()
}

// Invalidate drops the cached styles and layout. Call it after mutating
// the document outside of a frame; Frame does it on its own.
func (w *Window) Invalidate() {
	w.styles = nil
	w.engine = nil
}

// GetComputedStyle returns the cascaded style of node. Nodes outside the
// document get their inline style only.
func (w *Window) GetComputedStyle(node *html.Node) *css.Style {
	if w.styles == nil {
		w.styles = css.ApplyStylesToDocument(w.doc)
	}
	if style, ok := w.styles[node]; ok {
		return style
	}
	if w.doc.Root.Contains(node) {
		// attached after the styles were computed
		w.Invalidate()
		w.styles = css.ApplyStylesToDocument(w.doc)
		if style, ok := w.styles[node]; ok {
			return style
		}
	}
	tracer().Debugf("computed style requested for detached <%s>", node.TagName)
	style := css.ComputeStyle(node, nil)
	w.styles[node] = style
	return style
}

// GetBoundingClientRect returns the border box of node in viewport
// coordinates.
func (w *Window) GetBoundingClientRect(node *html.Node) layout.Rect {
	if w.engine == nil {
		if w.styles == nil {
			w.styles = css.ApplyStylesToDocument(w.doc)
		}
		w.engine = layout.NewLayoutEngine(w.width, w.height)
		w.engine.LayoutWithStyles(w.doc, w.styles)
	}
	return w.engine.BoundingRect(node)
}

// RequestAnimationFrame queues fn for the next frame.
func (w *Window) RequestAnimationFrame(fn func()) {
	w.frameQueue = append(w.frameQueue, fn)
}

// PendingFrames returns the number of queued frame callbacks.
func (w *Window) PendingFrames() int {
	return len(w.frameQueue)
}

// Frames returns how many frames have run.
func (w *Window) Frames() int {
	return w.frames
}

// Now is the time of the last frame.
func (w *Window) Now() time.Time {
	return w.now
}

// Frame advances the clock to now, fires the timers that are due and runs
// the frame callbacks queued before the frame began. Callbacks requested
// while the frame runs wait for the next one.
func (w *Window) Frame(now time.Time) {
	if now.After(w.now) {
		w.now = now
	}
	w.frames++
	w.Invalidate()
	w.fireTimers()

	queue := w.frameQueue
	w.frameQueue = nil
	if len(queue) > 0 {
		tracer().Debugf("frame %d: %d callbacks", w.frames, len(queue))
	}
	for _, fn := range queue {
		fn()
	}
}

// Advance runs one frame d after the previous one.
func (w *Window) Advance(d time.Duration) {
	w.Frame(w.now.Add(d))
}

// SetTimeout schedules fn to run at the first frame at least d from now.
func (w *Window) SetTimeout(d time.Duration, fn func()) int {
	w.nextID++
	w.timeSeq++
	w.timers = append(w.timers, timer{id: w.nextID, due: w.now.Add(d), seq: w.timeSeq, fn: fn})
	return w.nextID
}

// ClearTimeout cancels a timer. Unknown ids are ignored.
func (w *Window) ClearTimeout(id int) {
	for i, t := range w.timers {
		if t.id == id {
			w.timers = append(w.timers[:i:i], w.timers[i+1:]...)
			return
		}
	}
}

func (w *Window) fireTimers() {
	var due, rest []timer
	for _, t := range w.timers {
		if !t.due.After(w.now) {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	w.timers = rest
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	for _, t := range due {
		t.fn()
	}
}

// DispatchPointerMove delivers a mousemove at (x, y) to the document root.
func (w *Window) DispatchPointerMove(x, y float64) {
	w.doc.Root.DispatchEvent(&html.Event{
		Type:    "mousemove",
		Target:  w.doc.Root,
		ClientX: x,
		ClientY: y,
	})
}

// DispatchTransitionEnd tells node that its transform transition has
// finished.
func (w *Window) DispatchTransitionEnd(node *html.Node) {
	node.DispatchEvent(&html.Event{
		Type:         "transitionend",
		Target:       node,
		PropertyName: "transform",
	})
}
