/*
Package parallax turns a stream of pointer positions into the two offsets
that drive the pseudo-3D projection of a layer stack: a rotation around
the stack's vertical axis and a vertical spacing between layers.

Updates are coalesced: any number of pointer samples between two frames
cause a single recompute, which uses the most recent sample.
*/
package parallax

import (
	"strconv"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'layerstack.parallax'.
func tracer() tracing.Trace {
	return tracing.Select("layerstack.parallax")
}

// Config holds the projection ranges.
//
// MinRotation and MinLayerOffset are carried for configuration
// compatibility but do not enter the formulas: X always spans
// [-MaxRotation/2, +MaxRotation/2] and Y spans [0, MaxLayerOffset].
type Config struct {
	MaxRotation    float64
	MinRotation    float64
	MaxLayerOffset float64
	MinLayerOffset float64
}

// DefaultConfig returns a rotation range of ±30 degrees and a maximum
// layer offset multiplier of 4.
func DefaultConfig() Config {
	return Config{
		MaxRotation:    60,
		MinRotation:    0,
		MaxLayerOffset: 4,
		MinLayerOffset: 1,
	}
}

// Offsets is one projection result.
type Offsets struct {
	X float64 // rotation offset in degrees
	Y float64 // layer offset multiplier
}

// Compute maps a pointer position inside a viewport to offsets. A zero
// viewport dimension yields 0 for that axis.
func (c Config) Compute(pointerX, pointerY, viewportW, viewportH float64) Offsets {
	var o Offsets
	if viewportW != 0 {
		o.X = -(c.MaxRotation / 2) + (c.MaxRotation/viewportW)*pointerX
	}
	if viewportH != 0 {
		o.Y = c.MaxLayerOffset - (c.MaxLayerOffset/viewportH)*pointerY
	}
	return o
}

// FrameScheduler runs a callback once before the next presentation frame.
type FrameScheduler interface {
	RequestAnimationFrame(fn func())
}

// Publisher receives the offsets computed for a frame.
type Publisher interface {
	Publish(Offsets)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Offsets)

func (f PublisherFunc) Publish(o Offsets) { f(o) }

// Projector coalesces pointer samples into at most one publish per frame.
// It keeps no lock: PointerMove and the frame callback must run on the same
// cooperative queue.
type Projector struct {
	config           Config
	width, height    float64
	scheduler        FrameScheduler
	publisher        Publisher
	pointerX         float64
	pointerY         float64
	pending          bool
	stopped          bool
	publishes        int
	samplesThisFrame int
}

// NewProjector creates a projector for a viewport of the given size.
func NewProjector(cfg Config, viewportW, viewportH float64, scheduler FrameScheduler, publisher Publisher) *Projector {
	return &Projector{
		config:    cfg,
		width:     viewportW,
		height:    viewportH,
		scheduler: scheduler,
		publisher: publisher,
	}
}

// PointerMove records the latest pointer position and makes sure one frame
// callback is queued. It never blocks.
func (p *Projector) PointerMove(x, y float64) {
	if p.stopped {
		return
	}
	p.pointerX, p.pointerY = x, y
	p.samplesThisFrame++
	if p.pending {
		return
	}
	p.pending = true
	p.scheduler.RequestAnimationFrame(p.frame)
}

func (p *Projector) frame() {
	p.pending = false
	if p.stopped {
		return
	}
	tracer().Debugf("frame: %d pointer samples coalesced", p.samplesThisFrame)
	p.samplesThisFrame = 0
	p.publishes++
	p.publisher.Publish(p.Current())
}

// PublishNow publishes the offsets for the latest pointer position without
// waiting for a frame. It does not count towards Publishes.
func (p *Projector) PublishNow() {
	p.publisher.Publish(p.Current())
}

// Current returns the offsets for the latest pointer position.
func (p *Projector) Current() Offsets {
	return p.config.Compute(p.pointerX, p.pointerY, p.width, p.height)
}

// Pointer returns the latest recorded pointer position.
func (p *Projector) Pointer() (float64, float64) {
	return p.pointerX, p.pointerY
}

// Pending reports whether a frame callback is queued.
func (p *Projector) Pending() bool {
	return p.pending
}

// Publishes returns how many frames published offsets.
func (p *Projector) Publishes() int {
	return p.publishes
}

// Stop ignores further samples. A frame callback that is already queued
// publishes nothing.
func (p *Projector) Stop() {
	p.stopped = true
}

// FormatRootVariables renders offsets as the custom properties consumed by
// the layer transforms.
func FormatRootVariables(o Offsets) string {
	return ":root { --xoffset: " + formatNumber(o.X) + "; --yoffset: " + formatNumber(o.Y) + " }"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
