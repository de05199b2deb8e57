/*
Package render paints a laid-out document into an image with fogleman/gg.

Plain boxes get their background color, every background layer and their
border. Layer stacks are painted on top of the page with a pseudo-3D
projection driven by the --xoffset and --yoffset custom properties the
stack publishes into the document.
*/
package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/npillmayer/schuko/tracing"

	"layerstack/pkg/css"
	"layerstack/pkg/html"
	"layerstack/pkg/images"
	"layerstack/pkg/layerstack"
	"layerstack/pkg/layout"
)

// tracer traces with key 'layerstack.render'.
func tracer() tracing.Trace {
	return tracing.Select("layerstack.render")
}

// Options tune the projection of layer stacks.
type Options struct {
	// LayerSpacing is the lift in px per layer and unit of --yoffset.
	LayerSpacing float64
	// Tilt is the vertical squash of a stack, 1 meaning none.
	Tilt float64
	// Loader resolves url() images. Nil uses a loader without base.
	Loader *images.Loader
}

// DefaultOptions returns a spacing of 12px per layer and a tilt of 0.5.
func DefaultOptions() Options {
	return Options{LayerSpacing: 12, Tilt: 0.5}
}

type Renderer struct {
	context *gg.Context
	options Options
	vars    map[string]float64
}

func NewRenderer(width, height int, opts Options) *Renderer {
	if opts.Loader == nil {
		opts.Loader = images.NewLoader("")
	}
	if opts.Tilt <= 0 {
		opts.Tilt = 1
	}
	return &Renderer{context: gg.NewContext(width, height), options: opts}
}

// RenderDocument lays out doc in the renderer's viewport and paints it.
func (r *Renderer) RenderDocument(doc *html.Document) {
	engine := layout.NewLayoutEngine(float64(r.context.Width()), float64(r.context.Height()))
	boxes := engine.Layout(doc)
	r.SetVariables(css.ParseDocumentVariables(doc.StyleSheets()))
	r.Render(boxes)
	for _, c := range findStacks(doc.Root) {
		r.drawStack(c)
	}
}

// SetVariables sets the custom properties used by the stack projection.
func (r *Renderer) SetVariables(vars map[string]float64) {
	r.vars = vars
}

// Render paints boxes in tree order. Stack containers are skipped; they
// are painted by RenderDocument once the page is done.
func (r *Renderer) Render(boxes []*layout.Box) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()

	for _, box := range r.collectAllBoxes(boxes) {
		r.drawBox(r.context, box)
	}
}

// collectAllBoxes flattens the box tree into a single list
func (r *Renderer) collectAllBoxes(boxes []*layout.Box) []*layout.Box {
	result := make([]*layout.Box, 0)
	for _, box := range boxes {
		if box.Node != nil && box.Node.HasClass(layerstack.ContainerClass) {
			continue
		}
		result = append(result, box)
		result = append(result, r.collectAllBoxes(box.Children)...)
	}
	return result
}

func (r *Renderer) drawBox(dc *gg.Context, box *layout.Box) {
	if box.Style == nil {
		return
	}
	if bgColor, ok := box.Style.Get("background-color"); ok {
		if c, ok := css.ParseColor(bgColor); ok && c.A > 0 {
			dc.SetColor(toColor(c))
			if w, h := box.BorderBoxWidth(), box.BorderBoxHeight(); w > 0 && h > 0 {
				dc.DrawRectangle(box.X, box.Y, w, h)
				dc.Fill()
			}
		}
	}
	r.drawBackgroundLayers(dc, box)
	r.drawBorder(dc, box)
}

func toColor(c css.Color) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(c.A*255 + 0.5)}
}

// drawBorder draws each border side as a trapezoid, mitered at the corners.
func (r *Renderer) drawBorder(dc *gg.Context, box *layout.Box) {
	b := box.Border
	if b.Top <= 0 && b.Right <= 0 && b.Bottom <= 0 && b.Left <= 0 {
		return
	}
	if style, _ := box.Style.Get("border-style"); style == "none" || style == "hidden" {
		return
	}
	c := css.Color{A: 1}
	if v, ok := box.Style.Get("border-color"); ok {
		if parsed, ok := css.ParseColor(v); ok {
			c = parsed
		}
	}
	if c.A == 0 {
		return
	}
	dc.SetColor(toColor(c))

	outerLeft, outerTop := box.X, box.Y
	outerRight, outerBottom := box.X+box.BorderBoxWidth(), box.Y+box.BorderBoxHeight()
	innerLeft, innerTop := outerLeft+b.Left, outerTop+b.Top
	innerRight, innerBottom := outerRight-b.Right, outerBottom-b.Bottom

	side := func(width float64, pts ...float64) {
		if width <= 0 {
			return
		}
		dc.MoveTo(pts[0], pts[1])
		for i := 2; i < len(pts); i += 2 {
			dc.LineTo(pts[i], pts[i+1])
		}
		dc.ClosePath()
		dc.Fill()
	}
	side(b.Top, outerLeft, outerTop, outerRight, outerTop, innerRight, innerTop, innerLeft, innerTop)
	side(b.Right, outerRight, outerTop, outerRight, outerBottom, innerRight, innerBottom, innerRight, innerTop)
	side(b.Bottom, outerLeft, outerBottom, outerRight, outerBottom, innerRight, innerBottom, innerLeft, innerBottom)
	side(b.Left, outerLeft, outerTop, outerLeft, outerBottom, innerLeft, innerBottom, innerLeft, innerTop)
}

// Image returns the rendered image.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}
