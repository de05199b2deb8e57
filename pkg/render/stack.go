package render

import (
	"math"

	"github.com/fogleman/gg"

	"layerstack/pkg/css"
	"layerstack/pkg/html"
	"layerstack/pkg/layerstack"
	"layerstack/pkg/layout"
)

// findStacks returns the stack containers under root in document order.
func findStacks(root *html.Node) []*html.Node {
	var found []*html.Node
	root.Walk(func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.HasClass(layerstack.ContainerClass) {
			found = append(found, n)
		}
		return false
	})
	return found
}

// StackRect returns the geometry a stack container carries inline.
func StackRect(container *html.Node) layout.Rect {
	px := func(prop string) float64 {
		v, _ := css.ParseLength(container.StyleProperty(prop))
		return v
	}
	return layout.NewRect(px("left"), px("top"), px("width"), px("height"))
}

// Projection is the transform applied to one layer of a stack.
type Projection struct {
	Rotation float64 // degrees around the stack centre
	Tilt     float64 // vertical squash
	Lift     float64 // px the layer is raised
}

// LayerProjection returns the projection of the layer at index from the
// bottom of a stack. The bottom layer stays in the stack plane; each
// layer above it is raised by yoffset * spacing more.
func LayerProjection(index int, xoffset, yoffset, spacing, tilt float64) Projection {
	return Projection{
		Rotation: xoffset,
		Tilt:     tilt,
		Lift:     float64(index) * yoffset * spacing,
	}
}

// drawStack paints the layers of one container back to front. Each layer
// is rasterised flat and then projected.
func (r *Renderer) drawStack(container *html.Node) {
	rect := StackRect(container)
	w, h := int(math.Ceil(rect.Width)), int(math.Ceil(rect.Height))
	if w <= 0 || h <= 0 {
		return
	}
	var stack *html.Node
	for _, c := range container.Children {
		if c.Type == html.ElementNode && c.HasClass(layerstack.StackClass) {
			stack = c
			break
		}
	}
	if stack == nil {
		return
	}

	xoffset, yoffset := r.vars["--xoffset"], r.vars["--yoffset"]
	cx, cy := rect.X+rect.Width/2, rect.Y+rect.Height/2
	index := 0
	for _, node := range stack.Children {
		if node.Type != html.ElementNode || !node.HasClass(layerstack.LayerClass) {
			continue
		}
		flat := gg.NewContext(w, h)
		r.drawBox(flat, layerBox(node, rect.Width, rect.Height))

		p := LayerProjection(index, xoffset, yoffset, r.options.LayerSpacing, r.options.Tilt)
		r.context.Push()
		r.context.Translate(0, -p.Lift)
		r.context.ScaleAbout(1, p.Tilt, cx, cy)
		r.context.RotateAbout(gg.Radians(p.Rotation), cx, cy)
		r.context.DrawImage(flat.Image(), int(math.Round(rect.X)), int(math.Round(rect.Y)))
		r.context.Pop()
		index++
	}
	tracer().Debugf("painted stack of %d layers, rotation %g, offset %g", index, xoffset, yoffset)
}

// layerBox builds the box of a layer filling a w x h stack with its
// inline style. Layers size their border box.
func layerBox(node *html.Node, w, h float64) *layout.Box {
	attr, _ := node.GetAttribute("style")
	style := css.ParseInlineStyle(attr)
	box := &layout.Box{
		Node:    node,
		Style:   style,
		Border:  style.GetBorderWidth(),
		Padding: style.GetPadding(),
	}
	box.Width = math.Max(0, w-box.Border.Horizontal()-box.Padding.Horizontal())
	box.Height = math.Max(0, h-box.Border.Vertical()-box.Padding.Vertical())
	return box
}
