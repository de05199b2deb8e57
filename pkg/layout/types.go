package layout

import (
	"layerstack/pkg/css"
	"layerstack/pkg/html"
)

type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64 // Margin-box origin plus left margin: the border edge
	Y        float64
	Width    float64 // Content width
	Height   float64 // Content height
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Border   css.BoxEdge
	Children []*Box
	Parent   *Box
	Position css.PositionType
}

// BorderBoxWidth returns the width including padding and border.
func (b *Box) BorderBoxWidth() float64 {
	return b.Width + b.Padding.Horizontal() + b.Border.Horizontal()
}

// BorderBoxHeight returns the height including padding and border.
func (b *Box) BorderBoxHeight() float64 {
	return b.Height + b.Padding.Vertical() + b.Border.Vertical()
}

// outerHeight is the border box height plus vertical margins.
func (b *Box) outerHeight() float64 {
	return b.BorderBoxHeight() + b.Margin.Vertical()
}

// outerWidth is the border box width plus horizontal margins.
func (b *Box) outerWidth() float64 {
	return b.BorderBoxWidth() + b.Margin.Horizontal()
}

type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
	styles map[*html.Node]*css.Style
	boxes  map[*html.Node]*Box
}

// Rect is a border-box rectangle in viewport coordinates, shaped like a
// DOMRect.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// NewRect returns the rect with origin (x, y) and the given size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{
		X: x, Y: y, Width: w, Height: h,
		Top: y, Right: x + w, Bottom: y + h, Left: x,
	}
}

// RectField is one named member of a Rect.
type RectField struct {
	Name  string
	Value float64
}

// Fields returns the members in DOMRect enumeration order.
func (r Rect) Fields() []RectField {
	return []RectField{
		{"x", r.X},
		{"y", r.Y},
		{"width", r.Width},
		{"height", r.Height},
		{"top", r.Top},
		{"right", r.Right},
		{"bottom", r.Bottom},
		{"left", r.Left},
	}
}
