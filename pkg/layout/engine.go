package layout

import (
	"math"
	"strings"

	"layerstack/pkg/css"
	"layerstack/pkg/html"
)

// lineHeight is the height given to a line of inline text.
const lineHeight = 18.0

func NewLayoutEngine(viewportWidth, viewportHeight float64) *LayoutEngine {
	le := &LayoutEngine{}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// Layout computes styles for doc and lays out its element tree.
func (le *LayoutEngine) Layout(doc *html.Document) []*Box {
	return le.LayoutWithStyles(doc, css.ApplyStylesToDocument(doc))
}

// LayoutWithStyles lays out doc with precomputed styles.
func (le *LayoutEngine) LayoutWithStyles(doc *html.Document, styles map[*html.Node]*css.Style) []*Box {
	le.styles = styles
	le.boxes = make(map[*html.Node]*Box)

	root := &Box{Width: le.viewport.width, Height: le.viewport.height, Position: css.PositionStatic}
	boxes := le.layoutChildren(doc.Root, root, 0, 0, le.viewport.width)
	for _, b := range boxes {
		b.Parent = nil
	}
	for _, b := range boxes {
		le.applyPositioning(b)
	}
	return boxes
}

// BoxFor returns the box generated for node by the last layout, or nil.
func (le *LayoutEngine) BoxFor(node *html.Node) *Box {
	return le.boxes[node]
}

// BoundingRect returns the border box of node. Nodes without a box (not
// laid out, display: none, text) yield the zero Rect.
func (le *LayoutEngine) BoundingRect(node *html.Node) Rect {
	b := le.boxes[node]
	if b == nil {
		return Rect{}
	}
	return NewRect(b.X, b.Y, b.BorderBoxWidth(), b.BorderBoxHeight())
}

func (le *LayoutEngine) styleFor(node *html.Node) *css.Style {
	if s, ok := le.styles[node]; ok && s != nil {
		return s
	}
	return css.NewStyle()
}

// layoutNode lays out one element at (x, y), the top-left corner of its
// margin box, within a containing block of the given width.
func (le *LayoutEngine) layoutNode(node *html.Node, x, y, availableWidth float64, parent *Box) *Box {
	style := le.styleFor(node)
	if style.GetDisplay() == css.DisplayNone {
		return nil
	}

	box := &Box{
		Node:     node,
		Style:    style,
		Margin:   style.GetMargin(),
		Padding:  style.GetPadding(),
		Border:   style.GetBorderWidth(),
		Parent:   parent,
		Position: style.GetPosition(),
	}
	box.X = x + box.Margin.Left
	box.Y = y + box.Margin.Top

	borderBox := style.GetPropertyValue("box-sizing") == "border-box"
	outOfFlow := box.Position == css.PositionAbsolute || box.Position == css.PositionFixed

	cbWidth, cbHeight := availableWidth, parentContentHeight(parent)
	if outOfFlow {
		cbWidth, cbHeight = le.containingBlockSize(box)
	}

	widthSet := true
	if w, ok := style.GetLength("width"); ok {
		box.Width = w
	} else if pct, ok := style.GetPercentage("width"); ok {
		box.Width = cbWidth * pct / 100
	} else if outOfFlow {
		offset := style.GetPositionOffset()
		if offset.HasLeft && offset.HasRight {
			box.Width = cbWidth - offset.Left - offset.Right - box.Margin.Horizontal() -
				box.Padding.Horizontal() - box.Border.Horizontal()
		} else {
			widthSet = false
		}
		borderBox = borderBox && widthSet
	} else {
		box.Width = availableWidth - box.Margin.Horizontal() - box.Padding.Horizontal() - box.Border.Horizontal()
		borderBox = false
	}
	if borderBox && widthSet {
		box.Width -= box.Padding.Horizontal() + box.Border.Horizontal()
	}
	if box.Width < 0 {
		box.Width = 0
	}

	heightSet := true
	if h, ok := style.GetLength("height"); ok {
		box.Height = h
	} else if pct, ok := style.GetPercentage("height"); ok && cbHeight >= 0 {
		box.Height = cbHeight * pct / 100
	} else {
		heightSet = false
	}
	if heightSet && style.GetPropertyValue("box-sizing") == "border-box" {
		box.Height -= box.Padding.Vertical() + box.Border.Vertical()
		if box.Height < 0 {
			box.Height = 0
		}
	}
	le.boxes[node] = box

	contentX := box.X + box.Border.Left + box.Padding.Left
	contentY := box.Y + box.Border.Top + box.Padding.Top
	box.Children = le.layoutChildren(node, box, contentX, contentY, box.Width)

	if !heightSet {
		box.Height = le.contentHeight(node, box, contentY)
	}
	if !widthSet {
		box.Width = shrinkToFitWidth(box, contentX)
	}
	return box
}

// parentContentHeight returns the definite content height of parent, or -1.
func parentContentHeight(parent *Box) float64 {
	if parent == nil {
		return -1
	}
	if parent.Node == nil {
		return parent.Height
	}
	if _, ok := parent.Style.GetLength("height"); ok {
		return parent.Height
	}
	if parent.Position == css.PositionAbsolute || parent.Position == css.PositionFixed {
		if _, ok := parent.Style.GetPercentage("height"); ok {
			return parent.Height
		}
	}
	return -1
}

// layoutChildren stacks the element children of node vertically from
// (x, y), collapsing adjoining margins of in-flow siblings.
func (le *LayoutEngine) layoutChildren(node *html.Node, parent *Box, x, y, width float64) []*Box {
	boxes := make([]*Box, 0)
	var prevBox *Box
	for _, child := range node.Children {
		if child.Type != html.ElementNode {
			continue
		}
		box := le.layoutNode(child, x, y, width, parent)
		if box == nil {
			continue
		}
		boxes = append(boxes, box)
		if box.Position == css.PositionAbsolute || box.Position == css.PositionFixed {
			continue
		}
		if prevBox != nil && shouldCollapseMargins(prevBox) && shouldCollapseMargins(box) {
			collapsed := collapseMargins(prevBox.Margin.Bottom, box.Margin.Top)
			adjustment := prevBox.Margin.Bottom + box.Margin.Top - collapsed
			box.Y -= adjustment
			shiftChildren(box, 0, -adjustment)
		}
		y = box.Y + box.BorderBoxHeight() + box.Margin.Bottom
		prevBox = box
	}
	return boxes
}

// contentHeight is the auto height of box: the extent of its in-flow
// children, at least one line when it holds text.
func (le *LayoutEngine) contentHeight(node *html.Node, box *Box, contentY float64) float64 {
	height := 0.0
	for _, child := range box.Children {
		if child.Position == css.PositionAbsolute || child.Position == css.PositionFixed {
			continue
		}
		bottom := child.Y + child.BorderBoxHeight() + child.Margin.Bottom - contentY
		if bottom > height {
			height = bottom
		}
	}
	if hasText(node) {
		height += lineHeight
	}
	return height
}

// shrinkToFitWidth is the width of the widest child margin box.
func shrinkToFitWidth(box *Box, contentX float64) float64 {
	width := 0.0
	for _, child := range box.Children {
		right := child.X - child.Margin.Left - contentX + child.outerWidth()
		if right > width {
			width = right
		}
	}
	return width
}

func hasText(node *html.Node) bool {
	for _, child := range node.Children {
		if child.Type == html.TextNode && strings.TrimSpace(child.Text) != "" {
			return true
		}
	}
	return false
}

// shouldCollapseMargins reports whether box takes part in sibling margin
// collapsing.
func shouldCollapseMargins(box *Box) bool {
	if box.Style == nil {
		return true
	}
	if v, _ := box.Style.Get("float"); v == "left" || v == "right" {
		return false
	}
	if box.Position == css.PositionAbsolute || box.Position == css.PositionFixed {
		return false
	}
	display := box.Style.GetDisplay()
	if display == css.DisplayInlineBlock || display == css.DisplayInline {
		return false
	}
	if overflow, ok := box.Style.Get("overflow"); ok && overflow != "visible" {
		return false
	}
	return true
}

// collapseMargins joins two adjoining vertical margins: the largest
// positive one plus the most negative one.
func collapseMargins(a, b float64) float64 {
	return math.Max(math.Max(a, b), 0) + math.Min(math.Min(a, b), 0)
}

func shiftChildren(box *Box, dx, dy float64) {
	for _, child := range box.Children {
		child.X += dx
		child.Y += dy
		shiftChildren(child, dx, dy)
	}
}
