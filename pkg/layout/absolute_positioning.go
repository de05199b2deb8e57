package layout

import (
	"math"

	"layerstack/pkg/css"
)

// applyPositioning moves positioned boxes into place, parents before
// children so that every containing block is final when it is used.
func (le *LayoutEngine) applyPositioning(box *Box) {
	oldX, oldY := box.X, box.Y
	switch box.Position {
	case css.PositionAbsolute, css.PositionFixed:
		le.applyAbsolutePositioning(box)
	case css.PositionRelative:
		applyRelativePositioning(box)
	}
	if dx, dy := box.X-oldX, box.Y-oldY; dx != 0 || dy != 0 {
		shiftChildren(box, dx, dy)
	}
	for _, child := range box.Children {
		le.applyPositioning(child)
	}
}

// applyRelativePositioning offsets a box from its flow position.
// left wins over right and top over bottom.
func applyRelativePositioning(box *Box) {
	offset := box.Style.GetPositionOffset()
	if offset.HasLeft {
		box.X += offset.Left
	} else if offset.HasRight {
		box.X -= offset.Right
	}
	if offset.HasTop {
		box.Y += offset.Top
	} else if offset.HasBottom {
		box.Y -= offset.Bottom
	}
}

// containingBlockSize returns the padding box size of the containing block
// of an out-of-flow box. An auto height is reported as -1.
func (le *LayoutEngine) containingBlockSize(box *Box) (float64, float64) {
	cb := box.FindContainingBlock()
	if cb == nil || cb.Node == nil {
		return le.viewport.width, le.viewport.height
	}
	height := -1.0
	if h := parentContentHeight(cb); h >= 0 {
		height = h + cb.Padding.Vertical()
	}
	return cb.Width + cb.Padding.Horizontal(), height
}

// applyAbsolutePositioning places an out-of-flow box against the padding
// box of its containing block (CSS 2.1 10.3.7 and 10.6.4). With both
// offsets set and both margins auto, the box is centered on that axis.
func (le *LayoutEngine) applyAbsolutePositioning(box *Box) {
	cbX, cbY, cbW, cbH := 0.0, 0.0, le.viewport.width, le.viewport.height
	if cb := box.FindContainingBlock(); cb != nil && cb.Node != nil {
		cbX, cbY = cb.X+cb.Border.Left, cb.Y+cb.Border.Top
		cbW, cbH = cb.Width+cb.Padding.Horizontal(), cb.Height+cb.Padding.Vertical()
	}
	off := box.Style.GetPositionOffset()

	box.X = placeAxis(cbX, cbW, box.BorderBoxWidth(),
		edge{off.HasLeft, off.Left}, edge{off.HasRight, off.Right},
		&box.Margin.Left, &box.Margin.Right, box.autoMargins("margin-left", "margin-right"))
	box.Y = placeAxis(cbY, cbH, box.BorderBoxHeight(),
		edge{off.HasTop, off.Top}, edge{off.HasBottom, off.Bottom},
		&box.Margin.Top, &box.Margin.Bottom, box.autoMargins("margin-top", "margin-bottom"))
}

type edge struct {
	set bool
	v   float64
}

// placeAxis returns the border edge coordinate of a box of the given
// size inside [origin, origin+extent].
func placeAxis(origin, extent, size float64, start, end edge, mStart, mEnd *float64, autoMargins bool) float64 {
	switch {
	case start.set && end.set && autoMargins:
		free := math.Max(extent-start.v-end.v-size, 0)
		*mStart, *mEnd = free/2, free/2
		return origin + start.v + *mStart
	case start.set:
		return origin + start.v + *mStart
	case end.set:
		return origin + extent - end.v - *mEnd - size
	}
	return origin + *mStart
}

func (b *Box) autoMargins(start, end string) bool {
	if b.Style == nil {
		return false
	}
	s, _ := b.Style.Get(start)
	e, _ := b.Style.Get(end)
	return s == "auto" && e == "auto"
}

// FindContainingBlock returns the box that out-of-flow offsets of b are
// measured against. Nil stands for the viewport.
func (b *Box) FindContainingBlock() *Box {
	switch b.Style.GetPosition() {
	case css.PositionFixed:
		return nil
	case css.PositionAbsolute:
		for p := b.Parent; p != nil; p = p.Parent {
			if p.Position != css.PositionStatic {
				return p
			}
		}
		return nil
	}
	return b.Parent
}
