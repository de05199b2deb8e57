package css

import (
	"strconv"
	"strings"

	"layerstack/pkg/html"
)

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// initialValues are reported by GetPropertyValue for properties the
// cascade never set, the way getComputedStyle does.
var initialValues = map[string]string{
	"background-image":      "none",
	"background-size":       "auto",
	"background-repeat":     "repeat",
	"background-position":   "0% 0%",
	"background-origin":     "padding-box",
	"background-color":      "transparent",
	"background-attachment": "scroll",
	"box-sizing":            "content-box",
	"display":               "block",
	"position":              "static",
}

// perLayer are the background lists whose initial value is repeated once
// per background-image entry.
var perLayer = map[string]bool{
	"background-size":       true,
	"background-repeat":     true,
	"background-position":   true,
	"background-origin":     true,
	"background-attachment": true,
}

// GetPropertyValue returns the computed value of property, falling back to
// its initial value. Unknown unset properties yield "".
func (s *Style) GetPropertyValue(property string) string {
	if val, ok := s.Get(property); ok {
		return val
	}
	initial := initialValues[property]
	if !perLayer[property] {
		return initial
	}
	n := len(SplitTopLevel(s.GetPropertyValue("background-image")))
	if n < 1 {
		n = 1
	}
	return strings.TrimSuffix(strings.Repeat(initial+", ", n), ", ")
}

// Clone returns an independent copy of s.
func (s *Style) Clone() *Style {
	c := NewStyle()
	for k, v := range s.Properties {
		c.Properties[k] = v
	}
	return c
}

// GetLength parses property as a pixel length.
func (s *Style) GetLength(property string) (float64, bool) {
	if val, ok := s.Get(property); ok {
		return ParseLength(val)
	}
	return 0, false
}

// GetPercentage returns the numeric part of a percentage value such as "50%".
func (s *Style) GetPercentage(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return numberWithSuffix(val, "%", true)
}

// ParseLength accepts "100px" and unitless "100".
func ParseLength(val string) (float64, bool) {
	return numberWithSuffix(val, "px", false)
}

func numberWithSuffix(val, suffix string, required bool) (float64, bool) {
	val = strings.TrimSpace(val)
	trimmed := strings.TrimSuffix(val, suffix)
	if required && trimmed == val {
		return 0, false
	}
	num, err := strconv.ParseFloat(trimmed, 64)
	return num, err == nil
}

// BoxEdge holds one value per side of a box.
type BoxEdge struct {
	Top, Right, Bottom, Left float64
}

func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }
func (e BoxEdge) Vertical() float64   { return e.Top + e.Bottom }

func (s *Style) GetMargin() BoxEdge      { return s.edge("margin-", "") }
func (s *Style) GetPadding() BoxEdge     { return s.edge("padding-", "") }
func (s *Style) GetBorderWidth() BoxEdge { return s.edge("border-", "-width") }

// edge reads prefix+side+suffix for each side. Missing or unparsable
// sides are zero.
func (s *Style) edge(prefix, suffix string) BoxEdge {
	var v [4]float64
	for i, side := range boxSides {
		v[i], _ = s.GetLength(prefix + side + suffix)
	}
	return BoxEdge{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}
}

type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
)

// GetPosition returns the position type. Unknown values are static.
func (s *Style) GetPosition() PositionType {
	switch p := PositionType(s.GetPropertyValue("position")); p {
	case PositionRelative, PositionAbsolute, PositionFixed:
		return p
	}
	return PositionStatic
}

// PositionOffset holds top/right/bottom/left for positioned elements.
// An auto or missing offset has its Has flag cleared.
type PositionOffset struct {
	Top, Right, Bottom, Left             float64
	HasTop, HasRight, HasBottom, HasLeft bool
}

func (s *Style) GetPositionOffset() PositionOffset {
	var o PositionOffset
	o.Top, o.HasTop = s.GetLength("top")
	o.Right, o.HasRight = s.GetLength("right")
	o.Bottom, o.HasBottom = s.GetLength("bottom")
	o.Left, o.HasLeft = s.GetLength("left")
	return o
}

type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display type. Anything unknown lays out as block.
func (s *Style) GetDisplay() DisplayType {
	switch d := DisplayType(s.GetPropertyValue("display")); d {
	case DisplayInline, DisplayInlineBlock, DisplayNone:
		return d
	}
	return DisplayBlock
}

// ParseInlineStyle parses a style attribute into a Style, expanding
// shorthands.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range html.ParseStyleAttribute(styleAttr) {
		expandShorthand(style, decl.Property, decl.Value)
	}
	return style
}

func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, value)
	case "border":
		expandBorderProperty(style, value)
	case "background":
		expandBackgroundProperty(style, value)
	default:
		style.Set(property, value)
	}
}

// boxSideIndex maps the number of values of a margin or padding shorthand
// to the value index used for top, right, bottom and left.
var boxSideIndex = map[int][4]int{
	1: {0, 0, 0, 0},
	2: {0, 1, 0, 1},
	3: {0, 1, 2, 1},
	4: {0, 1, 2, 3},
}

var boxSides = [4]string{"top", "right", "bottom", "left"}

func expandBoxProperty(style *Style, prefix, value string) {
	parts := strings.Fields(value)
	idx, ok := boxSideIndex[len(parts)]
	if !ok {
		return
	}
	for i, side := range boxSides {
		style.Set(prefix+"-"+side, parts[idx[i]])
	}
}

// expandBorderProperty keeps the shorthand, e.g. "2px dotted #f00", and
// adds its width, style and color long-hands.
func expandBorderProperty(style *Style, value string) {
	style.Set("border", value)
	for _, part := range strings.Fields(value) {
		switch {
		case strings.HasSuffix(part, "px"):
			style.Set("border-width", part)
			for _, side := range boxSides {
				style.Set("border-"+side+"-width", part)
			}
		case borderStyles[part]:
			style.Set("border-style", part)
		default:
			style.Set("border-color", part)
		}
	}
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "solid": true, "dotted": true, "dashed": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}
