package css

import (
	"math"
	"strconv"
	"strings"
)

type GradientType int

const (
	GradientLinear GradientType = iota
	GradientRadial
)

// ColorStop is one stop of a gradient. Offset is a fraction of the
// gradient line, or a length in pixels when Pixels is set. A negative
// Offset means the position was omitted.
type ColorStop struct {
	Color  Color
	Offset float64
	Pixels bool
}

// Gradient is a parsed linear-gradient() or radial-gradient() image.
type Gradient struct {
	Type       GradientType
	Direction  string // linear only: "to right", "45deg", ...
	ColorStops []ColorStop

	Shape  string // radial only: "ellipse" or "circle"
	Center BackgroundPosition
}

// GetGradient parses value if it is a gradient function.
func GetGradient(value string) (*Gradient, bool) {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(value, "linear-gradient("):
		return ParseLinearGradient(value)
	case strings.HasPrefix(value, "radial-gradient("):
		return ParseRadialGradient(value)
	}
	return nil, false
}

// ParseLinearGradient parses e.g.
// "linear-gradient(to right, blue 0, blue 150px, red 150px)".
// The direction defaults to "to bottom".
func ParseLinearGradient(value string) (*Gradient, bool) {
	args, ok := gradientArgs(value, "linear-gradient(")
	if !ok {
		return nil, false
	}
	g := &Gradient{Type: GradientLinear, Direction: "to bottom"}
	if first := args[0]; strings.HasPrefix(first, "to ") || strings.HasSuffix(first, "deg") {
		g.Direction = first
		args = args[1:]
	}
	return g, g.parseStops(args)
}

// ParseRadialGradient parses e.g.
// "radial-gradient(circle at 30% 40%, white, rgba(0,0,0,0) 60%)".
// Stops without a position are spread evenly.
func ParseRadialGradient(value string) (*Gradient, bool) {
	args, ok := gradientArgs(value, "radial-gradient(")
	if !ok {
		return nil, false
	}
	g := &Gradient{
		Type:   GradientRadial,
		Shape:  "ellipse",
		Center: BackgroundPosition{X: 50, Y: 50, XPercent: true, YPercent: true},
	}
	if _, isStop := parseColorStop(args[0]); !isStop {
		shape, at, hasAt := strings.Cut(args[0], "at ")
		if strings.Contains(shape, "circle") {
			g.Shape = "circle"
		}
		if hasAt {
			g.Center = ParseBackgroundPosition(at)
		}
		args = args[1:]
	}
	if !g.parseStops(args) {
		return nil, false
	}
	fillOffsets(g.ColorStops)
	return g, true
}

// gradientArgs strips fn(...) and splits its arguments at top-level commas.
func gradientArgs(value, fn string) ([]string, bool) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, fn) || !strings.HasSuffix(value, ")") {
		return nil, false
	}
	args, ok := splitTopLevel(value[len(fn) : len(value)-1])
	return args, ok && len(args) >= 2
}

func (g *Gradient) parseStops(args []string) bool {
	for _, arg := range args {
		stop, ok := parseColorStop(arg)
		if !ok {
			return false
		}
		g.ColorStops = append(g.ColorStops, stop)
	}
	return len(g.ColorStops) >= 2
}

// parseColorStop parses "color", "color 50%" or "color 150px".
func parseColorStop(s string) (ColorStop, bool) {
	fields := splitSpaces(strings.TrimSpace(s))
	if len(fields) == 0 {
		return ColorStop{}, false
	}
	c, ok := ParseColor(fields[0])
	if !ok {
		return ColorStop{}, false
	}
	stop := ColorStop{Color: c, Offset: -1}
	if len(fields) < 2 {
		return stop, true
	}
	pos := fields[1]
	switch {
	case strings.HasSuffix(pos, "%"):
		if v, err := strconv.ParseFloat(strings.TrimSuffix(pos, "%"), 64); err == nil {
			stop.Offset = v / 100
		}
	case pos == "0":
		stop.Offset = 0
	default:
		if v, ok := ParseLength(pos); ok {
			stop.Offset, stop.Pixels = v, true
		}
	}
	return stop, true
}

// Stops returns the color stops resolved for a width x height painting
// area: pixel positions become fractions of the gradient line and
// omitted positions are interpolated. The gradient itself is not changed.
func (g *Gradient) Stops(width, height float64) []ColorStop {
	stops := make([]ColorStop, len(g.ColorStops))
	copy(stops, g.ColorStops)
	length := g.lineLength(width, height)
	for i := range stops {
		if stops[i].Pixels && stops[i].Offset >= 0 {
			if length > 0 {
				stops[i].Offset /= length
			} else {
				stops[i].Offset = 0
			}
			stops[i].Pixels = false
		}
	}
	fillOffsets(stops)
	return stops
}

// lineLength is the length pixel stops are measured against. Angled
// linear gradients use the width.
func (g *Gradient) lineLength(width, height float64) float64 {
	if g.Type == GradientRadial {
		return g.Radius(width, height)
	}
	switch g.Direction {
	case "to bottom", "to top":
		return height
	}
	return width
}

// Radius is the farthest-corner radius of a radial gradient painted into
// a width x height box. Ellipses are treated as circles.
func (g *Gradient) Radius(width, height float64) float64 {
	cx, cy := g.Center.Resolve(width, height, 0, 0)
	return math.Hypot(math.Max(cx, width-cx), math.Max(cy, height-cy))
}

// fillOffsets gives the first and last stop 0 and 1 when omitted and
// spreads the remaining omitted stops evenly between their neighbours.
func fillOffsets(stops []ColorStop) {
	n := len(stops)
	if n == 0 {
		return
	}
	if stops[0].Offset < 0 {
		stops[0].Offset = 0
	}
	if stops[n-1].Offset < 0 {
		stops[n-1].Offset = 1
	}
	prev := 0
	for i := 1; i < n; i++ {
		if stops[i].Offset < 0 {
			continue
		}
		if gap := i - prev; gap > 1 {
			step := (stops[i].Offset - stops[prev].Offset) / float64(gap)
			for j := prev + 1; j < i; j++ {
				stops[j].Offset = stops[prev].Offset + step*float64(j-prev)
			}
		}
		prev = i
	}
}
