package css

import (
	"strconv"
	"strings"
)

// ParseURLValue extracts the address of a url(...) value, with or without
// quotes.
func ParseURLValue(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "url(") || !strings.HasSuffix(value, ")") {
		return "", false
	}
	inner := strings.TrimSpace(value[len("url(") : len(value)-1])
	if len(inner) >= 2 {
		if (inner[0] == '"' || inner[0] == '\'') && inner[len(inner)-1] == inner[0] {
			inner = strings.TrimSpace(inner[1 : len(inner)-1])
		}
	}
	if inner == "" {
		return "", false
	}
	return inner, true
}

// GetBackgroundImage returns the URL of the first url() layer of
// background-image.
func (s *Style) GetBackgroundImage() (string, bool) {
	val, ok := s.Get("background-image")
	if !ok {
		return "", false
	}
	for _, layer := range SplitTopLevel(val) {
		if url, ok := ParseURLValue(layer); ok {
			return url, true
		}
	}
	return "", false
}

type BackgroundRepeatType string

const (
	BackgroundRepeatRepeat   BackgroundRepeatType = "repeat"
	BackgroundRepeatNoRepeat BackgroundRepeatType = "no-repeat"
	BackgroundRepeatRepeatX  BackgroundRepeatType = "repeat-x"
	BackgroundRepeatRepeatY  BackgroundRepeatType = "repeat-y"
)

// ParseBackgroundRepeat maps a single-layer repeat value to its type.
func ParseBackgroundRepeat(value string) BackgroundRepeatType {
	switch strings.TrimSpace(value) {
	case "no-repeat", "no-repeat no-repeat":
		return BackgroundRepeatNoRepeat
	case "repeat-x", "repeat no-repeat":
		return BackgroundRepeatRepeatX
	case "repeat-y", "no-repeat repeat":
		return BackgroundRepeatRepeatY
	}
	return BackgroundRepeatRepeat
}

func (s *Style) GetBackgroundRepeat() BackgroundRepeatType {
	val, _ := s.Get("background-repeat")
	return ParseBackgroundRepeat(SplitList(val)[0])
}

// BackgroundPosition is one layer's position. Percentage components
// position the image relative to the free space of the painting area.
type BackgroundPosition struct {
	X, Y               float64
	XPercent, YPercent bool
}

// ParseBackgroundPosition parses "x y" with px, % or keyword components.
func ParseBackgroundPosition(value string) BackgroundPosition {
	fields := strings.Fields(value)
	pos := BackgroundPosition{}
	if len(fields) == 0 {
		return pos
	}
	if len(fields) == 1 {
		fields = append(fields, "center")
		if fields[0] == "top" || fields[0] == "bottom" {
			fields[0], fields[1] = "center", fields[0]
		}
	}
	if fields[0] == "top" || fields[0] == "bottom" || fields[1] == "left" || fields[1] == "right" {
		fields[0], fields[1] = fields[1], fields[0]
	}
	pos.X, pos.XPercent = parsePositionComponent(fields[0])
	pos.Y, pos.YPercent = parsePositionComponent(fields[1])
	return pos
}

func parsePositionComponent(v string) (float64, bool) {
	switch v {
	case "left", "top":
		return 0, true
	case "center":
		return 50, true
	case "right", "bottom":
		return 100, true
	}
	if strings.HasSuffix(v, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, false
		}
		return pct, true
	}
	px, _ := ParseLength(v)
	return px, false
}

// Resolve returns the offset of an image of size imgW x imgH inside an
// area of size areaW x areaH.
func (p BackgroundPosition) Resolve(areaW, areaH, imgW, imgH float64) (float64, float64) {
	x, y := p.X, p.Y
	if p.XPercent {
		x = (areaW - imgW) * p.X / 100
	}
	if p.YPercent {
		y = (areaH - imgH) * p.Y / 100
	}
	return x, y
}

func (s *Style) GetBackgroundPosition() BackgroundPosition {
	val, _ := s.Get("background-position")
	return ParseBackgroundPosition(SplitList(val)[0])
}

// BackgroundSizeMode distinguishes the keyword forms of background-size.
type BackgroundSizeMode int

const (
	BackgroundSizeExplicit BackgroundSizeMode = iota
	BackgroundSizeCover
	BackgroundSizeContain
)

// BackgroundSize is one layer's size. A negative W or H stands for auto.
type BackgroundSize struct {
	Mode               BackgroundSizeMode
	W, H               float64
	WPercent, HPercent bool
}

// ParseBackgroundSize parses cover, contain, or one or two length,
// percentage or auto components.
func ParseBackgroundSize(value string) BackgroundSize {
	value = strings.TrimSpace(value)
	switch value {
	case "cover":
		return BackgroundSize{Mode: BackgroundSizeCover}
	case "contain":
		return BackgroundSize{Mode: BackgroundSizeContain}
	}
	fields := strings.Fields(value)
	size := BackgroundSize{W: -1, H: -1}
	if len(fields) >= 1 {
		size.W, size.WPercent = parseSizeComponent(fields[0])
	}
	if len(fields) >= 2 {
		size.H, size.HPercent = parseSizeComponent(fields[1])
	}
	return size
}

func parseSizeComponent(v string) (float64, bool) {
	if v == "auto" {
		return -1, false
	}
	if strings.HasSuffix(v, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return -1, false
		}
		return pct, true
	}
	px, ok := ParseLength(v)
	if !ok {
		return -1, false
	}
	return px, false
}

// Resolve returns the painted size of an image with intrinsic size
// imgW x imgH inside an area of areaW x areaH. Images without an
// intrinsic size (gradients) pass zero and get the area size for auto.
func (bs BackgroundSize) Resolve(areaW, areaH, imgW, imgH float64) (float64, float64) {
	if imgW <= 0 || imgH <= 0 {
		imgW, imgH = areaW, areaH
	}
	switch bs.Mode {
	case BackgroundSizeCover, BackgroundSizeContain:
		if imgW == 0 || imgH == 0 {
			return areaW, areaH
		}
		sx, sy := areaW/imgW, areaH/imgH
		scale := sx
		if (bs.Mode == BackgroundSizeCover) == (sy > sx) {
			scale = sy
		}
		return imgW * scale, imgH * scale
	}
	w, h := bs.W, bs.H
	if bs.WPercent {
		w = areaW * bs.W / 100
	}
	if bs.HPercent {
		h = areaH * bs.H / 100
	}
	switch {
	case w < 0 && h < 0:
		return imgW, imgH
	case w < 0:
		return imgW * h / imgH, h
	case h < 0:
		return w, imgH * w / imgW
	}
	return w, h
}

var boxKeywords = map[string]bool{
	"border-box": true, "padding-box": true, "content-box": true,
}

// expandBackgroundProperty writes the long-hands of a background
// shorthand. Each comma-separated layer contributes one entry to every
// list; unspecified components take their initial value. Only the last
// layer may carry a color.
func expandBackgroundProperty(style *Style, value string) {
	layers := SplitTopLevel(value)
	images := make([]string, len(layers))
	repeats := make([]string, len(layers))
	positions := make([]string, len(layers))
	sizes := make([]string, len(layers))
	origins := make([]string, len(layers))
	color := "transparent"

	for i, layer := range layers {
		images[i], repeats[i], positions[i], sizes[i], origins[i] = "none", "repeat", "0% 0%", "auto", "padding-box"
		var pos, size []string
		inSize := false
		for _, tok := range splitSpaces(layer) {
			switch {
			case tok == "/":
				inSize = true
			case strings.HasSuffix(tok, ")") && !strings.HasPrefix(tok, "rgb") && !strings.HasPrefix(tok, "hsl"):
				images[i] = tok
			case isRepeatKeyword(tok):
				repeats[i] = tok
			case boxKeywords[tok]:
				origins[i] = tok
			case tok == "cover" || tok == "contain" || tok == "auto":
				size = append(size, tok)
			case isPositionToken(tok):
				if before, after, found := strings.Cut(tok, "/"); found {
					pos = append(pos, before)
					size = append(size, after)
					inSize = true
				} else if inSize {
					size = append(size, tok)
				} else {
					pos = append(pos, tok)
				}
			default:
				if i == len(layers)-1 {
					color = tok
				}
			}
		}
		if len(pos) > 0 {
			positions[i] = strings.Join(pos, " ")
		}
		if len(size) > 0 {
			sizes[i] = strings.Join(size, " ")
		}
	}

	style.Set("background-image", strings.Join(images, ", "))
	style.Set("background-repeat", strings.Join(repeats, ", "))
	style.Set("background-position", strings.Join(positions, ", "))
	style.Set("background-size", strings.Join(sizes, ", "))
	style.Set("background-origin", strings.Join(origins, ", "))
	style.Set("background-color", color)
}

func isRepeatKeyword(tok string) bool {
	switch tok {
	case "repeat", "no-repeat", "repeat-x", "repeat-y", "space", "round":
		return true
	}
	return false
}

func isPositionToken(tok string) bool {
	switch tok {
	case "left", "right", "top", "bottom", "center":
		return true
	}
	if tok == "" {
		return false
	}
	c := tok[0]
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

// splitSpaces splits on whitespace outside parentheses.
func splitSpaces(s string) []string {
	var parts []string
	depth := 0
	start := -1
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case (ch == ' ' || ch == '\t' || ch == '\n') && depth == 0:
			if start >= 0 {
				parts = append(parts, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, s[start:])
	}
	return parts
}
