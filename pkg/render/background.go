package render

import (
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"layerstack/pkg/css"
	"layerstack/pkg/images"
	"layerstack/pkg/layout"
)

// maxTiles bounds the tiles painted for one background layer.
const maxTiles = 4096

// drawBackgroundLayers paints the background layers of box from the
// bottom one up, each clipped to the border box.
func (r *Renderer) drawBackgroundLayers(dc *gg.Context, box *layout.Box) {
	if v := box.Style.GetPropertyValue("background-image"); v == "" || v == "none" {
		return
	}
	layers := css.ParseLayers(box.Style)
	for i := len(layers) - 1; i >= 0; i-- {
		r.drawBackgroundLayer(dc, box, layers[i])
	}
}

func (r *Renderer) drawBackgroundLayer(dc *gg.Context, box *layout.Box, layer css.LayerSpec) {
	img := strings.TrimSpace(layer.BackgroundImage)
	if img == "" || img == "none" {
		return
	}
	ax, ay, aw, ah := originArea(box, layer.BackgroundOrigin)
	if aw <= 0 || ah <= 0 {
		return
	}

	size := css.ParseBackgroundSize(orDefault(layer.BackgroundSize, "auto"))
	var tile image.Image
	var tw, th float64
	if url, ok := css.ParseURLValue(img); ok {
		src, err := r.options.Loader.Load(url)
		if err != nil {
			tracer().Infof("background image %s: %v", shorten(url), err)
			return
		}
		b := src.Bounds()
		tw, th = size.Resolve(aw, ah, float64(b.Dx()), float64(b.Dy()))
		tile = images.Scale(src, int(math.Round(tw)), int(math.Round(th)))
	} else if grad, ok := css.GetGradient(img); ok {
		tw, th = size.Resolve(aw, ah, 0, 0)
		tile = gradientImage(grad, int(math.Ceil(tw)), int(math.Ceil(th)))
	} else {
		tracer().Debugf("unsupported background image %s", shorten(img))
		return
	}
	if tw < 1 || th < 1 {
		return
	}

	pos := css.ParseBackgroundPosition(orDefault(layer.BackgroundPosition, "0% 0%"))
	px, py := pos.Resolve(aw, ah, tw, th)
	repeat := css.ParseBackgroundRepeat(orDefault(layer.BackgroundRepeat, "repeat"))
	repeatX := repeat == css.BackgroundRepeatRepeat || repeat == css.BackgroundRepeatRepeatX
	repeatY := repeat == css.BackgroundRepeatRepeat || repeat == css.BackgroundRepeatRepeatY

	clipX, clipY := box.X, box.Y
	clipW, clipH := box.BorderBoxWidth(), box.BorderBoxHeight()

	dc.Push()
	dc.DrawRectangle(clipX, clipY, clipW, clipH)
	dc.Clip()
	defer dc.Pop()

	xs := tilePositions(ax+px, tw, clipX, clipX+clipW, repeatX)
	ys := tilePositions(ay+py, th, clipY, clipY+clipH, repeatY)
	if len(xs)*len(ys) > maxTiles {
		tracer().Infof("background layer needs %d tiles, painting the first %d", len(xs)*len(ys), maxTiles)
	}
	n := 0
	for _, y := range ys {
		for _, x := range xs {
			if n == maxTiles {
				return
			}
			dc.DrawImage(tile, int(math.Round(x)), int(math.Round(y)))
			n++
		}
	}
}

// tilePositions returns the tile origins along one axis that cover
// [lo, hi), starting from the positioned tile at start.
func tilePositions(start, size, lo, hi float64, repeat bool) []float64 {
	if !repeat {
		return []float64{start}
	}
	for start > lo {
		start -= size
	}
	var out []float64
	for p := start; p < hi; p += size {
		if p+size > lo {
			out = append(out, p)
		}
	}
	return out
}

// originArea returns the positioning area selected by background-origin.
func originArea(box *layout.Box, origin string) (x, y, w, h float64) {
	switch strings.TrimSpace(origin) {
	case "border-box":
		return box.X, box.Y, box.BorderBoxWidth(), box.BorderBoxHeight()
	case "content-box":
		return box.X + box.Border.Left + box.Padding.Left, box.Y + box.Border.Top + box.Padding.Top,
			box.Width, box.Height
	}
	return box.X + box.Border.Left, box.Y + box.Border.Top,
		box.Width + box.Padding.Horizontal(), box.Height + box.Padding.Vertical()
}

// gradientImage rasterises grad at w x h.
func gradientImage(grad *css.Gradient, w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	fw, fh := float64(w), float64(h)
	var pattern gg.Gradient
	if grad.Type == css.GradientRadial {
		cx, cy := grad.Center.Resolve(fw, fh, 0, 0)
		pattern = gg.NewRadialGradient(cx, cy, 0, cx, cy, grad.Radius(fw, fh))
	} else {
		x0, y0, x1, y1 := linearEndpoints(grad.Direction, fw, fh)
		pattern = gg.NewLinearGradient(x0, y0, x1, y1)
	}
	for _, stop := range grad.Stops(fw, fh) {
		pattern.AddColorStop(stop.Offset, toColor(stop.Color))
	}

	dc := gg.NewContext(w, h)
	dc.SetFillStyle(pattern)
	dc.DrawRectangle(0, 0, fw, fh)
	dc.Fill()
	return dc.Image()
}

// linearEndpoints returns the gradient line of a linear gradient painted
// into a w x h box. 0deg points up, angles turn clockwise.
func linearEndpoints(direction string, w, h float64) (x0, y0, x1, y1 float64) {
	angle := gradientAngle(direction)
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	length := math.Abs(w*sin) + math.Abs(h*cos)
	dx, dy := sin*length/2, -cos*length/2
	return w/2 - dx, h/2 - dy, w/2 + dx, h/2 + dy
}

func gradientAngle(direction string) float64 {
	direction = strings.TrimSpace(direction)
	if strings.HasSuffix(direction, "deg") {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(direction, "deg"), 64); err == nil {
			return v
		}
		return 180
	}
	switch direction {
	case "to top":
		return 0
	case "to right":
		return 90
	case "to left":
		return 270
	case "to top right", "to right top":
		return 45
	case "to bottom right", "to right bottom":
		return 135
	case "to bottom left", "to left bottom":
		return 225
	case "to top left", "to left top":
		return 315
	}
	return 180
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func shorten(s string) string {
	if len(s) > 48 {
		return s[:45] + "..."
	}
	return s
}
