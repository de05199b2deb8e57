package css

// ComputedStyle is the read side of a computed style declaration.
type ComputedStyle interface {
	GetPropertyValue(property string) string
}

// LayerSpec holds the background properties of one layer of a
// multi-background element.
type LayerSpec struct {
	BackgroundImage    string
	BackgroundSize     string
	BackgroundRepeat   string
	BackgroundPosition string
	BackgroundOrigin   string
	Border             string
	BoxSizing          string

	assigned map[string]bool
}

// layerScalarProperties are split on plain commas and assigned by index.
var layerScalarProperties = []string{
	"background-size",
	"background-repeat",
	"background-position",
	"background-origin",
}

// layerPropertyOrder is the order Properties reports.
var layerPropertyOrder = []string{
	"background-image",
	"background-size",
	"background-repeat",
	"background-position",
	"background-origin",
	"border",
	"box-sizing",
}

// ParseLayers splits the background of a computed style into one LayerSpec
// per top-level background-image entry, in declaration order. The first
// entry is the layer painted on top.
//
// Scalar lists shorter than the image list leave the trailing layers unset;
// they are not repeated. Entries beyond the image count are ignored.
func ParseLayers(style ComputedStyle) []LayerSpec {
	images := SplitTopLevel(style.GetPropertyValue("background-image"))
	layers := make([]LayerSpec, len(images))
	for i, img := range images {
		layers[i].set("background-image", img)
	}

	for _, prop := range layerScalarProperties {
		for i, value := range SplitList(style.GetPropertyValue(prop)) {
			if i >= len(layers) {
				break
			}
			layers[i].set(prop, value)
		}
	}

	border := style.GetPropertyValue("border")
	for i := range layers {
		layers[i].set("border", border)
		layers[i].set("box-sizing", "border-box")
	}

	tracer().Debugf("parsed %d background layers", len(layers))
	return layers
}

func (l *LayerSpec) set(prop, value string) {
	switch prop {
	case "background-image":
		l.BackgroundImage = value
	case "background-size":
		l.BackgroundSize = value
	case "background-repeat":
		l.BackgroundRepeat = value
	case "background-position":
		l.BackgroundPosition = value
	case "background-origin":
		l.BackgroundOrigin = value
	case "border":
		l.Border = value
	case "box-sizing":
		l.BoxSizing = value
	default:
		return
	}
	if l.assigned == nil {
		l.assigned = make(map[string]bool, len(layerPropertyOrder))
	}
	l.assigned[prop] = true
}

// Get returns the value of a layer property by its CSS name.
func (l LayerSpec) Get(prop string) string {
	switch prop {
	case "background-image":
		return l.BackgroundImage
	case "background-size":
		return l.BackgroundSize
	case "background-repeat":
		return l.BackgroundRepeat
	case "background-position":
		return l.BackgroundPosition
	case "background-origin":
		return l.BackgroundOrigin
	case "border":
		return l.Border
	case "box-sizing":
		return l.BoxSizing
	}
	return ""
}

// Has reports whether the parser assigned prop to this layer. An assigned
// property may still be the empty string.
func (l LayerSpec) Has(prop string) bool {
	return l.assigned[prop]
}

// LayerProperty is one CSS property/value pair of a layer.
type LayerProperty struct {
	Name  string
	Value string
}

// Properties returns the assigned properties in a fixed order.
func (l LayerSpec) Properties() []LayerProperty {
	props := make([]LayerProperty, 0, len(layerPropertyOrder))
	for _, name := range layerPropertyOrder {
		if l.Has(name) {
			props = append(props, LayerProperty{Name: name, Value: l.Get(name)})
		}
	}
	return props
}
