package css

import (
	"testing"

	"layerstack/pkg/html"
)

func element(tag string, attrs map[string]string) *html.Node {
	return &html.Node{Type: html.ElementNode, TagName: tag, Attributes: attrs}
}

func TestComputeStyle_CascadeOrder(t *testing.T) {
	sheet, err := ParseStylesheet(`
		div { color: red; width: 100px; }
		.highlight { color: blue; height: 50px; }
		#header { color: green; }
	`)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		attrs map[string]string
		want  map[string]string
	}{
		{"element", nil, map[string]string{"color": "red", "width": "100px"}},
		{"class beats element", map[string]string{"class": "highlight"},
			map[string]string{"color": "blue", "width": "100px", "height": "50px"}},
		{"id beats class", map[string]string{"class": "highlight", "id": "header"},
			map[string]string{"color": "green"}},
		{"inline beats id", map[string]string{"class": "highlight", "id": "header", "style": "color: purple"},
			map[string]string{"color": "purple", "height": "50px"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := ComputeStyle(element("div", tt.attrs), []*Stylesheet{sheet})
			for prop, want := range tt.want {
				if got, _ := style.Get(prop); got != want {
					t.Errorf("%s = %q, want %q", prop, got, want)
				}
			}
		})
	}
}

func TestApplyStylesToDocument(t *testing.T) {
	doc, _ := html.Parse(`<style>div { color: red; } .special { color: blue; }</style>
		<div id="a"></div><div id="b" class="special"></div>`)

	styles := ApplyStylesToDocument(doc)
	if len(styles) != 2 {
		t.Fatalf("expected 2 styled elements, got %d", len(styles))
	}
	if c, _ := styles[doc.GetElementByID("a")].Get("color"); c != "red" {
		t.Errorf("#a color = %q", c)
	}
	if c, _ := styles[doc.GetElementByID("b")].Get("color"); c != "blue" {
		t.Errorf("#b color = %q", c)
	}
}

func TestComputeStyle_SourceOrderBreaksTies(t *testing.T) {
	stylesheet, _ := ParseStylesheet(`
		.a { color: red; }
		.b { color: blue; }
	`)
	node := element("div", map[string]string{"class": "b a"})

	style := ComputeStyle(node, []*Stylesheet{stylesheet})
	if color, _ := style.Get("color"); color != "blue" {
		t.Errorf("expected the later rule to win, got '%s'", color)
	}
}

func TestComputeStyle_ImportantBeatsInline(t *testing.T) {
	stylesheet, _ := ParseStylesheet(`div { color: red !important; }`)
	node := element("div", map[string]string{"style": "color: purple"})

	style := ComputeStyle(node, []*Stylesheet{stylesheet})
	if color, _ := style.Get("color"); color != "red" {
		t.Errorf("expected !important to win over inline, got '%s'", color)
	}
}

func TestComputeStyle_MultiLayerBackgroundFromSheet(t *testing.T) {
	doc, _ := html.Parse(`
		<style>
			#card {
				border: 3px solid #333;
				background-image: linear-gradient(to right, red, rgba(0, 0, 255, 0.5)), url(a.png);
				background-size: cover, 50% 50%;
			}
		</style>
		<div id="card"></div>
	`)
	styles := ApplyStylesToDocument(doc)
	style := styles[doc.GetElementByID("card")]
	if style == nil {
		t.Fatal("no style computed for #card")
	}

	want := "linear-gradient(to right, red, rgba(0, 0, 255, 0.5)), url(a.png)"
	if got := style.GetPropertyValue("background-image"); got != want {
		t.Errorf("background-image = %q, want %q", got, want)
	}
	if got := style.GetPropertyValue("border"); got != "3px solid #333" {
		t.Errorf("border = %q", got)
	}
	if got := style.GetPropertyValue("background-origin"); got != "padding-box, padding-box" {
		t.Errorf("unset background-origin should report its initial value per layer, got %q", got)
	}
}

func TestApplyStylesToDocument_HeadHidden(t *testing.T) {
	doc, _ := html.Parse(`<html><head><title>x</title></head><body><div></div></body></html>`)
	styles := ApplyStylesToDocument(doc)
	for node, style := range styles {
		if node.TagName == "head" && style.GetDisplay() != DisplayNone {
			t.Error("head should not be displayed")
		}
	}
}
