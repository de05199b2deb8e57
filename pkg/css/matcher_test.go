package css

import (
	"testing"

	"layerstack/pkg/html"
)

func mustSelector(t *testing.T, s string) Selector {
	t.Helper()
	sel, ok := ParseSelector(s)
	if !ok {
		t.Fatalf("cannot parse selector %q", s)
	}
	return sel
}

func TestMatchesSelector_Simple(t *testing.T) {
	div := html.CreateElement("div")
	div.SetAttribute("id", "header")
	div.SetAttribute("class", "bg-stack  animated")
	text := &html.Node{Type: html.TextNode, Text: "div"}

	tests := []struct {
		node     *html.Node
		selector string
		want     bool
	}{
		{div, "div", true},
		{div, "p", false},
		{div, "*", true},
		{div, ".bg-stack", true},
		{div, "div.bg-stack.animated", true},
		{div, ".other", false},
		{div, ".bg-stack.other", false},
		{div, "#header", true},
		{div, "div#header.animated", true},
		{div, "#footer", false},
		{text, "div", false},
		{text, "*", false},
	}
	for _, tt := range tests {
		if got := MatchesSelector(tt.node, mustSelector(t, tt.selector)); got != tt.want {
			t.Errorf("%s %q: got %v, want %v", tt.node.TagName, tt.selector, got, tt.want)
		}
	}
}

func TestMatchesSelector_Combinators(t *testing.T) {
	doc, _ := html.Parse(`<div class="bg-stack-container"><div class="bg-stack"><div id="l" class="bg-stack__layer"></div></div></div>`)
	layer := doc.GetElementByID("l")

	tests := []struct {
		selector string
		want     bool
	}{
		{".bg-stack-container .bg-stack__layer", true},
		{".bg-stack > .bg-stack__layer", true},
		{".bg-stack-container > .bg-stack__layer", false},
		{".animated .bg-stack__layer", false},
	}
	for _, tt := range tests {
		if got := MatchesSelector(layer, mustSelector(t, tt.selector)); got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.selector, got, tt.want)
		}
	}
}

func TestMatchesSelector_Root(t *testing.T) {
	doc, _ := html.Parse(`<html><body><div id="d"></div></body></html>`)
	root := mustSelector(t, ":root")

	if !MatchesSelector(doc.Root.Children[0], root) {
		t.Error("<html> should match :root")
	}
	if MatchesSelector(doc.GetElementByID("d"), root) {
		t.Error("nested div should not match :root")
	}
}

func TestFindMatchingRules(t *testing.T) {
	stylesheet, _ := ParseStylesheet(`
		div { color: red; }
		.highlight { background-color: yellow; }
		#header { width: 100px; }
		p { color: blue; }
	`)

	node := &html.Node{
		Type:    html.ElementNode,
		TagName: "div",
		Attributes: map[string]string{
			"class": "highlight",
			"id":    "header",
		},
	}

	matches := FindMatchingRules(node, stylesheet)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matching rules, got %d", len(matches))
	}
	for i, want := range []string{"div", ".highlight", "#header"} {
		if matches[i].Selector.Raw != want {
			t.Errorf("match %d: got %q, want %q", i, matches[i].Selector.Raw, want)
		}
	}
}

func TestMatchesSelector_StructuralAndAttributes(t *testing.T) {
	doc, _ := html.Parse(`<ul><li id="a" lang="en-US"></li><li id="b" data-x="layer-1">x</li><li id="c"></li></ul><p id="solo"></p>`)
	tests := []struct {
		id, selector string
		want         bool
	}{
		{"a", "li:first-child", true},
		{"b", "li:first-child", false},
		{"c", "li:last-child", true},
		{"a", "li:empty", true},
		{"b", "li:empty", false},
		{"solo", "p:only-child", false},
		{"b", "#a + li", true},
		{"c", "#a + li", false},
		{"c", "#a ~ li", true},
		{"a", "li:hover", false},
		{"a", `[lang|="en"]`, true},
		{"b", `[data-x^="layer"]`, true},
		{"b", `[data-x$="-1"]`, true},
		{"b", `[data-x*="yer"]`, true},
		{"b", `[data-x^=""]`, false},
		{"b", `[data-x]`, true},
		{"c", `[data-x]`, false},
	}
	for _, tt := range tests {
		if got := MatchesSelector(doc.GetElementByID(tt.id), mustSelector(t, tt.selector)); got != tt.want {
			t.Errorf("#%s %q: got %v, want %v", tt.id, tt.selector, got, tt.want)
		}
	}
}
