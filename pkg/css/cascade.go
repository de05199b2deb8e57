package css

import (
	"sort"

	"layerstack/pkg/html"
)

// userAgentDefaults are the built-in declarations applied before any sheet.
var userAgentDefaults = map[string][][2]string{
	"a": {{"color", "#0645ad"}, {"text-decoration", "underline"}},
}

func init() {
	for _, tag := range []string{"head", "style", "script", "link", "meta", "title"} {
		userAgentDefaults[tag] = [][2]string{{"display", "none"}}
	}
	for _, tag := range []string{"span", "em", "strong", "b", "i", "code"} {
		userAgentDefaults[tag] = [][2]string{{"display", "inline"}}
	}
}

// cascade tiers, lowest first.
const (
	tierAuthor = iota
	tierInline
	tierImportant
)

type weighted struct {
	decl        Declaration
	tier        int
	specificity int
}

// ComputeStyle returns the cascaded style of node: user agent defaults,
// author rules by ascending specificity with source order breaking ties,
// the inline style attribute, then !important author declarations.
func ComputeStyle(node *html.Node, stylesheets []*Stylesheet) *Style {
	style := NewStyle()
	if node.Type != html.ElementNode {
		return style
	}
	for _, kv := range userAgentDefaults[node.TagName] {
		style.Set(kv[0], kv[1])
	}

	var decls []weighted
	for _, sheet := range stylesheets {
		for _, rule := range FindMatchingRules(node, sheet) {
			for _, d := range rule.Declarations {
				tier := tierAuthor
				if d.Important {
					tier = tierImportant
				}
				decls = append(decls, weighted{d, tier, rule.Selector.Specificity})
			}
		}
	}
	if attr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(attr).Properties {
			decls = append(decls, weighted{Declaration{Property: property, Value: value}, tierInline, 0})
		}
	}

	sort.SliceStable(decls, func(i, j int) bool {
		if decls[i].tier != decls[j].tier {
			return decls[i].tier < decls[j].tier
		}
		return decls[i].specificity < decls[j].specificity
	})
	for _, w := range decls {
		style.Set(w.decl.Property, w.decl.Value)
	}
	return style
}

// ParseDocumentStylesheets parses every style sheet of doc, including
// live <style> elements. Sheets that fail to parse are logged and skipped.
func ParseDocumentStylesheets(doc *html.Document) []*Stylesheet {
	var sheets []*Stylesheet
	for _, text := range doc.StyleSheets() {
		sheet, err := ParseStylesheet(text)
		if err != nil {
			tracer().Errorf("%v", err)
			continue
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

// ApplyStylesToDocument computes the style of every element of doc.
func ApplyStylesToDocument(doc *html.Document) map[*html.Node]*Style {
	sheets := ParseDocumentStylesheets(doc)
	styles := make(map[*html.Node]*Style)
	doc.Root.Walk(func(n *html.Node) bool {
		if n.Type == html.ElementNode && n != doc.Root {
			styles[n] = ComputeStyle(n, sheets)
		}
		return false
	})
	return styles
}
