package css

import (
	"strings"

	"layerstack/pkg/html"
)

// MatchesSelector reports whether node is the subject of selector.
// Matching runs right to left, starting at the last compound part.
func MatchesSelector(node *html.Node, selector Selector) bool {
	if !isElement(node) || len(selector.Parts) == 0 {
		return false
	}
	return matchFrom(node, selector, len(selector.Parts)-1)
}

// FindMatchingRules returns the rules of stylesheet whose selector matches
// node. Rules for pseudo-elements never apply to the node itself.
func FindMatchingRules(node *html.Node, stylesheet *Stylesheet) []Rule {
	var matches []Rule
	for _, rule := range stylesheet.Rules {
		if rule.Selector.PseudoElement == "" && MatchesSelector(node, rule.Selector) {
			matches = append(matches, rule)
		}
	}
	return matches
}

func matchFrom(node *html.Node, sel Selector, i int) bool {
	if !matchesPart(node, sel.Parts[i]) {
		return false
	}
	if i == 0 {
		return true
	}
	// next walks the nodes that may match part i-1.
	var next func(*html.Node) *html.Node
	switch sel.Combinators[i-1] {
	case DescendantCombinator:
		next = parentElement
	case ChildCombinator:
		return matchOne(parentElement(node), sel, i-1)
	case AdjacentSiblingCombinator:
		return matchOne(previousElement(node), sel, i-1)
	case GeneralSiblingCombinator:
		next = previousElement
	default:
		return false
	}
	for n := next(node); n != nil; n = next(n) {
		if matchFrom(n, sel, i-1) {
			return true
		}
	}
	return false
}

func matchOne(node *html.Node, sel Selector, i int) bool {
	return node != nil && matchFrom(node, sel, i)
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" {
		if id, _ := node.GetAttribute("id"); id != part.ID {
			return false
		}
	}
	for _, class := range part.Classes {
		if !node.HasClass(class) {
			return false
		}
	}
	for _, attr := range part.Attributes {
		if !matchesAttribute(node, attr) {
			return false
		}
	}
	for _, pc := range part.PseudoClasses {
		if !matchesPseudoClass(node, pc) {
			return false
		}
	}
	return true
}

// matchesPseudoClass knows the structural pseudo-classes. Dynamic ones
// (:hover and friends) never match a static tree.
func matchesPseudoClass(node *html.Node, name string) bool {
	switch name {
	case "root":
		return node.Parent != nil && parentElement(node) == nil
	case "first-child":
		return previousElement(node) == nil
	case "last-child":
		return nextElement(node) == nil
	case "only-child":
		return previousElement(node) == nil && nextElement(node) == nil
	case "empty":
		return len(node.Children) == 0
	}
	return false
}

func matchesAttribute(node *html.Node, attr AttributeSelector) bool {
	value, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}
	want := attr.Value
	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == want
	case "^=":
		return want != "" && strings.HasPrefix(value, want)
	case "$=":
		return want != "" && strings.HasSuffix(value, want)
	case "*=":
		return want != "" && strings.Contains(value, want)
	case "~=":
		for _, word := range strings.Fields(value) {
			if word == want {
				return true
			}
		}
	case "|=":
		return value == want || strings.HasPrefix(value, want+"-")
	}
	return false
}

// isElement excludes text nodes and the synthetic document node.
func isElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.TagName != "document"
}

func parentElement(n *html.Node) *html.Node {
	if isElement(n.Parent) {
		return n.Parent
	}
	return nil
}

func previousElement(n *html.Node) *html.Node {
	return siblingElement(n, -1)
}

func nextElement(n *html.Node) *html.Node {
	return siblingElement(n, 1)
}

func siblingElement(n *html.Node, step int) *html.Node {
	if n.Parent == nil {
		return nil
	}
	siblings := n.Parent.Children
	i := n.IndexInParent()
	if i < 0 {
		return nil
	}
	for i += step; i >= 0 && i < len(siblings); i += step {
		if siblings[i].Type == html.ElementNode {
			return siblings[i]
		}
	}
	return nil
}
