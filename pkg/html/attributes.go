package html

import "strings"

// Classes returns the whitespace-separated tokens of the class attribute.
func (n *Node) Classes() []string {
	attr, _ := n.GetAttribute("class")
	if attr == "" {
		return nil
	}
	return strings.Fields(attr)
}

func (n *Node) setClasses(classes []string) {
	n.SetAttribute("class", strings.Join(classes, " "))
}

func (n *Node) HasClass(token string) bool {
	return containsToken(n.Classes(), token)
}

// AddClass appends each token that is not already present.
func (n *Node) AddClass(tokens ...string) {
	cls := n.Classes()
	for _, token := range tokens {
		if !containsToken(cls, token) {
			cls = append(cls, token)
		}
	}
	n.setClasses(cls)
}

func (n *Node) RemoveClass(tokens ...string) {
	cls := n.Classes()
	for _, token := range tokens {
		cls = removeToken(cls, token)
	}
	n.setClasses(cls)
}

// ToggleClass flips token and reports whether it is present afterwards.
func (n *Node) ToggleClass(token string) bool {
	if n.HasClass(token) {
		n.RemoveClass(token)
		return false
	}
	n.AddClass(token)
	return true
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}

func removeToken(tokens []string, token string) []string {
	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != token {
			result = append(result, t)
		}
	}
	return result
}

// StyleDeclaration is one property of an element's inline style attribute.
type StyleDeclaration struct {
	Property string
	Value    string
}

// InlineStyle parses the style attribute into declarations, keeping
// source order. Later duplicates replace earlier ones in place.
func (n *Node) InlineStyle() []StyleDeclaration {
	attr, _ := n.GetAttribute("style")
	return ParseStyleAttribute(attr)
}

// ParseStyleAttribute splits "a: 1; b: 2" into ordered declarations.
// Semicolons inside parentheses (data URIs) do not end a declaration.
func ParseStyleAttribute(s string) []StyleDeclaration {
	var decls []StyleDeclaration
	for _, decl := range splitDeclarations(s) {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		idx := strings.IndexByte(decl, ':')
		if idx < 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(decl[:idx]))
		val := strings.TrimSpace(decl[idx+1:])
		decls = setDeclaration(decls, prop, val)
	}
	return decls
}

func splitDeclarations(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func setDeclaration(decls []StyleDeclaration, prop, val string) []StyleDeclaration {
	for i := range decls {
		if decls[i].Property == prop {
			decls[i].Value = val
			return decls
		}
	}
	return append(decls, StyleDeclaration{Property: prop, Value: val})
}

// SerializeStyleAttribute converts declarations back to "a: 1; b: 2".
func SerializeStyleAttribute(decls []StyleDeclaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Property+": "+d.Value)
	}
	return strings.Join(parts, "; ")
}

// StyleProperty returns one inline style value, or "" when unset.
func (n *Node) StyleProperty(prop string) string {
	for _, d := range n.InlineStyle() {
		if d.Property == prop {
			return d.Value
		}
	}
	return ""
}

// SetStyleProperty writes one inline style property. An empty value
// removes the property, like assigning "" to element.style.foo.
func (n *Node) SetStyleProperty(prop, value string) {
	decls := n.InlineStyle()
	prop = strings.ToLower(prop)
	if value == "" {
		kept := decls[:0]
		for _, d := range decls {
			if d.Property != prop {
				kept = append(kept, d)
			}
		}
		decls = kept
	} else {
		decls = setDeclaration(decls, prop, value)
	}
	n.SetAttribute("style", SerializeStyleAttribute(decls))
}
