package css

import (
	"fmt"
	"sort"
	"strings"

	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator      Combinator = iota // "a b"
	ChildCombinator                             // "a > b"
	AdjacentSiblingCombinator                   // "a + b"
	GeneralSiblingCombinator                    // "a ~ b"
)

// AttributeSelector is one [name op value] test.
type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "~=", "|=", "^=", "$=", "*="
	Value    string
}

// SelectorPart is a compound selector such as div.card#main:root.
type SelectorPart struct {
	Element       string
	ID            string
	Classes       []string
	Attributes    []AttributeSelector
	PseudoClasses []string
}

// Selector is a complex selector: compound parts joined by combinators.
// len(Combinators) == len(Parts)-1.
type Selector struct {
	Raw           string
	Parts         []SelectorPart
	Combinators   []Combinator
	PseudoElement string
	Specificity   int
}

// Declaration is one property of a rule, after shorthand expansion.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule represents a CSS rule (selector + declarations). A rule with a
// selector group is stored once per selector.
type Rule struct {
	Selector     Selector
	Declarations []Declaration
}

// Get returns the last declared value of property in the rule.
func (r Rule) Get(property string) (string, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == property {
			return r.Declarations[i].Value, true
		}
	}
	return "", false
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS text with the douceur parser. At-rules are
// skipped, as are rules whose selector cannot be parsed.
func ParseStylesheet(text string) (*Stylesheet, error) {
	sheet := &Stylesheet{Rules: make([]Rule, 0)}
	if strings.TrimSpace(text) == "" {
		return sheet, nil
	}
	parsed, err := parser.Parse(text)
	if err != nil {
		return sheet, fmt.Errorf("css: parse stylesheet: %w", err)
	}
	for _, r := range parsed.Rules {
		if r.Kind != dcss.QualifiedRule {
			tracer().Debugf("skipping at-rule %s", r.Name)
			continue
		}
		decls := expandDeclarations(r.Declarations)
		for _, sel := range SplitSelectorGroup(r.Prelude) {
			selector, ok := ParseSelector(sel)
			if !ok {
				tracer().Debugf("skipping rule with invalid selector %q", sel)
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: selector, Declarations: decls})
		}
	}
	return sheet, nil
}

func expandDeclarations(decls []*dcss.Declaration) []Declaration {
	result := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		property := strings.ToLower(strings.TrimSpace(d.Property))
		value := strings.TrimSpace(d.Value)
		if property == "" || value == "" {
			continue
		}
		result = append(result, expandDeclaration(property, value, d.Important)...)
	}
	return result
}

// expandDeclaration expands one shorthand into ordered long-hands.
func expandDeclaration(property, value string, important bool) []Declaration {
	style := NewStyle()
	expandShorthand(style, property, value)
	if len(style.Properties) == 1 {
		for k, v := range style.Properties {
			return []Declaration{{Property: k, Value: v, Important: important}}
		}
	}
	result := make([]Declaration, 0, len(style.Properties))
	for _, k := range sortedKeys(style.Properties) {
		result = append(result, Declaration{Property: k, Value: style.Properties[k], Important: important})
	}
	return result
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SplitSelectorGroup splits "a, b > c" into its selectors, respecting
// parentheses and brackets.
func SplitSelectorGroup(group string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(group); i++ {
		switch group[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				if p := strings.TrimSpace(group[start:i]); p != "" {
					parts = append(parts, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(group[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// ParseSelector parses a complex selector. It reports false for input it
// does not understand.
func ParseSelector(raw string) (Selector, bool) {
	raw = strings.TrimSpace(raw)
	sel := Selector{Raw: raw}
	if raw == "" {
		return sel, false
	}

	pendingCombinator := -1
	i := 0
	for i < len(raw) {
		ch := raw[i]
		switch {
		case isSpace(ch):
			if pendingCombinator < 0 && len(sel.Parts) > 0 {
				pendingCombinator = int(DescendantCombinator)
			}
			i++
			continue
		case ch == '>' || ch == '+' || ch == '~':
			if len(sel.Parts) == 0 {
				return sel, false
			}
			pendingCombinator = int(combinatorFor(ch))
			i++
			continue
		}

		part, pseudoElement, n, ok := parseCompound(raw[i:])
		if !ok {
			return sel, false
		}
		if len(sel.Parts) > 0 {
			if pendingCombinator < 0 {
				return sel, false
			}
			sel.Combinators = append(sel.Combinators, Combinator(pendingCombinator))
		}
		if sel.PseudoElement != "" {
			// A pseudo-element must end the selector.
			return sel, false
		}
		sel.Parts = append(sel.Parts, part)
		sel.PseudoElement = pseudoElement
		pendingCombinator = -1
		i += n
	}
	if len(sel.Parts) == 0 || pendingCombinator > int(DescendantCombinator) {
		return sel, false
	}
	sel.Specificity = specificity(sel)
	return sel, true
}

func combinatorFor(ch byte) Combinator {
	switch ch {
	case '>':
		return ChildCombinator
	case '+':
		return AdjacentSiblingCombinator
	}
	return GeneralSiblingCombinator
}

// parseCompound reads one compound selector at the start of s and returns
// the number of bytes consumed.
func parseCompound(s string) (SelectorPart, string, int, bool) {
	var part SelectorPart
	var pseudoElement string
	i := 0
	if i < len(s) && s[i] == '*' {
		part.Element = "*"
		i++
	} else if n := identLen(s[i:]); n > 0 {
		part.Element = strings.ToLower(s[i : i+n])
		i += n
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			n := identLen(s[i+1:])
			if n == 0 {
				return part, "", 0, false
			}
			part.ID = s[i+1 : i+1+n]
			i += 1 + n
		case '.':
			n := identLen(s[i+1:])
			if n == 0 {
				return part, "", 0, false
			}
			part.Classes = append(part.Classes, s[i+1:i+1+n])
			i += 1 + n
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return part, "", 0, false
			}
			attr, ok := parseAttributeSelector(s[i+1 : i+end])
			if !ok {
				return part, "", 0, false
			}
			part.Attributes = append(part.Attributes, attr)
			i += end + 1
		case ':':
			if strings.HasPrefix(s[i:], "::") {
				n := identLen(s[i+2:])
				if n == 0 {
					return part, "", 0, false
				}
				pseudoElement = s[i+2 : i+2+n]
				i += 2 + n
				continue
			}
			n := identLen(s[i+1:])
			if n == 0 {
				return part, "", 0, false
			}
			name := strings.ToLower(s[i+1 : i+1+n])
			i += 1 + n
			if name == "before" || name == "after" {
				pseudoElement = name
				continue
			}
			part.PseudoClasses = append(part.PseudoClasses, name)
		default:
			if i == 0 {
				return part, "", 0, false
			}
			return part, pseudoElement, i, true
		}
	}
	return part, pseudoElement, i, i > 0
}

func parseAttributeSelector(s string) (AttributeSelector, bool) {
	for _, op := range []string{"~=", "|=", "^=", "$=", "*=", "="} {
		if idx := strings.Index(s, op); idx >= 0 {
			name := strings.TrimSpace(s[:idx])
			value := strings.Trim(strings.TrimSpace(s[idx+len(op):]), `"'`)
			if name == "" {
				return AttributeSelector{}, false
			}
			return AttributeSelector{Name: name, Operator: op, Value: value}, true
		}
	}
	name := strings.TrimSpace(s)
	return AttributeSelector{Name: name}, name != ""
}

func identLen(s string) int {
	n := 0
	for n < len(s) {
		ch := s[n]
		if ch == '-' || ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9' && n > 0) || ch >= 0x80 {
			n++
			continue
		}
		break
	}
	return n
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

// specificity scores ids 100, classes/attributes/pseudo-classes 10 and
// elements 1.
func specificity(sel Selector) int {
	score := 0
	for _, p := range sel.Parts {
		if p.ID != "" {
			score += 100
		}
		score += 10 * (len(p.Classes) + len(p.Attributes) + len(p.PseudoClasses))
		if p.Element != "" && p.Element != "*" {
			score++
		}
	}
	if sel.PseudoElement != "" {
		score++
	}
	return score
}
