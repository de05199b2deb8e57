package css

import (
	"strconv"
	"strings"

	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// ParseVariables collects the numeric custom properties declared in
// :root rules of a style sheet, e.g. ":root { --xoffset: -30; }".
// Later declarations win. Non-numeric values are skipped.
func ParseVariables(sheetText string) map[string]float64 {
	vars := make(map[string]float64)
	if strings.TrimSpace(sheetText) == "" {
		return vars
	}
	sheet, err := parser.Parse(sheetText)
	if err != nil {
		tracer().Errorf("custom properties: %v", err)
		return vars
	}
	for _, rule := range sheet.Rules {
		if rule.Kind != dcss.QualifiedRule || !isRootPrelude(rule.Prelude) {
			continue
		}
		for _, decl := range rule.Declarations {
			name := strings.TrimSpace(decl.Property)
			if !strings.HasPrefix(name, "--") {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(decl.Value), 64)
			if err != nil {
				tracer().Debugf("custom property %s: not a number: %q", name, decl.Value)
				continue
			}
			vars[name] = v
		}
	}
	return vars
}

// ParseDocumentVariables merges ParseVariables over several sheets in order.
func ParseDocumentVariables(sheets []string) map[string]float64 {
	vars := make(map[string]float64)
	for _, text := range sheets {
		for k, v := range ParseVariables(text) {
			vars[k] = v
		}
	}
	return vars
}

func isRootPrelude(prelude string) bool {
	for _, sel := range SplitSelectorGroup(prelude) {
		if sel == ":root" || sel == "html" {
			return true
		}
	}
	return false
}

// ResolveVar substitutes every var(--name) or var(--name, fallback) in
// value. Unknown names without a fallback resolve to "0".
func ResolveVar(value string, vars map[string]float64) string {
	for {
		start := strings.Index(value, "var(")
		if start < 0 {
			return value
		}
		end := matchingParen(value, start+len("var("))
		if end < 0 {
			return value
		}
		args := value[start+len("var(") : end]
		name, fallback, hasFallback := strings.Cut(args, ",")
		name = strings.TrimSpace(name)
		replacement := "0"
		if v, ok := vars[name]; ok {
			replacement = strconv.FormatFloat(v, 'f', -1, 64)
		} else if hasFallback {
			replacement = strings.TrimSpace(fallback)
		}
		value = value[:start] + replacement + value[end+1:]
	}
}

// matchingParen returns the index of the ')' closing a paren opened just
// before from, or -1.
func matchingParen(s string, from int) int {
	depth := 1
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
