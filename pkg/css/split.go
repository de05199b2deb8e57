package css

import (
	"strings"

	"github.com/gorilla/css/scanner"
)

// SplitTopLevel splits a comma-separated CSS value list at commas that are
// not nested inside a function's parentheses, e.g. a background-image list
// of gradients. Pieces are trimmed. Strings and comments are scanned with
// the gorilla/css tokenizer so that commas and parens inside them are
// ignored.
//
// If the value cannot be tokenized or its parentheses do not balance, the
// legacy split is used instead and a diagnostic is logged.
func SplitTopLevel(value string) []string {
	parts, ok := splitTopLevel(value)
	if !ok {
		legacy := SplitLegacy(value)
		tracer().Infof("malformed value list %q, using legacy split (%d parts)", value, len(legacy))
		return legacy
	}
	if strings.Contains(value, "),") {
		if legacy := SplitLegacy(value); !equalParts(parts, legacy) {
			tracer().Infof("value list %q: depth-aware split gives %d parts, legacy split %d",
				value, len(parts), len(legacy))
		}
	}
	return parts
}

func splitTopLevel(value string) ([]string, bool) {
	var parts []string
	var current strings.Builder
	depth := 0

	s := scanner.New(value)
	for {
		token := s.Next()
		switch token.Type {
		case scanner.TokenEOF:
			if depth != 0 {
				return nil, false
			}
			return append(parts, strings.TrimSpace(current.String())), true
		case scanner.TokenError:
			return nil, false
		case scanner.TokenComment:
			continue
		case scanner.TokenString:
			current.WriteString(token.Value)
			continue
		case scanner.TokenURI:
			if isQuotedURI(token.Value) {
				current.WriteString(token.Value)
				continue
			}
		}
		// The scanner folds an unquoted url(...) run greedily, so parens and
		// commas are counted per character rather than per token.
		for i := 0; i < len(token.Value); i++ {
			ch := token.Value[i]
			switch ch {
			case '(':
				depth++
			case ')':
				depth--
				if depth < 0 {
					return nil, false
				}
			case ',':
				if depth == 0 {
					parts = append(parts, strings.TrimSpace(current.String()))
					current.Reset()
					continue
				}
			}
			current.WriteByte(ch)
		}
	}
}

func isQuotedURI(uri string) bool {
	inner := strings.TrimSpace(strings.TrimPrefix(uri, "url("))
	return strings.HasPrefix(inner, `"`) || strings.HasPrefix(inner, "'")
}

// SplitLegacy splits a background-image list on "),", re-adding the
// closing paren each separator consumes. It only works when every top-level separator directly
// follows a closing paren and no nested comma does.
func SplitLegacy(value string) []string {
	return strings.Split(strings.ReplaceAll(value, "),", ")),"), "),")
}

// SplitList splits a plain comma-separated token list and trims each piece.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func equalParts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.TrimSpace(a[i]) != strings.TrimSpace(b[i]) {
			return false
		}
	}
	return true
}
