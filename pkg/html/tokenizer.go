package html

import (
	"errors"
	"fmt"
	gohtml "html"
	"io"
	"strings"
	"unicode"

	xhtml "golang.org/x/net/html"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenRawText // body of a <script> or <style> element, end tag consumed
	TokenEOF
)

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  map[string]string
	Text        string
	SelfClosing bool // True for tags ending with /> (XHTML self-closing syntax)
}

// Tokenizer turns markup into the tokens the tree builder consumes. The
// lexing is done by the x/net/html tokenizer; comments, doctypes and
// processing instructions are dropped here.
type Tokenizer struct {
	z       *xhtml.Tokenizer
	rawTag  string // set after <script>/<style>; the next token is their raw body
	skipEnd string // end tag of a raw body that was already reported
}

func NewTokenizer(html string) *Tokenizer {
	return &Tokenizer{z: xhtml.NewTokenizer(strings.NewReader(html))}
}

func (t *Tokenizer) NextToken() (Token, error) {
	for {
		tt := t.z.Next()
		if tt == xhtml.ErrorToken {
			if err := t.z.Err(); !errors.Is(err, io.EOF) {
				return Token{}, fmt.Errorf("tokenizing HTML: %w", err)
			}
			if t.rawTag != "" {
				// Unterminated raw body.
				tag := t.rawTag
				t.rawTag = ""
				return Token{Type: TokenRawText, TagName: tag}, nil
			}
			return Token{Type: TokenEOF}, nil
		}

		if t.rawTag != "" {
			tag := t.rawTag
			t.rawTag = ""
			switch tt {
			case xhtml.TextToken:
				t.skipEnd = tag
				return Token{Type: TokenRawText, TagName: tag, Text: string(t.z.Text())}, nil
			case xhtml.EndTagToken:
				// Empty body: the end tag is consumed with it.
				return Token{Type: TokenRawText, TagName: tag}, nil
			}
		}

		switch tt {
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			tok := t.z.Token()
			attrs := make(map[string]string, len(tok.Attr))
			for _, a := range tok.Attr {
				attrs[a.Key] = a.Val
			}
			selfClosing := tt == xhtml.SelfClosingTagToken
			if isRawTextElement(tok.Data) && !selfClosing {
				t.rawTag = tok.Data
			}
			return Token{Type: TokenStartTag, TagName: tok.Data, Attributes: attrs, SelfClosing: selfClosing}, nil

		case xhtml.EndTagToken:
			name, _ := t.z.TagName()
			tag := string(name)
			if tag == t.skipEnd {
				t.skipEnd = ""
				continue
			}
			return Token{Type: TokenEndTag, TagName: tag}, nil

		case xhtml.TextToken:
			raw := string(t.z.Raw())
			// Whitespace-only runs (indentation between tags) are dropped.
			if strings.TrimSpace(raw) == "" {
				continue
			}
			return Token{Type: TokenText, Text: gohtml.UnescapeString(normalizeWhitespace(raw))}, nil
		}
		// Comments and doctypes.
	}
}

func isRawTextElement(tag string) bool {
	return tag == "script" || tag == "style"
}

// normalizeWhitespace collapses runs of whitespace to a single space,
// preserving a single space at boundaries. This is important for inline
// flow: "text <em>word</em> more" must keep the spaces between the text
// nodes and the inline element.
func normalizeWhitespace(s string) string {
	hasLeading := len(s) > 0 && unicode.IsSpace(rune(s[0]))
	hasTrailing := len(s) > 0 && unicode.IsSpace(rune(s[len(s)-1]))

	fields := strings.Fields(s)
	if len(fields) == 0 {
		if hasLeading || hasTrailing {
			return " "
		}
		return ""
	}

	result := strings.Join(fields, " ")
	if hasLeading {
		result = " " + result
	}
	if hasTrailing {
		result = result + " "
	}
	return result
}
