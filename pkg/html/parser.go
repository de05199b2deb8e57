package html

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("layerstack.html")
}

// CSSFetcher loads the text of an external stylesheet referenced by
// <link rel="stylesheet" href="...">.
type CSSFetcher func(uri string) (string, error)

// Parser builds a Document from tokens with a stack of open elements.
// It is forgiving: unmatched end tags are dropped and block elements
// close an open <p>. <style> and <script> bodies are collected on the
// document instead of becoming nodes.
type Parser struct {
	tokenizer  *Tokenizer
	doc        *Document
	open       []*Node
	cssFetcher CSSFetcher
}

func NewParser(html string) *Parser {
	return &Parser{tokenizer: NewTokenizer(html), doc: NewDocument()}
}

func Parse(html string) (*Document, error) {
	return NewParser(html).Parse()
}

// ParseWithFetcher parses html and loads linked stylesheets through fetcher.
func ParseWithFetcher(html string, fetcher CSSFetcher) (*Document, error) {
	p := NewParser(html)
	p.cssFetcher = fetcher
	return p.Parse()
}

func (p *Parser) Parse() (*Document, error) {
	p.open = []*Node{p.doc.Root}
	for {
		tok, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		switch tok.Type {
		case TokenEOF:
			return p.doc, nil
		case TokenStartTag:
			p.startTag(tok)
		case TokenEndTag:
			p.endTag(tok.TagName)
		case TokenText:
			p.current().AppendText(tok.Text)
		case TokenRawText:
			p.rawText(tok)
		}
	}
}

func (p *Parser) startTag(tok Token) {
	if isRawTextElement(tok.TagName) && !tok.SelfClosing {
		return // the body follows as a raw text token
	}
	if closesParagraph[tok.TagName] {
		p.closeParagraph()
	}
	node := &Node{
		Type:       ElementNode,
		TagName:    tok.TagName,
		Attributes: tok.Attributes,
		Children:   make([]*Node, 0),
	}
	p.current().AddChild(node)
	if tok.TagName == "link" {
		p.link(tok.Attributes)
	}
	if !isVoidElement(tok.TagName) && !tok.SelfClosing {
		p.open = append(p.open, node)
	}
}

func (p *Parser) rawText(tok Token) {
	switch tok.TagName {
	case "style":
		p.doc.Stylesheets = append(p.doc.Stylesheets, tok.Text)
	case "script":
		if strings.TrimSpace(tok.Text) != "" {
			p.doc.Scripts = append(p.doc.Scripts, tok.Text)
		}
	}
}

func (p *Parser) current() *Node {
	return p.open[len(p.open)-1]
}

// endTag closes the innermost open element named tag and everything
// opened after it. The document root is never closed.
func (p *Parser) endTag(tag string) {
	for i := len(p.open) - 1; i > 0; i-- {
		if p.open[i].TagName == tag {
			p.open = p.open[:i]
			return
		}
	}
}

// closeParagraph closes an open <p> unless a block element sits between it
// and the insertion point.
func (p *Parser) closeParagraph() {
	for i := len(p.open) - 1; i > 0; i-- {
		switch tag := p.open[i].TagName; {
		case tag == "p":
			p.open = p.open[:i]
			return
		case closesParagraph[tag]:
			return
		}
	}
}

var closesParagraph = map[string]bool{}

func init() {
	for _, tag := range strings.Fields(`address article aside blockquote details dialog
		dd div dl dt fieldset figcaption figure footer form h1 h2 h3 h4 h5 h6
		header hgroup hr li main nav ol p pre section table ul`) {
		closesParagraph[tag] = true
	}
}

func (p *Parser) link(attrs map[string]string) {
	href, ok := attrs["href"]
	if !ok || !strings.Contains(attrs["rel"], "stylesheet") {
		return
	}
	if css := p.linkedStylesheet(strings.TrimSpace(href)); css != "" {
		p.doc.Stylesheets = append(p.doc.Stylesheets, css)
	}
}

// linkedStylesheet decodes a data:text/css href inline and hands any
// other href to the fetcher.
func (p *Parser) linkedStylesheet(href string) string {
	const dataPrefix = "data:text/css,"
	if strings.HasPrefix(href, dataPrefix) {
		encoded := href[len(dataPrefix):]
		if decoded, err := url.PathUnescape(encoded); err == nil {
			return decoded
		}
		return encoded
	}
	if p.cssFetcher == nil {
		return ""
	}
	css, err := p.cssFetcher(href)
	if err != nil {
		tracer().Errorf("stylesheet %s: %v", href, err)
		return ""
	}
	return css
}
