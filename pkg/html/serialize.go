package html

import (
	"sort"
	"strings"
)

// Serialize returns the innerHTML of n.
func (n *Node) Serialize() string {
	var sb strings.Builder
	for _, child := range n.Children {
		writeNode(&sb, child)
	}
	return sb.String()
}

// SerializeOuter returns the outerHTML of n.
func (n *Node) SerializeOuter() string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

// writeNode serializes n with attributes in name order. Text inside
// <style> and <script> is written verbatim.
func writeNode(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		if n.Parent != nil && isRawTextElement(n.Parent.TagName) {
			sb.WriteString(n.Text)
		} else {
			textEscaper.WriteString(sb, n.Text)
		}
		return
	}

	names := make([]string, 0, len(n.Attributes))
	for name := range n.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString("<" + n.TagName)
	for _, name := range names {
		sb.WriteString(" " + name + `="`)
		attrEscaper.WriteString(sb, n.Attributes[name])
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	if isVoidElement(n.TagName) {
		return
	}
	for _, child := range n.Children {
		writeNode(sb, child)
	}
	sb.WriteString("</" + n.TagName + ">")
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func isVoidElement(tag string) bool {
	return voidElements[tag]
}
