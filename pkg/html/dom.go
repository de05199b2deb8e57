package html

import (
	"slices"
	"strings"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node

	events *EventTarget // created on first listener registration
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

type Document struct {
	Root        *Node
	Stylesheets []string // CSS from <style> tags seen by the parser
	Scripts     []string // JavaScript from <script> tags
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// CreateElement returns a detached element node with an empty attribute map.
func CreateElement(tag string) *Node {
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: make(map[string]string),
		Children:   make([]*Node, 0),
	}
}

// Head returns the <head> element, creating it under <html> (or the
// document root) when the markup had none.
func (d *Document) Head() *Node {
	if head := findFirst(d.Root, "head"); head != nil {
		return head
	}
	head := CreateElement("head")
	parent := d.Root
	if htmlEl := findFirst(d.Root, "html"); htmlEl != nil {
		parent = htmlEl
	}
	parent.InsertBefore(head, parent.FirstChild())
	return head
}

// Body returns the <body> element, or the outermost element container
// when the document has no explicit body.
func (d *Document) Body() *Node {
	if body := findFirst(d.Root, "body"); body != nil {
		return body
	}
	if htmlEl := findFirst(d.Root, "html"); htmlEl != nil {
		return htmlEl
	}
	return d.Root
}

// GetElementByID walks the tree and returns the first element with a matching id.
func (d *Document) GetElementByID(id string) *Node {
	var found *Node
	d.Root.Walk(func(n *Node) bool {
		if n.Type == ElementNode {
			if val, ok := n.Attributes["id"]; ok && val == id {
				found = n
				return true
			}
		}
		return false
	})
	return found
}

// StyleSheets returns the parsed <style> texts followed by the text of
// every <style> element currently attached to the tree.
func (d *Document) StyleSheets() []string {
	sheets := make([]string, 0, len(d.Stylesheets))
	sheets = append(sheets, d.Stylesheets...)
	d.Root.Walk(func(n *Node) bool {
		if n.Type == ElementNode && n.TagName == "style" {
			sheets = append(sheets, n.TextContent())
		}
		return false
	})
	return sheets
}

func findFirst(root *Node, tag string) *Node {
	var found *Node
	root.Walk(func(n *Node) bool {
		if n.Type == ElementNode && n.TagName == tag {
			found = n
			return true
		}
		return false
	})
	return found
}

// Walk visits n and its descendants in document order until fn returns true.
// It reports whether the walk was stopped.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if fn(n) {
		return true
	}
	for _, child := range n.Children {
		if child.Walk(fn) {
			return true
		}
	}
	return false
}

func (n *Node) GetAttribute(name string) (string, bool) {
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// AddChild appends child without detaching it from a previous parent.
// The parser uses it for freshly created nodes.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendChild moves child under n as its last child.
func (n *Node) AppendChild(child *Node) *Node {
	return n.InsertBefore(child, nil)
}

// AppendText adds a text node. Empty text adds nothing.
func (n *Node) AppendText(text string) {
	if text != "" {
		n.AddChild(&Node{Type: TextNode, Text: text})
	}
}

func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// RemoveChild detaches child from n and returns it, or returns nil when
// child is not a child of n.
func (n *Node) RemoveChild(child *Node) *Node {
	i := slices.Index(n.Children, child)
	if i < 0 {
		return nil
	}
	n.Children = slices.Delete(n.Children, i, i+1)
	child.Parent = nil
	return child
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertBefore moves newChild under n, in front of refChild. A nil or
// foreign refChild appends.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	newChild.Remove()
	i := len(n.Children)
	if refChild != nil {
		if j := slices.Index(n.Children, refChild); j >= 0 {
			i = j
		}
	}
	n.Children = slices.Insert(n.Children, i, newChild)
	newChild.Parent = n
	return newChild
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// IndexInParent returns the position of n among its parent's children,
// or -1 for a detached node.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	return slices.Index(n.Parent.Children, n)
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	n.Walk(func(d *Node) bool {
		if d.Type == TextNode {
			sb.WriteString(d.Text)
		}
		return false
	})
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	for _, child := range n.Children {
		child.Parent = nil
	}
	n.Children = nil
	n.AppendText(text)
}
