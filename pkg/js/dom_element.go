package js

import (
	"strings"

	"github.com/dop251/goja"

	"layerstack/pkg/html"
)

// elementAccessor backs the script object of one node.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

// elementProperty reads a plain property of a node.
type elementProperty func(e *elementAccessor) goja.Value

// elementMethod is the body of a callable member, bound to its node.
type elementMethod func(e *elementAccessor, call goja.FunctionCall) goja.Value

var elementProperties = map[string]elementProperty{
	"nodeType": func(e *elementAccessor) goja.Value {
		if e.node.Type == html.TextNode {
			return e.ctx.vm.ToValue(3)
		}
		return e.ctx.vm.ToValue(1)
	},
	"nodeName": func(e *elementAccessor) goja.Value {
		if e.node.Type == html.TextNode {
			return e.ctx.vm.ToValue("#text")
		}
		return e.ctx.vm.ToValue(strings.ToUpper(e.node.TagName))
	},
	"tagName": func(e *elementAccessor) goja.Value {
		if e.node.Type == html.TextNode {
			return goja.Undefined()
		}
		return e.ctx.vm.ToValue(strings.ToUpper(e.node.TagName))
	},
	"nodeValue": func(e *elementAccessor) goja.Value {
		if e.node.Type == html.TextNode {
			return e.ctx.vm.ToValue(e.node.Text)
		}
		return goja.Null()
	},
	"id":          func(e *elementAccessor) goja.Value { return e.attr("id") },
	"className":   func(e *elementAccessor) goja.Value { return e.attr("class") },
	"textContent": func(e *elementAccessor) goja.Value { return e.ctx.vm.ToValue(e.node.TextContent()) },
	"innerHTML":   func(e *elementAccessor) goja.Value { return e.ctx.vm.ToValue(e.node.Serialize()) },
	"outerHTML":   func(e *elementAccessor) goja.Value { return e.ctx.vm.ToValue(e.node.SerializeOuter()) },
	"children": func(e *elementAccessor) goja.Value {
		return e.ctx.elementArray(e.elementChildren())
	},
	"childNodes":        func(e *elementAccessor) goja.Value { return e.ctx.elementArray(e.node.Children) },
	"childElementCount": func(e *elementAccessor) goja.Value { return e.ctx.vm.ToValue(len(e.elementChildren())) },
	"parentElement":     func(e *elementAccessor) goja.Value { return e.ctx.nodeOrNull(e.node.Parent) },
	"parentNode":        func(e *elementAccessor) goja.Value { return e.ctx.nodeOrNull(e.node.Parent) },
	"style":             func(e *elementAccessor) goja.Value { return newStyleProxy(e.ctx.vm, e.node) },
	"classList":         func(e *elementAccessor) goja.Value { return newClassListProxy(e.ctx, e.node) },
	"firstChild":        func(e *elementAccessor) goja.Value { return e.ctx.nodeOrNull(e.node.FirstChild()) },
	"lastChild":         func(e *elementAccessor) goja.Value { return e.ctx.nodeOrNull(e.node.LastChild()) },
	"firstElementChild": func(e *elementAccessor) goja.Value {
		if kids := e.elementChildren(); len(kids) > 0 {
			return e.ctx.elementProxy(kids[0])
		}
		return goja.Null()
	},
	"lastElementChild": func(e *elementAccessor) goja.Value {
		if kids := e.elementChildren(); len(kids) > 0 {
			return e.ctx.elementProxy(kids[len(kids)-1])
		}
		return goja.Null()
	},
	"nextSibling":     func(e *elementAccessor) goja.Value { return e.sibling(1) },
	"previousSibling": func(e *elementAccessor) goja.Value { return e.sibling(-1) },
}

var elementMethods = map[string]elementMethod{
	"getAttribute": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		if val, ok := e.node.GetAttribute(call.Argument(0).String()); ok {
			return e.ctx.vm.ToValue(val)
		}
		return goja.Null()
	},
	"setAttribute": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'setAttribute': 2 arguments required"))
		}
		e.node.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
		return goja.Undefined()
	},
	"hasAttribute": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		_, ok := e.node.GetAttribute(call.Argument(0).String())
		return e.ctx.vm.ToValue(ok)
	},
	"removeAttribute": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		delete(e.node.Attributes, call.Argument(0).String())
		return goja.Undefined()
	},
	"appendChild": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		child := e.ctx.requireNode("appendChild", call, 0)
		e.node.AppendChild(child)
		return e.ctx.elementProxy(child)
	},
	"removeChild": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		child := e.ctx.requireNode("removeChild", call, 0)
		if e.node.RemoveChild(child) == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': The node to be removed is not a child of this node"))
		}
		return e.ctx.elementProxy(child)
	},
	"insertBefore": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		child := e.ctx.requireNode("insertBefore", call, 0)
		e.node.InsertBefore(child, e.ctx.unwrapNode(call.Argument(1)))
		return e.ctx.elementProxy(child)
	},
	"remove": func(e *elementAccessor, _ goja.FunctionCall) goja.Value {
		e.node.Remove()
		return goja.Undefined()
	},
	"contains": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		other := e.ctx.unwrapNode(call.Argument(0))
		return e.ctx.vm.ToValue(other != nil && e.node.Contains(other))
	},
	"querySelector": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		return querySelectorFn(e.ctx, e.node)(call)
	},
	"querySelectorAll": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		return querySelectorAllFn(e.ctx, e.node)(call)
	},
	"matches": func(e *elementAccessor, call goja.FunctionCall) goja.Value { return matchesFn(e.ctx, e.node)(call) },
	"closest": func(e *elementAccessor, call goja.FunctionCall) goja.Value { return closestFn(e.ctx, e.node)(call) },
	"getBoundingClientRect": func(e *elementAccessor, _ goja.FunctionCall) goja.Value {
		rect := e.ctx.vm.NewObject()
		for _, f := range e.ctx.host.GetBoundingClientRect(e.node).Fields() {
			rect.Set(f.Name, f.Value)
		}
		return rect
	},
	"addEventListener": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		return e.ctx.addEventListenerFn(e.node)(call)
	},
	"removeEventListener": func(e *elementAccessor, call goja.FunctionCall) goja.Value {
		return e.ctx.removeEventListenerFn(e.node)(call)
	},
}

var elementKeys = append(memberNames(elementProperties), memberNames(elementMethods)...)

func (e *elementAccessor) Get(key string) goja.Value {
	if p, ok := elementProperties[key]; ok {
		return p(e)
	}
	if m, ok := elementMethods[key]; ok {
		return e.ctx.vm.ToValue(func(call goja.FunctionCall) goja.Value { return m(e, call) })
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.SetTextContent(val.String())
	case "className":
		e.node.SetAttribute("class", val.String())
	case "id":
		e.node.SetAttribute("id", val.String())
	case "innerHTML":
		e.setInnerHTML(val.String())
	case "nodeValue":
		if e.node.Type == html.TextNode {
			e.node.Text = val.String()
		}
	default:
		return false
	}
	return true
}

func (e *elementAccessor) Has(key string) bool {
	return elementProperties[key] != nil || elementMethods[key] != nil
}

func (e *elementAccessor) Delete(key string) bool { return false }
func (e *elementAccessor) Keys() []string         { return elementKeys }

func (e *elementAccessor) attr(name string) goja.Value {
	val, _ := e.node.GetAttribute(name)
	return e.ctx.vm.ToValue(val)
}

func (e *elementAccessor) elementChildren() []*html.Node {
	var kids []*html.Node
	for _, c := range e.node.Children {
		if c.Type == html.ElementNode {
			kids = append(kids, c)
		}
	}
	return kids
}

// sibling returns the node delta positions away in the parent, or null.
func (e *elementAccessor) sibling(delta int) goja.Value {
	i := e.node.IndexInParent()
	if i < 0 {
		return goja.Null()
	}
	i += delta
	if i < 0 || i >= len(e.node.Parent.Children) {
		return goja.Null()
	}
	return e.ctx.elementProxy(e.node.Parent.Children[i])
}

// setInnerHTML replaces the children of the node with the top-level nodes
// parsed from markup.
func (e *elementAccessor) setInnerHTML(markup string) {
	e.node.SetTextContent("")
	if markup == "" {
		return
	}
	frag, err := html.Parse(markup)
	if err != nil {
		tracer().Errorf("innerHTML: %v", err)
		return
	}
	for _, child := range append([]*html.Node(nil), frag.Root.Children...) {
		e.node.AppendChild(child)
	}
}
