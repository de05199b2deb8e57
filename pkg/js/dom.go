package js

import (
	"sort"
	"strings"

	"github.com/dop251/goja"

	"layerstack/pkg/html"
	"layerstack/pkg/layerstack"
)

// domContext is the per-runtime state of the DOM bindings. Every node
// maps to exactly one proxy object so that === works in scripts.
type domContext struct {
	vm        *goja.Runtime
	host      layerstack.Host
	doc       *html.Document
	proxies   map[*html.Node]*goja.Object
	nodes     map[*goja.Object]*html.Node
	listeners []jsListener
}

func newDOMContext(vm *goja.Runtime, host layerstack.Host) *domContext {
	return &domContext{
		vm:      vm,
		host:    host,
		doc:     host.Document(),
		proxies: make(map[*html.Node]*goja.Object),
		nodes:   make(map[*goja.Object]*html.Node),
	}
}

func registerDocument(ctx *domContext) {
	ctx.vm.Set("document", ctx.vm.NewDynamicObject(&documentAccessor{ctx: ctx}))
}

// elementProxy returns the script object for node, creating it on first use.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if obj, ok := ctx.proxies[node]; ok {
		return obj
	}
	obj := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.proxies[node] = obj
	ctx.nodes[obj] = node
	return obj
}

// unwrapNode returns the node behind a proxy, or nil for any other value.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	obj, ok := val.(*goja.Object)
	if !ok || obj == nil {
		return nil
	}
	return ctx.nodes[obj]
}

// nodeOrNull maps nil and the synthetic document root to null.
func (ctx *domContext) nodeOrNull(node *html.Node) goja.Value {
	if node == nil || node == ctx.doc.Root {
		return goja.Null()
	}
	return ctx.elementProxy(node)
}

func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	values := make([]interface{}, len(nodes))
	for i, n := range nodes {
		values[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(values...)
}

// requireNode unwraps argument i of call or throws a TypeError naming method.
func (ctx *domContext) requireNode(method string, call goja.FunctionCall, i int) *html.Node {
	node := ctx.unwrapNode(call.Argument(i))
	if node == nil {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': parameter %d is not of type 'Node'", method, i+1))
	}
	return node
}

// documentAccessor resolves head and body on every access, so scripts see
// elements created after registration.
type documentAccessor struct {
	ctx *domContext
}

type documentMember func(ctx *domContext) goja.Value

var documentMembers = map[string]documentMember{
	"getElementById": func(ctx *domContext) goja.Value {
		return ctx.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			return ctx.nodeOrNull(ctx.doc.GetElementByID(call.Arguments[0].String()))
		})
	},
	"getElementsByTagName": func(ctx *domContext) goja.Value {
		return ctx.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			var found []*html.Node
			if len(call.Arguments) > 0 {
				found = getElementsByTagName(ctx.doc.Root, strings.ToLower(call.Arguments[0].String()))
			}
			return ctx.elementArray(found)
		})
	},
	"getElementsByClassName": func(ctx *domContext) goja.Value {
		return ctx.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			var found []*html.Node
			if len(call.Arguments) > 0 {
				found = getElementsByClassName(ctx.doc.Root, call.Arguments[0].String())
			}
			return ctx.elementArray(found)
		})
	},
	"createElement": func(ctx *domContext) goja.Value {
		return ctx.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(ctx.vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
			}
			return ctx.elementProxy(html.CreateElement(call.Arguments[0].String()))
		})
	},
	"createTextNode": func(ctx *domContext) goja.Value {
		return ctx.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return ctx.elementProxy(&html.Node{Type: html.TextNode, Text: call.Argument(0).String()})
		})
	},
	"querySelector": func(ctx *domContext) goja.Value {
		return ctx.vm.ToValue(querySelectorFn(ctx, ctx.doc.Root))
	},
	"querySelectorAll": func(ctx *domContext) goja.Value {
		return ctx.vm.ToValue(querySelectorAllFn(ctx, ctx.doc.Root))
	},
	"documentElement": func(ctx *domContext) goja.Value {
		for _, child := range ctx.doc.Root.Children {
			if child.Type == html.ElementNode && child.TagName == "html" {
				return ctx.elementProxy(child)
			}
		}
		return goja.Null()
	},
	"head": func(ctx *domContext) goja.Value { return ctx.elementProxy(ctx.doc.Head()) },
	"body": func(ctx *domContext) goja.Value { return ctx.elementProxy(ctx.doc.Body()) },
	"addEventListener": func(ctx *domContext) goja.Value {
		return ctx.vm.ToValue(ctx.addEventListenerFn(ctx.doc.Root))
	},
	"removeEventListener": func(ctx *domContext) goja.Value {
		return ctx.vm.ToValue(ctx.removeEventListenerFn(ctx.doc.Root))
	},
}

var documentKeys = memberNames(documentMembers)

func (d *documentAccessor) Get(key string) goja.Value {
	if m, ok := documentMembers[key]; ok {
		return m(d.ctx)
	}
	return goja.Undefined()
}

func (d *documentAccessor) Set(key string, val goja.Value) bool { return false }
func (d *documentAccessor) Has(key string) bool                 { return documentMembers[key] != nil }
func (d *documentAccessor) Delete(key string) bool              { return false }
func (d *documentAccessor) Keys() []string                      { return documentKeys }

func getElementsByTagName(node *html.Node, tag string) []*html.Node {
	return descendants(node, false, func(n *html.Node) bool { return n.TagName == tag })
}

func getElementsByClassName(node *html.Node, cls string) []*html.Node {
	return descendants(node, false, func(n *html.Node) bool { return n.HasClass(cls) })
}

// memberNames returns the sorted keys of a member table.
func memberNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
