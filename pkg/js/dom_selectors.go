package js

import (
	"github.com/dop251/goja"

	"layerstack/pkg/css"
	"layerstack/pkg/html"
)

type selectorError struct {
	selector string
}

func (e *selectorError) Error() string {
	return "'" + e.selector + "' is not a valid selector"
}

// selectorGroup is a parsed "a, b > c".
type selectorGroup []css.Selector

func (g selectorGroup) match(n *html.Node) bool {
	for _, sel := range g {
		if css.MatchesSelector(n, sel) {
			return true
		}
	}
	return false
}

// selectorArg parses the first argument of a selector method and throws
// in the runtime when it is missing or invalid.
func selectorArg(ctx *domContext, method string, call goja.FunctionCall) selectorGroup {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '" + method + "': 1 argument required"))
	}
	text := call.Arguments[0].String()
	var group selectorGroup
	for _, raw := range css.SplitSelectorGroup(text) {
		sel, ok := css.ParseSelector(raw)
		if !ok {
			group = nil
			break
		}
		group = append(group, sel)
	}
	if len(group) == 0 {
		panic(ctx.vm.NewGoError(&selectorError{selector: text}))
	}
	return group
}

// descendants returns the elements below root in document order for which
// keep reports true. With first set, the walk ends at the first one.
func descendants(root *html.Node, first bool, keep func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	root.Walk(func(n *html.Node) bool {
		if n == root || n.Type != html.ElementNode || !keep(n) {
			return false
		}
		found = append(found, n)
		return first
	})
	return found
}

func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		found := descendants(root, true, selectorArg(ctx, "querySelector", call).match)
		if len(found) == 0 {
			return goja.Null()
		}
		return ctx.nodeOrNull(found[0])
	}
}

func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return ctx.elementArray(descendants(root, false, selectorArg(ctx, "querySelectorAll", call).match))
	}
}

func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return ctx.vm.ToValue(selectorArg(ctx, "matches", call).match(node))
	}
}

// closestFn implements element.closest: node itself or its nearest
// matching ancestor.
func closestFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := selectorArg(ctx, "closest", call)
		for n := node; n != nil && n != ctx.doc.Root; n = n.Parent {
			if n.Type == html.ElementNode && group.match(n) {
				return ctx.elementProxy(n)
			}
		}
		return goja.Null()
	}
}
