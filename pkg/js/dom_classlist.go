package js

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"layerstack/pkg/html"
)

// newClassListProxy returns element.classList, a live DOMTokenList over
// the class attribute of node.
func newClassListProxy(ctx *domContext, node *html.Node) goja.Value {
	return ctx.vm.NewDynamicObject(&classListAccessor{ctx: ctx, node: node})
}

type classListAccessor struct {
	ctx  *domContext
	node *html.Node
}

type tokenListMethod func(vm *goja.Runtime, node *html.Node, args []goja.Value) goja.Value

var tokenListMethods = map[string]tokenListMethod{
	"add": func(vm *goja.Runtime, node *html.Node, args []goja.Value) goja.Value {
		node.AddClass(tokenArgs(args)...)
		return goja.Undefined()
	},
	"remove": func(vm *goja.Runtime, node *html.Node, args []goja.Value) goja.Value {
		node.RemoveClass(tokenArgs(args)...)
		return goja.Undefined()
	},
	"toggle": func(vm *goja.Runtime, node *html.Node, args []goja.Value) goja.Value {
		if len(args) == 0 {
			panic(vm.NewTypeError("Failed to execute 'toggle': 1 argument required"))
		}
		token := args[0].String()
		if len(args) == 1 || goja.IsUndefined(args[1]) {
			return vm.ToValue(node.ToggleClass(token))
		}
		if args[1].ToBoolean() {
			node.AddClass(token)
			return vm.ToValue(true)
		}
		node.RemoveClass(token)
		return vm.ToValue(false)
	},
	"contains": func(vm *goja.Runtime, node *html.Node, args []goja.Value) goja.Value {
		return vm.ToValue(len(args) > 0 && node.HasClass(args[0].String()))
	},
	"replace": func(vm *goja.Runtime, node *html.Node, args []goja.Value) goja.Value {
		if len(args) < 2 {
			panic(vm.NewTypeError("Failed to execute 'replace': 2 arguments required"))
		}
		classes := node.Classes()
		for i, c := range classes {
			if c == args[0].String() {
				classes[i] = args[1].String()
				node.SetAttribute("class", strings.Join(classes, " "))
				return vm.ToValue(true)
			}
		}
		return vm.ToValue(false)
	},
	"item": func(vm *goja.Runtime, node *html.Node, args []goja.Value) goja.Value {
		classes := node.Classes()
		if len(args) == 0 {
			return goja.Null()
		}
		if i := args[0].ToInteger(); i >= 0 && i < int64(len(classes)) {
			return vm.ToValue(classes[i])
		}
		return goja.Null()
	},
	"toString": func(vm *goja.Runtime, node *html.Node, args []goja.Value) goja.Value {
		return vm.ToValue(strings.Join(node.Classes(), " "))
	},
}

var classListKeys = []string{"length", "value", "add", "remove", "toggle",
	"contains", "replace", "item", "toString"}

func (cl *classListAccessor) Get(key string) goja.Value {
	vm, node := cl.ctx.vm, cl.node
	if m, ok := tokenListMethods[key]; ok {
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return m(vm, node, call.Arguments)
		})
	}
	classes := node.Classes()
	switch key {
	case "length":
		return vm.ToValue(len(classes))
	case "value":
		return vm.ToValue(strings.Join(classes, " "))
	}
	if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(classes) {
		return vm.ToValue(classes[i])
	}
	return goja.Undefined()
}

func tokenArgs(args []goja.Value) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg.String()
	}
	return out
}

func (cl *classListAccessor) Set(key string, val goja.Value) bool {
	if key != "value" {
		return false
	}
	cl.node.SetAttribute("class", val.String())
	return true
}

func (cl *classListAccessor) Has(key string) bool {
	if containsToken(classListKeys, key) {
		return true
	}
	i, err := strconv.Atoi(key)
	return err == nil && i >= 0 && i < len(cl.node.Classes())
}

func (cl *classListAccessor) Delete(key string) bool { return false }

func (cl *classListAccessor) Keys() []string { return classListKeys }
