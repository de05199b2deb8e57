package js

import (
	"github.com/dop251/goja"

	"layerstack/pkg/html"
)

// jsListener remembers a script listener so removeEventListener can find
// it by function identity.
type jsListener struct {
	node      *html.Node
	eventType string
	fn        goja.Value
	id        html.ListenerID
}

func (ctx *domContext) addEventListenerFn(node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		eventType := call.Argument(0).String()
		fnVal := call.Argument(1)
		fn, ok := goja.AssertFunction(fnVal)
		if !ok {
			return goja.Undefined()
		}
		for _, l := range ctx.listeners {
			if l.node == node && l.eventType == eventType && l.fn.SameAs(fnVal) {
				return goja.Undefined()
			}
		}
		var opts html.ListenerOptions
		if o, isObj := call.Argument(2).(*goja.Object); isObj {
			if once := o.Get("once"); once != nil {
				opts.Once = once.ToBoolean()
			}
		}

		var id html.ListenerID
		id = node.AddEventListener(eventType, func(ev *html.Event) {
			if opts.Once {
				ctx.forgetListener(node, eventType, id)
			}
			if _, err := fn(ctx.nodeOrNull(node), ctx.eventObject(ev)); err != nil {
				tracer().Errorf("%s listener: %v", eventType, err)
			}
		}, opts)
		ctx.listeners = append(ctx.listeners, jsListener{node: node, eventType: eventType, fn: fnVal, id: id})
		return goja.Undefined()
	}
}

func (ctx *domContext) removeEventListenerFn(node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		eventType := call.Argument(0).String()
		fnVal := call.Argument(1)
		for _, l := range ctx.listeners {
			if l.node == node && l.eventType == eventType && l.fn.SameAs(fnVal) {
				node.RemoveEventListener(eventType, l.id)
				ctx.forgetListener(node, eventType, l.id)
				break
			}
		}
		return goja.Undefined()
	}
}

func (ctx *domContext) forgetListener(node *html.Node, eventType string, id html.ListenerID) {
	for i, l := range ctx.listeners {
		if l.node == node && l.eventType == eventType && l.id == id {
			ctx.listeners = append(ctx.listeners[:i:i], ctx.listeners[i+1:]...)
			return
		}
	}
}

// eventObject converts a DOM event for script listeners.
func (ctx *domContext) eventObject(ev *html.Event) goja.Value {
	obj := ctx.vm.NewObject()
	obj.Set("type", ev.Type)
	obj.Set("target", ctx.nodeOrNull(ev.Target))
	obj.Set("currentTarget", ctx.nodeOrNull(ev.CurrentTarget()))
	obj.Set("clientX", ev.ClientX)
	obj.Set("clientY", ev.ClientY)
	obj.Set("propertyName", ev.PropertyName)
	obj.Set("elapsedTime", ev.ElapsedTime)
	obj.Set("detail", ev.Detail)
	obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		ev.StopPropagation()
		return goja.Undefined()
	})
	return obj
}
