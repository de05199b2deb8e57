package js

import (
	"errors"

	"github.com/dop251/goja"

	"layerstack/pkg/layerstack"
)

// layerStackPrelude lets scripts use LayerStack with or without `new`.
const layerStackPrelude = `function LayerStack(el) { return __createLayerStack(el); }`

func (e *Engine) registerLayerStack() error {
	e.vm.Set("__createLayerStack", e.createLayerStack)
	_, err := e.vm.RunString(layerStackPrelude)
	return err
}

func (e *Engine) createLayerStack(call goja.FunctionCall) goja.Value {
	vm := e.vm
	el := e.dom.unwrapNode(call.Argument(0))
	stack, err := layerstack.Create(e.host, el, e.options)
	if errors.Is(err, layerstack.ErrMissingElement) {
		panic(e.newError("Missing input element"))
	}
	if err != nil {
		panic(vm.NewGoError(err))
	}
	e.stacks = append(e.stacks, stack)
	return e.stackObject(stack)
}

// stackObject exposes a Stack to scripts. Handlers registered with on run
// with the stack object as `this`.
func (e *Engine) stackObject(stack *layerstack.Stack) goja.Value {
	vm := e.vm
	obj := vm.NewObject()
	obj.Set("element", e.dom.nodeOrNull(stack.Source()))
	obj.Set("container", e.dom.nodeOrNull(stack.Container()))
	obj.Set("layers", e.dom.elementArray(stack.Layers()))

	obj.Set("destroy", func(call goja.FunctionCall) goja.Value {
		var opts layerstack.DestroyOptions
		if o, ok := call.Argument(0).(*goja.Object); ok {
			if v := o.Get("immediate"); v != nil {
				opts.Immediate = v.ToBoolean()
			}
		}
		stack.Destroy(opts)
		return goja.Undefined()
	})
	obj.Set("on", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		fn, ok := goja.AssertFunction(call.Argument(1))
		if !ok {
			return obj
		}
		stack.On(name, func(data any) {
			arg, isValue := data.(goja.Value)
			if !isValue {
				arg = vm.ToValue(data)
			}
			if _, err := fn(obj, arg); err != nil {
				tracer().Errorf("%s handler: %v", name, err)
			}
		})
		return obj
	})
	obj.Set("trigger", func(call goja.FunctionCall) goja.Value {
		stack.Trigger(call.Argument(0).String(), call.Argument(1))
		return obj
	})
	return obj
}

// newError builds a script-level Error with message.
func (e *Engine) newError(message string) *goja.Object {
	ctor, ok := goja.AssertConstructor(e.vm.Get("Error"))
	if !ok {
		return e.vm.NewTypeError(message)
	}
	obj, err := ctor(nil, e.vm.ToValue(message))
	if err != nil {
		return e.vm.NewTypeError(message)
	}
	return obj
}
