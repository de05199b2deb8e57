package js

import (
	"time"

	"github.com/dop251/goja"
)

// clock is implemented by hosts that keep a frame clock.
type clock interface {
	Now() time.Time
}

// registerWindow installs the browser window API on the global object and
// aliases it as `window`.
func (e *Engine) registerWindow() {
	vm := e.vm
	ctx := e.dom
	host := e.host
	global := vm.GlobalObject()

	viewport := func(height bool) goja.Value {
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			w, h := host.ViewportSize()
			if height {
				return vm.ToValue(h)
			}
			return vm.ToValue(w)
		})
	}
	global.DefineAccessorProperty("innerWidth", viewport(false), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	global.DefineAccessorProperty("innerHeight", viewport(true), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	global.Set("getComputedStyle", func(call goja.FunctionCall) goja.Value {
		node := ctx.unwrapNode(call.Argument(0))
		if node == nil {
			panic(vm.NewTypeError("Failed to execute 'getComputedStyle' on 'Window': parameter 1 is not of type 'Element'"))
		}
		return newComputedStyleProxy(vm, host.GetComputedStyle(node))
	})

	global.Set("requestAnimationFrame", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("Failed to execute 'requestAnimationFrame' on 'Window': The callback provided as parameter 1 is not a function"))
		}
		host.RequestAnimationFrame(func() {
			if _, err := fn(goja.Undefined(), vm.ToValue(e.timestamp())); err != nil {
				tracer().Errorf("animation frame: %v", err)
			}
		})
		return goja.Undefined()
	})

	global.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			return vm.ToValue(0)
		}
		delay := time.Duration(call.Argument(1).ToFloat() * float64(time.Millisecond))
		if delay < 0 {
			delay = 0
		}
		id := host.SetTimeout(delay, func() {
			if _, err := fn(goja.Undefined()); err != nil {
				tracer().Errorf("timeout: %v", err)
			}
		})
		return vm.ToValue(id)
	})
	global.Set("clearTimeout", func(call goja.FunctionCall) goja.Value {
		host.ClearTimeout(int(call.Argument(0).ToInteger()))
		return goja.Undefined()
	})

	global.Set("addEventListener", ctx.addEventListenerFn(ctx.doc.Root))
	global.Set("removeEventListener", ctx.removeEventListenerFn(ctx.doc.Root))
	global.Set("window", global)
}

// timestamp is the rAF argument: milliseconds since the engine started,
// measured on the host clock when it has one.
func (e *Engine) timestamp() float64 {
	c, ok := e.host.(clock)
	if !ok {
		return 0
	}
	return float64(c.Now().Sub(e.start)) / float64(time.Millisecond)
}
