package js

import (
	"strings"

	"github.com/dop251/goja"
)

// registerConsole routes the console methods to the package tracer.
// There is no output stream of its own.
func registerConsole(vm *goja.Runtime) {
	console := vm.NewObject()
	levels := map[string]func(string, ...interface{}){
		"log":   tracer().Infof,
		"info":  tracer().Infof,
		"warn":  tracer().Infof,
		"debug": tracer().Debugf,
		"error": tracer().Errorf,
	}
	for name, logf := range levels {
		name, logf := name, logf
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			if name == "warn" {
				logf("console WARN: %s", consoleLine(vm, call.Arguments))
			} else {
				logf("console: %s", consoleLine(vm, call.Arguments))
			}
			return goja.Undefined()
		})
	}
	vm.Set("console", console)
}

// consoleLine joins the arguments the way a browser console prints them:
// strings bare, plain objects as JSON.
func consoleLine(vm *goja.Runtime, args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
		obj, ok := arg.(*goja.Object)
		if !ok || obj.ClassName() != "Object" {
			continue
		}
		if b, err := obj.MarshalJSON(); err == nil {
			parts[i] = string(b)
		}
	}
	return strings.Join(parts, " ")
}
