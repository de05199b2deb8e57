package js

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/npillmayer/schuko/tracing"

	"layerstack/pkg/layerstack"
)

func tracer() tracing.Trace {
	return tracing.Select("layerstack.js")
}

// Engine executes JavaScript against the document of a host window. Every
// script of a page shares one runtime.
type Engine struct {
	vm      *goja.Runtime
	host    layerstack.Host
	dom     *domContext
	options layerstack.Options
	stacks  []*layerstack.Stack
	start   time.Time
}

// New creates an engine bound to host. Stacks created by scripts use opts.
func New(host layerstack.Host, opts layerstack.Options) *Engine {
	vm := goja.New()
	e := &Engine{
		vm:      vm,
		host:    host,
		dom:     newDOMContext(vm, host),
		options: opts,
	}
	if c, ok := host.(clock); ok {
		e.start = c.Now()
	}

	registerConsole(vm)
	registerDocument(e.dom)
	e.registerWindow()
	if err := e.registerLayerStack(); err != nil {
		tracer().Errorf("registering LayerStack: %v", err)
	}
	return e
}

// Execute runs the scripts of the host document in document order and
// stops at the first error.
func (e *Engine) Execute() error {
	for i, script := range e.host.Document().Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// RunString evaluates one script and returns its completion value.
func (e *Engine) RunString(src string) (goja.Value, error) {
	return e.vm.RunString(src)
}

// Stacks returns the layer stacks created by scripts, in creation order.
func (e *Engine) Stacks() []*layerstack.Stack {
	return e.stacks
}
