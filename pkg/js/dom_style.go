package js

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"layerstack/pkg/css"
	"layerstack/pkg/html"
)

// styleDeclaration is a CSSStyleDeclaration. Property access by camelCase
// name maps to the kebab-case CSS property. A declaration without a
// write function is read-only.
type styleDeclaration struct {
	vm    *goja.Runtime
	read  func(property string) string
	write func(property, value string)
	names func() []string
	text  *html.Node // backs cssText for inline styles
}

// newStyleProxy exposes the inline style attribute of node.
func newStyleProxy(vm *goja.Runtime, node *html.Node) goja.Value {
	return vm.NewDynamicObject(&styleDeclaration{
		vm:    vm,
		read:  node.StyleProperty,
		write: node.SetStyleProperty,
		names: func() []string {
			var names []string
			for _, d := range node.InlineStyle() {
				names = append(names, d.Property)
			}
			return names
		},
		text: node,
	})
}

// newComputedStyleProxy exposes a computed style read-only.
func newComputedStyleProxy(vm *goja.Runtime, style *css.Style) goja.Value {
	return vm.NewDynamicObject(&styleDeclaration{
		vm:   vm,
		read: style.GetPropertyValue,
		names: func() []string {
			names := make([]string, 0, len(style.Properties))
			for k := range style.Properties {
				names = append(names, k)
			}
			sort.Strings(names)
			return names
		},
	})
}

func (s *styleDeclaration) fn(f func(call goja.FunctionCall) goja.Value) goja.Value {
	return s.vm.ToValue(f)
}

func (s *styleDeclaration) Get(key string) goja.Value {
	switch key {
	case "cssText":
		if s.text == nil {
			return s.vm.ToValue("")
		}
		attr, _ := s.text.GetAttribute("style")
		return s.vm.ToValue(attr)
	case "length":
		return s.vm.ToValue(len(s.names()))
	case "item":
		return s.fn(func(call goja.FunctionCall) goja.Value {
			names := s.names()
			i := int(call.Argument(0).ToInteger())
			if i < 0 || i >= len(names) {
				return s.vm.ToValue("")
			}
			return s.vm.ToValue(names[i])
		})
	case "getPropertyValue":
		return s.fn(func(call goja.FunctionCall) goja.Value {
			return s.vm.ToValue(s.read(call.Argument(0).String()))
		})
	case "setProperty":
		return s.fn(func(call goja.FunctionCall) goja.Value {
			s.update(call.Argument(0).String(), call.Argument(1).String())
			return goja.Undefined()
		})
	case "removeProperty":
		return s.fn(func(call goja.FunctionCall) goja.Value {
			prop := call.Argument(0).String()
			old := s.read(prop)
			s.update(prop, "")
			return s.vm.ToValue(old)
		})
	}
	return s.vm.ToValue(s.read(camelToKebab(key)))
}

func (s *styleDeclaration) update(property, value string) {
	if s.write == nil {
		panic(s.vm.NewTypeError("Failed to set '%s': computed style is read-only", property))
	}
	s.write(property, value)
}

func (s *styleDeclaration) Set(key string, val goja.Value) bool {
	if s.write == nil {
		return false
	}
	if key == "cssText" {
		s.text.SetAttribute("style", val.String())
		return true
	}
	s.write(camelToKebab(key), val.String())
	return true
}

func (s *styleDeclaration) Has(key string) bool { return true }

func (s *styleDeclaration) Delete(key string) bool {
	if s.write == nil {
		return false
	}
	s.write(camelToKebab(key), "")
	return true
}

func (s *styleDeclaration) Keys() []string { return s.names() }

// camelToKebab turns backgroundColor into background-color. Custom
// properties pass through unchanged.
func camelToKebab(s string) string {
	switch {
	case s == "cssFloat":
		return "float"
	case strings.HasPrefix(s, "--"):
		return s
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
