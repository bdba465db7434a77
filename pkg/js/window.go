package js

import (
	"github.com/dop251/goja"

	"csscontexts/pkg/css"
	"csscontexts/pkg/html"
)

// registerWindow installs `window` with getComputedStyle, also reachable
// as a global function.
func (e *Engine) registerWindow() {
	getComputedStyle := func(call goja.FunctionCall) goja.Value {
		var node *html.Node
		if len(call.Arguments) > 0 {
			node = e.dom.unwrapNode(call.Arguments[0])
		}
		if node == nil {
			panic(e.vm.NewTypeError("Failed to execute 'getComputedStyle' on 'Window': parameter 1 is not of type 'Element'."))
		}
		return e.vm.NewDynamicObject(&computedStyleAccessor{engine: e, node: node})
	}

	window := e.vm.GlobalObject()
	window.Set("window", window)
	window.Set("getComputedStyle", getComputedStyle)
}

// computedStyleAccessor is the object getComputedStyle returns. Every read
// queries the style source again, so it reflects later edits to the tree.
type computedStyleAccessor struct {
	engine *Engine
	node   *html.Node
}

func (c *computedStyleAccessor) style() *css.Style {
	return c.engine.styles(c.node)
}

func (c *computedStyleAccessor) Get(key string) goja.Value {
	vm := c.engine.vm
	if key == "getPropertyValue" {
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue("")
			}
			return vm.ToValue(c.style().Value(call.Arguments[0].String()))
		})
	}
	v, ok := c.style().Get(camelToKebab(key))
	if !ok {
		return goja.Undefined()
	}
	return vm.ToValue(v)
}

func (c *computedStyleAccessor) Set(key string, val goja.Value) bool {
	panic(c.engine.vm.NewTypeError("Failed to set the '" + key + "' property on 'CSSStyleDeclaration': These styles are computed, and therefore read-only."))
}

func (c *computedStyleAccessor) Has(key string) bool {
	if key == "getPropertyValue" {
		return true
	}
	_, ok := c.style().Get(camelToKebab(key))
	return ok
}

func (c *computedStyleAccessor) Delete(key string) bool {
	return false
}

func (c *computedStyleAccessor) Keys() []string {
	props := c.style().Keys()
	keys := make([]string, len(props))
	for i, p := range props {
		keys[i] = kebabToCamel(p)
	}
	return keys
}
