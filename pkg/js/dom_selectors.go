package js

import (
	"github.com/dop251/goja"

	"csscontexts/pkg/css"
	"csscontexts/pkg/html"
)

// registerQuerySelectors adds querySelector/querySelectorAll to a document object.
func registerQuerySelectors(ctx *domContext, obj *goja.Object, root *html.Node) {
	obj.Set("querySelector", querySelectorFn(ctx, root))
	obj.Set("querySelectorAll", querySelectorAllFn(ctx, root))
}

// selectorArg parses the first argument as a selector group, throwing a
// SyntaxError into JS when it is invalid.
func selectorArg(ctx *domContext, call goja.FunctionCall, method string) []css.Selector {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '" + method + "': 1 argument required"))
	}
	raw := call.Arguments[0].String()
	var selectors []css.Selector
	for _, s := range css.SplitSelectorGroup(raw) {
		sel, err := css.ParseSelector(s)
		if err != nil {
			panic(ctx.vm.NewGoError(err))
		}
		selectors = append(selectors, sel)
	}
	if len(selectors) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '" + method + "': '" + raw + "' is not a valid selector"))
	}
	return selectors
}

func matchesAny(node *html.Node, selectors []css.Selector) bool {
	for _, sel := range selectors {
		if css.MatchesSelector(node, sel) {
			return true
		}
	}
	return false
}

// querySelectorFn returns a JS function implementing querySelector.
func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := selectorArg(ctx, call, "querySelector")
		var result *html.Node
		root.Walk(func(n *html.Node) bool {
			if n != root && matchesAny(n, selectors) {
				result = n
				return true
			}
			return false
		})
		return ctx.nodeOrNull(result)
	}
}

// querySelectorAllFn returns a JS function implementing querySelectorAll.
func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := selectorArg(ctx, call, "querySelectorAll")
		var results []*html.Node
		root.Walk(func(n *html.Node) bool {
			if n != root && matchesAny(n, selectors) {
				results = append(results, n)
			}
			return false
		})
		return ctx.elementArray(results)
	}
}

// matchesFn returns a JS function implementing element.matches(selector).
func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return ctx.vm.ToValue(matchesAny(node, selectorArg(ctx, call, "matches")))
	}
}

// closestFn returns a JS function implementing element.closest(selector).
func closestFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := selectorArg(ctx, call, "closest")
		for cur := node; cur != nil; cur = cur.ParentNode() {
			if matchesAny(cur, selectors) {
				return ctx.elementProxy(cur)
			}
		}
		return goja.Null()
	}
}
