package js

import (
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"csscontexts/pkg/css"
	"csscontexts/pkg/html"
)

// domContext holds shared state for DOM bindings within a single engine.
// It maintains a node-to-proxy cache so the same JS object is returned for
// the same underlying *html.Node (needed for === identity checks).
type domContext struct {
	vm    *goja.Runtime
	doc   *html.Document
	cache map[*html.Node]goja.Value
}

func newDOMContext(vm *goja.Runtime, doc *html.Document) *domContext {
	return &domContext{
		vm:    vm,
		doc:   doc,
		cache: make(map[*html.Node]goja.Value),
	}
}

// registerDocument sets up the global `document` object on the goja runtime.
func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := newDOMContext(vm, doc)

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		id := call.Arguments[0].String()
		var found *html.Node
		doc.Root.Walk(func(n *html.Node) bool {
			if n.ID() == id {
				found = n
				return true
			}
			return false
		})
		return ctx.nodeOrNull(found)
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		tag := strings.ToLower(call.Arguments[0].String())
		var nodes []*html.Node
		doc.Root.Walk(func(n *html.Node) bool {
			if tag == "*" || n.TagName == tag {
				nodes = append(nodes, n)
			}
			return false
		})
		return ctx.elementArray(nodes)
	})
	registerQuerySelectors(ctx, docObj, doc.Root)

	docObj.DefineAccessorProperty("documentElement", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.nodeOrNull(doc.DocumentElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	docObj.DefineAccessorProperty("body", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.nodeOrNull(doc.Body())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	vm.Set("document", docObj)
	return ctx
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	values := make([]interface{}, len(nodes))
	for i, n := range nodes {
		values[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(values...)
}

func (ctx *domContext) nodeOrNull(node *html.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	return ctx.elementProxy(node)
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject wrapping an html.Node.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode extracts the *html.Node behind an element proxy, or nil.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

// elementProperties are the keys element proxies expose.
var elementProperties = []string{
	"nodeType", "nodeName", "tagName", "id", "className", "textContent",
	"getAttribute", "hasAttribute", "setAttribute", "removeAttribute",
	"parentElement", "children", "childElementCount",
	"firstElementChild", "lastElementChild",
	"previousElementSibling", "nextElementSibling",
	"querySelector", "querySelectorAll", "matches", "closest", "contains",
	"style",
}

// elementAccessor implements goja.DynamicObject to intercept property access
// on DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	n := e.node

	switch key {
	case "nodeType":
		if n.Type == html.TextNode {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "nodeName":
		return vm.ToValue(n.NodeName())
	case "tagName":
		if n.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(n.NodeName())
	case "id":
		return vm.ToValue(n.ID())
	case "className":
		cls, _ := n.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := n.GetAttribute(strings.ToLower(call.Arguments[0].String()))
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := n.GetAttribute(strings.ToLower(call.Arguments[0].String()))
			return vm.ToValue(ok)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'setAttribute': 2 arguments required"))
			}
			e.setAttr(strings.ToLower(call.Arguments[0].String()), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 && n.Attributes != nil {
				delete(n.Attributes, strings.ToLower(call.Arguments[0].String()))
			}
			return goja.Undefined()
		})
	case "parentElement":
		return e.ctx.nodeOrNull(n.ParentNode())
	case "children":
		return e.ctx.elementArray(n.ElementChildren())
	case "childElementCount":
		return vm.ToValue(len(n.ElementChildren()))
	case "firstElementChild":
		if kids := n.ElementChildren(); len(kids) > 0 {
			return e.ctx.elementProxy(kids[0])
		}
		return goja.Null()
	case "lastElementChild":
		if kids := n.ElementChildren(); len(kids) > 0 {
			return e.ctx.elementProxy(kids[len(kids)-1])
		}
		return goja.Null()
	case "previousElementSibling":
		return e.ctx.nodeOrNull(siblingElement(n, -1))
	case "nextElementSibling":
		return e.ctx.nodeOrNull(siblingElement(n, 1))
	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, n))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, n))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, n))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, n))
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			other := e.ctx.unwrapNode(call.Arguments[0])
			return vm.ToValue(other != nil && n.Contains(other))
		})
	case "style":
		return vm.NewDynamicObject(&inlineStyleAccessor{vm: vm, node: n})
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "className":
		e.setAttr("class", val.String())
		return true
	case "id":
		e.setAttr("id", val.String())
		return true
	}
	return false
}

func (e *elementAccessor) setAttr(name, value string) {
	if e.node.Attributes == nil {
		e.node.Attributes = make(map[string]string)
	}
	e.node.Attributes[name] = value
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementProperties {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return elementProperties
}

// siblingElement returns the element sibling dir steps away (dir is -1 or 1).
func siblingElement(n *html.Node, dir int) *html.Node {
	if n.Parent == nil {
		return nil
	}
	kids := n.Parent.ElementChildren()
	for i, k := range kids {
		if k == n {
			if j := i + dir; j >= 0 && j < len(kids) {
				return kids[j]
			}
			return nil
		}
	}
	return nil
}

// inlineStyleAccessor maps camelCase property access to the element's
// inline style attribute. Writes go back to the attribute, so the next
// computed style query sees them.
type inlineStyleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *inlineStyleAccessor) declarations() *css.Style {
	attr, _ := s.node.GetAttribute("style")
	return css.ParseInlineStyle(attr)
}

func (s *inlineStyleAccessor) Get(key string) goja.Value {
	if key == "cssText" {
		attr, _ := s.node.GetAttribute("style")
		return s.vm.ToValue(attr)
	}
	return s.vm.ToValue(s.declarations().Value(camelToKebab(key)))
}

func (s *inlineStyleAccessor) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.write(css.ParseInlineStyle(val.String()))
		return true
	}
	style := s.declarations()
	prop := camelToKebab(key)
	if v := val.String(); v == "" {
		delete(style.Properties, prop)
	} else {
		style.Set(prop, v)
	}
	s.write(style)
	return true
}

func (s *inlineStyleAccessor) Has(key string) bool {
	return true
}

func (s *inlineStyleAccessor) Delete(key string) bool {
	style := s.declarations()
	delete(style.Properties, camelToKebab(key))
	s.write(style)
	return true
}

func (s *inlineStyleAccessor) Keys() []string {
	return s.declarations().Keys()
}

func (s *inlineStyleAccessor) write(style *css.Style) {
	keys := style.Keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+style.Value(k))
	}
	if s.node.Attributes == nil {
		s.node.Attributes = make(map[string]string)
	}
	s.node.Attributes["style"] = strings.Join(parts, "; ")
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
// Vendor prefixes gain their leading dash: webkitMaskImage is
// -webkit-mask-image.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	if strings.Contains(s, "-") {
		return strings.ToLower(s)
	}
	var sb strings.Builder
	for _, prefix := range []string{"webkit", "moz", "ms"} {
		if len(s) > len(prefix) && strings.HasPrefix(s, prefix) && unicode.IsUpper(rune(s[len(prefix)])) {
			sb.WriteByte('-')
			break
		}
	}
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// kebabToCamel is the inverse of camelToKebab, used to list property keys.
func kebabToCamel(s string) string {
	if s == "float" {
		return "cssFloat"
	}
	s = strings.TrimPrefix(s, "-")
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
