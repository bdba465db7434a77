package js

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/html"
)

// Engine evaluates JavaScript against a parsed document, the way a
// devtools sidebar expression runs in the inspected page: `$0` is the
// selected element and cssContext() classifies it.
type Engine struct {
	vm         *goja.Runtime
	dom        *domContext
	styles     classify.StyleQuery
	classifier *classify.Classifier
	selected   *html.Node
}

// New creates an engine bound to doc. styles answers getComputedStyle and
// feeds the classifier behind cssContext().
func New(doc *html.Document, styles classify.StyleQuery, opts classify.Options, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	vm := goja.New()
	e := &Engine{
		vm:         vm,
		styles:     styles,
		classifier: classify.New(styles, opts),
	}

	c := &consoleAPI{log: log.WithField("source", "console")}
	c.register(vm)

	e.dom = registerDocument(vm, doc)
	e.registerWindow()
	e.registerSelection()
	return e
}

// Select binds `$0`. Elements that are not part of the engine's document
// bind null.
func (e *Engine) Select(el html.Element) {
	node, _ := el.(*html.Node)
	e.selected = node
}

// Selected returns the element bound to `$0`, or nil.
func (e *Engine) Selected() *html.Node { return e.selected }

// Execute runs the document's scripts in order.
func (e *Engine) Execute() error {
	for i, script := range e.dom.doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Eval evaluates src and returns the result as Go values: element proxies
// become *html.Node, arrays []interface{}, objects map[string]interface{}.
func (e *Engine) Eval(src string) (interface{}, error) {
	v, err := e.vm.RunString(src)
	if err != nil {
		return nil, fmt.Errorf("eval: %w", err)
	}
	return e.export(v), nil
}

// CSSContext is cssContext() without the round trip through JavaScript.
func (e *Engine) CSSContext() *classify.Result {
	if e.selected == nil {
		return nil
	}
	return e.classifier.Classify(e.selected)
}

func (e *Engine) registerSelection() {
	e.vm.Set("cssContext", func(call goja.FunctionCall) goja.Value {
		return e.resultObject(e.CSSContext())
	})
	global := e.vm.GlobalObject()
	err := global.DefineAccessorProperty("$0", e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return e.nodeValue(e.selected)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	if err != nil {
		panic(err)
	}
}

// resultObject builds the object cssContext() returns.
func (e *Engine) resultObject(res *classify.Result) goja.Value {
	if res == nil {
		return goja.Null()
	}
	obj := e.vm.NewObject()
	obj.Set("current", e.elementValue(res.Current))
	obj.Set("display", res.Display)
	obj.Set("position", res.Position)
	obj.Set("float", res.Float)
	obj.Set("clear", res.Clear)
	obj.Set("containingBlock", e.elementValue(res.ContainingBlock))
	obj.Set("stackContext", e.elementValue(res.StackingContext))
	if res.ZIndex.Auto {
		obj.Set("z-index", "auto")
	} else {
		obj.Set("z-index", res.ZIndex.Value)
	}
	obj.Set("create stack context?", res.CreatesStackingContext)
	return obj
}

func (e *Engine) elementValue(el classify.Element) goja.Value {
	node, _ := el.(*html.Node)
	return e.nodeValue(node)
}

func (e *Engine) nodeValue(node *html.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	return e.dom.elementProxy(node)
}

// export converts a JS value to Go, keeping element identity.
func (e *Engine) export(v goja.Value) interface{} {
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}
	if node := e.dom.unwrapNode(obj); node != nil {
		return node
	}
	switch obj.ClassName() {
	case "Array":
		length := int(obj.Get("length").ToInteger())
		out := make([]interface{}, length)
		for i := range out {
			out[i] = e.export(obj.Get(fmt.Sprint(i)))
		}
		return out
	case "Object":
		out := make(map[string]interface{})
		for _, key := range obj.Keys() {
			out[key] = e.export(obj.Get(key))
		}
		return out
	}
	return obj.Export()
}
