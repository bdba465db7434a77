package js

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/css"
	"csscontexts/pkg/html"
)

const page = `<html><head><style>
  #b { position: relative; }
  #d { position: absolute; }
  .flex { display: flex; }
  .raised { z-index: 2; }
</style></head>
<body>
  <div id="b"><div id="c"><div id="d">target</div></div></div>
  <div class="flex"><span id="item" class="raised">x</span></div>
  <ul><li id="one">1</li><li id="two">2</li></ul>
</body></html>`

func newEngine(t *testing.T, markup string) (*Engine, *html.Document, *test.Hook) {
	t.Helper()
	doc, err := html.Parse(markup)
	require.NoError(t, err)
	resolver, err := css.NewDocumentResolver(doc, css.DefaultViewport)
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return New(doc, resolver.ComputedStyle, classify.Options{}, logger), doc, hook
}

func byID(t *testing.T, doc *html.Document, id string) *html.Node {
	t.Helper()
	n, err := css.QuerySelector(doc.Root, "#"+id)
	require.NoError(t, err)
	require.NotNil(t, n)
	return n
}

func TestDocumentQueries(t *testing.T) {
	e, doc, _ := newEngine(t, page)

	v, err := e.Eval(`document.querySelector("#c").nodeName`)
	require.NoError(t, err)
	assert.Equal(t, "DIV", v)

	v, err = e.Eval(`document.querySelectorAll("li").length`)
	require.NoError(t, err)
	assert.EqualValues(t, 2, v)

	v, err = e.Eval(`document.getElementById("d")`)
	require.NoError(t, err)
	assert.Same(t, byID(t, doc, "d"), v)

	v, err = e.Eval(`document.getElementById("missing")`)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = e.Eval(`document.documentElement.nodeName + "/" + document.body.tagName`)
	require.NoError(t, err)
	assert.Equal(t, "HTML/BODY", v)

	v, err = e.Eval(`document.getElementsByTagName("div").length`)
	require.NoError(t, err)
	assert.EqualValues(t, 4, v)
}

func TestElementProxy(t *testing.T) {
	e, _, _ := newEngine(t, page)

	v, err := e.Eval(`
		var one = document.getElementById("one");
		[one.parentElement.tagName, one.nextElementSibling.id,
		 one.previousElementSibling === null, one.parentElement.childElementCount,
		 one.closest("ul") === one.parentElement, one.matches("li#one"),
		 document.body.contains(one), one === document.querySelector("li")]
	`)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"UL", "two", true, int64(2), true, true, true, true}, v)

	_, err = e.Eval(`document.querySelector("div >")`)
	assert.Error(t, err)
}

func TestSelectionBinding(t *testing.T) {
	e, doc, _ := newEngine(t, page)

	v, err := e.Eval(`$0`)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = e.Eval(`cssContext()`)
	require.NoError(t, err)
	assert.Nil(t, v)

	d := byID(t, doc, "d")
	e.Select(d)
	assert.Same(t, d, e.Selected())

	v, err = e.Eval(`$0.id`)
	require.NoError(t, err)
	assert.Equal(t, "d", v)
}

func TestCSSContext(t *testing.T) {
	e, doc, _ := newEngine(t, page)
	e.Select(byID(t, doc, "d"))

	v, err := e.Eval(`cssContext()`)
	require.NoError(t, err)
	res, ok := v.(map[string]interface{})
	require.True(t, ok, "got %T", v)

	assert.Same(t, byID(t, doc, "d"), res["current"])
	assert.Equal(t, "block", res["display"])
	assert.Equal(t, "absolute", res["position"])
	assert.Equal(t, "none", res["float"])
	assert.Equal(t, "none", res["clear"])
	assert.Same(t, byID(t, doc, "b"), res["containingBlock"])
	assert.Same(t, doc.DocumentElement(), res["stackContext"])
	assert.Equal(t, "auto", res["z-index"])
	assert.Equal(t, false, res["create stack context?"])
}

func TestCSSContextFlexItem(t *testing.T) {
	e, doc, _ := newEngine(t, page)
	e.Select(byID(t, doc, "item"))

	v, err := e.Eval(`var r = cssContext(); [r["z-index"], r["create stack context?"], r.stackContext.nodeName]`)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(2), true, "HTML"}, v)

	res := e.CSSContext()
	require.NotNil(t, res)
	assert.Equal(t, classify.ReasonFlexGridItemZ, res.StackingReason)
}

func TestInlineStyleEditsAreSeen(t *testing.T) {
	e, doc, _ := newEngine(t, page)
	e.Select(byID(t, doc, "c"))

	v, err := e.Eval(`
		var before = cssContext()["create stack context?"];
		$0.style.opacity = "0.5";
		[before, $0.style.opacity, cssContext()["create stack context?"], $0.getAttribute("style")]
	`)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{false, "0.5", true, "opacity: 0.5"}, v)
}

func TestGetComputedStyle(t *testing.T) {
	e, doc, _ := newEngine(t, page)
	e.Select(byID(t, doc, "item"))

	v, err := e.Eval(`
		var cs = window.getComputedStyle($0);
		[cs.zIndex, cs.display, cs.cssFloat, cs.getPropertyValue("mix-blend-mode"),
		 cs.webkitOverflowScrolling, cs["z-index"]]
	`)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"2", "block", "none", "normal", "auto", "2"}, v)

	_, err = e.Eval(`getComputedStyle(null)`)
	assert.Error(t, err)

	_, err = e.Eval(`getComputedStyle($0).zIndex = "3"`)
	assert.Error(t, err)
}

func TestConsoleUsesLogger(t *testing.T) {
	e, _, hook := newEngine(t, page)

	_, err := e.Eval(`console.log("hello", 1); console.warn("careful"); console.error("bad")`)
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "hello 1", entries[0].Message)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "console", entries[0].Data["source"])
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, logrus.ErrorLevel, entries[2].Level)
}

func TestExecuteScripts(t *testing.T) {
	e, doc, hook := newEngine(t, `<div id="x"></div><script>
		document.getElementById("x").className = "done";
		console.info(document.getElementById("x").className);
	</script>`)

	require.NoError(t, e.Execute())
	cls, _ := byID(t, doc, "x").GetAttribute("class")
	assert.Equal(t, "done", cls)
	assert.Equal(t, "done", hook.LastEntry().Message)
}

func TestExecuteReportsScriptIndex(t *testing.T) {
	e, _, _ := newEngine(t, `<script>var a = 1;</script><script>throw new Error("boom")</script>`)
	err := e.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script 1")
}

func TestCamelKebab(t *testing.T) {
	tests := map[string]string{
		"zIndex":                  "z-index",
		"cssFloat":                "float",
		"webkitOverflowScrolling": "-webkit-overflow-scrolling",
		"mixBlendMode":            "mix-blend-mode",
		"mask-border":             "mask-border",
		"opacity":                 "opacity",
	}
	for camel, kebab := range tests {
		assert.Equal(t, kebab, camelToKebab(camel), camel)
	}
	assert.Equal(t, "webkitOverflowScrolling", kebabToCamel("-webkit-overflow-scrolling"))
	assert.Equal(t, "cssFloat", kebabToCamel("float"))
}
