package css

import (
	"strings"
	"testing"
	"time"

	"csscontexts/pkg/html"
)

// resolve parses markup, resolves the stylesheets and returns the computed
// style of the first element matching selector.
func resolve(t *testing.T, markup, selector string) *Style {
	t.Helper()
	doc, err := html.Parse(markup)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	r, err := NewDocumentResolver(doc, DefaultViewport)
	if err != nil {
		t.Fatalf("stylesheet error: %v", err)
	}
	node, err := QuerySelector(doc.Root, selector)
	if err != nil {
		t.Fatalf("selector error: %v", err)
	}
	if node == nil {
		t.Fatalf("no element matches %q", selector)
	}
	return r.ComputedStyle(node)
}

func TestComputedStyle_InitialValues(t *testing.T) {
	style := resolve(t, `<div id="a"></div>`, "#a")
	for prop, want := range InitialValues {
		if prop == PropDisplay {
			continue
		}
		if got := style.Value(prop); got != want {
			t.Errorf("%s: expected initial %q, got %q", prop, want, got)
		}
	}
	if style.Value(PropDisplay) != "block" {
		t.Errorf("expected div to be block, got %q", style.Value(PropDisplay))
	}
}

func TestComputedStyle_UserAgentDisplay(t *testing.T) {
	tests := []struct {
		markup   string
		selector string
		want     string
	}{
		{`<span id="s"></span>`, "#s", "inline"},
		{`<ul><li id="l"></li></ul>`, "#l", "list-item"},
		{`<table><tr><td id="c"></td></tr></table>`, "#c", "table-cell"},
		{`<table id="t"></table>`, "#t", "table"},
		{`<div></div>`, "html", "block"},
	}
	for _, tt := range tests {
		if got := resolve(t, tt.markup, tt.selector).Value(PropDisplay); got != tt.want {
			t.Errorf("%s: expected display %q, got %q", tt.markup, tt.want, got)
		}
	}
}

func TestComputedStyle_SpecificityOverride(t *testing.T) {
	style := resolve(t, `
		<style>
			div { position: relative; }
			.box { position: absolute; }
			#main { position: fixed; }
			div.box { z-index: 1; }
			.box { z-index: 2; }
		</style>
		<div id="main" class="box"></div>`, "div")
	if got := style.Value(PropPosition); got != "fixed" {
		t.Errorf("expected id rule to win, got %q", got)
	}
	if got := style.Value(PropZIndex); got != "1" {
		t.Errorf("expected div.box (0,1,1) to beat .box (0,1,0), got %q", got)
	}
}

func TestComputedStyle_SourceOrder(t *testing.T) {
	style := resolve(t, `
		<style>.a { opacity: 0.2; }</style>
		<style>.a { opacity: 0.4; }</style>
		<div class="a"></div>`, ".a")
	if got := style.Value(PropOpacity); got != "0.4" {
		t.Errorf("expected later stylesheet to win, got %q", got)
	}
}

func TestComputedStyle_InlineAndImportant(t *testing.T) {
	style := resolve(t, `
		<style>
			#x { isolation: isolate !important; contain: paint; }
		</style>
		<div id="x" style="isolation: auto; contain: layout"></div>`, "#x")
	if got := style.Value(PropIsolation); got != "isolate" {
		t.Errorf("expected !important rule to beat inline style, got %q", got)
	}
	if got := style.Value(PropContain); got != "layout" {
		t.Errorf("expected inline style to beat normal rule, got %q", got)
	}
}

func TestComputedStyle_Normalization(t *testing.T) {
	tests := []struct {
		decl string
		prop string
		want string
	}{
		{"opacity: 1.0", PropOpacity, "1"},
		{"opacity: 50%", PropOpacity, "0.5"},
		{"opacity: 3", PropOpacity, "1"},
		{"opacity: bogus", PropOpacity, "1"},
		{"z-index: +07", PropZIndex, "7"},
		{"z-index: 1.5", PropZIndex, "auto"},
		{"z-index: AUTO", PropZIndex, "auto"},
		{"position: RELATIVE", PropPosition, "relative"},
		{"position: middle", PropPosition, "static"},
		{"-webkit-transform: rotate(4deg)", PropTransform, "rotate(4deg)"},
		{"mask: url(m.svg)", PropMaskImage, "url(m.svg)"},
		{"transform: NONE", PropTransform, "none"},
		{"filter: None", PropFilter, "none"},
		{"clip-path: NONE", PropClipPath, "none"},
		{"perspective: NONE", PropPerspective, "none"},
		{"mask-image: NONE", PropMaskImage, "none"},
		{"transform: rotate(1DEG)", PropTransform, "rotate(1DEG)"},
		{"z-index: 99999999999", PropZIndex, "2147483647"},
		{"z-index: -99999999999999999999999", PropZIndex, "-2147483648"},
	}
	for _, tt := range tests {
		style := resolve(t, `<div id="d" style="`+tt.decl+`"></div>`, "#d")
		if got := style.Value(tt.prop); got != tt.want {
			t.Errorf("%q: expected %s=%q, got %q", tt.decl, tt.prop, tt.want, got)
		}
	}
}

func TestComputedStyle_Blockification(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
		float  string
	}{
		{"float", `<span id="t" style="float: left"></span>`, "block", "left"},
		{"absolute", `<span id="t" style="position: absolute; float: right"></span>`, "block", "none"},
		{"fixed inline-flex", `<span id="t" style="position: fixed; display: inline-flex"></span>`, "flex", "none"},
		{"flex item", `<div style="display: flex"><span id="t"></span></div>`, "block", "none"},
		{"grid item", `<div style="display: inline-grid"><span id="t" style="display: inline-table"></span></div>`, "table", "none"},
		{"plain inline", `<div><span id="t"></span></div>`, "inline", "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := resolve(t, tt.markup, "#t")
			if got := style.Value(PropDisplay); got != tt.want {
				t.Errorf("expected display %q, got %q", tt.want, got)
			}
			if got := style.Value(PropFloat); got != tt.float {
				t.Errorf("expected float %q, got %q", tt.float, got)
			}
		})
	}
}

func TestComputedStyle_CSSWideKeywords(t *testing.T) {
	style := resolve(t, `
		<style>
			.p { position: relative; }
			.c { position: absolute; }
			.c { position: inherit; }
			.c { transform: rotate(1deg); transform: unset; }
		</style>
		<div class="p"><div class="c"></div></div>`, ".c")
	if got := style.Value(PropPosition); got != "relative" {
		t.Errorf("expected inherited position, got %q", got)
	}
	if got := style.Value(PropTransform); got != "none" {
		t.Errorf("expected unset transform to be none, got %q", got)
	}
}

func TestComputedStyle_InheritOnlyContextProperties(t *testing.T) {
	style := resolve(t, `
		<style>
			.p { box-sizing: border-box; opacity: 0.5; }
			.c { box-sizing: inherit; opacity: inherit; }
		</style>
		<div class="p"><div class="c"></div></div>`, ".c")
	if got := style.Value(PropOpacity); got != "0.5" {
		t.Errorf("expected inherited opacity, got %q", got)
	}
	if _, ok := style.Get("box-sizing"); ok {
		t.Errorf("box-sizing is not a context property and should not be resolved")
	}
}

func TestComputedStyle_DeepTreeWithInherit(t *testing.T) {
	const depth = 40
	markup := `<style>* { box-sizing: inherit; } div { opacity: inherit; position: inherit; }</style>` +
		`<div id="top" style="opacity: 0.25; position: relative">` +
		strings.Repeat("<div>", depth) + `<span id="leaf">x</span>` + strings.Repeat("</div>", depth) +
		`</div>`
	doc, err := html.Parse(markup)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	r, err := NewDocumentResolver(doc, DefaultViewport)
	if err != nil {
		t.Fatalf("stylesheet error: %v", err)
	}
	leaf, _ := QuerySelector(doc.Root, "#leaf")
	if leaf == nil {
		t.Fatal("no #leaf element")
	}

	done := make(chan [2]*Style, 1)
	go func() { done <- [2]*Style{r.ComputedStyle(leaf), r.ComputedStyle(leaf.ParentNode())} }()
	select {
	case styles := <-done:
		leafStyle, parent := styles[0], styles[1]
		// span matches no div rule, so it keeps the initial opacity.
		if got := leafStyle.Value(PropOpacity); got != "1" {
			t.Errorf("expected span opacity 1, got %q", got)
		}
		if got := parent.Value(PropOpacity); got != "0.25" {
			t.Errorf("expected opacity inherited %d levels down, got %q", depth, got)
		}
		if got := parent.Value(PropPosition); got != "relative" {
			t.Errorf("expected position inherited %d levels down, got %q", depth, got)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("computed style of a deep tree did not finish")
	}
}

func TestComputedStyle_MediaQueries(t *testing.T) {
	markup := `
		<style>
			@media (min-width: 1000px) { #m { position: relative; } }
			@media print { #m { position: fixed; } }
		</style>
		<div id="m"></div>`
	doc, err := html.Parse(markup)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	node, _ := QuerySelector(doc.Root, "#m")

	wide, _ := NewDocumentResolver(doc, Viewport{Width: 1200, Height: 800})
	if got := wide.ComputedStyle(node).Value(PropPosition); got != "relative" {
		t.Errorf("wide viewport: expected relative, got %q", got)
	}
	narrow, _ := NewDocumentResolver(doc, Viewport{Width: 600, Height: 800})
	if got := narrow.ComputedStyle(node).Value(PropPosition); got != "static" {
		t.Errorf("narrow viewport: expected static, got %q", got)
	}
}

func TestComputedStyle_ReflectsTreeChanges(t *testing.T) {
	doc, _ := html.Parse(`<div id="a"></div>`)
	r, _ := NewDocumentResolver(doc, DefaultViewport)
	node, _ := QuerySelector(doc.Root, "#a")

	if got := r.ComputedStyle(node).Value(PropPosition); got != "static" {
		t.Fatalf("expected static, got %q", got)
	}
	node.Attributes["style"] = "position: sticky"
	if got := r.ComputedStyle(node).Value(PropPosition); got != "sticky" {
		t.Errorf("expected a fresh query to see the new style, got %q", got)
	}
}

func TestComputedStyle_NonDocumentElement(t *testing.T) {
	r, _ := NewResolver(nil, DefaultViewport)
	if style := r.ComputedStyle(nil); len(style.Properties) != 0 {
		t.Errorf("expected empty style for nil element, got %v", style.Properties)
	}
}
