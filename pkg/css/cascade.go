package css

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"csscontexts/pkg/html"
)

// Resolver computes style snapshots for the elements of one document. It
// keeps the parsed stylesheets but no per-element state: every call to
// ComputedStyle runs the cascade again against the current tree.
type Resolver struct {
	sheets   []*Stylesheet
	viewport Viewport
}

// NewResolver parses the author stylesheets. Parse problems are returned
// joined together; the resolver is usable regardless and applies every
// rule that parsed.
func NewResolver(stylesheets []string, vp Viewport) (*Resolver, error) {
	r := &Resolver{viewport: vp}
	var errs []error
	for _, text := range stylesheets {
		sheet, err := ParseStylesheet(text)
		if err != nil {
			errs = append(errs, err)
		}
		r.sheets = append(r.sheets, sheet)
	}
	return r, errors.Join(errs...)
}

// NewDocumentResolver is NewResolver over the stylesheets of doc.
func NewDocumentResolver(doc *html.Document, vp Viewport) (*Resolver, error) {
	return NewResolver(doc.Stylesheets, vp)
}

// Viewport returns the size media queries are evaluated against.
func (r *Resolver) Viewport() Viewport { return r.viewport }

// matchedDeclaration is a declaration together with its cascade sort key.
type matchedDeclaration struct {
	Declaration
	inline      bool
	specificity Specificity
	sheet       int
	order       int
}

func (m matchedDeclaration) less(o matchedDeclaration) bool {
	if m.Important != o.Important {
		return !m.Important
	}
	if m.inline != o.inline {
		return !m.inline
	}
	if m.specificity != o.specificity {
		return m.specificity.Less(o.specificity)
	}
	if m.sheet != o.sheet {
		return m.sheet < o.sheet
	}
	return m.order < o.order
}

// ComputedStyle returns the computed values of the context properties for
// el. Elements that do not come from a parsed document get an empty style.
func (r *Resolver) ComputedStyle(el html.Element) *Style {
	node, ok := el.(*html.Node)
	if !ok || node == nil || node.Type != html.ElementNode || node.IsDocument() {
		return NewStyle()
	}
	return r.compute(node)
}

// compute resolves node after its ancestors. The parent's style is computed
// once per call and shared by inherit and the fixups, so one query costs one
// cascade per ancestor.
func (r *Resolver) compute(node *html.Node) *Style {
	var parent *Style
	if p := node.ParentNode(); p != nil {
		parent = r.compute(p)
	}

	style := NewStyle()
	for prop, val := range InitialValues {
		style.Set(prop, val)
	}
	style.Set(PropDisplay, userAgentDisplay(node.TagName))

	for _, d := range r.cascade(node) {
		apply(style, parent, d)
	}
	fixup(style, node, parent)
	return style
}

// cascade returns the declarations applying to node, lowest precedence first.
func (r *Resolver) cascade(node *html.Node) []matchedDeclaration {
	var matched []matchedDeclaration
	for si, sheet := range r.sheets {
		for _, rule := range sheet.Rules {
			if !EvaluateMediaQuery(rule.Media, r.viewport) {
				continue
			}
			best, ok := bestMatch(node, rule.Selectors)
			if !ok {
				continue
			}
			for _, d := range rule.Declarations {
				matched = append(matched, matchedDeclaration{
					Declaration: d,
					specificity: best,
					sheet:       si,
					order:       rule.Order,
				})
			}
		}
	}

	if attr, ok := node.GetAttribute("style"); ok {
		for i, d := range ParseDeclarations(attr) {
			matched = append(matched, matchedDeclaration{Declaration: d, inline: true, order: i})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].less(matched[j]) })
	return matched
}

// bestMatch returns the highest specificity among the selectors of a rule
// that match node.
func bestMatch(node *html.Node, selectors []Selector) (Specificity, bool) {
	var best Specificity
	found := false
	for _, sel := range selectors {
		if MatchesSelector(node, sel) {
			if !found || best.Less(sel.Specificity) {
				best = sel.Specificity
			}
			found = true
		}
	}
	return best, found
}

// apply stores one declaration, resolving the CSS-wide keywords against
// the parent's computed style. None of the context properties inherit, so
// "unset" means "initial". inherit is only resolved for the properties the
// style carries; anything else is dropped.
func apply(style, parent *Style, d matchedDeclaration) {
	switch strings.ToLower(d.Value) {
	case "initial", "unset", "revert", "revert-layer":
		if initial, ok := InitialValues[d.Property]; ok {
			style.Set(d.Property, initial)
		} else {
			delete(style.Properties, d.Property)
		}
		return
	case "inherit":
		initial, ok := InitialValues[d.Property]
		if !ok {
			delete(style.Properties, d.Property)
			return
		}
		if v, ok := parent.Get(d.Property); ok {
			style.Set(d.Property, v)
		} else {
			style.Set(d.Property, initial)
		}
		return
	}
	style.Set(d.Property, d.Value)
}

// keywordProperties hold a single keyword; their values are lower-cased.
var keywordProperties = []string{
	PropDisplay, PropPosition, PropFloat, PropClear, PropMixBlendMode,
	PropIsolation, PropWebkitOverflowScrolling, PropWillChange, PropContain,
}

// noneProperties take functional values whose case is kept; only a bare
// none keyword is lower-cased.
var noneProperties = []string{
	PropTransform, PropFilter, PropPerspective, PropClipPath,
	PropMask, PropMaskImage, PropMaskBorder,
}

// fixup turns specified values into computed values for the properties the
// classifier reads.
func fixup(style *Style, node *html.Node, parent *Style) {
	for _, prop := range keywordProperties {
		if v, ok := style.Get(prop); ok {
			style.Set(prop, strings.ToLower(v))
		}
	}
	for _, prop := range noneProperties {
		if v, ok := style.Get(prop); ok && strings.EqualFold(strings.TrimSpace(v), "none") {
			style.Set(prop, "none")
		}
	}

	if _, ok := ParsePosition(style.Value(PropPosition)); !ok {
		style.Set(PropPosition, string(PositionStatic))
	}

	if n, ok := parseIntegerValue(style.Value(PropZIndex)); ok {
		style.Set(PropZIndex, strconv.Itoa(n))
	} else {
		style.Set(PropZIndex, "auto")
	}

	if f, ok := ParseOpacity(style.Value(PropOpacity)); ok {
		style.Set(PropOpacity, strconv.FormatFloat(f, 'f', -1, 64))
	} else {
		style.Set(PropOpacity, InitialValues[PropOpacity])
	}

	pos := style.GetPosition()
	outOfFlow := pos == PositionAbsolute || pos == PositionFixed
	if outOfFlow {
		style.Set(PropFloat, string(FloatNone))
	}

	isRoot := node.TagName == "html" && node.ParentNode() == nil
	flexOrGridItem := parent != nil && IsFlexOrGrid(parent.GetDisplay())
	if outOfFlow || isRoot || flexOrGridItem || style.GetFloat() != FloatNone {
		style.Set(PropDisplay, Blockify(style.GetDisplay()))
	}
}

// IsFlexOrGrid reports whether display makes an element a flex or grid
// container.
func IsFlexOrGrid(display string) bool {
	switch display {
	case "flex", "inline-flex", "grid", "inline-grid":
		return true
	}
	return false
}

// Blockify returns the block-level equivalent of a display value.
func Blockify(display string) string {
	switch display {
	case "inline", "inline-block", "run-in",
		"table-row-group", "table-column", "table-column-group",
		"table-header-group", "table-footer-group", "table-row",
		"table-cell", "table-caption", "ruby", "ruby-text":
		return "block"
	case "inline-table":
		return "table"
	case "inline-flex":
		return "flex"
	case "inline-grid":
		return "grid"
	}
	return display
}

// userAgentDisplay is the default display of an element from the user
// agent stylesheet.
func userAgentDisplay(tag string) string {
	switch tag {
	case "html", "body", "div", "p", "section", "article", "header", "footer",
		"nav", "main", "aside", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "dl", "dd", "dt", "menu", "form", "fieldset", "legend",
		"figure", "figcaption", "blockquote", "pre", "address", "hr",
		"details", "summary", "dialog", "hgroup", "center", "search":
		return "block"
	case "li":
		return "list-item"
	case "table":
		return "table"
	case "caption":
		return "table-caption"
	case "thead":
		return "table-header-group"
	case "tbody":
		return "table-row-group"
	case "tfoot":
		return "table-footer-group"
	case "tr":
		return "table-row"
	case "td", "th":
		return "table-cell"
	case "col":
		return "table-column"
	case "colgroup":
		return "table-column-group"
	case "ruby":
		return "ruby"
	case "rt":
		return "ruby-text"
	case "head", "title", "meta", "link", "script", "style", "template",
		"base", "noscript", "param", "datalist":
		return "none"
	}
	return "inline"
}
