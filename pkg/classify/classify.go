// Package classify determines the stacking context and containing block of
// an element from computed-style snapshots of it and its ancestors.
//
// The walks are pure: every decision reads the style query at call time and
// nothing is cached between calls.
package classify

import (
	"strings"

	"csscontexts/pkg/css"
	"csscontexts/pkg/html"
)

// Element is a node of the inspected tree.
type Element = html.Element

// StyleQuery returns the computed style of an element. Properties the
// snapshot does not carry are read as their CSS initial values.
type StyleQuery func(Element) *css.Style

// Options tune engine-dependent behaviour.
type Options struct {
	// FilterContainingBlock makes filter and will-change: filter establish
	// a containing block for fixed and absolute descendants, as Gecko does.
	FilterContainingBlock bool
}

// Classifier resolves contexts against one style source.
type Classifier struct {
	style StyleQuery
	opts  Options
}

// New returns a classifier reading computed styles from style.
func New(style StyleQuery, opts Options) *Classifier {
	return &Classifier{style: style, opts: opts}
}

// Options returns the options the classifier was built with.
func (c *Classifier) Options() Options { return c.opts }

// IsRoot reports whether el is the root sentinel (the <html> element).
func IsRoot(el Element) bool {
	return el != nil && strings.EqualFold(el.NodeName(), "HTML")
}

// Root returns the topmost element above el.
func Root(el Element) Element {
	if el == nil {
		return nil
	}
	for !IsRoot(el) {
		parent := el.ParentElement()
		if parent == nil {
			break
		}
		el = parent
	}
	return el
}

// Ancestors returns el followed by its ancestors, ending at the root.
func Ancestors(el Element) []Element {
	var chain []Element
	for cur := el; cur != nil; cur = cur.ParentElement() {
		chain = append(chain, cur)
		if IsRoot(cur) {
			break
		}
	}
	return chain
}

// value reads prop from the snapshot of el, falling back to the initial value.
func (c *Classifier) value(el Element, prop string) string {
	if v, ok := c.style(el).Get(prop); ok && v != "" {
		return v
	}
	return css.InitialValues[prop]
}

// StackingContext returns the nearest element, el included, that establishes
// a stacking context. The result is never nil for a non-nil el.
func (c *Classifier) StackingContext(el Element) Element {
	for cur := el; cur != nil; {
		if _, ok := c.StackingReason(cur); ok {
			return cur
		}
		parent := cur.ParentElement()
		if parent == nil {
			return cur
		}
		cur = parent
	}
	return nil
}

// ContainingBlock returns the containing block of el. nil means the
// position value was not recognised.
func (c *Classifier) ContainingBlock(el Element) Element {
	if el == nil {
		return nil
	}
	if IsRoot(el) {
		return el
	}
	switch css.PositionType(c.value(el, css.PropPosition)) {
	case css.PositionStatic, css.PositionRelative, css.PositionSticky:
		return c.blockContainer(el)
	case css.PositionAbsolute:
		if cb := c.transformContainer(el); cb != nil {
			return cb
		}
		return c.positionedAncestor(el)
	case css.PositionFixed:
		if cb := c.transformContainer(el); cb != nil {
			return cb
		}
		return Root(el)
	}
	return nil
}

// blockContainer finds the nearest ancestor that is a block container or
// establishes a formatting context. Inline ancestors are passed over
// without further analysis.
func (c *Classifier) blockContainer(el Element) Element {
	cur := el
	for {
		parent := cur.ParentElement()
		if parent == nil {
			return cur
		}
		if IsRoot(parent) || EstablishesBlock(c.value(parent, css.PropDisplay)) {
			return parent
		}
		cur = parent
	}
}

// EstablishesBlock reports whether an element with the given display value
// is a block container or the owner of a new formatting context.
func EstablishesBlock(display string) bool {
	switch {
	case strings.Contains(display, "block"),
		display == "list-item",
		display == "flow-root",
		display == "table-caption",
		display == "table-cell":
		return true
	case display == "table",
		strings.Contains(display, "flex"),
		strings.Contains(display, "grid"),
		display == "ruby":
		return true
	}
	return false
}

// transformContainer finds the nearest ancestor whose transform, perspective
// or will-change (and, with FilterContainingBlock, filter) makes it the
// containing block of positioned descendants. It stops below the root.
func (c *Classifier) transformContainer(el Element) Element {
	for parent := el.ParentElement(); parent != nil && !IsRoot(parent); parent = parent.ParentElement() {
		if c.containsTransformed(parent) {
			return parent
		}
	}
	return nil
}

func (c *Classifier) containsTransformed(el Element) bool {
	if c.value(el, css.PropTransform) != "none" || c.value(el, css.PropPerspective) != "none" {
		return true
	}
	willChange := c.value(el, css.PropWillChange)
	if willChange == "transform" || willChange == "perspective" {
		return true
	}
	if c.opts.FilterContainingBlock {
		return c.value(el, css.PropFilter) != "none" || willChange == "filter"
	}
	return false
}

// positionedAncestor finds the nearest ancestor with a position other than
// static, or the root.
func (c *Classifier) positionedAncestor(el Element) Element {
	cur := el
	for {
		parent := cur.ParentElement()
		if parent == nil {
			return cur
		}
		if IsRoot(parent) || c.value(parent, css.PropPosition) != string(css.PositionStatic) {
			return parent
		}
		cur = parent
	}
}
