package classify

import "csscontexts/pkg/css"

// Reason names the rule that makes an element establish a stacking context.
type Reason string

const (
	ReasonRoot          Reason = "root element"
	ReasonFixedOrSticky Reason = "position fixed or sticky"
	ReasonPositionedZ   Reason = "positioned with z-index"
	ReasonFlexGridItemZ Reason = "flex or grid item with z-index"
	ReasonOpacity       Reason = "opacity"
	ReasonMixBlendMode  Reason = "mix-blend-mode"
	ReasonEffect        Reason = "transform, filter, perspective, clip-path or mask"
	ReasonIsolation     Reason = "isolation: isolate"
	ReasonOverflowTouch Reason = "-webkit-overflow-scrolling: touch"
	ReasonWillChange    Reason = "will-change"
	ReasonContain       Reason = "contain"
)

// effectProperties establish a stacking context with any value but none.
var effectProperties = []string{
	css.PropTransform, css.PropFilter, css.PropPerspective, css.PropClipPath,
	css.PropMask, css.PropMaskImage, css.PropMaskBorder,
}

// StackingReason reports whether el itself establishes a stacking context,
// and by which rule. Rules are tried in order; the first match wins.
func (c *Classifier) StackingReason(el Element) (Reason, bool) {
	if el == nil {
		return "", false
	}
	if IsRoot(el) {
		return ReasonRoot, true
	}

	position := c.value(el, css.PropPosition)
	if position == string(css.PositionFixed) || position == string(css.PositionSticky) {
		return ReasonFixedOrSticky, true
	}

	zIndex := c.value(el, css.PropZIndex)
	if zIndex != "auto" && position != string(css.PositionStatic) {
		return ReasonPositionedZ, true
	}
	if zIndex != "auto" {
		if parent := el.ParentElement(); parent != nil && css.IsFlexOrGrid(c.value(parent, css.PropDisplay)) {
			return ReasonFlexGridItemZ, true
		}
	}

	if c.value(el, css.PropOpacity) != "1" {
		return ReasonOpacity, true
	}
	if c.value(el, css.PropMixBlendMode) != "normal" {
		return ReasonMixBlendMode, true
	}
	for _, prop := range effectProperties {
		if c.value(el, prop) != "none" {
			return ReasonEffect, true
		}
	}
	if c.value(el, css.PropIsolation) == "isolate" {
		return ReasonIsolation, true
	}
	if c.value(el, css.PropWebkitOverflowScrolling) == "touch" {
		return ReasonOverflowTouch, true
	}

	// will-change and contain match whole computed values only: lists
	// such as "opacity, left" or "size layout" do not count.
	switch c.value(el, css.PropWillChange) {
	case "transform", "opacity":
		return ReasonWillChange, true
	}
	switch c.value(el, css.PropContain) {
	case "layout", "paint", "strict", "content":
		return ReasonContain, true
	}
	return "", false
}
