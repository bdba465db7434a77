package classify

import (
	"encoding/json"
	"strconv"

	"csscontexts/pkg/css"
)

// ZIndex is a computed z-index: either auto or an integer.
type ZIndex struct {
	Auto  bool
	Value int
}

// ParseZIndex reads a computed z-index the way parseInt does: the leading
// integer counts, anything unparsable is auto.
func ParseZIndex(v string) ZIndex {
	if v == "auto" {
		return ZIndex{Auto: true}
	}
	n, ok := css.ParseZIndex(v)
	if !ok {
		return ZIndex{Auto: true}
	}
	return ZIndex{Value: n}
}

func (z ZIndex) String() string {
	if z.Auto {
		return "auto"
	}
	return strconv.Itoa(z.Value)
}

// MarshalJSON encodes auto as the string "auto" and integers as numbers.
func (z ZIndex) MarshalJSON() ([]byte, error) {
	if z.Auto {
		return json.Marshal("auto")
	}
	return json.Marshal(z.Value)
}

func (z ZIndex) MarshalYAML() (interface{}, error) {
	if z.Auto {
		return "auto", nil
	}
	return z.Value, nil
}

// Result is the classification of one element.
type Result struct {
	Current  Element
	Display  string
	Position string
	Float    string
	Clear    string

	// ContainingBlock is nil when the position value was not recognised.
	ContainingBlock Element

	// StackingContext is the context the element paints in. An element that
	// establishes its own context still participates in its parent's.
	StackingContext Element

	ZIndex                 ZIndex
	CreatesStackingContext bool

	// StackingReason is set when CreatesStackingContext is true.
	StackingReason Reason
}

// Classify computes the Result for el. It returns nil for a nil element.
func (c *Classifier) Classify(el Element) *Result {
	if el == nil {
		return nil
	}

	reason, creates := c.StackingReason(el)
	stacking := c.StackingContext(el)
	if creates && !IsRoot(el) {
		if parent := el.ParentElement(); parent != nil {
			stacking = c.StackingContext(parent)
		}
	}

	res := &Result{
		Current:                el,
		Display:                c.value(el, css.PropDisplay),
		Position:               c.value(el, css.PropPosition),
		Float:                  c.value(el, css.PropFloat),
		Clear:                  c.value(el, css.PropClear),
		ContainingBlock:        c.ContainingBlock(el),
		StackingContext:        stacking,
		ZIndex:                 ParseZIndex(c.value(el, css.PropZIndex)),
		CreatesStackingContext: creates,
		StackingReason:         reason,
	}
	return res
}
