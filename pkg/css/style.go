package css

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Style is a snapshot of resolved property values for one element. Property
// names are the CSS (kebab-case) names.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

// StyleFromMap builds a Style from a property map, lower-casing the names.
func StyleFromMap(props map[string]string) *Style {
	s := NewStyle()
	for k, v := range props {
		s.Set(k, v)
	}
	return s
}

func (s *Style) Get(property string) (string, bool) {
	if s == nil {
		return "", false
	}
	val, ok := s.Properties[property]
	return val, ok
}

// Value returns the value of property, or "" when it is not set.
func (s *Style) Value(property string) string {
	val, _ := s.Get(property)
	return val
}

func (s *Style) Set(property, value string) {
	s.Properties[strings.ToLower(strings.TrimSpace(property))] = strings.TrimSpace(value)
}

// Keys returns the property names in sorted order.
func (s *Style) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (s *Style) Clone() *Style {
	c := NewStyle()
	if s != nil {
		for k, v := range s.Properties {
			c.Properties[k] = v
		}
	}
	return c
}

// Property names read by the context classifier.
const (
	PropDisplay                 = "display"
	PropPosition                = "position"
	PropFloat                   = "float"
	PropClear                   = "clear"
	PropZIndex                  = "z-index"
	PropOpacity                 = "opacity"
	PropMixBlendMode            = "mix-blend-mode"
	PropTransform               = "transform"
	PropFilter                  = "filter"
	PropPerspective             = "perspective"
	PropClipPath                = "clip-path"
	PropMask                    = "mask"
	PropMaskImage               = "mask-image"
	PropMaskBorder              = "mask-border"
	PropIsolation               = "isolation"
	PropWebkitOverflowScrolling = "-webkit-overflow-scrolling"
	PropWillChange              = "will-change"
	PropContain                 = "contain"
)

// ContextProperties lists every property the classifier consults, in the
// order a chain dump prints them.
var ContextProperties = []string{
	PropDisplay, PropPosition, PropFloat, PropClear, PropZIndex,
	PropOpacity, PropMixBlendMode, PropTransform, PropFilter,
	PropPerspective, PropClipPath, PropMask, PropMaskImage, PropMaskBorder,
	PropIsolation, PropWebkitOverflowScrolling, PropWillChange, PropContain,
}

// InitialValues holds the CSS initial value of each context property.
var InitialValues = map[string]string{
	PropDisplay:                 "inline",
	PropPosition:                "static",
	PropFloat:                   "none",
	PropClear:                   "none",
	PropZIndex:                  "auto",
	PropOpacity:                 "1",
	PropMixBlendMode:            "normal",
	PropTransform:               "none",
	PropFilter:                  "none",
	PropPerspective:             "none",
	PropClipPath:                "none",
	PropMask:                    "none",
	PropMaskImage:               "none",
	PropMaskBorder:              "none",
	PropIsolation:               "auto",
	PropWebkitOverflowScrolling: "auto",
	PropWillChange:              "auto",
	PropContain:                 "none",
}

// PositionType is the value of the position property.
type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
	PositionSticky   PositionType = "sticky"
)

// ParsePosition maps a keyword to a PositionType. ok is false for anything
// that is not a position keyword.
func ParsePosition(val string) (PositionType, bool) {
	switch p := PositionType(strings.ToLower(strings.TrimSpace(val))); p {
	case PositionStatic, PositionRelative, PositionAbsolute, PositionFixed, PositionSticky:
		return p, true
	}
	return "", false
}

// GetPosition returns the position keyword exactly as stored.
func (s *Style) GetPosition() PositionType {
	return PositionType(s.Value(PropPosition))
}

// FloatType represents the float property value
type FloatType string

const (
	FloatNone  FloatType = "none"
	FloatLeft  FloatType = "left"
	FloatRight FloatType = "right"
)

// GetFloat returns the float value (default: none)
func (s *Style) GetFloat() FloatType {
	switch s.Value(PropFloat) {
	case "left", "inline-start":
		return FloatLeft
	case "right", "inline-end":
		return FloatRight
	}
	return FloatNone
}

// GetDisplay returns the display value, "inline" when unset.
func (s *Style) GetDisplay() string {
	if d := s.Value(PropDisplay); d != "" {
		return d
	}
	return InitialValues[PropDisplay]
}

// ParseZIndex parses a z-index with parseInt semantics: leading sign and
// digits are used, the rest is ignored. ok is false for "auto" and for
// values with no leading integer. Values outside the 32-bit range are
// clamped to it, as browsers store z-index as a 32-bit integer.
func ParseZIndex(val string) (int, bool) {
	val = strings.TrimSpace(val)
	end := 0
	if end < len(val) && (val[end] == '-' || val[end] == '+') {
		end++
	}
	digits := end
	for end < len(val) && val[end] >= '0' && val[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	return clampInt32(val[:end]), true
}

// parseIntegerValue accepts a whole CSS <integer> value, such as a declared
// z-index, clamped like ParseZIndex.
func parseIntegerValue(val string) (int, bool) {
	val = strings.TrimSpace(val)
	body := val
	if body != "" && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	if body == "" {
		return 0, false
	}
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return 0, false
		}
	}
	return clampInt32(val), true
}

// clampInt32 converts a signed run of digits, saturating at the int32 range.
func clampInt32(s string) int {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Only a range error is possible here.
		if strings.HasPrefix(s, "-") {
			return math.MinInt32
		}
		return math.MaxInt32
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int(n)
}

// ParseOpacity parses a number or percentage and clamps it to [0, 1].
func ParseOpacity(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	scale := 1.0
	if strings.HasSuffix(val, "%") {
		val = strings.TrimSuffix(val, "%")
		scale = 100
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	f /= scale
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return f, true
}

// Declaration is one property: value pair from a rule or a style attribute.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// ParseDeclarations parses the body of a rule ("a: b; c: d !important").
func ParseDeclarations(body string) []Declaration {
	var decls []Declaration
	for _, part := range splitTopLevel(body, ';') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.IndexByte(part, ':')
		if colon <= 0 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(part[:colon]))
		value := strings.TrimSpace(part[colon+1:])
		important := false
		if i := strings.LastIndexByte(value, '!'); i >= 0 &&
			strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
			important = true
			value = strings.TrimSpace(value[:i])
		}
		if property == "" || value == "" {
			continue
		}
		decls = append(decls, expandShorthand(Declaration{Property: property, Value: value, Important: important})...)
	}
	return decls
}

// ParseInlineStyle parses a style attribute into a Style, ignoring importance.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, d := range ParseDeclarations(styleAttr) {
		style.Set(d.Property, d.Value)
	}
	return style
}

// expandShorthand maps the prefixed and shorthand spellings of context
// properties onto the names the classifier reads.
func expandShorthand(d Declaration) []Declaration {
	switch d.Property {
	case "-webkit-mask":
		d.Property = PropMask
	case "-webkit-mask-image":
		d.Property = PropMaskImage
	case "-webkit-mask-box-image":
		d.Property = PropMaskBorder
	case "-webkit-clip-path":
		d.Property = PropClipPath
	case "-webkit-transform":
		d.Property = PropTransform
	case "-webkit-filter":
		d.Property = PropFilter
	case "-webkit-perspective":
		d.Property = PropPerspective
	case "mask":
		// mask sets mask-image as well: "mask: url(a.svg)" paints a mask.
		return []Declaration{d, {Property: PropMaskImage, Value: d.Value, Important: d.Important}}
	}
	return []Declaration{d}
}

// splitTopLevel splits s on sep, ignoring separators inside parentheses,
// brackets and quoted strings.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
