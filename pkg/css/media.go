package css

import (
	"strconv"
	"strings"
)

// Viewport is the size media queries are evaluated against.
type Viewport struct {
	Width  float64
	Height float64
}

// DefaultViewport matches a common desktop window.
var DefaultViewport = Viewport{Width: 1280, Height: 720}

// EvaluateMediaQuery reports whether a media condition applies to a screen
// of the given viewport. An empty query always applies. Comma-separated
// queries are alternatives; unknown features make a query false.
func EvaluateMediaQuery(query string, vp Viewport) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	for _, q := range splitTopLevel(query, ',') {
		if evaluateSingleQuery(strings.ToLower(strings.TrimSpace(q)), vp) {
			return true
		}
	}
	return false
}

func evaluateSingleQuery(q string, vp Viewport) bool {
	negate := false
	if strings.HasPrefix(q, "not ") {
		negate = true
		q = strings.TrimPrefix(q, "not ")
	}
	q = strings.TrimPrefix(q, "only ")

	result := true
	for _, term := range strings.Split(q, " and ") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if !evaluateTerm(term, vp) {
			result = false
			break
		}
	}
	if negate {
		return !result
	}
	return result
}

func evaluateTerm(term string, vp Viewport) bool {
	switch term {
	case "all", "screen":
		return true
	case "print", "speech":
		return false
	}
	if !strings.HasPrefix(term, "(") || !strings.HasSuffix(term, ")") {
		return false
	}
	feature := strings.TrimSpace(term[1 : len(term)-1])
	colon := strings.IndexByte(feature, ':')
	if colon < 0 {
		// Boolean features such as (color) or (hover).
		return feature == "color" || feature == "hover" || feature == "pointer"
	}
	name := strings.TrimSpace(feature[:colon])
	value := strings.TrimSpace(feature[colon+1:])

	switch name {
	case "orientation":
		if vp.Height >= vp.Width {
			return value == "portrait"
		}
		return value == "landscape"
	case "prefers-reduced-motion", "prefers-color-scheme":
		return value == "no-preference" || value == "light"
	}

	px, ok := parseMediaLength(value)
	if !ok {
		return false
	}
	switch name {
	case "min-width":
		return vp.Width >= px
	case "max-width":
		return vp.Width <= px
	case "width":
		return vp.Width == px
	case "min-height":
		return vp.Height >= px
	case "max-height":
		return vp.Height <= px
	case "height":
		return vp.Height == px
	}
	return false
}

// parseMediaLength converts px, em and rem lengths to pixels.
func parseMediaLength(v string) (float64, bool) {
	scale := 1.0
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "rem"):
		v = strings.TrimSuffix(v, "rem")
		scale = 16
	case strings.HasSuffix(v, "em"):
		v = strings.TrimSuffix(v, "em")
		scale = 16
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f * scale, true
}
