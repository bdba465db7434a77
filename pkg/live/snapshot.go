package live

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/css"
	"csscontexts/pkg/html"
)

// ErrNotFound is returned when the selector matches nothing on the page.
var ErrNotFound = errors.New("live: element not found")

// Element is one element of a captured ancestor chain, together with the
// computed values the browser reported for it.
type Element struct {
	Name      string            `json:"nodeName"`
	IDAttr    string            `json:"id"`
	ClassList []string          `json:"classes"`
	Computed  map[string]string `json:"style"`

	parent *Element
}

func (e *Element) NodeName() string { return strings.ToUpper(e.Name) }

func (e *Element) ParentElement() html.Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) ID() string        { return e.IDAttr }
func (e *Element) Classes() []string { return e.ClassList }

// Snapshot is the ancestor chain of one inspected element, root first.
type Snapshot struct {
	URL       string     `json:"url"`
	UserAgent string     `json:"userAgent"`
	Chain     []*Element `json:"chain"`
}

// Target returns the inspected element, the last link of the chain.
func (s *Snapshot) Target() *Element {
	if len(s.Chain) == 0 {
		return nil
	}
	return s.Chain[len(s.Chain)-1]
}

// Style is the classify.StyleQuery over the captured values. Elements
// outside the snapshot have an empty style.
func (s *Snapshot) Style(el classify.Element) *css.Style {
	le, ok := el.(*Element)
	if !ok || le == nil {
		return css.NewStyle()
	}
	return css.StyleFromMap(le.Computed)
}

// Options derives engine-specific classifier options from the browser
// that produced the snapshot.
func (s *Snapshot) Options() classify.Options {
	return classify.Options{
		FilterContainingBlock: strings.Contains(strings.ToLower(s.UserAgent), "firefox"),
	}
}

// Classifier is a classifier over this snapshot.
func (s *Snapshot) Classifier() *classify.Classifier {
	return classify.New(s.Style, s.Options())
}

// DecodeSnapshot parses the payload produced by the capture script and links
// every element to its parent. A null chain means the selector matched
// nothing.
func DecodeSnapshot(payload []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, errors.Wrap(err, "live: decoding snapshot")
	}
	if len(s.Chain) == 0 {
		return nil, ErrNotFound
	}
	for i, el := range s.Chain {
		if el == nil {
			return nil, errors.Errorf("live: snapshot has an empty element at %d", i)
		}
		if i > 0 {
			el.parent = s.Chain[i-1]
		}
	}
	return &s, nil
}
