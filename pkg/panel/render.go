package panel

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"csscontexts/pkg/classify"
)

// Renderer turns a classification into pane text. A nil result means no
// element is selected.
type Renderer interface {
	Render(res *classify.Result) (string, error)
}

// Unknown is shown for a containing block that could not be determined.
const Unknown = "unknown"

// Record is the serialisable form of a classification, keyed like the
// object the devtools sidebar expression returns.
type Record struct {
	Current                string          `json:"current" yaml:"current"`
	Display                string          `json:"display" yaml:"display"`
	Position               string          `json:"position" yaml:"position"`
	Float                  string          `json:"float" yaml:"float"`
	Clear                  string          `json:"clear" yaml:"clear"`
	ContainingBlock        *string         `json:"containingBlock" yaml:"containingBlock"`
	StackContext           string          `json:"stackContext" yaml:"stackContext"`
	ZIndex                 classify.ZIndex `json:"z-index" yaml:"z-index"`
	CreatesStackingContext bool            `json:"create stack context?" yaml:"create stack context?"`
	StackingReason         string          `json:"stackingReason,omitempty" yaml:"stackingReason,omitempty"`
}

// NewRecord converts res. It returns nil for a nil result.
func NewRecord(res *classify.Result) *Record {
	if res == nil {
		return nil
	}
	rec := &Record{
		Current:                Describe(res.Current),
		Display:                res.Display,
		Position:               res.Position,
		Float:                  res.Float,
		Clear:                  res.Clear,
		StackContext:           Describe(res.StackingContext),
		ZIndex:                 res.ZIndex,
		CreatesStackingContext: res.CreatesStackingContext,
		StackingReason:         string(res.StackingReason),
	}
	if res.ContainingBlock != nil {
		cb := Describe(res.ContainingBlock)
		rec.ContainingBlock = &cb
	}
	return rec
}

// identified is implemented by elements that know their id and classes.
type identified interface {
	ID() string
	Classes() []string
}

// Describe labels an element as tag#id.class.class.
func Describe(el classify.Element) string {
	if el == nil {
		return Unknown
	}
	var sb strings.Builder
	sb.WriteString(strings.ToLower(el.NodeName()))
	if ided, ok := el.(identified); ok {
		if id := ided.ID(); id != "" {
			sb.WriteString("#" + id)
		}
		for _, cls := range ided.Classes() {
			sb.WriteString("." + cls)
		}
	}
	return sb.String()
}

// TextRenderer prints an aligned key/value table.
type TextRenderer struct{}

func (TextRenderer) Render(res *classify.Result) (string, error) {
	rec := NewRecord(res)
	if rec == nil {
		return "no element selected\n", nil
	}
	cb := Unknown
	if rec.ContainingBlock != nil {
		cb = *rec.ContainingBlock
	}
	creates := fmt.Sprint(rec.CreatesStackingContext)
	if rec.StackingReason != "" {
		creates += " (" + rec.StackingReason + ")"
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"current", rec.Current},
		{"display", rec.Display},
		{"position", rec.Position},
		{"float", rec.Float},
		{"clear", rec.Clear},
		{"containingBlock", cb},
		{"stackContext", rec.StackContext},
		{"z-index", rec.ZIndex.String()},
		{"create stack context?", creates},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// JSONRenderer prints the record as indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) Render(res *classify.Result) (string, error) {
	b, err := json.MarshalIndent(NewRecord(res), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(b) + "\n", nil
}

// YAMLRenderer prints the record as YAML.
type YAMLRenderer struct{}

func (YAMLRenderer) Render(res *classify.Result) (string, error) {
	b, err := yaml.Marshal(NewRecord(res))
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(b), nil
}

// RendererFor maps an output format name to its renderer.
func RendererFor(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return TextRenderer{}, nil
	case "json":
		return JSONRenderer{}, nil
	case "yaml", "yml":
		return YAMLRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
