package css

import "testing"

func TestParseZIndex(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"auto", 0, false},
		{"", 0, false},
		{"0", 0, true},
		{"2", 2, true},
		{"-3", -3, true},
		{"+4", 4, true},
		{"3.7", 3, true},
		{" 12px", 12, true},
		{"x1", 0, false},
		{"-", 0, false},
		{"2147483647", 2147483647, true},
		{"2147483648", 2147483647, true},
		{"99999999999999999999999", 2147483647, true},
		{"-99999999999999999999999", -2147483648, true},
		{"-2147483649.5", -2147483648, true},
	}
	for _, tt := range tests {
		got, ok := ParseZIndex(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseZIndex(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParsePosition(t *testing.T) {
	for _, v := range []string{"static", "relative", "absolute", "fixed", "sticky", " Sticky "} {
		if _, ok := ParsePosition(v); !ok {
			t.Errorf("expected %q to be a position", v)
		}
	}
	for _, v := range []string{"", "-webkit-sticky", "center"} {
		if _, ok := ParsePosition(v); ok {
			t.Errorf("expected %q to be rejected", v)
		}
	}
}

func TestParseInlineStyle(t *testing.T) {
	style := ParseInlineStyle(`Position: absolute; background: url("a;b.png"); ; bogus; will-change: transform !important`)
	if got := style.Value("position"); got != "absolute" {
		t.Errorf("expected lower-cased property, got position=%q", got)
	}
	if got := style.Value("background"); got != `url("a;b.png")` {
		t.Errorf("semicolon inside a string split the declaration: %q", got)
	}
	if got := style.Value("will-change"); got != "transform" {
		t.Errorf("expected !important to be stripped, got %q", got)
	}
	if _, ok := style.Get("bogus"); ok {
		t.Error("declaration without a colon should be dropped")
	}
}

func TestStyleNilSafe(t *testing.T) {
	var s *Style
	if s.Value("position") != "" {
		t.Error("nil style should report empty values")
	}
	if len(s.Keys()) != 0 {
		t.Error("nil style has no keys")
	}
	if len(s.Clone().Properties) != 0 {
		t.Error("clone of nil style should be empty")
	}
}

func TestBlockify(t *testing.T) {
	tests := map[string]string{
		"inline":       "block",
		"inline-block": "block",
		"inline-flex":  "flex",
		"inline-grid":  "grid",
		"inline-table": "table",
		"list-item":    "list-item",
		"none":         "none",
		"flow-root":    "flow-root",
	}
	for in, want := range tests {
		if got := Blockify(in); got != want {
			t.Errorf("Blockify(%q) = %q, want %q", in, got, want)
		}
	}
}
