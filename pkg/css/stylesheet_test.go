package css

import "testing"

func TestParseStylesheet_SimpleRule(t *testing.T) {
	sheet, err := ParseStylesheet(`div { position: relative; z-index: 3; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	rule := sheet.Rules[0]
	if len(rule.Selectors) != 1 || rule.Selectors[0].Raw != "div" {
		t.Errorf("unexpected selectors %+v", rule.Selectors)
	}
	if len(rule.Declarations) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(rule.Declarations))
	}
	if rule.Declarations[1].Property != "z-index" || rule.Declarations[1].Value != "3" {
		t.Errorf("unexpected declaration %+v", rule.Declarations[1])
	}
}

func TestParseStylesheet_SelectorGroupAndOrder(t *testing.T) {
	sheet, err := ParseStylesheet(`h1, .title > span { opacity: .5 } p { float: left }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(sheet.Rules))
	}
	if len(sheet.Rules[0].Selectors) != 2 {
		t.Errorf("expected 2 selectors in the group, got %d", len(sheet.Rules[0].Selectors))
	}
	if sheet.Rules[0].Order != 0 || sheet.Rules[1].Order != 1 {
		t.Errorf("unexpected rule order %d, %d", sheet.Rules[0].Order, sheet.Rules[1].Order)
	}
}

func TestParseStylesheet_Comments(t *testing.T) {
	sheet, err := ParseStylesheet(`
		/* header { position: fixed } */
		div { /* inline */ position: sticky; }
		a { content: "/* not a comment */"; }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(sheet.Rules))
	}
	if got := sheet.Rules[0].Declarations[0].Value; got != "sticky" {
		t.Errorf("expected sticky, got %q", got)
	}
	if got := sheet.Rules[1].Declarations[0].Value; got != `"/* not a comment */"` {
		t.Errorf("comment markers inside strings must survive, got %q", got)
	}
}

func TestParseStylesheet_Important(t *testing.T) {
	sheet, _ := ParseStylesheet(`div { z-index: 5 ! important; opacity: 0.5 }`)
	decls := sheet.Rules[0].Declarations
	if !decls[0].Important || decls[0].Value != "5" {
		t.Errorf("expected important z-index 5, got %+v", decls[0])
	}
	if decls[1].Important {
		t.Error("opacity should not be important")
	}
}

func TestParseStylesheet_AtRules(t *testing.T) {
	sheet, err := ParseStylesheet(`
		@charset "utf-8";
		@import url(other.css);
		@font-face { font-family: X; src: url(x.woff); }
		@keyframes spin { from { transform: none } to { transform: rotate(1turn) } }
		@media screen and (max-width: 600px) {
			.a { position: absolute; }
			@media (orientation: portrait) { .b { position: fixed; } }
		}
		.c { position: relative; }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 style rules, got %d", len(sheet.Rules))
	}
	if sheet.Rules[0].Media != "screen and (max-width: 600px)" {
		t.Errorf("unexpected media %q", sheet.Rules[0].Media)
	}
	if sheet.Rules[1].Media != "screen and (max-width: 600px) and (orientation: portrait)" {
		t.Errorf("unexpected nested media %q", sheet.Rules[1].Media)
	}
	if sheet.Rules[2].Media != "" {
		t.Errorf("expected no media for .c, got %q", sheet.Rules[2].Media)
	}
}

func TestParseStylesheet_InvalidSelectorDropsRule(t *testing.T) {
	sheet, err := ParseStylesheet(`div >, p { position: fixed } span { position: relative }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Rules) != 1 || sheet.Rules[0].Selectors[0].Raw != "span" {
		t.Errorf("expected only the span rule to survive, got %+v", sheet.Rules)
	}
}

func TestParseStylesheet_UnterminatedBlock(t *testing.T) {
	sheet, err := ParseStylesheet(`div { position: fixed } p { position: relative`)
	if err == nil {
		t.Fatal("expected an error for the unterminated rule")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("expected *ParseError, got %T", err)
	}
	if len(sheet.Rules) != 1 {
		t.Errorf("expected rules before the error to be kept, got %d", len(sheet.Rules))
	}
}

func TestEvaluateMediaQuery(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"all", true},
		{"screen", true},
		{"print", false},
		{"not print", true},
		{"only screen and (min-width: 700px)", true},
		{"(max-width: 50em)", true},
		{"(max-width: 40em)", false},
		{"(min-height: 601px)", false},
		{"print, (orientation: landscape)", true},
		{"(orientation: portrait)", false},
		{"(min-resolution: 2dppx)", false},
	}
	for _, tt := range tests {
		if got := EvaluateMediaQuery(tt.query, vp); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.query, tt.want, got)
		}
	}
}
