package css

import (
	"fmt"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator      Combinator = iota // "a b"
	ChildCombinator                             // "a > b"
	AdjacentSiblingCombinator                   // "a + b"
	GeneralSiblingCombinator                    // "a ~ b"
)

// AttributeSelector is one [name op "value"] test.
type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "~=", "|=", "^=", "$=", "*="
	Value    string
}

// SelectorPart is a compound selector: everything between two combinators.
type SelectorPart struct {
	Element       string // tag name, "*" or ""
	ID            string
	Classes       []string
	Attributes    []AttributeSelector
	PseudoClasses []string
}

// Selector is a complex selector. Parts[i] and Parts[i+1] are joined by
// Combinators[i].
type Selector struct {
	Raw           string
	Parts         []SelectorPart
	Combinators   []Combinator
	PseudoElement string
	Specificity   Specificity
}

// Specificity is the (ids, classes, types) triple.
type Specificity struct {
	A, B, C int
}

// Less reports whether s sorts before o in the cascade.
func (s Specificity) Less(o Specificity) bool {
	if s.A != o.A {
		return s.A < o.A
	}
	if s.B != o.B {
		return s.B < o.B
	}
	return s.C < o.C
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.A, s.B, s.C)
}

// SplitSelectorGroup splits "a, b > c" into its member selectors.
func SplitSelectorGroup(group string) []string {
	var out []string
	for _, s := range splitTopLevel(group, ',') {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseSelector parses one complex selector.
func ParseSelector(raw string) (Selector, error) {
	p := &selectorParser{input: strings.TrimSpace(raw)}
	sel := Selector{Raw: p.input}
	if p.input == "" {
		return sel, fmt.Errorf("empty selector")
	}

	for {
		part, err := p.compound(&sel)
		if err != nil {
			return sel, err
		}
		sel.Parts = append(sel.Parts, part)

		comb, more, err := p.combinator()
		if err != nil {
			return sel, err
		}
		if !more {
			break
		}
		if sel.PseudoElement != "" {
			return sel, fmt.Errorf("selector %q: pseudo-element must be last", raw)
		}
		sel.Combinators = append(sel.Combinators, comb)
	}

	for _, part := range sel.Parts {
		sel.Specificity.A += boolInt(part.ID != "")
		sel.Specificity.B += len(part.Classes) + len(part.Attributes) + len(part.PseudoClasses)
		sel.Specificity.C += boolInt(part.Element != "" && part.Element != "*")
	}
	sel.Specificity.C += boolInt(sel.PseudoElement != "")
	return sel, nil
}

// MustParseSelector is ParseSelector for literals known to be valid.
func MustParseSelector(raw string) Selector {
	sel, err := ParseSelector(raw)
	if err != nil {
		panic(err)
	}
	return sel
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type selectorParser struct {
	input string
	pos   int
}

func (p *selectorParser) eof() bool { return p.pos >= len(p.input) }

func (p *selectorParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *selectorParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("selector %q at %d: %s", p.input, p.pos, fmt.Sprintf(format, args...))
}

func (p *selectorParser) compound(sel *Selector) (SelectorPart, error) {
	var part SelectorPart
	start := p.pos

	if c := p.peek(); c == '*' {
		part.Element = "*"
		p.pos++
	} else if isIdentStart(c) {
		part.Element = strings.ToLower(p.ident())
	}

	for !p.eof() {
		switch p.peek() {
		case '#':
			p.pos++
			if part.ID = p.ident(); part.ID == "" {
				return part, p.errorf("expected id")
			}
		case '.':
			p.pos++
			cls := p.ident()
			if cls == "" {
				return part, p.errorf("expected class name")
			}
			part.Classes = append(part.Classes, cls)
		case '[':
			attr, err := p.attribute()
			if err != nil {
				return part, err
			}
			part.Attributes = append(part.Attributes, attr)
		case ':':
			p.pos++
			if p.peek() == ':' {
				p.pos++
				sel.PseudoElement = strings.ToLower(p.ident())
				continue
			}
			name := strings.ToLower(p.ident())
			if name == "" {
				return part, p.errorf("expected pseudo-class")
			}
			if p.peek() == '(' {
				arg, err := p.parenthesized()
				if err != nil {
					return part, err
				}
				name += "(" + arg + ")"
			}
			if name == "before" || name == "after" || name == "first-line" || name == "first-letter" {
				// Legacy single-colon pseudo-elements.
				sel.PseudoElement = name
				continue
			}
			part.PseudoClasses = append(part.PseudoClasses, name)
		default:
			if p.pos == start {
				return part, p.errorf("unexpected %q", p.peek())
			}
			return part, nil
		}
	}
	if p.pos == start {
		return part, p.errorf("expected compound selector")
	}
	return part, nil
}

// combinator consumes whitespace and an optional combinator symbol. more is
// false at the end of input.
func (p *selectorParser) combinator() (Combinator, bool, error) {
	sawSpace := false
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
		sawSpace = true
	}
	if p.eof() {
		return 0, false, nil
	}
	comb := DescendantCombinator
	switch p.peek() {
	case '>':
		comb = ChildCombinator
	case '+':
		comb = AdjacentSiblingCombinator
	case '~':
		comb = GeneralSiblingCombinator
	default:
		if !sawSpace {
			return 0, false, p.errorf("unexpected %q", p.peek())
		}
		return comb, true, nil
	}
	p.pos++
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
	}
	if p.eof() {
		return 0, false, p.errorf("dangling combinator")
	}
	return comb, true, nil
}

func (p *selectorParser) attribute() (AttributeSelector, error) {
	p.pos++ // [
	end := strings.IndexByte(p.input[p.pos:], ']')
	if end < 0 {
		return AttributeSelector{}, p.errorf("unterminated attribute selector")
	}
	body := strings.TrimSpace(p.input[p.pos : p.pos+end])
	p.pos += end + 1

	var attr AttributeSelector
	if i := strings.IndexAny(body, "~|^$*="); i >= 0 {
		attr.Name = strings.ToLower(strings.TrimSpace(body[:i]))
		rest := body[i:]
		if rest[0] == '=' {
			attr.Operator = "="
			rest = rest[1:]
		} else if len(rest) > 1 && rest[1] == '=' {
			attr.Operator = rest[:2]
			rest = rest[2:]
		} else {
			return attr, p.errorf("bad attribute operator in [%s]", body)
		}
		attr.Value = strings.Trim(strings.TrimSpace(rest), `"'`)
	} else {
		attr.Name = strings.ToLower(body)
	}
	if attr.Name == "" {
		return attr, p.errorf("empty attribute name")
	}
	return attr, nil
}

func (p *selectorParser) parenthesized() (string, error) {
	depth := 0
	start := p.pos + 1
	for ; !p.eof(); p.pos++ {
		switch p.peek() {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				arg := p.input[start:p.pos]
				p.pos++
				return strings.TrimSpace(arg), nil
			}
		}
	}
	return "", p.errorf("unterminated '('")
}

func (p *selectorParser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == '\\' && p.pos+1 < len(p.input) {
			p.pos += 2
			continue
		}
		if !isIdentChar(c) {
			break
		}
		p.pos++
	}
	return strings.ReplaceAll(p.input[start:p.pos], `\`, "")
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '-' || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
