package css

import (
	"fmt"
	"strings"
)

// Rule is a style rule: a selector list with its declarations. Media holds
// the condition of the enclosing @media block, "" when there is none.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
	Media        string
	Order        int // source order within the stylesheet
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseError describes a structural problem in a stylesheet. The rules
// parsed before the problem are still returned.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("css: %s at offset %d", e.Msg, e.Offset)
}

// ParseStylesheet parses CSS text into rules. Rules with an invalid
// selector are dropped as a whole; unsupported at-rules are skipped.
func ParseStylesheet(css string) (*Stylesheet, error) {
	sheet := &Stylesheet{Rules: make([]Rule, 0)}
	sc := &sheetScanner{input: stripComments(css)}
	err := sc.parseBlock(sheet, "", false)
	return sheet, err
}

type sheetScanner struct {
	input string
	pos   int
	order int
}

// parseBlock reads rules until EOF, or until the closing brace when nested.
func (sc *sheetScanner) parseBlock(sheet *Stylesheet, media string, nested bool) error {
	for {
		sc.skipSpace()
		if sc.pos >= len(sc.input) {
			if nested {
				return &ParseError{Offset: sc.pos, Msg: "unexpected EOF in @media block"}
			}
			return nil
		}
		switch sc.input[sc.pos] {
		case '}':
			sc.pos++
			if nested {
				return nil
			}
			// Stray closing brace at top level: ignore it.
			continue
		case '@':
			if err := sc.parseAtRule(sheet, media); err != nil {
				return err
			}
			continue
		}

		prelude, ok := sc.readUntil('{')
		if !ok {
			return &ParseError{Offset: sc.pos, Msg: "expected '{'"}
		}
		body, ok := sc.readBlockBody()
		if !ok {
			return &ParseError{Offset: sc.pos, Msg: "unexpected EOF in rule"}
		}
		if rule, ok := sc.makeRule(prelude, body, media); ok {
			sheet.Rules = append(sheet.Rules, rule)
		}
	}
}

func (sc *sheetScanner) parseAtRule(sheet *Stylesheet, media string) error {
	start := sc.pos
	sc.pos++
	nameStart := sc.pos
	for sc.pos < len(sc.input) && isIdentChar(sc.input[sc.pos]) {
		sc.pos++
	}
	name := strings.ToLower(sc.input[nameStart:sc.pos])

	// Statement at-rules (@import, @charset) end at ';'.
	end := strings.IndexAny(sc.input[sc.pos:], ";{")
	if end < 0 {
		return &ParseError{Offset: start, Msg: "unterminated @" + name}
	}
	prelude := strings.TrimSpace(sc.input[sc.pos : sc.pos+end])
	sc.pos += end
	if sc.input[sc.pos] == ';' {
		sc.pos++
		return nil
	}
	sc.pos++ // {

	if name == "media" {
		cond := prelude
		if media != "" {
			cond = media + " and " + prelude
		}
		return sc.parseBlock(sheet, cond, true)
	}
	if _, ok := sc.readBlockBody(); !ok {
		return &ParseError{Offset: start, Msg: "unexpected EOF in @" + name}
	}
	return nil
}

func (sc *sheetScanner) makeRule(prelude, body, media string) (Rule, bool) {
	raws := SplitSelectorGroup(prelude)
	if len(raws) == 0 {
		return Rule{}, false
	}
	rule := Rule{Media: media, Order: sc.order}
	for _, raw := range raws {
		sel, err := ParseSelector(raw)
		if err != nil {
			return Rule{}, false
		}
		rule.Selectors = append(rule.Selectors, sel)
	}
	rule.Declarations = ParseDeclarations(body)
	sc.order++
	return rule, true
}

// readUntil returns the text up to delim and consumes delim.
func (sc *sheetScanner) readUntil(delim byte) (string, bool) {
	i := strings.IndexByte(sc.input[sc.pos:], delim)
	if i < 0 {
		sc.pos = len(sc.input)
		return "", false
	}
	s := sc.input[sc.pos : sc.pos+i]
	sc.pos += i + 1
	return s, true
}

// readBlockBody returns the text up to the brace closing the block that was
// just opened, honouring nested braces and quoted strings.
func (sc *sheetScanner) readBlockBody() (string, bool) {
	depth := 1
	start := sc.pos
	var quote byte
	for ; sc.pos < len(sc.input); sc.pos++ {
		c := sc.input[sc.pos]
		switch {
		case quote != 0:
			if c == '\\' {
				sc.pos++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				body := sc.input[start:sc.pos]
				sc.pos++
				return body, true
			}
		}
	}
	return sc.input[start:], false
}

func (sc *sheetScanner) skipSpace() {
	for sc.pos < len(sc.input) && isSpace(sc.input[sc.pos]) {
		sc.pos++
	}
}

// stripComments removes /* ... */ comments outside strings.
func stripComments(css string) string {
	var sb strings.Builder
	var quote byte
	for i := 0; i < len(css); i++ {
		c := css[i]
		if quote != 0 {
			sb.WriteByte(c)
			if c == '\\' && i+1 < len(css) {
				i++
				sb.WriteByte(css[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			sb.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(css) && css[i+1] == '*' {
			end := strings.Index(css[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 3
			sb.WriteByte(' ')
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
