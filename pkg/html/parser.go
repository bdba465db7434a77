package html

import (
	"fmt"
	"net/url"
	"strings"
)

type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	stack     []*Node
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.stack = []*Node{p.doc.Root}

	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		if token.Type == TokenEOF {
			break
		}

		switch token.Type {
		case TokenStartTag:
			// Raw text elements: their content never becomes DOM children.
			switch token.TagName {
			case "style":
				if !token.SelfClosing {
					p.doc.Stylesheets = append(p.doc.Stylesheets, p.tokenizer.ReadRawUntil("style"))
				}
				continue
			case "script":
				if !token.SelfClosing {
					p.doc.Scripts = append(p.doc.Scripts, p.tokenizer.ReadRawUntil("script"))
				}
				continue
			}

			if isBlockElement(token.TagName) {
				p.autoCloseP()
			}

			node := &Node{
				Type:       ElementNode,
				TagName:    token.TagName,
				Attributes: token.Attributes,
				Children:   make([]*Node, 0),
			}
			p.currentParent().AddChild(node)

			if token.TagName == "link" {
				p.handleLink(token.Attributes)
			}

			if !token.SelfClosing && !isVoidElement(token.TagName) {
				p.stack = append(p.stack, node)
			}

		case TokenText:
			p.currentParent().AppendText(token.Text)

		case TokenEndTag:
			p.closeTag(token.TagName)
		}
	}

	p.ensureDocumentElement()
	return p.doc, nil
}

// ensureDocumentElement wraps loose top-level content in a synthesized
// <html> element, so every document has exactly one root element.
func (p *Parser) ensureDocumentElement() {
	root := p.doc.Root
	if html := p.doc.DocumentElement(); html != nil && len(root.ElementChildren()) == 1 {
		return
	}
	html := &Node{
		Type:       ElementNode,
		TagName:    "html",
		Attributes: make(map[string]string),
	}
	children := root.Children
	root.Children = nil
	root.AddChild(html)
	for _, child := range children {
		if child.Type == ElementNode && child.TagName == "html" {
			// A stray <html> next to other content: adopt its children.
			for k, v := range child.Attributes {
				html.Attributes[k] = v
			}
			for _, grandchild := range child.Children {
				html.AddChild(grandchild)
			}
			continue
		}
		html.AddChild(child)
	}
}

// handleLink records <link rel="stylesheet"> references. data: URIs are
// decoded in place; everything else is left for the resource loader.
func (p *Parser) handleLink(attrs map[string]string) {
	rel, ok := attrs["rel"]
	if !ok || !strings.Contains(strings.ToLower(rel), "stylesheet") {
		return
	}
	href, ok := attrs["href"]
	if !ok {
		return
	}
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "data:text/css,") {
		encoded := href[len("data:text/css,"):]
		decoded, err := url.PathUnescape(encoded)
		if err != nil {
			decoded = encoded
		}
		p.doc.Stylesheets = append(p.doc.Stylesheets, decoded)
		return
	}
	if href != "" {
		p.doc.StylesheetLinks = append(p.doc.StylesheetLinks, href)
	}
}

// currentParent returns the current parent node (top of stack)
func (p *Parser) currentParent() *Node {
	if len(p.stack) == 0 {
		return p.doc.Root
	}
	return p.stack[len(p.stack)-1]
}

// closeTag pops the stack until the matching tag is found and closed
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			p.stack = p.stack[:i]
			return
		}
	}
	// Tag not found on stack; ignore the end tag
}

// autoCloseP closes an open <p> element if one is on the stack
func (p *Parser) autoCloseP() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == "p" {
			p.stack = p.stack[:i]
			return
		}
		if isBlockElement(p.stack[i].TagName) {
			return
		}
	}
}

// isBlockElement returns true for elements that auto-close <p>
func isBlockElement(tagName string) bool {
	switch tagName {
	case "address", "article", "aside", "blockquote", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "li", "main", "nav", "ol",
		"p", "pre", "section", "table", "ul":
		return true
	}
	return false
}

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}

func Parse(html string) (*Document, error) {
	return NewParser(html).Parse()
}
