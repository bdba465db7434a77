package html

import (
	"strings"
)

// Element is the read-only view of a DOM element that style consumers walk.
// It is implemented by *Node for parsed documents and by snapshot elements
// captured from a live browser.
type Element interface {
	// NodeName returns the upper-case tag name ("HTML", "DIV").
	NodeName() string
	// ParentElement returns the parent element, or nil at the top of the tree.
	ParentElement() Element
}

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// documentTag is the tag of the synthetic node that owns the <html> element.
const documentTag = "document"

type Document struct {
	Root            *Node
	Stylesheets     []string // CSS text from <style> tags and data: links
	StylesheetLinks []string // hrefs of <link rel="stylesheet"> that need fetching
	Scripts         []string // JavaScript from <script> tags
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  documentTag,
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// DocumentElement returns the <html> element, or nil if the tree has none.
func (d *Document) DocumentElement() *Node {
	for _, child := range d.Root.Children {
		if child.Type == ElementNode && child.TagName == "html" {
			return child
		}
	}
	return nil
}

// Body returns the <body> element if present.
func (d *Document) Body() *Node {
	html := d.DocumentElement()
	if html == nil {
		return nil
	}
	for _, child := range html.Children {
		if child.Type == ElementNode && child.TagName == "body" {
			return child
		}
	}
	return nil
}

// NodeName implements Element.
func (n *Node) NodeName() string {
	if n.Type == TextNode {
		return "#text"
	}
	return strings.ToUpper(n.TagName)
}

// ParentElement implements Element. The synthetic document node is not an
// element, so the <html> element has no parent element.
func (n *Node) ParentElement() Element {
	if p := n.ParentNode(); p != nil {
		return p
	}
	return nil
}

// ParentNode is the concrete counterpart of ParentElement.
func (n *Node) ParentNode() *Node {
	p := n.Parent
	if p == nil || p.Type != ElementNode || p.TagName == documentTag {
		return nil
	}
	return p
}

// IsDocument reports whether n is the synthetic document node.
func (n *Node) IsDocument() bool {
	return n.Type == ElementNode && n.TagName == documentTag
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// ID returns the id attribute or "".
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// Classes returns the whitespace-separated entries of the class attribute.
func (n *Node) Classes() []string {
	cls, _ := n.GetAttribute("class")
	return strings.Fields(cls)
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text})
}

// ElementChildren returns the element children of n, skipping text.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, child := range n.Children {
		if child.Type == ElementNode {
			out = append(out, child)
		}
	}
	return out
}

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Ancestors returns the element chain from n up to the <html> element,
// starting with n itself.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.ParentNode() {
		chain = append(chain, cur)
	}
	return chain
}

// Walk visits every element in document order. The callback returns true to stop.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n.Type == ElementNode && !n.IsDocument() {
		if fn(n) {
			return true
		}
	}
	for _, child := range n.Children {
		if child.Walk(fn) {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}
