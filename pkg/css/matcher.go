package css

import (
	"strings"

	"csscontexts/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector.
// Selectors with a pseudo-element never match an element.
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node == nil || node.Type != html.ElementNode || node.IsDocument() {
		return false
	}
	if len(selector.Parts) == 0 || selector.PseudoElement != "" {
		return false
	}
	return matchesFrom(node, selector, len(selector.Parts)-1)
}

// matchesFrom matches Parts[partIndex] against node and the parts to its left
// against the node's ancestors or siblings.
func matchesFrom(node *html.Node, selector Selector, partIndex int) bool {
	if !matchesSelectorPart(node, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	prev := partIndex - 1
	switch selector.Combinators[prev] {
	case DescendantCombinator:
		for ancestor := node.ParentNode(); ancestor != nil; ancestor = ancestor.ParentNode() {
			if matchesFrom(ancestor, selector, prev) {
				return true
			}
		}
	case ChildCombinator:
		if parent := node.ParentNode(); parent != nil {
			return matchesFrom(parent, selector, prev)
		}
	case AdjacentSiblingCombinator:
		if sib := previousElementSibling(node); sib != nil {
			return matchesFrom(sib, selector, prev)
		}
	case GeneralSiblingCombinator:
		for sib := previousElementSibling(node); sib != nil; sib = previousElementSibling(sib) {
			if matchesFrom(sib, selector, prev) {
				return true
			}
		}
	}
	return false
}

func matchesSelectorPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" && node.ID() != part.ID {
		return false
	}
	if len(part.Classes) > 0 {
		have := node.Classes()
		for _, want := range part.Classes {
			if !containsString(have, want) {
				return false
			}
		}
	}
	for _, attr := range part.Attributes {
		if !matchesAttributeSelector(node, attr) {
			return false
		}
	}
	for _, pc := range part.PseudoClasses {
		if !matchesPseudoClass(node, pc) {
			return false
		}
	}
	return true
}

// matchesPseudoClass supports the structural pseudo-classes. Dynamic ones
// (hover, focus, ...) and anything unknown never match a static snapshot.
func matchesPseudoClass(node *html.Node, pc string) bool {
	switch pc {
	case "root":
		return node.TagName == "html" && node.ParentNode() == nil
	case "first-child":
		return previousElementSibling(node) == nil
	case "last-child":
		return nextElementSibling(node) == nil
	case "only-child":
		return previousElementSibling(node) == nil && nextElementSibling(node) == nil
	case "empty":
		return len(node.Children) == 0
	}
	if strings.HasPrefix(pc, "not(") && strings.HasSuffix(pc, ")") {
		for _, raw := range SplitSelectorGroup(pc[4 : len(pc)-1]) {
			inner, err := ParseSelector(raw)
			if err != nil || len(inner.Parts) != 1 {
				return false
			}
			if matchesSelectorPart(node, inner.Parts[0]) {
				return false
			}
		}
		return true
	}
	return false
}

func matchesAttributeSelector(node *html.Node, attr AttributeSelector) bool {
	value, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}
	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return attr.Value != "" && strings.HasPrefix(value, attr.Value)
	case "$=":
		return attr.Value != "" && strings.HasSuffix(value, attr.Value)
	case "*=":
		return attr.Value != "" && strings.Contains(value, attr.Value)
	case "~=":
		return containsString(strings.Fields(value), attr.Value)
	case "|=":
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}
	return false
}

func previousElementSibling(node *html.Node) *html.Node {
	if node.Parent == nil {
		return nil
	}
	var prev *html.Node
	for _, sib := range node.Parent.Children {
		if sib == node {
			return prev
		}
		if sib.Type == html.ElementNode {
			prev = sib
		}
	}
	return nil
}

func nextElementSibling(node *html.Node) *html.Node {
	if node.Parent == nil {
		return nil
	}
	seen := false
	for _, sib := range node.Parent.Children {
		if seen && sib.Type == html.ElementNode {
			return sib
		}
		if sib == node {
			seen = true
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// QuerySelectorAll returns every element under root (excluding root) that
// matches any selector of the group, in document order.
func QuerySelectorAll(root *html.Node, group string) ([]*html.Node, error) {
	selectors, err := parseGroup(group)
	if err != nil {
		return nil, err
	}
	var out []*html.Node
	root.Walk(func(n *html.Node) bool {
		if n == root {
			return false
		}
		for _, sel := range selectors {
			if MatchesSelector(n, sel) {
				out = append(out, n)
				break
			}
		}
		return false
	})
	return out, nil
}

// QuerySelector returns the first match of group under root, or nil.
func QuerySelector(root *html.Node, group string) (*html.Node, error) {
	selectors, err := parseGroup(group)
	if err != nil {
		return nil, err
	}
	var found *html.Node
	root.Walk(func(n *html.Node) bool {
		if n == root {
			return false
		}
		for _, sel := range selectors {
			if MatchesSelector(n, sel) {
				found = n
				return true
			}
		}
		return false
	})
	return found, nil
}

func parseGroup(group string) ([]Selector, error) {
	raws := SplitSelectorGroup(group)
	if len(raws) == 0 {
		_, err := ParseSelector(group)
		return nil, err
	}
	selectors := make([]Selector, 0, len(raws))
	for _, raw := range raws {
		sel, err := ParseSelector(raw)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}
