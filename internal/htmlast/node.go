// Package htmlast parses HTML fragments and documents into a mutable tree
// with source-location metadata on every node and attribute, and owns
// mustache extraction, structural linting of template-specific elements,
// outlet injection, and serialization.
package htmlast

import (
	"strings"

	"golang.org/x/net/html"
)

// NodeType discriminates tree nodes.
type NodeType int

const (
	RootNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

// Attribute is one attribute of an element, with exact offsets into the
// original source. Value offsets exclude surrounding quote characters.
type Attribute struct {
	Name      string
	Value     string
	NameFrom  int
	NameTo    int
	ValueFrom int
	ValueTo   int
	// Quote is the quote character used in the source, or zero for
	// unquoted and valueless attributes.
	Quote byte
}

// Node is one node of the parsed tree. Elements keep the raw text of
// their start and end tags so unmodified markup serializes byte-identical;
// attribute mutation marks the element dirty and its start tag is then
// regenerated.
type Node struct {
	Type       NodeType
	Tag        string
	Text       string // raw text for text, comment, and doctype nodes
	Attributes []Attribute
	Parent     *Node
	Children   []*Node

	// From and To span the whole node in the original source.
	From int
	To   int

	rawStart    string
	rawEnd      string
	selfClosing bool
	dirty       bool
}

// voidElements never take an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// inlineElements take part in inline layout; minification preserves one
// significant space around them.
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true,
	"br": true, "button": true, "cite": true, "code": true, "data": true,
	"dfn": true, "em": true, "i": true, "img": true, "input": true,
	"kbd": true, "label": true, "mark": true, "q": true, "s": true,
	"samp": true, "select": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "time": true, "u": true,
	"var": true, "wbr": true,
}

// preformattedElements keep their whitespace untouched.
var preformattedElements = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
}

// GetAttribute returns the value of the named attribute and whether it is
// present.
func (n *Node) GetAttribute(name string) (string, bool) {
	for _, attr := range n.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// Attribute returns the named attribute, or nil.
func (n *Node) Attribute(name string) *Attribute {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return &n.Attributes[i]
		}
	}
	return nil
}

// SetAttribute sets or replaces the named attribute and marks the start
// tag for regeneration.
func (n *Node) SetAttribute(name, value string) {
	n.dirty = true
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			n.Attributes[i].Value = value
			n.Attributes[i].Quote = '"'
			return
		}
	}
	n.Attributes = append(n.Attributes, Attribute{Name: name, Value: value, Quote: '"'})
}

// RemoveAttribute removes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			n.Attributes = append(n.Attributes[:i], n.Attributes[i+1:]...)
			n.dirty = true
			return
		}
	}
}

// AppendChild adds child at the end of n's children.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Detach removes n from its parent. Detaching a parentless node is a
// no-op.
func (n *Node) Detach() {
	if n.Parent == nil {
		return
	}
	siblings := n.Parent.Children
	for i, sibling := range siblings {
		if sibling == n {
			n.Parent.Children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.Parent = nil
}

// ReplaceWith substitutes n with the given nodes in its parent's child
// list.
func (n *Node) ReplaceWith(nodes ...*Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for i, sibling := range parent.Children {
		if sibling != n {
			continue
		}
		replacement := make([]*Node, 0, len(parent.Children)+len(nodes)-1)
		replacement = append(replacement, parent.Children[:i]...)
		for _, node := range nodes {
			node.Parent = parent
			replacement = append(replacement, node)
		}
		replacement = append(replacement, parent.Children[i+1:]...)
		parent.Children = replacement
		n.Parent = nil
		return
	}
}

// Clone returns a deep copy of n with no parent.
func (n *Node) Clone() *Node {
	clone := &Node{
		Type:        n.Type,
		Tag:         n.Tag,
		Text:        n.Text,
		From:        n.From,
		To:          n.To,
		rawStart:    n.rawStart,
		rawEnd:      n.rawEnd,
		selfClosing: n.selfClosing,
		dirty:       n.dirty,
	}
	if len(n.Attributes) > 0 {
		clone.Attributes = make([]Attribute, len(n.Attributes))
		copy(clone.Attributes, n.Attributes)
	}
	for _, child := range n.Children {
		clone.AppendChild(child.Clone())
	}
	return clone
}

// IsElement reports whether n is an element with the given tag name.
func (n *Node) IsElement(tag string) bool {
	return n.Type == ElementNode && n.Tag == tag
}

// IsBlank reports whether n is a text node containing only whitespace.
func (n *Node) IsBlank() bool {
	return n.Type == TextNode && strings.TrimSpace(n.Text) == ""
}

// EscapeText HTML-escapes a value substituted into markup.
func EscapeText(value string) string {
	return html.EscapeString(value)
}
