package htmlast

import (
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
)

// ToString serializes the tree. Unmodified markup is emitted from the
// original tag text so a parse/serialize round trip is byte-identical.
// Minified mode collapses whitespace runs to one space, trims whitespace
// at block-level element boundaries, and preserves exactly one
// significant space around inline elements.
func (a *AST) ToString(minify bool) string {
	if a.root == nil {
		return ""
	}
	return SerializeTree(a.root, minify)
}

// SerializeTree serializes a detached subtree. A root node emits its
// children; an element emits itself. Minified mode works on a clone and
// leaves the input untouched.
func SerializeTree(root *Node, minify bool) string {
	if minify {
		root = root.Clone()
		minifyNode(root)
	}
	var b strings.Builder
	serializeNode(&b, root)
	return b.String()
}

func serializeNode(b *strings.Builder, node *Node) {
	switch node.Type {
	case TextNode, CommentNode, DoctypeNode:
		b.WriteString(node.Text)
	case ElementNode:
		if node.dirty || node.rawStart == "" {
			writeStartTag(b, node)
		} else {
			b.WriteString(node.rawStart)
		}
		if node.selfClosing || voidElements[node.Tag] {
			return
		}
		for _, child := range node.Children {
			serializeNode(b, child)
		}
		if node.rawEnd != "" && !node.dirty {
			b.WriteString(node.rawEnd)
		} else {
			b.WriteString("</" + node.Tag + ">")
		}
	case RootNode:
		for _, child := range node.Children {
			serializeNode(b, child)
		}
	}
}

func writeStartTag(b *strings.Builder, node *Node) {
	b.WriteString("<")
	b.WriteString(node.Tag)
	for _, attr := range node.Attributes {
		b.WriteString(" ")
		b.WriteString(attr.Name)
		if attr.Quote == 0 && attr.Value == "" {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(strings.ReplaceAll(attr.Value, `"`, "&quot;"))
		b.WriteString(`"`)
	}
	if node.selfClosing {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
}

// minifyNode rewrites text nodes in place, reproducing inline vs block
// layout semantics: boundary whitespace survives only next to inline
// content.
func minifyNode(node *Node) {
	if node.Type == ElementNode && preformattedElements[node.Tag] {
		return
	}
	for i, child := range node.Children {
		if child.Type == ElementNode {
			minifyNode(child)
			continue
		}
		if child.Type != TextNode {
			continue
		}
		text := collapseWhitespace(child.Text)
		// Leading whitespace survives only when the preceding boundary is
		// inline content; likewise for trailing whitespace.
		if strings.HasPrefix(text, " ") && !inlineBefore(node, i) {
			text = strings.TrimPrefix(text, " ")
		}
		if strings.HasSuffix(text, " ") && !inlineAfter(node, i) {
			text = strings.TrimSuffix(text, " ")
		}
		child.Text = text
	}
	// Drop text nodes emptied by trimming.
	kept := node.Children[:0]
	for _, child := range node.Children {
		if child.Type == TextNode && child.Text == "" {
			continue
		}
		kept = append(kept, child)
	}
	node.Children = kept
}

func collapseWhitespace(text string) string {
	var b strings.Builder
	space := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

// inlineBefore reports whether the node preceding children[i] keeps a
// boundary space significant: a non-blank text node or an inline element.
func inlineBefore(parent *Node, i int) bool {
	for j := i - 1; j >= 0; j-- {
		prev := parent.Children[j]
		switch prev.Type {
		case TextNode:
			if strings.TrimSpace(prev.Text) != "" {
				return true
			}
		case ElementNode:
			return inlineElements[prev.Tag]
		}
	}
	// At the start of an inline parent, surrounding text may continue.
	return parent.Type == ElementNode && inlineElements[parent.Tag]
}

// inlineAfter mirrors inlineBefore for the following boundary.
func inlineAfter(parent *Node, i int) bool {
	for j := i + 1; j < len(parent.Children); j++ {
		next := parent.Children[j]
		switch next.Type {
		case TextNode:
			if strings.TrimSpace(next.Text) != "" {
				return true
			}
		case ElementNode:
			return inlineElements[next.Tag]
		}
	}
	return parent.Type == ElementNode && inlineElements[parent.Tag]
}

// ReplaceMustaches substitutes every `{{ name }}` occurrence in text
// nodes and attribute values with the mapped value, HTML-escaped.
// Unresolved variables substitute to the empty string.
func (a *AST) ReplaceMustaches(variables map[string]string) {
	if a.root == nil {
		return
	}
	ReplaceMustachesIn(a.root, variables)
}

// ReplaceMustachesIn is ReplaceMustaches over a detached subtree.
func ReplaceMustachesIn(root *Node, variables map[string]string) {
	replace := func(text string) (string, bool) {
		if !strings.Contains(text, "{{") {
			return text, false
		}
		out := mustacheRe.ReplaceAllStringFunc(text, func(match string) string {
			variable := strings.TrimSpace(match[2 : len(match)-2])
			return EscapeText(variables[variable])
		})
		return out, out != text
	}
	Walk(root, func(n *Node) bool {
		switch n.Type {
		case TextNode:
			n.Text, _ = replace(n.Text)
		case ElementNode:
			for i := range n.Attributes {
				if next, changed := replace(n.Attributes[i].Value); changed {
					n.Attributes[i].Value = next
					n.dirty = true
				}
			}
		}
		return true
	})
}

// SubstituteMustaches replaces mustache tags in text with the mapped raw
// values, without HTML escaping. Used when passing attribute values on as
// properties, where escaping happens at the final substitution site.
func SubstituteMustaches(text string, variables map[string]string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return mustacheRe.ReplaceAllStringFunc(text, func(match string) string {
		variable := strings.TrimSpace(match[2 : len(match)-2])
		return variables[variable]
	})
}

// Inject returns a deep copy of the tree with every outlet element
// replaced by the injected content for its name, the outlet's own default
// children when nothing was injected, or nothing at all when the outlet
// has no default content either.
func (a *AST) Inject(content map[string][]*Node) *AST {
	if a.root == nil {
		return a
	}
	clone := &AST{
		raw:        a.raw,
		isDocument: a.isDocument,
		root:       a.root.Clone(),
		diags:      diagnostics.NewCollection(Categories...),
	}
	InjectContent(clone.root, content)
	return clone
}

// InjectContent resolves every outlet under root in place: injected
// content for its name, the outlet's own default children when nothing
// was injected, or nothing at all. Injected nodes are cloned on insertion.
func InjectContent(root *Node, content map[string][]*Node) {
	var outlets []*Node
	Walk(root, func(n *Node) bool {
		if n.IsElement("outlet") {
			outlets = append(outlets, n)
			return false
		}
		return true
	})
	for _, outlet := range outlets {
		injected, ok := content[outletName(outlet)]
		if !ok {
			injected = outlet.Children
		}
		clones := make([]*Node, len(injected))
		for i, node := range injected {
			clones[i] = node.Clone()
		}
		outlet.ReplaceWith(clones...)
	}
}
