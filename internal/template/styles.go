package template

import (
	"fmt"
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/htmlast"
)

// StyleSource is the content of one css attribute paired with the
// stylesheet class generated for its element. The stylesheet build wraps
// the content in a rule for that class; the renderer puts the same class
// on the element.
type StyleSource struct {
	Class string
	CSS   string
}

// StyleSources returns one entry per non-blank css attribute in document
// order.
func (c *Component) StyleSources() []StyleSource {
	return c.styleSources(c.DataKey())
}

// StyleSources returns one entry per non-blank css attribute in document
// order.
func (p *Page) StyleSources() []StyleSource {
	return p.styleSources(p.slugKey())
}

// styleSources walks the pristine tree counting every css attribute, so
// the generated classes line up with the renderer's assignment pass even
// when some attributes are blank.
func (b *base) styleSources(key string) []StyleSource {
	var out []StyleSource
	n := 0
	b.ast.Walk(func(node *htmlast.Node) bool {
		if node.Type != htmlast.ElementNode {
			return true
		}
		value, ok := node.GetAttribute("css")
		if !ok {
			return true
		}
		n++
		if strings.TrimSpace(value) == "" {
			return true
		}
		out = append(out, StyleSource{Class: styleClass(key, n), CSS: value})
		return true
	})
	return out
}

func styleClass(key string, n int) string {
	return fmt.Sprintf("%s_e%d", key, n)
}

// applyStyles assigns each css-bearing element its stylesheet class and
// strips the css attribute. Runs on a render clone before any structural
// mutation so the document-order counter matches styleSources.
func applyStyles(root *htmlast.Node, key string) {
	n := 0
	htmlast.Walk(root, func(node *htmlast.Node) bool {
		if node.Type != htmlast.ElementNode {
			return true
		}
		value, ok := node.GetAttribute("css")
		if !ok {
			return true
		}
		n++
		node.RemoveAttribute("css")
		if strings.TrimSpace(value) == "" {
			return true
		}
		class := styleClass(key, n)
		if existing, ok := node.GetAttribute("class"); ok && existing != "" {
			class = existing + " " + class
		}
		node.SetAttribute("class", class)
		return true
	})
}
