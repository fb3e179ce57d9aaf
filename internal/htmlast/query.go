package htmlast

import (
	"regexp"
	"sort"
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
	"github.com/frontsail/frontsail-sub000/internal/pattern"
)

// mustacheRe matches `{{ expr }}` non-greedily with trimmed contents.
var mustacheRe = regexp.MustCompile(`\{\{\s*(.*?)\s*\}\}`)

// MustacheTag is one `{{ name }}` occurrence: raw text, the extracted
// variable name, and its source range.
type MustacheTag struct {
	Raw      string
	Variable string
	From     int
	To       int
}

// Walk visits node and its descendants depth-first in document order.
// Returning false from fn skips the node's subtree.
func Walk(node *Node, fn func(*Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	// The child list is copied so fn may detach or replace the current
	// children while walking.
	children := make([]*Node, len(node.Children))
	copy(children, node.Children)
	for _, child := range children {
		Walk(child, fn)
	}
}

// Walk visits every node of the tree in document order.
func (a *AST) Walk(fn func(*Node) bool) {
	if a.root == nil {
		return
	}
	for _, child := range a.root.Children {
		Walk(child, fn)
	}
}

// FindElements returns elements in depth-first document order. Tag `*`
// matches any element; filter is exact-match equality on attribute
// name→value pairs; limit < 0 means no limit.
func (a *AST) FindElements(tag string, filter map[string]string, limit int) []*Node {
	var out []*Node
	a.Walk(func(n *Node) bool {
		if limit >= 0 && len(out) >= limit {
			return false
		}
		if n.Type != ElementNode {
			return true
		}
		if tag != "*" && n.Tag != tag {
			return true
		}
		for name, value := range filter {
			if actual, ok := n.GetAttribute(name); !ok || actual != value {
				return true
			}
		}
		out = append(out, n)
		return true
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetMustaches scans the raw source for mustache tags. The scan is
// repeated per call; templates are small and an incremental cache is not
// worth carrying.
func (a *AST) GetMustaches() []MustacheTag {
	if a.root == nil {
		return nil
	}
	return ScanMustaches(a.raw, 0)
}

// ScanMustaches extracts mustache tags from text, shifting ranges by
// offset into the enclosing document's coordinate space.
func ScanMustaches(text string, offset int) []MustacheTag {
	var out []MustacheTag
	for _, loc := range mustacheRe.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, MustacheTag{
			Raw:      text[loc[0]:loc[1]],
			Variable: text[loc[2]:loc[3]],
			From:     offset + loc[0],
			To:       offset + loc[1],
		})
	}
	return out
}

// GetAttributeNameRange returns the exact source range of the named
// attribute's name on element, or a zero range if absent.
func (a *AST) GetAttributeNameRange(element *Node, name string) diagnostics.Range {
	if attr := element.Attribute(name); attr != nil {
		return diagnostics.Range{From: attr.NameFrom, To: attr.NameTo}
	}
	return diagnostics.Range{}
}

// GetAttributeValueRange returns the exact source range of the named
// attribute's value on element, excluding surrounding quote characters,
// or a zero range if absent.
func (a *AST) GetAttributeValueRange(element *Node, name string) diagnostics.Range {
	if attr := element.Attribute(name); attr != nil {
		return diagnostics.Range{From: attr.ValueFrom, To: attr.ValueTo}
	}
	return diagnostics.Range{}
}

// GetPropertyNames returns every property name the fragment references:
// property-shaped mustache variables, identifiers of if attributes, and
// non-reserved attribute names on include elements. Sorted and
// deduplicated.
func (a *AST) GetPropertyNames() []string {
	if a.root == nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, tag := range a.GetMustaches() {
		if pattern.IsPropertyName(tag.Variable) {
			seen[tag.Variable] = true
		}
	}
	a.Walk(func(n *Node) bool {
		if n.Type != ElementNode {
			return true
		}
		if value, ok := n.GetAttribute("if"); ok {
			for _, name := range ifAttributeIdentifiers(value) {
				if pattern.IsPropertyName(name) {
					seen[name] = true
				}
			}
		}
		if n.Tag == "include" {
			for _, attr := range n.Attributes {
				if !isReservedIncludeAttribute(attr.Name) && pattern.IsPropertyName(attr.Name) {
					seen[attr.Name] = true
				}
			}
		}
		return true
	})
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GetDependencies returns the syntactically valid component names
// referenced by include elements, deduplicated and sorted.
func (a *AST) GetDependencies() []string {
	seen := make(map[string]bool)
	for _, include := range a.FindElements("include", nil, -1) {
		if name, ok := include.GetAttribute("component"); ok && pattern.IsComponentName(name) {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GetOutletNames returns the valid outlet names declared in the fragment,
// deduplicated and sorted.
func (a *AST) GetOutletNames() []string {
	seen := make(map[string]bool)
	for _, outlet := range a.FindElements("outlet", nil, -1) {
		name := outletName(outlet)
		if pattern.IsOutletName(name) {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// outletName resolves an outlet element's name, defaulting to `main`.
func outletName(outlet *Node) string {
	if name, ok := outlet.GetAttribute("name"); ok && name != "" {
		return name
	}
	return "main"
}

func isReservedIncludeAttribute(name string) bool {
	switch name {
	case "component", "if", "css":
		return true
	}
	return strings.HasPrefix(name, "x-")
}
