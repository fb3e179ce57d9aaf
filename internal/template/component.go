package template

import (
	"github.com/frontsail/frontsail-sub000/internal/errors"
	"github.com/frontsail/frontsail-sub000/internal/htmlast"
	"github.com/frontsail/frontsail-sub000/internal/pattern"
)

// Component is a reusable template unit identified by a slug path like
// `blog/article-card`. Components declare properties through mustache
// tags, expose outlets for content injection, and may carry reactive
// directives that get hoisted into generated registration scripts.
type Component struct {
	base

	name    string
	outlets []string

	// index is assigned by the owning project at registration time and
	// keys the production form of generated directive data.
	index int

	script *hoistResult
}

var _ Template = (*Component)(nil)

// NewComponent parses raw HTML into a component registered under name.
// An invalid name is a hard failure; malformed HTML is a soft syntax
// diagnostic on the returned component.
func NewComponent(name, raw string) (*Component, error) {
	if !pattern.IsComponentName(name) {
		return nil, errors.InvalidIdentifier("component name", name)
	}
	c := &Component{base: newBase(name, raw), index: -1}
	c.name = name
	c.outlets = c.ast.GetOutletNames()
	return c, nil
}

// Name returns the component name.
func (c *Component) Name() string { return c.name }

// PropertyNames returns the sorted property names the component declares
// through its mustache tags.
func (c *Component) PropertyNames() []string { return c.ast.GetPropertyNames() }

// OutletNames returns the outlet names declared in the component, in
// document order.
func (c *Component) OutletNames() []string {
	out := make([]string, len(c.outlets))
	copy(out, c.outlets)
	return out
}

// HasOutlet reports whether the component declares the named outlet.
func (c *Component) HasOutlet(name string) bool {
	for _, outlet := range c.outlets {
		if outlet == name {
			return true
		}
	}
	return false
}

// SetIndex assigns the project registration index used for production
// directive keys. It invalidates the hoisting cache.
func (c *Component) SetIndex(index int) {
	if c.index != index {
		c.index = index
		c.script = nil
	}
}

// Index returns the project registration index, or -1 when unregistered.
func (c *Component) Index() int { return c.index }

// Lint runs the named rule families, delegating HTML families to the AST
// and running component structural and dependency rules locally.
func (c *Component) Lint(categories ...Category) {
	c.lint(c.lintStructure, c.lintDependencies, categories)
}

func (c *Component) lintStructure() {
	roots := c.rootNodes()
	if len(roots) != 1 {
		c.addDiagnostic(CategoryStructure, 0, len(c.raw),
			"Components must have exactly one root node.")
		return
	}
	root := roots[0]
	if root.Type != htmlast.ElementNode {
		c.addDiagnostic(CategoryStructure, root.From, root.To,
			"The root node must be an HTML element.")
		return
	}
	if root.IsElement("template") {
		r := root.StartTagRange()
		c.addDiagnostic(CategoryStructure, r.From, r.To,
			"Components cannot have a template root element.")
	}
	if root.IsElement("outlet") {
		r := root.StartTagRange()
		c.addDiagnostic(CategoryStructure, r.From, r.To,
			"Outlets cannot be root nodes.")
	}
	for _, name := range []string{"x-if", "x-for"} {
		if root.HasAttribute(name) {
			r := c.ast.GetAttributeNameRange(root, name)
			c.addDiagnostic(CategoryStructure, r.From, r.To,
				"The %s directive is not allowed on the root element.", name)
		}
	}
	c.ast.Walk(func(node *htmlast.Node) bool {
		if node.Type == htmlast.ElementNode && node != root && node.HasAttribute("x-data") {
			r := c.ast.GetAttributeNameRange(node, "x-data")
			c.addDiagnostic(CategoryStructure, r.From, r.To,
				"The x-data directive is only allowed on the root element.")
		}
		return true
	})
}

// Render renders the component standalone with the given properties. A
// project-registered component additionally resolves globals and nested
// includes.
func (c *Component) Render(properties map[string]string) RenderResult {
	r := newRenderer(c.project)
	return r.render(c, properties, nil, false)
}
