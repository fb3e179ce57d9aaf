package template

import (
	"fmt"
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/errors"
	"github.com/frontsail/frontsail-sub000/internal/htmlast"
	"github.com/frontsail/frontsail-sub000/internal/pattern"
)

// Page is a routable template unit identified by an absolute path like
// `/blog/hello-world`. Pages compose components through includes; they
// declare no outlets and carry no hoisted directive data of their own.
type Page struct {
	base

	path string

	// index is assigned by the owning project at registration time and
	// keys the production form of generated stylesheet classes.
	index int
}

var _ Template = (*Page)(nil)

// NewPage parses raw HTML into a page registered under path. An invalid
// path is a hard failure; malformed HTML is a soft syntax diagnostic on
// the returned page.
func NewPage(path, raw string) (*Page, error) {
	if !pattern.IsPagePath(path) {
		return nil, errors.InvalidIdentifier("page path", path)
	}
	p := &Page{base: newBase(path, raw), index: -1}
	p.path = path
	return p, nil
}

// Path returns the page path.
func (p *Page) Path() string { return p.path }

// SetIndex assigns the project registration index used for production
// stylesheet classes.
func (p *Page) SetIndex(index int) { p.index = index }

// Index returns the project registration index, or -1 when unregistered.
func (p *Page) Index() int { return p.index }

// slugKey returns the key the page's generated stylesheet classes hang
// off: a readable camelCase slug in development, a compact indexed key in
// production.
func (p *Page) slugKey() string {
	if p.project != nil && !p.project.Development() && p.index >= 0 {
		return fmt.Sprintf("p%d", p.index)
	}
	key := camelCaseKey(p.path)
	if key == "" || strings.Contains(key, "/") {
		return "index"
	}
	return key
}

// Lint runs the named rule families, delegating HTML families to the AST
// and running page structural and dependency rules locally.
func (p *Page) Lint(categories ...Category) {
	p.lint(p.lintStructure, p.lintDependencies, categories)
}

func (p *Page) lintStructure() {
	p.walkWithIncludeScope(func(node *htmlast.Node, insideInclude bool) {
		if node.IsElement("outlet") {
			r := node.StartTagRange()
			p.addDiagnostic(CategoryStructure, r.From, r.To,
				"Outlets cannot be used in pages.")
		}
		for _, attr := range node.Attributes {
			if attr.Name == "x-data" {
				r := p.ast.GetAttributeNameRange(node, attr.Name)
				p.addDiagnostic(CategoryStructure, r.From, r.To,
					"The x-data directive cannot be used in pages.")
				continue
			}
			if htmlast.IsDirectiveAttribute(attr.Name) && !insideInclude {
				r := p.ast.GetAttributeNameRange(node, attr.Name)
				p.addDiagnostic(CategoryStructure, r.From, r.To,
					"Reactive directives in pages can only be used on include elements and their contents.")
			}
		}
	})
}

// walkWithIncludeScope visits every element in document order, flagging
// whether the element sits on or below an `<include>`.
func (p *Page) walkWithIncludeScope(fn func(node *htmlast.Node, insideInclude bool)) {
	var visit func(node *htmlast.Node, inside bool)
	visit = func(node *htmlast.Node, inside bool) {
		if node.Type == htmlast.ElementNode {
			if node.IsElement("include") {
				inside = true
			}
			fn(node, inside)
		}
		for _, child := range node.Children {
			visit(child, inside)
		}
	}
	if root := p.ast.Root(); root != nil {
		visit(root, false)
	}
}

// Render renders the page with the given properties merged over project
// globals.
func (p *Page) Render(properties map[string]string) RenderResult {
	r := newRenderer(p.project)
	return r.renderPage(p, properties)
}
