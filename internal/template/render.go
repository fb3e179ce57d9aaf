package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
	"github.com/frontsail/frontsail-sub000/internal/htmlast"
	"github.com/frontsail/frontsail-sub000/internal/jsexpr"
	"github.com/frontsail/frontsail-sub000/internal/pattern"
)

// renderer drives one render pass across template boundaries. It carries
// the visited-signature set that bounds include recursion and collects
// diagnostics tagged with the template that produced them.
type renderer struct {
	project ProjectView
	visited map[string]bool
	diags   []RenderDiagnostic
}

func newRenderer(project ProjectView) *renderer {
	return &renderer{project: project, visited: make(map[string]bool)}
}

func (r *renderer) addDiagnostic(templateID string, from, to int, format string, args ...any) {
	r.diags = append(r.diags, RenderDiagnostic{
		Diagnostic: diagnostics.Diagnostic{
			Message:  fmt.Sprintf(format, args...),
			Severity: diagnostics.SeverityError,
			From:     from,
			To:       to,
		},
		TemplateID: templateID,
	})
}

func (r *renderer) tagDiagnostics(templateID string, diags []diagnostics.Diagnostic) {
	for _, d := range diags {
		r.diags = append(r.diags, RenderDiagnostic{Diagnostic: d, TemplateID: templateID})
	}
}

// variables merges the supplied properties over the project globals.
func (r *renderer) variables(properties map[string]string) map[string]string {
	out := make(map[string]string, len(properties))
	if r.project != nil {
		for name, value := range r.project.Globals() {
			out[name] = value
		}
	}
	for name, value := range properties {
		out[name] = value
	}
	return out
}

// minify reports whether serialized output should be minified.
func (r *renderer) minify() bool {
	return r.project != nil && !r.project.Development()
}

// renderPage renders a page: resolve includes recursively, substitute
// mustaches, and serialize.
func (r *renderer) renderPage(p *Page, properties map[string]string) RenderResult {
	if p.ast.HasProblems(htmlast.CategorySyntax) {
		r.tagDiagnostics(p.ID(), p.ast.Diagnostics(0, htmlast.CategorySyntax))
		return RenderResult{Diagnostics: r.diags}
	}
	root := p.ast.Root().Clone()
	r.renderTree(p.ID(), p.slugKey(), root, r.variables(properties), true)
	return RenderResult{
		HTML:        htmlast.SerializeTree(root, r.minify()),
		Diagnostics: r.diags,
	}
}

// render renders a component directly. Directive text stays inline; the
// hoisted-reference form only applies when a page pulls the component in.
func (r *renderer) render(c *Component, properties map[string]string, content map[string][]*htmlast.Node, hoist bool) RenderResult {
	nodes := r.renderComponent(c, properties, content, hoist)
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(htmlast.SerializeTree(node, r.minify()))
	}
	return RenderResult{HTML: b.String(), Diagnostics: r.diags}
}

// renderComponent renders a clone of the component against properties and
// resolved outlet content, returning the rendered root nodes.
func (r *renderer) renderComponent(c *Component, properties map[string]string, content map[string][]*htmlast.Node, hoist bool) []*htmlast.Node {
	if c.ast.HasProblems(htmlast.CategorySyntax) {
		r.tagDiagnostics(c.ID(), c.ast.Diagnostics(0, htmlast.CategorySyntax))
		return nil
	}
	root := c.ast.Root().Clone()
	// Hoisting runs before injection so binding keys always match the
	// cached registration, which is generated from the component's own
	// tree. Injected directive expressions stay inline; they resolve
	// against the same data scope at runtime.
	if hoist {
		for _, child := range root.Children {
			if child.Type == htmlast.ElementNode {
				c.ApplyHoisting(child)
				break
			}
		}
	}
	htmlast.InjectContent(root, content)
	r.renderTree(c.ID(), c.DataKey(), root, r.variables(properties), hoist)
	return root.Children
}

// renderTree runs the per-unit render steps over a detached clone: assign
// stylesheet classes and strip css attributes, evaluate if attributes,
// capture include properties in the current scope, substitute mustaches,
// then resolve includes depth-first.
func (r *renderer) renderTree(templateID, styleKey string, root *htmlast.Node, variables map[string]string, hoist bool) {
	applyStyles(root, styleKey)
	r.applyConditions(templateID, root, variables)
	properties := captureIncludeProperties(root, variables)
	htmlast.ReplaceMustachesIn(root, variables)
	r.resolveIncludes(templateID, root, properties, hoist)
}

// applyConditions detaches elements whose if attribute evaluates false. A
// failed evaluation counts as false and records a runtime diagnostic.
func (r *renderer) applyConditions(templateID string, root *htmlast.Node, variables map[string]string) {
	htmlast.Walk(root, func(node *htmlast.Node) bool {
		if node.Type != htmlast.ElementNode {
			return true
		}
		attr := node.Attribute("if")
		if attr == nil {
			return true
		}
		valueFrom := attr.ValueFrom
		value := attr.Value
		node.RemoveAttribute("if")
		expr := jsexpr.New(value)
		if expr.HasProblems() {
			node.Detach()
			return false
		}
		result, ok := expr.Evaluate(variables)
		if !ok {
			r.tagDiagnostics(templateID, expr.Diagnostics(valueFrom, jsexpr.CategoryRuntime))
			node.Detach()
			return false
		}
		if !jsexpr.Truthy(result) {
			node.Detach()
			return false
		}
		return true
	})
}

// captureIncludeProperties resolves the property values every include
// passes on, substituting mustaches in the current scope without HTML
// escaping. Captured before the unit-wide mustache pass so property
// values cross the boundary unescaped.
func captureIncludeProperties(root *htmlast.Node, variables map[string]string) map[*htmlast.Node]map[string]string {
	out := make(map[*htmlast.Node]map[string]string)
	htmlast.Walk(root, func(node *htmlast.Node) bool {
		if !node.IsElement("include") {
			return true
		}
		properties := make(map[string]string)
		for _, attr := range node.Attributes {
			if isIncludeReserved(attr.Name) {
				continue
			}
			properties[attr.Name] = htmlast.SubstituteMustaches(attr.Value, variables)
		}
		out[node] = properties
		return true
	})
	return out
}

// resolveIncludes replaces every include under node with a recursive
// render of its referenced component, innermost includes first so injected
// content is fully rendered before it crosses into the component.
func (r *renderer) resolveIncludes(templateID string, node *htmlast.Node, properties map[*htmlast.Node]map[string]string, hoist bool) {
	for _, child := range append([]*htmlast.Node(nil), node.Children...) {
		if child.IsElement("include") {
			r.resolveIncludes(templateID, child, properties, hoist)
			r.resolveInclude(templateID, child, properties[child], hoist)
			continue
		}
		r.resolveIncludes(templateID, child, properties, hoist)
	}
}

func (r *renderer) resolveInclude(templateID string, include *htmlast.Node, properties map[string]string, hoist bool) {
	name, _ := include.GetAttribute("component")
	if r.project == nil || !pattern.IsComponentName(name) {
		include.Detach()
		return
	}
	component := r.project.ComponentByName(name)
	if component == nil {
		r.addDiagnostic(templateID, include.From, include.To,
			"Component '%s' does not exist.", name)
		include.Detach()
		return
	}
	content := resolveInjections(include)
	signature := renderSignature(name, properties, include.Children)
	if r.visited[signature] {
		r.addDiagnostic(templateID, include.From, include.To,
			"The component '%s' is included recursively.", name)
		include.Detach()
		return
	}
	r.visited[signature] = true
	nodes := r.renderComponent(component, properties, content, hoist)
	delete(r.visited, signature)
	include.ReplaceWith(nodes...)
}

// resolveInjections builds the outlet content map from an include's
// children: explicit inject elements by their into name, everything else
// as the implicit main injection. The first injection per outlet wins;
// duplicates are a lint problem, not a render problem.
func resolveInjections(include *htmlast.Node) map[string][]*htmlast.Node {
	content := make(map[string][]*htmlast.Node)
	var implicit []*htmlast.Node
	for _, child := range include.Children {
		switch {
		case child.IsElement("inject"):
			into, ok := child.GetAttribute("into")
			if !ok || into == "" {
				into = "main"
			}
			if _, exists := content[into]; !exists {
				content[into] = child.Children
			}
		case child.Type == htmlast.CommentNode:
		case child.Type == htmlast.TextNode && child.IsBlank():
		default:
			implicit = append(implicit, child)
		}
	}
	if len(implicit) > 0 {
		if _, exists := content["main"]; !exists {
			content["main"] = implicit
		}
	}
	return content
}

// renderSignature identifies one (component, properties, content) triple
// in the current render chain. Revisiting an identical triple cannot
// terminate, so the loop guard keys on it.
func renderSignature(name string, properties map[string]string, content []*htmlast.Node) string {
	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(name)
	for _, key := range keys {
		b.WriteString("\x00")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(properties[key])
	}
	b.WriteString("\x00")
	for _, node := range content {
		b.WriteString(htmlast.SerializeTree(node, false))
	}
	return b.String()
}
