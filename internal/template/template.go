// Package template implements the Template/Component/Page object model:
// one HTML AST per template unit plus dependency extraction, cross-cutting
// structural rules, directive-hoisting code generation, and the recursive
// render algorithm.
package template

import (
	"fmt"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
	"github.com/frontsail/frontsail-sub000/internal/htmlast"
	"github.com/frontsail/frontsail-sub000/internal/pattern"
)

// Category is a diagnostic category of the template layer. It is a
// superset of the HTML engine's categories so HTML-specific linting can be
// delegated and merged by name.
type Category string

const (
	CategorySyntax       Category = "syntax"
	CategoryAttributes   Category = "attributes"
	CategoryIf           Category = "if"
	CategoryIncludes     Category = "includes"
	CategoryInjects      Category = "injects"
	CategoryOutlets      Category = "outlets"
	CategoryMustaches    Category = "mustaches"
	CategoryDirectives   Category = "directives"
	CategoryStructure    Category = "structure"
	CategoryDependencies Category = "dependencies"
)

// Categories lists every category of the template layer.
var Categories = []Category{
	CategorySyntax, CategoryAttributes, CategoryIf, CategoryIncludes,
	CategoryInjects, CategoryOutlets, CategoryMustaches, CategoryDirectives,
	CategoryStructure, CategoryDependencies,
}

// delegatedCategories are handled by the HTML engine.
var delegatedCategories = []Category{
	CategorySyntax, CategoryAttributes, CategoryIf, CategoryIncludes,
	CategoryInjects, CategoryOutlets, CategoryMustaches, CategoryDirectives,
}

// ProjectView is the read-only project surface templates use for
// dependency rules and rendering. The project owns its templates; the
// back-reference is weak and may be nil for standalone units.
type ProjectView interface {
	// HasComponent reports whether a component is registered under name.
	HasComponent(name string) bool
	// ComponentByName returns the registered component, or nil.
	ComponentByName(name string) *Component
	// Globals returns the project-wide variable mapping.
	Globals() map[string]string
	// Development reports whether the project builds in development mode.
	Development() bool
}

// Template is the capability set shared by the Component and Page
// variants.
type Template interface {
	// ID returns the unit's identifier: a component name or a page path.
	ID() string
	// Raw returns the raw HTML source.
	Raw() string
	// AST returns the owned HTML tree.
	AST() *htmlast.AST
	// Dependencies returns the sorted direct dependency component names.
	Dependencies() []string
	// Lint runs the named rule families (all when none are given).
	Lint(categories ...Category)
	// Diagnostics returns collected diagnostics for the named categories.
	Diagnostics(categories ...Category) []diagnostics.Diagnostic
	// HasProblems reports whether diagnostics exist for the categories.
	HasProblems(categories ...Category) bool
	// Render renders the unit against the supplied properties.
	Render(properties map[string]string) RenderResult
}

// RenderDiagnostic is a diagnostic tagged with the template that produced
// it, since a render crosses template boundaries.
type RenderDiagnostic struct {
	diagnostics.Diagnostic
	TemplateID string `json:"templateId" yaml:"templateId"`
}

// RenderResult is the outcome of one render pass.
type RenderResult struct {
	HTML        string
	Diagnostics []RenderDiagnostic
}

// base carries the state shared by both template variants. Templates are
// immutable value objects: an update replaces the whole unit inside the
// project.
type base struct {
	id           string
	raw          string
	ast          *htmlast.AST
	project      ProjectView
	dependencies []string
	diags        *diagnostics.Collection[Category]
}

func newBase(id, raw string) base {
	ast := htmlast.Parse(raw)
	return base{
		id:           id,
		raw:          raw,
		ast:          ast,
		dependencies: ast.GetDependencies(),
		diags:        diagnostics.NewCollection(Categories...),
	}
}

func (b *base) ID() string             { return b.id }
func (b *base) Raw() string            { return b.raw }
func (b *base) AST() *htmlast.AST      { return b.ast }
func (b *base) Dependencies() []string { return b.dependencies }

// AttachProject sets the weak back-reference used by dependency rules and
// rendering.
func (b *base) AttachProject(view ProjectView) { b.project = view }

// Diagnostics returns collected diagnostics for the named categories (all
// when none are given). Offsets are relative to the unit's raw source.
func (b *base) Diagnostics(categories ...Category) []diagnostics.Diagnostic {
	return b.diags.Get(categories...)
}

// HasProblems reports whether diagnostics exist under the named
// categories.
func (b *base) HasProblems(categories ...Category) bool {
	return b.diags.HasProblems(categories...)
}

// lint delegates HTML rule families to the AST and runs the given
// template-level structural hook for the structure category.
func (b *base) lint(structural func(), dependency func(), categories []Category) {
	if len(categories) == 0 {
		categories = Categories
	}
	var delegated []Category
	for _, category := range categories {
		switch category {
		case CategoryStructure:
			b.diags.Clear(CategoryStructure)
			if !b.ast.HasProblems(htmlast.CategorySyntax) {
				structural()
			}
		case CategoryDependencies:
			b.diags.Clear(CategoryDependencies)
			if !b.ast.HasProblems(htmlast.CategorySyntax) && b.project != nil {
				dependency()
			}
		default:
			b.diags.Clear(category)
			delegated = append(delegated, category)
		}
	}
	diagnostics.DelegateLint(b.diags, b.ast, 0, delegated...)
}

func (b *base) addDiagnostic(category Category, from, to int, format string, args ...any) {
	b.diags.Add(category, diagnostics.Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Severity: diagnostics.SeverityError,
		From:     from,
		To:       to,
	})
}

// rootNodes returns the significant root nodes: elements and non-blank
// text.
func (b *base) rootNodes() []*htmlast.Node {
	var out []*htmlast.Node
	for _, node := range b.ast.RootNodes() {
		switch node.Type {
		case htmlast.ElementNode:
			out = append(out, node)
		case htmlast.TextNode:
			if !node.IsBlank() {
				out = append(out, node)
			}
		}
	}
	return out
}

// lintDependencies runs the rules that need a project lookup: referenced
// components must exist, include attributes must be declared properties,
// and injected outlets must exist on the referenced component.
func (b *base) lintDependencies() {
	for _, include := range b.ast.FindElements("include", nil, -1) {
		attr := include.Attribute("component")
		if attr == nil || !pattern.IsComponentName(attr.Value) {
			continue
		}
		name := attr.Value
		referenced := b.project.ComponentByName(name)
		if referenced == nil {
			b.addDiagnostic(CategoryDependencies, attr.ValueFrom, attr.ValueTo,
				"Component '%s' does not exist.", name)
			continue
		}
		declared := make(map[string]bool)
		for _, property := range referenced.PropertyNames() {
			declared[property] = true
		}
		for _, incAttr := range include.Attributes {
			if isIncludeReserved(incAttr.Name) {
				continue
			}
			if !declared[incAttr.Name] {
				b.addDiagnostic(CategoryDependencies, incAttr.NameFrom, incAttr.NameTo,
					"Component '%s' does not have a property '%s'.", name, incAttr.Name)
			}
		}
		hasImplicit := false
		for _, child := range include.Children {
			switch {
			case child.IsElement("inject"):
				into, ok := child.GetAttribute("into")
				if !ok {
					into = "main"
				}
				if !referenced.HasOutlet(into) {
					r := b.ast.GetAttributeValueRange(child, "into")
					if r.From == 0 && r.To == 0 {
						r = child.StartTagRange()
					}
					b.addDiagnostic(CategoryDependencies, r.From, r.To,
						"Component '%s' does not have an outlet '%s'.", name, into)
				}
			case child.Type == htmlast.CommentNode || child.IsBlank():
			default:
				hasImplicit = true
			}
		}
		if hasImplicit && !referenced.HasOutlet("main") {
			r := include.StartTagRange()
			b.addDiagnostic(CategoryDependencies, r.From, r.To,
				"Component '%s' does not have a 'main' outlet.", name)
		}
	}
}

func isIncludeReserved(name string) bool {
	switch name {
	case "component", "if", "css":
		return true
	}
	return htmlast.IsDirectiveAttribute(name)
}
