package htmlast

import (
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
	"github.com/frontsail/frontsail-sub000/internal/jsexpr"
	"github.com/frontsail/frontsail-sub000/internal/pattern"
)

// IsDirectiveAttribute reports whether name is a reactive directive,
// including the `@event` and `:bound-attribute` shorthands.
func IsDirectiveAttribute(name string) bool {
	return strings.HasPrefix(name, "x-") ||
		strings.HasPrefix(name, "@") ||
		strings.HasPrefix(name, ":")
}

// mustacheForbiddenAttributes are non-directive attributes whose values
// may not contain mustache syntax.
var mustacheForbiddenAttributes = map[string]bool{
	"if": true, "css": true, "component": true, "into": true, "name": true,
}

// StartTagRange returns the source range of an element's start tag.
func (n *Node) StartTagRange() diagnostics.Range {
	return diagnostics.Range{From: n.From, To: n.From + len(n.rawStart)}
}

// Lint runs the named rule families, each clearing and refilling its own
// diagnostic category. Unrecognized names are ignored; with no arguments
// every family runs. Linting is a no-op while a syntax diagnostic is
// present.
func (a *AST) Lint(categories ...string) {
	if a.root == nil {
		return
	}
	if len(categories) == 0 {
		for _, cat := range Categories {
			if cat != CategorySyntax {
				categories = append(categories, string(cat))
			}
		}
	}
	for _, category := range categories {
		switch Category(category) {
		case CategoryAttributes:
			a.diags.Clear(CategoryAttributes)
			a.lintAttributes()
		case CategoryIf:
			a.diags.Clear(CategoryIf)
			a.lintIfAttributes()
		case CategoryIncludes:
			a.diags.Clear(CategoryIncludes)
			a.lintIncludes()
		case CategoryInjects:
			a.diags.Clear(CategoryInjects)
			a.lintInjects()
		case CategoryOutlets:
			a.diags.Clear(CategoryOutlets)
			a.lintOutlets()
		case CategoryMustaches:
			a.diags.Clear(CategoryMustaches)
			a.lintMustaches()
		case CategoryDirectives:
			a.diags.Clear(CategoryDirectives)
			a.lintDirectives()
		}
	}
}

// CollectDiagnostics implements diagnostics.Owner.
func (a *AST) CollectDiagnostics(categories ...string) map[string][]diagnostics.Diagnostic {
	cats := make([]Category, len(categories))
	for i, category := range categories {
		cats[i] = Category(category)
	}
	return a.diags.ByCategory(cats...)
}

// Recognizes implements diagnostics.Owner.
func (a *AST) Recognizes(category string) bool {
	return a.diags.Has(Category(category))
}

func (a *AST) lintAttributes() {
	a.Walk(func(n *Node) bool {
		if n.Type != ElementNode {
			return true
		}
		for _, attr := range n.Attributes {
			switch {
			case strings.Contains(attr.Name, "{{"):
				a.addDiagnostic(CategoryAttributes, diagnostics.SeverityError,
					attr.NameFrom, attr.NameTo,
					"Mustache syntax is not allowed in attribute names.")
			case !pattern.IsAttributeName(attr.Name):
				a.addDiagnostic(CategoryAttributes, diagnostics.SeverityError,
					attr.NameFrom, attr.NameTo,
					"Invalid attribute name '%s'.", attr.Name)
			}
		}
		return true
	})
}

func (a *AST) lintIfAttributes() {
	properties := make(map[string]string)
	for _, name := range a.GetPropertyNames() {
		properties[name] = ""
	}
	a.Walk(func(n *Node) bool {
		if n.Type != ElementNode {
			return true
		}
		attr := n.Attribute("if")
		if attr == nil {
			return true
		}
		if n.Tag == "outlet" {
			a.addDiagnostic(CategoryIf, diagnostics.SeverityError,
				attr.NameFrom, attr.NameTo,
				"If attributes are not allowed on outlets.")
			return true
		}
		if strings.TrimSpace(attr.Value) == "" {
			a.addDiagnostic(CategoryIf, diagnostics.SeverityError,
				attr.NameFrom, attr.NameTo,
				"The if attribute value cannot be empty.")
			return true
		}
		expr := jsexpr.New(attr.Value)
		if expr.HasProblems(jsexpr.CategorySyntax) {
			a.diags.Add(CategoryIf, expr.Diagnostics(attr.ValueFrom, jsexpr.CategorySyntax)...)
			return true
		}
		if !expr.IsIfAttributeValue() {
			a.addDiagnostic(CategoryIf, diagnostics.SeverityError,
				attr.ValueFrom, attr.ValueTo,
				"Call expressions and declarations are not allowed in if attributes.")
			return true
		}
		if _, ok := expr.Evaluate(properties); !ok {
			a.diags.Add(CategoryIf, expr.Diagnostics(attr.ValueFrom, jsexpr.CategoryRuntime)...)
		}
		return true
	})
}

func (a *AST) lintIncludes() {
	for _, include := range a.FindElements("include", nil, -1) {
		component := include.Attribute("component")
		if component == nil {
			r := include.StartTagRange()
			a.addDiagnostic(CategoryIncludes, diagnostics.SeverityError,
				r.From, r.To, "Missing 'component' attribute.")
		} else if !pattern.IsComponentName(component.Value) {
			a.addDiagnostic(CategoryIncludes, diagnostics.SeverityError,
				component.ValueFrom, component.ValueTo,
				"Invalid component name '%s'.", component.Value)
		}
		for _, attr := range include.Attributes {
			if attr.Name == "component" || attr.Name == "if" || attr.Name == "css" ||
				IsDirectiveAttribute(attr.Name) {
				continue
			}
			if !pattern.IsPropertyName(attr.Name) {
				a.addDiagnostic(CategoryIncludes, diagnostics.SeverityError,
					attr.NameFrom, attr.NameTo,
					"Invalid property name '%s'.", attr.Name)
			}
		}
	}
}

func (a *AST) lintInjects() {
	for _, include := range a.FindElements("include", nil, -1) {
		var hasInjects bool
		for _, child := range include.Children {
			if child.IsElement("inject") {
				hasInjects = true
				break
			}
		}
		if !hasInjects {
			continue
		}
		seen := make(map[string]bool)
		for _, child := range include.Children {
			switch {
			case child.IsElement("inject"):
				into := child.Attribute("into")
				name := "main"
				if into != nil {
					name = into.Value
				}
				if into != nil && !pattern.IsOutletName(into.Value) {
					a.addDiagnostic(CategoryInjects, diagnostics.SeverityError,
						into.ValueFrom, into.ValueTo,
						"Invalid outlet name '%s'.", into.Value)
					continue
				}
				if seen[name] {
					r := child.StartTagRange()
					a.addDiagnostic(CategoryInjects, diagnostics.SeverityError,
						r.From, r.To, "Duplicate injection into outlet '%s'.", name)
					continue
				}
				seen[name] = true
			case child.IsBlank() || child.Type == CommentNode:
				// Whitespace between injects is fine.
			default:
				a.addDiagnostic(CategoryInjects, diagnostics.SeverityError,
					child.From, child.To,
					"Mixing injects with other content is not allowed.")
			}
		}
	}
	// Injects outside an include.
	a.Walk(func(n *Node) bool {
		if n.IsElement("inject") && (n.Parent == nil || !n.Parent.IsElement("include")) {
			r := n.StartTagRange()
			a.addDiagnostic(CategoryInjects, diagnostics.SeverityError,
				r.From, r.To, "Inject elements must be direct children of an include.")
		}
		return true
	})
}

func (a *AST) lintOutlets() {
	seen := make(map[string]bool)
	for _, outlet := range a.FindElements("outlet", nil, -1) {
		name := outlet.Attribute("name")
		resolved := outletName(outlet)
		if name != nil && !pattern.IsOutletName(name.Value) {
			a.addDiagnostic(CategoryOutlets, diagnostics.SeverityError,
				name.ValueFrom, name.ValueTo,
				"Invalid outlet name '%s'.", name.Value)
			continue
		}
		for ancestor := outlet.Parent; ancestor != nil; ancestor = ancestor.Parent {
			if ancestor.IsElement("outlet") || ancestor.IsElement("include") {
				r := outlet.StartTagRange()
				a.addDiagnostic(CategoryOutlets, diagnostics.SeverityError,
					r.From, r.To,
					"Outlets cannot be nested in %s elements.", ancestor.Tag)
				break
			}
		}
		if seen[resolved] {
			r := outlet.StartTagRange()
			a.addDiagnostic(CategoryOutlets, diagnostics.SeverityError,
				r.From, r.To, "Duplicate outlet name '%s'.", resolved)
		}
		seen[resolved] = true
	}
}

func (a *AST) lintMustaches() {
	a.Walk(func(n *Node) bool {
		switch n.Type {
		case TextNode:
			for _, tag := range ScanMustaches(n.Text, n.From) {
				a.lintMustacheVariable(tag)
			}
		case ElementNode:
			for _, attr := range n.Attributes {
				tags := ScanMustaches(attr.Value, attr.ValueFrom)
				if len(tags) == 0 {
					continue
				}
				if IsDirectiveAttribute(attr.Name) || mustacheForbiddenAttributes[attr.Name] {
					a.addDiagnostic(CategoryMustaches, diagnostics.SeverityError,
						attr.ValueFrom, attr.ValueTo,
						"Mustache syntax is not allowed in '%s' attribute values.", attr.Name)
					continue
				}
				for _, tag := range tags {
					a.lintMustacheVariable(tag)
				}
			}
		}
		return true
	})
}

func (a *AST) lintMustacheVariable(tag MustacheTag) {
	if pattern.IsPropertyName(tag.Variable) || pattern.IsGlobalName(tag.Variable) {
		return
	}
	a.addDiagnostic(CategoryMustaches, diagnostics.SeverityError,
		tag.From, tag.To, "Invalid variable name '%s'.", tag.Variable)
}

func (a *AST) lintDirectives() {
	a.Walk(func(n *Node) bool {
		if n.Type != ElementNode {
			return true
		}
		for _, attr := range n.Attributes {
			if !IsDirectiveAttribute(attr.Name) {
				continue
			}
			switch {
			case attr.Name == "x-for":
				if jsexpr.ParseForExpression(attr.Value) == nil {
					a.addDiagnostic(CategoryDirectives, diagnostics.SeverityError,
						attr.ValueFrom, attr.ValueTo,
						"Invalid x-for expression.")
				}
			case attr.Quote == 0 && attr.Value == "":
				// Valueless directives like x-cloak.
			default:
				expr := jsexpr.NewDirective(attr.Value)
				if expr.HasProblems(jsexpr.CategorySyntax) {
					a.diags.Add(CategoryDirectives, expr.Diagnostics(attr.ValueFrom, jsexpr.CategorySyntax)...)
					continue
				}
				if attr.Name == "x-data" && !expr.IsObject() {
					a.addDiagnostic(CategoryDirectives, diagnostics.SeverityError,
						attr.ValueFrom, attr.ValueTo,
						"The x-data value must be an object literal.")
				}
			}
		}
		return true
	})
}

// ifAttributeIdentifiers returns the free identifiers of an if attribute
// value, or nil when it does not parse.
func ifAttributeIdentifiers(value string) []string {
	return jsexpr.New(value).GetIdentifiers()
}
