// Package jsexpr parses, analyzes, evaluates, and rewrites the JS
// expression subset used by if attributes, mustache-adjacent directive
// bodies, and x-data object literals.
//
// Evaluation is performed by a dedicated interpreter over the parsed tree
// with a literal variable binding and no ambient scope of any kind; call
// expressions and declarations never execute. This is the safety contract
// behind the if-attribute check.
package jsexpr

import (
	"regexp"
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
)

// Category is a diagnostic category of the JS engine.
type Category string

const (
	CategorySyntax  Category = "syntax"
	CategoryRuntime Category = "runtime"
)

// Categories lists every category the JS engine emits into.
var Categories = []Category{CategorySyntax, CategoryRuntime}

// Expression is one parsed JS expression or directive body together with
// its diagnostics. It is immutable after construction apart from runtime
// diagnostics collected by Evaluate.
type Expression struct {
	raw       string
	directive bool
	root      Node
	diags     *diagnostics.Collection[Category]
}

// New parses raw in plain expression mode, where assignments are rejected.
func New(raw string) *Expression {
	return parse(raw, false)
}

// NewDirective parses raw in directive mode. Directive bodies may contain
// assignment expressions (event handlers mutate hoisted state) and object
// literals in leading position.
func NewDirective(raw string) *Expression {
	return parse(raw, true)
}

func parse(raw string, directive bool) *Expression {
	e := &Expression{
		raw:       raw,
		directive: directive,
		diags:     diagnostics.NewCollection(Categories...),
	}
	root, err := parseExpression(raw, directive)
	if err != nil {
		e.diags.Add(CategorySyntax, diagnostics.Diagnostic{
			Message:  err.msg,
			Severity: diagnostics.SeverityError,
			From:     err.from,
			To:       err.to,
		})
		return e
	}
	e.root = root
	return e
}

// Raw returns the unmodified expression text.
func (e *Expression) Raw() string { return e.raw }

// Root returns the parsed tree, or nil after a syntax error.
func (e *Expression) Root() Node { return e.root }

// HasProblems reports whether any diagnostics were collected under the
// given categories (all categories when none are named).
func (e *Expression) HasProblems(categories ...Category) bool {
	return e.diags.HasProblems(categories...)
}

// Diagnostics returns collected diagnostics with every range shifted by
// offset into the enclosing document's coordinate space.
func (e *Expression) Diagnostics(offset int, categories ...Category) []diagnostics.Diagnostic {
	return e.diags.GetWithOffset(offset, categories...)
}

// IsIfAttributeValue reports whether the expression is safe to evaluate as
// an if attribute: it parsed, and no node in the tree is a call expression
// or an assignment. Declarations never parse in expression position.
func (e *Expression) IsIfAttributeValue() bool {
	if e.root == nil {
		return false
	}
	safe := true
	Walk(e.root, func(n Node) bool {
		switch n.(type) {
		case *Call, *Assign:
			safe = false
			return false
		}
		return true
	})
	return safe
}

// IsObject reports whether the parsed tree is a single object literal, the
// shape x-data values must have.
func (e *Expression) IsObject() bool {
	root := e.root
	for {
		paren, ok := root.(*Paren)
		if !ok {
			break
		}
		root = paren.Inner
	}
	_, ok := root.(*Object)
	return ok
}

// ObjectKeys returns the literal (non-computed) property names of a
// top-level object literal, in declaration order.
func (e *Expression) ObjectKeys() []string {
	root := e.root
	for {
		paren, ok := root.(*Paren)
		if !ok {
			break
		}
		root = paren.Inner
	}
	obj, ok := root.(*Object)
	if !ok {
		return nil
	}
	var keys []string
	for _, prop := range obj.Properties {
		if prop.Computed {
			continue
		}
		switch key := prop.Key.(type) {
		case *Ident:
			keys = append(keys, key.Name)
		case *Literal:
			keys = append(keys, toString(key.Value))
		}
	}
	return keys
}

// Evaluate executes the expression against a literal variable binding.
// Every supplied variable is bound as a string constant; nothing else is in
// scope. A failed evaluation records one runtime diagnostic spanning the
// raw expression and returns (nil, false).
func (e *Expression) Evaluate(variables map[string]string) (any, bool) {
	if e.root == nil {
		return nil, false
	}
	ev := &evaluator{variables: variables}
	value, err := ev.eval(e.root)
	if err != nil {
		e.diags.Add(CategoryRuntime, diagnostics.Diagnostic{
			Message:  err.msg,
			Severity: diagnostics.SeverityError,
			From:     0,
			To:       len(e.raw),
		})
		return nil, false
	}
	return value, true
}

// GetIdentifiers returns every free identifier name referenced by the
// expression in tree order, deduplicated. Non-computed member properties
// and object literal keys are not references.
func (e *Expression) GetIdentifiers() []string {
	if e.root == nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, ref := range e.identRefs() {
		if !seen[ref.ident.Name] {
			seen[ref.ident.Name] = true
			names = append(names, ref.ident.Name)
		}
	}
	return names
}

// ParseForExpression parses `item in collection`, `item, index in
// collection`, and the parenthesized / `of` variants into its parts.
// It returns nil when text is not an iteration expression.
func ParseForExpression(text string) *ForExpression {
	match := forExpressionRe.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	return &ForExpression{
		Item:       match[1],
		Index:      match[2],
		Items:      match[3],
		Collection: strings.TrimSpace(match[4]),
	}
}

// ForExpression is a parsed x-for loop head. Index and Items are empty
// when the author did not name them.
type ForExpression struct {
	Item       string
	Index      string
	Items      string
	Collection string
}

// Names returns the loop-scoped variable names the head introduces.
func (f *ForExpression) Names() []string {
	names := []string{f.Item}
	if f.Index != "" {
		names = append(names, f.Index)
	}
	if f.Items != "" {
		names = append(names, f.Items)
	}
	return names
}

var forExpressionRe = regexp.MustCompile(
	`^\s*\(?\s*([A-Za-z_$][\w$]*)\s*(?:,\s*([A-Za-z_$][\w$]*)\s*)?(?:,\s*([A-Za-z_$][\w$]*)\s*)?\)?\s+(?:in|of)\s+(\S.*)$`)
