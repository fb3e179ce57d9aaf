package template

import (
	"fmt"
	"hash/crc32"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/frontsail/frontsail-sub000/internal/htmlast"
	"github.com/frontsail/frontsail-sub000/internal/jsexpr"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var titleCaser = cases.Title(language.English)

// hoistResult caches one directive-hoisting pass.
type hoistResult struct {
	checksum uint32
	script   string
}

// hoistEntry is one hoisted directive binding. Event handlers become
// methods, everything else becomes a getter.
type hoistEntry struct {
	key    string
	value  string
	method bool
}

// DataKey returns the key the component's hoisted directive data is
// registered under: a readable camelCase slug in development, a compact
// indexed key in production.
func (c *Component) DataKey() string {
	if c.project != nil && !c.project.Development() && c.index >= 0 {
		return fmt.Sprintf("c%d", c.index)
	}
	return camelCaseKey(c.name)
}

// camelCaseKey turns a component name like `blog/article-card` into a
// readable data key like `blogArticleCard`.
func camelCaseKey(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '/' || r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		b.WriteString(titleCaser.String(part))
	}
	return b.String()
}

// HasDirectives reports whether the component carries any reactive
// directive attributes.
func (c *Component) HasDirectives() bool {
	found := false
	c.ast.Walk(func(node *htmlast.Node) bool {
		for _, attr := range node.Attributes {
			if htmlast.IsDirectiveAttribute(attr.Name) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// ResolveAlpineData generates the registration block for the component's
// hoisted directive data: the root's declared x-data properties plus one
// binding per hoisted directive expression. The result is cached by a
// checksum over the assigned index, the data key, and the raw source, so
// repeated builds of an unchanged component skip the whole pass.
func (c *Component) ResolveAlpineData() string {
	if !c.HasDirectives() {
		return ""
	}
	sum := crc32.Checksum([]byte(fmt.Sprintf("%d\x00%s\x00%s", c.index, c.DataKey(), c.raw)), castagnoli)
	if c.script != nil && c.script.checksum == sum {
		return c.script.script
	}
	roots := c.ast.RootElements()
	if len(roots) != 1 {
		return ""
	}
	clone := roots[0].Clone()
	dataProps, entries := c.hoist(clone)
	script := buildRegistration(c.DataKey(), dataProps, entries)
	c.script = &hoistResult{checksum: sum, script: script}
	return script
}

// ApplyHoisting rewrites directive attributes on root, a detached clone of
// the component's root element, into their hoisted-reference form: the
// root's x-data value becomes the registration key, structural directives
// move onto synthetic <template> wrappers, and every other directive value
// is replaced by its binding key.
func (c *Component) ApplyHoisting(root *htmlast.Node) {
	if !c.HasDirectives() {
		return
	}
	c.hoist(root)
}

// hoist runs the directive-hoisting pass over root, mutating it in place,
// and returns the declared x-data property text plus the generated
// bindings. The traversal is deterministic, so running it on the cached
// script clone and on a render clone yields matching binding keys.
func (c *Component) hoist(root *htmlast.Node) (string, []hoistEntry) {
	dataProps, dataKeys := parseDataObject(root)
	root.SetAttribute("x-data", c.DataKey())
	h := &hoister{dataKeys: dataKeys}
	h.hoistElement(root, nil, true)
	return dataProps, h.entries
}

// parseDataObject extracts the property text and key names of the root's
// x-data object literal. Invalid literals are reported by the directives
// lint family and yield an empty data object here.
func parseDataObject(root *htmlast.Node) (string, []string) {
	value, ok := root.GetAttribute("x-data")
	if !ok || strings.TrimSpace(value) == "" {
		return "", nil
	}
	expr := jsexpr.NewDirective(value)
	if expr.HasProblems() || !expr.IsObject() {
		return "", nil
	}
	node := expr.Root()
	for {
		paren, isParen := node.(*jsexpr.Paren)
		if !isParen {
			break
		}
		node = paren.Inner
	}
	obj := node.(*jsexpr.Object)
	inner := strings.TrimSpace(value[obj.From+1 : obj.To-1])
	return strings.TrimSuffix(inner, ","), expr.ObjectKeys()
}

type hoister struct {
	dataKeys []string
	entries  []hoistEntry
	next     int
}

// targets returns the data keys not shadowed by enclosing loop scopes.
func (h *hoister) targets(scoped map[string]bool) []string {
	var out []string
	for _, key := range h.dataKeys {
		if !scoped[key] {
			out = append(out, key)
		}
	}
	return out
}

// hoistElement processes one element and its subtree. scoped carries the
// loop variable names introduced by enclosing x-for heads; isRoot
// suppresses structural wrapping and x-data handling on the root element.
func (h *hoister) hoistElement(el *htmlast.Node, scoped map[string]bool, isRoot bool) {
	if el.Type == htmlast.ElementNode {
		if !isRoot {
			scoped = h.hoistStructural(el, scoped)
		}
		h.hoistBindings(el, scoped)
	}
	for _, child := range append([]*htmlast.Node(nil), el.Children...) {
		h.hoistElement(child, scoped, false)
	}
}

// hoistStructural moves x-for and x-if onto <template> hosts (wrapping the
// element when it is not already a template), rewrites the x-for head, and
// hoists the x-if condition. It returns the loop scope for the subtree.
func (h *hoister) hoistStructural(el *htmlast.Node, scoped map[string]bool) map[string]bool {
	for _, name := range []string{"x-for", "x-if"} {
		value, ok := el.GetAttribute(name)
		if !ok {
			continue
		}
		host := el
		if !el.IsElement("template") && el.Parent != nil {
			wrapper := &htmlast.Node{Type: htmlast.ElementNode, Tag: "template"}
			el.ReplaceWith(wrapper)
			wrapper.AppendChild(el)
			el.RemoveAttribute(name)
			host = wrapper
		}
		switch name {
		case "x-for":
			forExpr := jsexpr.ParseForExpression(value)
			if forExpr == nil {
				host.SetAttribute(name, value)
				continue
			}
			collection := jsexpr.NewDirective(forExpr.Collection)
			rewritten := collection.AddThis(h.targets(scoped))
			host.SetAttribute(name, forHead(forExpr, rewritten))
			next := make(map[string]bool, len(scoped)+2)
			for k := range scoped {
				next[k] = true
			}
			for _, loopName := range forExpr.Names() {
				next[loopName] = true
			}
			scoped = next
		case "x-if":
			host.SetAttribute(name, h.bind(value, scoped, false))
		}
	}
	return scoped
}

// hoistBindings replaces every remaining directive attribute value on el
// with its binding key.
func (h *hoister) hoistBindings(el *htmlast.Node, scoped map[string]bool) {
	for _, attr := range append([]htmlast.Attribute(nil), el.Attributes...) {
		if !htmlast.IsDirectiveAttribute(attr.Name) {
			continue
		}
		switch attr.Name {
		case "x-data", "x-for", "x-if":
			continue
		}
		if strings.TrimSpace(attr.Value) == "" {
			continue
		}
		method := strings.HasPrefix(attr.Name, "@") || strings.HasPrefix(attr.Name, "x-on")
		el.SetAttribute(attr.Name, h.bind(attr.Value, scoped, method))
	}
}

// bind hoists one directive expression into a new entry and returns its
// binding key. Unparseable expressions are left in place verbatim; the
// directives lint family reports them.
func (h *hoister) bind(value string, scoped map[string]bool, method bool) string {
	expr := jsexpr.NewDirective(value)
	if expr.HasProblems() {
		return value
	}
	h.next++
	key := fmt.Sprintf("b%d", h.next)
	h.entries = append(h.entries, hoistEntry{
		key:    key,
		value:  expr.AddThis(h.targets(scoped)),
		method: method,
	})
	return key
}

// forHead rebuilds a canonical x-for head around the rewritten collection.
func forHead(forExpr *jsexpr.ForExpression, collection string) string {
	names := forExpr.Names()
	if len(names) == 1 {
		return names[0] + " in " + collection
	}
	return "(" + strings.Join(names, ", ") + ") in " + collection
}

// buildRegistration emits one Alpine.data registration block combining the
// declared data properties with the hoisted bindings.
func buildRegistration(key, dataProps string, entries []hoistEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Alpine.data('%s', () => ({\n", key)
	if dataProps != "" {
		lines := strings.Split(dataProps, "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if i == len(lines)-1 && !strings.HasSuffix(line, ",") {
				line += ","
			}
			b.WriteString("  " + line + "\n")
		}
	}
	for _, entry := range entries {
		if entry.method {
			fmt.Fprintf(&b, "  %s() { %s },\n", entry.key, entry.value)
		} else {
			fmt.Fprintf(&b, "  get %s() { return %s },\n", entry.key, entry.value)
		}
	}
	b.WriteString("}))")
	return b.String()
}
