// Package cssast parses the restrictive SCSS-like dialect used by css
// attributes and flattens its nesting, parent selectors, modifiers, and
// global-alias at-rules into plain CSS.
package cssast

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
)

// Category is a diagnostic category of the CSS engine.
type Category string

const (
	CategorySyntax  Category = "syntax"
	CategoryLogical Category = "logical"
)

// Categories lists every category the CSS engine emits into.
var Categories = []Category{CategorySyntax, CategoryLogical}

// Node is either a *Rule or an *AtRule.
type Node interface {
	node()
}

// Declaration is one `property: value` pair.
type Declaration struct {
	Property string
	Value    string
	From     int
	To       int
}

// Rule is a selector list with declarations and nested children.
type Rule struct {
	Selectors []string
	Decls     []Declaration
	Children  []Node
	From      int
	To        int
}

// AtRule is an `@name params { ... }` or `@name params;` construct.
type AtRule struct {
	Name     string
	Params   string
	Decls    []Declaration
	Children []Node
	// Block reports whether the at-rule had a body.
	Block bool
	From  int
	To    int
}

func (*Rule) node()   {}
func (*AtRule) node() {}

// Match is one occurrence of a scanned token in the raw source.
type Match struct {
	Text string
	From int
	To   int
}

// CSS is one parsed stylesheet fragment with its diagnostics.
type CSS struct {
	raw   string
	root  []Node
	diags *diagnostics.Collection[Category]
}

// New parses raw. A parse failure records one syntax diagnostic and leaves
// the tree empty; Build then short-circuits to the empty string.
func New(raw string) *CSS {
	c := &CSS{
		raw:   raw,
		diags: diagnostics.NewCollection(Categories...),
	}
	p := &cssParser{raw: raw}
	root, err := p.parseBlock(0, len(raw), true)
	if err != nil {
		c.diags.Add(CategorySyntax, diagnostics.Diagnostic{
			Message:  err.msg,
			Severity: diagnostics.SeverityError,
			From:     err.from,
			To:       err.to,
		})
		return c
	}
	c.root = root
	return c
}

// Raw returns the unmodified source text.
func (c *CSS) Raw() string { return c.raw }

// Nodes returns the parsed top-level nodes.
func (c *CSS) Nodes() []Node { return c.root }

// HasProblems reports whether diagnostics exist under the given categories.
func (c *CSS) HasProblems(categories ...Category) bool {
	return c.diags.HasProblems(categories...)
}

// Diagnostics returns collected diagnostics shifted by offset.
func (c *CSS) Diagnostics(offset int, categories ...Category) []diagnostics.Diagnostic {
	return c.diags.GetWithOffset(offset, categories...)
}

var (
	globalRe   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	modifierRe = regexp.MustCompile(`%([A-Za-z0-9_-]*)`)
	// modifierNameRe is the shape a modifier name must have.
	modifierNameRe = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
)

// GetGlobals scans the raw text for `$name` variable references.
func (c *CSS) GetGlobals() []Match {
	return scan(c.raw, globalRe)
}

// GetModifiers scans the raw text for `%name` modifier tokens.
func (c *CSS) GetModifiers() []Match {
	return scan(c.raw, modifierRe)
}

func scan(raw string, re *regexp.Regexp) []Match {
	var out []Match
	for _, loc := range re.FindAllStringIndex(raw, -1) {
		out = append(out, Match{Text: raw[loc[0]:loc[1]], From: loc[0], To: loc[1]})
	}
	return out
}

// Lint flags malformed modifier names and at-rule declarations that have
// no parent rule to inherit a selector from.
func (c *CSS) Lint() {
	c.diags.Clear(CategoryLogical)
	for _, m := range c.GetModifiers() {
		name := strings.TrimPrefix(m.Text, "%")
		if !modifierNameRe.MatchString(name) {
			c.diags.Add(CategoryLogical, diagnostics.Diagnostic{
				Message:  fmt.Sprintf("Invalid modifier name '%s'.", m.Text),
				Severity: diagnostics.SeverityError,
				From:     m.From,
				To:       m.To,
			})
		}
	}
	c.lintOrphanDecls(c.root, false)
}

// lintOrphanDecls flags at-rule declarations with no rule anywhere up the
// chain to inherit a selector from. Nested at-rules keep looking for a
// rule ancestor; a rule grants one to everything below it.
func (c *CSS) lintOrphanDecls(nodes []Node, hasRuleAncestor bool) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *Rule:
			c.lintOrphanDecls(n.Children, true)
		case *AtRule:
			if n.Block && len(n.Decls) > 0 && !hasRuleAncestor {
				c.diags.Add(CategoryLogical, diagnostics.Diagnostic{
					Message:  "Missing parent rule.",
					Severity: diagnostics.SeverityError,
					From:     n.From,
					To:       n.To,
				})
			}
			c.lintOrphanDecls(n.Children, hasRuleAncestor)
		}
	}
}

// cssParser parses one stylesheet by brace matching over the raw text.
type cssParser struct {
	raw string
}

type cssError struct {
	msg  string
	from int
	to   int
}

// parseBlock parses the nodes and declarations between from and to. At the
// top level declarations are not allowed, so topLevel selects which error
// to produce for a stray `prop: value` chunk.
func (p *cssParser) parseBlock(from, to int, topLevel bool) ([]Node, *cssError) {
	nodes, _, err := p.parseContents(from, to, topLevel)
	return nodes, err
}

func (p *cssParser) parseContents(from, to int, topLevel bool) ([]Node, []Declaration, *cssError) {
	var nodes []Node
	var decls []Declaration
	i := from
	for i < to {
		i = p.skipSpaceAndComments(i, to)
		if i >= to {
			break
		}
		start := i
		// Scan to the construct boundary.
		j := i
		for j < to && p.raw[j] != '{' && p.raw[j] != ';' && p.raw[j] != '}' {
			j++
		}
		header := strings.TrimSpace(p.raw[start:j])
		switch {
		case j < to && p.raw[j] == '}':
			return nil, nil, &cssError{msg: "Unexpected '}'.", from: j, to: j + 1}
		case j >= to || p.raw[j] == ';':
			if header == "" {
				i = j + 1
				continue
			}
			if strings.HasPrefix(header, "@") {
				name, params := splitAtRule(header)
				nodes = append(nodes, &AtRule{Name: name, Params: params, From: start, To: j})
				i = j + 1
				continue
			}
			colon := strings.Index(header, ":")
			if colon <= 0 {
				return nil, nil, &cssError{msg: fmt.Sprintf("Invalid declaration '%s'.", header), from: start, to: j}
			}
			decl := Declaration{
				Property: strings.TrimSpace(header[:colon]),
				Value:    strings.TrimSpace(header[colon+1:]),
				From:     start,
				To:       j,
			}
			if topLevel {
				return nil, nil, &cssError{msg: "Declarations are not allowed at the top level.", from: start, to: j}
			}
			decls = append(decls, decl)
			i = j + 1
		default: // '{'
			if header == "" {
				return nil, nil, &cssError{msg: "Missing selector.", from: start, to: j + 1}
			}
			end, err := p.matchBrace(j, to)
			if err != nil {
				return nil, nil, err
			}
			children, childDecls, perr := p.parseContents(j+1, end, false)
			if perr != nil {
				return nil, nil, perr
			}
			if strings.HasPrefix(header, "@") {
				name, params := splitAtRule(header)
				nodes = append(nodes, &AtRule{
					Name:     name,
					Params:   params,
					Decls:    childDecls,
					Children: children,
					Block:    true,
					From:     start,
					To:       end + 1,
				})
			} else {
				nodes = append(nodes, &Rule{
					Selectors: splitSelectors(header),
					Decls:     childDecls,
					Children:  children,
					From:      start,
					To:        end + 1,
				})
			}
			i = end + 1
		}
	}
	return nodes, decls, nil
}

// matchBrace returns the offset of the '}' matching the '{' at open.
func (p *cssParser) matchBrace(open, to int) (int, *cssError) {
	depth := 0
	for i := open; i < to; i++ {
		switch p.raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &cssError{msg: "Unclosed block.", from: open, to: to}
}

func (p *cssParser) skipSpaceAndComments(i, to int) int {
	for i < to {
		switch {
		case p.raw[i] == ' ' || p.raw[i] == '\t' || p.raw[i] == '\n' || p.raw[i] == '\r':
			i++
		case strings.HasPrefix(p.raw[i:], "/*"):
			end := strings.Index(p.raw[i+2:], "*/")
			if end < 0 {
				return to
			}
			i += 2 + end + 2
		case strings.HasPrefix(p.raw[i:], "//"):
			for i < to && p.raw[i] != '\n' {
				i++
			}
		default:
			return i
		}
	}
	return i
}

func splitAtRule(header string) (name, params string) {
	header = strings.TrimPrefix(header, "@")
	if space := strings.IndexAny(header, " \t\n"); space >= 0 {
		return header[:space], strings.TrimSpace(header[space+1:])
	}
	return header, ""
}

func splitSelectors(header string) []string {
	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
