package cssast

import (
	"sort"
	"strings"
)

// Flatten resolves nesting, parent selectors, modifiers, and global-alias
// at-rules into a flat node list: plain rules first, then at-rules. Names
// listed in aliases are breakpoint aliases; `@name` blocks become
// `@media $name` blocks whose variable the project substitutes later.
func (c *CSS) Flatten(aliases []string) []Node {
	aliasSet := make(map[string]bool, len(aliases))
	for _, alias := range aliases {
		aliasSet[alias] = true
	}
	f := &flattener{aliases: aliasSet}
	for _, node := range c.root {
		f.flattenNode(node, nil)
	}
	out := make([]Node, 0, len(f.rules)+len(f.atRules))
	for _, rule := range f.rules {
		out = append(out, rule)
	}
	for _, at := range f.atRules {
		out = append(out, at)
	}
	return out
}

type flattener struct {
	aliases map[string]bool
	rules   []*Rule
	atRules []*AtRule
}

func (f *flattener) flattenNode(node Node, parents []string) {
	switch n := node.(type) {
	case *Rule:
		selectors := combineSelectors(parents, n.Selectors)
		if len(n.Decls) > 0 {
			f.rules = append(f.rules, &Rule{Selectors: selectors, Decls: n.Decls})
		}
		for _, child := range n.Children {
			f.flattenNode(child, selectors)
		}
	case *AtRule:
		name, params := n.Name, n.Params
		if f.aliases[name] {
			name, params = "media", "$"+n.Name
		}
		at := &AtRule{Name: name, Params: params, Block: n.Block}
		// Declarations directly inside an at-rule inherit the enclosing
		// rule's selector. Without one they were flagged by Lint and are
		// dropped here.
		if len(n.Decls) > 0 && len(parents) > 0 {
			at.Children = append(at.Children, &Rule{Selectors: parents, Decls: n.Decls})
		}
		inner := &flattener{aliases: f.aliases}
		for _, child := range n.Children {
			inner.flattenNode(child, parents)
		}
		for _, rule := range inner.rules {
			at.Children = append(at.Children, rule)
		}
		// Nested at-rules are hoisted alongside their parent.
		f.atRules = append(f.atRules, inner.atRules...)
		if len(at.Children) > 0 || !at.Block {
			f.atRules = append(f.atRules, at)
		}
	}
}

// combineSelectors resolves one nesting level. `&` is replaced verbatim
// with the parent selector; a selector carrying a `%modifier` token stays
// unexpanded; anything else gets the parent prepended as a descendant.
func combineSelectors(parents, selectors []string) []string {
	if len(parents) == 0 {
		return selectors
	}
	var out []string
	for _, sel := range selectors {
		switch {
		case strings.Contains(sel, "&"):
			for _, parent := range parents {
				out = append(out, strings.ReplaceAll(sel, "&", parent))
			}
		case modifierRe.MatchString(sel):
			out = append(out, sel)
		default:
			for _, parent := range parents {
				out = append(out, parent+" "+sel)
			}
		}
	}
	return out
}

// SortAndMergeMediaQueries merges at-rules that share a name and params
// into one and orders the merged at-rules by the position of their global
// alias in order. At-rules without a listed alias sort first (index -1);
// the merge is otherwise stable.
func SortAndMergeMediaQueries(nodes []Node, order []string) []Node {
	indexOf := make(map[string]int, len(order))
	for i, name := range order {
		indexOf[name] = i
	}
	var rules []Node
	var atRules []*AtRule
	merged := make(map[string]*AtRule)
	for _, node := range nodes {
		at, ok := node.(*AtRule)
		if !ok {
			rules = append(rules, node)
			continue
		}
		key := at.Name + " " + at.Params
		if existing, ok := merged[key]; ok {
			existing.Children = append(existing.Children, at.Children...)
			existing.Decls = append(existing.Decls, at.Decls...)
			continue
		}
		clone := &AtRule{Name: at.Name, Params: at.Params, Block: at.Block}
		clone.Children = append(clone.Children, at.Children...)
		clone.Decls = append(clone.Decls, at.Decls...)
		merged[key] = clone
		atRules = append(atRules, clone)
	}
	sort.SliceStable(atRules, func(i, j int) bool {
		return atRuleOrder(atRules[i], indexOf) < atRuleOrder(atRules[j], indexOf)
	})
	out := rules
	for _, at := range atRules {
		out = append(out, at)
	}
	return out
}

func atRuleOrder(at *AtRule, indexOf map[string]int) int {
	name := strings.TrimPrefix(at.Params, "$")
	if index, ok := indexOf[name]; ok {
		return index
	}
	return -1
}

// Build flattens, merges, and serializes the stylesheet. It returns the
// empty string while syntax diagnostics are present.
func (c *CSS) Build(mediaOrder []string, minify bool) string {
	if c.diags.HasProblems(CategorySyntax) {
		return ""
	}
	nodes := SortAndMergeMediaQueries(c.Flatten(mediaOrder), mediaOrder)
	return Serialize(nodes, minify)
}

// Serialize renders flattened nodes as CSS text. Minified output drops all
// optional whitespace.
func Serialize(nodes []Node, minify bool) string {
	var b strings.Builder
	for _, node := range nodes {
		serializeNode(&b, node, minify, 0)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func serializeNode(b *strings.Builder, node Node, minify bool, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := node.(type) {
	case *Rule:
		if len(n.Decls) == 0 {
			return
		}
		if minify {
			b.WriteString(strings.Join(n.Selectors, ","))
			b.WriteString("{")
			for i, decl := range n.Decls {
				if i > 0 {
					b.WriteString(";")
				}
				b.WriteString(decl.Property)
				b.WriteString(":")
				b.WriteString(decl.Value)
			}
			b.WriteString("}")
			return
		}
		b.WriteString(indent)
		b.WriteString(strings.Join(n.Selectors, ",\n"+indent))
		b.WriteString(" {\n")
		for _, decl := range n.Decls {
			b.WriteString(indent)
			b.WriteString("  ")
			b.WriteString(decl.Property)
			b.WriteString(": ")
			b.WriteString(decl.Value)
			b.WriteString(";\n")
		}
		b.WriteString(indent)
		b.WriteString("}\n")
	case *AtRule:
		header := "@" + n.Name
		if n.Params != "" {
			header += " " + n.Params
		}
		if !n.Block {
			b.WriteString(indent)
			b.WriteString(header)
			if minify {
				b.WriteString(";")
			} else {
				b.WriteString(";\n")
			}
			return
		}
		if minify {
			b.WriteString(header)
			b.WriteString("{")
			for _, child := range n.Children {
				serializeNode(b, child, true, 0)
			}
			b.WriteString("}")
			return
		}
		b.WriteString(indent)
		b.WriteString(header)
		b.WriteString(" {\n")
		for _, child := range n.Children {
			serializeNode(b, child, false, depth+1)
		}
		b.WriteString(indent)
		b.WriteString("}\n")
	}
}
