package htmlast

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
)

// Category is a diagnostic category of the HTML engine. Each lint rule
// family emits into its own category so callers can re-check a subset.
type Category string

const (
	CategorySyntax     Category = "syntax"
	CategoryAttributes Category = "attributes"
	CategoryIf         Category = "if"
	CategoryIncludes   Category = "includes"
	CategoryInjects    Category = "injects"
	CategoryOutlets    Category = "outlets"
	CategoryMustaches  Category = "mustaches"
	CategoryDirectives Category = "directives"
)

// Categories lists every category the HTML engine emits into.
var Categories = []Category{
	CategorySyntax, CategoryAttributes, CategoryIf, CategoryIncludes,
	CategoryInjects, CategoryOutlets, CategoryMustaches, CategoryDirectives,
}

// AST is one parsed HTML fragment or document together with its
// diagnostics. After a parse failure the tree is empty, one syntax
// diagnostic spans the whole input, and all later operations are no-ops.
type AST struct {
	raw        string
	isDocument bool
	root       *Node
	diags      *diagnostics.Collection[Category]
}

// Parse parses raw HTML. A `<!DOCTYPE html>` prefix selects full-document
// mode; anything else is treated as a fragment.
func Parse(raw string) *AST {
	a := &AST{
		raw:        raw,
		isDocument: strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "<!doctype html>"),
		diags:      diagnostics.NewCollection(Categories...),
	}
	root, err := parseTree(raw)
	if err != nil {
		a.diags.Add(CategorySyntax, diagnostics.Diagnostic{
			Message:  err.Error(),
			Severity: diagnostics.SeverityError,
			From:     0,
			To:       len(raw),
		})
		return a
	}
	a.root = root
	return a
}

// Raw returns the unmodified source text.
func (a *AST) Raw() string { return a.raw }

// IsDocument reports whether the source carried a `<!DOCTYPE html>`
// prefix.
func (a *AST) IsDocument() bool { return a.isDocument }

// Root returns the synthetic fragment root, or nil after a parse failure.
func (a *AST) Root() *Node { return a.root }

// RootNodes returns the top-level nodes of the fragment.
func (a *AST) RootNodes() []*Node {
	if a.root == nil {
		return nil
	}
	return a.root.Children
}

// RootElements returns the top-level element nodes, skipping blank text
// and comments.
func (a *AST) RootElements() []*Node {
	var out []*Node
	for _, node := range a.RootNodes() {
		if node.Type == ElementNode {
			out = append(out, node)
		}
	}
	return out
}

// HasProblems reports whether diagnostics exist under the given
// categories (all categories when none are named).
func (a *AST) HasProblems(categories ...Category) bool {
	return a.diags.HasProblems(categories...)
}

// Diagnostics returns collected diagnostics shifted by offset.
func (a *AST) Diagnostics(offset int, categories ...Category) []diagnostics.Diagnostic {
	return a.diags.GetWithOffset(offset, categories...)
}

func (a *AST) addDiagnostic(category Category, severity diagnostics.Severity, from, to int, format string, args ...any) {
	a.diags.Add(category, diagnostics.Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
		From:     from,
		To:       to,
	})
}

// parseTree tokenizes raw and builds the tree, tracking byte offsets by
// accumulating the tokenizer's raw token lengths.
func parseTree(raw string) (*Node, error) {
	z := html.NewTokenizer(strings.NewReader(raw))
	root := &Node{Type: RootNode, From: 0, To: len(raw)}
	stack := []*Node{root}
	offset := 0
	for {
		tt := z.Next()
		rawTok := string(z.Raw())
		from := offset
		offset += len(rawTok)
		top := stack[len(stack)-1]
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				if len(stack) > 1 {
					return nil, fmt.Errorf("unclosed tag '<%s>'", stack[len(stack)-1].Tag)
				}
				return root, nil
			}
			return nil, z.Err()
		case html.TextToken:
			top.AppendChild(&Node{Type: TextNode, Text: rawTok, From: from, To: offset})
		case html.CommentToken:
			top.AppendChild(&Node{Type: CommentNode, Text: rawTok, From: from, To: offset})
		case html.DoctypeToken:
			top.AppendChild(&Node{Type: DoctypeNode, Text: rawTok, From: from, To: offset})
		case html.StartTagToken, html.SelfClosingTagToken:
			node, err := parseStartTag(rawTok, from)
			if err != nil {
				return nil, err
			}
			node.selfClosing = tt == html.SelfClosingTagToken
			top.AppendChild(node)
			if tt == html.StartTagToken && !voidElements[node.Tag] {
				stack = append(stack, node)
			} else {
				node.To = offset
			}
		case html.EndTagToken:
			tag := strings.ToLower(strings.TrimFunc(rawTok, func(r rune) bool {
				return r == '<' || r == '>' || r == '/' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
			}))
			if len(stack) == 1 || top.Tag != tag {
				return nil, fmt.Errorf("unexpected closing tag '</%s>'", tag)
			}
			top.rawEnd = rawTok
			top.To = offset
			stack = stack[:len(stack)-1]
		}
	}
}

// parseStartTag scans the raw text of one start tag for the tag name and
// attribute offsets. Value offsets exclude the surrounding quotes.
func parseStartTag(rawTag string, base int) (*Node, error) {
	node := &Node{Type: ElementNode, From: base, rawStart: rawTag}
	i := 1 // skip '<'
	start := i
	for i < len(rawTag) && !isTagDelim(rawTag[i]) {
		i++
	}
	node.Tag = strings.ToLower(rawTag[start:i])
	if node.Tag == "" {
		return nil, fmt.Errorf("malformed tag near offset %d", base)
	}
	for i < len(rawTag) {
		for i < len(rawTag) && isSpaceByte(rawTag[i]) {
			i++
		}
		if i >= len(rawTag) || rawTag[i] == '>' || (rawTag[i] == '/' && i+1 < len(rawTag) && rawTag[i+1] == '>') {
			break
		}
		attr := Attribute{NameFrom: base + i}
		nameStart := i
		for i < len(rawTag) && !isSpaceByte(rawTag[i]) && rawTag[i] != '=' && rawTag[i] != '>' {
			i++
		}
		attr.Name = rawTag[nameStart:i]
		attr.NameTo = base + i
		for i < len(rawTag) && isSpaceByte(rawTag[i]) {
			i++
		}
		if i < len(rawTag) && rawTag[i] == '=' {
			i++
			for i < len(rawTag) && isSpaceByte(rawTag[i]) {
				i++
			}
			if i < len(rawTag) && (rawTag[i] == '"' || rawTag[i] == '\'') {
				attr.Quote = rawTag[i]
				i++
				valueStart := i
				for i < len(rawTag) && rawTag[i] != attr.Quote {
					i++
				}
				attr.Value = rawTag[valueStart:i]
				attr.ValueFrom = base + valueStart
				attr.ValueTo = base + i
				if i < len(rawTag) {
					i++ // closing quote
				}
			} else {
				valueStart := i
				for i < len(rawTag) && !isSpaceByte(rawTag[i]) && rawTag[i] != '>' {
					i++
				}
				attr.Value = rawTag[valueStart:i]
				attr.ValueFrom = base + valueStart
				attr.ValueTo = base + i
			}
		} else {
			attr.ValueFrom = base + i
			attr.ValueTo = base + i
		}
		node.Attributes = append(node.Attributes, attr)
	}
	return node, nil
}

func isTagDelim(c byte) bool {
	return isSpaceByte(c) || c == '>' || c == '/'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
