package htmlast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	sources := []string{
		`<div class="card"><p>Hello</p></div>`,
		`<div   class =  "card" ><br><img src="/a.png"></div>`,
		"<section>\n  <h1>Title</h1>\n  <!-- note -->\n</section>",
		`<input type="text" disabled>`,
	}
	for _, raw := range sources {
		ast := Parse(raw)
		require.False(t, ast.HasProblems(CategorySyntax), "unexpected problems in %q", raw)
		assert.Equal(t, raw, ast.ToString(false), "round trip of %q", raw)
	}
}

func TestParseSyntaxError(t *testing.T) {
	ast := Parse("<div><span></div>")

	assert.True(t, ast.HasProblems(CategorySyntax))
}

func TestRootElements(t *testing.T) {
	ast := Parse("<div></div> text <span></span>")
	require.False(t, ast.HasProblems(CategorySyntax))

	elements := ast.RootElements()
	require.Len(t, elements, 2)
	assert.Equal(t, "div", elements[0].Tag)
	assert.Equal(t, "span", elements[1].Tag)
}

func TestToStringMinify(t *testing.T) {
	ast := Parse("<div>\n  <p>\n    Hello   world\n  </p>\n</div>")
	require.False(t, ast.HasProblems(CategorySyntax))

	assert.Equal(t, "<div><p>Hello world</p></div>", ast.ToString(true))
	// Minification works on a clone; the pretty output is unchanged.
	assert.Equal(t, "<div>\n  <p>\n    Hello   world\n  </p>\n</div>", ast.ToString(false))
}

func TestMinifyKeepsInlineBoundarySpace(t *testing.T) {
	ast := Parse("<p>Hello <em>big</em> world</p>")
	require.False(t, ast.HasProblems(CategorySyntax))

	assert.Equal(t, "<p>Hello <em>big</em> world</p>", ast.ToString(true))
}

func TestMinifyPreservesPreformatted(t *testing.T) {
	ast := Parse("<pre>  keep\n  this  </pre>")
	require.False(t, ast.HasProblems(CategorySyntax))

	assert.Equal(t, "<pre>  keep\n  this  </pre>", ast.ToString(true))
}

func TestAttributeHelpers(t *testing.T) {
	ast := Parse(`<div class="card" data-id="1"></div>`)
	require.False(t, ast.HasProblems(CategorySyntax))
	div := ast.RootElements()[0]

	value, ok := div.GetAttribute("class")
	assert.True(t, ok)
	assert.Equal(t, "card", value)
	assert.True(t, div.HasAttribute("data-id"))
	assert.False(t, div.HasAttribute("missing"))

	div.SetAttribute("class", "card active")
	div.RemoveAttribute("data-id")
	assert.Equal(t, `<div class="card active"></div>`, SerializeTree(div, false))
}

func TestReplaceMustaches(t *testing.T) {
	ast := Parse(`<div title="{{ title }}">{{ greeting }}, {{ name }}!</div>`)
	require.False(t, ast.HasProblems(CategorySyntax))

	ast.ReplaceMustaches(map[string]string{
		"title":    `a "quoted" title`,
		"greeting": "Hello",
		"name":     "<b>sail</b>",
	})

	out := ast.ToString(false)
	assert.Contains(t, out, "Hello, &lt;b&gt;sail&lt;/b&gt;!")
	assert.Contains(t, out, `title="a &#34;quoted&#34; title"`)
}

func TestReplaceMustachesUnresolvedBecomesEmpty(t *testing.T) {
	ast := Parse("<p>{{ missing }}</p>")
	require.False(t, ast.HasProblems(CategorySyntax))

	ast.ReplaceMustaches(nil)
	assert.Equal(t, "<p></p>", ast.ToString(false))
}

func TestSubstituteMustachesIsRaw(t *testing.T) {
	out := SubstituteMustaches("{{ a }} and {{ b }}", map[string]string{"a": "<x>", "b": `"y"`})
	assert.Equal(t, `<x> and "y"`, out)
}

func TestGetMustaches(t *testing.T) {
	ast := Parse(`<div title="{{ title }}">{{ body }}</div>`)
	require.False(t, ast.HasProblems(CategorySyntax))

	tags := ast.GetMustaches()
	require.Len(t, tags, 2)
	variables := []string{tags[0].Variable, tags[1].Variable}
	assert.ElementsMatch(t, []string{"title", "body"}, variables)
}

func TestGetPropertyNames(t *testing.T) {
	ast := Parse(`<div if="visible"><p>{{ title }}</p><include component="button" label="{{ cta }}"></include>{{ SITE_NAME }}</div>`)
	require.False(t, ast.HasProblems(CategorySyntax))

	assert.Equal(t, []string{"cta", "label", "title", "visible"}, ast.GetPropertyNames())
}

func TestGetDependencies(t *testing.T) {
	ast := Parse(`<div><include component="button"></include><include component="nav/bar"></include><include component="Bad Name"></include></div>`)
	require.False(t, ast.HasProblems(CategorySyntax))

	assert.Equal(t, []string{"button", "nav/bar"}, ast.GetDependencies())
}

func TestGetOutletNames(t *testing.T) {
	ast := Parse(`<div><outlet></outlet><outlet name="sidebar"></outlet></div>`)
	require.False(t, ast.HasProblems(CategorySyntax))

	assert.Equal(t, []string{"main", "sidebar"}, ast.GetOutletNames())
}

func TestInjectContent(t *testing.T) {
	component := Parse(`<div><outlet><p>default</p></outlet><outlet name="footer"></outlet></div>`)
	require.False(t, component.HasProblems(CategorySyntax))

	content := Parse("<span>injected</span>")
	injected := component.Inject(map[string][]*Node{
		"main": content.RootNodes(),
	})

	out := injected.ToString(false)
	assert.Equal(t, "<div><span>injected</span></div>", out)
	// The original tree is untouched.
	assert.Contains(t, component.ToString(false), "<outlet>")
}

func TestInjectContentKeepsDefaults(t *testing.T) {
	component := Parse(`<div><outlet><p>default</p></outlet></div>`)
	require.False(t, component.HasProblems(CategorySyntax))

	injected := component.Inject(nil)
	assert.Equal(t, "<div><p>default</p></div>", injected.ToString(false))
}

func TestWalkSkipsSubtreeOnFalse(t *testing.T) {
	ast := Parse("<div><section><p>inner</p></section><span>after</span></div>")
	require.False(t, ast.HasProblems(CategorySyntax))

	var tags []string
	ast.Walk(func(n *Node) bool {
		if n.Type != ElementNode {
			return true
		}
		tags = append(tags, n.Tag)
		return n.Tag != "section"
	})
	assert.Equal(t, []string{"div", "section", "span"}, tags)
}

func TestLintAttributes(t *testing.T) {
	ast := Parse(`<div {{ bad }}="1" CLASS="x"></div>`)
	require.False(t, ast.HasProblems(CategorySyntax))

	ast.Lint(string(CategoryAttributes))
	diags := ast.Diagnostics(0, CategoryAttributes)
	require.NotEmpty(t, diags)
	assert.Equal(t, "Mustache syntax is not allowed in attribute names.", diags[0].Message)
}

func TestLintIfAttributes(t *testing.T) {
	ast := Parse(`<div><p if="">empty</p><p if="alert()">call</p><outlet if="x"></outlet></div>`)
	require.False(t, ast.HasProblems(CategorySyntax))

	ast.Lint(string(CategoryIf))
	messages := make([]string, 0)
	for _, d := range ast.Diagnostics(0, CategoryIf) {
		messages = append(messages, d.Message)
	}
	assert.Contains(t, messages, "The if attribute value cannot be empty.")
	assert.Contains(t, messages, "Call expressions and declarations are not allowed in if attributes.")
	assert.Contains(t, messages, "If attributes are not allowed on outlets.")
}

func TestIsDirectiveAttribute(t *testing.T) {
	assert.True(t, IsDirectiveAttribute("x-data"))
	assert.True(t, IsDirectiveAttribute("x-on:click"))
	assert.True(t, IsDirectiveAttribute("@click"))
	assert.True(t, IsDirectiveAttribute(":disabled"))
	assert.False(t, IsDirectiveAttribute("class"))
	assert.False(t, IsDirectiveAttribute("href"))
}

func TestCloneIsDeep(t *testing.T) {
	ast := Parse(`<div class="a"><p>text</p></div>`)
	require.False(t, ast.HasProblems(CategorySyntax))

	clone := ast.Root().Clone()
	clone.Children[0].SetAttribute("class", "b")
	clone.Children[0].Children[0].Children[0].Text = "changed"

	assert.Equal(t, `<div class="a"><p>text</p></div>`, ast.ToString(false))
}
