package cssast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopLevelDeclarationRejected(t *testing.T) {
	c := New("color: red")

	require.True(t, c.HasProblems(CategorySyntax))
	diags := c.Diagnostics(0, CategorySyntax)
	require.Len(t, diags, 1)
	assert.Equal(t, "Declarations are not allowed at the top level.", diags[0].Message)
}

func TestParseNestedRules(t *testing.T) {
	c := New(".card { color: red; .title { font-weight: bold } }")
	require.False(t, c.HasProblems())

	nodes := c.Nodes()
	require.Len(t, nodes, 1)
	rule, ok := nodes[0].(*Rule)
	require.True(t, ok)
	assert.Equal(t, []string{".card"}, rule.Selectors)
	require.Len(t, rule.Decls, 1)
	assert.Equal(t, "color", rule.Decls[0].Property)
	assert.Equal(t, "red", rule.Decls[0].Value)
	require.Len(t, rule.Children, 1)
}

func TestParseUnbalancedBrace(t *testing.T) {
	c := New(".card { color: red")

	assert.True(t, c.HasProblems(CategorySyntax))
	assert.Empty(t, c.Nodes())
	assert.Equal(t, "", c.Build(nil, false))
}

func TestGetGlobalsAndModifiers(t *testing.T) {
	c := New("color: $primaryColor; &%active { color: $accent }")

	globals := c.GetGlobals()
	require.Len(t, globals, 2)
	assert.Equal(t, "$primaryColor", globals[0].Text)
	assert.Equal(t, "$accent", globals[1].Text)

	modifiers := c.GetModifiers()
	require.Len(t, modifiers, 1)
	assert.Equal(t, "%active", modifiers[0].Text)
}

func TestLintInvalidModifierName(t *testing.T) {
	c := New("&%Bad-Name { color: red }")
	c.Lint()

	assert.True(t, c.HasProblems(CategoryLogical))
}

func TestLintAtRuleWithoutParent(t *testing.T) {
	c := New("@media (min-width: 600px) { color: red }")
	c.Lint()

	diags := c.Diagnostics(0, CategoryLogical)
	require.Len(t, diags, 1)
	assert.Equal(t, "Missing parent rule.", diags[0].Message)
}

func TestLintNestedAtRuleWithoutParent(t *testing.T) {
	c := New("@sm { @md { color: red } }")
	c.Lint()

	diags := c.Diagnostics(0, CategoryLogical)
	require.Len(t, diags, 1)
	assert.Equal(t, "Missing parent rule.", diags[0].Message)
}

func TestLintAtRuleInsideRule(t *testing.T) {
	c := New(".card { @sm { color: red } }")
	c.Lint()

	assert.False(t, c.HasProblems(CategoryLogical))
}

func TestFlattenNesting(t *testing.T) {
	c := New(".card { color: red; .title { font-weight: bold } &:hover { color: blue } }")
	require.False(t, c.HasProblems())

	nodes := c.Flatten(nil)
	require.Len(t, nodes, 3)

	first := nodes[0].(*Rule)
	assert.Equal(t, []string{".card"}, first.Selectors)

	second := nodes[1].(*Rule)
	assert.Equal(t, []string{".card .title"}, second.Selectors)

	third := nodes[2].(*Rule)
	assert.Equal(t, []string{".card:hover"}, third.Selectors)
}

func TestFlattenBreakpointAlias(t *testing.T) {
	c := New(".card { color: red; @sm { color: blue } }")
	require.False(t, c.HasProblems())

	nodes := c.Flatten([]string{"sm"})
	require.Len(t, nodes, 2)

	at, ok := nodes[1].(*AtRule)
	require.True(t, ok)
	assert.Equal(t, "media", at.Name)
	assert.Equal(t, "$sm", at.Params)
	require.Len(t, at.Children, 1)
	assert.Equal(t, []string{".card"}, at.Children[0].(*Rule).Selectors)
}

func TestSortAndMergeMediaQueries(t *testing.T) {
	c := New(".a { @lg { color: red } } .b { @sm { color: blue } } .c { @lg { color: green } }")
	require.False(t, c.HasProblems())

	nodes := SortAndMergeMediaQueries(c.Flatten([]string{"sm", "lg"}), []string{"sm", "lg"})

	var atRules []*AtRule
	for _, node := range nodes {
		if at, ok := node.(*AtRule); ok {
			atRules = append(atRules, at)
		}
	}
	require.Len(t, atRules, 2)
	assert.Equal(t, "$sm", atRules[0].Params)
	assert.Equal(t, "$lg", atRules[1].Params)
	// The two @lg blocks merged into one.
	assert.Len(t, atRules[1].Children, 2)
}

func TestSerialize(t *testing.T) {
	c := New(".card { color: red }")
	require.False(t, c.HasProblems())

	pretty := Serialize(c.Flatten(nil), false)
	assert.Equal(t, ".card {\n  color: red;\n}", pretty)

	minified := Serialize(c.Flatten(nil), true)
	assert.Equal(t, ".card{color:red}", minified)
}

func TestBuildMinified(t *testing.T) {
	c := New(".a { color: red; &:hover { color: blue } }")

	assert.Equal(t, ".a{color:red}.a:hover{color:blue}", c.Build(nil, true))
}
