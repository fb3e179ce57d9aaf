package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type category string

const (
	catSyntax  category = "syntax"
	catLogical category = "logical"
)

func TestCollectionAddAndGet(t *testing.T) {
	c := NewCollection(catSyntax, catLogical)

	assert.False(t, c.HasProblems())
	assert.Empty(t, c.Get())

	c.Add(catSyntax, Diagnostic{Message: "broken", Severity: SeverityError, From: 2, To: 5})
	c.Add(catLogical, Diagnostic{Message: "odd", Severity: SeverityWarning, From: 10, To: 12})

	assert.True(t, c.HasProblems())
	assert.True(t, c.HasProblems(catSyntax))
	assert.False(t, c.HasProblems(category("unknown")))

	all := c.Get()
	require.Len(t, all, 2)
	assert.Equal(t, "broken", all[0].Message)
	assert.Equal(t, "odd", all[1].Message)

	syntaxOnly := c.Get(catSyntax)
	require.Len(t, syntaxOnly, 1)
	assert.Equal(t, "broken", syntaxOnly[0].Message)
}

func TestCollectionUnknownCategoryDropped(t *testing.T) {
	c := NewCollection(catSyntax)

	c.Add(category("unknown"), Diagnostic{Message: "dropped"})

	assert.False(t, c.HasProblems())
	assert.Empty(t, c.Get())
}

func TestCollectionClear(t *testing.T) {
	c := NewCollection(catSyntax, catLogical)
	c.Add(catSyntax, Diagnostic{Message: "a"})
	c.Add(catLogical, Diagnostic{Message: "b"})

	c.Clear(catSyntax)
	assert.False(t, c.HasProblems(catSyntax))
	assert.True(t, c.HasProblems(catLogical))

	c.Clear()
	assert.False(t, c.HasProblems())
}

func TestCollectionGetWithOffset(t *testing.T) {
	c := NewCollection(catSyntax)
	c.Add(catSyntax, Diagnostic{Message: "a", From: 3, To: 7})

	shifted := c.GetWithOffset(100)
	require.Len(t, shifted, 1)
	assert.Equal(t, 103, shifted[0].From)
	assert.Equal(t, 107, shifted[0].To)

	// The stored diagnostic is untouched.
	original := c.Get()
	require.Len(t, original, 1)
	assert.Equal(t, 3, original[0].From)
}

func TestCollectionByCategory(t *testing.T) {
	c := NewCollection(catSyntax, catLogical)
	c.Add(catSyntax, Diagnostic{Message: "a"})

	byCat := c.ByCategory()
	require.Len(t, byCat, 1)
	assert.Len(t, byCat["syntax"], 1)
}

// fakeOwner recognizes only the "syntax" rule family.
type fakeOwner struct {
	linted []string
	diags  map[string][]Diagnostic
}

func (f *fakeOwner) Lint(categories ...string) {
	f.linted = append(f.linted, categories...)
}

func (f *fakeOwner) CollectDiagnostics(categories ...string) map[string][]Diagnostic {
	return f.diags
}

func (f *fakeOwner) Recognizes(category string) bool {
	return category == "syntax"
}

func TestDelegateLint(t *testing.T) {
	owner := &fakeOwner{
		diags: map[string][]Diagnostic{
			"syntax": {{Message: "bad token", From: 4, To: 6}},
		},
	}
	dst := NewCollection(catSyntax, catLogical)

	DelegateLint(dst, owner, 10, catSyntax, catLogical)

	assert.Equal(t, []string{"syntax"}, owner.linted)

	merged := dst.Get(catSyntax)
	require.Len(t, merged, 1)
	assert.Equal(t, "bad token", merged[0].Message)
	assert.Equal(t, 14, merged[0].From)
	assert.Equal(t, 16, merged[0].To)
}

func TestDelegateLintNoRecognizedCategories(t *testing.T) {
	owner := &fakeOwner{}
	dst := NewCollection(catLogical)

	DelegateLint(dst, owner, 0, catLogical)

	assert.Empty(t, owner.linted)
	assert.False(t, dst.HasProblems())
}
