//go:build property
// +build property

package htmlast

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSerializationProperties tests invariant properties of parsing and
// serialization
func TestSerializationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property 1: Well-formed markup round-trips byte for byte
	properties.Property("raw round-trip", prop.ForAll(
		func(tag, text string) bool {
			raw := fmt.Sprintf("<%s class=\"box\">%s</%s>", tag, text, tag)
			ast := Parse(raw)
			if ast.HasProblems(CategorySyntax) {
				return false
			}
			return ast.ToString(false) == raw
		},
		gen.OneConstOf("div", "section", "span", "main", "article"),
		gen.RegexMatch(`^[a-zA-Z0-9 ]*$`).SuchThat(func(s string) bool {
			return len(s) <= 40
		}),
	))

	// Property 2: Minification is idempotent
	properties.Property("minify idempotency", prop.ForAll(
		func(tag, text string) bool {
			raw := fmt.Sprintf("<%s>\n  %s\n</%s>", tag, text, tag)
			once := Parse(raw).ToString(true)
			twice := Parse(once).ToString(true)
			return once == twice
		},
		gen.OneConstOf("div", "p", "ul", "header"),
		gen.RegexMatch(`^[a-zA-Z0-9 ]*$`).SuchThat(func(s string) bool {
			return len(s) <= 40
		}),
	))

	// Property 3: Minification never grows the output
	properties.Property("minify never grows", prop.ForAll(
		func(text string) bool {
			raw := "<div>\n  " + text + "\n</div>"
			ast := Parse(raw)
			return len(ast.ToString(true)) <= len(ast.ToString(false))
		},
		gen.RegexMatch(`^[a-zA-Z0-9 ]*$`).SuchThat(func(s string) bool {
			return len(s) <= 60
		}),
	))

	properties.TestingRun(t)
}

// TestMustacheProperties tests properties of mustache substitution
func TestMustacheProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property 1: Text without mustache tags is never altered
	properties.Property("plain text untouched", prop.ForAll(
		func(text string) bool {
			return SubstituteMustaches(text, map[string]string{"title": "x"}) == text
		},
		gen.RegexMatch(`^[a-zA-Z0-9 .,!?]*$`).SuchThat(func(s string) bool {
			return len(s) <= 60
		}),
	))

	// Property 2: A bound variable is substituted with its value
	properties.Property("bound variable substitution", prop.ForAll(
		func(value string) bool {
			out := SubstituteMustaches("a {{ title }} b", map[string]string{"title": value})
			return out == "a "+value+" b"
		},
		gen.RegexMatch(`^[a-zA-Z0-9]*$`).SuchThat(func(s string) bool {
			return len(s) <= 20
		}),
	))

	// Property 3: Substitution output contains no remaining mustache tags
	properties.Property("no tags survive substitution", prop.ForAll(
		func(name string) bool {
			out := SubstituteMustaches("{{ "+name+" }}", nil)
			return out == ""
		},
		gen.RegexMatch(`^[a-z][a-zA-Z0-9]*$`).SuchThat(func(s string) bool {
			return len(s) >= 1 && len(s) <= 15
		}),
	))

	properties.TestingRun(t)
}

// TestCloneProperties tests that cloning detaches the copy from the
// original tree
func TestCloneProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("clone independence", prop.ForAll(
		func(tag, value string) bool {
			raw := fmt.Sprintf("<%s data-x=\"%s\"><span>inner</span></%s>", tag, value, tag)
			ast := Parse(raw)
			elements := ast.RootElements()
			if len(elements) != 1 {
				return false
			}
			original := elements[0]
			clone := original.Clone()

			clone.SetAttribute("data-x", "changed")
			got, _ := original.GetAttribute("data-x")
			return got == value && clone.Parent == nil
		},
		gen.OneConstOf("div", "section", "aside"),
		gen.RegexMatch(`^[a-zA-Z0-9]*$`).SuchThat(func(s string) bool {
			return len(s) <= 10
		}),
	))

	properties.TestingRun(t)
}
