//go:build property
// +build property

package jsexpr

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestEvaluationProperties tests invariant properties of expression
// evaluation
func TestEvaluationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property 1: Evaluation is deterministic
	properties.Property("deterministic evaluation", prop.ForAll(
		func(a, b int) bool {
			raw := fmt.Sprintf("%d + %d * 2", a, b)
			first, ok1 := New(raw).Evaluate(nil)
			second, ok2 := New(raw).Evaluate(nil)
			return ok1 && ok2 && first == second
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	// Property 2: Integer arithmetic matches Go arithmetic
	properties.Property("integer addition", prop.ForAll(
		func(a, b int) bool {
			value, ok := New(fmt.Sprintf("%d + %d", a, b)).Evaluate(nil)
			if !ok {
				return false
			}
			num, isNum := value.(float64)
			return isNum && num == float64(a+b)
		},
		gen.IntRange(-10000, 10000),
		gen.IntRange(-10000, 10000),
	))

	// Property 3: Bound variables evaluate to their string value
	properties.Property("variable binding", prop.ForAll(
		func(value string) bool {
			got, ok := New("name").Evaluate(map[string]string{"name": value})
			return ok && got == value
		},
		gen.RegexMatch(`^[a-zA-Z0-9 ]*$`).SuchThat(func(s string) bool {
			return len(s) <= 30
		}),
	))

	// Property 4: Double negation preserves truthiness
	properties.Property("double negation", prop.ForAll(
		func(n int) bool {
			raw := fmt.Sprintf("%d", n)
			direct, ok1 := New(raw).Evaluate(nil)
			negated, ok2 := New("!!" + raw).Evaluate(nil)
			if !ok1 || !ok2 {
				return false
			}
			return negated == Truthy(direct)
		},
		gen.IntRange(-100, 100),
	))

	// Property 5: The conditional picks the branch its condition selects
	properties.Property("conditional branch selection", prop.ForAll(
		func(cond bool) bool {
			raw := fmt.Sprintf("%t ? 'yes' : 'no'", cond)
			value, ok := New(raw).Evaluate(nil)
			if !ok {
				return false
			}
			if cond {
				return value == "yes"
			}
			return value == "no"
		},
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestRewriteProperties tests properties of identifier rewriting
func TestRewriteProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property 1: AddThis with no targets leaves the expression unchanged
	properties.Property("empty target set", prop.ForAll(
		func(name string) bool {
			raw := name + " + 1"
			return NewDirective(raw).AddThis(nil) == raw
		},
		gen.RegexMatch(`^[a-z][a-zA-Z0-9]*$`).SuchThat(func(s string) bool {
			return len(s) >= 1 && len(s) <= 12 && s != "in" && s != "of" &&
				s != "true" && s != "false" && s != "null" && s != "undefined"
		}),
	))

	// Property 2: Every targeted identifier gains a this prefix
	properties.Property("targets prefixed", prop.ForAll(
		func(name string) bool {
			out := NewDirective(name + " + 1").AddThis([]string{name})
			return out == "this."+name+" + 1"
		},
		gen.RegexMatch(`^[a-z][a-zA-Z0-9]*$`).SuchThat(func(s string) bool {
			return len(s) >= 1 && len(s) <= 12 && s != "in" && s != "of" &&
				s != "true" && s != "false" && s != "null" && s != "undefined"
		}),
	))

	// Property 3: RenameIdentifiers with an identity mapping is a no-op
	properties.Property("identity rename", prop.ForAll(
		func(name string) bool {
			raw := name + " * 2"
			out := NewDirective(raw).RenameIdentifiers(map[string]string{name: name})
			return out == raw
		},
		gen.RegexMatch(`^[a-z][a-zA-Z0-9]*$`).SuchThat(func(s string) bool {
			return len(s) >= 1 && len(s) <= 12 && s != "in" && s != "of" &&
				s != "true" && s != "false" && s != "null" && s != "undefined"
		}),
	))

	properties.TestingRun(t)
}
