package jsexpr

import "github.com/frontsail/frontsail-sub000/internal/diagnostics"

// Node is implemented by every expression AST node. Ranges are byte offsets
// into the raw expression text.
type Node interface {
	Range() diagnostics.Range
}

// Ident is a plain identifier reference.
type Ident struct {
	Name string
	From int
	To   int
}

// Literal is a number, string, boolean, null, or undefined literal.
type Literal struct {
	Value any // float64, string, bool, or nil
	Raw   string
	From  int
	To    int
}

// TemplateLiteral is a backtick string with interpolated expressions.
// There is always one more quasi than expressions.
type TemplateLiteral struct {
	Quasis []string
	Exprs  []Node
	From   int
	To     int
}

// Unary is a prefix operator application.
type Unary struct {
	Op      string
	Operand Node
	From    int
	To      int
}

// Binary is a binary or logical operator application.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Conditional is a ternary expression.
type Conditional struct {
	Cond Node
	Then Node
	Else Node
}

// Member is a property or index access. Property is an *Ident for dot
// access and an arbitrary expression when Computed is true.
type Member struct {
	Object   Node
	Property Node
	Computed bool
	To       int
}

// Call is a function invocation. Calls parse but are rejected by the
// if-attribute safety check and by the evaluator.
type Call struct {
	Callee Node
	Args   []Node
	To     int
}

// Array is an array literal.
type Array struct {
	Elements []Node
	From     int
	To       int
}

// Property is one entry of an object literal. Shorthand properties have
// Value pointing at the same *Ident as Key.
type Property struct {
	Key       Node // *Ident or *Literal (string key)
	Value     Node
	Shorthand bool
	Computed  bool
}

// Object is an object literal.
type Object struct {
	Properties []Property
	From       int
	To         int
}

// Assign is an assignment expression. Assignments parse (directive bodies
// mutate hoisted state) but the evaluator rejects them.
type Assign struct {
	Op     string
	Target Node
	Value  Node
}

// Paren is a parenthesized expression, kept so ranges cover the parens.
type Paren struct {
	Inner Node
	From  int
	To    int
}

func (n *Ident) Range() diagnostics.Range   { return diagnostics.Range{From: n.From, To: n.To} }
func (n *Literal) Range() diagnostics.Range { return diagnostics.Range{From: n.From, To: n.To} }
func (n *TemplateLiteral) Range() diagnostics.Range {
	return diagnostics.Range{From: n.From, To: n.To}
}
func (n *Unary) Range() diagnostics.Range {
	return diagnostics.Range{From: n.From, To: n.To}
}
func (n *Binary) Range() diagnostics.Range {
	return diagnostics.Range{From: n.Left.Range().From, To: n.Right.Range().To}
}
func (n *Conditional) Range() diagnostics.Range {
	return diagnostics.Range{From: n.Cond.Range().From, To: n.Else.Range().To}
}
func (n *Member) Range() diagnostics.Range {
	return diagnostics.Range{From: n.Object.Range().From, To: n.To}
}
func (n *Call) Range() diagnostics.Range {
	return diagnostics.Range{From: n.Callee.Range().From, To: n.To}
}
func (n *Array) Range() diagnostics.Range  { return diagnostics.Range{From: n.From, To: n.To} }
func (n *Object) Range() diagnostics.Range { return diagnostics.Range{From: n.From, To: n.To} }
func (n *Assign) Range() diagnostics.Range {
	return diagnostics.Range{From: n.Target.Range().From, To: n.Value.Range().To}
}
func (n *Paren) Range() diagnostics.Range { return diagnostics.Range{From: n.From, To: n.To} }

// Walk calls fn for node and every descendant in depth-first, source order.
// Traversal of a subtree stops when fn returns false for its root.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *TemplateLiteral:
		for _, e := range n.Exprs {
			Walk(e, fn)
		}
	case *Unary:
		Walk(n.Operand, fn)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Conditional:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case *Member:
		Walk(n.Object, fn)
		if n.Computed {
			Walk(n.Property, fn)
		}
	case *Call:
		Walk(n.Callee, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *Array:
		for _, e := range n.Elements {
			Walk(e, fn)
		}
	case *Object:
		for _, p := range n.Properties {
			if p.Computed {
				Walk(p.Key, fn)
			}
			// Shorthand values are the key ident itself and still count
			// as identifier references.
			Walk(p.Value, fn)
		}
	case *Assign:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *Paren:
		Walk(n.Inner, fn)
	}
}
