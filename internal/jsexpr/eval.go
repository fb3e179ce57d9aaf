package jsexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// evalError is an evaluation failure at the offending node's range.
type evalError struct {
	msg  string
	from int
	to   int
}

func (e *evalError) Error() string { return e.msg }

// evaluator executes a parsed expression against a literal variable
// binding. It is a dedicated interpreter restricted to the side-effect-free
// subset: no calls, no assignments, no ambient names of any kind.
type evaluator struct {
	variables map[string]string
}

func (ev *evaluator) eval(node Node) (any, *evalError) {
	switch n := node.(type) {
	case *Literal:
		return n.Value, nil
	case *Ident:
		// Unknown identifiers evaluate to the empty string; linting has
		// already flagged anything that is neither a global nor a property.
		return ev.variables[n.Name], nil
	case *Paren:
		return ev.eval(n.Inner)
	case *TemplateLiteral:
		var b strings.Builder
		for i, quasi := range n.Quasis {
			b.WriteString(quasi)
			if i < len(n.Exprs) {
				value, err := ev.eval(n.Exprs[i])
				if err != nil {
					return nil, err
				}
				b.WriteString(toString(value))
			}
		}
		return b.String(), nil
	case *Unary:
		return ev.evalUnary(n)
	case *Binary:
		return ev.evalBinary(n)
	case *Conditional:
		cond, err := ev.eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return ev.eval(n.Then)
		}
		return ev.eval(n.Else)
	case *Member:
		return ev.evalMember(n)
	case *Array:
		out := make([]any, 0, len(n.Elements))
		for _, elem := range n.Elements {
			value, err := ev.eval(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case *Object:
		out := make(map[string]any, len(n.Properties))
		for _, prop := range n.Properties {
			key, err := ev.propertyKey(prop)
			if err != nil {
				return nil, err
			}
			value, err := ev.eval(prop.Value)
			if err != nil {
				return nil, err
			}
			out[key] = value
		}
		return out, nil
	case *Call:
		r := n.Range()
		return nil, &evalError{msg: "call expressions cannot be evaluated", from: r.From, to: r.To}
	case *Assign:
		r := n.Range()
		return nil, &evalError{msg: "assignments cannot be evaluated", from: r.From, to: r.To}
	}
	r := node.Range()
	return nil, &evalError{msg: "unsupported expression", from: r.From, to: r.To}
}

func (ev *evaluator) propertyKey(prop Property) (string, *evalError) {
	if prop.Computed {
		value, err := ev.eval(prop.Key)
		if err != nil {
			return "", err
		}
		return toString(value), nil
	}
	switch key := prop.Key.(type) {
	case *Ident:
		return key.Name, nil
	case *Literal:
		return toString(key.Value), nil
	}
	r := prop.Key.Range()
	return "", &evalError{msg: "unsupported property key", from: r.From, to: r.To}
}

func (ev *evaluator) evalUnary(n *Unary) (any, *evalError) {
	operand, err := ev.eval(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!":
		return !Truthy(operand), nil
	case "-":
		return -toNumber(operand), nil
	case "+":
		return toNumber(operand), nil
	case "typeof":
		return typeOf(operand), nil
	}
	return nil, &evalError{msg: fmt.Sprintf("unsupported operator '%s'", n.Op), from: n.From, to: n.To}
}

func (ev *evaluator) evalBinary(n *Binary) (any, *evalError) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return nil, err
	}
	// Logical operators short-circuit.
	switch n.Op {
	case "&&":
		if !Truthy(left) {
			return left, nil
		}
		return ev.eval(n.Right)
	case "||":
		if Truthy(left) {
			return left, nil
		}
		return ev.eval(n.Right)
	case "??":
		if left != nil {
			return left, nil
		}
		return ev.eval(n.Right)
	}
	right, err := ev.eval(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "+":
		if isString(left) || isString(right) {
			return toString(left) + toString(right), nil
		}
		return toNumber(left) + toNumber(right), nil
	case "-":
		return toNumber(left) - toNumber(right), nil
	case "*":
		return toNumber(left) * toNumber(right), nil
	case "/":
		return toNumber(left) / toNumber(right), nil
	case "%":
		return math.Mod(toNumber(left), toNumber(right)), nil
	case "**":
		return math.Pow(toNumber(left), toNumber(right)), nil
	case "==":
		return looseEquals(left, right), nil
	case "!=":
		return !looseEquals(left, right), nil
	case "===":
		return strictEquals(left, right), nil
	case "!==":
		return !strictEquals(left, right), nil
	case "<", ">", "<=", ">=":
		return compare(n.Op, left, right), nil
	}
	r := n.Range()
	return nil, &evalError{msg: fmt.Sprintf("unsupported operator '%s'", n.Op), from: r.From, to: r.To}
}

func (ev *evaluator) evalMember(n *Member) (any, *evalError) {
	object, err := ev.eval(n.Object)
	if err != nil {
		return nil, err
	}
	var key string
	if n.Computed {
		value, err := ev.eval(n.Property)
		if err != nil {
			return nil, err
		}
		key = toString(value)
	} else {
		key = n.Property.(*Ident).Name
	}
	switch obj := object.(type) {
	case map[string]any:
		return obj[key], nil
	case []any:
		if key == "length" {
			return float64(len(obj)), nil
		}
		if index, err := strconv.Atoi(key); err == nil && index >= 0 && index < len(obj) {
			return obj[index], nil
		}
		return nil, nil
	case string:
		if key == "length" {
			return float64(len(obj)), nil
		}
		if index, err := strconv.Atoi(key); err == nil && index >= 0 && index < len(obj) {
			return string(obj[index]), nil
		}
		return nil, nil
	case nil:
		r := n.Range()
		return nil, &evalError{msg: "cannot read properties of null", from: r.From, to: r.To}
	}
	return nil, nil
}

// Truthy reports JS truthiness of an evaluated value.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	}
	return true
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = toString(elem)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprintf("%v", value)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func toNumber(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	}
	return math.NaN()
}

func isString(value any) bool {
	_, ok := value.(string)
	return ok
}

func typeOf(value any) string {
	switch value.(type) {
	case nil:
		return "undefined"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	default:
		return "object"
	}
}

func strictEquals(left, right any) bool {
	if typeOf(left) != typeOf(right) {
		return false
	}
	return looseEquals(left, right)
}

func looseEquals(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	// Numeric coercion when the types differ.
	if typeOf(left) != typeOf(right) {
		return toNumber(left) == toNumber(right)
	}
	switch l := left.(type) {
	case string:
		return l == right.(string)
	case bool:
		return l == right.(bool)
	case float64:
		return l == right.(float64)
	}
	return false
}

func compare(op string, left, right any) bool {
	if isString(left) && isString(right) {
		l, r := left.(string), right.(string)
		switch op {
		case "<":
			return l < r
		case ">":
			return l > r
		case "<=":
			return l <= r
		case ">=":
			return l >= r
		}
	}
	l, r := toNumber(left), toNumber(right)
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	}
	return false
}
