package jsexpr

import (
	"fmt"
	"strings"
)

// parser is a Pratt parser over the token stream of one expression.
type parser struct {
	raw    string
	tokens []token
	pos    int
	// allowAssign is set in directive mode, where bodies may mutate
	// hoisted state (x-on handlers and the like).
	allowAssign bool
}

var reservedWords = map[string]bool{
	"var": true, "let": true, "const": true, "function": true, "class": true,
	"return": true, "if": true, "else": true, "for": true, "while": true,
	"do": true, "switch": true, "new": true, "delete": true, "void": true,
	"yield": true, "await": true, "async": true, "throw": true, "try": true,
	"catch": true, "finally": true, "import": true, "export": true,
}

func parseExpression(raw string, allowAssign bool) (Node, *syntaxError) {
	tokens, err := lex(raw)
	if err != nil {
		return nil, err
	}
	p := &parser{raw: raw, tokens: tokens, allowAssign: allowAssign}
	if p.at(tokEOF) {
		return nil, &syntaxError{msg: "empty expression", from: 0, to: len(raw)}
	}
	node, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if !p.at(tokEOF) {
		tok := p.current()
		return nil, &syntaxError{msg: fmt.Sprintf("unexpected '%s'", tok.text), from: tok.from, to: tok.to}
	}
	return node, nil
}

func (p *parser) current() token { return p.tokens[p.pos] }

func (p *parser) at(kind tokenKind, text ...string) bool {
	tok := p.tokens[p.pos]
	if tok.kind != kind {
		return false
	}
	return len(text) == 0 || tok.text == text[0]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind, text string) (token, *syntaxError) {
	if !p.at(kind, text) {
		tok := p.current()
		if tok.kind == tokEOF {
			return tok, &syntaxError{msg: fmt.Sprintf("expected '%s'", text), from: tok.from, to: tok.to}
		}
		return tok, &syntaxError{msg: fmt.Sprintf("expected '%s', found '%s'", text, tok.text), from: tok.from, to: tok.to}
	}
	return p.advance(), nil
}

func (p *parser) parseAssign() (Node, *syntaxError) {
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.at(tokOperator) && isAssignOp(p.current().text) {
		op := p.advance()
		if !p.allowAssign {
			return nil, &syntaxError{msg: "assignment is not allowed here", from: op.from, to: op.to}
		}
		if !isAssignTarget(left) {
			r := left.Range()
			return nil, &syntaxError{msg: "invalid assignment target", from: r.From, to: r.To}
		}
		right, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &Assign{Op: op.text, Target: left, Value: right}, nil
	}
	return left, nil
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "**=":
		return true
	}
	return false
}

func isAssignTarget(node Node) bool {
	switch node.(type) {
	case *Ident, *Member:
		return true
	}
	return false
}

func (p *parser) parseConditional() (Node, *syntaxError) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.at(tokPunct, "?") {
		return cond, nil
	}
	p.advance()
	then, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokPunct, ":"); err != nil {
		return nil, err
	}
	alt, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return &Conditional{Cond: cond, Then: then, Else: alt}, nil
}

// binaryPrecedence follows the JS operator table for the supported subset.
func binaryPrecedence(tok token) int {
	if tok.kind == tokIdent && (tok.text == "in" || tok.text == "instanceof") {
		return 0 // not supported as binary operators outside loop heads
	}
	if tok.kind != tokOperator {
		return 0
	}
	switch tok.text {
	case "??":
		return 1
	case "||":
		return 2
	case "&&":
		return 3
	case "==", "!=", "===", "!==":
		return 4
	case "<", ">", "<=", ">=":
		return 5
	case "+", "-":
		return 6
	case "*", "/", "%":
		return 7
	case "**":
		return 8
	}
	return 0
}

func (p *parser) parseBinary(minPrec int) (Node, *syntaxError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec := binaryPrecedence(p.current())
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		op := p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op.text, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Node, *syntaxError) {
	if p.at(tokOperator, "!") || p.at(tokOperator, "-") || p.at(tokOperator, "+") {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op.text, Operand: operand, From: op.from, To: operand.Range().To}, nil
	}
	if p.at(tokIdent, "typeof") {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "typeof", Operand: operand, From: op.from, To: operand.Range().To}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Node, *syntaxError) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(tokPunct, "."):
			p.advance()
			if !p.at(tokIdent) {
				tok := p.current()
				return nil, &syntaxError{msg: "expected property name", from: tok.from, to: tok.to}
			}
			prop := p.advance()
			node = &Member{
				Object:   node,
				Property: &Ident{Name: prop.text, From: prop.from, To: prop.to},
				To:       prop.to,
			}
		case p.at(tokPunct, "["):
			p.advance()
			index, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(tokPunct, "]")
			if err != nil {
				return nil, err
			}
			node = &Member{Object: node, Property: index, Computed: true, To: end.to}
		case p.at(tokPunct, "("):
			p.advance()
			var args []Node
			for !p.at(tokPunct, ")") {
				arg, err := p.parseAssign()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.at(tokPunct, ",") {
					p.advance()
					continue
				}
				break
			}
			end, err := p.expect(tokPunct, ")")
			if err != nil {
				return nil, err
			}
			node = &Call{Callee: node, Args: args, To: end.to}
		default:
			return node, nil
		}
	}
}

func (p *parser) parsePrimary() (Node, *syntaxError) {
	tok := p.current()
	switch tok.kind {
	case tokNumber:
		p.advance()
		return &Literal{Value: tok.value, Raw: tok.text, From: tok.from, To: tok.to}, nil
	case tokString:
		p.advance()
		return &Literal{Value: tok.value, Raw: tok.text, From: tok.from, To: tok.to}, nil
	case tokTemplate:
		p.advance()
		return parseTemplateLiteral(tok)
	case tokIdent:
		switch tok.text {
		case "true", "false":
			p.advance()
			return &Literal{Value: tok.text == "true", Raw: tok.text, From: tok.from, To: tok.to}, nil
		case "null", "undefined":
			p.advance()
			return &Literal{Value: nil, Raw: tok.text, From: tok.from, To: tok.to}, nil
		}
		if reservedWords[tok.text] {
			return nil, &syntaxError{msg: fmt.Sprintf("unexpected keyword '%s'", tok.text), from: tok.from, to: tok.to}
		}
		p.advance()
		return &Ident{Name: tok.text, From: tok.from, To: tok.to}, nil
	case tokPunct:
		switch tok.text {
		case "(":
			p.advance()
			inner, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(tokPunct, ")")
			if err != nil {
				return nil, err
			}
			return &Paren{Inner: inner, From: tok.from, To: end.to}, nil
		case "[":
			return p.parseArray()
		case "{":
			return p.parseObject()
		}
	}
	if tok.kind == tokEOF {
		return nil, &syntaxError{msg: "unexpected end of expression", from: tok.from, to: tok.to}
	}
	return nil, &syntaxError{msg: fmt.Sprintf("unexpected '%s'", tok.text), from: tok.from, to: tok.to}
}

func (p *parser) parseArray() (Node, *syntaxError) {
	start := p.advance() // '['
	arr := &Array{From: start.from}
	for !p.at(tokPunct, "]") {
		elem, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, elem)
		if p.at(tokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	end, err := p.expect(tokPunct, "]")
	if err != nil {
		return nil, err
	}
	arr.To = end.to
	return arr, nil
}

func (p *parser) parseObject() (Node, *syntaxError) {
	start := p.advance() // '{'
	obj := &Object{From: start.from}
	for !p.at(tokPunct, "}") {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		obj.Properties = append(obj.Properties, *prop)
		if p.at(tokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	end, err := p.expect(tokPunct, "}")
	if err != nil {
		return nil, err
	}
	obj.To = end.to
	return obj, nil
}

func (p *parser) parseProperty() (*Property, *syntaxError) {
	tok := p.current()
	switch {
	case tok.kind == tokIdent:
		key := p.advance()
		keyIdent := &Ident{Name: key.text, From: key.from, To: key.to}
		if p.at(tokPunct, ":") {
			p.advance()
			value, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			return &Property{Key: keyIdent, Value: value}, nil
		}
		if p.at(tokPunct, ",") || p.at(tokPunct, "}") {
			return &Property{Key: keyIdent, Value: keyIdent, Shorthand: true}, nil
		}
		next := p.current()
		return nil, &syntaxError{msg: fmt.Sprintf("expected ':', found '%s'", next.text), from: next.from, to: next.to}
	case tok.kind == tokString || tok.kind == tokNumber:
		key := p.advance()
		if _, err := p.expect(tokPunct, ":"); err != nil {
			return nil, err
		}
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &Property{
			Key:   &Literal{Value: key.value, Raw: key.text, From: key.from, To: key.to},
			Value: value,
		}, nil
	case tok.kind == tokPunct && tok.text == "[":
		p.advance()
		key, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokPunct, "]"); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokPunct, ":"); err != nil {
			return nil, err
		}
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &Property{Key: key, Value: value, Computed: true}, nil
	}
	return nil, &syntaxError{msg: "expected object property", from: tok.from, to: tok.to}
}

// parseTemplateLiteral re-parses a whole backtick token into quasis and
// interpolated sub-expressions, with ranges shifted into the raw text.
func parseTemplateLiteral(tok token) (Node, *syntaxError) {
	lit := &TemplateLiteral{From: tok.from, To: tok.to}
	body := tok.text[1 : len(tok.text)-1]
	var quasi strings.Builder
	i := 0
	for i < len(body) {
		switch {
		case body[i] == '\\' && i+1 < len(body):
			quasi.WriteByte(body[i+1])
			i += 2
		case body[i] == '$' && i+1 < len(body) && body[i+1] == '{':
			depth := 1
			j := i + 2
			for j < len(body) && depth > 0 {
				switch body[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			exprText := body[i+2 : j-1]
			inner, err := parseExpression(exprText, false)
			if err != nil {
				err.from += tok.from + 1 + i + 2
				err.to += tok.from + 1 + i + 2
				return nil, err
			}
			shiftRanges(inner, tok.from+1+i+2)
			lit.Quasis = append(lit.Quasis, quasi.String())
			lit.Exprs = append(lit.Exprs, inner)
			quasi.Reset()
			i = j
		default:
			quasi.WriteByte(body[i])
			i++
		}
	}
	lit.Quasis = append(lit.Quasis, quasi.String())
	return lit, nil
}

// shiftRanges moves every node range in the subtree by delta. Template
// interpolations are parsed from a substring and need their offsets
// translated back into the enclosing raw text.
func shiftRanges(node Node, delta int) {
	Walk(node, func(n Node) bool {
		switch v := n.(type) {
		case *Ident:
			v.From += delta
			v.To += delta
		case *Literal:
			v.From += delta
			v.To += delta
		case *TemplateLiteral:
			v.From += delta
			v.To += delta
		case *Unary:
			v.From += delta
			v.To += delta
		case *Member:
			v.To += delta
			if !v.Computed {
				// Walk does not visit non-computed properties.
				if id, ok := v.Property.(*Ident); ok {
					id.From += delta
					id.To += delta
				}
			}
		case *Call:
			v.To += delta
		case *Array:
			v.From += delta
			v.To += delta
		case *Object:
			v.From += delta
			v.To += delta
			for _, prop := range v.Properties {
				// Shorthand values alias the key and are shifted via Walk.
				if prop.Computed || prop.Shorthand {
					continue
				}
				switch key := prop.Key.(type) {
				case *Ident:
					key.From += delta
					key.To += delta
				case *Literal:
					key.From += delta
					key.To += delta
				}
			}
		case *Paren:
			v.From += delta
			v.To += delta
		}
		return true
	})
}
