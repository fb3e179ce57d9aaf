package jsexpr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokTemplate // backtick literal, lexed whole and re-parsed for interpolation
	tokOperator
	tokPunct // ( ) [ ] { } , : . ? ;
)

type token struct {
	kind tokenKind
	text string
	from int
	to   int
	// value holds the decoded literal for tokNumber and tokString.
	value any
}

// syntaxError is a lexing or parsing failure at a byte offset range.
type syntaxError struct {
	msg  string
	from int
	to   int
}

func (e *syntaxError) Error() string { return e.msg }

var operatorList = []string{
	"===", "!==", "**=",
	"==", "!=", "<=", ">=", "&&", "||", "??", "**", "+=", "-=", "*=", "/=", "%=", "=>",
	"+", "-", "*", "/", "%", "<", ">", "!", "=",
}

// lex splits raw into tokens. It fails on the first unrecognized or
// unterminated construct.
func lex(raw string) ([]token, *syntaxError) {
	var tokens []token
	i := 0
	for i < len(raw) {
		r, size := utf8.DecodeRuneInString(raw[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '\'' || r == '"':
			str, end, err := lexString(raw, i, byte(r))
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: raw[i:end], from: i, to: end, value: str})
			i = end
		case r == '`':
			end, err := lexTemplate(raw, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokTemplate, text: raw[i:end], from: i, to: end})
			i = end
		case r >= '0' && r <= '9' || r == '.' && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '9':
			end := i
			for end < len(raw) && (raw[end] >= '0' && raw[end] <= '9' || raw[end] == '.' || raw[end] == 'e' ||
				raw[end] == 'E' || raw[end] == '_' ||
				(raw[end] == '-' || raw[end] == '+') && end > i && (raw[end-1] == 'e' || raw[end-1] == 'E')) {
				end++
			}
			text := strings.ReplaceAll(raw[i:end], "_", "")
			value, parseErr := strconv.ParseFloat(text, 64)
			if parseErr != nil {
				return nil, &syntaxError{msg: fmt.Sprintf("invalid number '%s'", raw[i:end]), from: i, to: end}
			}
			tokens = append(tokens, token{kind: tokNumber, text: raw[i:end], from: i, to: end, value: value})
			i = end
		case isIdentStart(r):
			end := i + size
			for end < len(raw) {
				r2, size2 := utf8.DecodeRuneInString(raw[end:])
				if !isIdentPart(r2) {
					break
				}
				end += size2
			}
			tokens = append(tokens, token{kind: tokIdent, text: raw[i:end], from: i, to: end})
			i = end
		case r == '?' && strings.HasPrefix(raw[i:], "??"):
			tokens = append(tokens, token{kind: tokOperator, text: "??", from: i, to: i + 2})
			i += 2
		case strings.ContainsRune("()[]{},:.?;", r):
			tokens = append(tokens, token{kind: tokPunct, text: string(r), from: i, to: i + 1})
			i++
		default:
			if op := matchOperator(raw[i:]); op != "" {
				tokens = append(tokens, token{kind: tokOperator, text: op, from: i, to: i + len(op)})
				i += len(op)
				continue
			}
			return nil, &syntaxError{msg: fmt.Sprintf("unexpected character '%c'", r), from: i, to: i + size}
		}
	}
	tokens = append(tokens, token{kind: tokEOF, from: len(raw), to: len(raw)})
	return tokens, nil
}

func matchOperator(s string) string {
	for _, op := range operatorList {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

func lexString(raw string, start int, quote byte) (string, int, *syntaxError) {
	var b strings.Builder
	i := start + 1
	for i < len(raw) {
		c := raw[i]
		switch c {
		case quote:
			return b.String(), i + 1, nil
		case '\\':
			if i+1 >= len(raw) {
				break
			}
			switch raw[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(raw[i+1])
			}
			i += 2
			continue
		default:
			b.WriteByte(c)
		}
		i++
	}
	return "", len(raw), &syntaxError{msg: "unterminated string", from: start, to: len(raw)}
}

// lexTemplate finds the end of a backtick literal, honoring nested `${ }`
// interpolations (which may themselves contain strings and braces).
func lexTemplate(raw string, start int) (int, *syntaxError) {
	i := start + 1
	for i < len(raw) {
		switch {
		case raw[i] == '`':
			return i + 1, nil
		case raw[i] == '\\' && i+1 < len(raw):
			i += 2
		case raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{':
			depth := 1
			i += 2
			for i < len(raw) && depth > 0 {
				switch raw[i] {
				case '{':
					depth++
				case '}':
					depth--
				}
				i++
			}
			if depth > 0 {
				return len(raw), &syntaxError{msg: "unterminated template interpolation", from: start, to: len(raw)}
			}
		default:
			i++
		}
	}
	return len(raw), &syntaxError{msg: "unterminated template literal", from: start, to: len(raw)}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
