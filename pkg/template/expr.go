package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
)

// Lookup resolves a variable name to a value. The renderer threads one
// through every evaluation; there is no implicit environment.
type Lookup func(name string) (config.Value, bool)

// Condition grammar:
//
//	expr    := and ( "||" and )*
//	and     := unary ( "&&" unary )*
//	unary   := "!" unary | primary
//	primary := "(" expr ")" | ident ( ("=="|"!=") literal )?
//
// A bare identifier is its value's truthiness. Literals are quoted strings
// or true/false.
type exprNode interface {
	eval(get Lookup) (bool, error)
}

type exprTokenKind int

const (
	exprIdent exprTokenKind = iota
	exprString
	exprBool
	exprEq
	exprNeq
	exprAnd
	exprOr
	exprNot
	exprLParen
	exprRParen
)

type exprToken struct {
	kind exprTokenKind
	raw  string
}

func tokenizeExpr(input string) ([]exprToken, error) {
	var tokens []exprToken
	i := 0

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case ch == '(':
			tokens = append(tokens, exprToken{kind: exprLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, exprToken{kind: exprRParen, raw: ")"})
			i++
		case ch == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, exprToken{kind: exprNeq, raw: "!="})
				i += 2
			} else {
				tokens = append(tokens, exprToken{kind: exprNot, raw: "!"})
				i++
			}
		case ch == '=':
			if i+1 >= len(input) || input[i+1] != '=' {
				return nil, fmt.Errorf("unexpected '='; use '=='")
			}
			tokens = append(tokens, exprToken{kind: exprEq, raw: "=="})
			i += 2
		case ch == '&':
			if i+1 >= len(input) || input[i+1] != '&' {
				return nil, fmt.Errorf("unexpected '&'; use '&&'")
			}
			tokens = append(tokens, exprToken{kind: exprAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if i+1 >= len(input) || input[i+1] != '|' {
				return nil, fmt.Errorf("unexpected '|'; use '||'")
			}
			tokens = append(tokens, exprToken{kind: exprOr, raw: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			quote := ch
			j := i + 1
			for j < len(input) && input[j] != quote {
				j++
			}
			if j >= len(input) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			tokens = append(tokens, exprToken{kind: exprString, raw: input[i+1 : j]})
			i = j + 1
		default:
			j := i
			for j < len(input) && !strings.ContainsRune(" \t()!=&|'\"", rune(input[j])) {
				j++
			}
			word := input[i:j]
			if word == "" {
				return nil, fmt.Errorf("unexpected character %q", ch)
			}
			if word == "true" || word == "false" {
				tokens = append(tokens, exprToken{kind: exprBool, raw: word})
			} else {
				tokens = append(tokens, exprToken{kind: exprIdent, raw: word})
			}
			i = j
		}
	}

	return tokens, nil
}

type exprStream struct {
	tokens []exprToken
	pos    int
}

func (s *exprStream) match(kind exprTokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *exprStream) peek() (exprToken, bool) {
	if s.pos >= len(s.tokens) {
		return exprToken{}, false
	}
	return s.tokens[s.pos], true
}

// parseCondition parses a condition expression into an evaluable tree
func parseCondition(input string) (exprNode, error) {
	tokens, err := tokenizeExpr(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty condition")
	}
	stream := &exprStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if tok, ok := stream.peek(); ok {
		return nil, fmt.Errorf("unexpected token %q", tok.raw)
	}
	return node, nil
}

func parseOr(s *exprStream) (exprNode, error) {
	left, err := parseAnd(s)
	if err != nil {
		return nil, err
	}
	for s.match(exprOr) {
		right, err := parseAnd(s)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(s *exprStream) (exprNode, error) {
	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	for s.match(exprAnd) {
		right, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(s *exprStream) (exprNode, error) {
	if s.match(exprNot) {
		inner, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parsePrimary(s)
}

func parsePrimary(s *exprStream) (exprNode, error) {
	if s.match(exprLParen) {
		inner, err := parseOr(s)
		if err != nil {
			return nil, err
		}
		if !s.match(exprRParen) {
			return nil, fmt.Errorf("missing closing ')'")
		}
		return inner, nil
	}

	tok, ok := s.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of condition")
	}
	if tok.kind != exprIdent {
		return nil, fmt.Errorf("expected variable name, got %q", tok.raw)
	}
	s.pos++

	var op exprTokenKind
	switch {
	case s.match(exprEq):
		op = exprEq
	case s.match(exprNeq):
		op = exprNeq
	default:
		return truthyNode{name: tok.raw}, nil
	}

	lit, ok := s.peek()
	if !ok {
		return nil, fmt.Errorf("missing literal after %q", tok.raw)
	}
	s.pos++
	switch lit.kind {
	case exprString, exprIdent:
		// Bare words compare as strings, matching how enum tags are written
		// in layer templates.
		return compareNode{name: tok.raw, op: op, literal: config.StringValue(lit.raw)}, nil
	case exprBool:
		b, _ := strconv.ParseBool(lit.raw)
		return compareNode{name: tok.raw, op: op, literal: config.BoolValue(b)}, nil
	default:
		return nil, fmt.Errorf("expected literal after comparison, got %q", lit.raw)
	}
}

type orNode struct{ left, right exprNode }

func (n orNode) eval(get Lookup) (bool, error) {
	ok, err := n.left.eval(get)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(get)
}

type andNode struct{ left, right exprNode }

func (n andNode) eval(get Lookup) (bool, error) {
	ok, err := n.left.eval(get)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(get)
}

type notNode struct{ inner exprNode }

func (n notNode) eval(get Lookup) (bool, error) {
	ok, err := n.inner.eval(get)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct{ name string }

func (n truthyNode) eval(get Lookup) (bool, error) {
	v, ok := get(n.name)
	if !ok {
		return false, errors.Newf(errors.ErrUnresolvedVariable,
			"unresolved variable %q in condition", n.name)
	}
	return v.Truthy(), nil
}

type compareNode struct {
	name    string
	op      exprTokenKind
	literal config.Value
}

func (n compareNode) eval(get Lookup) (bool, error) {
	v, ok := get(n.name)
	if !ok {
		return false, errors.Newf(errors.ErrUnresolvedVariable,
			"unresolved variable %q in condition", n.name)
	}

	var equal bool
	if n.literal.Kind() == config.KindBool {
		if v.Kind() == config.KindBool {
			equal = v.Bool() == n.literal.Bool()
		} else {
			equal = v.Truthy() == n.literal.Bool()
		}
	} else {
		equal = v.Text() == n.literal.Text()
	}

	if n.op == exprNeq {
		return !equal, nil
	}
	return equal, nil
}
