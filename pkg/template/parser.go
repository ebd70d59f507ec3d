package template

import (
	"strings"

	"github.com/arthur-debert/strata/pkg/errors"
)

type node interface{}

type textNode struct {
	text string
}

type varNode struct {
	name string
	line int
	col  int
}

type branch struct {
	cond exprNode
	src  string
	body []node
}

type ifNode struct {
	branches []branch // if plus any elifs, in order
	elseBody []node
	line     int
	col      int
}

type forNode struct {
	loopVar    string
	collection string
	body       []node
	line       int
	col        int
}

// Template is a parsed template, reusable across configurations
type Template struct {
	path  string
	nodes []node
}

// Path returns the template's source path as used in error messages
func (t *Template) Path() string {
	return t.path
}

// Parse lexes and parses a template. Block tags are matched with a stack
// discipline (last opened, first closed); any mismatch is an
// UnbalancedBlock error carrying the offending tag's position.
func Parse(path, source string) (*Template, error) {
	tokens, err := lex(path, source)
	if err != nil {
		return nil, err
	}

	p := &parser{path: path, tokens: tokens}
	nodes, terminator, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	if terminator != nil {
		return nil, errors.Newf(errors.ErrUnbalancedBlock,
			"%s:%d:%d: %q without matching opening tag",
			path, terminator.line, terminator.col, terminator.text)
	}
	return &Template{path: path, nodes: nodes}, nil
}

type parser struct {
	path   string
	tokens []token
	pos    int
}

// parseNodes consumes tokens until it hits a terminator block tag (elif,
// else, endif, endfor) or the end of input. The terminator, if any, is
// returned unconsumed-by-meaning for the caller to interpret.
func (p *parser) parseNodes() ([]node, *token, error) {
	var nodes []node

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		switch tok.kind {
		case tokenText:
			nodes = append(nodes, textNode{text: tok.text})

		case tokenVar:
			name := tok.text
			if !isIdentifier(name) {
				return nil, nil, errors.Newf(errors.ErrTemplateSyntax,
					"%s:%d:%d: invalid substitution %q", p.path, tok.line, tok.col, name)
			}
			nodes = append(nodes, varNode{name: name, line: tok.line, col: tok.col})

		case tokenBlock:
			keyword, rest := splitKeyword(tok.text)
			switch keyword {
			case "if":
				n, err := p.parseIf(tok, rest)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, n)
			case "for":
				n, err := p.parseFor(tok, rest)
				if err != nil {
					return nil, nil, err
				}
				nodes = append(nodes, n)
			case "elif", "else", "endif", "endfor":
				return nodes, &tok, nil
			default:
				return nil, nil, errors.Newf(errors.ErrTemplateSyntax,
					"%s:%d:%d: unknown block tag %q", p.path, tok.line, tok.col, keyword)
			}
		}
	}

	return nodes, nil, nil
}

func (p *parser) parseIf(open token, condSrc string) (node, error) {
	out := ifNode{line: open.line, col: open.col}

	cond, err := parseCondition(condSrc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateSyntax,
			"%s:%d:%d: bad condition %q", p.path, open.line, open.col, condSrc)
	}
	current := branch{cond: cond, src: condSrc}

	for {
		body, terminator, err := p.parseNodes()
		if err != nil {
			return nil, err
		}
		if terminator == nil {
			return nil, errors.Newf(errors.ErrUnbalancedBlock,
				"%s:%d:%d: %q has no matching endif", p.path, open.line, open.col, "if "+condSrc)
		}

		keyword, rest := splitKeyword(terminator.text)
		switch keyword {
		case "endif":
			if out.elseBody != nil {
				out.elseBody = body
			} else {
				current.body = body
				out.branches = append(out.branches, current)
			}
			return out, nil
		case "elif":
			if out.elseBody != nil {
				return nil, errors.Newf(errors.ErrUnbalancedBlock,
					"%s:%d:%d: elif after else", p.path, terminator.line, terminator.col)
			}
			current.body = body
			out.branches = append(out.branches, current)
			cond, err := parseCondition(rest)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrTemplateSyntax,
					"%s:%d:%d: bad condition %q", p.path, terminator.line, terminator.col, rest)
			}
			current = branch{cond: cond, src: rest}
		case "else":
			if out.elseBody != nil {
				return nil, errors.Newf(errors.ErrUnbalancedBlock,
					"%s:%d:%d: duplicate else", p.path, terminator.line, terminator.col)
			}
			current.body = body
			out.branches = append(out.branches, current)
			out.elseBody = []node{} // marks that else was seen even if empty
		case "endfor":
			return nil, errors.Newf(errors.ErrUnbalancedBlock,
				"%s:%d:%d: endfor closes %q opened at %d:%d",
				p.path, terminator.line, terminator.col, "if "+condSrc, open.line, open.col)
		}
	}
}

func (p *parser) parseFor(open token, header string) (node, error) {
	fields := strings.Fields(header)
	if len(fields) != 3 || fields[1] != "in" || !isIdentifier(fields[0]) || !isIdentifier(fields[2]) {
		return nil, errors.Newf(errors.ErrTemplateSyntax,
			"%s:%d:%d: malformed for tag %q, want 'for item in list'",
			p.path, open.line, open.col, "for "+header)
	}

	body, terminator, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	if terminator == nil {
		return nil, errors.Newf(errors.ErrUnbalancedBlock,
			"%s:%d:%d: %q has no matching endfor", p.path, open.line, open.col, "for "+header)
	}
	keyword, _ := splitKeyword(terminator.text)
	if keyword != "endfor" {
		return nil, errors.Newf(errors.ErrUnbalancedBlock,
			"%s:%d:%d: %q closes %q opened at %d:%d",
			p.path, terminator.line, terminator.col, keyword, "for "+header, open.line, open.col)
	}

	return forNode{
		loopVar:    fields[0],
		collection: fields[2],
		body:       body,
		line:       open.line,
		col:        open.col,
	}, nil
}

func splitKeyword(s string) (string, string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, " \t")
	if idx == -1 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
