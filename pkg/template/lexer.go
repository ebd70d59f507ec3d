package template

import (
	"strings"

	"github.com/arthur-debert/strata/pkg/errors"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenVar
	tokenBlock
)

// token is one lexed unit: a run of literal text, a substitution tag, or a
// block tag. For tags, text holds the trimmed inner content without the
// delimiters or trim markers.
type token struct {
	kind      tokenKind
	text      string
	line      int
	col       int
	trimLeft  bool
	trimRight bool

	// lineConsumed marks a block tag whose standalone-line trim ate its own
	// line, so a tag on the next line still counts as starting a line even
	// after the literal between them is emptied.
	lineConsumed bool
}

// position is a 1-based line/column pair in the template source
type position struct {
	line int
	col  int
}

func (p position) advance(s string) position {
	for _, r := range s {
		if r == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
	}
	return p
}

// lex splits a template source into tokens. path is only used in error
// messages.
func lex(path, source string) ([]token, error) {
	var tokens []token
	pos := position{line: 1, col: 1}

	for len(source) > 0 {
		varIdx := strings.Index(source, "{{")
		blockIdx := strings.Index(source, "{%")

		next := varIdx
		isBlock := false
		if next == -1 || (blockIdx != -1 && blockIdx < next) {
			next = blockIdx
			isBlock = true
		}

		if next == -1 {
			tokens = append(tokens, token{kind: tokenText, text: source, line: pos.line, col: pos.col})
			break
		}

		if next > 0 {
			literal := source[:next]
			tokens = append(tokens, token{kind: tokenText, text: literal, line: pos.line, col: pos.col})
			pos = pos.advance(literal)
			source = source[next:]
		}

		open, close := "{{", "}}"
		kind := tokenVar
		if isBlock {
			open, close = "{%", "%}"
			kind = tokenBlock
		}

		end := strings.Index(source, close)
		if end == -1 {
			return nil, errors.Newf(errors.ErrTemplateSyntax,
				"%s:%d:%d: unterminated %q tag", path, pos.line, pos.col, open)
		}

		inner := source[len(open):end]
		tok := token{kind: kind, line: pos.line, col: pos.col}
		if strings.HasPrefix(inner, "-") {
			tok.trimLeft = true
			inner = inner[1:]
		}
		if strings.HasSuffix(inner, "-") {
			tok.trimRight = true
			inner = inner[:len(inner)-1]
		}
		tok.text = strings.TrimSpace(inner)
		if tok.text == "" {
			return nil, errors.Newf(errors.ErrTemplateSyntax,
				"%s:%d:%d: empty tag", path, pos.line, pos.col)
		}
		tokens = append(tokens, tok)

		consumed := source[:end+len(close)]
		pos = pos.advance(consumed)
		source = source[end+len(close):]
	}

	return applyWhitespaceControl(tokens), nil
}
