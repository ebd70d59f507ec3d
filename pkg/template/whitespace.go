package template

import "strings"

// applyWhitespaceControl is the text-layout pass between lexing and
// evaluation. It performs two transforms on the token stream:
//
//  1. Explicit trim markers: a "-" on a tag boundary strips all adjacent
//     whitespace from the neighbouring literal.
//  2. Standalone block lines: a block tag whose line holds nothing else
//     consumes the line entirely, including its indentation and newline.
//
// The pass touches literal tokens only; it never looks at variable values,
// so it can run once per template regardless of configuration.
func applyWhitespaceControl(tokens []token) []token {
	for i := range tokens {
		if tokens[i].kind == tokenText {
			continue
		}

		if tokens[i].trimLeft {
			if i > 0 && tokens[i-1].kind == tokenText {
				tokens[i-1].text = strings.TrimRight(tokens[i-1].text, " \t\r\n")
			}
		}
		if tokens[i].trimRight {
			if i+1 < len(tokens) && tokens[i+1].kind == tokenText {
				tokens[i+1].text = strings.TrimLeft(tokens[i+1].text, " \t\r\n")
			}
		}

		if tokens[i].kind == tokenBlock && !tokens[i].trimLeft && !tokens[i].trimRight {
			trimStandaloneLine(tokens, i)
		}
	}

	// Drop literals emptied by trimming
	out := tokens[:0]
	for _, t := range tokens {
		if t.kind == tokenText && t.text == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// trimStandaloneLine removes the surrounding indentation and trailing
// newline of a block tag that is alone on its line
func trimStandaloneLine(tokens []token, i int) {
	// Preceding literal must end in a newline followed only by indentation,
	// or the tag must sit at the very start of the template.
	var prev *token
	if i > 0 {
		if tokens[i-1].kind != tokenText {
			return
		}
		prev = &tokens[i-1]
	}

	indentStart := 0
	if prev != nil {
		nl := strings.LastIndexByte(prev.text, '\n')
		tail := prev.text[nl+1:]
		if strings.TrimLeft(tail, " \t") != "" {
			return
		}
		if nl == -1 && i > 1 {
			// Literal is pure indentation with another tag before it on this
			// line. Only if that tag already consumed its own line does the
			// current tag still start a fresh line.
			if tokens[i-2].kind != tokenBlock || !tokens[i-2].lineConsumed {
				return
			}
		}
		indentStart = nl + 1
	}

	// Following literal must start with optional spaces then a newline, or
	// the tag must end the template.
	var next *token
	if i+1 < len(tokens) {
		if tokens[i+1].kind != tokenText {
			return
		}
		next = &tokens[i+1]
	}

	cut := 0
	if next != nil {
		rest := strings.TrimLeft(next.text, " \t")
		if !strings.HasPrefix(rest, "\n") {
			return
		}
		cut = len(next.text) - len(rest) + 1
	}

	if prev != nil {
		prev.text = prev.text[:indentStart]
	}
	if next != nil {
		next.text = next.text[cut:]
	}
	tokens[i].lineConsumed = true
}

// NormalizeTrailingNewline enforces the output convention that every
// rendered file ends with exactly one line terminator. This is mechanical
// formatting, auto-corrected rather than reported.
func NormalizeTrailingNewline(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}
