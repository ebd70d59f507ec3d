package template

import (
	"strings"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
)

// renderContext carries the configuration plus any loop bindings in scope.
// It is an explicit value threaded through evaluation; the engine has no
// process-wide template state.
type renderContext struct {
	cfg    config.Config
	parent *renderContext
	name   string
	value  config.Value
}

func (c *renderContext) lookup(name string) (config.Value, bool) {
	for scope := c; scope != nil; scope = scope.parent {
		if scope.name == name {
			return scope.value, true
		}
	}
	return c.cfg.Get(name)
}

// Render evaluates the template against the configuration. On any failure
// no partial output is returned. The result is not newline-normalized;
// RenderContent applies the file convention.
func (t *Template) Render(cfg config.Config) (string, error) {
	var sb strings.Builder
	ctx := &renderContext{cfg: cfg}
	if err := t.renderNodes(t.nodes, ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (t *Template) renderNodes(nodes []node, ctx *renderContext, sb *strings.Builder) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case textNode:
			sb.WriteString(n.text)

		case varNode:
			v, ok := ctx.lookup(n.name)
			if !ok {
				return errors.Newf(errors.ErrUnresolvedVariable,
					"%s:%d:%d: unresolved variable %q", t.path, n.line, n.col, n.name).
					WithDetail("variable", n.name).
					WithDetail("template", t.path)
			}
			sb.WriteString(v.Text())

		case ifNode:
			if err := t.renderIf(n, ctx, sb); err != nil {
				return err
			}

		case forNode:
			if err := t.renderFor(n, ctx, sb); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Template) renderIf(n ifNode, ctx *renderContext, sb *strings.Builder) error {
	for _, br := range n.branches {
		ok, err := br.cond.eval(ctx.lookup)
		if err != nil {
			return errors.Wrapf(err, errors.GetErrorCode(err),
				"%s:%d:%d: condition %q", t.path, n.line, n.col, br.src)
		}
		if ok {
			return t.renderNodes(br.body, ctx, sb)
		}
	}
	if n.elseBody != nil {
		return t.renderNodes(n.elseBody, ctx, sb)
	}
	return nil
}

func (t *Template) renderFor(n forNode, ctx *renderContext, sb *strings.Builder) error {
	collection, ok := ctx.lookup(n.collection)
	if !ok {
		return errors.Newf(errors.ErrUnresolvedVariable,
			"%s:%d:%d: unresolved variable %q", t.path, n.line, n.col, n.collection).
			WithDetail("variable", n.collection).
			WithDetail("template", t.path)
	}

	for _, item := range SplitList(collection.Text()) {
		child := &renderContext{
			cfg:    ctx.cfg,
			parent: ctx,
			name:   n.loopVar,
			value:  config.StringValue(item),
		}
		if err := t.renderNodes(n.body, child, sb); err != nil {
			return err
		}
	}
	return nil
}

// SplitList splits a string-valued collection into its items. List values
// are stored comma-separated in the configuration; empty items are dropped.
func SplitList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// Render is a one-shot parse-and-render for callers that do not reuse the
// parsed template
func Render(path, source string, cfg config.Config) (string, error) {
	t, err := Parse(path, source)
	if err != nil {
		return "", err
	}
	return t.Render(cfg)
}

// RenderContent renders a file body and applies the trailing-newline
// convention: the output ends with exactly one line terminator
func RenderContent(path, source string, cfg config.Config) (string, error) {
	out, err := Render(path, source, cfg)
	if err != nil {
		return "", err
	}
	return NormalizeTrailingNewline(out), nil
}
