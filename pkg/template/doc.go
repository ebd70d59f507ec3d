// Package template implements the block-structured template language used
// for both file bodies and path segments.
//
// The grammar has three constructs:
//
//	{{ variable }}                      substitution
//	{% if expr %} ... {% endif %}       conditional, with elif/else
//	{% for item in list %} ... {% endfor %}
//
// Tag boundaries may carry trim markers ({{-, -}}, {%-, -%}) that eat
// adjacent whitespace. Independently of explicit markers, a block tag that
// is the only content on its line consumes the whole line, so vanished
// blocks leave no blank lines behind.
//
// Rendering is pure and total for balanced templates whose variables all
// resolve; any failure aborts with no partial output. Positions (line and
// column) are tracked through lexing so unbalanced blocks and unresolved
// variables are reported where they occur.
package template
