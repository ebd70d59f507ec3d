// Test Type: Unit Test
// Description: Tests for the template package - whitespace control as a standalone layout pass

package template_test

import (
	"testing"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Whitespace control is independent of variable evaluation, so these tests
// use a minimal configuration with a single flag.
func flagConfig(on bool) config.Config {
	return config.NewConfig(map[string]config.Value{
		"flag": config.BoolValue(on),
	})
}

func TestStandaloneBlockLinesConsumeThemselves(t *testing.T) {
	source := "line1\n{% if flag %}\ninside\n{% endif %}\nline2\n"

	got, err := template.Render("t", source, flagConfig(true))
	require.NoError(t, err)
	assert.Equal(t, "line1\ninside\nline2\n", got)

	got, err = template.Render("t", source, flagConfig(false))
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", got, "vanished block must leave no blank line")
}

func TestStandaloneIndentedBlockLines(t *testing.T) {
	source := "  {% if flag %}\n  kept\n  {% endif %}\n"

	got, err := template.Render("t", source, flagConfig(true))
	require.NoError(t, err)
	assert.Equal(t, "  kept\n", got)

	got, err = template.Render("t", source, flagConfig(false))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestAdjacentStandaloneBlockLines(t *testing.T) {
	// Consecutive block-tag lines: trimming the first tag's line empties the
	// literal between them, and the second tag must still count as alone on
	// its own line.
	source := "head\n{% if flag %}\n{% endif %}\ntail\n"

	got, err := template.Render("t", source, flagConfig(false))
	require.NoError(t, err)
	assert.Equal(t, "head\ntail\n", got, "empty block must leave no blank line")

	got, err = template.Render("t", source, flagConfig(true))
	require.NoError(t, err)
	assert.Equal(t, "head\ntail\n", got)
}

func TestNestedStandaloneClosingLines(t *testing.T) {
	source := "a\n{% if flag %}\n{% if flag %}\nbody\n{% endif %}\n{% endif %}\nb\n"

	got, err := template.Render("t", source, flagConfig(true))
	require.NoError(t, err)
	assert.Equal(t, "a\nbody\nb\n", got)

	got, err = template.Render("t", source, flagConfig(false))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", got)
}

func TestAdjacentIndentedStandaloneLines(t *testing.T) {
	source := "  {% if flag %}\n  {% if flag %}\n  x\n  {% endif %}\n  {% endif %}\n"

	got, err := template.Render("t", source, flagConfig(true))
	require.NoError(t, err)
	assert.Equal(t, "  x\n", got)

	got, err = template.Render("t", source, flagConfig(false))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestInlineBlockTagsKeepSurroundingText(t *testing.T) {
	// A block tag sharing its line with other content is not standalone.
	source := "a {% if flag %}b{% endif %} c"

	got, err := template.Render("t", source, flagConfig(true))
	require.NoError(t, err)
	assert.Equal(t, "a b c", got)

	got, err = template.Render("t", source, flagConfig(false))
	require.NoError(t, err)
	assert.Equal(t, "a  c", got)
}

func TestExplicitTrimMarkers(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "left_trim_on_substitution",
			source: "a   {{- flag }}",
			want:   "atrue",
		},
		{
			name:   "right_trim_on_substitution",
			source: "{{ flag -}}   b",
			want:   "trueb",
		},
		{
			name:   "trim_across_newlines",
			source: "a\n\n{%- if flag -%}\n\nb\n{%- endif %}",
			want:   "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := template.Render("t", tt.source, flagConfig(true))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstitutionTagsAreNeverStandalone(t *testing.T) {
	// Only block tags consume their line; a substitution on its own line
	// keeps the line structure.
	source := "a\n{{ flag }}\nb\n"
	got, err := template.Render("t", source, flagConfig(true))
	require.NoError(t, err)
	assert.Equal(t, "a\ntrue\nb\n", got)
}

func TestNormalizeTrailingNewline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "missing_newline_added", in: "x", want: "x\n"},
		{name: "single_newline_kept", in: "x\n", want: "x\n"},
		{name: "extra_newlines_collapsed", in: "x\n\n\n", want: "x\n"},
		{name: "empty_becomes_single_newline", in: "", want: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, template.NormalizeTrailingNewline(tt.in))
		})
	}
}
