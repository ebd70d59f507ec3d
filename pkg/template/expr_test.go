// Test Type: Unit Test
// Description: Tests for the template package - condition expression grammar

package template_test

import (
	"testing"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionGrammar(t *testing.T) {
	cfg := config.NewConfig(map[string]config.Value{
		"target":  config.EnumValue("cloud_run"),
		"ui":      config.EnumValue("none"),
		"tracing": config.BoolValue(true),
		"name":    config.StringValue("demo"),
	})

	tests := []struct {
		name string
		cond string
		want bool
	}{
		{name: "bare_bool", cond: "tracing", want: true},
		{name: "bare_string_truthy", cond: "name", want: true},
		{name: "eq_single_quotes", cond: "target == 'cloud_run'", want: true},
		{name: "eq_double_quotes", cond: `target == "cloud_run"`, want: true},
		{name: "eq_bare_word", cond: "target == cloud_run", want: true},
		{name: "neq", cond: "ui != 'none'", want: false},
		{name: "bool_literal_eq", cond: "tracing == true", want: true},
		{name: "bool_literal_against_string", cond: "name == true", want: true},
		{name: "and_short_circuit", cond: "tracing && ui == 'none'", want: true},
		{name: "or", cond: "ui == 'react' || target == 'cloud_run'", want: true},
		{name: "not_with_parens", cond: "!(ui == 'react' || ui == 'streamlit')", want: true},
		{name: "precedence_and_binds_tighter", cond: "ui == 'react' && tracing || name == 'demo'", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := template.Render("t", "{% if "+tt.cond+" %}y{% else %}n{% endif %}", cfg)
			require.NoError(t, err)
			want := "n"
			if tt.want {
				want = "y"
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestConditionErrors(t *testing.T) {
	cfg := config.NewConfig(map[string]config.Value{
		"tracing": config.BoolValue(true),
	})

	tests := []struct {
		name     string
		source   string
		wantCode errors.ErrorCode
	}{
		{
			name:     "unresolved_variable_in_condition",
			source:   "{% if no_such %}x{% endif %}",
			wantCode: errors.ErrUnresolvedVariable,
		},
		{
			name:     "dangling_comparison",
			source:   "{% if tracing == %}x{% endif %}",
			wantCode: errors.ErrTemplateSyntax,
		},
		{
			name:     "missing_close_paren",
			source:   "{% if (tracing %}x{% endif %}",
			wantCode: errors.ErrTemplateSyntax,
		},
		{
			name:     "single_equals",
			source:   "{% if tracing = true %}x{% endif %}",
			wantCode: errors.ErrTemplateSyntax,
		},
		{
			name:     "empty_condition",
			source:   "{% if %}x{% endif %}",
			wantCode: errors.ErrTemplateSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := template.Render("t", tt.source, cfg)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantCode),
				"expected %s, got %v", tt.wantCode, err)
		})
	}
}
