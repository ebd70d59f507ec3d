// Test Type: Unit Test
// Description: Tests for the config package - schema validation and constraint rules

package config_test

import (
	"testing"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() config.Schema {
	return config.Schema{
		Variables: []config.Variable{
			{Name: "project_name", Kind: config.KindString, Required: true},
			{Name: "deployment_target", Kind: config.KindEnum, Required: true,
				Domain: []string{"cloud_run", "agent_engine", "on_premise"}},
			{Name: "session_kind", Kind: config.KindEnum, Required: true,
				Domain: []string{"in_memory", "alloydb", "agent_engine"}},
			{Name: "include_observability", Kind: config.KindBool, Default: "false"},
		},
	}
}

func testRules() []config.Rule {
	return []config.Rule{
		{
			When:  config.Condition{Variable: "deployment_target", Equals: "agent_engine"},
			Force: &config.Assignment{Variable: "session_kind", Value: "agent_engine"},
		},
		{
			When: config.Condition{Variable: "deployment_target", Equals: "agent_engine"},
			Hide: "session_kind",
		},
		{
			When:   config.Condition{Variable: "deployment_target", Equals: "on_premise"},
			Forbid: &config.Assignment{Variable: "session_kind", Value: "alloydb"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate map[string]string
		wantErr   errors.ErrorCode
		verify    func(t *testing.T, cfg config.Config)
	}{
		{
			name: "valid_configuration",
			candidate: map[string]string{
				"project_name":      "my-agent",
				"deployment_target": "cloud_run",
				"session_kind":      "in_memory",
			},
			verify: func(t *testing.T, cfg config.Config) {
				v, ok := cfg.Get("project_name")
				require.True(t, ok)
				assert.Equal(t, "my-agent", v.Text())

				// Default applied during validation, not rendering
				v, ok = cfg.Get("include_observability")
				require.True(t, ok)
				assert.Equal(t, config.KindBool, v.Kind())
				assert.False(t, v.Bool())
			},
		},
		{
			name: "missing_required_variable",
			candidate: map[string]string{
				"project_name":      "my-agent",
				"deployment_target": "cloud_run",
			},
			wantErr: errors.ErrMissingVariable,
		},
		{
			name: "value_outside_enum_domain",
			candidate: map[string]string{
				"project_name":      "my-agent",
				"deployment_target": "kubernetes",
				"session_kind":      "in_memory",
			},
			wantErr: errors.ErrInvalidValue,
		},
		{
			name: "invalid_bool_value",
			candidate: map[string]string{
				"project_name":          "my-agent",
				"deployment_target":     "cloud_run",
				"session_kind":          "in_memory",
				"include_observability": "yep",
			},
			wantErr: errors.ErrInvalidValue,
		},
		{
			name: "undeclared_variable",
			candidate: map[string]string{
				"project_name":      "my-agent",
				"deployment_target": "cloud_run",
				"session_kind":      "in_memory",
				"color":             "blue",
			},
			wantErr: errors.ErrInvalidValue,
		},
		{
			name: "forced_value_fills_hidden_variable",
			candidate: map[string]string{
				"project_name":      "my-agent",
				"deployment_target": "agent_engine",
			},
			verify: func(t *testing.T, cfg config.Config) {
				v, ok := cfg.Get("session_kind")
				require.True(t, ok)
				assert.Equal(t, "agent_engine", v.Text())
			},
		},
		{
			name: "contradicting_forced_value",
			candidate: map[string]string{
				"project_name":      "my-agent",
				"deployment_target": "agent_engine",
				"session_kind":      "in_memory",
			},
			wantErr: errors.ErrConstraintViolation,
		},
		{
			name: "forbidden_combination",
			candidate: map[string]string{
				"project_name":      "my-agent",
				"deployment_target": "on_premise",
				"session_kind":      "alloydb",
			},
			wantErr: errors.ErrConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Validate(testSchema(), testRules(), tt.candidate)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantErr),
					"expected %s, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			if tt.verify != nil {
				tt.verify(t, cfg)
			}
		})
	}
}

func TestValidateRejectsBrokenSchema(t *testing.T) {
	schema := config.Schema{
		Variables: []config.Variable{
			{Name: "mode", Kind: config.KindEnum, Domain: nil},
		},
	}

	_, err := config.Validate(schema, nil, map[string]string{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSchemaInvalid))
}

func TestValidateForceCascades(t *testing.T) {
	schema := config.Schema{
		Variables: []config.Variable{
			{Name: "a", Kind: config.KindEnum, Required: true, Domain: []string{"x", "y"}},
			{Name: "b", Kind: config.KindEnum, Domain: []string{"p", "q"}},
			{Name: "c", Kind: config.KindEnum, Domain: []string{"m", "n"}},
		},
	}
	rules := []config.Rule{
		{When: config.Condition{Variable: "a", Equals: "x"},
			Force: &config.Assignment{Variable: "b", Value: "p"}},
		{When: config.Condition{Variable: "b", Equals: "p"},
			Force: &config.Assignment{Variable: "c", Value: "n"}},
	}

	cfg, err := config.Validate(schema, rules, map[string]string{"a": "x"})
	require.NoError(t, err)

	v, ok := cfg.Get("c")
	require.True(t, ok)
	assert.Equal(t, "n", v.Text())
}
