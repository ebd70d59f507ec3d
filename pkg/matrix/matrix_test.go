// Test Type: Unit Test
// Description: Tests for the matrix package - enumeration completeness and batch validation

package matrix_test

import (
	"testing"
	"testing/fstest"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/layer"
	"github.com/arthur-debert/strata/pkg/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateFiltersForcedCombinations(t *testing.T) {
	schema := config.Schema{
		Variables: []config.Variable{
			{Name: "target", Kind: config.KindEnum, Required: true, Domain: []string{"A", "B"}},
			{Name: "mode", Kind: config.KindEnum, Required: true, Domain: []string{"fast", "thorough"}},
		},
	}
	rules := []config.Rule{
		{
			When:  config.Condition{Variable: "target", Equals: "A"},
			Force: &config.Assignment{Variable: "mode", Value: "fast"},
		},
	}

	configs, err := matrix.Enumerate(schema, rules)
	require.NoError(t, err)

	keys := make([]string, len(configs))
	for i, c := range configs {
		keys[i] = c.Key()
	}
	// Three legal combinations, not four: (A, thorough) violates the rule.
	assert.Equal(t, []string{
		"mode=fast target=A",
		"mode=fast target=B",
		"mode=thorough target=B",
	}, keys)
}

func TestEnumerateBoolsAndForbids(t *testing.T) {
	schema := config.Schema{
		Variables: []config.Variable{
			{Name: "deployment_target", Kind: config.KindEnum, Required: true,
				Domain: []string{"cloud_run", "on_premise"}},
			{Name: "include_ui", Kind: config.KindBool, Required: true},
		},
	}
	rules := []config.Rule{
		{
			When:   config.Condition{Variable: "deployment_target", Equals: "on_premise"},
			Forbid: &config.Assignment{Variable: "include_ui", Value: "true"},
		},
	}

	configs, err := matrix.Enumerate(schema, rules)
	require.NoError(t, err)
	// 2x2 product minus the forbidden (on_premise, true).
	assert.Len(t, configs, 3)
	for _, c := range configs {
		assert.NotEqual(t, "deployment_target=on_premise include_ui=true", c.Key())
	}
}

func TestEnumerateNoDuplicates(t *testing.T) {
	schema := config.Schema{
		Variables: []config.Variable{
			{Name: "a", Kind: config.KindEnum, Required: true, Domain: []string{"x", "y"}},
			{Name: "note", Kind: config.KindString, Default: "sample"},
		},
	}

	configs, err := matrix.Enumerate(schema, nil)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	seen := make(map[string]bool)
	for _, c := range configs {
		assert.False(t, seen[c.Key()], "duplicate configuration %s", c.Key())
		seen[c.Key()] = true

		// String variables are pinned to their default during enumeration.
		v, ok := c.Get("note")
		require.True(t, ok)
		assert.Equal(t, "sample", v.Text())
	}
}

func matrixLayers(t *testing.T) layer.Set {
	t.Helper()
	base, err := layer.LoadFS(fstest.MapFS{
		"README.md": {Data: []byte("target: {{ target }}\n")},
		"{% if target == 'B' %}thorough.txt{% endif %}": {
			Data: []byte("{% if mode == 'thorough' %}deep checks{% else %}quick checks{% endif %}\n")},
	}, "base", 0)
	require.NoError(t, err)
	set, err := layer.NewSet(base)
	require.NoError(t, err)
	return set
}

func matrixSchema() (config.Schema, []config.Rule) {
	schema := config.Schema{
		Variables: []config.Variable{
			{Name: "target", Kind: config.KindEnum, Required: true, Domain: []string{"A", "B"}},
			{Name: "mode", Kind: config.KindEnum, Required: true, Domain: []string{"fast", "thorough"}},
		},
	}
	rules := []config.Rule{
		{
			When:  config.Condition{Variable: "target", Equals: "A"},
			Force: &config.Assignment{Variable: "mode", Value: "fast"},
		},
	}
	return schema, rules
}

func TestValidateAllAllPass(t *testing.T) {
	schema, rules := matrixSchema()

	report, err := matrix.ValidateAll(schema, rules, matrixLayers(t), 2)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 3)
	assert.True(t, report.OK())

	for _, o := range report.Outcomes {
		assert.NoError(t, o.Err)
		assert.Greater(t, o.Files, 0)
	}
}

func TestValidateAllRecordsPartialFailures(t *testing.T) {
	schema, rules := matrixSchema()

	// This template only breaks when the B-only file survives: it
	// references a variable that never exists.
	base, err := layer.LoadFS(fstest.MapFS{
		"ok.txt": {Data: []byte("fine\n")},
		"{% if target == 'B' %}bad.txt{% endif %}": {Data: []byte("{{ undefined_variable }}\n")},
	}, "base", 0)
	require.NoError(t, err)
	set, err := layer.NewSet(base)
	require.NoError(t, err)

	report, err := matrix.ValidateAll(schema, rules, set, 0)
	require.NoError(t, err, "one bad configuration must not abort the batch")
	require.Len(t, report.Outcomes, 3)

	failures := report.Failures()
	require.Len(t, failures, 2, "both target=B configurations fail")
	for _, f := range failures {
		assert.True(t, errors.IsErrorCode(f.Err, errors.ErrUnresolvedVariable))
		v, _ := f.Config.Get("target")
		assert.Equal(t, "B", v.Text())
	}
	assert.False(t, report.OK())
}

func TestValidateAllDeterministicOrder(t *testing.T) {
	schema, rules := matrixSchema()
	set := matrixLayers(t)

	first, err := matrix.ValidateAll(schema, rules, set, 1)
	require.NoError(t, err)
	second, err := matrix.ValidateAll(schema, rules, set, 4)
	require.NoError(t, err)

	require.Equal(t, len(first.Outcomes), len(second.Outcomes))
	for i := range first.Outcomes {
		assert.Equal(t, first.Outcomes[i].Config.Key(), second.Outcomes[i].Config.Key())
	}
}
