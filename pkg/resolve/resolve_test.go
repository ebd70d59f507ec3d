// Test Type: Unit Test
// Description: Tests for the resolve package - path templates, vanishing and collisions

package resolve_test

import (
	"testing"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/layer"
	"github.com/arthur-debert/strata/pkg/manifest"
	"github.com/arthur-debert/strata/pkg/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveConfig() config.Config {
	return config.NewConfig(map[string]config.Value{
		"agent_directory": config.StringValue("app"),
		"frontend_kind":   config.EnumValue("streamlit"),
		"include_ui":      config.BoolValue(true),
	})
}

func TestPath(t *testing.T) {
	tests := []struct {
		name         string
		rawPath      string
		cfg          config.Config
		wantPath     string
		wantIncluded bool
		wantCode     errors.ErrorCode
	}{
		{
			name:         "literal_path_unchanged",
			rawPath:      "deploy/Dockerfile",
			cfg:          resolveConfig(),
			wantPath:     "deploy/Dockerfile",
			wantIncluded: true,
		},
		{
			name:         "substituted_segment",
			rawPath:      "{{ agent_directory }}/agent.py",
			cfg:          resolveConfig(),
			wantPath:     "app/agent.py",
			wantIncluded: true,
		},
		{
			name:         "conditional_segment_true",
			rawPath:      "{% if include_ui %}frontend{% endif %}",
			cfg:          resolveConfig(),
			wantPath:     "frontend",
			wantIncluded: true,
		},
		{
			name:    "conditional_segment_false_vanishes",
			rawPath: "{% if include_ui %}frontend{% endif %}",
			cfg: config.NewConfig(map[string]config.Value{
				"include_ui": config.BoolValue(false),
			}),
			wantIncluded: false,
		},
		{
			name:    "separator_injection_rejected",
			rawPath: "{{ agent_directory }}/main.py",
			cfg: config.NewConfig(map[string]config.Value{
				"agent_directory": config.StringValue("app/nested"),
			}),
			wantCode: errors.ErrPathInjection,
		},
		{
			name:     "unresolved_variable_propagates",
			rawPath:  "{{ nope }}/main.py",
			cfg:      resolveConfig(),
			wantCode: errors.ErrUnresolvedVariable,
		},
		{
			name:     "unbalanced_segment_propagates",
			rawPath:  "{% if include_ui %}ui/main.py",
			cfg:      resolveConfig(),
			wantCode: errors.ErrUnbalancedBlock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve.Path(tt.rawPath, tt.cfg)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantCode),
					"expected %s, got %v", tt.wantCode, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIncluded, got.Included)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}
}

func buildManifest(t *testing.T, entries []layer.Entry) *manifest.Manifest {
	t.Helper()
	l, err := layer.New("base", 0, entries)
	require.NoError(t, err)
	set, err := layer.NewSet(l)
	require.NoError(t, err)
	m, err := manifest.Merge(set)
	require.NoError(t, err)
	return m
}

func TestManifestVanishingDropsSubtree(t *testing.T) {
	m := buildManifest(t, []layer.Entry{
		{Path: "{% if include_ui %}frontend{% endif %}", Kind: layer.KindDir},
		{Path: "{% if include_ui %}frontend{% endif %}/app.py", Kind: layer.KindFile, Content: "ui"},
		{Path: "{% if include_ui %}frontend{% endif %}/static/logo.svg", Kind: layer.KindFile, Content: "svg"},
		{Path: "main.py", Kind: layer.KindFile, Content: "core"},
	})

	// include_ui=false: the directory and every nested entry vanish.
	items, err := resolve.Manifest(m, config.NewConfig(map[string]config.Value{
		"include_ui": config.BoolValue(false),
	}))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "main.py", items[0].Path)

	// include_ui=true: the full subtree survives.
	items, err = resolve.Manifest(m, config.NewConfig(map[string]config.Value{
		"include_ui": config.BoolValue(true),
	}))
	require.NoError(t, err)

	paths := make([]string, 0, len(items))
	for _, it := range items {
		paths = append(paths, it.Path)
	}
	assert.Contains(t, paths, "frontend/app.py")
	assert.Contains(t, paths, "frontend/static/logo.svg")
	assert.Contains(t, paths, "main.py")
}

func TestManifestPathCollision(t *testing.T) {
	m := buildManifest(t, []layer.Entry{
		{Path: "{{ x }}/file", Kind: layer.KindFile, Content: "templated"},
		{Path: "lit/file", Kind: layer.KindFile, Content: "literal"},
	})

	// x="lit" makes both raw paths resolve to lit/file.
	_, err := resolve.Manifest(m, config.NewConfig(map[string]config.Value{
		"x": config.StringValue("lit"),
	}))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPathCollision))

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "lit/file", details["path"])

	// Any other value keeps the paths apart.
	items, err := resolve.Manifest(m, config.NewConfig(map[string]config.Value{
		"x": config.StringValue("other"),
	}))
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestManifestDirectorySpellingsMerge(t *testing.T) {
	m := buildManifest(t, []layer.Entry{
		{Path: "{{ agent_directory }}", Kind: layer.KindDir},
		{Path: "app", Kind: layer.KindDir},
		{Path: "app/main.py", Kind: layer.KindFile, Content: "m"},
	})

	items, err := resolve.Manifest(m, config.NewConfig(map[string]config.Value{
		"agent_directory": config.StringValue("app"),
	}))
	require.NoError(t, err)

	// Both directory spellings collapse into one "app"; the file survives.
	var dirs, files int
	for _, it := range items {
		switch it.Entry.Kind {
		case layer.KindDir:
			dirs++
		case layer.KindFile:
			files++
		}
	}
	assert.Equal(t, 1, dirs)
	assert.Equal(t, 1, files)
}
