// Test Type: Unit Test
// Description: Tests for the styles package - embedded registry and overrides

package styles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	expectedStyles := []string{
		"Header", "SubHeader",
		"Success", "Error", "Warning", "Info", "Muted",
		"Bold", "Italic",
		"FilePath", "ConfigKey", "Count",
		"TableHeader", "Indent",
	}

	for _, styleName := range expectedStyles {
		t.Run(styleName, func(t *testing.T) {
			style, exists := StyleRegistry[styleName]
			assert.True(t, exists, "Style %s should exist in registry", styleName)
			assert.NotNil(t, style)
		})
	}
}

func TestGetStyleFallback(t *testing.T) {
	assert.Equal(t, StyleRegistry["Success"], GetStyle("Success"))
	assert.Equal(t, lipgloss.NewStyle(), GetStyle("NoSuchStyle"))
}

func TestAdaptiveColors(t *testing.T) {
	expectedColors := []string{"primary", "muted", "success", "error", "warning", "info", "path"}

	for _, colorName := range expectedColors {
		t.Run(colorName, func(t *testing.T) {
			color, exists := colors[colorName]
			assert.True(t, exists, "Color %s should exist", colorName)
			assert.NotEmpty(t, color.Light)
			assert.NotEmpty(t, color.Dark)
		})
	}
}

func TestStyleProperties(t *testing.T) {
	assert.True(t, GetStyle("Header").GetBold())
	assert.True(t, GetStyle("Error").GetBold())
	assert.True(t, GetStyle("Italic").GetItalic())
	assert.True(t, GetStyle("TableHeader").GetUnderline())
}

func TestLoadStylesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
colors:
  success:
    light: "#000000"
    dark: "#ffffff"
styles:
  Success:
    bold: true
    foreground: success
`), 0644))

	require.NoError(t, LoadStyles(path))
	t.Cleanup(func() {
		require.NoError(t, loadStyleBytes(defaultStyles))
	})

	assert.True(t, GetStyle("Success").GetBold())
	_, exists := StyleRegistry["Header"]
	assert.False(t, exists, "override replaces the registry wholesale")
}

func TestLoadStylesMissingFile(t *testing.T) {
	err := LoadStyles(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
