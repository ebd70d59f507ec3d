// Package paths provides centralized path handling for strata.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/strata/pkg/errors"
)

// Environment variable names
const (
	// EnvLayersRoot is the primary environment variable for the layer collection location
	EnvLayersRoot = "STRATA_LAYERS_ROOT"

	// EnvStrataDataDir overrides the XDG data directory for strata
	EnvStrataDataDir = "STRATA_DATA_DIR"

	// EnvStrataConfigDir overrides the XDG config directory for strata
	EnvStrataConfigDir = "STRATA_CONFIG_DIR"

	// EnvStrataCacheDir overrides the XDG cache directory for strata
	EnvStrataCacheDir = "STRATA_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// DefaultLayersDir is the default directory name for layer collections
	DefaultLayersDir = "layers"

	// StrataDirName is the directory name for strata-specific files
	StrataDirName = "strata"

	// RuleSetFile is the name of the rule set file inside a layers root
	RuleSetFile = "strata.toml"

	// StylesFile is the name of the styles override in the config dir
	StylesFile = "styles.yaml"

	// LogFileName is the name of the log file
	LogFileName = "strata.log"
)

// Paths provides centralized path management for strata
type Paths interface {
	LayersRoot() string
	UsedFallback() bool
	LayerPath(layerName string) string
	RuleSetPath() string
	DataDir() string
	ConfigDir() string
	CacheDir() string
	StateDir() string
	StylesPath() string
	LogFilePath() string
}

type paths struct {
	layersRoot string
	xdgData    string
	xdgConfig  string
	xdgCache   string
	xdgState   string

	// usedFallback indicates if we fell back to cwd (for warning display)
	usedFallback bool
}

// New creates a new Paths instance with the given layers root.
// If layersRoot is empty, it will be determined from the environment or
// defaults.
func New(layersRoot string) (Paths, error) {
	p := &paths{}

	if layersRoot == "" {
		root, usedFallback, err := findLayersRoot()
		if err != nil {
			return nil, err
		}
		p.layersRoot = root
		p.usedFallback = usedFallback
	} else {
		p.layersRoot = expandHome(layersRoot)
	}

	absRoot, err := filepath.Abs(p.layersRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLayerLoad,
			"failed to get absolute path for layers root")
	}
	p.layersRoot = absRoot

	p.setupXDGDirs()
	return p, nil
}

// findLayersRoot resolves the layers root: the STRATA_LAYERS_ROOT
// environment variable wins, then a ./layers directory under the working
// directory, then the working directory itself as a fallback.
func findLayersRoot() (root string, usedFallback bool, err error) {
	if envRoot := os.Getenv(EnvLayersRoot); envRoot != "" {
		return expandHome(envRoot), false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrLayerLoad,
			"failed to get working directory")
	}

	candidate := filepath.Join(cwd, DefaultLayersDir)
	if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
		return candidate, false, nil
	}

	return cwd, true, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	if dataDir := os.Getenv(EnvStrataDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, StrataDirName)
	}

	if configDir := os.Getenv(EnvStrataConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, StrataDirName)
	}

	if cacheDir := os.Getenv(EnvStrataCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, StrataDirName)
	}

	p.xdgState = filepath.Join(xdg.StateHome, StrataDirName)
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

func (p *paths) LayersRoot() string { return p.layersRoot }

func (p *paths) UsedFallback() bool { return p.usedFallback }

// LayerPath returns the directory of one named layer inside the root
func (p *paths) LayerPath(layerName string) string {
	return filepath.Join(p.layersRoot, layerName)
}

// RuleSetPath returns the rule set file location next to the layers
func (p *paths) RuleSetPath() string {
	return filepath.Join(p.layersRoot, RuleSetFile)
}

func (p *paths) DataDir() string   { return p.xdgData }
func (p *paths) ConfigDir() string { return p.xdgConfig }
func (p *paths) CacheDir() string  { return p.xdgCache }
func (p *paths) StateDir() string  { return p.xdgState }

// StylesPath returns the user styles override location
func (p *paths) StylesPath() string {
	return filepath.Join(p.xdgConfig, StylesFile)
}

// LogFilePath returns the log file location under the state dir
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}
