package layer

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/logging"
	"github.com/pelletier/go-toml/v2"
)

// ManifestName is the optional per-layer metadata file at the layer root.
// It never becomes an entry.
const ManifestName = "layer.toml"

// Manifest is the layer.toml contents
type Manifest struct {
	Name        string `toml:"name"`
	Priority    int    `toml:"priority"`
	Description string `toml:"description,omitempty"`
}

// skippedNames are filesystem noise, never template entries
var skippedNames = map[string]bool{
	".DS_Store": true,
	".git":      true,
}

// LoadFS walks a filesystem tree and builds a layer from it. name and
// priority act as fallbacks when the tree has no layer.toml.
func LoadFS(fsys fs.FS, name string, priority int) (Layer, error) {
	logger := logging.GetLogger("layer.load")

	manifest := Manifest{Name: name, Priority: priority}
	if data, err := fs.ReadFile(fsys, ManifestName); err == nil {
		if err := toml.Unmarshal(data, &manifest); err != nil {
			return Layer{}, errors.Wrapf(err, errors.ErrLayerLoad,
				"layer %q: malformed %s", name, ManifestName)
		}
		if manifest.Name == "" {
			manifest.Name = name
		}
	}

	var entries []Entry
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		base := filepath.Base(path)
		if skippedNames[base] {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == ManifestName {
			return nil
		}

		if d.IsDir() {
			entries = append(entries, Entry{Path: path, Kind: KindDir})
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Path: path, Kind: KindFile, Content: string(data)})
		return nil
	})
	if err != nil {
		return Layer{}, errors.Wrapf(err, errors.ErrLayerLoad,
			"walking layer %q", manifest.Name)
	}

	logger.Debug().
		Str("layer", manifest.Name).
		Int("priority", manifest.Priority).
		Int("entries", len(entries)).
		Msg("Layer loaded")

	return New(manifest.Name, manifest.Priority, entries)
}

// LoadDir loads a layer from a directory on disk. The directory name is
// the fallback layer name.
func LoadDir(root string, priority int) (Layer, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Layer{}, errors.Wrapf(err, errors.ErrLayerLoad, "layer root %q", root)
	}
	if !info.IsDir() {
		return Layer{}, errors.Newf(errors.ErrLayerLoad, "layer root %q is not a directory", root)
	}
	return LoadFS(os.DirFS(root), filepath.Base(root), priority)
}

// LoadDirs loads sibling layer directories into a Set. Priorities come
// from each directory's layer.toml when present, otherwise from the
// directory's position in the argument list.
func LoadDirs(roots []string) (Set, error) {
	layers := make([]Layer, 0, len(roots))
	for i, root := range roots {
		l, err := LoadDir(root, i)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	return NewSet(layers...)
}

// LoadRoot loads layers from the immediate subdirectories of root. With
// names given, only those subdirectories load, in the given order;
// otherwise every subdirectory loads in lexical order. Fallback
// priorities follow that order.
func LoadRoot(root string, names ...string) (Set, error) {
	if len(names) == 0 {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrLayerLoad, "layers root %q", root)
		}
		for _, e := range entries {
			if !e.IsDir() || skippedNames[e.Name()] {
				continue
			}
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.Newf(errors.ErrLayerLoad, "no layers found under %q", root)
	}

	roots := make([]string, len(names))
	for i, name := range names {
		roots[i] = filepath.Join(root, name)
	}
	return LoadDirs(roots)
}
