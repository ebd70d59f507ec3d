// Package manifest implements the priority merge of a layer set into one
// virtual tree: a map from raw (unrendered) relative path to the winning
// entry, with shadowed entries retained for diagnostics only.
package manifest

import (
	"sort"

	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/layer"
	"github.com/arthur-debert/strata/pkg/logging"
)

// slot holds the winning entry for one raw path plus everything it shadowed
type slot struct {
	winner   layer.Entry
	shadowed []layer.Entry
}

// Manifest is the merged virtual tree. It is immutable once Merge returns
// and safe for concurrent readers.
type Manifest struct {
	slots map[string]slot
}

// Merge combines layers in ascending priority order. A higher-priority
// file entry fully replaces a lower-priority file at the same raw path; no
// line-level merging ever happens. A file and a directory meeting at the
// same raw path is a KindConflict, including the case where one layer's
// file is another layer's implicit parent directory.
func Merge(set layer.Set) (*Manifest, error) {
	logger := logging.GetLogger("manifest.merge")

	slots := make(map[string]slot)
	for _, l := range set {
		for _, e := range l.Entries {
			existing, ok := slots[e.Path]
			if !ok {
				slots[e.Path] = slot{winner: e}
				continue
			}
			if existing.winner.Kind != e.Kind {
				return nil, errors.Newf(errors.ErrKindConflict,
					"path %q is a %s in layer priority %d and a %s in layer priority %d",
					e.Path, existing.winner.Kind, existing.winner.LayerPriority,
					e.Kind, e.LayerPriority).
					WithDetail("path", e.Path)
			}
			slots[e.Path] = slot{
				winner:   e,
				shadowed: append(existing.shadowed, existing.winner),
			}
		}
	}

	// A file may also conflict with a directory that only exists implicitly
	// as an ancestor of deeper entries.
	for path := range slots {
		for _, ancestor := range ancestors(path) {
			if s, ok := slots[ancestor]; ok && s.winner.Kind == layer.KindFile {
				return nil, errors.Newf(errors.ErrKindConflict,
					"path %q is a file in layer priority %d but a directory in layer priority %d",
					ancestor, s.winner.LayerPriority, slots[path].winner.LayerPriority).
					WithDetail("path", ancestor)
			}
		}
	}

	logger.Debug().
		Int("layers", len(set)).
		Int("paths", len(slots)).
		Msg("Layers merged")

	return &Manifest{slots: slots}, nil
}

// ancestors returns the proper path prefixes of a raw path
func ancestors(path string) []string {
	var out []string
	for i := range path {
		if path[i] == '/' {
			out = append(out, path[:i])
		}
	}
	return out
}

// Paths returns every raw path in the manifest in sorted order, making
// downstream processing deterministic
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.slots))
	for p := range m.slots {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Winner returns the winning entry for a raw path
func (m *Manifest) Winner(path string) (layer.Entry, bool) {
	s, ok := m.slots[path]
	return s.winner, ok
}

// Shadowed returns the entries a raw path's winner replaced, lowest
// priority first. Diagnostic only; shadowed entries are never rendered.
func (m *Manifest) Shadowed(path string) []layer.Entry {
	return m.slots[path].shadowed
}

// Len returns the number of distinct raw paths
func (m *Manifest) Len() int {
	return len(m.slots)
}
