// Package layer models the partial file trees that compose into a
// generated project. A layer is an ordered collection of entries (file and
// directory templates) with a merge priority; entries carry their raw,
// unrendered paths, which may themselves contain template syntax in any
// segment.
package layer

import (
	"sort"

	"github.com/arthur-debert/strata/pkg/errors"
)

// EntryKind distinguishes file templates from directory templates
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
)

func (k EntryKind) String() string {
	if k == KindDir {
		return "directory"
	}
	return "file"
}

// Entry is one file or directory template before any path or content
// evaluation. Entries are created at load time and read-only afterwards.
type Entry struct {
	// Path is the raw, slash-separated relative path exactly as it appears
	// in the layer. Segments may contain template syntax.
	Path string

	Kind EntryKind

	// Content is the unrendered template body. Empty for directories.
	Content string

	// LayerPriority records the owning layer's priority for diagnostics.
	LayerPriority int
}

// Layer is one named collection of entries with a fixed merge priority
type Layer struct {
	Name     string
	Priority int
	Entries  []Entry
}

// New builds a layer and verifies its internal consistency: no two entries
// may share a raw path
func New(name string, priority int, entries []Entry) (Layer, error) {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		if seen[entries[i].Path] {
			return Layer{}, errors.Newf(errors.ErrDuplicatePath,
				"layer %q defines %q twice", name, entries[i].Path).
				WithDetail("layer", name).
				WithDetail("path", entries[i].Path)
		}
		seen[entries[i].Path] = true
		entries[i].LayerPriority = priority
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return Layer{Name: name, Priority: priority, Entries: entries}, nil
}

// Set is a collection of layers with strictly unique priorities
type Set []Layer

// NewSet validates priority uniqueness and returns the layers sorted
// ascending by priority. Ties are an authoring error, never resolved by
// insertion order.
func NewSet(layers ...Layer) (Set, error) {
	byPriority := make(map[int]string, len(layers))
	for _, l := range layers {
		if other, ok := byPriority[l.Priority]; ok {
			return nil, errors.Newf(errors.ErrDuplicatePriority,
				"layers %q and %q share priority %d", other, l.Name, l.Priority).
				WithDetail("priority", l.Priority)
		}
		byPriority[l.Priority] = l.Name
	}

	out := make(Set, len(layers))
	copy(out, layers)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out, nil
}
