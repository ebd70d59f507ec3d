// Package resolve evaluates the template syntax embedded in raw entry
// paths. Each path segment is rendered independently against the
// configuration; segments that render empty vanish, and a directory whose
// whole path vanishes takes its subtree with it.
package resolve

import (
	"strings"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/layer"
	"github.com/arthur-debert/strata/pkg/logging"
	"github.com/arthur-debert/strata/pkg/manifest"
	"github.com/arthur-debert/strata/pkg/template"
)

// Resolved is the outcome of evaluating one raw path
type Resolved struct {
	// Path is the final, rendered relative path. Empty when excluded.
	Path string

	// Included is false when the entry (and, for directories, its whole
	// subtree) is dropped under this configuration.
	Included bool
}

// Path renders a raw relative path against the configuration. Each
// slash-separated segment is evaluated as its own template; a segment that
// renders to the empty string is removed, and a path whose every segment
// vanishes is excluded. A single segment rendering to something containing
// the separator is a PathInjection error: name substitution must not
// smuggle in extra directory structure.
func Path(rawPath string, cfg config.Config) (Resolved, error) {
	var kept []string
	for _, segment := range strings.Split(rawPath, "/") {
		rendered, err := template.Render(rawPath, segment, cfg)
		if err != nil {
			return Resolved{}, err
		}
		rendered = strings.TrimSpace(rendered)
		if rendered == "" {
			continue
		}
		if strings.ContainsRune(rendered, '/') {
			return Resolved{}, errors.Newf(errors.ErrPathInjection,
				"segment %q of %q renders to %q, which contains a path separator",
				segment, rawPath, rendered).
				WithDetail("rawPath", rawPath).
				WithDetail("segment", segment)
		}
		kept = append(kept, rendered)
	}

	if len(kept) == 0 {
		return Resolved{Included: false}, nil
	}
	return Resolved{Path: strings.Join(kept, "/"), Included: true}, nil
}

// Item pairs a manifest entry with its resolved final path
type Item struct {
	RawPath string
	Path    string
	Entry   layer.Entry
}

// Manifest resolves every winning entry of a merged manifest. Entries
// under a vanished directory are dropped without being evaluated, and two
// distinct raw paths resolving to the same final path are a PathCollision
// unless both are directories (directory structure merges by union).
func Manifest(m *manifest.Manifest, cfg config.Config) ([]Item, error) {
	logger := logging.GetLogger("resolve")

	var (
		items    []Item
		excluded []string // raw directory prefixes whose subtrees vanished
		byFinal  = make(map[string]Item)
	)

	// Sorted raw paths guarantee a directory precedes its children.
	for _, rawPath := range m.Paths() {
		entry, _ := m.Winner(rawPath)

		if underAny(rawPath, excluded) {
			continue
		}

		resolved, err := Path(rawPath, cfg)
		if err != nil {
			return nil, err
		}
		if !resolved.Included {
			if entry.Kind == layer.KindDir {
				excluded = append(excluded, rawPath+"/")
				logger.Debug().
					Str("rawPath", rawPath).
					Msg("Directory vanished, dropping subtree")
			}
			continue
		}

		item := Item{RawPath: rawPath, Path: resolved.Path, Entry: entry}

		if prior, ok := byFinal[resolved.Path]; ok {
			if prior.Entry.Kind == layer.KindDir && entry.Kind == layer.KindDir {
				continue // same directory contributed by different raw spellings
			}
			return nil, errors.Newf(errors.ErrPathCollision,
				"raw paths %q and %q both resolve to %q",
				prior.RawPath, rawPath, resolved.Path).
				WithDetail("rawPathA", prior.RawPath).
				WithDetail("rawPathB", rawPath).
				WithDetail("path", resolved.Path)
		}
		byFinal[resolved.Path] = item
		items = append(items, item)
	}

	return items, nil
}

func underAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
