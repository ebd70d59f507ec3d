// Package compose chains the engine stages into the single end-to-end
// operation: merge the layer set, resolve every raw path, render every
// surviving file body, and return the final output tree.
//
// Composition is a pure computation over immutable inputs. Any structural
// error (merge, path, render) aborts the whole operation for this
// configuration; there is no best-effort partial output.
package compose

import (
	"sort"
	"time"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/layer"
	"github.com/arthur-debert/strata/pkg/logging"
	"github.com/arthur-debert/strata/pkg/manifest"
	"github.com/arthur-debert/strata/pkg/resolve"
	"github.com/arthur-debert/strata/pkg/template"
)

// RenderedFile is one fully evaluated output file
type RenderedFile struct {
	Path    string
	Content string
}

// RenderedTree is the engine's output unit. Ownership passes to whatever
// collaborator persists it.
type RenderedTree struct {
	// Files are the rendered file bodies, sorted by path.
	Files []RenderedFile

	// Dirs are resolved directory paths, sorted. They matter only for
	// directories that end up empty; file parents are implied.
	Dirs []string
}

// Compose merges the layers and renders the output tree for one validated
// configuration
func Compose(cfg config.Config, set layer.Set) (*RenderedTree, error) {
	m, err := manifest.Merge(set)
	if err != nil {
		return nil, tagConfig(err, cfg)
	}
	return FromManifest(cfg, m)
}

// FromManifest renders against an already-merged manifest. The matrix
// validator uses this to share one parsed layer tree across
// configurations.
func FromManifest(cfg config.Config, m *manifest.Manifest) (*RenderedTree, error) {
	logger := logging.GetLogger("compose")
	start := time.Now()

	items, err := resolve.Manifest(m, cfg)
	if err != nil {
		return nil, tagConfig(err, cfg)
	}

	tree := &RenderedTree{}
	for _, item := range items {
		switch item.Entry.Kind {
		case layer.KindDir:
			tree.Dirs = append(tree.Dirs, item.Path)
		case layer.KindFile:
			content, err := template.RenderContent(item.RawPath, item.Entry.Content, cfg)
			if err != nil {
				return nil, tagConfig(err, cfg)
			}
			tree.Files = append(tree.Files, RenderedFile{Path: item.Path, Content: content})
		}
	}

	sort.Slice(tree.Files, func(i, j int) bool { return tree.Files[i].Path < tree.Files[j].Path })
	sort.Strings(tree.Dirs)

	logger.Debug().
		Int("files", len(tree.Files)).
		Int("dirs", len(tree.Dirs)).
		Dur("duration", time.Since(start)).
		Msg("Compose finished")

	return tree, nil
}

// tagConfig stamps the failing configuration's identity onto an error so
// failures are reproducible without re-deriving which combination
// triggered them
func tagConfig(err error, cfg config.Config) error {
	var strataErr *errors.StrataError
	if e, ok := err.(*errors.StrataError); ok {
		strataErr = e
	} else {
		strataErr = errors.Wrap(err, errors.ErrInternal, "compose failed")
	}
	return strataErr.WithDetail("configuration", cfg.Key())
}
