package writer

import (
	"archive/zip"
	"os"
	"path"
	"strings"

	"github.com/arthur-debert/strata/pkg/compose"
	"github.com/arthur-debert/strata/pkg/errors"
)

// WriteArchive packs the tree into a zip file at dest. Entries use
// forward slashes and are prefixed with the archive's base name minus
// extension, so unpacking yields a single project directory.
func (w *Writer) WriteArchive(tree *compose.RenderedTree, dest string) error {
	prefix := strings.TrimSuffix(path.Base(dest), ".zip")

	if w.dryRun {
		w.logger.Info().Str("dest", dest).Msg("Dry run mode - archive would be written:")
		for _, f := range tree.Files {
			w.logger.Info().Str("entry", path.Join(prefix, f.Path)).Msg("Would add file")
		}
		return nil
	}

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveWrite, "archive %q", dest)
	}
	defer func() { _ = out.Close() }()

	zw := zip.NewWriter(out)
	for _, d := range tree.Dirs {
		if _, err := zw.Create(path.Join(prefix, d) + "/"); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "archive entry %q", d)
		}
	}
	for _, f := range tree.Files {
		fw, err := zw.Create(path.Join(prefix, f.Path))
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "archive entry %q", f.Path)
		}
		if _, err := fw.Write([]byte(f.Content)); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "archive entry %q", f.Path)
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrArchiveWrite, "archive %q", dest)
	}

	w.logger.Info().
		Str("dest", dest).
		Int("files", len(tree.Files)).
		Msg("Archive written")
	return nil
}
