// Package writer persists a rendered tree to disk or to a zip archive.
// Directory writes go through a synthfs pipeline so the whole tree is
// validated before the first byte lands; dry-run mode logs the plan and
// touches nothing.
package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/strata/pkg/compose"
	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	synthcore "github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"
)

// Writer materializes rendered trees under a target root directory
type Writer struct {
	logger     zerolog.Logger
	dryRun     bool
	filesystem synthfs.FileSystem
}

// New creates a writer. With dryRun set it logs the plan instead of
// writing.
func New(dryRun bool) *Writer {
	return &Writer{
		logger:     logging.GetLogger("writer"),
		dryRun:     dryRun,
		filesystem: filesystem.NewOSFileSystem("/"),
	}
}

// Write persists the tree under root. Root is created if missing; an
// existing non-empty root is rejected so a scaffold never clobbers user
// files.
func (w *Writer) Write(tree *compose.RenderedTree, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "target %q", root)
	}
	if err := checkTargetEmpty(absRoot); err != nil {
		return err
	}

	dirs, files := plan(tree, absRoot)

	if w.dryRun {
		w.logger.Info().Str("root", absRoot).Msg("Dry run mode - tree would be written:")
		for _, d := range dirs {
			w.logger.Info().Str("dir", d).Msg("Would create directory")
		}
		for _, f := range files {
			w.logger.Info().Str("file", f.path).Int("contentLen", len(f.content)).Msg("Would write file")
		}
		return nil
	}

	pipeline := synthfs.NewMemPipeline()
	for _, d := range dirs {
		op, err := w.createDirOp(d)
		if err != nil {
			return err
		}
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrDirCreate, "failed to add operation to pipeline")
		}
	}
	for _, f := range files {
		op, err := w.writeFileOp(f.path, f.content)
		if err != nil {
			return err
		}
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "failed to add operation to pipeline")
		}
	}

	w.logger.Info().
		Str("root", absRoot).
		Int("dirs", len(dirs)).
		Int("files", len(files)).
		Msg("Writing rendered tree")

	executor := synthfs.NewExecutor()
	result := executor.Run(context.Background(), pipeline, w.filesystem)
	if result.GetError() != nil {
		w.logger.Error().Err(result.GetError()).Msg("Pipeline execution failed")
		return errors.Wrapf(result.GetError(), errors.ErrFileWrite,
			"failed to write tree under %s", absRoot)
	}

	w.logger.Info().Msg("Rendered tree written")
	return nil
}

type plannedFile struct {
	path    string
	content string
}

// plan expands the tree into absolute directory and file paths, with
// every file parent included and parents ordered before children.
func plan(tree *compose.RenderedTree, root string) ([]string, []plannedFile) {
	dirSet := map[string]bool{root: true}
	for _, d := range tree.Dirs {
		dirSet[filepath.Join(root, filepath.FromSlash(d))] = true
	}

	files := make([]plannedFile, 0, len(tree.Files))
	for _, f := range tree.Files {
		abs := filepath.Join(root, filepath.FromSlash(f.Path))
		for dir := filepath.Dir(abs); len(dir) > len(root); dir = filepath.Dir(dir) {
			dirSet[dir] = true
		}
		files = append(files, plannedFile{path: abs, content: f.Content})
	}

	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	// Lexicographic order puts parents before their children.
	sort.Strings(dirs)
	return dirs, files
}

func (w *Writer) createDirOp(target string) (synthfs.Operation, error) {
	relPath, err := filepath.Rel("/", target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path: %s", target)
	}

	w.logger.Debug().Str("target", target).Msg("Creating directory operation")

	opID := synthcore.OperationID(fmt.Sprintf("create-dir-%s", target))
	createOp := operations.NewCreateDirectoryOperation(opID, relPath)
	createOp.SetItem(&directoryItem{path: relPath, mode: 0755})
	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

func (w *Writer) writeFileOp(target, content string) (synthfs.Operation, error) {
	relPath, err := filepath.Rel("/", target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path: %s", target)
	}

	w.logger.Debug().
		Str("target", target).
		Int("contentLen", len(content)).
		Msg("Creating write file operation")

	opID := synthcore.OperationID(fmt.Sprintf("write-file-%s", target))
	createOp := operations.NewCreateFileOperation(opID, relPath)
	createOp.SetItem(&fileItem{path: relPath, content: []byte(content), mode: 0644})
	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

// checkTargetEmpty allows a missing root or an existing empty directory
func checkTargetEmpty(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrDirCreate, "target %q", root)
	}
	if len(entries) > 0 {
		return errors.Newf(errors.ErrDirCreate, "target directory %q is not empty", root)
	}
	return nil
}
