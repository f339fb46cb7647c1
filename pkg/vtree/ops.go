package vtree

import (
	"context"
	"path/filepath"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/pkg/pathops"
)

// WriteOptions controls WriteFile.
type WriteOptions struct {
	Create    bool
	Overwrite bool
}

// DeleteOptions controls Delete.
type DeleteOptions struct {
	Recursive bool
}

// RenameOptions controls Rename.
type RenameOptions struct {
	Overwrite bool
}

// CreateDirectory creates a single directory; the parent must exist.
func (t *Tree) CreateDirectory(ctx context.Context, path string) error {
	return pathops.Mkdir(ctx, path)
}

// ReadFile returns the content of path.
func (t *Tree) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return pathops.ReadFile(ctx, path)
}

// WriteFile writes content to path. A missing target requires Create and
// gets its parent directories made first; an existing one requires Overwrite.
func (t *Tree) WriteFile(ctx context.Context, path string, content []byte, opts WriteOptions) error {
	exists, err := pathops.Exists(ctx, path)
	if err != nil {
		return err
	}
	if !exists {
		if !opts.Create {
			return errors.FileNotFound(path)
		}
		if err := pathops.MkdirAll(ctx, filepath.Dir(path)); err != nil {
			return err
		}
	} else if !opts.Overwrite {
		return errors.FileExists(path)
	}
	return pathops.WriteFile(ctx, path, content)
}

// Delete removes path. Without Recursive only files and empty directories go.
func (t *Tree) Delete(ctx context.Context, path string, opts DeleteOptions) error {
	if opts.Recursive {
		return pathops.RemoveAll(ctx, path)
	}
	return pathops.Unlink(ctx, path)
}

// Rename moves from to to. An existing destination requires Overwrite and is
// removed first. Missing destination parents are created. The source must
// exist before the destination is touched.
func (t *Tree) Rename(ctx context.Context, from, to string, opts RenameOptions) error {
	if filepath.Clean(from) == filepath.Clean(to) {
		_, err := pathops.Stat(ctx, from)
		return err
	}
	srcExists, err := pathops.Exists(ctx, from)
	if err != nil {
		return err
	}
	if !srcExists {
		return errors.FileNotFound(from)
	}

	exists, err := pathops.Exists(ctx, to)
	if err != nil {
		return err
	}
	// A case variant of the source on a case-insensitive filesystem.
	if exists && pathops.SameFile(from, to) {
		return pathops.Rename(ctx, from, to)
	}
	if exists {
		if !opts.Overwrite {
			return errors.FileExists(to)
		}
		if err := pathops.RemoveAll(ctx, to); err != nil {
			return err
		}
	}
	if err := pathops.MkdirAll(ctx, filepath.Dir(to)); err != nil {
		return err
	}
	return pathops.Rename(ctx, from, to)
}

// Copy duplicates the file or directory tree at from into to, which must not exist.
func (t *Tree) Copy(ctx context.Context, from, to string) error {
	st, err := pathops.Stat(ctx, from)
	if err != nil {
		return err
	}
	if st.Kind != Directory {
		data, err := pathops.ReadFile(ctx, from)
		if err != nil {
			return err
		}
		return t.WriteFile(ctx, to, data, WriteOptions{Create: true})
	}

	if err := pathops.MkdirAll(ctx, to); err != nil {
		return err
	}
	children, err := pathops.ReadDir(ctx, from)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := t.Copy(ctx, filepath.Join(from, c.Name), filepath.Join(to, c.Name)); err != nil {
			return err
		}
	}
	return nil
}
