// Package pathops wraps primitive file operations. Every error leaving this
// package carries one of the filesystem codes from the errors package.
package pathops

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileType classifies a filesystem node.
type FileType int

const (
	Unknown FileType = iota
	File
	Directory
)

func (t FileType) String() string {
	switch t {
	case File:
		return "file"
	case Directory:
		return "directory"
	default:
		return "unknown"
	}
}

// MarshalText renders the type by name.
func (t FileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// FileStat is the metadata returned by Stat.
type FileStat struct {
	Kind    FileType
	Size    int64
	ModTime time.Time
	Mode    os.FileMode
}

// DirEntry is a single child returned by ReadDir.
type DirEntry struct {
	Name string
	Kind FileType
}

func kindOf(mode os.FileMode) FileType {
	switch {
	case mode.IsDir():
		return Directory
	case mode.IsRegular():
		return File
	default:
		return Unknown
	}
}

// Stat returns metadata for path, following symlinks.
func Stat(ctx context.Context, path string) (FileStat, error) {
	if err := ctx.Err(); err != nil {
		return FileStat{}, err
	}
	path = NormalizeNFC(path)
	info, err := os.Stat(path)
	if err != nil {
		return FileStat{}, Normalize(err, path)
	}
	return FileStat{
		Kind:    kindOf(info.Mode()),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}, nil
}

// ReadDir lists the children of path in name order.
func ReadDir(ctx context.Context, path string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = NormalizeNFC(path)
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, Normalize(err, path)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	names = normalizeNames(names)

	result := make([]DirEntry, 0, len(entries))
	for i, e := range entries {
		kind := kindOf(e.Type())
		if e.Type()&os.ModeSymlink != 0 {
			// Report what the link points at.
			if info, err := os.Stat(filepath.Join(path, e.Name())); err == nil {
				kind = kindOf(info.Mode())
			}
		}
		result = append(result, DirEntry{Name: names[i], Kind: kind})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ReadFile returns the content of path.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFileSync(path)
}

// ReadFileSync is the synchronous form of ReadFile.
func ReadFileSync(path string) ([]byte, error) {
	path = NormalizeNFC(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Normalize(err, path)
	}
	return data, nil
}

// WriteFile replaces the content of path, creating the file if needed.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteFileSync(path, data)
}

// WriteFileSync is the synchronous form of WriteFile.
func WriteFileSync(path string, data []byte) error {
	path = NormalizeNFC(path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Normalize(err, path)
	}
	return nil
}

// Exists reports whether path exists. Errors other than NOT_FOUND are returned.
func Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path = NormalizeNFC(path)
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, Normalize(err, path)
}

// ExistsSync reports whether path exists, treating every error as absence.
func ExistsSync(path string) bool {
	_, err := os.Lstat(NormalizeNFC(path))
	return err == nil
}

// SameFile reports whether a and b name the same filesystem node.
func SameFile(a, b string) bool {
	ia, err := os.Lstat(NormalizeNFC(a))
	if err != nil {
		return false
	}
	ib, err := os.Lstat(NormalizeNFC(b))
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

// MkdirAll creates path and any missing parents.
func MkdirAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = NormalizeNFC(path)
	if err := os.MkdirAll(path, 0755); err != nil {
		return Normalize(err, path)
	}
	return nil
}

// Mkdir creates a single directory. The parent must exist.
func Mkdir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = NormalizeNFC(path)
	if err := os.Mkdir(path, 0755); err != nil {
		return Normalize(err, path)
	}
	return nil
}

// RemoveAll deletes path and everything below it.
func RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = NormalizeNFC(path)
	if err := os.RemoveAll(path); err != nil {
		return Normalize(err, path)
	}
	return nil
}

// Unlink removes a file or an empty directory.
func Unlink(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = NormalizeNFC(path)
	if err := os.Remove(path); err != nil {
		return Normalize(err, path)
	}
	return nil
}

// Rename moves from to to. Failures are reported against the source path.
func Rename(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	from, to = NormalizeNFC(from), NormalizeNFC(to)
	if err := os.Rename(from, to); err != nil {
		return Normalize(err, from)
	}
	return nil
}

// ListSubdirectories returns the names of the directories directly under path.
func ListSubdirectories(ctx context.Context, path string) ([]string, error) {
	entries, err := ReadDir(ctx, path)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.Kind == Directory {
			dirs = append(dirs, e.Name)
		}
	}
	return dirs, nil
}
