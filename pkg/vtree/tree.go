// Package vtree presents an on-disk directory hierarchy as a lazily expanded
// tree of entries with CRUD, rename and watch operations.
package vtree

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/grovetools/scaffolder/logging"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FileType is the kind of a tree node.
type FileType = pathops.FileType

const (
	Unknown   = pathops.Unknown
	File      = pathops.File
	Directory = pathops.Directory
)

// Entry is a node exposed to the UI tree. It is derived fresh on every query.
type Entry struct {
	Path string   `json:"path"`
	Kind FileType `json:"kind"`
	// Icon is the project type of a classified directory, empty otherwise.
	Icon string `json:"icon,omitempty"`
}

// Name returns the last element of the entry's path.
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// Tree serves entries rooted around a workspace folder.
type Tree struct {
	workspaceRoot string
	resourceRoot  string
	lang          language.Tag
	logger        *logrus.Entry
}

// Option configures a Tree.
type Option func(*Tree)

// WithResourceRoot sets the directory holding images/<type>.svg icons.
func WithResourceRoot(dir string) Option {
	return func(t *Tree) { t.resourceRoot = dir }
}

// WithCollation sets the BCP 47 tag used for name ordering. Invalid tags fall back to und.
func WithCollation(tag string) Option {
	return func(t *Tree) {
		if parsed, err := language.Parse(tag); err == nil {
			t.lang = parsed
		}
	}
}

// New creates a tree for workspaceRoot. An empty root yields an empty top level.
func New(workspaceRoot string, opts ...Option) *Tree {
	t := &Tree{
		workspaceRoot: workspaceRoot,
		lang:          language.Und,
		logger:        logging.NewLogger("vtree"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WorkspaceRoot returns the configured workspace folder.
func (t *Tree) WorkspaceRoot() string {
	return t.workspaceRoot
}

// Stat returns metadata for path.
func (t *Tree) Stat(ctx context.Context, path string) (pathops.FileStat, error) {
	return pathops.Stat(ctx, path)
}

// ListChildren lists path, or its parent when parent is true, in display order.
func (t *Tree) ListChildren(ctx context.Context, path string, parent bool) ([]pathops.DirEntry, error) {
	if parent {
		path = filepath.Dir(path)
	}
	children, err := pathops.ReadDir(ctx, path)
	if err != nil {
		return nil, err
	}
	t.sortDisplay(children)
	return children, nil
}

// GetChildren returns the entries under entry. A nil entry yields the
// workspace root together with its siblings.
func (t *Tree) GetChildren(ctx context.Context, entry *Entry) ([]Entry, error) {
	var dir string
	var children []pathops.DirEntry
	var err error

	if entry != nil {
		dir = entry.Path
		children, err = t.ListChildren(ctx, dir, false)
	} else {
		if t.workspaceRoot == "" {
			return []Entry{}, nil
		}
		dir = filepath.Dir(t.workspaceRoot)
		children, err = t.ListChildren(ctx, t.workspaceRoot, true)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(children))
	for _, c := range children {
		e := Entry{Path: filepath.Join(dir, c.Name), Kind: c.Kind}
		if c.Kind == Directory {
			if pt, ok := Classify(e.Path); ok {
				e.Icon = string(pt)
			}
		}
		entries = append(entries, e)
	}
	t.logger.WithField("dir", dir).Debugf("listed %d entries", len(entries))
	return entries, nil
}

// sortDisplay orders directories before files and names by locale.
func (t *Tree) sortDisplay(children []pathops.DirEntry) {
	// Collators carry scratch buffers and are not safe for concurrent use.
	c := collate.New(t.lang)
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.Kind != b.Kind {
			if a.Kind == Directory {
				return true
			}
			if b.Kind == Directory {
				return false
			}
		}
		return c.CompareString(a.Name, b.Name) < 0
	})
}
