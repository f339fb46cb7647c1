package vtree

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

// ChangeType is the kind of a ChangeEvent.
type ChangeType int

const (
	Created ChangeType = iota + 1
	Changed
	Deleted
)

func (c ChangeType) String() string {
	switch c {
	case Created:
		return "created"
	case Changed:
		return "changed"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// MarshalText renders the change type by name.
func (c ChangeType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ChangeEvent reports one filesystem change below a watched root.
type ChangeEvent struct {
	Type ChangeType `json:"type"`
	Path string     `json:"path"`
}

// WatchOptions controls Watch.
type WatchOptions struct {
	Recursive bool
	// Excludes are .dockerignore-style patterns relative to the watched root.
	Excludes []string
}

// Watch is a live subscription to changes under a root. Close stops it.
type Watch struct {
	root      string
	recursive bool
	watcher   *fsnotify.Watcher
	matcher   *patternmatcher.PatternMatcher
	logger    *logrus.Entry

	mu          sync.RWMutex
	subscribers map[chan ChangeEvent]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// Watch starts monitoring root.
func (t *Tree) Watch(root string, opts WatchOptions) (*Watch, error) {
	root = pathops.NormalizeNFC(filepath.Clean(root))
	if _, err := pathops.Stat(context.Background(), root); err != nil {
		return nil, err
	}

	var matcher *patternmatcher.PatternMatcher
	if len(opts.Excludes) > 0 {
		m, err := patternmatcher.New(opts.Excludes)
		if err != nil {
			return nil, err
		}
		matcher = m
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, pathops.Normalize(err, root)
	}

	w := &Watch{
		root:        root,
		recursive:   opts.Recursive,
		watcher:     watcher,
		matcher:     matcher,
		logger:      t.logger.WithField("root", root),
		subscribers: make(map[chan ChangeEvent]struct{}),
		done:        make(chan struct{}),
	}

	if err := w.add(root); err != nil {
		watcher.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// Root returns the watched directory.
func (w *Watch) Root() string {
	return w.root
}

// Subscribe creates a new subscription channel for change events.
func (w *Watch) Subscribe() chan ChangeEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(chan ChangeEvent, 100)
	w.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (w *Watch) Unsubscribe(ch chan ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.subscribers[ch]; !ok {
		return
	}
	delete(w.subscribers, ch)
	close(ch)
}

// Close stops monitoring and closes every subscriber channel. It is idempotent.
func (w *Watch) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()

		w.mu.Lock()
		for ch := range w.subscribers {
			delete(w.subscribers, ch)
			close(ch)
		}
		w.mu.Unlock()
	})
	return err
}

// add registers dir and, for recursive watches, every directory below it.
func (w *Watch) add(dir string) error {
	if dir != w.root && w.excluded(dir) {
		return nil
	}
	if !w.recursive {
		return w.watcher.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Entries may vanish while walking.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.excluded(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.WithError(err).Debugf("failed to watch %s", path)
		}
		return nil
	})
}

func (w *Watch) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watch) handle(event fsnotify.Event) {
	path := pathops.NormalizeNFC(event.Name)
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	if !w.contains(path) {
		return
	}
	if w.excluded(path) {
		w.logger.Debugf("excluded: %s", path)
		return
	}

	var kind ChangeType
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Chmod) != 0 && event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0:
		kind = Changed
	case pathops.ExistsSync(path):
		kind = Created
		if w.recursive {
			if st, err := pathops.Stat(context.Background(), path); err == nil && st.Kind == Directory {
				if err := w.add(path); err != nil {
					w.logger.WithError(err).Debugf("failed to watch new directory %s", path)
				}
			}
		}
	default:
		kind = Deleted
	}

	w.logger.Debugf("fsnotify event: %s op=%v -> %s", path, event.Op, kind)
	w.publish(ChangeEvent{Type: kind, Path: path})
}

func (w *Watch) publish(ev ChangeEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for ch := range w.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscribers drop events rather than stall the watch.
		}
	}
}

// contains reports whether path is the root or lies below it.
func (w *Watch) contains(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watch) excluded(path string) bool {
	if w.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	matched, err := w.matcher.MatchesOrParentMatches(rel)
	if err != nil {
		w.logger.WithError(err).Debug("exclude pattern failed")
		return false
	}
	return matched
}
