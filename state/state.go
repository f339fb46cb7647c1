// Package state persists small pieces of user state between scaffolder runs,
// such as the last folder a project was created in.
package state

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/grovetools/scaffolder/pkg/paths"
	"gopkg.in/yaml.v3"
)

// KeyLastStoragePath holds the storagePath of the most recently created project.
const KeyLastStoragePath = "scaffold.last_storage_path"

// State is the decoded state file.
type State map[string]interface{}

// Store is a YAML state file. Updates are read-modify-write under a mutex and
// land through a rename, so readers never see a partial file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Default returns the store at <state dir>/state.yml.
func Default() *Store {
	return NewStore(filepath.Join(paths.StateDir(), "state.yml"))
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored state; a missing file is an empty state.
func (s *Store) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (State, error) {
	data, err := pathops.ReadFileSync(s.path)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "parse state file").WithDetail("path", s.path)
	}
	if st == nil {
		st = State{}
	}
	return st, nil
}

// Save replaces the stored state.
func (s *Store) Save(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(st)
}

func (s *Store) save(st State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	ctx := context.Background()
	if err := pathops.MkdirAll(ctx, filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := pathops.WriteFileSync(tmp, data); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := pathops.Rename(ctx, tmp, s.path); err != nil {
		_ = pathops.Unlink(ctx, tmp)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// update applies fn to the stored state and saves the result.
func (s *Store) update(fn func(State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	fn(st)
	return s.save(st)
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (interface{}, bool, error) {
	st, err := s.Load()
	if err != nil {
		return nil, false, err
	}
	val, ok := st[key]
	return val, ok, nil
}

// GetString returns the string under key, or "" when it is missing or not a string.
func (s *Store) GetString(key string) (string, error) {
	val, ok, err := s.Get(key)
	if err != nil || !ok {
		return "", err
	}
	str, _ := val.(string)
	return str, nil
}

// Set stores value under key.
func (s *Store) Set(key string, value interface{}) error {
	return s.update(func(st State) { st[key] = value })
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	return s.update(func(st State) { delete(st, key) })
}
