// Package pidfile records the running panel host so that other commands can
// find it.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/grovetools/scaffolder/errors"
	"gopkg.in/yaml.v3"
)

// Record is the content of a pid file.
type Record struct {
	PID       int       `yaml:"pid"`
	Addr      string    `yaml:"addr"`
	StartedAt time.Time `yaml:"started_at"`
}

// Acquire writes a record for the current process to path. It fails with
// ALREADY_EXISTS while another live process holds the file; stale files are
// replaced.
func Acquire(path, addr string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}

	if rec, err := Read(path); err == nil && rec.PID != os.Getpid() {
		if IsProcessAlive(rec.PID) {
			return errors.New(errors.ErrCodeAlreadyExists,
				fmt.Sprintf("panel host already running with PID %d at %s", rec.PID, rec.Addr)).
				WithDetail("path", path).
				WithDetail("addr", rec.Addr)
		}
		_ = os.Remove(path)
	}

	data, err := yaml.Marshal(Record{PID: os.Getpid(), Addr: addr, StartedAt: time.Now()})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}

// Release removes the pid file if it belongs to the current process.
func Release(path string) error {
	rec, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if rec.PID != os.Getpid() {
		return nil
	}
	return os.Remove(path)
}

// Read parses the record at path.
func Read(path string) (Record, error) {
	var rec Record
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("invalid pid file %s: %w", path, err)
	}
	return rec, nil
}

// Running returns the record of a live host, if any.
func Running(path string) (Record, bool, error) {
	rec, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return rec, IsProcessAlive(rec.PID), nil
}

// IsProcessAlive probes pid with signal 0. EPERM still means the process exists.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}
