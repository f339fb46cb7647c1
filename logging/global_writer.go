package logging

import (
	"io"
	"os"
	"sync"
)

// sink is the stderr destination shared by every logger. The explorer points
// it at its log pane while it owns the terminal.
type sink struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *sink) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

func (s *sink) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.w
	s.w = w
	return prev
}

var stderrSink = &sink{w: os.Stderr}

// RedirectOutput sends the terminal output of every logger to w until the
// returned restore function is called.
func RedirectOutput(w io.Writer) (restore func()) {
	prev := stderrSink.swap(w)
	var once sync.Once
	return func() {
		once.Do(func() { stderrSink.swap(prev) })
	}
}
