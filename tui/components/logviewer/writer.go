package logviewer

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// StreamWriter turns written bytes into LogLineMsg values, one per complete
// line. Partial lines are held until their newline arrives.
type StreamWriter struct {
	sender Sender
	source string

	mu      sync.Mutex
	pending strings.Builder
}

// NewStreamWriter returns a writer tagging every line with source.
func NewStreamWriter(sender Sender, source string) *StreamWriter {
	return &StreamWriter{sender: sender, source: source}
}

// Write implements io.Writer.
func (w *StreamWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending.Write(p)
	lines := strings.Split(w.pending.String(), "\n")
	w.pending.Reset()
	w.pending.WriteString(lines[len(lines)-1])

	if w.sender == nil {
		return len(p), nil
	}
	for _, line := range lines[:len(lines)-1] {
		w.sender.Send(LogLineMsg{Source: w.source, Line: strings.TrimSuffix(line, "\r")})
	}
	return len(p), nil
}
