// Package logviewer renders a scrolling pane of log lines, fed either by
// tailing files or by a StreamWriter installed as the log output.
package logviewer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/scaffolder/tui/theme"
	"github.com/grovetools/scaffolder/tui/utils/scrollbar"
	"github.com/hpcloud/tail"
)

// MaxLines bounds the retained history.
const MaxLines = 1000

// LogLineMsg carries one line from a named source.
type LogLineMsg struct {
	Source string
	Line   string
}

// Model is the log pane.
type Model struct {
	viewport viewport.Model
	follow   bool
	ready    bool
	lines    []string

	// Tailing state is shared between copies of the model.
	tailer *tailer
}

type tailer struct {
	mu    sync.Mutex
	tails []*tail.Tail
	lines chan LogLineMsg
}

// New creates a log pane of the given size.
func New(width, height int) Model {
	m := Model{
		viewport: viewport.New(width, height),
		follow:   true,
		tailer:   &tailer{lines: make(chan LogLineMsg, 100)},
	}
	if width > 0 && height > 0 {
		m.ready = true
	}
	return m
}

// Start tails each file in files, keyed by source name, from the beginning.
// Files that cannot be opened are skipped.
func (m *Model) Start(files map[string]string) tea.Cmd {
	m.Stop()

	sources := make([]string, 0, len(files))
	for source := range files {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	m.tailer.mu.Lock()
	defer m.tailer.mu.Unlock()
	for _, source := range sources {
		t, err := tail.TailFile(files[source], tail.Config{
			Follow:   true,
			ReOpen:   true,
			Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
			Logger:   tail.DiscardingLogger,
		})
		if err != nil {
			continue
		}
		m.tailer.tails = append(m.tailer.tails, t)
		go func(source string, t *tail.Tail) {
			for line := range t.Lines {
				m.tailer.lines <- LogLineMsg{Source: source, Line: line.Text}
			}
		}(source, t)
	}
	return m.wait()
}

// Stop ends every tail started by Start.
func (m *Model) Stop() {
	m.tailer.mu.Lock()
	defer m.tailer.mu.Unlock()
	for _, t := range m.tailer.tails {
		_ = t.Stop()
	}
	m.tailer.tails = nil
}

func (m *Model) wait() tea.Cmd {
	lines := m.tailer.lines
	return func() tea.Msg {
		return <-lines
	}
}

// Append adds a formatted line, dropping the oldest beyond MaxLines.
func (m *Model) Append(msg LogLineMsg) {
	m.lines = append(m.lines, FormatLine(msg.Source, msg.Line))
	if over := len(m.lines) - MaxLines; over > 0 {
		m.lines = append([]string(nil), m.lines[over:]...)
	}
	m.refresh()
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// Lines returns the formatted history.
func (m Model) Lines() []string {
	return m.lines
}

// Clear drops all history.
func (m *Model) Clear() {
	m.lines = nil
	m.viewport.SetContent("")
}

// SetSize resizes the pane.
func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.ready = width > 0 && height > 0
	m.refresh()
}

// IsFollowing reports whether new lines scroll the pane to the bottom.
func (m Model) IsFollowing() bool {
	return m.follow
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	// One column is reserved for the scrollbar.
	width := m.viewport.Width - 1
	if width < 1 {
		width = 1
	}
	wrap := lipgloss.NewStyle().Width(width)
	wrapped := make([]string, len(m.lines))
	for i, line := range m.lines {
		wrapped[i] = wrap.Render(line)
	}
	m.viewport.SetContent(strings.Join(wrapped, "\n"))
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles log lines and scrolling keys. Lines arriving from tails
// re-arm the wait command; lines from a StreamWriter do not need it.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case LogLineMsg:
		m.Append(msg)
		m.tailer.mu.Lock()
		tailing := len(m.tailer.tails) > 0
		m.tailer.mu.Unlock()
		if tailing {
			cmds = append(cmds, m.wait())
		}
	case tea.KeyMsg:
		if msg.String() == "f" {
			m.follow = !m.follow
			if m.follow {
				m.viewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the pane with its scrollbar.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return scrollbar.Overlay(&m.viewport)
}

// FormatLine renders a raw line. JSON lines from the structured logger are
// reduced to time, level, component and message; anything else is prefixed
// with its source.
func FormatLine(source, line string) string {
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		if source == "" {
			return line
		}
		return fmt.Sprintf("[%s] %s", theme.DefaultTheme.Accent.Render(source), line)
	}

	msg, _ := entry["msg"].(string)
	level, _ := entry["level"].(string)
	ts, _ := entry["time"].(string)
	component, _ := entry["component"].(string)
	if component == "" {
		component = source
	}

	var parts []string
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		parts = append(parts, t.Format("15:04:05"))
	}
	if component != "" {
		parts = append(parts, fmt.Sprintf("[%s]", theme.DefaultTheme.Accent.Render(component)))
	}

	style := theme.DefaultTheme.Info
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		style = theme.DefaultTheme.Error
	case "warning", "warn":
		style = theme.DefaultTheme.Warning
	case "debug", "trace":
		style = theme.DefaultTheme.Muted
	}
	if level != "" {
		parts = append(parts, style.Render(strings.ToUpper(level))+":")
	}
	parts = append(parts, msg)
	return strings.Join(parts, " ")
}
