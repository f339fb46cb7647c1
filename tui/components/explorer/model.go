// Package explorer is a terminal file explorer over a vtree.Tree. It lists the
// workspace folder next to its siblings, expands directories lazily, marks
// classified projects and reloads listings as watch events arrive.
package explorer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/pkg/vtree"
	"github.com/grovetools/scaffolder/tui/components"
	"github.com/grovetools/scaffolder/tui/components/help"
	"github.com/grovetools/scaffolder/tui/components/logviewer"
	"github.com/grovetools/scaffolder/tui/keymap"
	"github.com/grovetools/scaffolder/tui/theme"
)

// logsHeight is the number of lines given to the log pane when shown.
const logsHeight = 8

type row struct {
	entry vtree.Entry
	depth int
}

// Config configures a Model.
type Config struct {
	Tree   *vtree.Tree
	Keys   keymap.Base
	Opener Opener
	// Changes, when set, drives reloads of the affected listings.
	Changes <-chan vtree.ChangeEvent
	// LogFiles are tailed into the log pane, keyed by source name.
	LogFiles map[string]string
}

// Model is the explorer.
type Model struct {
	tree    *vtree.Tree
	keys    keymap.Base
	opener  Opener
	changes <-chan vtree.ChangeEvent

	help      help.Model
	filter    textinput.Model
	filtering bool
	logs      logviewer.Model
	logFiles  map[string]string
	showLogs  bool

	children map[string][]vtree.Entry
	expanded map[string]bool
	rows     []row
	cursor   int
	offset   int

	width  int
	height int

	status      string
	statusLevel string
}

// New creates an explorer.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.CharLimit = 256

	return Model{
		tree:     cfg.Tree,
		keys:     cfg.Keys,
		opener:   cfg.Opener,
		changes:  cfg.Changes,
		help:     help.New(cfg.Keys, "Explorer"),
		filter:   ti,
		logs:     logviewer.New(0, 0),
		logFiles: cfg.LogFiles,
		children: make(map[string][]vtree.Entry),
		expanded: make(map[string]bool),
	}
}

// Init loads the top level and starts listening for changes.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadChildren(m.tree, topLevel), waitForChange(m.changes)}
	if len(m.logFiles) > 0 {
		cmds = append(cmds, m.logs.Start(m.logFiles))
	}
	return tea.Batch(cmds...)
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (vtree.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return vtree.Entry{}, false
	}
	return m.rows[m.cursor].entry, true
}

// Logs returns the log pane so callers can feed it.
func (m Model) Logs() logviewer.Model {
	return m.logs
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.logs.SetSize(msg.Width, logsHeight)
		m.filter.Width = msg.Width - 4
		m.scroll()
		return m, nil

	case childrenLoadedMsg:
		if msg.err != nil {
			if msg.dir != topLevel && errors.Is(msg.err, errors.ErrCodeNotFound) {
				m.forget(msg.dir)
			} else {
				m.setStatus("error", msg.err.Error())
			}
			m.rebuild()
			return m, nil
		}
		m.children[msg.dir] = msg.entries
		m.rebuild()
		return m, nil

	case changeMsg:
		ev := vtree.ChangeEvent(msg)
		var cmds []tea.Cmd
		if ev.Type == vtree.Deleted {
			m.forget(ev.Path)
			m.rebuild()
		}
		if ev.Type != vtree.Changed {
			if k := m.listingKey(ev.Path); m.isLoaded(k) {
				cmds = append(cmds, loadChildren(m.tree, k))
			}
		}
		cmds = append(cmds, waitForChange(m.changes))
		return m, tea.Batch(cmds...)

	case watchClosedMsg:
		m.changes = nil
		return m, nil

	case OpenedMsg:
		if msg.Err != nil {
			m.setStatus("error", fmt.Sprintf("open %s: %v", filepath.Base(msg.Path), msg.Err))
		} else {
			m.setStatus("success", "opened "+filepath.Base(msg.Path))
		}
		return m, nil

	case logviewer.LogLineMsg:
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}

	if m.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.clearFilter()
			return m, nil
		case tea.KeyEnter:
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0
		m.rebuild()
		return m, cmd
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.logs.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.move(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.move(m.listHeight())
	case key.Matches(msg, m.keys.Top):
		m.move(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.move(len(m.rows))
	case key.Matches(msg, m.keys.Expand):
		return m, m.expand()
	case key.Matches(msg, m.keys.Collapse):
		m.collapse()
	case key.Matches(msg, m.keys.Open):
		return m, m.activate()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.CopyPath):
		if e, ok := m.Selected(); ok {
			m.setStatus("info", e.Path)
		}
	case key.Matches(msg, m.keys.Search):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		m.clearFilter()
	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.scroll()
	}
	return m, nil
}

func (m *Model) expand() tea.Cmd {
	e, ok := m.Selected()
	if !ok || e.Kind != vtree.Directory {
		return nil
	}
	m.expanded[e.Path] = true
	m.rebuild()
	return loadChildren(m.tree, e.Path)
}

// collapse folds the selected directory, or moves to the parent row.
func (m *Model) collapse() {
	e, ok := m.Selected()
	if !ok {
		return
	}
	if m.expanded[e.Path] {
		delete(m.expanded, e.Path)
		m.rebuild()
		return
	}
	parent := filepath.Dir(e.Path)
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].entry.Path == parent {
			m.cursor = i
			m.scroll()
			return
		}
	}
}

// activate toggles directories and runs the command attached to files.
func (m *Model) activate() tea.Cmd {
	e, ok := m.Selected()
	if !ok {
		return nil
	}
	if e.Kind == vtree.Directory {
		if m.expanded[e.Path] {
			delete(m.expanded, e.Path)
			m.rebuild()
			return nil
		}
		return m.expand()
	}

	item := m.tree.TreeItem(e)
	if item.Command == nil || item.Command.Name != vtree.OpenFileCommand || m.opener == nil {
		return nil
	}
	return m.opener.Open(item.Command.Arguments[0])
}

// refresh reloads every listing currently shown.
func (m *Model) refresh() tea.Cmd {
	keys := make([]string, 0, len(m.children))
	for k := range m.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cmds := make([]tea.Cmd, 0, len(keys))
	for _, k := range keys {
		if k == topLevel || m.expanded[k] {
			cmds = append(cmds, loadChildren(m.tree, k))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) clearFilter() {
	m.filtering = false
	m.filter.Blur()
	m.filter.SetValue("")
	m.rebuild()
}

func (m *Model) setStatus(level, msg string) {
	m.statusLevel, m.status = level, msg
}

func (m Model) isLoaded(k string) bool {
	_, ok := m.children[k]
	return ok && (k == topLevel || m.expanded[k])
}

// forget drops path and everything below it from the expansion state.
func (m *Model) forget(path string) {
	prefix := path + string(filepath.Separator)
	for k := range m.children {
		if k == path || strings.HasPrefix(k, prefix) {
			delete(m.children, k)
		}
	}
	for k := range m.expanded {
		if k == path || strings.HasPrefix(k, prefix) {
			delete(m.expanded, k)
		}
	}
}

// rebuild flattens the loaded listings into rows, keeping the cursor on the
// same path when it is still shown.
func (m *Model) rebuild() {
	var current string
	if e, ok := m.Selected(); ok {
		current = e.Path
	}

	m.rows = m.rows[:0]
	m.flatten(topLevel, 0)

	if query := strings.ToLower(m.filter.Value()); query != "" {
		filtered := m.rows[:0]
		for _, r := range m.rows {
			if strings.Contains(strings.ToLower(r.entry.Name()), query) {
				filtered = append(filtered, r)
			}
		}
		m.rows = filtered
	}

	for i, r := range m.rows {
		if r.entry.Path == current {
			m.cursor = i
			break
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
}

func (m *Model) flatten(k string, depth int) {
	for _, e := range m.children[k] {
		m.rows = append(m.rows, row{entry: e, depth: depth})
		if e.Kind == vtree.Directory && m.expanded[e.Path] {
			m.flatten(e.Path, depth+1)
		}
	}
}

func (m *Model) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) listHeight() int {
	// Header and status bar.
	h := m.height - 2
	if m.filtering || m.filter.Value() != "" {
		h--
	}
	if m.showLogs {
		h -= logsHeight + 1
	}
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m Model) View() string {
	if m.help.ShowAll {
		return m.help.View()
	}
	t := theme.DefaultTheme

	header := t.Bold.Render("Explorer")
	if root := m.tree.WorkspaceRoot(); root != "" {
		header += " " + t.Muted.Render(root)
	}

	parts := []string{header}
	if m.filtering || m.filter.Value() != "" {
		parts = append(parts, m.filter.View())
	}
	parts = append(parts, m.renderRows())
	if m.showLogs {
		parts = append(parts, components.RenderDivider(m.width), m.logs.View())
	}
	parts = append(parts, m.renderStatus())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderRows() string {
	t := theme.DefaultTheme
	h := m.listHeight()
	if len(m.rows) == 0 {
		msg := "empty"
		if m.tree.WorkspaceRoot() == "" {
			msg = "no workspace folder"
		}
		return lipgloss.NewStyle().Height(h).Render(t.Muted.Render(msg))
	}

	end := m.offset + h
	if end > len(m.rows) {
		end = len(m.rows)
	}
	lines := make([]string, 0, h)
	for i := m.offset; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.cursor {
			line = t.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Height(h).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(r row) string {
	e := r.entry
	indent := strings.Repeat("  ", r.depth)

	icon := theme.IconFile
	style := theme.DefaultTheme.Normal
	if e.Kind == vtree.Directory {
		icon = theme.IconFolder
		if m.expanded[e.Path] {
			icon = theme.IconFolderOpen
		}
		if e.Icon != "" {
			icon = theme.ProjectTypeIcon(e.Icon)
			style = theme.ProjectTypeStyle(e.Icon)
		}
	}

	label := style.Render(e.Name())
	if e.Icon != "" {
		label += " " + theme.DefaultTheme.Muted.Render(e.Icon)
	}
	if e.Path == m.tree.WorkspaceRoot() {
		label += " " + theme.DefaultTheme.Accent.Render("(workspace)")
	}
	return fmt.Sprintf("%s%s %s", indent, icon, label)
}

func (m Model) renderStatus() string {
	left := m.help.View()
	if m.status != "" {
		left = components.RenderMessage(m.statusLevel, m.status)
	} else if e, ok := m.Selected(); ok {
		left = components.RenderBreadcrumb(m.crumbs(e.Path)...)
	}
	right := ""
	if len(m.rows) > 0 {
		right = fmt.Sprintf("%d/%d", m.cursor+1, len(m.rows))
	}
	return components.RenderStatusBar(left, right, m.width)
}

// crumbs splits path relative to the parent of the workspace folder.
func (m Model) crumbs(path string) []string {
	root := m.tree.WorkspaceRoot()
	if root == "" {
		return []string{filepath.Base(path)}
	}
	rel, err := filepath.Rel(filepath.Dir(root), path)
	if err != nil {
		return []string{filepath.Base(path)}
	}
	return strings.Split(rel, string(filepath.Separator))
}
