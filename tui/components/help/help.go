// Package help renders a one-line key hint and a full-screen keybinding
// overlay for the explorer.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/scaffolder/tui/keymap"
	"github.com/grovetools/scaffolder/tui/theme"
)

// Model is an embeddable help view.
type Model struct {
	Keys    keymap.Base
	ShowAll bool
	Width   int
	Height  int
	Title   string
	Theme   *theme.Theme

	viewport viewport.Model
}

// New creates a help model for keys.
func New(keys keymap.Base, title string) Model {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false
	return Model{
		Keys:     keys,
		Title:    title,
		Theme:    theme.DefaultTheme,
		viewport: vp,
	}
}

// Update scrolls the overlay and closes it on help, quit or esc.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if !m.ShowAll {
			return m, nil
		}
		if key.Matches(msg, m.Keys.Help) || key.Matches(msg, m.Keys.Quit) || msg.Type == tea.KeyEsc {
			m.Toggle()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the overlay when shown, otherwise the one-line hint.
func (m Model) View() string {
	if !m.ShowAll {
		return m.viewShort()
	}

	content := m.viewport.View()
	if m.viewport.TotalLineCount() > m.viewport.Height {
		indicator := "↕ more"
		if m.viewport.AtTop() {
			indicator = "↓ more"
		} else if m.viewport.AtBottom() {
			indicator = "↑ more"
		}
		content = lipgloss.JoinVertical(lipgloss.Right, content,
			m.Theme.Muted.Align(lipgloss.Right).Width(m.viewport.Width).Render(indicator))
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewShort() string {
	var pairs []string
	for _, b := range m.Keys.ShortHelp() {
		if !b.Enabled() || b.Help().Key == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s %s", m.Theme.Highlight.Render(b.Help().Key), m.Theme.Muted.Render(b.Help().Desc)))
	}
	return strings.Join(pairs, m.Theme.Muted.Render(" • "))
}

// Toggle shows or hides the overlay. Showing it re-lays out the content.
func (m *Model) Toggle() {
	m.ShowAll = !m.ShowAll
	if m.ShowAll {
		m.layout()
		m.viewport.GotoTop()
	}
}

// SetSize records the available screen size.
func (m *Model) SetSize(width, height int) {
	m.Width = width
	m.Height = height
	if m.ShowAll {
		m.layout()
	}
}

func (m *Model) layout() {
	const margin = 4

	blocks := make([]string, 0)
	for _, s := range m.Keys.Sections() {
		if len(s.Bindings) == 0 {
			continue
		}
		blocks = append(blocks, m.renderSection(s))
	}

	// Two columns when they fit side by side.
	var body string
	half := (len(blocks) + 1) / 2
	left := lipgloss.JoinVertical(lipgloss.Left, blocks[:half]...)
	right := lipgloss.JoinVertical(lipgloss.Left, blocks[half:]...)
	if lipgloss.Width(left)+lipgloss.Width(right)+margin <= m.Width {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", margin), right)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	if m.Title != "" {
		body = lipgloss.JoinVertical(lipgloss.Center, m.Theme.Header.Render(m.Title), body)
	}

	m.viewport.SetContent(body)
	m.viewport.Width = lipgloss.Width(body)
	m.viewport.Height = m.Height - margin - 1
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
}

func (m *Model) renderSection(s keymap.Section) string {
	table := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return m.Theme.Highlight.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, b := range s.Bindings {
		table = table.Row(b.Help().Key, b.Help().Desc)
	}

	title := lipgloss.NewStyle().
		Foreground(m.Theme.Colors.Yellow).
		Italic(true).
		Render(theme.IconBullet + " " + s.Name)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Theme.Colors.Border).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, table.String()))
}
