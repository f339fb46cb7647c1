// Package table renders the bordered tables printed by CLI commands.
package table

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/scaffolder/tui/theme"
)

// New returns a rounded-border table with a bold header row.
func New(headers ...string) *ltable.Table {
	t := theme.DefaultTheme
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Padding(0, 1)
			if row == ltable.HeaderRow {
				return cell.Inherit(t.Bold)
			}
			if col == 0 {
				return cell.Inherit(t.Accent)
			}
			return cell
		})
}

// Render builds a table from headers and rows and renders it.
func Render(headers []string, rows [][]string) string {
	t := New(headers...)
	for _, row := range rows {
		t = t.Row(row...)
	}
	return t.Render()
}
