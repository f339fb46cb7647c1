// Package components holds small render helpers shared by the CLI and the explorer.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/scaffolder/tui/theme"
)

// RenderBreadcrumb joins items with arrows, highlighting the last one.
func RenderBreadcrumb(items ...string) string {
	t := theme.DefaultTheme
	if len(items) == 0 {
		return ""
	}

	parts := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i == len(items)-1 {
			parts = append(parts, t.Highlight.Render(item))
			break
		}
		parts = append(parts, t.Muted.Render(item), t.Muted.Render(theme.IconArrow))
	}
	return strings.Join(parts, " ")
}

// RenderStatusBar lays out left and right content across width. When both do
// not fit, only left is shown.
func RenderStatusBar(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	bar := left
	if gap >= 1 {
		bar = left + strings.Repeat(" ", gap) + right
	}
	return lipgloss.NewStyle().
		Width(width).
		MaxWidth(width).
		Foreground(theme.DefaultTheme.Colors.MutedText).
		Render(bar)
}

// RenderDivider draws a horizontal rule.
func RenderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return lipgloss.NewStyle().
		Foreground(theme.DefaultTheme.Colors.Border).
		Render(strings.Repeat("─", width))
}

// RenderKeyValue renders "key: value" with a muted key.
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s", theme.DefaultTheme.Muted.Render(key+":"), value)
}

// RenderMessage renders a one-line status message in the style of its level.
func RenderMessage(level, msg string) string {
	t := theme.DefaultTheme
	switch level {
	case "error":
		return t.Error.Render(theme.IconError + " " + msg)
	case "warning":
		return t.Warning.Render(theme.IconWarning + " " + msg)
	case "success":
		return t.Success.Render(theme.IconSuccess + " " + msg)
	default:
		return t.Info.Render(theme.IconInfo + " " + msg)
	}
}
