// Package scrollbar draws a one-column scrollbar next to a viewport.
package scrollbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/grovetools/scaffolder/tui/theme"
)

const (
	thumb = "█"
	track = "░"
)

// Generate returns one scrollbar cell per line for height lines.
func Generate(vp *viewport.Model, height int) []string {
	return Cells(vp.TotalLineCount(), vp.Height, vp.ScrollPercent(), height)
}

// Cells computes the scrollbar for total lines of content of which visible
// are shown, scrolled to percent (0..1).
func Cells(total, visible int, percent float64, height int) []string {
	if height <= 0 {
		return []string{}
	}
	cells := make([]string, height)
	fill := func(from, to int, s string) {
		for i := from; i < to && i < height; i++ {
			cells[i] = theme.DefaultTheme.Muted.Render(s)
		}
	}

	switch {
	case total == 0:
		fill(0, height, " ")
		return cells
	case total <= visible:
		fill(0, height, thumb)
		return cells
	}

	size := height * visible / total
	if size < 1 {
		size = 1
	}
	if percent < 0 {
		percent = 0
	} else if percent > 1 {
		percent = 1
	}
	start := int(float64(height-size)*percent + 0.5)

	fill(0, height, track)
	fill(start, start+size, thumb)
	return cells
}

// Overlay appends the scrollbar to each visible line of vp.
func Overlay(vp *viewport.Model) string {
	lines := strings.Split(vp.View(), "\n")
	bar := Generate(vp, len(lines))
	for i := range lines {
		lines[i] += bar[i]
	}
	return strings.Join(lines, "\n")
}
