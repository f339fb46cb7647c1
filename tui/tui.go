// Package tui holds terminal setup shared by interactive commands.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// InitializeTUI picks the lipgloss color profile. CLICOLOR_FORCE=1 or
// COLORTERM=truecolor force full color even without a terminal, which keeps
// output stable under test harnesses. NO_COLOR disables color.
func InitializeTUI() {
	switch {
	case os.Getenv("NO_COLOR") != "":
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}
