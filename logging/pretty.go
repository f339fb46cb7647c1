package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/scaffolder/tui/theme"
)

// Console prints the human-facing progress of a command: what was created,
// where the host listens, what went wrong. Structured logs go through
// NewLogger instead.
type Console struct {
	w    io.Writer
	key  lipgloss.Style
	path lipgloss.Style
}

// NewConsole writes to w, or stderr when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}
	t := theme.DefaultTheme
	return &Console{
		w:    w,
		key:  t.Muted,
		path: lipgloss.NewStyle().Foreground(t.Colors.Cyan).Italic(true),
	}
}

// Success prints msg after a check mark.
func (c *Console) Success(msg string) {
	fmt.Fprintf(c.w, "%s %s\n", theme.DefaultTheme.Success.Render(theme.IconSuccess), msg)
}

// Warn prints msg after a warning sign.
func (c *Console) Warn(msg string) {
	fmt.Fprintf(c.w, "%s %s\n", theme.DefaultTheme.Warning.Render(theme.IconWarning), msg)
}

// Fail prints msg and, when set, err.
func (c *Console) Fail(msg string, err error) {
	line := msg
	if err != nil {
		line += ": " + err.Error()
	}
	fmt.Fprintf(c.w, "%s %s\n", theme.DefaultTheme.Error.Render(theme.IconError), theme.DefaultTheme.Error.Render(line))
}

// Field prints an indented "key: value" line.
func (c *Console) Field(key string, value interface{}) {
	fmt.Fprintf(c.w, "  %s %s\n", c.key.Render(key+":"), theme.DefaultTheme.Highlight.Render(fmt.Sprint(value)))
}

// Path prints an indented "label: path" line.
func (c *Console) Path(label, path string) {
	fmt.Fprintf(c.w, "  %s %s\n", c.key.Render(label+":"), c.path.Render(path))
}

// ProjectCreated reports a project written by the generator.
func (c *Console) ProjectCreated(name, projectType, path string) {
	c.Success(fmt.Sprintf("Created %s", name))
	if projectType != "" {
		c.Field("type", theme.ProjectTypeStyle(projectType).Render(theme.ProjectTypeIcon(projectType)+" "+projectType))
	}
	c.Path("location", path)
}

// Serving reports a listening panel host, the document it opens first and
// the pid file other commands use to find it.
func (c *Console) Serving(origin, doc, pidFile string) {
	c.Success("Serving panels at " + origin)
	if doc != "" {
		c.Field("panel", doc)
	}
	c.Path("pid file", pidFile)
}
