package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/scaffolder/tui/theme"
	"github.com/sirupsen/logrus"
)

const defaultTimestampFormat = "2006-01-02 15:04:05"

// TextFormatter renders entries as
//
//	2026-01-02 15:04:05 [INFO] [webhost] panel attached id=p-1 doc=create_project.html
//
// Fields are sorted, values containing spaces are quoted and the error field
// always comes last.
type TextFormatter struct {
	Config FormatConfig
}

// Format implements logrus.Formatter.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		layout := f.Config.TimestampFormat
		if layout == "" {
			layout = defaultTimestampFormat
		}
		b.WriteString(entry.Time.Format(layout))
		b.WriteByte(' ')
	}

	b.WriteString(levelStyle(entry.Level).Render("[" + levelName(entry.Level) + "]"))

	if component, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		fmt.Fprintf(&b, " [%s]", theme.DefaultTheme.Accent.Render(fmt.Sprint(component)))
	}

	if entry.HasCaller() {
		fmt.Fprintf(&b, " [%s:%d %s]", filepath.Base(entry.Caller.File), entry.Caller.Line, filepath.Base(entry.Caller.Function))
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" && key != logrus.ErrorKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%s", key, quote(entry.Data[key]))
	}
	if err, ok := entry.Data[logrus.ErrorKey]; ok {
		fmt.Fprintf(&b, " %s", theme.DefaultTheme.Error.Render(logrus.ErrorKey+"="+quote(err)))
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func levelName(l logrus.Level) string {
	if l == logrus.WarnLevel {
		return "WARN"
	}
	return strings.ToUpper(l.String())
}

func levelStyle(l logrus.Level) lipgloss.Style {
	t := theme.DefaultTheme
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return t.Error
	case logrus.WarnLevel:
		return t.Warning
	case logrus.DebugLevel, logrus.TraceLevel:
		return t.Muted
	default:
		return lipgloss.NewStyle()
	}
}

func quote(v interface{}) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
