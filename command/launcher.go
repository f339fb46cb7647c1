package command

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher opens URLs in a browser and files in an editor.
type Launcher struct {
	builder *SafeBuilder
	goos    string
	getenv  func(string) string
}

// NewLauncher returns a launcher for the current platform.
func NewLauncher() *Launcher {
	return NewLauncherWithExecutor(&RealExecutor{})
}

// NewLauncherWithExecutor is NewLauncher with a custom Executor.
func NewLauncherWithExecutor(exec Executor) *Launcher {
	return &Launcher{
		builder: NewSafeBuilderWithExecutor(exec),
		goos:    runtime.GOOS,
		getenv:  os.Getenv,
	}
}

// OpenURL shows url in the default browser without waiting for it.
func (l *Launcher) OpenURL(url string) error {
	if err := l.builder.Validate("url", url); err != nil {
		return err
	}
	var name string
	var args []string
	switch l.goos {
	case "darwin":
		name = "open"
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		name = "xdg-open"
	}
	cmd, err := l.builder.Build(context.Background(), name, append(args, url)...)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// EditorCommand returns the command editing path with $VISUAL or $EDITOR,
// falling back to vi. The editor owns the terminal and runs without a timeout.
func (l *Launcher) EditorCommand(path string) (*exec.Cmd, error) {
	if err := l.builder.Validate("fileName", path); err != nil {
		return nil, err
	}
	editor := l.getenv("VISUAL")
	if editor == "" {
		editor = l.getenv("EDITOR")
	}
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		fields = []string{"vi"}
	}

	cmd, err := l.builder.Build(context.Background(), fields[0], append(fields[1:], path)...)
	if err != nil {
		return nil, fmt.Errorf("invalid editor %q: %w", editor, err)
	}
	return cmd.Interactive(), nil
}
