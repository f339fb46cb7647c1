package explorer

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/scaffolder/command"
	"github.com/neovim/go-client/nvim"
)

// OpenedMsg reports the outcome of opening a file.
type OpenedMsg struct {
	Path string
	Err  error
}

// Opener shows a file to the user.
type Opener interface {
	Open(path string) tea.Cmd
}

// NvimOpener edits files in the Neovim instance listening on Addr.
type NvimOpener struct {
	Addr string
}

// Open issues :edit in the remote instance.
func (o NvimOpener) Open(path string) tea.Cmd {
	return func() tea.Msg {
		v, err := nvim.Dial(o.Addr)
		if err != nil {
			return OpenedMsg{Path: path, Err: err}
		}
		defer v.Close()

		var escaped string
		if err := v.Call("fnameescape", &escaped, path); err != nil {
			return OpenedMsg{Path: path, Err: err}
		}
		return OpenedMsg{Path: path, Err: v.Command("edit " + escaped)}
	}
}

// EditorOpener suspends the program and runs $VISUAL or $EDITOR.
type EditorOpener struct {
	Launcher *command.Launcher
}

// Open runs the editor in the foreground.
func (o EditorOpener) Open(path string) tea.Cmd {
	cmd, err := o.Launcher.EditorCommand(path)
	if err != nil {
		return func() tea.Msg { return OpenedMsg{Path: path, Err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return OpenedMsg{Path: path, Err: err}
	})
}

// DefaultOpener prefers the surrounding Neovim, as advertised by $NVIM,
// and falls back to the terminal editor.
func DefaultOpener(launcher *command.Launcher) Opener {
	if addr := os.Getenv("NVIM"); addr != "" {
		return NvimOpener{Addr: addr}
	}
	return EditorOpener{Launcher: launcher}
}
