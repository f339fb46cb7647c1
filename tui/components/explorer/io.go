package explorer

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/scaffolder/pkg/vtree"
)

const loadTimeout = 10 * time.Second

// topLevel keys the listing of the workspace root and its siblings.
const topLevel = ""

// childrenLoadedMsg carries a fresh listing of dir.
type childrenLoadedMsg struct {
	dir     string
	entries []vtree.Entry
	err     error
}

// changeMsg forwards a watch event.
type changeMsg vtree.ChangeEvent

// watchClosedMsg is sent once the change channel is closed.
type watchClosedMsg struct{}

func loadChildren(tree *vtree.Tree, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		var parent *vtree.Entry
		if dir != topLevel {
			parent = &vtree.Entry{Path: dir, Kind: vtree.Directory}
		}
		entries, err := tree.GetChildren(ctx, parent)
		return childrenLoadedMsg{dir: dir, entries: entries, err: err}
	}
}

func waitForChange(changes <-chan vtree.ChangeEvent) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-changes
		if !ok {
			return watchClosedMsg{}
		}
		return changeMsg(ev)
	}
}

// listingKey returns the key under which the directory holding path is listed.
func (m Model) listingKey(path string) string {
	parent := filepath.Dir(path)
	if root := m.tree.WorkspaceRoot(); root != "" && parent == filepath.Dir(root) {
		return topLevel
	}
	return parent
}
