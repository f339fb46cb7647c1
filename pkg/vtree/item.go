package vtree

import "path/filepath"

// OpenFileCommand is attached to file items.
const OpenFileCommand = "fileExplorer.openFile"

// Command is an action the UI runs when an item is activated.
type Command struct {
	Name      string   `json:"command"`
	Title     string   `json:"title"`
	Arguments []string `json:"arguments,omitempty"`
}

// Item is the display form of an Entry.
type Item struct {
	Label        string   `json:"label"`
	Path         string   `json:"path"`
	Collapsible  bool     `json:"collapsible"`
	IconPath     string   `json:"iconPath,omitempty"`
	Command      *Command `json:"command,omitempty"`
	ContextValue string   `json:"contextValue,omitempty"`
}

// TreeItem renders entry for display.
func (t *Tree) TreeItem(entry Entry) Item {
	item := Item{
		Label:       entry.Name(),
		Path:        entry.Path,
		Collapsible: entry.Kind == Directory,
	}

	icon := entry.Icon
	if icon == "" && entry.Kind == Directory {
		if pt, ok := Classify(entry.Path); ok {
			icon = string(pt)
		}
	}
	if icon != "" && t.resourceRoot != "" {
		item.IconPath = filepath.Join(t.resourceRoot, "images", icon+".svg")
	}

	if entry.Kind == File {
		item.Command = &Command{
			Name:      OpenFileCommand,
			Title:     "Open File",
			Arguments: []string{entry.Path},
		}
		item.ContextValue = "file"
	}
	return item
}
