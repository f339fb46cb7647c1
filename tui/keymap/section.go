package keymap

import "github.com/charmbracelet/bubbles/key"

// Standard section names shown in the help view.
const (
	SectionNavigation = "Navigation"
	SectionTree       = "Tree"
	SectionSearch     = "Search"
	SectionView       = "View"
	SectionSystem     = "System"
)

// Section groups keybindings under a heading in the help view.
type Section struct {
	Name     string
	Bindings []key.Binding
}

// SectionedKeyMap is implemented by keymaps that organize their bindings
// into sections.
type SectionedKeyMap interface {
	Sections() []Section
}

// NewSection creates a section, dropping disabled bindings.
func NewSection(name string, bindings ...key.Binding) Section {
	enabled := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		if b.Enabled() {
			enabled = append(enabled, b)
		}
	}
	return Section{Name: name, Bindings: enabled}
}
