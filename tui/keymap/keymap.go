package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/grovetools/scaffolder/config"
	"github.com/grovetools/scaffolder/logging"
)

// Base holds the keybindings of the explorer. Vim-style keys take precedence.
type Base struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Tree
	Expand   key.Binding
	Collapse key.Binding
	Open     key.Binding
	Refresh  key.Binding
	CopyPath key.Binding

	// Search
	Search      key.Binding
	ClearSearch key.Binding

	// View
	ToggleLogs key.Binding

	// System
	Help key.Binding
	Quit key.Binding
}

// NewBase returns the default keybindings.
func NewBase() Base {
	return Base{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "ctrl+p"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "ctrl+n"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "go to bottom"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter", "open / toggle"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		CopyPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "show path"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "toggle logs"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Load returns the default keybindings with overrides from the
// "keybindings" section of cfg applied. A nil cfg yields the defaults.
func Load(cfg *config.Config) Base {
	km := NewBase()
	if cfg == nil {
		return km
	}

	var overrides Overrides
	if err := cfg.UnmarshalExtension("keybindings", &overrides); err != nil {
		logging.NewLogger("keymap").WithError(err).Warn("Ignoring invalid keybindings section")
		return km
	}
	for _, name := range ApplyOverrides(&km, overrides) {
		logging.NewLogger("keymap").Warnf("Unknown keybinding %q", name)
	}
	return km
}

// ShortHelp returns the bindings for the one-line help.
func (k Base) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.Help, k.Quit}
}

// FullHelp returns the bindings grouped in columns.
func (k Base) FullHelp() [][]key.Binding {
	sections := k.Sections()
	groups := make([][]key.Binding, 0, len(sections))
	for _, s := range sections {
		groups = append(groups, s.Bindings)
	}
	return groups
}

// Sections implements SectionedKeyMap.
func (k Base) Sections() []Section {
	return []Section{
		NewSection(SectionNavigation, k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom),
		NewSection(SectionTree, k.Expand, k.Collapse, k.Open, k.Refresh, k.CopyPath),
		NewSection(SectionSearch, k.Search, k.ClearSearch),
		NewSection(SectionView, k.ToggleLogs),
		NewSection(SectionSystem, k.Help, k.Quit),
	}
}
