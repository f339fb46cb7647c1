package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/scaffolder/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDefaultBindings(t *testing.T) {
	km := NewBase()
	assert.True(t, key.Matches(runeKey("j"), km.Down))
	assert.True(t, key.Matches(runeKey("k"), km.Up))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, km.Open))
	assert.True(t, key.Matches(runeKey("/"), km.Search))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit))
}

func TestSectionsCoverEveryBinding(t *testing.T) {
	km := NewBase()
	total := 0
	names := []string{}
	for _, s := range km.Sections() {
		names = append(names, s.Name)
		total += len(s.Bindings)
	}
	assert.Equal(t, []string{SectionNavigation, SectionTree, SectionSearch, SectionView, SectionSystem}, names)
	assert.Equal(t, 16, total)
	assert.Len(t, km.FullHelp(), 5)
}

func TestNewSectionDropsDisabled(t *testing.T) {
	disabled := key.NewBinding(key.WithKeys("x"), key.WithDisabled())
	enabled := key.NewBinding(key.WithKeys("y"))
	s := NewSection("Test", disabled, enabled)
	require.Len(t, s.Bindings, 1)
	assert.Equal(t, []string{"y"}, s.Bindings[0].Keys())
}

func TestApplyOverrides(t *testing.T) {
	km := NewBase()
	unknown := ApplyOverrides(&km, Overrides{
		"toggle_logs": {"ctrl+l", "F2"},
		"quit":        {},
		"no_such_key": {"z"},
	})

	assert.Equal(t, []string{"no_such_key"}, unknown)
	assert.Equal(t, []string{"ctrl+l", "F2"}, km.ToggleLogs.Keys())
	assert.Equal(t, "ctrl+l/F2", km.ToggleLogs.Help().Key)
	assert.Equal(t, "toggle logs", km.ToggleLogs.Help().Desc)
	// An empty list keeps the default.
	assert.Equal(t, []string{"q", "ctrl+c"}, km.Quit.Keys())
}

func TestApplyOverridesEmbedded(t *testing.T) {
	type extended struct {
		Base
		Extra key.Binding
	}
	km := extended{Base: NewBase(), Extra: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "extra"))}
	unknown := ApplyOverrides(&km, Overrides{"extra": {"X"}, "up": {"w"}})

	assert.Empty(t, unknown)
	assert.Equal(t, []string{"X"}, km.Extra.Keys())
	assert.Equal(t, []string{"w"}, km.Up.Keys())
}

func TestApplyOverridesIgnoresNonPointers(t *testing.T) {
	km := NewBase()
	assert.Nil(t, ApplyOverrides(km, Overrides{"up": {"w"}}))
	assert.Equal(t, []string{"up", "k", "ctrl+p"}, km.Up.Keys())
}

func TestCamelToSnake(t *testing.T) {
	tests := map[string]string{
		"Up":          "up",
		"ToggleLogs":  "toggle_logs",
		"ClearSearch": "clear_search",
		"CopyPath":    "copy_path",
	}
	for in, want := range tests {
		assert.Equal(t, want, camelToSnake(in), in)
	}
}

func TestLoad(t *testing.T) {
	assert.Equal(t, NewBase().Up.Keys(), Load(nil).Up.Keys())

	cfg, err := config.LoadFromBytes([]byte("keybindings:\n  refresh: [\"R\"]\n  search: [\"f\"]\n"))
	require.NoError(t, err)
	km := Load(cfg)
	assert.Equal(t, []string{"R"}, km.Refresh.Keys())
	assert.Equal(t, []string{"f"}, km.Search.Keys())
	assert.Equal(t, NewBase().Down.Keys(), km.Down.Keys())
}
