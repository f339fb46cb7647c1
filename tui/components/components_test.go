package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestRenderBreadcrumb(t *testing.T) {
	assert.Empty(t, RenderBreadcrumb())
	out := RenderBreadcrumb("home", "proj", "src")
	assert.Contains(t, out, "home")
	assert.Contains(t, out, "src")
}

func TestRenderStatusBarWidth(t *testing.T) {
	out := RenderStatusBar("left", "right", 30)
	assert.Equal(t, 30, lipgloss.Width(out))
	assert.Contains(t, out, "left")
	assert.Contains(t, out, "right")

	narrow := RenderStatusBar("a long left side", "right", 10)
	assert.LessOrEqual(t, lipgloss.Width(narrow), 10)
}

func TestRenderMessage(t *testing.T) {
	assert.Contains(t, RenderMessage("error", "boom"), "boom")
	assert.Contains(t, RenderMessage("", "note"), "note")
	assert.Contains(t, RenderKeyValue("type", "angular"), "angular")
}
