package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	messages []string
}

func (r *recorder) ShowError(msg string) {
	r.messages = append(r.messages, msg)
}

func TestVerify(t *testing.T) {
	valid := ProjectConfig{Name: "demo", StoragePath: "/tmp", ProjectType: "react"}

	tests := []struct {
		name string
		cfg  *ProjectConfig
		want string
	}{
		{"nil config", nil, MsgConfigEmpty},
		{"empty config", &ProjectConfig{}, MsgConfigEmpty},
		{"missing name", &ProjectConfig{StoragePath: "/tmp", ProjectType: "react"}, MsgNameEmpty},
		{"missing storage path", &ProjectConfig{Name: "demo", ProjectType: "react"}, MsgStoragePathEmpty},
		{"missing project type", &ProjectConfig{Name: "demo", StoragePath: "/tmp"}, MsgProjectTypeEmpty},
		{"blank name", &ProjectConfig{Name: "  ", StoragePath: "/tmp", ProjectType: "react"}, MsgNameEmpty},
		{"only description", &ProjectConfig{Description: "x"}, MsgNameEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			assert.False(t, Verify(tt.cfg, r))
			assert.Equal(t, []string{tt.want}, r.messages)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		r := &recorder{}
		assert.True(t, Verify(&valid, r))
		assert.Empty(t, r.messages)
	})

	t.Run("other fields are irrelevant", func(t *testing.T) {
		r := &recorder{}
		cfg := valid
		cfg.Version = "not-a-version"
		cfg.Template = "basic"
		assert.True(t, Verify(&cfg, r))
	})

	t.Run("first rule wins", func(t *testing.T) {
		r := &recorder{}
		assert.False(t, Verify(&ProjectConfig{Version: "1.0.0"}, r))
		assert.Equal(t, []string{MsgNameEmpty}, r.messages)
	})

	t.Run("nil notifier", func(t *testing.T) {
		assert.False(t, Verify(nil, nil))
	})
}
