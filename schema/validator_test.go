package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBytes(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.ValidateBytes([]byte(`{"projectTypes":["angular","vue"],"tmplPath":"templates"}`)))
	})

	t.Run("empty object", func(t *testing.T) {
		assert.NoError(t, v.ValidateBytes([]byte(`{}`)))
	})

	t.Run("wrong type", func(t *testing.T) {
		err := v.ValidateBytes([]byte(`{"projectTypes":"angular"}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.NotEmpty(t, verr.Issues)
		assert.Equal(t, "/projectTypes", verr.Issues[0].Path)
		assert.Contains(t, err.Error(), "/projectTypes")
	})

	t.Run("empty type name", func(t *testing.T) {
		err := v.ValidateBytes([]byte(`{"projectTypes":["vue",""]}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "/projectTypes/1", verr.Issues[0].Path)
	})

	t.Run("duplicate types", func(t *testing.T) {
		assert.Error(t, v.ValidateBytes([]byte(`{"projectTypes":["vue","vue"]}`)))
	})

	t.Run("not json", func(t *testing.T) {
		err := v.ValidateBytes([]byte(`{`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")
	})
}

func TestValidateStruct(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	cfg := struct {
		ProjectTypes []string `json:"projectTypes"`
	}{ProjectTypes: []string{"react"}}
	assert.NoError(t, v.Validate(cfg))
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, "expected array", Issue{Message: "expected array"}.String())
	assert.Equal(t, "/tmplPath: expected string", Issue{Path: "/tmplPath", Message: "expected string"}.String())
}
