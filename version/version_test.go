package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelease(t *testing.T) {
	assert.False(t, Info{Version: "dev"}.Release())
	assert.True(t, Info{Version: "v0.3.0"}.Release())
	assert.True(t, Info{Version: "1.2.3-rc.1"}.Release())
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), info.Platform)
}
