package profiling

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledRecorderIsNoop(t *testing.T) {
	r := &Recorder{}
	r.Start("x").Stop()
	var buf bytes.Buffer
	r.Summarize(&buf)
	assert.Empty(t, buf.String())
}

func TestSpansNest(t *testing.T) {
	r := &Recorder{}
	r.Enable()
	outer := r.Start("create")
	r.Start("copy").Stop()
	r.Start("manifest").Stop()
	outer.Stop()
	r.Start("after").Stop()

	var buf bytes.Buffer
	r.Summarize(&buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "  create "))
	assert.True(t, strings.HasPrefix(lines[2], "    copy "))
	assert.True(t, strings.HasPrefix(lines[3], "    manifest "))
	assert.True(t, strings.HasPrefix(lines[4], "  after "))
}

func TestCobraProfilerWritesHeapProfile(t *testing.T) {
	memPath := filepath.Join(t.TempDir(), "heap.out")
	p := NewCobraProfiler()
	cmd := &cobra.Command{Use: "x", Run: func(*cobra.Command, []string) {}}
	p.AddFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--mem-profile", memPath}))

	var buf bytes.Buffer
	cmd.SetErr(&buf)
	require.NoError(t, p.PreRun(cmd, nil))
	p.PostRun(cmd, nil)

	info, err := os.Stat(memPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
	assert.Contains(t, buf.String(), "Heap profile written")
}
