package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/grovetools/scaffolder/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "scaffolder.pid")

	require.NoError(t, Acquire(path, "127.0.0.1:7788"))

	rec, running, err := Running(path)
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), rec.PID)
	assert.Equal(t, "127.0.0.1:7788", rec.Addr)
	assert.False(t, rec.StartedAt.IsZero())

	// Re-acquiring from the same process succeeds.
	require.NoError(t, Acquire(path, "127.0.0.1:9999"))

	require.NoError(t, Release(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Releasing twice is fine.
	require.NoError(t, Release(path))
}

func TestAcquireHeldByLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaffolder.pid")
	// The parent of the test binary is alive for the duration of the test.
	content := []byte("pid: " + strconv.Itoa(os.Getppid()) + "\naddr: 127.0.0.1:1\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	err := Acquire(path, "127.0.0.1:7788")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeAlreadyExists))
}

func TestAcquireReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaffolder.pid")
	require.NoError(t, os.WriteFile(path, []byte("pid: -5\naddr: gone\n"), 0644))

	require.NoError(t, Acquire(path, "127.0.0.1:7788"))
	rec, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), rec.PID)
}

func TestRunningWithoutFile(t *testing.T) {
	_, running, err := Running(filepath.Join(t.TempDir(), "missing.pid"))
	require.NoError(t, err)
	assert.False(t, running)
}

func TestIsProcessAlive(t *testing.T) {
	assert.True(t, IsProcessAlive(os.Getpid()))
	assert.False(t, IsProcessAlive(0))
	assert.False(t, IsProcessAlive(-1))
}
