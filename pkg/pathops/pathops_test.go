package pathops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/scaffolder/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0644))

	st, err := Stat(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, File, st.Kind)
	assert.Equal(t, int64(5), st.Size)

	st, err = Stat(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, Directory, st.Kind)

	_, err = Stat(ctx, filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestReadDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0644))

	entries, err := ReadDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []DirEntry{
		{Name: "a.txt", Kind: File},
		{Name: "b.txt", Kind: File},
		{Name: "sub", Kind: Directory},
	}, entries)

	_, err = ReadDir(ctx, filepath.Join(dir, "a.txt"))
	assert.Error(t, err)
	assert.NotEmpty(t, errors.GetCode(err))
}

func TestReadWriteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.bin")
	payload := []byte{0, 1, 2, 'x'}

	require.NoError(t, WriteFile(ctx, path, payload))
	got, err := ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = ReadFile(ctx, filepath.Dir(path))
	assert.True(t, errors.Is(err, errors.ErrCodeIsADirectory))
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	ok, err := Exists(ctx, dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(ctx, filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, ExistsSync(dir))
	assert.False(t, ExistsSync(filepath.Join(dir, "nope")))
}

func TestMkdirAndRemove(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c")

	require.NoError(t, MkdirAll(ctx, deep))
	assert.DirExists(t, deep)

	err := Mkdir(ctx, deep)
	assert.True(t, errors.Is(err, errors.ErrCodeAlreadyExists))

	err = Unlink(ctx, filepath.Join(root, "a"))
	assert.Error(t, err, "unlink must refuse a non-empty directory")
	assert.DirExists(t, deep)

	require.NoError(t, RemoveAll(ctx, filepath.Join(root, "a")))
	assert.NoDirExists(t, filepath.Join(root, "a"))

	err = Unlink(ctx, filepath.Join(root, "a"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	from := filepath.Join(dir, "from.txt")
	to := filepath.Join(dir, "to.txt")
	require.NoError(t, os.WriteFile(from, []byte("x"), 0644))

	require.NoError(t, Rename(ctx, from, to))
	assert.NoFileExists(t, from)
	assert.FileExists(t, to)

	err := Rename(ctx, from, to)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestListSubdirectories(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, d := range []string{"vue-basic", "vue-admin"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, d), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0644))

	dirs, err := ListSubdirectories(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"vue-admin", "vue-basic"}, dirs)

	_, err = ListSubdirectories(ctx, filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Stat(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil, "/x"))

	err := Normalize(os.ErrNotExist, "/x")
	assert.Equal(t, errors.ErrCodeNotFound, errors.GetCode(err))

	err = Normalize(os.ErrExist, "/x")
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.GetCode(err))

	err = Normalize(os.ErrPermission, "/x")
	assert.Equal(t, errors.ErrCodePermissionDenied, errors.GetCode(err))

	err = Normalize(fmt.Errorf("disk on fire"), "/x")
	assert.Equal(t, errors.ErrCodeUnknown, errors.GetCode(err))

	already := errors.FileExists("/y")
	assert.Same(t, already, Normalize(already, "/x"))
}

func TestSameFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0644))

	assert.True(t, SameFile(a, filepath.Join(dir, ".", "a.txt")))
	assert.False(t, SameFile(a, filepath.Join(dir, "b.txt")))
	assert.False(t, SameFile(a, filepath.Join(dir, "missing")))
}
