package playground

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "main.frag")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("a"), 0o644))

	w, err := NewWatcher(nil)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch([]string{watched}))
	assert.False(t, w.Changed())

	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, w.Changed(), "unwatched files are ignored")

	require.NoError(t, os.WriteFile(watched, []byte("c"), 0o644))
	require.Eventually(t, w.Changed, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherSeesRenameSave(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "render.conf")
	require.NoError(t, os.WriteFile(watched, []byte("a"), 0o644))

	w, err := NewWatcher(nil)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch([]string{watched}))

	tmp := filepath.Join(dir, ".render.conf.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("b"), 0o644))
	require.NoError(t, os.Rename(tmp, watched))
	require.Eventually(t, w.Changed, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherReplacesFileSet(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.frag")
	b := filepath.Join(dir, "b.frag")

	w, err := NewWatcher(nil)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch([]string{a}))
	require.NoError(t, w.Watch([]string{b}))

	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, w.Changed())

	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))
	require.Eventually(t, w.Changed, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherMissingDirectory(t *testing.T) {
	w, err := NewWatcher(nil)
	require.NoError(t, err)
	defer w.Close()
	err = w.Watch([]string{filepath.Join(t.TempDir(), "missing", "main.frag")})
	assert.Error(t, err)
}
