package sessions

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessiond/internal/metadata"
)

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func writeTranscript(t *testing.T, home, projectID, sessionID string, mtime time.Time) string {
	t.Helper()
	dir := filepath.Join(home, ".claude", "projects", projectID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	p := filepath.Join(dir, sessionID+".jsonl")
	require.NoError(t, os.WriteFile(p, []byte(`{"type":"user"}`+"\n"), 0o644))
	require.NoError(t, os.Chtimes(p, mtime, mtime))
	return p
}

func TestListSortsAndMergesMeta(t *testing.T) {
	home := setHome(t)
	now := time.Now()
	writeTranscript(t, home, "p", "older", now.Add(-time.Hour))
	writeTranscript(t, home, "p", "newer", now)
	// non-transcript files are skipped
	require.NoError(t, os.WriteFile(filepath.Join(home, ".claude", "projects", "p", "notes.txt"), []byte("x"), 0o644))

	require.NoError(t, metadata.Update("claude", "p", "older", "important run", []string{"keep"}))

	got, err := List("claude", "p")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].SessionID)
	assert.Equal(t, "older", got[1].SessionID)
	assert.Equal(t, "important run", got[1].Alias)
	assert.Equal(t, []string{"keep"}, got[1].Tags)
	assert.Empty(t, got[0].Alias)
}

func TestListMissingProject(t *testing.T) {
	setHome(t)
	got, err := List("claude", "nope")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = List("martian", "p")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	home := setHome(t)
	p := writeTranscript(t, home, "p", "s1", time.Now())
	require.NoError(t, metadata.Update("claude", "p", "s1", "a", nil))

	require.NoError(t, Delete(p, "claude", "p", "s1"))
	assert.NoFileExists(t, p)
	_, ok := metadata.Load("claude", "p").Sessions["s1"]
	assert.False(t, ok, "metadata entry cleaned up")

	assert.Error(t, Delete(p, "claude", "p", "s1"), "deleting twice fails")
}
