package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTempHistory(t *testing.T) *History {
	t.Helper()
	h := &History{
		index: -1,
		path:  filepath.Join(t.TempDir(), "history"),
	}
	return h
}

func TestNavigationRoundTrip(t *testing.T) {
	h := newTempHistory(t)
	h.Add("first")
	h.Add("second")

	entry, ok := h.Previous("draft")
	require.True(t, ok)
	require.Equal(t, "second", entry)

	entry, ok = h.Previous("")
	require.True(t, ok)
	require.Equal(t, "first", entry)

	// Stepping past the oldest entry stays there.
	entry, ok = h.Previous("")
	require.False(t, ok)
	require.Equal(t, "first", entry)

	entry, ok = h.Next()
	require.True(t, ok)
	require.Equal(t, "second", entry)

	// Stepping past the newest restores the stashed draft.
	entry, ok = h.Next()
	require.True(t, ok)
	require.Equal(t, "draft", entry)
}

func TestAddSkipsEmptyAndRepeatedEntries(t *testing.T) {
	h := newTempHistory(t)
	h.Add("   ")
	h.Add("hello")
	h.Add("hello")
	require.Equal(t, []string{"hello"}, h.entries)
}

func TestPersistenceEscapesNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	h := &History{index: -1, path: path}
	h.Add("line one\nline two")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw)[:len(string(raw))-1], "\nline two")

	reloaded := &History{index: -1, path: path}
	reloaded.load()
	require.Equal(t, []string{"line one\nline two"}, reloaded.entries)
}
