package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewStore(NewFileStorage(path))

	require.False(t, store.Authenticated())
	require.Empty(t, store.Token())

	require.NoError(t, store.SetToken("abc123"))
	require.True(t, store.Authenticated())
	require.Equal(t, "abc123", store.Token())

	// A fresh store reading the same file sees the token.
	again := NewStore(NewFileStorage(path))
	require.Equal(t, "abc123", again.Token())

	require.NoError(t, store.Clear())
	require.False(t, store.Authenticated())

	// Clearing an already absent token is not an error.
	require.NoError(t, store.Clear())
}

func TestMemoryStorage(t *testing.T) {
	store := NewStore(&MemoryStorage{})
	require.NoError(t, store.SetToken("tok"))
	require.Equal(t, "tok", store.Token())
	require.NoError(t, store.Clear())
	require.Empty(t, store.Token())
}
