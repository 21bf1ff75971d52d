package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	// Empty dir reads as no session.
	token, ok := store.Load()
	assert.False(t, ok)
	assert.Empty(t, token)

	require.NoError(t, store.Save("tok-abc123"))

	// A fresh store over the same dir sees the session (restart scenario).
	again := NewStore(dir)
	token, ok = again.Load()
	assert.True(t, ok)
	assert.Equal(t, "tok-abc123", token)
}

func TestStoreFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Save("secret"))

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStoreClearIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	// Clearing an absent session is not an error.
	require.NoError(t, store.Clear())

	require.NoError(t, store.Save("tok"))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0600))
	token, ok := store.Load()
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestStoreSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	token, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, "second", token)
}
