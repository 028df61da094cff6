package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finpulse/internal/store"
)

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "finpulse.json")
	fs, err := NewFileStore(path)
	require.NoError(t, err)

	seed := store.Seed()
	require.NoError(t, fs.Save(seed))

	loaded, ok, err := fs.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, seed, loaded)
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	_, ok, err := fs.Load()
	require.NoError(t, err)
	assert.False(t, ok, "a missing file means no persisted data, not an error")
}

func TestFileStore_LoadMalformedFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finpulse.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	fs, err := NewFileStore(path)
	require.NoError(t, err)

	_, ok, err := fs.Load()
	require.NoError(t, err, "malformed data is swallowed, never surfaced")
	assert.False(t, ok)

	// The malformed file is left in place for inspection.
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestFileStore_SaveReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finpulse.json")
	fs, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, fs.Save(store.Seed()))

	small := store.Snapshot{}
	require.NoError(t, fs.Save(small))

	loaded, ok, err := fs.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, loaded.Accounts)
	assert.Empty(t, loaded.UserName)

	// No temp file is left behind.
	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}
