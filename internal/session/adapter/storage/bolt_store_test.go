package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BoltTokenStore {
	t.Helper()
	store, err := OpenBolt(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltTokenStore_EmptyByDefault(t *testing.T) {
	store := openTestStore(t)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestBoltTokenStore_SaveAndLoad(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save("T1"))
	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "T1", token)

	require.NoError(t, store.Save("T2"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "T2", token)
}

func TestBoltTokenStore_Clear(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save("T1"))
	require.NoError(t, store.Clear())

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "", token)

	// clearing twice is fine
	assert.NoError(t, store.Clear())
}

func TestBoltTokenStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("T-persist"))
	require.NoError(t, store.Close())

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	defer reopened.Close()

	token, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, "T-persist", token)
}

func TestMemoryTokenStore(t *testing.T) {
	store := &MemoryTokenStore{}

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "", token)

	require.NoError(t, store.Save("T1"))
	token, _ = store.Load()
	assert.Equal(t, "T1", token)

	require.NoError(t, store.Clear())
	token, _ = store.Load()
	assert.Equal(t, "", token)
}
