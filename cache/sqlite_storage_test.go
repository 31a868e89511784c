package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteStorage(t *testing.T, quota int64) *SQLiteStorage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.db")
	storage, err := NewSQLiteStorage(path, quota)
	require.NoError(t, err)

	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestSQLiteStorage_BasicOperations(t *testing.T) {
	storage := setupSQLiteStorage(t, 0)

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, storage.Set("semsearch_search:abc", `{"v":1}`))

		value, found, err := storage.Get("semsearch_search:abc")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"v":1}`, value)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, storage.Set("semsearch_search:abc", `{"v":2}`))

		value, _, err := storage.Get("semsearch_search:abc")
		require.NoError(t, err)
		assert.Equal(t, `{"v":2}`, value)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, found, err := storage.Get("semsearch_search:missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, storage.Set("semsearch_search:gone", "x"))
		require.NoError(t, storage.Delete("semsearch_search:gone"))

		_, found, err := storage.Get("semsearch_search:gone")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("KeysFiltersByPrefix", func(t *testing.T) {
		require.NoError(t, storage.Set("semsearch_products:1", "a"))
		require.NoError(t, storage.Set("other:1", "b"))

		keys, err := storage.Keys("semsearch_")
		require.NoError(t, err)
		assert.Contains(t, keys, "semsearch_products:1")
		assert.NotContains(t, keys, "other:1")
	})
}

func TestSQLiteStorage_Quota(t *testing.T) {
	storage := setupSQLiteStorage(t, 30)

	require.NoError(t, storage.Set("k1", "0123456789"))

	err := storage.Set("k2", "012345678901234567890123456789")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Replacing the existing key stays within quota.
	assert.NoError(t, storage.Set("k1", "01234567890123456789"))
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	first, err := NewSQLiteStorage(path, 0)
	require.NoError(t, err)
	require.NoError(t, first.Set("semsearch_categories", `["dresses"]`))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(path, 0)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	value, found, err := second.Get("semsearch_categories")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["dresses"]`, value)
}
