package storedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/huangsam/shopcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens an in-memory SQLite store for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(schema.SQLiteBackend, ":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_NoneBackend(t *testing.T) {
	ctx := context.Background()

	store, err := Open(schema.NoneBackend, "", 0)
	require.NoError(t, err)
	require.NotNil(t, store)

	// Writes are no-ops
	err = store.PutProducts(ctx, []schema.CachedProduct{{ID: "p1"}})
	assert.NoError(t, err)

	// Reads always miss
	p, err := store.GetProduct(ctx, "p1")
	assert.NoError(t, err)
	assert.Nil(t, p)

	// Status reports the degraded state
	status, err := store.Status(ctx)
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, string(schema.NoneBackend), status.Backend)

	err = store.Close()
	assert.NoError(t, err)
}

func TestOpen_UnsupportedBackend(t *testing.T) {
	_, err := Open(schema.DatabaseBackend("oracle"), "", 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store backend")
}

func TestOpen_SQLiteFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shopcache_test.db")

	store, err := Open(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs migrations again; they must be idempotent.
	store, err = Open(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, store.Backend())
	require.NoError(t, store.Close())
}

func TestPlaceholders(t *testing.T) {
	sqliteStore := &Store{backend: schema.SQLiteBackend}
	assert.Equal(t, "?, ?, ?", sqliteStore.placeholders(1, 3))

	pgStore := &Store{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "$1, $2", pgStore.placeholders(1, 2))
	assert.Equal(t, "$3, $4", pgStore.placeholders(3, 2))
}

func TestWithMultiStatements(t *testing.T) {
	assert.Equal(t, "user:pass@tcp(db:3306)/shop?multiStatements=true",
		withMultiStatements("user:pass@tcp(db:3306)/shop"))
	assert.Equal(t, "user:pass@tcp(db:3306)/shop?parseTime=true&multiStatements=true",
		withMultiStatements("user:pass@tcp(db:3306)/shop?parseTime=true"))
	assert.Equal(t, "user:pass@tcp(db:3306)/shop?multiStatements=true",
		withMultiStatements("user:pass@tcp(db:3306)/shop?multiStatements=true"))
}
