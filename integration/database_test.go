//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/huangsam/shopcache/internal/storedb"
	"github.com/huangsam/shopcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestShopcacheWithMySQL tests the store and CLI with a MySQL backend.
func TestShopcacheWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "shopcache",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/shopcache?parseTime=true", host, port.Port())

	exerciseStore(t, schema.MySQLBackend, connStr)
	exerciseCLI(t, "mysql", connStr)
}

// TestShopcacheWithPostgres tests the store and CLI with a PostgreSQL backend.
func TestShopcacheWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	exerciseStore(t, schema.PostgreSQLBackend, connStr)
	exerciseCLI(t, "postgresql", connStr)
}

// exerciseStore runs the core store operations against a live backend.
func exerciseStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	ctx := context.Background()

	store, err := storedb.Open(backend, connStr, 0)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// Product round trip through the backend-specific upsert
	products := []schema.CachedProduct{
		{ID: "p1", Name: "Keyboard", Price: 89.99, Category: "electronics", Images: []string{"https://img.example.com/p1.jpg"}, InStock: true},
		{ID: "p2", Name: "Mouse", Price: 24.99, Category: "electronics"},
	}
	require.NoError(t, store.PutProducts(ctx, products))
	require.NoError(t, store.PutProducts(ctx, products)) // idempotent upsert

	got, err := store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Keyboard", got.Name)

	byCategory, err := store.ProductsByCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	// Search cache round trip
	require.NoError(t, store.PutSearchEntry(ctx, schema.SearchCacheEntry{Query: "Keyboard", ProductIDs: []string{"p1"}}))
	entry, err := store.GetSearchEntry(ctx, "keyboard")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []string{"p1"}, entry.ProductIDs)

	// Pending action round trip
	require.NoError(t, store.RecordAction(ctx, schema.PendingAction{ID: "a1", Type: schema.AddToCart, ProductID: "p1"}))
	unsynced, err := store.UnsyncedActions(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	require.NoError(t, store.MarkActionSynced(ctx, "a1"))

	// Usage must report real bytes on server backends
	usage, err := store.Usage(ctx)
	require.NoError(t, err)
	assert.Greater(t, usage.UsedBytes, int64(0))

	status, err := store.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)

	// Reset for the CLI pass
	require.NoError(t, store.ClearAll(ctx))
	require.NoError(t, store.DeleteActions(ctx, []string{"a1"}))
}

// exerciseCLI runs shopcache commands against a live backend.
func exerciseCLI(t *testing.T, backend, connStr string) {
	// Set environment variables
	_ = os.Setenv("SHOPCACHE_CACHE_BACKEND", backend)
	_ = os.Setenv("SHOPCACHE_CACHE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("SHOPCACHE_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("SHOPCACHE_CACHE_DB_CONNECT") }()

	// Run shopcache cache status
	err := runShopcacheCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run shopcache cache evict
	err = runShopcacheCommand(t, "cache", "evict")
	require.NoError(t, err)

	// Run shopcache cache clear
	err = runShopcacheCommand(t, "cache", "clear")
	require.NoError(t, err)
}

func runShopcacheCommand(t *testing.T, args ...string) error {
	binaryPath := getShopcacheBinary()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
