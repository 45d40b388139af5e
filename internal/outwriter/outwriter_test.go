package outwriter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStoreStatus(t *testing.T) {
	now := time.Now()
	status := schema.StoreStatus{
		Backend:   string(schema.SQLiteBackend),
		Connected: true,
		Collections: map[schema.Collection]schema.CollectionStatus{
			schema.Products:       {Entries: 3, NewestEntry: now, OldestEntry: now.Add(-time.Hour)},
			schema.Categories:     {Entries: 2, NewestEntry: now, OldestEntry: now},
			schema.PendingActions: {Entries: 1, NewestEntry: now, OldestEntry: now},
			schema.SearchCache:    {},
			schema.ImageCache:     {},
		},
		Unsynced: 1,
		Usage:    schema.StorageUsage{UsedBytes: 4096, QuotaBytes: 1024 * 1024, AvailableBytes: 1024*1024 - 4096},
	}
	cfg := &contract.Config{MaxAge: schema.DefaultMaxAge, UseColors: false}

	var buf bytes.Buffer
	require.NoError(t, WriteStoreStatus(status, cfg, &buf))

	output := buf.String()
	assert.Contains(t, output, "Cache Backend: sqlite")
	assert.Contains(t, output, "Connected: true")
	assert.Contains(t, output, "products")
	assert.Contains(t, output, "pending_actions")
	assert.Contains(t, output, "Unsynced actions: 1")
	assert.Contains(t, output, "4096 bytes used")
	assert.Contains(t, output, contract.FreshValue, "an hour-old product is fresh against a 7 day window")
}

func TestWriteStoreStatus_Disconnected(t *testing.T) {
	status := schema.StoreStatus{Backend: string(schema.NoneBackend), Connected: false}
	cfg := &contract.Config{}

	var buf bytes.Buffer
	require.NoError(t, WriteStoreStatus(status, cfg, &buf))

	output := buf.String()
	assert.Contains(t, output, "Connected: false")
	assert.NotContains(t, output, "Unsynced")
}

func TestWriteEvictionResult(t *testing.T) {
	result := schema.EvictionResult{Products: 3, SearchEntries: 1, Images: 2, SyncedActions: 4}

	var buf bytes.Buffer
	require.NoError(t, WriteEvictionResult(result, &buf))
	assert.Contains(t, buf.String(), "Evicted 10 entries")
	assert.Contains(t, buf.String(), "products: 3")
}

func TestCollectionLabel(t *testing.T) {
	now := time.Now()
	cfg := &contract.Config{MaxAge: schema.DefaultMaxAge, UseColors: false}

	// Pending actions are never graded
	label := collectionLabel(schema.PendingActions, schema.CollectionStatus{Entries: 5, OldestEntry: now.Add(-30 * 24 * time.Hour)}, now, cfg)
	assert.Equal(t, "-", label)

	// Empty collections are not graded either
	label = collectionLabel(schema.Products, schema.CollectionStatus{}, now, cfg)
	assert.Equal(t, "-", label)

	// Search entries grade against the TTL, not the eviction window
	label = collectionLabel(schema.SearchCache, schema.CollectionStatus{Entries: 1, OldestEntry: now.Add(-schema.SearchTTL * 3)}, now, cfg)
	assert.Equal(t, contract.ExpiredValue, label)

	// Products grade against the eviction window
	label = collectionLabel(schema.Products, schema.CollectionStatus{Entries: 1, OldestEntry: now.Add(-4 * 24 * time.Hour)}, now, cfg)
	assert.Equal(t, contract.AgingValue, label)
}

func TestGetMaxValueWidth(t *testing.T) {
	// Explicit override skips detection
	assert.Equal(t, 70, GetMaxValueWidth(200))
	assert.Equal(t, 15, GetMaxValueWidth(50))
	assert.Equal(t, 25, GetMaxValueWidth(80))
}

func TestTruncateValue(t *testing.T) {
	assert.Equal(t, "short", TruncateValue("short", 20))

	long := strings.Repeat("x", 30) + "tail"
	truncated := TruncateValue(long, 10)
	assert.Len(t, []rune(truncated), 10)
	assert.True(t, strings.HasPrefix(truncated, "..."))
	assert.True(t, strings.HasSuffix(truncated, "tail"))
}
