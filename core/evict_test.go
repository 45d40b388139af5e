package core

import (
	"context"
	"testing"
	"time"

	"github.com/huangsam/shopcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvictor_MaxAgeHonored(t *testing.T) {
	store := newTestStore(t)

	// An explicit zero cutoff is kept as-is, not coerced to a default.
	evictor := NewEvictor(store, 0)
	assert.Equal(t, time.Duration(0), evictor.maxAge)

	evictor = NewEvictor(store, time.Hour)
	assert.Equal(t, time.Hour, evictor.maxAge)
}

func TestEvictor_ZeroMaxAgePurgesEverything(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.PutProducts(ctx, []schema.CachedProduct{
		{ID: "p1", Category: "electronics"},
		{ID: "p2", Category: "electronics"},
		{ID: "p3", Category: "electronics"},
	}))

	products, err := store.ProductsByCategory(ctx, "electronics")
	require.NoError(t, err)
	require.Len(t, products, 3)

	result, err := NewEvictor(store, 0).ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Products)

	products, err = store.ProductsByCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestEvictor_FreshEntriesSurvive(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.PutProducts(ctx, []schema.CachedProduct{
		{ID: "p1", Category: "electronics"},
		{ID: "p2", Category: "electronics"},
		{ID: "p3", Category: "electronics"},
	}))

	result, err := NewEvictor(store, schema.DefaultMaxAge).ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total())

	products, err := store.ProductsByCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestEvictor_ExpiredEntriesRemoved(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.PutProducts(ctx, []schema.CachedProduct{
		{ID: "p1", Category: "electronics"},
		{ID: "p2", Category: "electronics"},
		{ID: "p3", Category: "electronics"},
	}))
	require.NoError(t, store.PutSearchEntry(ctx, schema.SearchCacheEntry{Query: "mouse", ProductIDs: []string{"p1"}}))

	// A tiny cutoff makes every entry count as expired
	time.Sleep(10 * time.Millisecond)
	result, err := NewEvictor(store, time.Millisecond).ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Products)
	assert.Equal(t, int64(1), result.SearchEntries)

	products, err := store.ProductsByCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestEvictor_UnsyncedActionsSurviveAnyAge(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	old := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, store.RecordAction(ctx, schema.PendingAction{
		ID: "ancient", Type: schema.AddToCart, ProductID: "p1", Timestamp: old,
	}))
	require.NoError(t, store.RecordAction(ctx, schema.PendingAction{
		ID: "ancient-synced", Type: schema.AddToCart, ProductID: "p2", Timestamp: old, Synced: true,
	}))

	result, err := NewEvictor(store, schema.DefaultMaxAge).ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.SyncedActions, "old synced actions are garbage collected")

	unsynced, err := store.UnsyncedActions(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, "ancient", unsynced[0].ID, "age alone must never lose an unconfirmed action")
}

func TestEvictor_ClearAllKeepsActions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.PutProducts(ctx, []schema.CachedProduct{{ID: "p1"}}))
	require.NoError(t, store.RecordAction(ctx, schema.PendingAction{ID: "a1", Type: schema.AddToCart, ProductID: "p1"}))

	require.NoError(t, NewEvictor(store, 0).ClearAll(ctx))

	p, err := store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)

	unsynced, err := store.UnsyncedActions(ctx)
	require.NoError(t, err)
	assert.Len(t, unsynced, 1)
}

func TestEvictor_Usage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	usage, err := NewEvictor(store, 0).Usage(ctx)
	require.NoError(t, err)
	assert.Greater(t, usage.UsedBytes, int64(0))
}
