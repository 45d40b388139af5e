package core

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/shopcache/internal/storedb"
	"github.com/huangsam/shopcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_Record(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	queue := NewQueue(store)
	action, err := queue.Record(ctx, schema.AddToCart, "p1", map[string]int{"quantity": 2})
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Contains(t, action.ID, "add_to_cart_p1_")
	assert.False(t, action.Synced)
	assert.JSONEq(t, `{"quantity":2}`, string(action.Payload))

	unsynced, err := queue.ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, action.ID, unsynced[0].ID)
}

func TestQueue_RecordUnknownType(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	queue := NewQueue(store)
	_, err := queue.Record(ctx, schema.ActionType("teleport"), "p1", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action type")
}

func TestQueue_RapidActionsNeverCollide(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	queue := NewQueue(store)
	a1, err := queue.Record(ctx, schema.AddToWishlist, "p1", nil)
	require.NoError(t, err)
	a2, err := queue.Record(ctx, schema.AddToWishlist, "p1", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a1.ID, a2.ID)

	unsynced, err := queue.ListUnsynced(ctx)
	require.NoError(t, err)
	assert.Len(t, unsynced, 2)
}

func TestQueue_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "queue_test.db")

	store, err := storedb.Open(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)

	queue := NewQueue(store)
	recorded, err := queue.Record(ctx, schema.AddToCart, "p1", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// A crash or restart must not lose the queued action
	store, err = storedb.Open(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	unsynced, err := NewQueue(store).ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, recorded.ID, unsynced[0].ID)
}

func TestQueue_DrainInCreationOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	queue := NewQueue(store)
	base := time.Now().Add(-time.Minute)
	step := 0
	queue.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	// Add then remove on the same product; the server must see that order
	_, err := queue.Record(ctx, schema.AddToCart, "p1", nil)
	require.NoError(t, err)
	_, err = queue.Record(ctx, schema.RemoveFromCart, "p1", nil)
	require.NoError(t, err)

	var applied []schema.ActionType
	result, err := queue.Drain(ctx, func(_ context.Context, action schema.PendingAction) error {
		applied = append(applied, action.Type)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, []schema.ActionType{schema.AddToCart, schema.RemoveFromCart}, applied)

	// The fully synced pass leaves nothing behind
	unsynced, err := queue.ListUnsynced(ctx)
	require.NoError(t, err)
	assert.Empty(t, unsynced)
}

func TestQueue_DrainStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	queue := NewQueue(store)
	base := time.Now().Add(-time.Minute)
	step := 0
	queue.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	_, err := queue.Record(ctx, schema.AddToCart, "p1", nil)
	require.NoError(t, err)
	a2, err := queue.Record(ctx, schema.AddToCart, "p2", nil)
	require.NoError(t, err)
	a3, err := queue.Record(ctx, schema.AddToCart, "p3", nil)
	require.NoError(t, err)

	calls := 0
	result, err := queue.Drain(ctx, func(_ context.Context, action schema.PendingAction) error {
		calls++
		if action.ProductID == "p2" {
			return fmt.Errorf("server rejected it")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, calls, "the pass stops at the first failure")

	// The failed action and everything after it stay queued
	unsynced, err := queue.ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 2)
	assert.Equal(t, a2.ID, unsynced[0].ID)
	assert.Equal(t, a3.ID, unsynced[1].ID)
}

func TestQueue_MarkSyncedIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	queue := NewQueue(store)
	action, err := queue.Record(ctx, schema.ViewProduct, "p1", nil)
	require.NoError(t, err)

	require.NoError(t, queue.MarkSynced(ctx, action.ID))
	require.NoError(t, queue.MarkSynced(ctx, action.ID))

	unsynced, err := queue.ListUnsynced(ctx)
	require.NoError(t, err)
	assert.Empty(t, unsynced)
}
