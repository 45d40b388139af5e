package core

import (
	"context"
	"time"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/schema"
)

// Evictor bounds storage growth. It runs independently of the reader and
// queue against the same store, relying on the store's per-collection
// transaction boundaries for isolation.
type Evictor struct {
	store  contract.Store
	maxAge time.Duration
}

// NewEvictor returns an Evictor with the given age cutoff. A zero cutoff
// expires everything; defaulting absent configuration to the 7-day window
// is the config layer's job, not this one's.
func NewEvictor(store contract.Store, maxAge time.Duration) *Evictor {
	return &Evictor{store: store, maxAge: maxAge}
}

// ClearExpired purges products, search entries and images older than the
// cutoff, plus synced actions past the same retention window. Unsynced
// actions always survive regardless of age.
func (e *Evictor) ClearExpired(ctx context.Context) (schema.EvictionResult, error) {
	result, err := e.store.ClearExpired(ctx, e.maxAge)
	if err != nil {
		return result, err
	}

	synced, err := e.store.DeleteSyncedActions(ctx, time.Now().Add(-e.maxAge))
	if err != nil {
		return result, err
	}
	result.SyncedActions = synced
	return result, nil
}

// ClearAll wipes every cache collection except pending actions.
func (e *Evictor) ClearAll(ctx context.Context) error {
	return e.store.ClearAll(ctx)
}

// Usage reports used/quota/available bytes, degrading to zeros when the
// backend cannot estimate its size.
func (e *Evictor) Usage(ctx context.Context) (schema.StorageUsage, error) {
	return e.store.Usage(ctx)
}
