package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/schema"
)

// Queue records user mutations that must eventually reach the server,
// without requiring an immediate round trip. Recording always succeeds
// locally while the store is available; a separate sync pass drains the
// queue in causal order once connectivity returns.
type Queue struct {
	store contract.Store

	// now is swappable so tests can force ID collisions and ordering.
	now func() time.Time
}

// ApplyFunc applies one pending action against the server. Implementations
// must be idempotent server-side: the queue favors at-most-once delivery of
// a consistent final state over exact replay.
type ApplyFunc func(ctx context.Context, action schema.PendingAction) error

// NewQueue returns a Queue over the given store.
func NewQueue(store contract.Store) *Queue {
	return &Queue{store: store, now: time.Now}
}

// Record durably stores a user action with synced=false. The identity
// combines action type, product ID and creation time so rapid repeated
// actions on the same product never collide.
func (q *Queue) Record(ctx context.Context, actionType schema.ActionType, productID string, payload any) (*schema.PendingAction, error) {
	if !schema.ValidActionType(actionType) {
		return nil, fmt.Errorf("unknown action type %q", actionType)
	}

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload for %s on %s: %w", actionType, productID, err)
		}
		raw = data
	}

	now := q.now()
	action := schema.PendingAction{
		ID:        fmt.Sprintf("%s_%s_%d", actionType, productID, now.UnixNano()),
		Type:      actionType,
		ProductID: productID,
		Payload:   raw,
		Timestamp: now,
		Synced:    false,
	}
	if err := q.store.RecordAction(ctx, action); err != nil {
		return nil, err
	}
	return &action, nil
}

// ListUnsynced returns all unsynced actions ordered by creation time, the
// order a sync pass must replay them in (an add-then-remove on the same
// product must reach the server as add then remove).
func (q *Queue) ListUnsynced(ctx context.Context) ([]schema.PendingAction, error) {
	return q.store.UnsyncedActions(ctx)
}

// MarkSynced flips an action to synced. Idempotent.
func (q *Queue) MarkSynced(ctx context.Context, id string) error {
	return q.store.MarkActionSynced(ctx, id)
}

// Drain applies unsynced actions in creation order. Each successful apply
// marks its action synced immediately, so a failure partway through leaves
// earlier actions marked and later ones queued for the next pass. There is
// no rollback. Fully synced actions are deleted at the end of the pass.
func (q *Queue) Drain(ctx context.Context, apply ApplyFunc) (schema.DrainResult, error) {
	var result schema.DrainResult

	actions, err := q.store.UnsyncedActions(ctx)
	if err != nil {
		return result, err
	}

	var syncedIDs []string
	var applyErr error
	for _, action := range actions {
		if err := apply(ctx, action); err != nil {
			result.Failed = 1
			applyErr = fmt.Errorf("apply %s: %w", action.ID, err)
			break
		}
		if err := q.store.MarkActionSynced(ctx, action.ID); err != nil {
			// The action reached the server but the local flag write
			// failed; stop so the next pass re-reads queue state.
			applyErr = err
			break
		}
		result.Applied++
		syncedIDs = append(syncedIDs, action.ID)
	}

	if len(syncedIDs) > 0 {
		if err := q.store.DeleteActions(ctx, syncedIDs); err == nil {
			result.Deleted = len(syncedIDs)
		}
	}

	return result, applyErr
}
