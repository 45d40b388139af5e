package storedb

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/shopcache/schema"
)

const actionColumns = "id, action_type, product_id, payload, created_at, synced"

// RecordAction inserts a pending action. The caller assigns the composite
// identity (type, product, creation time); writing the same ID twice keeps
// the first record.
func (s *Store) RecordAction(ctx context.Context, action schema.PendingAction) error {
	if s.disabled() {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		pendingActionsTable, actionColumns, s.placeholders(1, 6))
	if s.backend == schema.MySQLBackend {
		query = fmt.Sprintf(`INSERT IGNORE INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)`,
			pendingActionsTable, actionColumns)
	} else {
		query += ` ON CONFLICT (id) DO NOTHING`
	}

	ts := action.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	if _, err := s.db.ExecContext(ctx, query,
		action.ID, string(action.Type), action.ProductID, []byte(action.Payload),
		ts.UnixMilli(), action.Synced); err != nil {
		return storageErr("record action", err)
	}
	return nil
}

// UnsyncedActions returns every action with synced=false ordered by
// creation time, so a sync pass replays them in causal order.
func (s *Store) UnsyncedActions(ctx context.Context) ([]schema.PendingAction, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE synced = %s ORDER BY created_at, id`,
		actionColumns, pendingActionsTable, s.placeholders(1, 1))
	return s.queryActions(ctx, query, false)
}

// ActionsByType returns actions of one type ordered by creation time,
// synced or not.
func (s *Store) ActionsByType(ctx context.Context, t schema.ActionType) ([]schema.PendingAction, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE action_type = %s ORDER BY created_at, id`,
		actionColumns, pendingActionsTable, s.placeholders(1, 1))
	return s.queryActions(ctx, query, string(t))
}

// MarkActionSynced flips the synced flag. Calling it twice, or on a missing
// ID, is a no-op.
func (s *Store) MarkActionSynced(ctx context.Context, id string) error {
	if s.disabled() {
		return nil
	}

	var query string
	if s.backend == schema.PostgreSQLBackend {
		query = fmt.Sprintf(`UPDATE %s SET synced = TRUE WHERE id = $1`, pendingActionsTable)
	} else {
		query = fmt.Sprintf(`UPDATE %s SET synced = 1 WHERE id = ?`, pendingActionsTable)
	}
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return storageErr("mark action synced", err)
	}
	return nil
}

// DeleteActions removes actions by ID. Absent keys are no-ops.
func (s *Store) DeleteActions(ctx context.Context, ids []string) error {
	if s.disabled() || len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id IN (%s)`, pendingActionsTable, s.placeholders(1, len(ids)))
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storageErr("delete actions", err)
	}
	return nil
}

// DeleteSyncedActions removes synced actions created before the cutoff and
// returns how many were deleted. Unsynced actions are never touched: age
// alone must not lose an unconfirmed user action.
func (s *Store) DeleteSyncedActions(ctx context.Context, olderThan time.Time) (int64, error) {
	if s.disabled() {
		return 0, nil
	}

	var query string
	if s.backend == schema.PostgreSQLBackend {
		query = fmt.Sprintf(`DELETE FROM %s WHERE synced = TRUE AND created_at <= $1`, pendingActionsTable)
	} else {
		query = fmt.Sprintf(`DELETE FROM %s WHERE synced = 1 AND created_at <= ?`, pendingActionsTable)
	}
	res, err := s.db.ExecContext(ctx, query, olderThan.UnixMilli())
	if err != nil {
		return 0, storageErr("delete synced actions", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// queryActions runs an action SELECT and scans all rows.
func (s *Store) queryActions(ctx context.Context, query string, args ...any) ([]schema.PendingAction, error) {
	if s.disabled() {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query actions", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PendingAction
	for rows.Next() {
		var a schema.PendingAction
		var actionType string
		var payload []byte
		var createdAt int64
		if err := rows.Scan(&a.ID, &actionType, &a.ProductID, &payload, &createdAt, &a.Synced); err != nil {
			return nil, storageErr("scan action", err)
		}
		a.Type = schema.ActionType(actionType)
		a.Payload = payload
		a.Timestamp = time.UnixMilli(createdAt)
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate actions", err)
	}
	return results, nil
}
