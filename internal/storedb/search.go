package storedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/shopcache/schema"
)

const searchColumns = "query, product_ids, filters, created_at"

// NormalizeQuery lowers and trims a search query so lookups and writes
// agree on the cache key.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// PutSearchEntry upserts a search cache entry under the normalized query,
// stamping Timestamp at write time.
func (s *Store) PutSearchEntry(ctx context.Context, entry schema.SearchCacheEntry) error {
	if s.disabled() {
		return nil
	}

	ids, err := json.Marshal(entry.ProductIDs)
	if err != nil {
		return fmt.Errorf("failed to encode product ids for query %q: %w", entry.Query, err)
	}

	if _, err := s.db.ExecContext(ctx, s.searchUpsertQuery(),
		NormalizeQuery(entry.Query), string(ids), entry.Filters, time.Now().UnixMilli()); err != nil {
		return storageErr("put search entry", err)
	}
	return nil
}

// searchUpsertQuery returns the UPSERT statement for the backend.
func (s *Store) searchUpsertQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE product_ids = new.product_ids, filters = new.filters, created_at = new.created_at`,
			searchCacheTable, searchColumns)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4)
			ON CONFLICT (query) DO UPDATE SET product_ids = EXCLUDED.product_ids,
			filters = EXCLUDED.filters, created_at = EXCLUDED.created_at`,
			searchCacheTable, searchColumns)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (?, ?, ?, ?)`,
			searchCacheTable, searchColumns)
	}
}

// GetSearchEntry retrieves a search cache entry by normalized query.
// A missing key is (nil, nil). Freshness is the caller's concern: stale
// entries are still returned here and only filtered by the reader.
func (s *Store) GetSearchEntry(ctx context.Context, query string) (*schema.SearchCacheEntry, error) {
	if s.disabled() {
		return nil, nil
	}

	stmt := fmt.Sprintf(`SELECT %s FROM %s WHERE query = %s`, searchColumns, searchCacheTable, s.placeholders(1, 1))
	row := s.db.QueryRowContext(ctx, stmt, NormalizeQuery(query))

	var entry schema.SearchCacheEntry
	var ids string
	var createdAt int64
	err := row.Scan(&entry.Query, &ids, &entry.Filters, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get search entry", err)
	}
	if err := json.Unmarshal([]byte(ids), &entry.ProductIDs); err != nil {
		return nil, fmt.Errorf("failed to decode product ids for query %q: %w", entry.Query, err)
	}
	entry.Timestamp = time.UnixMilli(createdAt)
	return &entry, nil
}
