package storedb

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/shopcache/schema"
)

// timeColumn maps each collection to its write-time column.
var timeColumn = map[schema.Collection]string{
	schema.Products:       "last_updated",
	schema.Categories:     "last_updated",
	schema.PendingActions: "created_at",
	schema.SearchCache:    "created_at",
	schema.ImageCache:     "created_at",
}

// collectionTable maps each collection to its table name.
var collectionTable = map[schema.Collection]string{
	schema.Products:       productsTable,
	schema.Categories:     categoriesTable,
	schema.PendingActions: pendingActionsTable,
	schema.SearchCache:    searchCacheTable,
	schema.ImageCache:     imageCacheTable,
}

// ClearExpired deletes products, search entries and images written at or
// before now - maxAge, so a zero maxAge purges everything written so far.
// Categories are kept (they are tiny and refresh on every
// catalog fetch) and pending actions are deliberately exempt: age alone
// must never lose an unconfirmed user action.
func (s *Store) ClearExpired(ctx context.Context, maxAge time.Duration) (schema.EvictionResult, error) {
	var result schema.EvictionResult
	if s.disabled() {
		return result, nil
	}

	cutoff := time.Now().Add(-maxAge).UnixMilli()

	for _, target := range []struct {
		collection schema.Collection
		count      *int64
	}{
		{schema.Products, &result.Products},
		{schema.SearchCache, &result.SearchEntries},
		{schema.ImageCache, &result.Images},
	} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE %s <= %s`,
			collectionTable[target.collection], timeColumn[target.collection], s.placeholders(1, 1))
		res, err := s.db.ExecContext(ctx, query, cutoff)
		if err != nil {
			return result, storageErr("clear expired", err)
		}
		n, _ := res.RowsAffected()
		*target.count = n
	}

	return result, nil
}

// ClearAll wipes the product, category, search and image collections.
// Pending actions survive: a manual reset must not drop unsynced user
// mutations.
func (s *Store) ClearAll(ctx context.Context) error {
	if s.disabled() {
		return nil
	}

	for _, table := range []string{productsTable, categoriesTable, searchCacheTable, imageCacheTable} {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return storageErr("clear all", err)
		}
	}
	return nil
}

// Usage reports bytes used against the configured quota. Backends without a
// sizing facility degrade to zeros, never an error.
func (s *Store) Usage(ctx context.Context) (schema.StorageUsage, error) {
	usage := schema.StorageUsage{QuotaBytes: s.quotaBytes}
	if s.disabled() {
		return schema.StorageUsage{}, nil
	}

	switch s.backend {
	case schema.SQLiteBackend:
		row := s.db.QueryRowContext(ctx, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&usage.UsedBytes); err != nil {
			return schema.StorageUsage{}, nil
		}

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(withMultiStatements(s.connStr))
		if err != nil || cfg.DBName == "" {
			return schema.StorageUsage{}, nil
		}
		query := `SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables
			WHERE table_schema = ? AND table_name IN (?, ?, ?, ?, ?)`
		row := s.db.QueryRowContext(ctx, query, cfg.DBName,
			productsTable, categoriesTable, pendingActionsTable, searchCacheTable, imageCacheTable)
		if err := row.Scan(&usage.UsedBytes); err != nil {
			return schema.StorageUsage{}, nil
		}

	case schema.PostgreSQLBackend:
		query := `SELECT pg_total_relation_size($1) + pg_total_relation_size($2) + pg_total_relation_size($3)
			+ pg_total_relation_size($4) + pg_total_relation_size($5)`
		row := s.db.QueryRowContext(ctx, query,
			productsTable, categoriesTable, pendingActionsTable, searchCacheTable, imageCacheTable)
		if err := row.Scan(&usage.UsedBytes); err != nil {
			return schema.StorageUsage{}, nil
		}
	}

	if usage.QuotaBytes > usage.UsedBytes {
		usage.AvailableBytes = usage.QuotaBytes - usage.UsedBytes
	}
	return usage, nil
}

// Status returns per-collection statistics for status output.
func (s *Store) Status(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: !s.disabled(),
	}
	if s.disabled() {
		return status, nil
	}

	status.Collections = make(map[schema.Collection]schema.CollectionStatus, len(schema.AllCollections))
	for _, collection := range schema.AllCollections {
		table := collectionTable[collection]
		col := timeColumn[collection]

		var cs schema.CollectionStatus
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := s.db.QueryRowContext(ctx, countQuery).Scan(&cs.Entries); err != nil {
			return status, storageErr("collection count", err)
		}

		if cs.Entries > 0 {
			var newest, oldest int64
			rangeQuery := fmt.Sprintf("SELECT MAX(%s), MIN(%s) FROM %s", col, col, table)
			if err := s.db.QueryRowContext(ctx, rangeQuery).Scan(&newest, &oldest); err != nil {
				return status, storageErr("collection time range", err)
			}
			cs.NewestEntry = time.UnixMilli(newest)
			cs.OldestEntry = time.UnixMilli(oldest)
		}
		status.Collections[collection] = cs
	}

	var unsyncedQuery string
	if s.backend == schema.PostgreSQLBackend {
		unsyncedQuery = fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE synced = FALSE", pendingActionsTable)
	} else {
		unsyncedQuery = fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE synced = 0", pendingActionsTable)
	}
	if err := s.db.QueryRowContext(ctx, unsyncedQuery).Scan(&status.Unsynced); err != nil {
		return status, storageErr("unsynced count", err)
	}

	usage, err := s.Usage(ctx)
	if err != nil {
		return status, err
	}
	status.Usage = usage

	return status, nil
}

// Drop removes the physical storage behind the store: the database file for
// SQLite, the five tables for SQL backends. Intended for `cache clear
// --drop`; the handle must not be used afterwards.
func (s *Store) Drop(ctx context.Context) error {
	if s.disabled() {
		return nil
	}

	for _, table := range []string{imageCacheTable, searchCacheTable, pendingActionsTable, categoriesTable, productsTable, "schema_migrations"} {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return storageErr("drop tables", err)
		}
	}
	return nil
}
