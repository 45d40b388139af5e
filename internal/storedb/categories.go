package storedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/shopcache/schema"
)

const categoryColumns = "id, name, description, image, product_count, last_updated"

// PutCategories upserts a batch of categories in a single transaction,
// stamping LastUpdated at write time.
func (s *Store) PutCategories(ctx context.Context, categories []schema.CachedCategory) error {
	if s.disabled() || len(categories) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("put categories", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.categoryUpsertQuery())
	if err != nil {
		return storageErr("put categories", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UnixMilli()
	for _, c := range categories {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Description, c.Image, c.ProductCount, now); err != nil {
			return storageErr("put categories", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("put categories", err)
	}
	return nil
}

// categoryUpsertQuery returns the UPSERT statement for the backend.
func (s *Store) categoryUpsertQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE name = new.name, description = new.description, image = new.image,
			product_count = new.product_count, last_updated = new.last_updated`,
			categoriesTable, categoryColumns)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
			image = EXCLUDED.image, product_count = EXCLUDED.product_count, last_updated = EXCLUDED.last_updated`,
			categoriesTable, categoryColumns)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)`,
			categoriesTable, categoryColumns)
	}
}

// GetCategory retrieves a category by ID. A missing key is (nil, nil).
func (s *Store) GetCategory(ctx context.Context, id string) (*schema.CachedCategory, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = %s`, categoryColumns, categoriesTable, s.placeholders(1, 1))
	row := s.db.QueryRowContext(ctx, query, id)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get category", err)
	}
	return c, nil
}

// AllCategories returns every cached category, ordered by ID.
func (s *Store) AllCategories(ctx context.Context) ([]schema.CachedCategory, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, categoryColumns, categoriesTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("query categories", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CachedCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, storageErr("scan category", err)
		}
		results = append(results, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate categories", err)
	}
	return results, nil
}

// scanCategory decodes one category row.
func scanCategory(row rowScanner) (*schema.CachedCategory, error) {
	var c schema.CachedCategory
	var lastUpdated int64

	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Image, &c.ProductCount, &lastUpdated); err != nil {
		return nil, err
	}
	c.LastUpdated = time.UnixMilli(lastUpdated)
	return &c, nil
}
