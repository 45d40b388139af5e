package storedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/shopcache/schema"
)

// productColumns is the column list shared by every product statement.
const productColumns = "id, name, description, price, images, category, in_stock, rating, review_count, last_updated, compressed"

// PutProducts upserts a batch of products in a single transaction. Each
// record's LastUpdated is stamped at write time regardless of the
// caller-supplied value, so recency is monotonic for eviction purposes.
func (s *Store) PutProducts(ctx context.Context, products []schema.CachedProduct) error {
	if s.disabled() || len(products) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("put products", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.productUpsertQuery())
	if err != nil {
		return storageErr("put products", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UnixMilli()
	for _, p := range products {
		images, err := json.Marshal(p.Images)
		if err != nil {
			return fmt.Errorf("failed to encode images for product %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Description, p.Price, string(images),
			p.Category, p.InStock, p.Rating, p.ReviewCount, now, p.Compressed); err != nil {
			return storageErr("put products", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("put products", err)
	}
	return nil
}

// productUpsertQuery returns the UPSERT statement for the backend.
func (s *Store) productUpsertQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE name = new.name, description = new.description, price = new.price,
			images = new.images, category = new.category, in_stock = new.in_stock, rating = new.rating,
			review_count = new.review_count, last_updated = new.last_updated, compressed = new.compressed`,
			productsTable, productColumns)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
			price = EXCLUDED.price, images = EXCLUDED.images, category = EXCLUDED.category,
			in_stock = EXCLUDED.in_stock, rating = EXCLUDED.rating, review_count = EXCLUDED.review_count,
			last_updated = EXCLUDED.last_updated, compressed = EXCLUDED.compressed`,
			productsTable, productColumns)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			productsTable, productColumns)
	}
}

// GetProduct retrieves a product by ID. A missing key is (nil, nil), never
// an error.
func (s *Store) GetProduct(ctx context.Context, id string) (*schema.CachedProduct, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = %s`, productColumns, productsTable, s.placeholders(1, 1))
	row := s.db.QueryRowContext(ctx, query, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get product", err)
	}
	return p, nil
}

// ProductsByCategory returns every cached product in the category, ordered
// by the category index scan.
func (s *Store) ProductsByCategory(ctx context.Context, category string) ([]schema.CachedProduct, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE category = %s ORDER BY id`,
		productColumns, productsTable, s.placeholders(1, 1))
	return s.queryProducts(ctx, query, category)
}

// AllProducts returns every cached product, ordered by ID. Used by the
// export path.
func (s *Store) AllProducts(ctx context.Context) ([]schema.CachedProduct, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, productColumns, productsTable)
	return s.queryProducts(ctx, query)
}

// DeleteProducts removes products by ID. Deleting an absent key is a no-op.
func (s *Store) DeleteProducts(ctx context.Context, ids []string) error {
	if s.disabled() || len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id IN (%s)`, productsTable, s.placeholders(1, len(ids)))
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storageErr("delete products", err)
	}
	return nil
}

// queryProducts runs a product SELECT and scans all rows.
func (s *Store) queryProducts(ctx context.Context, query string, args ...any) ([]schema.CachedProduct, error) {
	if s.disabled() {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query products", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CachedProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, storageErr("scan product", err)
		}
		results = append(results, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate products", err)
	}
	return results, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct decodes one product row.
func scanProduct(row rowScanner) (*schema.CachedProduct, error) {
	var p schema.CachedProduct
	var images string
	var lastUpdated int64

	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &images, &p.Category,
		&p.InStock, &p.Rating, &p.ReviewCount, &lastUpdated, &p.Compressed); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images for product %s: %w", p.ID, err)
	}
	p.LastUpdated = time.UnixMilli(lastUpdated)
	return &p, nil
}
