package storedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/shopcache/schema"
)

const imageColumns = "url, data, compressed, size, created_at"

// PutImage stores an image blob under its source URL with overwrite
// semantics. Size and Timestamp are recorded at write time; Size feeds
// quota reporting.
func (s *Store) PutImage(ctx context.Context, img schema.CachedImage) error {
	if s.disabled() {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, s.imageUpsertQuery(),
		img.URL, img.Data, img.Compressed, int64(len(img.Data)), time.Now().UnixMilli()); err != nil {
		return storageErr("put image", err)
	}
	return nil
}

// imageUpsertQuery returns the UPSERT statement for the backend.
func (s *Store) imageUpsertQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE data = new.data, compressed = new.compressed, size = new.size, created_at = new.created_at`,
			imageCacheTable, imageColumns)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (url) DO UPDATE SET data = EXCLUDED.data, compressed = EXCLUDED.compressed,
			size = EXCLUDED.size, created_at = EXCLUDED.created_at`,
			imageCacheTable, imageColumns)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (?, ?, ?, ?, ?)`,
			imageCacheTable, imageColumns)
	}
}

// GetImage retrieves an image blob by source URL. A missing key is
// (nil, nil).
func (s *Store) GetImage(ctx context.Context, url string) (*schema.CachedImage, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE url = %s`, imageColumns, imageCacheTable, s.placeholders(1, 1))
	row := s.db.QueryRowContext(ctx, query, url)

	var img schema.CachedImage
	var createdAt int64
	err := row.Scan(&img.URL, &img.Data, &img.Compressed, &img.Size, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get image", err)
	}
	img.Timestamp = time.UnixMilli(createdAt)
	return &img, nil
}
