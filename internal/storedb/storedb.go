// Package storedb is the persistent store manager for the shopcache
// collections. It owns schema creation and versioning and provides typed
// CRUD access to products, categories, pending actions, the search cache
// and the image cache.
package storedb

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver (CGo-free)
)

// Table names for the five collections.
const (
	productsTable       = "products"
	categoriesTable     = "categories"
	pendingActionsTable = "pending_actions"
	searchCacheTable    = "search_cache"
	imageCacheTable     = "image_cache"
)

// Store handles durable storage for all collections using various database
// backends. It is an explicit handle; open one per consumer and close it on
// shutdown.
type Store struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
	quotaBytes int64
}

var _ contract.Store = &Store{} // Compile-time check

// Open initializes a Store for the given backend, runs pending schema
// migrations and returns the handle. quotaBytes is the storage ceiling used
// for usage reporting; zero disables quota accounting.
func Open(backend schema.DatabaseBackend, connStr string, quotaBytes int64) (*Store, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetCacheDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		db, err = sql.Open(driverName, withMultiStatements(connStr))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=shopcache
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Degraded mode: every read misses and every write is a no-op.
		return &Store{
			db:         nil,
			backend:    backend,
			driverName: "",
			connStr:    connStr,
			quotaBytes: quotaBytes,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	// Bring the schema to the latest version. Upgrades are additive-only so
	// cached data survives a version bump.
	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate store schema: %w", err)
	}

	return &Store{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
		quotaBytes: quotaBytes,
	}, nil
}

// Close closes the underlying DB connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Backend returns the backend this store was opened with.
func (s *Store) Backend() schema.DatabaseBackend {
	return s.backend
}

// disabled reports whether the store runs in degraded no-op mode.
func (s *Store) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// storageErr wraps a backend failure so callers can detect it with
// errors.Is(err, contract.ErrStorageUnavailable) and fall through to the
// network.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, contract.ErrStorageUnavailable, err)
}

// placeholders returns a parameter list like "?, ?, ?" or "$1, $2, $3"
// starting at the given 1-based offset.
func (s *Store) placeholders(offset, n int) string {
	parts := make([]string, n)
	for i := range n {
		if s.backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", offset+i)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// withMultiStatements ensures the MySQL DSN allows multi-statement
// execution, which the migration runner needs.
func withMultiStatements(connStr string) string {
	if strings.Contains(connStr, "multiStatements") {
		return connStr
	}
	sep := "?"
	if strings.Contains(connStr, "?") {
		sep = "&"
	}
	return connStr + sep + "multiStatements=true"
}
