package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/shopcache/schema"
)

// Default values for configuration.
const (
	// DefaultQuotaBytes is the assumed storage ceiling when the platform
	// imposes none.
	DefaultQuotaBytes = int64(50 * 1024 * 1024)

	// DefaultSyncTimeout bounds a single action application during a sync
	// pass.
	DefaultSyncTimeout = 30 * time.Second
)

// ValidDatabaseBackends enumerates the accepted backend values.
var ValidDatabaseBackends = map[schema.DatabaseBackend]bool{
	schema.SQLiteBackend:     true,
	schema.MySQLBackend:      true,
	schema.PostgreSQLBackend: true,
	schema.NoneBackend:       true,
}

// Config holds the final, validated runtime configuration.
type Config struct {
	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	QuotaBytes int64
	MaxAge     time.Duration

	Offline      bool   // force the connectivity signal to "offline"
	SyncEndpoint string // HTTP endpoint the sync pass posts actions to

	OutputFile string
	Format     string // export format: json or parquet
	UseColors  bool
}

// ConfigRawInput holds the raw, unvalidated values gathered from flags, env
// vars and the config file. Viper unmarshals into this struct; validation
// produces the final Config.
type ConfigRawInput struct {
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	QuotaBytes     int64  `mapstructure:"quota-bytes"`
	MaxAgeStr      string `mapstructure:"max-age"`
	Offline        bool   `mapstructure:"offline"`
	SyncEndpoint   string `mapstructure:"sync-endpoint"`
	OutputFile     string `mapstructure:"output-file"`
	Format         string `mapstructure:"format"`
	Color          string `mapstructure:"color"`
}

// ProcessAndValidate parses and validates the raw inputs and fills in the
// final Config.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Backend validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if !ValidDatabaseBackends[cfg.CacheBackend] {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- 2. Quota validation ---
	cfg.QuotaBytes = input.QuotaBytes
	if cfg.QuotaBytes == 0 {
		cfg.QuotaBytes = DefaultQuotaBytes
	}
	if cfg.QuotaBytes < 0 {
		return fmt.Errorf("quota-bytes must be non-negative (received %d)", input.QuotaBytes)
	}

	// --- 3. Max age parsing ---
	cfg.MaxAge = schema.DefaultMaxAge
	if input.MaxAgeStr != "" {
		d, err := time.ParseDuration(input.MaxAgeStr)
		if err != nil {
			return fmt.Errorf("invalid max-age '%s'. must be a Go duration like 168h or 30m: %w", input.MaxAgeStr, err)
		}
		if d < 0 {
			return fmt.Errorf("max-age must be non-negative (received %s)", d)
		}
		cfg.MaxAge = d
	}

	// --- 4. Format validation ---
	cfg.Format = strings.ToLower(input.Format)
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Format != "json" && cfg.Format != "parquet" {
		return fmt.Errorf("invalid format '%s'. must be json or parquet", input.Format)
	}

	// --- 5. Colors ---
	cfg.UseColors = true
	if input.Color != "" {
		useColors, err := ParseBoolString(input.Color)
		if err != nil {
			return err
		}
		cfg.UseColors = useColors
	}

	cfg.Offline = input.Offline
	cfg.SyncEndpoint = input.SyncEndpoint
	cfg.OutputFile = input.OutputFile

	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
