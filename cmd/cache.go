package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/shopcache/core"
	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/internal/outwriter"
	"github.com/huangsam/shopcache/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheCmd focused on store management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local storefront cache",
	Long: `Manage the persistent store that keeps storefront data available offline.

Shopcache persists products, categories, search results and product images so
browse and search keep working without connectivity. Pending cart and wishlist
actions are stored alongside and replayed by 'shopcache sync'.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show per-collection statistics and storage usage
  clear   - Remove all cached data (pending actions survive)
  evict   - Remove entries older than the age cutoff
  migrate - Run store schema migrations

Examples:
  # Check cache status
  shopcache cache status

  # Evict entries older than 3 days
  shopcache cache evict --max-age 72h`,
}

// cacheStatusCmd shows store status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display per-collection statistics and storage usage",
	Long: `Show detailed information about the local store.

Displays:
- Entry count per collection with newest/oldest timestamps
- Staleness label per collection (fresh, aging, stale, expired)
- Number of pending actions awaiting sync
- Storage usage against the configured quota

Examples:
  # Check cache status
  shopcache cache status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.Status(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		if err := outwriter.WriteStoreStatus(status, cfg, os.Stdout); err != nil {
			contract.LogFatal("Failed to write cache status", err)
		}
	},
}

// cacheClearCmd clears the cached collections.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached storefront data",
	Long: `Delete all cached products, categories, search results and images.

Pending cart and wishlist actions are preserved so queued work is never lost;
run 'shopcache sync' to replay them. Use --drop to remove everything including
pending actions and schema history.

For SQLite with --drop: Deletes the database file
For MySQL/PostgreSQL with --drop: Drops all tables

Examples:
  # Clear cached data, keep the pending action queue
  shopcache cache clear

  # Start over completely
  shopcache cache clear --drop`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if viper.GetBool("drop") {
			if err := dropStore(); err != nil {
				contract.LogFatal("Failed to drop store", err)
			}
			fmt.Println("Store dropped successfully.")
			return
		}
		if err := store.ClearAll(rootCtx); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully. Pending actions were preserved.")
	},
}

// dropStore removes the store entirely. SQLite deletes the database file;
// server backends drop the tables.
func dropStore() error {
	if cfg.CacheBackend == schema.SQLiteBackend {
		dbPath := cfg.CacheDBConnect
		if dbPath == "" {
			dbPath = contract.GetCacheDBFilePath()
		}
		storeTeardown()
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove store file %q: %w", dbPath, err)
		}
		return nil
	}
	return store.Drop(rootCtx)
}

// cacheEvictCmd removes entries past the age cutoff.
var cacheEvictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Remove cached entries older than the age cutoff",
	Long: `Delete cached entries whose last update is older than --max-age.

Applies to products, search results and images. Categories are kept because
the category tree is small and expensive to rebuild offline. Pending actions
are never evicted regardless of age; synced actions past the cutoff are
garbage collected.

Examples:
  # Evict with the default 7 day cutoff
  shopcache cache evict

  # Evict aggressively
  shopcache cache evict --max-age 24h

  # Purge every evictable entry regardless of age
  shopcache cache evict --max-age 0s`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		evictor := core.NewEvictor(store, cfg.MaxAge)
		result, err := evictor.ClearExpired(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to evict expired entries", err)
		}
		if err := outwriter.WriteEvictionResult(result, os.Stdout); err != nil {
			contract.LogFatal("Failed to write eviction result", err)
		}
	},
}

// cacheMigrateCmd runs database migrations for the store.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run store schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the local store.

Schema upgrades are additive-only, so cached data survives a version bump.
By default, migrates to the latest version. Use --target-version for specific
versions.

Examples:
  # Migrate to latest version (default)
  shopcache cache migrate

  # Migrate to specific version
  shopcache cache migrate --target-version 1

  # Rollback to empty schema
  shopcache cache migrate --target-version 0`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.Migrate(targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println("Migrations completed successfully.")
	},
}
