// Package cmd defines the command-line interface for shopcache.
package cmd

import (
	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheEvictCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int64("quota-bytes", contract.DefaultQuotaBytes, "Assumed storage ceiling in bytes")
	rootCmd.PersistentFlags().String("max-age", "", "Entry age cutoff for eviction as a Go duration (default 168h)")
	rootCmd.PersistentFlags().Bool("offline", false, "Force the connectivity signal to offline")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cacheClearCmd to Viper
	cacheClearCmd.Flags().Bool("drop", false, "Drop all tables including pending actions and schema history")
	if err := viper.BindPFlags(cacheClearCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache clear flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}

	// Bind all flags of exportCmd to Viper
	exportCmd.Flags().String("output-file", "", "Path to write the snapshot to")
	exportCmd.Flags().String("format", "json", "Export format: json or parquet")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	// Bind all flags of importCmd to Viper
	importCmd.Flags().String("input-file", "", "Path to read the snapshot from")
	if err := viper.BindPFlags(importCmd.Flags()); err != nil {
		contract.LogFatal("Error binding import flags", err)
	}

	// Bind all flags of syncCmd to Viper
	syncCmd.Flags().String("sync-endpoint", "", "HTTP endpoint that pending actions are posted to")
	if err := viper.BindPFlags(syncCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sync flags", err)
	}
}
