package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/shopcache/internal/contract"
	"github.com/huangsam/shopcache/internal/storedb"
	"github.com/huangsam/shopcache/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// store is the open store handle shared by all subcommands. It is opened by
// storeSetup in PreRunE and closed by storeTeardown in PersistentPostRun.
var store *storedb.Store

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "shopcache",
	Short:              "Offline-first persistent cache for marketplace storefront data.",
	Long:               `Shopcache keeps products, categories, search results and images available offline, and queues cart and wishlist actions until connectivity returns.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		storeTeardown()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".shopcache") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("SHOPCACHE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("quota-bytes", contract.DefaultQuotaBytes)
	viper.SetDefault("format", "json")
	viper.SetDefault("color", "yes")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".shopcache")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// storeSetup loads configuration and opens the store handle.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 1. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 2. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 3. Open the store handle with the validated config.
	s, err := storedb.Open(cfg.CacheBackend, cfg.CacheDBConnect, cfg.QuotaBytes)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	store = s

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeTeardown closes the store handle if one was opened.
func storeTeardown() {
	if store != nil {
		if err := store.Close(); err != nil {
			contract.LogWarn("Failed to close store", err)
		}
		store = nil
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
