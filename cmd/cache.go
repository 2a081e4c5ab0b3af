package cmd

import (
	"fmt"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/internal/reportstore"
	"github.com/scangrade/scangrade/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup is the PreRunE for cache subcommands. It reads just the
// cache keys from configuration and brings up the cache store, skipping
// the document discovery and validation that grading commands need.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr, "cache-db-connect"); err != nil {
		return err
	}

	// Run tracking stays down for cache maintenance.
	if err := reportstore.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("cannot open grade cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheCmd groups grade cache maintenance.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the grade report cache (improves performance)",
	Long: `Manage the grade report cache that speeds up repeated gradings.

Scangrade caches computed report cards so regrading an unchanged metrics
document with the same SLA skips the scoring pipeline entirely. This matters
most for large batch runs repeated across scanning sessions.

The cache lives on sqlite by default and can be pointed at mysql or
postgresql for shared setups, or disabled with the none backend.

Subcommands:
  status - show entry counts and connection details
  clear  - drop every cached report

Examples:
  # Inspect the configured cache
  scangrade cache status

  # Clear cache after retuning SLA thresholds
  scangrade cache clear`,
}

// cacheClearCmd drops every cached report.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached grade reports",
	Long: `Delete all cached grade reports from the configured backend.

Worth doing when the metric catalog or SLA thresholds changed, when
cached reports look stale, or before timing a grading run without cache
hits. On sqlite the database file is removed; mysql and postgresql keep
the database and drop only the cache table.

Examples:
  # Clear the default sqlite cache
  scangrade cache clear

  # Clear a shared mysql cache, connection string via environment
  SCANGRADE_CACHE_BACKEND=mysql SCANGRADE_CACHE_DB_CONNECT="..." scangrade cache clear`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := reportstore.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Cannot clear the grade cache", err)
		}
		fmt.Println("Grade cache cleared.")
	},
}

// cacheStatusCmd reports cache health.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show grade cache statistics",
	Long: `Show backend, connection state, entry counts, the newest and oldest
entry timestamps and the approximate on-disk size of the grade cache.
Handy for confirming the cache is reachable and for debugging unexpected
misses.

Examples:
  # Inspect the cache
  scangrade cache status`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := reportstore.Manager.GetGradeCacheStore().GetStatus()
		if err != nil {
			contract.LogFatal("Cannot read grade cache status", err)
		}
		reportstore.PrintCacheStatus(status)
	},
}
