package cmd

import (
	"fmt"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/internal/reportstore"
	"github.com/scangrade/scangrade/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsBackendFromConfig resolves the run-tracking backend and connection
// string from configuration. An unset backend means tracking is off.
func runsBackendFromConfig() (schema.DatabaseBackend, string, error) {
	backend := schema.NoneBackend
	if s := viper.GetString("runs-backend"); s != "" {
		backend = schema.DatabaseBackend(s)
	}
	connStr := viper.GetString("runs-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr, "runs-db-connect"); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup is the PreRunE for run history subcommands. Like cacheSetup
// it skips the full grading pipeline setup.
func runsSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := runsBackendFromConfig()
	if err != nil {
		return err
	}

	// Grade caching stays down for history maintenance.
	if err := reportstore.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("cannot open run tracking: %w", err)
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsMigrateSetup resolves the backend without touching the stores, so
// migrations can run against a fresh database with no tables yet.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := runsBackendFromConfig()
	if err != nil {
		return err
	}

	// SQLite with no explicit connection string migrates the default file.
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunsDBFilePath()
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	return nil
}

// runsCmd groups run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage historical grading runs and exports",
	Long: `Manage historical grading data used for trend tracking and reporting.

With a runs backend configured, scangrade records the metadata of every
grading run alongside per-image report cards, so quality drift across
scanning sessions stays visible. The history lives on sqlite by default
and can be pointed at mysql or postgresql for shared setups.

Subcommands:
  status  - show run history statistics
  export  - write the history to Parquet datasets
  clear   - drop the entire history
  migrate - move the store schema between versions

Examples:
  # Inspect the recorded history
  scangrade runs status

  # Hand the history to pandas or DuckDB
  scangrade runs export --output-file quality`,
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical grading run data",
	Long: `Delete every stored grading run together with its per-image report
history and compliance outcomes. There is no undo, so export anything
worth keeping first.

Examples:
  # Keep a Parquet copy, then wipe
  scangrade runs export --output-file backup
  scangrade runs clear`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := reportstore.ClearRuns(cfg.RunsBackend, contract.GetRunsDBFilePath(), cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Cannot clear run history", err)
		}
		fmt.Println("Run history cleared.")
	},
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show run history statistics",
	Long: `Show backend, connection state, the number of recorded runs, the
newest and oldest run timestamps, the total image reports on file and
the row counts of both tracking tables. Handy for confirming run
tracking is switched on and for watching how fast the history grows.

Examples:
  # Inspect the recorded history
  scangrade runs status`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := reportstore.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Cannot read run history status", err)
		}
		reportstore.PrintRunStatus(status)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet datasets",
	Long: `Write the full run history to Parquet, the columnar format that
DuckDB, Spark, pandas and most BI tools read natively.

Two datasets come out: grading runs (one row per execution, with its
configuration and duration) and image reports (one row per graded image,
with scores, tiers and compliance outcomes). --output-file names the
common prefix; scangrade runs export --output-file quality produces
quality.runs.parquet and quality.image_reports.parquet.

Examples:
  # Export everything on file
  scangrade runs export --output-file quality

  # Query the export straight from DuckDB
  scangrade runs export --output-file quality
  duckdb -c "SELECT * FROM read_parquet('quality.image_reports.parquet') LIMIT 10"`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := reportstore.ExecuteRunsExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Cannot export run history", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move the run store schema between versions",
	Long: `Apply versioned schema migrations to the run tracking store, in
either direction. Upgrading after a scangrade update keeps existing
history intact; rolling back restores an older layout when a new one
misbehaves.

Without --target-version the store moves to the latest schema.

Examples:
  # Bring the schema up to date
  scangrade runs migrate

  # Pin a particular schema version
  scangrade runs migrate --target-version 2

  # Roll everything back
  scangrade runs migrate --target-version 0`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := reportstore.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, target); err != nil {
			contract.LogFatal("Cannot migrate the run store", err)
		}
	},
}
