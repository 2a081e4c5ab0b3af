// Package cmd defines the command-line interface for scangrade.
package cmd

import (
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(slaCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Rendering flags
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Report format: text, csv, json, parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Write rendered output to this file instead of stdout")
	rootCmd.PersistentFlags().Bool("detail", false, "Include native measurements and detail columns")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal places for rendered scores, 1 or 2")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Ranked rows to show in batch output")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override, 0 means auto-detect")
	rootCmd.PersistentFlags().String("emoji", "no", "Emoji in report headers, accepts yes/no/true/false/1/0")
	rootCmd.PersistentFlags().String("color", "yes", "Colorized tier and compliance labels, accepts yes/no/true/false/1/0")

	// Grading flags
	rootCmd.PersistentFlags().String("sla", "", "SLA specification document to grade against")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Concurrent grading workers for batch runs")

	// Store flags
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Grade cache backend: sqlite, mysql, postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Grade cache connection string for the mysql and postgresql backends")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run tracking backend: sqlite, mysql, postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Run tracking connection string, must differ from cache-db-connect")

	// Process flags
	rootCmd.PersistentFlags().String("config", "", "Config file path overriding .scangrade.yaml discovery")
	rootCmd.PersistentFlags().String("profile", "", "Write CPU and memory profiles using this filename prefix")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Cannot bind root flags", err)
	}

	batchCmd.Flags().String("pattern", contract.DefaultPattern, "Glob pattern for metrics documents inside the input directory")
	if err := viper.BindPFlags(batchCmd.Flags()); err != nil {
		contract.LogFatal("Cannot bind batch flags", err)
	}

	slaCmd.Flags().String("fail-on", string(contract.DefaultFailOn), "Compliance level that fails the gate: excellent, compliant, warning, non_compliant")
	if err := viper.BindPFlags(slaCmd.Flags()); err != nil {
		contract.LogFatal("Cannot bind sla flags", err)
	}

	runsMigrateCmd.Flags().Int("target-version", -1, "Migration version to reach, -1 means latest and 0 rolls back to empty")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Cannot bind runs migrate flags", err)
	}
}
