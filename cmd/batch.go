package cmd

import (
	"github.com/scangrade/scangrade/core"
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/spf13/cobra"
)

// batchCmd grades a directory of metrics documents.
var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Grade every metrics document in a directory and rank the results.",
	Long: `Grade every image quality metrics document in a directory tree.

Documents are discovered recursively, graded concurrently and ranked worst
first so problem scans surface at the top. The batch summary aggregates
compliance rates, tier distributions and average scores across the whole
collection. Use this to:
- Audit a digitization batch before accepting delivery
- Find the worst scans in a large collection quickly
- Track compliance rates across scanning sessions
- Feed downstream dashboards with JSON, CSV, Parquet or Excel exports

Defaults to the current directory when no argument is given.

Examples:
  # Grade everything under the current directory
  scangrade batch

  # Grade a delivery folder and show the 50 worst scans
  scangrade batch deliveries/2026-08/ --limit 50

  # Only consider documents matching a custom pattern
  scangrade batch scans/ --pattern "page_*.json"

  # Export the ranked outcomes for a spreadsheet review
  scangrade batch scans/ --output xlsx --output-file review.xlsx`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScangradeBatch(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run batch analysis", err)
		}
	},
}
