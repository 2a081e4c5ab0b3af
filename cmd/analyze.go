package cmd

import (
	"github.com/scangrade/scangrade/core"
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd grades a single metrics document.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <metrics-document>",
	Short: "Grade one image and print its full quality report card.",
	Long: `Grade a single image quality metrics document and print the full report card.

Reads producer-supplied measurements (sharpness, exposure, noise and more),
classifies every dimension into quality tiers, derives a star rating and
evaluates the result against the active SLA specification. Helps you:
- See at a glance whether a scan is usable
- Spot which dimensions drag an image down
- Get concrete retake or recapture actions per metric
- Verify a capture meets contract quality floors before delivery

Reports render as text by default; JSON and CSV are available for tooling.

Examples:
  # Grade one scanned page
  scangrade analyze scan_0042.json

  # Show native measurements next to scores
  scangrade analyze scan_0042.json --detail

  # Grade against a customer SLA document
  scangrade analyze scan_0042.json --sla contracts/archival.json

  # Export the report as JSON
  scangrade analyze scan_0042.json --output json --output-file report.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScangradeAnalyze(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run image analysis", err)
		}
	},
}
