package cmd

import (
	"github.com/scangrade/scangrade/core"
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd prints the scoring catalog.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the catalog of graded quality metrics and their thresholds.",
	Long: `Show the catalog of quality metrics scangrade knows how to grade.

For every metric the catalog lists the pass threshold, the tier band edges,
the native measurement unit and the recommended corrective action. Use this
to:
- Understand how raw measurements map onto quality tiers
- See which thresholds an SLA can tighten or relax
- Document the grading rules for producers of metrics documents

Examples:
  # Print the catalog as a table
  scangrade metrics

  # Export the catalog as JSON for documentation tooling
  scangrade metrics --output json --output-file catalog.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScangradeMetrics(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
