package cmd

import (
	"github.com/scangrade/scangrade/core"
	"github.com/scangrade/scangrade/internal/contract"
	"github.com/spf13/cobra"
)

// slaCmd evaluates one document against the SLA and gates on the verdict.
var slaCmd = &cobra.Command{
	Use:   "sla <metrics-document>",
	Short: "Evaluate one image against the SLA and print the compliance verdict.",
	Long: `Evaluate a single image quality metrics document against the active SLA.

Prints a focused compliance verdict instead of the full report card: the
compliance level, the score floor it was judged against and every violation
with its expected and actual values. Use cases:
- Gate a scanning pipeline on per-image compliance
- Produce an auditable pass/fail record for a delivery
- Debug why a scan fails a customer contract

The --fail-on flag turns the verdict into an exit code. When the computed
compliance level is at or below the gate, the command exits non-zero, which
makes it usable directly in CI pipelines and shell scripts.

Examples:
  # Print the compliance verdict for one scan
  scangrade sla scan_0042.json

  # Evaluate against a customer SLA document
  scangrade sla scan_0042.json --sla contracts/archival.json

  # Fail the build when the scan is worse than WARNING
  scangrade sla scan_0042.json --fail-on warning

  # Emit the verdict as JSON for audit trails
  scangrade sla scan_0042.json --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		// The --fail-on gate is enforced in ExecuteScangradeSla.
		if err := core.ExecuteScangradeSla(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run compliance evaluation", err)
		}
	},
}
