package cmd

import (
	"github.com/scangrade/scangrade/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd exposes grading over the Model Context Protocol.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the scangrade MCP server",
	Long: `Serve grading operations to AI agents over the Model Context Protocol.

The server speaks the protocol on stdio and registers four tools:
grade_image, grade_batch, evaluate_sla and get_metric_catalog. Tool
calls run against the same configuration the CLI commands use.`,
	// Handlers suppress the usual header output so stdio carries
	// protocol frames only.
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
