package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd reports the exact build of this binary.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print scangrade build information.",
	Long: `Report the exact build of this binary.

The output covers the release tag, the commit it was cut from, the build
timestamp and the Go toolchain that produced it. Include all of it when
filing a bug so a grading run can be reproduced against the same build.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("scangrade %s\n", version)
		cmd.Printf("  commit:    %s\n", commit)
		cmd.Printf("  built:     %s\n", date)
		cmd.Printf("  toolchain: %s\n", runtime.Version())
		cmd.Printf("  platform:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
