package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cchalm/gemini-proxy/internal/telemetry"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// SetVersionInfo records build information for the version command and telemetry
func SetVersionInfo(v, commit, built string) {
	version, gitCommit, buildTime = v, commit, built
	telemetry.ServiceVersion = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Printing the version needs no configuration
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Gemini Proxy %s (commit %s, built %s)\n", version, gitCommit, buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
