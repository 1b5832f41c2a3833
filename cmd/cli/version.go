package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thand-io/components/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	// the version needs no configuration
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		version, gitCommit, ok := common.GetModuleBuildInfo()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Failed to get version information")
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "components %s", version)
		if gitCommit != "unknown" && len(gitCommit) > 0 {
			if len(gitCommit) > 8 {
				gitCommit = gitCommit[:8]
			}
			fmt.Fprintf(cmd.OutOrStdout(), " (git: %s)", gitCommit)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
