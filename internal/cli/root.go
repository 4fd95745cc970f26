package cli

import (
	"github.com/spf13/cobra"

	"github.com/prflight-io/prflight/internal/logging"
)

var (
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "prflight",
	Short: "Build pull requests on simulators before they merge",
	Long: `Prflight picks an open pull request from a hosting service, checks out
its head branch, finds the Xcode workspace or project inside, builds it,
and launches the app on a simulator or device.

Failed builds drop into a retry / reselect destination / abort loop so a
flaky simulator never costs you the whole checkout.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Init(level)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}
