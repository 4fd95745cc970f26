package cli

import (
	"github.com/spf13/cobra"
)

var runUI bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Pick a pull request and build it",
	Long: `Walks through repository and pull request selection, checks out the
pull request's head branch, and builds it for a chosen destination. The
default repository from the config file skips the repository prompt.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runUI, "ui", false, "Use the full-screen interface")
}

func runRun(cmd *cobra.Command, args []string) error {
	driver, cfg, err := newDriver(runUI)
	if err != nil {
		return err
	}
	return driver.Run(cmd.Context(), cfg.DefaultRepo)
}
