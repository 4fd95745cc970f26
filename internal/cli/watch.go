package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	watchRepo     string
	watchInterval int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll a repository and announce new pull requests",
	Long: `Polls the repository's open pull requests at a fixed interval. New
pull requests are announced with an offer to build them immediately;
disappeared ones are reported as closed or merged. Ctrl-C stops the
watch cleanly.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchRepo, "repo", "", "Repository as owner/name")
	watchCmd.Flags().IntVar(&watchInterval, "interval", 60, "Poll interval in seconds")
	_ = watchCmd.MarkFlagRequired("repo")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval <= 0 {
		return fmt.Errorf("--interval must be greater than zero, got %d", watchInterval)
	}

	driver, _, err := newDriver(false)
	if err != nil {
		return err
	}
	return driver.Watch(cmd.Context(), watchRepo, time.Duration(watchInterval)*time.Second)
}
