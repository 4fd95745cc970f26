package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	latestRepo  string
	latestCount int
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Browse the most recently updated pull requests",
	Long: `Shows the open pull requests of a repository sorted by last update,
newest first, then offers to build one, refresh the listing, or exit.`,
	Args: cobra.NoArgs,
	RunE: runLatest,
}

func init() {
	latestCmd.Flags().StringVar(&latestRepo, "repo", "", "Repository as owner/name (prompts when omitted)")
	latestCmd.Flags().IntVar(&latestCount, "count", 10, "How many pull requests to show")
}

func runLatest(cmd *cobra.Command, args []string) error {
	if latestCount <= 0 {
		return fmt.Errorf("--count must be greater than zero, got %d", latestCount)
	}

	driver, cfg, err := newDriver(false)
	if err != nil {
		return err
	}
	repo := latestRepo
	if repo == "" {
		repo = cfg.DefaultRepo
	}
	return driver.Latest(cmd.Context(), repo, latestCount)
}
