package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/prflight-io/prflight/internal/hosting"
)

// Latest shows the most recently updated open pull requests and loops on
// build/refresh/exit until the operator builds one or leaves.
func (d *Driver) Latest(ctx context.Context, repo string, count int) error {
	selected, err := d.selectRepository(ctx, repo)
	if err != nil {
		return err
	}

	for {
		prs, err := d.Hosting.ListOpenPullRequests(ctx, selected.Owner.Login, selected.Name)
		if err != nil {
			return err
		}
		top := TopByUpdate(prs, count)
		if len(top) == 0 {
			fmt.Fprintf(d.Out, "No open pull requests in %s.\n", selected.FullName)
			return nil
		}

		fmt.Fprintf(d.Out, "\nLatest pull requests in %s:\n", selected.FullName)
		for _, pr := range top {
			fmt.Fprintf(d.Out, "  %s (updated %s)\n", formatPullRequest(pr), pr.UpdatedAt.Format("2006-01-02 15:04"))
		}

		choice, err := d.Prompter.Select("What next?", []string{"Build a pull request", "Refresh", "Exit"}, 0)
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			pr, err := d.selectPullRequest(top)
			if err != nil {
				return err
			}
			return d.BuildPullRequest(ctx, selected, pr)
		case 1:
			// Refresh: fetch and display again.
		case 2:
			return nil
		}
	}
}

// TopByUpdate returns the n most recently updated pull requests, newest
// first. The input slice is left untouched.
func TopByUpdate(prs []hosting.PullRequest, n int) []hosting.PullRequest {
	sorted := make([]hosting.PullRequest, len(prs))
	copy(sorted, prs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
