package session

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prflight-io/prflight/internal/hosting"
)

// Watch polls the repository's open pull requests at a fixed interval and
// announces changes. The first poll only establishes the baseline. An
// interrupt stops the ticker before returning, and the watch ends cleanly.
func (d *Driver) Watch(ctx context.Context, repo string, interval time.Duration) error {
	owner, name, err := hosting.ParseRepo(repo)
	if err != nil {
		return err
	}
	selected, err := d.Hosting.GetRepository(ctx, owner, name)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	prs, err := d.Hosting.ListOpenPullRequests(ctx, owner, name)
	if err != nil {
		return err
	}
	known := make(map[int]bool, len(prs))
	for _, pr := range prs {
		known[pr.Number] = true
	}
	fmt.Fprintf(d.Out, "Watching %s (%d open pull requests, polling every %s). Press Ctrl-C to stop.\n",
		selected.FullName, len(prs), interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Stop synchronously so no tick fires while exiting.
			ticker.Stop()
			fmt.Fprintln(d.Out, "\nStopped watching.")
			return nil
		case <-ticker.C:
			current, err := d.Hosting.ListOpenPullRequests(ctx, owner, name)
			if err != nil {
				if ctx.Err() != nil {
					ticker.Stop()
					fmt.Fprintln(d.Out, "\nStopped watching.")
					return nil
				}
				return fmt.Errorf("poll failed: %w", err)
			}

			fresh, closed := DiffPullRequests(known, current)
			for _, number := range closed {
				fmt.Fprintf(d.Out, "Pull request #%d closed or merged.\n", number)
				delete(known, number)
			}
			for _, pr := range fresh {
				fmt.Fprintf(d.Out, "New pull request: %s\n", formatPullRequest(pr))
				known[pr.Number] = true

				build, err := d.Prompter.Confirm(fmt.Sprintf("Build #%d now?", pr.Number), false)
				if err != nil {
					return err
				}
				if build {
					if err := d.BuildPullRequest(ctx, selected, &pr); err != nil {
						return err
					}
				}
			}
		}
	}
}

// DiffPullRequests compares the current open set against the known numbers.
// It returns the pull requests whose numbers are new, in input order, and
// the known numbers no longer open, ascending.
func DiffPullRequests(known map[int]bool, current []hosting.PullRequest) (fresh []hosting.PullRequest, closed []int) {
	currentSet := make(map[int]bool, len(current))
	for _, pr := range current {
		currentSet[pr.Number] = true
		if !known[pr.Number] {
			fresh = append(fresh, pr)
		}
	}
	for number := range known {
		if !currentSet[number] {
			closed = append(closed, number)
		}
	}
	sort.Ints(closed)
	return fresh, closed
}
