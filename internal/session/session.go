// Package session sequences the interactive flows: pick a repository and
// pull request, materialize a checkout, resolve a build target, and drive
// the build loop. All collaborators are injected so the flows can be tested
// without network, git, or Xcode.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prflight-io/prflight/internal/engine"
	"github.com/prflight-io/prflight/internal/hosting"
	"github.com/prflight-io/prflight/internal/project"
	"github.com/prflight-io/prflight/internal/xcode"
)

// HostingService is the slice of the hosting API the driver consumes.
type HostingService interface {
	ListRepositories(ctx context.Context) ([]hosting.Repository, error)
	GetRepository(ctx context.Context, owner, name string) (*hosting.Repository, error)
	ListOpenPullRequests(ctx context.Context, owner, name string) ([]hosting.PullRequest, error)
}

// TargetResolver enumerates what can be built and where it can run.
type TargetResolver interface {
	ListSchemes(ctx context.Context, proj project.Descriptor) ([]string, error)
	ListDestinations(ctx context.Context) ([]xcode.Simulator, []xcode.Device, error)
}

// Runner executes one build attempt.
type Runner interface {
	Execute(ctx context.Context, req engine.Request) (*engine.Outcome, error)
}

// Prompter asks the operator to pick from a list or confirm an action.
type Prompter interface {
	Select(title string, options []string, def int) (int, error)
	Confirm(prompt string, def bool) (bool, error)
}

// MaterializeFunc produces a working copy of the given branch at targetPath.
type MaterializeFunc func(ctx context.Context, remoteURL, branch, targetPath string) error

// LocateFunc scans a working copy for buildable projects.
type LocateFunc func(root string) ([]project.Descriptor, error)

// Driver owns one interactive session. Fields are wired by the CLI layer.
type Driver struct {
	Hosting      HostingService
	Targets      TargetResolver
	Runner       Runner
	Prompter     Prompter
	Materialize  MaterializeFunc
	Locate       LocateFunc
	CheckoutRoot string
	Out          io.Writer
}

// Run is the one-shot flow: pick a repository, pick an open pull request,
// and run the full build orchestration once. repo may carry a preselected
// "owner/name"; when empty the operator picks from their repositories.
func (d *Driver) Run(ctx context.Context, repo string) error {
	selected, err := d.selectRepository(ctx, repo)
	if err != nil {
		return err
	}

	prs, err := d.Hosting.ListOpenPullRequests(ctx, selected.Owner.Login, selected.Name)
	if err != nil {
		return err
	}
	if len(prs) == 0 {
		fmt.Fprintf(d.Out, "No open pull requests in %s.\n", selected.FullName)
		return nil
	}

	pr, err := d.selectPullRequest(prs)
	if err != nil {
		return err
	}
	return d.BuildPullRequest(ctx, selected, pr)
}

func (d *Driver) selectRepository(ctx context.Context, preset string) (*hosting.Repository, error) {
	if preset != "" {
		owner, name, err := hosting.ParseRepo(preset)
		if err != nil {
			return nil, err
		}
		return d.Hosting.GetRepository(ctx, owner, name)
	}

	repos, err := d.Hosting.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, errors.New("no repositories accessible with this token")
	}

	options := make([]string, len(repos))
	for i, r := range repos {
		options[i] = r.FullName
	}
	idx, err := d.Prompter.Select("Select a repository", options, 0)
	if err != nil {
		return nil, err
	}
	return &repos[idx], nil
}

func (d *Driver) selectPullRequest(prs []hosting.PullRequest) (*hosting.PullRequest, error) {
	options := make([]string, len(prs))
	for i, pr := range prs {
		options[i] = formatPullRequest(pr)
	}
	idx, err := d.Prompter.Select("Select a pull request", options, 0)
	if err != nil {
		return nil, err
	}
	return &prs[idx], nil
}

func formatPullRequest(pr hosting.PullRequest) string {
	label := fmt.Sprintf("#%d %s", pr.Number, pr.Title)
	if pr.Draft {
		label += " [draft]"
	}
	return fmt.Sprintf("%s (@%s, %s)", label, pr.User.Login, pr.Head.Ref)
}
