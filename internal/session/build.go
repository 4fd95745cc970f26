package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prflight-io/prflight/internal/engine"
	"github.com/prflight-io/prflight/internal/hosting"
	"github.com/prflight-io/prflight/internal/project"
	"github.com/prflight-io/prflight/internal/workspace"
	"github.com/prflight-io/prflight/internal/xcode"
)

// BuildPullRequest checks out the pull request's head branch, resolves a
// project, scheme, and destination, and enters the build loop.
func (d *Driver) BuildPullRequest(ctx context.Context, repo *hosting.Repository, pr *hosting.PullRequest) error {
	checkout := workspace.CheckoutPath(d.CheckoutRoot, repo.Owner.Login, repo.Name, pr.Number)
	fmt.Fprintf(d.Out, "Checking out %s at %s...\n", repo.FullName, pr.Head.Ref)
	if err := d.Materialize(ctx, repo.CloneURL, pr.Head.Ref, checkout); err != nil {
		return err
	}

	projects, err := d.Locate(checkout)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return fmt.Errorf("no Xcode project found in %s", checkout)
	}
	proj, err := d.selectProject(projects)
	if err != nil {
		return err
	}

	schemes, err := d.Targets.ListSchemes(ctx, *proj)
	if err != nil {
		return err
	}
	scheme, err := d.selectScheme(schemes)
	if err != nil {
		return err
	}

	return d.buildLoop(ctx, *proj, scheme, checkout)
}

// buildLoop runs attempt/decision cycles until success or abort. Project
// and scheme stay fixed for the whole loop; only the destination changes,
// and only through Reselect. There is no retry bound; the operator decides.
func (d *Driver) buildLoop(ctx context.Context, proj project.Descriptor, scheme, checkout string) error {
	dest, err := d.selectDestination(ctx)
	if err != nil {
		return err
	}

	for {
		outcome, err := d.Runner.Execute(ctx, engine.Request{
			Project:     proj,
			Scheme:      scheme,
			Destination: *dest,
			CheckoutDir: checkout,
		})
		if err != nil {
			return err
		}

		if outcome.Status == engine.StatusSucceeded {
			d.printSuccess(outcome)
			return nil
		}

		d.printFailure(outcome.Failure)
		decision, err := d.promptDecision()
		if err != nil {
			return err
		}
		switch decision {
		case engine.Retry:
			// Destination unchanged.
		case engine.Reselect:
			dest, err = d.selectDestination(ctx)
			if err != nil {
				return err
			}
		case engine.Abort:
			fmt.Fprintln(d.Out, "Build aborted.")
			return nil
		}
	}
}

func (d *Driver) selectProject(projects []project.Descriptor) (*project.Descriptor, error) {
	if len(projects) == 1 {
		fmt.Fprintf(d.Out, "Using project %s.\n", projects[0].Name)
		return &projects[0], nil
	}

	options := make([]string, len(projects))
	for i, p := range projects {
		kind := "project"
		if p.Aggregate {
			kind = "workspace"
		}
		options[i] = fmt.Sprintf("%s (%s)", p.Name, kind)
	}
	idx, err := d.Prompter.Select("Select a project", options, 0)
	if err != nil {
		return nil, err
	}
	return &projects[idx], nil
}

func (d *Driver) selectScheme(schemes []string) (string, error) {
	if len(schemes) == 1 {
		fmt.Fprintf(d.Out, "Using scheme %s.\n", schemes[0])
		return schemes[0], nil
	}
	idx, err := d.Prompter.Select("Select a scheme", schemes, 0)
	if err != nil {
		return "", err
	}
	return schemes[idx], nil
}

// selectDestination always queries a fresh listing so externally changed
// simulator state is picked up between attempts.
func (d *Driver) selectDestination(ctx context.Context) (*xcode.Destination, error) {
	sims, devices, err := d.Targets.ListDestinations(ctx)
	if err != nil {
		return nil, err
	}

	dests := make([]xcode.Destination, 0, len(sims)+len(devices))
	for _, sim := range sims {
		dests = append(dests, xcode.SimulatorDestination(sim))
	}
	for _, dev := range devices {
		dests = append(dests, xcode.DeviceDestination(dev))
	}
	if len(dests) == 0 {
		return nil, errors.New("no simulators or devices available")
	}

	options := make([]string, len(dests))
	for i, dst := range dests {
		options[i] = dst.String()
	}
	idx, err := d.Prompter.Select("Select a destination", options, 0)
	if err != nil {
		return nil, err
	}
	return &dests[idx], nil
}

func (d *Driver) promptDecision() (engine.Decision, error) {
	idx, err := d.Prompter.Select("Build failed. What next?", []string{
		"Retry with the same destination",
		"Reselect destination",
		"Abort",
	}, 0)
	if err != nil {
		return engine.Abort, err
	}
	return engine.Decision(idx), nil
}

func (d *Driver) printSuccess(outcome *engine.Outcome) {
	fmt.Fprintf(d.Out, "\nBuild succeeded in %s.\n", outcome.Duration.Round(100*time.Millisecond))
	if outcome.BundleID != "" {
		fmt.Fprintf(d.Out, "Launched %s.\n", outcome.BundleID)
	}
	for _, w := range outcome.Warnings {
		fmt.Fprintf(d.Out, "warning: %s\n", w)
	}
}

func (d *Driver) printFailure(failure *engine.BuildFailedError) {
	fmt.Fprintf(d.Out, "\nBuild failed (exit code %d):\n", failure.ExitCode)
	for _, entry := range failure.Entries {
		fmt.Fprintf(d.Out, "\n%s\n", entry)
	}
	if failure.More > 0 {
		fmt.Fprintf(d.Out, "\n... %d more\n", failure.More)
	}
}
