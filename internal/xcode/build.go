package xcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/prflight-io/prflight/internal/logging"
	"github.com/prflight-io/prflight/internal/project"
)

// Builds always run the Debug configuration; FindArtifact searches the
// matching output directory.
const buildConfiguration = "Debug"

// BuildSpec describes one xcodebuild invocation.
type BuildSpec struct {
	Project         project.Descriptor
	Scheme          string
	Destination     Destination
	DerivedDataPath string
	WorkingDir      string
}

// LineFunc receives one line of subprocess output without its trailing
// newline.
type LineFunc func(line string)

// Build runs xcodebuild for the given spec, streaming stdout and stderr
// line by line as they are produced. The returned exit code is zero on
// success; non-zero means the build ran and failed. An *InvocationError
// means xcodebuild never ran.
func (t *Toolchain) Build(ctx context.Context, spec BuildSpec, stdout, stderr LineFunc) (int, error) {
	args := buildArgs(spec)
	logging.Debug("starting build", "scheme", spec.Scheme, "destination", spec.Destination.ID)

	cmd := exec.CommandContext(ctx, "xcodebuild", args...)
	cmd.Dir = spec.WorkingDir

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return 0, &InvocationError{Tool: "xcodebuild", Err: err}
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return 0, &InvocationError{Tool: "xcodebuild", Err: err}
	}
	if err := cmd.Start(); err != nil {
		return 0, &InvocationError{Tool: "xcodebuild", Err: err}
	}

	var g errgroup.Group
	g.Go(func() error { return scanLines(outPipe, stdout) })
	g.Go(func() error { return scanLines(errPipe, stderr) })
	scanErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("waiting for xcodebuild: %w", err)
	}
	if scanErr != nil {
		return -1, fmt.Errorf("reading build output: %w", scanErr)
	}
	return 0, nil
}

func buildArgs(spec BuildSpec) []string {
	var args []string
	if spec.Project.Aggregate {
		args = append(args, "-workspace", spec.Project.Path)
	} else {
		args = append(args, "-project", spec.Project.Path)
	}
	args = append(args,
		"-scheme", spec.Scheme,
		"-configuration", buildConfiguration,
		"-destination", destinationArg(spec.Destination),
		"-derivedDataPath", spec.DerivedDataPath,
		"build",
	)
	// Simulator builds never need signing, and forcing it off removes a
	// whole class of environment-dependent failures.
	if spec.Destination.Kind == KindSimulator {
		args = append(args, "CODE_SIGNING_ALLOWED=NO", "CODE_SIGN_IDENTITY=")
	}
	return args
}

func destinationArg(dest Destination) string {
	if dest.Kind == KindSimulator {
		return "platform=iOS Simulator,id=" + dest.ID
	}
	return "id=" + dest.ID
}

// scanLines delivers each line from r to fn. xcodebuild emits very long
// lines for compile commands, so the scanner buffer is enlarged.
func scanLines(r io.Reader, fn LineFunc) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		if fn != nil {
			fn(scanner.Text())
		}
	}
	return scanner.Err()
}
