// Package xcode shells out to the Xcode command line tools: xcodebuild for
// scheme listing and builds, simctl for simulator enumeration and control,
// and xctrace for connected device discovery.
package xcode

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// runner abstracts subprocess execution so parsing and control logic can be
// tested without the Xcode tools installed.
type runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner invokes real processes. Stderr is folded into the returned
// error because the Apple tools report almost everything there.
type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, err
	}
	return out, nil
}

// Toolchain wraps the Xcode command line tools behind a testable surface.
type Toolchain struct {
	run runner
}

// New returns a Toolchain backed by the real command line tools.
func New() *Toolchain {
	return &Toolchain{run: execRunner{}}
}

// InvocationError reports a toolchain process that could not run at all, as
// opposed to one that ran and reported a failure.
type InvocationError struct {
	Tool string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s invocation failed: %v", e.Tool, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }
