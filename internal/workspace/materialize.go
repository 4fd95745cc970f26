// Package workspace materializes pull request head branches into clean
// local working copies.
package workspace

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CheckoutError reports a failed clone or branch verification. Checkout
// failures are fatal to the run; the operator fixes the cause and reruns.
type CheckoutError struct {
	URL    string
	Branch string
	Stage  string // "clone" or "verify"
	Output string
	Err    error
}

func (e *CheckoutError) Error() string {
	msg := fmt.Sprintf("checkout of %s at branch %s failed during %s", e.URL, e.Branch, e.Stage)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// gitRunner executes one git invocation and returns its combined output.
type gitRunner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

type execGit struct{}

func (execGit) Run(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, "git", args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Materializer produces local working copies checked out to a requested
// branch.
type Materializer struct {
	git gitRunner
}

func NewMaterializer() *Materializer {
	return &Materializer{git: execGit{}}
}

// Materialize clones the requested branch of remoteURL into targetPath.
// Any prior content at targetPath is deleted first, so a partial earlier
// checkout never blocks a rerun. The clone is shallow and single-branch;
// afterwards the checked-out branch is verified to equal the requested
// one exactly, guarding against a silent default-branch fallback by git.
func (m *Materializer) Materialize(ctx context.Context, remoteURL, branch, targetPath string) error {
	if err := os.RemoveAll(targetPath); err != nil {
		return fmt.Errorf("failed to remove previous checkout %s: %w", targetPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return fmt.Errorf("failed to create checkout parent directory: %w", err)
	}

	out, err := m.git.Run(ctx, "clone", "--depth", "1", "--single-branch", "--branch", branch, remoteURL, targetPath)
	if err != nil {
		return &CheckoutError{URL: remoteURL, Branch: branch, Stage: "clone", Output: out, Err: err}
	}

	head, err := m.git.Run(ctx, "-C", targetPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return &CheckoutError{URL: remoteURL, Branch: branch, Stage: "verify", Output: head, Err: err}
	}
	if head != branch {
		return &CheckoutError{
			URL:    remoteURL,
			Branch: branch,
			Stage:  "verify",
			Output: fmt.Sprintf("checked out branch %q, wanted %q", head, branch),
		}
	}

	return nil
}

// CheckoutPath returns the scratch directory for one (repository, pull
// request) pair under root.
func CheckoutPath(root, owner, repo string, number int) string {
	return filepath.Join(root, fmt.Sprintf("%s-%s-pr%d", owner, repo, number))
}
