// Package engine orchestrates one build-run attempt: it drives the
// toolchain, classifies failures, and runs the install/launch chain for
// simulator destinations. Retry decisions belong to the caller; the engine
// only reports outcomes.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/prflight-io/prflight/internal/project"
	"github.com/prflight-io/prflight/internal/xcode"
)

// BuildTool is the subset of the toolchain the orchestrator drives.
type BuildTool interface {
	Build(ctx context.Context, spec xcode.BuildSpec, stdout, stderr xcode.LineFunc) (int, error)
	ListDestinations(ctx context.Context) ([]xcode.Simulator, []xcode.Device, error)
	BootSimulator(ctx context.Context, udid string) error
	OpenSimulatorApp(ctx context.Context)
	InstallApp(ctx context.Context, udid, appPath string) error
	LaunchApp(ctx context.Context, udid, bundleID string) error
}

// Request describes one build attempt. A retry constructs a new Request
// reusing the same selections; the struct is never mutated.
type Request struct {
	Project     project.Descriptor
	Scheme      string
	Destination xcode.Destination
	CheckoutDir string
}

func (r Request) derivedDataPath() string {
	return filepath.Join(r.CheckoutDir, "build")
}

// Status is the terminal state of one build attempt.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Outcome is the result of one Execute call. Warnings carry install/launch
// problems that occurred after a successful build; they never demote the
// status.
type Outcome struct {
	RunID    string
	Status   Status
	Failure  *BuildFailedError
	Warnings []string
	Artifact string
	BundleID string
	Duration time.Duration
}

// Decision is the operator's choice after a failed attempt. Reselect clears
// only the destination; project and scheme stay selected.
type Decision int

const (
	Retry Decision = iota
	Reselect
	Abort
)

func (d Decision) String() string {
	switch d {
	case Retry:
		return "retry"
	case Reselect:
		return "reselect"
	case Abort:
		return "abort"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Event reports orchestration progress.
type Event struct {
	RunID    string
	Phase    string // "build", "install", "launch"
	Status   string // "started", "progress", "success", "warning", "error"
	Message  string
	Duration time.Duration
}

// EventFunc is called for each event if set.
type EventFunc func(event Event)

// Orchestrator executes build requests against a toolchain.
type Orchestrator struct {
	tool   BuildTool
	events EventFunc
}

// NewOrchestrator returns an orchestrator reporting progress through events,
// which may be nil.
func NewOrchestrator(tool BuildTool, events EventFunc) *Orchestrator {
	return &Orchestrator{tool: tool, events: events}
}

func (o *Orchestrator) emit(event Event) {
	if o.events != nil {
		o.events(event)
	}
}
