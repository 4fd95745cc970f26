package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prflight-io/prflight/internal/logging"
	"github.com/prflight-io/prflight/internal/xcode"
)

// progressKeywords are the xcodebuild stage markers surfaced as progress
// events. All other output lines are captured for diagnostics but not
// interpreted.
var progressKeywords = []string{
	"Compiling", "Linking", "Building", "Generating", "Signing", "Copying", "Processing",
}

func progressKeyword(line string) string {
	for _, kw := range progressKeywords {
		if strings.Contains(line, kw) {
			return kw
		}
	}
	return ""
}

// Execute runs one build attempt. A failed build is a normal outcome, not
// an error; the returned error is reserved for the toolchain not running at
// all.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (*Outcome, error) {
	runID := uuid.NewString()
	start := time.Now()
	o.emit(Event{
		RunID:   runID,
		Phase:   "build",
		Status:  "started",
		Message: fmt.Sprintf("%s on %s", req.Scheme, req.Destination.Name),
	})

	// The stdout and stderr readers run in separate goroutines, so the
	// captured transcript needs a lock.
	var mu sync.Mutex
	var captured []string
	capture := func(line string) {
		mu.Lock()
		captured = append(captured, line)
		mu.Unlock()
	}
	onStdout := func(line string) {
		capture(line)
		if progressKeyword(line) != "" {
			o.emit(Event{RunID: runID, Phase: "build", Status: "progress", Message: strings.TrimSpace(line)})
		}
	}
	onStderr := func(line string) {
		capture(line)
		// Toolchain warnings are expected noise; anything else on stderr
		// deserves attention.
		if strings.Contains(line, "warning:") {
			logging.Debug("toolchain warning", "line", line)
		} else {
			logging.Warn("toolchain stderr", "line", line)
		}
	}

	exitCode, err := o.tool.Build(ctx, xcode.BuildSpec{
		Project:         req.Project,
		Scheme:          req.Scheme,
		Destination:     req.Destination,
		DerivedDataPath: req.derivedDataPath(),
		WorkingDir:      req.CheckoutDir,
	}, onStdout, onStderr)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	if exitCode != 0 {
		failure := classifyFailure(captured, exitCode)
		o.emit(Event{RunID: runID, Phase: "build", Status: "error", Message: failure.Error(), Duration: duration})
		return &Outcome{RunID: runID, Status: StatusFailed, Failure: failure, Duration: duration}, nil
	}

	o.emit(Event{RunID: runID, Phase: "build", Status: "success", Duration: duration})
	outcome := &Outcome{RunID: runID, Status: StatusSucceeded, Duration: duration}

	// Physical destinations install and launch as part of the build itself;
	// only simulators need the explicit chain.
	if req.Destination.Kind == xcode.KindSimulator {
		o.installAndLaunch(ctx, runID, req, outcome)
	}
	return outcome, nil
}

// installAndLaunch runs the post-build chain for a simulator destination.
// Each failure appends a warning and stops the chain; the build itself
// succeeded, so the outcome is never demoted.
func (o *Orchestrator) installAndLaunch(ctx context.Context, runID string, req Request, outcome *Outcome) {
	warn := func(phase, msg string) {
		outcome.Warnings = append(outcome.Warnings, msg)
		o.emit(Event{RunID: runID, Phase: phase, Status: "warning", Message: msg})
		logging.Warn(msg)
	}

	artifact, err := xcode.FindArtifact(req.derivedDataPath(), true)
	if err != nil {
		warn("install", fmt.Sprintf("artifact lookup failed: %v", err))
		return
	}
	outcome.Artifact = artifact

	udid, err := o.resolveSimulatorID(ctx, req.Destination.Name)
	if err != nil {
		warn("install", fmt.Sprintf("simulator lookup failed: %v", err))
		return
	}

	if err := o.tool.BootSimulator(ctx, udid); err != nil {
		warn("install", fmt.Sprintf("simulator boot failed: %v", err))
		return
	}
	o.tool.OpenSimulatorApp(ctx)

	o.emit(Event{RunID: runID, Phase: "install", Status: "started", Message: filepath.Base(artifact)})
	if err := o.tool.InstallApp(ctx, udid, artifact); err != nil {
		warn("install", fmt.Sprintf("install failed: %v", err))
		return
	}
	o.emit(Event{RunID: runID, Phase: "install", Status: "success", Message: filepath.Base(artifact)})

	bundleID, err := xcode.BundleIdentifier(artifact)
	if err != nil {
		warn("launch", fmt.Sprintf("bundle identifier lookup failed: %v", err))
		return
	}
	outcome.BundleID = bundleID

	o.emit(Event{RunID: runID, Phase: "launch", Status: "started", Message: bundleID})
	if err := o.tool.LaunchApp(ctx, udid, bundleID); err != nil {
		warn("launch", fmt.Sprintf("launch failed: %v", err))
		return
	}
	o.emit(Event{RunID: runID, Phase: "launch", Status: "success", Message: bundleID})
}

// resolveSimulatorID matches the destination's display name against a
// freshly queried simulator list. The ID stored at selection time is never
// reused here because the operator may have changed simulator state between
// attempts.
func (o *Orchestrator) resolveSimulatorID(ctx context.Context, name string) (string, error) {
	sims, _, err := o.tool.ListDestinations(ctx)
	if err != nil {
		return "", err
	}
	for _, sim := range sims {
		if sim.Name == name {
			return sim.UDID, nil
		}
	}
	return "", fmt.Errorf("no available simulator named %q", name)
}
