package xcode

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/prflight-io/prflight/internal/logging"
)

// BootSimulator boots the simulator with the given UDID. Booting an
// already-booted simulator is not an error.
func (t *Toolchain) BootSimulator(ctx context.Context, udid string) error {
	if _, err := t.run.Output(ctx, "xcrun", "simctl", "boot", udid); err != nil {
		if strings.Contains(err.Error(), "current state: Booted") {
			return nil
		}
		return fmt.Errorf("boot simulator %s: %w", udid, err)
	}
	return nil
}

// OpenSimulatorApp brings the Simulator host application to the foreground
// so the operator can see the launched app. Failure is logged and ignored;
// install and launch do not depend on it.
func (t *Toolchain) OpenSimulatorApp(ctx context.Context) {
	if _, err := t.run.Output(ctx, "open", "-a", "Simulator"); err != nil {
		logging.Debug("opening Simulator app failed", "error", err)
	}
}

// InstallApp installs the .app bundle at appPath on the simulator with the
// given UDID.
func (t *Toolchain) InstallApp(ctx context.Context, udid, appPath string) error {
	if _, err := t.run.Output(ctx, "xcrun", "simctl", "install", udid, appPath); err != nil {
		return fmt.Errorf("install %s on %s: %w", filepath.Base(appPath), udid, err)
	}
	return nil
}

// LaunchApp launches an installed app on the simulator by bundle
// identifier.
func (t *Toolchain) LaunchApp(ctx context.Context, udid, bundleID string) error {
	if _, err := t.run.Output(ctx, "xcrun", "simctl", "launch", udid, bundleID); err != nil {
		return fmt.Errorf("launch %s on %s: %w", bundleID, udid, err)
	}
	return nil
}
