package xcode

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/prflight-io/prflight/internal/logging"
)

// Simulator is one installed simulator device reported by simctl.
type Simulator struct {
	Name     string
	UDID     string
	State    string // Shutdown, Booted, Booting, Shutting Down
	Platform string // display label derived from the runtime identifier
}

// Device is a physically connected device reported by xctrace.
type Device struct {
	Name       string
	Identifier string
	Platform   string // OS version as printed by xctrace, e.g. "17.0.3"
}

// DestinationKind distinguishes simulator and physical destinations.
type DestinationKind string

const (
	KindSimulator DestinationKind = "simulator"
	KindDevice    DestinationKind = "device"
)

// Destination is a build target selected by the operator. ID is the only
// value used to address install and launch commands; display names are not
// guaranteed unique.
type Destination struct {
	Kind     DestinationKind
	Name     string
	ID       string
	Platform string
	State    string // simulators only
}

// SimulatorDestination wraps a Simulator as a selectable destination.
func SimulatorDestination(sim Simulator) Destination {
	return Destination{
		Kind:     KindSimulator,
		Name:     sim.Name,
		ID:       sim.UDID,
		Platform: sim.Platform,
		State:    sim.State,
	}
}

// DeviceDestination wraps a Device as a selectable destination.
func DeviceDestination(dev Device) Destination {
	return Destination{
		Kind:     KindDevice,
		Name:     dev.Name,
		ID:       dev.Identifier,
		Platform: dev.Platform,
	}
}

func (d Destination) String() string {
	if d.Kind == KindSimulator && d.State != "" {
		return fmt.Sprintf("%s (%s, %s)", d.Name, d.Platform, d.State)
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.Platform)
}

// ListDestinations enumerates available simulators and connected devices.
// Device enumeration is best-effort: if xctrace is missing or fails, the
// simulator list is still returned with no devices.
func (t *Toolchain) ListDestinations(ctx context.Context) ([]Simulator, []Device, error) {
	simOut, err := t.run.Output(ctx, "xcrun", "simctl", "list", "devices", "--json")
	if err != nil {
		return nil, nil, &InvocationError{Tool: "simctl", Err: err}
	}
	sims, err := parseSimulators(simOut)
	if err != nil {
		return nil, nil, fmt.Errorf("parse simulator list: %w", err)
	}

	devOut, err := t.run.Output(ctx, "xcrun", "xctrace", "list", "devices")
	if err != nil {
		logging.Debug("device listing failed", "error", err)
		return sims, nil, nil
	}
	return sims, parseDeviceLines(string(devOut)), nil
}

const runtimePrefix = "com.apple.CoreSimulator.SimRuntime."

// simctlList matches simctl list devices --json output: a map from runtime
// identifier to the devices installed for that runtime.
type simctlList struct {
	Devices map[string][]simctlDevice `json:"devices"`
}

type simctlDevice struct {
	Name        string `json:"name"`
	UDID        string `json:"udid"`
	State       string `json:"state"`
	IsAvailable bool   `json:"isAvailable"`
}

func parseSimulators(data []byte) ([]Simulator, error) {
	var list simctlList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}

	var sims []Simulator
	for runtime, devices := range list.Devices {
		label := runtimeLabel(runtime)
		for _, d := range devices {
			if !d.IsAvailable {
				continue
			}
			sims = append(sims, Simulator{
				Name:     d.Name,
				UDID:     d.UDID,
				State:    d.State,
				Platform: label,
			})
		}
	}
	sortSimulators(sims)
	return sims, nil
}

// runtimeLabel turns a SimRuntime identifier into a display label:
// com.apple.CoreSimulator.SimRuntime.iOS-17-0 becomes "iOS 17 0".
func runtimeLabel(runtime string) string {
	label := strings.TrimPrefix(runtime, runtimePrefix)
	return strings.ReplaceAll(label, "-", " ")
}

// sortSimulators orders the newest platform first, then by device name so
// the list is stable across runs.
func sortSimulators(sims []Simulator) {
	sort.Slice(sims, func(i, j int) bool {
		if sims[i].Platform != sims[j].Platform {
			return sims[i].Platform > sims[j].Platform
		}
		return sims[i].Name < sims[j].Name
	})
}

// deviceLine matches "<name> (<version>) (<hex id>)" as printed by xctrace
// for connected hardware.
var deviceLine = regexp.MustCompile(`^(.+) \((\d[\d.]*)\) \(([0-9A-Fa-f-]+)\)$`)

// parseDeviceLines extracts connected devices from xctrace list output.
// Lines that do not match the expected shape, and simulator entries, are
// dropped without error.
func parseDeviceLines(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "Simulator") {
			continue
		}
		m := deviceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		devices = append(devices, Device{
			Name:       m[1],
			Identifier: m[3],
			Platform:   m[2],
		})
	}
	return devices
}
