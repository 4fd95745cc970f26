package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/prflight-io/prflight/internal/engine"
	"github.com/prflight-io/prflight/internal/hosting"
	"github.com/prflight-io/prflight/internal/project"
	"github.com/prflight-io/prflight/internal/session"
	"github.com/prflight-io/prflight/internal/settings"
	"github.com/prflight-io/prflight/internal/tui"
	"github.com/prflight-io/prflight/internal/workspace"
	"github.com/prflight-io/prflight/internal/xcode"
)

// colorize returns the ANSI escape code, or nothing when color is off.
func colorize(code string) string {
	if noColor {
		return ""
	}
	return code
}

// loadSettings resolves the credential store and user config from their
// default locations.
func loadSettings() (*settings.Store, settings.Config, error) {
	credPath, err := settings.DefaultPath()
	if err != nil {
		return nil, settings.Config{}, err
	}
	cfgPath, err := settings.DefaultConfigPath()
	if err != nil {
		return nil, settings.Config{}, err
	}
	return settings.NewStore(credPath), settings.LoadConfig(cfgPath), nil
}

func hostingOptions(cfg settings.Config) []hosting.Option {
	var opts []hosting.Option
	if cfg.APIBaseURL != "" {
		opts = append(opts, hosting.WithBaseURL(cfg.APIBaseURL))
	}
	return opts
}

// newHostingClient builds an authenticated client, or tells the operator
// to log in when no credential is resolvable.
func newHostingClient(store *settings.Store, cfg settings.Config) (*hosting.Client, error) {
	token := settings.ResolveToken(store)
	if token == "" {
		return nil, errors.New("no credential found, run `prflight login` first")
	}
	return hosting.NewClient(token, hostingOptions(cfg)...), nil
}

// newDriver wires the interactive session stack. withUI selects the
// alt-screen prompter and build view; it only takes effect on a terminal.
func newDriver(withUI bool) (*session.Driver, settings.Config, error) {
	store, cfg, err := loadSettings()
	if err != nil {
		return nil, settings.Config{}, err
	}
	client, err := newHostingClient(store, cfg)
	if err != nil {
		return nil, settings.Config{}, err
	}
	checkoutRoot, err := cfg.CheckoutRoot()
	if err != nil {
		return nil, settings.Config{}, err
	}

	tool := xcode.New()
	driver := &session.Driver{
		Hosting:      client,
		Targets:      tool,
		Materialize:  workspace.NewMaterializer().Materialize,
		Locate:       project.Locate,
		CheckoutRoot: checkoutRoot,
		Out:          os.Stdout,
	}
	if withUI && term.IsTerminal(int(os.Stdout.Fd())) {
		driver.Prompter = tui.Prompter{}
		driver.Runner = &tui.Runner{Tool: tool}
	} else {
		driver.Prompter = session.NewStdinPrompter(os.Stdin, os.Stdout)
		driver.Runner = engine.NewOrchestrator(tool, plainProgress(os.Stdout))
	}
	return driver, cfg, nil
}

// plainProgress narrates engine events on the line-oriented path.
func plainProgress(out io.Writer) engine.EventFunc {
	return func(ev engine.Event) {
		switch {
		case ev.Phase == "build" && ev.Status == "started":
			fmt.Fprintf(out, "Building %s...\n", ev.Message)
		case ev.Phase == "build" && ev.Status == "progress":
			fmt.Fprintf(out, "  %s\n", ev.Message)
		case ev.Phase == "install" && ev.Status == "started":
			fmt.Fprintf(out, "Installing %s...\n", ev.Message)
		case ev.Phase == "launch" && ev.Status == "started":
			fmt.Fprintf(out, "Launching %s...\n", ev.Message)
		}
	}
}
