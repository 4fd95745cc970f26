package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/prflight-io/prflight/internal/engine"
)

// tailSize bounds how many recent progress lines stay on screen.
const tailSize = 8

type buildEventMsg struct {
	event engine.Event
}

type buildDoneMsg struct {
	outcome *engine.Outcome
	err     error
}

type buildModel struct {
	theme   theme
	spinner spinner.Model
	cancel  context.CancelFunc

	scheme      string
	destination string

	stage    string
	failed   bool
	tail     []string
	warnings []string

	width  int
	height int

	started  time.Time
	stopping bool
	done     bool

	outcome *engine.Outcome
	err     error
}

func newBuildModel(req engine.Request, cancel context.CancelFunc) buildModel {
	th := newTheme()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = th.info
	return buildModel{
		theme:       th,
		spinner:     sp,
		cancel:      cancel,
		scheme:      req.Scheme,
		destination: req.Destination.Name,
		stage:       "Preparing",
		started:     time.Now(),
	}
}

func (m buildModel) Init() tea.Cmd { return m.spinner.Tick }

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil && !m.stopping {
				m.stopping = true
				m.stage = "Canceling"
				m.cancel()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case buildEventMsg:
		m.applyEvent(msg.event)

	case buildDoneMsg:
		m.outcome = msg.outcome
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *buildModel) applyEvent(ev engine.Event) {
	switch {
	case ev.Phase == "build" && ev.Status == "started":
		m.stage = "Preparing"
	case ev.Phase == "build" && ev.Status == "progress":
		if stage := stageFor(ev.Message); stage != "" {
			m.stage = stage
		}
		m.appendTail(ev.Message)
	case ev.Phase == "build" && ev.Status == "success":
		m.stage = "Built"
	case ev.Phase == "build" && ev.Status == "error":
		m.stage = "Failed"
		m.failed = true
	case ev.Status == "warning":
		m.warnings = append(m.warnings, ev.Message)
	case ev.Phase == "install" && ev.Status == "started":
		m.stage = "Installing"
	case ev.Phase == "launch" && ev.Status == "started":
		m.stage = "Launching"
	case ev.Phase == "launch" && ev.Status == "success":
		m.stage = "Launched"
	}
}

func (m *buildModel) appendTail(line string) {
	m.tail = append(m.tail, line)
	if len(m.tail) > tailSize {
		m.tail = m.tail[len(m.tail)-tailSize:]
	}
}

// stageFor maps a raw xcodebuild line to the stage label shown next to the
// spinner.
func stageFor(line string) string {
	switch {
	case strings.Contains(line, "Compiling"):
		return "Compiling"
	case strings.Contains(line, "Linking"):
		return "Linking"
	case strings.Contains(line, "Signing"):
		return "Signing"
	case strings.Contains(line, "Copying"):
		return "Copying"
	case strings.Contains(line, "Processing"):
		return "Processing"
	case strings.Contains(line, "Generating"):
		return "Generating"
	case strings.Contains(line, "Building"):
		return "Building"
	}
	return ""
}

func (m buildModel) View() string {
	if m.width == 0 {
		return "Starting build..."
	}

	header := m.theme.panel.Width(m.width - 2).Render(strings.Join([]string{
		m.theme.title.Render("prflight build"),
		m.theme.subtitle.Render(fmt.Sprintf("%s on %s", m.scheme, m.destination)),
	}, "\n"))

	stageStyle := m.theme.info
	switch {
	case m.failed:
		stageStyle = m.theme.danger
	case m.stopping:
		stageStyle = m.theme.warn
	case m.stage == "Built" || m.stage == "Launched":
		stageStyle = m.theme.ok
	}
	elapsed := time.Since(m.started).Round(time.Second)
	lines := []string{
		fmt.Sprintf("%s %s  %s", m.spinner.View(), stageStyle.Render(m.stage), m.theme.muted.Render(elapsed.String())),
		"",
	}
	for _, line := range m.tail {
		lines = append(lines, m.theme.muted.Render(truncate(line, m.width-6)))
	}
	for _, w := range m.warnings {
		lines = append(lines, m.theme.warn.Render(truncate("warning: "+w, m.width-6)))
	}
	body := m.theme.panel.Width(m.width - 2).Height(tailSize + 3).Render(strings.Join(lines, "\n"))

	footer := m.theme.panel.Width(m.width - 2).Render(m.theme.help.Render("ctrl+c cancel"))
	return strings.Join([]string{header, body, footer}, "\n")
}

// Runner satisfies the session build runner by rendering each attempt in an
// alt-screen progress view. Engine events arrive over program.Send from the
// worker goroutine; the view quits when the attempt finishes.
type Runner struct {
	Tool engine.BuildTool
}

func (r *Runner) Execute(ctx context.Context, req engine.Request) (*engine.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newBuildModel(req, cancel), tea.WithAltScreen())

	go func() {
		orch := engine.NewOrchestrator(r.Tool, func(ev engine.Event) {
			program.Send(buildEventMsg{event: ev})
		})
		outcome, err := orch.Execute(ctx, req)
		program.Send(buildDoneMsg{outcome: outcome, err: err})
	}()

	finalModel, err := program.Run()
	if err != nil {
		return nil, err
	}
	result, ok := finalModel.(buildModel)
	if !ok {
		return nil, fmt.Errorf("unexpected build model type %T", finalModel)
	}
	return result.outcome, result.err
}
