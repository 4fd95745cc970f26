// Package tui renders the full-screen pickers and the build progress view.
// It is only active when the operator asks for it and stdout is a terminal;
// every flow it covers also works over plain line prompts.
package tui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	panel    lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	text     lipgloss.Style
	muted    lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	danger   lipgloss.Style
	info     lipgloss.Style
	cursor   lipgloss.Style
	help     lipgloss.Style
}

func newTheme() theme {
	return theme{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#445060")).
			Padding(0, 1),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A8D8FF")),
		subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C7CFDB")),
		text: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D9DEE6")),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#707E8E")),
		ok: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6FC786")),
		warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E2B45E")),
		danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E06B6B")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6FB6FF")),
		cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10141A")).
			Background(lipgloss.Color("#6FB6FF")),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8C9BAD")),
	}
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
