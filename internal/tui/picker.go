package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCanceled is returned when the operator backs out of a picker.
var ErrCanceled = errors.New("selection canceled")

type pickerModel struct {
	theme   theme
	title   string
	options []string
	cursor  int

	width  int
	height int

	canceled bool
}

func newPickerModel(title string, options []string, def int) pickerModel {
	if def < 0 || def >= len(options) {
		def = 0
	}
	return pickerModel{theme: newTheme(), title: title, options: options, cursor: def}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.canceled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter":
			return m, tea.Quit
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(msg.String()[0] - '1')
			if idx < len(m.options) {
				m.cursor = idx
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	lines := []string{m.theme.title.Render(m.title), ""}
	for i, opt := range m.options {
		if i == m.cursor {
			lines = append(lines, m.theme.cursor.Render("> "+opt))
			continue
		}
		lines = append(lines, m.theme.text.Render("  "+opt))
	}
	lines = append(lines, "", m.theme.help.Render("up/down move | enter select | 1-9 jump | q cancel"))

	body := strings.Join(lines, "\n")
	if m.width > 0 {
		return m.theme.panel.Width(m.width - 2).Render(body)
	}
	return body
}

// Pick runs an alt-screen picker over options and returns the chosen index.
func Pick(title string, options []string, def int) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("nothing to pick from")
	}

	program := tea.NewProgram(newPickerModel(title, options, def), tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return 0, err
	}
	result, ok := finalModel.(pickerModel)
	if !ok {
		return 0, fmt.Errorf("unexpected picker model type %T", finalModel)
	}
	if result.canceled {
		return 0, ErrCanceled
	}
	return result.cursor, nil
}
