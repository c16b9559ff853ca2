// Package ui is the operator-facing action prompt shown before a run.
package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Action int

const (
	ActionMigrate Action = iota
	ActionExport
	ActionBoth
)

var actionLabels = []string{
	"Migrate data to the backend",
	"Export legacy tables to CSV",
	"Both",
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

var ErrAborted = errors.New("operator aborted")

type model struct {
	cursor   int
	chosen   bool
	quitting bool
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(actionLabels)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	if m.chosen || m.quitting {
		return ""
	}

	view := titleStyle.Render("Clinic records migration") + "\n"
	for i, label := range actionLabels {
		if i == m.cursor {
			view += cursorStyle.Render("> "+label) + "\n"
		} else {
			view += "  " + label + "\n"
		}
	}
	view += dimStyle.Render("\n↑/↓ select · enter confirm · q quit")
	return view
}

// ChooseAction runs the prompt and returns the selected action, or
// ErrAborted when the operator bails out.
func ChooseAction() (Action, error) {
	m := &model{}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return 0, fmt.Errorf("running action prompt: %w", err)
	}
	if !m.chosen {
		return 0, ErrAborted
	}
	return Action(m.cursor), nil
}
