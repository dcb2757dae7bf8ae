package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.currentScene = SceneResults
		return m, nil

	case RunCompleteMsg:
		m.result = msg.Result
		m.err = msg.Err
		m.table.SetRows(rows(msg.Result))
		m.currentScene = SceneResults
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.currentScene {
	case SceneResults:
		switch msg.String() {
		case "enter":
			if it, ok := m.selected(); ok {
				m.detail.SetContent(renderDetail(it))
				m.detail.GotoTop()
				m.currentScene = SceneDetail
			}
			return m, nil
		}
		m.table, cmd = m.table.Update(msg)

	case SceneDetail:
		switch msg.String() {
		case "esc", "backspace":
			m.currentScene = SceneResults
			return m, nil
		}
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

// resize fits the table and detail view to the terminal
func (m *Model) resize() {
	// title, subtitle, totals, status bar and padding
	available := m.height - 10
	if available < 3 {
		available = 3
	}
	m.table.SetHeight(available)
	m.detail.Width = m.width - 4
	m.detail.Height = available + 2
}
