package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.state = m.session.State()
		return m, m.tick()

	case tea.WindowSizeMsg:
		w := min(max(msg.Width-4, 10), 60)
		m.progress.Width = w
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	status := m.state.Task.Status

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Done):
		// A frog finished after the timer ran out still counts.
		if status != models.StatusRunning && status != models.StatusExpired {
			break
		}
		if m.err = m.session.MarkComplete(); m.err == nil {
			m.message = focus.CompletionMessage()
		}

	case key.Matches(msg, m.keys.Fail):
		if status != models.StatusRunning {
			break
		}
		m.err = m.session.MarkFailed()

	case key.Matches(msg, m.keys.Stop):
		if status != models.StatusRunning {
			break
		}
		m.session.StopTask()
		m.message = "Session stopped."

	case key.Matches(msg, m.keys.Ack):
		if !status.IsTerminal() {
			break
		}
		if m.err = m.session.Acknowledge(); m.err == nil {
			m.message = ""
		}
	}

	m.state = m.session.State()
	return m, nil
}
