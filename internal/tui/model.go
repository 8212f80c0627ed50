// Package tui is the live countdown shown by `frog run`.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eatthefrog/internal/focus"
)

// Session is the part of the engine the countdown drives.
type Session interface {
	State() focus.State
	MarkComplete() error
	MarkFailed() error
	StopTask()
	Acknowledge() error
}

type tickMsg time.Time

type Model struct {
	session  Session
	state    focus.State
	keys     KeyMap
	help     help.Model
	progress progress.Model
	refresh  time.Duration

	message  string
	err      error
	quitting bool
}

// NewModel returns a countdown over session. The view only polls; the
// engine's own timer moves the clock.
func NewModel(session Session) Model {
	return Model{
		session:  session,
		state:    session.State(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		refresh:  250 * time.Millisecond,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Percent is the share of the session still remaining.
func (m Model) Percent() float64 {
	total := m.state.Task.Total
	if total <= 0 {
		return 0
	}
	p := float64(m.state.Task.Remaining) / float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
