package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/models"
)

type fakeSession struct {
	state    focus.State
	complete int
	failed   int
	stopped  int
	acked    int
}

func (f *fakeSession) State() focus.State { return f.state }

func (f *fakeSession) MarkComplete() error {
	f.complete++
	f.state.Task.Status = models.StatusCompleted
	f.state.StreakCount++
	return nil
}

func (f *fakeSession) MarkFailed() error {
	f.failed++
	f.state.Task.Status = models.StatusExpired
	f.state.Task.Remaining = 0
	return nil
}

func (f *fakeSession) StopTask() {
	f.stopped++
	f.state.Task = models.Task{Status: models.StatusIdle}
}

func (f *fakeSession) Acknowledge() error {
	f.acked++
	f.state.Task = models.Task{Status: models.StatusIdle}
	return nil
}

func running(name string, total, remaining time.Duration) *fakeSession {
	return &fakeSession{state: focus.State{Task: models.Task{
		Name:      name,
		Total:     total,
		Remaining: remaining,
		Status:    models.StatusRunning,
	}}}
}

func press(m Model, k string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return next.(Model)
}

func TestViewShowsCountdown(t *testing.T) {
	m := NewModel(running("Write report", 25*time.Minute, 12*time.Minute+5*time.Second))

	view := m.View()
	if !strings.Contains(view, "Write report") {
		t.Errorf("expected task name in view, got:\n%s", view)
	}
	if !strings.Contains(view, "12:05") {
		t.Errorf("expected remaining time in view, got:\n%s", view)
	}
	if got := m.Percent(); got < 0.48 || got > 0.49 {
		t.Errorf("Percent() = %v", got)
	}
}

func TestTickRefreshesState(t *testing.T) {
	s := running("Write report", 10*time.Minute, 10*time.Minute)
	m := NewModel(s)

	s.state.Task.Remaining = 9 * time.Minute
	next, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected tick to reschedule")
	}
	if got := next.(Model).state.Task.Remaining; got != 9*time.Minute {
		t.Errorf("expected refreshed remaining, got %v", got)
	}
}

func TestDoneKeyCompletes(t *testing.T) {
	s := running("Write report", 10*time.Minute, 5*time.Minute)
	m := press(NewModel(s), "d")

	if s.complete != 1 {
		t.Fatalf("expected MarkComplete, got %d calls", s.complete)
	}
	if m.state.Task.Status != models.StatusCompleted {
		t.Errorf("expected completed state, got %s", m.state.Task.Status)
	}
	if m.message == "" {
		t.Error("expected a completion message")
	}

	// Done is ignored once the task is no longer running.
	press(m, "d")
	if s.complete != 1 {
		t.Errorf("expected no second MarkComplete, got %d", s.complete)
	}
}

func TestFailThenAcknowledge(t *testing.T) {
	s := running("Write report", 10*time.Minute, 5*time.Minute)
	m := press(NewModel(s), "f")
	if s.failed != 1 || m.state.Task.Status != models.StatusExpired {
		t.Fatalf("expected expired after fail, got %+v", m.state.Task)
	}
	if !strings.Contains(m.View(), "Time's up!") {
		t.Errorf("expected expiry banner, got:\n%s", m.View())
	}

	m = press(m, "a")
	if s.acked != 1 || m.state.Task.Status != models.StatusIdle {
		t.Errorf("expected idle after ack, got %+v", m.state.Task)
	}
}

func TestDoneKeyCompletesExpiredTask(t *testing.T) {
	s := running("Write report", 10*time.Minute, 5*time.Minute)
	m := press(NewModel(s), "f")
	if m.state.Task.Status != models.StatusExpired {
		t.Fatalf("expected expired, got %s", m.state.Task.Status)
	}

	m = press(m, "d")
	if s.complete != 1 {
		t.Fatalf("expected MarkComplete after expiry, got %d calls", s.complete)
	}
	if m.state.Task.Status != models.StatusCompleted || m.message == "" {
		t.Errorf("expected completed state with a message, got %+v %q", m.state.Task, m.message)
	}
}

func TestAckIgnoredWhileRunning(t *testing.T) {
	s := running("Write report", 10*time.Minute, 5*time.Minute)
	press(NewModel(s), "a")
	if s.acked != 0 {
		t.Errorf("expected ack to be ignored while running")
	}
}

func TestStopKey(t *testing.T) {
	s := running("Write report", 10*time.Minute, 5*time.Minute)
	m := press(NewModel(s), "s")
	if s.stopped != 1 || m.state.Task.Status != models.StatusIdle {
		t.Errorf("expected stop, got %+v", m.state.Task)
	}
	if !strings.Contains(m.View(), "Session stopped.") {
		t.Errorf("expected stop message, got:\n%s", m.View())
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(running("Write report", time.Minute, time.Minute))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if next.(Model).View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestBlockingNotice(t *testing.T) {
	s := &fakeSession{state: focus.State{
		Task:     models.Task{Status: models.StatusIdle},
		Blocking: true,
		Settings: models.Settings{BlockedApps: []string{"slack", "discord"}},
	}}
	if !strings.Contains(NewModel(s).View(), "2 app(s) blocked") {
		t.Errorf("expected shield notice, got:\n%s", NewModel(s).View())
	}
}
