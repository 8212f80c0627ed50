package focus

import (
	"time"

	"github.com/julianstephens/eatthefrog/internal/models"
)

// EventType names an engine transition.
type EventType string

const (
	EventTaskStarted   EventType = "task.started"
	EventTaskExpired   EventType = "task.expired"
	EventTaskCompleted EventType = "task.completed"
	EventTaskStopped   EventType = "task.stopped"
	EventTaskResumed   EventType = "task.resumed"
	EventDailyReset    EventType = "daily.reset"
)

// Event describes one committed transition.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	SessionID string        `json:"session_id,omitempty"`
	TaskName  string        `json:"task_name,omitempty"`
	Status    models.Status `json:"status"`
	Remaining time.Duration `json:"remaining"`
	Streak    int           `json:"streak"`
	At        time.Time     `json:"at"`
}

// EventSink observes engine transitions. Publish is called with the engine
// lock held, so implementations must not call back into the engine.
type EventSink interface {
	Publish(Event)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}
