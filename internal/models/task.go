package models

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of the current frog.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusIdle, StatusRunning, StatusCompleted, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the task has finished and is waiting to be acknowledged.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// ParseStatus converts a stored status string into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown task status %q", v)
	}
	return s, nil
}

// Task is the active commitment: the day's frog and its countdown.
type Task struct {
	Name      string        `json:"name"`
	Total     time.Duration `json:"total"`
	Remaining time.Duration `json:"remaining"`
	Status    Status        `json:"status"`
	SessionID string        `json:"session_id,omitempty"`
	StartedAt time.Time     `json:"started_at,omitempty"`
}

// Snapshot is the suspend/resume pair written when the host goes to the background.
type Snapshot struct {
	Remaining   time.Duration `json:"remaining"`
	SuspendedAt time.Time     `json:"suspended_at"`
}

// Record is everything the engine persists between runs.
type Record struct {
	Task           Task        `json:"task"`
	StreakCount    int         `json:"streak_count"`
	History        []time.Time `json:"history"` // local day starts, ascending, unique
	LastDailyReset time.Time   `json:"last_daily_reset,omitempty"`
	Snapshot       *Snapshot   `json:"snapshot,omitempty"`
}

// NewRecord returns an empty record with an idle task.
func NewRecord() Record {
	return Record{Task: Task{Status: StatusIdle}}
}

// Clone returns a deep copy so callers can't mutate engine state through slices or pointers.
func (r Record) Clone() Record {
	out := r
	if r.History != nil {
		out.History = append([]time.Time(nil), r.History...)
	}
	if r.Snapshot != nil {
		snap := *r.Snapshot
		out.Snapshot = &snap
	}
	return out
}
