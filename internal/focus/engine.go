// Package focus implements the frog session state machine: task lifecycle,
// countdown, completion history, streaks, daily reset and the shield and
// notification side effects that go with them.
package focus

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/eatthefrog/internal/clock"
	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/logger"
	"github.com/julianstephens/eatthefrog/internal/models"
)

// ExpiryNoticeDelay is how long after expiry the time's-up notice goes out.
// Completing or stopping within the delay cancels it.
const ExpiryNoticeDelay = time.Second

// Shield binds the blocked application set to the OS-level shield.
// Both calls must be idempotent.
type Shield interface {
	Block(apps []string) error
	Unblock() error
}

// ShieldReader is implemented by shields whose block outlives the process.
// A new engine starts from the reported state instead of assuming unblocked.
type ShieldReader interface {
	Blocking() (bool, error)
}

// Notifier schedules the time's-up notice. A new schedule replaces any pending one.
type Notifier interface {
	ScheduleExpiryNotice(after time.Duration) error
	Cancel()
}

// Timer drives the countdown by calling onTick once per tick unit.
// Stop must not block on an in-flight onTick.
type Timer interface {
	Start(onTick func())
	Stop()
}

// RecordStore persists the engine record.
type RecordStore interface {
	LoadRecord() (models.Record, error)
	SaveRecord(models.Record) error
}

// Options wires an Engine. Only Store is required.
type Options struct {
	Store    RecordStore
	Shield   Shield
	Notifier Notifier
	Timer    Timer
	Clock    clock.Clock
	Events   EventSink
	Settings models.Settings
	// TickUnit is what one Tick removes from the remaining time. Defaults to one second.
	TickUnit time.Duration
}

// State is a read-only view of the engine.
type State struct {
	Task           models.Task
	StreakCount    int
	History        []time.Time
	LastDailyReset time.Time
	CompletedToday bool
	Blocking       bool
	Suspended      bool
	Unsaved        bool
	Settings       models.Settings
}

// Engine owns the frog session state machine. All commands serialize on one
// mutex so the timer goroutine, daily trigger and user commands never interleave.
type Engine struct {
	mu       sync.Mutex
	store    RecordStore
	shield   Shield
	notifier Notifier
	timer    Timer
	clock    clock.Clock
	events   EventSink
	settings models.Settings
	tickUnit time.Duration

	rec      models.Record
	blocking bool
	unsaved  bool
	timerGen uint64
}

// New builds an engine and reconstructs its state from the store. A store
// that can't be read leaves the engine idle in memory; the next successful
// persist overwrites whatever was there.
func New(opts Options) *Engine {
	e := &Engine{
		store:    opts.Store,
		shield:   opts.Shield,
		notifier: opts.Notifier,
		timer:    opts.Timer,
		clock:    opts.Clock,
		events:   opts.Events,
		settings: opts.Settings,
		tickUnit: opts.TickUnit,
	}
	models.ApplyDefaultSettings(&e.settings)
	e.settings.BlockedApps = models.NormalizeApps(e.settings.BlockedApps)

	if e.tickUnit <= 0 {
		e.tickUnit = constants.TickUnit
	}
	if e.shield == nil {
		e.shield = nopShield{}
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.timer == nil {
		e.timer = NewIntervalTimer(e.tickUnit)
	}
	if e.events == nil {
		e.events = nopSink{}
	}
	if e.clock == nil {
		sys, err := clock.NewSystem(e.settings.Timezone)
		if err != nil {
			logger.Warn("falling back to local time", "timezone", e.settings.Timezone, "error", err)
			sys, _ = clock.NewSystem(constants.DefaultTimezone)
		}
		e.clock = sys
	}

	rec, err := e.store.LoadRecord()
	if err != nil {
		logger.Warn("loading task record failed; starting idle", "error", fmt.Errorf("%w: %v", ErrPersistence, err))
		rec = models.NewRecord()
		e.unsaved = true
	}
	if !rec.Task.Status.IsValid() {
		rec.Task.Status = models.StatusIdle
	}
	if rec.Task.Status == models.StatusRunning && rec.Snapshot == nil {
		// The last process died without suspending; count from the start.
		rec.Snapshot = orphanSnapshot(rec.Task, e.clock.Now())
		logger.Info("recovering running task without snapshot", "task", rec.Task.Name, "started_at", rec.Task.StartedAt)
	}
	e.rec = rec

	if r, ok := e.shield.(ShieldReader); ok {
		blocking, err := r.Blocking()
		if err != nil {
			logger.Warn("reading shield state failed", "error", err)
		}
		e.blocking = blocking
	}

	return e
}

// State returns a copy of the current engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.rec.Clone()
	apps := append([]string(nil), e.settings.BlockedApps...)
	settings := e.settings
	settings.BlockedApps = apps

	return State{
		Task:           rec.Task,
		StreakCount:    rec.StreakCount,
		History:        rec.History,
		LastDailyReset: rec.LastDailyReset,
		CompletedToday: e.completedTodayLocked(),
		Blocking:       e.blocking,
		Suspended:      rec.Snapshot != nil,
		Unsaved:        e.unsaved,
		Settings:       settings,
	}
}

// Clock returns the engine's time source.
func (e *Engine) Clock() clock.Clock { return e.clock }

// StartTask begins a new frog session. A running session is replaced.
func (e *Engine) StartTask(name string, duration time.Duration) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidTask)
	}
	if duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidTask, duration)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimerLocked()
	e.notifier.Cancel()

	if e.rec.Task.Status == models.StatusRunning {
		logger.Info("replacing running session", "session", e.rec.Task.SessionID, "task", e.rec.Task.Name)
	}

	e.rec.Task = models.Task{
		Name:      name,
		Total:     duration,
		Remaining: duration,
		Status:    models.StatusRunning,
		SessionID: uuid.NewString(),
		StartedAt: e.clock.Now(),
	}
	e.rec.Snapshot = nil

	e.blockLocked("task started")
	e.startTimerLocked()
	e.persistLocked()
	e.emitLocked(EventTaskStarted)

	logger.Info("task started", "task", name, "duration", duration, "session", e.rec.Task.SessionID)
	return nil
}

// Tick advances a running countdown by one tick unit. It does nothing
// unless a task is running.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickLocked()
}

func (e *Engine) tickLocked() {
	if e.rec.Task.Status != models.StatusRunning {
		return
	}

	e.rec.Task.Remaining -= e.tickUnit
	if e.rec.Task.Remaining <= 0 {
		e.rec.Task.Remaining = 0
		e.expireLocked("timer elapsed")
	}
}

// MarkComplete finishes the running or expired frog, unblocks apps and
// records today in the completion history. Completing an already completed
// task is a no-op so duplicate confirmations from the UI are harmless.
func (e *Engine) MarkComplete() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.rec.Task.Status {
	case models.StatusCompleted:
		logger.Debug("task already completed", "session", e.rec.Task.SessionID)
		return nil
	case models.StatusRunning, models.StatusExpired:
	default:
		return fmt.Errorf("%w: nothing to complete", ErrNoActiveTask)
	}

	e.stopTimerLocked()
	e.notifier.Cancel()
	e.rec.Task.Status = models.StatusCompleted
	e.rec.Snapshot = nil
	e.unblockLocked("task completed")

	today := e.clock.StartOfDay(e.clock.Now())
	var added bool
	e.rec.History, e.rec.StreakCount, added = AppendCompletion(e.clock, e.rec.History, e.rec.StreakCount, today)
	if !added {
		logger.Debug("completion already recorded for today", "day", clock.DayKey(e.clock, today))
	}

	e.persistLocked()
	e.emitLocked(EventTaskCompleted)

	logger.Info("task completed", "task", e.rec.Task.Name, "streak", e.rec.StreakCount)
	return nil
}

// MarkFailed gives up on the running frog: it expires immediately, apps stay
// blocked and the time's-up notice goes out.
func (e *Engine) MarkFailed() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.rec.Task.Status {
	case models.StatusExpired:
		return nil
	case models.StatusRunning:
		e.expireLocked("marked failed")
		return nil
	default:
		return fmt.Errorf("%w: nothing to fail", ErrNoActiveTask)
	}
}

// StopTask cancels the session from any state. History and streak are untouched.
func (e *Engine) StopTask() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimerLocked()
	e.notifier.Cancel()
	e.resetTaskLocked()
	e.unblockLocked("task stopped")
	e.persistLocked()
	e.emitLocked(EventTaskStopped)

	logger.Info("task stopped", "task", e.rec.Task.Name)
}

// Acknowledge returns a completed or expired task to idle once the UI has
// shown the result. An acknowledged expiry keeps apps blocked while the
// daily frog is still owed.
func (e *Engine) Acknowledge() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := e.rec.Task.Status
	if !status.IsTerminal() {
		return fmt.Errorf("%w: task is %s", ErrNoActiveTask, status)
	}

	e.resetTaskLocked()
	if status == models.StatusExpired && !e.dailyFrogOwedLocked() {
		e.unblockLocked("expired task acknowledged")
	}
	e.persistLocked()
	return nil
}

// SaveSnapshot records the remaining time and the suspend instant so a later
// RestoreSnapshot can account for wall-clock time spent suspended. The
// time's-up notice is scheduled for the remainder so it can go out while
// the countdown itself is not running.
func (e *Engine) SaveSnapshot() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rec.Task.Status != models.StatusRunning {
		return
	}

	e.stopTimerLocked()
	e.rec.Snapshot = &models.Snapshot{
		Remaining:   e.rec.Task.Remaining,
		SuspendedAt: e.clock.Now(),
	}
	if e.settings.NotificationsEnabled {
		if err := e.notifier.ScheduleExpiryNotice(e.rec.Task.Remaining); err != nil {
			logger.Warn("scheduling expiry notice failed", "error", wrapIf(err, ErrSchedulingFailure))
		}
	}
	e.persistLocked()

	logger.Debug("snapshot saved", "remaining", e.rec.Task.Remaining)
}

// RestoreSnapshot consumes a saved snapshot and cancels the notice scheduled
// with it. Elapsed wall-clock time is subtracted from the saved remainder; a
// countdown that ran out while suspended expires immediately, otherwise it
// resumes.
func (e *Engine) RestoreSnapshot() {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.rec.Snapshot
	if snap == nil {
		return
	}
	e.rec.Snapshot = nil
	e.notifier.Cancel()

	if e.rec.Task.Status != models.StatusRunning {
		e.persistLocked()
		return
	}

	elapsed := e.clock.Now().Sub(snap.SuspendedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := snap.Remaining - elapsed
	if remaining < 0 {
		remaining = 0
	}
	if remaining > e.rec.Task.Total {
		remaining = e.rec.Task.Total
	}
	e.rec.Task.Remaining = remaining

	if remaining == 0 {
		e.expireLocked("expired while suspended")
		return
	}

	e.blockLocked("session resumed")
	e.startTimerLocked()
	e.persistLocked()
	e.emitLocked(EventTaskResumed)

	logger.Debug("snapshot restored", "elapsed", elapsed, "remaining", remaining)
}

// CheckForDailyReset runs the once-per-day re-evaluation. It reports whether
// a new day was processed; further calls on the same local day do nothing.
func (e *Engine) CheckForDailyReset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.clock.StartOfDay(e.clock.Now())
	if !e.rec.LastDailyReset.IsZero() && !today.After(e.rec.LastDailyReset) {
		return false
	}
	e.rec.LastDailyReset = today

	// Yesterday's finished task no longer needs acknowledging.
	if e.rec.Task.Status.IsTerminal() {
		e.resetTaskLocked()
	}

	if n := len(e.rec.History); n > 0 {
		last := e.rec.History[n-1]
		if last.Before(clock.AddDays(e.clock, today, -1)) && e.rec.StreakCount != 0 {
			logger.Info("streak lapsed", "last_completion", clock.DayKey(e.clock, last), "streak", e.rec.StreakCount)
			e.rec.StreakCount = 0
		}
	}

	switch {
	case e.dailyFrogOwedLocked():
		e.blockLocked("daily frog required")
	case !e.settings.DailyFrogRequired && e.rec.Task.Status != models.StatusRunning:
		e.unblockLocked("new day")
	}

	e.persistLocked()
	e.emitLocked(EventDailyReset)

	logger.Info("daily reset", "day", clock.DayKey(e.clock, today), "blocking", e.blocking)
	return true
}

// EnforceShield re-asserts the block while the daily frog is owed and reports
// whether it did. Unlike CheckForDailyReset it runs every time it is called.
func (e *Engine) EnforceShield() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.dailyFrogOwedLocked() && e.rec.Task.Status != models.StatusRunning {
		return false
	}
	e.blockLocked("shield enforced")
	return true
}

// UpdateSettings replaces the engine's settings. If apps are currently
// blocked the shield is re-asserted with the new set.
func (e *Engine) UpdateSettings(s models.Settings) {
	models.ApplyDefaultSettings(&s)
	s.BlockedApps = models.NormalizeApps(s.BlockedApps)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings = s
	if e.blocking {
		e.blockLocked("settings changed")
	}
}

func (e *Engine) expireLocked(reason string) {
	e.stopTimerLocked()
	e.rec.Task.Status = models.StatusExpired
	e.rec.Task.Remaining = 0
	e.rec.Snapshot = nil
	e.blockLocked(reason)

	if e.settings.NotificationsEnabled {
		if err := e.notifier.ScheduleExpiryNotice(ExpiryNoticeDelay); err != nil {
			logger.Warn("scheduling expiry notice failed", "error", wrapIf(err, ErrSchedulingFailure))
		}
	}

	e.persistLocked()
	e.emitLocked(EventTaskExpired)

	logger.Info("task expired", "task", e.rec.Task.Name, "reason", reason)
}

// orphanSnapshot stands in for the snapshot of a running task whose process
// exited without suspending. Without a start time the persisted remainder
// is all there is to go on.
func orphanSnapshot(t models.Task, now time.Time) *models.Snapshot {
	if t.StartedAt.IsZero() {
		return &models.Snapshot{Remaining: t.Remaining, SuspendedAt: now}
	}
	return &models.Snapshot{Remaining: t.Total, SuspendedAt: t.StartedAt}
}

func (e *Engine) resetTaskLocked() {
	e.rec.Task = models.Task{
		Name:   e.rec.Task.Name,
		Status: models.StatusIdle,
	}
	e.rec.Snapshot = nil
}

func (e *Engine) completedTodayLocked() bool {
	today := e.clock.StartOfDay(e.clock.Now())
	for _, day := range e.rec.History {
		if clock.SameDay(e.clock, day, today) {
			return true
		}
	}
	return false
}

func (e *Engine) dailyFrogOwedLocked() bool {
	return e.settings.DailyFrogRequired && !e.completedTodayLocked()
}

func (e *Engine) blockLocked(reason string) {
	if err := e.shield.Block(e.settings.BlockedApps); err != nil {
		logger.Warn("blocking apps failed", "reason", reason, "denied", errors.Is(err, ErrAuthorizationDenied), "error", err)
		return
	}
	e.blocking = true
	logger.Debug("apps blocked", "reason", reason, "apps", len(e.settings.BlockedApps))
}

func (e *Engine) unblockLocked(reason string) {
	if err := e.shield.Unblock(); err != nil {
		logger.Warn("unblocking apps failed", "reason", reason, "denied", errors.Is(err, ErrAuthorizationDenied), "error", err)
		return
	}
	e.blocking = false
	logger.Debug("apps unblocked", "reason", reason)
}

func (e *Engine) startTimerLocked() {
	e.timerGen++
	gen := e.timerGen
	e.timer.Start(func() { e.onTimer(gen) })
}

func (e *Engine) stopTimerLocked() {
	e.timerGen++
	e.timer.Stop()
}

// onTimer drops ticks from a timer generation that has since been stopped.
func (e *Engine) onTimer(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.timerGen {
		return
	}
	e.tickLocked()
}

// persistLocked is the single commit point of every command. Failures are
// logged and remembered; the next successful save rewrites the full record.
func (e *Engine) persistLocked() {
	if err := e.store.SaveRecord(e.rec.Clone()); err != nil {
		e.unsaved = true
		logger.Warn("persisting task record failed; continuing in memory", "error", fmt.Errorf("%w: %v", ErrPersistence, err))
		return
	}
	if e.unsaved {
		logger.Info("task record reconciled with store")
		e.unsaved = false
	}
}

func (e *Engine) emitLocked(t EventType) {
	e.events.Publish(Event{
		ID:        uuid.NewString(),
		Type:      t,
		SessionID: e.rec.Task.SessionID,
		TaskName:  e.rec.Task.Name,
		Status:    e.rec.Task.Status,
		Remaining: e.rec.Task.Remaining,
		Streak:    e.rec.StreakCount,
		At:        e.clock.Now(),
	})
}

func wrapIf(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

type nopShield struct{}

func (nopShield) Block([]string) error { return nil }
func (nopShield) Unblock() error       { return nil }

type nopNotifier struct{}

func (nopNotifier) ScheduleExpiryNotice(time.Duration) error { return nil }
func (nopNotifier) Cancel()                                  {}
