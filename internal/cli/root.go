package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/eatthefrog/internal/backup"
	"github.com/julianstephens/eatthefrog/internal/clock"
	"github.com/julianstephens/eatthefrog/internal/config"
	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/logger"
	"github.com/julianstephens/eatthefrog/internal/notifier"
	"github.com/julianstephens/eatthefrog/internal/shield"
	"github.com/julianstephens/eatthefrog/internal/storage"
)

// Context carries the collaborators every command shares. The engine is
// built lazily so commands that never touch the session (init, keyring,
// backups) don't load it.
type Context struct {
	Config   *config.Config
	Store    storage.Provider
	Shield   *shield.FileShield
	Notifier *notifier.Scheduler
	Events   focus.EventSink

	// Clock and Timer override the engine defaults, for tests.
	Clock clock.Clock
	Timer focus.Timer

	engine       *focus.Engine
	resetApplied bool
}

// Engine returns the session engine, building it on first use. A fresh
// engine consumes any suspend snapshot and runs the daily reset check, so
// every command sees the countdown as of now.
func (c *Context) Engine() (*focus.Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	opts := focus.Options{
		Store:    c.Store,
		Settings: settings,
		Clock:    c.Clock,
		Timer:    c.Timer,
		Events:   c.Events,
	}
	// Assigned separately so a nil pointer never becomes a non-nil interface.
	if c.Shield != nil {
		opts.Shield = c.Shield
	}
	if c.Notifier != nil {
		opts.Notifier = c.Notifier
	}
	if c.Config != nil {
		opts.TickUnit = c.Config.Daemon.TickInterval
	}

	e := focus.New(opts)
	e.RestoreSnapshot()
	c.resetApplied = e.CheckForDailyReset()

	c.engine = e
	return e, nil
}

// ResetApplied reports whether building the engine processed a new day.
func (c *Context) ResetApplied() bool { return c.resetApplied }

// Release suspends the engine so the next process can pick the countdown
// up, and delivers any notice that is still pending. The next Engine call
// builds a fresh engine from the store.
func (c *Context) Release() {
	if c.engine == nil {
		return
	}
	c.engine.SaveSnapshot()
	c.engine = nil

	if c.Notifier != nil {
		if err := c.Notifier.Flush(); err != nil {
			logger.Warn("delivering pending notice failed", "error", err)
		}
	}
}

// Close releases the engine, drains the event sink and closes the store.
func (c *Context) Close() error {
	c.Release()
	if closer, ok := c.Events.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("closing event sink failed", "error", err)
		}
	}
	return c.Store.Close()
}

// PerformAutomaticBackup creates an automatic backup of a SQLite store and
// only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if c.Config == nil || storage.DetectBackend(c.Config.Database) != storage.BackendSQLite {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FormatDuration renders a countdown as MM:SS, or H:MM:SS past an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ParseMinutes turns a positive minute count into a duration.
func ParseMinutes(minutes int) (time.Duration, error) {
	if minutes <= 0 {
		return 0, fmt.Errorf("duration must be at least one minute, got %d", minutes)
	}
	return time.Duration(minutes) * time.Minute, nil
}
