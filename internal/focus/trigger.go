package focus

import (
	"context"
	"time"

	"github.com/julianstephens/eatthefrog/internal/clock"
	"github.com/julianstephens/eatthefrog/internal/logger"
)

// resetMargin keeps the trigger from firing a hair before midnight when the
// wall clock and the timer disagree slightly.
const resetMargin = 2 * time.Second

// NextReset returns when the daily trigger should next fire after now.
func NextReset(c clock.Clock, now time.Time) time.Time {
	return clock.NextDayStart(c, now).Add(resetMargin)
}

// DailyTrigger fires CheckForDailyReset at each local midnight.
type DailyTrigger struct {
	engine *Engine
	// wait blocks until d has passed or ctx is done. Tests replace it.
	wait func(ctx context.Context, d time.Duration) error
}

// NewDailyTrigger returns a trigger bound to engine.
func NewDailyTrigger(engine *Engine) *DailyTrigger {
	return &DailyTrigger{engine: engine, wait: sleepCtx}
}

// Run checks for a missed reset immediately, then once per local day until
// ctx is cancelled.
func (t *DailyTrigger) Run(ctx context.Context) error {
	c := t.engine.Clock()
	t.engine.CheckForDailyReset()

	for {
		next := NextReset(c, c.Now())
		d := next.Sub(c.Now())
		logger.Debug("next daily reset scheduled", "at", next, "in", d)

		if err := t.wait(ctx, d); err != nil {
			return err
		}
		if !t.engine.CheckForDailyReset() {
			logger.Debug("daily reset already applied")
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d < 0 {
		d = 0
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
