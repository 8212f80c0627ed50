package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/logger"
	"github.com/julianstephens/eatthefrog/internal/models"
)

// DaemonCmd keeps the session honest in the background: it re-asserts the
// shield, runs the daily reset shortly after midnight and expires countdowns
// on time. Every pass reopens the session from the store so commands run in
// other processes are picked up.
type DaemonCmd struct {
	Once bool `help:"Run a single pass and exit."`

	sleep func(context.Context, time.Duration) error
}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.loop(sigCtx, ctx)
}

func (c *DaemonCmd) loop(runCtx context.Context, ctx *cli.Context) error {
	sleep := c.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	logger.Info("daemon started")
	for {
		wait, err := c.pass(ctx)
		if err != nil {
			return err
		}
		if c.Once {
			return nil
		}
		logger.Debug("daemon sleeping", "for", wait)
		if err := sleep(runCtx, wait); err != nil {
			logger.Info("daemon stopped")
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// pass runs one check and returns how long to wait before the next one.
func (c *DaemonCmd) pass(ctx *cli.Context) (time.Duration, error) {
	e, err := ctx.Engine()
	if err != nil {
		return 0, fmt.Errorf("daemon pass failed: %w", err)
	}
	defer ctx.Release()

	e.EnforceShield()

	interval := 30 * time.Second
	if ctx.Config != nil {
		interval = ctx.Config.Daemon.EnforceInterval
	}
	return nextWake(e, interval), nil
}

// nextWake is the sooner of the enforce interval, the next daily reset and
// the running countdown's expiry.
func nextWake(e *focus.Engine, interval time.Duration) time.Duration {
	c := e.Clock()
	now := c.Now()

	wait := interval
	if d := focus.NextReset(c, now).Sub(now); d < wait {
		wait = d
	}
	if st := e.State(); st.Task.Status == models.StatusRunning && st.Task.Remaining < wait {
		wait = st.Task.Remaining
	}
	if wait < time.Second {
		wait = time.Second
	}
	return wait
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
