package system

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/models"
)

func TestDaemonExpiresAndNotifies(t *testing.T) {
	env := newTestEnv(t, monday)
	env.init(t)
	env.ctx.Config.Daemon.EnforceInterval = 5 * time.Minute

	e, err := env.ctx.Engine()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.StartTask("Write report", 2*time.Minute); err != nil {
		t.Fatal(err)
	}
	env.ctx.Release()

	var waits []time.Duration
	d := &DaemonCmd{sleep: func(_ context.Context, wait time.Duration) error {
		waits = append(waits, wait)
		env.clock.Advance(wait)
		if len(waits) == 3 {
			return context.Canceled
		}
		return nil
	}}

	if err := d.loop(context.Background(), env.ctx); err != nil {
		t.Fatalf("daemon loop failed: %v", err)
	}

	// First wake is exactly at expiry, then back to the enforce interval.
	if waits[0] != 2*time.Minute || waits[1] != 5*time.Minute {
		t.Errorf("unexpected waits %v", waits)
	}

	rec, err := env.ctx.Store.LoadRecord()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Task.Status != models.StatusExpired {
		t.Errorf("expected expired, got %s", rec.Task.Status)
	}
	sent := env.sender.sent()
	if len(sent) != 1 || sent[0] != constants.ExpiryNoticeTitle {
		t.Errorf("expected one expiry notice, got %v", sent)
	}

	st, err := env.ctx.Shield.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !st.Blocking {
		t.Error("shield should stay up after expiry")
	}
}

func TestDaemonWakesForDailyReset(t *testing.T) {
	env := newTestEnv(t, time.Date(2025, 3, 10, 23, 59, 50, 0, time.UTC))
	env.init(t)

	d := &DaemonCmd{Once: true}
	if err := d.loop(context.Background(), env.ctx); err != nil {
		t.Fatal(err)
	}

	e, err := env.ctx.Engine()
	if err != nil {
		t.Fatal(err)
	}
	defer env.ctx.Release()
	if got := nextWake(e, 30*time.Second); got != 12*time.Second {
		t.Errorf("expected to wake 2s after midnight, got %s", got)
	}
}
