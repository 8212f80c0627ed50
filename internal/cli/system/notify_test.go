package system

import (
	"testing"
	"time"

	"github.com/julianstephens/eatthefrog/internal/constants"
)

func TestNotifyCmdEnforcesShield(t *testing.T) {
	env := newTestEnv(t, monday)
	env.init(t)
	settings, _ := env.ctx.Store.GetSettings()
	settings.BlockedApps = []string{"com.social.app"}
	if err := env.ctx.Store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	if err := (&NotifyCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	st, err := env.ctx.Shield.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !st.Blocking || len(st.Apps) != 1 {
		t.Errorf("expected the daily frog block, got %+v", st)
	}
}

func TestNotifyCmdDeliversExpiryOnClose(t *testing.T) {
	env := newTestEnv(t, monday)
	env.init(t)

	e, _ := env.ctx.Engine()
	if err := e.StartTask("Inbox zero", time.Minute); err != nil {
		t.Fatal(err)
	}
	env.ctx.Release()
	env.clock.Advance(5 * time.Minute)

	if err := (&NotifyCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	env.ctx.Release()

	sent := env.sender.sent()
	if len(sent) != 1 || sent[0] != constants.ExpiryNoticeTitle {
		t.Errorf("expected the expiry notice, got %v", sent)
	}
}

func TestNudgeCmd(t *testing.T) {
	env := newTestEnv(t, monday)
	env.init(t)

	if err := (&NudgeCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if sent := env.sender.sent(); len(sent) != 1 || sent[0] != constants.NudgeNoticeTitle {
		t.Errorf("expected the nudge, got %v", sent)
	}

	settings, _ := env.ctx.Store.GetSettings()
	settings.NotificationsEnabled = false
	if err := env.ctx.Store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	if err := (&NudgeCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if sent := env.sender.sent(); len(sent) != 1 {
		t.Errorf("disabled notifications should not send, got %v", sent)
	}
}
