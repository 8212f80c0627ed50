package system

import (
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/eatthefrog/internal/models"
)

func TestDoctorHealthyDatabase(t *testing.T) {
	gokeyring.MockInit()
	env := newTestEnv(t, monday)
	env.init(t)
	env.ctx.PerformAutomaticBackup()

	// Tray is only a warning, so an absent tray still passes.
	if err := (&DoctorCmd{}).Run(env.ctx); err != nil {
		t.Errorf("expected a clean bill of health, got %v", err)
	}
}

func TestDoctorUninitializedDatabase(t *testing.T) {
	env := newTestEnv(t, monday)
	err := (&DoctorCmd{}).Run(env.ctx)
	if err == nil || !strings.Contains(err.Error(), "health checks failed") {
		t.Errorf("expected failure, got %v", err)
	}
}

func TestValidateRecord(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

	good := models.NewRecord()
	good.History = []time.Time{day(8), day(9)}
	good.StreakCount = 2
	if err := validateRecord(good); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := good.Clone()
	bad.History = []time.Time{day(9), day(9)}
	bad.StreakCount = 5
	bad.Task = models.Task{Status: "paused", Total: time.Minute, Remaining: time.Hour}
	err := validateRecord(bad)
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"unknown status", "remaining time", "exceeds", "ascending"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}
