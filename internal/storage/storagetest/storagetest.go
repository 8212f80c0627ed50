// Package storagetest holds the behavior every storage.Provider must share.
// Backend packages run it against their own store from tests.
package storagetest

import (
	"testing"
	"time"

	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/models"
	"github.com/julianstephens/eatthefrog/internal/storage"
)

// Run exercises an initialized, empty provider.
func Run(t *testing.T, store storage.Provider) {
	t.Helper()

	t.Run("DefaultSettings", func(t *testing.T) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings failed: %v", err)
		}
		if settings.DailyFrogRequired != constants.DefaultDailyFrogRequired {
			t.Errorf("expected daily frog required %v, got %v", constants.DefaultDailyFrogRequired, settings.DailyFrogRequired)
		}
		if settings.DefaultDurationMin != constants.DefaultDurationMin {
			t.Errorf("expected default duration %d, got %d", constants.DefaultDurationMin, settings.DefaultDurationMin)
		}
	})

	t.Run("SettingsRoundTrip", func(t *testing.T) {
		want := models.Settings{
			DailyFrogRequired:    false,
			BlockedApps:          []string{"com.social.app", "com.video.app"},
			Timezone:             "America/New_York",
			NotificationsEnabled: false,
			DefaultDurationMin:   50,
		}
		if err := store.SaveSettings(want); err != nil {
			t.Fatalf("SaveSettings failed: %v", err)
		}
		got, err := store.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings failed: %v", err)
		}
		if got.DailyFrogRequired != want.DailyFrogRequired ||
			got.Timezone != want.Timezone ||
			got.NotificationsEnabled != want.NotificationsEnabled ||
			got.DefaultDurationMin != want.DefaultDurationMin {
			t.Errorf("settings mismatch: got %+v, want %+v", got, want)
		}
		if len(got.BlockedApps) != 2 || got.BlockedApps[0] != "com.social.app" {
			t.Errorf("unexpected blocked apps: %v", got.BlockedApps)
		}
	})

	t.Run("EmptyRecordIsIdle", func(t *testing.T) {
		rec, err := store.LoadRecord()
		if err != nil {
			t.Fatalf("LoadRecord failed: %v", err)
		}
		if rec.Task.Status != models.StatusIdle {
			t.Errorf("expected idle status, got %s", rec.Task.Status)
		}
	})

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, loc) }

	t.Run("RecordRoundTrip", func(t *testing.T) {
		rec := models.Record{
			Task: models.Task{
				Name:      "Write report",
				Total:     1200 * time.Second,
				Remaining: 754 * time.Second,
				Status:    models.StatusRunning,
				SessionID: "4b7a3f8e-0c1d-4a55-9a31-7f1f0f6a8c10",
				StartedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, loc),
			},
			StreakCount:    2,
			History:        []time.Time{day(8), day(9)},
			LastDailyReset: day(10),
			Snapshot: &models.Snapshot{
				Remaining:   760 * time.Second,
				SuspendedAt: time.Date(2025, 3, 10, 9, 7, 20, 0, loc),
			},
		}
		if err := store.SaveRecord(rec); err != nil {
			t.Fatalf("SaveRecord failed: %v", err)
		}

		got, err := store.LoadRecord()
		if err != nil {
			t.Fatalf("LoadRecord failed: %v", err)
		}
		if got.Task.Name != rec.Task.Name || got.Task.Status != rec.Task.Status || got.Task.SessionID != rec.Task.SessionID {
			t.Errorf("task mismatch: got %+v", got.Task)
		}
		if got.Task.Total != rec.Task.Total || got.Task.Remaining != rec.Task.Remaining {
			t.Errorf("durations mismatch: got total=%s remaining=%s", got.Task.Total, got.Task.Remaining)
		}
		if !got.Task.StartedAt.Equal(rec.Task.StartedAt) {
			t.Errorf("startedAt mismatch: got %s", got.Task.StartedAt)
		}
		if got.StreakCount != 2 {
			t.Errorf("expected streak 2, got %d", got.StreakCount)
		}
		if !got.LastDailyReset.Equal(day(10)) {
			t.Errorf("lastDailyReset mismatch: got %s", got.LastDailyReset)
		}
		if len(got.History) != 2 || !got.History[0].Equal(day(8)) || !got.History[1].Equal(day(9)) {
			t.Errorf("history mismatch: got %v", got.History)
		}
		if got.Snapshot == nil {
			t.Fatal("expected snapshot to round-trip")
		}
		if got.Snapshot.Remaining != rec.Snapshot.Remaining || !got.Snapshot.SuspendedAt.Equal(rec.Snapshot.SuspendedAt) {
			t.Errorf("snapshot mismatch: got %+v", got.Snapshot)
		}
	})

	t.Run("RecordOverwrite", func(t *testing.T) {
		rec := models.Record{
			Task: models.Task{
				Name:   "Write report",
				Status: models.StatusCompleted,
			},
			StreakCount:    3,
			History:        []time.Time{day(8), day(9), day(10)},
			LastDailyReset: day(10),
		}
		if err := store.SaveRecord(rec); err != nil {
			t.Fatalf("SaveRecord failed: %v", err)
		}

		got, err := store.LoadRecord()
		if err != nil {
			t.Fatalf("LoadRecord failed: %v", err)
		}
		if got.Task.Status != models.StatusCompleted {
			t.Errorf("expected completed, got %s", got.Task.Status)
		}
		if got.Snapshot != nil {
			t.Errorf("expected snapshot to be cleared, got %+v", got.Snapshot)
		}
		if got.Task.SessionID != "" || got.Task.Remaining != 0 {
			t.Errorf("expected stale task fields cleared, got %+v", got.Task)
		}
		if len(got.History) != 3 || got.StreakCount != 3 {
			t.Errorf("expected 3 history entries and streak 3, got %d and %d", len(got.History), got.StreakCount)
		}
	})

	t.Run("HistoryDeduplicatesDays", func(t *testing.T) {
		rec := models.Record{
			Task:    models.Task{Status: models.StatusIdle},
			History: []time.Time{day(8), day(8), day(9)},
		}
		if err := store.SaveRecord(rec); err != nil {
			t.Fatalf("SaveRecord failed: %v", err)
		}
		got, err := store.LoadRecord()
		if err != nil {
			t.Fatalf("LoadRecord failed: %v", err)
		}
		if len(got.History) != 2 {
			t.Errorf("expected 2 unique days, got %v", got.History)
		}
	})
}
