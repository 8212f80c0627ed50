package settings

import (
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/clock"
	"github.com/julianstephens/eatthefrog/internal/shield"
	"github.com/julianstephens/eatthefrog/internal/storage/sqlite"
)

type noopTimer struct{}

func (noopTimer) Start(func()) {}
func (noopTimer) Stop()        {}

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{
		Store:  store,
		Shield: shield.NewFileShield(filepath.Join(dir, shield.StateFileName), nil),
		Clock:  clock.NewFake(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		Timer:  noopTimer{},
	}
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return ctx
}

func ptr[T any](v T) *T { return &v }

func TestSettingsShowCmd(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Errorf("settings show failed: %v", err)
	}
}

func TestSettingsSetCmd(t *testing.T) {
	ctx := setupTestDB(t)

	cmd := &SettingsSetCmd{
		DailyFrogRequired:    ptr(false),
		NotificationsEnabled: ptr(false),
		Timezone:             ptr("America/New_York"),
		DefaultMinutes:       ptr(45),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.DailyFrogRequired || settings.NotificationsEnabled {
		t.Errorf("expected flags cleared, got %+v", settings)
	}
	if settings.Timezone != "America/New_York" || settings.DefaultDurationMin != 45 {
		t.Errorf("unexpected settings: %+v", settings)
	}
}

func TestSettingsSetCmdRejectsInvalid(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&SettingsSetCmd{Timezone: ptr("Mars/Olympus_Mons")}).Run(ctx); err == nil {
		t.Error("expected invalid timezone error")
	}
	if err := (&SettingsSetCmd{DefaultMinutes: ptr(0)}).Run(ctx); err == nil {
		t.Error("expected invalid minutes error")
	}

	settings, _ := ctx.Store.GetSettings()
	if settings.Timezone != "Local" || settings.DefaultDurationMin != 25 {
		t.Errorf("rejected values should not be saved, got %+v", settings)
	}
}

func TestAppsAddRemove(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&AppsAddCmd{Apps: []string{"slack", " discord ", "slack"}}).Run(ctx); err != nil {
		t.Fatalf("apps add failed: %v", err)
	}
	settings, _ := ctx.Store.GetSettings()
	if !slices.Equal(settings.BlockedApps, []string{"discord", "slack"}) {
		t.Fatalf("unexpected apps: %v", settings.BlockedApps)
	}

	if err := (&AppsListCmd{}).Run(ctx); err != nil {
		t.Errorf("apps list failed: %v", err)
	}

	if err := (&AppsRemoveCmd{Apps: []string{"slack"}}).Run(ctx); err != nil {
		t.Fatalf("apps remove failed: %v", err)
	}
	settings, _ = ctx.Store.GetSettings()
	if !slices.Equal(settings.BlockedApps, []string{"discord"}) {
		t.Errorf("unexpected apps after remove: %v", settings.BlockedApps)
	}

	if err := (&AppsRemoveCmd{Apps: []string{"zoom"}}).Run(ctx); err == nil {
		t.Error("expected error removing an app that isn't blocked")
	}
}

func TestAppsAddReassertsShield(t *testing.T) {
	ctx := setupTestDB(t)

	// A fresh day with the frog required puts the shield up.
	e, err := ctx.Engine()
	if err != nil {
		t.Fatal(err)
	}
	if !e.State().Blocking {
		t.Fatal("expected shield up on first run")
	}

	if err := (&AppsAddCmd{Apps: []string{"slack"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	st, err := ctx.Shield.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(st.Apps, []string{"slack"}) {
		t.Errorf("expected shield to carry the new app, got %v", st.Apps)
	}
}
