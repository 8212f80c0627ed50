package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/clock"
	"github.com/julianstephens/eatthefrog/internal/models"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	fmt.Println("Current Settings:")
	fmt.Printf("  Daily Frog Required:   %v\n", settings.DailyFrogRequired)
	fmt.Printf("  Default Minutes:       %d\n", settings.DefaultDurationMin)
	fmt.Printf("  Timezone:              %s\n", settings.Timezone)
	fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
	if len(settings.BlockedApps) == 0 {
		fmt.Println("  Blocked Apps:          (none)")
	} else {
		fmt.Printf("  Blocked Apps:          %s\n", strings.Join(settings.BlockedApps, ", "))
	}
	return nil
}

type SettingsSetCmd struct {
	DailyFrogRequired    *bool   `help:"Require a frog every day before apps unblock."`
	NotificationsEnabled *bool   `name:"notifications" help:"Enable or disable notices."`
	Timezone             *string `help:"IANA timezone for day boundaries, or Local."`
	DefaultMinutes       *int    `help:"Session length used when start has no --minutes."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.DailyFrogRequired != nil {
		settings.DailyFrogRequired = *c.DailyFrogRequired
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.Timezone != nil {
		tz := strings.TrimSpace(*c.Timezone)
		if !clock.ValidateTimezone(tz) {
			return fmt.Errorf("invalid timezone: %q", tz)
		}
		settings.Timezone = tz
		updated = true
	}
	if c.DefaultMinutes != nil {
		if *c.DefaultMinutes <= 0 {
			return fmt.Errorf("default minutes must be positive, got %d", *c.DefaultMinutes)
		}
		settings.DefaultDurationMin = *c.DefaultMinutes
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use `frog settings show` to view settings or flags to update them.")
		return nil
	}
	if err := save(ctx, settings); err != nil {
		return err
	}
	fmt.Println("Settings updated successfully.")
	return nil
}

// save persists settings and hands them to the engine, which re-asserts the
// shield with the new app set if it is up.
func save(ctx *cli.Context, settings models.Settings) error {
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	e.UpdateSettings(settings)
	return nil
}
