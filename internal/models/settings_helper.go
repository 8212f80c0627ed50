package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/eatthefrog/internal/constants"
)

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{
		DailyFrogRequired:    constants.DefaultDailyFrogRequired,
		BlockedApps:          []string{},
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		DefaultDurationMin:   constants.DefaultDurationMin,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys missing from the map keep their default values.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingDailyFrogRequired:
			settings.DailyFrogRequired = value == "true"
		case constants.SettingBlockedApps:
			if value == "" {
				continue
			}
			if err := json.Unmarshal([]byte(value), &settings.BlockedApps); err != nil {
				return Settings{}, fmt.Errorf("parsing blocked_apps: %w", err)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingDefaultDurationMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.DefaultDurationMin); err != nil {
				return Settings{}, fmt.Errorf("parsing default_duration_min: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	apps := NormalizeApps(settings.BlockedApps)
	encoded, _ := json.Marshal(apps)
	return map[string]string{
		constants.SettingDailyFrogRequired:    fmt.Sprintf("%v", settings.DailyFrogRequired),
		constants.SettingBlockedApps:          string(encoded),
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingDefaultDurationMin:   fmt.Sprintf("%d", settings.DefaultDurationMin),
	}
}

// ApplyDefaultSettings fills zero values with defaults.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.DefaultDurationMin <= 0 {
		settings.DefaultDurationMin = constants.DefaultDurationMin
	}
	if settings.BlockedApps == nil {
		settings.BlockedApps = []string{}
	}
}

// NormalizeApps trims, de-duplicates and sorts application identifiers.
func NormalizeApps(apps []string) []string {
	seen := make(map[string]bool, len(apps))
	out := make([]string, 0, len(apps))
	for _, app := range apps {
		app = strings.TrimSpace(app)
		if app == "" || seen[app] {
			continue
		}
		seen[app] = true
		out = append(out, app)
	}
	sort.Strings(out)
	return out
}
