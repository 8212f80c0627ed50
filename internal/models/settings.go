package models

// Settings holds the user's preferences. The engine receives one copy at
// construction and replaces it only through its single settings setter.
type Settings struct {
	DailyFrogRequired    bool     `json:"daily_frog_required"`   // block apps every day until the frog is done
	BlockedApps          []string `json:"blocked_apps"`          // application identifiers handed to the shield
	Timezone             string   `json:"timezone"`              // IANA timezone name or "Local"
	NotificationsEnabled bool     `json:"notifications_enabled"` // whether time's-up notices are delivered
	DefaultDurationMin   int      `json:"default_duration_min"`  // session length offered when none is given
}
