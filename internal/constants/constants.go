package constants

import "time"

const (
	AppName            = "frog"
	DefaultKeyringUser = "database-connection"
	BrokerKeyringUser  = "broker-url"
	DefaultConfigDir   = "~/.config/frog"
	DefaultDBPath      = "~/.config/frog/frog.db"
	Version            = "v0.3.0"

	// DateFormat is the day key format used for completion history (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TickUnit is how much one countdown tick removes from the remaining time.
	TickUnit = time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "frog-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "frog-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.frog"
	TrayExecutablePrefix   = "frog-tray"

	ExpiryNoticeTitle = "Your timer's up!"
	ExpiryNoticeBody  = "Reset, refocus, and let's try again! Set your frog again."
	NudgeNoticeTitle  = "Focus Time!"
	NudgeNoticeBody   = "Remember to eat your frog and stay productive!"

	// Event routing
	EventExchange = "frog.session.events"
)

const (
	// Settings keys
	SettingDailyFrogRequired    = "daily_frog_required"
	SettingBlockedApps          = "blocked_apps"
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingDefaultDurationMin   = "default_duration_min"

	// Default settings values
	DefaultDailyFrogRequired    = true
	DefaultTimezone             = "Local"
	DefaultNotificationsEnabled = true
	DefaultDurationMin          = 25
)

// Persisted task record keys, shared by every backend.
const (
	KeyTaskName                = "taskName"
	KeyTotalTime               = "totalTime"
	KeyRemainingTime           = "remainingTime"
	KeyIsTaskStarted           = "isTaskStarted"
	KeyStatus                  = "status"
	KeySessionID               = "sessionId"
	KeyStartedAt               = "startedAt"
	KeyStreakCount             = "streakCount"
	KeyLastDailyReset          = "lastDailyReset"
	KeyBackgroundRemainingTime = "backgroundRemainingTime"
	KeyBackgroundEntryTime     = "backgroundEntryTime"
	KeyTaskCompletionHistory   = "taskCompletionHistory"
)
