package storage

import "github.com/julianstephens/eatthefrog/internal/models"

// Provider is a persistence backend for settings and the frog record.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Task record, including completion history and snapshot
	LoadRecord() (models.Record, error)
	SaveRecord(models.Record) error

	// Utils
	GetConfigPath() string
}
