// Package config loads frog's runtime configuration: where the data lives,
// how the shield and notifier behave, and where events go. User preferences
// such as the blocked apps live in the store's settings, not here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/eatthefrog/internal/constants"
)

// Notifier modes.
const (
	NotifierAuto = "auto" // tray when running, log otherwise
	NotifierTray = "tray"
	NotifierLog  = "log"
	NotifierOff  = "off"
)

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

// Config is the runtime configuration.
type Config struct {
	// Database is a SQLite path or a postgres:// or redis:// URL.
	Database string         `yaml:"database"`
	Debug    bool           `yaml:"debug"`
	LogLevel string         `yaml:"log_level"`
	Shield   ShieldConfig   `yaml:"shield"`
	Notifier NotifierConfig `yaml:"notifier"`
	Events   EventsConfig   `yaml:"events"`
	Daemon   DaemonConfig   `yaml:"daemon"`
}

type ShieldConfig struct {
	// StatePath is the shield state file; empty means <configdir>/shield.json.
	StatePath string `yaml:"state_path"`
	// Sweep terminates blocked apps that are already running.
	Sweep  bool `yaml:"sweep"`
	DryRun bool `yaml:"dry_run"`
}

type NotifierConfig struct {
	Mode string `yaml:"mode"`
}

type EventsConfig struct {
	// AMQPURL enables publishing session events to RabbitMQ. It may also be
	// kept in the OS keyring.
	AMQPURL string `yaml:"amqp_url"`
}

type DaemonConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	EnforceInterval time.Duration `yaml:"enforce_interval"`
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() *Config {
	return &Config{
		Database: constants.DefaultDBPath,
		LogLevel: "warn",
		Shield: ShieldConfig{
			Sweep: false,
		},
		Notifier: NotifierConfig{Mode: NotifierAuto},
		Daemon: DaemonConfig{
			TickInterval:    constants.TickUnit,
			EnforceInterval: 30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path, .env
// files and FROG_* environment variables, in increasing precedence. A
// missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	path = ExpandPath(path)
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}

		// An .env beside the config file, then one in the working directory.
		_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	}
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Database = getEnv("FROG_DB", c.Database)
	c.Debug = getBoolEnv("FROG_DEBUG", c.Debug)
	c.LogLevel = getEnv("FROG_LOG_LEVEL", c.LogLevel)
	c.Shield.StatePath = getEnv("FROG_SHIELD_STATE", c.Shield.StatePath)
	c.Shield.Sweep = getBoolEnv("FROG_SHIELD_SWEEP", c.Shield.Sweep)
	c.Shield.DryRun = getBoolEnv("FROG_SHIELD_DRY_RUN", c.Shield.DryRun)
	c.Notifier.Mode = getEnv("FROG_NOTIFIER", c.Notifier.Mode)
	c.Events.AMQPURL = getEnv("FROG_AMQP_URL", c.Events.AMQPURL)
	c.Daemon.TickInterval = getDurationEnv("FROG_TICK_INTERVAL", c.Daemon.TickInterval)
	c.Daemon.EnforceInterval = getDurationEnv("FROG_ENFORCE_INTERVAL", c.Daemon.EnforceInterval)
}

// Validate rejects values the rest of frog can't work with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Notifier.Mode) {
	case NotifierAuto, NotifierTray, NotifierLog, NotifierOff:
		c.Notifier.Mode = strings.ToLower(c.Notifier.Mode)
	default:
		return fmt.Errorf("invalid notifier mode %q (want auto, tray, log or off)", c.Notifier.Mode)
	}
	if c.Daemon.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.Daemon.TickInterval)
	}
	if c.Daemon.EnforceInterval <= 0 {
		return fmt.Errorf("enforce_interval must be positive, got %s", c.Daemon.EnforceInterval)
	}
	return nil
}

// ConfigDir is the directory holding the database (for file-backed stores)
// or the default config directory otherwise.
func (c *Config) ConfigDir() string {
	if isURL(c.Database) {
		return ExpandPath(constants.DefaultConfigDir)
	}
	return filepath.Dir(ExpandPath(c.Database))
}

// ShieldStatePath returns the shield file, defaulting into ConfigDir.
func (c *Config) ShieldStatePath(defaultName string) string {
	if c.Shield.StatePath != "" {
		return ExpandPath(c.Shield.StatePath)
	}
	return filepath.Join(c.ConfigDir(), defaultName)
}

// DefaultPath returns ~/.config/frog/config.yaml, expanded.
func DefaultPath() string {
	return filepath.Join(ExpandPath(constants.DefaultConfigDir), FileName)
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func isURL(s string) bool {
	return strings.Contains(s, "://")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
