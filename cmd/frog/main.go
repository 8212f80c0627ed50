package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/cli/backups"
	"github.com/julianstephens/eatthefrog/internal/cli/session"
	"github.com/julianstephens/eatthefrog/internal/cli/settings"
	"github.com/julianstephens/eatthefrog/internal/cli/system"
	"github.com/julianstephens/eatthefrog/internal/config"
	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/errors"
	"github.com/julianstephens/eatthefrog/internal/events"
	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/keyring"
	"github.com/julianstephens/eatthefrog/internal/logger"
	"github.com/julianstephens/eatthefrog/internal/notifier"
	"github.com/julianstephens/eatthefrog/internal/shield"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	DB      string `name:"db" help:"Database path, or a postgres:// or redis:// URL. PostgreSQL passwords must NOT be embedded; use 'frog keyring set' or FROG_DB_CONNECTION instead."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize frog storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Run     system.RunCmd     `cmd:"" help:"Show the live countdown." default:"withargs"`
	Daemon  system.DaemonCmd  `cmd:"" help:"Keep the shield, countdown and daily reset running in the background."`

	Status  session.StatusCmd  `cmd:"" help:"Show the current frog."`
	Start   session.StartCmd   `cmd:"" help:"Start eating a frog."`
	Done    session.DoneCmd    `cmd:"" help:"Mark the frog eaten."`
	Fail    session.FailCmd    `cmd:"" help:"Give up on the current session."`
	Stop    session.StopCmd    `cmd:"" help:"Cancel the current session."`
	Ack     session.AckCmd     `cmd:"" help:"Dismiss a finished session."`
	Suspend session.SuspendCmd `cmd:"" help:"Snapshot the countdown for a later resume."`
	Resume  session.ResumeCmd  `cmd:"" help:"Resume the countdown from its snapshot."`
	Reset   session.ResetCmd   `cmd:"" help:"Run the daily reset check now."`
	History session.HistoryCmd `cmd:"" help:"Show recent frogs and streaks."`

	Settings struct {
		Show settings.SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
		Set  settings.SettingsSetCmd  `cmd:"" help:"Update settings."`
	} `cmd:"" help:"Manage application settings."`
	Apps struct {
		Add    settings.AppsAddCmd    `cmd:"" help:"Block apps while a frog is owed."`
		Remove settings.AppsRemoveCmd `cmd:"" help:"Stop blocking apps."`
		List   settings.AppsListCmd   `cmd:"" help:"List blocked apps." default:"1"`
	} `cmd:"" help:"Manage blocked apps."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a connection secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a stored secret."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability and stored secrets." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`

	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Bring the session up to date and deliver due notices (cron hook)."`
	Nudge  system.NudgeCmd  `cmd:"" hidden:"" help:"Send the Focus Time! notice (shield button)."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Eat that frog: one task first, apps blocked until it's done"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.Database = CLI.DB
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir(), Level: cfg.LogLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	target, trusted := resolveDatabase(cfg, CLI.DB != "")
	cfg.Database = target

	store, err := cli.OpenStore(target, trusted)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Config:   cfg,
		Store:    store,
		Shield:   newShield(cfg),
		Notifier: newNotifier(cfg),
		Events:   newEvents(cfg),
	}

	// Load the store before running the command (Init command will handle its own loading)
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	runErr := ctx.Run(appCtx)
	if err := appCtx.Close(); err != nil {
		logger.Warn("closing store failed", "error", err)
	}
	errors.Fatal(runErr)
}

// resolveDatabase prefers a connection kept outside the config (environment,
// then keyring) when nothing more specific was asked for. Those secrets may
// carry a password.
func resolveDatabase(cfg *config.Config, explicit bool) (string, bool) {
	if explicit || cfg.Database != constants.DefaultDBPath {
		return cfg.Database, false
	}
	if conn := os.Getenv("FROG_DB_CONNECTION"); conn != "" {
		return conn, true
	}
	if conn := keyring.Lookup(keyring.Database); conn != "" {
		return conn, true
	}
	return cfg.Database, false
}

func newShield(cfg *config.Config) *shield.FileShield {
	var sweeper *shield.Sweeper
	if cfg.Shield.Sweep {
		sweeper = shield.NewSweeper(cfg.Shield.DryRun)
	}
	return shield.NewFileShield(cfg.ShieldStatePath(shield.StateFileName), sweeper)
}

func newNotifier(cfg *config.Config) *notifier.Scheduler {
	switch cfg.Notifier.Mode {
	case config.NotifierOff:
		return nil
	case config.NotifierTray:
		return notifier.NewScheduler(notifier.NewTraySender())
	case config.NotifierLog:
		return notifier.NewScheduler(notifier.NewLogSender(os.Stderr))
	default:
		return notifier.NewScheduler(notifier.FallbackSender{
			Primary:  notifier.NewTraySender(),
			Fallback: notifier.NewLogSender(os.Stderr),
		})
	}
}

func newEvents(cfg *config.Config) focus.EventSink {
	sinks := events.Multi{events.LogSink{}}

	url := cfg.Events.AMQPURL
	if url == "" {
		url = keyring.Lookup(keyring.Broker)
	}
	if url == "" {
		return sinks
	}

	pub, err := events.NewRabbitMQPublisher(url)
	if err != nil {
		logger.Warn("event broker unavailable; events go to the log only", "error", err)
		return sinks
	}
	return append(sinks, events.NewBrokerSink(pub))
}
