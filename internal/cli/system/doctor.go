package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/eatthefrog/internal/backup"
	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/clock"
	"github.com/julianstephens/eatthefrog/internal/keyring"
	"github.com/julianstephens/eatthefrog/internal/models"
	"github.com/julianstephens/eatthefrog/internal/notifier"
	"github.com/julianstephens/eatthefrog/internal/storage"
)

// schemaReporter is implemented by the SQL-backed stores.
type schemaReporter interface {
	SchemaStatus() (current, latest int, err error)
}

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the store can't be loaded.
	needsDB bool
	// warnOnly failures don't fail the run.
	warnOnly bool
	run      func(*cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Frog record", needsDB: true, run: checkRecord},
		{name: "Timezone", needsDB: true, run: checkTimezone},
		{name: "Shield state", run: checkShield},
		{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
		{name: "Keyring", warnOnly: true, run: checkKeyring},
		{name: "Tray companion", warnOnly: true, run: checkTray},
	}

	failed := doctor(ctx, checks)

	fmt.Println()
	if failed {
		fmt.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func doctor(ctx *cli.Context, checks []check) bool {
	failed := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			fmt.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}
	return failed
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	r, ok := ctx.Store.(schemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := r.SchemaStatus()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("schema version %d, latest %d; run 'frog migrate'", current, latest)
	}
	return nil
}

// checkRecord reads the persisted record without building an engine, so a
// broken record is reported rather than silently reset.
func checkRecord(ctx *cli.Context) error {
	rec, err := ctx.Store.LoadRecord()
	if err != nil {
		return err
	}
	return validateRecord(rec)
}

func validateRecord(rec models.Record) error {
	var errs []error
	if !rec.Task.Status.IsValid() {
		errs = append(errs, fmt.Errorf("unknown status %q", rec.Task.Status))
	}
	if rec.Task.Remaining < 0 || rec.Task.Remaining > rec.Task.Total {
		errs = append(errs, fmt.Errorf("remaining time %s outside 0..%s", rec.Task.Remaining, rec.Task.Total))
	}
	if rec.StreakCount < 0 {
		errs = append(errs, fmt.Errorf("negative streak %d", rec.StreakCount))
	}
	if rec.StreakCount > len(rec.History) {
		errs = append(errs, fmt.Errorf("streak %d exceeds %d completed days", rec.StreakCount, len(rec.History)))
	}
	for i := 1; i < len(rec.History); i++ {
		if !rec.History[i].After(rec.History[i-1]) {
			errs = append(errs, fmt.Errorf("completion history not strictly ascending at entry %d", i))
			break
		}
	}
	return errors.Join(errs...)
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !clock.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	return nil
}

func checkShield(ctx *cli.Context) error {
	if ctx.Shield == nil {
		return nil
	}
	_, err := ctx.Shield.Read()
	return err
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.Config != nil && storage.DetectBackend(ctx.Config.Database) != storage.BackendSQLite {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.BackupDir())
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	dir, err := notifier.GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	return notifier.CheckTray(dir)
}
