package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite database before initializing."`
	Source string `help:"Database path or connection string to copy settings and the frog record from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	sqliteTarget := ctx.Config == nil || storage.DetectBackend(ctx.Config.Database) == storage.BackendSQLite

	if c.Force {
		if !sqliteTarget {
			return errors.New("--force only supports SQLite databases")
		}
		if c.Source != "" {
			abs, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = abs
			}
			if src, err := filepath.Abs(c.Source); err == nil && src == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized frog storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", storage.Redact(c.Source))
		if err := c.copyFrom(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

// copyFrom moves settings and the full frog record (task, streak, history,
// snapshot) from another store into the current one.
func (c *InitCmd) copyFrom(ctx *cli.Context, source string) error {
	src, err := cli.OpenStore(source, false)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	fmt.Println("  Copying settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Copying frog record...")
	rec, err := src.LoadRecord()
	if err != nil {
		return fmt.Errorf("failed to load record from source: %w", err)
	}
	if err := ctx.Store.SaveRecord(rec); err != nil {
		return fmt.Errorf("failed to save record to destination: %w", err)
	}
	fmt.Printf("    Copied %d completed days, streak %d\n", len(rec.History), rec.StreakCount)
	return nil
}
