package settings

import (
	"fmt"
	"slices"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/models"
)

type AppsAddCmd struct {
	Apps []string `arg:"" help:"App identifiers to block (executable name or bundle id)."`
}

func (c *AppsAddCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	before := len(settings.BlockedApps)
	settings.BlockedApps = models.NormalizeApps(append(settings.BlockedApps, c.Apps...))
	if len(settings.BlockedApps) == before {
		fmt.Println("Nothing to add.")
		return nil
	}
	if err := save(ctx, settings); err != nil {
		return err
	}
	fmt.Printf("✓ Blocking %d app(s).\n", len(settings.BlockedApps))
	return nil
}

type AppsRemoveCmd struct {
	Apps []string `arg:"" help:"App identifiers to stop blocking."`
}

func (c *AppsRemoveCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	remove := models.NormalizeApps(c.Apps)
	kept := slices.DeleteFunc(slices.Clone(settings.BlockedApps), func(app string) bool {
		return slices.Contains(remove, app)
	})
	if len(kept) == len(settings.BlockedApps) {
		return fmt.Errorf("none of %v are blocked", remove)
	}
	settings.BlockedApps = kept
	if err := save(ctx, settings); err != nil {
		return err
	}
	fmt.Printf("✓ Blocking %d app(s).\n", len(settings.BlockedApps))
	return nil
}

type AppsListCmd struct{}

func (c *AppsListCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if len(settings.BlockedApps) == 0 {
		fmt.Println("No apps blocked. Add some with `frog apps add <app>...`.")
		return nil
	}
	for _, app := range settings.BlockedApps {
		fmt.Printf("  %s\n", app)
	}
	return nil
}
