package system

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/logger"
	"github.com/julianstephens/eatthefrog/internal/tui"
)

// RunCmd hosts the session in the foreground: the engine's own timer drives
// the countdown, the daily trigger runs alongside, and the TUI renders it.
type RunCmd struct {
	Name    []string `arg:"" optional:"" help:"Start this task before opening the countdown."`
	Minutes int      `short:"m" help:"Session length in minutes when starting a task."`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}

	// Perform automatic backup on startup (after successful load)
	ctx.PerformAutomaticBackup()

	if name := strings.TrimSpace(strings.Join(c.Name, " ")); name != "" {
		minutes := c.Minutes
		if minutes == 0 {
			minutes = e.State().Settings.DefaultDurationMin
		}
		d, err := cli.ParseMinutes(minutes)
		if err != nil {
			return err
		}
		if err := e.StartTask(name, d); err != nil {
			return err
		}
	}

	triggerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- focus.NewDailyTrigger(e).Run(triggerCtx) }()

	p := tea.NewProgram(tui.NewModel(e), tea.WithAltScreen())
	_, runErr := p.Run()

	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("daily trigger stopped", "error", err)
	}
	if runErr != nil {
		return fmt.Errorf("countdown view failed: %w", runErr)
	}
	return nil
}
