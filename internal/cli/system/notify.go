package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/notifier"
)

// NotifyCmd is the cron hook: it brings the session up to date (resume,
// daily reset, shield) and lets Close deliver any notice that came due.
type NotifyCmd struct {
	DryRun bool `help:"Print notices to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if c.DryRun {
		ctx.Notifier = notifier.NewScheduler(notifier.NewLogSender(os.Stdout))
	}

	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	enforced := e.EnforceShield()

	if c.DryRun {
		st := e.State()
		fmt.Printf("Task: %q (%s), %s left\n", st.Task.Name, st.Task.Status, cli.FormatDuration(st.Task.Remaining))
		fmt.Printf("Completed today: %v, streak: %d\n", st.CompletedToday, st.StreakCount)
		fmt.Printf("Shield enforced: %v\n", enforced)
	}
	return nil
}

// NudgeCmd sends the "Focus Time!" reminder, e.g. from the shield's primary
// button.
type NudgeCmd struct{}

func (c *NudgeCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		fmt.Println("Notifications are disabled in settings.")
		return nil
	}
	if ctx.Notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	return ctx.Notifier.Notify(constants.NudgeNoticeTitle, constants.NudgeNoticeBody)
}
