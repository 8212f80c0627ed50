package session

import (
	"fmt"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/models"
)

type DoneCmd struct{}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if err := e.MarkComplete(); err != nil {
		return err
	}
	st := e.State()
	fmt.Printf("✓ %s\n", focus.CompletionMessage())
	fmt.Printf("Streak: %d day(s)\n", st.StreakCount)
	return nil
}

type FailCmd struct{}

func (c *FailCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if err := e.MarkFailed(); err != nil {
		return err
	}
	fmt.Println("Time's up. The frog is still waiting.")
	if e.State().Blocking {
		fmt.Println("Apps stay blocked until you eat it.")
	}
	return nil
}

type StopCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *StopCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}

	st := e.State()
	if st.Task.Status == models.StatusIdle {
		fmt.Println("No frog running.")
		return nil
	}
	if !c.Yes && st.Task.Status == models.StatusRunning {
		ok, err := cli.Confirm(
			fmt.Sprintf("Stop %q?", st.Task.Name),
			fmt.Sprintf("%s left. Stopping doesn't count as eating the frog.", cli.FormatDuration(st.Task.Remaining)),
		)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Keep going.")
			return nil
		}
	}

	e.StopTask()
	fmt.Println("Session stopped.")
	return nil
}

type AckCmd struct{}

func (c *AckCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if err := e.Acknowledge(); err != nil {
		return err
	}
	fmt.Println("Acknowledged.")
	if e.State().Blocking {
		fmt.Println("Today's frog is still owed; apps stay blocked.")
	}
	return nil
}
