package session

import (
	"fmt"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/models"
)

// SuspendCmd writes the background snapshot explicitly. Every command does
// this on exit; suspend exists for hooks that want it without other work.
type SuspendCmd struct{}

func (c *SuspendCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	st := e.State()
	ctx.Release()

	if st.Task.Status != models.StatusRunning {
		fmt.Println("Nothing running; no snapshot written.")
		return nil
	}
	fmt.Printf("Suspended %q with %s left.\n", st.Task.Name, cli.FormatDuration(st.Task.Remaining))
	return nil
}

// ResumeCmd consumes the snapshot and reports where the countdown stands.
type ResumeCmd struct{}

func (c *ResumeCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	fmt.Print(RenderStatus(e.State()))
	return nil
}

// ResetCmd runs the daily check on demand.
type ResetCmd struct{}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if ctx.ResetApplied() || e.CheckForDailyReset() {
		fmt.Println("New day processed.")
	} else {
		fmt.Println("Daily reset already ran today.")
	}
	if e.State().Blocking {
		fmt.Println("Shield is up until today's frog is eaten.")
	}
	return nil
}
