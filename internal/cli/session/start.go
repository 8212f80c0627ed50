package session

import (
	"fmt"
	"strings"

	"github.com/julianstephens/eatthefrog/internal/cli"
)

type StartCmd struct {
	Name    []string `arg:"" optional:"" help:"The task to eat first. Prompts when omitted."`
	Minutes int      `short:"m" help:"Session length in minutes. Defaults to the default-minutes setting."`
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}

	name := strings.TrimSpace(strings.Join(c.Name, " "))
	if name == "" {
		if name, err = cli.PromptTaskName(); err != nil {
			return err
		}
	}

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

	st := e.State()
	fmt.Printf("🐸 Started %q for %s.\n", st.Task.Name, cli.FormatDuration(st.Task.Total))
	if st.Blocking {
		fmt.Printf("Blocking %d app(s) until it's done.\n", len(st.Settings.BlockedApps))
	}
	return nil
}
