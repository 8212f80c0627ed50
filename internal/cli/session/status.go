// Package session holds the commands that drive the frog countdown.
package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/models"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	nameStyle  = lipgloss.NewStyle().Bold(true)

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusIdle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		models.StatusRunning:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		models.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		models.StatusExpired:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	fmt.Print(RenderStatus(e.State()))
	return nil
}

// RenderStatus formats a state for the terminal.
func RenderStatus(st focus.State) string {
	var b strings.Builder
	task := st.Task
	status := statusStyles[task.Status].Render(string(task.Status))

	switch task.Status {
	case models.StatusIdle:
		fmt.Fprintf(&b, "🐸 No frog running %s\n", labelStyle.Render("("+string(task.Status)+")"))
	case models.StatusRunning:
		fmt.Fprintf(&b, "🐸 %s  %s  %s left of %s\n", nameStyle.Render(task.Name), status,
			cli.FormatDuration(task.Remaining), cli.FormatDuration(task.Total))
	default:
		fmt.Fprintf(&b, "🐸 %s  %s\n", nameStyle.Render(task.Name), status)
	}

	done := "no"
	if st.CompletedToday {
		done = "yes"
	}
	fmt.Fprintf(&b, "%s %d day(s)  %s %s\n", labelStyle.Render("Streak:"), st.StreakCount, labelStyle.Render("Done today:"), done)

	if st.Blocking {
		fmt.Fprintf(&b, "%s blocking %s\n", labelStyle.Render("Shield:"), strings.Join(st.Settings.BlockedApps, ", "))
	} else {
		fmt.Fprintf(&b, "%s down\n", labelStyle.Render("Shield:"))
	}
	if st.Unsaved {
		fmt.Fprintln(&b, "⚠️  Last change could not be saved; it will be retried.")
	}
	return b.String()
}
