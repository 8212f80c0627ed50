package tui

import (
	"fmt"
	"strings"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🐸 Eat that frog"))
	b.WriteString("\n\n")

	task := m.state.Task
	switch task.Status {
	case models.StatusRunning:
		b.WriteString(taskStyle.Render(task.Name))
		b.WriteString("\n")
		b.WriteString(clockStyle.Render(cli.FormatDuration(task.Remaining)))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(m.Percent()))
		b.WriteString("\n")
	case models.StatusCompleted:
		line := m.message
		if line == "" {
			line = "Frog Completed!"
		}
		b.WriteString(completedStyle.Render(line))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s · streak %d", task.Name, m.state.StreakCount)))
		b.WriteString("\n")
	case models.StatusExpired:
		b.WriteString(expiredStyle.Render("Time's up!"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(task.Name))
		b.WriteString("\n")
	default:
		if m.message != "" {
			b.WriteString(mutedStyle.Render(m.message))
			b.WriteString("\n")
		}
		b.WriteString(mutedStyle.Render("No frog running. Start one with `frog start <task>`."))
		b.WriteString("\n")
	}

	if m.state.Blocking {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Shield up: %d app(s) blocked until the frog is eaten", len(m.state.Settings.BlockedApps))))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
