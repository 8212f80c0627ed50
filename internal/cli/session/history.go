package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/clock"
	"github.com/julianstephens/eatthefrog/internal/focus"
)

var (
	doneCell  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("■")
	missCell  = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("□")
	todayCell = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render("◇")
	gridTitle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

type HistoryCmd struct {
	Days int `help:"Number of days to show." default:"30"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	fmt.Print(RenderHistory(e.Clock(), e.State().History, c.Days))
	return nil
}

// RenderHistory draws the last days as a week-per-row grid, oldest first,
// followed by the current and best streak.
func RenderHistory(c clock.Clock, history []time.Time, days int) string {
	today := c.StartOfDay(c.Now())
	done := make(map[string]bool, len(history))
	for _, h := range history {
		done[clock.DayKey(c, h)] = true
	}

	var b strings.Builder
	b.WriteString(gridTitle.Render(fmt.Sprintf("Last %d days", days)))
	b.WriteString("\n")

	count := 0
	start := clock.AddDays(c, today, -(days - 1))
	for i := 0; i < days; i++ {
		day := clock.AddDays(c, start, i)
		key := clock.DayKey(c, day)
		switch {
		case done[key]:
			b.WriteString(doneCell)
			count++
		case key == clock.DayKey(c, today):
			b.WriteString(todayCell)
		default:
			b.WriteString(missCell)
		}
		if (i+1)%7 == 0 || i == days-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}

	current, best := focus.ComputeStreak(c, history, today)
	fmt.Fprintf(&b, "\n%d/%d frogs eaten · current streak %d · best %d\n", count, days, current, best)
	return b.String()
}
