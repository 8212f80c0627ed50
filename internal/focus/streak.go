package focus

import (
	"sort"
	"time"

	"github.com/julianstephens/eatthefrog/internal/clock"
)

// AppendCompletion records a completion on day and returns the updated
// history and streak. History holds local day starts, ascending and unique.
// A day already present leaves both values unchanged and added is false.
//
// The streak extends when the latest earlier completion was the previous
// calendar day and restarts at 1 otherwise.
func AppendCompletion(c clock.Clock, history []time.Time, streak int, day time.Time) ([]time.Time, int, bool) {
	day = c.StartOfDay(day)

	idx := sort.Search(len(history), func(i int) bool {
		return !c.StartOfDay(history[i]).Before(day)
	})
	if idx < len(history) && clock.SameDay(c, history[idx], day) {
		return history, streak, false
	}

	switch {
	case idx > 0 && clock.SameDay(c, history[idx-1], clock.AddDays(c, day, -1)):
		streak++
	default:
		streak = 1
	}

	out := make([]time.Time, 0, len(history)+1)
	out = append(out, history[:idx]...)
	out = append(out, day)
	out = append(out, history[idx:]...)
	return out, streak, true
}

// ComputeStreak derives streaks from history alone. Current counts the run of
// consecutive days ending today, or yesterday when today isn't done yet. Best
// is the longest run anywhere in history.
func ComputeStreak(c clock.Clock, history []time.Time, today time.Time) (current, best int) {
	if len(history) == 0 {
		return 0, 0
	}

	sorted := make([]time.Time, 0, len(history))
	for _, h := range history {
		sorted = append(sorted, c.StartOfDay(h))
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	days := sorted[:0]
	for _, d := range sorted {
		if n := len(days); n > 0 && days[n-1].Equal(d) {
			continue
		}
		days = append(days, d)
	}

	run := 0
	for i, d := range days {
		if i > 0 && clock.AddDays(c, days[i-1], 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	today = c.StartOfDay(today)
	last := days[len(days)-1]
	if !last.Equal(today) && !last.Equal(clock.AddDays(c, today, -1)) {
		return 0, best
	}
	return run, best
}
