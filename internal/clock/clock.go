// Package clock supplies the current time and local calendar-day math.
package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/eatthefrog/internal/constants"
)

// Clock is the time source the engine reads. Day boundaries are local
// calendar days in the clock's location, never UTC.
type Clock interface {
	Now() time.Time
	StartOfDay(t time.Time) time.Time
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// System reads the wall clock in a fixed location.
type System struct {
	loc *time.Location
}

// NewSystem returns a wall clock for the named timezone.
func NewSystem(timezone string) (*System, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &System{loc: loc}, nil
}

func (s *System) Now() time.Time { return time.Now().In(s.loc) }

func (s *System) StartOfDay(t time.Time) time.Time { return startOfDay(t, s.loc) }

// Location returns the clock's timezone.
func (s *System) Location() *time.Location { return s.loc }

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a fake clock frozen at now; day math uses now's location.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) StartOfDay(t time.Time) time.Time {
	f.mu.Lock()
	loc := f.now.Location()
	f.mu.Unlock()
	return startOfDay(t, loc)
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set jumps the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AddDays moves a day start by n calendar days. It uses calendar arithmetic
// rather than 24h multiples so DST transitions don't shift the result.
func AddDays(c Clock, day time.Time, n int) time.Time {
	return c.StartOfDay(c.StartOfDay(day).AddDate(0, 0, n))
}

// SameDay reports whether a and b fall on the same local day.
func SameDay(c Clock, a, b time.Time) bool {
	return c.StartOfDay(a).Equal(c.StartOfDay(b))
}

// NextDayStart returns the first instant of the local day after t.
func NextDayStart(c Clock, t time.Time) time.Time {
	return AddDays(c, t, 1)
}

// DayKey formats the local day containing t as YYYY-MM-DD.
func DayKey(c Clock, t time.Time) string {
	return c.StartOfDay(t).Format(constants.DateFormat)
}
