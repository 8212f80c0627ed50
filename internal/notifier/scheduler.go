package notifier

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/logger"
)

// stopper is the part of *time.Timer the scheduler needs.
type stopper interface {
	Stop() bool
}

var afterFunc = func(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// flushWindow is how close to its due time a pending notice must be for
// Flush to deliver it early.
const flushWindow = 5 * time.Second

// Scheduler holds at most one pending time's-up notice. Delivery runs
// through a circuit breaker so a dead tray doesn't stall every expiry.
type Scheduler struct {
	sender  Sender
	breaker *gobreaker.CircuitBreaker[struct{}]

	now func() time.Time

	mu      sync.Mutex
	pending stopper
	due     time.Time
	gen     uint64
}

var _ focus.Notifier = (*Scheduler)(nil)

// NewScheduler wraps sender. The breaker opens after three consecutive
// failures and lets one request through again after a minute.
func NewScheduler(sender Sender) *Scheduler {
	settings := gobreaker.Settings{
		Name:        "notifier",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &Scheduler{
		sender:  sender,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		now:     time.Now,
	}
}

// ScheduleExpiryNotice replaces any pending notice with one due after the delay.
func (s *Scheduler) ScheduleExpiryNotice(after time.Duration) error {
	if s.sender == nil {
		return fmt.Errorf("%w: no notice sender configured", focus.ErrSchedulingFailure)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.gen++
	gen := s.gen
	s.due = s.now().Add(after)
	s.pending = afterFunc(after, func() { s.fire(gen) })
	logger.Debug("expiry notice scheduled", "after", after)
	return nil
}

// Cancel drops the pending notice, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Pending reports whether a notice is waiting to be delivered.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush delivers a pending notice that is due or about to be. Short-lived
// commands call it before exiting so a fresh expiry notice isn't lost with
// the process. Notices further out stay pending; whichever process next
// restores the countdown expires it and notifies then.
func (s *Scheduler) Flush() error {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return nil
	}
	if due := s.due; s.now().Add(flushWindow).Before(due) {
		s.mu.Unlock()
		logger.Debug("expiry notice not due yet; left pending", "due", due)
		return nil
	}
	s.cancelLocked()
	s.mu.Unlock()

	return s.Notify(constants.ExpiryNoticeTitle, constants.ExpiryNoticeBody)
}

// Notify sends a notice now through the breaker.
func (s *Scheduler) Notify(title, body string) error {
	if s.sender == nil {
		return fmt.Errorf("%w: no notice sender configured", focus.ErrSchedulingFailure)
	}
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.sender.Send(title, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: delivery suspended after repeated failures", focus.ErrSchedulingFailure)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", focus.ErrSchedulingFailure, err)
	}
	return nil
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	if err := s.Notify(constants.ExpiryNoticeTitle, constants.ExpiryNoticeBody); err != nil {
		logger.Warn("delivering expiry notice failed", "error", err)
	}
}

func (s *Scheduler) cancelLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.due = time.Time{}
	s.gen++
}
