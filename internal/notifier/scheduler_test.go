package notifier

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/focus"
)

type manualTimer struct {
	after   time.Duration
	fn      func()
	stopped bool
}

func (m *manualTimer) Stop() bool {
	m.stopped = true
	return true
}

func stubAfterFunc(t *testing.T) *[]*manualTimer {
	t.Helper()
	old := afterFunc
	t.Cleanup(func() { afterFunc = old })
	var timers []*manualTimer
	afterFunc = func(d time.Duration, f func()) stopper {
		mt := &manualTimer{after: d, fn: f}
		timers = append(timers, mt)
		return mt
	}
	return &timers
}

type recordingSender struct {
	mu     sync.Mutex
	titles []string
	err    error
}

func (r *recordingSender) Send(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.titles = append(r.titles, title)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

func TestScheduleAndFire(t *testing.T) {
	timers := stubAfterFunc(t)
	sender := &recordingSender{}
	s := NewScheduler(sender)

	if err := s.ScheduleExpiryNotice(focus.ExpiryNoticeDelay); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if len(*timers) != 1 || (*timers)[0].after != time.Second {
		t.Fatalf("expected one 1s timer, got %+v", *timers)
	}
	if !s.Pending() {
		t.Error("expected a pending notice")
	}

	(*timers)[0].fn()
	if sender.count() != 1 || sender.titles[0] != constants.ExpiryNoticeTitle {
		t.Errorf("expected expiry notice delivered, got %v", sender.titles)
	}
	if s.Pending() {
		t.Error("notice should no longer be pending")
	}
}

func TestRescheduleReplacesPending(t *testing.T) {
	timers := stubAfterFunc(t)
	sender := &recordingSender{}
	s := NewScheduler(sender)

	_ = s.ScheduleExpiryNotice(time.Second)
	_ = s.ScheduleExpiryNotice(time.Second)

	if !(*timers)[0].stopped {
		t.Error("first timer should be stopped")
	}
	// A late callback from the replaced timer is ignored.
	(*timers)[0].fn()
	if sender.count() != 0 {
		t.Errorf("stale timer delivered a notice")
	}
	(*timers)[1].fn()
	if sender.count() != 1 {
		t.Errorf("expected exactly one notice, got %d", sender.count())
	}
}

func TestCancel(t *testing.T) {
	timers := stubAfterFunc(t)
	sender := &recordingSender{}
	s := NewScheduler(sender)

	_ = s.ScheduleExpiryNotice(time.Second)
	s.Cancel()
	if !(*timers)[0].stopped || s.Pending() {
		t.Error("expected the pending notice to be cancelled")
	}
	(*timers)[0].fn()
	if sender.count() != 0 {
		t.Error("cancelled notice was delivered")
	}

	// Cancel with nothing pending is fine.
	s.Cancel()
}

func TestFlush(t *testing.T) {
	stubAfterFunc(t)
	sender := &recordingSender{}
	s := NewScheduler(sender)

	if err := s.Flush(); err != nil || sender.count() != 0 {
		t.Fatalf("flush with nothing pending should be a no-op, err=%v", err)
	}

	_ = s.ScheduleExpiryNotice(time.Second)
	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if sender.count() != 1 || s.Pending() {
		t.Errorf("expected one delivered notice, got %d", sender.count())
	}
}

func TestFlushLeavesFutureNotice(t *testing.T) {
	timers := stubAfterFunc(t)
	sender := &recordingSender{}
	s := NewScheduler(sender)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_ = s.ScheduleExpiryNotice(20 * time.Minute)
	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if sender.count() != 0 {
		t.Errorf("notice due in 20m was delivered early")
	}
	if !s.Pending() || (*timers)[0].stopped {
		t.Error("future notice should stay pending")
	}

	now = now.Add(20*time.Minute - 2*time.Second)
	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if sender.count() != 1 || s.Pending() {
		t.Errorf("expected the nearly due notice delivered, got %d", sender.count())
	}
}

func TestNilSender(t *testing.T) {
	s := NewScheduler(nil)
	if err := s.ScheduleExpiryNotice(time.Second); !errors.Is(err, focus.ErrSchedulingFailure) {
		t.Errorf("expected ErrSchedulingFailure, got %v", err)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	s := NewScheduler(sender)

	for i := 0; i < 3; i++ {
		err := s.Notify(constants.NudgeNoticeTitle, constants.NudgeNoticeBody)
		if !errors.Is(err, focus.ErrSchedulingFailure) {
			t.Fatalf("attempt %d: expected ErrSchedulingFailure, got %v", i, err)
		}
	}

	sender.mu.Lock()
	sender.err = nil
	sender.mu.Unlock()

	err := s.Notify(constants.NudgeNoticeTitle, constants.NudgeNoticeBody)
	if !errors.Is(err, focus.ErrSchedulingFailure) {
		t.Fatalf("expected open breaker to reject, got %v", err)
	}
	if sender.count() != 0 {
		t.Error("open breaker should not reach the sender")
	}
}
