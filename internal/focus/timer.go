package focus

import (
	"sync"
	"time"
)

// IntervalTimer calls onTick from its own goroutine once per interval.
type IntervalTimer struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewIntervalTimer returns a stopped timer.
func NewIntervalTimer(interval time.Duration) *IntervalTimer {
	return &IntervalTimer{interval: interval}
}

// Start begins ticking, replacing any previous run.
func (t *IntervalTimer) Start(onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	stop := make(chan struct{})
	t.stop = stop

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				onTick()
			}
		}
	}()
}

// Stop ends the current run. It never waits for the goroutine, so it is
// safe to call from inside onTick.
func (t *IntervalTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Running reports whether the timer has an active run.
func (t *IntervalTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
