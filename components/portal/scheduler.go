package portal

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler runs delayed and periodic work against a clock so tests can
// drive time explicitly.
type Scheduler struct {
	clock clockwork.Clock
}

// NewScheduler wraps the clock; nil selects the real clock.
func NewScheduler(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{clock: clock}
}

// Now returns the scheduler clock's time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Delay blocks for d or until ctx is done.
func (s *Scheduler) Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := s.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// After runs fn once d has elapsed. The returned func cancels it.
func (s *Scheduler) After(d time.Duration, fn func()) (cancel func()) {
	timer := s.clock.AfterFunc(d, fn)
	return func() {
		timer.Stop()
	}
}

// Every runs fn on each tick until ctx is done or stop is called. stop waits
// for an in-flight run to return.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration, fn func(context.Context)) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	ticker := s.clock.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				fn(ctx)
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
