// Package indicator implements the timed boundary signal: a self-resetting
// activation that holds an indicator on for a fixed interval after each
// detected sentence boundary, without the relay loop ever sleeping.
package indicator

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultFlashDuration matches the firmware's 100 ms LED flash.
const DefaultFlashDuration = 100 * time.Millisecond

// DefaultTickInterval is how often the background runner checks for expiry.
const DefaultTickInterval = 10 * time.Millisecond

// Driver is the physical on/off indicator. Implementations must be safe to
// call from the signal's timer context.
type Driver interface {
	Set(on bool)
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(on bool)

func (f DriverFunc) Set(on bool) { f(on) }

// NopDriver discards all transitions. Used when no indicator hardware is
// attached.
type NopDriver struct{}

func (NopDriver) Set(bool) {}

// Signal holds the active flag and deadline for the indicator. Trigger is
// called from the polling context and Tick from the timer context; both
// fields are atomics so no lock is needed.
type Signal struct {
	driver   Driver
	duration time.Duration
	now      func() time.Time

	active   atomic.Bool
	deadline atomic.Int64 // unix nanos
}

// Option configures a Signal.
type Option func(*Signal)

// WithClock replaces the time source. Tests use this to drive expiry
// deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *Signal) { s.now = now }
}

// New creates an inactive Signal that drives the given indicator for
// duration after each Trigger. A non-positive duration uses the default.
func New(driver Driver, duration time.Duration, opts ...Option) *Signal {
	if driver == nil {
		driver = NopDriver{}
	}
	if duration <= 0 {
		duration = DefaultFlashDuration
	}
	s := &Signal{
		driver:   driver,
		duration: duration,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trigger activates the indicator and arms the deadline. Calling while
// already active restarts the window, so the indicator stays on for a full
// duration after the most recent trigger.
func (s *Signal) Trigger() {
	s.deadline.Store(s.now().Add(s.duration).UnixNano())
	if !s.active.Swap(true) {
		s.driver.Set(true)
	}
}

// Tick clears the active flag and drives the indicator off once now has
// reached the deadline. Called from the timer context; a no-op while
// inactive or before expiry.
func (s *Signal) Tick(now time.Time) {
	if !s.active.Load() {
		return
	}
	if now.UnixNano() < s.deadline.Load() {
		return
	}
	if s.active.Swap(false) {
		s.driver.Set(false)
	}
}

// IsActive reports whether the indicator is currently driven on.
func (s *Signal) IsActive() bool {
	return s.active.Load()
}

// Run ticks the signal at the given interval until the context is cancelled,
// then forces the indicator off. A non-positive interval uses the default.
func (s *Signal) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if s.active.Swap(false) {
				s.driver.Set(false)
			}
			return ctx.Err()
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}
