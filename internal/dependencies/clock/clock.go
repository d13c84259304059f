package clock

import "time"

// Clock provides wall-clock time that can be mocked for testing.
// Game timers run on the host's frame clock instead, see host/timer.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time truncated to milliseconds, the resolution
// profile documents store.
func (c *SystemClock) Now() time.Time {
	return time.Now().Truncate(time.Millisecond)
}

// Func adapts a plain function to the Clock interface
type Func func() time.Time

// Now calls f
func (f Func) Now() time.Time {
	return f()
}
