package stream

import "time"

// Throttle is a fixed-interval sampling policy bounding how often the frame
// loop may call the external matcher. It is not a burst-capable rate
// limiter: frame production is synchronous with consumption, so single-flight
// gating is all that is needed.
type Throttle struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewThrottle creates a throttle. A nil clock uses time.Now.
func NewThrottle(interval time.Duration, now func() time.Time) *Throttle {
	if now == nil {
		now = time.Now
	}
	return &Throttle{interval: interval, now: now}
}

// ShouldFire reports whether enough wall-clock time has elapsed since the
// last firing. The first call always fires. Firing records the current time,
// so an immediate second call returns false.
func (t *Throttle) ShouldFire() bool {
	n := t.now()
	if t.last.IsZero() || n.Sub(t.last) >= t.interval {
		t.last = n
		return true
	}
	return false
}
