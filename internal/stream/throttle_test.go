package stream

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for throttle tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestThrottleFirstCallFires(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)}
	th := NewThrottle(time.Second, clock.now)

	if !th.ShouldFire() {
		t.Fatal("first call should fire")
	}
}

func TestThrottleSuppressesWithinInterval(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)}
	th := NewThrottle(time.Second, clock.now)

	th.ShouldFire()
	if th.ShouldFire() {
		t.Fatal("immediate second call should not fire")
	}

	clock.advance(999 * time.Millisecond)
	if th.ShouldFire() {
		t.Fatal("call within the interval should not fire")
	}
}

func TestThrottleFiresAfterInterval(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)}
	th := NewThrottle(time.Second, clock.now)

	th.ShouldFire()
	clock.advance(time.Second)
	if !th.ShouldFire() {
		t.Fatal("call exactly one interval later should fire")
	}

	// Firing resets the window.
	if th.ShouldFire() {
		t.Fatal("window should reset after firing")
	}
	clock.advance(2 * time.Second)
	if !th.ShouldFire() {
		t.Fatal("call past the interval should fire")
	}
}
