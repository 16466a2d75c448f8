package clock

import "time"

// FakeClock is a manually advanced Clock for tests that assert review
// deadlines and audit timestamps against a fixed instant.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward, e.g. past a next-review deadline.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
