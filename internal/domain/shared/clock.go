package shared

import "time"

// Clock abstracts the current time so that time windows can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock pinned to a settable instant.
type FixedClock struct {
	T time.Time
}

// Now returns the pinned time.
func (c *FixedClock) Now() time.Time {
	return c.T
}

// Advance moves the pinned time forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}
