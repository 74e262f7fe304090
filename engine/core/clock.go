package core

import "time"

// Clock measures time since Start. A zero Clock is stopped.
type Clock struct {
	now     func() time.Time
	start   time.Time
	elapsed time.Duration
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Update refreshes the elapsed time. It has no effect on a stopped clock.
func (c *Clock) Update() {
	if !c.start.IsZero() {
		c.elapsed = c.now().Sub(c.start)
	}
}

// Start resets the elapsed time.
func (c *Clock) Start() {
	c.start = c.now()
	c.elapsed = 0
}

// Stop keeps the elapsed time.
func (c *Clock) Stop() {
	c.start = time.Time{}
}

// Elapsed returns the time between Start and the last Update, in seconds.
func (c *Clock) Elapsed() float64 {
	return c.elapsed.Seconds()
}
