package game

import "time"

// Countdown is a cancellable wait driven by an external tick source.
// It never blocks: the host advances it with the elapsed time.
type Countdown struct {
	remaining time.Duration
	running   bool
}

// Start (re)starts the countdown from d
func (c *Countdown) Start(d time.Duration) {
	c.remaining = d
	c.running = true
}

// Stop cancels the countdown
func (c *Countdown) Stop() {
	c.running = false
	c.remaining = 0
}

func (c *Countdown) Running() bool {
	return c.running
}

func (c *Countdown) Remaining() time.Duration {
	return c.remaining
}

// Advance subtracts dt and reports true exactly once, on the tick that
// reaches zero. A stopped countdown never fires.
func (c *Countdown) Advance(dt time.Duration) bool {
	if !c.running || dt < 0 {
		return false
	}

	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}

	c.remaining = 0
	c.running = false
	return true
}
