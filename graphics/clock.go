package graphics

// Clock measures shader time. Pausing freezes it; playing resumes from the
// frozen value, so time stays continuous across pauses and source updates.
type Clock struct {
	playing   bool
	elapsed   float64 // accumulated while playing, up to startedAt
	startedAt float64
}

// Play resumes the clock at wall time now. Playing twice is a no-op.
func (c *Clock) Play(now float64) {
	if c.playing {
		return
	}
	c.playing = true
	c.startedAt = now
}

// Pause freezes the clock at wall time now.
func (c *Clock) Pause(now float64) {
	if !c.playing {
		return
	}
	c.elapsed += now - c.startedAt
	c.playing = false
}

// Playing reports whether the clock is running.
func (c *Clock) Playing() bool { return c.playing }

// Elapsed returns shader time at wall time now.
func (c *Clock) Elapsed(now float64) float64 {
	if !c.playing {
		return c.elapsed
	}
	return c.elapsed + now - c.startedAt
}
