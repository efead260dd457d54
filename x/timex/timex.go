package timex

import "time"

// MicrosSinceEpoch returns t as unsigned microseconds since the Unix epoch.
// Times before the epoch clamp to zero.
func MicrosSinceEpoch(t time.Time) uint64 {
	us := t.UnixMicro()
	if us < 0 {
		return 0
	}
	return uint64(us)
}

// Ms converts a millisecond count from configuration to a Duration.
func Ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Cadence is an elapsed-time counter with a fixed threshold.
// It fires once strictly more than Every has elapsed since the last Reset.
// Not safe for concurrent use; owned by a single loop.
type Cadence struct {
	Every time.Duration
	last  time.Time
}

// NewCadence starts the counter at now.
func NewCadence(every time.Duration, now time.Time) Cadence {
	return Cadence{Every: every, last: now}
}

func (c *Cadence) Due(now time.Time) bool { return now.Sub(c.last) > c.Every }

// Reset restarts the counter. Callers reset after their work completes so
// that a slow step does not make the next check fire immediately.
func (c *Cadence) Reset(now time.Time) { c.last = now }

// Remaining is the time left until Due turns true; zero when already due.
func (c *Cadence) Remaining(now time.Time) time.Duration {
	r := c.Every - now.Sub(c.last)
	if r < 0 {
		return 0
	}
	return r
}
