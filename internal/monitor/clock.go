package monitor

import "time"

// Clock supplies monotonic mission time in milliseconds. The 32-bit value
// wraps roughly every 49.7 days; all elapsed-time math in the monitor uses
// unsigned subtraction so a wrap between two readings still yields the
// correct difference.
type Clock interface {
	Now() uint32
}

// SystemClock derives mission time from the process start.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock whose zero point is the moment of the call.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns milliseconds since the clock was created, truncated to 32 bits.
func (c *SystemClock) Now() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
