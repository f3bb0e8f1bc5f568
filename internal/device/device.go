// Package device wraps the physical serial ports the supervisor talks
// through: the raw MAVLink stream from the flight controller and the
// line-oriented relay board.
package device

import "time"

// Device is the line-oriented contract used by the relay board and the
// simulator tooling.
type Device interface {
	// ReadLine reads a single line terminated by '\n'.
	// If timeout > 0, it must return after timeout even if no data available.
	ReadLine(timeout time.Duration) (string, error)

	// WriteLine writes s followed by '\n' to the device.
	WriteLine(s string) error

	// Close closes the device and releases underlying resources.
	Close() error
}
