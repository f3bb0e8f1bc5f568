package device

import "log"

// Relay channel names on the board's wire protocol. The board is an
// Arduino-class module that accepts one ASCII command per line:
//
//	RELAY,<channel>,<0|1>
//
// and applies it immediately. No reply is sent, matching the supervisor's
// fire-and-forget actuation contract.
const (
	relayChannelPower = "PWR"
	relayChannelAlarm = "ALM"
)

// RelayBoard drives the power and alarm relays over a serial-attached relay
// module. It satisfies monitor.RelayActuator. A nil device degrades to a
// logging no-op so the supervisor can run headless on a bench.
type RelayBoard struct {
	dev Device
}

// NewRelayBoard opens the relay module at the given serial path. An open
// failure is logged, not fatal: the board may be unplugged during bench runs.
func NewRelayBoard(devPath string, baud int) *RelayBoard {
	if devPath == "" {
		return &RelayBoard{}
	}
	dev, err := NewSerialDevice(devPath, baud)
	if err != nil {
		log.Printf("[relay] open %s failed: %v", devPath, err)
		return &RelayBoard{}
	}
	return &RelayBoard{dev: dev}
}

// NewRelayBoardWith wires the board to an already-open Device. Used by tests.
func NewRelayBoardWith(dev Device) *RelayBoard {
	return &RelayBoard{dev: dev}
}

// SetPower switches the main power relay.
func (b *RelayBoard) SetPower(on bool) { b.set(relayChannelPower, on) }

// SetAlarm switches the alarm relay.
func (b *RelayBoard) SetAlarm(on bool) { b.set(relayChannelAlarm, on) }

func (b *RelayBoard) set(channel string, on bool) {
	state := "0"
	if on {
		state = "1"
	}
	line := "RELAY," + channel + "," + state
	if b.dev == nil {
		log.Printf("[relay] board absent, dropping %s", line)
		return
	}
	if err := b.dev.WriteLine(line); err != nil {
		log.Printf("[relay] write err: %v", err)
	}
}

// Close releases the underlying serial port.
func (b *RelayBoard) Close() error {
	if b.dev == nil {
		return nil
	}
	return b.dev.Close()
}
