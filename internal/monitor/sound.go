package monitor

// Sound identifies an audio cue requested from the AudioNotifier. Playback
// is fire-and-forget: the monitor never learns whether a cue was heard.
type Sound int

const (
	SoundReady Sound = iota
	SoundLinkGood
	SoundLinkLost
	SoundGpsSignalLow
	SoundWrongDirection
	SoundEmergencyStop
	SoundManualMode
	SoundAcroMode
	SoundSteeringMode
	SoundHoldMode
	SoundLoiterMode
	SoundAutoMode
	SoundRTLMode
	SoundSmartRTLMode
	SoundGuidedMode
)

// String returns a stable name used for log lines and sound file lookup.
func (s Sound) String() string {
	switch s {
	case SoundReady:
		return "ready"
	case SoundLinkGood:
		return "link_good"
	case SoundLinkLost:
		return "link_lost"
	case SoundGpsSignalLow:
		return "gps_signal_low"
	case SoundWrongDirection:
		return "wrong_direction"
	case SoundEmergencyStop:
		return "emergency_stop"
	case SoundManualMode:
		return "manual_mode"
	case SoundAcroMode:
		return "acro_mode"
	case SoundSteeringMode:
		return "steering_mode"
	case SoundHoldMode:
		return "hold_mode"
	case SoundLoiterMode:
		return "loiter_mode"
	case SoundAutoMode:
		return "auto_mode"
	case SoundRTLMode:
		return "rtl_mode"
	case SoundSmartRTLMode:
		return "smart_rtl_mode"
	case SoundGuidedMode:
		return "guided_mode"
	}
	return "unknown"
}

// AudioNotifier plays an audio cue. Calls must not block and carry no
// completion guarantee; overlapping requests are allowed.
type AudioNotifier interface {
	Play(s Sound)
}

// RelayActuator drives the two independent failsafe relays. The monitor is
// responsible for keeping the pair consistent (power ON / alarm OFF while
// armed, power OFF / alarm ON after a failsafe).
type RelayActuator interface {
	SetPower(on bool)
	SetAlarm(on bool)
}

// ModeCommander asks the flight controller to change mode. The request is
// fire-and-forget with no acknowledgment, so callers must tolerate silent
// drops and may resend the same request on every tick.
type ModeCommander interface {
	RequestMode(mode RoverMode)
}
