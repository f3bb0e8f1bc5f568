package monitor

import (
	"log"
	"math"
)

const (
	// distanceUnknown marks the waypoint distance as unread for the current
	// leg. Set on construction and whenever a new leg starts.
	distanceUnknown = uint16(math.MaxUint16)

	// progressNever is the initial last-progress timestamp before any mode
	// change has been observed. Distinct from progressDisarmed: the stalled
	// check runs against it, but the rover cannot reach AUTO mode without a
	// mode change first, and that mode change disarms the timer.
	progressNever = uint32(math.MaxUint32)

	// progressDisarmed suppresses the stalled-progress check entirely. Only
	// the mode-change reset writes this value; any event that confirms
	// progress re-arms the timer with a real timestamp.
	progressDisarmed = uint32(0)
)

// Config fixes the failsafe thresholds at construction time.
type Config struct {
	// EmergencyStopTimeoutMs bounds both silence on the heartbeat link and
	// time without waypoint progress before the mission is failed.
	EmergencyStopTimeoutMs uint32

	// MinGpsFix is the worst acceptable fix quality across both receivers.
	MinGpsFix GpsFixType
}

// Monitor is the failsafe supervisor state machine. Telemetry event handlers
// mutate its state; Tick evaluates the accumulated evidence. All methods
// must be called from a single goroutine, the monitor holds no locks.
type Monitor struct {
	cfg   Config
	clock Clock
	audio AudioNotifier
	relay RelayActuator
	modes ModeCommander

	mode           RoverMode
	modeFlags      uint8
	heartbeatSeen  bool
	lastHeartbeat  uint32
	lastDistance   uint16
	lastProgress   uint32
	currentWpSeq   uint16
	wrongDirection bool
	wrongDirCount  int
	gps1Fix        GpsFixType
	gps2Fix        GpsFixType
	failed         bool

	firstHeartbeat bool
	firstTick      bool
}

// New constructs a Monitor wired to its collaborators. The rover starts in
// INITIALIZING mode with no heartbeat seen, no fix on either receiver and
// the waypoint distance unknown.
func New(cfg Config, clock Clock, audio AudioNotifier, relay RelayActuator, modes ModeCommander) *Monitor {
	return &Monitor{
		cfg:          cfg,
		clock:        clock,
		audio:        audio,
		relay:        relay,
		modes:        modes,
		mode:         ModeInitializing,
		lastDistance: distanceUnknown,
		lastProgress: progressNever,
		gps1Fix:      GpsFixNone,
		gps2Fix:      GpsFixNone,
	}
}

// OnHeartbeat records controller liveness. A heartbeat from any component
// refreshes the link timer, but only ground-rover heartbeats drive the mode
// machine: when the reported mode differs from the last known one the mode
// announcement plays and the failsafe state re-arms, even while the failed
// latch is set. This is the sole recovery path out of a failed mission.
func (m *Monitor) OnHeartbeat(rover bool, mode RoverMode, modeFlags uint8) {
	m.lastHeartbeat = m.clock.Now()
	m.heartbeatSeen = true

	if rover && mode != m.mode {
		log.Printf("[monitor] rover mode changed from %s to %s", m.mode, mode)
		m.playModeSound(mode)
		m.modeFlags = modeFlags
		m.mode = mode

		// The drive mode changed, restart everything.
		m.rearm()
	}

	if !m.firstHeartbeat {
		m.firstHeartbeat = true
		m.audio.Play(SoundLinkGood)
	}
}

// OnMissionItemReached marks a waypoint arrival as confirmed progress.
func (m *Monitor) OnMissionItemReached(seq uint16) {
	log.Printf("[monitor] destination reached: %d", seq)
	m.lastProgress = m.clock.Now()
}

// OnMissionCurrent starts a new progress leg when the target waypoint
// changes: the known distance becomes unknown and the progress timer re-arms
// so the new leg gets a full timeout window.
func (m *Monitor) OnMissionCurrent(seq uint16) {
	if seq != m.currentWpSeq {
		log.Printf("[monitor] new destination: %d", seq)
		m.currentWpSeq = seq
		m.lastDistance = distanceUnknown
		m.lastProgress = m.clock.Now()
	}
}

// OnNavControllerOutput classifies a new distance-to-waypoint reading
// against the previous one. Closing in, the first reading of a leg, and a
// steady distance all count as progress, except that holding steady while
// already flagged wrong-direction does not reset the stall timer. That
// hysteresis keeps a rover oscillating near a point while drifting away
// from feeding its own failure clock.
func (m *Monitor) OnNavControllerOutput(distance uint16) {
	progressMade := false
	now := m.clock.Now()

	if m.lastDistance == distanceUnknown {
		log.Printf("[monitor] distance to new waypoint is %d", distance)
		progressMade = true
	} else if m.lastDistance == distance {
		if !m.wrongDirection {
			progressMade = true
		}
	} else if m.lastDistance < distance {
		log.Printf("[monitor] distance to waypoint is %d and growing for %d ms", distance, now-m.lastProgress)
		m.wrongDirection = true
		m.wrongDirCount++
	} else {
		progressMade = true
	}

	m.lastDistance = distance

	if progressMade {
		m.lastProgress = now
		m.wrongDirection = false
		m.wrongDirCount = 0
	}
}

// OnGpsFix records the latest fix quality for one receiver.
func (m *Monitor) OnGpsFix(source GpsSource, fix GpsFixType) {
	switch source {
	case GpsPrimary:
		m.gps1Fix = fix
	case GpsSecondary:
		m.gps2Fix = fix
	}
}

// rearm resets the failsafe bookkeeping after an observed mode change. The
// progress timer is disarmed (not merely refreshed) so a freshly reset rover
// is never judged stalled before its first progress event, the failed latch
// clears, and the relay pair returns to the armed state.
func (m *Monitor) rearm() {
	m.lastProgress = progressDisarmed
	m.failed = false
	m.wrongDirection = false
	m.wrongDirCount = 0

	m.relay.SetPower(true)
	m.relay.SetAlarm(false)
}

// failMission latches the failsafe: power relay off, alarm relay on,
// emergency-stop cue. Only a mode-change event can clear the latch.
func (m *Monitor) failMission() {
	log.Printf("[monitor] *************** SHUTDOWN ***************")
	m.failed = true
	m.relay.SetPower(false)
	m.relay.SetAlarm(true)
	m.audio.Play(SoundEmergencyStop)
}

// playModeSound announces a newly reported mode. INITIALIZING and
// unrecognized modes stay silent.
func (m *Monitor) playModeSound(mode RoverMode) {
	switch mode {
	case ModeManual:
		m.audio.Play(SoundManualMode)
	case ModeAcro:
		m.audio.Play(SoundAcroMode)
	case ModeSteering:
		m.audio.Play(SoundSteeringMode)
	case ModeHold:
		m.audio.Play(SoundHoldMode)
	case ModeLoiter:
		m.audio.Play(SoundLoiterMode)
	case ModeAuto:
		m.audio.Play(SoundAutoMode)
	case ModeRTL:
		m.audio.Play(SoundRTLMode)
	case ModeSmartRTL:
		m.audio.Play(SoundSmartRTLMode)
	case ModeGuided:
		m.audio.Play(SoundGuidedMode)
	}
}
