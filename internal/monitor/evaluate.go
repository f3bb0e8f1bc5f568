package monitor

import "log"

// Tick runs one evaluation pass. The caller owns the cadence; decision
// timing is therefore independent of telemetry arrival jitter. The first
// tick ever also announces the supervisor as ready.
func (m *Monitor) Tick() {
	m.evaluate()

	if !m.firstTick {
		m.firstTick = true
		m.audio.Play(SoundReady)
	}
}

// evaluate derives the three hazard conditions from accumulated state and
// escalates while the failed latch is clear.
//
// The GPS-lost HOLD request and the HOLD-recovered AUTO request are level
// triggered on purpose: mode commands are unacknowledged and may be dropped,
// so they repeat on every tick while their condition holds.
func (m *Monitor) evaluate() {
	now := m.clock.Now()
	sinceProgress := now - m.lastProgress
	bestFix := max(m.gps1Fix, m.gps2Fix)

	isAutoMode := m.mode == ModeAuto
	isHoldMode := m.mode == ModeHold

	// The link is lost once a heartbeat has been seen and then silence
	// lasted the full emergency-stop timeout.
	linkLost := m.heartbeatSeen && now-m.lastHeartbeat >= m.cfg.EmergencyStopTimeoutMs

	gpsLost := bestFix < m.cfg.MinGpsFix

	// Stalled only while the progress timer is armed. A zero timestamp means
	// a mode change just reset the mission and no progress evidence exists
	// yet, which is not the same as progress having stopped.
	stalled := m.lastProgress != progressDisarmed && sinceProgress >= m.cfg.EmergencyStopTimeoutMs

	if m.failed {
		return
	}

	if linkLost {
		log.Printf("[monitor] MAVLink lost")
		m.failMission()

		m.heartbeatSeen = false // start looking for a heartbeat again
		m.audio.Play(SoundLinkLost)
	}

	if isAutoMode {
		if gpsLost {
			// Hold until the fix recovers. The mode change, once the rover
			// acts on it, resets the progress counters via the heartbeat
			// mode-change path.
			m.modes.RequestMode(ModeHold)
			log.Printf("[monitor] GPS lost, current fix type: %s", bestFix)
			m.audio.Play(SoundGpsSignalLow)
		} else if stalled {
			log.Printf("[monitor] no progress for %d ms", sinceProgress)
			m.failMission()
		}

		if m.wrongDirCount == 2 {
			// Announce once per streak: bumping the count past the trigger
			// value keeps further growth from replaying the sound.
			m.wrongDirCount++
			m.audio.Play(SoundWrongDirection)
		}
	} else if isHoldMode && !gpsLost {
		// Fix is good again after a GPS-induced hold, resume the mission.
		m.modes.RequestMode(ModeAuto)
	}
}
