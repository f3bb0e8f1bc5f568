package monitor

// Snapshot is a read-only view of the supervisor state plus the hazard
// conditions as they stand at the moment of the call. Used by the status
// server and the alert path; taking a snapshot has no side effects.
type Snapshot struct {
	Mode               RoverMode
	Failed             bool
	HeartbeatSeen      bool
	LinkLost           bool
	GpsLost            bool
	Stalled            bool
	Gps1Fix            GpsFixType
	Gps2Fix            GpsFixType
	BestFix            GpsFixType
	DistanceKnown      bool
	DistanceToWaypoint uint16
	CurrentWaypoint    uint16
	WrongDirection     bool
	WrongDirStreak     int
}

// Snapshot evaluates the hazard conditions without escalating.
func (m *Monitor) Snapshot() Snapshot {
	now := m.clock.Now()
	bestFix := max(m.gps1Fix, m.gps2Fix)

	return Snapshot{
		Mode:               m.mode,
		Failed:             m.failed,
		HeartbeatSeen:      m.heartbeatSeen,
		LinkLost:           m.heartbeatSeen && now-m.lastHeartbeat >= m.cfg.EmergencyStopTimeoutMs,
		GpsLost:            bestFix < m.cfg.MinGpsFix,
		Stalled:            m.lastProgress != progressDisarmed && now-m.lastProgress >= m.cfg.EmergencyStopTimeoutMs,
		Gps1Fix:            m.gps1Fix,
		Gps2Fix:            m.gps2Fix,
		BestFix:            bestFix,
		DistanceKnown:      m.lastDistance != distanceUnknown,
		DistanceToWaypoint: m.lastDistance,
		CurrentWaypoint:    m.currentWpSeq,
		WrongDirection:     m.wrongDirection,
		WrongDirStreak:     m.wrongDirCount,
	}
}
