package model

// Status is the supervisor state snapshot published to the dashboard after
// every event and tick.
type Status struct {
	Mode           string `json:"mode"`
	Failed         bool   `json:"failed"`
	HeartbeatSeen  bool   `json:"heartbeat_seen"`
	LinkLost       bool   `json:"link_lost"`
	GpsLost        bool   `json:"gps_lost"`
	Stalled        bool   `json:"stalled"`
	Gps1Fix        string `json:"gps1_fix"`
	Gps2Fix        string `json:"gps2_fix"`
	BestFix        string `json:"best_fix"`
	Waypoint       uint16 `json:"waypoint"`
	DistanceKnown  bool   `json:"distance_known"`
	DistanceM      uint16 `json:"distance_m"`
	WrongDirection bool   `json:"wrong_direction"`
	WrongDirCount  int    `json:"wrong_direction_count"`
	BadFrames      uint64 `json:"bad_frames"`
	UnknownFrames  uint64 `json:"unknown_frames"`
	MissionTimeMs  uint32 `json:"mission_time_ms"`
}

// Event is one row in the persisted event log.
type Event struct {
	UnixNano int64  `json:"ts"`
	Kind     string `json:"kind"` // mode_change | failsafe | mode_request | link
	Detail   string `json:"detail"`
}
