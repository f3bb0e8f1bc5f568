// Package model defines the shared configuration and status structures for
// the restraining-bolt supervisor.
package model

// Config is the root structure loaded from configs/config.yml.
type Config struct {
	Link     LinkConfig     `yaml:"link"`
	Relay    RelayConfig    `yaml:"relay"`
	Failsafe FailsafeConfig `yaml:"failsafe"`
	Audio    AudioConfig    `yaml:"audio"`
	Xmpp     XmppConfig     `yaml:"xmpp"`
	Web      WebConfig      `yaml:"web"`
}

// LinkConfig describes the serial link to the flight controller.
type LinkConfig struct {
	Device       string `yaml:"device"`        // e.g. /dev/ttyUSB0
	Baud         int    `yaml:"baud"`          // e.g. 57600
	TargetSystem uint8  `yaml:"target_system"` // MAVLink system id of the rover
}

// RelayConfig describes the serial-attached relay board.
type RelayConfig struct {
	Device string `yaml:"device"` // empty disables the board
	Baud   int    `yaml:"baud"`
}

// FailsafeConfig carries the supervisor thresholds.
type FailsafeConfig struct {
	EmergencyStopTimeoutS int    `yaml:"emergency_stop_timeout_s"` // link silence / progress stall bound
	MinGpsFix             string `yaml:"min_gps_fix"`              // e.g. "3D_FIX"
	TickIntervalMs        int    `yaml:"tick_interval_ms"`         // evaluation cadence
}

// AudioConfig points at the voice cue files.
type AudioConfig struct {
	Dir    string `yaml:"dir"`    // directory of <cue>.wav files
	Player string `yaml:"player"` // playback command, default aplay
}

// XmppConfig configures remote failsafe alerts. Empty jid disables them.
type XmppConfig struct {
	Host     string `yaml:"host"`
	Jid      string `yaml:"jid"`
	Password string `yaml:"password"`
	To       string `yaml:"to"`
}

// WebConfig configures the status dashboard. Empty addr disables it.
type WebConfig struct {
	Addr   string `yaml:"addr"`    // e.g. ":8080"
	DBPath string `yaml:"db_path"` // bbolt event log, e.g. tmp/events.db
}

// ApplyDefaults fills absent fields with workable values.
func (c *Config) ApplyDefaults() {
	if c.Link.Baud == 0 {
		c.Link.Baud = 57600
	}
	if c.Link.TargetSystem == 0 {
		c.Link.TargetSystem = 1
	}
	if c.Relay.Baud == 0 {
		c.Relay.Baud = 9600
	}
	if c.Failsafe.EmergencyStopTimeoutS == 0 {
		c.Failsafe.EmergencyStopTimeoutS = 15
	}
	if c.Failsafe.MinGpsFix == "" {
		c.Failsafe.MinGpsFix = "3D_FIX"
	}
	if c.Failsafe.TickIntervalMs == 0 {
		c.Failsafe.TickIntervalMs = 1000
	}
	if c.Audio.Dir == "" {
		c.Audio.Dir = "sounds"
	}
	if c.Audio.Player == "" {
		c.Audio.Player = "aplay"
	}
	if c.Web.DBPath == "" {
		c.Web.DBPath = "tmp/events.db"
	}
}
