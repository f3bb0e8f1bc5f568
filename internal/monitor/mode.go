// Package monitor implements the failsafe supervisor core for an ArduPilot
// ground rover. It accumulates evidence from telemetry events (heartbeat,
// waypoint progress, GPS fix quality) and, on every poll tick, decides
// whether the rover is still operating safely. When it is not, the monitor
// commands a mode change back to the flight controller, drops the power
// relay, raises the alarm relay and requests audible feedback.
package monitor

// RoverMode is the ArduPilot Rover custom mode reported in heartbeats.
type RoverMode uint32

const (
	ModeManual       RoverMode = 0
	ModeAcro         RoverMode = 1
	ModeSteering     RoverMode = 3
	ModeHold         RoverMode = 4
	ModeLoiter       RoverMode = 5
	ModeFollow       RoverMode = 6
	ModeSimple       RoverMode = 7
	ModeAuto         RoverMode = 10
	ModeRTL          RoverMode = 11
	ModeSmartRTL     RoverMode = 12
	ModeGuided       RoverMode = 15
	ModeInitializing RoverMode = 16
)

// String returns the ArduPilot name for the mode.
func (m RoverMode) String() string {
	switch m {
	case ModeManual:
		return "MANUAL"
	case ModeAcro:
		return "ACRO"
	case ModeSteering:
		return "STEERING"
	case ModeHold:
		return "HOLD"
	case ModeLoiter:
		return "LOITER"
	case ModeFollow:
		return "FOLLOW"
	case ModeSimple:
		return "SIMPLE"
	case ModeAuto:
		return "AUTO"
	case ModeRTL:
		return "RTL"
	case ModeSmartRTL:
		return "SMART_RTL"
	case ModeGuided:
		return "GUIDED"
	case ModeInitializing:
		return "INITIALIZING"
	}
	return "UNKNOWN"
}

// GpsFixType is the MAVLink GPS_FIX_TYPE enum. Values are ordered from no
// receiver at all up to the best fix, so fix quality compares with < and >.
type GpsFixType uint8

const (
	GpsFixNone     GpsFixType = 0 // no GPS connected
	GpsFixNoFix    GpsFixType = 1
	GpsFix2D       GpsFixType = 2
	GpsFix3D       GpsFixType = 3
	GpsFixDgps     GpsFixType = 4
	GpsFixRtkFloat GpsFixType = 5
	GpsFixRtkFixed GpsFixType = 6
	GpsFixStatic   GpsFixType = 7
	GpsFixPpp      GpsFixType = 8
)

// String returns the MAVLink name for the fix type.
func (f GpsFixType) String() string {
	switch f {
	case GpsFixNone:
		return "NO_GPS"
	case GpsFixNoFix:
		return "NO_FIX"
	case GpsFix2D:
		return "2D_FIX"
	case GpsFix3D:
		return "3D_FIX"
	case GpsFixDgps:
		return "DGPS"
	case GpsFixRtkFloat:
		return "RTK_FLOAT"
	case GpsFixRtkFixed:
		return "RTK_FIXED"
	case GpsFixStatic:
		return "STATIC"
	case GpsFixPpp:
		return "PPP"
	}
	return "UNKNOWN"
}

// ParseGpsFixType converts a config string such as "3D_FIX" to a fix type.
func ParseGpsFixType(s string) (GpsFixType, bool) {
	for f := GpsFixNone; f <= GpsFixPpp; f++ {
		if f.String() == s {
			return f, true
		}
	}
	return GpsFixNone, false
}

// GpsSource identifies which receiver reported a fix.
type GpsSource int

const (
	GpsPrimary GpsSource = iota
	GpsSecondary
)
