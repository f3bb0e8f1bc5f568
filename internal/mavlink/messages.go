package mavlink

import (
	"encoding/binary"
	"fmt"
)

// Message ids used by the supervisor.
const (
	MsgIDHeartbeat           = 0
	MsgIDSystemTime          = 2
	MsgIDSetMode             = 11
	MsgIDGpsRawInt           = 24
	MsgIDMissionCurrent      = 42
	MsgIDMissionItemReached  = 46
	MsgIDNavControllerOutput = 62
	MsgIDGps2Raw             = 124
)

// MavTypeGroundRover is the MAV_TYPE reported by ArduPilot Rover.
const MavTypeGroundRover = 10

// MavModeFlagCustomModeEnabled must be set in SET_MODE for the custom mode
// field to take effect.
const MavModeFlagCustomModeEnabled = 1

// Heartbeat is HEARTBEAT(0).
type Heartbeat struct {
	CustomMode   uint32
	Type         uint8
	Autopilot    uint8
	BaseMode     uint8
	SystemStatus uint8
	Version      uint8
}

// SystemTime is SYSTEM_TIME(2).
type SystemTime struct {
	TimeUnixUsec uint64
	TimeBootMs   uint32
}

// GpsRawInt carries the fields of GPS_RAW_INT(24) the supervisor cares
// about; position fields are decoded for the status page only.
type GpsRawInt struct {
	Lat        int32
	Lon        int32
	FixType    uint8
	Satellites uint8
}

// Gps2Raw is the second receiver's GPS2_RAW(124), reduced the same way.
type Gps2Raw struct {
	Lat        int32
	Lon        int32
	FixType    uint8
	Satellites uint8
}

// MissionCurrent is MISSION_CURRENT(42).
type MissionCurrent struct {
	Seq uint16
}

// MissionItemReached is MISSION_ITEM_REACHED(46).
type MissionItemReached struct {
	Seq uint16
}

// NavControllerOutput carries wp_dist from NAV_CONTROLLER_OUTPUT(62).
type NavControllerOutput struct {
	NavBearing    int16
	TargetBearing int16
	WpDistance    uint16
}

var le = binary.LittleEndian

func payloadErr(name string, want, got int) error {
	return fmt.Errorf("%s: payload length %d, want %d", name, got, want)
}

// DecodeHeartbeat decodes HEARTBEAT(0).
func DecodeHeartbeat(p []byte) (Heartbeat, error) {
	if len(p) < 9 {
		return Heartbeat{}, payloadErr("HEARTBEAT", 9, len(p))
	}
	return Heartbeat{
		CustomMode:   le.Uint32(p[0:4]),
		Type:         p[4],
		Autopilot:    p[5],
		BaseMode:     p[6],
		SystemStatus: p[7],
		Version:      p[8],
	}, nil
}

// DecodeSystemTime decodes SYSTEM_TIME(2).
func DecodeSystemTime(p []byte) (SystemTime, error) {
	if len(p) < 12 {
		return SystemTime{}, payloadErr("SYSTEM_TIME", 12, len(p))
	}
	return SystemTime{
		TimeUnixUsec: le.Uint64(p[0:8]),
		TimeBootMs:   le.Uint32(p[8:12]),
	}, nil
}

// DecodeGpsRawInt decodes GPS_RAW_INT(24).
func DecodeGpsRawInt(p []byte) (GpsRawInt, error) {
	if len(p) < 30 {
		return GpsRawInt{}, payloadErr("GPS_RAW_INT", 30, len(p))
	}
	return GpsRawInt{
		Lat:        int32(le.Uint32(p[8:12])),
		Lon:        int32(le.Uint32(p[12:16])),
		FixType:    p[28],
		Satellites: p[29],
	}, nil
}

// DecodeGps2Raw decodes GPS2_RAW(124).
func DecodeGps2Raw(p []byte) (Gps2Raw, error) {
	if len(p) < 35 {
		return Gps2Raw{}, payloadErr("GPS2_RAW", 35, len(p))
	}
	return Gps2Raw{
		Lat:        int32(le.Uint32(p[8:12])),
		Lon:        int32(le.Uint32(p[12:16])),
		FixType:    p[32],
		Satellites: p[33],
	}, nil
}

// DecodeMissionCurrent decodes MISSION_CURRENT(42).
func DecodeMissionCurrent(p []byte) (MissionCurrent, error) {
	if len(p) < 2 {
		return MissionCurrent{}, payloadErr("MISSION_CURRENT", 2, len(p))
	}
	return MissionCurrent{Seq: le.Uint16(p[0:2])}, nil
}

// DecodeMissionItemReached decodes MISSION_ITEM_REACHED(46).
func DecodeMissionItemReached(p []byte) (MissionItemReached, error) {
	if len(p) < 2 {
		return MissionItemReached{}, payloadErr("MISSION_ITEM_REACHED", 2, len(p))
	}
	return MissionItemReached{Seq: le.Uint16(p[0:2])}, nil
}

// DecodeNavControllerOutput decodes NAV_CONTROLLER_OUTPUT(62).
func DecodeNavControllerOutput(p []byte) (NavControllerOutput, error) {
	if len(p) < 26 {
		return NavControllerOutput{}, payloadErr("NAV_CONTROLLER_OUTPUT", 26, len(p))
	}
	return NavControllerOutput{
		NavBearing:    int16(le.Uint16(p[20:22])),
		TargetBearing: int16(le.Uint16(p[22:24])),
		WpDistance:    le.Uint16(p[24:26]),
	}, nil
}

// SetMode is SET_MODE(11), the outbound mode-change command. Decoded only
// by the rover simulator.
type SetMode struct {
	CustomMode   uint32
	TargetSystem uint8
	BaseMode     uint8
}

// DecodeSetMode decodes SET_MODE(11).
func DecodeSetMode(p []byte) (SetMode, error) {
	if len(p) < 6 {
		return SetMode{}, payloadErr("SET_MODE", 6, len(p))
	}
	return SetMode{
		CustomMode:   le.Uint32(p[0:4]),
		TargetSystem: p[4],
		BaseMode:     p[5],
	}, nil
}

// EncodeSetMode sends SET_MODE(11) asking targetSystem for the given custom
// mode. Fire-and-forget; the controller does not acknowledge.
func (e *Encoder) EncodeSetMode(targetSystem uint8, customMode uint32) error {
	p := make([]byte, 6)
	le.PutUint32(p[0:4], customMode)
	p[4] = targetSystem
	p[5] = MavModeFlagCustomModeEnabled
	return e.writeFrame(MsgIDSetMode, p)
}

// EncodeHeartbeat sends HEARTBEAT(0). Used by the rover simulator.
func (e *Encoder) EncodeHeartbeat(h Heartbeat) error {
	p := make([]byte, 9)
	le.PutUint32(p[0:4], h.CustomMode)
	p[4] = h.Type
	p[5] = h.Autopilot
	p[6] = h.BaseMode
	p[7] = h.SystemStatus
	p[8] = h.Version
	return e.writeFrame(MsgIDHeartbeat, p)
}

// EncodeGpsRawInt sends GPS_RAW_INT(24). Used by the rover simulator.
func (e *Encoder) EncodeGpsRawInt(g GpsRawInt) error {
	p := make([]byte, 30)
	le.PutUint32(p[8:12], uint32(g.Lat))
	le.PutUint32(p[12:16], uint32(g.Lon))
	p[28] = g.FixType
	p[29] = g.Satellites
	return e.writeFrame(MsgIDGpsRawInt, p)
}

// EncodeGps2Raw sends GPS2_RAW(124). Used by the rover simulator.
func (e *Encoder) EncodeGps2Raw(g Gps2Raw) error {
	p := make([]byte, 35)
	le.PutUint32(p[8:12], uint32(g.Lat))
	le.PutUint32(p[12:16], uint32(g.Lon))
	p[32] = g.FixType
	p[33] = g.Satellites
	return e.writeFrame(MsgIDGps2Raw, p)
}

// EncodeMissionCurrent sends MISSION_CURRENT(42). Used by the rover simulator.
func (e *Encoder) EncodeMissionCurrent(seq uint16) error {
	p := make([]byte, 2)
	le.PutUint16(p, seq)
	return e.writeFrame(MsgIDMissionCurrent, p)
}

// EncodeMissionItemReached sends MISSION_ITEM_REACHED(46). Used by the rover
// simulator.
func (e *Encoder) EncodeMissionItemReached(seq uint16) error {
	p := make([]byte, 2)
	le.PutUint16(p, seq)
	return e.writeFrame(MsgIDMissionItemReached, p)
}

// EncodeNavControllerOutput sends NAV_CONTROLLER_OUTPUT(62). Used by the
// rover simulator.
func (e *Encoder) EncodeNavControllerOutput(n NavControllerOutput) error {
	p := make([]byte, 26)
	le.PutUint16(p[20:22], uint16(n.NavBearing))
	le.PutUint16(p[22:24], uint16(n.TargetBearing))
	le.PutUint16(p[24:26], n.WpDistance)
	return e.writeFrame(MsgIDNavControllerOutput, p)
}
