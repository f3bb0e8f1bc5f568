package mavlink

import "fmt"

// EventReceiver is the inbound surface the supervisor exposes to the link:
// one typed handler per message the monitor consumes.
type EventReceiver interface {
	OnHeartbeat(h Heartbeat)
	OnSystemTime(t SystemTime)
	OnGpsRawInt(g GpsRawInt)
	OnGps2Raw(g Gps2Raw)
	OnMissionCurrent(m MissionCurrent)
	OnMissionItemReached(m MissionItemReached)
	OnNavControllerOutput(n NavControllerOutput)
}

// Dispatch decodes a validated frame and routes it to the matching handler.
// Frames whose message id this package does not decode never reach here (the
// decoder drops them), so an unknown id is an error.
func Dispatch(f Frame, r EventReceiver) error {
	switch f.MsgID {
	case MsgIDHeartbeat:
		h, err := DecodeHeartbeat(f.Payload)
		if err != nil {
			return err
		}
		r.OnHeartbeat(h)
	case MsgIDSystemTime:
		t, err := DecodeSystemTime(f.Payload)
		if err != nil {
			return err
		}
		r.OnSystemTime(t)
	case MsgIDGpsRawInt:
		g, err := DecodeGpsRawInt(f.Payload)
		if err != nil {
			return err
		}
		r.OnGpsRawInt(g)
	case MsgIDGps2Raw:
		g, err := DecodeGps2Raw(f.Payload)
		if err != nil {
			return err
		}
		r.OnGps2Raw(g)
	case MsgIDMissionCurrent:
		m, err := DecodeMissionCurrent(f.Payload)
		if err != nil {
			return err
		}
		r.OnMissionCurrent(m)
	case MsgIDMissionItemReached:
		m, err := DecodeMissionItemReached(f.Payload)
		if err != nil {
			return err
		}
		r.OnMissionItemReached(m)
	case MsgIDNavControllerOutput:
		n, err := DecodeNavControllerOutput(f.Payload)
		if err != nil {
			return err
		}
		r.OnNavControllerOutput(n)
	default:
		return fmt.Errorf("unhandled message id %d", f.MsgID)
	}
	return nil
}
