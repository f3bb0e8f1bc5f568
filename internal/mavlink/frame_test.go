package mavlink

import (
	"bytes"
	"io"
	"testing"
)

func TestDecoderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 1, 1)

	if err := enc.EncodeHeartbeat(Heartbeat{CustomMode: 10, Type: MavTypeGroundRover, BaseMode: 0x59}); err != nil {
		t.Fatalf("encode heartbeat: %v", err)
	}
	if err := enc.EncodeMissionCurrent(7); err != nil {
		t.Fatalf("encode mission current: %v", err)
	}

	dec := NewDecoder(&buf)

	f, err := dec.Next()
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if f.MsgID != MsgIDHeartbeat {
		t.Fatalf("expected msg id %d, got %d", MsgIDHeartbeat, f.MsgID)
	}
	hb, err := DecodeHeartbeat(f.Payload)
	if err != nil {
		t.Fatalf("decode heartbeat: %v", err)
	}
	if hb.CustomMode != 10 || hb.Type != MavTypeGroundRover {
		t.Errorf("heartbeat fields wrong: %+v", hb)
	}

	f, err = dec.Next()
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	mc, err := DecodeMissionCurrent(f.Payload)
	if err != nil {
		t.Fatalf("decode mission current: %v", err)
	}
	if mc.Seq != 7 {
		t.Errorf("expected seq 7, got %d", mc.Seq)
	}

	if _, err := dec.Next(); err != io.EOF {
		t.Errorf("expected EOF at end of stream, got %v", err)
	}
}

func TestDecoderResyncsAfterGarbage(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x42, 0xFF, 0x13}) // line noise before the frame

	enc := NewEncoder(&buf, 1, 1)
	if err := enc.EncodeMissionItemReached(3); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := NewDecoder(&buf)
	f, err := dec.Next()
	if err != nil {
		t.Fatalf("decode after garbage: %v", err)
	}
	if f.MsgID != MsgIDMissionItemReached {
		t.Errorf("expected msg id %d, got %d", MsgIDMissionItemReached, f.MsgID)
	}
}

func TestDecoderDropsBadChecksum(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 1, 1)
	if err := enc.EncodeMissionCurrent(1); err != nil {
		t.Fatalf("encode: %v", err)
	}

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF // flip checksum high byte

	var whole bytes.Buffer
	whole.Write(corrupted)
	enc2 := NewEncoder(&whole, 1, 1)
	if err := enc2.EncodeMissionCurrent(2); err != nil {
		t.Fatalf("encode second: %v", err)
	}

	dec := NewDecoder(&whole)
	f, err := dec.Next()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	mc, _ := DecodeMissionCurrent(f.Payload)
	if mc.Seq != 2 {
		t.Errorf("expected the valid frame (seq 2), got seq %d", mc.Seq)
	}
	if dec.BadFrames() != 1 {
		t.Errorf("expected 1 bad frame counted, got %d", dec.BadFrames())
	}
}

func TestDecoderSkipsUnknownMessageID(t *testing.T) {
	// Hand-build a frame with a message id this decoder has no CRC seed for.
	raw := []byte{magicV1, 1, 0, 1, 1, 200, 0x55, 0xAA, 0xAA}

	var buf bytes.Buffer
	buf.Write(raw)
	enc := NewEncoder(&buf, 1, 1)
	if err := enc.EncodeMissionCurrent(9); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := NewDecoder(&buf)
	f, err := dec.Next()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.MsgID != MsgIDMissionCurrent {
		t.Errorf("expected mission current, got msg id %d", f.MsgID)
	}
	if dec.UnknownFrames() != 1 {
		t.Errorf("expected 1 unknown frame counted, got %d", dec.UnknownFrames())
	}
}

func TestHeartbeatKnownBytes(t *testing.T) {
	// HEARTBEAT from an ArduPilot rover in AUTO mode; field layout is the
	// MAVLink sorted order: custom_mode first, then the uint8 fields.
	payload := []byte{10, 0, 0, 0, MavTypeGroundRover, 3, 0x59, 4, 3}
	hb, err := DecodeHeartbeat(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hb.CustomMode != 10 {
		t.Errorf("custom_mode: expected 10, got %d", hb.CustomMode)
	}
	if hb.Autopilot != 3 || hb.BaseMode != 0x59 || hb.SystemStatus != 4 || hb.Version != 3 {
		t.Errorf("unexpected fields: %+v", hb)
	}
}

func TestSetModeEncoding(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, 255, 0)
	if err := enc.EncodeSetMode(1, 4); err != nil {
		t.Fatalf("encode: %v", err)
	}

	b := buf.Bytes()
	if b[0] != magicV1 || b[1] != 6 || b[5] != MsgIDSetMode {
		t.Fatalf("bad framing: % x", b)
	}
	// custom_mode=4 little-endian, target_system=1, base_mode flag set
	payload := b[6 : 6+6]
	want := []byte{4, 0, 0, 0, 1, MavModeFlagCustomModeEnabled}
	if !bytes.Equal(payload, want) {
		t.Errorf("payload: expected % x, got % x", want, payload)
	}

	// The decoder must accept its own encoder's checksum.
	dec := NewDecoder(bytes.NewReader(b))
	if _, err := dec.Next(); err != nil {
		t.Errorf("self round trip failed: %v", err)
	}
}
