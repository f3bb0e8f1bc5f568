// Package mavlink implements the small slice of MAVLink 1.0 the supervisor
// needs: a frame reader for the telemetry stream coming from the flight
// controller, decoders for the handful of messages the monitor consumes, and
// a SET_MODE encoder for the outbound mode-change command.
package mavlink

import (
	"bufio"
	"fmt"
	"io"
)

const (
	magicV1       = 0xFE
	headerLen     = 6
	checksumLen   = 2
	maxPayloadLen = 255
)

// crcExtra values for the messages this package understands, from the
// ardupilotmega dialect. A message missing here cannot be CRC-checked and is
// skipped by the decoder.
var crcExtra = map[uint8]uint8{
	MsgIDHeartbeat:           50,
	MsgIDSystemTime:          137,
	MsgIDSetMode:             89,
	MsgIDGpsRawInt:           24,
	MsgIDMissionCurrent:      28,
	MsgIDMissionItemReached:  11,
	MsgIDNavControllerOutput: 183,
	MsgIDGps2Raw:             87,
}

// Frame is one validated MAVLink v1 frame.
type Frame struct {
	Seq     uint8
	SysID   uint8
	CompID  uint8
	MsgID   uint8
	Payload []byte
}

// x25Begin returns the initial CRC accumulator value.
func x25Begin() uint16 { return 0xFFFF }

// x25Accumulate folds one byte into the X.25 checksum.
func x25Accumulate(crc uint16, b byte) uint16 {
	tmp := uint16(b) ^ (crc & 0xFF)
	tmp ^= (tmp << 4) & 0xFF
	return (crc >> 8) ^ (tmp << 8) ^ (tmp << 3) ^ (tmp >> 4)
}

// frameCRC checks everything after the magic byte plus the per-message extra.
func frameCRC(length, seq, sysID, compID, msgID uint8, payload []byte, extra uint8) uint16 {
	crc := x25Begin()
	for _, b := range []byte{length, seq, sysID, compID, msgID} {
		crc = x25Accumulate(crc, b)
	}
	for _, b := range payload {
		crc = x25Accumulate(crc, b)
	}
	return x25Accumulate(crc, extra)
}

// Decoder reads MAVLink v1 frames from a byte stream, resynchronizing on the
// magic byte after garbage or framing errors.
type Decoder struct {
	r *bufio.Reader

	badCRC  uint64
	unknown uint64
}

// NewDecoder wraps r, typically a raw serial port.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// BadFrames reports how many frames failed their checksum.
func (d *Decoder) BadFrames() uint64 { return d.badCRC }

// UnknownFrames reports how many frames carried a message id this package
// has no CRC seed for.
func (d *Decoder) UnknownFrames() uint64 { return d.unknown }

// Next blocks until a valid frame arrives or the stream errors out. Frames
// with a bad checksum or an unknown message id are counted and skipped.
func (d *Decoder) Next() (Frame, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return Frame{}, err
		}
		if b != magicV1 {
			continue
		}

		header := make([]byte, headerLen-1)
		if _, err := io.ReadFull(d.r, header); err != nil {
			return Frame{}, err
		}
		length, seq, sysID, compID, msgID := header[0], header[1], header[2], header[3], header[4]

		body := make([]byte, int(length)+checksumLen)
		if _, err := io.ReadFull(d.r, body); err != nil {
			return Frame{}, err
		}
		payload := body[:length]
		sum := uint16(body[length]) | uint16(body[length+1])<<8

		extra, ok := crcExtra[msgID]
		if !ok {
			d.unknown++
			continue
		}
		if frameCRC(length, seq, sysID, compID, msgID, payload, extra) != sum {
			d.badCRC++
			continue
		}

		return Frame{Seq: seq, SysID: sysID, CompID: compID, MsgID: msgID, Payload: payload}, nil
	}
}

// Encoder writes MAVLink v1 frames with a running sequence number.
type Encoder struct {
	w      io.Writer
	sysID  uint8
	compID uint8
	seq    uint8
}

// NewEncoder creates an encoder that stamps frames with the given source
// system and component ids.
func NewEncoder(w io.Writer, sysID, compID uint8) *Encoder {
	return &Encoder{w: w, sysID: sysID, compID: compID}
}

// writeFrame frames and sends one message.
func (e *Encoder) writeFrame(msgID uint8, payload []byte) error {
	if len(payload) > maxPayloadLen {
		return fmt.Errorf("payload too long: %d", len(payload))
	}
	extra, ok := crcExtra[msgID]
	if !ok {
		return fmt.Errorf("no crc seed for message id %d", msgID)
	}

	length := uint8(len(payload))
	seq := e.seq
	e.seq++

	buf := make([]byte, 0, headerLen+len(payload)+checksumLen)
	buf = append(buf, magicV1, length, seq, e.sysID, e.compID, msgID)
	buf = append(buf, payload...)
	sum := frameCRC(length, seq, e.sysID, e.compID, msgID, payload, extra)
	buf = append(buf, byte(sum), byte(sum>>8))

	_, err := e.w.Write(buf)
	return err
}
