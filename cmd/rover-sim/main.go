// rover-sim emulates the MAVLink side of an ArduPilot rover so the
// supervisor can be exercised on a bench without hardware. Pair it with the
// supervisor over a socat PTY pair:
//
//	socat -d -d pty,raw,echo=0,link=/tmp/fc pty,raw,echo=0,link=/tmp/bolt
//	rover-sim -device /tmp/fc -scenario stall
//
// Scenarios: nominal, gps-loss, stall, wrong-direction, link-loss.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff"

	"github.com/bitdog-io/restraining-bolt/internal/device"
	"github.com/bitdog-io/restraining-bolt/internal/mavlink"
	"github.com/bitdog-io/restraining-bolt/internal/monitor"
)

type sim struct {
	enc      *mavlink.Encoder
	scenario string

	mode     monitor.RoverMode
	fix      uint8
	distance uint16
	waypoint uint16
	second   int
}

// step sends one second's worth of telemetry.
func (s *sim) step() {
	s.second++

	switch s.scenario {
	case "gps-loss":
		// fix degrades after 10 seconds
		if s.second > 10 {
			s.fix = 1
		}
	case "stall":
		// distance freezes after 10 seconds
		if s.second <= 10 {
			s.advance()
		}
	case "wrong-direction":
		if s.second <= 10 {
			s.advance()
		} else {
			s.distance += 3
		}
	case "link-loss":
		if s.second > 10 {
			return // go silent
		}
		s.advance()
	default:
		s.advance()
	}

	if err := s.enc.EncodeHeartbeat(mavlink.Heartbeat{
		CustomMode: uint32(s.mode),
		Type:       mavlink.MavTypeGroundRover,
		Autopilot:  3,
	}); err != nil {
		log.Printf("send heartbeat: %v", err)
	}
	_ = s.enc.EncodeGpsRawInt(mavlink.GpsRawInt{FixType: s.fix, Satellites: 9})
	_ = s.enc.EncodeGps2Raw(mavlink.Gps2Raw{FixType: 0})
	_ = s.enc.EncodeMissionCurrent(s.waypoint)
	_ = s.enc.EncodeNavControllerOutput(mavlink.NavControllerOutput{WpDistance: s.distance})
}

// advance closes in on the current waypoint, rolling over to the next leg.
func (s *sim) advance() {
	if s.distance <= 5 {
		_ = s.enc.EncodeMissionItemReached(s.waypoint)
		s.waypoint++
		s.distance = 120
		return
	}
	s.distance -= 5
}

func main() {
	fs := flag.NewFlagSet("rover-sim", flag.ExitOnError)
	dev := fs.String("device", "/tmp/fc", "serial device to emit telemetry on")
	baud := fs.Int("baud", 57600, "baudrate")
	scenario := fs.String("scenario", "nominal", "nominal|gps-loss|stall|wrong-direction|link-loss")
	_ = ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	port, err := device.OpenRaw(*dev, *baud)
	if err != nil {
		log.Fatalf("open %s: %v", *dev, err)
	}
	defer func() {
		if cerr := port.Close(); cerr != nil {
			log.Printf("close port: %v", cerr)
		}
	}()

	s := &sim{
		enc:      mavlink.NewEncoder(port, 1, 1),
		scenario: *scenario,
		mode:     monitor.ModeAuto,
		fix:      3,
		distance: 120,
	}

	// honor mode changes requested by the supervisor
	go func() {
		dec := mavlink.NewDecoder(port)
		for {
			f, err := dec.Next()
			if err != nil {
				return
			}
			if f.MsgID != mavlink.MsgIDSetMode {
				continue
			}
			sm, err := mavlink.DecodeSetMode(f.Payload)
			if err != nil {
				continue
			}
			s.mode = monitor.RoverMode(sm.CustomMode)
			log.Printf("mode request honored: %s", s.mode)
		}
	}()

	log.Printf("rover-sim on %s, scenario=%s", *dev, *scenario)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			log.Println("rover-sim stopping")
			return
		case <-ticker.C:
			s.step()
		}
	}
}
