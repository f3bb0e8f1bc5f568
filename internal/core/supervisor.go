// Package core wires the failsafe monitor to its collaborators and runs the
// supervisor lifecycle: the MAVLink read loop, the evaluation ticker and the
// status/alert fan-out.
package core

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/bitdog-io/restraining-bolt/internal/mavlink"
	"github.com/bitdog-io/restraining-bolt/internal/model"
	"github.com/bitdog-io/restraining-bolt/internal/monitor"
	"github.com/bitdog-io/restraining-bolt/internal/notify"
)

// EventSink receives event-log rows. Satisfied by app.EventStore.
type EventSink interface {
	Append(ev model.Event) error
}

// SupervisorConfig collects the supervisor's construction parameters.
type SupervisorConfig struct {
	EmergencyStopTimeout time.Duration
	MinGpsFix            monitor.GpsFixType
	TickInterval         time.Duration
	TargetSystem         uint8

	// Clock overrides the mission clock; nil uses the system clock.
	Clock monitor.Clock
}

// Supervisor owns the monitor and serializes every input through one
// goroutine: decoded telemetry frames and the evaluation ticker meet in a
// single run loop, so the monitor itself needs no locks and events are
// applied strictly in arrival order.
type Supervisor struct {
	link  io.ReadWriter
	dec   *mavlink.Decoder
	enc   *mavlink.Encoder
	mon   *monitor.Monitor
	clock monitor.Clock

	targetSystem uint8
	tickInterval time.Duration

	alerts notify.Xmpp
	events EventSink
	status func(model.Status)

	frames chan mavlink.Frame
	stop   chan struct{}
	wg     sync.WaitGroup

	prevMode   monitor.RoverMode
	prevFailed bool
}

// NewSupervisor builds a supervisor over an open MAVLink byte stream.
func NewSupervisor(cfg SupervisorConfig, link io.ReadWriter, audio monitor.AudioNotifier, relay monitor.RelayActuator) *Supervisor {
	clock := cfg.Clock
	if clock == nil {
		clock = monitor.NewSystemClock()
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = time.Second
	}

	s := &Supervisor{
		link:         link,
		dec:          mavlink.NewDecoder(link),
		enc:          mavlink.NewEncoder(link, 255, 0), // GCS-style source id
		clock:        clock,
		targetSystem: cfg.TargetSystem,
		tickInterval: tick,
		frames:       make(chan mavlink.Frame, 16),
		stop:         make(chan struct{}),
		prevMode:     monitor.ModeInitializing,
	}

	mcfg := monitor.Config{
		EmergencyStopTimeoutMs: uint32(cfg.EmergencyStopTimeout.Milliseconds()),
		MinGpsFix:              cfg.MinGpsFix,
	}
	s.mon = monitor.New(mcfg, clock, audio, relay, s)
	return s
}

// SetAlerts enables XMPP alerting for failsafe transitions.
func (s *Supervisor) SetAlerts(x notify.Xmpp) { s.alerts = x }

// SetEventSink directs event-log rows to the given sink.
func (s *Supervisor) SetEventSink(sink EventSink) { s.events = sink }

// SetStatusSink registers a callback invoked with a fresh status snapshot
// after every applied event and tick. Runs on the supervisor goroutine; it
// must not block.
func (s *Supervisor) SetStatusSink(fn func(model.Status)) { s.status = fn }

// Start launches the read loop and the run loop.
func (s *Supervisor) Start() {
	s.wg.Add(1)
	go s.readLoop()
	go s.runLoop()
}

// Stop terminates the run loop and waits for it. The read loop may stay
// blocked in a link read until the link is closed; closing the link first
// lets it exit promptly.
func (s *Supervisor) Stop() {
	select {
	case <-s.stop:
		// already closed
	default:
		close(s.stop)
	}
	s.wg.Wait()
}

// readLoop pulls frames off the link and queues them for the run loop. Not
// tracked by the WaitGroup: it can only be unblocked by link activity or by
// closing the link.
func (s *Supervisor) readLoop() {
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		f, err := s.dec.Next()
		if err != nil {
			// transient on a flaky serial line; the monitor's link-loss
			// check covers prolonged silence
			time.Sleep(100 * time.Millisecond)
			continue
		}
		select {
		case s.frames <- f:
		case <-s.stop:
			return
		}
	}
}

// runLoop is the single thread of control for the monitor.
func (s *Supervisor) runLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case f := <-s.frames:
			if err := mavlink.Dispatch(f, s); err != nil {
				log.Printf("[core] dispatch msg %d: %v", f.MsgID, err)
				continue
			}
			s.afterApply()
		case <-ticker.C:
			s.mon.Tick()
			s.afterApply()
		}
	}
}

// afterApply records transitions and fans out the new status.
func (s *Supervisor) afterApply() {
	snap := s.mon.Snapshot()

	if snap.Mode != s.prevMode {
		s.record("mode_change", fmt.Sprintf("%s -> %s", s.prevMode, snap.Mode))
		s.prevMode = snap.Mode
	}
	if snap.Failed && !s.prevFailed {
		// A link-loss failsafe re-arms the heartbeat check in the same pass,
		// so the cleared flag identifies it rather than snap.LinkLost.
		detail := "failsafe triggered"
		switch {
		case !snap.HeartbeatSeen:
			detail = "failsafe triggered: MAVLink lost"
		case snap.Stalled:
			detail = "failsafe triggered: no waypoint progress"
		}
		s.record("failsafe", detail)
		s.alert(detail)
	}
	s.prevFailed = snap.Failed

	if s.status != nil {
		s.status(s.toStatus(snap))
	}
}

func (s *Supervisor) toStatus(snap monitor.Snapshot) model.Status {
	return model.Status{
		Mode:           snap.Mode.String(),
		Failed:         snap.Failed,
		HeartbeatSeen:  snap.HeartbeatSeen,
		LinkLost:       snap.LinkLost,
		GpsLost:        snap.GpsLost,
		Stalled:        snap.Stalled,
		Gps1Fix:        snap.Gps1Fix.String(),
		Gps2Fix:        snap.Gps2Fix.String(),
		BestFix:        snap.BestFix.String(),
		Waypoint:       snap.CurrentWaypoint,
		DistanceKnown:  snap.DistanceKnown,
		DistanceM:      snap.DistanceToWaypoint,
		WrongDirection: snap.WrongDirection,
		WrongDirCount:  snap.WrongDirStreak,
		BadFrames:      s.dec.BadFrames(),
		UnknownFrames:  s.dec.UnknownFrames(),
		MissionTimeMs:  s.clock.Now(),
	}
}

func (s *Supervisor) record(kind, detail string) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(model.Event{Kind: kind, Detail: detail}); err != nil {
		log.Printf("[core] event log: %v", err)
	}
}

func (s *Supervisor) alert(message string) {
	if !s.alerts.Enabled() {
		return
	}
	go func() {
		if err := s.alerts.Send("restraining-bolt: " + message); err != nil {
			log.Printf("[core] xmpp alert: %v", err)
		}
	}()
}

// RequestMode implements monitor.ModeCommander by sending SET_MODE over the
// link. Fire-and-forget: a write failure is logged and not retried, the
// monitor resends while the triggering condition holds.
func (s *Supervisor) RequestMode(mode monitor.RoverMode) {
	if err := s.enc.EncodeSetMode(s.targetSystem, uint32(mode)); err != nil {
		log.Printf("[core] request mode %s: %v", mode, err)
		return
	}
	s.record("mode_request", mode.String())
}

// --- mavlink.EventReceiver ---

// OnHeartbeat forwards a heartbeat to the monitor. Only ground-rover
// heartbeats may drive the mode machine.
func (s *Supervisor) OnHeartbeat(h mavlink.Heartbeat) {
	s.mon.OnHeartbeat(h.Type == mavlink.MavTypeGroundRover, monitor.RoverMode(h.CustomMode), h.BaseMode)
}

// OnSystemTime is decoded but deliberately unused: the mission clock is
// monotonic from process start and nothing maps the controller's boot time
// onto it. Kept as a handler so the frame is not counted as unknown.
func (s *Supervisor) OnSystemTime(mavlink.SystemTime) {}

// OnGpsRawInt records the primary receiver's fix quality.
func (s *Supervisor) OnGpsRawInt(g mavlink.GpsRawInt) {
	s.mon.OnGpsFix(monitor.GpsPrimary, monitor.GpsFixType(g.FixType))
}

// OnGps2Raw records the secondary receiver's fix quality.
func (s *Supervisor) OnGps2Raw(g mavlink.Gps2Raw) {
	s.mon.OnGpsFix(monitor.GpsSecondary, monitor.GpsFixType(g.FixType))
}

// OnMissionCurrent forwards the current waypoint sequence id.
func (s *Supervisor) OnMissionCurrent(m mavlink.MissionCurrent) {
	s.mon.OnMissionCurrent(m.Seq)
}

// OnMissionItemReached forwards a waypoint arrival.
func (s *Supervisor) OnMissionItemReached(m mavlink.MissionItemReached) {
	s.mon.OnMissionItemReached(m.Seq)
}

// OnNavControllerOutput forwards the distance to the active waypoint.
func (s *Supervisor) OnNavControllerOutput(n mavlink.NavControllerOutput) {
	s.mon.OnNavControllerOutput(n.WpDistance)
}
