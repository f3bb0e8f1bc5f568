package core

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bitdog-io/restraining-bolt/internal/mavlink"
	"github.com/bitdog-io/restraining-bolt/internal/model"
	"github.com/bitdog-io/restraining-bolt/internal/monitor"
)

// testLink feeds the supervisor from a pipe and captures its writes.
type testLink struct {
	r *io.PipeReader

	mu  sync.Mutex
	out bytes.Buffer
}

func (l *testLink) Read(p []byte) (int, error) { return l.r.Read(p) }

func (l *testLink) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Write(p)
}

func (l *testLink) written() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]byte(nil), l.out.Bytes()...)
}

type atomicClock struct {
	ms atomic.Uint32
}

func (c *atomicClock) Now() uint32 { return c.ms.Load() }

type nullAudio struct{}

func (nullAudio) Play(monitor.Sound) {}

type safeRelay struct {
	mu    sync.Mutex
	power bool
	alarm bool
}

func (r *safeRelay) SetPower(on bool) { r.mu.Lock(); r.power = on; r.mu.Unlock() }
func (r *safeRelay) SetAlarm(on bool) { r.mu.Lock(); r.alarm = on; r.mu.Unlock() }
func (r *safeRelay) state() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.power, r.alarm
}

type memEvents struct {
	mu   sync.Mutex
	rows []model.Event
}

func (m *memEvents) Append(ev model.Event) error {
	m.mu.Lock()
	m.rows = append(m.rows, ev)
	m.mu.Unlock()
	return nil
}

func (m *memEvents) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, r := range m.rows {
		out = append(out, r.Kind)
	}
	return out
}

type supHarness struct {
	sup    *Supervisor
	link   *testLink
	feed   *io.PipeWriter
	enc    *mavlink.Encoder
	clock  *atomicClock
	relay  *safeRelay
	events *memEvents
	status chan model.Status
}

func startSupervisor(t *testing.T) *supHarness {
	t.Helper()

	pr, pw := io.Pipe()
	link := &testLink{r: pr}
	clock := &atomicClock{}
	clock.ms.Store(1)
	relay := &safeRelay{}
	events := &memEvents{}
	status := make(chan model.Status, 256)

	sup := NewSupervisor(SupervisorConfig{
		EmergencyStopTimeout: 15 * time.Second,
		MinGpsFix:            monitor.GpsFix3D,
		TickInterval:         20 * time.Millisecond,
		TargetSystem:         1,
		Clock:                clock,
	}, link, nullAudio{}, relay)
	sup.SetEventSink(events)
	sup.SetStatusSink(func(st model.Status) {
		select {
		case status <- st:
		default:
		}
	})
	sup.Start()
	t.Cleanup(func() {
		sup.Stop()
		_ = pw.Close()
	})

	return &supHarness{
		sup:    sup,
		link:   link,
		feed:   pw,
		enc:    mavlink.NewEncoder(pw, 1, 1),
		clock:  clock,
		relay:  relay,
		events: events,
		status: status,
	}
}

// waitStatus polls published snapshots until cond holds or the deadline hits.
func (h *supHarness) waitStatus(t *testing.T, what string, cond func(model.Status) bool) model.Status {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-h.status:
			if cond(st) {
				return st
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		}
	}
}

func (h *supHarness) heartbeat(t *testing.T, mode monitor.RoverMode) {
	t.Helper()
	err := h.enc.EncodeHeartbeat(mavlink.Heartbeat{
		CustomMode: uint32(mode),
		Type:       mavlink.MavTypeGroundRover,
	})
	if err != nil {
		t.Fatalf("encode heartbeat: %v", err)
	}
}

// modeRequests decodes every SET_MODE the supervisor has written so far.
func (h *supHarness) modeRequests(t *testing.T) []uint32 {
	t.Helper()
	dec := mavlink.NewDecoder(bytes.NewReader(h.link.written()))
	var out []uint32
	for {
		f, err := dec.Next()
		if err != nil {
			return out
		}
		if f.MsgID != mavlink.MsgIDSetMode {
			continue
		}
		sm, err := mavlink.DecodeSetMode(f.Payload)
		if err != nil {
			t.Fatalf("decode set mode: %v", err)
		}
		out = append(out, sm.CustomMode)
	}
}

func TestSupervisorRequestsHoldOnGpsLoss(t *testing.T) {
	h := startSupervisor(t)

	h.heartbeat(t, monitor.ModeAuto)
	if err := h.enc.EncodeGpsRawInt(mavlink.GpsRawInt{FixType: 1}); err != nil {
		t.Fatal(err)
	}

	h.waitStatus(t, "AUTO mode with GPS lost", func(st model.Status) bool {
		return st.Mode == "AUTO" && st.GpsLost
	})

	// The HOLD request is level triggered, so at least one SET_MODE must
	// appear within a couple of tick intervals.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if reqs := h.modeRequests(t); len(reqs) > 0 {
			if reqs[0] != uint32(monitor.ModeHold) {
				t.Fatalf("expected HOLD request, got mode %d", reqs[0])
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no SET_MODE request observed")
}

func TestSupervisorFailsOnLinkLoss(t *testing.T) {
	h := startSupervisor(t)

	h.heartbeat(t, monitor.ModeManual)
	h.waitStatus(t, "heartbeat seen", func(st model.Status) bool { return st.HeartbeatSeen })

	h.clock.ms.Add(16_000)

	st := h.waitStatus(t, "failsafe latch", func(st model.Status) bool { return st.Failed })
	if st.HeartbeatSeen {
		t.Error("link-loss failsafe must re-arm the heartbeat check")
	}

	power, alarm := h.relay.state()
	if power || !alarm {
		t.Errorf("relay pair not in fail-safe state: power=%v alarm=%v", power, alarm)
	}

	kinds := h.events.kinds()
	found := false
	for _, k := range kinds {
		if k == "failsafe" {
			found = true
		}
	}
	if !found {
		t.Errorf("no failsafe event recorded, got %v", kinds)
	}
}

func TestSupervisorRecordsModeChanges(t *testing.T) {
	h := startSupervisor(t)

	h.heartbeat(t, monitor.ModeManual)
	h.waitStatus(t, "MANUAL", func(st model.Status) bool { return st.Mode == "MANUAL" })
	h.heartbeat(t, monitor.ModeAuto)
	h.waitStatus(t, "AUTO", func(st model.Status) bool { return st.Mode == "AUTO" })

	kinds := h.events.kinds()
	n := 0
	for _, k := range kinds {
		if k == "mode_change" {
			n++
		}
	}
	if n != 2 {
		t.Errorf("expected 2 mode_change events, got %d (%v)", n, kinds)
	}
}
