package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Readings that close in, hold steady or open a new leg all count as
// progress and keep the wrong-direction streak at zero.
func TestProgressCleanRun(t *testing.T) {
	h := newHarness()
	h.heartbeat(ModeAuto)

	for _, d := range []uint16{100, 100, 90} {
		h.clock.advance(1000)
		h.mon.OnNavControllerOutput(d)

		s := h.mon.Snapshot()
		assert.False(t, s.WrongDirection)
		assert.Equal(t, 0, s.WrongDirStreak)
	}

	// Every reading refreshed the progress timer, so no stall develops
	// inside the timeout window.
	h.clock.advance(testTimeoutMs - 1)
	assert.False(t, h.mon.Snapshot().Stalled)
}

func TestProgressGrowingDistance(t *testing.T) {
	h := newHarness()
	h.heartbeat(ModeAuto)

	h.mon.OnNavControllerOutput(50) // first reading of the leg
	h.mon.OnNavControllerOutput(60)
	s := h.mon.Snapshot()
	assert.True(t, s.WrongDirection)
	assert.Equal(t, 1, s.WrongDirStreak)

	h.mon.OnNavControllerOutput(70)
	s = h.mon.Snapshot()
	assert.True(t, s.WrongDirection)
	assert.Equal(t, 2, s.WrongDirStreak)

	// Closing back in clears the streak.
	h.mon.OnNavControllerOutput(40)
	s = h.mon.Snapshot()
	assert.False(t, s.WrongDirection)
	assert.Equal(t, 0, s.WrongDirStreak)
}

// A steady distance while already flagged wrong-direction must not refresh
// the progress timer: a rover drifting around a fixed radius would otherwise
// keep its own stall clock alive forever.
func TestSteadyDistanceWhileWrongDirectionIsNotProgress(t *testing.T) {
	h := newHarness()
	h.heartbeat(ModeAuto)

	h.mon.OnNavControllerOutput(50)
	h.clock.advance(1000)
	h.mon.OnNavControllerOutput(60) // wrong direction, timer stays at t0+0

	h.clock.advance(testTimeoutMs - 1000)
	h.mon.OnNavControllerOutput(60) // steady, but still flagged

	s := h.mon.Snapshot()
	assert.True(t, s.WrongDirection)
	assert.True(t, s.Stalled, "steady-while-wrong-direction must not reset the stall timer")
}

func TestSteadyDistanceWithoutFlagIsProgress(t *testing.T) {
	h := newHarness()
	h.heartbeat(ModeAuto)

	h.mon.OnNavControllerOutput(50)
	h.clock.advance(testTimeoutMs - 1)
	h.mon.OnNavControllerOutput(50) // steady and not flagged: progress

	h.clock.advance(testTimeoutMs - 1)
	assert.False(t, h.mon.Snapshot().Stalled)
}

func TestWaypointReachedRefreshesProgress(t *testing.T) {
	h := newHarness()
	h.heartbeat(ModeAuto)
	h.mon.OnMissionCurrent(3)

	h.clock.advance(testTimeoutMs - 1)
	h.mon.OnMissionItemReached(3)

	h.clock.advance(testTimeoutMs - 1)
	assert.False(t, h.mon.Snapshot().Stalled)

	h.clock.advance(1)
	assert.True(t, h.mon.Snapshot().Stalled)
}

// While the progress timer is disarmed by a mode-change reset, no amount of
// elapsed time reads as a stall.
func TestDisarmedProgressTimerNeverStalls(t *testing.T) {
	h := newHarness()
	h.heartbeat(ModeAuto)
	h.goodGps()

	h.clock.advance(10 * testTimeoutMs)
	h.heartbeat(ModeAuto) // keep the link alive
	h.mon.Tick()

	s := h.mon.Snapshot()
	assert.False(t, s.Stalled)
	assert.False(t, s.Failed)
}

// Timestamps wrap at 32 bits; elapsed-time math must survive the rollover.
func TestProgressTimerAcrossClockWrap(t *testing.T) {
	h := newHarness()
	h.clock.ms = 0xFFFFF000
	h.heartbeat(ModeAuto)
	h.mon.OnMissionCurrent(1)

	h.clock.advance(0x2000) // wraps past zero
	h.heartbeat(ModeAuto)

	s := h.mon.Snapshot()
	assert.False(t, s.Stalled, "8 seconds elapsed across the wrap, well inside the timeout")
	assert.False(t, s.LinkLost)
}
