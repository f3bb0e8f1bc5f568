package device

import (
	"testing"
	"time"
)

type fakeDevice struct {
	lines []string
}

func (f *fakeDevice) ReadLine(time.Duration) (string, error) { return "", nil }
func (f *fakeDevice) WriteLine(s string) error {
	f.lines = append(f.lines, s)
	return nil
}
func (f *fakeDevice) Close() error { return nil }

func TestRelayBoardCommands(t *testing.T) {
	dev := &fakeDevice{}
	board := NewRelayBoardWith(dev)

	board.SetPower(true)
	board.SetAlarm(false)
	board.SetPower(false)
	board.SetAlarm(true)

	want := []string{"RELAY,PWR,1", "RELAY,ALM,0", "RELAY,PWR,0", "RELAY,ALM,1"}
	if len(dev.lines) != len(want) {
		t.Fatalf("expected %d commands, got %d: %v", len(want), len(dev.lines), dev.lines)
	}
	for i, w := range want {
		if dev.lines[i] != w {
			t.Errorf("command %d: expected %q, got %q", i, w, dev.lines[i])
		}
	}
}

func TestRelayBoardAbsentDeviceIsNoop(t *testing.T) {
	board := NewRelayBoard("", 9600)

	// Must not panic or block without a physical board.
	board.SetPower(true)
	board.SetAlarm(true)
	if err := board.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
