// Package audio plays the supervisor's voice cues by spawning an external
// player process per request. Playback is fire-and-forget: the monitor never
// waits for a cue to finish and overlapping cues are allowed.
package audio

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bitdog-io/restraining-bolt/internal/monitor"
)

// Player maps monitor sounds to WAV files under a directory and plays them
// with a configurable command (aplay by default).
type Player struct {
	dir string
	cmd string
}

// NewPlayer builds a player for the given sound directory. Files are looked
// up as <dir>/<sound name>.wav.
func NewPlayer(dir, cmd string) *Player {
	if cmd == "" {
		cmd = "aplay"
	}
	return &Player{dir: dir, cmd: cmd}
}

// Play starts playback of the cue and returns immediately. A missing file or
// failed spawn is logged and dropped; there is no retry.
func (p *Player) Play(s monitor.Sound) {
	path := filepath.Join(p.dir, s.String()+".wav")
	if _, err := os.Stat(path); err != nil {
		log.Printf("[audio] %s: %v", s, err)
		return
	}

	c := exec.Command(p.cmd, path)
	if err := c.Start(); err != nil {
		log.Printf("[audio] play %s: %v", s, err)
		return
	}
	// Reap the child in the background; exit status is irrelevant.
	go func() { _ = c.Wait() }()
}

// Null is an AudioNotifier that logs cues instead of playing them, for
// headless bench runs.
type Null struct{}

// Play logs the cue.
func (Null) Play(s monitor.Sound) {
	log.Printf("[audio] cue: %s", s)
}
