// Package alert plays the short audio cue for High and Critical threats.
package alert

import (
	"io"

	"github.com/pynezz/cybermap/internal/threat"
)

// Player plays the alert cue. Playback may fail (a muted terminal, a closed
// socket); callers never see those errors.
type Player interface {
	Play(severity threat.Severity) error
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(severity threat.Severity) error

func (f PlayerFunc) Play(severity threat.Severity) error { return f(severity) }

// MaybeAlert plays the cue when sound is enabled and the severity is High or
// Critical. It reports whether playback was attempted.
func MaybeAlert(p Player, severity threat.Severity, soundEnabled bool) bool {
	if p == nil || !soundEnabled || !severity.IsAlerting() {
		return false
	}
	_ = p.Play(severity)
	return true
}

// bell is the ASCII BEL control character.
const bell = "\a"

// Bell rings the terminal bell.
type Bell struct {
	W io.Writer
}

func (b Bell) Play(threat.Severity) error {
	_, err := io.WriteString(b.W, bell)
	return err
}

// Multi plays the cue on every player, continuing past failures.
type Multi []Player

func (m Multi) Play(severity threat.Severity) error {
	var first error
	for _, p := range m {
		if err := p.Play(severity); err != nil && first == nil {
			first = err
		}
	}
	return first
}
