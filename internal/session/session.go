// Package session drives a single Rock-Paper-Scissors game: the Session
// holds the score and phase, and the Controller moves it through
// idle → thinking → revealed → idle on cancellable timers.
package session

import (
	"fmt"

	"github.com/lox/rockpaperscissors/internal/game"
)

// Phase governs whether player input is accepted.
type Phase uint8

const (
	Idle Phase = iota
	Thinking
	Revealed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Thinking:
		return "thinking"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// MarshalText lets a Phase travel as its name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a Phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*p = Idle
	case "thinking":
		*p = Thinking
	case "revealed":
		*p = Revealed
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// Session is the state of one game. Only the owning Controller mutates it.
type Session struct {
	score game.Score
	phase Phase
}

// Score returns the current tally.
func (s *Session) Score() game.Score { return s.score }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// AcceptsInput reports whether a player action would start a round.
func (s *Session) AcceptsInput() bool { return s.phase == Idle }

func (s *Session) IncrementPlayerScore() { s.score.Player++ }

func (s *Session) IncrementComputerScore() { s.score.Computer++ }

// Apply routes a verdict to the matching increment. Draws change nothing.
func (s *Session) Apply(v game.Verdict) {
	switch v {
	case game.PlayerWins:
		s.IncrementPlayerScore()
	case game.ComputerWins:
		s.IncrementComputerScore()
	}
}

// Reset zeroes the score and returns to Idle.
func (s *Session) Reset() {
	s.score = game.Score{}
	s.phase = Idle
}
