// Package statistics summarises a run of rounds for display.
package statistics

import (
	"fmt"
	"math"

	"github.com/lox/rockpaperscissors/internal/game"
)

// Statistics tracks the outcome of every round played in a session. Each
// round is valued +1 for a player win, -1 for a loss and 0 for a draw.
type Statistics struct {
	Rounds int
	Wins   int
	Losses int
	Draws  int
	Sum    float64
	Sum2   float64 // Sum of squares for variance calculation

	// Index 0 (NoChoice) is unused
	PlayerChoices   [4]int
	ComputerChoices [4]int

	Streak        int // positive for consecutive wins, negative for losses
	LongestStreak int
}

// Add incorporates a resolved round. Rounds with invalid choices are
// counted as draws, matching how they are scored.
func (s *Statistics) Add(player, computer game.Choice, verdict game.Verdict) {
	var value float64
	switch verdict {
	case game.PlayerWins:
		s.Wins++
		value = 1
		if s.Streak < 0 {
			s.Streak = 0
		}
		s.Streak++
		if s.Streak > s.LongestStreak {
			s.LongestStreak = s.Streak
		}
	case game.ComputerWins:
		s.Losses++
		value = -1
		if s.Streak > 0 {
			s.Streak = 0
		}
		s.Streak--
	default:
		s.Draws++
		s.Streak = 0
	}

	s.Rounds++
	s.Sum += value
	s.Sum2 += value * value

	if player.Valid() {
		s.PlayerChoices[player]++
	}
	if computer.Valid() {
		s.ComputerChoices[computer]++
	}
}

// Mean returns the average round value, between -1 and 1
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.Sum / float64(s.Rounds)
}

// Variance returns the sample variance of round values
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return math.Sqrt(s.Variance()) / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
// An interval containing zero means the player is not measurably ahead.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate returns the fraction of rounds won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// FavouriteChoice returns the player's most played choice, or NoChoice
// before the first round. Ties go to the earlier choice in game.Choices.
func (s *Statistics) FavouriteChoice() game.Choice {
	best, count := game.NoChoice, 0
	for _, c := range game.Choices {
		if s.PlayerChoices[c] > count {
			best, count = c, s.PlayerChoices[c]
		}
	}
	return best
}

// Summary renders a one-line report
func (s *Statistics) Summary() string {
	if s.Rounds == 0 {
		return "No rounds played"
	}

	summary := fmt.Sprintf("Rounds %d · W %d L %d D %d · win rate %.0f%%",
		s.Rounds, s.Wins, s.Losses, s.Draws, s.WinRate()*100)

	switch {
	case s.Streak > 1:
		summary += fmt.Sprintf(" · %d win streak", s.Streak)
	case s.Streak < -1:
		summary += fmt.Sprintf(" · %d loss streak", -s.Streak)
	}
	return summary
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Wins+s.Losses+s.Draws != s.Rounds {
		return fmt.Errorf("verdict counts (%d+%d+%d) do not match rounds (%d)",
			s.Wins, s.Losses, s.Draws, s.Rounds)
	}

	if net := float64(s.Wins - s.Losses); math.Abs(net-s.Sum) > 1e-9 {
		return fmt.Errorf("ledger mismatch: wins-losses=%.0f, sum=%.6f", net, s.Sum)
	}

	played := 0
	for _, c := range game.Choices {
		played += s.PlayerChoices[c]
	}
	if played > s.Rounds {
		return fmt.Errorf("player choices (%d) exceed rounds (%d)", played, s.Rounds)
	}

	return nil
}
