package statistics

import (
	"math"
	"testing"

	"github.com/lox/rockpaperscissors/internal/game"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.WinRate() != 0 {
		t.Errorf("Expected win rate of 0 for empty stats, got %f", stats.WinRate())
	}
	if stats.FavouriteChoice() != game.NoChoice {
		t.Errorf("Expected no favourite choice, got %s", stats.FavouriteChoice())
	}
	if stats.Summary() != "No rounds played" {
		t.Errorf("Unexpected summary %q", stats.Summary())
	}
}

func TestStatistics_Counts(t *testing.T) {
	stats := &Statistics{}
	stats.Add(game.Rock, game.Scissors, game.PlayerWins)
	stats.Add(game.Rock, game.Paper, game.ComputerWins)
	stats.Add(game.Paper, game.Paper, game.Draw)
	stats.Add(game.Rock, game.Scissors, game.PlayerWins)

	if stats.Rounds != 4 || stats.Wins != 2 || stats.Losses != 1 || stats.Draws != 1 {
		t.Fatalf("Unexpected counts: %+v", stats)
	}
	if stats.Mean() != 0.25 {
		t.Errorf("Expected mean of 0.25, got %f", stats.Mean())
	}
	if stats.WinRate() != 0.5 {
		t.Errorf("Expected win rate of 0.5, got %f", stats.WinRate())
	}
	if stats.FavouriteChoice() != game.Rock {
		t.Errorf("Expected rock as favourite, got %s", stats.FavouriteChoice())
	}
	if stats.ComputerChoices[game.Scissors] != 2 {
		t.Errorf("Expected computer to have played scissors twice, got %d", stats.ComputerChoices[game.Scissors])
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid statistics, got %v", err)
	}
}

func TestStatistics_Variance(t *testing.T) {
	stats := &Statistics{}
	stats.Add(game.Rock, game.Scissors, game.PlayerWins)
	stats.Add(game.Rock, game.Paper, game.ComputerWins)

	// Values +1 and -1: mean 0, sample variance 2
	if stats.Variance() != 2 {
		t.Errorf("Expected variance of 2, got %f", stats.Variance())
	}

	lo, hi := stats.ConfidenceInterval95()
	if math.Abs(lo+1.96) > 1e-9 || math.Abs(hi-1.96) > 1e-9 {
		t.Errorf("Expected interval (-1.96, 1.96), got (%f, %f)", lo, hi)
	}
}

func TestStatistics_Streaks(t *testing.T) {
	stats := &Statistics{}
	for range 3 {
		stats.Add(game.Paper, game.Rock, game.PlayerWins)
	}
	if stats.Streak != 3 || stats.LongestStreak != 3 {
		t.Errorf("Expected 3 win streak, got streak=%d longest=%d", stats.Streak, stats.LongestStreak)
	}

	stats.Add(game.Paper, game.Scissors, game.ComputerWins)
	stats.Add(game.Paper, game.Scissors, game.ComputerWins)
	if stats.Streak != -2 {
		t.Errorf("Expected 2 loss streak, got %d", stats.Streak)
	}
	if stats.LongestStreak != 3 {
		t.Errorf("Longest streak should survive losses, got %d", stats.LongestStreak)
	}

	want := "Rounds 5 · W 3 L 2 D 0 · win rate 60% · 2 loss streak"
	if stats.Summary() != want {
		t.Errorf("Expected summary %q, got %q", want, stats.Summary())
	}

	stats.Add(game.Paper, game.Paper, game.Draw)
	if stats.Streak != 0 {
		t.Errorf("A draw should end the streak, got %d", stats.Streak)
	}
}

func TestStatistics_InvalidChoices(t *testing.T) {
	stats := &Statistics{}
	stats.Add(game.NoChoice, game.Rock, game.Draw)

	if stats.Draws != 1 {
		t.Errorf("Expected invalid round to count as a draw, got %d draws", stats.Draws)
	}
	if stats.PlayerChoices[game.NoChoice] != 0 {
		t.Errorf("Invalid choices should not be tallied")
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid statistics, got %v", err)
	}
}

func TestStatistics_Validate(t *testing.T) {
	stats := &Statistics{Rounds: 2, Wins: 1}
	if err := stats.Validate(); err == nil {
		t.Error("Expected mismatch between rounds and verdicts to fail validation")
	}

	stats = &Statistics{Rounds: 1, Wins: 1, Sum: 3}
	if err := stats.Validate(); err == nil {
		t.Error("Expected ledger mismatch to fail validation")
	}
}
