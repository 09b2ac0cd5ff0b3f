// Package game implements round resolution for Rock-Paper-Scissors.
//
// Everything here is pure: a round is a pair of Choices, the Verdict is a
// function of that pair, and a Score only changes through ApplyVerdict.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	computer := game.RandomChoice(rng)
//	verdict, err := game.Resolve(game.Rock, computer)
//	if err != nil {
//	    // invalid input degrades to a draw; log it and leave the score alone
//	}
//	score = game.ApplyVerdict(score, verdict)
//	text := game.ResultText(game.Rock, computer, verdict)
//
// # Beats-table
//
// Dominance is a fixed 3-cycle: rock beats scissors, scissors beats paper and
// paper beats rock. No Choice beats itself, so equal Choices always draw.
package game
