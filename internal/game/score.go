package game

// Score is the running tally for a session.
type Score struct {
	Player   int `json:"player"`
	Computer int `json:"computer"`
}

// ApplyVerdict returns score with the winner's counter incremented. A draw
// returns score unchanged.
func ApplyVerdict(score Score, v Verdict) Score {
	switch v {
	case PlayerWins:
		score.Player++
	case ComputerWins:
		score.Computer++
	}
	return score
}
