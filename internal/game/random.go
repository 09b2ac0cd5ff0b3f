package game

// RandomSource is the subset of *rand.Rand used to pick the computer's move.
type RandomSource interface {
	IntN(n int) int
}

// RandomChoice picks one of the three Choices uniformly. It never fails:
// a nil source, a panicking source or an out-of-range result yields Rock.
func RandomChoice(src RandomSource) (choice Choice) {
	if src == nil {
		return Rock
	}

	defer func() {
		if r := recover(); r != nil {
			choice = Rock
		}
	}()

	idx := src.IntN(len(Choices))
	if idx < 0 || idx >= len(Choices) {
		return Rock
	}
	return Choices[idx]
}
