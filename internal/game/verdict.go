package game

import "fmt"

// Verdict is the outcome of a round from the player's point of view.
type Verdict uint8

const (
	Draw Verdict = iota
	PlayerWins
	ComputerWins
)

func (v Verdict) String() string {
	switch v {
	case Draw:
		return "draw"
	case PlayerWins:
		return "player"
	case ComputerWins:
		return "computer"
	default:
		return fmt.Sprintf("verdict(%d)", uint8(v))
	}
}

// ParseVerdict converts a name produced by String back into a Verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "draw":
		return Draw, nil
	case "player":
		return PlayerWins, nil
	case "computer":
		return ComputerWins, nil
	}
	return Draw, fmt.Errorf("unknown verdict %q", s)
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(text []byte) error {
	parsed, err := ParseVerdict(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Resolve decides a round. If either Choice is invalid it returns Draw
// together with an error wrapping ErrInvalidChoice; callers should log the
// error and leave the score untouched.
func Resolve(player, computer Choice) (Verdict, error) {
	if !player.Valid() || !computer.Valid() {
		return Draw, fmt.Errorf("%w: player=%s computer=%s", ErrInvalidChoice, player, computer)
	}
	if player == computer {
		return Draw, nil
	}
	if player.Beats(computer) {
		return PlayerWins, nil
	}
	return ComputerWins, nil
}

// ResultText is the sentence shown to the player once a round is revealed.
func ResultText(player, computer Choice, v Verdict) string {
	switch v {
	case PlayerWins:
		return fmt.Sprintf("You win! %s beats %s.", player, computer)
	case ComputerWins:
		return fmt.Sprintf("You lose! %s beats %s.", computer, player)
	default:
		return "It's a draw!"
	}
}
