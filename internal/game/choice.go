package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidChoice is returned when a value is not one of the three Choices.
var ErrInvalidChoice = errors.New("invalid choice")

// Choice is a move in a round. The zero value means "no choice" and is
// never valid.
type Choice uint8

const (
	NoChoice Choice = iota
	Rock
	Paper
	Scissors
)

// Choices lists every valid Choice in display order.
var Choices = []Choice{Rock, Paper, Scissors}

// beats maps each Choice to the Choice it defeats.
var beats = map[Choice]Choice{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

// Placeholder glyphs for the computer's slot.
const (
	GlyphUnknown  = "❓"
	GlyphThinking = "👊"
)

// Valid reports whether c is rock, paper or scissors.
func (c Choice) Valid() bool {
	_, ok := beats[c]
	return ok
}

// Beats reports whether c defeats other under the fixed beats-table.
func (c Choice) Beats(other Choice) bool {
	target, ok := beats[c]
	return ok && target == other
}

func (c Choice) String() string {
	switch c {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	default:
		return fmt.Sprintf("choice(%d)", uint8(c))
	}
}

// Glyph returns the emoji shown for c, or GlyphUnknown for invalid values.
func (c Choice) Glyph() string {
	switch c {
	case Rock:
		return "🪨"
	case Paper:
		return "📄"
	case Scissors:
		return "✂️"
	default:
		return GlyphUnknown
	}
}

// Key returns the keyboard shortcut for c.
func (c Choice) Key() rune {
	switch c {
	case Rock:
		return 'r'
	case Paper:
		return 'p'
	case Scissors:
		return 's'
	default:
		return 0
	}
}

// ParseChoice converts a case-insensitive name into a Choice.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock":
		return Rock, nil
	case "paper":
		return Paper, nil
	case "scissors":
		return Scissors, nil
	}
	return NoChoice, fmt.Errorf("%w: %q", ErrInvalidChoice, s)
}

// ChoiceForKey maps r/p/s (either case) to a Choice.
func ChoiceForKey(key rune) (Choice, bool) {
	switch unicode.ToLower(key) {
	case 'r':
		return Rock, true
	case 'p':
		return Paper, true
	case 's':
		return Scissors, true
	}
	return NoChoice, false
}

// MarshalText encodes a valid Choice by name.
func (c Choice) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChoice, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a Choice by name.
func (c *Choice) UnmarshalText(text []byte) error {
	parsed, err := ParseChoice(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
